package app

import (
	"encoding/json"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/attitude_computer/internal/ahrs"
	"github.com/relabs-tech/attitude_computer/internal/config"
	"github.com/relabs-tech/attitude_computer/internal/imu"
	"github.com/relabs-tech/attitude_computer/internal/orientation"
	"github.com/relabs-tech/attitude_computer/internal/sensors"
)

// RunAttitudeProducer reads the IMU on a fixed tick, fuses each sample
// through the Madgwick filter, and publishes the orientation quaternion,
// the derived pose, the raw sample and the barometer reading over MQTT.
func RunAttitudeProducer() error {
	log.Println("starting attitude-computer producer")

	cfg := config.Get()

	// --- 1) Initialize the IMU ---
	src, err := sensors.NewIMUSource()
	if err != nil {
		return err
	}
	scale := imu.ScaleForRanges(cfg.IMUAccelRange, cfg.IMUGyroRange)

	// One filter per sensor stream; only this loop touches it.
	filter := ahrs.New(cfg.SamplePeriod(), cfg.FilterBeta)
	log.Printf("producer: filter samplePeriod=%gs beta=%g", cfg.SamplePeriod(), cfg.FilterBeta)

	// --- 2) Connect to MQTT ---
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDProducer)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Printf("producer: MQTT connect error: %v", token.Error())
		return token.Error()
	}
	defer client.Disconnect(250)

	log.Println("producer: connected to MQTT, starting publish loop")

	// --- 3) Sample, fuse, publish ---
	ticker := time.NewTicker(time.Duration(cfg.IMUSampleInterval) * time.Millisecond)
	defer ticker.Stop()

	lastLog := time.Now()

	for t := range ticker.C {
		raw, err := src.ReadRaw()
		if err != nil {
			log.Printf("producer: IMU read error: %v", err)
			continue
		}
		sample := raw.ToSample(scale)

		q := filter.Update(sample.Gyro, sample.Accel)
		pose := orientation.PoseFromQuaternion(q)

		publishJSON(client, cfg.TopicAttitude, q)
		publishJSON(client, cfg.TopicPose, pose)
		publishJSON(client, cfg.TopicIMURaw, raw)

		if envSample, err := sensors.ReadEnv(); err != nil {
			log.Printf("producer: env read error: %v", err)
		} else {
			publishJSON(client, cfg.TopicEnv, envSample)
		}

		if t.Sub(lastLog) >= time.Duration(cfg.ConsoleLogInterval)*time.Millisecond {
			lastLog = t
			log.Printf("producer: q=(%.4f, %.4f, %.4f, %.4f) pose R=%.2f P=%.2f Y=%.2f | accel ax=%d ay=%d az=%d | gyro gx=%d gy=%d gz=%d",
				q.W, q.X, q.Y, q.Z,
				pose.Roll, pose.Pitch, pose.Yaw,
				raw.Ax, raw.Ay, raw.Az,
				raw.Gx, raw.Gy, raw.Gz,
			)
		}
	}
	return nil
}

// publishJSON marshals v and publishes it retained on topic; failures are
// logged and the loop keeps going.
func publishJSON(client mqtt.Client, topic string, v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		log.Printf("producer: json marshal error (%s): %v", topic, err)
		return
	}
	if token := client.Publish(topic, 0, true, payload); token.Wait() && token.Error() != nil {
		log.Printf("producer: MQTT publish error (%s): %v", topic, token.Error())
	}
}
