package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/attitude_computer/internal/ahrs"
	"github.com/relabs-tech/attitude_computer/internal/config"
	"github.com/relabs-tech/attitude_computer/internal/gps"
	"github.com/relabs-tech/attitude_computer/internal/imu"
	"github.com/relabs-tech/attitude_computer/internal/orientation"
)

// RunConsoleMQTT subscribes to the attitude, pose, raw IMU and GPS topics
// and prints one line per message until interrupted.
func RunConsoleMQTT() error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDConsole)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	subscriptions := []struct {
		topic   string
		handler mqtt.MessageHandler
	}{
		{cfg.TopicAttitude, func(_ mqtt.Client, msg mqtt.Message) {
			var q ahrs.Quaternion
			if err := json.Unmarshal(msg.Payload(), &q); err != nil {
				log.Printf("console: attitude unmarshal error: %v", err)
				return
			}
			fmt.Printf("[QUAT]  W=%7.4f  X=%7.4f  Y=%7.4f  Z=%7.4f\n", q.W, q.X, q.Y, q.Z)
		}},
		{cfg.TopicPose, func(_ mqtt.Client, msg mqtt.Message) {
			var p orientation.Pose
			if err := json.Unmarshal(msg.Payload(), &p); err != nil {
				log.Printf("console: pose unmarshal error: %v", err)
				return
			}
			fmt.Printf("[POSE]  ROLL=%6.2f  PITCH=%6.2f  YAW=%6.2f\n", p.Roll, p.Pitch, p.Yaw)
		}},
		{cfg.TopicIMURaw, func(_ mqtt.Client, msg mqtt.Message) {
			var s imu.Raw
			if err := json.Unmarshal(msg.Payload(), &s); err != nil {
				log.Printf("console: imu unmarshal error: %v", err)
				return
			}
			fmt.Printf("[IMU ]  ax=%6d ay=%6d az=%6d  gx=%6d gy=%6d gz=%6d\n",
				s.Ax, s.Ay, s.Az, s.Gx, s.Gy, s.Gz)
		}},
		{cfg.TopicGPS, func(_ mqtt.Client, msg mqtt.Message) {
			var f gps.Fix
			if err := json.Unmarshal(msg.Payload(), &f); err != nil {
				log.Printf("console: gps unmarshal error: %v", err)
				return
			}
			fmt.Printf("[GPS ]  time=%s date=%s lat=%.6f lon=%.6f speed=%.1fkn course=%.1f° validity=%s\n",
				f.Time, f.Date, f.Latitude, f.Longitude, f.SpeedKnots, f.CourseDeg, f.Validity)
		}},
	}

	for _, sub := range subscriptions {
		token := client.Subscribe(sub.topic, 0, sub.handler)
		token.Wait()
		if token.Error() != nil {
			return token.Error()
		}
		log.Printf("console: subscribed to %s", sub.topic)
	}

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}
