package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "attitude_config.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

const validConfig = `# test configuration
MQTT_BROKER=tcp://localhost:1883
MQTT_CLIENT_ID_PRODUCER=attitude-producer

TOPIC_ATTITUDE=attitude/quaternion
TOPIC_POSE=attitude/pose

IMU_SPI_DEVICE=/dev/spidev6.0
IMU_CS_PIN=18
IMU_ACCEL_RANGE=1
IMU_GYRO_RANGE=2

FILTER_BETA=0.05

GPS_SERIAL_PORT=/dev/serial0
GPS_BAUD_RATE=9600

IMU_SAMPLE_INTERVAL=10
CONSOLE_LOG_INTERVAL=500

WEB_SERVER_PORT=8080
DISPLAY_UPDATE_INTERVAL=250
`

func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.MQTTBroker != "tcp://localhost:1883" {
		t.Errorf("MQTTBroker: got %q", cfg.MQTTBroker)
	}
	if cfg.TopicAttitude != "attitude/quaternion" {
		t.Errorf("TopicAttitude: got %q", cfg.TopicAttitude)
	}
	if cfg.IMUAccelRange != 1 || cfg.IMUGyroRange != 2 {
		t.Errorf("ranges: got accel %d gyro %d, want 1 and 2", cfg.IMUAccelRange, cfg.IMUGyroRange)
	}
	if cfg.FilterBeta != 0.05 {
		t.Errorf("FilterBeta: got %g, want 0.05", cfg.FilterBeta)
	}
	if cfg.DisplayUpdateInterval != 250 {
		t.Errorf("DisplayUpdateInterval: got %d, want 250", cfg.DisplayUpdateInterval)
	}
}

func TestSamplePeriod(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// No FILTER_SAMPLE_PERIOD: derived from the 10 ms IMU interval.
	if got := cfg.SamplePeriod(); got != 0.01 {
		t.Errorf("SamplePeriod: got %g, want 0.01", got)
	}

	cfg, err = Load(writeConfig(t, validConfig+"FILTER_SAMPLE_PERIOD=0.02\n"))
	if err != nil {
		t.Fatalf("Load with override: %v", err)
	}
	if got := cfg.SamplePeriod(); got != 0.02 {
		t.Errorf("SamplePeriod override: got %g, want 0.02", got)
	}
}

func TestLoadDefaultsBeta(t *testing.T) {
	content := strings.Replace(validConfig, "FILTER_BETA=0.05\n", "", 1)
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.FilterBeta != 0.1 {
		t.Errorf("FilterBeta default: got %g, want 0.1", cfg.FilterBeta)
	}
}

func TestLoadRejectsBadInput(t *testing.T) {
	cases := []struct {
		name, mutation string
	}{
		{"unknown key", "NO_SUCH_KEY=1\n"},
		{"accel range out of bounds", "IMU_ACCEL_RANGE=4\n"},
		{"negative beta", "FILTER_BETA=-1\n"},
		{"malformed line", "JUSTAKEY\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, validConfig+tc.mutation)); err == nil {
				t.Error("Load accepted invalid config")
			}
		})
	}
}

func TestLoadRequiresBroker(t *testing.T) {
	content := strings.Replace(validConfig, "MQTT_BROKER=tcp://localhost:1883\n", "", 1)
	if _, err := Load(writeConfig(t, content)); err == nil {
		t.Error("Load accepted config without MQTT_BROKER")
	}
}
