package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"SLIDER_PORT", "SLIDER_STORAGE_DRIVER", "SLIDER_STORAGE_PATH", "SLIDER_LOG_MODE", "MQTT_URL"} {
		t.Setenv(k, "")
	}
}

func TestLoad(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "slider.yaml")
	content := `version: 1
server:
  port: 9090
storage:
  driver: bolt
  path: /var/lib/slider/sliders.bolt
mqtt:
  enabled: true
  url: tcp://broker:1883
  topic_prefix: lobby
carousel:
  progress_frame_ms: 20
log:
  mode: prod
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9090 || cfg.Addr() != ":9090" {
		t.Errorf("port = %d, addr = %s", cfg.Server.Port, cfg.Addr())
	}
	if cfg.Storage.Driver != "bolt" || cfg.Storage.Path != "/var/lib/slider/sliders.bolt" {
		t.Errorf("unexpected storage: %+v", cfg.Storage)
	}
	if !cfg.MQTT.Enabled || cfg.MQTT.TopicPrefix != "lobby" || cfg.MQTT.ClientID != DefaultMQTTClientID {
		t.Errorf("unexpected mqtt: %+v", cfg.MQTT)
	}
	if cfg.ProgressFrame() != 20*time.Millisecond {
		t.Errorf("progress frame = %v", cfg.ProgressFrame())
	}
	if !cfg.SeedDemo() {
		t.Error("seed should default to true")
	}
}

func TestParseDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Parse([]byte("version: 1\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Server.Port != DefaultPort {
		t.Errorf("port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Storage.Driver != DefaultStorageDriver || cfg.Storage.Path != DefaultStoragePath {
		t.Errorf("unexpected storage: %+v", cfg.Storage)
	}
	if cfg.MQTT.Enabled {
		t.Error("mqtt should be disabled by default")
	}
	if cfg.ProgressFrame() != 50*time.Millisecond {
		t.Errorf("progress frame = %v", cfg.ProgressFrame())
	}
	if cfg.Log.Mode != "auto" {
		t.Errorf("log mode = %q", cfg.Log.Mode)
	}
}

func TestParseRejects(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad version", "version: 2\n", "unsupported slider.yaml version"},
		{"unknown driver", "version: 1\nstorage:\n  driver: mongo\n", "unknown storage.driver"},
		{"port out of range", "version: 1\nserver:\n  port: 70000\n", "server.port out of range"},
		{"malformed", "version: [\n", "parse slider.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SLIDER_PORT", "7070")
	t.Setenv("SLIDER_STORAGE_DRIVER", "MEMORY")
	t.Setenv("MQTT_URL", "tcp://localhost:1883")

	cfg, err := Parse([]byte("version: 1\nstorage:\n  driver: postgres\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Storage.Driver != "memory" {
		t.Errorf("driver = %q", cfg.Storage.Driver)
	}
	if !cfg.MQTT.Enabled || cfg.MQTT.URL != "tcp://localhost:1883" {
		t.Errorf("unexpected mqtt: %+v", cfg.MQTT)
	}

	t.Setenv("SLIDER_PORT", "eighty")
	if _, err := Parse([]byte("version: 1\n")); err == nil {
		t.Error("expected error for non-numeric SLIDER_PORT")
	}
}

func TestSeedDisabled(t *testing.T) {
	clearEnv(t)

	cfg, err := Parse([]byte("version: 1\nstorage:\n  driver: memory\n  seed: false\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.SeedDemo() {
		t.Error("seed: false should disable the demo slider")
	}
}
