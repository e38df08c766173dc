// Package config loads slider.yaml and resolves environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPort            = 8080
	DefaultStorageDriver   = "sqlite"
	DefaultStoragePath     = "sliders.db"
	DefaultTopicPrefix     = "slider"
	DefaultMQTTClientID    = "slider-engine"
	DefaultProgressFrameMS = 50
)

var storageDrivers = map[string]struct{}{
	"postgres": {},
	"sqlite":   {},
	"bolt":     {},
	"memory":   {},
}

type Config struct {
	Version int `yaml:"version"`
	Server  struct {
		Port      int    `yaml:"port"`
		AssetBase string `yaml:"asset_base"`
	} `yaml:"server"`
	Storage struct {
		Driver string `yaml:"driver"`
		Path   string `yaml:"path"`
		Seed   *bool  `yaml:"seed"`
	} `yaml:"storage"`
	MQTT struct {
		Enabled     bool   `yaml:"enabled"`
		URL         string `yaml:"url"`
		ClientID    string `yaml:"client_id"`
		TopicPrefix string `yaml:"topic_prefix"`
		Required    bool   `yaml:"required"`
	} `yaml:"mqtt"`
	Carousel struct {
		ProgressFrameMS int `yaml:"progress_frame_ms"`
	} `yaml:"carousel"`
	Log struct {
		Mode string `yaml:"mode"`
	} `yaml:"log"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{Version: 1}
	cfg.applyDefaults()
	return cfg
}

// Load reads path, applies defaults and environment overrides, and
// validates the result.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

// Parse is Load without the file read.
func Parse(b []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse slider.yaml: %w", err)
	}

	if cfg.Version != 1 {
		return nil, fmt.Errorf("unsupported slider.yaml version: %d", cfg.Version)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = DefaultStorageDriver
	}
	if c.Storage.Path == "" && (c.Storage.Driver == "sqlite" || c.Storage.Driver == "bolt") {
		c.Storage.Path = DefaultStoragePath
	}
	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = DefaultMQTTClientID
	}
	if c.MQTT.TopicPrefix == "" {
		c.MQTT.TopicPrefix = DefaultTopicPrefix
	}
	if c.Carousel.ProgressFrameMS == 0 {
		c.Carousel.ProgressFrameMS = DefaultProgressFrameMS
	}
	if c.Log.Mode == "" {
		c.Log.Mode = "auto"
	}
}

// ApplyEnv overlays SLIDER_PORT, SLIDER_STORAGE_DRIVER, SLIDER_STORAGE_PATH,
// SLIDER_LOG_MODE and MQTT_URL. A non-empty MQTT_URL enables the bridge.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("SLIDER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SLIDER_PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("SLIDER_STORAGE_DRIVER"); v != "" {
		c.Storage.Driver = strings.ToLower(v)
	}
	if v := os.Getenv("SLIDER_STORAGE_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("SLIDER_LOG_MODE"); v != "" {
		c.Log.Mode = v
	}
	if v := os.Getenv("MQTT_URL"); v != "" {
		c.MQTT.URL = v
		c.MQTT.Enabled = true
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if _, ok := storageDrivers[c.Storage.Driver]; !ok {
		return fmt.Errorf("unknown storage.driver: %q", c.Storage.Driver)
	}
	if (c.Storage.Driver == "sqlite" || c.Storage.Driver == "bolt") && c.Storage.Path == "" {
		return fmt.Errorf("storage.path required for driver %s", c.Storage.Driver)
	}
	if c.Carousel.ProgressFrameMS < 0 {
		return fmt.Errorf("carousel.progress_frame_ms must be positive: %d", c.Carousel.ProgressFrameMS)
	}
	return nil
}

// SeedDemo reports whether an empty store gets the demo slider. Defaults to
// true.
func (c *Config) SeedDemo() bool {
	return c.Storage.Seed == nil || *c.Storage.Seed
}

func (c *Config) ProgressFrame() time.Duration {
	return time.Duration(c.Carousel.ProgressFrameMS) * time.Millisecond
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
