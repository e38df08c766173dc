package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/AaronLay10/SliderEngine/internal/api"
	"github.com/AaronLay10/SliderEngine/internal/config"
	"github.com/AaronLay10/SliderEngine/internal/embed"
	"github.com/AaronLay10/SliderEngine/internal/events"
	"github.com/AaronLay10/SliderEngine/internal/logger"
	"github.com/AaronLay10/SliderEngine/internal/mqtt"
	"github.com/AaronLay10/SliderEngine/internal/storage"
	"github.com/AaronLay10/SliderEngine/internal/storage/backend"
	"github.com/AaronLay10/SliderEngine/internal/version"
)

func main() {
	cfgPath := flag.String("config", "", "path to slider.yaml")
	flag.Parse()

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	events.SetLogger(log)

	if err := run(cfg, log); err != nil {
		log.Error("slider engine stopped", "error", err)
		events.Emit("error", "system.error", err.Error(), nil)
		log.Sync()
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	cfg := config.Default()
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func run(cfg *config.Config, log *logger.Logger) error {
	hostname, _ := os.Hostname()
	events.Emit("info", "system.startup", "slider engine starting", map[string]interface{}{
		"version":  version.Version,
		"hostname": hostname,
		"pid":      os.Getpid(),
		"storage":  cfg.Storage.Driver,
	})

	if err := api.InitAuth(); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	api.InitTLS()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := backend.Open(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()
	api.SetStoreReady(true)

	if cfg.SeedDemo() {
		seeded, err := storage.SeedDemo(ctx, store, cfg.Server.AssetBase)
		if err != nil {
			return fmt.Errorf("seed demo slider: %w", err)
		}
		if seeded {
			events.Emit("info", "slider.seeded", "demo slider inserted", nil)
		}
	}

	embeds := embed.NewRegistry(store, embed.WithProgressFrame(cfg.ProgressFrame()))
	defer embeds.Close()

	srv := api.NewServer(store, embeds, log)

	if cfg.MQTT.Enabled {
		bridge, client, err := startMQTT(cfg, embeds, log)
		if err != nil {
			return err
		}
		defer func() {
			bridge.Stop()
			client.Disconnect()
		}()
		srv.SetBridge(bridge)
	}

	err = srv.ListenAndServe(ctx, cfg.Addr())
	events.Emit("info", "system.shutdown", "slider engine stopping", nil)
	return err
}

// startMQTT connects the broker client and wires the bridge. A broker that
// is slow to answer is only fatal when mqtt.required is set; the client
// keeps retrying in the background.
func startMQTT(cfg *config.Config, embeds *embed.Registry, log *logger.Logger) (*mqtt.Bridge, *mqtt.Client, error) {
	client := mqtt.NewClient(cfg.MQTT.URL, cfg.MQTT.ClientID)
	bridge := mqtt.NewBridge(client, mqtt.Topics{Prefix: cfg.MQTT.TopicPrefix}, embeds)
	optional := !cfg.MQTT.Required
	api.SetMQTTStatus(false, optional)

	client.OnConnect(func() {
		bridge.Reset()
		if err := bridge.Subscribe(); err != nil {
			log.Warn("mqtt subscribe failed", "error", err)
			events.Emit("error", "mqtt.error", err.Error(), map[string]interface{}{"broker": client.URL()})
			return
		}
		api.SetMQTTStatus(true, optional)
	})
	client.OnDisconnect(func(error) { api.SetMQTTStatus(false, optional) })

	log.Info("connecting to MQTT broker", "broker", client.URL())
	if err := client.Connect(); err != nil {
		var timeout *mqtt.ConnectTimeoutError
		if !errors.As(err, &timeout) || cfg.MQTT.Required {
			return nil, nil, fmt.Errorf("mqtt connect %s: %w", client.URL(), err)
		}
		log.Warn("MQTT broker not reachable yet, retrying in background", "broker", client.URL())
	}
	bridge.Start()
	return bridge, client, nil
}
