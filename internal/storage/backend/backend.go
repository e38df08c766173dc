// Package backend opens the storage driver named in the configuration.
package backend

import (
	"fmt"

	"github.com/AaronLay10/SliderEngine/internal/config"
	"github.com/AaronLay10/SliderEngine/internal/storage"
	"github.com/AaronLay10/SliderEngine/internal/storage/bolt"
	"github.com/AaronLay10/SliderEngine/internal/storage/memory"
	"github.com/AaronLay10/SliderEngine/internal/storage/postgres"
	"github.com/AaronLay10/SliderEngine/internal/storage/sqlite"
)

func Open(cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Driver {
	case "postgres":
		return postgres.Open(cfg.Storage.Path)
	case "sqlite":
		return sqlite.Open(cfg.Storage.Path)
	case "bolt":
		return bolt.Open(cfg.Storage.Path)
	case "memory":
		return memory.New(), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
