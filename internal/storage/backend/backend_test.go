package backend

import (
	"path/filepath"
	"testing"

	"github.com/AaronLay10/SliderEngine/internal/config"
)

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	for _, driver := range []string{"memory", "sqlite", "bolt"} {
		t.Run(driver, func(t *testing.T) {
			cfg := config.Default()
			cfg.Storage.Driver = driver
			cfg.Storage.Path = filepath.Join(dir, driver+".db")

			st, err := Open(cfg)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer st.Close()
		})
	}

	cfg := config.Default()
	cfg.Storage.Driver = "mongo"
	if _, err := Open(cfg); err == nil {
		t.Error("expected error for unknown driver")
	}
}
