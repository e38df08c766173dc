// Package postgres stores sliders in Postgres through lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	_ "github.com/lib/pq"

	"github.com/AaronLay10/SliderEngine/internal/config"
	"github.com/AaronLay10/SliderEngine/internal/slider"
	"github.com/AaronLay10/SliderEngine/internal/storage"
)

type Store struct {
	db *sql.DB
}

// DSN builds a connection string from PGHOST, PGPORT, PGUSER, PGDATABASE
// and PGPASSWORD (or PGPASSWORD_FILE).
func DSN() (string, error) {
	host := getEnv("PGHOST", "127.0.0.1")
	port := getEnv("PGPORT", "5432")
	user := getEnv("PGUSER", "slider")
	dbname := getEnv("PGDATABASE", "slider")
	sslmode := getEnv("PGSSLMODE", "disable")
	password, err := config.ResolveSecret("PGPASSWORD")
	if err != nil {
		return "", err
	}

	if password != "" {
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			host, port, user, password, dbname, sslmode), nil
	}
	return fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=%s",
		host, port, user, dbname, sslmode), nil
}

// Open connects using dsn, or DSN() when dsn is empty, and creates the
// sliders table.
func Open(dsn string) (*Store, error) {
	if dsn == "" {
		var err error
		if dsn, err = DSN(); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	st := &Store{db: db}
	if err := st.createTable(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create sliders table: %w", err)
	}
	return st, nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func (s *Store) createTable() error {
	query := `
		CREATE TABLE IF NOT EXISTS ims_sliders (
			id           BIGSERIAL PRIMARY KEY,
			name         TEXT NOT NULL,
			slides       JSONB NOT NULL,
			settings     JSONB NOT NULL,
			created_date TIMESTAMPTZ NOT NULL,
			updated_date TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_ims_sliders_updated ON ims_sliders(updated_date DESC);
	`
	_, err := s.db.Exec(query)
	return err
}

const selectColumns = `SELECT id, name, slides, settings, created_date, updated_date FROM ims_sliders`

func (s *Store) Get(ctx context.Context, id int64) (slider.Slider, error) {
	rec, err := scan(s.db.QueryRowContext(ctx, selectColumns+` WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return slider.Slider{}, storage.ErrNotFound
	}
	return rec, err
}

func (s *Store) List(ctx context.Context) ([]slider.Slider, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY updated_date DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []slider.Slider
	for rows.Next() {
		rec, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) Create(ctx context.Context, rec slider.Slider) (slider.Slider, error) {
	slidesJSON, settingsJSON, err := slider.EncodeDocuments(rec.Slides, rec.Settings)
	if err != nil {
		return slider.Slider{}, err
	}
	now := storage.Timestamp()

	query := `
		INSERT INTO ims_sliders (name, slides, settings, created_date, updated_date)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING id
	`
	if err := s.db.QueryRowContext(ctx, query, rec.Name, string(slidesJSON), string(settingsJSON), now).Scan(&rec.ID); err != nil {
		return slider.Slider{}, fmt.Errorf("failed to insert slider: %w", err)
	}
	rec.CreatedAt = now
	rec.UpdatedAt = now
	return rec, nil
}

func (s *Store) Update(ctx context.Context, rec slider.Slider) (slider.Slider, error) {
	slidesJSON, settingsJSON, err := slider.EncodeDocuments(rec.Slides, rec.Settings)
	if err != nil {
		return slider.Slider{}, err
	}

	query := `
		UPDATE ims_sliders SET name = $1, slides = $2, settings = $3, updated_date = $4
		WHERE id = $5
		RETURNING created_date
	`
	err = s.db.QueryRowContext(ctx, query, rec.Name, string(slidesJSON), string(settingsJSON), storage.Timestamp(), rec.ID).Scan(&rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return slider.Slider{}, storage.ErrNotFound
	}
	if err != nil {
		return slider.Slider{}, fmt.Errorf("failed to update slider: %w", err)
	}
	return s.Get(ctx, rec.ID)
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM ims_sliders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete slider: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ims_sliders`).Scan(&n)
	return n, err
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scan(row scanner) (slider.Slider, error) {
	var rec slider.Slider
	var slidesJSON, settingsJSON []byte
	if err := row.Scan(&rec.ID, &rec.Name, &slidesJSON, &settingsJSON, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return slider.Slider{}, err
	}

	var err error
	rec.Slides, rec.Settings, err = slider.DecodeDocuments(slidesJSON, settingsJSON)
	if err != nil {
		return slider.Slider{}, fmt.Errorf("slider %d: %w", rec.ID, err)
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	rec.UpdatedAt = rec.UpdatedAt.UTC()
	return rec, nil
}
