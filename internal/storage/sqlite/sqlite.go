// Package sqlite stores sliders in a SQLite file through mattn/go-sqlite3.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/AaronLay10/SliderEngine/internal/slider"
	"github.com/AaronLay10/SliderEngine/internal/storage"
)

// Fixed-width so that text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000Z"

type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path. ":memory:" gives a private
// in-memory database.
func Open(path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = path + "?_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// One connection keeps ":memory:" a single database.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite: %w", err)
	}

	st := &Store{db: db}
	if err := st.createTable(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create sliders table: %w", err)
	}
	return st, nil
}

func (s *Store) createTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS sliders (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		name          TEXT NOT NULL,
		slides        TEXT NOT NULL,
		settings      TEXT NOT NULL,
		created_date  TEXT NOT NULL,
		updated_date  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sliders_updated ON sliders(updated_date DESC);`
	_, err := s.db.Exec(query)
	return err
}

func (s *Store) Get(ctx context.Context, id int64) (slider.Slider, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, slides, settings, created_date, updated_date FROM sliders WHERE id = ?`, id)
	rec, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return slider.Slider{}, storage.ErrNotFound
	}
	return rec, err
}

func (s *Store) List(ctx context.Context) ([]slider.Slider, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, slides, settings, created_date, updated_date FROM sliders ORDER BY updated_date DESC, id DESC`)
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
	stamp := now.Format(timeLayout)

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO sliders (name, slides, settings, created_date, updated_date) VALUES (?, ?, ?, ?, ?)`,
		rec.Name, string(slidesJSON), string(settingsJSON), stamp, stamp)
	if err != nil {
		return slider.Slider{}, fmt.Errorf("failed to insert slider: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return slider.Slider{}, err
	}
	rec.ID = id
	rec.CreatedAt = now
	rec.UpdatedAt = now
	return rec, nil
}

func (s *Store) Update(ctx context.Context, rec slider.Slider) (slider.Slider, error) {
	slidesJSON, settingsJSON, err := slider.EncodeDocuments(rec.Slides, rec.Settings)
	if err != nil {
		return slider.Slider{}, err
	}
	now := storage.Timestamp()

	res, err := s.db.ExecContext(ctx,
		`UPDATE sliders SET name = ?, slides = ?, settings = ?, updated_date = ? WHERE id = ?`,
		rec.Name, string(slidesJSON), string(settingsJSON), now.Format(timeLayout), rec.ID)
	if err != nil {
		return slider.Slider{}, fmt.Errorf("failed to update slider: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return slider.Slider{}, err
	} else if n == 0 {
		return slider.Slider{}, storage.ErrNotFound
	}
	return s.Get(ctx, rec.ID)
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sliders WHERE id = ?`, id)
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
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sliders`).Scan(&n)
	return n, err
}

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
	var (
		rec                    slider.Slider
		slidesJSON, settings   string
		createdDate, updatedAt string
	)
	if err := row.Scan(&rec.ID, &rec.Name, &slidesJSON, &settings, &createdDate, &updatedAt); err != nil {
		return slider.Slider{}, err
	}

	var err error
	rec.Slides, rec.Settings, err = slider.DecodeDocuments([]byte(slidesJSON), []byte(settings))
	if err != nil {
		return slider.Slider{}, fmt.Errorf("slider %d: %w", rec.ID, err)
	}
	if rec.CreatedAt, err = time.Parse(timeLayout, createdDate); err != nil {
		return slider.Slider{}, fmt.Errorf("slider %d: bad created_date: %w", rec.ID, err)
	}
	if rec.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return slider.Slider{}, fmt.Errorf("slider %d: bad updated_date: %w", rec.ID, err)
	}
	return rec, nil
}
