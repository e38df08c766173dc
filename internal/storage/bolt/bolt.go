// Package bolt stores sliders in a bbolt file, one JSON record per key.
package bolt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/AaronLay10/SliderEngine/internal/slider"
	"github.com/AaronLay10/SliderEngine/internal/storage"
)

const bucketSliders = "sliders"

// record is the stored value. Slides and settings stay raw so that the
// documents match the other drivers byte for byte.
type record struct {
	Name      string          `json:"name"`
	Slides    json.RawMessage `json:"slides"`
	Settings  json.RawMessage `json:"settings"`
	CreatedAt time.Time       `json:"created_date"`
	UpdatedAt time.Time       `json:"updated_date"`
}

type Store struct {
	db *bolt.DB
}

func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketSliders))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create sliders bucket: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(_ context.Context, id int64) (slider.Slider, error) {
	var rec slider.Slider
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketSliders)).Get(marshalID(id))
		if v == nil {
			return storage.ErrNotFound
		}
		var err error
		rec, err = decode(id, v)
		return err
	})
	return rec, err
}

func (s *Store) List(_ context.Context) ([]slider.Slider, error) {
	var out []slider.Slider
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketSliders)).ForEach(func(k, v []byte) error {
			rec, err := decode(unmarshalID(k), v)
			if err != nil {
				return err
			}
			out = append(out, rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	storage.SortByUpdated(out)
	return out, nil
}

func (s *Store) Create(_ context.Context, rec slider.Slider) (slider.Slider, error) {
	now := storage.Timestamp()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketSliders))
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		rec.ID = int64(seq)
		v, err := encode(rec)
		if err != nil {
			return err
		}
		return b.Put(marshalID(rec.ID), v)
	})
	if err != nil {
		return slider.Slider{}, fmt.Errorf("failed to insert slider: %w", err)
	}
	return rec, nil
}

func (s *Store) Update(_ context.Context, rec slider.Slider) (slider.Slider, error) {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketSliders))
		old := b.Get(marshalID(rec.ID))
		if old == nil {
			return storage.ErrNotFound
		}
		prev, err := decode(rec.ID, old)
		if err != nil {
			return err
		}
		rec.CreatedAt = prev.CreatedAt
		rec.UpdatedAt = storage.Timestamp()
		v, err := encode(rec)
		if err != nil {
			return err
		}
		return b.Put(marshalID(rec.ID), v)
	})
	if err != nil {
		return slider.Slider{}, err
	}
	return s.Get(context.Background(), rec.ID)
}

func (s *Store) Delete(_ context.Context, id int64) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketSliders))
		if b.Get(marshalID(id)) == nil {
			return storage.ErrNotFound
		}
		return b.Delete(marshalID(id))
	})
}

func (s *Store) Count(_ context.Context) (int, error) {
	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketSliders)).ForEach(func(_, _ []byte) error {
			n++
			return nil
		})
	})
	return n, err
}

func (s *Store) Close() error {
	return s.db.Close()
}

func encode(rec slider.Slider) ([]byte, error) {
	slidesJSON, settingsJSON, err := slider.EncodeDocuments(rec.Slides, rec.Settings)
	if err != nil {
		return nil, err
	}
	return json.Marshal(record{
		Name:      rec.Name,
		Slides:    slidesJSON,
		Settings:  settingsJSON,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	})
}

func decode(id int64, v []byte) (slider.Slider, error) {
	var r record
	if err := json.Unmarshal(v, &r); err != nil {
		return slider.Slider{}, fmt.Errorf("slider %d: %w", id, err)
	}
	slides, settings, err := slider.DecodeDocuments(r.Slides, r.Settings)
	if err != nil {
		return slider.Slider{}, fmt.Errorf("slider %d: %w", id, err)
	}
	return slider.Slider{
		ID:        id,
		Name:      r.Name,
		Slides:    slides,
		Settings:  settings,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}, nil
}

// Big-endian keys keep the cursor in id order.
func marshalID(id int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}

func unmarshalID(b []byte) int64 {
	return int64(binary.BigEndian.Uint64(b))
}
