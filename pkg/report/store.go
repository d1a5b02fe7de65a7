package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	scierrors "github.com/YuminosukeSato/scicv/pkg/errors"
)

const reportsBucket = "reports"

// ErrNotFound is returned by Get for an unknown id.
var ErrNotFound = scierrors.New("report not found")

// Store keeps records in a bbolt database.
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the database file at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, scierrors.Wrap(err, "create report directory")
		}
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, scierrors.Wrapf(err, "open report store %s", path)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(reportsBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, scierrors.Wrap(err, "create reports bucket")
	}
	return &Store{db: db}, nil
}

// Close releases the database file.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Put stores rec, assigning an ID if it has none.
func (s *Store) Put(rec *Record) error {
	if rec.ID == "" {
		rec.ID = newID()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return scierrors.Wrap(err, "marshal report")
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(reportsBucket)).Put([]byte(rec.ID), data)
	})
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (*Record, error) {
	var rec *Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(reportsBucket)).Get([]byte(id))
		if data == nil {
			return scierrors.Wrapf(ErrNotFound, "id %s", id)
		}
		rec = &Record{}
		return json.Unmarshal(data, rec)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// List returns every record in key order.
func (s *Store) List() ([]*Record, error) {
	var out []*Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(reportsBucket)).ForEach(func(k, v []byte) error {
			rec := &Record{}
			if err := json.Unmarshal(v, rec); err != nil {
				return scierrors.Wrapf(err, "decode report %s", k)
			}
			out = append(out, rec)
			return nil
		})
	})
	return out, err
}

// Delete removes the record with the given id. Unknown ids are ignored.
func (s *Store) Delete(id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(reportsBucket)).Delete([]byte(id))
	})
}
