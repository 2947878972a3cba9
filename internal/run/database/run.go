package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-sod/mlserve/internal/database"
	"github.com/go-sod/mlserve/internal/run/model"
	bolt "go.etcd.io/bbolt"
)

const bucketName = "runs:"

var ErrNotFound = errors.New("run not found")

type FilterFn func(run model.Run) bool

func New(db *database.DB) *DB {
	return &DB{sDB: db}
}

type DB struct {
	sDB *database.DB
}

// keys sort by creation time, so cursor order is chronological
func runKey(run model.Run) []byte {
	return []byte(fmt.Sprintf("%020d:%s", run.CreatedAt.UnixNano(), run.ID.String()))
}

func (db *DB) Store(_ context.Context, run model.Run) error {
	bytes, err := json.Marshal(run)
	if err != nil {
		return err
	}

	if err := db.sDB.DB.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
		if err := b.Put(runKey(run), bytes); err != nil {
			return fmt.Errorf("put to bucket error: %w", err)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("update transaction error: %w", err)
	}

	return nil
}

func (db *DB) FindAll(_ context.Context, filter FilterFn) ([]model.Run, error) {
	var runs []model.Run
	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var run model.Run
			if err := json.Unmarshal(v, &run); err != nil {
				return fmt.Errorf("json unmarshal error, %w", err)
			}
			if filter == nil || filter(run) {
				runs = append(runs, run)
			}
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("view transaction error: %w", err)
	}

	return runs, nil
}

// Last returns the most recently created run.
func (db *DB) Last(_ context.Context) (model.Run, error) {
	var run model.Run
	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return ErrNotFound
		}
		k, v := b.Cursor().Last()
		if k == nil {
			return ErrNotFound
		}
		if err := json.Unmarshal(v, &run); err != nil {
			return fmt.Errorf("json unmarshal error, %w", err)
		}
		return nil
	}); err != nil {
		return model.Run{}, fmt.Errorf("view transaction error: %w", err)
	}

	return run, nil
}

func (db *DB) Count() (int, error) {
	var length int
	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return nil
		}
		length = b.Stats().KeyN
		return nil
	}); err != nil {
		return 0, fmt.Errorf("view transaction error: %w", err)
	}

	return length, nil
}
