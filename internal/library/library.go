// Package library stores many charts in a single bbolt file, keyed by their
// slash-separated path relative to the directory they were packed from.
package library

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"quaformat/internal/loader"
	"quaformat/qua"
)

var bucketName = []byte("charts")

var ErrNotFound = errors.New("chart not found in library")

type Library struct {
	db *bolt.DB
}

// Open opens or creates the library file at path.
func Open(path string) (*Library, error) {
	db, err := bolt.Open(path, 0666, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open library %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Library{db: db}, nil
}

func (l *Library) Close() error {
	return l.db.Close()
}

// Put stores c under key in canonical form, replacing any previous entry.
func (l *Library) Put(key string, c *qua.Chart) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	return l.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), data)
	})
}

func (l *Library) Get(key string) (*qua.Chart, error) {
	var data []byte
	err := l.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketName).Get([]byte(key))
		if v == nil {
			return fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		// v is only valid inside the transaction
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return qua.Unmarshal(data)
}

// Keys lists every stored key in byte order.
func (l *Library) Keys() ([]string, error) {
	var keys []string
	err := l.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	return keys, err
}

func (l *Library) Delete(key string) error {
	return l.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b.Get([]byte(key)) == nil {
			return fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return b.Delete([]byte(key))
	})
}

// PackDir loads every chart under dir and stores it. Charts that fail to
// load are reported in the returned map and skipped.
func (l *Library) PackDir(dir string) (packed []string, failed map[string]error, err error) {
	keys, err := loader.FindCharts(dir)
	if err != nil {
		return nil, nil, err
	}
	failed = map[string]error{}
	for _, key := range keys {
		c, err := qua.LoadFile(filepath.Join(dir, filepath.FromSlash(key)))
		if err != nil {
			failed[key] = err
			continue
		}
		if err := l.Put(key, c); err != nil {
			return packed, failed, err
		}
		packed = append(packed, key)
	}
	return packed, failed, nil
}
