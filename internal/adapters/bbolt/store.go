// Package bbolt implements the ports.KindStore interface using bbolt (embedded B+ tree).
// Each ctags executable gets its own top-level bucket. Within that bucket, a "kinds"
// sub-bucket maps language name to an encoded kind table. Writes are transactional:
// a crash mid-write cannot corrupt previously committed data.
package bbolt

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket keys
var bucketKinds = []byte("kinds")

// Store implements ports.KindStore backed by bbolt.
type Store struct {
	db *bolt.DB
}

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveKinds persists the kind table for (tool, language).
func (s *Store) SaveKinds(tool, language string, kinds map[string]string) error {
	if tool == "" || language == "" {
		return fmt.Errorf("empty tool or language")
	}
	data, err := encodeKinds(kinds)
	if err != nil {
		return fmt.Errorf("encode kinds: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		tb, err := tx.CreateBucketIfNotExists([]byte(tool))
		if err != nil {
			return err
		}
		kb, err := tb.CreateBucketIfNotExists(bucketKinds)
		if err != nil {
			return err
		}
		return kb.Put([]byte(language), data)
	})
}

// LoadKinds retrieves the kind table for (tool, language).
// Returns nil, nil if none is stored.
func (s *Store) LoadKinds(tool, language string) (map[string]string, error) {
	var data []byte

	err := s.db.View(func(tx *bolt.Tx) error {
		tb := tx.Bucket([]byte(tool))
		if tb == nil {
			return nil
		}
		kb := tb.Bucket(bucketKinds)
		if kb == nil {
			return nil
		}
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		if v := kb.Get([]byte(language)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	kinds, err := decodeKinds(data)
	if err != nil {
		return nil, fmt.Errorf("decode kinds %s/%s: %w", tool, language, err)
	}
	return kinds, nil
}

// Languages lists the languages with a stored table for tool, in key order.
func (s *Store) Languages(tool string) ([]string, error) {
	var langs []string
	err := s.db.View(func(tx *bolt.Tx) error {
		tb := tx.Bucket([]byte(tool))
		if tb == nil {
			return nil
		}
		kb := tb.Bucket(bucketKinds)
		if kb == nil {
			return nil
		}
		return kb.ForEach(func(k, _ []byte) error {
			langs = append(langs, string(k))
			return nil
		})
	})
	return langs, err
}

// DeleteTool removes every table stored for a tool.
// Idempotent: deleting a nonexistent tool is not an error.
func (s *Store) DeleteTool(tool string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(tool)); err == bolt.ErrBucketNotFound {
			return nil // idempotent
		} else {
			return err
		}
	})
}
