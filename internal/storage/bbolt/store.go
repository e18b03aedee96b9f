// Package bbolt provides a file-backed KV store on BoltDB.
package bbolt

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"github.com/louisbranch/valuechain/internal/storage"
)

const (
	kvBucket   = "kv"
	setBucket  = "sets"
	listBucket = "lists"
)

// Store is a BoltDB-backed storage.KV. Values live in the kv bucket; sets
// and lists are stored as JSON-encoded string slices in their own buckets.
type Store struct {
	db *bbolt.DB
}

// Open opens a BoltDB-backed store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	db, err := bbolt.Open(filepath.Clean(path), 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	store := &Store{db: db}
	if err := store.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get decodes the value at key into out.
func (s *Store) Get(ctx context.Context, key string, out any) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	return s.db.View(func(tx *bbolt.Tx) error {
		payload := tx.Bucket([]byte(kvBucket)).Get([]byte(key))
		if payload == nil {
			return storage.ErrNotFound
		}
		if err := json.Unmarshal(payload, out); err != nil {
			return fmt.Errorf("unmarshal %q: %w", key, err)
		}
		return nil
	})
}

// Set stores value at key.
func (s *Store) Set(ctx context.Context, key string, value any) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %q: %w", key, err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(kvBucket)).Put([]byte(key), payload)
	})
}

// SAdd adds member to the set at key.
func (s *Store) SAdd(ctx context.Context, key, member string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	return s.appendMember(setBucket, key, member, true)
}

// SMembers returns the members of the set at key in insertion order.
func (s *Store) SMembers(ctx context.Context, key string) ([]string, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	return s.readMembers(setBucket, key)
}

// RPush appends member to the list at key.
func (s *Store) RPush(ctx context.Context, key, member string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	return s.appendMember(listBucket, key, member, false)
}

// LRange returns list members from start through stop inclusive.
func (s *Store) LRange(ctx context.Context, key string, start, stop int) ([]string, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	list, err := s.readMembers(listBucket, key)
	if err != nil {
		return nil, err
	}
	from, to, ok := storage.ResolveRange(len(list), start, stop)
	if !ok {
		return nil, nil
	}
	return list[from:to], nil
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

func (s *Store) appendMember(bucket, key, member string, unique bool) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		members, err := decodeMembers(b.Get([]byte(key)), key)
		if err != nil {
			return err
		}
		if unique && slices.Contains(members, member) {
			return nil
		}
		members = append(members, member)
		payload, err := json.Marshal(members)
		if err != nil {
			return fmt.Errorf("marshal %q: %w", key, err)
		}
		return b.Put([]byte(key), payload)
	})
}

func (s *Store) readMembers(bucket, key string) ([]string, error) {
	var members []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		members, err = decodeMembers(tx.Bucket([]byte(bucket)).Get([]byte(key)), key)
		return err
	})
	if err != nil {
		return nil, err
	}
	return members, nil
}

func decodeMembers(payload []byte, key string) ([]string, error) {
	if payload == nil {
		return nil, nil
	}
	var members []string
	if err := json.Unmarshal(payload, &members); err != nil {
		return nil, fmt.Errorf("unmarshal %q: %w", key, err)
	}
	return members, nil
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{kvBucket, setBucket, listBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}
