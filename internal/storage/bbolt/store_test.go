package bbolt

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/louisbranch/valuechain/internal/storage/storagetest"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	})
	return s
}

func TestKVContract(t *testing.T) {
	storagetest.Run(t, openTestStore(t))
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for blank path")
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Set(ctx, "key", "value"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.RPush(ctx, "log", "entry"); err != nil {
		t.Fatalf("rpush: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	var got string
	if err := s.Get(ctx, "key", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "value" {
		t.Fatalf("value = %q", got)
	}
	log, err := s.LRange(ctx, "log", 0, -1)
	if err != nil {
		t.Fatalf("lrange: %v", err)
	}
	if len(log) != 1 || log[0] != "entry" {
		t.Fatalf("log = %v", log)
	}
}

func TestNilStore(t *testing.T) {
	var s *Store
	if err := s.Close(); err != nil {
		t.Fatalf("nil close: %v", err)
	}
	if err := s.Set(context.Background(), "key", "value"); err == nil {
		t.Fatal("expected error from nil store")
	}
}
