// Package storagetest exercises the storage.KV contract against any backend.
package storagetest

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/louisbranch/valuechain/internal/storage"
)

type record struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Run verifies a backend against the KV contract. The store must be empty.
func Run(t *testing.T, kv storage.KV) {
	t.Helper()
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		var out record
		err := kv.Get(ctx, "missing", &out)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("set get roundtrip", func(t *testing.T) {
		want := record{Name: "alpha", Score: 12.5}
		if err := kv.Set(ctx, "team:1", want); err != nil {
			t.Fatalf("set: %v", err)
		}

		var got record
		if err := kv.Get(ctx, "team:1", &got); err != nil {
			t.Fatalf("get: %v", err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("roundtrip mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("set replaces", func(t *testing.T) {
		if err := kv.Set(ctx, "team:1", record{Name: "beta"}); err != nil {
			t.Fatalf("set: %v", err)
		}
		var got record
		if err := kv.Get(ctx, "team:1", &got); err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Name != "beta" || got.Score != 0 {
			t.Fatalf("value not replaced: %+v", got)
		}
	})

	t.Run("sets deduplicate", func(t *testing.T) {
		for _, member := range []string{"a", "b", "a", "c"} {
			if err := kv.SAdd(ctx, "session:teams", member); err != nil {
				t.Fatalf("sadd: %v", err)
			}
		}
		members, err := kv.SMembers(ctx, "session:teams")
		if err != nil {
			t.Fatalf("smembers: %v", err)
		}
		if diff := cmp.Diff([]string{"a", "b", "c"}, members); diff != "" {
			t.Fatalf("unexpected members (-want +got):\n%s", diff)
		}
	})

	t.Run("missing set is empty", func(t *testing.T) {
		members, err := kv.SMembers(ctx, "no-such-set")
		if err != nil {
			t.Fatalf("smembers: %v", err)
		}
		if len(members) != 0 {
			t.Fatalf("expected empty set, got %v", members)
		}
	})

	t.Run("list order and ranges", func(t *testing.T) {
		for _, member := range []string{"one", "two", "three", "four"} {
			if err := kv.RPush(ctx, "journal", member); err != nil {
				t.Fatalf("rpush: %v", err)
			}
		}

		tcs := []struct {
			name  string
			start int
			stop  int
			want  []string
		}{
			{"full", 0, -1, []string{"one", "two", "three", "four"}},
			{"prefix", 0, 1, []string{"one", "two"}},
			{"tail", -2, -1, []string{"three", "four"}},
			{"empty", 3, 1, nil},
		}
		for _, tc := range tcs {
			t.Run(tc.name, func(t *testing.T) {
				got, err := kv.LRange(ctx, "journal", tc.start, tc.stop)
				if err != nil {
					t.Fatalf("lrange: %v", err)
				}
				if diff := cmp.Diff(tc.want, got); diff != "" {
					t.Fatalf("unexpected range (-want +got):\n%s", diff)
				}
			})
		}
	})

	t.Run("missing list is empty", func(t *testing.T) {
		got, err := kv.LRange(ctx, "no-such-list", 0, -1)
		if err != nil {
			t.Fatalf("lrange: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("expected empty list, got %v", got)
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		canceled, cancel := context.WithCancel(context.Background())
		cancel()
		if err := kv.Set(canceled, "key", record{}); err == nil {
			t.Fatal("expected context error")
		}
	})
}
