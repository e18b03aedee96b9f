package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/louisbranch/valuechain/internal/storage/storagetest"
)

func TestKVContract(t *testing.T) {
	storagetest.Run(t, New())
}

func TestConcurrentAccess(t *testing.T) {
	s := New()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = s.Set(ctx, "shared", j)
				_ = s.RPush(ctx, "log", "entry")
				_ = s.SAdd(ctx, "members", "m")
			}
		}()
	}
	wg.Wait()

	log, err := s.LRange(ctx, "log", 0, -1)
	if err != nil {
		t.Fatalf("lrange: %v", err)
	}
	if len(log) != 16*50 {
		t.Fatalf("log entries = %d, want %d", len(log), 16*50)
	}

	members, err := s.SMembers(ctx, "members")
	if err != nil {
		t.Fatalf("smembers: %v", err)
	}
	if len(members) != 1 {
		t.Fatalf("members = %v, want single entry", members)
	}
}
