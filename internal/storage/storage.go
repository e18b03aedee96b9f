// Package storage defines the key-value persistence interface for the
// simulation.
//
// The interface mirrors the small command set the game records need: JSON
// values under plain keys, unordered string sets for membership (teams in a
// session), and ordered string lists for append-only history (decision
// journals, telemetry). Implementations live in subpackages: bbolt
// (file-backed), sqlite, and memory (tests).
//
// # Error Types
//
//   - ErrNotFound: Indicates a requested record is missing.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// KV is the persistence contract consumed by the game store. All values are
// JSON-encoded by the implementation; callers pass plain Go values.
type KV interface {
	// Get decodes the value at key into out. Returns ErrNotFound when the
	// key is absent.
	Get(ctx context.Context, key string, out any) error
	// Set stores value at key, replacing any existing value.
	Set(ctx context.Context, key string, value any) error
	// SAdd adds member to the set at key. Adding an existing member is a
	// no-op.
	SAdd(ctx context.Context, key, member string) error
	// SMembers returns every member of the set at key. A missing set is an
	// empty slice, not an error.
	SMembers(ctx context.Context, key string) ([]string, error)
	// RPush appends member to the list at key.
	RPush(ctx context.Context, key, member string) error
	// LRange returns list members from start through stop inclusive.
	// Negative indexes count from the end, -1 being the last element.
	LRange(ctx context.Context, key string, start, stop int) ([]string, error)
	// Close releases the backing resources.
	Close() error
}

// ResolveRange converts a possibly-negative inclusive range into slice
// bounds over a list of the given length. It returns (0, 0, false) when the
// range selects nothing.
func ResolveRange(length, start, stop int) (from, to int, ok bool) {
	from = start
	if from < 0 {
		from = max(length+from, 0)
	} else {
		from = min(from, length)
	}

	to = stop
	if to < 0 {
		to = length + to
	}
	to = min(to, length-1)

	if to < from {
		return 0, 0, false
	}
	return from, to + 1, true
}
