// Package telemetry records operational events into the session's storage
// journal for later analysis by instructors.
package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/louisbranch/valuechain/internal/storage"
)

// Severity describes the telemetry severity level.
type Severity string

const (
	SeverityInfo  Severity = "INFO"
	SeverityWarn  Severity = "WARN"
	SeverityError Severity = "ERROR"
)

// Event is one operational telemetry record.
type Event struct {
	Timestamp time.Time         `json:"timestamp"`
	Severity  Severity          `json:"severity"`
	SessionID string            `json:"sessionId"`
	Type      string            `json:"type"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
}

// Emitter appends telemetry events to storage.
type Emitter struct {
	kv    storage.KV
	clock func() time.Time
}

// NewEmitter creates a new telemetry emitter.
func NewEmitter(kv storage.KV) *Emitter {
	return &Emitter{kv: kv, clock: time.Now}
}

// Emit records a telemetry event. It is a no-op when the emitter or its
// backend is nil.
func (e *Emitter) Emit(ctx context.Context, evt Event) error {
	if e == nil || e.kv == nil {
		return nil
	}
	if evt.Timestamp.IsZero() {
		clock := e.clock
		if clock == nil {
			clock = time.Now
		}
		evt.Timestamp = clock().UTC()
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal telemetry event: %w", err)
	}
	return e.kv.RPush(ctx, "telemetry:"+evt.SessionID, string(payload))
}

// Events returns every telemetry event recorded for a session, in order.
func (e *Emitter) Events(ctx context.Context, sessionID string) ([]Event, error) {
	if e == nil || e.kv == nil {
		return nil, nil
	}
	raw, err := e.kv.LRange(ctx, "telemetry:"+sessionID, 0, -1)
	if err != nil {
		return nil, fmt.Errorf("read telemetry journal: %w", err)
	}
	events := make([]Event, 0, len(raw))
	for _, payload := range raw {
		var evt Event
		if err := json.Unmarshal([]byte(payload), &evt); err != nil {
			return nil, fmt.Errorf("unmarshal telemetry event: %w", err)
		}
		events = append(events, evt)
	}
	return events, nil
}
