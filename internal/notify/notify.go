// Package notify defines the real-time notification seam. The game service
// reports lifecycle events through the Notifier interface; delivery (web
// push, websockets, anything else) is a caller concern. The engine never
// publishes directly.
package notify

import (
	"context"
	"log/slog"

	"github.com/louisbranch/valuechain/internal/catalog"
	"github.com/louisbranch/valuechain/internal/game/domain"
)

// Notifier receives game lifecycle events. Implementations must not block
// the calling cycle advance; failures are the implementation's problem to
// report.
type Notifier interface {
	TeamJoined(ctx context.Context, sessionID, teamID, teamName string)
	DecisionSubmitted(ctx context.Context, sessionID, teamID, teamName string)
	CycleAdvanced(ctx context.Context, sessionID string, cycle int, shock *catalog.ShockDefinition)
	ShockAnnounced(ctx context.Context, sessionID string, shock catalog.ShockDefinition)
	GameCompleted(ctx context.Context, sessionID string, rankings []domain.TeamRanking)
	StateUpdated(ctx context.Context, sessionID string)
}

// Nop discards all events.
type Nop struct{}

func (Nop) TeamJoined(context.Context, string, string, string)        {}
func (Nop) DecisionSubmitted(context.Context, string, string, string) {}
func (Nop) CycleAdvanced(context.Context, string, int, *catalog.ShockDefinition) {
}
func (Nop) ShockAnnounced(context.Context, string, catalog.ShockDefinition) {}
func (Nop) GameCompleted(context.Context, string, []domain.TeamRanking)     {}
func (Nop) StateUpdated(context.Context, string)                            {}

// Log writes events to a structured logger. Useful on its own for local
// games and as a template for real transports.
type Log struct {
	Logger *slog.Logger
}

func (l Log) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.Default()
	}
	return l.Logger
}

func (l Log) TeamJoined(ctx context.Context, sessionID, teamID, teamName string) {
	l.logger().InfoContext(ctx, "team joined", "session", sessionID, "team", teamID, "name", teamName)
}

func (l Log) DecisionSubmitted(ctx context.Context, sessionID, teamID, teamName string) {
	l.logger().InfoContext(ctx, "decision submitted", "session", sessionID, "team", teamID, "name", teamName)
}

func (l Log) CycleAdvanced(ctx context.Context, sessionID string, cycle int, shock *catalog.ShockDefinition) {
	attrs := []any{"session", sessionID, "cycle", cycle}
	if shock != nil {
		attrs = append(attrs, "shock", shock.ID)
	}
	l.logger().InfoContext(ctx, "cycle advanced", attrs...)
}

func (l Log) ShockAnnounced(ctx context.Context, sessionID string, shock catalog.ShockDefinition) {
	l.logger().InfoContext(ctx, "shock announced", "session", sessionID, "shock", shock.ID)
}

func (l Log) GameCompleted(ctx context.Context, sessionID string, rankings []domain.TeamRanking) {
	l.logger().InfoContext(ctx, "game completed", "session", sessionID, "teams", len(rankings))
}

func (l Log) StateUpdated(ctx context.Context, sessionID string) {
	l.logger().DebugContext(ctx, "state updated", "session", sessionID)
}
