package service

import (
	"context"
	"io"
	"time"

	"github.com/louisbranch/valuechain/internal/catalog"
	apperrors "github.com/louisbranch/valuechain/internal/errors"
	"github.com/louisbranch/valuechain/internal/game/domain"
	"github.com/louisbranch/valuechain/internal/game/store"
	"github.com/louisbranch/valuechain/internal/notify"
	"github.com/louisbranch/valuechain/internal/storage"
	"github.com/louisbranch/valuechain/internal/telemetry"
)

// Service runs games over a store and catalog. Construct with New.
type Service struct {
	store    *store.Store
	catalog  *catalog.Catalog
	notifier notify.Notifier
	emitter  *telemetry.Emitter
	now      func() time.Time
	newID    func() (string, error)
	rand     io.Reader
}

// Options configures optional service collaborators. Zero values select
// sensible defaults: a no-op notifier, no telemetry, real time and
// randomness.
type Options struct {
	Notifier notify.Notifier
	Emitter  *telemetry.Emitter
	Now      func() time.Time
	NewID    func() (string, error)
	Rand     io.Reader
}

// New creates a game service over the given store and catalog.
func New(st *store.Store, cat *catalog.Catalog, opts Options) *Service {
	svc := &Service{
		store:    st,
		catalog:  cat,
		notifier: opts.Notifier,
		emitter:  opts.Emitter,
		now:      opts.Now,
		newID:    opts.NewID,
		rand:     opts.Rand,
	}
	if svc.notifier == nil {
		svc.notifier = notify.Nop{}
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	if svc.newID == nil {
		svc.newID = domain.NewID
	}
	return svc
}

// Catalog exposes the read-only simulation content.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

func (s *Service) joinCode(length int) (string, error) {
	return domain.NewJoinCode(s.rand, length)
}

func (s *Service) emit(ctx context.Context, sessionID, eventType, message string) {
	if s.emitter == nil {
		return
	}
	_ = s.emitter.Emit(ctx, telemetry.Event{
		Severity:  telemetry.SeverityInfo,
		SessionID: sessionID,
		Type:      eventType,
		Message:   message,
	})
}

// session loads a session, translating a storage miss into a domain error.
func (s *Service) session(ctx context.Context, id string) (domain.Session, error) {
	session, err := s.store.Session(ctx, id)
	if err == storage.ErrNotFound {
		return domain.Session{}, apperrors.New(apperrors.CodeSessionNotFound, "session not found")
	}
	if err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

// team loads a team, translating a storage miss into a domain error.
func (s *Service) team(ctx context.Context, id string) (domain.Team, error) {
	team, err := s.store.Team(ctx, id)
	if err == storage.ErrNotFound {
		return domain.Team{}, apperrors.New(apperrors.CodeTeamNotFound, "team not found")
	}
	if err != nil {
		return domain.Team{}, err
	}
	return team, nil
}
