package service

import (
	"context"
	"fmt"
	"time"

	"oryx/internal/modules/session/domain"
	sessionout "oryx/internal/modules/session/port/out"
	"oryx/internal/platform/clock"
	apperrors "oryx/internal/platform/errors"
)

type SessionService struct {
	clock   clock.Clock
	sleeper clock.Sleeper
}

func NewSessionService(clock clock.Clock, sleeper clock.Sleeper) *SessionService {
	return &SessionService{clock: clock, sleeper: sleeper}
}

// Countdown advances progress once per TickInterval until SessionTicks ticks
// have elapsed. Each tick waits for an absolute deadline measured from the
// start so that slow renders do not stretch the session.
func (s *SessionService) Countdown(ctx context.Context, title string, progress sessionout.Progress) error {
	progress.Start(title, domain.SessionTicks)
	start := s.clock.Now()
	for tick := 1; tick <= domain.SessionTicks; tick++ {
		deadline := start.Add(time.Duration(tick) * domain.TickInterval)
		if err := s.sleeper.SleepUntil(ctx, deadline); err != nil {
			progress.Abort()
			return fmt.Errorf("%w after %d of %d ticks: %w", apperrors.ErrSessionInterrupted, tick-1, domain.SessionTicks, err)
		}
		progress.Advance(tick)
	}
	progress.Finish()
	return nil
}

// NewRecord builds the persisted form of a session completed now.
func (s *SessionService) NewRecord(title string, labels []string) (domain.Session, error) {
	session, err := domain.NewSession(title, labels, s.clock.Now())
	if err != nil {
		return domain.Session{}, err
	}
	if err := session.Validate(); err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

// Today is the local date string used to bucket today's sessions.
func (s *SessionService) Today() string {
	return s.clock.Now().Format(domain.DateLayout)
}
