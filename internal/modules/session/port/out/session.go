package out

import (
	"context"

	"oryx/internal/modules/session/domain"
)

// HistoryStore owns the persisted session log. Write replaces the whole log,
// so callers read, modify and write back.
type HistoryStore interface {
	Init(ctx context.Context) error
	Read(ctx context.Context) ([]domain.Session, error)
	Write(ctx context.Context, sessions []domain.Session) error
}

// Progress renders the countdown. Advance receives the number of ticks done.
type Progress interface {
	Start(title string, total int)
	Advance(done int)
	Finish()
	Abort()
}

type Notifier interface {
	Notify(ctx context.Context, title string) error
}

// SessionIndexProjector mirrors the history into a queryable index.
type SessionIndexProjector interface {
	Reset(ctx context.Context) error
	Project(ctx context.Context, sessions []domain.Session) error
	LabelCounts(ctx context.Context, today string) ([]domain.LabelCount, error)
}

// NoteStore writes sessions out as markdown notes under dir. seq is the
// 1-based position of the session within its day.
type NoteStore interface {
	SaveNote(ctx context.Context, dir string, session domain.Session, seq int) (string, error)
	SaveIndex(ctx context.Context, dir string, stats domain.Stats, labels []domain.LabelCount) (string, error)
}
