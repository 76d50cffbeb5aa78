package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"oryx/internal/modules/session/domain"
	sessiondto "oryx/internal/modules/session/dto"
	sessionin "oryx/internal/modules/session/port/in"
	sessionout "oryx/internal/modules/session/port/out"
	"oryx/internal/modules/session/service"
	apperrors "oryx/internal/platform/errors"
	"oryx/internal/platform/id"
	"oryx/internal/platform/logging"
	"oryx/internal/platform/tx"
)

// Ports groups the outbound collaborators of the interactor. Store is
// required; a nil Notifier, Projector or Notes disables the matching feature.
type Ports struct {
	Store     sessionout.HistoryStore
	Tx        tx.Manager
	Progress  sessionout.Progress
	Notifier  sessionout.Notifier
	Projector sessionout.SessionIndexProjector
	Notes     sessionout.NoteStore
	IDs       id.Generator
	Logger    *slog.Logger
}

type Interactor struct {
	svc   *service.SessionService
	ports Ports
}

func NewInteractor(svc *service.SessionService, ports Ports) sessionin.Usecase {
	if ports.Tx == nil {
		ports.Tx = tx.NoopManager{}
	}
	if ports.IDs == nil {
		ports.IDs = id.UUID{}
	}
	if ports.Logger == nil {
		ports.Logger = logging.Discard()
	}
	return &Interactor{svc: svc, ports: ports}
}

func (i *Interactor) Run(ctx context.Context, input sessiondto.RunInput) (sessiondto.RunOutput, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return sessiondto.RunOutput{}, fmt.Errorf("%w: title is required", apperrors.ErrInvalidInput)
	}
	labels, err := domain.ParseLabels(input.Labels)
	if err != nil {
		return sessiondto.RunOutput{}, err
	}
	if i.ports.Progress == nil {
		return sessiondto.RunOutput{}, fmt.Errorf("progress renderer is not configured")
	}

	runID := i.ports.IDs.New()
	logger := i.ports.Logger.With(slog.String("run_id", runID))
	logger.InfoContext(ctx, "session started", slog.String("title", title), slog.Any("labels", labels))

	if err := i.svc.Countdown(ctx, title, i.ports.Progress); err != nil {
		logger.InfoContext(ctx, "session discarded", slog.String("error", err.Error()))
		return sessiondto.RunOutput{}, err
	}

	session, err := i.svc.NewRecord(title, labels)
	if err != nil {
		return sessiondto.RunOutput{}, err
	}
	total := 0
	err = i.ports.Tx.Within(ctx, func(ctx context.Context) error {
		if err := i.ports.Store.Init(ctx); err != nil {
			return err
		}
		history, err := i.ports.Store.Read(ctx)
		if err != nil {
			return err
		}
		history = domain.Prepend(history, session)
		if err := i.ports.Store.Write(ctx, history); err != nil {
			return err
		}
		total = len(history)
		return nil
	})
	if err != nil {
		logger.ErrorContext(ctx, "session not logged", slog.String("error", err.Error()))
		return sessiondto.RunOutput{}, err
	}
	logger.InfoContext(ctx, "session logged", slog.Int("total", total))

	if i.ports.Notifier != nil {
		if err := i.ports.Notifier.Notify(ctx, title); err != nil {
			logger.WarnContext(ctx, "desktop notification failed", slog.String("error", err.Error()))
		}
	}
	if i.ports.Projector != nil {
		if _, err := i.Reindex(ctx); err != nil {
			logger.WarnContext(ctx, "session index not updated", slog.String("error", err.Error()))
		}
	}

	return sessiondto.RunOutput{RunID: runID, Session: toSessionOutput(session), Total: total}, nil
}

func (i *Interactor) Status(ctx context.Context, input sessiondto.ReportInput) (sessiondto.StatusOutput, error) {
	history, err := i.history(ctx)
	if err != nil {
		return sessiondto.StatusOutput{}, err
	}
	return i.status(selectSessions(history, input)), nil
}

func (i *Interactor) Log(ctx context.Context, input sessiondto.ReportInput) (sessiondto.LogOutput, error) {
	history, err := i.history(ctx)
	if err != nil {
		return sessiondto.LogOutput{}, err
	}
	selected := selectSessions(history, input)
	out := sessiondto.LogOutput{
		Status:   i.status(selected),
		Sessions: make([]sessiondto.SessionOutput, 0, len(selected)),
	}
	for _, s := range selected {
		out.Sessions = append(out.Sessions, toSessionOutput(s))
	}
	return out, nil
}

func (i *Interactor) Labels(ctx context.Context) ([]sessiondto.LabelOutput, error) {
	if _, err := i.Reindex(ctx); err != nil {
		return nil, err
	}
	counts, err := i.ports.Projector.LabelCounts(ctx, i.svc.Today())
	if err != nil {
		return nil, err
	}
	out := make([]sessiondto.LabelOutput, 0, len(counts))
	for _, c := range counts {
		hours, minutes := domain.Duration(c.Count)
		out = append(out, sessiondto.LabelOutput{
			Label:      c.Label,
			Count:      c.Count,
			TodayCount: c.TodayCount,
			Hours:      hours,
			Minutes:    minutes,
		})
	}
	return out, nil
}

// Reindex rebuilds the projection from the history log, oldest session first.
func (i *Interactor) Reindex(ctx context.Context) (int, error) {
	if i.ports.Projector == nil {
		return 0, fmt.Errorf("session index is not configured")
	}
	history, err := i.history(ctx)
	if err != nil {
		return 0, err
	}
	if err := i.ports.Projector.Reset(ctx); err != nil {
		return 0, err
	}
	if err := i.ports.Projector.Project(ctx, chronological(history)); err != nil {
		return 0, err
	}
	i.ports.Logger.DebugContext(ctx, "session index rebuilt", slog.Int("sessions", len(history)))
	return len(history), nil
}

func (i *Interactor) Export(ctx context.Context, input sessiondto.ExportInput) (sessiondto.ExportOutput, error) {
	dir := strings.TrimSpace(input.Dir)
	if dir == "" {
		return sessiondto.ExportOutput{}, fmt.Errorf("%w: export dir is required", apperrors.ErrInvalidInput)
	}
	if i.ports.Notes == nil {
		return sessiondto.ExportOutput{}, fmt.Errorf("note export is not configured")
	}
	history, err := i.history(ctx)
	if err != nil {
		return sessiondto.ExportOutput{}, err
	}

	perDay := map[string]int{}
	for _, s := range chronological(history) {
		perDay[s.Date]++
		if _, err := i.ports.Notes.SaveNote(ctx, dir, s, perDay[s.Date]); err != nil {
			return sessiondto.ExportOutput{}, err
		}
	}
	today := i.svc.Today()
	indexPath, err := i.ports.Notes.SaveIndex(ctx, dir, domain.Aggregate(history, today), domain.CountLabels(history, today))
	if err != nil {
		return sessiondto.ExportOutput{}, err
	}
	return sessiondto.ExportOutput{Dir: dir, Notes: len(history), IndexPath: indexPath}, nil
}

// history reads the log for reporting. A log that was never created is an
// empty history; reporting never creates it.
func (i *Interactor) history(ctx context.Context) ([]domain.Session, error) {
	sessions, err := i.ports.Store.Read(ctx)
	if errors.Is(err, apperrors.ErrNotFound) {
		return []domain.Session{}, nil
	}
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (i *Interactor) status(selected []domain.Session) sessiondto.StatusOutput {
	today := i.svc.Today()
	stats := domain.Aggregate(selected, today)
	return sessiondto.StatusOutput{
		Today:        today,
		TotalCount:   stats.TotalCount,
		TotalHours:   stats.TotalHours,
		TotalMinutes: stats.TotalMinutes,
		TodayCount:   stats.TodayCount,
		TodayHours:   stats.TodayHours,
		TodayMinutes: stats.TodayMinutes,
		Tier:         string(stats.Tier()),
	}
}

func selectSessions(history []domain.Session, input sessiondto.ReportInput) []domain.Session {
	if input.EachMatch {
		return domain.FilterEachMatch(history, input.Labels)
	}
	return domain.Filter(history, input.Labels)
}

func chronological(history []domain.Session) []domain.Session {
	out := make([]domain.Session, len(history))
	for idx, s := range history {
		out[len(history)-1-idx] = s
	}
	return out
}

func toSessionOutput(s domain.Session) sessiondto.SessionOutput {
	labels := make([]string, len(s.Labels))
	copy(labels, s.Labels)
	return sessiondto.SessionOutput{Title: s.Title, Labels: labels, Date: s.Date, Time: s.Time}
}
