package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	adapterout "oryx/internal/modules/session/adapter/out"
	"oryx/internal/modules/session/domain"
	sessiondto "oryx/internal/modules/session/dto"
	sessionin "oryx/internal/modules/session/port/in"
	sessionport "oryx/internal/modules/session/port/out"
	"oryx/internal/modules/session/service"
	"oryx/internal/modules/session/usecase"
	apperrors "oryx/internal/platform/errors"
)

var testNow = time.Date(2026, 10, 16, 9, 30, 0, 0, time.Local)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// instantSleeper returns immediately, cancelling the run context at tick
// cancelAt when set.
type instantSleeper struct {
	calls    int
	cancelAt int
	cancel   context.CancelFunc
}

func (s *instantSleeper) SleepUntil(ctx context.Context, _ time.Time) error {
	s.calls++
	if s.cancelAt > 0 && s.calls == s.cancelAt {
		s.cancel()
	}
	return ctx.Err()
}

type fakeID struct{}

func (fakeID) New() string { return "run-1" }

type fakeProgress struct {
	started  bool
	advanced int
	finished bool
	aborted  bool
}

func (p *fakeProgress) Start(string, int) { p.started = true }
func (p *fakeProgress) Advance(done int)  { p.advanced = done }
func (p *fakeProgress) Finish()           { p.finished = true }
func (p *fakeProgress) Abort()            { p.aborted = true }

type fakeNotifier struct {
	titles []string
	err    error
}

func (n *fakeNotifier) Notify(_ context.Context, title string) error {
	n.titles = append(n.titles, title)
	return n.err
}

type harness struct {
	dir      string
	history  string
	store    sessionport.HistoryStore
	sleeper  *instantSleeper
	progress *fakeProgress
	notifier *fakeNotifier
	logs     *bytes.Buffer
	uc       sessionin.Usecase
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	h := &harness{
		dir:      dir,
		history:  filepath.Join(dir, ".oryx"),
		sleeper:  &instantSleeper{},
		progress: &fakeProgress{},
		notifier: &fakeNotifier{},
		logs:     &bytes.Buffer{},
	}
	h.store = adapterout.NewJSONHistoryStore(h.history)
	projector := adapterout.NewSQLiteSessionProjector(h.history + ".db")
	t.Cleanup(func() { _ = projector.Close() })
	svc := service.NewSessionService(fixedClock{now: testNow}, h.sleeper)
	h.uc = usecase.NewInteractor(svc, usecase.Ports{
		Store:     h.store,
		Tx:        adapterout.NewFileLockManager(h.history),
		Progress:  h.progress,
		Notifier:  h.notifier,
		Projector: projector,
		Notes:     adapterout.NewVaultNoteStore(),
		IDs:       fakeID{},
		Logger:    slog.New(slog.NewJSONHandler(h.logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
	})
	return h
}

func (h *harness) seed(t *testing.T, sessions ...domain.Session) {
	t.Helper()
	if err := h.store.Write(context.Background(), sessions); err != nil {
		t.Fatalf("seed history: %v", err)
	}
}

func record(title, date string, labels ...string) domain.Session {
	if labels == nil {
		labels = []string{}
	}
	return domain.Session{Title: title, Labels: labels, Date: date, Time: "08:00"}
}

func TestRunLogsCompletedSession(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()

	out, err := h.uc.Run(ctx, sessiondto.RunInput{Title: "Write", Labels: "work, writing"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.RunID != "run-1" || out.Total != 1 {
		t.Fatalf("unexpected output %+v", out)
	}
	if out.Session.Date != "2026-10-16" || out.Session.Time != "09:30" {
		t.Fatalf("unexpected stamp %+v", out.Session)
	}
	if !h.progress.started || !h.progress.finished || h.progress.advanced != domain.SessionTicks {
		t.Fatalf("progress not driven to completion: %+v", h.progress)
	}
	if h.sleeper.calls != domain.SessionTicks {
		t.Fatalf("expected %d waits, got %d", domain.SessionTicks, h.sleeper.calls)
	}

	history, err := h.store.Read(ctx)
	if err != nil {
		t.Fatalf("read history: %v", err)
	}
	if len(history) != 1 || history[0].Title != "Write" || strings.Join(history[0].Labels, "|") != "work|writing" {
		t.Fatalf("unexpected history %+v", history)
	}

	status, err := h.uc.Status(ctx, sessiondto.ReportInput{})
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.TotalCount != 1 || status.TodayCount != 1 || status.TodayMinutes != 25 || status.Tier != "low" {
		t.Fatalf("unexpected status %+v", status)
	}
	if len(h.notifier.titles) != 1 || h.notifier.titles[0] != "Write" {
		t.Fatalf("expected one notification, got %v", h.notifier.titles)
	}
	if !strings.Contains(h.logs.String(), `"run_id":"run-1"`) {
		t.Fatalf("run logs must carry the run id: %s", h.logs.String())
	}
}

func TestRunPrependsNewestFirst(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.seed(t, record("older", "2026-10-15"))

	out, err := h.uc.Run(context.Background(), sessiondto.RunInput{Title: "newer"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.Total != 2 {
		t.Fatalf("expected total 2, got %d", out.Total)
	}
	history, err := h.store.Read(context.Background())
	if err != nil {
		t.Fatalf("read history: %v", err)
	}
	if history[0].Title != "newer" || history[1].Title != "older" {
		t.Fatalf("expected newest first, got %+v", history)
	}
	if len(history[0].Labels) != 0 || history[0].Labels == nil {
		t.Fatalf("no labels must persist as an empty list, got %#v", history[0].Labels)
	}
}

func TestRunInterruptedLogsNothing(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h.sleeper.cancelAt = 42
	h.sleeper.cancel = cancel

	_, err := h.uc.Run(ctx, sessiondto.RunInput{Title: "Write", Labels: "work"})
	if !errors.Is(err, apperrors.ErrSessionInterrupted) {
		t.Fatalf("expected interrupted, got %v", err)
	}
	if !h.progress.aborted || h.progress.finished {
		t.Fatalf("progress must be aborted: %+v", h.progress)
	}
	if _, statErr := os.Stat(h.history); !os.IsNotExist(statErr) {
		t.Fatalf("interrupted session must not touch the log")
	}
	if len(h.notifier.titles) != 0 {
		t.Fatalf("no notification expected, got %v", h.notifier.titles)
	}
}

func TestRunNotificationFailureIsNotFatal(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.notifier.err = errors.New("no notification daemon")

	out, err := h.uc.Run(context.Background(), sessiondto.RunInput{Title: "Write"})
	if err != nil {
		t.Fatalf("run must succeed when notification fails: %v", err)
	}
	if out.Total != 1 {
		t.Fatalf("session must be logged, total=%d", out.Total)
	}
	if !strings.Contains(h.logs.String(), `"level":"WARN"`) || !strings.Contains(h.logs.String(), "no notification daemon") {
		t.Fatalf("expected warning log, got %s", h.logs.String())
	}
}

func TestRunRejectsInvalidInputBeforeTimer(t *testing.T) {
	t.Parallel()
	for _, input := range []sessiondto.RunInput{
		{Title: "   "},
		{Title: "Write", Labels: "work,,gym"},
		{Title: "Write", Labels: "work,"},
	} {
		h := newHarness(t)
		if _, err := h.uc.Run(context.Background(), input); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("%+v: expected invalid input, got %v", input, err)
		}
		if h.progress.started || h.sleeper.calls != 0 {
			t.Fatalf("%+v: timer must not start", input)
		}
	}
}

func TestRunMalformedHistoryAbortsWithoutOverwrite(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	if err := os.WriteFile(h.history, []byte("{broken"), 0o644); err != nil {
		t.Fatalf("seed broken log: %v", err)
	}
	if _, err := h.uc.Run(context.Background(), sessiondto.RunInput{Title: "Write"}); !errors.Is(err, apperrors.ErrDecode) {
		t.Fatalf("expected decode error, got %v", err)
	}
	raw, err := os.ReadFile(h.history)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if string(raw) != "{broken" {
		t.Fatalf("malformed log must be left untouched, got %q", raw)
	}
	if len(h.notifier.titles) != 0 {
		t.Fatalf("failed run must not notify")
	}
}

func TestStatusOnMissingLogIsEmptyAndCreatesNothing(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	status, err := h.uc.Status(context.Background(), sessiondto.ReportInput{Labels: "work"})
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.TotalCount != 0 || status.TodayCount != 0 || status.Tier != "low" || status.Today != "2026-10-16" {
		t.Fatalf("unexpected status %+v", status)
	}
	if _, err := os.Stat(h.history); !os.IsNotExist(err) {
		t.Fatalf("status must not create the log")
	}
}

func TestStatusSplitsTodayAndAllTime(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	var sessions []domain.Session
	for i := 0; i < 5; i++ {
		sessions = append(sessions, record("today", "2026-10-16"))
	}
	for i := 0; i < 2; i++ {
		sessions = append(sessions, record("yesterday", "2026-10-15"))
	}
	h.seed(t, sessions...)

	status, err := h.uc.Status(context.Background(), sessiondto.ReportInput{})
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	want := sessiondto.StatusOutput{
		Today: "2026-10-16", TotalCount: 7, TotalHours: 2, TotalMinutes: 55,
		TodayCount: 5, TodayHours: 2, TodayMinutes: 5, Tier: "medium",
	}
	if status != want {
		t.Fatalf("expected %+v, got %+v", want, status)
	}
}

func TestStatusFilterDeduplicatesUnlessEachMatch(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.seed(t,
		record("both", "2026-10-16", "work", "gym"),
		record("gym", "2026-10-16", "gym"),
		record("work", "2026-10-15", "work"),
		record("read", "2026-10-16", "read"),
	)
	ctx := context.Background()

	dedup, err := h.uc.Status(ctx, sessiondto.ReportInput{Labels: "work,gym"})
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if dedup.TotalCount != 3 || dedup.TodayCount != 2 {
		t.Fatalf("expected 3 total / 2 today, got %+v", dedup)
	}
	weighted, err := h.uc.Status(ctx, sessiondto.ReportInput{Labels: "work,gym", EachMatch: true})
	if err != nil {
		t.Fatalf("status each match: %v", err)
	}
	if weighted.TotalCount != 4 || weighted.TodayCount != 3 {
		t.Fatalf("expected 4 total / 3 today, got %+v", weighted)
	}
}

func TestLogListsFilteredSessionsInHistoryOrder(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.seed(t,
		record("c", "2026-10-16", "work"),
		record("b", "2026-10-16", "gym"),
		record("a", "2026-10-15", "work", "deep"),
	)
	out, err := h.uc.Log(context.Background(), sessiondto.ReportInput{Labels: "work"})
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if len(out.Sessions) != 2 || out.Sessions[0].Title != "c" || out.Sessions[1].Title != "a" {
		t.Fatalf("unexpected sessions %+v", out.Sessions)
	}
	if out.Status.TotalCount != 2 || out.Status.TodayCount != 1 {
		t.Fatalf("unexpected status %+v", out.Status)
	}
	if strings.Join(out.Sessions[1].Labels, ",") != "work,deep" {
		t.Fatalf("labels must keep their order, got %v", out.Sessions[1].Labels)
	}
}

func TestLabelsAndReindexUseProjection(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.seed(t,
		record("a", "2026-10-16", "work"),
		record("b", "2026-10-16", "work", "gym"),
		record("c", "2026-10-10", "work"),
	)
	ctx := context.Background()

	n, err := h.uc.Reindex(ctx)
	if err != nil || n != 3 {
		t.Fatalf("reindex: n=%d err=%v", n, err)
	}
	labels, err := h.uc.Labels(ctx)
	if err != nil {
		t.Fatalf("labels: %v", err)
	}
	want := []sessiondto.LabelOutput{
		{Label: "work", Count: 3, TodayCount: 2, Hours: 1, Minutes: 15},
		{Label: "gym", Count: 1, TodayCount: 1, Hours: 0, Minutes: 25},
	}
	if len(labels) != len(want) {
		t.Fatalf("expected %+v, got %+v", want, labels)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Fatalf("row %d: expected %+v, got %+v", i, want[i], labels[i])
		}
	}
}

func TestExportWritesNotesAndIndex(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.seed(t,
		record("second", "2026-10-16", "work"),
		record("first", "2026-10-16"),
		record("earlier", "2026-10-15", "gym"),
	)
	dir := filepath.Join(h.dir, "vault")

	out, err := h.uc.Export(context.Background(), sessiondto.ExportInput{Dir: dir})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if out.Notes != 3 || out.IndexPath != filepath.Join(dir, "index.md") {
		t.Fatalf("unexpected output %+v", out)
	}
	for _, rel := range []string{
		"sessions/2026/10/16/01-0800-first.md",
		"sessions/2026/10/16/02-0800-second.md",
		"sessions/2026/10/15/01-0800-earlier.md",
	} {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(rel))); err != nil {
			t.Fatalf("expected note %s: %v", rel, err)
		}
	}

	if _, err := h.uc.Export(context.Background(), sessiondto.ExportInput{Dir: " "}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for blank dir, got %v", err)
	}
}
