package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	sessioninadapter "oryx/internal/modules/session/adapter/in"
	sessionoutadapter "oryx/internal/modules/session/adapter/out"
	sessionout "oryx/internal/modules/session/port/out"
	sessionservice "oryx/internal/modules/session/service"
	sessionusecase "oryx/internal/modules/session/usecase"
	"oryx/internal/platform/clock"
	"oryx/internal/platform/config"
	"oryx/internal/platform/id"
	"oryx/internal/platform/logging"
	historyview "oryx/internal/ui/views/history"
)

// Options carries what the command line knows about the terminal.
type Options struct {
	// Progress receives the countdown bar.
	Progress io.Writer
	// Logger overrides the logger built from cfg.
	Logger *slog.Logger
}

type App struct {
	Config     config.Config
	Logger     *slog.Logger
	SessionCLI sessioninadapter.CLIHandler

	closers []func() error
}

func New(cfg config.Config, opts Options) (*App, error) {
	app := &App{Config: cfg}

	logger := opts.Logger
	if logger == nil {
		built, closeLog, err := logging.New(cfg.Log.File, cfg.Log.Level)
		if err != nil {
			return nil, fmt.Errorf("new logger: %w", err)
		}
		logger = built
		app.closers = append(app.closers, closeLog)
	}
	app.Logger = logger

	projector := sessionoutadapter.NewSQLiteSessionProjector(cfg.DBPath)
	app.closers = append(app.closers, projector.Close)

	clk := clock.SystemClock{}
	progressOut := opts.Progress
	if progressOut == nil {
		progressOut = io.Discard
	}
	var notifier sessionout.Notifier
	if cfg.Notify.Enabled {
		notifier = sessionoutadapter.NewDesktopNotifier()
	}

	sessionUC := sessionusecase.NewInteractor(
		sessionservice.NewSessionService(clk, clk),
		sessionusecase.Ports{
			Store:     sessionoutadapter.NewJSONHistoryStore(cfg.HistoryPath),
			Tx:        sessionoutadapter.NewFileLockManager(cfg.HistoryPath),
			Progress:  sessionoutadapter.NewTerminalProgress(progressOut, clk),
			Notifier:  notifier,
			Projector: projector,
			Notes:     sessionoutadapter.NewVaultNoteStore(),
			IDs:       id.UUID{},
			Logger:    logger.With(slog.String("component", "session")),
		},
	)
	app.SessionCLI = sessioninadapter.NewCLIHandler(sessionUC)
	return app, nil
}

// Close releases the projection database and the log file.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func RunPager(title, content string, in io.Reader, out io.Writer) error {
	return historyview.Run(title, content, in, out)
}
