package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"oryx/internal/bootstrap"
	"oryx/internal/platform/config"
	apperrors "oryx/internal/platform/errors"
	"oryx/internal/ui/report"
)

const banner = "▄▄▄▄▄▄▄▄▄▄▄▄▄▄▄▄▄▄▄▄▄\n█▀▄▄▀█ ▄▄▀█ ██ █ █ ██\n█ ██ █ ▀▀▄█ ▀▀ █▀▄▀██\n██▄▄██▄█▄▄█▀▀▀▄█▄█▄██\n▀▀▀▀▀▀▀▀▀▀▀▀▀▀▀▀▀▀▀▀▀"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, apperrors.ErrSessionInterrupted) {
			os.Exit(130)
		}
		os.Exit(1)
	}
}

type globalFlags struct {
	configFile string
	noNotify   bool
	viper      *viper.Viper
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{viper: viper.New()}
	var title, labels string

	root := &cobra.Command{
		Use:           "oryx",
		Short:         "A time tracker.",
		Long:          banner + "\n\nA time tracker: 25 minute focus sessions, logged and summarised by label.",
		Version:       "0.2.0",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("title") {
				return cmd.Help()
			}
			app, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			defer closeApp(cmd, app)
			out, err := app.SessionCLI.Run(cmd.Context(), title, labels)
			if err != nil {
				return err
			}
			app.Logger.Debug("session recorded", "run_id", out.RunID, "history", app.Config.HistoryPath)
			return nil
		},
	}
	root.Flags().StringVarP(&title, "title", "t", "", "the title of the session")
	root.Flags().StringVarP(&labels, "labels", "l", "", "comma separated labels (categories)")

	persistent := root.PersistentFlags()
	persistent.StringVar(&flags.configFile, "config", "", "config file (default ./.oryx.yaml or ~/.config/oryx/config.yaml)")
	persistent.String("history", config.DefaultHistoryPath, "session history file")
	persistent.String("log-level", "WARN", "log level: DEBUG|INFO|WARN|ERROR")
	persistent.String("log-file", "", "write JSON logs to this file instead of stderr")
	persistent.BoolVar(&flags.noNotify, "no-notify", false, "skip the desktop notification")
	_ = flags.viper.BindPFlag("history_path", persistent.Lookup("history"))
	_ = flags.viper.BindPFlag("log.level", persistent.Lookup("log-level"))
	_ = flags.viper.BindPFlag("log.file", persistent.Lookup("log-file"))

	root.AddCommand(newStatusCmd(flags))
	root.AddCommand(newLogCmd(flags))
	root.AddCommand(newLabelsCmd(flags))
	root.AddCommand(newReindexCmd(flags))
	root.AddCommand(newExportCmd(flags))
	return root
}

func loadApp(cmd *cobra.Command, flags *globalFlags) (*bootstrap.App, error) {
	cfg, err := config.Load(flags.viper, flags.configFile)
	if err != nil {
		return nil, err
	}
	if flags.noNotify {
		cfg.Notify.Enabled = false
	}
	return bootstrap.New(cfg, bootstrap.Options{Progress: cmd.OutOrStdout()})
}

func closeApp(cmd *cobra.Command, app *bootstrap.App) {
	if err := app.Close(); err != nil {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), err)
	}
}

func newStatusCmd(flags *globalFlags) *cobra.Command {
	var labels string
	var eachMatch bool
	status := &cobra.Command{
		Use:   "status",
		Short: "Show session status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			defer closeApp(cmd, app)
			out, err := app.SessionCLI.Status(cmd.Context(), labels, eachMatch)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), report.StatusLine(out))
			return nil
		},
	}
	status.Flags().StringVarP(&labels, "labels", "l", "", "filter sessions using comma separated labels")
	status.Flags().BoolVar(&eachMatch, "each-match", false, "count a session once per matching label")
	return status
}

func newLogCmd(flags *globalFlags) *cobra.Command {
	var labels string
	var eachMatch, noPager bool
	logCmd := &cobra.Command{
		Use:   "log",
		Short: "Show session history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			defer closeApp(cmd, app)
			out, err := app.SessionCLI.Log(cmd.Context(), labels, eachMatch)
			if err != nil {
				return err
			}
			content := report.Log(out)
			if app.Config.Pager.Enabled && !noPager && isTerminal(cmd.OutOrStdout()) {
				return bootstrap.RunPager(pagerTitle(labels), content, cmd.InOrStdin(), cmd.OutOrStdout())
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), content)
			return nil
		},
	}
	logCmd.Flags().StringVarP(&labels, "labels", "l", "", "filter sessions using comma separated labels")
	logCmd.Flags().BoolVar(&eachMatch, "each-match", false, "list a session once per matching label")
	logCmd.Flags().BoolVar(&noPager, "no-pager", false, "print instead of opening the pager")
	return logCmd
}

func newLabelsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "labels",
		Short: "Show session counts per label",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			defer closeApp(cmd, app)
			out, err := app.SessionCLI.Labels(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), report.Labels(out))
			return nil
		},
	}
}

func newReindexCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the SQLite session index from the history file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			defer closeApp(cmd, app)
			n, err := app.SessionCLI.Reindex(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "reindex completed: %d sessions -> %s\n", n, app.Config.DBPath)
			return nil
		},
	}
}

func newExportCmd(flags *globalFlags) *cobra.Command {
	var dir string
	export := &cobra.Command{
		Use:   "export --dir <path>",
		Short: "Write sessions as markdown notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(dir) == "" {
				return fmt.Errorf("--dir is required")
			}
			app, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			defer closeApp(cmd, app)
			out, err := app.SessionCLI.Export(cmd.Context(), dir)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported %d sessions to %s index=%s\n", out.Notes, out.Dir, out.IndexPath)
			return nil
		},
	}
	export.Flags().StringVar(&dir, "dir", "", "export directory")
	return export
}

func pagerTitle(labels string) string {
	if strings.TrimSpace(labels) == "" {
		return "oryx log"
	}
	return "oryx log: " + labels
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
