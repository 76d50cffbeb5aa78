package out

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	sessionout "oryx/internal/modules/session/port/out"
	apperrors "oryx/internal/platform/errors"
)

const notifyTimeout = 5 * time.Second

// CommandRunner executes an external program and waits for it.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// DesktopNotifier shells out to the platform notification tool.
type DesktopNotifier struct {
	goos string
	run  CommandRunner
}

func NewDesktopNotifier() sessionout.Notifier {
	return NewDesktopNotifierFor(runtime.GOOS, runCommand)
}

func NewDesktopNotifierFor(goos string, run CommandRunner) *DesktopNotifier {
	return &DesktopNotifier{goos: goos, run: run}
}

// NotificationBody is the text shown when a session completes.
func NotificationBody(title string) string {
	return fmt.Sprintf("Session Ended: `%s`, take a break.", title)
}

func (n *DesktopNotifier) Notify(ctx context.Context, title string) error {
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	body := NotificationBody(title)
	var err error
	switch n.goos {
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "Session"`, appleScriptEscape(body))
		err = n.run(ctx, "osascript", "-e", script)
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
		err = n.run(ctx, "notify-send", "--app-name=oryx", "--expire-time=0", "Session", body)
	default:
		err = fmt.Errorf("unsupported platform %s", n.goos)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrNotify, err)
	}
	return nil
}

func appleScriptEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

func runCommand(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
