// Package notify implements the Notifier port with macOS desktop
// notifications.
package notify

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/reviewinator/reviewinator/internal/domain/model"
	"github.com/reviewinator/reviewinator/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.Notifier = (*Desktop)(nil)

// Desktop dispatches notifications through terminal-notifier when installed
// (which supports a click-open URL), falling back to osascript's
// display notification (which does not).
type Desktop struct {
	terminalNotifier string // Resolved path, empty when not installed.
}

// NewDesktop creates a Desktop notifier, probing for terminal-notifier once.
func NewDesktop() *Desktop {
	path, err := exec.LookPath("terminal-notifier")
	if err != nil {
		path = ""
	}
	return &Desktop{terminalNotifier: path}
}

// Notify delivers one notification. Errors are returned for logging only;
// callers never retry and never let delivery failures abort a poll.
func (d *Desktop) Notify(ctx context.Context, n model.Notification) error {
	if d.terminalNotifier != "" {
		args := []string{"-title", n.Title, "-message", n.Body}
		if n.URL != "" {
			args = append(args, "-open", n.URL)
		}
		if err := exec.CommandContext(ctx, d.terminalNotifier, args...).Run(); err != nil {
			return fmt.Errorf("terminal-notifier: %w", err)
		}
		return nil
	}

	script := fmt.Sprintf("display notification %s with title %s",
		osascriptQuote(n.Body), osascriptQuote(n.Title))
	if err := exec.CommandContext(ctx, "osascript", "-e", script).Run(); err != nil {
		return fmt.Errorf("osascript: %w", err)
	}
	return nil
}

// osascriptQuote wraps s in AppleScript double quotes, escaping embedded
// quotes and backslashes.
func osascriptQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
