// Package tmux probes the surrounding tmux session via exec. The bar shows
// the active window the way a desktop bar shows the foreground application.
// All probes run in workers; none are called on the UI loop.
package tmux

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Inside reports whether the process runs under tmux.
func Inside() bool {
	return os.Getenv("TMUX") != ""
}

// display runs tmux display-message with a format and returns the trimmed
// output.
func display(format string) (string, error) {
	cmd := exec.Command("tmux", "display-message", "-p", format)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tmux display-message: %w: %s", err, strings.TrimSpace(out.String()))
	}
	return strings.TrimSpace(out.String()), nil
}

// ActiveWindow returns the current window's name.
func ActiveWindow() (string, error) {
	return display("#{window_name}")
}

// ActivePaneTitle returns the current pane's title, which interactive
// programs set to something richer than the window name.
func ActivePaneTitle() (string, error) {
	return display("#{pane_title}")
}

// SessionName returns the attached session's name.
func SessionName() (string, error) {
	return display("#{session_name}")
}
