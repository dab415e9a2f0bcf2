// Package pty runs user script commands under a pseudo-terminal. Scripts
// that detect a tty (colors, prompts, spinners) behave the same way they do
// when run by hand, which is what a status script author expects.
package pty

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"github.com/creack/pty"
)

// Size is the pseudo-terminal geometry handed to a spawned command.
type Size struct {
	Rows uint16
	Cols uint16
}

// Runner spawns commands under a controlling terminal. Swappable so tests
// can avoid real ptys.
type Runner interface {
	Start(ctx context.Context, cmd *exec.Cmd, size Size) (io.ReadWriteCloser, error)
	Resize(rwc io.ReadWriteCloser, size Size) error
}

// CreackPTY implements Runner using github.com/creack/pty.
type CreackPTY struct{}

var _ Runner = (*CreackPTY)(nil)

// Start implements Runner.
func (c *CreackPTY) Start(ctx context.Context, cmd *exec.Cmd, size Size) (io.ReadWriteCloser, error) {
	ws := &pty.Winsize{Rows: size.Rows, Cols: size.Cols}
	f, err := pty.StartWithSize(cmd, ws)
	if err != nil {
		return nil, err
	}
	if ctx != nil && ctx.Done() != nil {
		go func() {
			<-ctx.Done()
			f.Close()
		}()
	}
	return f, nil
}

// Resize implements Runner. The rwc must be the *os.File returned by Start;
// other types are a no-op.
func (c *CreackPTY) Resize(rwc io.ReadWriteCloser, size Size) error {
	f, ok := rwc.(*os.File)
	if !ok {
		return nil
	}
	return pty.Setsize(f, &pty.Winsize{Rows: size.Rows, Cols: size.Cols})
}

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]|\r`)

// CaptureLine runs a shell command line under r and returns the first
// non-empty line of its output with ANSI escapes stripped. The context
// deadline bounds runaway scripts.
func CaptureLine(ctx context.Context, r Runner, command string) (string, error) {
	cmd := exec.Command("sh", "-c", command)
	f, err := r.Start(ctx, cmd, Size{Rows: 4, Cols: 200})
	if err != nil {
		return "", err
	}
	defer f.Close()

	var out bytes.Buffer
	// The pty read returns EIO when the child exits; that is normal EOF
	// for a pty, not a failure.
	io.Copy(&out, f)
	cmd.Wait()

	for _, line := range strings.Split(out.String(), "\n") {
		line = strings.TrimSpace(ansiRe.ReplaceAllString(line, ""))
		if line != "" {
			return line, nil
		}
	}
	return "", nil
}
