package modules

import (
	"context"
	"sync"
	"time"

	"topbar/internal/config"
	"topbar/internal/module"
	"topbar/internal/pty"
)

const (
	scriptInterval = 10 * time.Second
	scriptTimeout  = 8 * time.Second
)

// Script shows the first output line of a user-configured command. The
// command runs under a pty so scripts see a real terminal.
type Script struct {
	module.Base
	gate   probeGate
	runner pty.Runner

	mu   sync.Mutex
	text string
}

// NewScript creates the script module.
func NewScript() *Script {
	return &Script{runner: &pty.CreackPTY{}}
}

// ID implements module.Module.
func (s *Script) ID() string { return "script" }

// DisplayText implements module.Module.
func (s *Script) DisplayText(cfg *config.Config) string {
	if cfg == nil || cfg.Modules.Script.Command == "" {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// Update implements module.Module.
func (s *Script) Update(uc module.UpdateContext) {
	if uc.Config == nil || uc.Config.Modules.Script.Command == "" {
		return
	}
	if !s.gate.tryStart(uc.Now, scriptInterval) {
		return
	}
	command := uc.Config.Modules.Script.Command
	notify := uc.Notify
	go func() {
		defer s.gate.finish()
		ctx, cancel := context.WithTimeout(context.Background(), scriptTimeout)
		defer cancel()
		line, err := pty.CaptureLine(ctx, s.runner, command)
		if err != nil {
			return
		}
		s.mu.Lock()
		s.text = line
		s.mu.Unlock()
		if notify != nil {
			notify.Notify(s.ID())
		}
	}()
}

// Tooltip shows which command produced the text.
func (s *Script) Tooltip() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.text == "" {
		return "", false
	}
	return s.text, true
}
