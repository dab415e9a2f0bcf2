package modules

import (
	"sync"
	"time"

	"topbar/internal/config"
	"topbar/internal/module"
	"topbar/internal/tmux"
)

const activeAppInterval = 2 * time.Second

// ActiveApp shows the foreground program: under tmux the active window name,
// annotated with the session. The tmux probe shells out, so it runs in a
// worker and the UI loop only ever reads the cached text.
type ActiveApp struct {
	module.Base
	gate probeGate

	mu      sync.Mutex
	text    string
	session string

	// probe is swappable for tests.
	probe func() (window, session string, err error)
}

// NewActiveApp creates the active-app module.
func NewActiveApp() *ActiveApp {
	return &ActiveApp{probe: probeTmux}
}

func probeTmux() (string, string, error) {
	if !tmux.Inside() {
		return "", "", nil
	}
	win, err := tmux.ActiveWindow()
	if err != nil {
		return "", "", err
	}
	sess, err := tmux.SessionName()
	if err != nil {
		return win, "", err
	}
	return win, sess, nil
}

// ID implements module.Module.
func (a *ActiveApp) ID() string { return "active_app" }

// DisplayText implements module.Module.
func (a *ActiveApp) DisplayText(*config.Config) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.text
}

// Update implements module.Module. Spawns the probe worker when due.
func (a *ActiveApp) Update(uc module.UpdateContext) {
	if !a.gate.tryStart(uc.Now, activeAppInterval) {
		return
	}
	notify := uc.Notify
	go func() {
		defer a.gate.finish()
		win, sess, err := a.probe()
		if err != nil {
			// Keep the last good text; a transient tmux failure should
			// not blank the bar.
			return
		}
		a.mu.Lock()
		a.text = win
		a.session = sess
		a.mu.Unlock()
		if notify != nil {
			notify.Notify(a.ID())
		}
	}()
}

// Tooltip shows the session the window belongs to.
func (a *ActiveApp) Tooltip() (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == "" {
		return "", false
	}
	return "session: " + a.session, true
}
