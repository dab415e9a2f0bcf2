package modules

import (
	"bytes"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"sync"
	"time"

	"topbar/internal/config"
	"topbar/internal/module"
	"topbar/internal/refresh"
)

const volumeInterval = 5 * time.Second

var amixerVolRe = regexp.MustCompile(`\[(\d+)%\].*\[(on|off)\]`)

// Volume shows the master mixer level. Scrolling on the module adjusts it,
// clicking toggles mute. Mixer commands shell out to amixer, so both the
// periodic probe and the user actions run off the UI loop.
type Volume struct {
	module.Base
	gate probeGate

	mu      sync.Mutex
	percent int
	muted   bool
	absent  bool
	probed  bool

	// cached from the last Update so the click/scroll handlers, which get
	// no context, know the step and where to post refreshes.
	step   int
	notify refresh.Notifier

	// run is swappable for tests.
	run func(args ...string) (string, error)
}

// NewVolume creates the volume module.
func NewVolume() *Volume {
	return &Volume{step: 5, run: runAmixer}
}

func runAmixer(args ...string) (string, error) {
	cmd := exec.Command("amixer", args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("amixer %v: %w", args, err)
	}
	return out.String(), nil
}

// ID implements module.Module.
func (v *Volume) ID() string { return "volume" }

// DisplayText implements module.Module.
func (v *Volume) DisplayText(*config.Config) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.absent {
		return ""
	}
	if v.muted {
		return "🔇"
	}
	return fmt.Sprintf("🔊 %d%%", v.percent)
}

// Visible hides the module when no mixer is available.
func (v *Volume) Visible() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return !v.probed || !v.absent
}

// Update implements module.Module.
func (v *Volume) Update(uc module.UpdateContext) {
	v.mu.Lock()
	if uc.Config != nil && uc.Config.Modules.Volume.Step > 0 {
		v.step = uc.Config.Modules.Volume.Step
	}
	v.notify = uc.Notify
	v.mu.Unlock()

	if !v.gate.tryStart(uc.Now, volumeInterval) {
		return
	}
	go func() {
		defer v.gate.finish()
		v.probeOnce()
	}()
}

func (v *Volume) probeOnce() {
	out, err := v.run("get", "Master")
	pct, muted, ok := parseAmixer(out)

	v.mu.Lock()
	v.probed = true
	if err != nil || !ok {
		v.absent = true
	} else {
		v.absent = false
		v.percent = pct
		v.muted = muted
	}
	notify := v.notify
	v.mu.Unlock()
	if notify != nil {
		notify.Notify(v.ID())
	}
}

// OnScroll adjusts the level by one step per notch, clamped to 0..100. The
// displayed value updates immediately; the mixer command follows async and
// the next probe reconciles any drift.
func (v *Volume) OnScroll(delta int) {
	v.mu.Lock()
	step := v.step
	target := v.percent + delta*step
	if target < 0 {
		target = 0
	}
	if target > 100 {
		target = 100
	}
	v.percent = target
	notify := v.notify
	v.mu.Unlock()

	go func() {
		v.run("set", "Master", strconv.Itoa(target)+"%")
		if notify != nil {
			notify.Notify(v.ID())
		}
	}()
}

// OnClick toggles mute.
func (v *Volume) OnClick() {
	v.mu.Lock()
	v.muted = !v.muted
	v.mu.Unlock()

	go func() {
		v.run("set", "Master", "toggle")
		v.probeOnce()
	}()
}

// Tooltip implements module.Module.
func (v *Volume) Tooltip() (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.absent {
		return "", false
	}
	if v.muted {
		return "Muted", true
	}
	return fmt.Sprintf("Volume %d%%, scroll to adjust", v.percent), true
}

// PreferredWidth implements module.Module. "🔊 100%" is the widest case.
func (v *Volume) PreferredWidth() int { return 9 }

// parseAmixer pulls level and mute state out of amixer get output, e.g.
// "Front Left: Playback 52428 [80%] [on]".
func parseAmixer(out string) (percent int, muted bool, ok bool) {
	m := amixerVolRe.FindStringSubmatch(out)
	if m == nil {
		return 0, false, false
	}
	pct, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false, false
	}
	return pct, m[2] == "off", true
}
