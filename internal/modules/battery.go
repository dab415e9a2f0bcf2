package modules

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"topbar/internal/config"
	"topbar/internal/module"
)

const batteryInterval = 10 * time.Second

// Battery shows charge percentage and charging state from the kernel's
// power_supply class. Machines without a battery hide the module entirely.
type Battery struct {
	module.Base
	gate    probeGate
	sysPath string

	mu       sync.Mutex
	present  bool
	percent  int
	charging bool
	probed   bool
}

// NewBattery creates the battery module reading from /sys.
func NewBattery() *Battery {
	return &Battery{sysPath: "/sys/class/power_supply"}
}

// ID implements module.Module.
func (b *Battery) ID() string { return "battery" }

// DisplayText implements module.Module.
func (b *Battery) DisplayText(*config.Config) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.present {
		return ""
	}
	glyph := batteryGlyph(b.percent)
	if b.charging {
		glyph = "⚡"
	}
	return fmt.Sprintf("%s %d%%", glyph, b.percent)
}

// Visible hides the module on machines without a battery. Until the first
// probe lands we claim visible so the module isn't dropped from layout before
// it had a chance to report.
func (b *Battery) Visible() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.probed || b.present
}

// Update implements module.Module.
func (b *Battery) Update(uc module.UpdateContext) {
	if !b.gate.tryStart(uc.Now, batteryInterval) {
		return
	}
	notify := uc.Notify
	go func() {
		defer b.gate.finish()
		present, pct, charging := readBattery(b.sysPath)
		b.mu.Lock()
		b.present = present
		b.percent = pct
		b.charging = charging
		b.probed = true
		b.mu.Unlock()
		if notify != nil {
			notify.Notify(b.ID())
		}
	}()
}

// Tooltip implements module.Module.
func (b *Battery) Tooltip() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.present {
		return "", false
	}
	state := "discharging"
	if b.charging {
		state = "charging"
	}
	return fmt.Sprintf("Battery %d%%, %s", b.percent, state), true
}

// PreferredWidth implements module.Module. "⚡ 100%" is the widest case.
func (b *Battery) PreferredWidth() int { return 8 }

func readBattery(sysPath string) (present bool, percent int, charging bool) {
	entries, err := os.ReadDir(sysPath)
	if err != nil {
		return false, 0, false
	}
	for _, e := range entries {
		dir := filepath.Join(sysPath, e.Name())
		if readSysFile(filepath.Join(dir, "type")) != "Battery" {
			continue
		}
		pct, err := strconv.Atoi(readSysFile(filepath.Join(dir, "capacity")))
		if err != nil {
			continue
		}
		if pct < 0 {
			pct = 0
		}
		if pct > 100 {
			pct = 100
		}
		status := readSysFile(filepath.Join(dir, "status"))
		return true, pct, status == "Charging" || status == "Full"
	}
	return false, 0, false
}

func readSysFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func batteryGlyph(pct int) string {
	switch {
	case pct >= 80:
		return "█"
	case pct >= 60:
		return "▓"
	case pct >= 40:
		return "▒"
	case pct >= 20:
		return "░"
	default:
		return "!"
	}
}
