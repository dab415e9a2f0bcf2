package modules

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"topbar/internal/config"
	"topbar/internal/module"
)

const uptimeInterval = 30 * time.Second

// Uptime shows how long the machine has been up, from /proc/uptime.
type Uptime struct {
	module.Base
	gate     probeGate
	procPath string

	mu sync.Mutex
	up time.Duration
}

// NewUptime creates the uptime module.
func NewUptime() *Uptime {
	return &Uptime{procPath: "/proc/uptime"}
}

// ID implements module.Module.
func (u *Uptime) ID() string { return "uptime" }

// DisplayText implements module.Module.
func (u *Uptime) DisplayText(*config.Config) string {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.up == 0 {
		return ""
	}
	return "up " + uptimeText(u.up)
}

// Update implements module.Module. Reading one procfs line is cheap enough
// to do inline, no worker needed.
func (u *Uptime) Update(uc module.UpdateContext) {
	if !u.gate.tryStart(uc.Now, uptimeInterval) {
		return
	}
	defer u.gate.finish()
	d, err := readUptime(u.procPath)
	if err != nil {
		return
	}
	u.mu.Lock()
	u.up = d
	u.mu.Unlock()
}

// Tooltip implements module.Module.
func (u *Uptime) Tooltip() (string, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.up == 0 {
		return "", false
	}
	return "Up since " + time.Now().Add(-u.up).Format("Mon Jan 2 15:04"), true
}

func readUptime(path string) (time.Duration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read uptime: %w", err)
	}
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return 0, fmt.Errorf("parse uptime: empty file")
	}
	secs, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, fmt.Errorf("parse uptime: %w", err)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// uptimeText renders a duration the way uptime(1) does, coarsest two units.
func uptimeText(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	mins := int(d.Minutes()) % 60
	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, mins)
	default:
		return fmt.Sprintf("%dm", mins)
	}
}
