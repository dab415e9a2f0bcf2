// Package modules contains the concrete status modules. Each one caches its
// display state; anything that blocks runs in a worker goroutine that
// publishes under the module's own lock and posts a refresh notification.
package modules

import (
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"topbar/internal/config"
	"topbar/internal/module"
)

// Clock shows the time, optionally with seconds, weekday and date.
type Clock struct {
	module.Base
	text   string
	sample string
	now    func() time.Time
}

// NewClock creates the clock module.
func NewClock() *Clock {
	c := &Clock{now: time.Now}
	c.sample = SampleText(config.ClockConfig{})
	return c
}

// ID implements module.Module.
func (c *Clock) ID() string { return "clock" }

// DisplayText implements module.Module.
func (c *Clock) DisplayText(*config.Config) string { return c.text }

// Update reformats the cached text. Pure formatting, nothing to delegate.
func (c *Clock) Update(uc module.UpdateContext) {
	cc := clockCfg(uc.Config)
	c.text = formatClock(c.now(), cc)
	c.sample = SampleText(cc)
}

// Tooltip implements module.Module.
func (c *Clock) Tooltip() (string, bool) {
	return c.now().Format("Monday, January 2, 2006 3:04:05 PM"), true
}

// PreferredWidth reserves the width of the widest plausible rendering for
// the active format, so the bar never resizes as the time advances.
func (c *Clock) PreferredWidth() int {
	return runewidth.StringWidth(c.sample) + 2
}

func clockCfg(cfg *config.Config) config.ClockConfig {
	if cfg == nil {
		return config.ClockConfig{}
	}
	return cfg.Modules.Clock
}

func formatClock(now time.Time, cc config.ClockConfig) string {
	var b strings.Builder
	if cc.ShowDay {
		b.WriteString(now.Format("Mon"))
		b.WriteByte(' ')
	}
	if cc.ShowDate {
		b.WriteString(now.Format("Jan 2"))
		b.WriteString("  ")
	}
	b.WriteString(now.Format(timeLayout(cc)))
	return b.String()
}

func timeLayout(cc config.ClockConfig) string {
	switch {
	case cc.Format24h && cc.ShowSeconds:
		return "15:04:05"
	case cc.Format24h:
		return "15:04"
	case cc.ShowSeconds:
		return "3:04:05 PM"
	default:
		return "3:04 PM"
	}
}

// SampleText returns the widest plausible rendering for the format: widest
// weekday and month abbreviations, a two-digit day, and the latest time of
// day. Widths derived from it stay valid for any actual value.
func SampleText(cc config.ClockConfig) string {
	sample := time.Date(2025, time.September, 24, 23, 59, 59, 0, time.Local)
	if !cc.Format24h {
		sample = time.Date(2025, time.September, 24, 12, 59, 59, 0, time.Local)
	}
	return formatClock(sample, cc)
}
