package modules

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"topbar/internal/config"
	"topbar/internal/module"
)

const networkInterval = 3 * time.Second

// Network shows the link state of one interface, optionally with rx/tx
// rates computed from /proc/net/dev counter deltas.
type Network struct {
	module.Base
	gate     probeGate
	sysPath  string
	procPath string

	mu       sync.Mutex
	detail   bool
	iface    string
	up       bool
	rxRate   uint64 // bytes/sec
	txRate   uint64
	lastRx   uint64
	lastTx   uint64
	lastSeen time.Time
}

// NewNetwork creates the network module reading from /sys and /proc.
func NewNetwork() *Network {
	return &Network{
		sysPath:  "/sys/class/net",
		procPath: "/proc/net/dev",
	}
}

// ID implements module.Module.
func (n *Network) ID() string { return "network" }

// DisplayText implements module.Module.
func (n *Network) DisplayText(cfg *config.Config) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.iface == "" {
		return ""
	}
	if !n.up {
		return n.iface + " down"
	}
	if n.detail {
		return fmt.Sprintf("%s Σ↓%s ↑%s", n.iface,
			humanize.IBytes(n.lastRx), humanize.IBytes(n.lastTx))
	}
	if cfg != nil && cfg.Modules.Network.ShowRates {
		return fmt.Sprintf("%s ↓%s ↑%s", n.iface, rateText(n.rxRate), rateText(n.txRate))
	}
	return n.iface + " up"
}

// OnClick toggles between live rates and session totals.
func (n *Network) OnClick() {
	n.mu.Lock()
	n.detail = !n.detail
	n.mu.Unlock()
}

// Update implements module.Module.
func (n *Network) Update(uc module.UpdateContext) {
	if !n.gate.tryStart(uc.Now, networkInterval) {
		return
	}
	want := ""
	if uc.Config != nil {
		want = uc.Config.Modules.Network.Interface
	}
	notify := uc.Notify
	now := uc.Now
	go func() {
		defer n.gate.finish()
		iface := want
		if iface == "" {
			iface = firstNonLoopback(n.sysPath)
		}
		if iface == "" {
			n.publish("", false, 0, 0, now)
			return
		}
		up := readSysFile(filepath.Join(n.sysPath, iface, "operstate")) == "up"
		rx, tx := readNetCounters(n.procPath, iface)
		n.publish(iface, up, rx, tx, now)
		if notify != nil {
			notify.Notify(n.ID())
		}
	}()
}

// publish folds new counters into rates under the lock. Counter resets
// (interface bounce) yield a zero rate rather than a huge unsigned delta.
func (n *Network) publish(iface string, up bool, rx, tx uint64, now time.Time) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if iface == n.iface && !n.lastSeen.IsZero() {
		elapsed := now.Sub(n.lastSeen).Seconds()
		if elapsed > 0 && rx >= n.lastRx && tx >= n.lastTx {
			n.rxRate = uint64(float64(rx-n.lastRx) / elapsed)
			n.txRate = uint64(float64(tx-n.lastTx) / elapsed)
		} else {
			n.rxRate, n.txRate = 0, 0
		}
	} else {
		n.rxRate, n.txRate = 0, 0
	}
	n.iface = iface
	n.up = up
	n.lastRx, n.lastTx = rx, tx
	n.lastSeen = now
}

// Tooltip implements module.Module.
func (n *Network) Tooltip() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.iface == "" {
		return "", false
	}
	return fmt.Sprintf("%s: total ↓%s ↑%s", n.iface,
		humanize.IBytes(n.lastRx), humanize.IBytes(n.lastTx)), true
}

// PreferredWidth implements module.Module. Rates churn every probe, so the
// widest plausible rendering is reserved up front.
func (n *Network) PreferredWidth() int { return 24 }

func rateText(bps uint64) string {
	return humanize.IBytes(bps) + "/s"
}

func firstNonLoopback(sysPath string) string {
	entries, err := os.ReadDir(sysPath)
	if err != nil {
		return ""
	}
	for _, e := range entries {
		name := e.Name()
		if name == "lo" {
			continue
		}
		if readSysFile(filepath.Join(sysPath, name, "operstate")) == "up" {
			return name
		}
	}
	for _, e := range entries {
		if e.Name() != "lo" {
			return e.Name()
		}
	}
	return ""
}

// readNetCounters parses one interface's rx/tx byte counters out of the
// /proc/net/dev table.
func readNetCounters(procPath, iface string) (rx, tx uint64) {
	data, err := os.ReadFile(procPath)
	if err != nil {
		return 0, 0
	}
	for _, line := range strings.Split(string(data), "\n") {
		name, rest, ok := strings.Cut(line, ":")
		if !ok || strings.TrimSpace(name) != iface {
			continue
		}
		fields := strings.Fields(rest)
		// rx bytes is field 0, tx bytes is field 8.
		if len(fields) < 9 {
			return 0, 0
		}
		rx, _ = strconv.ParseUint(fields[0], 10, 64)
		tx, _ = strconv.ParseUint(fields[8], 10, 64)
		return rx, tx
	}
	return 0, 0
}
