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

const (
	sysinfoInterval = 2 * time.Second
	historyLen      = 60
)

// HistorySource is implemented by modules that keep a rolling series of
// percentage samples. Callers reach it through module.As; the engine path
// never depends on it.
type HistorySource interface {
	History() (cpu, mem []float64)
}

// SysInfo shows CPU and memory utilization from procfs, keeping a short
// history ring of each for the tooltip sparkline.
type SysInfo struct {
	module.Base
	gate     probeGate
	statPath string
	memPath  string

	mu       sync.Mutex
	cpu      float64
	mem      float64
	cpuHist  ring
	memHist  ring
	lastBusy uint64
	lastTot  uint64
}

// NewSysInfo creates the sysinfo module.
func NewSysInfo() *SysInfo {
	return &SysInfo{
		statPath: "/proc/stat",
		memPath:  "/proc/meminfo",
	}
}

// ID implements module.Module.
func (s *SysInfo) ID() string { return "sysinfo" }

// DisplayText implements module.Module.
func (s *SysInfo) DisplayText(*config.Config) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastTot == 0 {
		return ""
	}
	return fmt.Sprintf("CPU %2.0f%%  MEM %2.0f%%", s.cpu, s.mem)
}

// Update implements module.Module.
func (s *SysInfo) Update(uc module.UpdateContext) {
	if !s.gate.tryStart(uc.Now, sysinfoInterval) {
		return
	}
	notify := uc.Notify
	go func() {
		defer s.gate.finish()
		busy, total := readCPUCounters(s.statPath)
		mem := readMemPercent(s.memPath)

		s.mu.Lock()
		if s.lastTot > 0 && total > s.lastTot {
			s.cpu = 100 * float64(busy-s.lastBusy) / float64(total-s.lastTot)
			s.cpuHist.push(s.cpu)
		}
		s.lastBusy, s.lastTot = busy, total
		s.mem = mem
		s.memHist.push(mem)
		s.mu.Unlock()
		if notify != nil {
			notify.Notify(s.ID())
		}
	}()
}

// History implements HistorySource.
func (s *SysInfo) History() (cpu, mem []float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cpuHist.snapshot(), s.memHist.snapshot()
}

// Tooltip implements module.Module.
func (s *SysInfo) Tooltip() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastTot == 0 {
		return "", false
	}
	return fmt.Sprintf("CPU %s\nMEM %s", sparkline(s.cpuHist.snapshot()), sparkline(s.memHist.snapshot())), true
}

// PreferredWidth implements module.Module.
func (s *SysInfo) PreferredWidth() int { return 18 }

// ring is a fixed-capacity sample buffer; push drops the oldest sample.
type ring struct {
	buf   [historyLen]float64
	next  int
	count int
}

func (r *ring) push(v float64) {
	r.buf[r.next] = v
	r.next = (r.next + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

// snapshot returns samples oldest first.
func (r *ring) snapshot() []float64 {
	out := make([]float64, 0, r.count)
	start := r.next - r.count
	if start < 0 {
		start += len(r.buf)
	}
	for i := 0; i < r.count; i++ {
		out = append(out, r.buf[(start+i)%len(r.buf)])
	}
	return out
}

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

func sparkline(vals []float64) string {
	var b strings.Builder
	for _, v := range vals {
		idx := int(v / 100 * float64(len(sparkRunes)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkRunes) {
			idx = len(sparkRunes) - 1
		}
		b.WriteRune(sparkRunes[idx])
	}
	return b.String()
}

// readCPUCounters sums the aggregate cpu line of /proc/stat into busy and
// total jiffies.
func readCPUCounters(path string) (busy, total uint64) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0
	}
	for _, line := range strings.Split(string(data), "\n") {
		if !strings.HasPrefix(line, "cpu ") {
			continue
		}
		fields := strings.Fields(line)[1:]
		for i, f := range fields {
			v, err := strconv.ParseUint(f, 10, 64)
			if err != nil {
				break
			}
			total += v
			// idle and iowait are fields 3 and 4.
			if i != 3 && i != 4 {
				busy += v
			}
		}
		return busy, total
	}
	return 0, 0
}

// readMemPercent computes used memory the way free(1) does, from MemTotal
// and MemAvailable.
func readMemPercent(path string) float64 {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	var total, avail uint64
	for _, line := range strings.Split(string(data), "\n") {
		key, rest, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			continue
		}
		v, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil {
			continue
		}
		switch key {
		case "MemTotal":
			total = v
		case "MemAvailable":
			avail = v
		}
	}
	if total == 0 {
		return 0
	}
	return 100 * float64(total-avail) / float64(total)
}
