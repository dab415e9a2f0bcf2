package modules

import (
	"fmt"
	"sync"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"topbar/internal/config"
	"topbar/internal/module"
)

const diskInterval = 30 * time.Second

// Disk shows free space on one mount point.
type Disk struct {
	module.Base
	gate probeGate

	mu    sync.Mutex
	mount string
	free  uint64
	total uint64
	err   bool

	// statfs is swappable for tests.
	statfs func(path string) (free, total uint64, err error)
}

// NewDisk creates the disk module.
func NewDisk() *Disk {
	return &Disk{statfs: statfsMount}
}

func statfsMount(path string) (uint64, uint64, error) {
	var st syscall.Statfs_t
	if err := syscall.Statfs(path, &st); err != nil {
		return 0, 0, fmt.Errorf("statfs %s: %w", path, err)
	}
	bsize := uint64(st.Bsize)
	return st.Bavail * bsize, st.Blocks * bsize, nil
}

// ID implements module.Module.
func (d *Disk) ID() string { return "disk" }

// DisplayText implements module.Module.
func (d *Disk) DisplayText(*config.Config) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err || d.total == 0 {
		return ""
	}
	return fmt.Sprintf("%s %s free", d.mount, humanize.IBytes(d.free))
}

// Update implements module.Module.
func (d *Disk) Update(uc module.UpdateContext) {
	if !d.gate.tryStart(uc.Now, diskInterval) {
		return
	}
	mount := "/"
	if uc.Config != nil && uc.Config.Modules.Disk.Mount != "" {
		mount = uc.Config.Modules.Disk.Mount
	}
	notify := uc.Notify
	go func() {
		defer d.gate.finish()
		free, total, err := d.statfs(mount)
		d.mu.Lock()
		d.mount = mount
		d.free = free
		d.total = total
		d.err = err != nil
		d.mu.Unlock()
		if notify != nil {
			notify.Notify(d.ID())
		}
	}()
}

// Tooltip implements module.Module.
func (d *Disk) Tooltip() (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err || d.total == 0 {
		return "", false
	}
	used := d.total - d.free
	return fmt.Sprintf("%s: %s used of %s", d.mount,
		humanize.IBytes(used), humanize.IBytes(d.total)), true
}

// PreferredWidth implements module.Module.
func (d *Disk) PreferredWidth() int { return 16 }
