// Package refresh is the one-way path background workers use to wake the UI
// loop after off-thread work completes. Workers never touch layout or drag
// state; they publish into their own module and post a notification here.
package refresh

import "time"

// Notification asks the UI loop to re-render because a module's cached
// state changed.
type Notification struct {
	ModuleID string
	At       time.Time
}

// Notifier is what workers hold. Notify must never block.
type Notifier interface {
	Notify(moduleID string)
}

// ChanNotifier emits notifications to a channel consumed by the UI loop.
type ChanNotifier struct {
	ch chan Notification
}

// NewChanNotifier creates a notifier with the given buffer size.
func NewChanNotifier(buf int) *ChanNotifier {
	if buf <= 0 {
		buf = 16
	}
	return &ChanNotifier{ch: make(chan Notification, buf)}
}

// Notify implements Notifier. Non-blocking: if the channel is full a frame
// refresh is already pending, so dropping loses nothing.
func (n *ChanNotifier) Notify(moduleID string) {
	select {
	case n.ch <- Notification{ModuleID: moduleID, At: time.Now()}:
	default:
	}
}

// C returns the receive side for the UI loop.
func (n *ChanNotifier) C() <-chan Notification {
	return n.ch
}

// Discard is a Notifier that drops everything. Useful in tests and for
// modules updated outside a running loop.
type Discard struct{}

// Notify implements Notifier.
func (Discard) Notify(string) {}
