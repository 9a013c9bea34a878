package cart

import (
	"sync"
	"time"
)

const DefaultToastDuration = 2 * time.Second

// Notifier shows at most one message at a time. Show replaces whatever is
// pending and restarts the dismiss timer.
type Notifier struct {
	mu      sync.Mutex
	delay   time.Duration
	message string
	visible bool
	timer   *time.Timer
	gen     uint64
}

func NewNotifier(delay time.Duration) *Notifier {
	if delay <= 0 {
		delay = DefaultToastDuration
	}
	return &Notifier{delay: delay}
}

func (n *Notifier) Delay() time.Duration { return n.delay }

func (n *Notifier) Show(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.timer != nil {
		n.timer.Stop()
	}
	n.gen++
	gen := n.gen
	n.message = message
	n.visible = true
	n.timer = time.AfterFunc(n.delay, func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		// a later Show owns the toast now
		if n.gen == gen {
			n.visible = false
		}
	})
}

// Current returns the visible message, if any.
func (n *Notifier) Current() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.message, n.visible
}

func (n *Notifier) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.timer != nil {
		n.timer.Stop()
	}
	n.visible = false
}
