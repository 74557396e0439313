package view

import (
	"sync"
	"sync/atomic"

	"github.com/0xcro3dile/buddy-go/internal/domain/ports"
)

// Notifications fans notifications out to subscribers. Notify never blocks:
// a subscriber whose buffer is full misses the notification.
type Notifications struct {
	mu      sync.RWMutex
	subs    map[int]chan ports.Notification
	nextID  int
	dropped atomic.Int64
}

// NewNotifications creates a notifier with no subscribers.
func NewNotifications() *Notifications {
	return &Notifications{subs: make(map[int]chan ports.Notification)}
}

// Subscribe returns a channel of notifications and a function that ends the subscription.
func (n *Notifications) Subscribe(buffer int) (<-chan ports.Notification, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan ports.Notification, buffer)

	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.subs[id] = ch
	n.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs, id)
			n.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Notify implements ports.Notifier.
func (n *Notifications) Notify(note ports.Notification) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for _, ch := range n.subs {
		select {
		case ch <- note:
		default:
			n.dropped.Add(1)
		}
	}
}

// Dropped reports how many deliveries were skipped because a subscriber was full.
func (n *Notifications) Dropped() int64 {
	return n.dropped.Load()
}
