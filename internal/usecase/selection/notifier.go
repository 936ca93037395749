package selection

import (
	"context"
	"sync"
)

// Change describes a shortlist update.
type Change struct {
	Session string
	IDs     []string
}

// notifier fans changes out to in-process subscribers. A subscriber whose
// buffer is full misses the change.
type notifier struct {
	mu     sync.Mutex
	subs   map[chan Change]struct{}
	buffer int
}

func newNotifier(buffer int) *notifier {
	if buffer <= 0 {
		buffer = 1
	}
	return &notifier{subs: make(map[chan Change]struct{}), buffer: buffer}
}

// subscribe registers a channel that is closed once ctx is done.
func (n *notifier) subscribe(ctx context.Context) <-chan Change {
	ch := make(chan Change, n.buffer)

	n.mu.Lock()
	n.subs[ch] = struct{}{}
	n.mu.Unlock()

	go func() {
		<-ctx.Done()
		n.mu.Lock()
		delete(n.subs, ch)
		close(ch)
		n.mu.Unlock()
	}()
	return ch
}

// publish delivers c to every subscriber without blocking and returns how many missed it.
func (n *notifier) publish(c Change) int {
	n.mu.Lock()
	defer n.mu.Unlock()

	dropped := 0
	for ch := range n.subs {
		ids := make([]string, len(c.IDs))
		copy(ids, c.IDs)
		select {
		case ch <- Change{Session: c.Session, IDs: ids}:
		default:
			dropped++
		}
	}
	return dropped
}

func (n *notifier) len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs)
}
