package session

import (
	"context"
	"sync"

	"github.com/heartmarshall/ndt-conclusions/internal/domain"
)

// outbox buffers notifications until the client picks them up. When full,
// the oldest notification is dropped.
type outbox struct {
	mu    sync.Mutex
	items []domain.Notification
	limit int
}

func newOutbox(limit int) *outbox {
	return &outbox{limit: limit}
}

func (o *outbox) Notify(_ context.Context, n domain.Notification) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.items = append(o.items, n)
	if o.limit > 0 && len(o.items) > o.limit {
		o.items = o.items[len(o.items)-o.limit:]
	}
}

func (o *outbox) drain() []domain.Notification {
	o.mu.Lock()
	defer o.mu.Unlock()

	items := o.items
	o.items = nil
	return items
}
