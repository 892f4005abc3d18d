package notifymock

import (
	"context"
	"sync"

	"credimonto-backend/internal/notify"
)

var _ notify.Notifier = (*Capture)(nil)

type Entry struct {
	BorrowerID string
	Kind       notify.Kind
	Message    string
}

// Capture records every notification for later assertions.
type Capture struct {
	mu      sync.Mutex
	Entries []Entry
}

func (c *Capture) Notify(_ context.Context, borrowerID string, kind notify.Kind, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Entries = append(c.Entries, Entry{BorrowerID: borrowerID, Kind: kind, Message: message})
}

// ByKind returns the captured entries of one kind.
func (c *Capture) ByKind(kind notify.Kind) []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Entry
	for _, e := range c.Entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}
