package appointments

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// Collection is the cached appointment list a dashboard works from. It
// supports optimistic local patches: a patch marks the record tentative, and
// the next successful refresh replaces everything with server truth.
//
// A failed refresh leaves the previous list in place so the view keeps
// showing the last known good data.
type Collection struct {
	mu      sync.Mutex
	svc     *Service
	items   []Appointment
	loading bool
	loaded  bool
	logger  zerolog.Logger
}

func NewCollection(svc *Service, logger zerolog.Logger) *Collection {
	return &Collection{svc: svc, logger: logger}
}

// Load fetches the list if it has not been fetched yet.
func (c *Collection) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.loaded {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// Refresh replaces the cached list with the server's. All tentative flags
// are dropped: after a refresh every record is server truth.
func (c *Collection) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	items, err := c.svc.List(ctx)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.logger.Warn().Err(err).Msg("refresh failed, keeping cached appointments")
		return err
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	c.items = items
	c.loaded = true
	return nil
}

// Book reserves a slot and appends the new appointment to the cache.
func (c *Collection) Book(ctx context.Context, input BookingInput) (*Appointment, error) {
	appt, err := c.svc.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.items = append(c.items, *appt)
	c.mu.Unlock()
	return appt, nil
}

// PatchLocal applies fn to the cached record with the given id and marks it
// tentative. It does not call the server; callers pair it with a server
// mutation and a later Refresh.
func (c *Collection) PatchLocal(id int64, fn func(*Appointment)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == id {
			fn(&c.items[i])
			c.items[i].Tentative = true
			return true
		}
	}
	return false
}

// Get returns a copy of the cached record with the given id.
func (c *Collection) Get(id int64) (Appointment, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, a := range c.items {
		if a.ID == id {
			return a, true
		}
	}
	return Appointment{}, false
}

// Items returns a copy of the cached list.
func (c *Collection) Items() []Appointment {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Appointment, len(c.items))
	copy(out, c.items)
	return out
}

// Loading reports whether a refresh is in flight.
func (c *Collection) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}
