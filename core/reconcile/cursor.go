package reconcile

import (
	"sort"
	"sync"
	"time"
)

// Cursor is the progress of a paginated run for one kind.
type Cursor struct {
	// Kind is the kind being paginated.
	Kind string `json:"kind"`

	// Page is the last page processed.
	Page int `json:"page"`

	// Seen lists the remote ids processed in this run, sorted.
	Seen []string `json:"seen"`

	// UpdatedAt is when the cursor last advanced.
	UpdatedAt time.Time `json:"updated_at"`
}

type cursorState struct {
	page    int
	seen    map[string]struct{}
	updated time.Time
}

// Cursors tracks pagination progress per kind. It is safe for concurrent use.
type Cursors struct {
	mu    sync.RWMutex
	state map[string]*cursorState
	now   func() time.Time
}

// NewCursors creates an empty cursor set.
func NewCursors() *Cursors {
	return &Cursors{
		state: make(map[string]*cursorState),
		now:   time.Now,
	}
}

// Advance records that page of kind was processed with remoteIDs.
// Page 1 starts a fresh run and discards the previous state.
func (c *Cursors) Advance(kind string, page int, remoteIDs []string) Cursor {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.state[kind]
	if !ok || page == 1 {
		st = &cursorState{seen: make(map[string]struct{})}
		c.state[kind] = st
	}
	if page > 0 {
		st.page = page
	}
	for _, id := range remoteIDs {
		if !isEmptyID(id) {
			st.seen[id] = struct{}{}
		}
	}
	st.updated = c.now()

	return snapshot(kind, st)
}

// Get returns the cursor for kind.
func (c *Cursors) Get(kind string) (Cursor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	st, ok := c.state[kind]
	if !ok {
		return Cursor{Kind: kind, Seen: []string{}}, false
	}
	return snapshot(kind, st), true
}

// Reset discards the cursor for kind.
func (c *Cursors) Reset(kind string) {
	c.mu.Lock()
	delete(c.state, kind)
	c.mu.Unlock()
}

func snapshot(kind string, st *cursorState) Cursor {
	seen := make([]string, 0, len(st.seen))
	for id := range st.seen {
		seen = append(seen, id)
	}
	sort.Strings(seen)
	return Cursor{Kind: kind, Page: st.page, Seen: seen, UpdatedAt: st.updated}
}
