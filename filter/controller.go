package filter

import (
	"fmt"

	"go.uber.org/zap"

	"manga_tracker/utils"
)

const (
	keySort     = utils.SessionKeySort
	keyIncluded = utils.SessionKeyIncluded
	keyExcluded = utils.SessionKeyExcluded
	keyType     = utils.SessionKeyType
)

// SortKeys offered by the sort selector; "" keeps the backend's order.
var SortKeys = []string{"", "title", "rating", "added"}

// Store is where the filter survives between runs.
type Store interface {
	Get(key string, out any) (bool, error)
	Set(key string, v any) error
}

// Overrides come from the command line and win over the stored state.
// Zero values leave the stored value alone.
type Overrides struct {
	Status string
	Type   string
	Sort   string
	Genres string
	Page   int
}

// Controller owns the filter state. Every mutation is persisted to the store
// and then announced to subscribers, in that order; the subscriber reloads.
// It is not safe for concurrent use; the UI drives it from one goroutine.
type Controller struct {
	state     State
	store     Store
	log       *zap.Logger
	observers []func(State)
	seq       uint64
}

func NewController(store Store, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{state: Default(), store: store, log: logger.Named("filter")}
}

// State returns a copy of the current state.
func (c *Controller) State() State { return c.state.Clone() }

// Subscribe registers fn to run after every mutation.
func (c *Controller) Subscribe(fn func(State)) {
	c.observers = append(c.observers, fn)
}

// Restore loads sort, genres and type from the store, then applies overrides.
// A stored value that cannot be read is logged and left at its default.
// The type override is written back, like the browser kept the URL and storage in sync.
func (c *Controller) Restore(o Overrides) error {
	s := Default()
	if c.store != nil {
		c.load(&s)
	}
	if o.Status != "" {
		s.Status = o.Status
	}
	if o.Type != "" {
		s.Type = o.Type
	}
	if o.Sort != "" {
		s.SortKey = o.Sort
	}
	if o.Genres != "" {
		s.Included, s.Excluded = ParseGenreInput(o.Genres, s.Included, s.Excluded)
	}
	if o.Page > 0 {
		s.Page = o.Page
	}
	c.state = sanitize(s)
	if o.Type != "" && c.store != nil {
		if err := c.store.Set(keyType, c.state.Type); err != nil {
			return fmt.Errorf("persist type: %w", err)
		}
	}
	return nil
}

func (c *Controller) load(s *State) {
	var sortKey, typ string
	if c.restore(keySort, &sortKey) {
		s.SortKey = sortKey
	}
	if c.restore(keyType, &typ) {
		s.Type = typ
	}
	var included, excluded []string
	if c.restore(keyIncluded, &included) {
		s.Included = included
	}
	if c.restore(keyExcluded, &excluded) {
		s.Excluded = excluded
	}
}

// restore reads one key and reports whether out now holds the stored value.
func (c *Controller) restore(key string, out any) bool {
	ok, err := c.store.Get(key, out)
	if err != nil {
		c.log.Warn("stored filter value unreadable, using default", zap.String("key", key), zap.Error(err))
		return false
	}
	return ok
}

// ToggleGenre moves genre one step along none, included, excluded, none.
func (c *Controller) ToggleGenre(genre string) {
	next := c.state.Membership(genre).Next()
	c.commit(c.state.withMembership(genre, next))
}

// SetType changes the type and goes back to the first page.
func (c *Controller) SetType(t string) {
	s := c.state.Clone()
	s.Type = t
	if s.Type == "" {
		s.Type = TypeAll
	}
	s.Page = DefaultPage
	c.commit(s)
}

func (c *Controller) SetSort(key string) {
	s := c.state.Clone()
	s.SortKey = key
	c.commit(s)
}

// SetStatus switches list section and goes back to the first page.
func (c *Controller) SetStatus(status string) {
	s := c.state.Clone()
	s.Status = status
	s.Page = DefaultPage
	c.commit(s)
}

func (c *Controller) SetPage(page int) {
	if page < DefaultPage {
		page = DefaultPage
	}
	s := c.state.Clone()
	s.Page = page
	c.commit(s)
}

func (c *Controller) NextPage() { c.SetPage(c.state.Page + 1) }

// PrevPage is a no-op on the first page.
func (c *Controller) PrevPage() {
	if c.state.Page <= DefaultPage {
		return
	}
	c.SetPage(c.state.Page - 1)
}

// ApplyFilters commits free-text genre input and goes back to the first page.
func (c *Controller) ApplyFilters(input string) {
	s := c.state.Clone()
	s.Included, s.Excluded = ParseGenreInput(input, s.Included, s.Excluded)
	s.Page = DefaultPage
	c.commit(s)
}

// Reset clears genres and sort. Status and type are where the user is, not
// what they filtered, so they stay.
func (c *Controller) Reset() {
	s := Default()
	s.Status = c.state.Status
	s.Type = c.state.Type
	c.commit(s)
}

// NextRequest tags a list reload. Only the newest tag is current.
func (c *Controller) NextRequest() uint64 {
	c.seq++
	return c.seq
}

// IsLatest reports whether seq belongs to the most recent reload.
func (c *Controller) IsLatest(seq uint64) bool { return seq == c.seq }

func (c *Controller) commit(s State) {
	c.state = sanitize(s)
	c.persist()
	snapshot := c.state.Clone()
	for _, fn := range c.observers {
		fn(snapshot)
	}
}

// persist logs and skips failed writes.
func (c *Controller) persist() {
	if c.store == nil {
		return
	}
	values := []struct {
		key string
		v   any
	}{
		{keySort, c.state.SortKey},
		{keyIncluded, c.state.Included},
		{keyExcluded, c.state.Excluded},
		{keyType, c.state.Type},
	}
	for _, kv := range values {
		if err := c.store.Set(kv.key, kv.v); err != nil {
			c.log.Warn("failed to persist filter state", zap.String("key", kv.key), zap.Error(err))
		}
	}
}
