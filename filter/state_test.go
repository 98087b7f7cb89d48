package filter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manga_tracker/utils"
)

func disjoint(t *testing.T, s State) {
	t.Helper()
	for _, g := range s.Included {
		assert.NotContains(t, s.Excluded, g, "genre %q is both included and excluded", g)
	}
}

func TestToggleGenreCycle(t *testing.T) {
	c := NewController(nil, nil)
	c.ApplyFilters("romance, -horror")

	for _, genre := range []string{"action", "romance", "horror", "nsfw"} {
		before := c.State().Membership(genre)
		seen := []Membership{before}
		for i := 0; i < 3; i++ {
			c.ToggleGenre(genre)
			disjoint(t, c.State())
			seen = append(seen, c.State().Membership(genre))
		}
		assert.Equal(t, before, seen[3], "genre %s", genre)
		assert.ElementsMatch(t, []Membership{None, Included, Excluded}, seen[:3], "genre %s", genre)
	}
}

func TestToggleGenreOrder(t *testing.T) {
	c := NewController(nil, nil)
	c.ToggleGenre("action")
	assert.Equal(t, Included, c.State().Membership("action"))
	c.ToggleGenre("action")
	assert.Equal(t, Excluded, c.State().Membership("action"))
	c.ToggleGenre("action")
	assert.Equal(t, None, c.State().Membership("action"))

	// nsfw starts excluded, so one toggle clears it.
	c.ToggleGenre("nsfw")
	assert.Equal(t, None, c.State().Membership("nsfw"))
}

func TestParseGenreInput(t *testing.T) {
	inc, exc := ParseGenreInput("action, -nsfw, romance", nil, nil)
	assert.Equal(t, []string{"action", "romance"}, inc)
	assert.Equal(t, []string{"nsfw"}, exc)
}

func TestParseGenreInputMovesBetweenSets(t *testing.T) {
	included := []string{"drama"}
	excluded := []string{"nsfw", "gore"}
	inc, exc := ParseGenreInput(" ,-drama,, nsfw , - ", included, excluded)

	assert.Equal(t, []string{"nsfw"}, inc)
	assert.Equal(t, []string{"drama", "gore"}, exc)
	assert.Equal(t, []string{"drama"}, included, "input slice must not change")
	assert.Equal(t, []string{"nsfw", "gore"}, excluded)
}

func TestGenreCaseFolded(t *testing.T) {
	inc, exc := ParseGenreInput("Action, -NSFW, action", nil, nil)
	assert.Equal(t, []string{"action"}, inc)
	assert.Equal(t, []string{"nsfw"}, exc)

	c := NewController(nil, nil)
	c.ApplyFilters("Romance")
	c.ToggleGenre("ROMANCE")
	assert.Empty(t, c.State().Included)
	assert.Equal(t, []string{"nsfw", "romance"}, c.State().Excluded)
	assert.Equal(t, Excluded, c.State().Membership(" Romance "))

	s := sanitize(State{Included: []string{"Drama", "drama"}, Excluded: []string{"DRAMA"}})
	assert.Equal(t, []string{"drama"}, s.Included)
	assert.Empty(t, s.Excluded)
}

func TestSanitizeOverlap(t *testing.T) {
	s := sanitize(State{Included: []string{"b", "a", "a"}, Excluded: []string{"a", "c"}, Page: -3})
	assert.Equal(t, []string{"a", "b"}, s.Included)
	assert.Equal(t, []string{"c"}, s.Excluded)
	assert.Equal(t, TypeAll, s.Type)
	assert.Equal(t, 1, s.Page)
}

func TestMutationsResetPage(t *testing.T) {
	c := NewController(nil, nil)
	c.SetPage(4)
	c.SetSort("rating")
	assert.Equal(t, 4, c.State().Page, "sorting keeps the page")

	c.SetType("manhwa")
	assert.Equal(t, 1, c.State().Page)

	c.SetPage(3)
	c.ApplyFilters("action")
	assert.Equal(t, 1, c.State().Page)

	c.SetPage(2)
	c.SetStatus("reading")
	assert.Equal(t, 1, c.State().Page)

	c.PrevPage()
	assert.Equal(t, 1, c.State().Page)
	c.NextPage()
	c.NextPage()
	assert.Equal(t, 3, c.State().Page)
	c.SetPage(0)
	assert.Equal(t, 1, c.State().Page)
}

func TestResetKeepsNavigation(t *testing.T) {
	c := NewController(nil, nil)
	c.SetStatus("completed")
	c.SetType("manga")
	c.SetSort("title")
	c.ApplyFilters("isekai, -nsfw, -gore")
	c.SetPage(5)

	c.Reset()
	s := c.State()
	assert.Equal(t, "completed", s.Status)
	assert.Equal(t, "manga", s.Type)
	assert.Empty(t, s.SortKey)
	assert.Empty(t, s.Included)
	assert.Equal(t, []string{"nsfw"}, s.Excluded)
	assert.Equal(t, 1, s.Page)
}

func TestPersistThenNotify(t *testing.T) {
	store := utils.NewMemorySession()
	c := NewController(store, nil)

	var got []State
	c.Subscribe(func(s State) {
		// The store is already written when observers run.
		var inc []string
		ok, err := store.Get("included", &inc)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, s.Included, inc)
		got = append(got, s)
	})

	c.ToggleGenre("action")
	c.SetSort("added")
	require.Len(t, got, 2)
	assert.Equal(t, []string{"action"}, got[0].Included)
	assert.Equal(t, "added", got[1].SortKey)

	var sortKey string
	_, err := store.Get("sort", &sortKey)
	require.NoError(t, err)
	assert.Equal(t, "added", sortKey)
}

func TestSubscriberGetsCopy(t *testing.T) {
	c := NewController(nil, nil)
	c.Subscribe(func(s State) { s.Excluded[0] = "mutated" })
	c.SetSort("title")
	assert.Equal(t, []string{"nsfw"}, c.State().Excluded)
}

func TestRestore(t *testing.T) {
	store := utils.NewMemorySession()
	require.NoError(t, store.Set("sort", "rating"))
	require.NoError(t, store.Set("included", []string{"romance", "action"}))
	require.NoError(t, store.Set("excluded", []string{}))
	require.NoError(t, store.Set("type", "manhua"))

	c := NewController(store, nil)
	require.NoError(t, c.Restore(Overrides{Status: "reading"}))
	s := c.State()
	assert.Equal(t, "reading", s.Status)
	assert.Equal(t, "manhua", s.Type)
	assert.Equal(t, "rating", s.SortKey)
	assert.Equal(t, []string{"action", "romance"}, s.Included)
	assert.Empty(t, s.Excluded, "an explicitly stored empty exclusion list is kept")

	require.NoError(t, c.Restore(Overrides{Type: "novel", Genres: "-romance", Page: 2}))
	s = c.State()
	assert.Equal(t, "novel", s.Type)
	assert.Equal(t, []string{"action"}, s.Included)
	assert.Equal(t, []string{"romance"}, s.Excluded)
	assert.Equal(t, 2, s.Page)

	var stored string
	_, err := store.Get("type", &stored)
	require.NoError(t, err)
	assert.Equal(t, "novel", stored, "type override is mirrored to the store")
}

func TestRestoreEmptyStoreGivesDefaults(t *testing.T) {
	c := NewController(utils.NewMemorySession(), nil)
	require.NoError(t, c.Restore(Overrides{}))
	assert.Equal(t, Default(), c.State())
}

func TestRestoreSkipsUnreadableKeys(t *testing.T) {
	store := utils.NewMemorySession()
	require.NoError(t, store.Set("sort", "rating"))
	require.NoError(t, store.Set("included", "not a list"))
	require.NoError(t, store.Set("type", 42))

	c := NewController(store, nil)
	require.NoError(t, c.Restore(Overrides{Type: "manga", Genres: "drama"}))
	s := c.State()
	assert.Equal(t, "manga", s.Type, "overrides still apply after a bad key")
	assert.Equal(t, "rating", s.SortKey, "readable keys are kept")
	assert.Equal(t, []string{"drama"}, s.Included)
	assert.Equal(t, []string{"nsfw"}, s.Excluded)

	var stored string
	_, err := store.Get("type", &stored)
	require.NoError(t, err)
	assert.Equal(t, "manga", stored, "the override replaces the bad value")
}

type failingStore struct{}

func (failingStore) Get(string, any) (bool, error) { return false, errors.New("disk on fire") }
func (failingStore) Set(string, any) error         { return errors.New("disk on fire") }

func TestStoreFailures(t *testing.T) {
	c := NewController(failingStore{}, nil)
	require.NoError(t, c.Restore(Overrides{}), "unreadable keys fall back to defaults")
	assert.Equal(t, Default(), c.State())
	assert.Error(t, c.Restore(Overrides{Type: "manga"}), "the type override cannot be written back")
	assert.Equal(t, "manga", c.State().Type)

	notified := 0
	c.Subscribe(func(State) { notified++ })
	c.ToggleGenre("action")
	assert.Equal(t, 1, notified, "a failed write still reloads")
	assert.Equal(t, Included, c.State().Membership("action"))
}

func TestRequestSequence(t *testing.T) {
	c := NewController(nil, nil)
	first := c.NextRequest()
	second := c.NextRequest()
	assert.Greater(t, second, first)
	assert.False(t, c.IsLatest(first))
	assert.True(t, c.IsLatest(second))
}
