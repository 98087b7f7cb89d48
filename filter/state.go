package filter

import (
	"slices"
	"strings"
)

const (
	TypeAll     = "all"
	DefaultPage = 1
)

// Membership of a genre in the filter.
type Membership int

const (
	None Membership = iota
	Included
	Excluded
)

func (m Membership) String() string {
	switch m {
	case Included:
		return "included"
	case Excluded:
		return "excluded"
	}
	return "none"
}

// State is everything that decides which page of which list is shown.
// Included and Excluded are kept sorted and never share an element.
type State struct {
	Status   string
	Type     string
	SortKey  string
	Included []string
	Excluded []string
	Page     int
}

// Default hides nsfw entries and shows the first page of every type.
func Default() State {
	return State{
		Type:     TypeAll,
		Included: []string{},
		Excluded: []string{"nsfw"},
		Page:     DefaultPage,
	}
}

// Clone copies the genre slices so callers cannot mutate the owner's state.
func (s State) Clone() State {
	s.Included = slices.Clone(s.Included)
	s.Excluded = slices.Clone(s.Excluded)
	if s.Included == nil {
		s.Included = []string{}
	}
	if s.Excluded == nil {
		s.Excluded = []string{}
	}
	return s
}

// GenreKey is the form a genre is stored and compared in.
func GenreKey(genre string) string {
	return strings.ToLower(strings.TrimSpace(genre))
}

func (s State) Membership(genre string) Membership {
	genre = GenreKey(genre)
	if slices.Contains(s.Included, genre) {
		return Included
	}
	if slices.Contains(s.Excluded, genre) {
		return Excluded
	}
	return None
}

// withMembership returns a copy of s where genre has exactly membership m.
func (s State) withMembership(genre string, m Membership) State {
	genre = GenreKey(genre)
	out := s.Clone()
	out.Included = remove(out.Included, genre)
	out.Excluded = remove(out.Excluded, genre)
	switch m {
	case Included:
		out.Included = insert(out.Included, genre)
	case Excluded:
		out.Excluded = insert(out.Excluded, genre)
	}
	return out
}

// Next returns the membership a toggle moves to: none, included, excluded, none.
func (m Membership) Next() Membership {
	switch m {
	case None:
		return Included
	case Included:
		return Excluded
	}
	return None
}

// ParseGenreInput merges comma-separated genre text into the given sets.
// A leading "-" marks an exclusion; blank tokens are ignored. The inputs are not modified.
func ParseGenreInput(input string, included, excluded []string) ([]string, []string) {
	s := sanitize(State{Included: included, Excluded: excluded})
	for _, tok := range strings.Split(input, ",") {
		tok = GenreKey(tok)
		if tok == "" {
			continue
		}
		if name, ok := strings.CutPrefix(tok, "-"); ok {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			s = s.withMembership(name, Excluded)
			continue
		}
		s = s.withMembership(tok, Included)
	}
	return s.Included, s.Excluded
}

// normalize lower-cases, sorts and dedupes a genre list.
func normalize(genres []string) []string {
	out := make([]string, 0, len(genres))
	for _, g := range genres {
		if g = GenreKey(g); g != "" {
			out = append(out, g)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// sanitize brings restored or hand-built state back to its invariants.
// A genre found in both sets stays included.
func sanitize(s State) State {
	s.Included = normalize(s.Included)
	s.Excluded = normalize(s.Excluded)
	for _, g := range s.Included {
		s.Excluded = remove(s.Excluded, g)
	}
	if s.Type == "" {
		s.Type = TypeAll
	}
	if s.Page < DefaultPage {
		s.Page = DefaultPage
	}
	return s
}

func insert(set []string, genre string) []string {
	i, found := slices.BinarySearch(set, genre)
	if found {
		return set
	}
	return slices.Insert(set, i, genre)
}

func remove(set []string, genre string) []string {
	i, found := slices.BinarySearch(set, genre)
	if !found {
		return set
	}
	return slices.Delete(set, i, i+1)
}
