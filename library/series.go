package library

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Providers in the order they appear everywhere in the UI.
var Providers = []string{"mu", "dex", "mal", "bato", "line"}

// Series types accepted by the backend.
var SeriesTypes = []string{"Manga", "Manhwa", "Manhua", "OEL", "Vietnamese", "Malaysian", "Indonesian", "Novel", "Artbook", "Other"}

// ID is an external identifier. The backend sends MangaUpdates/MangaDex ids as
// strings and MyAnimeList/Bato ids as numbers, so both are accepted.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Int parses numeric ids; ok is false for empty or non-numeric values.
func (id ID) Int() (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(string(id)))
	if err != nil {
		return 0, false
	}
	return n, true
}

type ExternalIDs struct {
	MU   ID `json:"mu,omitempty"`
	Dex  ID `json:"dex,omitempty"`
	MAL  ID `json:"mal,omitempty"`
	Bato ID `json:"bato,omitempty"`
	Line ID `json:"line,omitempty"`
}

// Get returns the id for a provider key from Providers.
func (ids ExternalIDs) Get(provider string) ID {
	switch provider {
	case "mu":
		return ids.MU
	case "dex":
		return ids.Dex
	case "mal":
		return ids.MAL
	case "bato":
		return ids.Bato
	case "line":
		return ids.Line
	}
	return ""
}

func (ids ExternalIDs) Empty() bool {
	for _, p := range Providers {
		if ids.Get(p) != "" {
			return false
		}
	}
	return true
}

// Author accepts either {"name": ..., "type": ...} or a bare name string.
type Author struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

func (a *Author) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &a.Name)
	}
	type plain Author
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*a = Author(p)
	return nil
}

// Series is a record from the listing or external lookup endpoints.
type Series struct {
	ID           int         `json:"id"`
	Title        string      `json:"title"`
	AltTitles    []string    `json:"alt_titles"`
	Type         string      `json:"type"`
	Status       string      `json:"status"`
	Rating       *float64    `json:"rating"`
	Genres       []string    `json:"genres"`
	Description  string      `json:"description"`
	VolCh        string      `json:"vol_ch"`
	IsMarkdown   Flag        `json:"is_md"`
	ThumbnailExt string      `json:"thumbnail_ext"`
	Thumbnail    string      `json:"thumbnail,omitempty"`
	Year         *int        `json:"year,omitempty"`
	Authors      []Author    `json:"authors,omitempty"`
	IDs          ExternalIDs `json:"ids"`
}

// AuthorNames joins author names the way the edit form shows them.
func (s Series) AuthorNames() string {
	names := make([]string, 0, len(s.Authors))
	for _, a := range s.Authors {
		if n := strings.TrimSpace(a.Name); n != "" {
			names = append(names, n)
		}
	}
	return strings.Join(names, ", ")
}
