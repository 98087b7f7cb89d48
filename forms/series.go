package forms

import (
	"net/url"
	"strconv"
	"strings"

	"manga_tracker/lang"
	"manga_tracker/library"
)

// Reading statuses a new series can start in.
var StatusOptions = []string{"plan-to", "reading", "completed", "one-shot", "dropped", "on-hold", "ongoing"}

const DefaultStatus = "plan-to"

// Series form field keys in display order.
const (
	FieldTitle       = "title"
	FieldAltTitles   = "alt_titles"
	FieldType        = "type"
	FieldStatus      = "status"
	FieldYear        = "year"
	FieldDescription = "description"
	FieldVolCh       = "vol_ch"
	FieldIsMarkdown  = "is_md"
	FieldGenres      = "genres"
	FieldAuthors     = "authors"
	FieldThumbnail   = "thumbnail"
)

var SeriesFields = []string{
	FieldTitle, FieldAltTitles, FieldType, FieldStatus, FieldYear, FieldDescription,
	FieldVolCh, FieldIsMarkdown, FieldGenres, FieldAuthors, FieldThumbnail,
}

var requiredSeriesFields = []string{FieldTitle, FieldType, FieldStatus, FieldThumbnail}

// integerProviders are sent to the backend as numbers.
var integerProviders = map[string]bool{"mal": true, "bato": true}

// ExternalIDs is the lookup form: one free-text box per provider.
type ExternalIDs struct {
	MU   string
	Dex  string
	MAL  string
	Bato string
	Line string
}

func (e ExternalIDs) Get(provider string) string {
	switch provider {
	case "mu":
		return e.MU
	case "dex":
		return e.Dex
	case "mal":
		return e.MAL
	case "bato":
		return e.Bato
	case "line":
		return e.Line
	}
	return ""
}

func (e *ExternalIDs) Set(provider, value string) {
	switch provider {
	case "mu":
		e.MU = value
	case "dex":
		e.Dex = value
	case "mal":
		e.MAL = value
	case "bato":
		e.Bato = value
	case "line":
		e.Line = value
	}
}

// ProviderID is one filled-in provider box.
type ProviderID struct {
	Provider string
	Value    string
}

// Collect returns the trimmed, non-empty ids in provider order.
func (e ExternalIDs) Collect() []ProviderID {
	var out []ProviderID
	for _, p := range library.Providers {
		if v := strings.TrimSpace(e.Get(p)); v != "" {
			out = append(out, ProviderID{Provider: p, Value: v})
		}
	}
	return out
}

// Query encodes the ids for the lookup endpoint, in provider order.
func (e ExternalIDs) Query() (string, error) {
	ids := e.Collect()
	if len(ids) == 0 {
		return "", ErrNoExternalIDs
	}
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, id.Provider+"="+url.QueryEscape(id.Value))
	}
	return strings.Join(parts, "&"), nil
}

// Payload is the "ids" object of a create request. mal and bato must be integers.
func (e ExternalIDs) Payload() (map[string]any, error) {
	out := map[string]any{}
	errs := FieldErrors{}
	for _, id := range e.Collect() {
		if !integerProviders[id.Provider] {
			out[id.Provider] = id.Value
			continue
		}
		n, err := strconv.Atoi(id.Value)
		if err != nil {
			errs[id.Provider] = lang.InvalidNumber(lang.AddFieldLabel(id.Provider))
			continue
		}
		out[id.Provider] = n
	}
	return out, errs.orNil()
}

// SeriesForm holds the edit form as the user typed it.
type SeriesForm struct {
	Title       string
	AltTitles   string
	Type        string
	Status      string
	Year        string
	Description string
	VolCh       string
	IsMarkdown  bool
	Genres      string
	Authors     string
	Thumbnail   string
}

func NewSeriesForm() SeriesForm {
	return SeriesForm{Type: library.SeriesTypes[0], Status: DefaultStatus}
}

// FromRecord pre-fills the form from a lookup result.
func FromRecord(s library.Series) SeriesForm {
	f := NewSeriesForm()
	f.Title = s.Title
	f.AltTitles = strings.Join(s.AltTitles, ", ")
	f.Type = matchOption(s.Type, library.SeriesTypes, library.SeriesTypes[0])
	f.Status = matchOption(s.Status, StatusOptions, DefaultStatus)
	if s.Year != nil {
		f.Year = strconv.Itoa(*s.Year)
	}
	f.Description = s.Description
	f.VolCh = s.VolCh
	f.IsMarkdown = bool(s.IsMarkdown)
	f.Genres = strings.Join(s.Genres, ", ")
	f.Authors = s.AuthorNames()
	f.Thumbnail = s.Thumbnail
	return f
}

// matchOption picks the option equal to v ignoring case, like a select box
// falls back to its first entry.
func matchOption(v string, options []string, fallback string) string {
	v = strings.TrimSpace(v)
	for _, o := range options {
		if strings.EqualFold(o, v) {
			return o
		}
	}
	return fallback
}

func (f SeriesForm) Get(key string) string {
	switch key {
	case FieldTitle:
		return f.Title
	case FieldAltTitles:
		return f.AltTitles
	case FieldType:
		return f.Type
	case FieldStatus:
		return f.Status
	case FieldYear:
		return f.Year
	case FieldDescription:
		return f.Description
	case FieldVolCh:
		return f.VolCh
	case FieldIsMarkdown:
		return strconv.FormatBool(f.IsMarkdown)
	case FieldGenres:
		return f.Genres
	case FieldAuthors:
		return f.Authors
	case FieldThumbnail:
		return f.Thumbnail
	}
	return ""
}

func (f *SeriesForm) Set(key, value string) {
	switch key {
	case FieldTitle:
		f.Title = value
	case FieldAltTitles:
		f.AltTitles = value
	case FieldType:
		f.Type = matchOption(value, library.SeriesTypes, value)
	case FieldStatus:
		f.Status = matchOption(value, StatusOptions, value)
	case FieldYear:
		f.Year = value
	case FieldDescription:
		f.Description = value
	case FieldVolCh:
		f.VolCh = value
	case FieldIsMarkdown:
		f.IsMarkdown, _ = strconv.ParseBool(value)
	case FieldGenres:
		f.Genres = value
	case FieldAuthors:
		f.Authors = value
	case FieldThumbnail:
		f.Thumbnail = value
	}
}

// Validate checks required fields and the year.
func (f SeriesForm) Validate() error {
	errs := FieldErrors{}
	for _, key := range requiredSeriesFields {
		if strings.TrimSpace(f.Get(key)) == "" {
			errs[key] = lang.FieldRequired(lang.AddFieldLabel(key))
		}
	}
	if y := strings.TrimSpace(f.Year); y != "" {
		if _, err := strconv.Atoi(y); err != nil {
			errs[FieldYear] = lang.Active().Add.InvalidYear
		}
	}
	return errs.orNil()
}

// SeriesPayload is the JSON body of POST /series.
type SeriesPayload struct {
	Title       string           `json:"title,omitempty"`
	AltTitles   []string         `json:"alt_titles"`
	Type        string           `json:"type,omitempty"`
	Status      string           `json:"status,omitempty"`
	Year        *int             `json:"year"`
	Description string           `json:"description,omitempty"`
	VolCh       string           `json:"vol_ch,omitempty"`
	IsMarkdown  bool             `json:"is_md"`
	Genres      []string         `json:"genres"`
	Authors     []library.Author `json:"authors"`
	Thumbnail   string           `json:"thumbnail,omitempty"`
	IDs         map[string]any   `json:"ids"`
}

// Payload validates the form and builds the request body with the given ids.
// A nil ids map is sent as {}.
func (f SeriesForm) Payload(ids map[string]any) (SeriesPayload, error) {
	if err := f.Validate(); err != nil {
		return SeriesPayload{}, err
	}
	if ids == nil {
		ids = map[string]any{}
	}
	p := SeriesPayload{
		Title:       strings.TrimSpace(f.Title),
		AltTitles:   SplitList(f.AltTitles),
		Type:        f.Type,
		Status:      f.Status,
		Description: f.Description,
		VolCh:       f.VolCh,
		IsMarkdown:  f.IsMarkdown,
		Genres:      SplitList(f.Genres),
		Authors:     []library.Author{},
		Thumbnail:   strings.TrimSpace(f.Thumbnail),
		IDs:         ids,
	}
	if y := strings.TrimSpace(f.Year); y != "" {
		year, _ := strconv.Atoi(y)
		p.Year = &year
	}
	for _, name := range SplitList(f.Authors) {
		p.Authors = append(p.Authors, library.Author{Name: name, Type: "Author"})
	}
	return p, nil
}

// SplitList turns comma separated text into trimmed non-empty items.
// Blank input gives an empty, non-nil slice so it encodes as [].
func SplitList(text string) []string {
	out := []string{}
	for _, item := range strings.Split(text, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
