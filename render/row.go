package render

import (
	"strconv"
	"strings"

	"manga_tracker/lang"
	"manga_tracker/library"
)

const (
	thumbnailDir     = "/static/thumbnails/"
	DefaultThumbnail = thumbnailDir + "default.png"
	columns          = 5
)

// Row is one line of the series table. A row with Message set is a
// placeholder spanning the whole table (empty list or load error).
type Row struct {
	ID                int
	Thumbnail         string
	FallbackThumbnail string
	Title             string
	AltTitles         []string
	Rating            string
	Links             []Link
	Genres            []string
	Description       string
	VolCh             string
	Markdown          bool

	Message string
	IsError bool
}

func (r Row) IsPlaceholder() bool { return r.Message != "" }

func (r Row) HasAltTitles() bool { return len(r.AltTitles) > 0 }

// ThumbnailURL is where a record's cover lives, or the default cover when the
// record has no id or extension.
func ThumbnailURL(s library.Series) string {
	ext := strings.TrimPrefix(strings.TrimSpace(s.ThumbnailExt), ".")
	if s.ID == 0 || ext == "" {
		return DefaultThumbnail
	}
	return thumbnailDir + strconv.Itoa(s.ID) + "." + ext
}

// FormatRating prints the shortest exact form of the rating.
func FormatRating(r *float64) string {
	if r == nil {
		return lang.Active().List.NoRating
	}
	return strconv.FormatFloat(*r, 'f', -1, 64)
}

func NewRow(s library.Series) Row {
	return Row{
		ID:                s.ID,
		Thumbnail:         ThumbnailURL(s),
		FallbackThumbnail: DefaultThumbnail,
		Title:             s.Title,
		AltTitles:         nonEmpty(s.AltTitles),
		Rating:            FormatRating(s.Rating),
		Links:             ExternalLinks(s.IDs),
		Genres:            nonEmpty(s.Genres),
		Description:       s.Description,
		VolCh:             s.VolCh,
		Markdown:          bool(s.IsMarkdown),
	}
}

// Rows maps records to rows; an empty list becomes a single placeholder.
func Rows(series []library.Series) []Row {
	if len(series) == 0 {
		return []Row{PlaceholderRow(lang.Active().List.NoSeries)}
	}
	rows := make([]Row, 0, len(series))
	for _, s := range series {
		rows = append(rows, NewRow(s))
	}
	return rows
}

func PlaceholderRow(msg string) Row { return Row{Message: msg} }

// ErrorRows replaces the table with the load error.
func ErrorRows(err error) []Row {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return []Row{{Message: lang.ListError(msg), IsError: true}}
}

func nonEmpty(in []string) []string {
	var out []string
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
