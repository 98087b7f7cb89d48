package filter

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Statuses are the list sections in navigation order.
var Statuses = []string{"plan-to", "reading", "completed", "one-shots", "on-hold", "dropped", "ongoing"}

// StatusLabels maps a list key to the label the listing endpoint filters on.
var StatusLabels = map[string]string{
	"plan-to":   "Plan to Read",
	"reading":   "Reading",
	"completed": "Completed",
	"one-shots": "One-shot",
	"on-hold":   "On hold",
	"dropped":   "Dropped",
	"ongoing":   "Ongoing",
}

// Types offered by the type selector. "minor" is sent as is.
var Types = []string{TypeAll, "manga", "manhwa", "manhua", "novel", "minor"}

const typeVerbatim = "minor"

var titleCaser = cases.Title(language.English, cases.NoLower)

// APIType converts a selector value into the form the backend expects.
func APIType(t string) string {
	if t == "" || t == TypeAll {
		return ""
	}
	if t == typeVerbatim {
		return t
	}
	return titleCaser.String(t)
}

// BuildQuery encodes s for GET /series. Parameters always appear in the order
// status, type, included, excluded, sort_by, page and the genre lists are
// joined in sorted order, so equal states give equal strings.
func BuildQuery(s State) string {
	var b strings.Builder
	add := func(key, value string) {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(value))
	}

	if label, ok := StatusLabels[s.Status]; ok {
		add("status", label)
	}
	if t := APIType(s.Type); t != "" {
		add("type", t)
	}
	if len(s.Included) > 0 {
		add("included", strings.Join(slices.Sorted(slices.Values(s.Included)), ","))
	}
	if len(s.Excluded) > 0 {
		add("excluded", strings.Join(slices.Sorted(slices.Values(s.Excluded)), ","))
	}
	if s.SortKey != "" {
		add("sort_by", s.SortKey)
	}
	page := s.Page
	if page < DefaultPage {
		page = DefaultPage
	}
	add("page", strconv.Itoa(page))
	return b.String()
}
