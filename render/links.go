package render

import (
	"strings"

	"manga_tracker/library"
)

// Link is one external provider badge.
type Link struct {
	Provider string
	URL      string
	Icon     string
	Alt      string
	Title    string
}

type provider struct {
	key   string
	icon  string
	alt   string
	title string
	url   func(id string) string
}

var providers = []provider{
	{"mu", "/static/icons/mangaupdates.svg", "MU", "MangaUpdates", prefixed("https://www.mangaupdates.com/series/")},
	{"dex", "/static/icons/mangadex.svg", "Dex", "MangaDex", prefixed("https://mangadex.org/manga/")},
	{"mal", "/static/icons/myanimelist.ico", "MAL", "MyAnimeList", prefixed("https://myanimelist.net/manga/")},
	{"bato", "/static/icons/bato.png", "Bato", "Bato.to", prefixed("https://bato.to/series/")},
	{"line", "/static/icons/line.png", "LINE", "LINE Webtoon", lineURL},
}

func prefixed(base string) func(string) string {
	return func(id string) string { return base + id }
}

// lineURL decodes "o:<path>" as an original series and anything else as canvas.
// The first two characters are the marker and are always dropped.
func lineURL(id string) string {
	rest := ""
	if len(id) > 2 {
		rest = id[2:]
	}
	if strings.HasPrefix(id, "o:") {
		return "https://www.webtoons.com/en/original/" + rest
	}
	return "https://www.webtoons.com/en/canvas/" + rest
}

// ExternalLinks returns a badge per provider id present, in provider order.
func ExternalLinks(ids library.ExternalIDs) []Link {
	var links []Link
	for _, p := range providers {
		id := strings.TrimSpace(ids.Get(p.key).String())
		if id == "" {
			continue
		}
		links = append(links, Link{
			Provider: p.key,
			URL:      p.url(id),
			Icon:     p.icon,
			Alt:      p.alt,
			Title:    p.title,
		})
	}
	return links
}
