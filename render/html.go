package render

import (
	"encoding/json"
	"strconv"
	"strings"

	g "maragu.dev/gomponents"
	"maragu.dev/gomponents/html"
)

// HTMLRows renders rows as <tr> elements for the series table body.
func HTMLRows(rows []Row) (string, error) {
	var b strings.Builder
	for _, r := range rows {
		if err := rowNode(r).Render(&b); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

// HTMLTable wraps the rows in a complete table, used by the list export.
func HTMLTable(rows []Row) (string, error) {
	var b strings.Builder
	table := html.Table(
		html.Class("series-table"),
		html.THead(html.Tr(
			html.Th(g.Text("Cover")),
			html.Th(g.Text("Title")),
			html.Th(g.Text("Genres")),
			html.Th(g.Text("Description")),
			html.Th(g.Text("Vol/Ch")),
		)),
		html.TBody(
			html.ID("seriesTableBody"),
			g.Map(rows, rowNode),
		),
	)
	if err := table.Render(&b); err != nil {
		return "", err
	}
	return b.String(), nil
}

func rowNode(r Row) g.Node {
	if r.IsPlaceholder() {
		return html.Tr(html.Td(g.Attr("colspan", strconv.Itoa(columns)), g.Text(r.Message)))
	}
	return html.Tr(
		html.Td(
			html.Img(
				html.Src(r.Thumbnail),
				html.Alt(r.Title),
				html.Class("thumbnail"),
				g.Attr("onerror", "this.src='"+r.FallbackThumbnail+"'"),
			),
		),
		html.Td(titleSection(r)),
		html.Td(genresList(r.Genres)),
		html.Td(html.Class("description"), markup(r.Description, r.Markdown)),
		html.Td(html.Class("vol-ch"), markup(r.VolCh, r.Markdown)),
	)
}

func titleSection(r Row) g.Node {
	return html.Div(
		html.Class("title-section"),
		html.Div(
			html.Class("title-row"),
			html.Span(html.Class("series-title"), g.Text(r.Title)),
			g.If(r.HasAltTitles(), altTitlesButton(r.AltTitles)),
		),
		html.Hr(),
		html.Div(html.Class("rating"), g.Text("★ "+r.Rating)),
		html.Hr(),
		html.Div(
			html.Class("external-links"),
			g.Map(r.Links, linkNode),
		),
	)
}

func altTitlesButton(titles []string) g.Node {
	encoded, err := json.Marshal(titles)
	if err != nil {
		return nil
	}
	return html.Button(
		html.Type("button"),
		html.Class("alt-titles-btn"),
		g.Attr("data-alt-titles", string(encoded)),
		g.Attr("onclick", "showAltTitles(JSON.parse(this.dataset.altTitles))"),
		g.Text("A"),
	)
}

func linkNode(l Link) g.Node {
	return html.A(
		html.Href(l.URL),
		html.Target("_blank"),
		html.Img(html.Src(l.Icon), html.Alt(l.Alt), g.Attr("title", l.Title)),
	)
}

func genresList(genres []string) g.Node {
	if len(genres) == 0 {
		return nil
	}
	return html.Div(
		html.Class("genres-list"),
		g.Map(genres, func(genre string) g.Node {
			return html.Span(html.Class("genre-tag"), g.Text(genre))
		}),
	)
}

// markup passes text through as HTML; markdown goes through goldmark first.
func markup(text string, markdown bool) g.Node {
	if text == "" {
		return nil
	}
	if markdown {
		if out, err := MarkdownHTML(text); err == nil {
			return g.Raw(out)
		}
	}
	return g.Raw(text)
}
