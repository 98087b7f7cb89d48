package render

import (
	"bytes"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Raw HTML inside descriptions is kept; the data comes from our own backend.
var htmlMarkdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// MarkdownHTML converts markdown to an HTML fragment.
func MarkdownHTML(src string) (string, error) {
	var buf bytes.Buffer
	if err := htmlMarkdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// TermRenderer renders markdown for the terminal. Renderers are cached per width.
type TermRenderer struct {
	mu    sync.Mutex
	style string
	byW   map[int]*glamour.TermRenderer
}

// NewTermRenderer uses a glamour standard style ("dark", "light", "notty", ...).
func NewTermRenderer(style string) *TermRenderer {
	if style == "" {
		style = "dark"
	}
	return &TermRenderer{style: style, byW: map[int]*glamour.TermRenderer{}}
}

func (t *TermRenderer) renderer(width int) (*glamour.TermRenderer, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if r, ok := t.byW[width]; ok {
		return r, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(t.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	t.byW[width] = r
	return r, nil
}

// Render falls back to the source text if glamour fails.
func (t *TermRenderer) Render(src string, width int) string {
	if width < 20 {
		width = 20
	}
	r, err := t.renderer(width)
	if err != nil {
		return src
	}
	out, err := r.Render(src)
	if err != nil {
		return src
	}
	return strings.Trim(out, "\n")
}
