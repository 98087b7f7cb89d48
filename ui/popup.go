package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	gloss "github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"manga_tracker/lang"
)

const (
	popupMaxWidth = 60
	popupMinWidth = 24
)

// AltTitlesPopup is the overlay listing a series' alternative titles.
// There is only ever one; opening it again replaces what it shows.
type AltTitlesPopup struct {
	open   bool
	titles []string
}

func (p *AltTitlesPopup) Open(titles []string) {
	p.titles = append([]string(nil), titles...)
	p.open = true
}

func (p *AltTitlesPopup) Close() {
	p.open = false
	p.titles = nil
}

func (p AltTitlesPopup) IsOpen() bool { return p.open }

func (p AltTitlesPopup) Titles() []string { return p.titles }

// Update swallows every key while open; the closing keys dismiss it.
// handled is false when the popup is closed and the key belongs to the caller.
func (p AltTitlesPopup) Update(msg tea.Msg) (AltTitlesPopup, bool) {
	if !p.open {
		return p, false
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "enter", "q", "a", " ":
			p.Close()
		}
		return p, true
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress {
			p.Close()
		}
		return p, true
	}
	return p, false
}

func popupWidths(width int) (boxW, contentW int) {
	boxW = width - 6
	if boxW < popupMinWidth {
		boxW = popupMinWidth
	}
	if boxW > popupMaxWidth {
		boxW = popupMaxWidth
	}
	// PopupBoxStyle has Padding(1,2) and a border
	contentW = boxW - 6
	if contentW < 10 {
		contentW = 10
	}
	return
}

// View draws the popup centered in a width x height area.
func (p AltTitlesPopup) View(width, height int) string {
	if !p.open {
		return ""
	}
	texts := lang.Active().List
	boxW, contentW := popupWidths(width)

	lines := []string{PopupTitleStyle.Render(texts.AltTitlesTitle), ""}
	for _, t := range p.titles {
		wrapped := wordwrap.String("• "+t, contentW)
		lines = append(lines, PopupItemStyle.Render(wrapped))
	}
	lines = append(lines, "", StatusMutedStyle.UnsetPadding().Render(texts.AltTitlesHint))

	box := PopupBoxStyle.Width(boxW).Render(strings.Join(lines, "\n"))
	return gloss.Place(width, height, gloss.Center, gloss.Center, box)
}
