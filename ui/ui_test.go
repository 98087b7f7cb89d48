package ui

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"manga_tracker/filter"
	"manga_tracker/flow"
	"manga_tracker/library"
	"manga_tracker/utils"
)

// fakeAPI stands in for library.Client.
type fakeAPI struct {
	list     func(query string) ([]library.Series, error)
	queries  []string
	lookup   library.Series
	created  []any
	settings library.Settings
	updated  []any
	password string
}

func (f *fakeAPI) ListSeries(_ context.Context, rawQuery string) ([]library.Series, error) {
	f.queries = append(f.queries, rawQuery)
	if f.list == nil {
		return nil, nil
	}
	return f.list(rawQuery)
}

func (f *fakeAPI) Login(_ context.Context, password string) error {
	if password != f.password {
		return &library.APIError{Status: http.StatusUnauthorized, Result: "KO", Message: "Invalid password"}
	}
	return nil
}

func (f *fakeAPI) LookupExternal(context.Context, string) (library.Series, error) {
	return f.lookup, nil
}

func (f *fakeAPI) CreateSeries(_ context.Context, payload any) error {
	f.created = append(f.created, payload)
	return nil
}

func (f *fakeAPI) GetSettings(context.Context) (library.Settings, error) {
	return f.settings, nil
}

func (f *fakeAPI) UpdateSettings(_ context.Context, payload any) error {
	f.updated = append(f.updated, payload)
	return nil
}

var unauthorized = &library.APIError{Status: http.StatusUnauthorized, Result: "KO", Message: "Login required"}

func newTestDeps(t *testing.T, api *fakeAPI) (Deps, *utils.SessionStore) {
	t.Helper()
	store := utils.NewMemorySession()
	return Deps{
		Runner:  flow.New(api, nil),
		Filter:  filter.NewController(store, nil),
		Timeout: time.Second,
	}, store
}

// drain runs cmd and any batch it expands to. Spinner ticks are dropped;
// the cursor blink commands from focusing inputs must not be passed here.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, drain(c)...)
		}
		return out
	case spinner.TickMsg:
		return nil
	default:
		return []tea.Msg{msg}
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "f2":
		return tea.KeyMsg{Type: tea.KeyF2}
	case "f3":
		return tea.KeyMsg{Type: tea.KeyF3}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func rating(v float64) *float64 { return &v }
