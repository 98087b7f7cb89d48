package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manga_tracker/forms"
	"manga_tracker/library"
)

func applyAdd(t *testing.T, m AddModel, cmd tea.Cmd) AddModel {
	t.Helper()
	for _, msg := range drain(cmd) {
		m, _ = m.Update(msg)
	}
	return m
}

func newAdd(t *testing.T, api *fakeAPI) AddModel {
	t.Helper()
	deps, _ := newTestDeps(t, api)
	m := NewAddModel(deps)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	_ = m.Activate()
	return m
}

func TestAddFromExternalIDs(t *testing.T) {
	api := &fakeAPI{lookup: library.Series{
		Title:     "Berserk",
		Type:      "manga",
		Genres:    []string{"Action", "Dark Fantasy"},
		Thumbnail: "https://example.com/berserk.jpg",
	}}
	m := newAdd(t, api)
	require.Equal(t, "mu", m.focusedKey())

	m, _ = m.Update(key("abc123"))
	m, cmd := m.Update(key("enter"))
	assert.True(t, m.lookupBusy.Active())
	m = applyAdd(t, m, cmd)

	require.True(t, m.lookedUp)
	assert.False(t, m.lookupBusy.Active())
	assert.Equal(t, forms.FieldTitle, m.focusedKey())
	assert.Equal(t, "Series data fetched successfully! Review and edit as needed.", m.status[addExternal].message)
	assert.Equal(t, "Manga", m.ext.form.Type)
	assert.Equal(t, "Berserk", m.ext.inputs[forms.FieldTitle].Value())

	m, cmd = m.Update(key("ctrl+s"))
	assert.True(t, m.status[addExternal].busy.Active())
	m = applyAdd(t, m, cmd)

	require.Len(t, api.created, 1)
	payload := api.created[0].(forms.SeriesPayload)
	assert.Equal(t, "Berserk", payload.Title)
	assert.Equal(t, map[string]any{"mu": "abc123"}, payload.IDs)
	assert.Equal(t, []string{"Action", "Dark Fantasy"}, payload.Genres)

	assert.Equal(t, "Series added successfully!", m.status[addExternal].message)
	assert.False(t, m.lookedUp, "the form starts over after a successful add")
	assert.Empty(t, m.ids["mu"].Value())
}

func TestLookupWithoutIDs(t *testing.T) {
	api := &fakeAPI{}
	m := newAdd(t, api)
	m, cmd := m.Update(key("ctrl+s"))
	m = applyAdd(t, m, cmd)
	assert.False(t, m.lookedUp)
	assert.False(t, m.status[addExternal].ok)
	assert.Equal(t, "Please enter at least one external ID", m.status[addExternal].message)
}

func TestManualAddValidatesLocally(t *testing.T) {
	api := &fakeAPI{}
	m := newAdd(t, api)
	m, _ = m.Update(key("ctrl+t"))
	require.Equal(t, addManual, m.mode)
	require.Equal(t, forms.FieldTitle, m.focusedKey())

	m, cmd := m.Update(key("ctrl+s"))
	assert.Nil(t, cmd)
	assert.Empty(t, api.created)
	assert.Equal(t, "Please fix the highlighted fields", m.status[addManual].message)
	assert.Contains(t, m.status[addManual].errs, forms.FieldTitle)
	assert.Contains(t, m.status[addManual].errs, forms.FieldThumbnail)
	assert.Contains(t, m.View(), "Title is required")

	// typing into a flagged field clears its message
	m, _ = m.Update(key("Solo"))
	assert.NotContains(t, m.status[addManual].errs, forms.FieldTitle)
}

func TestManualAddChoicesAndCheckbox(t *testing.T) {
	api := &fakeAPI{}
	m := newAdd(t, api)
	m, _ = m.Update(key("ctrl+t"))

	m, _ = m.Update(key("Omniscient Reader"))
	for m.focusedKey() != forms.FieldType {
		m, _ = m.Update(key("tab"))
	}
	m, _ = m.Update(key(" "))
	assert.Equal(t, "Manhwa", m.man.form.Type)

	for m.focusedKey() != forms.FieldIsMarkdown {
		m, _ = m.Update(key("tab"))
	}
	m, _ = m.Update(key(" "))
	assert.True(t, m.man.form.IsMarkdown)

	for m.focusedKey() != forms.FieldThumbnail {
		m, _ = m.Update(key("tab"))
	}
	m, _ = m.Update(key("https://example.com/orv.png"))

	m, cmd := m.Update(key("ctrl+s"))
	m = applyAdd(t, m, cmd)
	require.Len(t, api.created, 1)
	payload := api.created[0].(forms.SeriesPayload)
	assert.Equal(t, "Manhwa", payload.Type)
	assert.True(t, payload.IsMarkdown)
	assert.Equal(t, map[string]any{}, payload.IDs)
	assert.True(t, m.status[addManual].ok)
}

func TestAddSubmitWhileBusyIsIgnored(t *testing.T) {
	api := &fakeAPI{}
	m := newAdd(t, api)
	m, _ = m.Update(key("1"))
	m, first := m.Update(key("enter"))
	require.NotNil(t, first)
	_, second := m.Update(key("enter"))
	assert.Nil(t, second)
}

func TestAddSubFormsSubmitIndependently(t *testing.T) {
	api := &fakeAPI{lookup: library.Series{
		Title:     "Berserk",
		Type:      "manga",
		Thumbnail: "https://example.com/berserk.jpg",
	}}
	m := newAdd(t, api)
	m, _ = m.Update(key("abc123"))
	m, cmd := m.Update(key("enter"))
	m = applyAdd(t, m, cmd)
	require.True(t, m.lookedUp)

	// the external add stays in flight while the user switches over
	m, pending := m.Update(key("ctrl+s"))
	require.NotNil(t, pending)
	require.True(t, m.status[addExternal].busy.Active())

	m, _ = m.Update(key("ctrl+t"))
	require.Equal(t, addManual, m.mode)
	assert.NotContains(t, m.View(), "Submitting", "the manual form does not show the external request")

	m, _ = m.Update(key("Vagabond"))
	for m.focusedKey() != forms.FieldThumbnail {
		m, _ = m.Update(key("tab"))
	}
	m, _ = m.Update(key("https://example.com/vagabond.png"))

	m, manual := m.Update(key("ctrl+s"))
	require.NotNil(t, manual, "a busy external form must not block the manual one")
	assert.True(t, m.status[addManual].busy.Active())

	m = applyAdd(t, m, manual)
	assert.False(t, m.status[addManual].busy.Active())
	assert.True(t, m.status[addExternal].busy.Active())
	assert.Equal(t, "Series added successfully!", m.status[addManual].message)

	m = applyAdd(t, m, pending)
	assert.False(t, m.status[addExternal].busy.Active())
	assert.Equal(t, "Series added successfully!", m.status[addExternal].message)
	require.Len(t, api.created, 2)
	assert.Equal(t, "Vagabond", api.created[0].(forms.SeriesPayload).Title)
	assert.Equal(t, "Berserk", api.created[1].(forms.SeriesPayload).Title)
}
