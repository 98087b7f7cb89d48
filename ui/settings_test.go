package ui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manga_tracker/forms"
	"manga_tracker/lang"
	"manga_tracker/library"
	"manga_tracker/utils"
)

// loadedSettings activates the screen and feeds it the loaded settings.
// The focus command returned afterwards only blinks the cursor and is dropped.
func loadedSettings(t *testing.T, api *fakeAPI) SettingsModel {
	t.Helper()
	deps, _ := newTestDeps(t, api)
	m := NewSettingsModel(deps)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	cmd := m.Activate()
	assert.True(t, m.loading)
	for _, msg := range drain(cmd) {
		m, _ = m.Update(msg)
	}
	require.NotNil(t, m.form)
	return m
}

func TestSettingsLoad(t *testing.T) {
	api := &fakeAPI{settings: library.Settings{MainRating: "mu", TitleLanguages: "en,ja"}}
	m := loadedSettings(t, api)

	assert.False(t, m.loading)
	assert.Equal(t, "main_rating", m.focused().Key)
	assert.Equal(t, "en,ja", m.inputs["title_languages"].Value())
	view := m.View()
	assert.Contains(t, view, "Main rating")
	assert.Contains(t, view, "Interface language")
	assert.NotContains(t, view, "MangaUpdates (", "disabled integrations are hidden")

	// a second activation reuses the loaded form
	assert.Nil(t, drain(m.Activate()))
}

func TestSettingsEnablingIntegrationRequiresCredentials(t *testing.T) {
	api := &fakeAPI{settings: library.Settings{MainRating: "mu"}}
	m := loadedSettings(t, api)

	for range 3 {
		m, _ = m.Update(key("tab"))
	}
	require.Equal(t, "mu_integration", m.focused().Key)
	m, _ = m.Update(key(" "))
	assert.True(t, m.form.Enabled(forms.GroupMU))
	assert.Contains(t, m.View(), "MangaUpdates (unconfigured)")

	m, cmd := m.Update(key("ctrl+s"))
	assert.Nil(t, cmd)
	assert.Empty(t, api.updated)
	assert.False(t, m.ok)
	assert.Equal(t, "Please fix the highlighted fields", m.message)
	assert.Equal(t, "Required", m.form.Error("mu_username"))

	// switching the integration off again drops its messages
	m, _ = m.Update(key(" "))
	assert.Empty(t, m.form.Errors())
}

func TestSettingsSave(t *testing.T) {
	api := &fakeAPI{settings: library.Settings{MainRating: "mu"}}
	m := loadedSettings(t, api)

	m, _ = m.Update(key(" "))
	assert.Equal(t, "dex", m.form.Value("main_rating"))

	m, cmd := m.Update(key("ctrl+s"))
	assert.True(t, m.saveBusy.Active())
	for _, msg := range drain(cmd) {
		m, _ = m.Update(msg)
	}

	require.Len(t, api.updated, 1)
	payload := api.updated[0].(map[string]any)
	assert.Equal(t, "dex", payload["main_rating"])
	assert.NotContains(t, payload, "password", "an empty secret is not sent")
	assert.False(t, m.saveBusy.Active())
	assert.True(t, m.ok)
	assert.Equal(t, "Settings saved successfully!", m.message)
	assert.Equal(t, "dex", m.form.Original().MainRating)
}

func TestSettingsRevert(t *testing.T) {
	api := &fakeAPI{settings: library.Settings{MainRating: "mu", TitleLanguages: "en"}}
	m := loadedSettings(t, api)

	m, _ = m.Update(key("tab"))
	m, _ = m.Update(key("x"))
	assert.Equal(t, "enx", m.form.Value("title_languages"))

	m, _ = m.Update(key("ctrl+r"))
	assert.Equal(t, "en", m.form.Value("title_languages"))
	assert.Equal(t, "en", m.inputs["title_languages"].Value())
	assert.Equal(t, "main_rating", m.focused().Key)
}

func TestSettingsLanguageChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, utils.LoadConfig(path))
	t.Cleanup(func() {
		lang.SetLocale(lang.LocaleEnglish)
		utils.AppConfig = utils.DefaultConfig()
	})

	m := loadedSettings(t, &fakeAPI{settings: library.Settings{MainRating: "mu"}})
	m, _ = m.Update(key("shift+tab"))
	require.Equal(t, languageRow, m.focused().Key)

	m, cmd := m.Update(key("right"))
	assert.Equal(t, []tea.Msg{languageChangedMsg{Locale: lang.LocaleChinese}}, drain(cmd))
	assert.Equal(t, lang.LocaleChinese, lang.CurrentLocale())
	assert.Contains(t, m.View(), "简体中文")

	require.NoError(t, utils.LoadConfig(path))
	assert.Equal(t, "zh", utils.AppConfig.UI.Language)
}
