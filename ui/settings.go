package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	gloss "github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"manga_tracker/flow"
	"manga_tracker/forms"
	"manga_tracker/lang"
	"manga_tracker/library"
	"manga_tracker/utils"
)

// languageRow is the interface language selector below the backend settings.
const languageRow = "ui.language"

type settingsLoadedMsg struct {
	settings library.Settings
	res      flow.Result
}

type settingsSavedMsg struct {
	payload map[string]any
	res     flow.Result
}

type languageChangedMsg struct {
	Locale lang.Locale
}

type SettingsModel struct {
	deps     Deps
	form     *forms.SettingsForm
	inputs   map[string]textinput.Model
	focus    int
	loading  bool
	saveBusy flow.Busy
	spinner  spinner.Model
	language lang.Locale

	message string
	ok      bool
	width   int
}

func NewSettingsModel(deps Deps) SettingsModel {
	deps = deps.withDefaults()
	return SettingsModel{
		deps:     deps,
		inputs:   map[string]textinput.Model{},
		language: lang.CurrentLocale(),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(gloss.NewStyle().Foreground(colorAccent)),
		),
	}
}

func hasInput(kind forms.FieldKind) bool {
	return kind == forms.KindText || kind == forms.KindSecret || kind == forms.KindNumber
}

// Activate loads the settings the first time the screen is shown.
func (m *SettingsModel) Activate() tea.Cmd {
	if m.form != nil {
		return m.focusRow(m.focus)
	}
	if m.loading {
		return nil
	}
	m.loading = true
	m.message, m.ok = lang.Active().Settings.Loading, true
	runner, timeout := m.deps.Runner, m.deps.Timeout
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		settings, res := runner.LoadSettings(ctx)
		return settingsLoadedMsg{settings: settings, res: res}
	})
}

// rebuildInputs recreates the inputs from the form; secret inputs start empty.
func (m *SettingsModel) rebuildInputs() {
	m.inputs = map[string]textinput.Model{}
	for _, field := range forms.SettingsFields {
		if !hasInput(field.Kind) {
			continue
		}
		ti := newFormInput()
		ti.Width = FormMaxWidth - LabelWidth - 12
		if field.Kind == forms.KindSecret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		ti.SetValue(m.form.Value(field.Key))
		m.inputs[field.Key] = ti
	}
	m.refreshPlaceholders()
}

// refreshPlaceholders follows the form: required and stored hints change
// when an integration is switched.
func (m *SettingsModel) refreshPlaceholders() {
	for key, in := range m.inputs {
		in.Placeholder = m.form.Placeholder(key)
		m.inputs[key] = in
	}
}

// rows lists the focusable rows: visible fields, then the language selector.
func (m SettingsModel) rows() []forms.SettingsField {
	var rows []forms.SettingsField
	if m.form != nil {
		rows = m.form.VisibleFields()
	}
	return append(rows, forms.SettingsField{Key: languageRow, Group: forms.GroupGeneral, Kind: forms.KindChoice})
}

func (m SettingsModel) focused() forms.SettingsField {
	rows := m.rows()
	if m.focus >= len(rows) {
		return rows[len(rows)-1]
	}
	return rows[m.focus]
}

// setFocus moves the cursor; the field being left is validated.
func (m *SettingsModel) setFocus(idx int) tea.Cmd {
	prev := m.focused()
	if m.form != nil && hasInput(prev.Kind) {
		m.form.Blur(prev.Key)
	}
	return m.focusRow(idx)
}

func (m *SettingsModel) focusRow(idx int) tea.Cmd {
	rows := m.rows()
	idx = (idx%len(rows) + len(rows)) % len(rows)
	m.focus = idx
	key := rows[idx].Key

	var cmd tea.Cmd
	for k, in := range m.inputs {
		if k == key {
			cmd = in.Focus()
		} else {
			in.Blur()
		}
		m.inputs[k] = in
	}
	return cmd
}

func (m *SettingsModel) save() tea.Cmd {
	if m.form == nil {
		return nil
	}
	payload, err := m.form.Payload()
	if err != nil {
		res := flow.Invalid(err)
		m.message, m.ok = res.Message, false
		return nil
	}
	if !m.saveBusy.Start() {
		return nil
	}
	m.message, m.ok = lang.Active().Settings.Saving, true
	runner, timeout := m.deps.Runner, m.deps.Timeout
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		return settingsSavedMsg{payload: payload, res: runner.SaveSettings(ctx, payload)}
	})
}

func (m *SettingsModel) changeLanguage(delta int) tea.Cmd {
	locales := lang.AvailableLocales()
	if len(locales) == 0 {
		return nil
	}
	currentIdx := 0
	for i, loc := range locales {
		if loc == m.language {
			currentIdx = i
			break
		}
	}
	nextIdx := ((currentIdx+delta)%len(locales) + len(locales)) % len(locales)
	newLocale := locales[nextIdx]
	if newLocale == m.language || !lang.SetLocale(newLocale) {
		return nil
	}
	previousLocale := m.language
	previousConfigLang := utils.AppConfig.UI.Language
	if previousConfigLang != string(newLocale) {
		utils.AppConfig.UI.Language = string(newLocale)
		if err := utils.SaveConfig(); err != nil {
			m.deps.Log.Warn("saving language failed", zap.Error(err))
			utils.AppConfig.UI.Language = previousConfigLang
			_ = lang.SetLocale(previousLocale)
			m.message, m.ok = lang.Active().Settings.SaveConfigFailed, false
			return nil
		}
	}
	m.language = newLocale
	m.message = ""
	if m.form != nil {
		// messages are stored translated
		for key := range m.form.Errors() {
			m.form.Blur(key)
		}
		m.refreshPlaceholders()
	}
	return func() tea.Msg { return languageChangedMsg{Locale: newLocale} }
}

func (m SettingsModel) Update(msg tea.Msg) (SettingsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.loading && !m.saveBusy.Active() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case settingsLoadedMsg:
		m.loading = false
		if !msg.res.OK {
			m.message, m.ok = msg.res.Message, false
			if msg.res.Unauthorized {
				return m, func() tea.Msg { return needLoginMsg{} }
			}
			return m, nil
		}
		m.message = ""
		m.form = forms.NewSettingsForm(msg.settings)
		m.rebuildInputs()
		return m, m.focusRow(0)

	case settingsSavedMsg:
		m.saveBusy.Done()
		m.message, m.ok = msg.res.Message, msg.res.OK
		if msg.res.Unauthorized {
			return m, func() tea.Msg { return needLoginMsg{} }
		}
		if msg.res.OK && m.form != nil {
			m.form.Saved(msg.payload)
			m.rebuildInputs()
			return m, m.focusRow(m.focus)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m SettingsModel) handleKey(msg tea.KeyMsg) (SettingsModel, tea.Cmd) {
	field := m.focused()
	switch msg.String() {
	case "tab", "down":
		return m, m.setFocus(m.focus + 1)
	case "shift+tab", "up":
		return m, m.setFocus(m.focus - 1)
	case "ctrl+s":
		return m, m.save()
	case "ctrl+r":
		if m.form == nil {
			return m, nil
		}
		m.form.Reset()
		m.rebuildInputs()
		m.message = ""
		return m, m.focusRow(0)
	}

	if field.Key == languageRow {
		switch msg.String() {
		case "left", "h":
			return m, m.changeLanguage(-1)
		case "right", "l", " ", "enter":
			return m, m.changeLanguage(1)
		}
		return m, nil
	}
	if m.form == nil {
		return m, nil
	}

	switch field.Kind {
	case forms.KindToggle:
		if msg.String() == " " || msg.String() == "enter" {
			m.form.Toggle(field.Key)
			m.refreshPlaceholders()
			// the rows below a switched integration come and go
			rows := m.rows()
			for i, r := range rows {
				if r.Key == field.Key {
					m.focus = i
				}
			}
		}
		return m, nil
	case forms.KindChoice:
		if msg.String() == " " || msg.String() == "enter" || msg.String() == "right" {
			m.form.NextOption(field.Key)
		}
		return m, nil
	}

	if msg.String() == "enter" {
		return m, m.setFocus(m.focus + 1)
	}
	in, ok := m.inputs[field.Key]
	if !ok {
		return m, nil
	}
	var cmd tea.Cmd
	in, cmd = in.Update(msg)
	m.inputs[field.Key] = in
	m.form.SetValue(field.Key, in.Value())
	return m, cmd
}

func (m SettingsModel) groupTitle(group string) string {
	title := lang.GroupName(group)
	if group == forms.GroupGeneral || m.form == nil {
		return title
	}
	return title + " (" + m.form.State(group).String() + ")"
}

func (m SettingsModel) fieldView(field forms.SettingsField, focused bool) string {
	var value string
	switch field.Kind {
	case forms.KindToggle:
		value = "[ ]"
		if m.form.Checked(field.Key) {
			value = "[x]"
		}
	case forms.KindChoice:
		value = m.form.Value(field.Key)
		if focused {
			value = "‹ " + value + " ›"
		}
	default:
		return m.inputs[field.Key].View()
	}
	if focused {
		return PromptStyle.Render(value)
	}
	return PromptTextStyle.Render(value)
}

func (m SettingsModel) View() string {
	texts := lang.Active().Settings
	var lines []string
	focused := m.focused().Key

	if m.form != nil {
		group := ""
		for _, field := range m.form.VisibleFields() {
			if field.Group != group {
				group = field.Group
				lines = append(lines, GroupTitleStyle.Render(m.groupTitle(group)))
			}
			labelStyle := LabelStyle
			if field.Key == focused {
				labelStyle = FocusedLabelStyle
			}
			lines = append(lines, gloss.JoinHorizontal(gloss.Top,
				labelStyle.Render(field.Label()), m.fieldView(field, field.Key == focused)))
			if msg := m.form.Error(field.Key); msg != "" {
				lines = append(lines, FieldErrorStyle.Render(msg))
			}
		}
	}

	labelStyle := LabelStyle
	value := PromptTextStyle.Render(lang.LanguageName(m.language))
	if focused == languageRow {
		labelStyle = FocusedLabelStyle
		value = PromptStyle.Render("‹ " + lang.LanguageName(m.language) + " ›")
	}
	lines = append(lines, "", gloss.JoinHorizontal(gloss.Top, labelStyle.Render(texts.LanguageLabel), value))

	form := FormStyle.Width(min(m.width, FormMaxWidth)).Render(strings.Join(lines, "\n"))
	view := gloss.PlaceHorizontal(m.width, gloss.Center, form)

	if m.message != "" {
		text := m.message
		if m.loading || m.saveBusy.Active() {
			text = m.spinner.View() + " " + text
		}
		style := SuccessStyle
		if !m.ok {
			style = ErrorStyle
		}
		view += "\n" + style.Render(text)
	}
	return view + "\n" + HelpStyle.Render(texts.HelpKeys)
}
