package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	gloss "github.com/charmbracelet/lipgloss"

	"manga_tracker/flow"
	"manga_tracker/lang"
)

type loginDoneMsg struct{ res flow.Result }

// loggedInMsg tells the app the backend accepted the password.
type loggedInMsg struct{}

type LoginModel struct {
	deps    Deps
	input   textinput.Model
	busy    flow.Busy
	spinner spinner.Model
	message string
	width   int
	height  int
}

func NewLoginModel(deps Deps) LoginModel {
	deps = deps.withDefaults()
	ti := textinput.New()
	ti.PromptStyle = PromptStyle.PaddingLeft(1).Bold(true)
	ti.PlaceholderStyle = InputPlaceholderStyle
	ti.TextStyle = PromptTextStyle
	ti.Cursor.Style = PromptCursorStyle
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.CharLimit = 200
	ti.Width = 30

	m := LoginModel{
		deps:  deps,
		input: ti,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(gloss.NewStyle().Foreground(colorAccent)),
		),
	}
	m.applyLanguage()
	return m
}

func (m *LoginModel) applyLanguage() {
	m.input.Prompt = "> "
	m.input.Placeholder = lang.Active().Login.Placeholder
}

// Activate clears the form and focuses the password input.
func (m *LoginModel) Activate() tea.Cmd {
	m.input.SetValue("")
	m.message = ""
	return m.input.Focus()
}

func (m *LoginModel) submit() tea.Cmd {
	if !m.busy.Start() {
		return nil
	}
	m.message = ""
	password := m.input.Value()
	runner, timeout := m.deps.Runner, m.deps.Timeout
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		return loginDoneMsg{res: runner.Login(ctx, password)}
	})
}

func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.busy.Active() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case languageChangedMsg:
		m.applyLanguage()
		return m, nil

	case loginDoneMsg:
		m.busy.Done()
		if !msg.res.OK {
			m.message = msg.res.Message
			return m, nil
		}
		m.input.SetValue("")
		m.input.Blur()
		return m, func() tea.Msg { return loggedInMsg{} }

	case tea.KeyMsg:
		if msg.String() == "enter" {
			return m, m.submit()
		}
		if m.busy.Active() {
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		// typing again clears the previous failure
		m.message = ""
		return m, cmd
	}
	return m, nil
}

func (m LoginModel) View() string {
	texts := lang.Active().Login
	body := PopupTitleStyle.Render(texts.Title) + "\n\n" + m.input.View()
	switch {
	case m.busy.Active():
		body += "\n\n" + StatusMutedStyle.UnsetPadding().Render(m.spinner.View()+" "+texts.LoggingIn)
	case m.message != "":
		body += "\n\n" + ErrorStyle.UnsetPadding().Render(m.message)
	}
	body += "\n\n" + HelpStyle.UnsetPadding().Render(texts.HelpKeys)
	box := PopupBoxStyle.Width(44).Render(body)
	return gloss.Place(m.width, m.height, gloss.Center, gloss.Center, box)
}
