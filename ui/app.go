package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	gloss "github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"manga_tracker/filter"
	"manga_tracker/flow"
	"manga_tracker/lang"
	"manga_tracker/render"
)

type AppState int

const (
	StateList AppState = iota
	StateAdd
	StateSettings
	StateLogin
)

const underlineLength = 48

// Deps are the collaborators the screens share.
type Deps struct {
	Runner  *flow.Runner
	Filter  *filter.Controller
	Term    *render.TermRenderer
	Log     *zap.Logger
	Timeout time.Duration
}

func (d Deps) withDefaults() Deps {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Filter == nil {
		d.Filter = filter.NewController(nil, d.Log)
	}
	return d
}

type AppModel struct {
	state AppState
	// back is the screen to return to after logging in
	back AppState

	listUI     ListModel
	addUI      AddModel
	settingsUI SettingsModel
	loginUI    LoginModel

	log    *zap.Logger
	tabs   []string
	width  int
	height int
}

func NewAppModel(deps Deps) AppModel {
	deps = deps.withDefaults()
	m := AppModel{
		state:      StateList,
		listUI:     NewListModel(deps),
		addUI:      NewAddModel(deps),
		settingsUI: NewSettingsModel(deps),
		loginUI:    NewLoginModel(deps),
		log:        deps.Log.Named("ui"),
	}
	m.applyLanguage()
	return m
}

func (m *AppModel) applyLanguage() {
	texts := lang.Active()
	m.tabs = []string{texts.Tabs.List, texts.Tabs.Add, texts.Tabs.Settings}
}

func (m AppModel) Init() tea.Cmd { return m.listUI.Init() }

// capturing is true while a list overlay owns the keyboard.
func (m AppModel) capturing() bool {
	return m.listUI.editing || m.listUI.picking || m.listUI.popup.IsOpen()
}

func (m *AppModel) switchTo(state AppState) tea.Cmd {
	if state == m.state {
		return nil
	}
	m.log.Debug("switch screen", zap.Int("from", int(m.state)), zap.Int("to", int(state)))
	m.state = state
	switch state {
	case StateAdd:
		return m.addUI.Activate()
	case StateSettings:
		return m.settingsUI.Activate()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.state != StateLogin {
			switch msg.String() {
			case "f1":
				return m, m.switchTo(StateList)
			case "f2":
				return m, m.switchTo(StateAdd)
			case "f3":
				return m, m.switchTo(StateSettings)
			}
		}
		switch m.state {
		case StateList:
			if !m.capturing() {
				switch msg.String() {
				case "tab":
					return m, m.switchTo(StateAdd)
				case "q":
					return m, tea.Quit
				}
			}
			var cmd tea.Cmd
			m.listUI, cmd = m.listUI.Update(msg)
			return m, cmd
		case StateAdd:
			if msg.String() == "esc" {
				return m, m.switchTo(StateList)
			}
			var cmd tea.Cmd
			m.addUI, cmd = m.addUI.Update(msg)
			return m, cmd
		case StateSettings:
			if msg.String() == "esc" {
				return m, m.switchTo(StateList)
			}
			var cmd tea.Cmd
			m.settingsUI, cmd = m.settingsUI.Update(msg)
			return m, cmd
		case StateLogin:
			var cmd tea.Cmd
			m.loginUI, cmd = m.loginUI.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.MouseMsg:
		if m.state == StateList {
			var cmd tea.Cmd
			m.listUI, cmd = m.listUI.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case languageChangedMsg:
		m.applyLanguage()

	case needLoginMsg:
		if m.state == StateLogin {
			return m, nil
		}
		m.back = m.state
		m.state = StateLogin
		return m, m.loginUI.Activate()

	case loggedInMsg:
		m.state = m.back
		m.log.Info("session restored", zap.Int("screen", int(m.state)))
		cmds := []tea.Cmd{m.listUI.reload()}
		if m.state == StateSettings {
			cmds = append(cmds, m.settingsUI.Activate())
		}
		return m, tea.Batch(cmds...)
	}

	// Everything else goes to every screen; results of a request arrive
	// even after the user moved on, and spinners ignore foreign ticks.
	var cmds [4]tea.Cmd
	m.listUI, cmds[0] = m.listUI.Update(msg)
	m.addUI, cmds[1] = m.addUI.Update(msg)
	m.settingsUI, cmds[2] = m.settingsUI.Update(msg)
	m.loginUI, cmds[3] = m.loginUI.Update(msg)
	return m, tea.Batch(cmds[:]...)
}

func (m AppModel) tabsView() string {
	var renderedTabs []string
	for i, name := range m.tabs {
		if AppState(i) == m.state {
			renderedTabs = append(renderedTabs, ActiveTabStyle.Render(name))
		} else {
			renderedTabs = append(renderedTabs, InactiveTabStyle.Render(name))
		}
	}
	tabsRow := TabsRow.Width(m.width).Render(gloss.JoinHorizontal(gloss.Top, renderedTabs...))
	lineWidth := min(m.width, underlineLength)
	underlineRow := UnderlineRow.Width(m.width).Render(strings.Repeat("─", max(lineWidth, 0)))
	return tabsRow + "\n" + underlineRow
}

func (m AppModel) View() string {
	switch m.state {
	case StateList:
		return m.tabsView() + "\n" + m.listUI.View()
	case StateAdd:
		return m.tabsView() + "\n" + m.addUI.View()
	case StateSettings:
		return m.tabsView() + "\n" + m.settingsUI.View()
	case StateLogin:
		return m.loginUI.View()
	default:
		return lang.Active().Common.UnknownState
	}
}

// RunApp starts the full-screen client and blocks until it quits.
func RunApp(deps Deps) error {
	p := tea.NewProgram(NewAppModel(deps), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
