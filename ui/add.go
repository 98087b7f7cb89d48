package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	gloss "github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"manga_tracker/flow"
	"manga_tracker/forms"
	"manga_tracker/lang"
	"manga_tracker/library"
)

type addMode int

const (
	addExternal addMode = iota
	addManual
)

type lookupDoneMsg struct {
	form forms.SeriesForm
	res  flow.Result
}

type addDoneMsg struct {
	mode addMode
	res  flow.Result
}

// ---------------- seriesEditor ----------------

// seriesEditor edits one forms.SeriesForm. Choice and checkbox fields live in
// the form itself; text fields are inputs synced into it before a submit.
type seriesEditor struct {
	form   forms.SeriesForm
	inputs map[string]textinput.Model
	desc   textarea.Model
}

func isChoice(key string) bool { return key == forms.FieldType || key == forms.FieldStatus }

func choiceOptions(key string) []string {
	if key == forms.FieldType {
		return library.SeriesTypes
	}
	return forms.StatusOptions
}

func newSeriesEditor(form forms.SeriesForm) seriesEditor {
	e := seriesEditor{form: form, inputs: map[string]textinput.Model{}}
	for _, key := range forms.SeriesFields {
		if isChoice(key) || key == forms.FieldIsMarkdown || key == forms.FieldDescription {
			continue
		}
		ti := newFormInput()
		ti.SetValue(form.Get(key))
		e.inputs[key] = ti
	}
	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.SetHeight(3)
	ta.SetWidth(FormMaxWidth - LabelWidth - 12)
	ta.SetValue(form.Description)
	ta.Blur()
	e.desc = ta
	return e
}

func newFormInput() textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.PlaceholderStyle = InputPlaceholderStyle
	ti.TextStyle = PromptTextStyle
	ti.Cursor.Style = PromptCursorStyle
	ti.CharLimit = 500
	ti.Width = FormMaxWidth - LabelWidth - 12
	return ti
}

// sync copies typed text into the form.
func (e *seriesEditor) sync() forms.SeriesForm {
	for key, in := range e.inputs {
		e.form.Set(key, in.Value())
	}
	e.form.Description = e.desc.Value()
	return e.form
}

func (e *seriesEditor) focus(key string) tea.Cmd {
	var cmd tea.Cmd
	for k, in := range e.inputs {
		if k == key {
			cmd = in.Focus()
		} else {
			in.Blur()
		}
		e.inputs[k] = in
	}
	if key == forms.FieldDescription {
		return e.desc.Focus()
	}
	e.desc.Blur()
	return cmd
}

func (e *seriesEditor) blurAll() {
	for k, in := range e.inputs {
		in.Blur()
		e.inputs[k] = in
	}
	e.desc.Blur()
}

// handle applies a key to the focused field; it reports false for keys the
// field does not use.
func (e *seriesEditor) handle(key string, msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case isChoice(key):
		delta := 0
		switch msg.String() {
		case " ", "right", "l":
			delta = 1
		case "left", "h":
			delta = -1
		}
		if delta == 0 {
			return nil, false
		}
		e.form.Set(key, cycle(choiceOptions(key), e.form.Get(key), delta))
		return nil, true
	case key == forms.FieldIsMarkdown:
		if msg.String() != " " && msg.String() != "enter" {
			return nil, false
		}
		e.form.IsMarkdown = !e.form.IsMarkdown
		return nil, true
	case key == forms.FieldDescription:
		var cmd tea.Cmd
		e.desc, cmd = e.desc.Update(msg)
		return cmd, true
	}
	if msg.String() == "enter" {
		return nil, false
	}
	in, ok := e.inputs[key]
	if !ok {
		return nil, false
	}
	var cmd tea.Cmd
	in, cmd = in.Update(msg)
	e.inputs[key] = in
	return cmd, true
}

func (e seriesEditor) fieldView(key string, focused bool) string {
	switch {
	case isChoice(key):
		value := e.form.Get(key)
		if key == forms.FieldStatus {
			value = lang.StatusName(value)
		}
		if focused {
			return PromptStyle.Render("‹ " + value + " ›")
		}
		return PromptTextStyle.Render("  " + value)
	case key == forms.FieldIsMarkdown:
		box := "[ ]"
		if e.form.IsMarkdown {
			box = "[x]"
		}
		if focused {
			return PromptStyle.Render(box)
		}
		return box
	case key == forms.FieldDescription:
		return e.desc.View()
	}
	return e.inputs[key].View()
}

// addStatus is the submit state of one sub-form. The two sub-forms submit
// independently, so each keeps its own busy flag and message.
type addStatus struct {
	busy    flow.Busy
	message string
	ok      bool
	errs    forms.FieldErrors
}

// ---------------- AddModel ----------------
type AddModel struct {
	deps Deps
	mode addMode

	ids      map[string]textinput.Model
	ext      seriesEditor
	man      seriesEditor
	lookedUp bool

	focus [2]int

	lookupBusy flow.Busy
	status     [2]addStatus
	spinner    spinner.Model

	width int
}

func NewAddModel(deps Deps) AddModel {
	deps = deps.withDefaults()
	m := AddModel{
		deps: deps,
		ids:  map[string]textinput.Model{},
		ext:  newSeriesEditor(forms.NewSeriesForm()),
		man:  newSeriesEditor(forms.NewSeriesForm()),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(gloss.NewStyle().Foreground(colorAccent)),
		),
	}
	for _, p := range library.Providers {
		m.ids[p] = newFormInput()
	}
	return m
}

func (m *AddModel) editor() *seriesEditor {
	if m.mode == addManual {
		return &m.man
	}
	return &m.ext
}

// keys lists the focusable fields of the current mode in order.
func (m AddModel) keys() []string {
	if m.mode == addManual {
		return forms.SeriesFields
	}
	keys := append([]string(nil), library.Providers...)
	if m.lookedUp {
		keys = append(keys, forms.SeriesFields...)
	}
	return keys
}

func (m AddModel) focusedKey() string {
	keys := m.keys()
	idx := m.focus[m.mode]
	if idx >= len(keys) {
		idx = len(keys) - 1
	}
	return keys[idx]
}

func isProvider(key string) bool {
	for _, p := range library.Providers {
		if p == key {
			return true
		}
	}
	return false
}

func (m *AddModel) setFocus(idx int) tea.Cmd {
	keys := m.keys()
	idx = (idx%len(keys) + len(keys)) % len(keys)
	m.focus[m.mode] = idx
	key := keys[idx]

	var cmd tea.Cmd
	for p, in := range m.ids {
		if p == key {
			cmd = in.Focus()
		} else {
			in.Blur()
		}
		m.ids[p] = in
	}
	if isProvider(key) {
		m.editor().blurAll()
		return cmd
	}
	return m.editor().focus(key)
}

func (m *AddModel) externalIDs() forms.ExternalIDs {
	var ids forms.ExternalIDs
	for p, in := range m.ids {
		ids.Set(p, in.Value())
	}
	return ids
}

func (m *AddModel) setResult(mode addMode, res flow.Result) {
	st := &m.status[mode]
	st.message, st.ok = res.Message, res.OK
	st.errs = res.Fields
}

func (m *AddModel) setPending(mode addMode, message string) {
	st := &m.status[mode]
	st.message, st.ok, st.errs = message, true, nil
}

// Activate focuses the first field when the screen is shown.
func (m *AddModel) Activate() tea.Cmd { return m.setFocus(m.focus[m.mode]) }

func (m AddModel) busy() bool {
	return m.lookupBusy.Active() || m.status[addExternal].busy.Active() || m.status[addManual].busy.Active()
}

// modeBusy reports whether the given sub-form has a request in flight.
func (m AddModel) modeBusy(mode addMode) bool {
	if mode == addExternal && m.lookupBusy.Active() {
		return true
	}
	return m.status[mode].busy.Active()
}

func (m *AddModel) lookup() tea.Cmd {
	if !m.lookupBusy.Start() {
		return nil
	}
	m.setPending(addExternal, lang.Active().Add.Fetching)
	ids := m.externalIDs()
	runner, timeout := m.deps.Runner, m.deps.Timeout
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		form, res := runner.Lookup(ctx, ids)
		return lookupDoneMsg{form: form, res: res}
	})
}

func (m *AddModel) submit() tea.Cmd {
	mode := m.mode
	form := m.editor().sync()

	var (
		payload forms.SeriesPayload
		err     error
	)
	if mode == addExternal {
		payload, err = flow.BuildExternal(form, m.externalIDs())
	} else {
		payload, err = flow.BuildManual(form)
	}
	if err != nil {
		m.setResult(mode, flow.Invalid(err))
		return nil
	}
	if !m.status[mode].busy.Start() {
		return nil
	}
	m.setPending(mode, lang.Active().Add.Submitting)
	runner, timeout := m.deps.Runner, m.deps.Timeout
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		return addDoneMsg{mode: mode, res: runner.AddSeries(ctx, payload)}
	})
}

// reset clears a sub-form after a successful add.
func (m *AddModel) reset(mode addMode) {
	if mode == addManual {
		m.man = newSeriesEditor(forms.NewSeriesForm())
		m.focus[addManual] = 0
		return
	}
	for p := range m.ids {
		in := m.ids[p]
		in.SetValue("")
		m.ids[p] = in
	}
	m.ext = newSeriesEditor(forms.NewSeriesForm())
	m.lookedUp = false
	m.focus[addExternal] = 0
}

func (m AddModel) Update(msg tea.Msg) (AddModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case lookupDoneMsg:
		m.lookupBusy.Done()
		m.setResult(addExternal, msg.res)
		if msg.res.Unauthorized {
			return m, func() tea.Msg { return needLoginMsg{} }
		}
		if !msg.res.OK {
			return m, nil
		}
		m.ext = newSeriesEditor(msg.form)
		m.lookedUp = true
		if m.mode == addExternal {
			return m, m.setFocus(len(library.Providers))
		}
		return m, nil

	case addDoneMsg:
		m.status[msg.mode].busy.Done()
		m.setResult(msg.mode, msg.res)
		if msg.res.Unauthorized {
			return m, func() tea.Msg { return needLoginMsg{} }
		}
		if msg.res.OK {
			m.deps.Log.Debug("add form reset", zap.Int("mode", int(msg.mode)))
			m.reset(msg.mode)
			if msg.mode == m.mode {
				return m, m.setFocus(0)
			}
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m AddModel) handleKey(msg tea.KeyMsg) (AddModel, tea.Cmd) {
	key := m.focusedKey()
	switch msg.String() {
	case "ctrl+t":
		if m.mode == addExternal {
			m.mode = addManual
		} else {
			m.mode = addExternal
		}
		return m, m.setFocus(m.focus[m.mode])
	case "tab":
		return m, m.setFocus(m.focus[m.mode] + 1)
	case "shift+tab":
		return m, m.setFocus(m.focus[m.mode] - 1)
	case "ctrl+s":
		if m.mode == addExternal && !m.lookedUp {
			return m, m.lookup()
		}
		return m, m.submit()
	case "enter":
		if isProvider(key) {
			return m, m.lookup()
		}
	}

	if isProvider(key) {
		in := m.ids[key]
		var cmd tea.Cmd
		in, cmd = in.Update(msg)
		m.ids[key] = in
		return m, cmd
	}
	ed := m.editor()
	if cmd, ok := ed.handle(key, msg); ok {
		delete(m.status[m.mode].errs, key)
		return m, cmd
	}
	if msg.String() == "enter" {
		return m, m.setFocus(m.focus[m.mode] + 1)
	}
	return m, nil
}

func (m AddModel) View() string {
	texts := lang.Active().Add

	modeTabs := []string{texts.ExternalTab, texts.ManualTab}
	for i, name := range modeTabs {
		if addMode(i) == m.mode {
			modeTabs[i] = ActiveTabStyle.UnsetPadding().Padding(0, 2).Render(name)
		} else {
			modeTabs[i] = InactiveTabStyle.UnsetPadding().Padding(0, 2).Render(name)
		}
	}
	lines := []string{gloss.JoinHorizontal(gloss.Top, modeTabs...), ""}

	st := m.status[m.mode]
	focused := m.focusedKey()
	ed := m.ext
	if m.mode == addManual {
		ed = m.man
	}
	for _, key := range m.keys() {
		label := lang.AddFieldLabel(key)
		labelStyle := LabelStyle
		if key == focused {
			labelStyle = FocusedLabelStyle
		}
		var field string
		if isProvider(key) {
			field = m.ids[key].View()
		} else {
			field = ed.fieldView(key, key == focused)
		}
		if key == forms.FieldTitle {
			lines = append(lines, "")
		}
		lines = append(lines, gloss.JoinHorizontal(gloss.Top, labelStyle.Render(label), field))
		if msg, ok := st.errs[key]; ok {
			lines = append(lines, FieldErrorStyle.Render(msg))
		}
	}
	form := FormStyle.Width(min(m.width, FormMaxWidth)).Render(strings.Join(lines, "\n"))
	view := gloss.PlaceHorizontal(m.width, gloss.Center, form)

	if st.message != "" {
		text := st.message
		if m.modeBusy(m.mode) {
			text = m.spinner.View() + " " + text
		}
		style := SuccessStyle
		if !st.ok {
			style = ErrorStyle
		}
		view += "\n" + style.Render(text)
	}
	return view + "\n" + HelpStyle.Render(texts.HelpKeys)
}
