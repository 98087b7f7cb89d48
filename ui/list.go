package ui

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	gloss "github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
	"go.uber.org/zap"

	"manga_tracker/filter"
	"manga_tracker/flow"
	"manga_tracker/lang"
	"manga_tracker/render"
	"manga_tracker/utils"
)

// sections are the list pages in navigation order; "" lists every status.
var sections = append([]string{""}, filter.Statuses...)

// ---------------- Messages ----------------
type listLoadedMsg flow.ListResult

type linkOpenedMsg struct {
	URL string
	Err error
}

// needLoginMsg asks the app to show the login screen.
type needLoginMsg struct{}

// ---------------- Items ----------------
type seriesItem struct {
	row render.Row
}

func (i seriesItem) Title() string       { return i.row.Title }
func (i seriesItem) Description() string { return i.row.Description }
func (i seriesItem) FilterValue() string {
	return i.row.Title + " " + strings.Join(i.row.AltTitles, " ")
}

type genreItem struct {
	name       string
	membership filter.Membership
}

func (g genreItem) Title() string {
	switch g.membership {
	case filter.Included:
		return "+ " + g.name
	case filter.Excluded:
		return "- " + g.name
	}
	return "  " + g.name
}
func (g genreItem) Description() string { return g.membership.String() }
func (g genreItem) FilterValue() string { return g.name }

// ---------------- ListModel ----------------
type ListModel struct {
	deps   Deps
	list   list.Model
	picker list.Model

	spinner    spinner.Model
	genreInput textinput.Model

	rows         []render.Row
	loading      bool
	editing      bool
	picking      bool
	showDetail   bool
	popup        AltTitlesPopup
	status       string
	statusIsErr  bool
	width        int
	height       int
	filterChange *bool
}

func NewListModel(deps Deps) ListModel {
	deps = deps.withDefaults()
	l := list.New(nil, &SeriesDelegate{filter: deps.Filter}, 0, 0)
	listSettings(&l)
	l.SetFilteringEnabled(false)

	picker := list.New(nil, &GenreDelegate{}, 0, 0)
	listSettings(&picker)
	filterStyle(&picker)

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(gloss.NewStyle().Foreground(colorAccent)),
	)

	ti := textinput.New()
	ti.PromptStyle = PromptStyle.PaddingLeft(1).Bold(true)
	ti.PlaceholderStyle = InputPlaceholderStyle
	ti.TextStyle = PromptTextStyle
	ti.Cursor.Style = PromptCursorStyle
	ti.CharLimit = 200
	ti.Width = 50

	// The controller announces every mutation; the next Update turns that into a reload.
	changed := new(bool)
	deps.Filter.Subscribe(func(filter.State) { *changed = true })

	m := ListModel{
		deps:         deps,
		list:         l,
		picker:       picker,
		spinner:      sp,
		genreInput:   ti,
		filterChange: changed,
		loading:      true,
	}
	m.applyLanguage()
	return m
}

func (m *ListModel) applyLanguage() {
	texts := lang.Active().List
	m.genreInput.Prompt = texts.GenrePrompt
	m.genreInput.Placeholder = texts.GenreHint
	m.picker.FilterInput.Prompt = texts.GenrePrompt
}

// Init loads the first page; the model starts out loading.
func (m ListModel) Init() tea.Cmd { return tea.Batch(m.spinner.Tick, m.fetch()) }

// fetch dispatches a list request tagged with a fresh sequence number.
func (m ListModel) fetch() tea.Cmd {
	seq := m.deps.Filter.NextRequest()
	state := m.deps.Filter.State()
	runner, timeout := m.deps.Runner, m.deps.Timeout
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		return listLoadedMsg(runner.LoadList(ctx, seq, state))
	}
}

func (m *ListModel) reload() tea.Cmd {
	if m.loading {
		return m.fetch()
	}
	m.loading = true
	return tea.Batch(m.spinner.Tick, m.fetch())
}

func requestContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), timeout)
}

func (m *ListModel) resize(width, height int) {
	m.width = width
	m.height = height

	availWidth := width - 8
	if availWidth > ListMaxWidth {
		availWidth = ListMaxWidth
	}
	if availWidth < 20 {
		availWidth = 20
	}
	// tabs, header, summary, status and help
	availHeight := height - 11
	if m.showDetail {
		availHeight /= 2
	}
	if availHeight < 4 {
		availHeight = 4
	}
	m.list.SetSize(availWidth, availHeight)
	m.picker.SetSize(min(availWidth, 50), availHeight)
}

func (m *ListModel) selectedRow() (render.Row, bool) {
	item, ok := m.list.SelectedItem().(seriesItem)
	if !ok || item.row.IsPlaceholder() {
		return render.Row{}, false
	}
	return item.row, true
}

func (m *ListModel) setRows(rows []render.Row) tea.Cmd {
	m.rows = rows
	items := make([]list.Item, len(rows))
	for i, r := range rows {
		items[i] = seriesItem{row: r}
	}
	cmd := m.list.SetItems(items)
	m.list.Select(0)
	return cmd
}

// knownGenres are the genres on this page plus the ones the filter names.
func (m *ListModel) knownGenres() []string {
	state := m.deps.Filter.State()
	genres := append(append([]string(nil), state.Included...), state.Excluded...)
	for _, r := range m.rows {
		for _, g := range r.Genres {
			genres = append(genres, filter.GenreKey(g))
		}
	}
	slices.Sort(genres)
	return slices.Compact(genres)
}

func (m *ListModel) refreshPicker() {
	state := m.deps.Filter.State()
	var items []list.Item
	for _, g := range m.knownGenres() {
		if g == "" {
			continue
		}
		items = append(items, genreItem{name: g, membership: state.Membership(g)})
	}
	idx := m.picker.Index()
	m.picker.SetItems(items)
	if idx < len(items) {
		m.picker.Select(idx)
	}
}

func cycle(options []string, current string, delta int) string {
	idx := slices.Index(options, current)
	if idx < 0 {
		return options[0]
	}
	return options[((idx+delta)%len(options)+len(options))%len(options)]
}

func openLinkCmd(link string) tea.Cmd {
	return func() tea.Msg {
		return linkOpenedMsg{URL: link, Err: utils.OpenURL(link)}
	}
}

// ---------------- Update ----------------
func (m ListModel) Update(msg tea.Msg) (ListModel, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case listLoadedMsg:
		if !m.deps.Filter.IsLatest(msg.Seq) {
			m.deps.Log.Debug("dropping stale list response", zap.Uint64("seq", msg.Seq))
			return m, nil
		}
		m.loading = false
		res := flow.ListResult(msg)
		if res.Unauthorized() {
			return m, func() tea.Msg { return needLoginMsg{} }
		}
		cmd := m.setRows(res.Rows)
		if m.picking {
			m.refreshPicker()
		}
		return m, cmd

	case linkOpenedMsg:
		if msg.Err != nil {
			m.deps.Log.Warn("open link failed", zap.String("url", msg.URL), zap.Error(msg.Err))
			m.status, m.statusIsErr = lang.OpenLinkFailed(msg.Err), true
		}
		return m, nil

	case languageChangedMsg:
		m.applyLanguage()
		if m.picking {
			m.refreshPicker()
		}
		return m, nil

	case tea.KeyMsg:
		var handled bool
		if m.popup, handled = m.popup.Update(msg); handled {
			return m, nil
		}
		m.status, m.statusIsErr = "", false
		switch {
		case m.editing:
			m, cmds = m.updateGenreInput(msg)
		case m.picking:
			m, cmds = m.updatePicker(msg)
		default:
			m, cmds = m.updateKeys(msg)
		}

	case tea.MouseMsg:
		var handled bool
		if m.popup, handled = m.popup.Update(msg); handled {
			return m, nil
		}
	}

	if *m.filterChange {
		*m.filterChange = false
		if m.picking {
			m.refreshPicker()
		}
		cmds = append(cmds, m.reload())
	}
	return m, tea.Batch(cmds...)
}

func (m ListModel) updateGenreInput(msg tea.KeyMsg) (ListModel, []tea.Cmd) {
	switch msg.String() {
	case "enter":
		input := m.genreInput.Value()
		m.editing = false
		m.genreInput.Blur()
		m.genreInput.SetValue("")
		m.deps.Filter.ApplyFilters(input)
		return m, nil
	case "esc":
		m.editing = false
		m.genreInput.Blur()
		m.genreInput.SetValue("")
		return m, nil
	}
	var cmd tea.Cmd
	m.genreInput, cmd = m.genreInput.Update(msg)
	return m, []tea.Cmd{cmd}
}

func (m ListModel) updatePicker(msg tea.KeyMsg) (ListModel, []tea.Cmd) {
	if m.picker.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, []tea.Cmd{cmd}
	}
	switch msg.String() {
	case "esc", "g":
		m.picking = false
		return m, nil
	case "enter", " ":
		if item, ok := m.picker.SelectedItem().(genreItem); ok {
			m.deps.Filter.ToggleGenre(item.name)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, []tea.Cmd{cmd}
}

func (m ListModel) updateKeys(msg tea.KeyMsg) (ListModel, []tea.Cmd) {
	ctl := m.deps.Filter
	state := ctl.State()

	switch key := msg.String(); key {
	case "left", "h":
		ctl.SetStatus(cycle(sections, state.Status, -1))
	case "right", "l":
		ctl.SetStatus(cycle(sections, state.Status, 1))
	case "t":
		ctl.SetType(cycle(filter.Types, state.Type, 1))
	case "T":
		ctl.SetType(cycle(filter.Types, state.Type, -1))
	case "s":
		ctl.SetSort(cycle(filter.SortKeys, state.SortKey, 1))
	case "S":
		ctl.SetSort(cycle(filter.SortKeys, state.SortKey, -1))
	case "r":
		ctl.Reset()
	case "]":
		ctl.NextPage()
	case "[":
		ctl.PrevPage()
	case "ctrl+r", "f5":
		return m, []tea.Cmd{m.reload()}
	case "/":
		m.editing = true
		return m, []tea.Cmd{m.genreInput.Focus()}
	case "g":
		m.picking = true
		m.refreshPicker()
	case "a":
		if row, ok := m.selectedRow(); ok && row.HasAltTitles() {
			m.popup.Open(row.AltTitles)
		}
	case "enter":
		m.showDetail = !m.showDetail
		m.resize(m.width, m.height)
	case "o", "1", "2", "3", "4", "5":
		row, ok := m.selectedRow()
		if !ok || len(row.Links) == 0 {
			return m, nil
		}
		idx := 0
		if key != "o" {
			idx, _ = strconv.Atoi(key)
			idx--
		}
		if idx >= len(row.Links) {
			return m, nil
		}
		return m, []tea.Cmd{openLinkCmd(row.Links[idx].URL)}
	default:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, []tea.Cmd{cmd}
	}
	return m, nil
}

// ---------------- View ----------------
func (m ListModel) View() string {
	if m.popup.IsOpen() {
		return m.popup.View(m.width, m.height-3)
	}
	texts := lang.Active().List
	state := m.deps.Filter.State()

	header := strings.Join([]string{
		BadgeStyle.Bold(true).Render(lang.SectionName(state.Status)),
		texts.TypeLabel + ": " + lang.TypeName(state.Type),
		texts.SortLabel + ": " + lang.SortName(state.SortKey),
		lang.PageLabel(state.Page),
	}, "  │  ")
	parts := []string{StatusStyle.Width(m.width).Render(header)}
	parts = append(parts, StatusMutedStyle.UnsetPaddingTop().Width(m.width).Render(genreSummary(state)))

	containerWidth := ListMaxWidth
	if m.width < containerWidth {
		containerWidth = m.width - 8
	}

	switch {
	case m.editing:
		parts = append(parts, gloss.Place(m.width, 3, gloss.Center, gloss.Center,
			PromptBoxStyle.Render(m.genreInput.View())))
	case m.picking:
		block := ListStyle.Render(m.picker.View())
		parts = append(parts, List.Width(m.width).Render(block))
		parts = append(parts, HelpStyle.Render(texts.PickerHelpKeys))
		return strings.Join(parts, "\n")
	}

	if m.loading {
		parts = append(parts, StatusStyle.Width(m.width).Render(m.spinner.View()+" "+texts.Loading))
	}

	block := ListStyle.Width(containerWidth).Render(m.list.View())
	parts = append(parts, List.Width(m.width).Render(block))

	if m.showDetail {
		if row, ok := m.selectedRow(); ok {
			detail := FormStyle.Width(containerWidth).Render(m.detailView(row, containerWidth-8))
			parts = append(parts, List.Width(m.width).Render(detail))
		}
	}
	if m.status != "" {
		style := StatusStyle
		if m.statusIsErr {
			style = ErrorStyle
		}
		parts = append(parts, style.Render(m.status))
	}
	help := texts.HelpKeys
	if m.editing {
		help = texts.FilterHelpKeys
	}
	parts = append(parts, HelpStyle.Render(help))
	return strings.Join(parts, "\n")
}

func genreSummary(state filter.State) string {
	texts := lang.Active().List
	none := "-"
	included, excluded := none, none
	if len(state.Included) > 0 {
		included = IncludedGenreStyle.Render(strings.Join(state.Included, ", "))
	}
	if len(state.Excluded) > 0 {
		excluded = ExcludedGenreStyle.Render(strings.Join(state.Excluded, ", "))
	}
	return texts.IncludedLabel + ": " + included + "   " + texts.ExcludedLabel + ": " + excluded
}

// detailView shows everything the table row holds, with markdown rendered
// for the terminal.
func (m ListModel) detailView(row render.Row, width int) string {
	if width < 20 {
		width = 20
	}
	fieldLabel := lang.AddFieldLabel
	lines := []string{SelectedTitleStyle.UnsetBorderLeft().UnsetPaddingLeft().Render(row.Title)}
	if row.HasAltTitles() {
		lines = append(lines, wordwrap.String(strings.Join(row.AltTitles, " / "), width))
	}
	lines = append(lines, RatingStyle.Render("★ "+row.Rating)+"   "+fieldLabel("thumbnail")+": "+row.Thumbnail)
	for i, link := range row.Links {
		lines = append(lines, fmt.Sprintf("[%d] %s  %s", i+1, BadgeStyle.Render(link.Title), link.URL))
	}
	if text := m.renderText(row.Description, row.Markdown, width); text != "" {
		lines = append(lines, "", text)
	}
	if text := m.renderText(row.VolCh, row.Markdown, width); text != "" {
		lines = append(lines, "", fieldLabel("vol_ch")+": "+text)
	}
	return strings.Join(lines, "\n")
}

func (m ListModel) renderText(text string, markdown bool, width int) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if markdown && m.deps.Term != nil {
		return m.deps.Term.Render(text, width)
	}
	return wordwrap.String(text, width)
}

// ---------------- SeriesDelegate ----------------
type SeriesDelegate struct {
	list.DefaultDelegate
	filter *filter.Controller
}

func (d *SeriesDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(seriesItem)
	if !ok {
		return
	}
	row := it.row
	width := m.Width() - 10
	if width < 10 {
		width = 10
	}

	if row.IsPlaceholder() {
		style := PlaceholderRowStyle
		if row.IsError {
			style = ErrorRowStyle
		}
		fmt.Fprint(w, style.Render(runewidth.Truncate(row.Message, width, "…")))
		return
	}

	title := runewidth.Truncate(row.Title, width-12, "…") + "  " + RatingStyle.Render("★ "+row.Rating)
	if row.HasAltTitles() {
		title += " " + BadgeStyle.Render(fmt.Sprintf("+%d", len(row.AltTitles)))
	}
	genres := d.genreLine(row.Genres, width)
	desc := runewidth.Truncate(firstLine(row.Description), width, "…")

	if index == m.Index() {
		title = SelectedTitleStyle.Render(title)
		genres = SelectedDescStyle.Render(genres)
		desc = SelectedDescStyle.Render(desc)
	} else {
		title = NormalTitleStyle.Render(title)
		genres = NormalDescStyle.Render(genres)
		desc = NormalDescStyle.Render(desc)
	}
	fmt.Fprintf(w, "%s\n%s\n%s", title, genres, desc)
}

// genreLine colors filtered genres and stops before the line overflows.
func (d *SeriesDelegate) genreLine(genres []string, width int) string {
	var state filter.State
	if d.filter != nil {
		state = d.filter.State()
	}
	var out []string
	used := 0
	for _, g := range genres {
		w := runewidth.StringWidth(g) + 2
		if used+w > width {
			out = append(out, "…")
			break
		}
		used += w
		switch state.Membership(g) {
		case filter.Included:
			out = append(out, IncludedGenreStyle.Render(g))
		case filter.Excluded:
			out = append(out, ExcludedGenreStyle.Render(g))
		default:
			out = append(out, g)
		}
	}
	return strings.Join(out, ", ")
}

func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

func (d *SeriesDelegate) Height() int  { return 3 }
func (d *SeriesDelegate) Spacing() int { return 1 }
func (d *SeriesDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

// ---------------- GenreDelegate ----------------
type GenreDelegate struct{ list.DefaultDelegate }

func (d *GenreDelegate) Height() int  { return 1 }
func (d *GenreDelegate) Spacing() int { return 0 }
func (d *GenreDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

func (d *GenreDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	g, ok := item.(genreItem)
	if !ok {
		return
	}
	text := g.Title()
	switch g.membership {
	case filter.Included:
		text = IncludedGenreStyle.Render(text)
	case filter.Excluded:
		text = ExcludedGenreStyle.Render(text)
	}
	if index == m.Index() {
		fmt.Fprint(w, SelectedTitleStyle.Render(text))
		return
	}
	fmt.Fprint(w, NormalTitleStyle.Render(text))
}

// ---------------- List styling ----------------
func filterStyle(l *list.Model) {
	l.FilterInput.PromptStyle = PromptStyle
	l.FilterInput.TextStyle = PromptTextStyle
	l.FilterInput.Cursor.Style = PromptCursorStyle
}

func listSettings(l *list.Model) {
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowTitle(false)
	l.DisableQuitKeybindings()
}
