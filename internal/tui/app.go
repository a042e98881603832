package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/grintel/grconsole/internal/admin"
	"github.com/grintel/grconsole/internal/search"
	"github.com/grintel/grconsole/internal/tableview"
)

const (
	defaultWidth  = 100
	defaultHeight = 24
)

type modalState string

const (
	modalNone          modalState = ""
	modalDetail        modalState = "detail"
	modalConfirmDelete modalState = "confirmDelete"
	modalSearch        modalState = "search"
)

// App is the terminal workspace: one table view per admin screen.
type App struct {
	ctx     context.Context
	ws      *admin.Workspace
	log     *zap.Logger
	keys    keyMap
	screens []admin.Screen
	views   []*tableview.View
	data    [][]tableview.Row
	queries []search.Query
	loaded  []bool
	// loading counts screens with a load in flight; the spinner ticks
	// only while it is positive.
	loading  int
	spinner  spinner.Model
	spinning bool

	active int
	cursor int
	modal  modalState
	// detail is the row shown by the detail modal or targeted by a delete.
	detail    tableview.Row
	input     textinput.Model
	status    string
	statusErr bool
	width     int
	height    int
}

// New builds the workspace model. Rows are loaded by Init.
func New(ctx context.Context, ws *admin.Workspace) (*App, error) {
	a := &App{
		ctx:     ctx,
		ws:      ws,
		log:     ws.Log,
		keys:    defaultKeys(),
		screens: admin.Screens(ws),
		width:   defaultWidth,
		height:  defaultHeight,
	}
	n := len(a.screens)
	a.views = make([]*tableview.View, n)
	a.data = make([][]tableview.Row, n)
	a.queries = make([]search.Query, n)
	a.loaded = make([]bool, n)
	for i, s := range a.screens {
		v, err := ws.NewView(s, nil, a.showDetail)
		if err != nil {
			return nil, fmt.Errorf("screen %s: %w", s.ID, err)
		}
		a.views[i] = v
	}

	a.spinner = spinner.New()
	a.spinner.Spinner = spinner.Dot
	a.spinner.Style = lipgloss.NewStyle().Foreground(colorAccent)

	a.input = textinput.New()
	a.input.Prompt = "/ "
	a.input.Placeholder = "текст или поле:значение"
	a.input.CharLimit = 200
	return a, nil
}

func (a *App) Init() tea.Cmd {
	return a.load(a.active)
}

func (a *App) load(i int) tea.Cmd {
	s := a.screens[i]
	a.loading++
	fetch := func() tea.Msg {
		rows, err := a.ws.Load(a.ctx, s)
		if err != nil {
			return loadFailedMsg{err}
		}
		return rowsMsg{screen: i, rows: rows}
	}
	if a.spinning {
		return fetch
	}
	a.spinning = true
	return tea.Batch(fetch, a.spinner.Tick)
}

func (a *App) loadDone() {
	if a.loading > 0 {
		a.loading--
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
	case tea.KeyMsg:
		switch a.modal {
		case modalSearch:
			return a.handleSearchKey(m)
		case modalConfirmDelete:
			return a.handleConfirmKey(m)
		case modalDetail:
			return a.handleDetailKey(m)
		}
		return a.handleKey(m)
	case spinner.TickMsg:
		if a.loading == 0 {
			a.spinning = false
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(m)
		return a, cmd
	case rowsMsg:
		a.loadDone()
		a.data[m.screen] = m.rows
		a.loaded[m.screen] = true
		a.apply(m.screen)
	case deletedMsg:
		a.setStatus("удалено: " + m.label)
		ids := append([]string{a.screens[m.screen].ID, "audit"}, a.screens[m.screen].Dependents...)
		return a, a.reload(ids...)
	case statusChangedMsg:
		a.setStatus(m.label + ": " + m.status)
		return a, a.reload(a.screens[m.screen].ID, "audit")
	case openedMsg:
		return a, a.reload("audit")
	case loadFailedMsg:
		a.loadDone()
		a.setError(m.error)
	case errMsg:
		a.setError(m.error)
	}
	return a, nil
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := a.views[a.active]
	switch {
	case key.Matches(m, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(m, a.keys.NextTab):
		return a, a.switchTo((a.active + 1) % len(a.screens))
	case key.Matches(m, a.keys.PrevTab):
		return a, a.switchTo((a.active - 1 + len(a.screens)) % len(a.screens))
	case key.Matches(m, a.keys.Sort):
		n := int(m.Runes[0] - '1')
		cols := v.Columns()
		if n >= len(cols) {
			return a, nil
		}
		if !cols[n].Sortable {
			a.setStatus("колонка «" + cols[n].Title + "» не сортируется")
			return a, nil
		}
		if err := v.ToggleSort(cols[n].Key); err != nil {
			return a, func() tea.Msg { return errMsg{err} }
		}
		a.cursor = 0
		a.setStatus(sortStatus(cols[n].Title, v.SortState()))
	case key.Matches(m, a.keys.NextPage):
		a.turnPage(v.NextPage())
	case key.Matches(m, a.keys.PrevPage):
		a.turnPage(v.PrevPage())
	case key.Matches(m, a.keys.FirstPage):
		a.turnPage(v.SetPage(1))
	case key.Matches(m, a.keys.LastPage):
		a.turnPage(v.SetPage(v.TotalPages()))
	case key.Matches(m, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
	case key.Matches(m, a.keys.Down):
		if a.cursor < len(v.Visible().Rows)-1 {
			a.cursor++
		}
	case key.Matches(m, a.keys.Open):
		if _, ok := v.Click(a.cursor); ok {
			return a, a.openCmd(a.screens[a.active], a.detail)
		}
	case key.Matches(m, a.keys.Delete):
		s := a.screens[a.active]
		if !s.CanDelete() {
			a.setStatus("«" + s.Title + "» только для чтения")
			return a, nil
		}
		page := v.Visible()
		if a.cursor >= len(page.Rows) {
			return a, nil
		}
		a.detail = page.Rows[a.cursor]
		a.modal = modalConfirmDelete
	case key.Matches(m, a.keys.Status):
		s := a.screens[a.active]
		if !s.CanAdvance() {
			a.setStatus("у «" + s.Title + "» нет статусов")
			return a, nil
		}
		page := v.Visible()
		if a.cursor >= len(page.Rows) {
			return a, nil
		}
		return a, a.statusCmd(a.active, page.Rows[a.cursor])
	case key.Matches(m, a.keys.Search):
		a.modal = modalSearch
		a.input.SetValue(a.queries[a.active].String())
		a.input.CursorEnd()
		return a, a.input.Focus()
	case key.Matches(m, a.keys.Reload):
		a.setStatus("обновление…")
		return a, a.load(a.active)
	}
	return a, nil
}

func (a *App) handleSearchKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyEsc:
		a.queries[a.active] = search.Query{}
		a.input.SetValue("")
		a.closeSearch()
		a.setStatus("поиск сброшен")
		return a, nil
	case tea.KeyEnter:
		q := search.Parse(a.input.Value())
		a.queries[a.active] = q
		a.closeSearch()
		if q.Empty() {
			a.setStatus("поиск сброшен")
		} else {
			a.setStatus(fmt.Sprintf("поиск «%s»: %d", q.String(), a.views[a.active].Len()))
		}
		a.log.Debug("search applied", zap.String("screen", a.screens[a.active].ID), zap.String("query", q.String()))
		return a, nil
	case tea.KeyCtrlC:
		return a, tea.Quit
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(m)
	return a, cmd
}

func (a *App) closeSearch() {
	a.input.Blur()
	a.modal = modalNone
	a.apply(a.active)
}

func (a *App) handleConfirmKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "y", "Y":
		a.modal = modalNone
		return a, a.deleteCmd(a.active, a.detail)
	case "n", "N", "esc":
		a.modal = modalNone
		a.detail = nil
	case "ctrl+c":
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) handleDetailKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "esc", "enter", "q":
		a.modal = modalNone
		a.detail = nil
	case "ctrl+c":
		return a, tea.Quit
	}
	return a, nil
}

// showDetail is the row click handler of every view.
func (a *App) showDetail(row tableview.Row) {
	a.detail = row
	a.modal = modalDetail
}

func (a *App) switchTo(i int) tea.Cmd {
	a.active = i
	a.cursor = 0
	a.status, a.statusErr = "", false
	if !a.loaded[i] {
		return a.load(i)
	}
	return nil
}

func (a *App) turnPage(changed bool) {
	if changed {
		a.cursor = 0
	}
}

// apply runs the screen's query over its loaded rows and hands the result
// to the view.
func (a *App) apply(i int) {
	rows := a.data[i]
	if q := a.queries[i]; !q.Empty() {
		rows = search.Apply(rows, q, a.screens[i].Search)
	}
	a.views[i].SetData(rows)
	if i == a.active {
		if n := len(a.views[i].Visible().Rows); a.cursor >= n {
			a.cursor = max(0, n-1)
		}
	}
}

// reload refetches the listed screens that are already loaded. Screens not
// loaded yet fetch fresh rows when first shown.
func (a *App) reload(ids ...string) tea.Cmd {
	var cmds []tea.Cmd
	for i, s := range a.screens {
		if a.loaded[i] && slices.Contains(ids, s.ID) {
			cmds = append(cmds, a.load(i))
		}
	}
	return tea.Batch(cmds...)
}

func (a *App) openCmd(s admin.Screen, row tableview.Row) tea.Cmd {
	return func() tea.Msg {
		if err := a.ws.Open(a.ctx, s, row); err != nil {
			return errMsg{err}
		}
		return openedMsg{}
	}
}

func (a *App) deleteCmd(i int, row tableview.Row) tea.Cmd {
	s := a.screens[i]
	return func() tea.Msg {
		if err := a.ws.Delete(a.ctx, s, row); err != nil {
			return errMsg{err}
		}
		return deletedMsg{screen: i, label: admin.Label(s, row)}
	}
}

func (a *App) statusCmd(i int, row tableview.Row) tea.Cmd {
	s := a.screens[i]
	return func() tea.Msg {
		to, err := a.ws.AdvanceStatus(a.ctx, s, row)
		if err != nil {
			return errMsg{err}
		}
		return statusChangedMsg{screen: i, label: admin.Label(s, row), status: to}
	}
}

func (a *App) setError(err error) {
	a.status = "ошибка: " + err.Error()
	a.statusErr = true
}

func (a *App) setStatus(s string) {
	a.status = s
	a.statusErr = false
}

func sortStatus(title string, s tableview.SortState) string {
	switch s.Direction {
	case tableview.SortAscending:
		return "сортировка: " + title + " ▲"
	case tableview.SortDescending:
		return "сортировка: " + title + " ▼"
	default:
		return "сортировка снята"
	}
}

// messages
type rowsMsg struct {
	screen int
	rows   []tableview.Row
}

type deletedMsg struct {
	screen int
	label  string
}

type statusChangedMsg struct {
	screen int
	label  string
	status string
}

type openedMsg struct{}

type errMsg struct{ error }

type loadFailedMsg struct{ error }

func (a *App) View() string {
	w := max(20, a.width)
	lines := []string{a.renderTabs(w)}

	bodyHeight := a.height - 3
	if a.modal == modalSearch {
		bodyHeight--
	}
	s := a.screens[a.active]
	title := s.Title
	if q := a.queries[a.active]; !q.Empty() {
		title += " · " + q.String()
	}
	var content string
	if a.loaded[a.active] {
		content = a.views[a.active].Render(tableview.RenderOptions{
			Width:         w - 4,
			Cursor:        a.cursor,
			NumberHeaders: true,
		})
	} else {
		content = labelStyle.Render("загрузка…")
	}
	lines = append(lines, pane{Title: title, Content: content, Focused: a.modal == modalNone}.render(w, bodyHeight))

	if a.modal == modalSearch {
		lines = append(lines, a.input.View())
	}
	lines = append(lines, a.renderStatus(w), renderHelp(a.keys.help(), w))
	out := strings.Join(lines, "\n")

	switch a.modal {
	case modalDetail:
		out += "\n\n" + a.renderDetail(w)
	case modalConfirmDelete:
		out += "\n\n" + a.renderConfirm(w)
	}
	return out
}

func (a *App) renderTabs(width int) string {
	parts := make([]string, len(a.screens))
	for i, s := range a.screens {
		label := s.Title
		if a.loaded[i] {
			label = fmt.Sprintf("%s (%d)", s.Title, len(a.data[i]))
		}
		if i == a.active {
			parts[i] = activeTabStyle.Render(label)
		} else {
			parts[i] = tabStyle.Render(label)
		}
	}
	return renderBar(lipgloss.JoinHorizontal(lipgloss.Top, parts...), width, lipgloss.NewStyle())
}

func (a *App) renderStatus(width int) string {
	msg := strings.TrimSpace(a.status)
	if msg == "" {
		msg = "готово"
	}
	if a.loading > 0 {
		msg = a.spinner.View() + " " + msg
	}
	if a.statusErr {
		return renderBar(msg, width, statusErrStyle)
	}
	return renderBar(msg, width, statusStyle)
}

func (a *App) renderDetail(width int) string {
	s := a.screens[a.active]
	var b strings.Builder
	for _, c := range s.Columns {
		b.WriteString(labelStyle.Render(c.Title+": ") + c.Cell(a.detail).Styled() + "\n")
	}
	if id, ok := a.detail["id"].(string); ok {
		b.WriteString(labelStyle.Render("id: ") + id + "\n")
	}
	b.WriteString(helpKeyStyle.Render("esc") + " " + helpDescStyle.Render("закрыть"))
	content := b.String()
	return pane{Title: admin.Label(s, a.detail), Content: content, Focused: true}.render(min(width, 72), len(splitLines(content))+2)
}

func (a *App) renderConfirm(width int) string {
	s := a.screens[a.active]
	content := fmt.Sprintf("Удалить «%s»?\n%s %s  %s %s",
		admin.Label(s, a.detail),
		helpKeyStyle.Render("y"), helpDescStyle.Render("да"),
		helpKeyStyle.Render("n"), helpDescStyle.Render("нет"))
	return pane{Title: "Удаление", Content: content, Focused: true}.render(min(width, 60), 4)
}
