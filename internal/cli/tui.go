package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/constructbms/gantt/internal/cli/formatter"
	"github.com/constructbms/gantt/internal/config"
	"github.com/constructbms/gantt/internal/domain"
	"github.com/constructbms/gantt/internal/drag"
	"github.com/constructbms/gantt/internal/render"
	"github.com/constructbms/gantt/internal/service"
	"github.com/constructbms/gantt/internal/table"
	"github.com/constructbms/gantt/internal/timescale"
	"github.com/spf13/cobra"
)

const (
	tuiLabelWidth = 28
	// tuiBodyTop is the screen row of the first task: title, then the
	// chart axis or table header.
	tuiBodyTop = 2
	// edgeTolerance is how many cells from a bar end still grab the edge.
	edgeTolerance = 1.0
)

type tuiMode int

const (
	modeChart tuiMode = iota
	modeTable
)

// tableColumns are the columns the interactive table shows and edits.
var tableColumns = []table.Column{
	table.ColWBS, table.ColName, table.ColStart, table.ColEnd, table.ColProgress,
	table.ColAssignedTo, table.ColStatus, table.ColFloat, table.ColCritical,
}

type ganttKeyMap struct {
	Up, Down, Left, Right key.Binding
	Toggle                key.Binding
	Switch                key.Binding
	ZoomIn, ZoomOut       key.Binding
	Links, Float, Grid    key.Binding
	Critical, CritOnly    key.Binding
	Edit, Sort, Group     key.Binding
	Renumber              key.Binding
	Quit                  key.Binding
}

func defaultGanttKeys() ganttKeyMap {
	return ganttKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "column")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "column")),
		Toggle:   key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "expand/collapse")),
		Switch:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "chart/table")),
		ZoomIn:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
		Links:    key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "links")),
		Float:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "float")),
		Grid:     key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "gridlines")),
		Critical: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "critical path")),
		CritOnly: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "critical only")),
		Edit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit cell")),
		Sort:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		Group:    key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "group by WBS")),
		Renumber: key.NewBinding(key.WithKeys("W"), key.WithHelp("W", "renumber WBS")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// persistErrMsg carries a failed background save into the update loop.
type persistErrMsg struct {
	taskID string
	err    error
}

// ganttModel is the interactive chart and table over one session. Pointer
// events on the chart go through the session's drag controller; table
// edits go through the table view. Neither writes the model directly.
type ganttModel struct {
	session *service.Session
	title   string
	keys    ganttKeyMap
	input   textinput.Model

	mode   tuiMode
	cursor int
	col    int
	width  int
	height int

	status      string
	persistErrs chan persistErrMsg
	quitting    bool
}

// newGanttModel builds the model and the session callbacks that feed it.
// The callbacks must be passed to the session before the model is used.
func newGanttModel(title string) (*ganttModel, service.Callbacks) {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.CharLimit = 200

	m := &ganttModel{
		title:       title,
		keys:        defaultGanttKeys(),
		input:       ti,
		persistErrs: make(chan persistErrMsg, 16),
	}
	cb := service.Callbacks{
		OnTaskUpdate: func(taskID string, patch domain.TaskPatch) {
			m.status = fmt.Sprintf("updated %s", m.taskName(taskID))
		},
		OnPersistError: func(taskID string, err error) {
			select {
			case m.persistErrs <- persistErrMsg{taskID: taskID, err: err}:
			default:
			}
		},
	}
	return m, cb
}

func (m *ganttModel) attach(s *service.Session) {
	m.session = s
	if s.IsDemo() {
		m.status = "showing demo schedule: " + s.LoadError().Error()
	}
}

func (m *ganttModel) taskName(id string) string {
	if m.session == nil {
		return id
	}
	if t, ok := m.session.Model().Task(id); ok {
		return t.Name
	}
	return id
}

func (m *ganttModel) waitPersistErr() tea.Cmd {
	ch := m.persistErrs
	return func() tea.Msg {
		return <-ch
	}
}

func (m *ganttModel) Init() tea.Cmd {
	return m.waitPersistErr()
}

func (m *ganttModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.session.SetWidth(float64(max(msg.Width-tuiLabelWidth, 10)))
		m.input.Width = max(msg.Width-4, 10)
		return m, nil

	case persistErrMsg:
		m.status = fmt.Sprintf("save failed for %s: %v", m.taskName(msg.taskID), msg.err)
		return m, m.waitPersistErr()

	case tea.KeyMsg:
		if m.input.Focused() {
			return m.updateEditing(msg)
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	}
	return m, nil
}

func (m *ganttModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.session
	rows := m.rowCount()
	if key.Matches(msg, m.keys.Quit, m.keys.Switch) {
		// The pointer release never reaches a hidden or closed chart.
		s.EndDrag()
	}
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.selectCursor()
	case key.Matches(msg, m.keys.Down):
		if m.cursor < rows-1 {
			m.cursor++
		}
		m.selectCursor()
	case key.Matches(msg, m.keys.Switch):
		if m.mode == modeChart {
			m.mode = modeTable
		} else {
			m.mode = modeChart
		}
		m.cursor = 0
	case key.Matches(msg, m.keys.Toggle):
		if id := m.cursorTaskID(); id != "" {
			m.handleEvent(render.ToggleEvent{TaskID: id})
		}
	case key.Matches(msg, m.keys.ZoomIn):
		s.SetZoom(timescale.FinerZoom(s.Zoom()))
		m.status = "zoom " + config.ZoomName(s.Zoom())
	case key.Matches(msg, m.keys.ZoomOut):
		s.SetZoom(timescale.CoarserZoom(s.Zoom()))
		m.status = "zoom " + config.ZoomName(s.Zoom())
	case key.Matches(msg, m.keys.Links):
		m.setOption(func(o *render.Options) { o.ShowTaskLinks = !o.ShowTaskLinks })
	case key.Matches(msg, m.keys.Float):
		m.setOption(func(o *render.Options) { o.ShowFloat = !o.ShowFloat })
	case key.Matches(msg, m.keys.Grid):
		m.setOption(func(o *render.Options) { o.ShowGridlines = !o.ShowGridlines })
	case key.Matches(msg, m.keys.Critical):
		m.setOption(func(o *render.Options) { o.ShowCriticalPath = !o.ShowCriticalPath })
	case key.Matches(msg, m.keys.CritOnly):
		m.setOption(func(o *render.Options) { o.CriticalOnly = !o.CriticalOnly })
		m.cursor = 0
	case key.Matches(msg, m.keys.Renumber):
		if err := s.RenumberWBS(s.Context()); err != nil {
			m.status = "renumber: " + err.Error()
		} else {
			m.status = "WBS renumbered"
		}
	}

	if m.mode == modeTable {
		return m, m.handleTableKey(msg)
	}
	return m, nil
}

func (m *ganttModel) handleTableKey(msg tea.KeyMsg) tea.Cmd {
	tv := m.session.Table()
	switch {
	case key.Matches(msg, m.keys.Left):
		if m.col > 0 {
			m.col--
		}
	case key.Matches(msg, m.keys.Right):
		if m.col < len(tableColumns)-1 {
			m.col++
		}
	case key.Matches(msg, m.keys.Sort):
		c, dir := tv.SortState()
		next := tableColumns[m.col]
		switch {
		case c != next:
			tv.Sort(next, table.Asc)
		case dir == table.Asc:
			tv.Sort(next, table.Desc)
		default:
			tv.Sort("", table.Asc)
		}
	case key.Matches(msg, m.keys.Group):
		tv.SetGroupByWBS(!tv.GroupByWBS())
		m.cursor = 0
	case key.Matches(msg, m.keys.Edit):
		return m.beginEdit()
	}
	return nil
}

func (m *ganttModel) beginEdit() tea.Cmd {
	id := m.cursorTaskID()
	if id == "" {
		return nil
	}
	if !m.session.CanEdit() {
		m.status = service.ErrReadOnly.Error()
		return nil
	}
	tv := m.session.Table()
	if err := tv.BeginEdit(id, tableColumns[m.col]); err != nil {
		m.status = err.Error()
		return nil
	}
	m.input.SetValue(tv.Editing().Input)
	m.input.CursorEnd()
	m.status = ""
	return m.input.Focus()
}

func (m *ganttModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tv := m.session.Table()
	switch msg.Type {
	case tea.KeyEnter:
		_ = tv.Input(m.input.Value())
		if err := tv.Commit(); err != nil {
			m.status = "rejected: " + err.Error()
		}
		m.input.Blur()
		return m, nil
	case tea.KeyEsc:
		tv.Cancel()
		m.input.Blur()
		m.status = ""
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *ganttModel) handleMouse(msg tea.MouseMsg) {
	if m.mode != modeChart || m.input.Focused() {
		return
	}
	x := float64(msg.X - tuiLabelWidth)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		frame := m.session.Frame()
		row := msg.Y - tuiBodyTop
		bar, ok := frame.Bar(row)
		if !ok {
			return
		}
		m.cursor = row
		if msg.X < tuiLabelWidth {
			glyph := bar.Level * 2
			if bar.HasChildren && msg.X >= glyph && msg.X < glyph+2 {
				m.handleEvent(render.ToggleEvent{TaskID: bar.TaskID})
				return
			}
			m.handleEvent(render.SelectEvent{TaskID: bar.TaskID})
			return
		}
		hit := render.HitTest(frame, row, x, edgeTolerance)
		if hit.Kind == render.HitNone {
			m.handleEvent(render.SelectEvent{TaskID: bar.TaskID})
			return
		}
		m.handleEvent(render.DragStartEvent{TaskID: hit.TaskID, Hit: hit.Kind, X: x})
	case tea.MouseActionMotion:
		if m.session.DragState().Phase == drag.PhaseDragging {
			m.handleEvent(render.DragMoveEvent{X: x})
		}
	case tea.MouseActionRelease:
		if m.session.DragState().Phase == drag.PhaseDragging {
			m.handleEvent(render.DragEndEvent{})
		}
	}
}

func (m *ganttModel) handleEvent(ev render.Event) {
	if err := m.session.Handle(ev); err != nil {
		if errors.Is(err, service.ErrReadOnly) {
			m.status = "read-only: " + err.Error()
			return
		}
		m.status = err.Error()
	}
}

func (m *ganttModel) setOption(fn func(o *render.Options)) {
	o := m.session.Options()
	fn(&o)
	m.session.SetOptions(o)
}

// selectCursor reports the task under the keyboard cursor as selected.
func (m *ganttModel) selectCursor() {
	if id := m.cursorTaskID(); id != "" {
		m.session.Select(id)
	}
}

func (m *ganttModel) rowCount() int {
	if m.mode == modeTable {
		return len(m.session.Table().Rows())
	}
	return len(m.session.Frame().Bars)
}

// cursorTaskID is the task on the cursor row, or "" on a group header.
func (m *ganttModel) cursorTaskID() string {
	if m.mode == modeTable {
		rows := m.session.Table().Rows()
		if m.cursor < 0 || m.cursor >= len(rows) || rows[m.cursor].Kind != table.RowTask {
			return ""
		}
		return rows[m.cursor].Task.ID
	}
	bar, ok := m.session.Frame().Bar(m.cursor)
	if !ok {
		return ""
	}
	return bar.TaskID
}

func (m *ganttModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	s := m.session
	start, end := s.Window()
	b.WriteString(fmt.Sprintf("%s  %s  %s\n",
		formatter.Bold(m.title),
		formatter.Dim(formatter.DateRange(start, end)),
		formatter.Dim("zoom "+config.ZoomName(s.Zoom()))))

	if m.mode == modeChart {
		b.WriteString(render.Paint(s.Frame(), render.PaintOptions{
			LabelWidth: tuiLabelWidth,
			Selected:   s.Selected(),
			Theme:      render.DefaultTheme(),
		}))
	} else {
		b.WriteString(m.tableView())
	}

	if m.input.Focused() {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(formatter.Dim(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.hints())
	return b.String()
}

// tableView renders the table with the cursor row and column marked. The
// header is a single line so rows start at tuiBodyTop.
func (m *ganttModel) tableView() string {
	tv := m.session.Table()
	rows := tv.Rows()
	edit := tv.Editing()

	var b strings.Builder
	headers := make([]string, len(tableColumns))
	for i, c := range tableColumns {
		h := c.Title()
		if sc, dir := tv.SortState(); sc == c {
			if dir == table.Asc {
				h += "↑"
			} else {
				h += "↓"
			}
		}
		if i == m.col {
			h = "[" + h + "]"
		}
		headers[i] = formatter.Truncate(h, 14)
	}
	b.WriteString("  " + formatter.StyleHeader.Render(strings.Join(headers, " | ")))
	b.WriteString("\n")

	for i, r := range rows {
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		if r.Kind == table.RowGroup {
			g := r.Group
			b.WriteString(marker + formatter.Bold(fmt.Sprintf("%s (%d tasks, %s, avg %.0f%%)",
				g.Key, g.Count, formatter.FormatDays(g.TotalDays), g.AvgProgress)))
			b.WriteString("\n")
			continue
		}
		cells := make([]string, len(tableColumns))
		for j, c := range tableColumns {
			text := table.Format(c, r.Task)
			if c == table.ColName {
				text = strings.Repeat("  ", r.Level) + text
			}
			if edit.TaskID == r.Task.ID && edit.Column == c && edit.State == table.CellError {
				text += " ✗"
			}
			cells[j] = formatter.Truncate(text, 14)
		}
		b.WriteString(marker + strings.Join(cells, " | "))
		b.WriteString("\n")
	}
	if edit.State == table.CellError && edit.Err != nil {
		b.WriteString(formatter.StyleRed.Render("  " + edit.Err.Error()))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *ganttModel) hints() string {
	bindings := []key.Binding{m.keys.Switch, m.keys.Toggle, m.keys.ZoomIn, m.keys.ZoomOut, m.keys.Critical, m.keys.Quit}
	if m.mode == modeTable {
		bindings = []key.Binding{m.keys.Switch, m.keys.Edit, m.keys.Sort, m.keys.Group, m.keys.Renumber, m.keys.Quit}
	}
	var hints []string
	for _, k := range bindings {
		hints = append(hints, formatter.Dim(k.Help().Key+": "+k.Help().Desc))
	}
	return strings.Join(hints, "  ")
}

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui PROJECT",
		Short: "Open the interactive Gantt chart",
		Long: `Open the interactive Gantt chart.

Drag a bar with the mouse to move it, or grab either end to resize. Tab
switches to the task table, where enter edits the selected cell.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			m, cb := newGanttModel(p.Name)
			s := app.openSession(ctx, cmd, p.ID, chartWidth(app.Config.Width), cb)
			m.attach(s)

			run := app.RunProgram
			if run == nil {
				run = func(m tea.Model) error {
					_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
					return err
				}
			}
			err = run(m)
			s.EndDrag()
			s.Wait()
			return err
		},
	}
}
