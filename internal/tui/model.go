package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"tasktrack/internal/backend/httpapi"
	"tasktrack/internal/board"
	"tasktrack/internal/config"
	"tasktrack/internal/logging"
	"tasktrack/internal/output"
	"tasktrack/internal/service"
)

// noticeTTL is how long a notification stays on screen.
const noticeTTL = 3 * time.Second

type mode int

const (
	modeList mode = iota
	modeSearch
	modeForm
	modeConfirmDelete
	modeHelp
)

type (
	tasksLoadedMsg struct {
		tasks []service.Task
		err   error
	}
	statsLoadedMsg struct {
		stats service.Stats
		err   error
	}
	healthMsg struct {
		connected bool
	}
	actionDoneMsg struct {
		notice   output.Notification
		ok       bool
		fromForm bool
	}
	clearNoticeMsg struct {
		seq int
	}
	statsTickMsg struct{}
)

// Options configures the board model.
type Options struct {
	StatsInterval time.Duration
	Status        board.Status
	Logger        *log.Logger
}

// Model is the board's bubbletea model. The task snapshot lives in a
// board.State and is only written from Update.
type Model struct {
	ctx           context.Context
	svc           service.Service
	logger        *log.Logger
	statsInterval time.Duration

	state  *board.State
	view   []service.Task
	cursor int
	mode   mode

	search        textinput.Model
	form          taskForm
	pendingDelete int64
	busy          bool

	stats       service.Stats
	haveStats   bool
	connected   bool
	healthKnown bool
	loading     bool

	notice    *output.Notification
	noticeSeq int

	width  int
	height int
}

// New creates the board model.
func New(ctx context.Context, svc service.Service, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.StatsInterval <= 0 {
		opts.StatsInterval = config.DefaultStatsInterval
	}

	state := board.NewState()
	if opts.Status != "" {
		state.SetStatus(opts.Status)
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "Search tasks..."
	search.CharLimit = 100
	search.Width = 40

	return Model{
		ctx:           ctx,
		svc:           svc,
		logger:        opts.Logger,
		statsInterval: opts.StatsInterval,
		state:         state,
		search:        search,
		form:          newTaskForm(),
		loading:       true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.checkHealth(), m.loadTasks(), m.statsTick())
}

func (m Model) loadTasks() tea.Cmd {
	return func() tea.Msg {
		tasks, err := m.svc.ListTasks(m.ctx)
		return tasksLoadedMsg{tasks: tasks, err: err}
	}
}

func (m Model) loadStats() tea.Cmd {
	return func() tea.Msg {
		stats, err := m.svc.Stats(m.ctx)
		return statsLoadedMsg{stats: stats, err: err}
	}
}

func (m Model) checkHealth() tea.Cmd {
	return func() tea.Msg {
		ok, err := m.svc.Health(m.ctx)
		if err != nil {
			m.logger.Warn("health check failed", "err", err)
		}
		return healthMsg{connected: err == nil && ok}
	}
}

func (m Model) statsTick() tea.Cmd {
	return tea.Tick(m.statsInterval, func(time.Time) tea.Msg { return statsTickMsg{} })
}

func (m Model) toggle(id int64) tea.Cmd {
	return func() tea.Msg {
		task, err := m.svc.ToggleTask(m.ctx, id)
		if err != nil {
			m.logger.Error("toggle failed", "id", id, "err", err)
			return actionDoneMsg{notice: output.Failure(failureText(output.MsgUpdateFailed, err))}
		}
		return actionDoneMsg{notice: output.Success(output.MsgTaskToggled(task.Completed)), ok: true}
	}
}

func (m Model) remove(id int64) tea.Cmd {
	return func() tea.Msg {
		if err := m.svc.DeleteTask(m.ctx, id); err != nil {
			m.logger.Error("delete failed", "id", id, "err", err)
			return actionDoneMsg{notice: output.Failure(failureText(output.MsgDeleteFailed, err))}
		}
		return actionDoneMsg{notice: output.Success(output.MsgTaskDeleted), ok: true}
	}
}

func (m Model) create(in service.TaskInput) tea.Cmd {
	return func() tea.Msg {
		task, err := m.svc.CreateTask(m.ctx, in)
		if err != nil {
			m.logger.Error("create failed", "title", in.Title, "err", err)
			return actionDoneMsg{notice: output.Failure(failureText(output.MsgAddFailed, err)), fromForm: true}
		}
		return actionDoneMsg{notice: output.Success(output.MsgTaskAdded(task.Title)), ok: true, fromForm: true}
	}
}

func (m Model) update(id int64, upd service.TaskUpdate) tea.Cmd {
	return func() tea.Msg {
		task, err := m.svc.UpdateTask(m.ctx, id, upd)
		if err != nil {
			m.logger.Error("update failed", "id", id, "err", err)
			return actionDoneMsg{notice: output.Failure(failureText(output.MsgUpdateFailed, err)), fromForm: true}
		}
		return actionDoneMsg{notice: output.Success(output.MsgTaskUpdated(task.Title)), ok: true, fromForm: true}
	}
}

// failureText appends the server's reason, if any, to a failure message.
func failureText(base string, err error) string {
	if reason := httpapi.Reason(err); reason != "" {
		return base + ": " + reason
	}
	return base
}

// notify shows n and schedules its removal. Only the latest notice is cleared.
func (m *Model) notify(n output.Notification) tea.Cmd {
	m.noticeSeq++
	m.notice = &n
	seq := m.noticeSeq
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg { return clearNoticeMsg{seq: seq} })
}

// refresh re-derives the visible list from the snapshot.
func (m *Model) refresh() {
	m.view = m.state.View()
	if m.cursor >= len(m.view) {
		m.cursor = len(m.view) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) move(delta int) {
	m.cursor += delta
	m.refresh()
}

func (m Model) selected() (service.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.view) {
		return service.Task{}, false
	}
	return m.view[m.cursor], true
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tasksLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.logger.Error(output.MsgLoadFailed, "err", msg.err)
			return m, m.notify(output.Failure(output.MsgLoadFailed))
		}
		m.state.Replace(msg.tasks)
		m.refresh()
		m.logger.Debug("loaded tasks", "count", len(msg.tasks), "shown", len(m.view))
		return m, m.loadStats()

	case statsLoadedMsg:
		if msg.err != nil {
			m.logger.Warn("stats refresh failed", "err", msg.err)
			return m, nil
		}
		m.stats = msg.stats
		m.haveStats = true
		return m, nil

	case healthMsg:
		m.connected = msg.connected
		m.healthKnown = true
		return m, nil

	case statsTickMsg:
		return m, tea.Batch(m.loadStats(), m.statsTick())

	case actionDoneMsg:
		m.busy = false
		if msg.fromForm && m.mode == modeForm {
			if msg.ok {
				m.mode = modeList
			} else {
				m.form.err = msg.notice.Text
			}
		}
		cmd := m.notify(msg.notice)
		if msg.ok {
			return m, tea.Batch(cmd, m.loadTasks())
		}
		return m, cmd

	case clearNoticeMsg:
		if msg.seq == m.noticeSeq {
			m.notice = nil
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Cursor blink and similar input messages.
	var cmd tea.Cmd
	switch m.mode {
	case modeSearch:
		m.search, cmd = m.search.Update(msg)
	case modeForm:
		cmd = m.form.update(msg)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case modeSearch:
		return m.handleSearchKey(msg)
	case modeForm:
		return m.handleFormKey(msg)
	case modeConfirmDelete:
		return m.handleConfirmKey(msg)
	case modeHelp:
		m.mode = modeList
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "j", "down":
		m.move(1)
	case "k", "up":
		m.move(-1)
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.move(len(m.view))
	case " ", "space", "enter":
		if t, ok := m.selected(); ok {
			return m, m.toggle(t.ID)
		}
	case "d", "x":
		if t, ok := m.selected(); ok {
			m.pendingDelete = t.ID
			m.mode = modeConfirmDelete
		}
	case "e":
		if t, ok := m.selected(); ok {
			m.mode = modeForm
			return m, m.form.openEdit(t)
		}
	case "a", "n":
		m.mode = modeForm
		return m, m.form.openAdd()
	case "/":
		m.mode = modeSearch
		return m, m.search.Focus()
	case "esc":
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.state.SetSearch("")
			m.refresh()
		}
	case "1":
		m.state.SetStatus(board.StatusAll)
		m.refresh()
	case "2":
		m.state.SetStatus(board.StatusPending)
		m.refresh()
	case "3":
		m.state.SetStatus(board.StatusCompleted)
		m.refresh()
	case "c":
		m.state.CycleCategory()
		m.refresh()
	case "r":
		m.loading = true
		return m, tea.Batch(m.loadTasks(), m.checkHealth())
	case "?":
		m.mode = modeHelp
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.search.Blur()
		m.mode = modeList
		return m, nil
	case "esc":
		m.search.SetValue("")
		m.search.Blur()
		m.state.SetSearch("")
		m.refresh()
		m.mode = modeList
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.state.SetSearch(m.search.Value())
	m.refresh()
	return m, cmd
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		return m, nil
	case "tab", "down":
		return m, m.form.setFocus(m.form.focus + 1)
	case "shift+tab", "up":
		return m, m.form.setFocus(m.form.focus - 1)
	case "enter":
		if m.busy {
			return m, nil
		}
		in, err := m.form.input()
		if err != nil {
			m.form.fail(err)
			return m, nil
		}
		m.form.err = ""
		m.busy = true
		if m.form.editID != 0 {
			return m, m.update(m.form.editID, in.AsUpdate())
		}
		return m, m.create(in)
	}
	return m, m.form.update(msg)
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		id := m.pendingDelete
		m.pendingDelete = 0
		m.mode = modeList
		return m, m.remove(id)
	case "n", "N", "esc", "q":
		m.pendingDelete = 0
		m.mode = modeList
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")
	b.WriteString(m.statsView())
	b.WriteString("\n")
	b.WriteString(m.filterView())
	b.WriteString("\n\n")

	switch m.mode {
	case modeForm:
		b.WriteString(m.form.view())
	case modeHelp:
		b.WriteString(helpView())
	default:
		b.WriteString(m.listView())
	}
	b.WriteString("\n")

	switch m.mode {
	case modeSearch:
		b.WriteString(m.search.View())
		b.WriteString("\n")
	case modeConfirmDelete:
		b.WriteString(promptStyle.Render(output.MsgConfirmDelete + " (y/n)"))
		b.WriteString("\n")
	}
	if m.notice != nil {
		b.WriteString(noticeStyle(m.notice.Level).Render(m.notice.Text))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render("a add · e edit · space toggle · d delete · / search · 1/2/3 status · c category · r reload · ? help · q quit"))
	return b.String()
}

func (m Model) headerView() string {
	health := dimStyle.Render("checking API...")
	if m.healthKnown {
		if m.connected {
			health = onlineStyle.Render("● " + output.MsgConnected)
		} else {
			health = offlineStyle.Render("● " + output.MsgDisconnected)
		}
	}
	return titleStyle.Render("Task Tracker") + "  " + health
}

func (m Model) statsView() string {
	if !m.haveStats {
		return dimStyle.Render("Total -  Pending -  Completed -  Completion -")
	}
	return fmt.Sprintf("Total %d  Pending %d  Completed %d  Completion %d%%",
		m.stats.TotalTasks, m.stats.Pending, m.stats.Completed,
		output.CompletionPercent(m.stats.CompletionRate))
}

func (m Model) filterView() string {
	f := m.state.Filter()
	category := f.Category
	if category == "" {
		category = "all"
	}
	search := f.Search
	if search == "" {
		search = "-"
	}
	return dimStyle.Render(fmt.Sprintf("Status: %s  Category: %s  Search: %s", f.Status, category, search))
}

// visibleRows is how many tasks fit on screen; each task takes two lines.
func (m Model) visibleRows() int {
	if m.height <= 0 {
		return len(m.view)
	}
	rows := (m.height - 10) / 2
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m Model) listView() string {
	if m.loading && m.state.Len() == 0 {
		return dimStyle.Render("Loading tasks...")
	}
	if len(m.view) == 0 {
		return selectedStyle.Render(output.EmptyTitle) + "\n" + dimStyle.Render(output.EmptyHint)
	}

	rows := m.visibleRows()
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	end := min(start+rows, len(m.view))

	var lines []string
	for i := start; i < end; i++ {
		lines = append(lines, rowView(m.view[i], i == m.cursor))
	}
	return strings.Join(lines, "\n")
}

func rowView(t service.Task, selected bool) string {
	v := output.NewTaskView(t)

	cursor := "  "
	title := v.Title
	switch {
	case v.Completed:
		title = doneStyle.Render(title)
	case selected:
		title = selectedStyle.Render(title)
	}
	if selected {
		cursor = promptStyle.Render("> ")
	}

	line := cursor + v.StatusIcon + " " + title
	if badge := priorityBadge(t.Priority); badge != "" {
		line += " " + badge
	}

	var meta []string
	if v.Category != "" {
		meta = append(meta, v.CategoryIcon+" "+v.Category)
	}
	if v.Due != "" {
		meta = append(meta, "📅 "+v.Due)
	}
	if v.Description != "" {
		meta = append(meta, v.Description)
	}
	detail := dimStyle.Render(strings.Join(meta, "  "))
	if len(v.Tags) > 0 {
		detail += "  " + tagStyle.Render(strings.Join(v.Tags, " "))
	}
	return line + "\n      " + detail
}

func helpView() string {
	keys := [][2]string{
		{"j / k", "move down / up"},
		{"space / enter", "toggle complete"},
		{"a", "add a task"},
		{"e", "edit the selected task"},
		{"d", "delete the selected task"},
		{"/", "search title and description"},
		{"1 / 2 / 3", "show all / pending / completed"},
		{"c", "cycle category filter"},
		{"r", "reload from the API"},
		{"q", "quit"},
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Keys"))
	b.WriteString("\n\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "  %-15s %s\n", k[0], k[1])
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("press any key to close"))
	return modalStyle.Render(b.String())
}
