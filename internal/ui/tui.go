package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/dayplanner/internal/task"
)

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

type tuiConfig struct {
	pollInterval time.Duration
	now          func() time.Time
	quote        string
}

// WithPollInterval sets how often reminders are checked.
func WithPollInterval(d time.Duration) TUIOption {
	return func(c *tuiConfig) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// WithTUIClock sets the function used to read the current time.
func WithTUIClock(now func() time.Time) TUIOption {
	return func(c *tuiConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// WithQuote shows quote above the task list.
func WithQuote(quote string) TUIOption {
	return func(c *tuiConfig) {
		c.quote = quote
	}
}

// RunTUI starts the full-screen dashboard over store.
func RunTUI(ctx context.Context, store *task.Store, opts ...TUIOption) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newTUIModel(store, NewStyles(os.Stdout), opts...)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

type inputMode int

const (
	modeBrowse inputMode = iota
	modeAdd
	modeEdit
)

type tuiModel struct {
	store        *task.Store
	styles       Styles
	now          func() time.Time
	pollInterval time.Duration
	quote        string

	cursor   int
	showDone bool
	mode     inputMode
	editing  int // task number being edited
	input    textinput.Model

	status    string
	statusErr bool

	reminders   []string
	lastChecked task.Clock
	checked     bool
}

type tickMsg time.Time

func newTUIModel(store *task.Store, styles Styles, opts ...TUIOption) *tuiModel {
	c := &tuiConfig{
		pollInterval: 30 * time.Second,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	ti := textinput.New()
	ti.Placeholder = "HH:MM description"
	ti.CharLimit = 256

	return &tuiModel{
		store:        store,
		styles:       styles,
		now:          c.now,
		pollInterval: c.pollInterval,
		quote:        c.quote,
		input:        ti,
	}
}

func (m *tuiModel) Init() tea.Cmd {
	m.checkReminders()
	return tickCmd(m.pollInterval)
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.checkReminders()
		return m, tickCmd(m.pollInterval)
	case tea.KeyMsg:
		if m.mode != modeBrowse {
			return m.updateInput(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m *tuiModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.rows()
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "j", "down":
		if m.cursor < len(rows)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "tab":
		m.showDone = !m.showDone
		m.cursor = 0
	case "enter", "d":
		if m.showDone {
			return m, nil
		}
		if t, ok := m.selected(rows); ok {
			if _, err := m.store.MarkDone(t.Number); err != nil {
				m.setError(err)
			} else {
				m.setStatus(fmt.Sprintf("Task %d marked as done.", t.Number))
			}
			m.clampCursor()
		}
	case "x":
		if t, ok := m.selected(rows); ok {
			if err := m.store.Delete(t.Number); err != nil {
				m.setError(err)
			} else {
				m.setStatus(fmt.Sprintf("Task %d deleted.", t.Number))
			}
			m.clampCursor()
		}
	case "a":
		if m.store.Len() >= m.store.Capacity() {
			m.setError(task.ErrCapacityExceeded)
			return m, nil
		}
		m.mode = modeAdd
		m.input.SetValue("")
		return m, m.input.Focus()
	case "e":
		if t, ok := m.selected(rows); ok {
			m.mode = modeEdit
			m.editing = t.Number
			m.input.SetValue(t.Due.String() + " " + t.Description)
			m.input.CursorEnd()
			return m, m.input.Focus()
		}
	}
	return m, nil
}

func (m *tuiModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.leaveInput()
		return m, nil
	case "enter":
		due, desc, err := parseEntry(m.input.Value())
		if err != nil {
			m.setError(err)
			return m, nil
		}
		if m.mode == modeAdd {
			_, err = m.store.Add(desc, due)
		} else {
			_, err = m.store.Edit(m.editing, desc, due)
		}
		if err != nil {
			m.setError(err)
			return m, nil
		}
		if m.mode == modeAdd {
			m.setStatus("Task added.")
		} else {
			m.setStatus("Task updated.")
		}
		m.leaveInput()
		m.clampCursor()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *tuiModel) leaveInput() {
	m.mode = modeBrowse
	m.editing = 0
	m.input.SetValue("")
	m.input.Blur()
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTUITitle(&b, m.styles)

	if m.quote != "" {
		b.WriteString(m.styles.Quote.Render(m.quote) + "\n\n")
	}
	for _, r := range m.reminders {
		b.WriteString(m.styles.Reminder.Render(r) + "\n")
	}
	if len(m.reminders) > 0 {
		b.WriteString("\n")
	}

	title := "Today's Tasks"
	if m.showDone {
		title = "Completed Tasks"
	}
	b.WriteString(m.styles.Header.Render(title) + "\n\n")

	rows := m.rows()
	if len(rows) == 0 {
		b.WriteString(m.styles.Help.Render("  No tasks.") + "\n")
	}
	for i, t := range rows {
		b.WriteString(m.formatRow(t, i == m.cursor) + "\n")
	}
	b.WriteString("\n")

	switch m.mode {
	case modeAdd:
		b.WriteString("Add task: " + m.input.View() + "\n\n")
	case modeEdit:
		b.WriteString(fmt.Sprintf("Edit task %d: %s\n\n", m.editing, m.input.View()))
	}

	if m.status != "" {
		style := m.styles.Success
		if m.statusErr {
			style = m.styles.Error
		}
		b.WriteString(style.Render(m.status) + "\n\n")
	}

	writeTUIFooter(&b, m.styles, m.mode)
	return b.String()
}

func (m *tuiModel) formatRow(t task.Task, selected bool) string {
	marker := "  "
	if selected {
		marker = "> "
	}
	line := fmt.Sprintf("%s%2d  %s  %s", marker, t.Number, t.Due, t.Description)
	if t.Carried {
		line += " " + m.styles.Carried.Render("(carried)")
	}
	switch {
	case selected:
		return m.styles.Selected.Render(line)
	case t.Completed:
		return m.styles.Done.Render(line)
	}
	return line
}

func writeTUITitle(b *strings.Builder, s Styles) {
	title := "Day Planner"
	b.WriteString(s.Title.Render(title) + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writeTUIFooter(b *strings.Builder, s Styles, mode inputMode) {
	if mode != modeBrowse {
		b.WriteString(s.Help.Render("enter save | esc cancel") + "\n")
		return
	}
	b.WriteString(s.Help.Render("j/k move | tab pending/completed | enter done | a add | e edit | x delete | q quit") + "\n")
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// checkReminders recomputes reminders once per wall-clock minute so a
// reminder is shown for its minute however often the poll fires.
func (m *tuiModel) checkReminders() {
	now := task.ClockOf(m.now())
	if m.checked && now == m.lastChecked {
		return
	}
	m.checked = true
	m.lastChecked = now

	m.reminders = m.reminders[:0]
	for _, r := range m.store.CheckReminders(now) {
		m.reminders = append(m.reminders, ReminderText(r))
	}
}

func (m *tuiModel) rows() []task.Task {
	var rows []task.Task
	for t := range m.store.View(m.showDone) {
		rows = append(rows, t)
	}
	return rows
}

func (m *tuiModel) selected(rows []task.Task) (task.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(rows) {
		return task.Task{}, false
	}
	return rows[m.cursor], true
}

func (m *tuiModel) clampCursor() {
	n := len(m.rows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *tuiModel) setStatus(msg string) {
	m.status = msg
	m.statusErr = false
}

func (m *tuiModel) setError(err error) {
	switch {
	case errors.Is(err, task.ErrNotFound):
		m.status = "Task not found."
	case errors.Is(err, task.ErrCapacityExceeded):
		m.status = "Too many tasks!"
	case errors.Is(err, task.ErrInvalidTime):
		m.status = "Invalid time format! Please enter in HH:MM format (e.g., 14:30)."
	default:
		m.status = "Error: " + err.Error()
	}
	m.statusErr = true
}

// parseEntry splits "HH:MM description" as typed into the TUI input.
func parseEntry(s string) (task.Clock, string, error) {
	s = strings.TrimSpace(s)
	hhmm, desc, _ := strings.Cut(s, " ")
	due, err := task.ParseClock(hhmm)
	if err != nil {
		return task.Clock{}, "", err
	}
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return task.Clock{}, "", fmt.Errorf("%w: description is required", task.ErrInvalidDescription)
	}
	return due, desc, nil
}
