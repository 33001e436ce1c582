package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nibzard/dayplanner/internal/task"
)

// Menu choices, in the order they are listed.
const (
	choiceAdd = iota + 1
	choiceEdit
	choiceDelete
	choiceViewPending
	choiceMarkDone
	choiceViewCompleted
	choiceExit
)

// MenuOption configures a Menu.
type MenuOption func(*Menu)

// WithClock sets the function used to read the current time.
func WithClock(now func() time.Time) MenuOption {
	return func(m *Menu) {
		if now != nil {
			m.now = now
		}
	}
}

// WithStyles overrides the styles derived from the output writer.
func WithStyles(s Styles) MenuOption {
	return func(m *Menu) {
		m.styles = s
	}
}

// Menu is the numbered, line-oriented task menu.
type Menu struct {
	store  *task.Store
	in     io.Reader
	lines  <-chan inputLine
	ctx    context.Context
	out    io.Writer
	now    func() time.Time
	styles Styles
}

// NewMenu returns a menu that reads answers from in and writes to out.
func NewMenu(store *task.Store, in io.Reader, out io.Writer, opts ...MenuOption) *Menu {
	m := &Menu{
		store:  store,
		in:     in,
		out:    out,
		now:    time.Now,
		styles: NewStyles(out),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run shows the menu until the user exits, input ends or ctx is cancelled.
// Reminders due at the current minute are printed before every menu.
func (m *Menu) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	m.ctx = ctx
	m.lines = scanLines(m.in, done)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		m.printReminders()
		m.printMenu()

		line, err := m.readLine("Enter choice: ")
		if err != nil {
			return endOfInput(err)
		}
		choice, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			m.errorf("Invalid input! Please enter a number.")
			continue
		}

		switch choice {
		case choiceAdd:
			err = m.addTask()
		case choiceEdit:
			err = m.editTask()
		case choiceDelete:
			err = m.deleteTask()
		case choiceViewPending:
			m.viewTasks(false)
		case choiceMarkDone:
			err = m.markDone()
		case choiceViewCompleted:
			m.viewTasks(true)
		case choiceExit:
			fmt.Fprintln(m.out, "Goodbye!")
			return nil
		default:
			m.errorf("Invalid choice!")
		}
		if err != nil {
			return endOfInput(err)
		}
	}
}

// endOfInput treats EOF on stdin as a normal exit.
func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (m *Menu) printReminders() {
	for _, r := range m.store.CheckReminders(task.ClockOf(m.now())) {
		fmt.Fprintf(m.out, "\n%s\n", m.styles.Reminder.Render(ReminderText(r)))
	}
}

func (m *Menu) printMenu() {
	fmt.Fprintf(m.out, "\n%s\n", m.styles.Title.Render("--- Time Management System ---"))
	fmt.Fprint(m.out, "1. Add Task\n2. Edit Task\n3. Delete Task\n4. View Today's Tasks\n5. Mark Task Done\n6. View Completed Tasks\n7. Exit\n")
}

func (m *Menu) addTask() error {
	if m.store.Len() >= m.store.Capacity() {
		m.errorf("Too many tasks!")
		return nil
	}
	desc, err := m.readLine("Enter task description: ")
	if err != nil {
		return err
	}
	due, err := m.readClock("Enter time (HH:MM): ", "Invalid time format! Please enter in HH:MM format (e.g., 14:30).")
	if err != nil {
		return err
	}
	if _, err := m.store.Add(desc, due); err != nil {
		m.reportStoreError(err)
		return nil
	}
	m.successf("Task added.")
	return nil
}

func (m *Menu) editTask() error {
	number, ok, err := m.readNumber("Enter task number to edit: ")
	if err != nil || !ok {
		return err
	}
	if _, err := m.store.Get(number); err != nil {
		m.reportStoreError(err)
		return nil
	}
	desc, err := m.readLine("New description: ")
	if err != nil {
		return err
	}
	due, err := m.readClock("Enter new time (HH:MM): ", "Invalid time! Please use format HH:MM (e.g., 09:15).")
	if err != nil {
		return err
	}
	if _, err := m.store.Edit(number, desc, due); err != nil {
		m.reportStoreError(err)
		return nil
	}
	m.successf("Task updated.")
	return nil
}

func (m *Menu) deleteTask() error {
	number, ok, err := m.readNumber("Enter task number to delete: ")
	if err != nil || !ok {
		return err
	}
	if err := m.store.Delete(number); err != nil {
		m.reportStoreError(err)
		return nil
	}
	m.successf("Task deleted.")
	return nil
}

func (m *Menu) markDone() error {
	number, ok, err := m.readNumber("Enter task number to mark as done: ")
	if err != nil || !ok {
		return err
	}
	if _, err := m.store.MarkDone(number); err != nil {
		m.reportStoreError(err)
		return nil
	}
	m.successf("Task marked as done.")
	return nil
}

func (m *Menu) viewTasks(completed bool) {
	title := "Today's"
	if completed {
		title = "Completed"
	}
	fmt.Fprintf(m.out, "\n%s\n", m.styles.Header.Render(fmt.Sprintf("--- %s Tasks ---", title)))

	shown := 0
	for t := range m.store.View(completed) {
		carried := ""
		if t.Carried {
			carried = " " + m.styles.Carried.Render("(Carried)")
		}
		fmt.Fprintf(m.out, "Task %d\nDesc: %s\nTime: %s%s\n\n", t.Number, t.Description, t.Due, carried)
		shown++
	}
	if shown == 0 {
		fmt.Fprintln(m.out, m.styles.Help.Render("No tasks."))
	}
}

type inputLine struct {
	text string
	err  error
}

// scanLines reads r on its own goroutine so a blocked read does not keep Run
// from noticing cancellation. The last value carries the terminating error.
func scanLines(r io.Reader, done <-chan struct{}) <-chan inputLine {
	ch := make(chan inputLine)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case ch <- inputLine{text: strings.TrimRight(sc.Text(), "\r")}:
			case <-done:
				return
			}
		}
		err := io.EOF
		if sc.Err() != nil {
			err = fmt.Errorf("read input: %w", sc.Err())
		}
		select {
		case ch <- inputLine{err: err}:
		case <-done:
		}
	}()
	return ch
}

func (m *Menu) readLine(prompt string) (string, error) {
	fmt.Fprint(m.out, prompt)
	select {
	case <-m.ctx.Done():
		return "", m.ctx.Err()
	case line, ok := <-m.lines:
		if !ok {
			return "", io.EOF
		}
		return line.text, line.err
	}
}

// readClock prompts until a valid HH:MM is entered.
func (m *Menu) readClock(prompt, invalid string) (task.Clock, error) {
	for {
		line, err := m.readLine(prompt)
		if err != nil {
			return task.Clock{}, err
		}
		c, err := task.ParseClock(line)
		if err == nil {
			return c, nil
		}
		m.errorf("%s", invalid)
	}
}

// readNumber reads a task number. ok is false when the answer is not a number.
func (m *Menu) readNumber(prompt string) (int, bool, error) {
	line, err := m.readLine(prompt)
	if err != nil {
		return 0, false, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		m.errorf("Invalid task number.")
		return 0, false, nil
	}
	return n, true, nil
}

func (m *Menu) reportStoreError(err error) {
	switch {
	case errors.Is(err, task.ErrNotFound):
		m.errorf("Task not found.")
	case errors.Is(err, task.ErrCapacityExceeded):
		m.errorf("Too many tasks!")
	default:
		m.errorf("Error: %v", err)
	}
}

func (m *Menu) errorf(format string, args ...any) {
	fmt.Fprintln(m.out, m.styles.Error.Render(fmt.Sprintf(format, args...)))
}

func (m *Menu) successf(format string, args ...any) {
	fmt.Fprintln(m.out, m.styles.Success.Render(fmt.Sprintf(format, args...)))
}
