// Package ui provides the interactive menu and the terminal dashboard.
package ui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/dayplanner/internal/task"
)

// Styles holds the lipgloss styles shared by the menu and the TUI.
type Styles struct {
	Title    lipgloss.Style
	Header   lipgloss.Style
	Quote    lipgloss.Style
	Reminder lipgloss.Style
	Carried  lipgloss.Style
	Done     lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Help     lipgloss.Style
}

// NewStyles builds styles for output written to w. Color is dropped when w is
// not a terminal.
func NewStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	return Styles{
		Title:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("170")),
		Header:   r.NewStyle().Bold(true),
		Quote:    r.NewStyle().Italic(true).Foreground(lipgloss.Color("109")),
		Reminder: r.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		Carried:  r.NewStyle().Foreground(lipgloss.Color("243")),
		Done:     r.NewStyle().Foreground(lipgloss.Color("241")),
		Selected: r.NewStyle().Foreground(lipgloss.Color("212")),
		Error:    r.NewStyle().Foreground(lipgloss.Color("196")),
		Success:  r.NewStyle().Foreground(lipgloss.Color("42")),
		Help:     r.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// ReminderText formats a reminder the way both views show it.
func ReminderText(r task.Reminder) string {
	return fmt.Sprintf("Reminder: Task '%s' is due in %d minutes!", r.Task.Description, int(r.Lead()/time.Minute))
}

// WriteQuote prints the startup quote banner.
func WriteQuote(w io.Writer, s Styles, quote string) {
	fmt.Fprintf(w, "\n%s\n%s\n\n", s.Title.Render("*** MOTIVATION ***"), s.Quote.Render(quote))
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
