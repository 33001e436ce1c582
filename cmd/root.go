// Package cmd implements the CLI command structure for dayplanner.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/dayplanner/internal/config"
	"github.com/nibzard/dayplanner/internal/logging"
	"github.com/nibzard/dayplanner/internal/quotes"
	"github.com/nibzard/dayplanner/internal/task"
	"github.com/nibzard/dayplanner/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// streams are the standard streams a command reads and writes.
type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

// Run executes the dayplanner CLI on the process's standard streams.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, streams{in: os.Stdin, out: os.Stdout, err: os.Stderr})
}

func run(ctx context.Context, args []string, std streams) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("dayplanner", flag.ContinueOnError)
	fs.SetOutput(std.err)
	fs.Usage = func() {
		printUsage(fs, std.err)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, std.out)
		return nil
	}
	if *showVersion {
		return versionCommand(std.out)
	}

	// Determine the subcommand
	// If no args or first arg is a flag, use "menu" as default
	subcommand := "menu"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	cfg := cws.Config
	switch subcommand {
	case "menu":
		return menuCommand(ctx, cfg, remainingArgs, std)
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs, std)
	case "list", "ls":
		return listCommand(cfg, remainingArgs, std)
	case "remind":
		return remindCommand(cfg, remainingArgs, std)
	case "export":
		return exportCommand(cfg, remainingArgs, std)
	case "import":
		return importCommand(cfg, remainingArgs, std)
	case "quote":
		return quoteCommand(cfg, remainingArgs, std)
	case "config":
		return configCommand(cws, remainingArgs, std)
	case "version":
		return versionCommand(std.out)
	case "help":
		printUsage(fs, std.out)
		return nil
	default:
		fmt.Fprintf(std.err, "Unknown command: %s\n", subcommand)
		printUsage(fs, std.err)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// session is a loaded task store together with the logger it reports to.
type session struct {
	store  *task.Store
	logger *log.Logger
}

// openSession builds the logger, completion log and store from cfg and loads
// the task file.
func openSession(cfg *config.Config) (*session, error) {
	logger := logging.NewFromConfig(cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)

	opts := []task.Option{
		task.WithCapacity(cfg.MaxTasks),
		task.WithReminderLead(cfg.ReminderLead()),
		task.WithLogger(logger),
	}
	if cfg.CompletionLog != "" {
		cl, err := logging.NewCompletionLog(cfg.CompletionLog, cfg.WorkDir)
		if err != nil {
			return nil, err
		}
		opts = append(opts, task.WithCompletionLog(cl))
	}

	store := task.NewStore(cfg.TasksFile, opts...)
	if err := store.Load(); err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	logger.Debug("session opened", "tasks", store.Len(), "file", store.Path())
	return &session{store: store, logger: logger}, nil
}

// startDay prints the day's quote and carries the previous day's tasks over.
func (s *session) startDay(cfg *config.Config, out io.Writer, styles ui.Styles) string {
	quote, ok, err := quotes.Random(cfg.QuotesFile, cfg.MaxQuotes)
	if err != nil {
		s.logger.Warn("could not read quotes", "file", cfg.QuotesFile, "err", err)
	}
	if ok && out != nil {
		ui.WriteQuote(out, styles, quote)
	}
	if err := s.store.CarryOver(); err != nil {
		s.logger.Error("carry over failed", "err", err)
	}
	return quote
}

// menuCommand runs the numbered interactive menu.
func menuCommand(ctx context.Context, cfg *config.Config, args []string, std streams) error {
	fs := flag.NewFlagSet("dayplanner menu", flag.ContinueOnError)
	fs.SetOutput(std.err)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	s, err := openSession(cfg)
	if err != nil {
		return err
	}
	styles := ui.NewStyles(std.out)
	s.startDay(cfg, std.out, styles)

	return ui.NewMenu(s.store, std.in, std.out, ui.WithStyles(styles)).Run(ctx)
}

// tuiCommand runs the full-screen dashboard.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string, std streams) error {
	fs := flag.NewFlagSet("dayplanner tui", flag.ContinueOnError)
	fs.SetOutput(std.err)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	s, err := openSession(cfg)
	if err != nil {
		return err
	}
	quote := s.startDay(cfg, nil, ui.Styles{})

	return ui.RunTUI(ctx, s.store,
		ui.WithPollInterval(cfg.PollInterval()),
		ui.WithQuote(quote),
	)
}

// listCommand prints pending or completed tasks without prompting.
func listCommand(cfg *config.Config, args []string, std streams) error {
	fs := flag.NewFlagSet("dayplanner list", flag.ContinueOnError)
	fs.SetOutput(std.err)
	done := fs.Bool("done", false, "List completed tasks instead of pending ones")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	s, err := openSession(cfg)
	if err != nil {
		return err
	}

	styles := ui.NewStyles(std.out)
	n := 0
	for t := range s.store.View(*done) {
		printTask(std.out, styles, t)
		n++
	}
	if n == 0 {
		if *done {
			fmt.Fprintln(std.out, "No completed tasks.")
		} else {
			fmt.Fprintln(std.out, "No pending tasks.")
		}
	}
	return nil
}

func printTask(w io.Writer, styles ui.Styles, t task.Task) {
	line := fmt.Sprintf("%3d  %s  %s", t.Number, t.Due, t.Description)
	if t.Carried {
		line += " " + styles.Carried.Render("(carried)")
	}
	if t.Completed {
		line = styles.Done.Render(line)
	}
	fmt.Fprintln(w, line)
}

// remindCommand prints the reminders due at the current minute, or at -at.
// It is meant to be run from cron once a minute.
func remindCommand(cfg *config.Config, args []string, std streams) error {
	fs := flag.NewFlagSet("dayplanner remind", flag.ContinueOnError)
	fs.SetOutput(std.err)
	atFlag := fs.String("at", "", "Check reminders at HH:MM instead of now")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	now := task.ClockOf(time.Now())
	if *atFlag != "" {
		c, err := task.ParseClock(*atFlag)
		if err != nil {
			return fmt.Errorf("parsing -at: %w", err)
		}
		now = c
	}

	s, err := openSession(cfg)
	if err != nil {
		return err
	}
	for _, r := range s.store.CheckReminders(now) {
		fmt.Fprintln(std.out, ui.ReminderText(r))
	}
	return nil
}

// quoteCommand prints one random quote.
func quoteCommand(cfg *config.Config, args []string, std streams) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	quote, ok, err := quotes.Random(cfg.QuotesFile, cfg.MaxQuotes)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintf(std.err, "No quotes found in %s\n", cfg.QuotesFile)
		return nil
	}
	fmt.Fprintln(std.out, quote)
	return nil
}

func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "dayplanner version %s\n", Version)
	return nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Dayplanner - A personal task planner for the day")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  dayplanner [options] [command]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  menu          Interactive numbered menu (default command)")
	fmt.Fprintln(w, "  tui           Launch terminal UI")
	fmt.Fprintln(w, "  list          List pending tasks (-done for completed)")
	fmt.Fprintln(w, "  remind        Print reminders due now (-at HH:MM to pick a time)")
	fmt.Fprintln(w, "  export [file] Write tasks as JSON to file or stdout")
	fmt.Fprintln(w, "  import <file> Replace tasks with a validated JSON export")
	fmt.Fprintln(w, "  quote         Print a random quote")
	fmt.Fprintln(w, "  config        Show effective configuration (-example for a template)")
	fmt.Fprintln(w, "  version       Show version information")
	fmt.Fprintln(w, "  help          Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}
