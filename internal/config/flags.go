package config

import (
	"flag"
)

// flagFields maps CLI flag names to the TOML keys they override.
var flagFields = map[string]string{
	"tasks":          "tasks_file",
	"completion-log": "completion_log",
	"quotes":         "quotes_file",
	"max-tasks":      "max_tasks",
	"max-quotes":     "max_quotes",
	"reminder-lead":  "reminder_lead_minutes",
	"poll":           "poll_seconds",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
}

// parseFlags defines the global flags on fs, parses args and records which
// flags were set explicitly.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet(appName, flag.ContinueOnError)
	}

	// Paths
	fs.StringVar(&cfg.TasksFile, "tasks", cfg.TasksFile, "Path to task file")
	fs.StringVar(&cfg.CompletionLog, "completion-log", cfg.CompletionLog, "Path to completion log")
	fs.StringVar(&cfg.QuotesFile, "quotes", cfg.QuotesFile, "Path to quote file")

	// Limits
	fs.IntVar(&cfg.MaxTasks, "max-tasks", cfg.MaxTasks, "Maximum number of tasks")
	fs.IntVar(&cfg.MaxQuotes, "max-quotes", cfg.MaxQuotes, "Maximum number of quotes read")

	// Reminders
	fs.IntVar(&cfg.ReminderLeadMinutes, "reminder-lead", cfg.ReminderLeadMinutes, "Minutes before due time to remind")
	fs.IntVar(&cfg.PollSeconds, "poll", cfg.PollSeconds, "Reminder polling interval in the TUI (seconds)")

	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text|json|logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Include timestamps in log output")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Include caller in log output")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if sources != nil {
		fs.Visit(func(f *flag.Flag) {
			if field, ok := flagFields[f.Name]; ok {
				sources[field] = SourceFlag
			}
		})
	}
	return nil
}
