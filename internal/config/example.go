package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# dayplanner configuration file
# Values can be overridden by DAYPLANNER_* environment variables or CLI flags.

# Task file (relative to the working directory, supports ~ and $VAR)
tasks_file = "tasks.txt"

# Append-only log of completed tasks
completion_log = "log.txt"

# One quote per line, one is shown at startup
quotes_file = "quotes.txt"

# Maximum number of tasks in the list
max_tasks = 100

# Maximum number of quotes read from quotes_file
max_quotes = 100

# Minutes before a task's due time that its reminder fires
reminder_lead_minutes = 15

# How often the TUI checks for reminders (seconds)
poll_seconds = 30

# Logging: debug, info, warn, error
log_level = "warn"
# text, json or logfmt
log_format = "text"
log_timestamps = false
log_caller = false
`
}
