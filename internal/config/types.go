package config

import "time"

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	Files   []string // config files that were read, lowest priority first
}

// Default values.
const (
	DefaultTasksFile           = "tasks.txt"
	DefaultCompletionLog       = "log.txt"
	DefaultQuotesFile          = "quotes.txt"
	DefaultMaxTasks            = 100
	DefaultMaxQuotes           = 100
	DefaultReminderLeadMinutes = 15
	DefaultPollSeconds         = 30
	DefaultLogLevel            = "warn"
	DefaultLogFormat           = "text"
)

// Config holds the full configuration for dayplanner.
type Config struct {
	// Paths
	TasksFile     string `toml:"tasks_file"`
	CompletionLog string `toml:"completion_log"`
	QuotesFile    string `toml:"quotes_file"`

	// Limits
	MaxTasks  int `toml:"max_tasks"`
	MaxQuotes int `toml:"max_quotes"`

	// Reminders
	ReminderLeadMinutes int `toml:"reminder_lead_minutes"`
	PollSeconds         int `toml:"poll_seconds"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Working directory (computed)
	WorkDir string `toml:"-"`
}

// ReminderLead returns how long before a task's due time its reminder fires.
func (c *Config) ReminderLead() time.Duration {
	return time.Duration(c.ReminderLeadMinutes) * time.Minute
}

// PollInterval returns how often interactive views check for reminders.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollSeconds) * time.Second
}
