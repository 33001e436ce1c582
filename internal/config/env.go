package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// loadFromEnv overrides config from DAYPLANNER_* environment variables.
// Malformed numbers are reported rather than ignored.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) error {
	set := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}
	setString := func(key, field string, target *string) {
		if v := os.Getenv(key); v != "" {
			*target = v
			set(field)
		}
	}
	setInt := func(key, field string, target *int) error {
		v := os.Getenv(key)
		if v == "" {
			return nil
		}
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %q is not a number", key, v)
		}
		*target = i
		set(field)
		return nil
	}
	setBool := func(key, field string, target *bool) {
		if v := os.Getenv(key); v != "" {
			*target = boolFromString(v)
			set(field)
		}
	}

	setString("DAYPLANNER_TASKS", "tasks_file", &cfg.TasksFile)
	setString("DAYPLANNER_COMPLETION_LOG", "completion_log", &cfg.CompletionLog)
	setString("DAYPLANNER_QUOTES", "quotes_file", &cfg.QuotesFile)
	if err := setInt("DAYPLANNER_MAX_TASKS", "max_tasks", &cfg.MaxTasks); err != nil {
		return err
	}
	if err := setInt("DAYPLANNER_MAX_QUOTES", "max_quotes", &cfg.MaxQuotes); err != nil {
		return err
	}
	if err := setInt("DAYPLANNER_REMINDER_LEAD", "reminder_lead_minutes", &cfg.ReminderLeadMinutes); err != nil {
		return err
	}
	if err := setInt("DAYPLANNER_POLL_SECONDS", "poll_seconds", &cfg.PollSeconds); err != nil {
		return err
	}

	// Logging configuration
	setString("DAYPLANNER_LOG_LEVEL", "log_level", &cfg.LogLevel)
	setString("DAYPLANNER_LOG_FORMAT", "log_format", &cfg.LogFormat)
	setBool("DAYPLANNER_LOG_TIMESTAMPS", "log_timestamps", &cfg.LogTimestamps)
	setBool("DAYPLANNER_LOG_CALLER", "log_caller", &cfg.LogCaller)
	return nil
}

func boolFromString(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
