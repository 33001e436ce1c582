package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file
// 3. Project config file
// 4. Environment variables
// 5. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cws, err := LoadWithSources(fs, args)
	if err != nil {
		return nil, err
	}
	return cws.Config, nil
}

// LoadWithSources loads configuration and tracks the source of each value.
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	sources := make(map[string]ConfigSource)
	cfg := &Config{}

	// 1. Set defaults
	setDefaults(cfg)
	for _, field := range configFields() {
		sources[field] = SourceDefault
	}
	var files []string

	// 2. Try to load from user config file
	if userConfigFile := findUserConfigFile(); userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile, sources, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
		files = append(files, userConfigFile)
	}

	// 3. Try to load from project config file (overrides user config)
	if projectConfigFile := findProjectConfigFile(); projectConfigFile != "" {
		if err := loadConfigFile(cfg, projectConfigFile, sources, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
		files = append(files, projectConfigFile)
	}

	// 4. Override from environment
	if err := loadFromEnv(cfg, sources); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args, sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return &ConfigWithSources{
		Config:  cfg,
		Sources: sources,
		Files:   files,
	}, nil
}

// configFields returns the TOML keys tracked for source reporting.
func configFields() []string {
	return []string{
		"tasks_file",
		"completion_log",
		"quotes_file",
		"max_tasks",
		"max_quotes",
		"reminder_lead_minutes",
		"poll_seconds",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// loadConfigFile decodes TOML over cfg and records every key the file defines.
func loadConfigFile(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown keys: %v", undecoded)
	}
	for _, key := range md.Keys() {
		if sources != nil {
			sources[key.String()] = source
		}
	}
	return nil
}

// finalizeConfig expands and resolves paths and validates limits.
func finalizeConfig(cfg *Config) error {
	if cfg.WorkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		cfg.WorkDir = wd
	}

	cfg.TasksFile = resolvePath(cfg.TasksFile, cfg.WorkDir)
	cfg.CompletionLog = resolvePath(cfg.CompletionLog, cfg.WorkDir)
	cfg.QuotesFile = resolvePath(cfg.QuotesFile, cfg.WorkDir)

	if cfg.TasksFile == "" {
		return fmt.Errorf("tasks_file is empty")
	}
	if cfg.MaxTasks < 1 {
		return fmt.Errorf("max_tasks must be at least 1, got %d", cfg.MaxTasks)
	}
	if cfg.MaxQuotes < 1 {
		return fmt.Errorf("max_quotes must be at least 1, got %d", cfg.MaxQuotes)
	}
	if cfg.ReminderLeadMinutes < 0 {
		return fmt.Errorf("reminder_lead_minutes must not be negative, got %d", cfg.ReminderLeadMinutes)
	}
	if cfg.PollSeconds < 1 {
		return fmt.Errorf("poll_seconds must be at least 1, got %d", cfg.PollSeconds)
	}
	return nil
}

func resolvePath(p, workDir string) string {
	if p == "" {
		return ""
	}
	p = expandPath(p)
	if !filepath.IsAbs(p) {
		p = filepath.Join(workDir, p)
	}
	return filepath.Clean(p)
}
