// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.dayplanner/dayplanner.toml or OS-specific config directory)
// 3. Project config file (dayplanner.toml or .dayplanner.toml in the working directory)
// 4. Environment variables (DAYPLANNER_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.dayplanner/dayplanner.toml (preferred)
// - Windows: %APPDATA%\dayplanner\dayplanner.toml
// - macOS: ~/Library/Application Support/dayplanner/dayplanner.toml
// - Linux/BSD: $XDG_CONFIG_HOME/dayplanner/dayplanner.toml or ~/.config/dayplanner/dayplanner.toml
//
// Relative file paths are resolved against the working directory, after ~ and
// environment variable expansion.
package config
