// Package config handles configuration loading, watching and reloading
// for weft. Configuration lives in a TOML file under the XDG config
// directory and can be overridden with WEFT_-prefixed environment
// variables.
package config

// Config represents the complete configuration for weft.
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database" toml:"database"`
	Logging   LoggingConfig   `mapstructure:"logging" toml:"logging"`
	Workspace WorkspaceConfig `mapstructure:"workspace" toml:"workspace"`
	State     StateConfig     `mapstructure:"state" toml:"state"`
}

// DatabaseConfig configures the SQLite state database.
type DatabaseConfig struct {
	// Path to the database file; resolved to the XDG data directory when
	// empty.
	Path string `mapstructure:"path" toml:"path"`
}

// LoggingConfig configures structured logging output.
type LoggingConfig struct {
	// Level is the minimum level to emit (trace, debug, info, warn, error).
	Level string `mapstructure:"level" toml:"level"`
	// Format selects console or json output.
	Format string `mapstructure:"format" toml:"format"`
	// LogDir overrides the XDG state log directory.
	LogDir string `mapstructure:"log_dir" toml:"log_dir"`
	// EnableFileLog writes logs to a file in addition to stderr.
	EnableFileLog bool `mapstructure:"enable_file_log" toml:"enable_file_log"`
	// MaxAge is the log retention in days.
	MaxAge int `mapstructure:"max_age" toml:"max_age"`
}

// WorkspaceConfig tunes the in-memory workspace engine.
type WorkspaceConfig struct {
	// UndoCapacity bounds the closed-tab history.
	UndoCapacity int `mapstructure:"undo_capacity" toml:"undo_capacity"`
	// UndoTTLSeconds is how long a closed tab stays restorable.
	UndoTTLSeconds int `mapstructure:"undo_ttl_seconds" toml:"undo_ttl_seconds"`
	// DefaultShell launches in new terminal panes; empty uses $SHELL.
	DefaultShell string `mapstructure:"default_shell" toml:"default_shell"`
	// SidebarWidth is the initial sidebar width fraction.
	SidebarWidth float64 `mapstructure:"sidebar_width" toml:"sidebar_width"`
}

// StateConfig controls workspace state persistence.
type StateConfig struct {
	// AutoRestore reloads the last workspace on startup.
	AutoRestore bool `mapstructure:"auto_restore" toml:"auto_restore"`
	// SnapshotIntervalMs is the debounce window for state writes.
	SnapshotIntervalMs int `mapstructure:"snapshot_interval_ms" toml:"snapshot_interval_ms"`
}
