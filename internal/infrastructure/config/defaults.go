package config

import "github.com/weftwork/weft/internal/domain/entity"

// Default configuration constants
const (
	// Logging defaults
	defaultMaxLogAgeDays = 7 // days

	// Workspace defaults
	defaultUndoTTLSeconds = 300 // 5 minutes
	defaultSidebarWidth   = 0.2

	// State defaults
	defaultSnapshotIntervalMs = 500 // debounce window
)

// getDefaultLogDir returns the default log directory, falling back to
// empty string on error.
func getDefaultLogDir() string {
	logDir, err := GetLogDir()
	if err != nil {
		return ""
	}
	return logDir
}

// DefaultConfig returns the default configuration values for weft.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			// Path is set dynamically in config.Load()
		},
		Logging: LoggingConfig{
			Level:         "info",
			Format:        "console",
			LogDir:        getDefaultLogDir(),
			EnableFileLog: true,
			MaxAge:        defaultMaxLogAgeDays,
		},
		Workspace: WorkspaceConfig{
			UndoCapacity:   entity.DefaultUndoCapacity,
			UndoTTLSeconds: defaultUndoTTLSeconds,
			SidebarWidth:   defaultSidebarWidth,
		},
		State: StateConfig{
			AutoRestore:        true,
			SnapshotIntervalMs: defaultSnapshotIntervalMs,
		},
	}
}
