package config

import "fmt"

// validateConfig checks every configurable value for sanity before the
// config is accepted.
func validateConfig(config *Config) error {
	switch config.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level %q (must be trace, debug, info, warn or error)", config.Logging.Level)
	}

	switch config.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid logging.format %q (must be console or json)", config.Logging.Format)
	}

	if config.Workspace.UndoCapacity < 0 {
		return fmt.Errorf("workspace.undo_capacity cannot be negative")
	}
	if config.Workspace.UndoTTLSeconds < 0 {
		return fmt.Errorf("workspace.undo_ttl_seconds cannot be negative")
	}
	if config.Workspace.SidebarWidth < 0 || config.Workspace.SidebarWidth > 1 {
		return fmt.Errorf("workspace.sidebar_width must be within [0, 1]")
	}
	if config.State.SnapshotIntervalMs < 0 {
		return fmt.Errorf("state.snapshot_interval_ms cannot be negative")
	}

	return nil
}
