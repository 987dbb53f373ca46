// Package cli provides CLI commands using Bubble Tea TUI.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/weftwork/weft/internal/application/usecase"
	"github.com/weftwork/weft/internal/cli/styles"
	"github.com/weftwork/weft/internal/domain/build"
	"github.com/weftwork/weft/internal/domain/repository"
	"github.com/weftwork/weft/internal/infrastructure/config"
	"github.com/weftwork/weft/internal/infrastructure/persistence/sqlite"
	"github.com/weftwork/weft/internal/logging"
)

// App holds CLI dependencies.
type App struct {
	Config    *config.Config
	Theme     *styles.Theme
	BuildInfo build.Info
	db        *sql.DB
	States    repository.WorkspaceStateRepository

	// Use cases
	RestoreUC *usecase.RestoreWorkspaceUseCase

	// Context with logger
	ctx context.Context
}

// NewApp creates a new CLI application with all dependencies.
func NewApp() (*App, error) {
	cfg := loadConfig()

	theme := styles.NewTheme()

	logLevel := cfg.Logging.Level
	if envLevel := os.Getenv("WEFT_LOG_LEVEL"); envLevel != "" {
		logLevel = envLevel
	}
	logger := logging.NewFromConfigValues(logLevel, cfg.Logging.Format)
	ctx := logging.WithContext(context.Background(), logger)

	dbFile := cfg.Database.Path
	if dbFile == "" {
		var err error
		dbFile, err = config.GetDatabaseFile()
		if err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
	}

	db, err := sqlite.NewConnection(ctx, dbFile)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	logger.Debug().Str("db_path", dbFile).Msg("database connected")

	stateRepo := sqlite.NewWorkspaceStateRepository(db)
	restoreUC := usecase.NewRestoreWorkspaceUseCase(stateRepo)

	return &App{
		Config:    cfg,
		Theme:     theme,
		db:        db,
		States:    stateRepo,
		RestoreUC: restoreUC,
		ctx:       ctx,
	}, nil
}

// Close releases all resources.
func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}

// loadConfig loads configuration from standard locations.
func loadConfig() *config.Config {
	mgr, err := config.NewManager()
	if err != nil {
		return config.DefaultConfig()
	}
	if err := mgr.Load(); err != nil {
		return config.DefaultConfig()
	}
	return mgr.Get()
}
