package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"

	"github.com/weftwork/weft/internal/application/port"
	"github.com/weftwork/weft/internal/application/usecase"
	"github.com/weftwork/weft/internal/cli/cmd"
	"github.com/weftwork/weft/internal/domain/build"
	"github.com/weftwork/weft/internal/domain/entity"
	"github.com/weftwork/weft/internal/domain/repository"
	"github.com/weftwork/weft/internal/infrastructure/clock"
	"github.com/weftwork/weft/internal/infrastructure/config"
	"github.com/weftwork/weft/internal/infrastructure/persistence/sqlite"
	"github.com/weftwork/weft/internal/infrastructure/snapshot"
	"github.com/weftwork/weft/internal/logging"
)

// Build-time variables (set via ldflags).
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// openWorkspaceID holds the workspace ID to open (from the open command).
var openWorkspaceID string

func main() {
	// Run shell mode for open command
	if len(os.Args) > 1 && os.Args[1] == "open" {
		if len(os.Args) > 2 {
			openWorkspaceID = os.Args[2]
		}
		os.Args = os.Args[:1]
		os.Exit(runShell())
		return
	}

	// Pass build info to CLI
	cmd.SetBuildInfo(build.Info{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
	})

	// Default: run CLI (shows help if no subcommand)
	cmd.Execute()
}

func runShell() int {
	cfg := initConfig()
	ctx := initStartupContext(cfg)
	log := logging.FromContext(ctx)

	dbFile := cfg.Database.Path
	db, err := sqlite.NewConnection(ctx, dbFile)
	if err != nil {
		log.Error().Err(err).Msg("failed to open database")
		return 1
	}
	defer func() { _ = db.Close() }()

	stateRepo := sqlite.NewWorkspaceStateRepository(db)
	restoreUC := usecase.NewRestoreWorkspaceUseCase(stateRepo)

	wsID := resolveWorkspaceID(ctx, cfg, stateRepo)
	out, err := restoreUC.Execute(ctx, usecase.RestoreWorkspaceInput{
		WorkspaceID: wsID,
		Name:        string(wsID),
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to restore workspace")
		return 1
	}
	if out.Fresh {
		log.Info().Str("workspace_id", string(wsID)).Msg("starting fresh workspace")
	} else {
		log.Info().
			Str("workspace_id", string(wsID)).
			Int("tabs", len(out.Workspace.Tabs)).
			Int("panes", out.Workspace.Panes.Len()).
			Msg("restored workspace")
	}

	holder := &workspaceHolder{ws: out.Workspace}
	sysClock := clock.System()
	snapshotUC := usecase.NewSnapshotWorkspaceUseCase(stateRepo, sysClock)
	snapshotSvc := snapshot.NewService(snapshotUC, holder, sysClock, cfg.State.SnapshotIntervalMs)
	snapshotSvc.Start(ctx)
	defer func() {
		if stopErr := snapshotSvc.Stop(ctx); stopErr != nil {
			log.Error().Err(stopErr).Msg("failed to flush workspace state on shutdown")
		}
	}()

	// Ensure a fresh workspace is persisted even if nothing mutates it.
	snapshotSvc.MarkDirty()

	// The state engine runs headless until the frontend attaches; for now
	// block until interrupted, flushing state on the way out.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	signal.Stop(sigCh)
	log.Info().Str("signal", sig.String()).Msg("received interrupt, shutting down")
	return 0
}

// workspaceHolder hands the live workspace to the snapshot service.
type workspaceHolder struct {
	mu sync.RWMutex
	ws *entity.Workspace
}

var _ port.WorkspaceProvider = (*workspaceHolder)(nil)

func (h *workspaceHolder) GetWorkspace() *entity.Workspace {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.ws
}

// resolveWorkspaceID picks the workspace to open: the explicit argument,
// else the most recently saved workspace when auto-restore is enabled,
// else "default".
func resolveWorkspaceID(ctx context.Context, cfg *config.Config, repo repository.WorkspaceStateRepository) entity.WorkspaceID {
	if openWorkspaceID != "" {
		return entity.WorkspaceID(openWorkspaceID)
	}
	if cfg.State.AutoRestore {
		if snapshots, err := repo.GetAll(ctx); err == nil && len(snapshots) > 0 {
			return snapshots[0].ID
		}
	}
	return entity.WorkspaceID("default")
}

func initConfig() *config.Config {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize configuration: %v\n", err)
		os.Exit(1)
	}
	return config.Get()
}

func initStartupContext(cfg *config.Config) context.Context {
	logger := logging.NewFromConfigValues(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info().
		Str("version", version).
		Str("commit", commit).
		Str("build_date", buildDate).
		Msg("starting weft")
	return logging.WithContext(context.Background(), logger)
}
