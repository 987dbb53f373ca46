package usecase

import (
	"context"
	"sort"

	"github.com/weftwork/weft/internal/domain/entity"
)

// GroupPanesUseCase computes on-demand groupings over the pane store.
// These are pure projections: nothing here is persisted or cached, the
// views are rebuilt from the live state on every call.
type GroupPanesUseCase struct{}

// NewGroupPanesUseCase creates the grouping query use case.
func NewGroupPanesUseCase() *GroupPanesUseCase {
	return &GroupPanesUseCase{}
}

// PaneGroup is one bucket of a projection. Key is the grouping value
// (repo id, worktree id or agent type); Label is a display name when
// one can be resolved.
type PaneGroup struct {
	Key   string
	Label string
	Panes []*entity.Pane
}

// GroupInput scopes a projection to one workspace.
type GroupInput struct {
	Workspace *entity.Workspace

	// IncludeDrawerChildren adds drawer children to the buckets; by
	// default only root panes are grouped.
	IncludeDrawerChildren bool
}

// ByRepo groups panes by the repo id of their worktree source. Panes
// with a floating source land in a trailing bucket with an empty key.
// Groups are ordered by key, panes inside a group by id.
func (uc *GroupPanesUseCase) ByRepo(ctx context.Context, input GroupInput) []PaneGroup {
	return project(input, func(p *entity.Pane) string {
		if p.Source.Kind == entity.SourceWorktree && p.Source.Worktree != nil {
			return p.Source.Worktree.RepoID
		}
		return ""
	}, func(ws *entity.Workspace, key string) string {
		if repo, ok := ws.RepoByID(key); ok {
			return repo.Name
		}
		return ""
	})
}

// ByWorktree groups panes by worktree id; floating panes get the empty
// bucket.
func (uc *GroupPanesUseCase) ByWorktree(ctx context.Context, input GroupInput) []PaneGroup {
	return project(input, func(p *entity.Pane) string {
		if p.Source.Kind == entity.SourceWorktree && p.Source.Worktree != nil {
			return p.Source.Worktree.WorktreeID
		}
		return ""
	}, func(ws *entity.Workspace, key string) string {
		if wt, ok := ws.WorktreeByID(key); ok {
			return wt.Branch
		}
		return ""
	})
}

// ByAgent groups panes by their agent type; panes without one get the
// empty bucket.
func (uc *GroupPanesUseCase) ByAgent(ctx context.Context, input GroupInput) []PaneGroup {
	return project(input, func(p *entity.Pane) string {
		return p.AgentType
	}, func(*entity.Workspace, string) string {
		return ""
	})
}

func project(input GroupInput, keyOf func(*entity.Pane) string, labelOf func(*entity.Workspace, string) string) []PaneGroup {
	ws := input.Workspace
	if ws == nil {
		return nil
	}
	buckets := make(map[string][]*entity.Pane)
	for _, pane := range ws.Panes.All() {
		if pane.IsDrawerChild() && !input.IncludeDrawerChildren {
			continue
		}
		key := keyOf(pane)
		buckets[key] = append(buckets[key], pane)
	}

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	// Named buckets sorted by key; the unkeyed bucket trails.
	sort.Slice(keys, func(i, j int) bool {
		if (keys[i] == "") != (keys[j] == "") {
			return keys[j] == ""
		}
		return keys[i] < keys[j]
	})

	groups := make([]PaneGroup, 0, len(keys))
	for _, key := range keys {
		panes := buckets[key]
		sort.Slice(panes, func(i, j int) bool { return panes[i].ID < panes[j].ID })
		groups = append(groups, PaneGroup{
			Key:   key,
			Label: labelOf(ws, key),
			Panes: panes,
		})
	}
	return groups
}
