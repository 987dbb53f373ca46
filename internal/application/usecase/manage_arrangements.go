package usecase

import (
	"context"

	"github.com/weftwork/weft/internal/domain/entity"
	"github.com/weftwork/weft/internal/domain/layout"
	"github.com/weftwork/weft/internal/logging"
)

// ManageArrangementsUseCase handles the alternate-layout CRUD on tabs.
type ManageArrangementsUseCase struct {
	ids entity.IDGenerator
}

// NewManageArrangementsUseCase creates a new arrangement use case.
func NewManageArrangementsUseCase(ids entity.IDGenerator) *ManageArrangementsUseCase {
	return &ManageArrangementsUseCase{ids: ids}
}

// CreateArrangementInput names a subset of the tab's panes.
type CreateArrangementInput struct {
	Workspace *entity.Workspace
	TabID     entity.TabID
	Name      string
	PaneIDs   []entity.PaneID
}

// CreateArrangementOutput returns the new arrangement.
type CreateArrangementOutput struct {
	Arrangement *entity.Arrangement
}

// Create builds an auto-tiled arrangement over exactly the given panes.
// Every pane must already be a member of the tab's default arrangement;
// an empty selection or a foreign pane id fails with the state unchanged.
func (uc *ManageArrangementsUseCase) Create(ctx context.Context, input CreateArrangementInput) (*CreateArrangementOutput, error) {
	log := logging.FromContext(ctx)
	tab, err := resolveTab(input.Workspace, input.TabID)
	if err != nil {
		return nil, err
	}
	if len(input.PaneIDs) == 0 {
		return nil, ErrEmptySelection
	}
	def := tab.DefaultArrangement()
	for _, id := range input.PaneIDs {
		if def == nil || !def.Contains(id) {
			return nil, ErrPaneNotFound
		}
	}

	panes := make([]string, len(input.PaneIDs))
	for i, id := range input.PaneIDs {
		panes[i] = string(id)
	}
	arr := &entity.Arrangement{
		ID:     entity.ArrangementID(uc.ids()),
		Name:   input.Name,
		Layout: layout.AutoTile(panes, layout.IDGenerator(uc.ids)),
	}
	tab.Arrangements = append(tab.Arrangements, arr)

	log.Debug().
		Str("tab_id", string(tab.ID)).
		Str("arrangement_id", string(arr.ID)).
		Int("pane_count", len(panes)).
		Msg("created arrangement")
	return &CreateArrangementOutput{Arrangement: arr}, nil
}

// SwitchArrangementInput selects the arrangement to activate.
type SwitchArrangementInput struct {
	Workspace     *entity.Workspace
	TabID         entity.TabID
	ArrangementID entity.ArrangementID
}

// Switch activates an arrangement. Switching clears any zoom, and when
// the active pane is not a member of the new arrangement the focus moves
// to one of its members. Already-active and unknown ids are no-ops.
func (uc *ManageArrangementsUseCase) Switch(ctx context.Context, input SwitchArrangementInput) error {
	tab, err := resolveTab(input.Workspace, input.TabID)
	if err != nil {
		return err
	}
	if input.ArrangementID == tab.ActiveArrangementID {
		return nil
	}
	arr := tab.FindArrangement(input.ArrangementID)
	if arr == nil {
		return ErrArrangementNotFound
	}

	tab.ActiveArrangementID = arr.ID
	tab.ZoomedPaneID = ""
	if !arr.Contains(tab.ActivePaneID) {
		members := arr.PaneIDs()
		if len(members) > 0 {
			tab.ActivePaneID = members[0]
		} else {
			tab.ActivePaneID = ""
		}
	}
	return nil
}

// RemoveArrangementInput identifies the arrangement to delete.
type RemoveArrangementInput struct {
	Workspace     *entity.Workspace
	TabID         entity.TabID
	ArrangementID entity.ArrangementID
}

// Remove deletes a custom arrangement. The default arrangement is
// protected; removing the active arrangement falls back to the default.
func (uc *ManageArrangementsUseCase) Remove(ctx context.Context, input RemoveArrangementInput) error {
	log := logging.FromContext(ctx)
	tab, err := resolveTab(input.Workspace, input.TabID)
	if err != nil {
		return err
	}
	arr := tab.FindArrangement(input.ArrangementID)
	if arr == nil {
		return ErrArrangementNotFound
	}
	if arr.IsDefault {
		return ErrDefaultArrangement
	}

	for i, a := range tab.Arrangements {
		if a.ID == arr.ID {
			tab.Arrangements = append(tab.Arrangements[:i], tab.Arrangements[i+1:]...)
			break
		}
	}
	if tab.ActiveArrangementID == arr.ID {
		def := tab.DefaultArrangement()
		tab.ActiveArrangementID = def.ID
		tab.ZoomedPaneID = ""
		if !def.Contains(tab.ActivePaneID) {
			members := def.PaneIDs()
			if len(members) > 0 {
				tab.ActivePaneID = members[0]
			}
		}
	}
	log.Debug().
		Str("tab_id", string(tab.ID)).
		Str("arrangement_id", string(arr.ID)).
		Msg("removed arrangement")
	return nil
}

// RenameArrangementInput carries the new display name.
type RenameArrangementInput struct {
	Workspace     *entity.Workspace
	TabID         entity.TabID
	ArrangementID entity.ArrangementID
	Name          string
}

// Rename updates an arrangement's display name; unknown ids are a no-op.
func (uc *ManageArrangementsUseCase) Rename(ctx context.Context, input RenameArrangementInput) error {
	tab, err := resolveTab(input.Workspace, input.TabID)
	if err != nil {
		return err
	}
	arr := tab.FindArrangement(input.ArrangementID)
	if arr == nil {
		return ErrArrangementNotFound
	}
	arr.Name = input.Name
	return nil
}
