package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/trailpace/internal/models"
	"github.com/julianstephens/trailpace/internal/storage"
	"github.com/julianstephens/trailpace/internal/waypoints"
)

// Manual waypoint edits land in the track's draft. 'waypoint apply' makes
// the draft the list simulations use.

type WaypointAddCmd struct {
	Track    string `arg:"" help:"Track file name the waypoint belongs to."`
	Distance string `arg:"" help:"Cumulative distance in km."`
	Category string `help:"Category, e.g. Aid or Summit." default:"Aid"`
	Label    string `help:"Display label."`
	Rest     string `help:"Planned rest in minutes."`
	Gate     string `help:"Cutoff gate time (HH:MM)."`
	After    *int   `help:"Insert after this 1-based position instead of appending (0 for the front)."`
	Apply    bool   `help:"Apply the draft immediately."`
}

func (c *WaypointAddCmd) Run(ctx *Context) error {
	track := filepath.Base(c.Track)
	plan, err := storage.LoadPlan(ctx.Store, track)
	if err != nil {
		return err
	}

	spec := models.ManualWaypointSpec{
		DistanceKm:    c.Distance,
		Category:      c.Category,
		CategoryLabel: c.Label,
		RestMinutes:   c.Rest,
		GateTime:      c.Gate,
	}
	if c.After != nil {
		inserted, err := plan.InsertAfter(*c.After - 1)
		if err != nil {
			return err
		}
		spec.ID = inserted.ID
		if err := plan.Replace(spec); err != nil {
			return err
		}
	} else {
		spec = plan.Add(spec)
	}

	if err := ctx.saveEdit(track, plan, c.Apply); err != nil {
		return err
	}
	ctx.printf("Added waypoint %s at %s km\n", spec.ID, spec.DistanceKm)
	return nil
}

type WaypointListCmd struct {
	Track   string `arg:"" help:"Track file name."`
	Draft   bool   `help:"Show the draft instead of the applied list."`
	ShowIDs bool   `help:"Show waypoint IDs." name:"show-ids"`
}

func (c *WaypointListCmd) Run(ctx *Context) error {
	track := filepath.Base(c.Track)
	plan, err := storage.LoadPlan(ctx.Store, track)
	if err != nil {
		return err
	}

	specs := plan.Applied()
	title := "Applied waypoints"
	if c.Draft {
		specs = plan.Draft()
		title = "Draft waypoints"
	}
	if len(specs) == 0 {
		ctx.printf("No manual waypoints for %s\n", track)
		if plan.Dirty() && !c.Draft {
			ctx.println("The draft has unapplied changes, see --draft.")
		}
		return nil
	}

	ctx.printf("%s for %s:\n", title, track)
	ctx.println(renderSpecs(specs, c.ShowIDs))
	if plan.Dirty() {
		ctx.println("The draft has unapplied changes. Run 'trailpace waypoint apply' to use them.")
	}
	return nil
}

type WaypointEditCmd struct {
	Track string `arg:"" help:"Track file name."`
	ID    string `arg:"" help:"Waypoint ID."`
	Field string `arg:"" help:"Field to change." enum:"distance_km,category,category_label,rest_minutes,gate_time"`
	Value string `arg:"" help:"New value." optional:""`
	Apply bool   `help:"Apply the draft immediately."`
}

func (c *WaypointEditCmd) Run(ctx *Context) error {
	track := filepath.Base(c.Track)
	plan, err := storage.LoadPlan(ctx.Store, track)
	if err != nil {
		return err
	}
	if err := plan.Update(c.ID, c.Field, c.Value); err != nil {
		return err
	}
	if err := ctx.saveEdit(track, plan, c.Apply); err != nil {
		return err
	}
	ctx.printf("Updated %s of waypoint %s\n", c.Field, c.ID)
	return nil
}

type WaypointRemoveCmd struct {
	Track string `arg:"" help:"Track file name."`
	ID    string `arg:"" help:"Waypoint ID."`
	Apply bool   `help:"Apply the draft immediately."`
}

func (c *WaypointRemoveCmd) Run(ctx *Context) error {
	track := filepath.Base(c.Track)
	plan, err := storage.LoadPlan(ctx.Store, track)
	if err != nil {
		return err
	}
	if err := plan.Remove(c.ID); err != nil {
		return err
	}
	if err := ctx.saveEdit(track, plan, c.Apply); err != nil {
		return err
	}
	ctx.printf("Removed waypoint %s\n", c.ID)
	return nil
}

type WaypointApplyCmd struct {
	Track string `arg:"" help:"Track file name."`
}

func (c *WaypointApplyCmd) Run(ctx *Context) error {
	track := filepath.Base(c.Track)
	plan, err := storage.LoadPlan(ctx.Store, track)
	if err != nil {
		return err
	}
	applied, err := storage.CommitPlan(ctx.Store, track, plan)
	if err != nil {
		return err
	}
	ctx.printf("Applied %d manual waypoint(s) to %s\n", len(applied), track)
	return nil
}

type WaypointDiscardCmd struct {
	Track string `arg:"" help:"Track file name."`
}

func (c *WaypointDiscardCmd) Run(ctx *Context) error {
	track := filepath.Base(c.Track)
	err := ctx.Store.DeleteManualWaypoints(storage.DraftPointsKey(track))
	if errors.Is(err, storage.ErrNotFound) {
		ctx.println("No draft to discard.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to discard draft: %w", err)
	}
	ctx.printf("Discarded draft changes for %s\n", track)
	return nil
}

func (c *Context) saveEdit(track string, plan *waypoints.Plan, apply bool) error {
	if apply {
		_, err := storage.CommitPlan(c.Store, track, plan)
		return err
	}
	if err := storage.SaveDraft(c.Store, track, plan); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

func renderSpecs(specs []models.ManualWaypointSpec, showIDs bool) string {
	headers := []string{"#", "Km", "Category", "Label", "Rest", "Gate"}
	if showIDs {
		headers = append(headers, "ID")
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for i, s := range specs {
		row := []string{fmt.Sprint(i + 1), s.DistanceKm, s.Category, s.CategoryLabel, s.RestMinutes, s.GateTime}
		if showIDs {
			row = append(row, s.ID)
		}
		t.Row(row...)
	}
	return t.String()
}
