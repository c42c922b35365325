// Package cascade removes references to deleted recipes from every user's
// favorites and menus.
package cascade

import (
	"context"
	"fmt"

	"recipe-planner/internal/logger"
	"recipe-planner/internal/menu"
	"recipe-planner/internal/partition"
)

// Report counts the references a sweep cleared.
type Report struct {
	Favorites   int
	DailySlots  int
	WeeklySlots int
}

// Total returns the number of cleared references.
func (r Report) Total() int {
	return r.Favorites + r.DailySlots + r.WeeklySlots
}

// Coordinator sweeps the user partitions that can reference a recipe.
type Coordinator struct {
	favorites *partition.Partition[[]string]
	daily     *partition.Partition[menu.Slots]
	weekly    *partition.Partition[menu.Weekly]
	log       *logger.Logger
}

func NewCoordinator(
	favorites *partition.Partition[[]string],
	daily *partition.Partition[menu.Slots],
	weekly *partition.Partition[menu.Weekly],
	log *logger.Logger,
) *Coordinator {
	return &Coordinator{
		favorites: favorites,
		daily:     daily,
		weekly:    weekly,
		log:       log,
	}
}

// Sweep clears recipeID from all users. The three partitions are written
// independently; a failure stops the sweep and leaves earlier partitions
// already cleaned.
func (c *Coordinator) Sweep(ctx context.Context, recipeID string) (Report, error) {
	var report Report

	_, err := c.favorites.Sweep(ctx, func(_ string, ids []string) ([]string, bool) {
		kept := make([]string, 0, len(ids))
		for _, id := range ids {
			if id == recipeID {
				report.Favorites++
				continue
			}
			kept = append(kept, id)
		}
		return kept, len(kept) != len(ids)
	})
	if err != nil {
		return report, fmt.Errorf("failed to sweep favorites: %w", err)
	}

	_, err = c.daily.Sweep(ctx, func(_ string, s menu.Slots) (menu.Slots, bool) {
		n := s.Clear(recipeID)
		report.DailySlots += n
		return s, n > 0
	})
	if err != nil {
		return report, fmt.Errorf("failed to sweep daily menus: %w", err)
	}

	_, err = c.weekly.Sweep(ctx, func(_ string, w menu.Weekly) (menu.Weekly, bool) {
		cleared := 0
		for _, d := range menu.Days {
			s := w[d]
			if n := s.Clear(recipeID); n > 0 {
				w[d] = s
				cleared += n
			}
		}
		report.WeeklySlots += cleared
		return w, cleared > 0
	})
	if err != nil {
		return report, fmt.Errorf("failed to sweep weekly menus: %w", err)
	}

	return report, nil
}

// RecipeDeleted runs a sweep for a recipe the catalog just removed.
func (c *Coordinator) RecipeDeleted(ctx context.Context, recipeID string) error {
	report, err := c.Sweep(ctx, recipeID)
	if err != nil {
		c.log.Error("cascade cleanup failed", "recipe_id", recipeID, "error", err)
		return err
	}
	c.log.Info("cleared references to deleted recipe",
		"recipe_id", recipeID,
		"favorites", report.Favorites,
		"daily_slots", report.DailySlots,
		"weekly_slots", report.WeeklySlots,
	)
	return nil
}
