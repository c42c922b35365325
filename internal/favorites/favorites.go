// Package favorites keeps each user's ordered set of favorite recipes.
package favorites

import (
	"context"
	"fmt"

	"recipe-planner/internal/logger"
	"recipe-planner/internal/partition"
	"recipe-planner/internal/recipe"
	"recipe-planner/internal/storage"
)

const StorageKey = "rp_favoritesByUser"

// Recipes resolves favorite ids to catalog entries.
type Recipes interface {
	Index(ctx context.Context) (map[string]recipe.Recipe, error)
}

// NewPartition returns the per-user favorites partition. Stored lists are
// deduplicated on read.
func NewPartition(store storage.Store, log *logger.Logger) *partition.Partition[[]string] {
	return partition.New(store, StorageKey, func() []string { return []string{} },
		partition.WithFill(dedupe),
		partition.WithLogger[[]string](log))
}

// Service manages favorites.
type Service struct {
	part    *partition.Partition[[]string]
	recipes Recipes
	log     *logger.Logger
}

func NewService(part *partition.Partition[[]string], recipes Recipes, log *logger.Logger) *Service {
	return &Service{part: part, recipes: recipes, log: log}
}

// IDs returns the user's favorite recipe ids in the order they were added.
func (s *Service) IDs(ctx context.Context, userID string) ([]string, error) {
	return s.part.Read(ctx, userID)
}

// Set replaces the user's favorites.
func (s *Service) Set(ctx context.Context, userID string, ids []string) error {
	if err := s.part.Write(ctx, userID, dedupe(ids)); err != nil {
		return fmt.Errorf("failed to save favorites: %w", err)
	}
	return nil
}

func (s *Service) Contains(ctx context.Context, userID, recipeID string) (bool, error) {
	ids, err := s.part.Read(ctx, userID)
	if err != nil {
		return false, err
	}
	return indexOf(ids, recipeID) >= 0, nil
}

// Add appends recipeID unless it is already a favorite.
func (s *Service) Add(ctx context.Context, userID, recipeID string) error {
	ids, err := s.part.Read(ctx, userID)
	if err != nil {
		return err
	}
	if indexOf(ids, recipeID) >= 0 {
		return nil
	}
	return s.Set(ctx, userID, append(ids, recipeID))
}

// Remove drops recipeID from the user's favorites.
func (s *Service) Remove(ctx context.Context, userID, recipeID string) error {
	ids, err := s.part.Read(ctx, userID)
	if err != nil {
		return err
	}
	i := indexOf(ids, recipeID)
	if i < 0 {
		return nil
	}
	return s.Set(ctx, userID, append(ids[:i], ids[i+1:]...))
}

// Toggle flips recipeID in or out of the favorites and returns whether it
// is a favorite afterwards.
func (s *Service) Toggle(ctx context.Context, userID, recipeID string) (bool, error) {
	ids, err := s.part.Read(ctx, userID)
	if err != nil {
		return false, err
	}
	if i := indexOf(ids, recipeID); i >= 0 {
		if err := s.Set(ctx, userID, append(ids[:i], ids[i+1:]...)); err != nil {
			return true, err
		}
		s.log.Info("recipe removed from favorites", "user_id", userID, "recipe_id", recipeID)
		return false, nil
	}
	if err := s.Set(ctx, userID, append(ids, recipeID)); err != nil {
		return false, err
	}
	s.log.Info("recipe added to favorites", "user_id", userID, "recipe_id", recipeID)
	return true, nil
}

// Recipes resolves the user's favorites against the catalog, skipping ids
// that no longer resolve.
func (s *Service) Recipes(ctx context.Context, userID string) ([]recipe.Recipe, error) {
	ids, err := s.part.Read(ctx, userID)
	if err != nil {
		return nil, err
	}
	idx, err := s.recipes.Index(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]recipe.Recipe, 0, len(ids))
	for _, id := range ids {
		if r, ok := idx[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
