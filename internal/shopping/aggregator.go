// Package shopping builds shopping lists from a user's menus.
package shopping

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"recipe-planner/internal/logger"
	"recipe-planner/internal/partition"
	"recipe-planner/internal/recipe"
	"recipe-planner/internal/storage"
)

const StorageKey = "rp_shoppingListByUser"

var (
	// ErrEmptyMenuSelection is returned when the user's menus reference no
	// recipes. Nothing is written in that case.
	ErrEmptyMenuSelection = errors.New("no recipes selected in daily or weekly menu")
	ErrIndexOutOfRange    = errors.New("shopping list index out of range")
)

// MenuSource lists the recipe ids referenced by a user's menus, daily menu
// first, without duplicates.
type MenuSource interface {
	ReferencedRecipeIDs(ctx context.Context, userID string) ([]string, error)
}

// Recipes resolves recipe ids.
type Recipes interface {
	Index(ctx context.Context) (map[string]recipe.Recipe, error)
}

// NewPartition returns the per-user shopping list partition.
func NewPartition(store storage.Store, log *logger.Logger) *partition.Partition[List] {
	return partition.New(store, StorageKey, func() List { return List{} },
		partition.WithLogger[List](log))
}

// Aggregate merges the ingredients of the given recipes in order. Equal
// trimmed lines are counted and emitted once, at their first position, with
// a "  ×N" suffix when they occur more than once. Unknown ids are skipped.
func Aggregate(ids []string, idx map[string]recipe.Recipe) List {
	var order []string
	counts := map[string]int{}
	for _, id := range ids {
		r, ok := idx[id]
		if !ok {
			continue
		}
		for _, ing := range r.Ingredients {
			text := strings.TrimSpace(ing)
			if text == "" {
				continue
			}
			if counts[text] == 0 {
				order = append(order, text)
			}
			counts[text]++
		}
	}

	list := make(List, 0, len(order))
	for _, text := range order {
		if n := counts[text]; n > 1 {
			text = fmt.Sprintf("%s  ×%d", text, n)
		}
		list = append(list, Item{Text: text})
	}
	return list
}

// Aggregator maintains per-user shopping lists.
type Aggregator struct {
	part    *partition.Partition[List]
	menus   MenuSource
	recipes Recipes
	log     *logger.Logger
}

func NewAggregator(part *partition.Partition[List], menus MenuSource, recipes Recipes, log *logger.Logger) *Aggregator {
	return &Aggregator{part: part, menus: menus, recipes: recipes, log: log}
}

// Generate rebuilds the user's shopping list from their daily and weekly
// menus. The previous list, including its checked marks, is replaced.
func (a *Aggregator) Generate(ctx context.Context, userID string) (List, error) {
	ids, err := a.menus.ReferencedRecipeIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, ErrEmptyMenuSelection
	}

	idx, err := a.recipes.Index(ctx)
	if err != nil {
		return nil, err
	}

	list := Aggregate(ids, idx)
	if err := a.part.Write(ctx, userID, list); err != nil {
		return nil, fmt.Errorf("failed to save shopping list: %w", err)
	}

	a.log.Info("generated shopping list", "user_id", userID, "recipes", len(ids), "items", len(list))
	return list, nil
}

func (a *Aggregator) Get(ctx context.Context, userID string) (List, error) {
	return a.part.Read(ctx, userID)
}

// ToggleChecked sets the checked mark of the item at index.
func (a *Aggregator) ToggleChecked(ctx context.Context, userID string, index int, checked bool) (List, error) {
	list, err := a.part.Read(ctx, userID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(list) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(list))
	}

	list[index].Checked = checked
	if err := a.part.Write(ctx, userID, list); err != nil {
		return nil, fmt.Errorf("failed to save shopping list: %w", err)
	}
	return list, nil
}

// Clear empties the user's shopping list.
func (a *Aggregator) Clear(ctx context.Context, userID string) error {
	if err := a.part.Write(ctx, userID, List{}); err != nil {
		return fmt.Errorf("failed to clear shopping list: %w", err)
	}
	return nil
}

// FormatText renders the list as shareable text. An empty list yields an
// empty string.
func FormatText(list List) string {
	if len(list) == 0 {
		return ""
	}
	lines := make([]string, 0, len(list)+1)
	lines = append(lines, "Список покупок:")
	for _, it := range list {
		lines = append(lines, "- "+it.Text)
	}
	return strings.Join(lines, "\n")
}
