package recipe

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"recipe-planner/internal/logger"
	"recipe-planner/internal/storage"
)

// StorageKey is where the catalog is persisted.
const StorageKey = "rp_recipes"

// AllCategories disables category filtering in Search.
const AllCategories = "all"

// DeleteHook is notified synchronously after a recipe has been removed.
type DeleteHook interface {
	RecipeDeleted(ctx context.Context, recipeID string) error
}

// Filter narrows Search results. Query matches titles case-insensitively.
type Filter struct {
	Query    string
	Category string
}

// Catalog owns the ordered list of recipes.
type Catalog struct {
	store    storage.Store
	onDelete DeleteHook
	log      *logger.Logger
	newID    func() string
}

// NewCatalog creates a catalog. onDelete may be nil.
func NewCatalog(store storage.Store, onDelete DeleteHook, log *logger.Logger) *Catalog {
	return &Catalog{
		store:    store,
		onDelete: onDelete,
		log:      log,
		newID:    func() string { return "r_" + uuid.NewString() },
	}
}

// List returns every recipe in persisted order.
func (c *Catalog) List(ctx context.Context) ([]Recipe, error) {
	var recipes []Recipe
	if _, err := storage.LoadJSON(ctx, c.store, StorageKey, &recipes); err != nil {
		if !storage.IsCorrupt(err) {
			return nil, err
		}
		c.log.Warn("recipe catalog is unreadable, treating as empty", "error", err)
		recipes = nil
	}
	if recipes == nil {
		recipes = []Recipe{}
	}
	return recipes, nil
}

// FindByID looks a recipe up by id.
func (c *Catalog) FindByID(ctx context.Context, id string) (Recipe, bool, error) {
	recipes, err := c.List(ctx)
	if err != nil {
		return Recipe{}, false, err
	}
	for _, r := range recipes {
		if r.ID == id {
			return r, true, nil
		}
	}
	return Recipe{}, false, nil
}

// Index returns the catalog keyed by recipe id.
func (c *Catalog) Index(ctx context.Context) (map[string]Recipe, error) {
	recipes, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	idx := make(map[string]Recipe, len(recipes))
	for _, r := range recipes {
		idx[r.ID] = r
	}
	return idx, nil
}

// Add validates f, assigns a fresh id and appends the recipe.
func (c *Catalog) Add(ctx context.Context, f Fields) (Recipe, error) {
	f = f.Normalize()
	if err := f.Validate(); err != nil {
		return Recipe{}, err
	}

	recipes, err := c.List(ctx)
	if err != nil {
		return Recipe{}, err
	}

	rec := Recipe{ID: c.newID()}
	rec.apply(f)
	recipes = append(recipes, rec)

	if err := c.save(ctx, recipes); err != nil {
		return Recipe{}, err
	}
	c.log.Info("recipe added", "recipe_id", rec.ID, "title", rec.Title)
	return rec, nil
}

// Update replaces every mutable field of the recipe with the given id.
func (c *Catalog) Update(ctx context.Context, id string, f Fields) (Recipe, error) {
	f = f.Normalize()
	if err := f.Validate(); err != nil {
		return Recipe{}, err
	}

	recipes, err := c.List(ctx)
	if err != nil {
		return Recipe{}, err
	}

	for i := range recipes {
		if recipes[i].ID != id {
			continue
		}
		recipes[i].apply(f)
		if err := c.save(ctx, recipes); err != nil {
			return Recipe{}, err
		}
		c.log.Info("recipe updated", "recipe_id", id)
		return recipes[i], nil
	}
	return Recipe{}, fmt.Errorf("failed to update recipe %s: %w", id, ErrNotFound)
}

// Delete removes the recipe and runs the delete hook before returning.
// Unknown ids are ignored.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	recipes, err := c.List(ctx)
	if err != nil {
		return err
	}

	kept := recipes[:0]
	found := false
	for _, r := range recipes {
		if r.ID == id {
			found = true
			continue
		}
		kept = append(kept, r)
	}
	if !found {
		return nil
	}

	if err := c.save(ctx, kept); err != nil {
		return err
	}
	c.log.Info("recipe deleted", "recipe_id", id)

	if c.onDelete != nil {
		if err := c.onDelete.RecipeDeleted(ctx, id); err != nil {
			return fmt.Errorf("failed to clean up references to recipe %s: %w", id, err)
		}
	}
	return nil
}

// Search filters the catalog by title substring and category.
func (c *Catalog) Search(ctx context.Context, f Filter) ([]Recipe, error) {
	recipes, err := c.List(ctx)
	if err != nil {
		return nil, err
	}

	query := strings.ToLower(strings.TrimSpace(f.Query))
	category := strings.TrimSpace(f.Category)

	out := make([]Recipe, 0, len(recipes))
	for _, r := range recipes {
		if query != "" && !strings.Contains(strings.ToLower(r.Title), query) {
			continue
		}
		if category != "" && category != AllCategories && r.Category != category {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// Categories returns the distinct categories in first-seen order.
func (c *Catalog) Categories(ctx context.Context) ([]string, error) {
	recipes, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var out []string
	for _, r := range recipes {
		if r.Category == "" || seen[r.Category] {
			continue
		}
		seen[r.Category] = true
		out = append(out, r.Category)
	}
	return out, nil
}

// SeedIfEmpty adds the given recipes when the catalog has none. It reports
// whether anything was added.
func (c *Catalog) SeedIfEmpty(ctx context.Context, samples []Fields) ([]Recipe, bool, error) {
	recipes, err := c.List(ctx)
	if err != nil {
		return nil, false, err
	}
	if len(recipes) > 0 {
		return nil, false, nil
	}

	added := make([]Recipe, 0, len(samples))
	for _, f := range samples {
		f = f.Normalize()
		if err := f.Validate(); err != nil {
			return nil, false, fmt.Errorf("invalid sample recipe %q: %w", f.Title, err)
		}
		rec := Recipe{ID: c.newID()}
		rec.apply(f)
		added = append(added, rec)
	}

	if err := c.save(ctx, added); err != nil {
		return nil, false, err
	}
	c.log.Info("seeded recipe catalog", "count", len(added))
	return added, true, nil
}

func (c *Catalog) save(ctx context.Context, recipes []Recipe) error {
	if err := storage.SaveJSON(ctx, c.store, StorageKey, recipes); err != nil {
		return fmt.Errorf("failed to save recipe catalog: %w", err)
	}
	return nil
}
