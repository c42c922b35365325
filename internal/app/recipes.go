package app

import (
	"context"
	"fmt"

	"recipe-planner/internal/recipe"
)

const clipperAgent = "Clipper"

func (a *App) ListRecipes(ctx context.Context) ([]recipe.Recipe, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.catalog.List(ctx)
}

func (a *App) SearchRecipes(ctx context.Context, f recipe.Filter) ([]recipe.Recipe, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.catalog.Search(ctx, f)
}

func (a *App) Categories(ctx context.Context) ([]string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.catalog.Categories(ctx)
}

// GetRecipe returns the recipe or an error matching recipe.ErrNotFound.
func (a *App) GetRecipe(ctx context.Context, id string) (recipe.Recipe, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.getRecipe(ctx, id)
}

func (a *App) CreateRecipe(ctx context.Context, f recipe.Fields) (recipe.Recipe, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.catalog.Add(ctx, f)
}

func (a *App) UpdateRecipe(ctx context.Context, id string, f recipe.Fields) (recipe.Recipe, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.catalog.Update(ctx, id, f)
}

// DeleteRecipe removes the recipe and every favorite and menu slot
// pointing at it.
func (a *App) DeleteRecipe(ctx context.Context, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.catalog.Delete(ctx, id)
}

// ExportRecipe renders a recipe in the plain-text interchange format.
func (a *App) ExportRecipe(ctx context.Context, id string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	r, err := a.getRecipe(ctx, id)
	if err != nil {
		return "", err
	}
	return recipe.FormatText(r), nil
}

// ImportRecipe parses text in the interchange format and adds it as a new
// recipe.
func (a *App) ImportRecipe(ctx context.Context, text string) (recipe.Recipe, error) {
	f, err := recipe.ParseText(text)
	if err != nil {
		return recipe.Recipe{}, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.catalog.Add(ctx, f)
}

// ClipRecipe imports a recipe from a web page.
func (a *App) ClipRecipe(ctx context.Context, url string) (recipe.Recipe, error) {
	// The page fetch and LLM call run outside the lock.
	res, err := a.clipper.ClipURL(ctx, url)
	if err != nil {
		return recipe.Recipe{}, fmt.Errorf("failed to clip %s: %w", url, err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.metrics.RecordUsage(ctx, clipperAgent, res.Usage, res.Latency); err != nil {
		a.log.Warn("failed to record llm usage", "error", err)
	}
	return a.catalog.Add(ctx, res.Fields)
}

func (a *App) getRecipe(ctx context.Context, id string) (recipe.Recipe, error) {
	r, ok, err := a.catalog.FindByID(ctx, id)
	if err != nil {
		return recipe.Recipe{}, err
	}
	if !ok {
		return recipe.Recipe{}, fmt.Errorf("%w: %s", recipe.ErrNotFound, id)
	}
	return r, nil
}

// ToggleFavorite flips the recipe in or out of the user's favorites and
// returns whether it is a favorite afterwards.
func (a *App) ToggleFavorite(ctx context.Context, userID, recipeID string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, err := a.getRecipe(ctx, recipeID); err != nil {
		return false, err
	}
	return a.favorites.Toggle(ctx, userID, recipeID)
}

func (a *App) FavoriteRecipes(ctx context.Context, userID string) ([]recipe.Recipe, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.favorites.Recipes(ctx, userID)
}

func (a *App) FavoriteIDs(ctx context.Context, userID string) ([]string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.favorites.IDs(ctx, userID)
}
