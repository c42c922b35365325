package app

import (
	"context"

	"recipe-planner/internal/menu"
	"recipe-planner/internal/shopping"
)

// CalorieSummary holds the calorie totals of a user's menus.
type CalorieSummary struct {
	Daily  int `json:"daily"`
	Weekly int `json:"weekly"`
}

func (a *App) DailyMenu(ctx context.Context, userID string) (menu.Slots, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.planner.GetDaily(ctx, userID)
}

func (a *App) SetDailyMenu(ctx context.Context, userID string, s menu.Slots) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.planner.SetDaily(ctx, userID, s)
}

func (a *App) ClearDailyMenu(ctx context.Context, userID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.planner.ClearDaily(ctx, userID)
}

// AssignToSlot puts a recipe into the daily slot named by a free-text
// meal label.
func (a *App) AssignToSlot(ctx context.Context, userID, recipeID, label string) (menu.Meal, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.planner.AssignToSlot(ctx, userID, recipeID, label)
}

func (a *App) WeeklyMenu(ctx context.Context, userID string) (menu.Weekly, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.planner.GetWeekly(ctx, userID)
}

func (a *App) SetWeeklyMenu(ctx context.Context, userID string, w menu.Weekly) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.planner.SetWeekly(ctx, userID, w)
}

func (a *App) ClearWeeklyMenu(ctx context.Context, userID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.planner.ClearWeekly(ctx, userID)
}

// AssignWeeklySlot puts a recipe into one meal of one weekday. An empty
// recipeID clears the slot.
func (a *App) AssignWeeklySlot(ctx context.Context, userID, day, meal, recipeID string) (menu.Day, menu.Meal, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.planner.AssignWeeklySlot(ctx, userID, day, meal, recipeID)
}

func (a *App) Calories(ctx context.Context, userID string) (CalorieSummary, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	daily, err := a.planner.DailyCalories(ctx, userID)
	if err != nil {
		return CalorieSummary{}, err
	}
	weekly, err := a.planner.WeeklyCalories(ctx, userID)
	if err != nil {
		return CalorieSummary{}, err
	}
	return CalorieSummary{Daily: daily, Weekly: weekly}, nil
}

// ShareDailyMenu renders the user's daily menu as text.
func (a *App) ShareDailyMenu(ctx context.Context, userID string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	daily, err := a.planner.GetDaily(ctx, userID)
	if err != nil {
		return "", err
	}
	idx, err := a.catalog.Index(ctx)
	if err != nil {
		return "", err
	}
	return menu.FormatDailyText(daily, idx), nil
}

// ShareWeeklyMenu renders the user's weekly menu as text.
func (a *App) ShareWeeklyMenu(ctx context.Context, userID string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	week, err := a.planner.GetWeekly(ctx, userID)
	if err != nil {
		return "", err
	}
	idx, err := a.catalog.Index(ctx)
	if err != nil {
		return "", err
	}
	return menu.FormatWeeklyText(week, idx), nil
}

// GenerateShoppingList rebuilds the user's shopping list from their menus.
func (a *App) GenerateShoppingList(ctx context.Context, userID string) (shopping.List, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.shopping.Generate(ctx, userID)
}

func (a *App) ShoppingList(ctx context.Context, userID string) (shopping.List, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.shopping.Get(ctx, userID)
}

func (a *App) SetShoppingItemChecked(ctx context.Context, userID string, index int, checked bool) (shopping.List, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.shopping.ToggleChecked(ctx, userID, index, checked)
}

// ToggleShoppingItem flips the checked flag of the item at index.
func (a *App) ToggleShoppingItem(ctx context.Context, userID string, index int) (shopping.List, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	list, err := a.shopping.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	checked := true
	if index >= 0 && index < len(list) {
		checked = !list[index].Checked
	}
	return a.shopping.ToggleChecked(ctx, userID, index, checked)
}

func (a *App) ClearShoppingList(ctx context.Context, userID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.shopping.Clear(ctx, userID)
}

// ShareShoppingList renders the user's shopping list as text. It is empty
// when the list is.
func (a *App) ShareShoppingList(ctx context.Context, userID string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	list, err := a.shopping.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	return shopping.FormatText(list), nil
}
