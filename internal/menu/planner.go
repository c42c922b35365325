package menu

import (
	"context"
	"fmt"

	"recipe-planner/internal/logger"
	"recipe-planner/internal/partition"
	"recipe-planner/internal/recipe"
	"recipe-planner/internal/storage"
)

const (
	DailyKey  = "rp_dailyMenuByUser"
	WeeklyKey = "rp_weeklyMenuByUser"
)

// Recipes is the part of the catalog the planner reads.
type Recipes interface {
	FindByID(ctx context.Context, id string) (recipe.Recipe, bool, error)
	Index(ctx context.Context) (map[string]recipe.Recipe, error)
}

// NewDailyPartition returns the per-user daily menu partition.
func NewDailyPartition(store storage.Store, log *logger.Logger) *partition.Partition[Slots] {
	return partition.New(store, DailyKey, func() Slots { return Slots{} },
		partition.WithLogger[Slots](log))
}

// NewWeeklyPartition returns the per-user weekly menu partition. Reads
// always carry the seven canonical days and nothing else.
func NewWeeklyPartition(store storage.Store, log *logger.Logger) *partition.Partition[Weekly] {
	return partition.New(store, WeeklyKey, NewWeekly,
		partition.WithFill(FillWeekly),
		partition.WithLogger[Weekly](log))
}

// Planner manages each user's daily and weekly menus.
type Planner struct {
	daily   *partition.Partition[Slots]
	weekly  *partition.Partition[Weekly]
	recipes Recipes
	log     *logger.Logger
}

// NewPlanner creates a Planner.
func NewPlanner(daily *partition.Partition[Slots], weekly *partition.Partition[Weekly], recipes Recipes, log *logger.Logger) *Planner {
	return &Planner{
		daily:   daily,
		weekly:  weekly,
		recipes: recipes,
		log:     log,
	}
}

func (p *Planner) GetDaily(ctx context.Context, userID string) (Slots, error) {
	return p.daily.Read(ctx, userID)
}

// SetDaily stores slots as given. Every filled slot must name an existing
// recipe.
func (p *Planner) SetDaily(ctx context.Context, userID string, slots Slots) error {
	if err := p.requireSlots(ctx, slots); err != nil {
		return err
	}
	return p.saveDaily(ctx, userID, slots)
}

func (p *Planner) saveDaily(ctx context.Context, userID string, slots Slots) error {
	if err := p.daily.Write(ctx, userID, slots); err != nil {
		return fmt.Errorf("failed to save daily menu: %w", err)
	}
	return nil
}

// ClearDaily empties all three daily slots.
func (p *Planner) ClearDaily(ctx context.Context, userID string) error {
	return p.saveDaily(ctx, userID, Slots{})
}

func (p *Planner) GetWeekly(ctx context.Context, userID string) (Weekly, error) {
	return p.weekly.Read(ctx, userID)
}

// SetWeekly stores the week as given. Reads expose exactly the canonical
// days whatever was written. Every filled slot must name an existing recipe.
func (p *Planner) SetWeekly(ctx context.Context, userID string, week Weekly) error {
	for _, slots := range week {
		if err := p.requireSlots(ctx, slots); err != nil {
			return err
		}
	}
	return p.saveWeekly(ctx, userID, week)
}

func (p *Planner) saveWeekly(ctx context.Context, userID string, week Weekly) error {
	if err := p.weekly.Write(ctx, userID, week); err != nil {
		return fmt.Errorf("failed to save weekly menu: %w", err)
	}
	return nil
}

// ClearWeekly empties every slot of the week.
func (p *Planner) ClearWeekly(ctx context.Context, userID string) error {
	return p.saveWeekly(ctx, userID, NewWeekly())
}

// AssignToSlot puts recipeID into the daily slot named by a free-text
// label such as "сніданок" or "Dinner".
func (p *Planner) AssignToSlot(ctx context.Context, userID, recipeID, label string) (Meal, error) {
	meal := ResolveMeal(label)
	if meal == Unrecognized {
		return Unrecognized, fmt.Errorf("%w: %q", ErrUnrecognizedMealLabel, label)
	}
	if err := p.requireRecipe(ctx, recipeID); err != nil {
		return Unrecognized, err
	}

	slots, err := p.daily.Read(ctx, userID)
	if err != nil {
		return Unrecognized, err
	}
	slots.Set(meal, recipeID)
	if err := p.saveDaily(ctx, userID, slots); err != nil {
		return Unrecognized, err
	}

	p.log.Info("assigned recipe to daily menu", "user_id", userID, "recipe_id", recipeID, "meal", meal.String())
	return meal, nil
}

// AssignWeeklySlot puts recipeID into one meal of one weekday. An empty
// recipeID clears the slot.
func (p *Planner) AssignWeeklySlot(ctx context.Context, userID, dayLabel, mealLabel, recipeID string) (Day, Meal, error) {
	day, ok := ResolveDay(dayLabel)
	if !ok {
		return "", Unrecognized, fmt.Errorf("%w: %q", ErrUnrecognizedDay, dayLabel)
	}
	meal := ResolveMeal(mealLabel)
	if meal == Unrecognized {
		return "", Unrecognized, fmt.Errorf("%w: %q", ErrUnrecognizedMealLabel, mealLabel)
	}
	if recipeID != "" {
		if err := p.requireRecipe(ctx, recipeID); err != nil {
			return "", Unrecognized, err
		}
	}

	week, err := p.weekly.Read(ctx, userID)
	if err != nil {
		return "", Unrecognized, err
	}
	slots := week[day]
	slots.Set(meal, recipeID)
	week[day] = slots
	if err := p.saveWeekly(ctx, userID, week); err != nil {
		return "", Unrecognized, err
	}

	p.log.Info("assigned recipe to weekly menu", "user_id", userID, "recipe_id", recipeID, "day", string(day), "meal", meal.String())
	return day, meal, nil
}

// ReferencedRecipeIDs returns every recipe id in the user's menus without
// duplicates: daily breakfast, lunch, dinner first, then each weekday in
// canonical order.
func (p *Planner) ReferencedRecipeIDs(ctx context.Context, userID string) ([]string, error) {
	daily, err := p.daily.Read(ctx, userID)
	if err != nil {
		return nil, err
	}
	week, err := p.weekly.Read(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var ids []string
	add := func(s Slots) {
		for _, id := range s.IDs() {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	add(daily)
	for _, d := range Days {
		add(week[d])
	}
	return ids, nil
}

// DailyCalories sums calories per serving over the filled daily slots.
// Unknown calories and dangling ids count as zero.
func (p *Planner) DailyCalories(ctx context.Context, userID string) (int, error) {
	daily, err := p.daily.Read(ctx, userID)
	if err != nil {
		return 0, err
	}
	idx, err := p.recipes.Index(ctx)
	if err != nil {
		return 0, err
	}
	return sumCalories(daily, idx), nil
}

// WeeklyCalories sums calories per serving over every filled slot of the
// week.
func (p *Planner) WeeklyCalories(ctx context.Context, userID string) (int, error) {
	week, err := p.weekly.Read(ctx, userID)
	if err != nil {
		return 0, err
	}
	idx, err := p.recipes.Index(ctx)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, d := range Days {
		total += sumCalories(week[d], idx)
	}
	return total, nil
}

func sumCalories(s Slots, idx map[string]recipe.Recipe) int {
	total := 0
	for _, id := range s.IDs() {
		if r, ok := idx[id]; ok {
			total += r.Calories()
		}
	}
	return total
}

func (p *Planner) requireRecipe(ctx context.Context, recipeID string) error {
	_, ok, err := p.recipes.FindByID(ctx, recipeID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("failed to assign recipe %s: %w", recipeID, recipe.ErrNotFound)
	}
	return nil
}

func (p *Planner) requireSlots(ctx context.Context, slots Slots) error {
	for _, id := range slots.IDs() {
		if err := p.requireRecipe(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
