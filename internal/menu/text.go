package menu

import (
	"fmt"
	"strings"

	"recipe-planner/internal/recipe"
)

const (
	emptySlotText    = "не обрано"
	danglingSlotText = "—"
)

// FormatDailyText renders the daily menu as shareable text.
func FormatDailyText(s Slots, idx map[string]recipe.Recipe) string {
	lines := []string{"Денне меню:"}
	for _, m := range Meals {
		lines = append(lines, fmt.Sprintf("%s: %s", m, slotTitle(s.Get(m), idx)))
	}
	return strings.Join(lines, "\n")
}

// FormatWeeklyText renders the weekly menu as shareable text.
func FormatWeeklyText(w Weekly, idx map[string]recipe.Recipe) string {
	lines := []string{"Тижневе меню:"}
	for _, d := range Days {
		lines = append(lines, "", string(d)+":")
		s := w[d]
		for _, m := range Meals {
			lines = append(lines, fmt.Sprintf("  %s: %s", m, slotTitle(s.Get(m), idx)))
		}
	}
	return strings.Join(lines, "\n")
}

// CaloriesText describes a calorie total for the daily or weekly menu.
func CaloriesText(weekly bool, total int) string {
	scope := "денного"
	if weekly {
		scope = "тижневого"
	}
	if total <= 0 {
		return fmt.Sprintf("Калорійність %s меню буде показана після вибору страв з вказаними калоріями.", scope)
	}
	return fmt.Sprintf("Орієнтовна калорійність %s меню: ~%d ккал.", scope, total)
}

func slotTitle(id *string, idx map[string]recipe.Recipe) string {
	if id == nil {
		return emptySlotText
	}
	if r, ok := idx[*id]; ok {
		return r.Title
	}
	return danglingSlotText
}
