package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"recipe-planner/internal/app"
	"recipe-planner/internal/config"
	"recipe-planner/internal/logger"
	"recipe-planner/internal/metrics"
	"recipe-planner/internal/recipe"
	"recipe-planner/internal/shopping"
	"recipe-planner/internal/storage"
	"recipe-planner/internal/user"
)

func newTestBot(t *testing.T, allowed ...int64) (*Bot, user.User) {
	t.Helper()
	ctx := context.Background()
	cfg := &config.Config{SeedSampleData: true, TelegramAllowedUserIDs: allowed}
	a := app.New(storage.NewMemoryStore(), nil, cfg, logger.Nop())
	if err := a.Init(ctx); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	u, err := a.LinkExternalUser(ctx, ExternalUserID(42), "cook")
	if err != nil {
		t.Fatalf("LinkExternalUser failed: %v", err)
	}
	return &Bot{app: a, cfg: cfg, log: logger.Nop()}, u
}

func TestIsAllowed(t *testing.T) {
	open, _ := newTestBot(t)
	if !open.isAllowed(7) {
		t.Error("Expected an empty allow list to admit everyone")
	}

	closed, _ := newTestBot(t, 1, 2)
	if !closed.isAllowed(2) || closed.isAllowed(3) {
		t.Error("Expected only listed ids to be admitted")
	}
}

func TestMenuCommands(t *testing.T) {
	ctx := context.Background()
	b, u := newTestBot(t)
	recipes, _ := b.app.ListRecipes(ctx)

	rep := b.handleCommand(ctx, u, "assign", recipes[0].ID+" сніданок")
	if !strings.Contains(rep.Text, "Сніданок") {
		t.Errorf("Expected confirmation naming the meal, got %q", rep.Text)
	}

	rep = b.handleCommand(ctx, u, "daily", "")
	if !strings.Contains(rep.Text, "Сніданок: "+recipes[0].Title) {
		t.Errorf("Expected daily menu with assigned recipe, got %q", rep.Text)
	}

	rep = b.handleCommand(ctx, u, "assign", recipes[0].ID+" полуденок")
	if !strings.HasPrefix(rep.Text, "❌ Невідомий прийом їжі") {
		t.Errorf("Expected unrecognized meal message, got %q", rep.Text)
	}

	rep = b.handleCommand(ctx, u, "weekassign", "Пт вечеря "+recipes[1].ID)
	if !strings.Contains(rep.Text, "Пт") {
		t.Errorf("Expected weekly confirmation, got %q", rep.Text)
	}
	rep = b.handleCommand(ctx, u, "weekassign", "Пт вечеря")
	if !strings.HasPrefix(rep.Text, "Очищено") {
		t.Errorf("Expected cleared slot, got %q", rep.Text)
	}

	rep = b.handleCommand(ctx, u, "calories", "")
	if !strings.Contains(rep.Text, fmt.Sprintf("~%d ккал", recipes[0].Calories())) {
		t.Errorf("Expected daily calories, got %q", rep.Text)
	}
}

func TestShoppingCommands(t *testing.T) {
	ctx := context.Background()
	b, u := newTestBot(t)
	recipes, _ := b.app.ListRecipes(ctx)

	rep := b.handleCommand(ctx, u, "shop", "")
	if rep.Text != "❌ Спочатку додайте страви в меню." {
		t.Errorf("Expected empty menu message, got %q", rep.Text)
	}

	b.handleCommand(ctx, u, "assign", recipes[1].ID+" обід")
	rep = b.handleCommand(ctx, u, "shop", "")
	if rep.Keyboard == nil || len(rep.Keyboard.InlineKeyboard) != len(recipes[1].Ingredients) {
		t.Fatalf("Expected one button per ingredient, got %+v", rep.Keyboard)
	}

	rep = b.handleCommand(ctx, u, "check", "1")
	if !strings.Contains(rep.Text, "1. ✅") {
		t.Errorf("Expected first item checked, got %q", rep.Text)
	}
	rep = b.handleCommand(ctx, u, "check", "1")
	if !strings.Contains(rep.Text, "1. ⬜") {
		t.Errorf("Expected first item unchecked again, got %q", rep.Text)
	}

	rep = b.handleCommand(ctx, u, "check", "99")
	if rep.Text != "❌ Немає покупки з таким номером." {
		t.Errorf("Expected out of range message, got %q", rep.Text)
	}
}

func TestRecipeCommands(t *testing.T) {
	ctx := context.Background()
	b, u := newTestBot(t)
	recipes, _ := b.app.ListRecipes(ctx)

	rep := b.handleCommand(ctx, u, "recipes", "омлет")
	if !strings.Contains(rep.Text, recipes[0].ID) || strings.Contains(rep.Text, recipes[1].ID) {
		t.Errorf("Expected only the matching recipe, got %q", rep.Text)
	}

	rep = b.handleCommand(ctx, u, "fav", recipes[2].ID)
	if !strings.HasPrefix(rep.Text, "⭐") {
		t.Errorf("Expected favorite added, got %q", rep.Text)
	}
	rep = b.handleCommand(ctx, u, "favorites", "")
	if !strings.Contains(rep.Text, recipes[2].Title) {
		t.Errorf("Expected favorites to list %q, got %q", recipes[2].Title, rep.Text)
	}

	exported := b.handleCommand(ctx, u, "recipe", recipes[2].ID).Text
	rep = b.handleText(ctx, u, exported)
	if !strings.HasPrefix(rep.Text, "✅ Рецепт імпортовано: "+recipes[2].Title) {
		t.Errorf("Expected import confirmation, got %q", rep.Text)
	}

	rep = b.handleCommand(ctx, u, "delete", recipes[2].ID)
	if !strings.HasPrefix(rep.Text, "🗑") {
		t.Errorf("Expected delete confirmation, got %q", rep.Text)
	}
	rep = b.handleCommand(ctx, u, "favorites", "")
	if rep.Text != "Улюблених рецептів поки немає." {
		t.Errorf("Expected favorites emptied by delete, got %q", rep.Text)
	}

	rep = b.handleCommand(ctx, u, "recipe", "r_missing")
	if rep.Text != "❌ Рецепт не знайдено." {
		t.Errorf("Expected not found message, got %q", rep.Text)
	}
}

func TestUserMessage(t *testing.T) {
	err := fmt.Errorf("failed to add recipe: %w", &recipe.ValidationError{Missing: []string{"title", "category"}})
	if got := userMessage(err); got != "Не заповнені обов'язкові поля: title, category" {
		t.Errorf("Unexpected validation message: %q", got)
	}

	internal := errors.New("open /var/lib/planner/store/rp_recipes.json: permission denied")
	got := userMessage(fmt.Errorf("failed to save: %w", internal))
	if got != genericFailure {
		t.Errorf("Expected generic failure text, got %q", got)
	}
	if strings.Contains(got, "/var/lib") {
		t.Errorf("Expected internal details to stay out of the chat, got %q", got)
	}
}

func TestShoppingReply(t *testing.T) {
	if rep := shoppingReply(nil); rep.Keyboard != nil {
		t.Error("Expected no keyboard for an empty list")
	}

	rep := shoppingReply(shopping.List{{Text: "Яйця  ×2", Checked: true}, {Text: "Сіль"}})
	if !strings.Contains(rep.Text, "залишилось 1 з 2") {
		t.Errorf("Expected remaining count, got %q", rep.Text)
	}
	data := rep.Keyboard.InlineKeyboard[1][0].CallbackData
	if data == nil || *data != "check|1" {
		t.Errorf("Expected callback data check|1, got %v", data)
	}
}

func TestFormatStats(t *testing.T) {
	out := formatStats(
		[]metrics.DailyUsage{{Date: "2026-10-01", TotalPrompt: 100, TotalCompletion: 20, TotalExecution: 2}},
		metrics.SysHealth{AllocMB: 5, SysMB: 12, Goroutines: 8, DataDiskSize: "1.0 KB"},
	)
	if !strings.Contains(out, "• *2026-10-01*: 120 tokens (2 execs)") {
		t.Errorf("Missing usage line in %q", out)
	}
	if !strings.Contains(out, "• RAM: 5MB (Alloc) / 12MB (Sys)") {
		t.Errorf("Missing RAM line in %q", out)
	}
}
