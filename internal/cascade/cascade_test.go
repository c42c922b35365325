package cascade

import (
	"context"
	"testing"

	"recipe-planner/internal/favorites"
	"recipe-planner/internal/logger"
	"recipe-planner/internal/menu"
	"recipe-planner/internal/recipe"
	"recipe-planner/internal/storage"
)

func strPtr(s string) *string { return &s }

func TestRecipeDeletedClearsAllUsers(t *testing.T) {
	ctx := context.Background()
	log := logger.Nop()
	store := storage.NewMemoryStore()

	favPart := favorites.NewPartition(store, log)
	daily := menu.NewDailyPartition(store, log)
	weekly := menu.NewWeeklyPartition(store, log)
	coord := NewCoordinator(favPart, daily, weekly, log)
	catalog := recipe.NewCatalog(store, coord, log)

	r, _ := catalog.Add(ctx, recipe.Fields{Title: "Doomed", Category: "X"})
	keep, _ := catalog.Add(ctx, recipe.Fields{Title: "Keeper", Category: "X"})

	for _, u := range []string{"u1", "u2"} {
		_ = favPart.Write(ctx, u, []string{r.ID, keep.ID})
		_ = daily.Write(ctx, u, menu.Slots{BreakfastID: strPtr(r.ID), LunchID: strPtr(keep.ID), DinnerID: strPtr(r.ID)})
	}
	w := menu.NewWeekly()
	w[menu.Monday] = menu.Slots{DinnerID: strPtr(r.ID)}
	w[menu.Sunday] = menu.Slots{BreakfastID: strPtr(r.ID), LunchID: strPtr(keep.ID)}
	_ = weekly.Write(ctx, "u2", w)
	_ = weekly.Write(ctx, "u3", menu.NewWeekly())

	if err := catalog.Delete(ctx, r.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	for _, u := range []string{"u1", "u2", "u3"} {
		favs, _ := favPart.Read(ctx, u)
		for _, id := range favs {
			if id == r.ID {
				t.Errorf("Expected %s favorites to lose %s", u, r.ID)
			}
		}
		d, _ := daily.Read(ctx, u)
		for _, id := range d.IDs() {
			if id == r.ID {
				t.Errorf("Expected %s daily menu to lose %s", u, r.ID)
			}
		}
		wk, _ := weekly.Read(ctx, u)
		for _, day := range menu.Days {
			for _, id := range wk[day].IDs() {
				if id == r.ID {
					t.Errorf("Expected %s weekly %s to lose %s", u, day, r.ID)
				}
			}
		}
	}

	favs, _ := favPart.Read(ctx, "u1")
	if len(favs) != 1 || favs[0] != keep.ID {
		t.Errorf("Expected unrelated favorite to survive, got %v", favs)
	}
	d, _ := daily.Read(ctx, "u2")
	if d.LunchID == nil || *d.LunchID != keep.ID {
		t.Errorf("Expected unrelated slot to survive, got %+v", d)
	}
	wk, _ := weekly.Read(ctx, "u2")
	if wk[menu.Sunday].LunchID == nil {
		t.Error("Expected unrelated weekly slot to survive")
	}
}

func TestSweepReport(t *testing.T) {
	ctx := context.Background()
	log := logger.Nop()
	store := storage.NewMemoryStore()

	favPart := favorites.NewPartition(store, log)
	daily := menu.NewDailyPartition(store, log)
	weekly := menu.NewWeeklyPartition(store, log)
	coord := NewCoordinator(favPart, daily, weekly, log)

	_ = favPart.Write(ctx, "u1", []string{"r1"})
	_ = favPart.Write(ctx, "u2", []string{"r1", "r2"})
	_ = daily.Write(ctx, "u1", menu.Slots{LunchID: strPtr("r1")})
	w := menu.NewWeekly()
	w[menu.Tuesday] = menu.Slots{BreakfastID: strPtr("r1"), DinnerID: strPtr("r1")}
	w[menu.Friday] = menu.Slots{LunchID: strPtr("r1")}
	_ = weekly.Write(ctx, "u1", w)

	report, err := coord.Sweep(ctx, "r1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	want := Report{Favorites: 2, DailySlots: 1, WeeklySlots: 3}
	if report != want {
		t.Errorf("Expected %+v, got %+v", want, report)
	}
	if report.Total() != 6 {
		t.Errorf("Expected 6 cleared references, got %d", report.Total())
	}

	t.Run("NothingLeft", func(t *testing.T) {
		report, err := coord.Sweep(ctx, "r1")
		if err != nil || report.Total() != 0 {
			t.Errorf("Expected empty second sweep, got %+v (%v)", report, err)
		}
	})
}
