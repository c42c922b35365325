package app

import (
	"context"
	"fmt"
	"sync"

	"recipe-planner/internal/cascade"
	"recipe-planner/internal/clipper"
	"recipe-planner/internal/config"
	"recipe-planner/internal/favorites"
	"recipe-planner/internal/llm"
	"recipe-planner/internal/logger"
	"recipe-planner/internal/menu"
	"recipe-planner/internal/metrics"
	"recipe-planner/internal/recipe"
	"recipe-planner/internal/shopping"
	"recipe-planner/internal/storage"
	"recipe-planner/internal/user"
)

// guestFavoriteSamples are the sample recipes favorited for the guest on
// first start, by position.
var guestFavoriteSamples = []int{0, 3}

// App holds the application's dependencies. Every exported method runs
// under one lock, so front ends serving many users still act as a single
// writer against the store.
type App struct {
	mu  sync.Mutex
	cfg *config.Config
	log *logger.Logger

	users     *user.Registry
	session   *user.Session
	catalog   *recipe.Catalog
	favorites *favorites.Service
	planner   *menu.Planner
	shopping  *shopping.Aggregator
	clipper   *clipper.Clipper
	metrics   *metrics.Store
}

// New wires the application over store. textGen may be nil.
func New(store storage.Store, textGen llm.TextGenerator, cfg *config.Config, log *logger.Logger) *App {
	favPart := favorites.NewPartition(store, log)
	daily := menu.NewDailyPartition(store, log)
	weekly := menu.NewWeeklyPartition(store, log)

	coord := cascade.NewCoordinator(favPart, daily, weekly, log)
	catalog := recipe.NewCatalog(store, coord, log)
	planner := menu.NewPlanner(daily, weekly, catalog, log)
	users := user.NewRegistry(store, log)

	if textGen != nil {
		textGen = llm.NewCachedTextGenerator(textGen, store, log, llm.WithMaxEntries(cfg.LLMCacheMaxEntries))
	}

	return &App{
		cfg:       cfg,
		log:       log,
		users:     users,
		session:   user.NewSession(store, users, log),
		catalog:   catalog,
		favorites: favorites.NewService(favPart, catalog, log),
		planner:   planner,
		shopping:  shopping.NewAggregator(shopping.NewPartition(store, log), planner, catalog, log),
		clipper:   clipper.NewClipper(textGen, cfg.ClipperTimeout, log),
		metrics:   metrics.NewStore(store),
	}
}

// Init makes sure the guest user exists and, when enabled, seeds an empty
// catalog with sample recipes and guest favorites.
func (a *App) Init(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	guest, err := a.users.EnsureGuest(ctx)
	if err != nil {
		return fmt.Errorf("failed to create guest user: %w", err)
	}
	if !a.cfg.SeedSampleData {
		return nil
	}

	added, seeded, err := a.catalog.SeedIfEmpty(ctx, recipe.Samples())
	if err != nil {
		return fmt.Errorf("failed to seed sample recipes: %w", err)
	}
	if !seeded {
		return nil
	}

	var favs []string
	for _, i := range guestFavoriteSamples {
		if i < len(added) {
			favs = append(favs, added[i].ID)
		}
	}
	if err := a.favorites.Set(ctx, guest.ID, favs); err != nil {
		return fmt.Errorf("failed to seed guest favorites: %w", err)
	}
	return nil
}

// Health reports process metrics and the size of persisted state.
func (a *App) Health() metrics.SysHealth {
	switch a.cfg.StoreDriver {
	case config.DriverSQLite, "":
		return metrics.GetSysHealth(a.cfg.DatabasePath)
	case config.DriverFile:
		return metrics.GetSysHealth(a.cfg.DataDir)
	default:
		return metrics.GetSysHealth("")
	}
}

// LLMUsage returns token usage of recipe clipping for the last days days.
func (a *App) LLMUsage(ctx context.Context, days int) ([]metrics.DailyUsage, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.metrics.GetDailyUsage(ctx, days)
}

// CleanupMetrics removes LLM usage records older than days and returns
// how many were removed.
func (a *App) CleanupMetrics(ctx context.Context, days int) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.metrics.Cleanup(ctx, days)
}
