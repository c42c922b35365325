package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"recipe-planner/internal/app"
	"recipe-planner/internal/config"
	"recipe-planner/internal/logger"
	"recipe-planner/internal/menu"
	"recipe-planner/internal/recipe"
	"recipe-planner/internal/shopping"

	"github.com/joho/godotenv"
)

var errUsage = errors.New("invalid usage")

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	lg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer lg.Sync()

	if len(os.Args) < 2 {
		printUsage(os.Stdout)
		os.Exit(1)
	}

	ctx := context.Background()
	application, cleanup, err := app.Open(ctx, cfg, lg)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer cleanup()

	if err := run(ctx, application, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			printUsage(os.Stdout)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cleanup()
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: recipe-planner <command> [arguments]")
	fmt.Fprintln(w, "\nAccount:")
	fmt.Fprintln(w, "  whoami                              Show the active user")
	fmt.Fprintln(w, "  signup <username> <email> <password> Register and log in")
	fmt.Fprintln(w, "  login <username|email> <password>   Log in")
	fmt.Fprintln(w, "  logout                              Switch back to the guest")
	fmt.Fprintln(w, "\nRecipes:")
	fmt.Fprintln(w, "  recipes [-q text] [-category name]  List recipes")
	fmt.Fprintln(w, "  categories                          List categories")
	fmt.Fprintln(w, "  show <id>                           Print a recipe as text")
	fmt.Fprintln(w, "  import [file]                       Add a recipe from text (stdin when no file)")
	fmt.Fprintln(w, "  clip <url>                          Add a recipe from a web page")
	fmt.Fprintln(w, "  delete <id>                         Delete a recipe")
	fmt.Fprintln(w, "  fav <id>                            Toggle a favorite")
	fmt.Fprintln(w, "  favorites                           List favorites")
	fmt.Fprintln(w, "\nMenus:")
	fmt.Fprintln(w, "  daily                               Show the daily menu")
	fmt.Fprintln(w, "  assign <id> <meal>                  Put a recipe into the daily menu")
	fmt.Fprintln(w, "  daily-clear                         Empty the daily menu")
	fmt.Fprintln(w, "  week                                Show the weekly menu")
	fmt.Fprintln(w, "  week-assign <day> <meal> [id]       Set or clear a weekly slot")
	fmt.Fprintln(w, "  week-clear                          Empty the weekly menu")
	fmt.Fprintln(w, "  calories                            Show menu calories")
	fmt.Fprintln(w, "\nShopping:")
	fmt.Fprintln(w, "  shop                                Build the shopping list from the menus")
	fmt.Fprintln(w, "  list                                Show the shopping list")
	fmt.Fprintln(w, "  check <n> / uncheck <n>             Mark item n")
	fmt.Fprintln(w, "  list-clear                          Empty the shopping list")
	fmt.Fprintln(w, "\nMaintenance:")
	fmt.Fprintln(w, "  stats [-days n]                     LLM usage and system health")
	fmt.Fprintln(w, "  metrics-cleanup [-days n]           Remove old usage records")
}

// run executes one command for the active local user.
func run(ctx context.Context, a *app.App, args []string, in io.Reader, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, rest := args[0], args[1:]

	current, err := a.CurrentUser(ctx)
	if err != nil {
		return err
	}
	uid := current.ID

	switch cmd {
	case "whoami":
		fmt.Fprintf(out, "%s (%s)\n", current.Username, current.ID)

	case "signup":
		if len(rest) != 3 {
			return errUsage
		}
		u, err := a.SignUp(ctx, rest[0], rest[1], rest[2])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Signed up as %s\n", u.Username)

	case "login":
		if len(rest) != 2 {
			return errUsage
		}
		u, err := a.LogIn(ctx, rest[0], rest[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Logged in as %s\n", u.Username)

	case "logout":
		if _, err := a.LogOut(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "Logged out")

	case "recipes":
		fs := flag.NewFlagSet("recipes", flag.ContinueOnError)
		fs.SetOutput(out)
		q := fs.String("q", "", "Title search")
		category := fs.String("category", recipe.AllCategories, "Category filter")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		recipes, err := a.SearchRecipes(ctx, recipe.Filter{Query: *q, Category: *category})
		if err != nil {
			return err
		}
		for _, r := range recipes {
			fmt.Fprintf(out, "%s  %s [%s]\n", r.ID, r.Title, r.Category)
		}

	case "categories":
		cats, err := a.Categories(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, strings.Join(cats, "\n"))

	case "show":
		if len(rest) != 1 {
			return errUsage
		}
		text, err := a.ExportRecipe(ctx, rest[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(out, text)

	case "import":
		src := in
		if len(rest) == 1 {
			f, err := os.Open(rest[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", rest[0], err)
			}
			defer f.Close()
			src = f
		}
		raw, err := io.ReadAll(src)
		if err != nil {
			return fmt.Errorf("failed to read recipe text: %w", err)
		}
		r, err := a.ImportRecipe(ctx, string(raw))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Imported %s (%s)\n", r.Title, r.ID)

	case "clip":
		if len(rest) != 1 {
			return errUsage
		}
		r, err := a.ClipRecipe(ctx, rest[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Saved %s (%s)\n", r.Title, r.ID)

	case "delete":
		if len(rest) != 1 {
			return errUsage
		}
		if err := a.DeleteRecipe(ctx, rest[0]); err != nil {
			return err
		}
		fmt.Fprintln(out, "Deleted")

	case "fav":
		if len(rest) != 1 {
			return errUsage
		}
		on, err := a.ToggleFavorite(ctx, uid, rest[0])
		if err != nil {
			return err
		}
		if on {
			fmt.Fprintln(out, "Added to favorites")
		} else {
			fmt.Fprintln(out, "Removed from favorites")
		}

	case "favorites":
		recipes, err := a.FavoriteRecipes(ctx, uid)
		if err != nil {
			return err
		}
		for _, r := range recipes {
			fmt.Fprintf(out, "%s  %s\n", r.ID, r.Title)
		}

	case "daily":
		text, err := a.ShareDailyMenu(ctx, uid)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, text)

	case "assign":
		if len(rest) < 2 {
			return errUsage
		}
		meal, err := a.AssignToSlot(ctx, uid, rest[0], strings.Join(rest[1:], " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Assigned to %s\n", meal)

	case "daily-clear":
		if err := a.ClearDailyMenu(ctx, uid); err != nil {
			return err
		}
		fmt.Fprintln(out, "Daily menu cleared")

	case "week":
		text, err := a.ShareWeeklyMenu(ctx, uid)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, text)

	case "week-assign":
		if len(rest) < 2 || len(rest) > 3 {
			return errUsage
		}
		recipeID := ""
		if len(rest) == 3 {
			recipeID = rest[2]
		}
		day, meal, err := a.AssignWeeklySlot(ctx, uid, rest[0], rest[1], recipeID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Updated %s %s\n", day, meal)

	case "week-clear":
		if err := a.ClearWeeklyMenu(ctx, uid); err != nil {
			return err
		}
		fmt.Fprintln(out, "Weekly menu cleared")

	case "calories":
		sum, err := a.Calories(ctx, uid)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, menu.CaloriesText(false, sum.Daily))
		fmt.Fprintln(out, menu.CaloriesText(true, sum.Weekly))

	case "shop":
		list, err := a.GenerateShoppingList(ctx, uid)
		if err != nil {
			return err
		}
		printList(out, list)

	case "list":
		list, err := a.ShoppingList(ctx, uid)
		if err != nil {
			return err
		}
		printList(out, list)

	case "check", "uncheck":
		if len(rest) != 1 {
			return errUsage
		}
		n, err := strconv.Atoi(rest[0])
		if err != nil {
			return fmt.Errorf("%w: item number must be an integer", errUsage)
		}
		list, err := a.SetShoppingItemChecked(ctx, uid, n-1, cmd == "check")
		if err != nil {
			return err
		}
		printList(out, list)

	case "list-clear":
		if err := a.ClearShoppingList(ctx, uid); err != nil {
			return err
		}
		fmt.Fprintln(out, "Shopping list cleared")

	case "stats":
		fs := flag.NewFlagSet("stats", flag.ContinueOnError)
		fs.SetOutput(out)
		days := fs.Int("days", 7, "Report the last N days")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		usage, err := a.LLMUsage(ctx, *days)
		if err != nil {
			return err
		}
		for _, d := range usage {
			fmt.Fprintf(out, "%s: %d tokens (%d execs)\n", d.Date, d.TotalPrompt+d.TotalCompletion, d.TotalExecution)
		}
		h := a.Health()
		fmt.Fprintf(out, "RAM: %dMB alloc / %dMB sys, goroutines: %d, uptime: %s, data: %s\n",
			h.AllocMB, h.SysMB, h.Goroutines, h.Uptime, h.DataDiskSize)

	case "metrics-cleanup":
		fs := flag.NewFlagSet("metrics-cleanup", flag.ContinueOnError)
		fs.SetOutput(out)
		days := fs.Int("days", 30, "Keep records for the last N days")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		removed, err := a.CleanupMetrics(ctx, *days)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Successfully removed %d old metric records.\n", removed)

	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
	return nil
}

func printList(out io.Writer, list shopping.List) {
	if len(list) == 0 {
		fmt.Fprintln(out, "Shopping list is empty")
		return
	}
	for i, it := range list {
		mark := " "
		if it.Checked {
			mark = "x"
		}
		fmt.Fprintf(out, "%2d. [%s] %s\n", i+1, mark, it.Text)
	}
	fmt.Fprintf(out, "%d of %d left\n", list.Remaining(), len(list))
}
