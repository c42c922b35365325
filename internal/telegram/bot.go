package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"recipe-planner/internal/app"
	"recipe-planner/internal/clipper"
	"recipe-planner/internal/config"
	"recipe-planner/internal/logger"
	"recipe-planner/internal/menu"
	"recipe-planner/internal/recipe"
	"recipe-planner/internal/shopping"
	"recipe-planner/internal/user"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	checkCallbackPrefix = "check|"
	requestTimeout      = time.Minute
	statsDays           = 7
)

const helpText = `Команди:
/recipes [пошук] - список рецептів
/recipe <id> - рецепт у текстовому форматі
/fav <id> - додати або прибрати з улюблених
/favorites - улюблені рецепти
/daily - денне меню
/assign <id> <прийом їжі> - додати страву в денне меню
/week - тижневе меню
/weekassign <день> <прийом їжі> [id] - змінити тижневе меню
/calories - калорійність меню
/shop - сформувати список покупок
/list - список покупок
/check <номер> - відмітити покупку
/clearlist - очистити список покупок
/delete <id> - видалити рецепт
/stats - статистика

Надішліть посилання, щоб імпортувати рецепт зі сторінки, або текст рецепта, щоб додати його.`

// reply is what the bot answers to one message.
type reply struct {
	Text     string
	Keyboard *tgbotapi.InlineKeyboardMarkup
	Markdown bool
}

// Bot serves the planner over a Telegram webhook. Each Telegram account
// is mapped to its own user.
type Bot struct {
	api *tgbotapi.BotAPI
	app *app.App
	cfg *config.Config
	log *logger.Logger
}

// NewBot initializes the Telegram API client and sets the webhook.
func NewBot(cfg *config.Config, a *app.App, log *logger.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	log.Info("authorized on telegram", "account", api.Self.UserName)

	wh, err := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	if err != nil {
		return nil, fmt.Errorf("failed to build webhook config: %w", err)
	}
	resp, err := api.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Info("webhook set", "description", resp.Description)

	return &Bot{api: api, app: a, cfg: cfg, log: log}, nil
}

// RegisterHandlers registers the webhook and health handlers on mux.
func (b *Bot) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/webhook", b.handleWebhook)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		b.log.Warn("failed to parse update", "error", err)
		return
	}

	if update.CallbackQuery != nil {
		if b.isAllowed(update.CallbackQuery.From.ID) {
			go b.handleCallbackQuery(update.CallbackQuery)
		}
		return
	}

	if update.Message == nil || update.Message.From == nil {
		return
	}
	if !b.isAllowed(update.Message.From.ID) {
		b.log.Warn("unauthorized access attempt", "telegram_id", update.Message.From.ID, "username", update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

// isAllowed reports whether the Telegram account may use the bot. An
// empty allow list admits everyone.
func (b *Bot) isAllowed(id int64) bool {
	if len(b.cfg.TelegramAllowedUserIDs) == 0 {
		return true
	}
	for _, allowed := range b.cfg.TelegramAllowedUserIDs {
		if allowed == id {
			return true
		}
	}
	return false
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	u, err := b.userFor(ctx, msg.From)
	if err != nil {
		b.log.Error("failed to resolve telegram user", "telegram_id", msg.From.ID, "error", err)
		return
	}

	var rep reply
	if msg.IsCommand() {
		rep = b.handleCommand(ctx, u, msg.Command(), msg.CommandArguments())
	} else {
		rep = b.handleText(ctx, u, msg.Text)
	}
	b.send(msg.Chat.ID, rep)
}

func (b *Bot) userFor(ctx context.Context, from *tgbotapi.User) (user.User, error) {
	username := from.UserName
	if username == "" {
		username = strings.TrimSpace(from.FirstName + " " + from.LastName)
	}
	return b.app.LinkExternalUser(ctx, ExternalUserID(from.ID), username)
}

// ExternalUserID is the user id a Telegram account is stored under.
func ExternalUserID(telegramID int64) string {
	return fmt.Sprintf("tg_%d", telegramID)
}

func (b *Bot) send(chatID int64, rep reply) {
	msg := tgbotapi.NewMessage(chatID, rep.Text)
	if rep.Markdown {
		msg.ParseMode = tgbotapi.ModeMarkdown
	}
	if rep.Keyboard != nil {
		msg.ReplyMarkup = *rep.Keyboard
	}
	if _, err := b.api.Send(msg); err != nil {
		b.log.Warn("failed to send reply", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) handleCommand(ctx context.Context, u user.User, cmd, args string) reply {
	args = strings.TrimSpace(args)
	fields := strings.Fields(args)

	switch cmd {
	case "start", "help":
		return reply{Text: helpText}
	case "recipes":
		recipes, err := b.app.SearchRecipes(ctx, recipe.Filter{Query: args})
		if err != nil {
			return b.errorReply(err)
		}
		return reply{Text: formatRecipeList(recipes)}
	case "recipe", "export":
		if args == "" {
			return reply{Text: "Вкажіть id рецепта: /recipe <id>"}
		}
		text, err := b.app.ExportRecipe(ctx, args)
		if err != nil {
			return b.errorReply(err)
		}
		return reply{Text: text}
	case "fav":
		if args == "" {
			return reply{Text: "Вкажіть id рецепта: /fav <id>"}
		}
		added, err := b.app.ToggleFavorite(ctx, u.ID, args)
		if err != nil {
			return b.errorReply(err)
		}
		if added {
			return reply{Text: "⭐ Додано до улюблених."}
		}
		return reply{Text: "Прибрано з улюблених."}
	case "favorites":
		recipes, err := b.app.FavoriteRecipes(ctx, u.ID)
		if err != nil {
			return b.errorReply(err)
		}
		if len(recipes) == 0 {
			return reply{Text: "Улюблених рецептів поки немає."}
		}
		return reply{Text: formatRecipeList(recipes)}
	case "daily":
		text, err := b.app.ShareDailyMenu(ctx, u.ID)
		if err != nil {
			return b.errorReply(err)
		}
		return reply{Text: text}
	case "assign":
		if len(fields) < 2 {
			return reply{Text: "Використання: /assign <id> <сніданок|обід|вечеря>"}
		}
		meal, err := b.app.AssignToSlot(ctx, u.ID, fields[0], strings.Join(fields[1:], " "))
		if err != nil {
			return b.errorReply(err)
		}
		return reply{Text: fmt.Sprintf("✅ Додано в денне меню: %s.", meal)}
	case "week":
		text, err := b.app.ShareWeeklyMenu(ctx, u.ID)
		if err != nil {
			return b.errorReply(err)
		}
		return reply{Text: text}
	case "weekassign":
		if len(fields) < 2 {
			return reply{Text: "Використання: /weekassign <день> <прийом їжі> [id]"}
		}
		recipeID := ""
		if len(fields) > 2 {
			recipeID = fields[2]
		}
		day, meal, err := b.app.AssignWeeklySlot(ctx, u.ID, fields[0], fields[1], recipeID)
		if err != nil {
			return b.errorReply(err)
		}
		if recipeID == "" {
			return reply{Text: fmt.Sprintf("Очищено: %s, %s.", day, meal)}
		}
		return reply{Text: fmt.Sprintf("✅ Тижневе меню оновлено: %s, %s.", day, meal)}
	case "calories":
		sum, err := b.app.Calories(ctx, u.ID)
		if err != nil {
			return b.errorReply(err)
		}
		return reply{Text: menu.CaloriesText(false, sum.Daily) + "\n" + menu.CaloriesText(true, sum.Weekly)}
	case "shop":
		list, err := b.app.GenerateShoppingList(ctx, u.ID)
		if err != nil {
			return b.errorReply(err)
		}
		return shoppingReply(list)
	case "list":
		list, err := b.app.ShoppingList(ctx, u.ID)
		if err != nil {
			return b.errorReply(err)
		}
		return shoppingReply(list)
	case "check":
		n, err := strconv.Atoi(args)
		if err != nil {
			return reply{Text: "Використання: /check <номер>"}
		}
		list, err := b.app.ToggleShoppingItem(ctx, u.ID, n-1)
		if err != nil {
			return b.errorReply(err)
		}
		return shoppingReply(list)
	case "clearlist":
		if err := b.app.ClearShoppingList(ctx, u.ID); err != nil {
			return b.errorReply(err)
		}
		return reply{Text: "Список покупок очищено."}
	case "delete":
		if args == "" {
			return reply{Text: "Вкажіть id рецепта: /delete <id>"}
		}
		if err := b.app.DeleteRecipe(ctx, args); err != nil {
			return b.errorReply(err)
		}
		return reply{Text: "🗑 Рецепт видалено."}
	case "stats":
		usage, err := b.app.LLMUsage(ctx, statsDays)
		if err != nil {
			return b.errorReply(err)
		}
		return reply{Text: formatStats(usage, b.app.Health()), Markdown: true}
	default:
		return reply{Text: "Невідома команда. /help"}
	}
}

// handleText imports a recipe from a link or from recipe text.
func (b *Bot) handleText(ctx context.Context, u user.User, text string) reply {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://") {
		r, err := b.app.ClipRecipe(ctx, text)
		if err != nil {
			b.log.Warn("failed to clip recipe", "user_id", u.ID, "url", text, "error", err)
			return b.errorReply(err)
		}
		return reply{Text: fmt.Sprintf("✅ Рецепт збережено: %s\nid: %s", r.Title, r.ID)}
	}

	if strings.Contains(text, "\n") {
		r, err := b.app.ImportRecipe(ctx, text)
		if err != nil {
			return b.errorReply(err)
		}
		return reply{Text: fmt.Sprintf("✅ Рецепт імпортовано: %s\nid: %s", r.Title, r.ID)}
	}

	return reply{Text: helpText}
}

func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	// Answer callback to remove spinner
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		b.log.Warn("failed to answer callback", "error", err)
	}
	if query.Message == nil || !strings.HasPrefix(query.Data, checkCallbackPrefix) {
		return
	}

	index, err := strconv.Atoi(strings.TrimPrefix(query.Data, checkCallbackPrefix))
	if err != nil {
		return
	}
	u, err := b.userFor(ctx, query.From)
	if err != nil {
		b.log.Error("failed to resolve telegram user", "telegram_id", query.From.ID, "error", err)
		return
	}

	list, err := b.app.ToggleShoppingItem(ctx, u.ID, index)
	if err != nil {
		b.log.Warn("failed to toggle shopping item", "user_id", u.ID, "index", index, "error", err)
		return
	}

	rep := shoppingReply(list)
	edit := tgbotapi.NewEditMessageText(query.Message.Chat.ID, query.Message.MessageID, rep.Text)
	edit.ReplyMarkup = rep.Keyboard
	if _, err := b.api.Send(edit); err != nil {
		b.log.Warn("failed to update shopping list message", "error", err)
	}
}

const genericFailure = "Щось пішло не так. Спробуйте пізніше."

func (b *Bot) errorReply(err error) reply {
	msg := userMessage(err)
	if msg == genericFailure {
		b.log.Error("command failed", "error", err)
	}
	return reply{Text: "❌ " + msg}
}

// userMessage turns an application error into text for the chat.
func userMessage(err error) string {
	var verr *recipe.ValidationError
	switch {
	case errors.As(err, &verr):
		return "Не заповнені обов'язкові поля: " + strings.Join(verr.Missing, ", ")
	case errors.Is(err, recipe.ErrNotFound):
		return "Рецепт не знайдено."
	case errors.Is(err, menu.ErrUnrecognizedMealLabel):
		return "Невідомий прийом їжі. Використайте: сніданок, обід або вечеря."
	case errors.Is(err, menu.ErrUnrecognizedDay):
		return "Невідомий день. Використайте: Пн, Вт, Ср, Чт, Пт, Сб, Нд."
	case errors.Is(err, shopping.ErrEmptyMenuSelection):
		return "Спочатку додайте страви в меню."
	case errors.Is(err, shopping.ErrIndexOutOfRange):
		return "Немає покупки з таким номером."
	case errors.Is(err, clipper.ErrNoRecipe):
		return "На сторінці не знайдено рецепта."
	default:
		return genericFailure
	}
}

func formatRecipeList(recipes []recipe.Recipe) string {
	if len(recipes) == 0 {
		return "Рецептів не знайдено."
	}
	var sb strings.Builder
	for i, r := range recipes {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("• %s (%s)\n  id: %s", r.Title, r.Category, r.ID))
	}
	return sb.String()
}

// shoppingReply renders the list with one toggle button per item.
func shoppingReply(list shopping.List) reply {
	if len(list) == 0 {
		return reply{Text: "Список покупок порожній."}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🛒 Список покупок (залишилось %d з %d):\n", list.Remaining(), len(list)))
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(list))
	for i, it := range list {
		mark := "⬜"
		if it.Checked {
			mark = "✅"
		}
		sb.WriteString(fmt.Sprintf("\n%d. %s %s", i+1, mark, it.Text))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%s %d", mark, i+1), checkCallbackPrefix+strconv.Itoa(i)),
		))
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return reply{Text: sb.String(), Keyboard: &kb}
}
