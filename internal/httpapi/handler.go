package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"recipe-planner/internal/app"
	"recipe-planner/internal/clipper"
	"recipe-planner/internal/logger"
	"recipe-planner/internal/menu"
	"recipe-planner/internal/recipe"
	"recipe-planner/internal/shopping"
	"recipe-planner/internal/user"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const requestTimeout = 60 * time.Second

// Handler serves the JSON API over the application.
type Handler struct {
	app    *app.App
	tokens *user.TokenIssuer
	log    *logger.Logger
}

func New(a *app.App, tokens *user.TokenIssuer, log *logger.Logger) *Handler {
	return &Handler{app: a, tokens: tokens, log: log}
}

// Router builds the chi router with every route mounted.
func (h *Handler) Router(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(requestTimeout))

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.Health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.With(h.Auth).Get("/me", h.Me)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(h.Auth)

		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", h.ListRecipes)
			r.Post("/", h.CreateRecipe)
			r.Get("/categories", h.ListCategories)
			r.Post("/import", h.ImportRecipe)
			r.Post("/clip", h.ClipRecipe)
			r.Get("/{recipeId}", h.GetRecipe)
			r.Put("/{recipeId}", h.UpdateRecipe)
			r.Delete("/{recipeId}", h.DeleteRecipe)
			r.Get("/{recipeId}/export", h.ExportRecipe)
		})

		r.Get("/favorites", h.ListFavorites)
		r.Post("/favorites/{recipeId}/toggle", h.ToggleFavorite)

		r.Route("/menus", func(r chi.Router) {
			r.Get("/daily", h.GetDailyMenu)
			r.Put("/daily", h.SetDailyMenu)
			r.Delete("/daily", h.ClearDailyMenu)
			r.Post("/daily/assign", h.AssignDailySlot)
			r.Get("/daily/share", h.ShareDailyMenu)

			r.Get("/weekly", h.GetWeeklyMenu)
			r.Put("/weekly", h.SetWeeklyMenu)
			r.Delete("/weekly", h.ClearWeeklyMenu)
			r.Post("/weekly/assign", h.AssignWeeklySlot)
			r.Get("/weekly/share", h.ShareWeeklyMenu)

			r.Get("/calories", h.GetCalories)
		})

		r.Route("/shopping", func(r chi.Router) {
			r.Get("/", h.GetShoppingList)
			r.Post("/generate", h.GenerateShoppingList)
			r.Put("/{index}", h.SetShoppingItem)
			r.Delete("/", h.ClearShoppingList)
			r.Get("/share", h.ShareShoppingList)
		})

		r.Get("/stats", h.Stats)
	})

	return r
}

// Health reports process metrics.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	h.JSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"system": h.app.Health(),
	})
}

// Stats returns LLM usage of the last week.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	usage, err := h.app.LLMUsage(r.Context(), 7)
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.JSON(w, http.StatusOK, map[string]any{"llmUsage": usage})
}

// JSON helper to write JSON responses
func (h *Handler) JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// Text writes a plain-text response.
func (h *Handler) Text(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(text))
}

// Error helper to write error responses
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}

// DecodeJSON helper to decode request body
func (h *Handler) DecodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// Fail maps an application error to a status code and writes it.
func (h *Handler) Fail(w http.ResponseWriter, err error) {
	var verr *recipe.ValidationError
	if errors.As(err, &verr) {
		h.JSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":   err.Error(),
			"missing": verr.Missing,
		})
		return
	}

	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Error("request failed", "error", err)
		h.Error(w, status, "internal server error")
		return
	}
	h.Error(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, recipe.ErrNotFound), errors.Is(err, user.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, recipe.ErrValidation),
		errors.Is(err, user.ErrMissingFields),
		errors.Is(err, clipper.ErrNoRecipe):
		return http.StatusUnprocessableEntity
	case errors.Is(err, user.ErrUsernameTaken),
		errors.Is(err, user.ErrEmailTaken),
		errors.Is(err, shopping.ErrEmptyMenuSelection):
		return http.StatusConflict
	case errors.Is(err, menu.ErrUnrecognizedMealLabel),
		errors.Is(err, menu.ErrUnrecognizedDay),
		errors.Is(err, shopping.ErrIndexOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, user.ErrInvalidCredentials), errors.Is(err, user.ErrInvalidToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
