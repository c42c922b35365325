package httpapi

import (
	"net/http"
	"strings"

	"recipe-planner/internal/recipe"

	"github.com/go-chi/chi/v5"
)

type importRequest struct {
	Text string `json:"text"`
}

type clipRequest struct {
	URL string `json:"url"`
}

type favoriteResponse struct {
	RecipeID string `json:"recipeId"`
	Favorite bool   `json:"favorite"`
}

// ListRecipes lists the catalog, filtered by the q and category query
// parameters.
func (h *Handler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	f := recipe.Filter{
		Query:    r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
	}
	recipes, err := h.app.SearchRecipes(r.Context(), f)
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.JSON(w, http.StatusOK, recipes)
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.app.Categories(r.Context())
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.JSON(w, http.StatusOK, cats)
}

func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	rec, err := h.app.GetRecipe(r.Context(), chi.URLParam(r, "recipeId"))
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.JSON(w, http.StatusOK, rec)
}

func (h *Handler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	var f recipe.Fields
	if err := h.DecodeJSON(r, &f); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	rec, err := h.app.CreateRecipe(r.Context(), f)
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.JSON(w, http.StatusCreated, rec)
}

func (h *Handler) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	var f recipe.Fields
	if err := h.DecodeJSON(r, &f); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	rec, err := h.app.UpdateRecipe(r.Context(), chi.URLParam(r, "recipeId"), f)
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.JSON(w, http.StatusOK, rec)
}

// DeleteRecipe removes a recipe along with every reference to it.
// Deleting an unknown id succeeds.
func (h *Handler) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	if err := h.app.DeleteRecipe(r.Context(), chi.URLParam(r, "recipeId")); err != nil {
		h.Fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ExportRecipe(w http.ResponseWriter, r *http.Request) {
	text, err := h.app.ExportRecipe(r.Context(), chi.URLParam(r, "recipeId"))
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.Text(w, http.StatusOK, text)
}

func (h *Handler) ImportRecipe(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	rec, err := h.app.ImportRecipe(r.Context(), req.Text)
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.JSON(w, http.StatusCreated, rec)
}

func (h *Handler) ClipRecipe(w http.ResponseWriter, r *http.Request) {
	var req clipRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	url := strings.TrimSpace(req.URL)
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		h.Error(w, http.StatusBadRequest, "url must be http or https")
		return
	}
	rec, err := h.app.ClipRecipe(r.Context(), url)
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.JSON(w, http.StatusCreated, rec)
}

func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.app.FavoriteRecipes(r.Context(), userID(r))
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.JSON(w, http.StatusOK, recipes)
}

func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "recipeId")
	fav, err := h.app.ToggleFavorite(r.Context(), userID(r), id)
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.JSON(w, http.StatusOK, favoriteResponse{RecipeID: id, Favorite: fav})
}
