package httpapi

import (
	"net/http"
	"strconv"

	"recipe-planner/internal/menu"

	"github.com/go-chi/chi/v5"
)

type assignDailyRequest struct {
	RecipeID string `json:"recipeId"`
	Meal     string `json:"meal"`
}

type assignWeeklyRequest struct {
	Day      string `json:"day"`
	Meal     string `json:"meal"`
	RecipeID string `json:"recipeId"`
}

type assignResponse struct {
	Day  menu.Day `json:"day,omitempty"`
	Meal string   `json:"meal"`
	Menu any      `json:"menu"`
}

type checkRequest struct {
	Checked bool `json:"checked"`
}

func (h *Handler) GetDailyMenu(w http.ResponseWriter, r *http.Request) {
	slots, err := h.app.DailyMenu(r.Context(), userID(r))
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.JSON(w, http.StatusOK, slots)
}

func (h *Handler) SetDailyMenu(w http.ResponseWriter, r *http.Request) {
	var slots menu.Slots
	if err := h.DecodeJSON(r, &slots); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.app.SetDailyMenu(r.Context(), userID(r), slots); err != nil {
		h.Fail(w, err)
		return
	}
	h.JSON(w, http.StatusOK, slots)
}

func (h *Handler) ClearDailyMenu(w http.ResponseWriter, r *http.Request) {
	if err := h.app.ClearDailyMenu(r.Context(), userID(r)); err != nil {
		h.Fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AssignDailySlot resolves a free-text meal label and fills that slot.
func (h *Handler) AssignDailySlot(w http.ResponseWriter, r *http.Request) {
	var req assignDailyRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	uid := userID(r)
	meal, err := h.app.AssignToSlot(r.Context(), uid, req.RecipeID, req.Meal)
	if err != nil {
		h.Fail(w, err)
		return
	}
	slots, err := h.app.DailyMenu(r.Context(), uid)
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.JSON(w, http.StatusOK, assignResponse{Meal: meal.String(), Menu: slots})
}

func (h *Handler) ShareDailyMenu(w http.ResponseWriter, r *http.Request) {
	text, err := h.app.ShareDailyMenu(r.Context(), userID(r))
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.Text(w, http.StatusOK, text)
}

func (h *Handler) GetWeeklyMenu(w http.ResponseWriter, r *http.Request) {
	week, err := h.app.WeeklyMenu(r.Context(), userID(r))
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.JSON(w, http.StatusOK, week)
}

func (h *Handler) SetWeeklyMenu(w http.ResponseWriter, r *http.Request) {
	var week menu.Weekly
	if err := h.DecodeJSON(r, &week); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	uid := userID(r)
	if err := h.app.SetWeeklyMenu(r.Context(), uid, week); err != nil {
		h.Fail(w, err)
		return
	}
	stored, err := h.app.WeeklyMenu(r.Context(), uid)
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.JSON(w, http.StatusOK, stored)
}

func (h *Handler) ClearWeeklyMenu(w http.ResponseWriter, r *http.Request) {
	if err := h.app.ClearWeeklyMenu(r.Context(), userID(r)); err != nil {
		h.Fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AssignWeeklySlot fills one meal of one day. An empty recipeId clears it.
func (h *Handler) AssignWeeklySlot(w http.ResponseWriter, r *http.Request) {
	var req assignWeeklyRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	uid := userID(r)
	day, meal, err := h.app.AssignWeeklySlot(r.Context(), uid, req.Day, req.Meal, req.RecipeID)
	if err != nil {
		h.Fail(w, err)
		return
	}
	week, err := h.app.WeeklyMenu(r.Context(), uid)
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.JSON(w, http.StatusOK, assignResponse{Day: day, Meal: meal.String(), Menu: week})
}

func (h *Handler) ShareWeeklyMenu(w http.ResponseWriter, r *http.Request) {
	text, err := h.app.ShareWeeklyMenu(r.Context(), userID(r))
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.Text(w, http.StatusOK, text)
}

func (h *Handler) GetCalories(w http.ResponseWriter, r *http.Request) {
	sum, err := h.app.Calories(r.Context(), userID(r))
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.JSON(w, http.StatusOK, sum)
}

func (h *Handler) GetShoppingList(w http.ResponseWriter, r *http.Request) {
	list, err := h.app.ShoppingList(r.Context(), userID(r))
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.JSON(w, http.StatusOK, list)
}

// GenerateShoppingList replaces the list with the ingredients of every
// recipe in the user's menus.
func (h *Handler) GenerateShoppingList(w http.ResponseWriter, r *http.Request) {
	list, err := h.app.GenerateShoppingList(r.Context(), userID(r))
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.JSON(w, http.StatusOK, list)
}

func (h *Handler) SetShoppingItem(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		h.Error(w, http.StatusBadRequest, "index must be a number")
		return
	}
	var req checkRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	list, err := h.app.SetShoppingItemChecked(r.Context(), userID(r), index, req.Checked)
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.JSON(w, http.StatusOK, list)
}

func (h *Handler) ClearShoppingList(w http.ResponseWriter, r *http.Request) {
	if err := h.app.ClearShoppingList(r.Context(), userID(r)); err != nil {
		h.Fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ShareShoppingList(w http.ResponseWriter, r *http.Request) {
	text, err := h.app.ShareShoppingList(r.Context(), userID(r))
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.Text(w, http.StatusOK, text)
}
