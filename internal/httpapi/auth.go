package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"recipe-planner/internal/user"
)

type contextKey string

const userIDKey contextKey = "userID"

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// userView is a user as the API shows it, without the password hash.
type userView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

func viewOf(u user.User) userView {
	return userView{ID: u.ID, Username: u.Username, Email: u.Email}
}

type authResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      userView  `json:"user"`
}

// Auth resolves the bearer token to a user. Requests without a token act
// as the guest; an invalid token is rejected.
func (h *Handler) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			ctx := context.WithValue(r.Context(), userIDKey, user.GuestID)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			h.Error(w, http.StatusUnauthorized, "expected a bearer token")
			return
		}
		id, err := h.tokens.Verify(strings.TrimSpace(token))
		if err != nil {
			h.Error(w, http.StatusUnauthorized, err.Error())
			return
		}
		if _, err := h.app.FindUser(r.Context(), id); err != nil {
			h.Error(w, http.StatusUnauthorized, "unknown user")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userID returns the user the request acts for.
func userID(r *http.Request) string {
	if id, ok := r.Context().Value(userIDKey).(string); ok {
		return id
	}
	return user.GuestID
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	u, err := h.app.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.issue(w, http.StatusCreated, u)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	u, err := h.app.Authenticate(r.Context(), req.Identifier, req.Password)
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.issue(w, http.StatusOK, u)
}

// Me returns the user the request acts for.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id := userID(r)
	if id == user.GuestID {
		u, err := h.app.GuestUser(r.Context())
		if err != nil {
			h.Fail(w, err)
			return
		}
		h.JSON(w, http.StatusOK, viewOf(u))
		return
	}
	u, err := h.app.FindUser(r.Context(), id)
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.JSON(w, http.StatusOK, viewOf(u))
}

func (h *Handler) issue(w http.ResponseWriter, status int, u user.User) {
	token, exp, err := h.tokens.Issue(u)
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.JSON(w, status, authResponse{Token: token, ExpiresAt: exp, User: viewOf(u)})
}
