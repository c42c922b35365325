// Package user manages accounts, the active session and API tokens.
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"recipe-planner/internal/logger"
	"recipe-planner/internal/storage"
)

const (
	UsersKey = "rp_users"

	GuestID       = "u_guest"
	GuestUsername = "guest"
)

var (
	ErrMissingFields      = errors.New("username, email and password are required")
	ErrUsernameTaken      = errors.New("username already in use")
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("user not found or wrong password")
	ErrNotFound           = errors.New("user not found")
)

// User is a registered account. Guest and externally linked users have no
// password.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash,omitempty"`
}

// IsGuest reports whether u is the shared guest identity.
func (u User) IsGuest() bool {
	return u.ID == GuestID
}

// Registry stores users in registration order.
type Registry struct {
	store storage.Store
	log   *logger.Logger
	cost  int
}

func NewRegistry(store storage.Store, log *logger.Logger) *Registry {
	return &Registry{store: store, log: log, cost: bcrypt.DefaultCost}
}

// List returns every user. An unreadable user list reads as empty.
func (r *Registry) List(ctx context.Context) ([]User, error) {
	var users []User
	if _, err := storage.LoadJSON(ctx, r.store, UsersKey, &users); err != nil {
		if !storage.IsCorrupt(err) {
			return nil, err
		}
		r.log.Warn("user list is unreadable, treating as empty", "error", err)
		users = nil
	}
	return users, nil
}

// EnsureGuest returns the guest user, creating it when missing.
func (r *Registry) EnsureGuest(ctx context.Context) (User, error) {
	users, err := r.List(ctx)
	if err != nil {
		return User{}, err
	}
	for _, u := range users {
		if u.ID == GuestID {
			return u, nil
		}
	}
	guest := User{ID: GuestID, Username: GuestUsername}
	if err := r.save(ctx, append(users, guest)); err != nil {
		return User{}, err
	}
	r.log.Info("created guest user")
	return guest, nil
}

// Register creates a user with a unique username and email.
func (r *Registry) Register(ctx context.Context, username, email, password string) (User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return User{}, ErrMissingFields
	}

	users, err := r.List(ctx)
	if err != nil {
		return User{}, err
	}
	if username == GuestUsername {
		return User{}, ErrUsernameTaken
	}
	for _, u := range users {
		if u.Username == username {
			return User{}, ErrUsernameTaken
		}
	}
	for _, u := range users {
		if u.Email != "" && u.Email == email {
			return User{}, ErrEmailTaken
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), r.cost)
	if err != nil {
		return User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	u := User{
		ID:           "u_" + uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := r.save(ctx, append(users, u)); err != nil {
		return User{}, err
	}
	r.log.Info("registered user", "user_id", u.ID, "username", u.Username)
	return u, nil
}

// Authenticate finds a user by username or email and checks the password.
func (r *Registry) Authenticate(ctx context.Context, identifier, password string) (User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return User{}, ErrInvalidCredentials
	}

	users, err := r.List(ctx)
	if err != nil {
		return User{}, err
	}
	for _, u := range users {
		if u.PasswordHash == "" {
			continue
		}
		if u.Username != identifier && u.Email != identifier {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil {
			return u, nil
		}
	}
	return User{}, ErrInvalidCredentials
}

func (r *Registry) FindByID(ctx context.Context, id string) (User, error) {
	users, err := r.List(ctx)
	if err != nil {
		return User{}, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// EnsureExternal returns the user with the given id, creating a
// password-less account for it when missing. Front ends that authenticate
// on their own, such as the Telegram bot, use it to map their identities.
func (r *Registry) EnsureExternal(ctx context.Context, id, username string) (User, error) {
	users, err := r.List(ctx)
	if err != nil {
		return User{}, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	u := User{ID: id, Username: username}
	if err := r.save(ctx, append(users, u)); err != nil {
		return User{}, err
	}
	r.log.Info("linked external user", "user_id", id, "username", username)
	return u, nil
}

func (r *Registry) save(ctx context.Context, users []User) error {
	if err := storage.SaveJSON(ctx, r.store, UsersKey, users); err != nil {
		return fmt.Errorf("failed to save users: %w", err)
	}
	return nil
}
