package user

import (
	"context"
	"errors"
	"fmt"

	"recipe-planner/internal/logger"
	"recipe-planner/internal/storage"
)

const CurrentUserKey = "rp_currentUser"

// Session tracks the active user of a single-user front end such as the
// CLI. Without a valid stored user the guest is active.
type Session struct {
	store    storage.Store
	registry *Registry
	log      *logger.Logger
}

func NewSession(store storage.Store, registry *Registry, log *logger.Logger) *Session {
	return &Session{store: store, registry: registry, log: log}
}

// Current returns the active user, falling back to the guest.
func (s *Session) Current(ctx context.Context) (User, error) {
	var id string
	if _, err := storage.LoadJSON(ctx, s.store, CurrentUserKey, &id); err != nil && !storage.IsCorrupt(err) {
		return User{}, err
	}

	if id != "" {
		u, err := s.registry.FindByID(ctx, id)
		if err == nil {
			return u, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return User{}, err
		}
		s.log.Warn("current user no longer exists, switching to guest", "user_id", id)
	}

	guest, err := s.registry.EnsureGuest(ctx)
	if err != nil {
		return User{}, err
	}
	if err := s.set(ctx, guest.ID); err != nil {
		return User{}, err
	}
	return guest, nil
}

// CurrentUserID returns the id of the active user.
func (s *Session) CurrentUserID(ctx context.Context) (string, error) {
	u, err := s.Current(ctx)
	if err != nil {
		return "", err
	}
	return u.ID, nil
}

// Login authenticates and makes the user active.
func (s *Session) Login(ctx context.Context, identifier, password string) (User, error) {
	u, err := s.registry.Authenticate(ctx, identifier, password)
	if err != nil {
		return User{}, err
	}
	if err := s.set(ctx, u.ID); err != nil {
		return User{}, err
	}
	s.log.Info("user logged in", "user_id", u.ID)
	return u, nil
}

// SignUp registers a user and makes it active.
func (s *Session) SignUp(ctx context.Context, username, email, password string) (User, error) {
	u, err := s.registry.Register(ctx, username, email, password)
	if err != nil {
		return User{}, err
	}
	if err := s.set(ctx, u.ID); err != nil {
		return User{}, err
	}
	return u, nil
}

// Logout makes the guest active again.
func (s *Session) Logout(ctx context.Context) (User, error) {
	guest, err := s.registry.EnsureGuest(ctx)
	if err != nil {
		return User{}, err
	}
	if err := s.set(ctx, guest.ID); err != nil {
		return User{}, err
	}
	s.log.Info("user logged out")
	return guest, nil
}

func (s *Session) set(ctx context.Context, id string) error {
	if err := storage.SaveJSON(ctx, s.store, CurrentUserKey, id); err != nil {
		return fmt.Errorf("failed to save current user: %w", err)
	}
	return nil
}
