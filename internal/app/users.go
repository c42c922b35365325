package app

import (
	"context"

	"recipe-planner/internal/user"
)

// CurrentUser returns the active user of the local session, or the guest.
func (a *App) CurrentUser(ctx context.Context) (user.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session.Current(ctx)
}

// SignUp registers a user and makes it the active local user.
func (a *App) SignUp(ctx context.Context, username, email, password string) (user.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session.SignUp(ctx, username, email, password)
}

// LogIn authenticates by username or email and makes the user active.
func (a *App) LogIn(ctx context.Context, identifier, password string) (user.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session.Login(ctx, identifier, password)
}

// LogOut switches the local session back to the guest.
func (a *App) LogOut(ctx context.Context) (user.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session.Logout(ctx)
}

// Register creates a user without touching the local session.
func (a *App) Register(ctx context.Context, username, email, password string) (user.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.users.Register(ctx, username, email, password)
}

// Authenticate checks credentials without touching the local session.
func (a *App) Authenticate(ctx context.Context, identifier, password string) (user.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.users.Authenticate(ctx, identifier, password)
}

func (a *App) FindUser(ctx context.Context, id string) (user.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.users.FindByID(ctx, id)
}

func (a *App) GuestUser(ctx context.Context) (user.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.users.EnsureGuest(ctx)
}

// LinkExternalUser maps an identity from another front end, such as a
// Telegram account, to a user.
func (a *App) LinkExternalUser(ctx context.Context, id, username string) (user.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.users.EnsureExternal(ctx, id, username)
}
