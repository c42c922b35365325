package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"recipe-planner/internal/logger"
	"recipe-planner/internal/storage"
)

func newTestRegistry(store storage.Store) *Registry {
	r := NewRegistry(store, logger.Nop())
	r.cost = bcrypt.MinCost
	return r
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry(storage.NewMemoryStore())

	u, err := reg.Register(ctx, " alice ", "alice@example.com", "secret")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if u.Username != "alice" {
		t.Errorf("Expected trimmed username, got %q", u.Username)
	}
	if u.PasswordHash == "" || u.PasswordHash == "secret" {
		t.Error("Expected password to be hashed")
	}

	tests := []struct {
		name                      string
		username, email, password string
		want                      error
	}{
		{"MissingFields", "bob", "", "pw", ErrMissingFields},
		{"UsernameTaken", "alice", "other@example.com", "pw", ErrUsernameTaken},
		{"EmailTaken", "bob", "alice@example.com", "pw", ErrEmailTaken},
		{"GuestReserved", GuestUsername, "guest@example.com", "pw", ErrUsernameTaken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reg.Register(ctx, tt.username, tt.email, tt.password)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry(storage.NewMemoryStore())
	alice, _ := reg.Register(ctx, "alice", "alice@example.com", "secret")
	_, _ = reg.EnsureGuest(ctx)

	for _, id := range []string{"alice", "alice@example.com"} {
		t.Run(id, func(t *testing.T) {
			u, err := reg.Authenticate(ctx, id, "secret")
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if u.ID != alice.ID {
				t.Errorf("Expected %s, got %s", alice.ID, u.ID)
			}
		})
	}

	t.Run("WrongPassword", func(t *testing.T) {
		if _, err := reg.Authenticate(ctx, "alice", "nope"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("GuestCannotLogIn", func(t *testing.T) {
		if _, err := reg.Authenticate(ctx, GuestUsername, "anything"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestEnsureGuestAndExternal(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry(storage.NewMemoryStore())

	g1, _ := reg.EnsureGuest(ctx)
	g2, _ := reg.EnsureGuest(ctx)
	if g1 != g2 || !g1.IsGuest() {
		t.Errorf("Expected the same guest twice, got %+v and %+v", g1, g2)
	}

	e1, err := reg.EnsureExternal(ctx, "tg_42", "chef")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	e2, _ := reg.EnsureExternal(ctx, "tg_42", "renamed")
	if e2.Username != e1.Username {
		t.Errorf("Expected existing user to be returned, got %+v", e2)
	}

	users, _ := reg.List(ctx)
	if len(users) != 2 {
		t.Errorf("Expected 2 users, got %d", len(users))
	}

	if _, err := reg.FindByID(ctx, "u_missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSession(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	reg := newTestRegistry(store)
	sess := NewSession(store, reg, logger.Nop())

	t.Run("DefaultsToGuest", func(t *testing.T) {
		id, err := sess.CurrentUserID(ctx)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if id != GuestID {
			t.Errorf("Expected guest, got %s", id)
		}
	})

	t.Run("SignUpLogsIn", func(t *testing.T) {
		u, err := sess.SignUp(ctx, "alice", "alice@example.com", "secret")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		id, _ := sess.CurrentUserID(ctx)
		if id != u.ID {
			t.Errorf("Expected %s to be active, got %s", u.ID, id)
		}
	})

	t.Run("LogoutAndLogin", func(t *testing.T) {
		if _, err := sess.Logout(ctx); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		id, _ := sess.CurrentUserID(ctx)
		if id != GuestID {
			t.Errorf("Expected guest after logout, got %s", id)
		}

		u, err := sess.Login(ctx, "alice@example.com", "secret")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		id, _ = sess.CurrentUserID(ctx)
		if id != u.ID {
			t.Errorf("Expected %s to be active, got %s", u.ID, id)
		}
	})

	t.Run("UnknownStoredUser", func(t *testing.T) {
		_ = store.Save(ctx, CurrentUserKey, []byte(`"u_deleted"`))
		id, _ := sess.CurrentUserID(ctx)
		if id != GuestID {
			t.Errorf("Expected fallback to guest, got %s", id)
		}
	})

	t.Run("CorruptStoredUser", func(t *testing.T) {
		_ = store.Save(ctx, CurrentUserKey, []byte(`{{`))
		id, err := sess.CurrentUserID(ctx)
		if err != nil || id != GuestID {
			t.Errorf("Expected guest without error, got %s (%v)", id, err)
		}
	})
}

func TestTokenIssuer(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	u := User{ID: "u_1"}

	token, expires, err := issuer.Issue(u)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if time.Until(expires) <= 0 {
		t.Errorf("Expected expiry in the future, got %v", expires)
	}

	t.Run("Valid", func(t *testing.T) {
		id, err := issuer.Verify(token)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if id != "u_1" {
			t.Errorf("Expected u_1, got %s", id)
		}
	})

	t.Run("WrongSecret", func(t *testing.T) {
		other := NewTokenIssuer("other-secret", time.Hour)
		if _, err := other.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("Expired", func(t *testing.T) {
		late := NewTokenIssuer("test-secret", time.Hour)
		late.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		if _, err := late.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("Garbage", func(t *testing.T) {
		if _, err := issuer.Verify("not-a-token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})
}
