package partition

import (
	"context"
	"testing"

	"recipe-planner/internal/storage"
)

type prefs struct {
	Theme string `json:"theme"`
	Size  int    `json:"size"`
}

func newPrefs() prefs { return prefs{Theme: "light", Size: 12} }

func fillPrefs(p prefs) prefs {
	d := newPrefs()
	if p.Theme == "" {
		p.Theme = d.Theme
	}
	if p.Size == 0 {
		p.Size = d.Size
	}
	return p
}

func TestPartitionReadWrite(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	p := New(store, "prefsByUser", newPrefs, WithFill(fillPrefs))

	t.Run("Read-Default", func(t *testing.T) {
		v, err := p.Read(ctx, "u1")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if v != newPrefs() {
			t.Errorf("Expected default %+v, got %+v", newPrefs(), v)
		}
	})

	t.Run("Write-Read", func(t *testing.T) {
		if err := p.Write(ctx, "u1", prefs{Theme: "dark", Size: 14}); err != nil {
			t.Fatalf("Failed to write: %v", err)
		}
		v, err := p.Read(ctx, "u1")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if v.Theme != "dark" || v.Size != 14 {
			t.Errorf("Expected stored value, got %+v", v)
		}
	})

	t.Run("Users-Isolated", func(t *testing.T) {
		v, _ := p.Read(ctx, "u2")
		if v.Theme != "light" {
			t.Errorf("Expected u2 to see default, got %+v", v)
		}
		users, err := p.Users(ctx)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(users) != 1 || users[0] != "u1" {
			t.Errorf("Expected only u1 to be stored, got %v", users)
		}
	})

	t.Run("Fill-Partial", func(t *testing.T) {
		_ = store.Save(ctx, "prefsByUser", []byte(`{"u3":{"theme":"blue"}}`))
		v, err := p.Read(ctx, "u3")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if v.Theme != "blue" || v.Size != 12 {
			t.Errorf("Expected stored theme with default size, got %+v", v)
		}
	})
}

func TestPartitionCorruption(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	p := New(store, "prefsByUser", newPrefs)

	t.Run("CorruptPartition", func(t *testing.T) {
		_ = store.Save(ctx, "prefsByUser", []byte(`[[[`))
		v, err := p.Read(ctx, "u1")
		if err != nil {
			t.Fatalf("Expected corruption to be swallowed, got %v", err)
		}
		if v != newPrefs() {
			t.Errorf("Expected default, got %+v", v)
		}
		if err := p.Write(ctx, "u1", prefs{Theme: "dark", Size: 1}); err != nil {
			t.Fatalf("Expected write over corrupt partition to succeed, got %v", err)
		}
		v, _ = p.Read(ctx, "u1")
		if v.Theme != "dark" {
			t.Errorf("Expected written value, got %+v", v)
		}
	})

	t.Run("CorruptEntry", func(t *testing.T) {
		_ = store.Save(ctx, "prefsByUser", []byte(`{"u1":"oops","u2":{"theme":"x","size":3}}`))
		v, err := p.Read(ctx, "u1")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if v != newPrefs() {
			t.Errorf("Expected default for corrupt entry, got %+v", v)
		}
		v, _ = p.Read(ctx, "u2")
		if v.Theme != "x" {
			t.Errorf("Expected healthy entry to survive, got %+v", v)
		}
	})
}

func TestPartitionDefaultsAreFresh(t *testing.T) {
	ctx := context.Background()
	p := New(storage.NewMemoryStore(), "mapsByUser", func() map[string]int { return map[string]int{} })

	a, _ := p.Read(ctx, "u1")
	a["mutated"] = 1
	b, _ := p.Read(ctx, "u1")
	if len(b) != 0 {
		t.Errorf("Expected a fresh default, got %v", b)
	}
}

func TestPartitionSweep(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	p := New(store, "listsByUser", func() []string { return []string{} })

	_ = p.Write(ctx, "u1", []string{"a", "b"})
	_ = p.Write(ctx, "u2", []string{"c"})

	changed, err := p.Sweep(ctx, func(_ string, v []string) ([]string, bool) {
		out := v[:0]
		dirty := false
		for _, s := range v {
			if s == "a" {
				dirty = true
				continue
			}
			out = append(out, s)
		}
		return out, dirty
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if changed != 1 {
		t.Errorf("Expected 1 changed user, got %d", changed)
	}

	v, _ := p.Read(ctx, "u1")
	if len(v) != 1 || v[0] != "b" {
		t.Errorf("Expected [b] for u1, got %v", v)
	}
	v, _ = p.Read(ctx, "u2")
	if len(v) != 1 || v[0] != "c" {
		t.Errorf("Expected [c] for u2, got %v", v)
	}

	t.Run("NoChangeNoWrite", func(t *testing.T) {
		before, _, _ := store.Load(ctx, "listsByUser")
		changed, err := p.Sweep(ctx, func(_ string, v []string) ([]string, bool) { return v, false })
		if err != nil || changed != 0 {
			t.Fatalf("Expected no changes, got %d (%v)", changed, err)
		}
		after, _, _ := store.Load(ctx, "listsByUser")
		if string(before) != string(after) {
			t.Error("Expected partition to be left untouched")
		}
	})
}

func TestPartitionLayersDefaults(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	newLimits := func() map[string]int { return map[string]int{"daily": 3, "weekly": 21} }
	p := New(store, "limitsByUser", newLimits)

	_ = store.Save(ctx, "limitsByUser", []byte(`{"u1":{"daily":5,"extra":1}}`))
	v, err := p.Read(ctx, "u1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if v["daily"] != 5 {
		t.Errorf("Expected stored key to win, got %d", v["daily"])
	}
	if v["weekly"] != 21 {
		t.Errorf("Expected missing key from the default, got %d", v["weekly"])
	}
	if v["extra"] != 1 {
		t.Errorf("Expected unknown stored key to be kept, got %v", v)
	}

	v["daily"] = 0
	again, _ := p.Read(ctx, "u1")
	if again["daily"] != 5 {
		t.Error("Expected reads to return independent values")
	}
}
