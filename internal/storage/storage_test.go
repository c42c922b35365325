package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"recipe-planner/internal/database"
	"recipe-planner/internal/logger"
)

// exerciseStore runs the same contract against every backend.
func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("Load-Missing", func(t *testing.T) {
		_, ok, err := store.Load(ctx, "missing")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if ok {
			t.Error("Expected missing key to be absent")
		}
	})

	t.Run("Save-Load", func(t *testing.T) {
		if err := store.Save(ctx, "rp_recipes", []byte(`[{"id":"r_1"}]`)); err != nil {
			t.Fatalf("Failed to save: %v", err)
		}
		data, ok, err := store.Load(ctx, "rp_recipes")
		if err != nil {
			t.Fatalf("Failed to load: %v", err)
		}
		if !ok {
			t.Fatal("Expected key to be present")
		}
		if string(data) != `[{"id":"r_1"}]` {
			t.Errorf("Expected stored value, got '%s'", data)
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		if err := store.Save(ctx, "rp_recipes", []byte(`[]`)); err != nil {
			t.Fatalf("Failed to save: %v", err)
		}
		data, _, err := store.Load(ctx, "rp_recipes")
		if err != nil {
			t.Fatalf("Failed to load: %v", err)
		}
		if string(data) != `[]` {
			t.Errorf("Expected overwritten value '[]', got '%s'", data)
		}
	})
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewFileStore(tempDir)
	if err != nil {
		t.Fatalf("Failed to create FileStore: %v", err)
	}
	exerciseStore(t, store)

	filePath := filepath.Join(tempDir, "rp_recipes.json")
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		t.Errorf("Expected file '%s' to be created, but it wasn't", filePath)
	}

	matches, _ := filepath.Glob(filepath.Join(tempDir, "*.tmp"))
	if len(matches) != 0 {
		t.Errorf("Expected no leftover temp files, got %v", matches)
	}
}

func TestSQLiteStore(t *testing.T) {
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"), logger.Nop())
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	exerciseStore(t, NewSQLiteStore(db.SQL))
}

func TestLoadJSON(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	t.Run("Absent", func(t *testing.T) {
		var v []string
		ok, err := LoadJSON(ctx, store, "rp_users", &v)
		if err != nil || ok {
			t.Errorf("Expected absent without error, got ok=%v err=%v", ok, err)
		}
	})

	t.Run("Corrupt", func(t *testing.T) {
		_ = store.Save(ctx, "rp_users", []byte(`{not json`))
		var v []string
		ok, err := LoadJSON(ctx, store, "rp_users", &v)
		if ok {
			t.Error("Expected corrupt value to be reported as absent")
		}
		if !IsCorrupt(err) {
			t.Errorf("Expected a corrupt error, got %v", err)
		}
	})

	t.Run("RoundTrip", func(t *testing.T) {
		if err := SaveJSON(ctx, store, "rp_users", []string{"a", "b"}); err != nil {
			t.Fatalf("Failed to save: %v", err)
		}
		var v []string
		ok, err := LoadJSON(ctx, store, "rp_users", &v)
		if err != nil || !ok {
			t.Fatalf("Expected value, got ok=%v err=%v", ok, err)
		}
		if len(v) != 2 || v[1] != "b" {
			t.Errorf("Expected [a b], got %v", v)
		}
	})
}
