package logger

import "testing"

func TestSanitizeKVs(t *testing.T) {
	out := sanitizeKVs([]interface{}{"user_id", "u_1", "password", "hunter2", "api_token", "abc", "dangling"})

	if len(out) != 7 {
		t.Fatalf("Expected 7 values, got %d", len(out))
	}
	if out[1] != "u_1" {
		t.Errorf("Expected user_id to pass through, got %v", out[1])
	}
	if out[3] != "[REDACTED]" {
		t.Errorf("Expected password to be redacted, got %v", out[3])
	}
	if out[5] != "[REDACTED]" {
		t.Errorf("Expected token to be redacted, got %v", out[5])
	}
	if out[6] != "dangling" {
		t.Errorf("Expected trailing key to be kept, got %v", out[6])
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.With("recipe_id", "r_1").Info("ignored", "email", "a@b.c")
}
