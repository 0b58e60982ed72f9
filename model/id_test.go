package model

import "testing"

func TestNewID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		if !IsValidID(id) {
			t.Fatalf("generated id %q is not valid", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id generated: %q", id)
		}
		seen[id] = true
	}
}

func TestIsValidID(t *testing.T) {
	valid := []string{
		"64a1b2c3d4e5f60718293a4b",
		"000000000000000000000000",
		"ABCDEF0123456789abcdef01",
	}
	for _, id := range valid {
		if !IsValidID(id) {
			t.Errorf("expected %q to be valid", id)
		}
	}

	invalid := []string{
		"",
		"64a1b2c3d4e5f60718293a4",   // 23 chars
		"64a1b2c3d4e5f60718293a4bc", // 25 chars
		"64a1b2c3d4e5f60718293a4g",  // non-hex
		"not-an-id",
	}
	for _, id := range invalid {
		if IsValidID(id) {
			t.Errorf("expected %q to be invalid", id)
		}
	}
}
