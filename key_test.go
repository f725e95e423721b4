package lingocache

import "testing"

func TestHashText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple text",
			input:    "Hello World",
			expected: "a591a6d40bf420404a011733cfb7b190d62c65bf0bcda32b57b277d9ad9f146e",
		},
		{
			name:     "text with leading whitespace",
			input:    "  Hello World",
			expected: "a591a6d40bf420404a011733cfb7b190d62c65bf0bcda32b57b277d9ad9f146e",
		},
		{
			name:     "text with trailing whitespace",
			input:    "Hello World  ",
			expected: "a591a6d40bf420404a011733cfb7b190d62c65bf0bcda32b57b277d9ad9f146e",
		},
		{
			name:  "empty string",
			input: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := HashText(tt.input)
			if tt.expected != "" && result != tt.expected {
				t.Errorf("HashText(%q) = %q, want %q", tt.input, result, tt.expected)
			}
			// SHA-256 = 64 hex chars
			if len(result) != 64 {
				t.Errorf("HashText(%q) length = %d, want 64", tt.input, len(result))
			}
		})
	}
}

func TestDeriveKey_Deterministic(t *testing.T) {
	a := DeriveKey("Hello", "en", "ru", "gpt-4o-mini")
	b := DeriveKey("Hello", "en", "ru", "gpt-4o-mini")
	if a != b {
		t.Errorf("same inputs derived different keys: %q vs %q", a, b)
	}
	if len(a) != 64 {
		t.Errorf("key length = %d, want 64", len(a))
	}
}

func TestDeriveKey_TrimsText(t *testing.T) {
	if DeriveKey("  Hello  ", "en", "ru", "m") != DeriveKey("Hello", "en", "ru", "m") {
		t.Error("surrounding whitespace should not change the key")
	}
}

func TestDeriveKey_FieldIsolation(t *testing.T) {
	base := DeriveKey("Hello", "en", "ru", "m1")

	tests := []struct {
		name string
		key  string
	}{
		{"different text", DeriveKey("Hello!", "en", "ru", "m1")},
		{"different source", DeriveKey("Hello", "auto", "ru", "m1")},
		{"different target", DeriveKey("Hello", "en", "zh", "m1")},
		{"different model", DeriveKey("Hello", "en", "ru", "m2")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.key == base {
				t.Error("key should differ from base")
			}
		})
	}
}

func TestDeriveKey_SeparatorSafety(t *testing.T) {
	// Adjacent fields must not bleed into each other.
	pairs := [][2]string{
		{DeriveKey("ab", "c", "ru", "m"), DeriveKey("a", "bc", "ru", "m")},
		{DeriveKey("a", "bc", "ru", "m"), DeriveKey("a", "b", "cru", "m")},
		{DeriveKey("a", "b", "cd", "m"), DeriveKey("a", "b", "c", "dm")},
	}
	for i, pair := range pairs {
		if pair[0] == pair[1] {
			t.Errorf("pair %d: shifted field boundaries derived the same key", i)
		}
	}
}
