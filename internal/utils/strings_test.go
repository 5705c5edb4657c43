package utils

import (
	"strings"
	"testing"
)

// TestTruncateString verifies truncation and the default length fallback.
func TestTruncateString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{name: "short string untouched", input: "hello", maxLen: 10, expected: "hello"},
		{name: "exact length untouched", input: "hello", maxLen: 5, expected: "hello"},
		{name: "long string truncated", input: "hello world", maxLen: 5, expected: "hello... (truncated, total: 11 chars)"},
		{name: "zero uses default", input: "short", maxLen: 0, expected: "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := TruncateString(tt.input, tt.maxLen)
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

// TestJSONToString_Indented verifies that passing indent=true produces
// pretty-printed JSON with newlines.
func TestJSONToString_Indented(t *testing.T) {
	result := JSONToString(map[string]int{"x": 42}, true)
	if !strings.Contains(result, "\n") {
		t.Errorf("JSONToString(indent=true) should contain newlines, got: %q", result)
	}
}

// TestJSONToString_MarshalError verifies that JSONToString returns an error
// string rather than panicking when the value cannot be marshaled.
func TestJSONToString_MarshalError(t *testing.T) {
	result := JSONToString(make(chan int))
	if !strings.Contains(result, "failed to marshal") {
		t.Errorf("expected marshal error string, got %q", result)
	}
}

// TestRedactURL verifies that credential query parameters are masked.
func TestRedactURL(t *testing.T) {
	redacted := RedactURL("https://example.com/models/gemini-pro:generateContent?key=secret")
	if strings.Contains(redacted, "secret") {
		t.Errorf("expected key to be redacted, got %q", redacted)
	}
	if !strings.Contains(redacted, "key=REDACTED") {
		t.Errorf("expected key=REDACTED, got %q", redacted)
	}

	plain := "https://example.com/api/chat"
	if RedactURL(plain) != plain {
		t.Errorf("expected URL without credentials to be unchanged, got %q", RedactURL(plain))
	}
}

// TestSplitIncompleteRune verifies that a multi-byte rune split across two
// chunks is held back and completed by the next chunk.
func TestSplitIncompleteRune(t *testing.T) {
	encoded := []byte("ciao è")
	first, second := encoded[:len(encoded)-1], encoded[len(encoded)-1:]

	text, rest := SplitIncompleteRune(nil, first)
	if text != "ciao " {
		t.Errorf("expected %q, got %q", "ciao ", text)
	}
	if len(rest) != 1 {
		t.Fatalf("expected 1 pending byte, got %d", len(rest))
	}

	text, rest = SplitIncompleteRune(rest, second)
	if text != "è" {
		t.Errorf("expected %q, got %q", "è", text)
	}
	if len(rest) != 0 {
		t.Errorf("expected no pending bytes, got %d", len(rest))
	}
}

// TestPtr verifies that Ptr returns a pointer to a copy of the value.
func TestPtr(t *testing.T) {
	value := 0.5
	pointer := Ptr(value)
	if pointer == nil || *pointer != value {
		t.Fatalf("expected pointer to %v, got %v", value, pointer)
	}
	value = 1
	if *pointer != 0.5 {
		t.Errorf("expected pointer to hold a copy, got %v", *pointer)
	}
}
