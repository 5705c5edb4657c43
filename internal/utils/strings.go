package utils

import (
	"encoding/json"
	"fmt"
	"net/url"
	"unicode/utf8"
)

const (
	// DefaultMaxStringLength is the default maximum length for truncated strings
	DefaultMaxStringLength = 500
)

// redactedQueryKeys lists query parameters whose values never reach logs.
var redactedQueryKeys = []string{"key", "api_key"}

// JSONToString serialises object to its JSON representation and returns it as a
// string. When the optional indent argument is true the output is
// pretty-printed with two-space indentation. On marshalling failure it returns
// a JSON-formatted error string rather than panicking, so the result is always
// safe to use in log output.
func JSONToString(object any, indent ...bool) string {
	var encoded []byte
	var err error
	if len(indent) > 0 && indent[0] {
		encoded, err = json.MarshalIndent(object, "", "  ")
	} else {
		encoded, err = json.Marshal(object)
	}
	if err != nil {
		return "{\"error\": \"failed to marshal to JSON: " + err.Error() + "\"}"
	}
	return string(encoded)
}

// TruncateString shortens s to at most maxLen characters, appending a suffix
// that records the original total length so callers know data was omitted.
// If maxLen is zero or negative, [DefaultMaxStringLength] is used instead.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxStringLength
	}
	if len(s) <= maxLen {
		return s
	}
	return fmt.Sprintf("%s... (truncated, total: %d chars)", s[:maxLen], len(s))
}

// TruncateStringDefault truncates a string using DefaultMaxStringLength
func TruncateStringDefault(s string) string {
	return TruncateString(s, DefaultMaxStringLength)
}

// RedactURL masks credential query parameters so a request URL can be logged.
// Unparseable input is returned unchanged.
func RedactURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	query := parsed.Query()
	changed := false
	for _, key := range redactedQueryKeys {
		if query.Has(key) {
			query.Set(key, "REDACTED")
			changed = true
		}
	}
	if !changed {
		return rawURL
	}
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

// SplitIncompleteRune joins pending and chunk and cuts the result before a
// trailing, not yet complete UTF-8 sequence. It returns the decodable text and
// the bytes to carry over into the next call.
func SplitIncompleteRune(pending, chunk []byte) (string, []byte) {
	data := append(pending, chunk...)
	cut := len(data)
	for i := len(data) - 1; i >= 0 && i >= len(data)-utf8.UTFMax; i-- {
		if utf8.RuneStart(data[i]) {
			if !utf8.FullRune(data[i:]) {
				cut = i
			}
			break
		}
	}
	rest := make([]byte, len(data)-cut)
	copy(rest, data[cut:])
	return string(data[:cut]), rest
}

// Ptr returns a pointer to v. Optional request knobs are modelled as pointers,
// and this avoids a temporary variable for literals.
//
// Example:
//
//	config := ai.GenerationConfig{Temperature: utils.Ptr(0.2)}
func Ptr[T any](v T) *T {
	return &v
}
