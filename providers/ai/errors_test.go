package ai

import (
	"errors"
	"fmt"
	"testing"
)

// TestTypedErrors_MatchSentinels verifies each typed error matches its own
// sentinel, survives wrapping, and does not match the others.
func TestTypedErrors_MatchSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"authentication", &AuthenticationError{Provider: "gemini", Reason: "missing api key"}, ErrAuthentication},
		{"handshake", &AuthHandshakeError{Provider: "liaobots", Step: "login", Err: errors.New("500")}, ErrAuthHandshake},
		{"remote api", &RemoteAPIError{Provider: "gemini", StatusCode: 400, Message: "bad"}, ErrRemoteAPI},
		{"transport", &TransportError{Provider: "liaobots", StatusCode: 502, Status: "502 Bad Gateway"}, ErrTransport},
		{"decode", &StreamDecodeError{Provider: "gemini", Raw: "{", Err: errors.New("eof")}, ErrStreamDecode},
		{"unknown model", &UnknownModelError{Provider: "liaobots", Model: "gpt-9"}, ErrUnknownModel},
		{"invalid session", &InvalidSessionError{Provider: "liaobots", Snippet: "login"}, ErrInvalidSession},
	}

	sentinels := []error{ErrAuthentication, ErrAuthHandshake, ErrRemoteAPI, ErrTransport, ErrStreamDecode, ErrUnknownModel, ErrInvalidSession}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("call failed: %w", tt.err)
			if !errors.Is(wrapped, tt.sentinel) {
				t.Errorf("expected %v to match %v", tt.err, tt.sentinel)
			}
			for _, other := range sentinels {
				if other != tt.sentinel && errors.Is(tt.err, other) {
					t.Errorf("expected %v not to match %v", tt.err, other)
				}
			}
		})
	}
}

// TestAuthHandshakeError_Unwrap verifies that the transport cause stays
// reachable through errors.Is.
func TestAuthHandshakeError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &AuthHandshakeError{Provider: "liaobots", Step: "user", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("expected handshake error to unwrap to its cause")
	}
}

// TestStreamDecodeError_IncludesRaw verifies the raw buffer is part of the
// message for diagnostics.
func TestStreamDecodeError_IncludesRaw(t *testing.T) {
	err := &StreamDecodeError{Provider: "gemini", Raw: `{"candidates":`, Err: errors.New("unexpected end")}
	if got := err.Error(); got != `gemini: read chunk failed: unexpected end: {"candidates":` {
		t.Errorf("unexpected message: %s", got)
	}
}
