package ai

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every typed error below matches exactly one of them with
// errors.Is, so callers can branch on the category without errors.As.
var (
	ErrAuthentication   = errors.New("missing or invalid credentials")
	ErrAuthHandshake    = errors.New("auth handshake failed")
	ErrRemoteAPI        = errors.New("remote API error")
	ErrTransport        = errors.New("transport error")
	ErrStreamDecode     = errors.New("stream decode error")
	ErrUnknownModel     = errors.New("unknown model")
	ErrInvalidSession   = errors.New("invalid session")
	ErrUnsupportedImage = errors.New("unsupported image format")
	ErrStreamConsumed   = errors.New("stream already consumed")
)

// AuthenticationError reports credentials the caller should have supplied
// but did not (or supplied malformed).
type AuthenticationError struct {
	Provider string
	Reason   string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Provider, e.Reason)
}

func (e *AuthenticationError) Is(target error) bool { return target == ErrAuthentication }

// AuthHandshakeError wraps the failure of one step of a login handshake.
type AuthHandshakeError struct {
	Provider string
	Step     string
	Err      error
}

func (e *AuthHandshakeError) Error() string {
	return fmt.Sprintf("%s: auth handshake failed at %s: %v", e.Provider, e.Step, e.Err)
}

func (e *AuthHandshakeError) Unwrap() error { return e.Err }

func (e *AuthHandshakeError) Is(target error) bool { return target == ErrAuthHandshake }

// RemoteAPIError is a non-2xx answer from an API that returns structured
// errors. Message is the vendor's own error text when it could be extracted.
type RemoteAPIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *RemoteAPIError) Error() string {
	return fmt.Sprintf("%s: remote API error (status %d): %s", e.Provider, e.StatusCode, e.Message)
}

func (e *RemoteAPIError) Is(target error) bool { return target == ErrRemoteAPI }

// TransportError is a non-2xx answer from a backend without structured error
// bodies. Body is a truncated copy of the response for diagnostics.
type TransportError struct {
	Provider   string
	StatusCode int
	Status     string
	Body       string
}

func (e *TransportError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: request failed with status %s", e.Provider, e.Status)
	}
	return fmt.Sprintf("%s: request failed with status %s: %s", e.Provider, e.Status, e.Body)
}

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// StreamDecodeError reports a response object that could not be decoded.
// Raw is the exact buffer that failed.
type StreamDecodeError struct {
	Provider string
	Raw      string
	Err      error
}

func (e *StreamDecodeError) Error() string {
	return fmt.Sprintf("%s: read chunk failed: %v: %s", e.Provider, e.Err, e.Raw)
}

func (e *StreamDecodeError) Unwrap() error { return e.Err }

func (e *StreamDecodeError) Is(target error) bool { return target == ErrStreamDecode }

// UnknownModelError reports a model name that is neither a known id nor an alias.
type UnknownModelError struct {
	Provider string
	Model    string
}

func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("%s: model %q is not supported", e.Provider, e.Model)
}

func (e *UnknownModelError) Is(target error) bool { return target == ErrUnknownModel }

// InvalidSessionError reports that the backend answered with its
// invalid-session page instead of chat text. Snippet is a readable rendering
// of that page.
type InvalidSessionError struct {
	Provider string
	Snippet  string
}

func (e *InvalidSessionError) Error() string {
	return fmt.Sprintf("%s: invalid session: %s", e.Provider, e.Snippet)
}

func (e *InvalidSessionError) Is(target error) bool { return target == ErrInvalidSession }
