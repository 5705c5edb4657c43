// Package ai defines the shared, provider-agnostic types and interfaces used
// by the backend adapters (gemini, liaobots). Each adapter maps these types
// to its own wire format, keeping callers decoupled from vendor details.
//
// Request data flows through [ChatRequest]; generated text comes back as a
// [TextStream] of fragments from [Provider.CreateStream]. errors.go holds the
// error taxonomy shared by all adapters: typed errors for diagnostics and
// sentinels for errors.Is checks.
package ai
