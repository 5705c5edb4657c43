// Package slog provides an observability.Observer backed by the standard
// library's log/slog, and helpers to pick the log level from the environment.
package slog
