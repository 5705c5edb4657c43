package ai

import (
	"iter"
	"strings"
	"sync/atomic"
)

// TextStream wraps a fragment iterator produced by a provider. Fragments are
// plain text pieces in the order the backend produced them; a non-nil error
// ends the sequence, and fragments yielded before it remain valid.
//
// A TextStream is single use: the second call to Iter (or Collect) yields
// ErrStreamConsumed instead of re-running the request.
//
// Important: callers must consume the stream, either by iterating with Iter()
// (including breaking out of the loop early) or by calling Collect(). The
// provider holds the HTTP response body open until the iterator returns;
// constructing a TextStream and never iterating it leaks that connection.
type TextStream struct {
	iterator iter.Seq2[string, error]
	consumed atomic.Bool
}

// NewTextStream creates a TextStream from a raw fragment iterator.
// The iterator yields (fragment, nil) for normal output and may yield a
// non-nil error once to signal a mid-stream failure.
func NewTextStream(iterator iter.Seq2[string, error]) *TextStream {
	return &TextStream{iterator: iterator}
}

// NewSingleFragmentStream wraps an already complete text as a one-fragment
// stream. Non-streaming provider calls use it so callers consume both modes
// the same way.
func NewSingleFragmentStream(text string) *TextStream {
	return NewTextStream(func(yield func(string, error) bool) {
		yield(text, nil)
	})
}

// Iter returns the underlying iterator for use with range-over-func loops.
//
// Example:
//
//	for fragment, err := range stream.Iter() {
//	    if err != nil { handle error }
//	    fmt.Print(fragment)
//	}
func (stream *TextStream) Iter() iter.Seq2[string, error] {
	if stream.consumed.Swap(true) {
		return func(yield func(string, error) bool) {
			yield("", ErrStreamConsumed)
		}
	}
	return stream.iterator
}

// Collect consumes the entire stream and returns the concatenated text.
// A mid-stream error stops collection; the text gathered so far is returned
// together with the error.
func (stream *TextStream) Collect() (string, error) {
	var builder strings.Builder
	for fragment, err := range stream.Iter() {
		if err != nil {
			return builder.String(), err
		}
		builder.WriteString(fragment)
	}
	return builder.String(), nil
}

// Fragments consumes the stream and returns every fragment separately, which
// is mostly useful when the fragment boundaries matter (tests, debugging).
func (stream *TextStream) Fragments() ([]string, error) {
	var fragments []string
	for fragment, err := range stream.Iter() {
		if err != nil {
			return fragments, err
		}
		fragments = append(fragments, fragment)
	}
	return fragments, nil
}
