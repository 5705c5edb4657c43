package ai

import (
	"errors"
	"testing"
)

// makeStream is a test helper that builds a TextStream from fragments. If
// midErr is non-nil it is yielded after the fragments.
func makeStream(fragments []string, midErr error) *TextStream {
	return NewTextStream(func(yield func(string, error) bool) {
		for _, fragment := range fragments {
			if !yield(fragment, nil) {
				return
			}
		}
		if midErr != nil {
			yield("", midErr)
		}
	})
}

// TestTextStream_Collect verifies that fragments are concatenated in order.
func TestTextStream_Collect(t *testing.T) {
	text, err := makeStream([]string{"Hel", "lo", "!"}, nil).Collect()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Hello!" {
		t.Errorf("expected %q, got %q", "Hello!", text)
	}
}

// TestTextStream_CollectPartialOnError verifies that the text yielded before
// a mid-stream error is returned together with the error.
func TestTextStream_CollectPartialOnError(t *testing.T) {
	streamErr := errors.New("stream broke")
	text, err := makeStream([]string{"partial"}, streamErr).Collect()
	if !errors.Is(err, streamErr) {
		t.Fatalf("expected stream error, got %v", err)
	}
	if text != "partial" {
		t.Errorf("expected partial text %q, got %q", "partial", text)
	}
}

// TestTextStream_SingleUse verifies that a second iteration yields
// ErrStreamConsumed instead of replaying the request.
func TestTextStream_SingleUse(t *testing.T) {
	stream := makeStream([]string{"a"}, nil)
	if _, err := stream.Collect(); err != nil {
		t.Fatalf("unexpected error on first collect: %v", err)
	}
	if _, err := stream.Collect(); !errors.Is(err, ErrStreamConsumed) {
		t.Errorf("expected ErrStreamConsumed, got %v", err)
	}
}

// TestTextStream_EarlyBreak verifies that breaking out of the loop stops the
// underlying iterator.
func TestTextStream_EarlyBreak(t *testing.T) {
	produced := 0
	stream := NewTextStream(func(yield func(string, error) bool) {
		for _, fragment := range []string{"a", "b", "c"} {
			produced++
			if !yield(fragment, nil) {
				return
			}
		}
	})

	for range stream.Iter() {
		break
	}
	if produced != 1 {
		t.Errorf("expected iterator to stop after 1 fragment, produced %d", produced)
	}
}

// TestNewSingleFragmentStream verifies that a complete text becomes exactly
// one fragment.
func TestNewSingleFragmentStream(t *testing.T) {
	fragments, err := NewSingleFragmentStream("Hello!").Fragments()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fragments) != 1 || fragments[0] != "Hello!" {
		t.Errorf("expected [Hello!], got %v", fragments)
	}
}
