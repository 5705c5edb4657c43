package utils

import (
	"bufio"
	"errors"
	"io"
)

// defaultReadSize is the buffer size used by RawChunker for a single Read.
const defaultReadSize = 4096

// LineChunker cuts a response body into newline-terminated chunks. Unlike a
// bufio.Scanner it keeps the trailing "\n" (and any "\r" before it) so callers
// can match framing markers byte for byte. The last chunk is returned without
// a terminator when the body does not end with one.
type LineChunker struct {
	reader *bufio.Reader
}

// NewLineChunker creates a LineChunker reading from reader.
func NewLineChunker(reader io.Reader) *LineChunker {
	return &LineChunker{reader: bufio.NewReader(reader)}
}

// Next returns the next line chunk, or io.EOF once the body is exhausted.
func (chunker *LineChunker) Next() ([]byte, error) {
	line, err := chunker.reader.ReadBytes('\n')
	if len(line) > 0 {
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		return line, nil
	}
	if err == nil {
		return nil, io.EOF
	}
	return nil, err
}

// RawChunker yields whatever each Read of the underlying body returns, mirroring
// the network framing of a plain-text stream. Empty reads are skipped.
type RawChunker struct {
	reader  io.Reader
	buffer  []byte
	lastErr error
}

// NewRawChunker creates a RawChunker reading from reader.
func NewRawChunker(reader io.Reader) *RawChunker {
	return &RawChunker{reader: reader, buffer: make([]byte, defaultReadSize)}
}

// Next returns a copy of the next non-empty read, or the read error (io.EOF at
// the end of the body). A read that returns data together with an error
// delivers the data first and the error on the following call.
func (chunker *RawChunker) Next() ([]byte, error) {
	if chunker.lastErr != nil {
		return nil, chunker.lastErr
	}
	for {
		n, err := chunker.reader.Read(chunker.buffer)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, chunker.buffer[:n])
			chunker.lastErr = err
			return chunk, nil
		}
		if err != nil {
			chunker.lastErr = err
			return nil, err
		}
	}
}
