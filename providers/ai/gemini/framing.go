package gemini

import "bytes"

// Framer reassembles complete response objects from the chunk sequence of a
// streamGenerateContent body. Implementations are used by a single stream and
// need not be safe for concurrent use.
type Framer interface {
	// Push consumes one chunk and returns a complete object with true when
	// the chunk closed one.
	Push(chunk []byte) ([]byte, bool)
	// Remaining returns the bytes accumulated since the last object boundary.
	Remaining() []byte
}

// FrameState is the position of a MarkerFramer in the response array.
type FrameState int

const (
	StateWaitingStart FrameState = iota
	StateAccumulating
	StateDone
)

func (state FrameState) String() string {
	switch state {
	case StateWaitingStart:
		return "waiting_start"
	case StateAccumulating:
		return "accumulating"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

var (
	arrayOpenMarker     = []byte("[{\n")
	itemSeparatorMarker = []byte(",\r\n")
	arrayCloseMarker    = []byte("]")
	objectSeed          = []byte("{\n")
)

// MarkerFramer splits the pseudo-JSON array Gemini streams by matching whole
// chunks against the array markers byte for byte:
//
//	"[{\n"   starts a fresh object, seeded with "{\n"
//	",\r\n"  closes the current object
//	"]"      closes the current object and the array
//
// Every other chunk is appended verbatim. The match is exact on purpose: a
// marker split across chunks, or sharing a chunk with payload, is not
// recognised. Chunks must therefore be cut on line boundaries (see
// utils.LineChunker).
type MarkerFramer struct {
	buffer bytes.Buffer
	state  FrameState
}

// NewMarkerFramer returns a MarkerFramer in the waiting state. Its signature
// matches the factory accepted by WithFramer.
func NewMarkerFramer() Framer {
	return &MarkerFramer{}
}

// Push implements Framer.
func (framer *MarkerFramer) Push(chunk []byte) ([]byte, bool) {
	switch {
	case bytes.Equal(chunk, arrayOpenMarker):
		framer.buffer.Reset()
		framer.buffer.Write(objectSeed)
		framer.state = StateAccumulating
		return nil, false

	case bytes.Equal(chunk, itemSeparatorMarker), bytes.Equal(chunk, arrayCloseMarker):
		if bytes.Equal(chunk, arrayCloseMarker) {
			framer.state = StateDone
		}
		// A boundary right after another boundary carries no object
		if framer.buffer.Len() == 0 {
			return nil, false
		}
		object := bytes.Clone(framer.buffer.Bytes())
		framer.buffer.Reset()
		return object, true

	default:
		framer.buffer.Write(chunk)
		if framer.state == StateWaitingStart {
			framer.state = StateAccumulating
		}
		return nil, false
	}
}

// Remaining implements Framer.
func (framer *MarkerFramer) Remaining() []byte {
	return framer.buffer.Bytes()
}

// State reports where the framer is in the array.
func (framer *MarkerFramer) State() FrameState {
	return framer.state
}
