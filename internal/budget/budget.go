// Package budget tracks the two resource limits every decoder in this
// module must enforce: a bound on intermediate allocation proportional
// to declared lengths, and a bound on recursion depth.
//
// A shared helper exists so the DAG-CBOR and DAG-JSON decoders apply
// identical rules rather than each hand-rolling its own bookkeeping. The
// DAG-PB decoder does not use it: its schema nests only two levels, and
// protowire checks each declared length against the remaining input.
package budget

import "github.com/go-ipld/ipld-core/datamodel"

// DefaultDepthLimit is the default recursion depth bound applied when a
// caller doesn't configure one explicitly.
const DefaultDepthLimit = 64

// Tracker bounds decoder resource use against a remaining byte count and
// a depth limit.
type Tracker struct {
	remaining int64 // bytes left in the input, as reported by the caller
	depth     int
	depthMax  int
}

// NewTracker creates a Tracker for an input of the given total size (in
// bytes) and a maximum recursion depth. A non-positive depthMax falls
// back to DefaultDepthLimit.
func NewTracker(totalSize int64, depthMax int) *Tracker {
	if depthMax <= 0 {
		depthMax = DefaultDepthLimit
	}
	return &Tracker{remaining: totalSize, depthMax: depthMax}
}

// CheckLength validates a declared length against the bytes known to
// remain in the input, before the caller allocates anything proportional
// to that length. This is the guard against a small hostile input
// declaring e.g. a 4GiB byte string.
func (t *Tracker) CheckLength(declared int64) error {
	if declared < 0 || declared > t.remaining {
		return datamodel.ErrLengthMismatch(declared, t.remaining, -1)
	}
	return nil
}

// Consume records that n bytes of the input have now been read.
func (t *Tracker) Consume(n int64) {
	t.remaining -= n
}

// Enter increments the recursion depth, failing with ErrDepthExceeded if
// the configured limit would be exceeded. Every recursive descent into a
// List or Map must call Enter before recursing and Exit on the way back
// out (or, for an explicit-stack decoder, on popping the corresponding
// frame).
func (t *Tracker) Enter() error {
	if t.depth >= t.depthMax {
		return datamodel.ErrDepthExceeded(t.depthMax)
	}
	t.depth++
	return nil
}

// Exit decrements the recursion depth.
func (t *Tracker) Exit() {
	t.depth--
}
