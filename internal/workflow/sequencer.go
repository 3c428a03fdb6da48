package workflow

import "sync/atomic"

// Sequencer issues monotonically increasing request numbers. Only the most
// recently issued number is current.
type Sequencer struct {
	latest atomic.Uint64
}

// Next issues a new sequence number.
func (s *Sequencer) Next() uint64 {
	return s.latest.Add(1)
}

// Latest returns the most recently issued number, or 0.
func (s *Sequencer) Latest() uint64 {
	return s.latest.Load()
}

// IsLatest reports whether seq is still the newest issued number.
func (s *Sequencer) IsLatest(seq uint64) bool {
	return seq == s.latest.Load()
}
