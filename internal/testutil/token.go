// Package testutil holds deterministic helpers shared by the harness and
// tests.
package testutil

import (
	"fmt"
	"sync"
)

// SequenceGenerator generates numbered message tokens: "<prefix>-1",
// "<prefix>-2", and so on.
//
// Unlike session.FixedGenerator it never runs out, so a scenario can hold
// any number of settings lines and still produce byte-identical reports.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type SequenceGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequenceGenerator creates a generator for prefix.
// If prefix is empty, tokens are "msg-1", "msg-2", ...
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	if prefix == "" {
		prefix = "msg"
	}
	return &SequenceGenerator{prefix: prefix}
}

// Generate returns the next token.
//
// Implements session.TokenGenerator.
func (g *SequenceGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}

// Reset restarts numbering. After Reset, the next token ends in "-1".
func (g *SequenceGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n = 0
}
