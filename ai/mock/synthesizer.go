package mock

import (
	"context"
	"fmt"

	"github.com/intelmart/intelmart/ai"
)

// MockSynthesizer is a test double for ai.Synthesizer.
// It allows custom behavior injection via function fields.
type MockSynthesizer struct {
	// SynthesizeFunc is called by Synthesize if set.
	// If nil, uses default canned-answer behavior.
	SynthesizeFunc func(ctx context.Context, query string, candidates []ai.Candidate) (string, error)

	callCount int
}

// NewMockSynthesizer creates a mock synthesizer with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockSynthesizer().
func NewMockSynthesizer() *MockSynthesizer {
	return &MockSynthesizer{}
}

// Synthesize returns a deterministic canned answer naming the query and the
// number of candidates.
func (m *MockSynthesizer) Synthesize(ctx context.Context, query string, candidates []ai.Candidate) (string, error) {
	m.callCount++

	if m.SynthesizeFunc != nil {
		return m.SynthesizeFunc(ctx, query, candidates)
	}

	return fmt.Sprintf("Found %d results for %q", len(candidates), query), nil
}

// CallCount returns the number of times Synthesize was called.
func (m *MockSynthesizer) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockSynthesizer) Reset() {
	m.callCount = 0
	m.SynthesizeFunc = nil
}
