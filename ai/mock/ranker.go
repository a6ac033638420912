package mock

import (
	"context"
	"strings"

	"github.com/intelmart/intelmart/ai"
)

// MockRanker is a test double for ai.Ranker.
// It allows custom behavior injection via function fields.
type MockRanker struct {
	// RankFunc is called by Rank if set.
	// If nil, uses default substring-match behavior.
	RankFunc func(ctx context.Context, query string, candidates []ai.Candidate) ([]int, error)

	callCount int
}

// NewMockRanker creates a mock ranker with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockRanker().
func NewMockRanker() *MockRanker {
	return &MockRanker{}
}

// Rank keeps candidates whose title or snippet contains a query word, in
// their original order. This crude matching is deterministic, which is what
// tests need.
func (m *MockRanker) Rank(ctx context.Context, query string, candidates []ai.Candidate) ([]int, error) {
	m.callCount++

	if m.RankFunc != nil {
		return m.RankFunc(ctx, query, candidates)
	}

	words := strings.Fields(strings.ToLower(query))
	indices := []int{}
	for i, c := range candidates {
		haystack := strings.ToLower(c.Title + " " + c.Snippet)
		for _, word := range words {
			if strings.Contains(haystack, word) {
				indices = append(indices, i)
				break
			}
		}
	}
	return indices, nil
}

// CallCount returns the number of times Rank was called.
func (m *MockRanker) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockRanker) Reset() {
	m.callCount = 0
	m.RankFunc = nil
}
