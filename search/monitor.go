package search

import "github.com/intelmart/intelmart/core"

// SearchMonitor provides hooks to observe the search pipeline.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterRetrieval(hits []*core.SimilarEntity)
	AfterRanking(kept []int)
	AfterSynthesis(answer string)
	TextFallback(reason string)
	Finish(response *Response)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                       {}
func (n *noopMonitor) AfterRetrieval(_ []*core.SimilarEntity) {}
func (n *noopMonitor) AfterRanking(_ []int)                 {}
func (n *noopMonitor) AfterSynthesis(_ string)              {}
func (n *noopMonitor) TextFallback(_ string)                {}
func (n *noopMonitor) Finish(_ *Response)                   {}
