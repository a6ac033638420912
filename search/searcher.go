// Copyright 2026 Intelmart Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package search

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/intelmart/intelmart/ai"
	"github.com/intelmart/intelmart/core"
	"github.com/intelmart/intelmart/storage"
)

const (
	// SearchTypeSemantic marks a response produced by the embedding and
	// ranking pipeline.
	SearchTypeSemantic = "semantic"

	// SearchTypeText marks a response produced by the substring fallback.
	SearchTypeText = "text"
)

const (
	// defaultCandidateLimit is how many retrieval hits the ranker sees.
	// Wider than the result limit so filtering has something to cut.
	defaultCandidateLimit = 15

	// defaultResultLimit caps the results returned to the caller.
	defaultResultLimit = 10
)

// Result is one search hit, resolved to its listing and poster reputation.
type Result struct {
	Kind       core.EntityKind
	Id         core.ID
	Title      string
	Snippet    string
	Category   string
	Reputation int
	CreatedAt  time.Time
	Score      float32
}

// Response is the outcome of a search: the cleaned query, resolved results,
// an optional synthesized answer, and which pipeline produced them.
type Response struct {
	Query      string
	Results    []Result
	Answer     string
	SearchType string
}

// Searcher runs the staged search pipeline: embed the query, retrieve
// candidates by vector similarity, rank them with an LLM, and synthesize a
// short answer. Any stage failing drops the search down to a plain substring
// scan over the listings, so a dead AI backend degrades quality, never
// availability.
type Searcher struct {
	listings    storage.ListingStore
	embeddings  storage.EmbeddingStore
	ledger      storage.LedgerStore
	embedder    ai.Embedder
	ranker      ai.Ranker
	synthesizer ai.Synthesizer
	logger      *slog.Logger

	candidateLimit int
	resultLimit    int
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithCandidateLimit sets how many retrieval hits are handed to the ranker.
func WithCandidateLimit(limit int) Option {
	return func(s *Searcher) error {
		if limit > 0 {
			s.candidateLimit = limit
		}
		return nil
	}
}

// WithResultLimit sets the maximum number of results returned.
func WithResultLimit(limit int) Option {
	return func(s *Searcher) error {
		if limit > 0 {
			s.resultLimit = limit
		}
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(
	listings storage.ListingStore,
	embeddings storage.EmbeddingStore,
	ledger storage.LedgerStore,
	provider ai.AIProvider,
	opts ...Option,
) (*Searcher, error) {
	if listings == nil {
		return nil, ErrListingStoreRequired
	}
	if embeddings == nil {
		return nil, ErrEmbeddingStoreRequired
	}
	if ledger == nil {
		return nil, ErrLedgerStoreRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	s := &Searcher{
		listings:       listings,
		embeddings:     embeddings,
		ledger:         ledger,
		embedder:       provider.Embedder(),
		ranker:         provider.Ranker(),
		synthesizer:    provider.Synthesizer(),
		logger:         slog.Default(),
		candidateLimit: defaultCandidateLimit,
		resultLimit:    defaultResultLimit,
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search runs the full pipeline for a query.
func (s *Searcher) Search(ctx context.Context, query string) (*Response, error) {
	return s.SearchWithMonitor(ctx, query, nil)
}

// SearchWithMonitor runs the full pipeline with monitoring. The monitor
// receives callbacks at each stage of the search process.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, monitor SearchMonitor) (*Response, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	cleaned := cleanQuery(query)
	if cleaned == "" {
		return nil, ErrEmptyQuery
	}

	monitor.Start(cleaned)

	response, err := s.semanticSearch(ctx, cleaned, monitor)
	if err != nil {
		s.logger.Warn("semantic search failed, falling back to text search", "query", cleaned, "err", err)
		monitor.TextFallback(err.Error())
		response = nil
	} else if response == nil {
		monitor.TextFallback("no relevant semantic results")
	}

	if response == nil {
		response, err = s.textSearch(ctx, cleaned)
		if err != nil {
			return nil, err
		}
	}

	monitor.Finish(response)
	return response, nil
}

// semanticSearch runs the embedding, ranking, and synthesis stages. It
// returns (nil, nil) when the pipeline worked but judged nothing relevant,
// which sends the caller to the text fallback.
func (s *Searcher) semanticSearch(ctx context.Context, query string, monitor SearchMonitor) (*Response, error) {
	vector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(vector) == 0 {
		return nil, errors.New("embedder returned empty vector")
	}

	hits, err := s.embeddings.Query(ctx, vector, s.candidateLimit)
	if err != nil {
		return nil, err
	}
	monitor.AfterRetrieval(hits)
	if len(hits) == 0 {
		return nil, nil
	}

	results, err := s.resolveHits(ctx, hits)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}

	candidates := toCandidates(results)
	kept, err := s.ranker.Rank(ctx, query, candidates)
	switch {
	case err != nil:
		// A dead filter is not a dead search: keep the retrieval order.
		s.logger.Warn("ranker unavailable, keeping unfiltered order", "query", query, "err", err)
		kept = unfilteredOrder(len(results))
	case !validRanking(kept, len(results)):
		s.logger.Warn("ranker returned invalid indices, keeping unfiltered order", "query", query, "indices", kept)
		kept = unfilteredOrder(len(results))
	case len(kept) == 0:
		s.logger.Debug("ranker judged no results relevant", "query", query)
		monitor.AfterRanking(kept)
		return nil, nil
	}
	monitor.AfterRanking(kept)

	ranked := make([]Result, 0, len(kept))
	for _, idx := range kept {
		ranked = append(ranked, results[idx])
	}
	if len(ranked) > s.resultLimit {
		ranked = ranked[:s.resultLimit]
	}

	// The answer is garnish; losing it doesn't fail the search
	answer, err := s.synthesizer.Synthesize(ctx, query, toCandidates(ranked))
	if err != nil {
		s.logger.Warn("answer synthesis failed", "query", query, "err", err)
		answer = ""
	}
	monitor.AfterSynthesis(answer)

	return &Response{
		Query:      query,
		Results:    ranked,
		Answer:     answer,
		SearchType: SearchTypeSemantic,
	}, nil
}

// textSearch is the substring fallback over open demands and published intel.
func (s *Searcher) textSearch(ctx context.Context, query string) (*Response, error) {
	demands, intels, err := s.listings.SearchText(ctx, query, s.resultLimit)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(demands)+len(intels))
	for _, demand := range demands {
		results = append(results, Result{
			Kind:       core.EntityKindDemand,
			Id:         demand.Id,
			Title:      demand.Title,
			Snippet:    snippet(demand.Description),
			Category:   demand.Category,
			Reputation: s.reputationOf(ctx, demand.BuyerId),
			CreatedAt:  demand.CreatedAt,
		})
	}
	for _, intel := range intels {
		results = append(results, Result{
			Kind:       core.EntityKindIntel,
			Id:         intel.Id,
			Title:      intel.Title,
			Snippet:    snippet(intel.Description),
			Category:   intel.Category,
			Reputation: s.reputationOf(ctx, intel.SellerId),
			CreatedAt:  intel.CreatedAt,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	if len(results) > s.resultLimit {
		results = results[:s.resultLimit]
	}

	return &Response{
		Query:      query,
		Results:    results,
		SearchType: SearchTypeText,
	}, nil
}

// resolveHits loads the listing behind each retrieval hit. Hits whose
// listing has gone away are skipped rather than failing the search; the
// index may briefly trail a deletion.
func (s *Searcher) resolveHits(ctx context.Context, hits []*core.SimilarEntity) ([]Result, error) {
	results := make([]Result, 0, len(hits))
	for _, hit := range hits {
		switch hit.EntityKind {
		case core.EntityKindDemand:
			demand, err := s.listings.GetDemand(ctx, hit.EntityId)
			if err != nil {
				if errors.Is(err, core.ErrNotFound) {
					continue
				}
				return nil, err
			}
			results = append(results, Result{
				Kind:       core.EntityKindDemand,
				Id:         demand.Id,
				Title:      demand.Title,
				Snippet:    snippet(demand.Description),
				Category:   demand.Category,
				Reputation: s.reputationOf(ctx, demand.BuyerId),
				CreatedAt:  demand.CreatedAt,
				Score:      hit.Score,
			})
		case core.EntityKindIntel:
			intel, err := s.listings.GetIntel(ctx, hit.EntityId)
			if err != nil {
				if errors.Is(err, core.ErrNotFound) {
					continue
				}
				return nil, err
			}
			results = append(results, Result{
				Kind:       core.EntityKindIntel,
				Id:         intel.Id,
				Title:      intel.Title,
				Snippet:    snippet(intel.Description),
				Category:   intel.Category,
				Reputation: s.reputationOf(ctx, intel.SellerId),
				CreatedAt:  intel.CreatedAt,
				Score:      hit.Score,
			})
		}
	}
	return results, nil
}

// reputationOf looks up an account's reputation, defaulting to zero when the
// account cannot be loaded.
func (s *Searcher) reputationOf(ctx context.Context, accountId core.ID) int {
	account, err := s.ledger.GetAccount(ctx, accountId)
	if err != nil {
		s.logger.Debug("reputation lookup failed", "account", accountId, "err", err)
		return 0
	}
	return account.Reputation
}

// validRanking reports whether every index is in [0, count) with no
// duplicates. Ranker implementations are expected to sanitize their own
// output, but the orchestrator never trusts that.
func validRanking(indices []int, count int) bool {
	seen := make(map[int]bool, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= count || seen[idx] {
			return false
		}
		seen[idx] = true
	}
	return true
}

// unfilteredOrder keeps all count candidates in their retrieval order.
func unfilteredOrder(count int) []int {
	indices := make([]int, count)
	for i := range indices {
		indices[i] = i
	}
	return indices
}

// toCandidates converts results to the prompt-facing candidate type.
func toCandidates(results []Result) []ai.Candidate {
	candidates := make([]ai.Candidate, len(results))
	for i, r := range results {
		candidates[i] = ai.Candidate{
			Kind:       strings.ToUpper(r.Kind.String()),
			Title:      r.Title,
			Snippet:    r.Snippet,
			Reputation: r.Reputation,
			CreatedAt:  r.CreatedAt,
		}
	}
	return candidates
}
