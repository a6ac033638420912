package ai

import (
	"context"
	"time"
)

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a
	// batch, in the same order as the input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Ranker filters and orders retrieval candidates by relevance to a query.
// Implementations must be thread-safe for concurrent use.
type Ranker interface {
	// Rank returns the indices of relevant candidates, most relevant first.
	// An empty slice means the ranker judged nothing relevant, which is a
	// meaningful result, not a failure. Implementations that cannot produce
	// a usable ranking fall back to the candidates' original order rather
	// than erroring.
	Rank(ctx context.Context, query string, candidates []Candidate) ([]int, error)
}

// Synthesizer produces a short natural-language answer for a query from the
// retrieved candidates.
// Implementations must be thread-safe for concurrent use.
type Synthesizer interface {
	// Synthesize generates an answer grounded in the given candidates.
	// Returns an error if generation fails; callers treat the answer as
	// optional and tolerate its absence.
	Synthesize(ctx context.Context, query string, candidates []Candidate) (string, error)
}

// Candidate is a retrieval hit handed to the ranker and synthesizer. It
// carries only what the prompts reference, keeping this package free of
// storage types.
type Candidate struct {
	// Kind is the listing type label, e.g. "INTEL" or "DEMAND".
	Kind string

	// Title is the listing title.
	Title string

	// Snippet is a short excerpt of the listing description.
	Snippet string

	// Reputation is the posting account's reputation score.
	Reputation int

	// CreatedAt is when the listing was posted.
	CreatedAt time.Time
}

// AIProvider aggregates AI services for convenient initialization and
// lifecycle management. A provider creates and manages Embedder, Ranker,
// and Synthesizer instances sharing configuration and resources.
type AIProvider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Ranker returns the relevance ranking service.
	Ranker() Ranker

	// Synthesizer returns the answer synthesis service.
	Synthesizer() Synthesizer

	// Close releases resources held by the provider and its services.
	Close() error
}
