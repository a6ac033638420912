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

package backfill

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/intelmart/intelmart/ai"
	"github.com/intelmart/intelmart/core"
	"github.com/intelmart/intelmart/storage"
)

// Config holds configuration for the backfill operation.
type Config struct {
	// BatchSize is the number of listings to embed per provider call
	BatchSize int

	// ReportInterval is how often to report progress (number of listings)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for embedding calls
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Backfiller finds listings that never made it into the retrieval index and
// embeds them. Listings normally get indexed in the background when posted;
// this picks up whatever the pool dropped, for example during a provider
// outage.
type Backfiller struct {
	listings   storage.ListingStore
	embeddings storage.EmbeddingStore
	embedder   ai.Embedder
	config     *Config
	progress   io.Writer
}

// candidate pairs a missing listing with the text to embed.
type candidate struct {
	ref      storage.EntityRef
	text     string
	metadata map[string]string
}

// NewBackfiller creates a new backfiller.
// progress: where to write progress output (typically os.Stderr)
func NewBackfiller(listings storage.ListingStore, embeddings storage.EmbeddingStore, embedder ai.Embedder, config *Config, progress io.Writer) *Backfiller {
	if config == nil {
		config = DefaultConfig()
	}

	return &Backfiller{
		listings:   listings,
		embeddings: embeddings,
		embedder:   embedder,
		config:     config,
		progress:   progress,
	}
}

// Run embeds every listing missing from the index, in batches. The cutoff
// is taken at the start, so listings posted while the backfill runs are
// left to the normal background path.
func (b *Backfiller) Run(ctx context.Context) error {
	refs, err := b.embeddings.Missing(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("failed to scan for missing listings: %w", err)
	}

	if len(refs) == 0 {
		fmt.Fprintf(b.progress, "Index is complete (0 missing listings)\n")
		return nil
	}

	fmt.Fprintf(b.progress, "Backfilling %d listings (batch size: %d)\n",
		len(refs), b.config.BatchSize)

	tracker := NewProgressTracker(b.progress, len(refs), b.config.ReportInterval)
	tracker.Start()

	for start := 0; start < len(refs); start += b.config.BatchSize {
		end := start + b.config.BatchSize
		if end > len(refs) {
			end = len(refs)
		}

		if err := b.processBatch(ctx, refs[start:end]); err != nil {
			return err
		}

		tracker.Increment(end - start)
	}

	tracker.Finish()
	fmt.Fprintf(b.progress, "Backfilled %d listings in %.1fs\n",
		len(refs), tracker.Elapsed().Seconds())

	return nil
}

// processBatch embeds one batch of listings and writes the index records.
func (b *Backfiller) processBatch(ctx context.Context, refs []storage.EntityRef) error {
	candidates := make([]candidate, 0, len(refs))
	for _, ref := range refs {
		c, err := b.loadCandidate(ctx, ref)
		if err != nil {
			// A listing deleted mid-run is not a failure.
			if errors.Is(err, core.ErrNotFound) {
				continue
			}
			return fmt.Errorf("failed to load %s %d: %w", ref.Kind, ref.Id, err)
		}
		candidates = append(candidates, c)
	}

	if len(candidates) == 0 {
		return nil
	}

	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.text
	}

	var vectors [][]float32
	err := b.config.Retry(ctx, func() error {
		var embedErr error
		vectors, embedErr = b.embedder.EmbedTexts(ctx, texts)
		return embedErr
	})
	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", b.config.MaxRetries, err)
	}

	if len(vectors) != len(candidates) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(candidates), len(vectors))
	}

	for i, c := range candidates {
		if _, err := b.embeddings.Upsert(ctx, c.ref.Kind, c.ref.Id, vectors[i], c.metadata); err != nil {
			return fmt.Errorf("failed to index %s %d: %w", c.ref.Kind, c.ref.Id, err)
		}
	}

	return nil
}

func (b *Backfiller) loadCandidate(ctx context.Context, ref storage.EntityRef) (candidate, error) {
	switch ref.Kind {
	case core.EntityKindDemand:
		demand, err := b.listings.GetDemand(ctx, ref.Id)
		if err != nil {
			return candidate{}, err
		}
		return candidate{
			ref:  ref,
			text: demand.Title + "\n" + demand.Description,
			metadata: map[string]string{
				"title":    demand.Title,
				"category": demand.Category,
			},
		}, nil
	case core.EntityKindIntel:
		intel, err := b.listings.GetIntel(ctx, ref.Id)
		if err != nil {
			return candidate{}, err
		}
		return candidate{
			ref:  ref,
			text: intel.Title + "\n" + intel.Description,
			metadata: map[string]string{
				"title":    intel.Title,
				"category": intel.Category,
			},
		}, nil
	default:
		return candidate{}, fmt.Errorf("%w: entity kind %d", core.ErrInvalidInput, ref.Kind)
	}
}
