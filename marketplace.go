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

package intelmart

import (
	"io"
	"log/slog"

	"github.com/intelmart/intelmart/ai"
	"github.com/intelmart/intelmart/ai/openai"
	"github.com/intelmart/intelmart/backfill"
	"github.com/intelmart/intelmart/market"
	"github.com/intelmart/intelmart/search"
	"github.com/intelmart/intelmart/storage"
	"github.com/intelmart/intelmart/storage/badger"
)

// Marketplace owns the storage stores and the AI provider, and hands out
// the service objects built on top of them.
type Marketplace struct {
	backend    *badger.Backend
	ledger     storage.LedgerStore
	escrow     storage.EscrowStore
	listings   storage.ListingStore
	embeddings storage.EmbeddingStore
	provider   ai.AIProvider
	logger     *slog.Logger
}

// MarketplaceOption configures a Marketplace.
type MarketplaceOption func(*marketplaceOptions)

type marketplaceOptions struct {
	aiConfig *ai.Config
}

// WithAIConfig overrides the default AI provider configuration.
func WithAIConfig(config *ai.Config) MarketplaceOption {
	return func(o *marketplaceOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// Open opens the marketplace database at filePath and connects the AI
// provider.
func Open(filePath string, opts ...MarketplaceOption) (*Marketplace, error) {
	options := &marketplaceOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	ledger, err := badger.NewLedgerStore(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	escrow, err := badger.NewEscrowStore(backend, ledger)
	if err != nil {
		ledger.Close()
		backend.Close()
		return nil, err
	}

	listings, err := badger.NewListingStore(backend)
	if err != nil {
		escrow.Close()
		ledger.Close()
		backend.Close()
		return nil, err
	}

	embeddings := badger.NewEmbeddingStore(backend)

	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		listings.Close()
		escrow.Close()
		ledger.Close()
		backend.Close()
		return nil, err
	}

	return &Marketplace{
		backend:    backend,
		ledger:     ledger,
		escrow:     escrow,
		listings:   listings,
		embeddings: embeddings,
		provider:   provider,
		logger:     slog.Default(),
	}, nil
}

// Close releases the AI provider and closes the stores. Store close errors
// are returned; provider close errors are only logged.
func (m *Marketplace) Close() error {
	if err := m.provider.Close(); err != nil {
		m.logger.Error("error closing AI provider", "err", err)
	}

	if err := m.embeddings.Close(); err != nil {
		m.logger.Error("error closing embedding store", "err", err)
		return err
	}
	if err := m.listings.Close(); err != nil {
		m.logger.Error("error closing listing store", "err", err)
		return err
	}
	if err := m.escrow.Close(); err != nil {
		m.logger.Error("error closing escrow store", "err", err)
		return err
	}
	if err := m.ledger.Close(); err != nil {
		m.logger.Error("error closing ledger store", "err", err)
		return err
	}

	if err := m.backend.Close(); err != nil {
		m.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (m *Marketplace) LedgerStore() storage.LedgerStore {
	return m.ledger
}

func (m *Marketplace) EscrowStore() storage.EscrowStore {
	return m.escrow
}

func (m *Marketplace) ListingStore() storage.ListingStore {
	return m.listings
}

func (m *Marketplace) EmbeddingStore() storage.EmbeddingStore {
	return m.embeddings
}

func (m *Marketplace) NewService(opts ...market.Option) (*market.Service, error) {
	return market.NewService(m.ledger, m.escrow, m.listings, m.embeddings, m.provider, opts...)
}

func (m *Marketplace) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(m.listings, m.embeddings, m.ledger, m.provider, opts...)
}

func (m *Marketplace) NewBackfiller(config *backfill.Config, progress io.Writer) *backfill.Backfiller {
	if progress == nil {
		progress = io.Discard
	}
	return backfill.NewBackfiller(m.listings, m.embeddings, m.provider.Embedder(), config, progress)
}
