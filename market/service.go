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

package market

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/intelmart/intelmart/ai"
	"github.com/intelmart/intelmart/core"
	"github.com/intelmart/intelmart/storage"
	"github.com/panjf2000/ants/v2"
)

const (
	// defaultFeeRateBps is the platform's cut of each escrow, in basis
	// points. 2000 bps = 20%.
	defaultFeeRateBps = 2000

	// welcomeCredits is granted to every new account on registration.
	welcomeCredits = 100

	// welcomeReference marks the registration grant in the ledger.
	welcomeReference = "signup-bonus"
)

// Service is the marketplace facade. It composes the ledger, escrow,
// listing, and embedding stores with the AI provider, and owns the worker
// pool that indexes new listings in the background.
type Service struct {
	ledger     storage.LedgerStore
	escrow     storage.EscrowStore
	listings   storage.ListingStore
	embeddings storage.EmbeddingStore
	embedder   ai.Embedder
	pool       *ants.Pool
	feeRateBps int
	logger     *slog.Logger
}

// Option configures a Service.
type Option func(*Service) error

// WithFeeRateBps sets the platform fee rate in basis points.
// Default is 2000 (20%).
func WithFeeRateBps(bps int) Option {
	return func(s *Service) error {
		if bps >= 0 && bps <= 10000 {
			s.feeRateBps = bps
		}
		return nil
	}
}

// WithPoolSize sets the worker pool size for background embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(s *Service) error {
		if size < 1 {
			size = 1
		}
		if s.pool != nil {
			s.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		s.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewService creates a new marketplace service.
func NewService(
	ledger storage.LedgerStore,
	escrow storage.EscrowStore,
	listings storage.ListingStore,
	embeddings storage.EmbeddingStore,
	provider ai.AIProvider,
	opts ...Option,
) (*Service, error) {
	if ledger == nil {
		return nil, ErrLedgerStoreRequired
	}
	if escrow == nil {
		return nil, ErrEscrowStoreRequired
	}
	if listings == nil {
		return nil, ErrListingStoreRequired
	}
	if embeddings == nil {
		return nil, ErrEmbeddingStoreRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	s := &Service{
		ledger:     ledger,
		escrow:     escrow,
		listings:   listings,
		embeddings: embeddings,
		embedder:   provider.Embedder(),
		pool:       pool,
		feeRateBps: defaultFeeRateBps,
		logger:     slog.Default().With("component", "market"),
	}

	for _, opt := range opts {
		if optErr := opt(s); optErr != nil {
			s.Close()
			return nil, optErr
		}
	}

	return s, nil
}

// Close releases the embedding worker pool.
// The service should not be used after calling Close.
func (s *Service) Close() {
	if s.pool != nil {
		s.pool.Release()
	}
}

// FeeRateBps returns the configured platform fee rate.
func (s *Service) FeeRateBps() int {
	return s.feeRateBps
}

// RegisterAccount creates an account and grants it the welcome credits.
func (s *Service) RegisterAccount(ctx context.Context, reputation int) (*core.Account, error) {
	account, err := s.ledger.CreateAccount(ctx, reputation)
	if err != nil {
		return nil, err
	}

	if _, err := s.ledger.Credit(ctx, account.Id, welcomeCredits, core.EntryKindPurchase, welcomeReference); err != nil {
		return nil, err
	}

	return s.ledger.GetAccount(ctx, account.Id)
}

// PostDemand creates a demand listing and indexes it in the background.
func (s *Service) PostDemand(ctx context.Context, demand *core.Demand) (*core.Demand, error) {
	added, err := s.listings.AddDemand(ctx, demand)
	if err != nil {
		return nil, err
	}

	s.enqueueEmbedding(core.EntityKindDemand, added.Id, added.Title, added.Description, added.Category)
	return added, nil
}

// PostIntel creates an intel listing and indexes it in the background.
func (s *Service) PostIntel(ctx context.Context, intel *core.Intel) (*core.Intel, error) {
	added, err := s.listings.AddIntel(ctx, intel)
	if err != nil {
		return nil, err
	}

	s.enqueueEmbedding(core.EntityKindIntel, added.Id, added.Title, added.Description, added.Category)
	return added, nil
}

// CancelDemand cancels an open demand. Buyer only.
func (s *Service) CancelDemand(ctx context.Context, demandId, actorId core.ID) (*core.Demand, error) {
	return s.listings.CancelDemand(ctx, demandId, actorId)
}

// DeleteIntel removes a published intel listing and its index record.
// Seller only.
func (s *Service) DeleteIntel(ctx context.Context, intelId, actorId core.ID) error {
	return s.listings.DeleteIntel(ctx, intelId, actorId)
}

// PurchaseIntel opens an escrow for a published intel listing: the buyer is
// debited the full price, the listing moves to SOLD, and the seller is paid
// on release.
func (s *Service) PurchaseIntel(ctx context.Context, buyerId, intelId core.ID) (*core.EscrowTransaction, error) {
	intel, err := s.listings.GetIntel(ctx, intelId)
	if err != nil {
		return nil, err
	}

	return s.escrow.Open(ctx, storage.OpenParams{
		BuyerId:     buyerId,
		SellerId:    intel.SellerId,
		SubjectKind: core.EntityKindIntel,
		SubjectId:   intel.Id,
		Gross:       intel.PriceCredits,
		FeeRateBps:  s.feeRateBps,
	})
}

// AcceptFulfillment opens an escrow for a demand the given seller has
// fulfilled: the demand's buyer is debited the bounty and the demand moves
// to FULFILLED in the same atomic unit.
func (s *Service) AcceptFulfillment(ctx context.Context, demandId, sellerId core.ID) (*core.EscrowTransaction, error) {
	demand, err := s.listings.GetDemand(ctx, demandId)
	if err != nil {
		return nil, err
	}

	return s.escrow.Open(ctx, storage.OpenParams{
		BuyerId:     demand.BuyerId,
		SellerId:    sellerId,
		SubjectKind: core.EntityKindDemand,
		SubjectId:   demand.Id,
		Gross:       demand.BountyCredits,
		FeeRateBps:  s.feeRateBps,
	})
}

// Release pays the seller out of an open escrow. Seller only.
func (s *Service) Release(ctx context.Context, txId, actorId core.ID) (*core.EscrowTransaction, error) {
	return s.escrow.Release(ctx, txId, actorId)
}

// Refund returns the escrowed amount to the buyer. Buyer only.
func (s *Service) Refund(ctx context.Context, txId, actorId core.ID) (*core.EscrowTransaction, error) {
	return s.escrow.Refund(ctx, txId, actorId)
}

// Dispute parks an open escrow pending resolution. Either party.
func (s *Service) Dispute(ctx context.Context, txId, actorId core.ID) (*core.EscrowTransaction, error) {
	return s.escrow.Dispute(ctx, txId, actorId)
}

// ResolveDispute settles a disputed escrow with the given outcome.
func (s *Service) ResolveDispute(ctx context.Context, txId core.ID, outcome storage.ResolveOutcome) (*core.EscrowTransaction, error) {
	return s.escrow.Resolve(ctx, txId, outcome)
}

// CreditPurchase credits an account for a completed payment. The gateway's
// payment ID becomes the ledger reference so the purchase can be traced.
func (s *Service) CreditPurchase(ctx context.Context, accountId core.ID, amount int64, paymentId string) (*core.LedgerEntry, error) {
	return s.ledger.Credit(ctx, accountId, amount, core.EntryKindPurchase, paymentId)
}

// Cashout debits an account for a withdrawal to the outside world.
func (s *Service) Cashout(ctx context.Context, accountId core.ID, amount int64, referenceId string) (*core.LedgerEntry, error) {
	return s.ledger.Debit(ctx, accountId, amount, core.EntryKindCashout, referenceId)
}

// History returns the account's ledger entries in creation order.
func (s *Service) History(ctx context.Context, accountId core.ID) ([]*core.LedgerEntry, error) {
	return s.ledger.Entries(ctx, accountId)
}

// Transactions returns escrow transactions the account is party to, newest
// first.
func (s *Service) Transactions(ctx context.Context, accountId core.ID) ([]*core.EscrowTransaction, error) {
	return s.escrow.ByParty(ctx, accountId)
}

// enqueueEmbedding submits a listing for background indexing. Failures are
// logged and dropped; the listing exists either way and the backfill job
// picks up whatever the pool missed.
func (s *Service) enqueueEmbedding(kind core.EntityKind, entityId core.ID, title, description, category string) {
	text := title + "\n" + description
	err := s.pool.Submit(func() {
		vector, embedErr := s.embedder.EmbedText(context.Background(), text)
		if embedErr != nil {
			s.logger.Warn("failed to embed listing",
				"kind", kind, "id", entityId, "error", embedErr)
			return
		}

		metadata := map[string]string{
			"title":    title,
			"category": category,
		}
		if _, upsertErr := s.embeddings.Upsert(context.Background(), kind, entityId, vector, metadata); upsertErr != nil {
			s.logger.Warn("failed to index listing",
				"kind", kind, "id", entityId, "error", upsertErr)
		}
	})
	if err != nil {
		s.logger.Warn("failed to submit embedding task",
			"kind", kind, "id", entityId, "error", err)
	}
}

// Balance returns the account's current credit balance.
func (s *Service) Balance(ctx context.Context, accountId core.ID) (int64, error) {
	account, err := s.ledger.GetAccount(ctx, accountId)
	if err != nil {
		return 0, err
	}
	return account.CreditsBalance, nil
}
