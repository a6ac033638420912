package storage

import (
	"context"
	"time"

	"github.com/intelmart/intelmart/core"
)

// Store provides common lifecycle operations shared across all stores.
// Implementations must be thread-safe and support concurrent access.
type Store interface {
	// Close closes the store and releases resources.
	Close() error
}

// LedgerStore is the only writer to account balances. Every mutation appends
// a ledger entry and updates the balance in one atomic unit; a balance can
// never change without a matching entry.
type LedgerStore interface {
	Store

	// CreateAccount creates a new account with a zero balance.
	CreateAccount(ctx context.Context, reputation int) (*core.Account, error)

	// GetAccount retrieves an account by ID.
	// Returns core.ErrNotFound if the account doesn't exist.
	GetAccount(ctx context.Context, id core.ID) (*core.Account, error)

	// Credit increases the account balance by amount and appends an entry
	// with BalanceAfter = balance + amount.
	// Returns core.ErrInvalidAmount if amount <= 0.
	Credit(ctx context.Context, accountId core.ID, amount int64, kind core.EntryKind, referenceId string) (*core.LedgerEntry, error)

	// Debit decreases the account balance by amount and appends an entry.
	// The sufficiency check and the mutation are a single atomic unit with
	// respect to concurrent debits on the same account.
	// Returns core.ErrInsufficientFunds if balance < amount.
	// Returns core.ErrInvalidAmount if amount <= 0.
	Debit(ctx context.Context, accountId core.ID, amount int64, kind core.EntryKind, referenceId string) (*core.LedgerEntry, error)

	// Entries returns the account's ledger entries in creation order.
	Entries(ctx context.Context, accountId core.ID) ([]*core.LedgerEntry, error)

	// VerifyAccount replays the account's entries from zero and confirms
	// that each BalanceAfter matches the running sum and that the stored
	// balance equals the final entry's BalanceAfter.
	VerifyAccount(ctx context.Context, accountId core.ID) error
}

// OpenParams describes an escrow transaction to open.
type OpenParams struct {
	BuyerId     core.ID
	SellerId    core.ID
	SubjectKind core.EntityKind
	SubjectId   core.ID
	Gross       int64
	FeeRateBps  int
}

// ResolveOutcome selects the terminal state for a disputed transaction.
type ResolveOutcome int

const (
	// ResolveRelease pays the seller out of the disputed hold.
	ResolveRelease ResolveOutcome = iota + 1
	// ResolveRefund returns the disputed hold to the buyer.
	ResolveRefund
)

// EscrowStore owns escrow transaction rows and drives their state machine.
// Each transition executes in a single atomic unit together with its paired
// ledger effect and any subject listing status change; state is re-checked
// inside that unit, so re-invoking a transition on a terminal row returns
// core.ErrInvalidState and writes nothing.
type EscrowStore interface {
	Store

	// Open computes the platform fee, debits the buyer for the gross amount
	// (kind SPEND), creates the transaction row in ESCROW, and advances the
	// subject listing (intel PUBLISHED -> SOLD, demand OPEN -> FULFILLED).
	// No row is created when the debit fails.
	Open(ctx context.Context, params OpenParams) (*core.EscrowTransaction, error)

	// Release pays out gross - fee to the seller (kind EARN) and moves the
	// transaction to RELEASED. Seller only; valid from ESCROW.
	Release(ctx context.Context, txId, actorId core.ID) (*core.EscrowTransaction, error)

	// Refund returns the full gross amount to the buyer (kind REFUND) and
	// moves the transaction to REFUNDED. Buyer only; valid from ESCROW or,
	// as a post-release reversal, RELEASED.
	Refund(ctx context.Context, txId, actorId core.ID) (*core.EscrowTransaction, error)

	// Dispute moves the transaction to DISPUTED with no ledger effect.
	// Either party; valid from ESCROW only.
	Dispute(ctx context.Context, txId, actorId core.ID) (*core.EscrowTransaction, error)

	// Resolve moves a DISPUTED transaction to its terminal state with the
	// matching ledger effect. The resolution decision itself is external.
	Resolve(ctx context.Context, txId core.ID, outcome ResolveOutcome) (*core.EscrowTransaction, error)

	// Get retrieves a transaction by ID.
	Get(ctx context.Context, txId core.ID) (*core.EscrowTransaction, error)

	// ByParty returns transactions where the account is buyer or seller,
	// newest first.
	ByParty(ctx context.Context, accountId core.ID) ([]*core.EscrowTransaction, error)
}

// ListingStore owns demand and intel listings.
type ListingStore interface {
	Store

	// AddDemand creates a demand listing with status OPEN.
	AddDemand(ctx context.Context, demand *core.Demand) (*core.Demand, error)

	// AddIntel creates an intel listing with status PUBLISHED.
	AddIntel(ctx context.Context, intel *core.Intel) (*core.Intel, error)

	// GetDemand retrieves a demand by ID.
	GetDemand(ctx context.Context, id core.ID) (*core.Demand, error)

	// GetIntel retrieves an intel listing by ID.
	GetIntel(ctx context.Context, id core.ID) (*core.Intel, error)

	// CancelDemand moves a demand from OPEN to CANCELLED. Buyer only.
	CancelDemand(ctx context.Context, id, actorId core.ID) (*core.Demand, error)

	// DeleteIntel removes a PUBLISHED intel listing and orphan-cleans its
	// embedding record in the same atomic unit. Seller only.
	DeleteIntel(ctx context.Context, id, actorId core.ID) error

	// RecentDemands returns up to limit demands, newest first.
	RecentDemands(ctx context.Context, limit int) ([]*core.Demand, error)

	// RecentIntel returns up to limit intel listings, newest first.
	RecentIntel(ctx context.Context, limit int) ([]*core.Intel, error)

	// SearchText matches the query as a case-insensitive substring against
	// title, description, and category of OPEN demands and PUBLISHED intel,
	// newest first, capped at limit.
	SearchText(ctx context.Context, query string, limit int) ([]*core.Demand, []*core.Intel, error)
}

// EmbeddingStore is the retrieval index: at most one vector per entity,
// queried by similarity.
type EmbeddingStore interface {
	Store

	// Upsert stores the vector for an entity, replacing any existing record.
	Upsert(ctx context.Context, kind core.EntityKind, entityId core.ID, vector []float32, metadata map[string]string) (*core.EmbeddingRecord, error)

	// Get retrieves an entity's embedding record.
	// Returns core.ErrNotFound if no record exists.
	Get(ctx context.Context, kind core.EntityKind, entityId core.ID) (*core.EmbeddingRecord, error)

	// Delete removes an entity's embedding record. Missing records are not
	// an error; orphan cleanup must be idempotent.
	Delete(ctx context.Context, kind core.EntityKind, entityId core.ID) error

	// Query returns up to limit entities ordered by similarity to the query
	// vector, ties broken by most recent CreatedAt. An empty index yields an
	// empty slice, not an error.
	Query(ctx context.Context, vector []float32, limit int) ([]*core.SimilarEntity, error)

	// Missing returns listing IDs that have no embedding record, for the
	// backfill job. The cutoff bounds the scan to listings created before it.
	Missing(ctx context.Context, cutoff time.Time) ([]EntityRef, error)
}

// EntityRef identifies a listing by kind and id.
type EntityRef struct {
	Kind core.EntityKind
	Id   core.ID
}
