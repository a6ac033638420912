package core

import (
	"encoding/binary"
	"strconv"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Account holds a member's credit balance. The balance is mutated only
// through ledger store operations and always equals the running sum of the
// account's ledger entries.
type Account struct {
	Id             ID
	CreditsBalance int64
	Reputation     int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// EntryKind classifies a ledger entry by the event that produced it.
type EntryKind int

const (
	// EntryKindPurchase records credits bought through a payment gateway.
	EntryKindPurchase EntryKind = iota + 1
	// EntryKindSpend records credits debited into escrow.
	EntryKindSpend
	// EntryKindEarn records a seller payout on escrow release.
	EntryKindEarn
	// EntryKindRefund records credits returned to a buyer.
	EntryKindRefund
	// EntryKindCashout records credits withdrawn from the platform.
	EntryKindCashout
	// EntryKindFee records a fee-bearing adjustment. No core flow emits it;
	// the platform fee lives on the escrow transaction row only.
	EntryKindFee
)

// Sign reports whether the kind increases (+1) or decreases (-1) a balance.
func (k EntryKind) Sign() int64 {
	switch k {
	case EntryKindSpend, EntryKindCashout, EntryKindFee:
		return -1
	default:
		return 1
	}
}

func (k EntryKind) String() string {
	switch k {
	case EntryKindPurchase:
		return "PURCHASE"
	case EntryKindSpend:
		return "SPEND"
	case EntryKindEarn:
		return "EARN"
	case EntryKindRefund:
		return "REFUND"
	case EntryKindCashout:
		return "CASHOUT"
	case EntryKindFee:
		return "FEE"
	default:
		return "UNKNOWN"
	}
}

// LedgerEntry is one record of the append-only audit trail. Entries are
// immutable once created; Amount is an unsigned magnitude, the direction
// comes from Kind.
type LedgerEntry struct {
	Id           ID
	AccountId    ID
	Kind         EntryKind
	Amount       int64
	BalanceAfter int64
	ReferenceId  string
	CreatedAt    time.Time
}

// SignedAmount returns the balance delta this entry applied.
func (e *LedgerEntry) SignedAmount() int64 {
	return e.Kind.Sign() * e.Amount
}

// EscrowStatus is the lifecycle state of an escrow transaction.
type EscrowStatus int

const (
	// StatusEscrow holds the buyer's debit against the transaction.
	StatusEscrow EscrowStatus = iota + 1
	// StatusReleased means the seller has been paid out. Terminal.
	StatusReleased
	// StatusRefunded means the buyer has been made whole. Terminal.
	StatusRefunded
	// StatusDisputed is a hold state pending external resolution.
	StatusDisputed
)

func (s EscrowStatus) String() string {
	switch s {
	case StatusEscrow:
		return "ESCROW"
	case StatusReleased:
		return "RELEASED"
	case StatusRefunded:
		return "REFUNDED"
	case StatusDisputed:
		return "DISPUTED"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether no further transition is allowed out of s.
func (s EscrowStatus) Terminal() bool {
	return s == StatusReleased || s == StatusRefunded
}

// CanTransition reports whether the state machine permits moving from s to
// target. Refund-after-release is the single transition allowed out of a
// terminal state; see CanRefundFrom.
func (s EscrowStatus) CanTransition(target EscrowStatus) bool {
	switch s {
	case StatusEscrow:
		return target == StatusReleased || target == StatusRefunded || target == StatusDisputed
	case StatusDisputed:
		return target == StatusReleased || target == StatusRefunded
	default:
		return false
	}
}

// CanRefundFrom reports whether a buyer-initiated refund is valid from s.
// Refunds are accepted from escrow and, as a post-release reversal, from
// released. The seller's payout is not clawed back in the released case;
// the platform absorbs the difference.
func CanRefundFrom(s EscrowStatus) bool {
	return s == StatusEscrow || s == StatusReleased
}

// EntityKind identifies the listing type an embedding or escrow subject
// refers to.
type EntityKind int

const (
	// EntityKindIntel is a seller-posted listing purchasable directly.
	EntityKindIntel EntityKind = iota + 1
	// EntityKindDemand is a buyer-posted bounty request.
	EntityKindDemand
)

func (k EntityKind) String() string {
	switch k {
	case EntityKindIntel:
		return "intel"
	case EntityKindDemand:
		return "demand"
	default:
		return "unknown"
	}
}

// EscrowTransaction models a single purchase or fulfillment payment from
// creation to terminal state. It references accounts by id only.
type EscrowTransaction struct {
	Id          ID
	BuyerId     ID
	SellerId    ID
	SubjectKind EntityKind
	SubjectId   ID
	GrossAmount int64
	PlatformFee int64
	Status      EscrowStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DemandStatus is the lifecycle state of a demand listing.
type DemandStatus int

const (
	DemandStatusOpen DemandStatus = iota + 1
	DemandStatusFulfilled
	DemandStatusCancelled
)

func (s DemandStatus) String() string {
	switch s {
	case DemandStatusOpen:
		return "OPEN"
	case DemandStatusFulfilled:
		return "FULFILLED"
	case DemandStatusCancelled:
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}

// IntelStatus is the lifecycle state of an intel listing.
type IntelStatus int

const (
	IntelStatusPublished IntelStatus = iota + 1
	IntelStatusSold
)

func (s IntelStatus) String() string {
	switch s {
	case IntelStatusPublished:
		return "PUBLISHED"
	case IntelStatusSold:
		return "SOLD"
	default:
		return "UNKNOWN"
	}
}

// Demand is a buyer-posted request for information, fulfilled competitively
// by sellers. Status advances only via the escrow flow or explicit
// cancellation, never backwards.
type Demand struct {
	Id            ID
	BuyerId       ID
	Title         string
	Description   string
	Category      string
	BountyCredits int64
	DeadlineDays  int
	Status        DemandStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Intel is a seller-posted information listing purchasable directly.
type Intel struct {
	Id           ID
	SellerId     ID
	Title        string
	Description  string
	Category     string
	PriceCredits int64
	Status       IntelStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// EmbeddingRecord pairs a listing with its embedding vector. At most one
// record exists per (EntityKind, EntityId); the Id is derived from that pair
// so an upsert is a single-key overwrite.
type EmbeddingRecord struct {
	Id         ID
	EntityKind EntityKind
	EntityId   ID
	Vector     []float32
	Metadata   map[string]string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// EmbeddingRecordID derives the storage key for an entity's embedding.
func EmbeddingRecordID(kind EntityKind, entityId ID) ID {
	return IDFromContent(kind.String() + ":" + strconv.FormatUint(uint64(entityId), 10))
}

// SimilarEntity is a retrieval index hit: the referenced entity plus its
// similarity to the query vector.
type SimilarEntity struct {
	EntityKind EntityKind
	EntityId   ID
	Score      float32
	CreatedAt  time.Time
}
