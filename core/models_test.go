package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDFromContent_Deterministic(t *testing.T) {
	id1 := IDFromContent("hello world")
	id2 := IDFromContent("hello world")
	id3 := IDFromContent("hello worlds")

	assert.Equal(t, id1, id2)
	assert.NotEqual(t, id1, id3)
}

func TestEntryKindSign(t *testing.T) {
	assert.Equal(t, int64(1), EntryKindPurchase.Sign())
	assert.Equal(t, int64(1), EntryKindEarn.Sign())
	assert.Equal(t, int64(1), EntryKindRefund.Sign())
	assert.Equal(t, int64(-1), EntryKindSpend.Sign())
	assert.Equal(t, int64(-1), EntryKindCashout.Sign())
	assert.Equal(t, int64(-1), EntryKindFee.Sign())
}

func TestLedgerEntrySignedAmount(t *testing.T) {
	spend := &LedgerEntry{Kind: EntryKindSpend, Amount: 100}
	earn := &LedgerEntry{Kind: EntryKindEarn, Amount: 80}

	assert.Equal(t, int64(-100), spend.SignedAmount())
	assert.Equal(t, int64(80), earn.SignedAmount())
}

func TestEscrowStatusTransitions(t *testing.T) {
	// From escrow
	assert.True(t, StatusEscrow.CanTransition(StatusReleased))
	assert.True(t, StatusEscrow.CanTransition(StatusRefunded))
	assert.True(t, StatusEscrow.CanTransition(StatusDisputed))

	// From disputed
	assert.True(t, StatusDisputed.CanTransition(StatusReleased))
	assert.True(t, StatusDisputed.CanTransition(StatusRefunded))
	assert.False(t, StatusDisputed.CanTransition(StatusEscrow))

	// Terminal states allow nothing
	for _, terminal := range []EscrowStatus{StatusReleased, StatusRefunded} {
		for _, target := range []EscrowStatus{StatusEscrow, StatusReleased, StatusRefunded, StatusDisputed} {
			assert.False(t, terminal.CanTransition(target), "%s -> %s", terminal, target)
		}
	}
}

func TestEscrowStatusTerminal(t *testing.T) {
	assert.False(t, StatusEscrow.Terminal())
	assert.False(t, StatusDisputed.Terminal())
	assert.True(t, StatusReleased.Terminal())
	assert.True(t, StatusRefunded.Terminal())
}

func TestCanRefundFrom(t *testing.T) {
	assert.True(t, CanRefundFrom(StatusEscrow))
	assert.True(t, CanRefundFrom(StatusReleased))
	assert.False(t, CanRefundFrom(StatusRefunded))
	assert.False(t, CanRefundFrom(StatusDisputed))
}

func TestEmbeddingRecordID(t *testing.T) {
	a := EmbeddingRecordID(EntityKindIntel, 42)
	b := EmbeddingRecordID(EntityKindIntel, 42)
	c := EmbeddingRecordID(EntityKindDemand, 42)
	d := EmbeddingRecordID(EntityKindIntel, 43)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a, d)
}

func TestStatusStrings(t *testing.T) {
	assert.Equal(t, "ESCROW", StatusEscrow.String())
	assert.Equal(t, "RELEASED", StatusReleased.String())
	assert.Equal(t, "OPEN", DemandStatusOpen.String())
	assert.Equal(t, "PUBLISHED", IntelStatusPublished.String())
	assert.Equal(t, "SPEND", EntryKindSpend.String())
	assert.Equal(t, "intel", EntityKindIntel.String())
}
