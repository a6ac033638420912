package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateDemand(t *testing.T) {
	valid := &Demand{
		BuyerId:       1,
		Title:         "Warm intro to HubSpot CEO",
		Description:   "Looking for a direct introduction",
		Category:      "Introductions",
		BountyCredits: 100,
	}
	assert.NoError(t, ValidateDemand(valid))

	assert.ErrorIs(t, ValidateDemand(nil), ErrInvalidInput)

	noTitle := *valid
	noTitle.Title = ""
	assert.ErrorIs(t, ValidateDemand(&noTitle), ErrEmptyTitle)

	noDesc := *valid
	noDesc.Description = ""
	assert.ErrorIs(t, ValidateDemand(&noDesc), ErrEmptyDescription)

	noBounty := *valid
	noBounty.BountyCredits = 0
	assert.ErrorIs(t, ValidateDemand(&noBounty), ErrInvalidAmount)
}

func TestValidateIntel(t *testing.T) {
	valid := &Intel{
		SellerId:     1,
		Title:        "Acme is evaluating CRM vendors",
		Description:  "Budget approved for Q4",
		Category:     "Market Info",
		PriceCredits: 50,
	}
	assert.NoError(t, ValidateIntel(valid))

	assert.ErrorIs(t, ValidateIntel(nil), ErrInvalidInput)

	negPrice := *valid
	negPrice.PriceCredits = -10
	assert.ErrorIs(t, ValidateIntel(&negPrice), ErrInvalidAmount)
}

func TestValidateEntryKind(t *testing.T) {
	for _, k := range []EntryKind{EntryKindPurchase, EntryKindSpend, EntryKindEarn, EntryKindRefund, EntryKindCashout, EntryKindFee} {
		assert.NoError(t, ValidateEntryKind(k))
	}
	assert.ErrorIs(t, ValidateEntryKind(0), ErrInvalidEntryKind)
	assert.ErrorIs(t, ValidateEntryKind(99), ErrInvalidEntryKind)
}

func TestValidateEntityKind(t *testing.T) {
	assert.NoError(t, ValidateEntityKind(EntityKindIntel))
	assert.NoError(t, ValidateEntityKind(EntityKindDemand))
	assert.ErrorIs(t, ValidateEntityKind(0), ErrInvalidEntityKind)
}
