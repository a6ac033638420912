package badger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/intelmart/intelmart/core"
)

func TestLedgerAccountBasics(t *testing.T) {
	stores, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer stores.Close()

	ctx := context.Background()

	account, err := stores.Ledger.CreateAccount(ctx, 50)
	if err != nil {
		t.Fatalf("Failed to create account: %v", err)
	}
	if account.Id == 0 {
		t.Fatal("Expected non-zero account ID")
	}
	if account.CreditsBalance != 0 {
		t.Fatalf("Expected zero balance, got %d", account.CreditsBalance)
	}
	if account.Reputation != 50 {
		t.Fatalf("Expected reputation 50, got %d", account.Reputation)
	}

	retrieved, err := stores.Ledger.GetAccount(ctx, account.Id)
	if err != nil {
		t.Fatalf("Failed to get account: %v", err)
	}
	if retrieved.Id != account.Id {
		t.Fatalf("Expected ID %d, got %d", account.Id, retrieved.Id)
	}

	_, err = stores.Ledger.GetAccount(ctx, core.ID(99999))
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestLedgerCreditDebit(t *testing.T) {
	stores, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer stores.Close()

	ctx := context.Background()

	account, err := stores.Ledger.CreateAccount(ctx, 0)
	if err != nil {
		t.Fatalf("Failed to create account: %v", err)
	}

	entry, err := stores.Ledger.Credit(ctx, account.Id, 100, core.EntryKindPurchase, "pay_123")
	if err != nil {
		t.Fatalf("Failed to credit: %v", err)
	}
	if entry.BalanceAfter != 100 {
		t.Fatalf("Expected balanceAfter 100, got %d", entry.BalanceAfter)
	}
	if entry.ReferenceId != "pay_123" {
		t.Fatalf("Expected reference pay_123, got %s", entry.ReferenceId)
	}

	entry, err = stores.Ledger.Debit(ctx, account.Id, 30, core.EntryKindSpend, "escrow:1")
	if err != nil {
		t.Fatalf("Failed to debit: %v", err)
	}
	if entry.BalanceAfter != 70 {
		t.Fatalf("Expected balanceAfter 70, got %d", entry.BalanceAfter)
	}

	account, err = stores.Ledger.GetAccount(ctx, account.Id)
	if err != nil {
		t.Fatalf("Failed to get account: %v", err)
	}
	if account.CreditsBalance != 70 {
		t.Fatalf("Expected balance 70, got %d", account.CreditsBalance)
	}
}

func TestLedgerRejectsInvalidAmounts(t *testing.T) {
	stores, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer stores.Close()

	ctx := context.Background()

	account, err := stores.Ledger.CreateAccount(ctx, 0)
	if err != nil {
		t.Fatalf("Failed to create account: %v", err)
	}

	for _, amount := range []int64{0, -1, -100} {
		if _, err := stores.Ledger.Credit(ctx, account.Id, amount, core.EntryKindPurchase, ""); !errors.Is(err, core.ErrInvalidAmount) {
			t.Fatalf("Credit of %d: expected ErrInvalidAmount, got %v", amount, err)
		}
		if _, err := stores.Ledger.Debit(ctx, account.Id, amount, core.EntryKindSpend, ""); !errors.Is(err, core.ErrInvalidAmount) {
			t.Fatalf("Debit of %d: expected ErrInvalidAmount, got %v", amount, err)
		}
	}

	// Rejected mutations leave no entries behind
	entries, err := stores.Ledger.Entries(ctx, account.Id)
	if err != nil {
		t.Fatalf("Failed to list entries: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("Expected no entries, got %d", len(entries))
	}
}

func TestLedgerInsufficientFunds(t *testing.T) {
	stores, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer stores.Close()

	ctx := context.Background()

	account, err := stores.Ledger.CreateAccount(ctx, 0)
	if err != nil {
		t.Fatalf("Failed to create account: %v", err)
	}
	if _, err := stores.Ledger.Credit(ctx, account.Id, 10, core.EntryKindPurchase, ""); err != nil {
		t.Fatalf("Failed to credit: %v", err)
	}

	_, err = stores.Ledger.Debit(ctx, account.Id, 11, core.EntryKindSpend, "")
	if !errors.Is(err, core.ErrInsufficientFunds) {
		t.Fatalf("Expected ErrInsufficientFunds, got %v", err)
	}

	// The failed debit must not change the balance or append an entry
	account, err = stores.Ledger.GetAccount(ctx, account.Id)
	if err != nil {
		t.Fatalf("Failed to get account: %v", err)
	}
	if account.CreditsBalance != 10 {
		t.Fatalf("Expected balance 10, got %d", account.CreditsBalance)
	}
	entries, err := stores.Ledger.Entries(ctx, account.Id)
	if err != nil {
		t.Fatalf("Failed to list entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
}

func TestLedgerConservation(t *testing.T) {
	stores, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer stores.Close()

	ctx := context.Background()

	account, err := stores.Ledger.CreateAccount(ctx, 0)
	if err != nil {
		t.Fatalf("Failed to create account: %v", err)
	}

	type op struct {
		credit bool
		amount int64
		kind   core.EntryKind
	}
	ops := []op{
		{true, 100, core.EntryKindPurchase},
		{false, 40, core.EntryKindSpend},
		{true, 40, core.EntryKindRefund},
		{false, 25, core.EntryKindSpend},
		{true, 60, core.EntryKindEarn},
		{false, 50, core.EntryKindCashout},
	}

	for _, o := range ops {
		if o.credit {
			_, err = stores.Ledger.Credit(ctx, account.Id, o.amount, o.kind, "")
		} else {
			_, err = stores.Ledger.Debit(ctx, account.Id, o.amount, o.kind, "")
		}
		if err != nil {
			t.Fatalf("Operation %+v failed: %v", o, err)
		}
	}

	entries, err := stores.Ledger.Entries(ctx, account.Id)
	if err != nil {
		t.Fatalf("Failed to list entries: %v", err)
	}
	if len(entries) != len(ops) {
		t.Fatalf("Expected %d entries, got %d", len(ops), len(entries))
	}

	var running int64
	for i, entry := range entries {
		running += entry.SignedAmount()
		if entry.BalanceAfter != running {
			t.Fatalf("Entry %d: balanceAfter %d, running sum %d", i, entry.BalanceAfter, running)
		}
	}

	account, err = stores.Ledger.GetAccount(ctx, account.Id)
	if err != nil {
		t.Fatalf("Failed to get account: %v", err)
	}
	if account.CreditsBalance != running {
		t.Fatalf("Balance %d diverged from entry sum %d", account.CreditsBalance, running)
	}

	if err := stores.Ledger.VerifyAccount(ctx, account.Id); err != nil {
		t.Fatalf("VerifyAccount failed on a clean ledger: %v", err)
	}
}

func TestLedgerConcurrentDebits(t *testing.T) {
	stores, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer stores.Close()

	ctx := context.Background()

	account, err := stores.Ledger.CreateAccount(ctx, 0)
	if err != nil {
		t.Fatalf("Failed to create account: %v", err)
	}

	const balance = 70
	const debit = 10
	const attempts = 20

	if _, err := stores.Ledger.Credit(ctx, account.Id, balance, core.EntryKindPurchase, ""); err != nil {
		t.Fatalf("Failed to credit: %v", err)
	}

	var wg sync.WaitGroup
	results := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = stores.Ledger.Debit(ctx, account.Id, debit, core.EntryKindSpend, "")
		}(i)
	}
	wg.Wait()

	var succeeded int
	for i, err := range results {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, core.ErrInsufficientFunds) {
			t.Fatalf("Debit %d: unexpected error %v", i, err)
		}
	}

	// Exactly floor(balance/debit) debits can fit; the rest must fail
	if succeeded != balance/debit {
		t.Fatalf("Expected %d successful debits, got %d", balance/debit, succeeded)
	}

	account, err = stores.Ledger.GetAccount(ctx, account.Id)
	if err != nil {
		t.Fatalf("Failed to get account: %v", err)
	}
	if account.CreditsBalance != 0 {
		t.Fatalf("Expected zero balance, got %d", account.CreditsBalance)
	}

	if err := stores.Ledger.VerifyAccount(ctx, account.Id); err != nil {
		t.Fatalf("VerifyAccount failed after concurrent debits: %v", err)
	}
}

func TestLedgerEntriesOrdered(t *testing.T) {
	stores, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer stores.Close()

	ctx := context.Background()

	account, err := stores.Ledger.CreateAccount(ctx, 0)
	if err != nil {
		t.Fatalf("Failed to create account: %v", err)
	}

	for i := 0; i < 5; i++ {
		if _, err := stores.Ledger.Credit(ctx, account.Id, 10, core.EntryKindPurchase, ""); err != nil {
			t.Fatalf("Credit %d failed: %v", i, err)
		}
	}

	entries, err := stores.Ledger.Entries(ctx, account.Id)
	if err != nil {
		t.Fatalf("Failed to list entries: %v", err)
	}
	if len(entries) != 5 {
		t.Fatalf("Expected 5 entries, got %d", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Id <= entries[i-1].Id {
			t.Fatalf("Entries out of order at %d: %d then %d", i, entries[i-1].Id, entries[i].Id)
		}
	}
}
