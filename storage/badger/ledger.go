package badger

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/intelmart/intelmart/core"
	"github.com/intelmart/intelmart/storage"
)

// LedgerStore implements storage.LedgerStore for BadgerDB. It is the only
// writer to account balances: every mutation runs the balance read, the
// sufficiency check, the balance write, and the entry append inside one
// transaction, retried on commit conflicts.
type LedgerStore struct {
	backend    *Backend
	accountSeq *badger.Sequence
	entrySeq   *badger.Sequence
}

var _ storage.LedgerStore = (*LedgerStore)(nil)

// NewLedgerStore creates a new LedgerStore.
func NewLedgerStore(backend *Backend) (*LedgerStore, error) {
	accountSeq, err := backend.GetSequence(accountIDSeq)
	if err != nil {
		return nil, err
	}

	entrySeq, err := backend.GetSequence(ledgerEntryIDSeq)
	if err != nil {
		accountSeq.Release()
		return nil, err
	}

	return &LedgerStore{
		backend:    backend,
		accountSeq: accountSeq,
		entrySeq:   entrySeq,
	}, nil
}

// Close releases the ID sequences.
func (s *LedgerStore) Close() error {
	if err := s.accountSeq.Release(); err != nil {
		return err
	}
	return s.entrySeq.Release()
}

// CreateAccount creates a new account with a zero balance.
func (s *LedgerStore) CreateAccount(ctx context.Context, reputation int) (*core.Account, error) {
	var account *core.Account
	err := s.backend.WithWriteTx(func(tx *badger.Txn) error {
		id, err := nextSeqID(s.accountSeq)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		account = &core.Account{
			Id:         id,
			Reputation: reputation,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := tx.Set(makeAccountKey(account.Id), storage.MarshalAccount(account)); err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// GetAccount retrieves an account by ID.
func (s *LedgerStore) GetAccount(ctx context.Context, id core.ID) (*core.Account, error) {
	var account *core.Account
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		account, err = readAccount(tx, id)
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	return account, nil
}

// Credit increases the account balance and appends the matching entry.
func (s *LedgerStore) Credit(ctx context.Context, accountId core.ID, amount int64, kind core.EntryKind, referenceId string) (*core.LedgerEntry, error) {
	var entry *core.LedgerEntry
	err := s.backend.WithWriteTx(func(tx *badger.Txn) error {
		var err error
		entry, err = s.creditTx(tx, accountId, amount, kind, referenceId)
		if err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Debit decreases the account balance and appends the matching entry.
func (s *LedgerStore) Debit(ctx context.Context, accountId core.ID, amount int64, kind core.EntryKind, referenceId string) (*core.LedgerEntry, error) {
	var entry *core.LedgerEntry
	err := s.backend.WithWriteTx(func(tx *badger.Txn) error {
		var err error
		entry, err = s.debitTx(tx, accountId, amount, kind, referenceId)
		if err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Entries returns the account's ledger entries in creation order.
func (s *LedgerStore) Entries(ctx context.Context, accountId core.ID) ([]*core.LedgerEntry, error) {
	var entries []*core.LedgerEntry
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makePartialLedgerEntryKey(accountId)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var entry *core.LedgerEntry
			err := iter.Item().Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalLedgerEntry(val)
				return err
			})
			if err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// VerifyAccount replays the account's entries from zero and checks that the
// running sum matches every BalanceAfter and the stored balance.
func (s *LedgerStore) VerifyAccount(ctx context.Context, accountId core.ID) error {
	account, err := s.GetAccount(ctx, accountId)
	if err != nil {
		return err
	}

	entries, err := s.Entries(ctx, accountId)
	if err != nil {
		return err
	}

	var running int64
	for _, entry := range entries {
		running += entry.SignedAmount()
		if running != entry.BalanceAfter {
			return fmt.Errorf("%w: entry %d has balanceAfter %d, replay gives %d",
				storage.ErrLedgerDrift, entry.Id, entry.BalanceAfter, running)
		}
	}

	if running != account.CreditsBalance {
		return fmt.Errorf("%w: account %d balance %d, replay gives %d",
			storage.ErrLedgerDrift, accountId, account.CreditsBalance, running)
	}
	return nil
}

// creditTx applies a credit inside an open transaction. The escrow store
// composes this into its transition transactions.
func (s *LedgerStore) creditTx(tx *badger.Txn, accountId core.ID, amount int64, kind core.EntryKind, referenceId string) (*core.LedgerEntry, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: credit of %d", core.ErrInvalidAmount, amount)
	}
	if err := core.ValidateEntryKind(kind); err != nil {
		return nil, err
	}

	account, err := readAccount(tx, accountId)
	if err != nil {
		return nil, err
	}

	account.CreditsBalance += amount
	account.UpdatedAt = time.Now().UTC()

	return s.appendEntry(tx, account, amount, kind, referenceId)
}

// debitTx applies a debit inside an open transaction.
func (s *LedgerStore) debitTx(tx *badger.Txn, accountId core.ID, amount int64, kind core.EntryKind, referenceId string) (*core.LedgerEntry, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: debit of %d", core.ErrInvalidAmount, amount)
	}
	if err := core.ValidateEntryKind(kind); err != nil {
		return nil, err
	}

	account, err := readAccount(tx, accountId)
	if err != nil {
		return nil, err
	}

	if account.CreditsBalance < amount {
		return nil, fmt.Errorf("%w: balance %d, requested %d",
			core.ErrInsufficientFunds, account.CreditsBalance, amount)
	}

	account.CreditsBalance -= amount
	account.UpdatedAt = time.Now().UTC()

	return s.appendEntry(tx, account, amount, kind, referenceId)
}

// appendEntry writes the mutated account and its new entry. BalanceAfter is
// the balance just written, never an earlier snapshot.
func (s *LedgerStore) appendEntry(tx *badger.Txn, account *core.Account, amount int64, kind core.EntryKind, referenceId string) (*core.LedgerEntry, error) {
	entryId, err := nextSeqID(s.entrySeq)
	if err != nil {
		return nil, err
	}

	entry := &core.LedgerEntry{
		Id:           entryId,
		AccountId:    account.Id,
		Kind:         kind,
		Amount:       amount,
		BalanceAfter: account.CreditsBalance,
		ReferenceId:  referenceId,
		CreatedAt:    time.Now().UTC(),
	}

	if err := tx.Set(makeAccountKey(account.Id), storage.MarshalAccount(account)); err != nil {
		return nil, err
	}
	if err := tx.Set(makeLedgerEntryKey(account.Id, entry.Id), storage.MarshalLedgerEntry(entry)); err != nil {
		return nil, err
	}
	return entry, nil
}

// readAccount reads an account inside a transaction.
func readAccount(tx *badger.Txn, id core.ID) (*core.Account, error) {
	item, err := tx.Get(makeAccountKey(id))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, fmt.Errorf("%w: account %d", core.ErrNotFound, id)
		}
		return nil, err
	}

	var account *core.Account
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		account, unmarshalErr = storage.UnmarshalAccount(val)
		return unmarshalErr
	})
	return account, err
}

// AccountIDs returns the IDs of all accounts, ascending. Used by the ledger
// audit command.
func (s *LedgerStore) AccountIDs(ctx context.Context) ([]core.ID, error) {
	var ids []core.ID
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(accountPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var account *core.Account
			if err := iter.Item().Value(func(val []byte) error {
				var unmarshalErr error
				account, unmarshalErr = storage.UnmarshalAccount(val)
				return unmarshalErr
			}); err != nil {
				return err
			}
			ids = append(ids, account.Id)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	slices.Sort(ids)
	return ids, nil
}
