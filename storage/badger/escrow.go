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

package badger

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/intelmart/intelmart/core"
	"github.com/intelmart/intelmart/storage"
)

// EscrowStore implements storage.EscrowStore for BadgerDB. Every transition
// runs inside one transaction: the status re-check, the paired ledger effect,
// the row update, and any subject listing change commit together or not at
// all. Conflict retries in the backend serialize racing transitions, so the
// loser re-reads a terminal status and fails with ErrInvalidState instead of
// double-paying.
type EscrowStore struct {
	backend *Backend
	ledger  *LedgerStore
	seq     *badger.Sequence
}

var _ storage.EscrowStore = (*EscrowStore)(nil)

// NewEscrowStore creates a new EscrowStore sharing the ledger's transaction
// helpers.
func NewEscrowStore(backend *Backend, ledger *LedgerStore) (*EscrowStore, error) {
	seq, err := backend.GetSequence(escrowIDSeq)
	if err != nil {
		return nil, err
	}
	return &EscrowStore{backend: backend, ledger: ledger, seq: seq}, nil
}

// Close releases the ID sequence.
func (s *EscrowStore) Close() error {
	return s.seq.Release()
}

// Open debits the buyer, creates the transaction row, and advances the
// subject listing, all in one transaction.
func (s *EscrowStore) Open(ctx context.Context, params storage.OpenParams) (*core.EscrowTransaction, error) {
	if params.Gross <= 0 {
		return nil, fmt.Errorf("%w: gross of %d", core.ErrInvalidAmount, params.Gross)
	}
	if params.BuyerId == params.SellerId {
		return nil, fmt.Errorf("%w: buyer and seller are the same account", core.ErrInvalidInput)
	}
	if err := core.ValidateEntityKind(params.SubjectKind); err != nil {
		return nil, err
	}

	fee, _ := core.ComputeFee(params.Gross, params.FeeRateBps)

	var escrowTx *core.EscrowTransaction
	err := s.backend.WithWriteTx(func(tx *badger.Txn) error {
		if err := s.advanceSubject(tx, params); err != nil {
			return err
		}

		id, err := nextSeqID(s.seq)
		if err != nil {
			return err
		}

		refId := escrowReference(id)
		if _, err := s.ledger.debitTx(tx, params.BuyerId, params.Gross, core.EntryKindSpend, refId); err != nil {
			return err
		}

		// Seller existence check; the payout on release must not dangle.
		if _, err := readAccount(tx, params.SellerId); err != nil {
			return err
		}

		now := time.Now().UTC()
		escrowTx = &core.EscrowTransaction{
			Id:          id,
			BuyerId:     params.BuyerId,
			SellerId:    params.SellerId,
			SubjectKind: params.SubjectKind,
			SubjectId:   params.SubjectId,
			GrossAmount: params.Gross,
			PlatformFee: fee,
			Status:      core.StatusEscrow,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.writeTx(tx, escrowTx, true); err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}
	return escrowTx, nil
}

// Release pays out gross - fee to the seller and marks the row RELEASED.
func (s *EscrowStore) Release(ctx context.Context, txId, actorId core.ID) (*core.EscrowTransaction, error) {
	return s.transition(txId, func(tx *badger.Txn, escrowTx *core.EscrowTransaction) error {
		if escrowTx.SellerId != actorId {
			return fmt.Errorf("%w: account %d is not the seller of transaction %d",
				core.ErrForbidden, actorId, txId)
		}
		if escrowTx.Status != core.StatusEscrow {
			return fmt.Errorf("%w: cannot release transaction %d from %s",
				core.ErrInvalidState, txId, escrowTx.Status)
		}
		return s.applyRelease(tx, escrowTx)
	})
}

// Refund returns the full gross amount to the buyer. Accepted from ESCROW
// and, as a post-release reversal, from RELEASED; in the released case the
// seller keeps the payout and the platform absorbs the difference.
func (s *EscrowStore) Refund(ctx context.Context, txId, actorId core.ID) (*core.EscrowTransaction, error) {
	return s.transition(txId, func(tx *badger.Txn, escrowTx *core.EscrowTransaction) error {
		if escrowTx.BuyerId != actorId {
			return fmt.Errorf("%w: account %d is not the buyer of transaction %d",
				core.ErrForbidden, actorId, txId)
		}
		if !core.CanRefundFrom(escrowTx.Status) {
			return fmt.Errorf("%w: cannot refund transaction %d from %s",
				core.ErrInvalidState, txId, escrowTx.Status)
		}
		return s.applyRefund(tx, escrowTx)
	})
}

// Dispute parks the transaction pending external resolution. No ledger
// effect.
func (s *EscrowStore) Dispute(ctx context.Context, txId, actorId core.ID) (*core.EscrowTransaction, error) {
	return s.transition(txId, func(tx *badger.Txn, escrowTx *core.EscrowTransaction) error {
		if escrowTx.BuyerId != actorId && escrowTx.SellerId != actorId {
			return fmt.Errorf("%w: account %d is not a party to transaction %d",
				core.ErrForbidden, actorId, txId)
		}
		if !escrowTx.Status.CanTransition(core.StatusDisputed) {
			return fmt.Errorf("%w: cannot dispute transaction %d from %s",
				core.ErrInvalidState, txId, escrowTx.Status)
		}
		escrowTx.Status = core.StatusDisputed
		escrowTx.UpdatedAt = time.Now().UTC()
		return s.writeTx(tx, escrowTx, false)
	})
}

// Resolve moves a DISPUTED transaction to its terminal state. The decision
// is made outside the store.
func (s *EscrowStore) Resolve(ctx context.Context, txId core.ID, outcome storage.ResolveOutcome) (*core.EscrowTransaction, error) {
	return s.transition(txId, func(tx *badger.Txn, escrowTx *core.EscrowTransaction) error {
		if escrowTx.Status != core.StatusDisputed {
			return fmt.Errorf("%w: cannot resolve transaction %d from %s",
				core.ErrInvalidState, txId, escrowTx.Status)
		}
		switch outcome {
		case storage.ResolveRelease:
			return s.applyRelease(tx, escrowTx)
		case storage.ResolveRefund:
			return s.applyRefund(tx, escrowTx)
		default:
			return fmt.Errorf("%w: unknown resolve outcome %d", core.ErrInvalidInput, outcome)
		}
	})
}

// Get retrieves a transaction by ID.
func (s *EscrowStore) Get(ctx context.Context, txId core.ID) (*core.EscrowTransaction, error) {
	var escrowTx *core.EscrowTransaction
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		escrowTx, err = readEscrowTx(tx, txId)
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	return escrowTx, nil
}

// ByParty returns transactions where the account is buyer or seller, newest
// first. The party index carries transaction IDs which are monotonic, so a
// reverse scan gives creation order descending.
func (s *EscrowStore) ByParty(ctx context.Context, accountId core.ID) ([]*core.EscrowTransaction, error) {
	var txs []*core.EscrowTransaction
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makePartialEscrowPartyKey(accountId)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.Reverse = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Reverse iteration needs a seek key past the prefix range.
		seekKey := append(append([]byte{}, prefix...), 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)
		for iter.Seek(seekKey); iter.ValidForPrefix(prefix); iter.Next() {
			var txId core.ID
			err := iter.Item().Value(func(val []byte) error {
				var err error
				txId, err = storage.UnmarshalID(val)
				return err
			})
			if err != nil {
				return err
			}
			escrowTx, err := readEscrowTx(tx, txId)
			if err != nil {
				return err
			}
			txs = append(txs, escrowTx)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return txs, nil
}

// transition runs fn against the current row inside a conflict-retried write
// transaction and commits.
func (s *EscrowStore) transition(txId core.ID, fn func(tx *badger.Txn, escrowTx *core.EscrowTransaction) error) (*core.EscrowTransaction, error) {
	var result *core.EscrowTransaction
	err := s.backend.WithWriteTx(func(tx *badger.Txn) error {
		escrowTx, err := readEscrowTx(tx, txId)
		if err != nil {
			return err
		}
		if err := fn(tx, escrowTx); err != nil {
			return err
		}
		result = escrowTx
		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// applyRelease pays the seller the net amount and marks the row RELEASED.
func (s *EscrowStore) applyRelease(tx *badger.Txn, escrowTx *core.EscrowTransaction) error {
	net := escrowTx.GrossAmount - escrowTx.PlatformFee
	refId := escrowReference(escrowTx.Id)
	if _, err := s.ledger.creditTx(tx, escrowTx.SellerId, net, core.EntryKindEarn, refId); err != nil {
		return err
	}
	escrowTx.Status = core.StatusReleased
	escrowTx.UpdatedAt = time.Now().UTC()
	return s.writeTx(tx, escrowTx, false)
}

// applyRefund returns the full gross to the buyer and marks the row
// REFUNDED.
func (s *EscrowStore) applyRefund(tx *badger.Txn, escrowTx *core.EscrowTransaction) error {
	refId := escrowReference(escrowTx.Id)
	if _, err := s.ledger.creditTx(tx, escrowTx.BuyerId, escrowTx.GrossAmount, core.EntryKindRefund, refId); err != nil {
		return err
	}
	escrowTx.Status = core.StatusRefunded
	escrowTx.UpdatedAt = time.Now().UTC()
	return s.writeTx(tx, escrowTx, false)
}

// advanceSubject moves the subject listing into its purchased state and
// fails the whole open when the listing is not purchasable.
func (s *EscrowStore) advanceSubject(tx *badger.Txn, params storage.OpenParams) error {
	switch params.SubjectKind {
	case core.EntityKindIntel:
		intel, err := readIntel(tx, params.SubjectId)
		if err != nil {
			return err
		}
		if intel.Status != core.IntelStatusPublished {
			return fmt.Errorf("%w: intel %d is %s", core.ErrInvalidState, intel.Id, intel.Status)
		}
		intel.Status = core.IntelStatusSold
		intel.UpdatedAt = time.Now().UTC()
		return tx.Set(makeIntelKey(intel.Id), storage.MarshalIntel(intel))
	case core.EntityKindDemand:
		demand, err := readDemand(tx, params.SubjectId)
		if err != nil {
			return err
		}
		if demand.Status != core.DemandStatusOpen {
			return fmt.Errorf("%w: demand %d is %s", core.ErrInvalidState, demand.Id, demand.Status)
		}
		demand.Status = core.DemandStatusFulfilled
		demand.UpdatedAt = time.Now().UTC()
		return tx.Set(makeDemandKey(demand.Id), storage.MarshalDemand(demand))
	default:
		return fmt.Errorf("%w: %d", core.ErrInvalidEntityKind, params.SubjectKind)
	}
}

// writeTx writes the row and, on creation, both party index entries.
func (s *EscrowStore) writeTx(tx *badger.Txn, escrowTx *core.EscrowTransaction, indexParties bool) error {
	if err := tx.Set(makeEscrowKey(escrowTx.Id), storage.MarshalEscrowTransaction(escrowTx)); err != nil {
		return err
	}
	if !indexParties {
		return nil
	}
	idBytes := storage.MarshalID(escrowTx.Id)
	if err := tx.Set(makeEscrowPartyKey(escrowTx.BuyerId, escrowTx.Id), idBytes); err != nil {
		return err
	}
	return tx.Set(makeEscrowPartyKey(escrowTx.SellerId, escrowTx.Id), idBytes)
}

// escrowReference is the reference ID stamped on a transaction's ledger
// entries, linking debit, payout, and refund to the same row.
func escrowReference(id core.ID) string {
	return "escrow:" + strconv.FormatUint(uint64(id), 10)
}

// readEscrowTx reads a transaction row inside a transaction.
func readEscrowTx(tx *badger.Txn, id core.ID) (*core.EscrowTransaction, error) {
	item, err := tx.Get(makeEscrowKey(id))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, fmt.Errorf("%w: escrow transaction %d", core.ErrNotFound, id)
		}
		return nil, err
	}

	var escrowTx *core.EscrowTransaction
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		escrowTx, unmarshalErr = storage.UnmarshalEscrowTransaction(val)
		return unmarshalErr
	})
	return escrowTx, err
}
