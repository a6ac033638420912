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


// Package storage provides the storage abstraction layer for intelmart.
//
// This package defines store interfaces that decouple storage implementation
// from business logic, so different backends (BadgerDB, in-memory, etc.) can
// be used interchangeably.
//
// # Stores
//
//   - LedgerStore: accounts and the append-only credit ledger. It is the
//     only writer to account balances; every balance change pairs with
//     exactly one ledger entry inside one atomic unit.
//   - EscrowStore: escrow transaction rows and their state machine. Each
//     transition commits together with its paired ledger effect.
//   - ListingStore: demand and intel listings, plus the text-search
//     fallback used when semantic retrieval yields nothing.
//   - EmbeddingStore: the retrieval index, at most one vector per entity.
//
// # Atomicity
//
// The conservation invariant (an account balance always equals the running
// sum of its entries) is enforced structurally: no interface exposes a way
// to write a balance without an entry, and implementations must perform the
// read-check-write sequence of a mutation inside a single transaction so
// concurrent debits cannot both pass the sufficiency check against a stale
// balance.
//
// # Usage
//
// Create stores over a shared backend:
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//	ledger, err := badger.NewLedgerStore(backend)
//
// Use in tests with in-memory storage via badger.NewMemoryStores.
//
// # Thread Safety
//
// All store implementations must be thread-safe and support concurrent
// access from multiple goroutines.
package storage
