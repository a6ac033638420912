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

// Stores bundles the four stores backed by one database.
type Stores struct {
	Backend   *Backend
	Ledger    *LedgerStore
	Escrow    *EscrowStore
	Listings  *ListingStore
	Embedding *EmbeddingStore
}

// Close closes the stores and the backend, in dependency order.
func (s *Stores) Close() error {
	var firstErr error
	for _, closer := range []func() error{
		s.Escrow.Close,
		s.Listings.Close,
		s.Ledger.Close,
		s.Embedding.Close,
		s.Backend.Close,
	} {
		if err := closer(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// OpenStores opens all stores over a single backend at the given path.
func OpenStores(filePath string, inMemory bool) (*Stores, error) {
	backend, err := OpenBackend(filePath, inMemory)
	if err != nil {
		return nil, err
	}

	ledger, err := NewLedgerStore(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	escrow, err := NewEscrowStore(backend, ledger)
	if err != nil {
		ledger.Close()
		backend.Close()
		return nil, err
	}

	listings, err := NewListingStore(backend)
	if err != nil {
		escrow.Close()
		ledger.Close()
		backend.Close()
		return nil, err
	}

	return &Stores{
		Backend:   backend,
		Ledger:    ledger,
		Escrow:    escrow,
		Listings:  listings,
		Embedding: NewEmbeddingStore(backend),
	}, nil
}

// NewMemoryStores creates in-memory stores for testing.
// Caller must close the result when done.
func NewMemoryStores() (*Stores, error) {
	return OpenStores("", true)
}
