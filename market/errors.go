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

import "errors"

var (
	// ErrLedgerStoreRequired is returned when a ledger store is not provided.
	ErrLedgerStoreRequired = errors.New("ledger store required")

	// ErrEscrowStoreRequired is returned when an escrow store is not provided.
	ErrEscrowStoreRequired = errors.New("escrow store required")

	// ErrListingStoreRequired is returned when a listing store is not provided.
	ErrListingStoreRequired = errors.New("listing store required")

	// ErrEmbeddingStoreRequired is returned when an embedding store is not provided.
	ErrEmbeddingStoreRequired = errors.New("embedding store required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")
)
