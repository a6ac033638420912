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


package core

import "errors"

// Domain errors
var (
	// ErrInsufficientFunds indicates a debit larger than the account balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidState indicates an escrow transition not allowed from the
	// transaction's current status.
	ErrInvalidState = errors.New("invalid transaction state")

	// ErrForbidden indicates the actor is not authorized for the transition.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates a missing account, transaction, or listing.
	ErrNotFound = errors.New("not found")

	// ErrUpstreamUnavailable indicates an embedding or LLM call failed.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrInvalidInput indicates a malformed request.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidAmount indicates a non-positive credit amount.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrEmptyTitle indicates a listing with no title.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrEmptyDescription indicates a listing with no description.
	ErrEmptyDescription = errors.New("description cannot be empty")

	// ErrInvalidEntryKind indicates an EntryKind outside the known range.
	ErrInvalidEntryKind = errors.New("invalid ledger entry kind")

	// ErrInvalidEntityKind indicates an EntityKind outside the known range.
	ErrInvalidEntityKind = errors.New("invalid entity kind")
)
