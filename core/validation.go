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

import "fmt"

// ValidateDemand validates a Demand according to domain rules.
//
// Validation rules:
//   - Title and Description must not be empty
//   - BountyCredits must be positive
//
// NOT validated:
//   - ID (0 is valid from database sequences)
//   - Status (set by the listing store on creation)
func ValidateDemand(demand *Demand) error {
	if demand == nil {
		return fmt.Errorf("%w: demand is nil", ErrInvalidInput)
	}

	if demand.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidInput, ErrEmptyTitle)
	}

	if demand.Description == "" {
		return fmt.Errorf("%w: %w", ErrInvalidInput, ErrEmptyDescription)
	}

	if demand.BountyCredits <= 0 {
		return fmt.Errorf("%w: %w", ErrInvalidInput, ErrInvalidAmount)
	}

	return nil
}

// ValidateIntel validates an Intel listing according to domain rules.
//
// Validation rules:
//   - Title and Description must not be empty
//   - PriceCredits must be positive
func ValidateIntel(intel *Intel) error {
	if intel == nil {
		return fmt.Errorf("%w: intel is nil", ErrInvalidInput)
	}

	if intel.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidInput, ErrEmptyTitle)
	}

	if intel.Description == "" {
		return fmt.Errorf("%w: %w", ErrInvalidInput, ErrEmptyDescription)
	}

	if intel.PriceCredits <= 0 {
		return fmt.Errorf("%w: %w", ErrInvalidInput, ErrInvalidAmount)
	}

	return nil
}

// ValidateEntryKind validates that an EntryKind has a known value.
func ValidateEntryKind(kind EntryKind) error {
	if kind < EntryKindPurchase || kind > EntryKindFee {
		return fmt.Errorf("%w: value %d", ErrInvalidEntryKind, kind)
	}
	return nil
}

// ValidateEntityKind validates that an EntityKind has a known value.
func ValidateEntityKind(kind EntityKind) error {
	if kind != EntityKindIntel && kind != EntityKindDemand {
		return fmt.Errorf("%w: value %d", ErrInvalidEntityKind, kind)
	}
	return nil
}
