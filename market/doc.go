// Package market composes the storage layer and the AI provider into the
// marketplace's write-side operations: account registration, listing
// creation with background indexing, escrow-backed purchases and
// fulfillments, and credit movement in and out of the platform.
package market
