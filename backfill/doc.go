// Package backfill repairs the retrieval index by embedding listings that
// have no index record.
//
// The package supports batch embedding, progress reporting, and retry with
// exponential backoff for provider calls.
package backfill
