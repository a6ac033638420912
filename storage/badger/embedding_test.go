package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/intelmart/intelmart/core"
)

func TestEmbeddingUpsertAndGet(t *testing.T) {
	stores, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer stores.Close()

	ctx := context.Background()

	vector := []float32{0.6, 0.8}
	metadata := map[string]string{"category": "renewals"}

	record, err := stores.Embedding.Upsert(ctx, core.EntityKindIntel, 42, vector, metadata)
	if err != nil {
		t.Fatalf("Failed to upsert: %v", err)
	}
	if record.Id != core.EmbeddingRecordID(core.EntityKindIntel, 42) {
		t.Fatalf("Expected derived ID, got %d", record.Id)
	}

	retrieved, err := stores.Embedding.Get(ctx, core.EntityKindIntel, 42)
	if err != nil {
		t.Fatalf("Failed to get: %v", err)
	}
	if len(retrieved.Vector) != 2 || retrieved.Vector[0] != 0.6 {
		t.Fatalf("Vector mismatch: %v", retrieved.Vector)
	}
	if retrieved.Metadata["category"] != "renewals" {
		t.Fatalf("Metadata mismatch: %v", retrieved.Metadata)
	}

	_, err = stores.Embedding.Get(ctx, core.EntityKindDemand, 42)
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for other kind, got %v", err)
	}
}

func TestEmbeddingUpsertReplaces(t *testing.T) {
	stores, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer stores.Close()

	ctx := context.Background()

	first, err := stores.Embedding.Upsert(ctx, core.EntityKindDemand, 7, []float32{1, 0}, nil)
	if err != nil {
		t.Fatalf("Failed to upsert: %v", err)
	}

	second, err := stores.Embedding.Upsert(ctx, core.EntityKindDemand, 7, []float32{0, 1}, nil)
	if err != nil {
		t.Fatalf("Failed to re-upsert: %v", err)
	}

	// Replaces in place and keeps the original CreatedAt
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("Expected CreatedAt %v preserved, got %v", first.CreatedAt, second.CreatedAt)
	}

	retrieved, err := stores.Embedding.Get(ctx, core.EntityKindDemand, 7)
	if err != nil {
		t.Fatalf("Failed to get: %v", err)
	}
	if retrieved.Vector[0] != 0 || retrieved.Vector[1] != 1 {
		t.Fatalf("Expected replaced vector, got %v", retrieved.Vector)
	}

	results, err := stores.Embedding.Query(ctx, []float32{0, 1}, 10)
	if err != nil {
		t.Fatalf("Failed to query: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected exactly one record after replace, got %d", len(results))
	}
}

func TestEmbeddingDeleteIdempotent(t *testing.T) {
	stores, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer stores.Close()

	ctx := context.Background()

	if _, err := stores.Embedding.Upsert(ctx, core.EntityKindIntel, 1, []float32{1}, nil); err != nil {
		t.Fatalf("Failed to upsert: %v", err)
	}

	if err := stores.Embedding.Delete(ctx, core.EntityKindIntel, 1); err != nil {
		t.Fatalf("Failed to delete: %v", err)
	}
	// Deleting again must not error
	if err := stores.Embedding.Delete(ctx, core.EntityKindIntel, 1); err != nil {
		t.Fatalf("Second delete errored: %v", err)
	}
}

func TestEmbeddingQueryOrdering(t *testing.T) {
	stores, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer stores.Close()

	ctx := context.Background()

	// Unit vectors at decreasing similarity to the query {1, 0}
	vectors := map[core.ID][]float32{
		1: {1, 0},     // similarity 1.0
		2: {0.6, 0.8}, // similarity 0.6
		3: {0, 1},     // similarity 0.0
	}
	for id, vec := range vectors {
		if _, err := stores.Embedding.Upsert(ctx, core.EntityKindIntel, id, vec, nil); err != nil {
			t.Fatalf("Failed to upsert %d: %v", id, err)
		}
	}

	results, err := stores.Embedding.Query(ctx, []float32{1, 0}, 2)
	if err != nil {
		t.Fatalf("Failed to query: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].EntityId != 1 || results[1].EntityId != 2 {
		t.Fatalf("Expected order [1 2], got [%d %d]", results[0].EntityId, results[1].EntityId)
	}
	if results[0].Score <= results[1].Score {
		t.Fatalf("Scores not descending: %f then %f", results[0].Score, results[1].Score)
	}
}

func TestEmbeddingQueryEmptyIndex(t *testing.T) {
	stores, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer stores.Close()

	results, err := stores.Embedding.Query(context.Background(), []float32{1, 0}, 10)
	if err != nil {
		t.Fatalf("Query on empty index errored: %v", err)
	}
	if results == nil {
		t.Fatal("Expected empty slice, got nil")
	}
	if len(results) != 0 {
		t.Fatalf("Expected no results, got %d", len(results))
	}
}

func TestEmbeddingQuerySkipsMismatchedDimensions(t *testing.T) {
	stores, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer stores.Close()

	ctx := context.Background()

	if _, err := stores.Embedding.Upsert(ctx, core.EntityKindIntel, 1, []float32{1, 0}, nil); err != nil {
		t.Fatalf("Failed to upsert: %v", err)
	}
	if _, err := stores.Embedding.Upsert(ctx, core.EntityKindIntel, 2, []float32{1, 0, 0}, nil); err != nil {
		t.Fatalf("Failed to upsert: %v", err)
	}

	results, err := stores.Embedding.Query(ctx, []float32{1, 0}, 10)
	if err != nil {
		t.Fatalf("Failed to query: %v", err)
	}
	if len(results) != 1 || results[0].EntityId != 1 {
		t.Fatalf("Expected only the matching-dimension record, got %d results", len(results))
	}
}

func TestEmbeddingMissing(t *testing.T) {
	stores, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer stores.Close()

	ctx := context.Background()

	buyer, _ := stores.Ledger.CreateAccount(ctx, 0)
	seller, _ := stores.Ledger.CreateAccount(ctx, 0)

	demand, err := stores.Listings.AddDemand(ctx, &core.Demand{
		BuyerId:       buyer.Id,
		Title:         "Wayne Enterprises security budget",
		Description:   "Annual spend on physical security",
		BountyCredits: 100,
	})
	if err != nil {
		t.Fatalf("Failed to add demand: %v", err)
	}

	embedded, err := stores.Listings.AddIntel(ctx, &core.Intel{
		SellerId:     seller.Id,
		Title:        "Wonka supplier list",
		Description:  "Key ingredient suppliers and terms",
		PriceCredits: 50,
	})
	if err != nil {
		t.Fatalf("Failed to add intel: %v", err)
	}
	if _, err := stores.Embedding.Upsert(ctx, core.EntityKindIntel, embedded.Id, []float32{1}, nil); err != nil {
		t.Fatalf("Failed to upsert: %v", err)
	}

	bare, err := stores.Listings.AddIntel(ctx, &core.Intel{
		SellerId:     seller.Id,
		Title:        "Wonka distribution gaps",
		Description:  "Two regions uncovered",
		PriceCredits: 50,
	})
	if err != nil {
		t.Fatalf("Failed to add intel: %v", err)
	}

	cutoff := time.Now().UTC().Add(time.Minute)
	refs, err := stores.Embedding.Missing(ctx, cutoff)
	if err != nil {
		t.Fatalf("Failed to list missing: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("Expected 2 missing, got %d", len(refs))
	}

	found := map[core.EntityKind]core.ID{}
	for _, ref := range refs {
		found[ref.Kind] = ref.Id
	}
	if found[core.EntityKindDemand] != demand.Id {
		t.Fatalf("Expected missing demand %d, got %d", demand.Id, found[core.EntityKindDemand])
	}
	if found[core.EntityKindIntel] != bare.Id {
		t.Fatalf("Expected missing intel %d, got %d", bare.Id, found[core.EntityKindIntel])
	}

	// A cutoff in the past excludes everything
	refs, err = stores.Embedding.Missing(ctx, time.Now().UTC().Add(-time.Hour))
	if err != nil {
		t.Fatalf("Failed to list missing: %v", err)
	}
	if len(refs) != 0 {
		t.Fatalf("Expected no missing before cutoff, got %d", len(refs))
	}
}
