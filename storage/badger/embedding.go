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
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/intelmart/intelmart/core"
	"github.com/intelmart/intelmart/storage"
)

// EmbeddingStore implements storage.EmbeddingStore for BadgerDB. Records are
// keyed by an ID derived from (kind, entityID), so an upsert is a single-key
// overwrite and at most one vector exists per listing. Queries scan the full
// index; the corpus is small enough that a linear scan beats maintaining an
// approximate index.
type EmbeddingStore struct {
	backend *Backend
}

var _ storage.EmbeddingStore = (*EmbeddingStore)(nil)

// NewEmbeddingStore creates a new EmbeddingStore.
func NewEmbeddingStore(backend *Backend) *EmbeddingStore {
	return &EmbeddingStore{backend: backend}
}

// Close is a no-op; the store holds no sequences.
func (s *EmbeddingStore) Close() error {
	return nil
}

// Upsert stores the vector for an entity, replacing any existing record.
// CreatedAt survives a replace so recency tie-breaks stay stable.
func (s *EmbeddingStore) Upsert(ctx context.Context, kind core.EntityKind, entityId core.ID, vector []float32, metadata map[string]string) (*core.EmbeddingRecord, error) {
	if err := core.ValidateEntityKind(kind); err != nil {
		return nil, err
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: empty vector", core.ErrInvalidInput)
	}

	var record *core.EmbeddingRecord
	err := s.backend.WithWriteTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		record = &core.EmbeddingRecord{
			Id:         core.EmbeddingRecordID(kind, entityId),
			EntityKind: kind,
			EntityId:   entityId,
			Vector:     vector,
			Metadata:   metadata,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		existing, err := readEmbedding(tx, kind, entityId)
		if err == nil {
			record.CreatedAt = existing.CreatedAt
		} else if !errors.Is(err, core.ErrNotFound) {
			return err
		}

		if err := tx.Set(makeEmbeddingKey(kind, entityId), storage.MarshalEmbeddingRecord(record)); err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Get retrieves an entity's embedding record.
func (s *EmbeddingStore) Get(ctx context.Context, kind core.EntityKind, entityId core.ID) (*core.EmbeddingRecord, error) {
	var record *core.EmbeddingRecord
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		record, err = readEmbedding(tx, kind, entityId)
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Delete removes an entity's embedding record. Deleting a missing record is
// not an error.
func (s *EmbeddingStore) Delete(ctx context.Context, kind core.EntityKind, entityId core.ID) error {
	return s.backend.WithWriteTx(func(tx *badger.Txn) error {
		if err := tx.Delete(makeEmbeddingKey(kind, entityId)); err != nil {
			return err
		}
		return tx.Commit()
	})
}

// Query returns up to limit entities ordered by similarity to the query
// vector, ties broken by most recent CreatedAt.
func (s *EmbeddingStore) Query(ctx context.Context, vector []float32, limit int) ([]*core.SimilarEntity, error) {
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: empty query vector", core.ErrInvalidInput)
	}

	results := []*core.SimilarEntity{}
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		prefix := []byte(embeddingPrefix + ":")
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record *core.EmbeddingRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalEmbeddingRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if len(record.Vector) != len(vector) {
				continue
			}
			results = append(results, &core.SimilarEntity{
				EntityKind: record.EntityKind,
				EntityId:   record.EntityId,
				Score:      dotProduct(vector, record.Vector),
				CreatedAt:  record.CreatedAt,
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Missing returns listings created before the cutoff that have no embedding
// record. The backfill job drains this set.
func (s *EmbeddingStore) Missing(ctx context.Context, cutoff time.Time) ([]storage.EntityRef, error) {
	var refs []storage.EntityRef
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		err := scanDateIndexReverse(tx, demandDatePrefix, 0, func(id core.ID) error {
			demand, err := readDemand(tx, id)
			if err != nil {
				return err
			}
			if !demand.CreatedAt.Before(cutoff) {
				return nil
			}
			return appendIfMissing(tx, core.EntityKindDemand, id, &refs)
		})
		if err != nil {
			return err
		}
		return scanDateIndexReverse(tx, intelDatePrefix, 0, func(id core.ID) error {
			intel, err := readIntel(tx, id)
			if err != nil {
				return err
			}
			if !intel.CreatedAt.Before(cutoff) {
				return nil
			}
			return appendIfMissing(tx, core.EntityKindIntel, id, &refs)
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return refs, nil
}

// appendIfMissing adds the ref when no embedding record exists for it.
func appendIfMissing(tx *badger.Txn, kind core.EntityKind, id core.ID, refs *[]storage.EntityRef) error {
	_, err := tx.Get(makeEmbeddingKey(kind, id))
	if err == badger.ErrKeyNotFound {
		*refs = append(*refs, storage.EntityRef{Kind: kind, Id: id})
		return nil
	}
	return err
}

// dotProduct computes the inner product of two equal-length vectors.
// Embeddings from the provider are L2-normalized, so this equals cosine
// similarity.
func dotProduct(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// readEmbedding reads an embedding record inside a transaction.
func readEmbedding(tx *badger.Txn, kind core.EntityKind, entityId core.ID) (*core.EmbeddingRecord, error) {
	item, err := tx.Get(makeEmbeddingKey(kind, entityId))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, fmt.Errorf("%w: embedding for %s %d", core.ErrNotFound, kind, entityId)
		}
		return nil, err
	}

	var record *core.EmbeddingRecord
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		record, unmarshalErr = storage.UnmarshalEmbeddingRecord(val)
		return unmarshalErr
	})
	return record, err
}
