package badger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/intelmart/intelmart/core"
	"github.com/intelmart/intelmart/storage"
)

// ListingStore implements storage.ListingStore for BadgerDB. Listings are
// stored under their primary key plus a date index whose composite keys
// sort by creation time, so recency scans are reverse iterations.
type ListingStore struct {
	backend   *Backend
	demandSeq *badger.Sequence
	intelSeq  *badger.Sequence
}

var _ storage.ListingStore = (*ListingStore)(nil)

// NewListingStore creates a new ListingStore.
func NewListingStore(backend *Backend) (*ListingStore, error) {
	demandSeq, err := backend.GetSequence(demandIDSeq)
	if err != nil {
		return nil, err
	}

	intelSeq, err := backend.GetSequence(intelIDSeq)
	if err != nil {
		demandSeq.Release()
		return nil, err
	}

	return &ListingStore{
		backend:   backend,
		demandSeq: demandSeq,
		intelSeq:  intelSeq,
	}, nil
}

// Close releases the ID sequences.
func (s *ListingStore) Close() error {
	if err := s.demandSeq.Release(); err != nil {
		return err
	}
	return s.intelSeq.Release()
}

// AddDemand creates a demand listing with status OPEN.
func (s *ListingStore) AddDemand(ctx context.Context, demand *core.Demand) (*core.Demand, error) {
	if err := core.ValidateDemand(demand); err != nil {
		return nil, err
	}

	err := s.backend.WithWriteTx(func(tx *badger.Txn) error {
		id, err := nextSeqID(s.demandSeq)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		demand.Id = id
		demand.Status = core.DemandStatusOpen
		demand.CreatedAt = now
		demand.UpdatedAt = now

		if err := tx.Set(makeDemandKey(demand.Id), storage.MarshalDemand(demand)); err != nil {
			return err
		}
		if err := tx.Set(makeDemandDateKey(demand.CreatedAt, demand.Id), storage.MarshalID(demand.Id)); err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}
	return demand, nil
}

// AddIntel creates an intel listing with status PUBLISHED.
func (s *ListingStore) AddIntel(ctx context.Context, intel *core.Intel) (*core.Intel, error) {
	if err := core.ValidateIntel(intel); err != nil {
		return nil, err
	}

	err := s.backend.WithWriteTx(func(tx *badger.Txn) error {
		id, err := nextSeqID(s.intelSeq)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		intel.Id = id
		intel.Status = core.IntelStatusPublished
		intel.CreatedAt = now
		intel.UpdatedAt = now

		if err := tx.Set(makeIntelKey(intel.Id), storage.MarshalIntel(intel)); err != nil {
			return err
		}
		if err := tx.Set(makeIntelDateKey(intel.CreatedAt, intel.Id), storage.MarshalID(intel.Id)); err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}
	return intel, nil
}

// GetDemand retrieves a demand by ID.
func (s *ListingStore) GetDemand(ctx context.Context, id core.ID) (*core.Demand, error) {
	var demand *core.Demand
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		demand, err = readDemand(tx, id)
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	return demand, nil
}

// GetIntel retrieves an intel listing by ID.
func (s *ListingStore) GetIntel(ctx context.Context, id core.ID) (*core.Intel, error) {
	var intel *core.Intel
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		intel, err = readIntel(tx, id)
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	return intel, nil
}

// CancelDemand moves a demand from OPEN to CANCELLED. Buyer only.
func (s *ListingStore) CancelDemand(ctx context.Context, id, actorId core.ID) (*core.Demand, error) {
	var demand *core.Demand
	err := s.backend.WithWriteTx(func(tx *badger.Txn) error {
		var err error
		demand, err = readDemand(tx, id)
		if err != nil {
			return err
		}
		if demand.BuyerId != actorId {
			return fmt.Errorf("%w: account %d does not own demand %d",
				core.ErrForbidden, actorId, id)
		}
		if demand.Status != core.DemandStatusOpen {
			return fmt.Errorf("%w: cannot cancel demand %d from %s",
				core.ErrInvalidState, id, demand.Status)
		}

		demand.Status = core.DemandStatusCancelled
		demand.UpdatedAt = time.Now().UTC()
		if err := tx.Set(makeDemandKey(demand.Id), storage.MarshalDemand(demand)); err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}
	return demand, nil
}

// DeleteIntel removes a PUBLISHED intel listing. Its date index entry and
// embedding record go in the same transaction, so the retrieval index never
// points at a deleted listing.
func (s *ListingStore) DeleteIntel(ctx context.Context, id, actorId core.ID) error {
	return s.backend.WithWriteTx(func(tx *badger.Txn) error {
		intel, err := readIntel(tx, id)
		if err != nil {
			return err
		}
		if intel.SellerId != actorId {
			return fmt.Errorf("%w: account %d does not own intel %d",
				core.ErrForbidden, actorId, id)
		}
		if intel.Status != core.IntelStatusPublished {
			return fmt.Errorf("%w: cannot delete intel %d in %s",
				core.ErrInvalidState, id, intel.Status)
		}

		if err := tx.Delete(makeIntelKey(intel.Id)); err != nil {
			return err
		}
		if err := tx.Delete(makeIntelDateKey(intel.CreatedAt, intel.Id)); err != nil {
			return err
		}
		if err := tx.Delete(makeEmbeddingKey(core.EntityKindIntel, intel.Id)); err != nil {
			return err
		}
		return tx.Commit()
	})
}

// RecentDemands returns up to limit demands, newest first.
func (s *ListingStore) RecentDemands(ctx context.Context, limit int) ([]*core.Demand, error) {
	var demands []*core.Demand
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		return scanDateIndexReverse(tx, demandDatePrefix, limit, func(id core.ID) error {
			demand, err := readDemand(tx, id)
			if err != nil {
				return err
			}
			demands = append(demands, demand)
			return nil
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return demands, nil
}

// RecentIntel returns up to limit intel listings, newest first.
func (s *ListingStore) RecentIntel(ctx context.Context, limit int) ([]*core.Intel, error) {
	var intels []*core.Intel
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		return scanDateIndexReverse(tx, intelDatePrefix, limit, func(id core.ID) error {
			intel, err := readIntel(tx, id)
			if err != nil {
				return err
			}
			intels = append(intels, intel)
			return nil
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return intels, nil
}

// SearchText matches the query as a case-insensitive substring against the
// title, description, and category of OPEN demands and PUBLISHED intel,
// newest first. The limit caps each result slice independently.
func (s *ListingStore) SearchText(ctx context.Context, query string, limit int) ([]*core.Demand, []*core.Intel, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil, nil, fmt.Errorf("%w: empty query", core.ErrInvalidInput)
	}

	var demands []*core.Demand
	var intels []*core.Intel
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		err := scanDateIndexReverse(tx, demandDatePrefix, 0, func(id core.ID) error {
			if len(demands) >= limit {
				return errScanDone
			}
			demand, err := readDemand(tx, id)
			if err != nil {
				return err
			}
			if demand.Status == core.DemandStatusOpen && matchesText(needle, demand.Title, demand.Description, demand.Category) {
				demands = append(demands, demand)
			}
			return nil
		})
		if err != nil && err != errScanDone {
			return err
		}

		err = scanDateIndexReverse(tx, intelDatePrefix, 0, func(id core.ID) error {
			if len(intels) >= limit {
				return errScanDone
			}
			intel, err := readIntel(tx, id)
			if err != nil {
				return err
			}
			if intel.Status == core.IntelStatusPublished && matchesText(needle, intel.Title, intel.Description, intel.Category) {
				intels = append(intels, intel)
			}
			return nil
		})
		if err != nil && err != errScanDone {
			return err
		}
		return nil
	}, false)
	if err != nil {
		return nil, nil, err
	}
	return demands, intels, nil
}

// errScanDone aborts a scan early once enough matches are collected.
var errScanDone = fmt.Errorf("scan done")

// matchesText reports whether the lowercased needle appears in any field.
func matchesText(needle string, fields ...string) bool {
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// scanDateIndexReverse iterates a date index newest first, calling fn with
// each listing ID. A limit of 0 means unbounded; fn may return errScanDone
// to stop.
func scanDateIndexReverse(tx *badger.Txn, datePrefix string, limit int, fn func(id core.ID) error) error {
	prefix := []byte(datePrefix + ":")
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.Reverse = true
	iter := tx.NewIterator(opts)
	defer iter.Close()

	seekKey := append(append([]byte{}, prefix...),
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)

	count := 0
	for iter.Seek(seekKey); iter.ValidForPrefix(prefix); iter.Next() {
		if limit > 0 && count >= limit {
			return nil
		}
		var id core.ID
		err := iter.Item().Value(func(val []byte) error {
			var err error
			id, err = storage.UnmarshalID(val)
			return err
		})
		if err != nil {
			return err
		}
		if err := fn(id); err != nil {
			return err
		}
		count++
	}
	return nil
}

// nextSeqID draws the next non-zero ID from a sequence.
func nextSeqID(seq *badger.Sequence) (core.ID, error) {
	next, err := seq.Next()
	if err != nil {
		return 0, err
	}
	// BadgerDB sequences can return 0 on first call, so we skip it
	if next == 0 {
		next, err = seq.Next()
		if err != nil {
			return 0, err
		}
	}
	return core.ID(next), nil
}

// readDemand reads a demand row inside a transaction.
func readDemand(tx *badger.Txn, id core.ID) (*core.Demand, error) {
	item, err := tx.Get(makeDemandKey(id))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, fmt.Errorf("%w: demand %d", core.ErrNotFound, id)
		}
		return nil, err
	}

	var demand *core.Demand
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		demand, unmarshalErr = storage.UnmarshalDemand(val)
		return unmarshalErr
	})
	return demand, err
}

// readIntel reads an intel row inside a transaction.
func readIntel(tx *badger.Txn, id core.ID) (*core.Intel, error) {
	item, err := tx.Get(makeIntelKey(id))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, fmt.Errorf("%w: intel %d", core.ErrNotFound, id)
		}
		return nil, err
	}

	var intel *core.Intel
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		intel, unmarshalErr = storage.UnmarshalIntel(val)
		return unmarshalErr
	})
	return intel, err
}
