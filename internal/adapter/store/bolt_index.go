package store

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"sync"

	"go.etcd.io/bbolt"

	"ragserve/internal/domain"
)

// BoltVectorIndex implements port.VectorIndex using BoltDB for persistence.
// All records are mirrored in an in-memory map so search never touches disk;
// uses brute-force cosine distance, which is fine at single-collection scale.
type BoltVectorIndex struct {
	db         *bbolt.DB
	collection []byte
	meta       []byte
	dimension  int

	mu      sync.RWMutex
	records map[string]recordEntry
}

type recordEntry struct {
	vector   []float32
	text     string
	metadata domain.Metadata
	seq      uint64
}

type storedRecord struct {
	Vector   []float32       `json:"v"`
	Text     string          `json:"t"`
	Metadata domain.Metadata `json:"m,omitempty"`
	Seq      uint64          `json:"s"`
}

// NewBoltVectorIndex opens (or creates) the index database at path and binds
// it to the named collection. The collection bucket is created lazily on
// first use; existing records are loaded into memory.
func NewBoltVectorIndex(path, collection string, dimension int) (*BoltVectorIndex, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("invalid embedding dimension: %d", dimension)
	}

	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open index db: %w", err)
	}

	idx := &BoltVectorIndex{
		db:         db,
		collection: []byte(collection),
		meta:       []byte(collection + ".meta"),
		dimension:  dimension,
		records:    make(map[string]recordEntry),
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(idx.collection); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(idx.meta)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create collection bucket: %w", err)
	}

	if err := idx.loadRecords(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load collection: %w", err)
	}

	return idx, nil
}

// Close closes the underlying database.
func (s *BoltVectorIndex) Close() error {
	return s.db.Close()
}

// loadRecords loads all stored records into the in-memory map.
func (s *BoltVectorIndex) loadRecords() error {
	return s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.collection)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var stored storedRecord
			if err := json.Unmarshal(v, &stored); err != nil {
				return nil // Skip corrupted entries
			}
			s.records[string(k)] = recordEntry{
				vector:   stored.Vector,
				text:     stored.Text,
				metadata: stored.Metadata,
				seq:      stored.Seq,
			}
			return nil
		})
	})
}

// Insert stores a new record. The record becomes durably visible to
// subsequent searches and counts before Insert returns.
func (s *BoltVectorIndex) Insert(id string, vector []float32, text string, metadata domain.Metadata) error {
	if len(vector) != s.dimension {
		return fmt.Errorf("%w: expected %d, got %d", domain.ErrDimensionMismatch, s.dimension, len(vector))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[id]; exists {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateID, id)
	}

	var seq uint64
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.collection)
		if b == nil {
			return fmt.Errorf("collection bucket not found")
		}

		var err error
		seq, err = b.NextSequence()
		if err != nil {
			return err
		}

		data, err := json.Marshal(storedRecord{
			Vector:   vector,
			Text:     text,
			Metadata: metadata,
			Seq:      seq,
		})
		if err != nil {
			return err
		}
		return b.Put([]byte(id), data)
	})
	if err != nil {
		return err
	}

	s.records[id] = recordEntry{
		vector:   vector,
		text:     text,
		metadata: metadata,
		seq:      seq,
	}
	return nil
}

// Search finds the k nearest records to the query vector by cosine distance.
// Ties are broken by insertion order, earlier inserted first.
func (s *BoltVectorIndex) Search(vector []float32, k int) ([]domain.QueryResult, error) {
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("%w: expected %d, got %d", domain.ErrDimensionMismatch, s.dimension, len(vector))
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if k <= 0 || len(s.records) == 0 {
		return nil, nil
	}

	type scored struct {
		id       string
		distance float64
		seq      uint64
		entry    recordEntry
	}

	scores := make([]scored, 0, len(s.records))
	for id, entry := range s.records {
		scores = append(scores, scored{
			id:       id,
			distance: cosineDistance(vector, entry.vector),
			seq:      entry.seq,
			entry:    entry,
		})
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].distance != scores[j].distance {
			return scores[i].distance < scores[j].distance
		}
		return scores[i].seq < scores[j].seq
	})

	if k > len(scores) {
		k = len(scores)
	}

	results := make([]domain.QueryResult, k)
	for i := 0; i < k; i++ {
		results[i] = domain.QueryResult{
			ID:       scores[i].id,
			Text:     scores[i].entry.text,
			Metadata: scores[i].entry.metadata,
			Distance: scores[i].distance,
		}
	}
	return results, nil
}

// Delete removes the record with the given id, reporting whether it existed.
func (s *BoltVectorIndex) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[id]; !exists {
		return false, nil
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.collection)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(id))
	})
	if err != nil {
		return false, err
	}

	delete(s.records, id)
	return true, nil
}

// Clear drops and recreates the collection buckets in a single transaction,
// so concurrent readers see either the old collection or an empty one. The
// ID counter restarts with the new buckets.
func (s *BoltVectorIndex) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{s.collection, s.meta} {
			if tx.Bucket(name) != nil {
				if err := tx.DeleteBucket(name); err != nil {
					return err
				}
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.records = make(map[string]recordEntry)
	return nil
}

// Count returns the number of stored records.
func (s *BoltVectorIndex) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// NextSequence advances the collection's persisted ID counter. Values are
// never reused after deletions, which makes them safe for ID assignment; the
// counter restarts only on Clear.
func (s *BoltVectorIndex) NextSequence() (uint64, error) {
	var seq uint64
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.meta)
		if b == nil {
			return fmt.Errorf("meta bucket not found")
		}
		var err error
		seq, err = b.NextSequence()
		return err
	})
	return seq, err
}

// cosineDistance computes 1 - cosine similarity, clamped to be non-negative.
func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) {
		return 1
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 1
	}

	d := 1 - dotProduct/(math.Sqrt(normA)*math.Sqrt(normB))
	if d < 0 {
		return 0
	}
	return d
}
