// Package store persists the approach catalog and the analysis journal.
//
// The analysis core is deliberately persistence-free; this package exists
// for the CLI and other hosts that want the user-authored approach table to
// survive restarts and want a record of past analyze runs. Storage is
// BadgerDB with ACID transactions.
//
// Key Structure:
//   - Approaches: 0x01 + name -> JSON(approach.Config)
//   - Journal:    0x02 + bigEndian(unixNano) + recordID -> JSON(AnalysisRecord)
//
// Journal keys embed the timestamp so a prefix scan walks records in time
// order.
//
// Example:
//
//	st, err := store.Open("./data")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer st.Close()
//
//	st.PutApproach(approach.Config{
//		Name:          "frequency-analysis",
//		MinThresholds: map[string]float64{"fftEntropy": 1.5},
//	})
package store

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/SolidLabResearch/hive-scout-bee/pkg/approach"
)

// Key prefixes for BadgerDB storage organization.
// Using single-byte prefixes for efficiency.
const (
	prefixApproach = byte(0x01) // approaches: name -> Config
	prefixJournal  = byte(0x02) // journal: timestamp + id -> AnalysisRecord
)

// Common errors.
var (
	ErrNotFound    = errors.New("not found")
	ErrInvalidName = errors.New("invalid name")
	ErrInvalidData = errors.New("invalid data")
	ErrStoreClosed = errors.New("store closed")
)

// Store is the BadgerDB-backed approach catalog and analysis journal.
//
// Thread Safety:
//
//	Safe for concurrent use from multiple goroutines.
type Store struct {
	db     *badger.DB
	mu     sync.RWMutex // Protects closed
	closed bool
}

// Options configures the store.
type Options struct {
	// DataDir is the directory for data files. Required unless InMemory.
	DataDir string

	// InMemory keeps everything in RAM. Useful for tests and for hosts
	// that only want the catalog for the life of the process.
	InMemory bool

	// SyncWrites forces fsync after each write. Slower but more durable.
	SyncWrites bool
}

// Open creates a persistent store in dataDir with default settings.
func Open(dataDir string) (*Store, error) {
	return OpenWithOptions(Options{DataDir: dataDir})
}

// OpenInMemory creates a store that lives in RAM. Data is lost on Close.
//
// Example:
//
//	st, err := store.OpenInMemory()
//	if err != nil {
//		t.Fatal(err)
//	}
//	defer st.Close()
func OpenInMemory() (*Store, error) {
	return OpenWithOptions(Options{InMemory: true})
}

// OpenWithOptions creates a store with custom configuration.
func OpenWithOptions(opts Options) (*Store, error) {
	badgerOpts := badger.DefaultOptions(opts.DataDir)

	if opts.InMemory {
		badgerOpts = badgerOpts.WithInMemory(true)
	}

	if opts.SyncWrites {
		badgerOpts = badgerOpts.WithSyncWrites(true)
	}

	// Quiet logger; the catalog and journal are small and badger's own
	// chatter would drown the CLI output.
	badgerOpts = badgerOpts.
		WithLogger(nil).
		WithMemTableSize(16 << 20).
		WithValueLogFileSize(64 << 20).
		WithNumMemtables(2).
		WithBlockCacheSize(32 << 20).
		WithIndexCacheSize(16 << 20)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open BadgerDB: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database. Safe to call twice.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}

// ============================================================================
// Key encoding helpers
// ============================================================================

// approachKey creates a key for storing an approach config.
func approachKey(name string) []byte {
	return append([]byte{prefixApproach}, []byte(name)...)
}

// journalKey creates a key for storing an analysis record.
// Format: prefix + bigEndian(unixNano) + recordID
func journalKey(ts time.Time, id string) []byte {
	key := make([]byte, 0, 1+8+len(id))
	key = append(key, prefixJournal)
	var stamp [8]byte
	binary.BigEndian.PutUint64(stamp[:], uint64(ts.UnixNano()))
	key = append(key, stamp[:]...)
	key = append(key, []byte(id)...)
	return key
}

// ============================================================================
// Approach catalog
// ============================================================================

// PutApproach upserts an approach config by name.
func (s *Store) PutApproach(cfg approach.Config) error {
	if cfg.Name == "" {
		return ErrInvalidName
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return ErrStoreClosed
	}
	s.mu.RUnlock()

	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode approach: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(approachKey(cfg.Name), data)
	})
}

// GetApproach retrieves an approach config by name. Returns ErrNotFound when
// the name is absent.
func (s *Store) GetApproach(name string) (approach.Config, error) {
	var cfg approach.Config

	if name == "" {
		return cfg, ErrInvalidName
	}

	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return cfg, ErrStoreClosed
	}
	s.mu.RUnlock()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(approachKey(name))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &cfg); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidData, err)
			}
			return nil
		})
	})

	return cfg, err
}

// DeleteApproach removes an approach by name and reports whether it existed.
func (s *Store) DeleteApproach(name string) (bool, error) {
	if name == "" {
		return false, ErrInvalidName
	}

	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return false, ErrStoreClosed
	}
	s.mu.RUnlock()

	existed := false
	err := s.db.Update(func(txn *badger.Txn) error {
		key := approachKey(name)
		_, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		existed = true
		return txn.Delete(key)
	})

	return existed, err
}

// Approaches returns every stored approach config, ordered by name (the key
// order of the catalog prefix). That deterministic order makes the catalog a
// reproducible feed for a Selector.
func (s *Store) Approaches() ([]approach.Config, error) {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil, ErrStoreClosed
	}
	s.mu.RUnlock()

	var configs []approach.Config
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := []byte{prefixApproach}
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var cfg approach.Config
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &cfg)
			}); err != nil {
				continue
			}
			configs = append(configs, cfg)
		}

		return nil
	})

	return configs, err
}

// ============================================================================
// Analysis journal
// ============================================================================

// AnalysisRecord is one journaled analyze run.
type AnalysisRecord struct {
	ID             string                  `json:"id"`
	WindowID       string                  `json:"windowId,omitempty"`
	Timestamp      time.Time               `json:"timestamp"`
	Recommendation approach.Recommendation `json:"recommendation"`
}

// AppendAnalysis journals an analyze run and returns the stored record.
// A missing ID gets a fresh UUID and a zero Timestamp gets the current time.
func (s *Store) AppendAnalysis(rec AnalysisRecord) (AnalysisRecord, error) {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return rec, ErrStoreClosed
	}
	s.mu.RUnlock()

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return rec, fmt.Errorf("failed to encode analysis record: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(journalKey(rec.Timestamp, rec.ID), data)
	})
	return rec, err
}

// RecentAnalyses returns up to limit journal records, newest first.
// A non-positive limit returns nothing.
func (s *Store) RecentAnalyses(limit int) ([]AnalysisRecord, error) {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil, ErrStoreClosed
	}
	s.mu.RUnlock()

	if limit <= 0 {
		return nil, nil
	}

	// The journal prefix walks in time order; collect ascending and keep
	// the tail. Journals are small, the full scan is fine.
	var records []AnalysisRecord
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := []byte{prefixJournal}
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec AnalysisRecord
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				continue
			}
			records = append(records, rec)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(records) > limit {
		records = records[len(records)-limit:]
	}

	// Newest first.
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}

	return records, nil
}
