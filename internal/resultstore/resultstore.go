// Package resultstore holds the most recent aggregation snapshot.
//
// Readers never block: the current snapshot is published through an atomic
// pointer and snapshots are immutable once stored. Ingestions are serialized
// so that two concurrent uploads cannot interleave their build and swap.
package resultstore

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"fjacquet/credit-summary/internal/logging"
	"fjacquet/credit-summary/internal/models"

	"github.com/google/uuid"
)

// ErrEmpty is returned by CurrentOrErr before the first successful ingestion.
var ErrEmpty = errors.New("no data has been ingested yet")

// Store is the process-wide holder of the latest snapshot.
type Store struct {
	current    atomic.Pointer[models.Snapshot]
	ingestMu   sync.Mutex
	generation atomic.Uint64
	logger     logging.Logger
}

// New creates an empty Store.
func New(logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Store{logger: logger}
}

// Current returns the latest snapshot, or nil when nothing was stored yet.
func (s *Store) Current() *models.Snapshot {
	return s.current.Load()
}

// CurrentOrErr returns the latest snapshot or ErrEmpty.
func (s *Store) CurrentOrErr() (*models.Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrEmpty
	}
	return snap, nil
}

// Replace publishes snap as the current snapshot. The store assigns the id,
// the generation and, when unset, the creation time. snap must not be
// modified by the caller afterwards.
func (s *Store) Replace(snap *models.Snapshot) *models.Snapshot {
	if snap == nil {
		return nil
	}
	snap.ID = uuid.NewString()
	snap.Generation = s.generation.Add(1)
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now()
	}
	s.current.Store(snap)

	s.logger.Info("Published snapshot",
		logging.F(logging.FieldSnapshot, snap.ID),
		logging.F(logging.FieldGeneration, snap.Generation),
		logging.F(logging.FieldCount, snap.RecordCount))
	return snap
}

// Ingest runs build and publishes its result while holding the ingest lock.
// On error the current snapshot is left untouched.
func (s *Store) Ingest(build func() (*models.Snapshot, error)) (*models.Snapshot, error) {
	s.ingestMu.Lock()
	defer s.ingestMu.Unlock()

	snap, err := build()
	if err != nil {
		s.logger.WithError(err).Warn("Ingestion failed, keeping previous snapshot",
			logging.F(logging.FieldGeneration, s.generation.Load()))
		return nil, err
	}
	if snap == nil {
		return nil, errors.New("ingestion produced no snapshot")
	}
	return s.Replace(snap), nil
}
