package resultstore

import (
	"errors"
	"sync"
	"testing"

	"fjacquet/credit-summary/internal/logging"
	"fjacquet/credit-summary/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot(records int) *models.Snapshot {
	return &models.Snapshot{
		RecordCount: records,
		Summary:     []models.SummaryRow{},
		Ranking:     []models.RankingEntry{},
	}
}

func TestStore_EmptyBeforeIngestion(t *testing.T) {
	s := New(logging.NewDiscardLogger())

	assert.Nil(t, s.Current())
	snap, err := s.CurrentOrErr()
	assert.Nil(t, snap)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestStore_ReplaceAssignsIdentity(t *testing.T) {
	s := New(logging.NewDiscardLogger())

	first := s.Replace(snapshot(1))
	second := s.Replace(snapshot(2))

	require.NotNil(t, first)
	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, uint64(1), first.Generation)
	assert.Equal(t, uint64(2), second.Generation)
	assert.False(t, second.CreatedAt.IsZero())
	assert.Same(t, second, s.Current())
}

func TestStore_ReplaceNil(t *testing.T) {
	s := New(logging.NewDiscardLogger())
	assert.Nil(t, s.Replace(nil))
	assert.Nil(t, s.Current())
}

func TestStore_IngestFailureKeepsPrevious(t *testing.T) {
	logger := logging.NewMockLogger()
	s := New(logger)

	prev, err := s.Ingest(func() (*models.Snapshot, error) { return snapshot(3), nil })
	require.NoError(t, err)

	boom := errors.New("boom")
	got, err := s.Ingest(func() (*models.Snapshot, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, got)
	assert.Same(t, prev, s.Current())
	assert.True(t, logger.HasEntry("WARN", "Ingestion failed, keeping previous snapshot"))
}

func TestStore_IngestNilSnapshot(t *testing.T) {
	s := New(logging.NewDiscardLogger())
	_, err := s.Ingest(func() (*models.Snapshot, error) { return nil, nil })
	assert.Error(t, err)
	assert.Nil(t, s.Current())
}

func TestStore_EmptySnapshotIsNotErrEmpty(t *testing.T) {
	s := New(logging.NewDiscardLogger())
	_, err := s.Ingest(func() (*models.Snapshot, error) { return snapshot(0), nil })
	require.NoError(t, err)

	snap, err := s.CurrentOrErr()
	require.NoError(t, err)
	assert.Empty(t, snap.Summary)
}

func TestStore_ConcurrentIngestAndRead(t *testing.T) {
	s := New(logging.NewDiscardLogger())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_, err := s.Ingest(func() (*models.Snapshot, error) { return snapshot(n), nil })
			assert.NoError(t, err)
		}(i)
		go func() {
			defer wg.Done()
			if snap := s.Current(); snap != nil {
				assert.NotEmpty(t, snap.ID)
				assert.NotZero(t, snap.Generation)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(20), s.Current().Generation)
}
