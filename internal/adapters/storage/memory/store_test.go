package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"heartrate-monitor/internal/domain"
)

func record(t *testing.T, id string, values ...int) domain.SessionRecord {
	t.Helper()
	readings := make([]domain.Reading, len(values))
	for i, v := range values {
		readings[i] = domain.Reading{Tick: i, Value: v}
	}
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	sum, err := domain.BuildSummary(readings, start, start.Add(time.Duration(len(values))*time.Second))
	require.NoError(t, err)
	return domain.SessionRecord{SessionID: id, SavedAt: start, Summary: sum}
}

func TestStoreEmpty(t *testing.T) {
	s := NewStore()
	_, ok, err := s.LastSummary(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStoreOverwrites(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.SaveSummary(ctx, record(t, "a", 70, 80)))
	require.NoError(t, s.SaveSummary(ctx, record(t, "b", 90)))

	got, ok, err := s.LastSummary(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "b", got.SessionID)
	require.Equal(t, 90, got.Summary.ValueQuantity.Value)
}

func TestStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.SaveSummary(ctx, record(t, "a", 70, 80)))

	got, _, _ := s.LastSummary(ctx)
	got.Summary.Component[0].ValueQuantity.Value = -1
	got.Summary.EffectivePeriod.DurationSeconds = -1

	again, _, _ := s.LastSummary(ctx)
	require.Equal(t, 70.0, again.Summary.Component[0].ValueQuantity.Value)
	require.Equal(t, 2, again.Summary.EffectivePeriod.DurationSeconds)
}

func TestStoreCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewStore()
	require.ErrorIs(t, s.SaveSummary(ctx, record(t, "a", 70)), context.Canceled)
	_, _, err := s.LastSummary(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestStoreConcurrentWritersNeverTear(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	recs := make([]domain.SessionRecord, 8)
	for i := range recs {
		recs[i] = record(t, fmt.Sprintf("w%d", i), i, i)
	}
	var wg sync.WaitGroup
	for i := range recs {
		wg.Add(1)
		go func(rec domain.SessionRecord) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = s.SaveSummary(ctx, rec)
			}
		}(recs[i])
	}
	for i := 0; i < 200; i++ {
		rec, ok, err := s.LastSummary(ctx)
		require.NoError(t, err)
		if !ok {
			continue
		}
		// every field of a record comes from the same writer
		want := fmt.Sprintf("w%d", rec.Summary.ValueQuantity.Value)
		require.Equal(t, want, rec.SessionID)
	}
	wg.Wait()
}
