package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fleetops/pingtop/client"
	"github.com/fleetops/pingtop/model"
)

type stubSource struct {
	stats        []model.PercentileSnapshot
	statsErr     error
	statsQuery   client.Query
	anomalies    []model.AnomalousUnit
	anomaliesErr error
	minRank      int
}

func (s *stubSource) Stats(_ context.Context, q client.Query) ([]model.PercentileSnapshot, error) {
	s.statsQuery = q
	return s.stats, s.statsErr
}

func (s *stubSource) Anomalies(_ context.Context, minRank int, _ client.Query) ([]model.AnomalousUnit, error) {
	s.minRank = minRank
	return s.anomalies, s.anomaliesErr
}

func TestNewFetcherRejectsNilSource(t *testing.T) {
	_, err := NewFetcher(nil, 90)
	require.Error(t, err)
}

func TestPollFetchesBothHalves(t *testing.T) {
	src := &stubSource{
		stats:     []model.PercentileSnapshot{{Timestamp: 100}},
		anomalies: []model.AnomalousUnit{{UnitID: "bus-1", Score: 7}},
	}
	f, err := NewFetcher(src, 95)
	require.NoError(t, err)
	f.now = func() time.Time { return time.Unix(1_700_000_000, 0) }

	res := f.Poll(context.Background(), model.Range1h)

	require.NoError(t, res.StatsErr)
	require.NoError(t, res.AnomaliesErr)
	require.Len(t, res.Stats, 1)
	require.Len(t, res.Anomalies, 1)
	require.Equal(t, 95, src.minRank)

	require.True(t, src.statsQuery.HasSince)
	require.Equal(t, int64(1_700_000_000-3600), src.statsQuery.Since)
	require.Equal(t, 2, src.statsQuery.Step)
}

func TestPollUnboundedRangeOmitsSince(t *testing.T) {
	src := &stubSource{}
	f, err := NewFetcher(src, 90)
	require.NoError(t, err)

	f.Poll(context.Background(), model.RangeAll)

	require.False(t, src.statsQuery.HasSince)
	require.Equal(t, 30, src.statsQuery.Step)
}

func TestPollFailuresAreIndependent(t *testing.T) {
	src := &stubSource{
		statsErr:  errors.New("stats down"),
		anomalies: []model.AnomalousUnit{{UnitID: "bus-2"}},
	}
	f, err := NewFetcher(src, 90)
	require.NoError(t, err)

	res := f.Poll(context.Background(), model.Range4h)

	require.Error(t, res.StatsErr)
	require.Nil(t, res.Stats)
	require.NoError(t, res.AnomaliesErr)
	require.Len(t, res.Anomalies, 1)
}

func TestPollSequenceIsMonotonic(t *testing.T) {
	f, err := NewFetcher(&stubSource{}, 90)
	require.NoError(t, err)

	first := f.Poll(context.Background(), model.Range30m)
	second := f.Poll(context.Background(), model.Range30m)

	require.Equal(t, uint64(1), first.Seq)
	require.Equal(t, uint64(2), second.Seq)
}
