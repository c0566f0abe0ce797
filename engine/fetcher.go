package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	logger "github.com/multiversx/mx-chain-logger-go"

	"github.com/fleetops/pingtop/client"
	"github.com/fleetops/pingtop/model"
)

var log = logger.GetOrCreate("engine")

// Source abstracts the telemetry API for the fetcher.
type Source interface {
	Stats(ctx context.Context, q client.Query) ([]model.PercentileSnapshot, error)
	Anomalies(ctx context.Context, minRank int, q client.Query) ([]model.AnomalousUnit, error)
}

// PollResult is the settled outcome of one poll cycle. The two halves are
// independent: either error may be set while the other half carries data,
// and a partial failure must update only its own half downstream.
type PollResult struct {
	Seq          uint64
	Stats        []model.PercentileSnapshot
	StatsErr     error
	Anomalies    []model.AnomalousUnit
	AnomaliesErr error
}

// Fetcher issues the two telemetry queries of a poll cycle. Cycles are
// stamped with a monotonic sequence number so the orchestrator can discard a
// late response from an older cycle instead of letting it overwrite newer
// data; ticks are fire-and-forget and in-flight polls are never cancelled.
type Fetcher struct {
	source  Source
	minRank int
	seq     atomic.Uint64
	now     func() time.Time
}

// NewFetcher creates a fetcher over the given source. minRank is the
// anomaly rank threshold passed to the anomalies endpoint.
func NewFetcher(source Source, minRank int) (*Fetcher, error) {
	if source == nil {
		return nil, errors.New("nil source")
	}
	return &Fetcher{
		source:  source,
		minRank: minRank,
		now:     time.Now,
	}, nil
}

// Poll runs the stats and anomalies queries concurrently and returns when
// both have settled. Neither failure affects the other.
func (f *Fetcher) Poll(ctx context.Context, rng model.TimeRange) PollResult {
	res := PollResult{Seq: f.seq.Add(1)}

	q := client.Query{Step: rng.Step()}
	if since, ok := rng.Since(f.now()); ok {
		q.Since, q.HasSince = since, true
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		res.Stats, res.StatsErr = f.source.Stats(ctx, q)
		if res.StatsErr != nil {
			log.Warn("stats poll failed", "seq", res.Seq, "error", res.StatsErr)
		}
	}()
	go func() {
		defer wg.Done()
		res.Anomalies, res.AnomaliesErr = f.source.Anomalies(ctx, f.minRank, q)
		if res.AnomaliesErr != nil {
			log.Warn("anomalies poll failed", "seq", res.Seq, "error", res.AnomaliesErr)
		}
	}()
	wg.Wait()

	return res
}
