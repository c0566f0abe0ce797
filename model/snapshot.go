package model

// QuantileKeys lists the quantile fields served by the aggregation API in
// display order. The set is fixed by the API; charts rely on the order for
// stable legends.
var QuantileKeys = []string{
	"p0", "p25", "p50", "p75", "p80", "p85",
	"p90", "p95", "p98", "p99", "p99_5", "p99_9",
}

// Percentiles is one distribution snapshot keyed by quantile.
type Percentiles struct {
	P0   float64 `json:"p0"`
	P25  float64 `json:"p25"`
	P50  float64 `json:"p50"`
	P75  float64 `json:"p75"`
	P80  float64 `json:"p80"`
	P85  float64 `json:"p85"`
	P90  float64 `json:"p90"`
	P95  float64 `json:"p95"`
	P98  float64 `json:"p98"`
	P99  float64 `json:"p99"`
	P995 float64 `json:"p99_5"`
	P999 float64 `json:"p99_9"`
}

// Value returns the percentile for one of QuantileKeys, 0 for unknown keys.
func (p Percentiles) Value(key string) float64 {
	switch key {
	case "p0":
		return p.P0
	case "p25":
		return p.P25
	case "p50":
		return p.P50
	case "p75":
		return p.P75
	case "p80":
		return p.P80
	case "p85":
		return p.P85
	case "p90":
		return p.P90
	case "p95":
		return p.P95
	case "p98":
		return p.P98
	case "p99":
		return p.P99
	case "p99_5":
		return p.P995
	case "p99_9":
		return p.P999
	}
	return 0
}

// PercentileSnapshot is one timestamped record of fleet-wide latency and
// ping-interval distribution statistics. Immutable once received; each poll
// replaces the whole slice, there is no incremental merge.
type PercentileSnapshot struct {
	Timestamp     int64       `json:"timestamp"`
	IntervalStats Percentiles `json:"interval_stats"`
	LatencyStats  Percentiles `json:"latency_stats"`
	SampleCount   uint32      `json:"sample_count"`
}

// UnitSample is one history entry for a single unit: the gap between two
// pings ending at EndOfInterval, how late the ping arrived, and the fleet
// rank of that interval. OnTrip marks samples taken on an active trip.
type UnitSample struct {
	Interval      uint16 `json:"interval"`
	EndOfInterval int64  `json:"end_of_interval"`
	Latency       uint16 `json:"latency"`
	Rank          uint8  `json:"rank"`
	OnTrip        bool   `json:"on_trip"`
}

// AnomalousUnit is a unit whose recent ping behavior ranked above the score
// threshold, with its own history. The API serves these ranked by score
// descending; like stats, the slice is superseded wholesale every poll.
type AnomalousUnit struct {
	UnitID  string       `json:"unit_id"`
	Score   uint64       `json:"score"`
	History []UnitSample `json:"history"`
}
