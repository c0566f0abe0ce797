package ui

import (
	"github.com/fleetops/pingtop/model"
)

// LatencySeries builds one series per quantile from the latency half of the
// stats snapshots.
func LatencySeries(stats []model.PercentileSnapshot) []model.Series {
	return quantileSeries(stats, func(s model.PercentileSnapshot) model.Percentiles {
		return s.LatencyStats
	})
}

// IntervalSeries builds one series per quantile from the ping-interval half.
func IntervalSeries(stats []model.PercentileSnapshot) []model.Series {
	return quantileSeries(stats, func(s model.PercentileSnapshot) model.Percentiles {
		return s.IntervalStats
	})
}

func quantileSeries(stats []model.PercentileSnapshot, pick func(model.PercentileSnapshot) model.Percentiles) []model.Series {
	out := make([]model.Series, 0, len(model.QuantileKeys))
	for _, key := range model.QuantileKeys {
		data := make([]model.TimeSeriesPoint, 0, len(stats))
		for _, snap := range stats {
			data = append(data, model.TimeSeriesPoint{
				X: float64(snap.Timestamp),
				Y: pick(snap).Value(key),
			})
		}
		out = append(out, model.Series{
			Label: key,
			Data:  data,
			Color: quantileColors[key],
		})
	}
	return out
}

// UnitSeries builds the latency and interval lines for one unit's history.
// Samples taken while the unit was on an active trip carry the tag
// annotation so they render highlighted.
func UnitSeries(history []model.UnitSample) []model.Series {
	latency := make([]model.TimeSeriesPoint, 0, len(history))
	interval := make([]model.TimeSeriesPoint, 0, len(history))
	for _, s := range history {
		x := float64(s.EndOfInterval)
		latency = append(latency, model.TimeSeriesPoint{X: x, Y: float64(s.Latency), Tagged: s.OnTrip})
		interval = append(interval, model.TimeSeriesPoint{X: x, Y: float64(s.Interval), Tagged: s.OnTrip})
	}
	return []model.Series{
		{Label: "latency", Data: latency, Color: "#FF5555", FillBelow: true},
		{Label: "interval", Data: interval, Color: "#8BE9FD"},
	}
}
