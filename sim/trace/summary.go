package trace

// TraceSummary aggregates statistics from a RunTrace.
type TraceSummary struct {
	Days             int
	DepartureDays    int // days with at least one departure
	TotalDeparted    int
	LargestDeparture int
	FareCost         int64   // sum of Departed*Price
	WaitingCost      int64   // sum of WaitCost*Waiting
	MeanFare         float64 // FareCost / TotalDeparted, 0 if nobody departed
	FirstDeparture   int     // first day with a departure, -1 if none
}

// Summarize computes aggregate statistics from a RunTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(rt *RunTrace) *TraceSummary {
	summary := &TraceSummary{FirstDeparture: -1}
	if rt == nil {
		return summary
	}

	summary.Days = len(rt.Decisions)
	for _, d := range rt.Decisions {
		summary.WaitingCost += int64(d.WaitCost) * int64(d.Waiting())
		if d.Departed == 0 {
			continue
		}
		if summary.FirstDeparture < 0 {
			summary.FirstDeparture = d.Day
		}
		summary.DepartureDays++
		summary.TotalDeparted += d.Departed
		summary.FareCost += int64(d.Departed) * int64(d.Price)
		if d.Departed > summary.LargestDeparture {
			summary.LargestDeparture = d.Departed
		}
	}
	if summary.TotalDeparted > 0 {
		summary.MeanFare = float64(summary.FareCost) / float64(summary.TotalDeparted)
	}
	return summary
}
