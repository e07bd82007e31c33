// Package trace records the per-day decisions of an online policy run.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// DecisionRecord captures one day's online decision and the inputs it saw.
type DecisionRecord struct {
	Day       int
	Remaining int // people waiting when the day started
	Seats     int
	Price     int
	WaitCost  int
	Departed  int
	DayCost   int64 // Departed*Price + WaitCost*(Remaining-Departed)
}

// Waiting returns the number of people left after the day.
func (r DecisionRecord) Waiting() int {
	return r.Remaining - r.Departed
}
