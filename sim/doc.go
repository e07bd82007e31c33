// Package sim models evacuation scheduling under a transport strike: n
// people leave over m days, each day offering a limited number of seats at a
// price while everyone still waiting pays that day's waiting cost.
//
// # Reading Guide
//
// Start with these files:
//   - instance.go, solution.go: the problem and a validated schedule
//   - offline.go: the optimal solver when every day is known in advance
//   - online.go: the Policy contract and the day-by-day run loop
//
// # Architecture
//
// The sim package holds the data model, the solvers and the policies;
// everything around them lives in sub-packages:
//   - sim/eval/: randomized trials, competitive ratios over instance streams, CSV
//   - sim/workload/: instance text format, random generation, sweep grids
//   - sim/store/: SQLite archive of evaluation runs
//   - sim/trace/: per-day decision recording
//
// # Key Interfaces
//
// Policy is the only extension point. Deterministic policies (threshold,
// greedy, greedy-exhaustive) are evaluated with a single run; randomized
// ones (proximity, uniform-random) are repeated until their mean cost
// settles. New policies are registered in ValidPolicies and NewPolicy.
//
// Randomness flows from a single seed through PartitionedRNG so that every
// subsystem draws from its own reproducible stream.
package sim
