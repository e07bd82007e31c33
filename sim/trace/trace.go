package trace

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions captures every per-day policy decision.
	TraceLevelDecisions TraceLevel = "decisions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// RunTrace collects decision records during one online run.
type RunTrace struct {
	Policy    string
	Decisions []DecisionRecord
}

// NewRunTrace creates a RunTrace ready for recording.
func NewRunTrace(policy string) *RunTrace {
	return &RunTrace{
		Policy:    policy,
		Decisions: make([]DecisionRecord, 0),
	}
}

// Record appends a decision record.
func (rt *RunTrace) Record(record DecisionRecord) {
	rt.Decisions = append(rt.Decisions, record)
}

// Reset drops recorded decisions so the trace can be reused for another run.
func (rt *RunTrace) Reset() {
	rt.Decisions = rt.Decisions[:0]
}
