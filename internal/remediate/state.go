package remediate

// State is the lifecycle position of one record within a run.
type State int

const (
	StatePending State = iota
	StateChecked
	StateSkipped
	StateRemediating
	StateRemediated
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateChecked:
		return "checked"
	case StateSkipped:
		return "skipped"
	case StateRemediating:
		return "remediating"
	case StateRemediated:
		return "remediated"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition follows s.
func (s State) Terminal() bool {
	return s == StateSkipped || s == StateRemediated
}
