package shader

// Stage identifies one compilable unit of the pipeline.
type Stage int

const (
	Vertex Stage = iota
	Fragment
)

func (s Stage) String() string {
	switch s {
	case Vertex:
		return "vertex"
	case Fragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// State is the progress of a single build attempt.
type State int

const (
	StateStart State = iota
	StateVertexCompiled
	StateBothCompiled
	StateLinked
	StateValidated
	StateReady
	StateFailed
)

var stateNames = [...]string{
	StateStart:          "start",
	StateVertexCompiled: "vertex-compiled",
	StateBothCompiled:   "both-compiled",
	StateLinked:         "linked",
	StateValidated:      "validated",
	StateReady:          "ready",
	StateFailed:         "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}
