package domain

// Phase is one of the four ordered top-level stages of the pipeline.
type Phase string

const (
	PhaseSales        Phase = "sales"
	PhaseContract     Phase = "contract"
	PhaseInstallation Phase = "installation"
	PhaseCompletion   Phase = "completion"
)

// PhaseOrder is the fixed progression of the pipeline. Every registry is
// built over exactly this sequence.
var PhaseOrder = []Phase{
	PhaseSales,
	PhaseContract,
	PhaseInstallation,
	PhaseCompletion,
}

// Index returns the position of the phase in PhaseOrder, or -1 when the
// phase is unknown.
func (p Phase) Index() int {
	for i, candidate := range PhaseOrder {
		if candidate == p {
			return i
		}
	}
	return -1
}

// Next returns the phase that follows p in the pipeline. The second return
// is false for the last phase and for unknown phases.
func (p Phase) Next() (Phase, bool) {
	idx := p.Index()
	if idx < 0 || idx >= len(PhaseOrder)-1 {
		return "", false
	}
	return PhaseOrder[idx+1], true
}

// IsValid reports whether p is one of the four pipeline phases.
func (p Phase) IsValid() bool {
	return p.Index() >= 0
}
