package common

// PursuingUnit is a read-only snapshot of a blocking robot handed to the planner.
type PursuingUnit struct {
	ID               string
	Loc              Point
	Speed            float64 // distance per unit time, > 0
	DisablementRange float64 // radius within which the unit neutralizes an agent
}

// MovingAgent is a read-only snapshot of an agent advancing towards the border
// along +y. Sigma is zero for fixed-velocity agents; otherwise the lateral
// uncertainty after elapsed time t is Sigma*sqrt(t).
type MovingAgent struct {
	ID    string
	Loc   Point
	Speed float64
	Sigma float64
}

// Stochastic reports whether the agent carries lateral uncertainty.
func (a MovingAgent) Stochastic() bool {
	return a.Sigma > 0
}
