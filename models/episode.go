package models

// Outcome reports whether an episode continues after a step.
type Outcome int

const (
	Continue Outcome = iota
	Done
)

func (o Outcome) String() string {
	if o == Done {
		return "done"
	}
	return "continue"
}

// Rewards, framed from O's perspective regardless of which mark the learner holds.
const (
	WIN_REWARD     = 1.0
	LOSE_REWARD    = -1.0
	DRAW_REWARD    = 0.0
	STEP_REWARD    = 0.0
	PENALTY_REWARD = -0.4
)

// Transition is one of the learner's own decisions: in board State it chose
// Action and received Reward. Opponent moves are never recorded.
type Transition struct {
	State  Board
	Action int
	Reward float64
}

// Episode is the learner's trajectory for one game, in chronological order.
type Episode []Transition

// Result is the per-step log entry returned to the training driver.
type Result struct {
	Winner Mark
	Reward float64
}

// ActionValues holds one estimate per cell/action.
type ActionValues [NUM_CELLS]float64

// VisitCounts holds one counter per cell/action.
type VisitCounts [NUM_CELLS]uint64

// ValueTable maps a board to its action-value estimates. Unseen boards are
// implicitly all zero.
type ValueTable map[Board]ActionValues

// VisitTable maps a board to the number of times each action was taken from it.
type VisitTable map[Board]VisitCounts

// Clone returns a deep copy; the arrays are values, so copying the map suffices.
func (vt ValueTable) Clone() ValueTable {
	cp := make(ValueTable, len(vt))
	for board, vals := range vt {
		cp[board] = vals
	}
	return cp
}

// Clone returns a deep copy.
func (vt VisitTable) Clone() VisitTable {
	cp := make(VisitTable, len(vt))
	for board, counts := range vt {
		cp[board] = counts
	}
	return cp
}

// Argmax returns the index of the maximum value. The incumbent is only
// replaced by a strictly greater value, so the lowest index wins ties.
func (av ActionValues) Argmax() int {
	best := 0
	for i := 1; i < len(av); i++ {
		if av[i] > av[best] {
			best = i
		}
	}
	return best
}

// Rev returns reversed indices of a slice, e.g. for ranging over.
func Rev(length int) []int {
	indices := make([]int, length)
	for i := 0; i < length; i++ {
		indices[i] = length - i - 1
	}
	return indices
}
