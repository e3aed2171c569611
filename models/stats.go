package models

// Tally counts episode outcomes over some window of training.
// Wins and losses are counted from O's perspective, matching the reward framing.
type Tally struct {
	Episodes int
	Wins     int
	Losses   int
	Draws    int
}

// Record classifies an episode by the winner of its last log entry.
// An empty log counts as a draw.
func (t *Tally) Record(results []Result) {
	t.Episodes++
	if len(results) == 0 {
		t.Draws++
		return
	}

	switch results[len(results)-1].Winner {
	case O:
		t.Wins++
	case X:
		t.Losses++
	default:
		t.Draws++
	}
}

// Add merges another tally into this one.
func (t *Tally) Add(other Tally) {
	t.Episodes += other.Episodes
	t.Wins += other.Wins
	t.Losses += other.Losses
	t.Draws += other.Draws
}

func (t Tally) rate(n int) float64 {
	if t.Episodes == 0 {
		return 0
	}
	return float64(n) / float64(t.Episodes)
}

func (t Tally) WinRate() float64  { return t.rate(t.Wins) }
func (t Tally) LossRate() float64 { return t.rate(t.Losses) }
func (t Tally) DrawRate() float64 { return t.rate(t.Draws) }

// Snapshot is a point-in-time copy of a worker's training progress, safe to
// hand to other goroutines (views, reporting).
type Snapshot struct {
	Worker  int
	Episode int
	Window  Tally
	Values  ValueTable
}

// Opening returns the learned values of the empty board, and whether any exist.
func (s *Snapshot) Opening() (ActionValues, bool) {
	vals, ok := s.Values[NewBoard()]
	return vals, ok
}
