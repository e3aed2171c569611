package reinforcement

import (
	"fmt"

	. "tictactoe/models"
)

// Environment owns the current board and converts actions into rewards.
// It never reads or writes an agent's tables.
type Environment struct {
	state Board
}

// NewEnvironment returns an environment holding the empty board.
func NewEnvironment() *Environment {
	return &Environment{}
}

// Reset clears all cells.
func (env *Environment) Reset() {
	env.state = NewBoard()
}

// State returns the current board by value.
func (env *Environment) State() Board {
	return env.state
}

// CheckTurn returns the mark to move on the current board.
func (env *Environment) CheckTurn() Mark {
	return env.state.TurnToMove()
}

// Step applies @action for whichever mark is to move and returns the resulting
// board, reward, outcome and winner.
//
// @prior must be the board recorded at the learner's previous own transition
// (or the empty board at episode start); reward shaping compares against it, so
// passing any other board corrupts the signal. This is a caller contract and is
// not checked. Moves into an occupied cell are ignored rather than rejected, so
// that the unchanged board yields the illegal-move penalty.
func (env *Environment) Step(action int, prior Board) (Board, float64, Outcome, Mark) {
	reward, outcome, winner := env.transition(action, prior)
	return env.state, reward, outcome, winner
}

func (env *Environment) transition(action int, prior Board) (float64, Outcome, Mark) {
	if action < 0 || action >= NUM_CELLS {
		panic(fmt.Sprintf("action %d out of range [0,%d)", action, NUM_CELLS))
	}

	// A game already over per @prior is reported without moving.
	if reward, outcome, winner := env.reward(prior); outcome == Done {
		return reward, outcome, winner
	}

	env.state = env.state.Place(action, env.state.TurnToMove())
	return env.reward(prior)
}

// reward compares @prior against the current board. Note that the winner is
// read from @prior, not the current board, so a completed line is rewarded on
// the step after the one that completed it.
func (env *Environment) reward(prior Board) (reward float64, outcome Outcome, winner Mark) {
	// Nothing changed: the move targeted an occupied cell.
	if prior == env.state && !prior.IsTerminal() {
		return PENALTY_REWARD, Continue, None
	}

	switch prior.Winner() {
	case O:
		return WIN_REWARD, Done, O
	case X:
		return LOSE_REWARD, Done, X
	}

	if env.state.IsTerminal() {
		return DRAW_REWARD, Done, None
	}
	return STEP_REWARD, Continue, None
}

func (env *Environment) String() string {
	return env.state.String()
}
