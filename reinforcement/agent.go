package reinforcement

import (
	"math"

	. "tictactoe/models"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

const (
	// DISCOUNT is the per-step discount applied to later learner rewards.
	DISCOUNT = 0.9
	// MAX_EPISODE_STEPS bounds the turns in one episode. It can only be reached by a
	// purely greedy agent (epsilon=0) whose best-valued action is an occupied cell,
	// which otherwise repeats forever since values only change after the episode.
	MAX_EPISODE_STEPS = 10000
)

// Agent is a tabular every-visit Monte-Carlo learner. It owns its value and
// visit-count tables exclusively; nothing else mutates them. An Agent is not
// safe for concurrent use: concurrent training uses one Agent per worker.
type Agent struct {
	epsilon float64 // exploration rate
	alpha   float64 // floor of the visit-adaptive learning rate
	gamma   float64
	rng     *rand.Rand

	q ValueTable
	n VisitTable

	// The learner's mark in the current episode.
	turn Mark
	// The board after the most recent step, passed to Environment.Step as the prior state.
	lastState Board
}

// NewAgent returns an agent with exploration rate @epsilon in [0,1] and minimum
// learning rate @alpha in (0,1]. All of the agent's randomness (exploration,
// mark assignment, the opponent's moves) is drawn from @rng.
func NewAgent(epsilon, alpha float64, rng *rand.Rand) *Agent {
	return &Agent{
		epsilon: epsilon,
		alpha:   alpha,
		gamma:   DISCOUNT,
		rng:     rng,
		q:       ValueTable{},
		n:       VisitTable{},
		turn:    O,
	}
}

// WithDiscount overrides the return discount.
func (agent *Agent) WithDiscount(gamma float64) *Agent {
	agent.gamma = gamma
	return agent
}

// Policy is epsilon-greedy over the value table for the environment's board.
// Boards with no learned values get a random action.
func (agent *Agent) Policy(env *Environment) int {
	if agent.rng.Float64() < agent.epsilon {
		return agent.rng.Intn(NUM_CELLS)
	}

	if vals, ok := agent.q[env.State()]; ok {
		return vals.Argmax()
	}
	return agent.rng.Intn(NUM_CELLS)
}

// Play runs one episode against a uniform-random opponent, then updates the
// value table from the learner's own transitions. It returns the learner's
// (winner, reward) log in chronological order.
func (agent *Agent) Play(env *Environment) []Result {
	env.Reset()
	agent.lastState = env.State()
	agent.turn = RandomMark(agent.rng)

	var results []Result
	episode := Episode{}

	for step := 0; ; step++ {
		if step == MAX_EPISODE_STEPS {
			log.Warn().
				Int("steps", step).
				Int("transitions", len(episode)).
				Msg("episode truncated, greedy policy is stalled on an occupied cell")
			break
		}

		if env.CheckTurn() == agent.turn.Other() {
			// The opponent's outcome is ignored; the learner observes it on its next step.
			state, _, _, _ := env.Step(agent.rng.Intn(NUM_CELLS), agent.lastState)
			agent.lastState = state
			continue
		}

		first := env.State()
		action := agent.Policy(env)
		state, reward, outcome, winner := env.Step(action, agent.lastState)
		agent.lastState = state

		episode = append(episode, Transition{
			State:  first,
			Action: action,
			Reward: reward,
		})
		results = append(results, Result{
			Winner: winner,
			Reward: reward,
		})

		if outcome == Done {
			break
		}
	}

	agent.update(episode)
	return results
}

// update applies the Monte-Carlo return of each transition to the value table.
// Every visit counts; repeated (state, action) pairs within one episode are
// each updated, with the visit count and learning rate advancing in between.
func (agent *Agent) update(episode Episode) {
	for i, G := range Returns(episode, agent.gamma) {
		t := episode[i]

		counts := agent.n[t.State]
		counts[t.Action]++
		agent.n[t.State] = counts

		rate := LearningRate(counts[t.Action], agent.alpha)
		vals := agent.q[t.State]
		vals[t.Action] += rate * (G - vals[t.Action])
		agent.q[t.State] = vals
	}
}

// Returns computes the discounted return from each transition to the end of
// the episode: G_i = sum_k gamma^k * r_{i+k}.
func Returns(episode Episode, gamma float64) []float64 {
	returns := make([]float64, len(episode))
	G := 0.0
	for _, t := range Rev(len(episode)) {
		G = episode[t].Reward + gamma*G
		returns[t] = G
	}
	return returns
}

// LearningRate is 1/visits, floored at @alpha. It is non-increasing in @visits.
func LearningRate(visits uint64, alpha float64) float64 {
	if visits == 0 {
		return 1
	}
	return math.Max(alpha, 1/float64(visits))
}

// ValueTable returns a copy of the learned values.
func (agent *Agent) ValueTable() ValueTable {
	return agent.q.Clone()
}

// VisitCounts returns a copy of the visit-count table.
func (agent *Agent) VisitCounts() VisitTable {
	return agent.n.Clone()
}
