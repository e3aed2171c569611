package reinforcement

import (
	"context"
	"fmt"

	. "tictactoe/models"

	channerics "github.com/niceyeti/channerics/channels"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

// ProgressFunc is called by Train at the end of each worker's reporting window.
// ProgressFunc is synchronous/blocking and should be defined to complete quickly;
// it runs on Train's goroutine, never concurrently with itself.
type ProgressFunc func(context.Context, *Snapshot)

// EpisodeReport is what a worker emits per episode. Values is only set at the
// end of a reporting window, since copying the table every episode is wasteful.
type EpisodeReport struct {
	Worker  int
	Episode int
	Results []Result
	Values  ValueTable
}

/*
Train runs @nworkers independent learners, each owning its own Agent and Environment,
so no value table is ever shared between goroutines. Tables are not merged: each worker
is a separate self-play run seeded from the config seed, which makes it easy to compare
the spread of learned policies across seeds. Coordination is simple:
  - workers play episodes and send a report per episode
  - reports are fanned in and tallied here, per worker, per reporting window
  - at window boundaries the worker attaches a copy of its value table, and the
    tally plus table are handed to @progressFn as a Snapshot

Train blocks until every worker has played cfg.Episodes episodes or @ctx is done,
and returns the tally over all episodes.
*/
func Train(
	ctx context.Context,
	cfg *TrainingConfig,
	nworkers int,
	progressFn ProgressFunc,
) (*Tally, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if nworkers < 1 {
		return nil, fmt.Errorf("train: need at least one worker, got %d", nworkers)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	workers := make([]<-chan *EpisodeReport, 0, nworkers)
	for i := 0; i < nworkers; i++ {
		reports := make(chan *EpisodeReport)
		workers = append(workers, reports)

		worker := i
		group.Go(func() error {
			defer close(reports)
			rng := rand.New(rand.NewSource(cfg.Seed + uint64(worker)))
			agent := NewAgent(cfg.Epsilon(), cfg.Alpha(), rng).WithDiscount(cfg.Gamma())
			return runWorker(groupCtx, worker, agent, NewEnvironment(), cfg, reports)
		})
	}

	log.Info().
		Int("workers", nworkers).
		Int("episodes", cfg.Episodes).
		Float64("epsilon", cfg.Epsilon()).
		Float64("alpha", cfg.Alpha()).
		Float64("gamma", cfg.Gamma()).
		Msg("training started")

	total := &Tally{}
	windows := make([]Tally, nworkers)
	for report := range channerics.Merge(groupCtx.Done(), workers...) {
		windows[report.Worker].Record(report.Results)

		if report.Values == nil {
			continue
		}

		snapshot := &Snapshot{
			Worker:  report.Worker,
			Episode: report.Episode,
			Window:  windows[report.Worker],
			Values:  report.Values,
		}
		total.Add(windows[report.Worker])
		windows[report.Worker] = Tally{}
		if progressFn != nil {
			progressFn(ctx, snapshot)
		}
	}

	// Windows cut short by cancellation never produced a snapshot.
	for _, window := range windows {
		total.Add(window)
	}

	// Merge exits on cancellation without draining; workers then exit via their own done-guard.
	if err := group.Wait(); err != nil {
		return total, err
	}

	log.Info().
		Int("episodes", total.Episodes).
		Float64("win_rate", total.WinRate()).
		Float64("draw_rate", total.DrawRate()).
		Msg("training finished")
	return total, nil
}

// runWorker plays episodes with a single agent and sends a report per episode.
// Cancellation is not an error; the worker simply stops.
func runWorker(
	ctx context.Context,
	worker int,
	agent *Agent,
	env *Environment,
	cfg *TrainingConfig,
	reports chan<- *EpisodeReport,
) error {
	for episode := 1; episode <= cfg.Episodes; episode++ {
		// done-guard
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		report := &EpisodeReport{
			Worker:  worker,
			Episode: episode,
			Results: agent.Play(env),
		}
		if episode%cfg.ReportInterval == 0 || episode == cfg.Episodes {
			report.Values = agent.ValueTable()
		}

		select {
		case reports <- report:
		case <-ctx.Done():
			return nil
		}
	}

	log.Debug().Int("worker", worker).Int("states", len(agent.q)).Msg("worker finished")
	return nil
}
