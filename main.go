/*
Tictactoe trains a tabular Monte-Carlo learner to play tic-tac-toe against a
uniform-random opponent, by self-play. Progress is reported to the console at a
fixed episode interval, and optionally served as a live page of the learned
opening values over a websocket.
*/

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"

	"tictactoe/models"
	"tictactoe/reinforcement"
	"tictactoe/server"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	snapshots = make(chan *models.Snapshot)

	configPath = flag.String("config", "./config.yaml", "training config; empty for defaults")
	dbg        = flag.Bool("debug", false, "debug logging")
	nworkers   = flag.Int("nworkers", 1, "number of independent learners")
	serve      = flag.Bool("serve", false, "serve a live view of the opening values")
	host       = flag.String("host", "", "The host ip")
	port       = flag.String("port", "8080", "The host port")
)

func loadConfig() (*reinforcement.TrainingConfig, error) {
	if *configPath == "" {
		return reinforcement.DefaultConfig(), nil
	}
	return reinforcement.FromYaml(*configPath)
}

func runApp() (err error) {
	var cfg *reinforcement.TrainingConfig
	if cfg, err = loadConfig(); err != nil {
		return
	}

	appCtx, appCancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer appCancel()

	trainingCtx, trainingCancel, err := cfg.WithTrainingDeadline(appCtx)
	if err != nil {
		return
	}
	defer trainingCancel()

	if *serve {
		var srv *server.Server
		if srv, err = server.NewServer(appCtx, *host+":"+*port, snapshots); err != nil {
			return
		}
		go func() {
			if serveErr := srv.Serve(appCtx); serveErr != nil {
				log.Error().Err(serveErr).Msg("server stopped")
				appCancel()
			}
		}()
	}

	var total *models.Tally
	if total, err = reinforcement.Train(trainingCtx, cfg, *nworkers, report); err != nil {
		return
	}
	models.ShowTally(os.Stdout, *total)

	if *serve {
		// Keep serving the final values until interrupted.
		log.Info().Msg("training complete, serving until interrupted")
		<-appCtx.Done()
	}
	return
}

// report logs a reporting window and forwards the snapshot to the server, which
// always accepts it promptly and keeps the latest for the page.
func report(ctx context.Context, snapshot *models.Snapshot) {
	opening, _ := snapshot.Opening()
	log.Info().
		Int("worker", snapshot.Worker).
		Int("episode", snapshot.Episode).
		Float64("win_rate", snapshot.Window.WinRate()).
		Float64("draw_rate", snapshot.Window.DrawRate()).
		Float64("loss_rate", snapshot.Window.LossRate()).
		Int("states", len(snapshot.Values)).
		Msg("progress")
	models.ShowValues(os.Stdout, models.NewBoard(), opening)

	if *serve {
		select {
		case snapshots <- snapshot:
		case <-ctx.Done():
		}
	}
}

func main() {
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *dbg {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if *nworkers > runtime.NumCPU() {
		log.Warn().Int("nworkers", *nworkers).Int("cpus", runtime.NumCPU()).Msg("more workers than cpus")
	}

	if err := runApp(); err != nil {
		log.Fatal().Err(err).Msg("tictactoe")
	}
}
