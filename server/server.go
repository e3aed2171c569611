package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"tictactoe/models"
	"tictactoe/server/board_views"
	"tictactoe/server/fastview"
	"tictactoe/server/root_view"

	"github.com/gorilla/mux"
	channerics "github.com/niceyeti/channerics/channels"
	"github.com/rs/zerolog/log"
)

const shutdownGracePeriod = 5 * time.Second

// Server serves a single page showing the learner's opening values and training
// progress, kept live over a websocket. The ele-update stream is a single
// channel, so concurrent pages split the updates between them; it is meant
// for one viewer at a time.
type Server struct {
	addr     string
	latest   atomic.Pointer[models.Snapshot]
	rootView *root_view.RootView
}

// NewServer initializes the views over @snapshots and returns a server.
// Snapshots are consumed until @ctx is done. The most recent one is always kept
// for rendering the index page, whether or not the views are keeping up; the
// views are handed the latest snapshot whenever they are ready for one.
func NewServer(
	ctx context.Context,
	addr string,
	snapshots <-chan *models.Snapshot,
) (*Server, error) {
	server := &Server{addr: addr}

	// Holds at most one pending notification; the snapshot itself is read from latest.
	fresh := make(chan struct{}, 1)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case snapshot, ok := <-snapshots:
				if !ok {
					return
				}
				server.latest.Store(snapshot)
				select {
				case fresh <- struct{}{}:
				default:
				}
			}
		}
	}()

	viewSnapshots := make(chan *models.Snapshot)
	go func() {
		defer close(viewSnapshots)
		for range channerics.OrDone(ctx.Done(), fresh) {
			select {
			case viewSnapshots <- server.latest.Load():
			case <-ctx.Done():
				return
			}
		}
	}()

	rootView, err := root_view.NewRootView(ctx, viewSnapshots)
	if err != nil {
		return nil, err
	}
	server.rootView = rootView
	return server, nil
}

// Router returns the server's routes.
func (server *Server) Router() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/", server.serveIndex).Methods(http.MethodGet)
	router.HandleFunc("/ws", server.serveWebsocket)
	return router
}

// Serve listens on the server's address until @ctx is done.
func (server *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:    server.addr,
		Handler: server.Router(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", server.addr).Msg("serving")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// serveWebsocket publishes view updates to the client until it disconnects.
func (server *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	pub, err := fastview.NewPublisher(server.rootView.Updates(), w, r)
	if err != nil {
		log.Error().Err(err).Msg("websocket")
		return
	}

	if err = pub.Sync(); err != nil {
		log.Warn().Err(err).Msg("websocket session ended")
	}
}

// Serve the index.html main page.
func (server *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	model := board_views.Convert(server.latest.Load())
	page := &bytes.Buffer{}
	if err := renderTemplate(page, server.rootView, model); err != nil {
		log.Error().Err(err).Msg("render index")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html")
	_, _ = page.WriteTo(w)
}

func renderTemplate(
	w io.Writer,
	vc fastview.ViewComponent,
	data interface{},
) (err error) {
	t := template.New("index.html")
	var tname string
	if tname, err = vc.Parse(t); err != nil {
		return
	}
	if _, err = t.Parse(`{{ template "` + tname + `" . }}`); err != nil {
		return
	}

	err = t.Execute(w, data)
	return
}
