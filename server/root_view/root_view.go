package root_view

import (
	"context"
	"fmt"
	"html/template"
	"time"

	"tictactoe/models"
	"tictactoe/server/board_views"
	"tictactoe/server/fastview"

	channerics "github.com/niceyeti/channerics/channels"
)

// Batches of ele-updates are flushed at most this often.
const batchRate = time.Millisecond * 20

// RootView is the main page's index.html, which is the container for all the
// view components and the wiring for their channels.
type RootView struct {
	views   []fastview.ViewComponent
	updates <-chan []fastview.EleUpdate
}

// NewRootView builds the page's views over the snapshot stream.
func NewRootView(
	ctx context.Context,
	snapshots <-chan *models.Snapshot,
) (*RootView, error) {
	views, err := fastview.NewViewBuilder[*models.Snapshot, board_views.Model]().
		WithContext(ctx).
		WithModel(snapshots, board_views.Convert).
		WithView(func(
			done <-chan struct{},
			vms <-chan board_views.Model) fastview.ViewComponent {
			return board_views.NewValuesGrid(done, vms)
		}).
		WithView(func(
			done <-chan struct{},
			vms <-chan board_views.Model) fastview.ViewComponent {
			return board_views.NewSummary(done, vms)
		}).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build views: %w", err)
	}

	return &RootView{
		views:   views,
		updates: fanIn(ctx.Done(), views),
	}, nil
}

// Updates returns the main ele-update channel for all the views.
func (rv *RootView) Updates() <-chan []fastview.EleUpdate {
	return rv.updates
}

// Parse builds the main page's template, with websocket bootstrap code, and returns its name.
// It also sets up the func-map that the child components depend on.
func (rv *RootView) Parse(
	parent *template.Template,
) (name string, err error) {
	rt := parent.Funcs(
		template.FuncMap{
			"add":  func(i, j int) int { return i + j },
			"sub":  func(i, j int) int { return i - j },
			"mult": func(i, j int) int { return i * j },
			"div":  func(i, j int) int { return i / j },
		})

	var bodySpec string
	for _, vc := range rv.views {
		tname, parseErr := vc.Parse(rt)
		if parseErr != nil {
			err = fmt.Errorf("parse view: %w", parseErr)
			return
		}
		bodySpec += `{{ template "` + tname + `" . }}`
	}

	// The main template bootstraps the rest: sets up client websocket and updates, aggregates views.
	name = "mainpage"
	indexTemplate := `
	{{ define "` + name + `" }}
	<!DOCTYPE html>
	<html>
		<head>
			<link rel="icon" href="data:,">
			<title>tictactoe</title>
			<script>
				const ws = new WebSocket("ws://" + window.location.host + "/ws");
				ws.onerror = function (event) {
					console.log('WebSocket error: ', event);
				};

				// When the server pushes view updates, find these eles and update them.
				ws.onmessage = function (event) {
					const items = JSON.parse(event.data)
					for (const update of items) {
						const ele = document.getElementById(update.EleId)
						if (!ele) {
							continue
						}
						for (const op of update.Ops) {
							if (op.Key === "textContent") {
								ele.textContent = op.Value;
							} else {
								ele.setAttribute(op.Key, op.Value)
							}
						}
					}
				}
			</script>
		</head>
		<body style="display:flex;">
		` + bodySpec + `
		</body></html>
	{{ end }}
	`

	_, err = rt.Parse(indexTemplate)
	return
}

// fanIn aggregates the views' ele-update channels into a single, batched channel.
func fanIn(
	done <-chan struct{},
	views []fastview.ViewComponent,
) <-chan []fastview.EleUpdate {
	inputs := make([]<-chan []fastview.EleUpdate, len(views))
	for i, view := range views {
		inputs[i] = view.Updates()
	}
	return batchify(
		done,
		channerics.Merge(done, inputs...),
		batchRate)
}

// batchify batches within the passed time frame before sending, over-writing previously
// received values for the same ele-id, so only the latest value per element is sent.
// Pending updates are flushed once per tick. Input is read even while a flush waits
// for a reader, so a page with no client never stalls the views upstream.
func batchify(
	done <-chan struct{},
	source <-chan []fastview.EleUpdate,
	rate time.Duration,
) <-chan []fastview.EleUpdate {
	output := make(chan []fastview.EleUpdate)

	go func() {
		defer close(output)

		data := map[string]fastview.EleUpdate{}
		ticker := channerics.NewTicker(done, rate)
		input := channerics.OrDone(done, source)
		due := false
		for {
			// out stays nil, disabling its case, until a tick has passed with data pending.
			var out chan<- []fastview.EleUpdate
			var batch []fastview.EleUpdate
			if due && len(data) > 0 {
				out = output
				batch = slicedVals(data)
			}

			select {
			case <-done:
				return
			case updates, ok := <-input:
				if !ok {
					return
				}
				for _, update := range updates {
					data[update.EleId] = update
				}
			case <-ticker:
				due = true
			case out <- batch:
				data = map[string]fastview.EleUpdate{}
				due = false
			}
		}
	}()

	return output
}

// returns the values of a map as a slice
func slicedVals[T1 comparable, T2 any](mp map[T1]T2) (sliced []T2) {
	for _, v := range mp {
		sliced = append(sliced, v)
	}
	return
}
