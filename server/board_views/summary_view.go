package board_views

import (
	"fmt"
	"html/template"

	"tictactoe/server/fastview"

	channerics "github.com/niceyeti/channerics/channels"
)

// Summary is a text panel of training progress for the most recent snapshot.
type Summary struct {
	id      string
	updates <-chan []fastview.EleUpdate
}

func NewSummary(
	done <-chan struct{},
	vms <-chan Model,
) (s *Summary) {
	s = &Summary{id: "summary"}
	s.updates = channerics.Convert(done, vms, s.onUpdate)
	return
}

func (s *Summary) Updates() <-chan []fastview.EleUpdate {
	return s.updates
}

func summaryFields(model Model) map[string]string {
	return map[string]string{
		"worker":    fmt.Sprintf("%d", model.Worker),
		"episode":   fmt.Sprintf("%d", model.Episode),
		"states":    fmt.Sprintf("%d", model.States),
		"win-rate":  fmt.Sprintf("%.3f", model.WinRate),
		"draw-rate": fmt.Sprintf("%.3f", model.DrawRate),
		"loss-rate": fmt.Sprintf("%.3f", model.LossRate),
	}
}

func (s *Summary) onUpdate(model Model) (ops []fastview.EleUpdate) {
	for field, val := range summaryFields(model) {
		ops = append(ops, fastview.EleUpdate{
			EleId: s.id + "-" + field,
			Ops:   []fastview.Op{{Key: "textContent", Value: val}},
		})
	}
	return
}

func (s *Summary) Parse(
	t *template.Template,
) (name string, err error) {
	name = s.id
	row := func(label, field string) string {
		return `<tr><td>` + label + `</td><td id="` + s.id + `-` + field + `">{{ index $fields "` + field + `" }}</td></tr>`
	}
	_, err = t.Funcs(template.FuncMap{"summaryFields": summaryFields}).Parse(
		`{{ define "` + name + `" }}
		{{ $fields := summaryFields . }}
		<table id="` + s.id + `" style="padding:20px; font-family:monospace;">
			` + row("worker", "worker") + `
			` + row("episode", "episode") + `
			` + row("learned states", "states") + `
			` + row("win rate (o)", "win-rate") + `
			` + row("draw rate", "draw-rate") + `
			` + row("loss rate (x)", "loss-rate") + `
		</table>
		{{ end }}`)
	return
}
