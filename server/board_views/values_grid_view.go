package board_views

import (
	"fmt"
	"html/template"

	"tictactoe/server/fastview"

	channerics "github.com/niceyeti/channerics/channels"
)

// ValuesGrid shows the opening board as a 3x3 grid of learned action values,
// shaded by value, with the greedy action outlined.
type ValuesGrid struct {
	id      string
	updates <-chan []fastview.EleUpdate
}

func NewValuesGrid(
	done <-chan struct{},
	vms <-chan Model,
) (vg *ValuesGrid) {
	// Template names may not be hyphenated.
	vg = &ValuesGrid{id: "valuesgrid"}
	vg.updates = channerics.Convert(done, vms, vg.onUpdate)
	return
}

func (vg *ValuesGrid) Updates() <-chan []fastview.EleUpdate {
	return vg.updates
}

const cellDim = 100 // Cell height/width size in pixels

func strokeWidth(cell Cell) string {
	if cell.Best {
		return "6"
	}
	return "1"
}

// Returns the set of view updates needed for the view to reflect the current values.
func (vg *ValuesGrid) onUpdate(model Model) (ops []fastview.EleUpdate) {
	for _, cell := range model.Cells {
		ops = append(ops,
			fastview.EleUpdate{
				EleId: fmt.Sprintf("%d-value-text", cell.Index),
				Ops: []fastview.Op{
					{Key: "textContent", Value: fmt.Sprintf("%.3f", cell.Value)},
				},
			},
			fastview.EleUpdate{
				EleId: fmt.Sprintf("%d-value-rect", cell.Index),
				Ops: []fastview.Op{
					{Key: "fill", Value: cell.Fill},
					{Key: "stroke-width", Value: strokeWidth(cell)},
				},
			})
	}
	return
}

// Parse adds the grid's svg template to @t.
func (vg *ValuesGrid) Parse(
	t *template.Template,
) (name string, err error) {
	name = vg.id
	_, err = t.Funcs(template.FuncMap{"strokeWidth": strokeWidth}).Parse(
		`{{ define "` + name + `" }}
		<div style="padding:20px;">
			{{ $cell_dim := ` + fmt.Sprintf("%d", cellDim) + ` }}
			{{ $half := div $cell_dim 2 }}
			<svg id="` + vg.id + `" xmlns='http://www.w3.org/2000/svg'
				width="{{ add (mult $cell_dim 3) 1 }}px"
				height="{{ add (mult $cell_dim 3) 1 }}px"
				style="shape-rendering: crispEdges;">
				{{ range $cell := .Cells }}
				<g>
					<rect id="{{ $cell.Index }}-value-rect"
						x="{{ mult $cell.Col $cell_dim }}"
						y="{{ mult $cell.Row $cell_dim }}"
						width="{{ $cell_dim }}"
						height="{{ $cell_dim }}"
						fill="{{ $cell.Fill }}" fill-opacity="0.6"
						stroke="black"
						stroke-width="{{ strokeWidth $cell }}"/>
					<text id="{{ $cell.Index }}-value-text"
						x="{{ add (mult $cell.Col $cell_dim) $half }}"
						y="{{ add (mult $cell.Row $cell_dim) $half }}"
						dominant-baseline="central" text-anchor="middle"
						>{{ printf "%.3f" $cell.Value }}</text>
				</g>
				{{ end }}
			</svg>
		</div>
		{{ end }}`)
	return
}
