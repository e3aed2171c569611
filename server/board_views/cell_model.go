// board_views contains views derived from the Model view-model.
package board_views

import (
	"fmt"
	"math"

	"tictactoe/models"
)

// Cell is one square of the opening board, carrying the learned value of
// playing there. As a rule of thumb, Cell fields should be immediately usable
// as view parameters.
type Cell struct {
	Index    int
	Row, Col int
	Value    float64
	Best     bool
	Fill     string
}

// Model is the view-model shared by all board views: the opening position's
// cells plus the training progress that produced them.
type Model struct {
	Cells    [models.NUM_CELLS]Cell
	Worker   int
	Episode  int
	States   int
	WinRate  float64
	DrawRate float64
	LossRate float64
}

// Convert transforms a training snapshot into the view-model. A nil snapshot
// yields the untrained model, whose values are all zero.
func Convert(snapshot *models.Snapshot) (model Model) {
	var vals models.ActionValues
	if snapshot != nil {
		vals, _ = snapshot.Opening()
		model.Worker = snapshot.Worker
		model.Episode = snapshot.Episode
		model.States = len(snapshot.Values)
		model.WinRate = snapshot.Window.WinRate()
		model.DrawRate = snapshot.Window.DrawRate()
		model.LossRate = snapshot.Window.LossRate()
	}

	minVal, maxVal := math.MaxFloat64, -math.MaxFloat64
	for _, val := range vals {
		minVal = math.Min(minVal, val)
		maxVal = math.Max(maxVal, val)
	}

	best := vals.Argmax()
	for i, val := range vals {
		model.Cells[i] = Cell{
			Index: i,
			Row:   i / 3,
			Col:   i % 3,
			Value: val,
			Best:  i == best,
			Fill:  getRGBFill(val, minVal, maxVal),
		}
	}
	return
}

// Returns an RGB value defined by where val lies along the number line between minVal and maxVal:
// red for the lowest values, blue for the highest, purple when all values are equal.
func getRGBFill(val, minVal, maxVal float64) string {
	span := maxVal - minVal
	if span == 0 {
		return "rgb(50%,0%,50%)"
	}
	bluePct := int(math.Round(100.0 * (val - minVal) / span))
	return fmt.Sprintf("rgb(%d%%,0%%,%d%%)", 100-bluePct, bluePct)
}
