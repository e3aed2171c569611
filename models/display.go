package models

import (
	"fmt"
	"io"
)

// ShowBoard prints the board as a framed 3x3 grid.
func ShowBoard(w io.Writer, board Board) {
	for row := 0; row < 3; row++ {
		fmt.Fprintf(w, " %s | %s | %s\n", board[3*row], board[3*row+1], board[3*row+2])
		if row < 2 {
			fmt.Fprintln(w, "---+---+---")
		}
	}
}

// ShowValues prints the action values for a board in grid layout. Occupied
// cells show their mark instead of a value, since moves there are no-ops,
// and the greedy action is starred.
func ShowValues(w io.Writer, board Board, vals ActionValues) {
	best := vals.Argmax()
	for row := 0; row < 3; row++ {
		fmt.Fprint(w, " ")
		for col := 0; col < 3; col++ {
			i := 3*row + col
			star := " "
			if i == best {
				star = "*"
			}
			if board.IsEmpty(i) {
				fmt.Fprintf(w, "%6.3f%s ", vals[i], star)
			} else {
				fmt.Fprintf(w, "%6s%s ", board[i], star)
			}
		}
		fmt.Fprintln(w)
	}
}

// ShowTally prints win/draw/loss rates for a window of episodes.
func ShowTally(w io.Writer, tally Tally) {
	fmt.Fprintf(w, "Episodes: %d  win: %.3f  draw: %.3f  loss: %.3f\n",
		tally.Episodes, tally.WinRate(), tally.DrawRate(), tally.LossRate())
}
