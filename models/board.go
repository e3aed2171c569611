package models

import (
	"fmt"
	"strings"

	"golang.org/x/exp/rand"
)

// Mark is a player's symbol. The zero value None denotes an empty cell,
// and doubles as "no winner".
type Mark uint8

const (
	None Mark = iota
	O
	X
)

// NUM_CELLS is the board size, which is also the size of the action space.
const NUM_CELLS = 9

func (m Mark) String() string {
	switch m {
	case O:
		return "o"
	case X:
		return "x"
	}
	return " "
}

// Other returns the opposing mark; None has no opponent.
func (m Mark) Other() Mark {
	switch m {
	case O:
		return X
	case X:
		return O
	}
	return None
}

// RandomMark returns O or X with equal probability.
func RandomMark(rng *rand.Rand) Mark {
	if rng.Intn(2) == 0 {
		return O
	}
	return X
}

// Board is the full 9-cell configuration, indexed 0-8 in row-major order.
// Board is a comparable value type, so two boards with the same contents
// are the same map key regardless of how they were reached.
type Board [NUM_CELLS]Mark

// The eight winning lines, in scan order: rows, columns, diagonals.
var lines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// NewBoard returns the empty board.
func NewBoard() Board {
	return Board{}
}

// ParseBoard reads a board from nine cells of 'o', 'x', or blank/'.'/'-' for empty.
// Newlines are ignored, so the output of String() parses back to the same board.
func ParseBoard(s string) (board Board, err error) {
	s = strings.ReplaceAll(s, "\n", "")
	if len(s) != NUM_CELLS {
		err = fmt.Errorf("parse board %q: want %d cells, got %d", s, NUM_CELLS, len(s))
		return
	}

	for i, r := range strings.ToLower(s) {
		switch r {
		case 'o':
			board[i] = O
		case 'x':
			board[i] = X
		case ' ', '.', '-':
			board[i] = None
		default:
			err = fmt.Errorf("parse board %q: invalid cell %q at %d", s, r, i)
			return
		}
	}
	return
}

// IsTerminal reports whether every cell is occupied. A won board that still
// has empty cells is not terminal; check Winner() separately.
func (b Board) IsTerminal() bool {
	for _, m := range b {
		if m == None {
			return false
		}
	}
	return true
}

// Winner returns the mark owning the first complete line found, or None.
func (b Board) Winner() Mark {
	for _, line := range lines {
		if m := b[line[0]]; m != None && m == b[line[1]] && m == b[line[2]] {
			return m
		}
	}
	return None
}

// Marks returns the number of cells held by O and by X.
func (b Board) Marks() (o, x int) {
	for _, m := range b {
		switch m {
		case O:
			o++
		case X:
			x++
		}
	}
	return
}

// TurnToMove infers whose turn it is from the board contents alone:
// O moves whenever it does not hold more cells than X.
func (b Board) TurnToMove() Mark {
	if o, x := b.Marks(); o <= x {
		return O
	}
	return X
}

// IsEmpty reports whether cell i is unoccupied.
func (b Board) IsEmpty(i int) bool {
	return b[i] == None
}

// Place returns a copy of the board with cell i set to mark, unless cell i is
// already occupied, in which case the board is returned unchanged.
func (b Board) Place(i int, mark Mark) Board {
	if b[i] == None {
		b[i] = mark
	}
	return b
}

func (b Board) String() string {
	var sb strings.Builder
	for i, m := range b {
		sb.WriteString(m.String())
		if i == 2 || i == 5 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
