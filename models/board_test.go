package models

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"golang.org/x/exp/rand"
)

func mustParse(s string) Board {
	board, err := ParseBoard(s)
	if err != nil {
		panic(err)
	}
	return board
}

func TestBoard(t *testing.T) {
	Convey("Given board states", t, func() {
		empty := NewBoard()
		// . o .
		// . x .
		// . o .
		gs1 := mustParse(".o..x..o.")
		gs2 := mustParse(".o..x..o.")
		// . x .
		// . x .
		// . o .
		gs3 := mustParse(".x..x..o.")
		full := mustParse("oxxooxxoo")

		Convey("Equality is structural, and boards key maps by content", func() {
			So(gs1, ShouldNotResemble, empty)
			So(gs1 == gs2, ShouldBeTrue)
			So(gs1 == gs3, ShouldBeFalse)

			table := map[Board]int{gs1: 1}
			table[gs2]++
			So(table, ShouldHaveLength, 1)
			So(table[gs1], ShouldEqual, 2)
		})

		Convey("IsTerminal is true only when every cell is occupied", func() {
			So(empty.IsTerminal(), ShouldBeFalse)
			So(gs1.IsTerminal(), ShouldBeFalse)
			So(full.IsTerminal(), ShouldBeTrue)
		})

		Convey("TurnToMove is inferred from cell counts", func() {
			So(empty.TurnToMove(), ShouldEqual, O)
			So(gs1.TurnToMove(), ShouldEqual, X)
			So(gs3.TurnToMove(), ShouldEqual, O)
			So(full.TurnToMove(), ShouldEqual, X)
		})

		Convey("A single move from an equal count flips the turn", func() {
			for i := 0; i < NUM_CELLS; i++ {
				next := empty.Place(i, empty.TurnToMove())
				So(next.TurnToMove(), ShouldEqual, X)
				So(next.Place((i+1)%NUM_CELLS, X).TurnToMove(), ShouldEqual, O)
			}
		})

		Convey("Place never overwrites an occupied cell", func() {
			next := gs1.Place(1, X)
			So(next == gs1, ShouldBeTrue)
			next = gs1.Place(0, X)
			So(next[0], ShouldEqual, X)
			So(gs1[0], ShouldEqual, None)
		})
	})
}

func TestWinner(t *testing.T) {
	Convey("Winner scans rows, columns and diagonals", t, func() {
		So(NewBoard().Winner(), ShouldEqual, None)
		So(mustParse("oxxooxxoo").Winner(), ShouldEqual, O)

		Convey("Rows", func() {
			So(mustParse("ooo......").Winner(), ShouldEqual, O)
			So(mustParse("xxoooox.x").Winner(), ShouldEqual, O)
			So(mustParse("......xxx").Winner(), ShouldEqual, X)
		})

		Convey("Columns", func() {
			So(mustParse("xxoox.ox.").Winner(), ShouldEqual, X)
			So(mustParse("..o..o..o").Winner(), ShouldEqual, O)
		})

		Convey("Diagonals", func() {
			So(mustParse("oxxxoo.oo").Winner(), ShouldEqual, O)
			So(mustParse("..x.x.x..").Winner(), ShouldEqual, X)
		})

		Convey("A full board with no line is a draw", func() {
			draw := mustParse("xoxxoooxo")
			So(draw.IsTerminal(), ShouldBeTrue)
			So(draw.Winner(), ShouldEqual, None)
		})

		Convey("A winning board need not be terminal", func() {
			won := mustParse("ooo.xx...")
			So(won.Winner(), ShouldEqual, O)
			So(won.IsTerminal(), ShouldBeFalse)
		})
	})
}

func TestDisplay(t *testing.T) {
	Convey("String renders a 3x3 grid with blanks", t, func() {
		board := mustParse("o.x.o...x")
		So(board.String(), ShouldEqual, "o x\n o \n  x")

		Convey("and parses back to the same board", func() {
			parsed, err := ParseBoard(board.String())
			So(err, ShouldBeNil)
			So(parsed == board, ShouldBeTrue)
		})
	})

	Convey("ParseBoard rejects malformed input", t, func() {
		_, err := ParseBoard("ooo")
		So(err, ShouldNotBeNil)
		_, err = ParseBoard("ooo.z....")
		So(err, ShouldNotBeNil)
	})
}

func TestMarks(t *testing.T) {
	Convey("Marks", t, func() {
		So(O.Other(), ShouldEqual, X)
		So(X.Other(), ShouldEqual, O)
		So(None.Other(), ShouldEqual, None)

		Convey("RandomMark draws both marks", func() {
			rng := rand.New(rand.NewSource(3))
			counts := map[Mark]int{}
			for i := 0; i < 1000; i++ {
				counts[RandomMark(rng)]++
			}
			So(counts, ShouldHaveLength, 2)
			So(counts[O], ShouldBeBetween, 400, 600)
		})
	})
}
