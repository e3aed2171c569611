package models

import (
	"bytes"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestActionValues(t *testing.T) {
	Convey("Argmax", t, func() {
		Convey("returns the index of the maximum", func() {
			So(ActionValues{0, 0, 0, 0, 0.5, 0, 0, 0, 0}.Argmax(), ShouldEqual, 4)
			So(ActionValues{-1, -1, -1, -1, -1, -1, -1, -1, -0.2}.Argmax(), ShouldEqual, 8)
		})

		Convey("breaks ties toward the lowest index", func() {
			So(ActionValues{}.Argmax(), ShouldEqual, 0)
			So(ActionValues{0, 1, 0, 1, 0, 0, 0, 0, 1}.Argmax(), ShouldEqual, 1)
		})
	})

	Convey("Clone copies tables", t, func() {
		board := mustParse("o........")
		vt := ValueTable{board: {1, 2, 3}}
		cp := vt.Clone()
		vals := cp[board]
		vals[0] = 100
		cp[board] = vals
		So(vt[board][0], ShouldEqual, 1.0)

		counts := VisitTable{board: {4}}
		ccp := counts.Clone()
		ccp[NewBoard()] = VisitCounts{}
		So(counts, ShouldHaveLength, 1)
		So(ccp[board][0], ShouldEqual, uint64(4))
	})

	Convey("Rev lists indices backward", t, func() {
		So(Rev(3), ShouldResemble, []int{2, 1, 0})
		So(Rev(0), ShouldBeEmpty)
	})
}

func TestTally(t *testing.T) {
	Convey("Tally classifies episodes by the winner of the last log entry", t, func() {
		tally := Tally{}
		tally.Record([]Result{{None, -0.4}, {O, WIN_REWARD}})
		tally.Record([]Result{{X, LOSE_REWARD}})
		tally.Record([]Result{{None, 0}, {None, DRAW_REWARD}})
		tally.Record(nil)

		So(tally, ShouldResemble, Tally{Episodes: 4, Wins: 1, Losses: 1, Draws: 2})
		So(tally.WinRate(), ShouldAlmostEqual, 0.25)
		So(tally.DrawRate(), ShouldAlmostEqual, 0.5)
		So(tally.LossRate(), ShouldAlmostEqual, 0.25)

		Convey("Tallies add", func() {
			tally.Add(Tally{Episodes: 1, Wins: 1})
			So(tally.Wins, ShouldEqual, 2)
			So(tally.Episodes, ShouldEqual, 5)
		})

		Convey("Empty tallies have zero rates", func() {
			So(Tally{}.WinRate(), ShouldEqual, 0.0)
		})
	})
}

func TestShow(t *testing.T) {
	Convey("Console display", t, func() {
		buf := &bytes.Buffer{}

		Convey("ShowValues stars the greedy action and masks occupied cells", func() {
			board := mustParse("x........")
			ShowValues(buf, board, ActionValues{0.9, 0, 0, 0, 0.5})
			So(buf.String(), ShouldContainSubstring, "x*")
			So(buf.String(), ShouldContainSubstring, " 0.500 ")
			So(buf.String(), ShouldNotContainSubstring, "0.900")
		})

		Convey("ShowBoard frames the grid", func() {
			ShowBoard(buf, mustParse("ox......."))
			So(buf.String(), ShouldStartWith, " o | x |  \n---+---+---\n")
		})

		Convey("ShowTally prints rates", func() {
			ShowTally(buf, Tally{Episodes: 2, Wins: 1, Draws: 1})
			So(buf.String(), ShouldContainSubstring, "win: 0.500")
		})
	})
}
