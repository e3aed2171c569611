package reinforcement

import (
	"testing"

	. "tictactoe/models"

	. "github.com/smartystreets/goconvey/convey"
)

func mustParse(s string) Board {
	board, err := ParseBoard(s)
	if err != nil {
		panic(err)
	}
	return board
}

func TestEnvironment(t *testing.T) {
	Convey("Given an environment", t, func() {
		env := NewEnvironment()

		Convey("It starts empty with O to move", func() {
			So(env.State() == NewBoard(), ShouldBeTrue)
			So(env.CheckTurn(), ShouldEqual, O)
		})

		Convey("Reset clears any board", func() {
			env.state = mustParse("oxoxoxxox")
			env.Reset()
			So(env.State() == NewBoard(), ShouldBeTrue)
			env.Reset()
			So(env.State() == NewBoard(), ShouldBeTrue)
			So(env.CheckTurn(), ShouldEqual, O)
		})

		Convey("State is returned by value", func() {
			state := env.State()
			state[0] = X
			So(env.State()[0], ShouldEqual, None)
		})

		Convey("Out of range actions are a contract violation", func() {
			So(func() { env.Step(9, NewBoard()) }, ShouldPanic)
			So(func() { env.Step(-1, NewBoard()) }, ShouldPanic)
		})
	})
}

func TestReward(t *testing.T) {
	Convey("Given the reward shaping rule", t, func() {
		// x x o
		// o o o
		// x o x
		oWin := mustParse("xxooooxox")
		// x x o
		// o x x
		// o x o
		xWin := mustParse("xxooxxoxo")
		// x o x
		// x o o
		// o x o
		draw := mustParse("xoxxoooxo")

		env := NewEnvironment()

		Convey("A finished game is scored from the prior board's winner", func() {
			env.state = oWin
			reward, outcome, winner := env.reward(oWin)
			So(reward, ShouldEqual, WIN_REWARD)
			So(outcome, ShouldEqual, Done)
			So(winner, ShouldEqual, O)

			env.state = xWin
			reward, outcome, winner = env.reward(xWin)
			So(reward, ShouldEqual, LOSE_REWARD)
			So(outcome, ShouldEqual, Done)
			So(winner, ShouldEqual, X)
		})

		Convey("A full board without a line is a draw", func() {
			env.state = draw
			reward, outcome, winner := env.reward(draw)
			So(reward, ShouldEqual, 0.0)
			So(outcome, ShouldEqual, Done)
			So(winner, ShouldEqual, None)
		})

		Convey("An unchanged, unfinished board is penalized", func() {
			for _, board := range []Board{
				NewBoard(),
				mustParse("....o...."),
				mustParse("xo.......").Place(8, O),
				mustParse("ooo.xx..."),
			} {
				env.state = board
				reward, outcome, winner := env.reward(board)
				So(reward, ShouldEqual, PENALTY_REWARD)
				So(outcome, ShouldEqual, Continue)
				So(winner, ShouldEqual, None)
			}
		})

		Convey("An ordinary move earns nothing and continues", func() {
			env.state = mustParse("....o....")
			reward, outcome, winner := env.reward(NewBoard())
			So(reward, ShouldEqual, 0.0)
			So(outcome, ShouldEqual, Continue)
			So(winner, ShouldEqual, None)
		})
	})
}

func TestStep(t *testing.T) {
	Convey("Given a board one move from completion", t, func() {
		// x x o
		// . o o
		// . o x
		board := mustParse("xxo.oo.ox")
		env := NewEnvironment()
		env.state = board

		Convey("A move that leaves the game open continues with no reward", func() {
			state, reward, outcome, winner := env.Step(6, board)
			So(state[6], ShouldEqual, X)
			So(reward, ShouldEqual, 0.0)
			So(outcome, ShouldEqual, Continue)
			So(winner, ShouldEqual, None)

			Convey("Filling the last cell ends the game, though the line is only credited next step", func() {
				prior := state
				state, reward, outcome, winner = env.Step(3, prior)
				So(state[3], ShouldEqual, O)
				So(state.Winner(), ShouldEqual, O)
				So(reward, ShouldEqual, 0.0)
				So(outcome, ShouldEqual, Done)
				So(winner, ShouldEqual, None)

				Convey("Stepping a won board reports the win without moving", func() {
					final, reward, outcome, winner := env.Step(0, state)
					So(final == state, ShouldBeTrue)
					So(reward, ShouldEqual, WIN_REWARD)
					So(outcome, ShouldEqual, Done)
					So(winner, ShouldEqual, O)
				})
			})
		})

		Convey("A move into an occupied cell is ignored and penalized", func() {
			state, reward, outcome, winner := env.Step(0, board)
			So(state == board, ShouldBeTrue)
			So(reward, ShouldEqual, PENALTY_REWARD)
			So(outcome, ShouldEqual, Continue)
			So(winner, ShouldEqual, None)
		})
	})

	Convey("Given a prior board with a completed line", t, func() {
		won := mustParse("ooo......")
		env := NewEnvironment()
		env.state = won

		Convey("The next step is scored as a win for that line", func() {
			_, reward, outcome, winner := env.Step(4, won)
			So(reward, ShouldEqual, WIN_REWARD)
			So(outcome, ShouldEqual, Done)
			So(winner, ShouldEqual, O)
		})
	})

	Convey("Given a full, drawn board", t, func() {
		draw := mustParse("xoxxoooxo")
		env := NewEnvironment()
		env.state = draw

		Convey("Any step reports a draw", func() {
			for action := 0; action < NUM_CELLS; action++ {
				state, reward, outcome, winner := env.Step(action, draw)
				So(state == draw, ShouldBeTrue)
				So(reward, ShouldEqual, 0.0)
				So(outcome, ShouldEqual, Done)
				So(winner, ShouldEqual, None)
			}
		})
	})
}
