package tictactoe

import "math/rand"

// shouldMakeMistake rolls two numbers in 1..10; the computer slips when
// the second one plus offset beats the first. An offset of 0 slips 45% of
// the time, and offsets of -10 or lower never slip.
func shouldMakeMistake(rng *rand.Rand, offset int) bool {
	x := rng.Intn(10) + 1
	y := rng.Intn(10) + 1
	return y+offset > x
}

// bestMove takes a winning cell, else blocks the player's winning cell,
// else picks any empty cell. ok is false on a full board.
func bestMove(b Board, rng *rand.Rand) (Cell, bool) {
	for _, m := range []Mark{O, X} {
		for _, c := range b.EmptyCells() {
			trial := b
			trial[c.Row][c.Col] = m
			if trial.Wins(m) {
				return c, true
			}
		}
	}
	return randomMove(b, rng)
}

func randomMove(b Board, rng *rand.Rand) (Cell, bool) {
	empty := b.EmptyCells()
	if len(empty) == 0 {
		return Cell{}, false
	}
	return empty[rng.Intn(len(empty))], true
}

// chooseMove is the computer's full decision for one turn.
func chooseMove(b Board, rng *rand.Rand, offset int) (Cell, bool) {
	if shouldMakeMistake(rng, offset) {
		return randomMove(b, rng)
	}
	return bestMove(b, rng)
}
