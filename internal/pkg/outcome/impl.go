package outcome

import "fmt"

// Decide compares two indices of an odd sized cyclic move set. Every move
// beats the size/2 moves that precede it (wrapping around) and loses to the
// size/2 moves that follow it.
func Decide(a, b, size int) Result {
	if size < 3 || size%2 == 0 {
		panic(fmt.Sprintf("outcome: invalid move set size %d", size))
	}

	if a < 0 || a >= size || b < 0 || b >= size {
		panic(fmt.Sprintf("outcome: index out of range (%d, %d) for size %d", a, b, size))
	}

	half := size / 2
	d := ((a - b + half + size) % size) - half

	switch {
	case d > 0:
		return FirstWins
	case d < 0:
		return SecondWins
	default:
		return Tie
	}
}
