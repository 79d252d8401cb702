package moveset

import (
	"errors"
	"fmt"
)

const MinMoves = 3

var (
	ErrInvalidMoveSet = errors.New("invalid move set")

	ErrNotEnoughMoves = errors.New("Not enough moves. Please enter at least 3 moves.")              //nolint:staticcheck
	ErrEvenMoveCount  = errors.New("Invalid number of moves. Please enter an odd number of moves.") //nolint:staticcheck
	ErrDuplicateMove  = errors.New("Duplicate moves. Please enter unique moves.")                   //nolint:staticcheck
	ErrEmptyMove      = errors.New("Empty moves. Please enter non-empty moves.")                    //nolint:staticcheck
)

// MoveSet is an immutable, validated, ordered list of distinct move labels.
type MoveSet struct {
	labels []string
	index  map[string]int
}

func New(labels []string) (MoveSet, error) {
	if len(labels) < MinMoves {
		return MoveSet{}, fmt.Errorf("%w: %w", ErrInvalidMoveSet, ErrNotEnoughMoves)
	}

	if len(labels)%2 == 0 {
		return MoveSet{}, fmt.Errorf("%w: %w", ErrInvalidMoveSet, ErrEvenMoveCount)
	}

	index := make(map[string]int, len(labels))

	for i, label := range labels {
		if len(label) == 0 {
			return MoveSet{}, fmt.Errorf("%w: %w", ErrInvalidMoveSet, ErrEmptyMove)
		}

		if _, ok := index[label]; ok {
			return MoveSet{}, fmt.Errorf("%w: %w", ErrInvalidMoveSet, ErrDuplicateMove)
		}

		index[label] = i
	}

	return MoveSet{
		labels: append([]string(nil), labels...),
		index:  index,
	}, nil
}

func (m MoveSet) Len() int {
	return len(m.labels)
}

func (m MoveSet) At(i int) string {
	return m.labels[i]
}

func (m MoveSet) IndexOf(label string) (int, bool) {
	i, ok := m.index[label]

	return i, ok
}

func (m MoveSet) Contains(i int) bool {
	return i >= 0 && i < len(m.labels)
}

// Labels returns a copy so callers cannot mutate the set.
func (m MoveSet) Labels() []string {
	return append([]string(nil), m.labels...)
}

// Reason extracts the user facing text of a move set validation error.
func Reason(err error) string {
	for _, target := range []error{ErrNotEnoughMoves, ErrEvenMoveCount, ErrDuplicateMove, ErrEmptyMove} {
		if errors.Is(err, target) {
			return target.Error()
		}
	}

	return err.Error()
}
