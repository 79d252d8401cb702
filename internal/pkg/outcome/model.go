package outcome

import (
	"encoding/json"
	"fmt"
)

// Result is signed so that swapping the arguments of Decide negates it.
type Result int

const (
	SecondWins Result = -1
	Tie        Result = 0
	FirstWins  Result = 1
)

func (r Result) String() string {
	switch r {
	case SecondWins:
		return "second_wins"
	case Tie:
		return "tie"
	case FirstWins:
		return "first_wins"
	default:
		return fmt.Sprintf("Result(%d)", int(r))
	}
}

func (r Result) MarshalJSON() ([]byte, error) {
	//nolint:wrapcheck
	return json.Marshal(r.String())
}

func (r *Result) UnmarshalJSON(data []byte) error {
	var s string

	err := json.Unmarshal(data, &s)
	if err != nil {
		return fmt.Errorf("failed to unmarshal result: %w", err)
	}

	switch s {
	case "second_wins":
		*r = SecondWins
	case "tie":
		*r = Tie
	case "first_wins":
		*r = FirstWins
	default:
		return fmt.Errorf("unknown result %q", s)
	}

	return nil
}
