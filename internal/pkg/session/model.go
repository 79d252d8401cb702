package session

import (
	"github.com/google/uuid"
	"github.com/vreid/fairplay/internal/pkg/keygen"
	"github.com/vreid/fairplay/internal/pkg/outcome"
)

type State int

const (
	StateCommitted State = iota
	StateAwaitingHumanMove
	StateResolved
)

func (s State) String() string {
	switch s {
	case StateCommitted:
		return "committed"
	case StateAwaitingHumanMove:
		return "awaiting_human_move"
	case StateResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// CommitMessage is everything the human sees before choosing.
type CommitMessage struct {
	RoundID   uuid.UUID `json:"round_id"`
	Tag       string    `json:"tag"`
	Algorithm string    `json:"algorithm"`
}

// Disclosure is published once the human's move has been received.
type Disclosure struct {
	RoundID       uuid.UUID        `json:"round_id"`
	HumanMove     string           `json:"human_move"`
	CommittedMove string           `json:"committed_move"`
	Key           keygen.SecretKey `json:"key"`
	Tag           string           `json:"tag"`
	Outcome       outcome.Result   `json:"outcome"`
}
