package session

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/vreid/fairplay/internal/pkg/commitment"
	"github.com/vreid/fairplay/internal/pkg/keygen"
	"github.com/vreid/fairplay/internal/pkg/moveset"
	"github.com/vreid/fairplay/internal/pkg/outcome"
)

var (
	ErrInvalidHumanInput      = errors.New("invalid human input")
	ErrCommitmentNotPublished = errors.New("commitment has not been published")
	ErrRoundResolved          = errors.New("round already resolved")
	ErrRoundMismatch          = errors.New("disclosure belongs to another round")
	ErrCommitmentMismatch     = errors.New("disclosed move and key do not match the commitment")
	ErrUnknownMove            = errors.New("disclosed move is not part of the move set")
	ErrOutcomeMismatch        = errors.New("disclosed outcome does not follow from the moves")
)

// Round is a single commit/reveal exchange. It is not safe for concurrent use.
type Round struct {
	id    uuid.UUID
	moves moveset.MoveSet
	state State

	key        keygen.SecretKey
	committed  int
	commitment commitment.Commitment

	human  int
	result outcome.Result
}

// NewRound draws a fresh key and opponent move from src and commits to them.
// Any failure of src is returned as keygen.ErrSecureRandomUnavailable and must
// not be retried silently.
func NewRound(moves moveset.MoveSet, src keygen.Source, bits int) (*Round, error) {
	if moves.Len() == 0 {
		panic("session: empty move set")
	}

	key, err := keygen.Generate(src, bits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}

	committed, err := PickMove(src, moves)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate round ID: %w", err)
	}

	return &Round{
		id:    id,
		moves: moves,
		state: StateCommitted,

		key:        key,
		committed:  committed,
		commitment: commitment.Commit(moves.At(committed), key),
	}, nil
}

// PickMove selects an index of moves uniformly at random.
func PickMove(src keygen.Source, moves moveset.MoveSet) (int, error) {
	if moves.Len() == 0 {
		panic("session: empty move set")
	}

	if src == nil {
		return 0, fmt.Errorf("failed to pick move: %w", keygen.ErrSecureRandomUnavailable)
	}

	n, err := rand.Int(src, big.NewInt(int64(moves.Len())))
	if err != nil {
		return 0, fmt.Errorf("failed to pick move: %w: %w", keygen.ErrSecureRandomUnavailable, err)
	}

	return int(n.Int64()), nil
}

func (r *Round) ID() uuid.UUID {
	return r.id
}

func (r *Round) State() State {
	return r.state
}

func (r *Round) Moves() moveset.MoveSet {
	return r.moves
}

// Publish hands out the commitment. It may be called again while the round
// awaits the human move and always returns the same message.
func (r *Round) Publish() CommitMessage {
	if r.state == StateCommitted {
		r.state = StateAwaitingHumanMove
	}

	return CommitMessage{
		RoundID:   r.id,
		Tag:       r.commitment.Tag,
		Algorithm: r.commitment.Algorithm,
	}
}

// Resolve accepts the human move and discloses key and committed move. An
// invalid index leaves the round untouched so it can be retried against the
// same commitment.
func (r *Round) Resolve(human int) (Disclosure, error) {
	switch r.state {
	case StateCommitted:
		return Disclosure{}, ErrCommitmentNotPublished
	case StateResolved:
		return Disclosure{}, ErrRoundResolved
	case StateAwaitingHumanMove:
	}

	if !r.moves.Contains(human) {
		return Disclosure{}, fmt.Errorf("%w: move %d out of range 0..%d", ErrInvalidHumanInput, human, r.moves.Len()-1)
	}

	r.human = human
	r.result = outcome.Decide(human, r.committed, r.moves.Len())
	r.state = StateResolved

	return r.disclosure(), nil
}

func (r *Round) disclosure() Disclosure {
	return Disclosure{
		RoundID:       r.id,
		HumanMove:     r.moves.At(r.human),
		CommittedMove: r.moves.At(r.committed),
		Key:           r.key,
		Tag:           r.commitment.Tag,
		Outcome:       r.result,
	}
}

// VerifyDisclosure is the human side check that the opponent did not change
// its move after the commitment was published.
func VerifyDisclosure(moves moveset.MoveSet, published CommitMessage, d Disclosure) error {
	if published.RoundID != d.RoundID {
		return ErrRoundMismatch
	}

	if published.Tag != d.Tag {
		return fmt.Errorf("%w: published %s, disclosed %s", ErrCommitmentMismatch, published.Tag, d.Tag)
	}

	if !commitment.Verify(d.CommittedMove, d.Key, published.Tag) {
		return ErrCommitmentMismatch
	}

	committed, ok := moves.IndexOf(d.CommittedMove)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMove, d.CommittedMove)
	}

	human, ok := moves.IndexOf(d.HumanMove)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMove, d.HumanMove)
	}

	if outcome.Decide(human, committed, moves.Len()) != d.Outcome {
		return ErrOutcomeMismatch
	}

	return nil
}
