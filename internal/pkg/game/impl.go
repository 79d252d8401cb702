package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/samber/do/v2"
	"github.com/vreid/fairplay/internal/pkg/keygen"
	"github.com/vreid/fairplay/internal/pkg/moveset"
	"github.com/vreid/fairplay/internal/pkg/outcome"
	"github.com/vreid/fairplay/internal/pkg/rules"
	"github.com/vreid/fairplay/internal/pkg/session"
)

var (
	ErrInvalidInput = fmt.Errorf("%w: not a number", session.ErrInvalidHumanInput)
	ErrInvalidMove  = fmt.Errorf("%w: no such move", session.ErrInvalidHumanInput)
)

type GameService struct {
	Moves   moveset.MoveSet
	Source  keygen.Source
	KeyBits int

	Logger *slog.Logger
}

func NewGameService(i do.Injector) (*GameService, error) {
	moves := do.MustInvokeNamed[moveset.MoveSet](i, "moves")
	source := do.MustInvokeNamed[keygen.Source](i, "random-source")
	keyBits := do.MustInvokeNamed[int](i, "key-bits")
	logger := do.MustInvoke[*slog.Logger](i)

	if keyBits <= 0 || keyBits%8 != 0 {
		return nil, fmt.Errorf("%w: got %d", keygen.ErrInvalidKeyLength, keyBits)
	}

	return &GameService{
		Moves:   moves,
		Source:  source,
		KeyBits: keyBits,

		Logger: logger,
	}, nil
}

func ParseSelection(input string, size int) (Selection, error) {
	input = strings.TrimSpace(input)

	if input == HelpInput {
		return Selection{Kind: SelectionHelp}, nil
	}

	n, err := strconv.Atoi(input)
	if errors.Is(err, strconv.ErrRange) {
		return Selection{}, fmt.Errorf("%w: %s", ErrInvalidMove, input)
	}

	if err != nil {
		return Selection{}, fmt.Errorf("%w: %q", ErrInvalidInput, input)
	}

	if n == 0 {
		return Selection{Kind: SelectionExit}, nil
	}

	if n < 1 || n > size {
		return Selection{}, fmt.Errorf("%w: %d", ErrInvalidMove, n)
	}

	return Selection{Kind: SelectionMove, Index: n - 1}, nil
}

// Play runs rounds until the player exits, input ends or ctx is done. A
// failing random source aborts the game.
func (s *GameService) Play(ctx context.Context, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := readLines(ctx, in)

	for {
		err := ctx.Err()
		if err != nil {
			return fmt.Errorf("game interrupted: %w", err)
		}

		round, err := session.NewRound(s.Moves, s.Source, s.KeyBits)
		if err != nil {
			return fmt.Errorf("failed to start round: %w", err)
		}

		exit, err := s.playRound(ctx, lines, out, round)
		if err != nil {
			return err
		}

		if exit {
			return nil
		}
	}
}

func (s *GameService) playRound(
	ctx context.Context,
	lines <-chan inputLine,
	out io.Writer,
	round *session.Round,
) (bool, error) {
	p := &printer{w: out}

	published := round.Publish()
	s.Logger.Debug("round committed", "round_id", published.RoundID, "tag", published.Tag)

	for {
		s.printMenu(p, published)
		p.printf("Enter your move: ")

		if p.err != nil {
			return false, p.err
		}

		var (
			line inputLine
			ok   bool
		)

		select {
		case <-ctx.Done():
			p.printf("\n")
			s.Logger.Debug("round abandoned", "round_id", published.RoundID)

			return false, fmt.Errorf("game interrupted: %w", ctx.Err())
		case line, ok = <-lines:
		}

		if !ok {
			p.printf("\n")
			s.Logger.Debug("input closed", "round_id", published.RoundID)

			return true, p.err
		}

		if line.err != nil {
			return false, line.err
		}

		var (
			selection Selection
			err       error
		)

		if line.tooLong {
			err = fmt.Errorf("%w: line longer than %d bytes", ErrInvalidInput, MaxLineLength)
		} else {
			selection, err = ParseSelection(line.text, s.Moves.Len())
		}

		switch {
		case errors.Is(err, ErrInvalidInput):
			s.Logger.Debug("invalid input", "round_id", published.RoundID, "error", err)
			p.printf("%s\n\n", MessageInvalidInput)

			continue
		case errors.Is(err, ErrInvalidMove):
			s.Logger.Debug("invalid move", "round_id", published.RoundID, "error", err)
			p.printf("%s\n", MessageInvalidMove)

			continue
		case err != nil:
			return false, err
		}

		switch selection.Kind {
		case SelectionExit:
			s.Logger.Debug("player left", "round_id", published.RoundID)

			return true, p.err
		case SelectionHelp:
			if p.err == nil {
				p.err = rules.Render(out, rules.Build(s.Moves))
			}

			continue
		case SelectionMove:
		}

		disclosure, err := round.Resolve(selection.Index)
		if err != nil {
			return false, fmt.Errorf("failed to resolve round: %w", err)
		}

		s.Logger.Debug("round resolved", "round_id", disclosure.RoundID, "outcome", disclosure.Outcome)

		p.printf("Your move: %s\n", disclosure.HumanMove)
		p.printf("Computer's move: %s\n", disclosure.CommittedMove)
		p.printf("%s\n", ResultMessage(disclosure.Outcome))
		p.printf("HMAC key: %s\n\n", disclosure.Key)

		return false, p.err
	}
}

func (s *GameService) printMenu(p *printer, published session.CommitMessage) {
	p.printf("HMAC: %s\n", published.Tag)
	p.printf("Available moves:\n")

	for i, move := range s.Moves.Labels() {
		p.printf("%d - %s\n", i+1, move)
	}

	p.printf("%s - Exit\n", ExitInput)
	p.printf("%s - Help\n", HelpInput)
}

// ResultMessage phrases an outcome from the human's side, the human being the
// first argument of outcome.Decide.
func ResultMessage(r outcome.Result) string {
	switch r {
	case outcome.FirstWins:
		return MessageWin
	case outcome.SecondWins:
		return MessageLose
	default:
		return MessageTie
	}
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}

	_, err := fmt.Fprintf(p.w, format, args...)
	if err != nil {
		p.err = fmt.Errorf("failed to write output: %w", err)
	}
}
