package game_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vreid/fairplay/internal/pkg/commitment"
	"github.com/vreid/fairplay/internal/pkg/game"
	"github.com/vreid/fairplay/internal/pkg/keygen"
	"github.com/vreid/fairplay/internal/pkg/moveset"
	"github.com/vreid/fairplay/internal/pkg/outcome"
	"github.com/vreid/fairplay/internal/pkg/session"
)

var (
	tagLine      = regexp.MustCompile(`(?m)^HMAC: ([0-9a-f]{64})$`)
	computerLine = regexp.MustCompile(`(?m)^Computer's move: (\S+)$`)
	keyLine      = regexp.MustCompile(`(?m)^HMAC key: ([0-9a-f]{64})$`)
)

type failingSource struct{}

func (failingSource) Read(_ []byte) (int, error) {
	return 0, errors.New("no entropy")
}

func newGameService(t *testing.T, source keygen.Source) *game.GameService {
	t.Helper()

	moves, err := moveset.New([]string{"rock", "paper", "scissors"})
	require.NoError(t, err)

	return &game.GameService{
		Moves:   moves,
		Source:  source,
		KeyBits: keygen.DefaultBits,

		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestParseSelection(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input string
		want  game.Selection
	}{
		{"?", game.Selection{Kind: game.SelectionHelp}},
		{" ? ", game.Selection{Kind: game.SelectionHelp}},
		{"0", game.Selection{Kind: game.SelectionExit}},
		{"1", game.Selection{Kind: game.SelectionMove, Index: 0}},
		{"3\n", game.Selection{Kind: game.SelectionMove, Index: 2}},
	}

	for _, tc := range cases {
		got, err := game.ParseSelection(tc.input, 3)
		require.NoError(t, err, tc.input)
		assert.Equal(t, tc.want, got, tc.input)
	}

	for _, input := range []string{"", "rock", "1.5", "??"} {
		_, err := game.ParseSelection(input, 3)
		require.ErrorIs(t, err, game.ErrInvalidInput, input)
		assert.ErrorIs(t, err, session.ErrInvalidHumanInput)
	}

	for _, input := range []string{"4", "-1", "100", "99999999999999999999", "-99999999999999999999"} {
		_, err := game.ParseSelection(input, 3)
		require.ErrorIs(t, err, game.ErrInvalidMove, input)
		assert.ErrorIs(t, err, session.ErrInvalidHumanInput)
	}
}

func TestResultMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "You win!", game.ResultMessage(outcome.FirstWins))
	assert.Equal(t, "You lose!", game.ResultMessage(outcome.SecondWins))
	assert.Equal(t, "It's a tie!", game.ResultMessage(outcome.Tie))
}

func TestPlayKeepsCommitmentAcrossRetries(t *testing.T) {
	t.Parallel()

	service := newGameService(t, keygen.DefaultSource())

	var out bytes.Buffer

	err := service.Play(context.Background(), strings.NewReader("x\n5\n?\n2\n0\n"), &out)
	require.NoError(t, err)

	transcript := out.String()

	assert.Contains(t, transcript, game.MessageInvalidInput)
	assert.Contains(t, transcript, game.MessageInvalidMove)
	assert.Contains(t, transcript, "| v PC/User > |")
	assert.Contains(t, transcript, "Your move: paper")

	tags := tagLine.FindAllStringSubmatch(transcript, -1)
	require.Len(t, tags, 5)

	for _, tag := range tags[1:4] {
		assert.Equal(t, tags[0][1], tag[1])
	}

	assert.NotEqual(t, tags[0][1], tags[4][1])

	computer := computerLine.FindStringSubmatch(transcript)
	require.NotNil(t, computer)

	key := keyLine.FindStringSubmatch(transcript)
	require.NotNil(t, key)

	assert.True(t, commitment.Verify(computer[1], keygen.SecretKey(key[1]), tags[0][1]))
}

func TestPlayOutcomeMessage(t *testing.T) {
	t.Parallel()

	service := newGameService(t, keygen.DefaultSource())

	for range 20 {
		var out bytes.Buffer

		require.NoError(t, service.Play(context.Background(), strings.NewReader("3\n"), &out))

		transcript := out.String()

		computer := computerLine.FindStringSubmatch(transcript)
		require.NotNil(t, computer)

		want := map[string]string{
			"rock":     game.MessageLose,
			"paper":    game.MessageWin,
			"scissors": game.MessageTie,
		}[computer[1]]

		assert.Contains(t, transcript, "Your move: scissors\n")
		assert.Contains(t, transcript, want+"\n")
	}
}

func TestPlayEndOfInput(t *testing.T) {
	t.Parallel()

	service := newGameService(t, keygen.DefaultSource())

	var out bytes.Buffer

	require.NoError(t, service.Play(context.Background(), strings.NewReader(""), &out))
	assert.Len(t, tagLine.FindAllString(out.String(), -1), 1)
	assert.NotContains(t, out.String(), "HMAC key:")
}

func TestPlaySourceFailureIsFatal(t *testing.T) {
	t.Parallel()

	service := newGameService(t, failingSource{})

	var out bytes.Buffer

	err := service.Play(context.Background(), strings.NewReader("1\n"), &out)
	require.ErrorIs(t, err, keygen.ErrSecureRandomUnavailable)
	assert.Empty(t, out.String())
}

func TestPlayCanceled(t *testing.T) {
	t.Parallel()

	service := newGameService(t, keygen.DefaultSource())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := service.Play(ctx, strings.NewReader("1\n"), io.Discard)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPlayCanceledWhileWaitingForMove(t *testing.T) {
	t.Parallel()

	service := newGameService(t, keygen.DefaultSource())

	in, writer := io.Pipe()
	defer func() {
		_ = writer.Close()
	}()

	out := &syncBuffer{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)

	go func() {
		done <- service.Play(ctx, in, out)
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Enter your move: ")
	}, 2*time.Second, 10*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Play did not return after cancel")
	}

	assert.NotContains(t, out.String(), "HMAC key:")
}

func TestPlayOverlongLineIsRecoverable(t *testing.T) {
	t.Parallel()

	service := newGameService(t, keygen.DefaultSource())

	var out bytes.Buffer

	input := strings.Repeat("x", 70000) + "\n1\n0\n"

	require.NoError(t, service.Play(context.Background(), strings.NewReader(input), &out))

	transcript := out.String()

	assert.Contains(t, transcript, game.MessageInvalidInput)
	assert.Contains(t, transcript, "Your move: rock\n")

	tags := tagLine.FindAllStringSubmatch(transcript, -1)
	require.Len(t, tags, 3)
	assert.Equal(t, tags[0][1], tags[1][1])
	assert.NotEqual(t, tags[1][1], tags[2][1])
}

func TestPlayLastLineWithoutNewline(t *testing.T) {
	t.Parallel()

	service := newGameService(t, keygen.DefaultSource())

	var out bytes.Buffer

	require.NoError(t, service.Play(context.Background(), strings.NewReader("2"), &out))
	assert.Contains(t, out.String(), "Your move: paper\n")
}

func TestPlayInvalidMessagesSpacing(t *testing.T) {
	t.Parallel()

	service := newGameService(t, keygen.DefaultSource())

	var out bytes.Buffer

	require.NoError(t, service.Play(context.Background(), strings.NewReader("7\nx\n0\n"), &out))

	transcript := out.String()

	assert.Contains(t, transcript, game.MessageInvalidMove+"\nHMAC: ")
	assert.Contains(t, transcript, game.MessageInvalidInput+"\n\nHMAC: ")
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	//nolint:wrapcheck
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func TestNewGameService(t *testing.T) {
	t.Parallel()

	moves, err := moveset.New([]string{"a", "b", "c", "d", "e"})
	require.NoError(t, err)

	i := do.New()
	do.ProvideNamedValue(i, "moves", moves)
	do.ProvideNamedValue(i, "random-source", keygen.DefaultSource())
	do.ProvideNamedValue(i, "key-bits", 128)
	do.ProvideValue(i, slog.New(slog.NewTextHandler(io.Discard, nil)))
	do.Provide(i, game.NewGameService)

	service, err := do.Invoke[*game.GameService](i)
	require.NoError(t, err)

	assert.Equal(t, 5, service.Moves.Len())
	assert.Equal(t, 128, service.KeyBits)
}

func TestNewGameServiceRejectsKeyBits(t *testing.T) {
	t.Parallel()

	moves, err := moveset.New([]string{"a", "b", "c"})
	require.NoError(t, err)

	i := do.New()
	do.ProvideNamedValue(i, "moves", moves)
	do.ProvideNamedValue(i, "random-source", keygen.DefaultSource())
	do.ProvideNamedValue(i, "key-bits", 100)
	do.ProvideValue(i, slog.New(slog.NewTextHandler(io.Discard, nil)))
	do.Provide(i, game.NewGameService)

	_, err = do.Invoke[*game.GameService](i)
	assert.ErrorContains(t, err, keygen.ErrInvalidKeyLength.Error())
}
