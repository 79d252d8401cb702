package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/samber/do/v2"
	"github.com/vreid/fairplay/internal/pkg/commitment"
	"github.com/vreid/fairplay/internal/pkg/common"
	"github.com/vreid/fairplay/internal/pkg/game"
	"github.com/vreid/fairplay/internal/pkg/keygen"
	"github.com/vreid/fairplay/internal/pkg/moveset"
	"github.com/vreid/fairplay/internal/pkg/rules"
	"github.com/vreid/fairplay/internal/pkg/verifier"

	"github.com/urfave/cli/v3"
)

const shutdownTimeout = 10 * time.Second

type VerifierServer struct {
	EchoService *common.EchoService `do:""`

	VerifierService *verifier.VerifierService `do:""`
}

func newInjector(cmd *cli.Command) do.Injector {
	i := do.New()

	do.ProvideValue(i, common.NewLogger(os.Stderr, cmd.String("log-level"), cmd.Bool("log-json")))

	return i
}

func parseMoves(cmd *cli.Command) (moveset.MoveSet, error) {
	moves, err := moveset.New(cmd.Args().Slice())
	if err != nil {
		return moveset.MoveSet{}, cli.Exit(moveset.Reason(err), 1)
	}

	return moves, nil
}

func runPlay(ctx context.Context, cmd *cli.Command) error {
	moves, err := parseMoves(cmd)
	if err != nil {
		return err
	}

	i := newInjector(cmd)

	do.ProvideNamedValue(i, "moves", moves)
	do.ProvideNamedValue(i, "random-source", keygen.DefaultSource())
	do.ProvideNamedValue(i, "key-bits", cmd.Int("key-bits"))

	do.Provide(i, game.NewGameService)

	gameService, err := do.Invoke[*game.GameService](i)
	if err != nil {
		return fmt.Errorf("failed to create game service: %w", err)
	}

	err = gameService.Play(ctx, os.Stdin, os.Stdout)
	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}

func runRules(_ context.Context, cmd *cli.Command) error {
	moves, err := parseMoves(cmd)
	if err != nil {
		return err
	}

	table := rules.Build(moves)

	if cmd.Bool("json") {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		//nolint:wrapcheck
		return encoder.Encode(table)
	}

	//nolint:wrapcheck
	return rules.Render(os.Stdout, table)
}

func runVerify(_ context.Context, cmd *cli.Command) error {
	tag := cmd.String("hmac")
	key := keygen.SecretKey(cmd.String("key"))
	move := cmd.String("move")

	if !commitment.Verify(move, key, tag) {
		return cli.Exit(fmt.Sprintf("HMAC mismatch: published %s, recomputed %s", tag, commitment.ComputeTag(move, key)), 1)
	}

	fmt.Println("HMAC verified")

	return nil
}

func runVerifier(ctx context.Context, cmd *cli.Command) error {
	i := newInjector(cmd)

	do.ProvideNamedValue(i, "port", cmd.Int("port"))

	do.Provide(i, common.NewEchoService)
	do.Provide(i, verifier.NewVerifierService)

	do.Provide(i, do.InvokeStruct[VerifierServer])

	server, err := do.Invoke[VerifierServer](i)
	if err != nil {
		return fmt.Errorf("failed to create verifier service: %w", err)
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := server.EchoService.Shutdown(shutdownCtx)
		if err != nil {
			slog.Error("failed to shutdown verifier", "error", err)
		}
	}()

	slog.Info("verifier listening", "port", cmd.Int("port"))

	//nolint:wrapcheck
	return server.EchoService.Start()
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//nolint:exhaustruct
	cmd := &cli.Command{
		Name:  "fairplay",
		Usage: "N-way rock paper scissors with a provably fair computer opponent",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Sources: cli.EnvVars("FAIRPLAY_LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:    "log-json",
				Sources: cli.EnvVars("FAIRPLAY_LOG_JSON"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "play",
				Usage:     "play against the computer",
				ArgsUsage: "<move> <move> <move> [move...]",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "key-bits",
						Value:   keygen.DefaultBits,
						Sources: cli.EnvVars("FAIRPLAY_KEY_BITS"),
					},
				},
				Action: runPlay,
			},
			{
				Name:      "rules",
				Usage:     "print who beats whom",
				ArgsUsage: "<move> <move> <move> [move...]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name: "json",
					},
				},
				Action: runRules,
			},
			{
				Name:  "verify",
				Usage: "recompute a disclosed HMAC",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "hmac",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "key",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "move",
						Required: true,
					},
				},
				Action: runVerify,
			},
			{
				Name:  "verifier",
				Usage: "serve the verification API",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "port",
						Value:   3000, //nolint:mnd
						Sources: cli.EnvVars("FAIRPLAY_PORT"),
					},
				},
				Action: runVerifier,
			},
		},
		DefaultCommand: "play",
	}

	err := cmd.Run(ctx, os.Args)
	if err != nil {
		log.Fatal(err)
	}
}
