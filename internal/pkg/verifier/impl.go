package verifier

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/do/v2"
	"github.com/vreid/fairplay/internal/pkg/commitment"
	"github.com/vreid/fairplay/internal/pkg/common"
	"github.com/vreid/fairplay/internal/pkg/keygen"
	"github.com/vreid/fairplay/internal/pkg/moveset"
	"github.com/vreid/fairplay/internal/pkg/rules"
	"github.com/vreid/fairplay/internal/pkg/session"
)

// VerifierService lets a player who does not want to recompute HMACs by hand
// check a disclosed round. It holds no secrets and no state besides counters.
type VerifierService struct {
	Logger *slog.Logger

	registry      *prometheus.Registry
	verifications *prometheus.CounterVec
}

func NewVerifierService(i do.Injector) (*VerifierService, error) {
	logger := do.MustInvoke[*slog.Logger](i)

	registry := prometheus.NewRegistry()
	verifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fairplay_verifications_total",
		Help: "Commitment verifications by result.",
	}, []string{"result"})

	err := registry.Register(verifications)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	result := &VerifierService{
		Logger: logger,

		registry:      registry,
		verifications: verifications,
	}

	echoService, err := do.Invoke[*common.EchoService](i)
	if err != nil {
		return nil, fmt.Errorf("failed to create echo service: %w", err)
	}

	echoService.Register(func(e *echo.Echo) {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

		apiGroup := e.Group("/api")

		verifierGroup := apiGroup.Group("/verifier")

		verifierGroup.POST("/verify", result.PostVerify)
		verifierGroup.POST("/disclosure", result.PostDisclosure)
		verifierGroup.POST("/rules", result.PostRules)
	})

	return result, nil
}

func (s *VerifierService) count(valid bool) {
	label := "invalid"
	if valid {
		label = "valid"
	}

	s.verifications.WithLabelValues(label).Inc()
}

func (s *VerifierService) PostVerify(c echo.Context) error {
	var req VerifyRequest

	err := c.Bind(&req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if len(req.Tag) == 0 || len(req.Key) == 0 || len(req.Move) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "tag, key and move are required")
	}

	key := keygen.SecretKey(req.Key)
	valid := commitment.Verify(req.Move, key, req.Tag)
	s.count(valid)

	//nolint:wrapcheck
	return c.JSON(http.StatusOK, VerifyResponse{
		Valid: valid,
		Tag:   commitment.ComputeTag(req.Move, key),
	})
}

func (s *VerifierService) PostDisclosure(c echo.Context) error {
	var req DisclosureRequest

	err := c.Bind(&req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	moves, err := moveset.New(req.Moves)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, moveset.Reason(err))
	}

	err = session.VerifyDisclosure(moves, req.Commit, req.Disclosure)
	s.count(err == nil)

	if err != nil {
		s.Logger.Info("disclosure rejected", "round_id", req.Disclosure.RoundID, "error", err)

		//nolint:wrapcheck
		return c.JSON(http.StatusOK, DisclosureResponse{Valid: false, Reason: err.Error()})
	}

	//nolint:wrapcheck
	return c.JSON(http.StatusOK, DisclosureResponse{Valid: true})
}

func (s *VerifierService) PostRules(c echo.Context) error {
	var req RulesRequest

	err := c.Bind(&req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	moves, err := moveset.New(req.Moves)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, moveset.Reason(err))
	}

	//nolint:wrapcheck
	return c.JSON(http.StatusOK, rules.Build(moves))
}
