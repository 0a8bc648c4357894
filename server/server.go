// Package server assembles the HTTP server and its background runners.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/hrygo/quizflow/internal/profile"
	"github.com/hrygo/quizflow/plugin/ai"
	"github.com/hrygo/quizflow/server/drift"
	"github.com/hrygo/quizflow/server/finops"
	"github.com/hrygo/quizflow/server/rag"
	apiv1 "github.com/hrygo/quizflow/server/router/api/v1"
	"github.com/hrygo/quizflow/server/runner/embedding"
	"github.com/hrygo/quizflow/server/service/quiz"
	"github.com/hrygo/quizflow/store"
)

// Server is the assembled quizflow server.
type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer      *echo.Echo
	embeddingRunner *embedding.Runner
}

// NewServer wires the AI provider, quiz service, and API routes.
func NewServer(ctx context.Context, p *profile.Profile, st *store.Store) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	provider := ai.NewProvider(&ai.Config{
		BaseURL:        p.AIBaseURL,
		APIKey:         p.AIAPIKey,
		EmbeddingModel: p.AIEmbeddingModel,
		ChatModel:      p.AIChatModel,
		Dimensions:     p.AIEmbeddingDim,
	})
	if !provider.IsConfigured() {
		slog.Warn("no AI credential configured; drift and explanations run in degraded mode")
	}
	usage := finops.NewMonitor()
	instrumented := finops.NewInstrumentedProvider(provider, usage)

	classifier := drift.NewClassifier(instrumented, time.Duration(p.DriftAICooldownSeconds)*time.Second)
	explainer := rag.NewOrchestrator(
		rag.NewExplanationCache(time.Duration(p.ExplanationCooldownSeconds)*time.Second),
		rag.NewRetriever(instrumented, st),
		rag.NewGenerator(instrumented),
		p.RAGTopK,
	)
	quizService := quiz.NewService(st, quiz.NewSelector(), classifier, explainer)
	if err := quizService.EnsureSeedQuestions(ctx); err != nil {
		return nil, fmt.Errorf("failed to seed question bank: %w", err)
	}

	api := apiv1.NewAPIV1Service(p, st, quizService, instrumented)
	api.Usage = usage
	api.Register(e)
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "service is running")
	})

	return &Server{
		Profile:         p,
		Store:           st,
		echoServer:      e,
		embeddingRunner: embedding.NewRunner(st, instrumented),
	}, nil
}

// Start launches the background runners and serves HTTP until the listener
// fails or Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	go s.embeddingRunner.Run(ctx)

	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	slog.Info("server started", "address", address, "mode", s.Profile.Mode)
	return s.echoServer.Start(address)
}

// Shutdown drains in-flight requests and closes the store.
func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shut down http server", "error", err)
	}
	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close store", "error", err)
	}
	slog.Info("server shut down")
}
