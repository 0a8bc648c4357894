// Package v1 is the JSON HTTP surface. Handlers stay thin: bind, call the
// service layer, map coded errors to HTTP statuses.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/hrygo/quizflow/internal/profile"
	"github.com/hrygo/quizflow/server/finops"
	qerrors "github.com/hrygo/quizflow/internal/errors"
	qmiddleware "github.com/hrygo/quizflow/server/middleware"
	"github.com/hrygo/quizflow/server/service/quiz"
	"github.com/hrygo/quizflow/store"
)

// APIV1Service registers and serves the v1 REST API.
type APIV1Service struct {
	Profile   *profile.Profile
	Store     *store.Store
	Quiz      *quiz.Service
	Embedding EmbeddingService
	Usage     *finops.Monitor

	rateLimiter *qmiddleware.RateLimiter
}

// NewAPIV1Service creates the v1 API service.
func NewAPIV1Service(p *profile.Profile, st *store.Store, quizService *quiz.Service, embedding EmbeddingService) *APIV1Service {
	return &APIV1Service{
		Profile:     p,
		Store:       st,
		Quiz:        quizService,
		Embedding:   embedding,
		rateLimiter: qmiddleware.NewRateLimiter(),
	}
}

// Register mounts the API routes on the echo server.
func (s *APIV1Service) Register(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.Use(middleware.CORS())
	api.Use(s.resolveUser)
	api.Use(s.rateLimitByUser)

	api.GET("/quiz/question", s.GetNextQuestion)
	api.POST("/quiz/submit", s.SubmitAnswer)
	api.GET("/quiz/history", s.GetHistory)
	api.GET("/quiz/stats/topic-mastery", s.GetTopicMastery)

	admin := api.Group("/admin")
	admin.POST("/questions", s.CreateQuestion)
	admin.GET("/questions", s.ListQuestions)
	admin.DELETE("/questions/:id", s.DeleteQuestion)
	admin.POST("/notes", s.IngestNote)
	admin.GET("/ai-usage", s.GetAIUsage)
}

// GetAIUsage reports upstream AI call volume, failure mix, and latency.
// GET /api/v1/admin/ai-usage
func (s *APIV1Service) GetAIUsage(c echo.Context) error {
	if s.Usage == nil {
		return c.JSON(http.StatusOK, []finops.OperationReport{})
	}
	return c.JSON(http.StatusOK, s.Usage.Report())
}

// errorJSON maps a coded error to an HTTP response. Uncoded errors are
// internal.
func errorJSON(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch qerrors.GetCodeFromError(err, "") {
	case qerrors.ErrCodeNotFound:
		status = http.StatusNotFound
	case qerrors.ErrCodeInvalidArgument:
		status = http.StatusBadRequest
	case qerrors.ErrCodeRateLimitExceeded:
		status = http.StatusTooManyRequests
	case qerrors.ErrCodeConfiguration:
		status = http.StatusServiceUnavailable
	case qerrors.ErrCodeTransport, qerrors.ErrCodeMalformedResponse:
		status = http.StatusBadGateway
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}
