package v1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/quizflow/server/internal/observability"
	"github.com/hrygo/quizflow/store"
)

const (
	// userHeader names the learner on every request. Absent means the shared
	// demo learner; real authentication is a separate front door.
	userHeader      = "X-User-ID"
	defaultUsername = "demo"

	userContextKey = "quizflow/user"
)

// resolveUser finds or creates the learner named by the request header and
// attaches it, plus a logging request context, to the echo context.
func (s *APIV1Service) resolveUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		username := c.Request().Header.Get(userHeader)
		if username == "" {
			username = defaultUsername
		}

		ctx := c.Request().Context()
		user, err := s.Store.GetUser(ctx, &store.FindUser{Username: &username})
		if err != nil {
			return errorJSON(c, err)
		}
		if user == nil {
			user, err = s.Store.CreateUser(ctx, &store.User{Username: username, Skill: 0.5})
			if err != nil {
				return errorJSON(c, err)
			}
			slog.Info("created learner", "username", username, "user_id", user.ID)
		}

		reqCtx := observability.NewRequestContext(slog.Default(), user.ID)
		c.SetRequest(c.Request().WithContext(observability.WithRequestContext(ctx, reqCtx)))
		c.Set(userContextKey, user)

		err = next(c)
		reqCtx.Info("request completed",
			slog.String("method", c.Request().Method),
			slog.String("path", c.Path()),
			slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()),
		)
		return err
	}
}

// rateLimitByUser throttles per learner. The quiz routes can fan out to the
// AI upstream, so abusive clients are stopped at the front door instead of
// burning the upstream quota.
func (s *APIV1Service) rateLimitByUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := currentUser(c)
		if user != nil && !s.rateLimiter.Allow(user.Username) {
			return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "too many requests"})
		}
		return next(c)
	}
}

func currentUser(c echo.Context) *store.User {
	user, _ := c.Get(userContextKey).(*store.User)
	return user
}
