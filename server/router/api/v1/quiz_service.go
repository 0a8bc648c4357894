package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	qerrors "github.com/hrygo/quizflow/internal/errors"
	"github.com/hrygo/quizflow/server/service/quiz"
	"github.com/hrygo/quizflow/store"
)

const defaultHistoryLimit = 50

// QuestionResponse is a question as served to learners. The expected answer
// never leaves the server.
type QuestionResponse struct {
	ID         int32  `json:"id"`
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
	Text       string `json:"text"`
}

func toQuestionResponse(q *store.Question) *QuestionResponse {
	if q == nil {
		return nil
	}
	return &QuestionResponse{
		ID:         q.ID,
		Topic:      q.Topic,
		Difficulty: string(q.Difficulty),
		Text:       q.Text,
	}
}

// SubmitResponse is the graded outcome of a submission.
type SubmitResponse struct {
	Correct       bool              `json:"correct"`
	Feedback      string            `json:"feedback"`
	Skill         float64           `json:"skill"`
	DriftDetected bool              `json:"driftDetected"`
	DriftReason   string            `json:"driftReason"`
	NextQuestion  *QuestionResponse `json:"nextQuestion"`
}

// GetNextQuestion returns the adaptively selected next question.
// GET /api/v1/quiz/question
func (s *APIV1Service) GetNextQuestion(c echo.Context) error {
	user := currentUser(c)
	question, err := s.Quiz.NextQuestion(c.Request().Context(), user.ID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, toQuestionResponse(question))
}

// SubmitAnswer grades a submission and returns feedback plus the next
// question.
// POST /api/v1/quiz/submit
func (s *APIV1Service) SubmitAnswer(c echo.Context) error {
	user := currentUser(c)

	req := &quiz.SubmitRequest{}
	if err := c.Bind(req); err != nil {
		return errorJSON(c, qerrors.InvalidArgument("malformed submission body"))
	}
	if req.QuestionID <= 0 {
		return errorJSON(c, qerrors.InvalidArgument("questionId is required"))
	}
	if req.TimeTakenSeconds < 0 {
		return errorJSON(c, qerrors.InvalidArgument("timeTakenSeconds must be non-negative"))
	}

	result, err := s.Quiz.SubmitAnswer(c.Request().Context(), user.ID, req)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, &SubmitResponse{
		Correct:       result.Correct,
		Feedback:      result.Feedback,
		Skill:         result.Skill,
		DriftDetected: result.Drift.Drift,
		DriftReason:   result.Drift.Reason,
		NextQuestion:  toQuestionResponse(result.NextQuestion),
	})
}

// AttemptResponse is one history entry.
type AttemptResponse struct {
	ID               int32  `json:"id"`
	QuestionID       int32  `json:"questionId"`
	Question         string `json:"question"`
	Topic            string `json:"topic"`
	Difficulty       string `json:"difficulty"`
	UserAnswer       string `json:"userAnswer"`
	IsCorrect        bool   `json:"isCorrect"`
	TimeTakenSeconds int    `json:"timeTakenSeconds"`
	Explanation      string `json:"explanation"`
	CreatedTs        int64  `json:"createdTs"`
}

// GetHistory returns the learner's recent attempts, newest first.
// GET /api/v1/quiz/history?limit=20
func (s *APIV1Service) GetHistory(c echo.Context) error {
	user := currentUser(c)

	limit := defaultHistoryLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return errorJSON(c, qerrors.InvalidArgument("limit must be a positive integer"))
		}
		limit = n
	}

	attempts, err := s.Quiz.History(c.Request().Context(), user.ID, limit)
	if err != nil {
		return errorJSON(c, err)
	}

	response := make([]*AttemptResponse, 0, len(attempts))
	for _, attempt := range attempts {
		response = append(response, &AttemptResponse{
			ID:               attempt.ID,
			QuestionID:       attempt.QuestionID,
			Question:         attempt.Question,
			Topic:            attempt.Topic,
			Difficulty:       string(attempt.Difficulty),
			UserAnswer:       attempt.UserAnswer,
			IsCorrect:        attempt.IsCorrect,
			TimeTakenSeconds: attempt.TimeTakenSeconds,
			Explanation:      attempt.Explanation,
			CreatedTs:        attempt.CreatedTs,
		})
	}
	return c.JSON(http.StatusOK, response)
}

// TopicMasteryResponse aggregates per-topic correctness.
type TopicMasteryResponse struct {
	Topic    string  `json:"topic"`
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

// GetTopicMastery returns per-topic correctness for the learner.
// GET /api/v1/quiz/stats/topic-mastery
func (s *APIV1Service) GetTopicMastery(c echo.Context) error {
	user := currentUser(c)

	mastery, err := s.Quiz.TopicMastery(c.Request().Context(), user.ID)
	if err != nil {
		return errorJSON(c, err)
	}

	response := make([]*TopicMasteryResponse, 0, len(mastery))
	for _, m := range mastery {
		entry := &TopicMasteryResponse{Topic: m.Topic, Total: m.Total, Correct: m.Correct}
		if m.Total > 0 {
			entry.Accuracy = float64(m.Correct) / float64(m.Total)
		}
		response = append(response, entry)
	}
	return c.JSON(http.StatusOK, response)
}
