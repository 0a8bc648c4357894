// Package quiz is the session controller: it grades answers, maintains the
// learner's skill estimate and drift flag, assembles feedback, and hands out
// the next question.
package quiz

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hrygo/quizflow/server/drift"
	qerrors "github.com/hrygo/quizflow/internal/errors"
	"github.com/hrygo/quizflow/store"
)

const (
	// skillStep is the skill delta applied per graded answer.
	skillStep = 0.1
	// attemptWindowSize is how many recent attempts drift evaluation sees.
	attemptWindowSize = 5

	feedbackCorrect = "Correct!"

	// explanationUnavailable stands in when the explanation pipeline fails
	// for any reason other than rate limiting, which has its own rendering.
	explanationUnavailable = "I couldn't prepare a detailed explanation right now. Please review your notes on this topic."
)

// DriftClassifier produces a drift verdict for a window of recent attempts.
type DriftClassifier interface {
	Classify(ctx context.Context, userID int32, window []*store.Attempt) (drift.Result, error)
}

// Explainer produces a study-note-grounded explanation for a failed attempt.
type Explainer interface {
	Explain(ctx context.Context, topic, userAnswer string) (string, error)
}

// Service coordinates one answer-submission cycle end to end.
type Service struct {
	store      *store.Store
	selector   *Selector
	classifier DriftClassifier
	explainer  Explainer
}

// NewService wires the session controller.
func NewService(st *store.Store, selector *Selector, classifier DriftClassifier, explainer Explainer) *Service {
	return &Service{
		store:      st,
		selector:   selector,
		classifier: classifier,
		explainer:  explainer,
	}
}

// SubmitRequest is one answer submission.
type SubmitRequest struct {
	QuestionID       int32  `json:"questionId"`
	Answer           string `json:"answer"`
	TimeTakenSeconds int    `json:"timeTakenSeconds"`
}

// SubmitResult is the full outcome of grading a submission.
type SubmitResult struct {
	Correct      bool            `json:"correct"`
	Feedback     string          `json:"feedback"`
	Skill        float64         `json:"skill"`
	Drift        drift.Result    `json:"drift"`
	NextQuestion *store.Question `json:"nextQuestion"`
}

// NextQuestion selects a question for the user based on the current skill
// estimate and drift flag.
func (s *Service) NextQuestion(ctx context.Context, userID int32) (*store.Question, error) {
	user, err := s.store.GetUser(ctx, &store.FindUser{ID: &userID})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, qerrors.NotFound(fmt.Sprintf("user %d not found", userID))
	}

	candidates, err := s.store.ListQuestions(ctx, &store.FindQuestion{})
	if err != nil {
		return nil, err
	}
	return s.selector.Select(candidates, user.Skill, user.DriftDetected)
}

// SubmitAnswer grades the submission, re-evaluates drift over a window that
// includes this attempt, persists the attempt, updates the skill estimate,
// and returns the feedback plus the next question. The remediation
// explanation is generated only for an incorrect answer under drift; a
// plainly wrong answer gets the expected answer without spending an AI call.
func (s *Service) SubmitAnswer(ctx context.Context, userID int32, req *SubmitRequest) (*SubmitResult, error) {
	user, err := s.store.GetUser(ctx, &store.FindUser{ID: &userID})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, qerrors.NotFound(fmt.Sprintf("user %d not found", userID))
	}

	question, err := s.store.GetQuestion(ctx, &store.FindQuestion{ID: &req.QuestionID})
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, qerrors.NotFound(fmt.Sprintf("question %d not found", req.QuestionID))
	}

	correct := gradeAnswer(req.Answer, question.Answer)
	attempt := &store.Attempt{
		UserID:           userID,
		QuestionID:       question.ID,
		UserAnswer:       req.Answer,
		IsCorrect:        correct,
		TimeTakenSeconds: req.TimeTakenSeconds,
		Topic:            question.Topic,
		Difficulty:       question.Difficulty,
	}

	verdict := s.classifyDrift(ctx, userID, attempt)

	feedback := feedbackCorrect
	if !correct {
		feedback = fmt.Sprintf("Incorrect. The right answer is '%s'.", question.Answer)
		if verdict.Drift {
			attempt.Explanation = s.explain(ctx, question.Topic, req.Answer)
			feedback += "\n\n" + attempt.Explanation
		}
	}
	if verdict.Drift {
		feedback = "Drift detected! Let's ease off with something simpler.\n\n" + feedback
	}

	if _, err := s.store.CreateAttempt(ctx, attempt); err != nil {
		return nil, err
	}

	skill := adjustSkill(user.Skill, correct)
	updated, err := s.store.UpdateUser(ctx, &store.UpdateUser{
		ID:            userID,
		Skill:         &skill,
		DriftDetected: &verdict.Drift,
	})
	if err != nil {
		return nil, err
	}

	next, err := s.nextFor(ctx, updated)
	if err != nil {
		return nil, err
	}

	return &SubmitResult{
		Correct:      correct,
		Feedback:     feedback,
		Skill:        updated.Skill,
		Drift:        verdict,
		NextQuestion: next,
	}, nil
}

// History returns the user's recent attempts, newest first.
func (s *Service) History(ctx context.Context, userID int32, limit int) ([]*store.Attempt, error) {
	return s.store.ListAttempts(ctx, &store.FindAttempt{UserID: &userID, Limit: &limit})
}

// TopicMastery returns per-topic correctness aggregates for the user.
func (s *Service) TopicMastery(ctx context.Context, userID int32) ([]*store.TopicMastery, error) {
	return s.store.ListTopicMastery(ctx, userID)
}

func (s *Service) nextFor(ctx context.Context, user *store.User) (*store.Question, error) {
	candidates, err := s.store.ListQuestions(ctx, &store.FindQuestion{})
	if err != nil {
		return nil, err
	}
	return s.selector.Select(candidates, user.Skill, user.DriftDetected)
}

// explain runs the explanation pipeline and absorbs every failure into a
// generic message. A failed explanation must never fail the submission.
func (s *Service) explain(ctx context.Context, topic, userAnswer string) string {
	if s.explainer == nil {
		return explanationUnavailable
	}
	text, err := s.explainer.Explain(ctx, topic, userAnswer)
	if err != nil {
		slog.Warn("explanation pipeline failed", "topic", topic, "error", err)
		return explanationUnavailable
	}
	return text
}

// classifyDrift evaluates the recent attempt window with the in-flight
// attempt at its head, so a second consecutive error is visible on the
// submission that commits it. Any classifier failure, rate limiting
// included, degrades to the heuristic; a window fetch failure degrades to
// the current attempt alone.
func (s *Service) classifyDrift(ctx context.Context, userID int32, current *store.Attempt) drift.Result {
	limit := attemptWindowSize - 1
	window := []*store.Attempt{current}
	past, err := s.store.ListAttempts(ctx, &store.FindAttempt{UserID: &userID, Limit: &limit})
	if err != nil {
		slog.Warn("attempt window fetch failed", "user_id", userID, "error", err)
	} else {
		window = append(window, past...)
	}

	if s.classifier != nil {
		verdict, err := s.classifier.Classify(ctx, userID, window)
		if err == nil {
			return verdict
		}
		slog.Warn("drift classifier unavailable, using heuristic", "user_id", userID, "error", err)
	}
	return drift.EvaluateWindow(window)
}

// gradeAnswer compares answers after trimming and case folding.
func gradeAnswer(submitted, expected string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(expected))
}

// adjustSkill applies the per-answer delta, clamped to [0, 1].
func adjustSkill(skill float64, correct bool) float64 {
	if correct {
		skill += skillStep
	} else {
		skill -= skillStep
	}
	if skill < 0 {
		return 0
	}
	if skill > 1 {
		return 1
	}
	return skill
}
