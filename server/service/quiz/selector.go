package quiz

import (
	"math/rand/v2"

	qerrors "github.com/hrygo/quizflow/internal/errors"
	"github.com/hrygo/quizflow/store"
)

const (
	// easySkillThreshold is the skill below which learners get easy questions.
	easySkillThreshold = 0.4
	// hardSkillThreshold is the skill above which learners get hard questions.
	hardSkillThreshold = 0.7
)

// Selector picks the next question for a learner. The tier policy is
// deterministic; the pick within a tier is uniform random.
type Selector struct {
	pick func(n int) int
}

// NewSelector creates a selector with a uniform random pick.
func NewSelector() *Selector {
	return &Selector{pick: rand.IntN}
}

// preferredTier maps the learner state to a difficulty tier. Drift overrides
// skill: a drifting learner always steps down to easy.
func preferredTier(skill float64, driftDetected bool) store.Difficulty {
	switch {
	case driftDetected || skill < easySkillThreshold:
		return store.DifficultyEasy
	case skill > hardSkillThreshold:
		return store.DifficultyHard
	default:
		return store.DifficultyMedium
	}
}

// Select returns one question from the candidates. Candidates matching the
// preferred tier are sampled first; when the tier is unrepresented the full
// candidate set is sampled instead, so selection degrades rather than
// starves. Only an empty candidate set is an error.
func (s *Selector) Select(candidates []*store.Question, skill float64, driftDetected bool) (*store.Question, error) {
	if len(candidates) == 0 {
		return nil, qerrors.NotFound("no questions available")
	}

	tier := preferredTier(skill, driftDetected)
	pool := make([]*store.Question, 0, len(candidates))
	for _, question := range candidates {
		if question.Difficulty == tier {
			pool = append(pool, question)
		}
	}
	if len(pool) == 0 {
		pool = candidates
	}
	return pool[s.pick(len(pool))], nil
}
