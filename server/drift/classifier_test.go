package drift

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qerrors "github.com/hrygo/quizflow/internal/errors"
	"github.com/hrygo/quizflow/store"
)

type fakeCompletion struct {
	configured bool
	calls      int
	response   string
	err        error
}

func (f *fakeCompletion) IsConfigured() bool {
	return f.configured
}

func (f *fakeCompletion) Complete(ctx context.Context, prompt string) (string, error) {
	f.calls++
	return f.response, f.err
}

func testWindow() []*store.Attempt {
	return []*store.Attempt{
		attempt(false, store.DifficultyMedium, 20),
		attempt(false, store.DifficultyMedium, 20),
	}
}

func TestClassifyEmptyWindow(t *testing.T) {
	fake := &fakeCompletion{configured: true}
	c := NewClassifier(fake, time.Minute)

	result, err := c.Classify(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.False(t, result.Drift)
	assert.Equal(t, ReasonInsufficientData, result.Reason)
	assert.Zero(t, fake.calls, "empty window must not issue a call")
}

func TestClassifyNotConfiguredUsesHeuristic(t *testing.T) {
	fake := &fakeCompletion{configured: false}
	c := NewClassifier(fake, time.Minute)

	result, err := c.Classify(context.Background(), 1, testWindow())
	require.NoError(t, err)
	assert.True(t, result.Drift)
	assert.Zero(t, fake.calls)
}

func TestClassifyCooldownSkipsCall(t *testing.T) {
	fake := &fakeCompletion{configured: true, response: `{"drift_detected": false, "reason": "stable"}`}
	c := NewClassifier(fake, time.Minute)

	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }

	_, err := c.Classify(context.Background(), 1, testWindow())
	require.NoError(t, err)
	assert.Equal(t, 1, fake.calls)

	// Within the cooldown window: heuristic, no call.
	now = now.Add(30 * time.Second)
	result, err := c.Classify(context.Background(), 1, testWindow())
	require.NoError(t, err)
	assert.Equal(t, 1, fake.calls)
	assert.True(t, result.Drift, "heuristic verdict expected during cooldown")

	// A different user has an independent cooldown.
	_, err = c.Classify(context.Background(), 2, testWindow())
	require.NoError(t, err)
	assert.Equal(t, 2, fake.calls)

	// After the cooldown elapses the call goes through again.
	now = now.Add(time.Minute)
	_, err = c.Classify(context.Background(), 1, testWindow())
	require.NoError(t, err)
	assert.Equal(t, 3, fake.calls)
}

func TestClassifyRateLimitPropagates(t *testing.T) {
	fake := &fakeCompletion{configured: true, err: qerrors.RateLimitExceeded("generation rate limit exceeded")}
	c := NewClassifier(fake, time.Minute)

	_, err := c.Classify(context.Background(), 1, testWindow())
	require.Error(t, err)
	assert.True(t, qerrors.IsCode(err, qerrors.ErrCodeRateLimitExceeded))
}

func TestClassifyTransportErrorUsesHeuristic(t *testing.T) {
	fake := &fakeCompletion{configured: true, err: qerrors.Transport("connection reset", nil)}
	c := NewClassifier(fake, time.Minute)

	result, err := c.Classify(context.Background(), 1, testWindow())
	require.NoError(t, err)
	assert.True(t, result.Drift)
	assert.Equal(t, reasonConsecutiveErrors, result.Reason)
}

func TestClassifyMalformedVerdictUsesHeuristic(t *testing.T) {
	for _, response := range []string{
		"not json",
		`{"reason": "missing drift key"}`,
		`{"drift_detected": "yes"}`,
		"",
	} {
		fake := &fakeCompletion{configured: true, response: response}
		c := NewClassifier(fake, time.Minute)

		result, err := c.Classify(context.Background(), 1, testWindow())
		require.NoError(t, err)
		assert.True(t, result.Drift, "response %q should fall back to heuristic", response)
	}
}

func TestClassifyWellFormedVerdictReturnedVerbatim(t *testing.T) {
	fake := &fakeCompletion{
		configured: true,
		response:   "```json\n{\"drift_detected\": true, \"reason\": \"three slow answers in a row\"}\n```",
	}
	c := NewClassifier(fake, time.Minute)

	result, err := c.Classify(context.Background(), 1, testWindow())
	require.NoError(t, err)
	assert.True(t, result.Drift)
	assert.Equal(t, "three slow answers in a row", result.Reason)
}

func TestClassifyStampsCooldownBeforeCall(t *testing.T) {
	// Even a failed call consumes the cooldown slot, preventing bursts.
	fake := &fakeCompletion{configured: true, err: qerrors.Transport("boom", nil)}
	c := NewClassifier(fake, time.Minute)

	_, err := c.Classify(context.Background(), 1, testWindow())
	require.NoError(t, err)
	_, err = c.Classify(context.Background(), 1, testWindow())
	require.NoError(t, err)
	assert.Equal(t, 1, fake.calls)
}
