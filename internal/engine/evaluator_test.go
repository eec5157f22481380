package engine

import (
	"context"
	"testing"
	"time"

	"github.com/WindyAle/Welcome-to-my/internal/gateway"
	"github.com/WindyAle/Welcome-to-my/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitResult(t *testing.T, done <-chan models.EvaluationResult) models.EvaluationResult {
	t.Helper()
	select {
	case res, ok := <-done:
		require.True(t, ok, "channel closed without a result")
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("evaluation did not finish")
		return models.EvaluationResult{}
	}
}

func TestEvaluatorLifecycle(t *testing.T) {
	var ev Evaluator
	assert.Equal(t, PhaseIdle, ev.Phase())
	_, ok := ev.Result()
	assert.False(t, ok)

	release := make(chan struct{})
	done, ok := ev.Start(context.Background(), func(context.Context) models.EvaluationResult {
		<-release
		return models.EvaluationResult{Score: 3.5, Description: "d", Feedback: "f"}
	})
	require.True(t, ok)
	assert.Equal(t, PhaseEvaluating, ev.Phase())
	assert.ErrorIs(t, ev.Clear(), ErrBusy)

	close(release)
	res := waitResult(t, done)
	assert.Equal(t, 3.5, res.Score)

	_, open := <-done
	assert.False(t, open, "result is delivered once")

	assert.Equal(t, PhasePopup, ev.Phase())
	published, ok := ev.Result()
	require.True(t, ok)
	assert.Equal(t, res, published)

	require.NoError(t, ev.Clear())
	assert.Equal(t, PhaseIdle, ev.Phase())
	_, ok = ev.Result()
	assert.False(t, ok)
}

func TestEvaluatorIgnoresRepeatedTriggers(t *testing.T) {
	var ev Evaluator
	release := make(chan struct{})
	calls := 0
	run := func(context.Context) models.EvaluationResult {
		calls++
		<-release
		return models.EvaluationResult{Score: 1}
	}

	done, ok := ev.Start(context.Background(), run)
	require.True(t, ok)

	for range 10 {
		again, ok := ev.Start(context.Background(), run)
		assert.False(t, ok)
		assert.Nil(t, again)
	}

	close(release)
	waitResult(t, done)

	// still refused while the popup is showing
	_, ok = ev.Start(context.Background(), run)
	assert.False(t, ok)

	assert.Equal(t, 1, ev.Runs())
	assert.Equal(t, 1, calls)
}

func TestEvaluatorSurvivesPanic(t *testing.T) {
	var ev Evaluator
	done, ok := ev.Start(context.Background(), func(context.Context) models.EvaluationResult {
		panic("boom")
	})
	require.True(t, ok)

	res := waitResult(t, done)
	assert.Equal(t, 0.0, res.Score)
	assert.Equal(t, FallbackFeedback, res.Feedback)
	assert.Empty(t, res.Description, "no layout claim without a finished analysis")
	assert.Equal(t, PhasePopup, ev.Phase())
}

func TestEngineEvaluateOrder(t *testing.T) {
	var systems []string
	gw := &gateway.Mock{ChatFunc: func(_ context.Context, system, user string) (string, error) {
		systems = append(systems, system)
		if system == judgeSystemPrompt {
			return "4.0", nil
		}
		return "딱 좋아요.", nil
	}}
	eng := newTestEngine(t, gw, Options{})

	customer := models.Customer{
		Persona:  models.Persona{Name: "김민지"},
		Wishlist: []string{"테이블"},
		Request:  "차 한잔 둘 곳",
	}
	placed := []models.PlacedItem{place("테이블", 1, 1, 4, 4, models.Rotation0)}

	res := eng.Evaluate(context.Background(), customer, placed, room10x8)
	assert.Equal(t, 4.0, res.Score)
	assert.Equal(t, "딱 좋아요.", res.Feedback)
	assert.Equal(t, DescribeFacts(placed, room10x8), res.Description)

	require.Len(t, systems, 2)
	assert.Equal(t, judgeSystemPrompt, systems[0], "judge runs before feedback")
	assert.Contains(t, gw.Calls()[1].User, "4.0 / 5.0")
}

func TestEngineEvaluateJudgeFailure(t *testing.T) {
	gw := &gateway.Mock{ChatFunc: func(_ context.Context, system, _ string) (string, error) {
		if system == judgeSystemPrompt {
			return "정말 좋아요!", nil
		}
		return "", gateway.ErrUnavailable
	}}
	eng := newTestEngine(t, gw, Options{})

	var ev Evaluator
	customer := models.Customer{Wishlist: []string{"테이블"}, Request: "req"}
	done, ok := ev.Start(context.Background(), func(ctx context.Context) models.EvaluationResult {
		return eng.Evaluate(ctx, customer, nil, room10x8)
	})
	require.True(t, ok)

	res := waitResult(t, done)
	assert.Equal(t, 0.0, res.Score)
	assert.Equal(t, EmptyRoomSentence, res.Description)
	assert.Equal(t, FallbackFeedback, res.Feedback)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "idle", PhaseIdle.String())
	assert.Equal(t, "evaluating", PhaseEvaluating.String())
	assert.Equal(t, "popup", PhasePopup.String())
	assert.Equal(t, "phase(9)", Phase(9).String())
}
