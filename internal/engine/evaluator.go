package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/WindyAle/Welcome-to-my/internal/models"
	"github.com/WindyAle/Welcome-to-my/pkg/logger"
)

// ErrBusy is returned for actions refused while an evaluation is running.
var ErrBusy = errors.New("evaluation in progress")

// Phase is the evaluation state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseEvaluating
	PhasePopup
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseEvaluating:
		return "evaluating"
	case PhasePopup:
		return "popup"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Evaluate runs the full pipeline synchronously: score, then feedback. The
// feedback call is only issued once the score is fixed.
func (e *Engine) Evaluate(ctx context.Context, customer models.Customer, placed []models.PlacedItem, room models.RoomSize) models.EvaluationResult {
	score, description := e.Score(ctx, customer.Request, customer.Wishlist, placed, room)
	feedback := e.Feedback(ctx, customer.Persona, customer.Request, customer.Wishlist, description, score)
	return models.EvaluationResult{
		Score:       score,
		Description: description,
		Feedback:    feedback,
	}
}

// Evaluator guards a single background evaluation and holds its published
// result. At most one run is in flight; Start is a no-op unless Idle.
type Evaluator struct {
	mu     sync.Mutex
	phase  Phase
	result *models.EvaluationResult
	runs   int
}

// Start launches run in the background when the evaluator is Idle. The
// returned channel delivers the result once and is then closed. ok is false
// when a run is already in flight or a result is still published.
func (ev *Evaluator) Start(ctx context.Context, run func(context.Context) models.EvaluationResult) (done <-chan models.EvaluationResult, ok bool) {
	ev.mu.Lock()
	if ev.phase != PhaseIdle {
		ev.mu.Unlock()
		return nil, false
	}
	ev.phase = PhaseEvaluating
	ev.runs++
	ev.mu.Unlock()

	ch := make(chan models.EvaluationResult, 1)
	go func() {
		res := safeRun(ctx, run)

		ev.mu.Lock()
		ev.result = &res
		ev.phase = PhasePopup
		ev.mu.Unlock()

		ch <- res
		close(ch)
	}()
	return ch, true
}

// A panicking pipeline still publishes, as a zero score. The description is
// left empty since nothing about the layout is known at that point.
func safeRun(ctx context.Context, run func(context.Context) models.EvaluationResult) (res models.EvaluationResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.WithField("panic", r).Error("evaluation pipeline panicked")
			res = models.EvaluationResult{Score: 0, Feedback: FallbackFeedback}
		}
	}()
	return run(ctx)
}

// Phase returns the current phase.
func (ev *Evaluator) Phase() Phase {
	ev.mu.Lock()
	defer ev.mu.Unlock()
	return ev.phase
}

// Result returns the published result, if any.
func (ev *Evaluator) Result() (models.EvaluationResult, bool) {
	ev.mu.Lock()
	defer ev.mu.Unlock()
	if ev.result == nil {
		return models.EvaluationResult{}, false
	}
	return *ev.result, true
}

// Runs returns how many evaluations have been started.
func (ev *Evaluator) Runs() int {
	ev.mu.Lock()
	defer ev.mu.Unlock()
	return ev.runs
}

// Clear drops the published result and returns to Idle. It refuses while an
// evaluation is running, since in-flight runs cannot be cancelled.
func (ev *Evaluator) Clear() error {
	ev.mu.Lock()
	defer ev.mu.Unlock()
	if ev.phase == PhaseEvaluating {
		return ErrBusy
	}
	ev.phase = PhaseIdle
	ev.result = nil
	return nil
}
