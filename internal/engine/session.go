package engine

import (
	"context"
	"errors"

	"github.com/WindyAle/Welcome-to-my/internal/layout"
	"github.com/WindyAle/Welcome-to-my/internal/models"
	"github.com/WindyAle/Welcome-to-my/pkg/logger"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrPopupOpen is returned for layout edits while a result is displayed.
var ErrPopupOpen = errors.New("close the evaluation first")

// SessionOptions control how a session seeds customers.
type SessionOptions struct {
	// Retries is how many generation attempts are made per customer.
	Retries int
	// Fallback substitutes FallbackCustomer once all attempts failed.
	Fallback bool
	// Similarity embeds each request and reports how close the evaluated
	// description lands to it. Costs one embedding call per customer and
	// one per evaluation.
	Similarity bool
}

// Session is the state of one game: the current customer, the door, the
// placement list and the evaluation slot.
//
// A Session is driven from a single goroutine (the UI loop). Only the
// evaluation result crosses goroutines, through the Evaluator.
type Session struct {
	ID   string
	Room models.RoomSize

	engine *Engine
	opts   SessionOptions
	eval   Evaluator

	customer models.Customer
	door     models.Point
	placed   []models.PlacedItem
}

// NewSession seeds the first customer. It fails only when no customer at all
// can be produced.
func NewSession(ctx context.Context, eng *Engine, room models.RoomSize, opts SessionOptions) (*Session, error) {
	if opts.Retries < 1 {
		opts.Retries = 1
	}
	s := &Session{
		ID:     uuid.NewString(),
		Room:   room,
		engine: eng,
		opts:   opts,
	}

	c, err := s.GenerateCustomer(ctx)
	if err != nil {
		return nil, err
	}
	s.customer = c
	s.door = eng.RandomDoor(room)
	s.log().WithField("persona", c.Persona.Name).Info("session started")
	return s, nil
}

func (s *Session) log() *logrus.Entry {
	return logger.Log.WithField("session", s.ID)
}

// Engine returns the engine backing the session.
func (s *Session) Engine() *Engine {
	return s.engine
}

// Customer returns the current customer.
func (s *Session) Customer() models.Customer {
	return s.customer
}

// Door returns the door cell.
func (s *Session) Door() models.Point {
	return s.door
}

// Placed returns a copy of the placement list.
func (s *Session) Placed() []models.PlacedItem {
	out := make([]models.PlacedItem, len(s.placed))
	copy(out, s.placed)
	return out
}

// Phase returns the evaluation phase.
func (s *Session) Phase() Phase {
	return s.eval.Phase()
}

// Result returns the published evaluation result, if any.
func (s *Session) Result() (models.EvaluationResult, bool) {
	return s.eval.Result()
}

// Evaluations returns how many evaluations this session has started.
func (s *Session) Evaluations() int {
	return s.eval.Runs()
}

func (s *Session) editable() error {
	switch s.eval.Phase() {
	case PhaseEvaluating:
		return ErrBusy
	case PhasePopup:
		return ErrPopupOpen
	default:
		return nil
	}
}

// Place adds item at pos with rotation rot.
func (s *Session) Place(item models.ItemDefinition, pos models.Point, rot models.Rotation) error {
	if err := s.editable(); err != nil {
		return err
	}
	cand := models.PlacedItem{Item: item, Position: pos, Rotation: rot}
	if err := layout.Check(cand, s.placed, s.Room, &s.door); err != nil {
		return err
	}
	s.placed = append(s.placed, cand)
	return nil
}

// RemoveAt removes the topmost item covering pos. ok is false when there is
// nothing there.
func (s *Session) RemoveAt(pos models.Point) (removed models.PlacedItem, ok bool, err error) {
	if err := s.editable(); err != nil {
		return models.PlacedItem{}, false, err
	}
	i := layout.ItemAt(s.placed, pos)
	if i < 0 {
		return models.PlacedItem{}, false, nil
	}
	removed = s.placed[i]
	s.placed = append(s.placed[:i:i], s.placed[i+1:]...)
	return removed, true, nil
}

// Evaluate starts a background evaluation of the current layout. The
// placement list is captured by value now. ok is false when an evaluation is
// already running or its result is still displayed.
func (s *Session) Evaluate(ctx context.Context) (<-chan models.EvaluationResult, bool) {
	customer := s.customer
	snapshot := s.Placed()
	room := s.Room

	similarity := s.opts.Similarity

	done, ok := s.eval.Start(ctx, func(ctx context.Context) models.EvaluationResult {
		res := s.engine.Evaluate(ctx, customer, snapshot, room)
		if similarity && len(customer.Embedding) > 0 {
			sim, err := s.engine.MatchRequest(ctx, customer.Embedding, res.Description)
			if err != nil {
				s.log().WithError(err).Debug("similarity unavailable")
			} else {
				res.Similarity = &sim
			}
		}
		return res
	})
	if ok {
		s.log().WithField("items", len(snapshot)).Info("evaluation started")
	}
	return done, ok
}

// ResetLayout clears the placements and any displayed result while keeping
// the customer.
func (s *Session) ResetLayout() error {
	if err := s.eval.Clear(); err != nil {
		return err
	}
	s.placed = nil
	s.log().Info("layout reset")
	return nil
}

// GenerateCustomer produces a customer for this session without changing
// it: up to Retries generation attempts, then the fallback customer when
// enabled. With Similarity on, the request is embedded when the gateway
// allows it. It may run off the UI goroutine.
func (s *Session) GenerateCustomer(ctx context.Context) (models.Customer, error) {
	var (
		c   models.Customer
		err error
	)
	for attempt := 1; attempt <= s.opts.Retries; attempt++ {
		c, err = s.engine.GenerateCustomer(ctx)
		if err == nil {
			break
		}
		s.log().WithError(err).WithField("attempt", attempt).Warn("customer generation failed")
		if ctx.Err() != nil {
			break
		}
	}
	if err != nil {
		if !s.opts.Fallback {
			return models.Customer{}, err
		}
		s.log().Warn("using fallback customer")
		c = s.engine.FallbackCustomer()
	}

	if !s.opts.Similarity {
		return c, nil
	}
	vec, embedErr := s.engine.Gateway().Embed(ctx, c.Request)
	if embedErr != nil {
		s.log().WithError(embedErr).Debug("request embedding unavailable")
	} else {
		c.Embedding = vec
	}
	return c, nil
}

// SwitchCustomer installs c as the new customer and starts over: the layout
// and any result are cleared and a new door is drawn. Refused while an
// evaluation is running.
func (s *Session) SwitchCustomer(c models.Customer) error {
	if err := s.eval.Clear(); err != nil {
		return err
	}
	s.customer = c
	s.placed = nil
	s.door = s.engine.RandomDoor(s.Room)
	s.log().WithField("persona", c.Persona.Name).Info("new customer")
	return nil
}

// NewCustomer generates and installs a new customer. When generation fails
// the session is left unchanged.
func (s *Session) NewCustomer(ctx context.Context) error {
	if s.eval.Phase() == PhaseEvaluating {
		return ErrBusy
	}
	c, err := s.GenerateCustomer(ctx)
	if err != nil {
		return err
	}
	return s.SwitchCustomer(c)
}
