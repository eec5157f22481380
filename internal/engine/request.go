package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/WindyAle/Welcome-to-my/internal/models"
	"github.com/WindyAle/Welcome-to-my/pkg/logger"
	"github.com/sirupsen/logrus"
)

// ErrRequestGeneration means no usable customer request could be produced.
// Unlike judge or feedback failures it is returned to the caller, since a
// session without a request has no premise.
var ErrRequestGeneration = errors.New("request generation failed")

// Wishlist size bounds, inclusive.
const (
	minWishlist = 3
	maxWishlist = 5
)

// SampleWishlist draws 3 to 5 distinct catalog names, never more than the
// catalog holds (NewEngine guarantees at least 3). It never touches the
// gateway, so the wishlist is well formed even when generation fails later.
func (e *Engine) SampleWishlist() []string {
	names := e.catalog.Names()

	e.mu.Lock()
	k := minWishlist + e.rnd.IntN(maxWishlist-minWishlist+1)
	perm := e.rnd.Perm(len(names))
	e.mu.Unlock()

	if k > len(names) {
		k = len(names)
	}
	wishlist := make([]string, k)
	for i := range wishlist {
		wishlist[i] = names[perm[i]]
	}
	return wishlist
}

// PickPersona selects a persona uniformly, with replacement across calls.
func (e *Engine) PickPersona() models.Persona {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.personas[e.rnd.IntN(len(e.personas))]
}

// GenerateCustomer samples a wishlist and a persona and asks the gateway for
// an oblique request in the persona's voice. Exactly one chat call is made;
// retrying is the caller's business.
func (e *Engine) GenerateCustomer(ctx context.Context) (models.Customer, error) {
	wishlist := e.SampleWishlist()
	persona := e.PickPersona()

	log := logger.Log.WithFields(logrus.Fields{
		"component": "request",
		"persona":   persona.Name,
		"wishlist":  wishlist,
	})
	log.Debug("generating customer request")

	system, err := render("request_system", requestSystemPrompt, struct {
		Persona  models.Persona
		Wishlist string
	}{persona, strings.Join(wishlist, ", ")})
	if err != nil {
		return models.Customer{}, fmt.Errorf("%w: %w", ErrRequestGeneration, err)
	}

	raw, err := e.gw.Chat(ctx, system, requestUserPrompt)
	if err != nil {
		log.WithError(err).Warn("request chat failed")
		return models.Customer{}, fmt.Errorf("%w: %w", ErrRequestGeneration, err)
	}

	request := stripQuotes(raw)
	if request == "" || strings.Contains(request, alarmMarker) {
		log.WithField("raw", raw).Warn("request text unusable")
		return models.Customer{}, fmt.Errorf("%w: unusable model output %q", ErrRequestGeneration, raw)
	}

	log.WithField("request", request).Info("customer request generated")
	return models.Customer{
		Persona:  persona,
		Wishlist: wishlist,
		Request:  request,
	}, nil
}

// Fallback customer used when generation keeps failing.
var (
	fallbackWishlist = []string{"작은 소파", "테이블"}
	fallbackRequest  = "저는 아늑한 스타일의 거실을 원해요. 편안히 기댈 곳과 찻잔을 둘 곳이 필요합니다."
)

// FallbackCustomer returns the fixed substitute customer with a random
// persona. Wishlist names missing from the catalog are dropped.
func (e *Engine) FallbackCustomer() models.Customer {
	var wishlist []string
	for _, name := range fallbackWishlist {
		if _, ok := e.catalog.Lookup(name); ok {
			wishlist = append(wishlist, name)
		}
	}
	return models.Customer{
		Persona:  e.PickPersona(),
		Wishlist: wishlist,
		Request:  fallbackRequest,
	}
}
