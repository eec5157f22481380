package engine

import (
	"context"
	"strings"

	"github.com/WindyAle/Welcome-to-my/internal/models"
	"github.com/WindyAle/Welcome-to-my/pkg/logger"
	"github.com/sirupsen/logrus"
)

// FallbackFeedback is shown when the customer has nothing usable to say.
const FallbackFeedback = "No comment"

// CleanFeedback trims raw model output into displayable feedback. Text from
// the first occurrence of marker on is dropped, since some models append a
// translation of their answer after such a marker.
//
// TODO: the marker is matched as a bare substring; ask models for an
// explicit closing tag instead so in-language text containing the marker
// survives.
func CleanFeedback(raw, marker string) string {
	text := strings.TrimSpace(raw)
	if marker != "" {
		if i := strings.Index(text, marker); i >= 0 {
			text = text[:i]
		}
	}
	return stripQuotes(text)
}

// Feedback asks the persona to explain the score in its own voice. It never
// fails: any problem yields FallbackFeedback.
func (e *Engine) Feedback(ctx context.Context, persona models.Persona, request string, wishlist []string, description string, score float64) string {
	log := logger.Log.WithFields(logrus.Fields{
		"component": "feedback",
		"persona":   persona.Name,
	})

	system, err := render("feedback_system", feedbackSystemPrompt, struct{ Persona models.Persona }{persona})
	if err != nil {
		log.WithError(err).Error("feedback prompt")
		return FallbackFeedback
	}
	user, err := render("feedback_user", feedbackUserPrompt, struct {
		Request     string
		Wishlist    string
		Description string
		Score       float64
	}{request, joinNames(wishlist, "특별히 없음"), description, score})
	if err != nil {
		log.WithError(err).Error("feedback prompt")
		return FallbackFeedback
	}

	raw, err := e.gw.Chat(ctx, system, user)
	if err != nil {
		log.WithError(err).Warn("feedback call failed")
		return FallbackFeedback
	}

	text := CleanFeedback(raw, e.opts.FeedbackMarker)
	if text == "" || strings.Contains(text, alarmMarker) {
		log.WithField("raw", raw).Warn("feedback unusable")
		return FallbackFeedback
	}
	return text
}
