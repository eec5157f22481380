package engine

import (
	"context"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/WindyAle/Welcome-to-my/internal/models"
	"github.com/WindyAle/Welcome-to-my/pkg/logger"
	"github.com/sirupsen/logrus"
)

// MissingItemPenalty is subtracted per wishlist item absent from the room.
const MissingItemPenalty = 0.5

var scorePattern = regexp.MustCompile(`\d\.\d`)

// ParseScore extracts a score from a judge response. The first token that
// looks like d.d wins; otherwise the whole trimmed response must parse as a
// float. ok is false when neither works.
func ParseScore(raw string) (score float64, ok bool) {
	if m := scorePattern.FindString(raw); m != "" {
		v, err := strconv.ParseFloat(m, 64)
		if err == nil {
			return v, true
		}
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// MissingItems returns the wishlist names, in wishlist order, that do not
// match any placed item name exactly.
//
// The match is verbatim: a wishlist entry with a generic name never matches
// a variant such as "작은 소파". Wishlists sampled from the catalog use the
// catalog's own names, so this only bites for hand-made wishlists.
func MissingItems(wishlist []string, placed []models.PlacedItem) []string {
	names := models.PlacedNames(placed)
	var missing []string
	for _, want := range wishlist {
		if _, ok := names[want]; !ok {
			missing = append(missing, want)
		}
	}
	return missing
}

// ApplyPenalty subtracts the missing-item penalty and floors the result at 0.
// No ceiling is applied; the judge is trusted to stay within 5.0.
func ApplyPenalty(base float64, missing int) float64 {
	return math.Max(0, base-MissingItemPenalty*float64(missing))
}

// Score judges the layout against the request and the secret wishlist and
// returns the final score together with the description it judged, so the
// feedback step can reuse it. A failed or unparseable judge call counts as a
// base score of 0.
func (e *Engine) Score(ctx context.Context, request string, wishlist []string, placed []models.PlacedItem, room models.RoomSize) (float64, string) {
	description := e.Describe(ctx, placed, room)
	base := e.judge(ctx, request, wishlist, description)

	missing := MissingItems(wishlist, placed)
	final := ApplyPenalty(base, len(missing))

	logger.Log.WithFields(logrus.Fields{
		"component": "judge",
		"base":      base,
		"missing":   missing,
		"final":     final,
	}).Info("layout scored")
	return final, description
}

func (e *Engine) judge(ctx context.Context, request string, wishlist []string, description string) float64 {
	log := logger.Log.WithField("component", "judge")

	user, err := render("judge_user", judgeUserPrompt, struct {
		Request     string
		Wishlist    string
		Description string
	}{request, joinNames(wishlist, "없음"), description})
	if err != nil {
		log.WithError(err).Error("judge prompt")
		return 0
	}

	raw, err := e.gw.Chat(ctx, judgeSystemPrompt, user)
	if err != nil {
		log.WithError(err).Warn("judge call failed, base score 0")
		return 0
	}

	base, ok := ParseScore(raw)
	if !ok {
		log.WithField("raw", raw).Warn("judge response has no score, base score 0")
		return 0
	}
	return base
}
