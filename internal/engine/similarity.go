package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// Similarity maps the cosine similarity of two embeddings onto a 0-5 scale:
// opposite vectors score 0, identical directions score 5.
func Similarity(a, b []float32) (float64, error) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, errors.New("similarity: vectors must be non-empty and the same length")
	}

	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0, errors.New("similarity: zero vector")
	}

	cos := dot / (math.Sqrt(na) * math.Sqrt(nb))
	return (cos + 1) / 2 * 5, nil
}

// MatchRequest embeds description and scores it against the request
// embedding. It is a diagnostic next to the judge score, not part of it.
func (e *Engine) MatchRequest(ctx context.Context, request []float32, description string) (float64, error) {
	if len(request) == 0 {
		return 0, errors.New("similarity: request was not embedded")
	}
	vec, err := e.gw.Embed(ctx, description)
	if err != nil {
		return 0, fmt.Errorf("embed description: %w", err)
	}
	return Similarity(request, vec)
}
