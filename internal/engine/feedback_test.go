package engine

import (
	"context"
	"testing"

	"github.com/WindyAle/Welcome-to-my/internal/gateway"
	"github.com/WindyAle/Welcome-to-my/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanFeedback(t *testing.T) {
	tests := []struct {
		name, raw, marker, want string
	}{
		{"plain", "  중앙이 시원하네요.  ", "Translation", "중앙이 시원하네요."},
		{"quoted", `"책장이 없어서 아쉬워요."`, "Translation", "책장이 없어서 아쉬워요."},
		{"translation leak", "소파가 없네요!\n\nTranslation: There is no sofa!", "Translation", "소파가 없네요!"},
		{"no marker configured", "A. Translation: B", "", "A. Translation: B"},
		{"single char marker over-truncates", "좋아요 TV도 있네요", "T", "좋아요"},
		{"only leak", "Translation: nothing", "Translation", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanFeedback(tt.raw, tt.marker))
		})
	}
}

func TestFeedback(t *testing.T) {
	ctx := context.Background()
	persona := models.Persona{Name: "박준혁", Tendency: "효율 중시", Tone: "직설", Job: "개발자"}
	wishlist := []string{"컴퓨터", "책장", "전등"}

	t.Run("persona voice", func(t *testing.T) {
		gw := gateway.Reply("\"컴퓨터는 있는데 책장이 없네요. 2.5점.\"\nTranslation: ...")
		eng := newTestEngine(t, gw, Options{FeedbackMarker: "Translation"})

		got := eng.Feedback(ctx, persona, "밤에 조용히 작업할 곳", wishlist, "묘사", 2.5)
		assert.Equal(t, "컴퓨터는 있는데 책장이 없네요. 2.5점.", got)

		calls := gw.Calls()
		require.Len(t, calls, 1)
		assert.Contains(t, calls[0].System, "박준혁")
		assert.Contains(t, calls[0].System, "직설")
		assert.Contains(t, calls[0].User, "2.5 / 5.0")
		assert.Contains(t, calls[0].User, "컴퓨터, 책장, 전등")
		assert.Contains(t, calls[0].User, "밤에 조용히 작업할 곳")
	})

	t.Run("gateway failure", func(t *testing.T) {
		eng := newTestEngine(t, gateway.Offline{}, Options{})
		assert.Equal(t, FallbackFeedback, eng.Feedback(ctx, persona, "req", wishlist, "desc", 1.0))
	})

	t.Run("empty after cleanup", func(t *testing.T) {
		eng := newTestEngine(t, gateway.Reply("Translation: only english"), Options{FeedbackMarker: "Translation"})
		assert.Equal(t, FallbackFeedback, eng.Feedback(ctx, persona, "req", wishlist, "desc", 1.0))
	})

	t.Run("empty wishlist wording", func(t *testing.T) {
		gw := gateway.Reply("좋네요")
		eng := newTestEngine(t, gw, Options{})
		eng.Feedback(ctx, persona, "req", nil, "desc", 4.0)
		assert.Contains(t, gw.Calls()[0].User, "특별히 없음")
	})
}
