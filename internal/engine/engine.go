package engine

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"text/template"

	"github.com/WindyAle/Welcome-to-my/internal/catalog"
	"github.com/WindyAle/Welcome-to-my/internal/gateway"
	"github.com/WindyAle/Welcome-to-my/internal/layout"
	"github.com/WindyAle/Welcome-to-my/internal/models"
)

//go:embed prompts/request_system.txt
var requestSystemPrompt string

//go:embed prompts/request_user.txt
var requestUserPrompt string

//go:embed prompts/naturalize_system.txt
var naturalizeSystemPrompt string

//go:embed prompts/naturalize_user.txt
var naturalizeUserPrompt string

//go:embed prompts/judge_system.txt
var judgeSystemPrompt string

//go:embed prompts/judge_user.txt
var judgeUserPrompt string

//go:embed prompts/feedback_system.txt
var feedbackSystemPrompt string

//go:embed prompts/feedback_user.txt
var feedbackUserPrompt string

// alarmMarker shows up in text produced by a model server that failed.
const alarmMarker = "🚨"

// Options tune the evaluation pipeline.
type Options struct {
	// Naturalize rewrites the factual layout report into prose via the gateway.
	Naturalize bool
	// FeedbackMarker cuts feedback at its first occurrence. Empty disables it.
	FeedbackMarker string
}

// Engine runs customer generation and layout evaluation against a gateway.
// It is safe for concurrent use.
type Engine struct {
	gw       gateway.Gateway
	catalog  *catalog.Catalog
	personas []models.Persona
	opts     Options

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewEngine(gw gateway.Gateway, cat *catalog.Catalog, personas []models.Persona, rnd *rand.Rand, opts Options) (*Engine, error) {
	if gw == nil {
		gw = gateway.Offline{}
	}
	if cat == nil || cat.Len() == 0 {
		return nil, catalog.ErrEmptyCatalog
	}
	if cat.Len() < minWishlist {
		return nil, fmt.Errorf("%w: %d items, a wishlist needs %d", catalog.ErrCatalogTooSmall, cat.Len(), minWishlist)
	}
	if len(personas) == 0 {
		return nil, catalog.ErrEmptyRoster
	}
	if rnd == nil {
		return nil, errors.New("engine: nil random source")
	}

	return &Engine{
		gw:       gw,
		catalog:  cat,
		personas: personas,
		opts:     opts,
		rnd:      rnd,
	}, nil
}

// Catalog returns the furniture catalog the engine samples from.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Gateway returns the underlying language model gateway.
func (e *Engine) Gateway() gateway.Gateway {
	return e.gw
}

// RandomDoor picks a door position for room.
func (e *Engine) RandomDoor(room models.RoomSize) models.Point {
	e.mu.Lock()
	defer e.mu.Unlock()
	return layout.RandomDoor(e.rnd, room)
}

func render(name, text string, data any) (string, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", name, err)
	}
	return buf.String(), nil
}

// stripQuotes removes double quotes anywhere in s and trims the result.
// Models like to wrap answers in quotes; none of our outputs need them.
func stripQuotes(s string) string {
	s = strings.ReplaceAll(s, `"`, "")
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.Trim(s, "“”‘’'"))
}

func joinNames(names []string, empty string) string {
	if len(names) == 0 {
		return empty
	}
	return strings.Join(names, ", ")
}
