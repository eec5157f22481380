package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"time"

	"github.com/WindyAle/Welcome-to-my/internal/catalog"
	"github.com/WindyAle/Welcome-to-my/internal/config"
	"github.com/WindyAle/Welcome-to-my/internal/engine"
	"github.com/WindyAle/Welcome-to-my/internal/gateway"
	"github.com/WindyAle/Welcome-to-my/internal/models"
	"github.com/WindyAle/Welcome-to-my/pkg/logger"
)

const evalTimeout = 3 * time.Minute

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "random seed")
	rounds := flag.Int("rounds", 1, "number of customers to serve")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	gw, err := gateway.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create gateway: %v", err)
	}
	defer gateway.Close(gw)

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}
	personas, err := catalog.LoadPersonas(cfg.PersonasPath)
	if err != nil {
		log.Fatalf("Failed to load personas: %v", err)
	}

	eng, err := engine.NewEngine(gw, cat, personas, rand.New(rand.NewPCG(*seed, 0)), engine.Options{
		Naturalize:     cfg.Naturalize,
		FeedbackMarker: cfg.FeedbackMarker,
	})
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}

	room := models.RoomSize{Width: cfg.RoomWidth, Height: cfg.RoomHeight}

	// 1. Seat the first customer
	fmt.Println("--- Step 1: Waiting for a customer ---")
	session, err := engine.NewSession(ctx, eng, room, engine.SessionOptions{
		Retries:    cfg.RequestRetries,
		Fallback:   cfg.FallbackRequest,
		Similarity: true,
	})
	if err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}

	for round := 1; round <= *rounds; round++ {
		if round > 1 {
			if err := session.NewCustomer(ctx); err != nil {
				fmt.Printf("Could not seat a new customer: %v\n", err)
				break
			}
		}
		playRound(ctx, session, round)
	}
}

func playRound(ctx context.Context, session *engine.Session, round int) {
	c := session.Customer()
	fmt.Printf("=== Round %d ===\n", round)
	fmt.Printf("Customer: %s (%s)\n", c.Persona.Name, c.Persona.Job)
	fmt.Printf("Request: %s\n", c.Request)
	fmt.Printf("Secret wishlist: %v\n", c.Wishlist)
	fmt.Printf("Door: %s\n\n", session.Door())

	// 2. Furnish the room with the wishlist
	fmt.Println("--- Step 2: Furnishing ---")
	cat := session.Engine().Catalog()
	for _, name := range c.Wishlist {
		item, ok := cat.Lookup(name)
		if !ok {
			fmt.Printf("Unknown item %q, skipped\n", name)
			continue
		}
		pos, rot, ok := placeFirstFree(session, item)
		if !ok {
			fmt.Printf("No room left for %s\n", name)
			continue
		}
		fmt.Printf("Placed %s at %s (rotation %d)\n", name, pos, rot)
	}

	facts := engine.Analyze(session.Placed(), session.Room)
	fmt.Printf("\nFacts:\n%s\n\n", facts.Report())

	// 3. Evaluate
	fmt.Println("--- Step 3: Evaluating ---")
	done, ok := session.Evaluate(ctx)
	if !ok {
		fmt.Println("Evaluation refused")
		return
	}

	var res models.EvaluationResult
	select {
	case res = <-done:
	case <-time.After(evalTimeout):
		fmt.Println("Evaluation timed out")
		return
	}

	fmt.Printf("Score: %.1f / 5.0\n", res.Score)
	fmt.Printf("Description: %s\n", res.Description)
	fmt.Printf("Feedback: %s\n", res.Feedback)
	if res.Similarity != nil {
		fmt.Printf("Similarity: %.2f / 5.0\n", *res.Similarity)
	} else {
		fmt.Println("Similarity: n/a")
	}
	fmt.Println()

	if err := session.ResetLayout(); err != nil {
		fmt.Printf("Reset failed: %v\n", err)
	}
}

// placeFirstFree scans the room row by row and places item at the first
// position where it fits, trying both rotations.
func placeFirstFree(session *engine.Session, item models.ItemDefinition) (models.Point, models.Rotation, bool) {
	for y := range session.Room.Height {
		for x := range session.Room.Width {
			pos := models.Point{X: x, Y: y}
			for _, rot := range []models.Rotation{models.Rotation0, models.Rotation90} {
				if session.Place(item, pos, rot) == nil {
					return pos, rot, true
				}
			}
		}
	}
	return models.Point{}, models.Rotation0, false
}
