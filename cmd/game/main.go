package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/WindyAle/Welcome-to-my/internal/catalog"
	"github.com/WindyAle/Welcome-to-my/internal/config"
	"github.com/WindyAle/Welcome-to-my/internal/engine"
	"github.com/WindyAle/Welcome-to-my/internal/gateway"
	"github.com/WindyAle/Welcome-to-my/internal/models"
	"github.com/WindyAle/Welcome-to-my/internal/tui"
	"github.com/WindyAle/Welcome-to-my/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file (default config.yaml)")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// The TUI owns the terminal, so logs go to a file.
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Printf("Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger.Init(cfg.LogLevel, cfg.LogFormat, logFile)

	gw, err := gateway.New(ctx, cfg)
	if err != nil {
		fmt.Printf("Error creating gateway: %v\n", err)
		os.Exit(1)
	}
	defer gateway.Close(gw)

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		fmt.Printf("Error loading catalog: %v\n", err)
		os.Exit(1)
	}
	personas, err := catalog.LoadPersonas(cfg.PersonasPath)
	if err != nil {
		fmt.Printf("Error loading personas: %v\n", err)
		os.Exit(1)
	}

	seed := uint64(time.Now().UnixNano())
	eng, err := engine.NewEngine(gw, cat, personas, rand.New(rand.NewPCG(seed, seed>>1)), engine.Options{
		Naturalize:     cfg.Naturalize,
		FeedbackMarker: cfg.FeedbackMarker,
	})
	if err != nil {
		fmt.Printf("Error creating engine: %v\n", err)
		os.Exit(1)
	}

	logger.Log.WithField("provider", cfg.Provider).Info("starting game")

	room := models.RoomSize{Width: cfg.RoomWidth, Height: cfg.RoomHeight}
	opts := engine.SessionOptions{
		Retries:    cfg.RequestRetries,
		Fallback:   cfg.FallbackRequest,
		Similarity: cfg.Similarity,
	}
	start := func(ctx context.Context) (*engine.Session, error) {
		return engine.NewSession(ctx, eng, room, opts)
	}

	if err := tui.Run(ctx, start); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
