package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"space-dogfight/sim/internal/space"
	"space-dogfight/sim/logging"
	"space-dogfight/sim/logging/sinks"
)

func main() {
	configPath := flag.String("config", "", "optional config file (yaml/json/toml)")
	duration := flag.Duration("duration", 0, "stop after this long (0 runs until interrupted)")
	seed := flag.Int64("seed", 0, "override the RNG seed")
	flag.Parse()

	cfg, err := loadWorldConfig(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	router, cleanup, err := buildRouter(cfg.Logging)
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer cleanup()

	telemetry, err := newTelemetryCounters(nil)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}

	world, err := newWorld(cfg, router, telemetry)
	if err != nil {
		log.Fatalf("world: %v", err)
	}
	if err := spawnSkirmish(world); err != nil {
		log.Fatalf("spawn: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	runLoop(ctx, world, cfg.tickInterval())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := router.Close(shutdownCtx); err != nil {
		log.Printf("router close: %v", err)
	}
	stats := router.Stats()
	log.Printf("run complete: ticks=%d events=%d dropped=%d", world.Tick(), stats.EventsTotal, stats.DroppedTotal)
}

// buildRouter assembles the sinks the config enables. The returned cleanup
// closes the JSON sink's file handle after the router flushes.
func buildRouter(cfg logging.Config) (*logging.Router, func(), error) {
	var named []logging.NamedSink
	cleanup := func() {}

	if cfg.HasSink("console") {
		named = append(named, logging.NamedSink{
			Name: "console",
			Sink: sinks.NewConsole(os.Stdout, cfg.Console),
		})
	}
	if cfg.HasSink("json") && cfg.JSON.FilePath != "" {
		f, err := os.Create(cfg.JSON.FilePath)
		if err != nil {
			return nil, nil, err
		}
		named = append(named, logging.NamedSink{
			Name: "json",
			Sink: sinks.NewJSON(f, cfg.JSON.FlushInterval),
		})
		cleanup = func() { f.Close() }
	}

	return logging.NewRouter(nil, cfg, named), cleanup, nil
}

// spawnSkirmish seeds a small scripted engagement: one player fighter
// drifting toward a patrolled sector held by raiders and a sentry.
func spawnSkirmish(w *World) error {
	fighter, err := w.Spawn("fighter", space.Vec3{X: -400})
	if err != nil {
		return err
	}
	fighter.Vel = space.Vec3{X: fighter.CruiseSpeed * 0.25}

	anchor := space.Vec3{X: 300}
	if _, err := w.SpawnPatrolling("raider", anchor.Add(space.Vec3{Y: 80}), anchor); err != nil {
		return err
	}
	if _, err := w.SpawnPatrolling("raider", anchor.Add(space.Vec3{Y: -80}), anchor); err != nil {
		return err
	}
	if _, err := w.SpawnPatrolling("sentry", anchor.Add(space.Vec3{Z: 120}), anchor); err != nil {
		return err
	}

	w.EnqueueCommand(Command{Kind: CommandBoost, ActorID: fighter.ID, IssuedAt: time.Now()})
	return nil
}

// runLoop drives fixed-step frames until the context ends.
func runLoop(ctx context.Context, w *World, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	dt := interval.Seconds()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			w.Advance(now, dt)
		}
	}
}
