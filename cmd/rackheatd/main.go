// Command rackheatd serves the data-center floor heat map: layout storage,
// synthetic telemetry, periodic field recomputation, and the HTTP API the
// renderer pulls from.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/talgya/rackheat/internal/api"
	"github.com/talgya/rackheat/internal/engine"
	"github.com/talgya/rackheat/internal/layout"
	"github.com/talgya/rackheat/internal/persistence"
	"github.com/talgya/rackheat/internal/telemetry"
	"github.com/talgya/rackheat/internal/thermal"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("rackheat: data-center floor heat map")

	dbPath := envStr("RACKHEAT_DB", "data/rackheat.db")
	apiPort := envInt("RACKHEAT_PORT", 8080)
	seed := int64(envInt("RACKHEAT_SEED", 42))
	segments := envInt("RACKHEAT_SEGMENTS", layout.DefaultSegments)

	policy, err := thermal.ParsePolicy(os.Getenv("RACKHEAT_POLICY"))
	if err != nil {
		slog.Error("bad config", "error", err)
		os.Exit(1)
	}
	falloff, err := thermal.ParseFalloff(os.Getenv("RACKHEAT_FALLOFF"))
	if err != nil {
		slog.Error("bad config", "error", err)
		os.Exit(1)
	}
	mapping, err := thermal.ParseMapping(os.Getenv("RACKHEAT_MAPPING"))
	if err != nil {
		slog.Error("bad config", "error", err)
		os.Exit(1)
	}

	// ── Database ──────────────────────────────────────────────────────
	os.MkdirAll("data", 0755)
	db, err := persistence.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", dbPath)

	if !db.HasLayout() {
		slog.Info("no stored layout, seeding demo machine room")
		if err := db.SeedDemo(); err != nil {
			slog.Error("demo seed failed", "error", err)
			os.Exit(1)
		}
	}

	racks, err := db.LoadRacks()
	if err != nil {
		slog.Error("failed to load racks", "error", err)
		os.Exit(1)
	}
	emitters, err := db.LoadEmitters()
	if err != nil {
		slog.Error("failed to load emitters", "error", err)
		os.Exit(1)
	}

	// ── Thermal pipeline ──────────────────────────────────────────────
	floor := layout.DefaultFloor()
	floor.Segments = segments
	gridPoints := (segments + 1) * (segments + 1)

	slog.Info("floor ready",
		"racks", len(racks),
		"emitters", len(emitters),
		"grid_points", humanize.Comma(int64(gridPoints)),
		"policy", policy.String(),
		"falloff", falloff.String(),
		"mapping", mapping.String(),
	)

	feed := telemetry.NewFeed(seed, emitters)
	mon := engine.NewMonitor(feed, racks, floor, thermal.Options{
		Policy:  policy,
		Falloff: falloff,
	})

	// First snapshot before the API opens, so readers never see an empty map.
	mon.Step(0)

	eng := engine.NewEngine()
	eng.OnTick = mon.Step

	// ── HTTP API ──────────────────────────────────────────────────────
	adminKey := os.Getenv("RACKHEAT_ADMIN_KEY")
	if adminKey == "" {
		slog.Warn("RACKHEAT_ADMIN_KEY not set, admin POST endpoints will be disabled")
	}

	apiServer := &api.Server{
		Mon:      mon,
		Eng:      eng,
		DB:       db,
		Port:     apiPort,
		AdminKey: adminKey,
		Mapping:  mapping,
	}
	apiServer.Start()

	// ── Start ─────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		eng.Stop()
	}()

	fmt.Printf("\nrackheat is live: %d racks, %d emitters, %s floor vertices.\n",
		len(racks), len(emitters), humanize.Comma(int64(gridPoints)))
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", apiPort)
	fmt.Println("Recomputing on change... (Ctrl+C to stop)")

	eng.Run()

	fmt.Println("rackheatd stopped.")
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		slog.Warn("ignoring bad numeric env value", "key", key, "value", v)
	}
	return fallback
}
