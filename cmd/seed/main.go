package main

import (
	"context"
	"flag"
	"log"
	"strconv"
	"strings"

	"design-memory-be/internal/config"
	"design-memory-be/internal/pkg/logger"
	"design-memory-be/internal/repository/unitofwork"
	"design-memory-be/internal/seed"
	"design-memory-be/pkg/database"
	"design-memory-be/pkg/memory/history"
	"design-memory-be/pkg/memory/learning"
)

func main() {
	email := flag.String("email", "", "email of the user to seed the demo story for (created if missing)")
	name := flag.String("name", "Demo User", "display name used when the user is created")
	steps := flag.String("steps", "", "comma separated follow-up steps to run after seeding, e.g. 2,3,4")
	flag.Parse()

	if *email == "" {
		log.Fatal("Error: --email is required")
	}

	cfg := config.Load()
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Error: Failed to connect to database: %v", err)
	}

	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	defer sysLogger.Sync()

	ctx := context.Background()
	demo := seed.NewDemo(unitofwork.NewRepositoryFactory(db), history.NewStore(learning.NewLearner()), sysLogger)

	user, err := demo.EnsureUser(ctx, *email, *name)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	res, err := demo.Seed(ctx, user.Id)
	if err != nil {
		log.Fatalf("Error: Seed failed: %v", err)
	}
	log.Printf("Seeded project %s (version %s, %d images) for %s", res.ProjectId, res.VersionId, len(res.ImageIds), user.Email)

	for _, raw := range strings.Split(*steps, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			log.Fatalf("Error: invalid step %q", raw)
		}
		step, err := demo.RunStep(ctx, user.Id, n)
		if err != nil {
			log.Fatalf("Error: step %d failed: %v", n, err)
		}
		log.Printf("Step %d: project %s version %s (%q)", step.Step, step.ProjectId, step.VersionId, step.Message)
	}
}
