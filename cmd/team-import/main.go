package main

import (
	"context"
	"flag"
	"os"

	"crm_backend/internal/team"
	"crm_backend/platform/config"
	"crm_backend/platform/db"
	"crm_backend/platform/logger"
	"crm_backend/platform/validator"
)

func main() {
	file := flag.String("file", "roster.yaml", "YAML roster of sales team members")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting team import", "file", *file)

	f, err := os.Open(*file)
	if err != nil {
		log.Error("failed to open roster", "error", err)
		os.Exit(1)
	}
	defer f.Close()

	members, err := parseRoster(f, validator.New())
	if err != nil {
		log.Error("failed to read roster", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	repo := team.NewRepository(pool)
	created, updated := 0, 0
	for _, m := range members {
		member, inserted, err := repo.UpsertByEmail(ctx, m)
		if err != nil {
			log.Error("failed to import member", "email", m.Email, "error", err)
			continue
		}
		if inserted {
			created++
		} else {
			updated++
		}
		log.Info("member imported", "memberId", member.ID, "territory", member.Territory, "created", inserted)
	}

	log.Info("team import complete", "created", created, "updated", updated, "failed", len(members)-created-updated)
}
