package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"heroleague/internal/heroes"
	"heroleague/pkg/config"
	"heroleague/pkg/database"
	"heroleague/pkg/logging"
)

// hero-sync warms the local hero cache by running upstream searches for a
// comma-separated list of terms and upserting every result. Records that
// fail to normalize or store are skipped, not fatal.
func main() {
	terms := flag.String("terms", "batman,superman,spider,hulk,wonder", "comma-separated search terms")
	timeout := flag.Duration("timeout", 120*time.Second, "overall run timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	dbCfg := database.DefaultConfig()
	if cfg.DBPath != "" {
		dbCfg.Path = cfg.DBPath
	}
	db := database.MustOpen(dbCfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("db migrate failed")
	}

	repo := heroes.NewRepo(db)
	client := heroes.NewClient(cfg.HeroAPIURL, cfg.HeroAPIKey, cfg.HeroAPITimeout)

	stored, skipped := 0, 0
	for _, term := range strings.Split(*terms, ",") {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}

		raws, err := client.SearchByName(ctx, term)
		if err != nil {
			log.Error().Err(err).Str("term", term).Msg("search failed")
			continue
		}
		log.Info().Str("term", term).Int("results", len(raws)).Msg("search done")

		for _, raw := range raws {
			hero, err := heroes.Normalize(raw)
			if err != nil {
				log.Warn().Err(err).Str("term", term).Msg("skipping malformed record")
				skipped++
				continue
			}
			if err := repo.Upsert(ctx, hero); err != nil {
				log.Error().Err(err).Int("hero_id", hero.ID).Msg("upsert failed")
				skipped++
				continue
			}
			stored++
		}
	}

	log.Info().Int("stored", stored).Int("skipped", skipped).Str("db", dbCfg.Path).Msg("hero cache warmed")
}
