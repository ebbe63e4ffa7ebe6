package main

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"heroleague/internal/auth"
	"heroleague/internal/entrants"
	"heroleague/internal/events"
	"heroleague/internal/heroes"
	"heroleague/internal/matches"
	"heroleague/pkg/config"
	"heroleague/pkg/database"
	"heroleague/pkg/logging"
	"heroleague/pkg/models"
)

// seed loads a small demo tournament: two events, four entrants on a demo
// hero, a couple of matches, plus one admin and one regular user. Safe to
// re-run against an empty database only.
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
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

	userRepo := auth.NewRepo(db)
	seedUser := func(username, email, password string, admin bool) string {
		existing, err := userRepo.GetByEmail(ctx, email)
		if err != nil {
			log.Fatal().Err(err).Str("email", email).Msg("user lookup failed")
		}
		if existing != nil {
			return existing.ID
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal().Err(err).Msg("hash password failed")
		}
		u := auth.User{
			ID:           uuid.NewString(),
			Username:     username,
			Email:        email,
			PasswordHash: string(hash),
			IsAdmin:      admin,
		}
		if err := userRepo.CreateUser(ctx, u); err != nil {
			log.Fatal().Err(err).Str("email", email).Msg("create user failed")
		}
		return u.ID
	}

	adminID := seedUser("admin", "admin@example.com", "admin", true)
	demoID := seedUser("demo_user", "demo@example.com", "password123", false)

	// Demo hero so entrant hero_id FKs resolve without any upstream call.
	heroRepo := heroes.NewRepo(db)
	demoHeroID := 999
	if err := heroRepo.Upsert(ctx, models.Hero{
		ID:        demoHeroID,
		Name:      "Demo Hero",
		Alignment: models.AlignmentUnknown,
		Image:     "http://demo-hero.jpg",
	}); err != nil {
		log.Fatal().Err(err).Msg("seed hero failed")
	}

	eventRepo := events.NewRepo(db)
	spring, err := eventRepo.Create(ctx, models.Event{
		Name:   "Spring Invitational",
		Date:   "2026-04-11",
		Rules:  "single elimination, best of 3",
		Status: models.EventPublished,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("seed event failed")
	}
	if _, err := eventRepo.Create(ctx, models.Event{
		Name:   "Summer Open",
		Date:   "2026-07-18",
		Status: models.EventDrafting,
	}); err != nil {
		log.Fatal().Err(err).Msg("seed event failed")
	}

	entrantRepo := entrants.NewRepo(db)
	seedEntrant := func(name, alias, userID string) *models.Entrant {
		e, err := entrantRepo.Create(ctx, models.Entrant{
			Name:    name,
			Alias:   alias,
			EventID: spring.ID,
			UserID:  userID,
			HeroID:  &demoHeroID,
		})
		if err != nil {
			log.Fatal().Err(err).Str("name", name).Msg("seed entrant failed")
		}
		return e
	}
	e1 := seedEntrant("Nightshade", "Vale Moreau", adminID)
	e2 := seedEntrant("Ironclad", "Rhea Stanton", demoID)
	e3 := seedEntrant("Quickstep", "Milo Abara", "")
	e4 := seedEntrant("Warden", "Iris Kato", "")

	matchRepo := matches.NewRepo(db)
	round1 := 1
	if _, err := matchRepo.Create(ctx, models.Match{
		EventID:    spring.ID,
		Round:      &round1,
		Entrant1ID: &e1.ID,
		Entrant2ID: &e2.ID,
		Scores:     "2-1",
		WinnerID:   &e1.ID,
	}); err != nil {
		log.Fatal().Err(err).Msg("seed match failed")
	}
	if _, err := matchRepo.Create(ctx, models.Match{
		EventID:    spring.ID,
		Round:      &round1,
		Entrant1ID: &e3.ID,
		Entrant2ID: &e4.ID,
	}); err != nil {
		log.Fatal().Err(err).Msg("seed match failed")
	}

	log.Info().Str("db", dbCfg.Path).Msg("seeded 2 events, 4 entrants, 2 matches, admin and demo users, demo hero")
}
