package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"heroleague/internal/analytics"
	"heroleague/internal/auth"
	"heroleague/internal/entrants"
	"heroleague/internal/events"
	"heroleague/internal/heroes"
	"heroleague/internal/live"
	"heroleague/internal/matches"
	"heroleague/pkg/config"
	"heroleague/pkg/database"
	"heroleague/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel)

	dbCfg := database.DefaultConfig()
	if cfg.DBPath != "" {
		dbCfg.Path = cfg.DBPath
	}
	db := database.MustOpen(dbCfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("db migrate failed")
	}

	router := gin.Default()
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	hub := live.NewHub()
	router.GET("/ws", live.WSHandler(hub, log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": dbCfg.Path})
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":     "not_ready",
				"db_error":   err.Error(),
				"ws_clients": hub.Count(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":     "ready",
			"db":         "ok",
			"ws_clients": hub.Count(),
		})
	})

	// Hero catalog (public)
	heroRepo := heroes.NewRepo(db)
	directory := heroes.NewClient(cfg.HeroAPIURL, cfg.HeroAPIKey, cfg.HeroAPITimeout)
	heroSvc := heroes.NewService(heroRepo, directory, log)
	heroes.NewHandler(heroSvc).RegisterRoutes(router.Group("/heroes"))

	// Auth
	tokenSvc := auth.TokenService{
		Secret:   []byte(cfg.JWTSecret),
		Issuer:   cfg.JWTIssuer,
		Duration: cfg.JWTTTL,
	}
	authRepo := auth.NewRepo(db)
	authHandler := auth.NewHandler(authRepo, tokenSvc)
	authHandler.RegisterRoutes(router.Group("/auth"))
	authHandler.RegisterUserRoutes(router.Group("/users"))

	// Tournament reads are public; only writes require a bearer token.
	requireAuth := auth.Middleware(tokenSvc, authRepo)

	eventRepo := events.NewRepo(db)
	entrantRepo := entrants.NewRepo(db)
	matchRepo := matches.NewRepo(db)

	entrants.NewHandler(entrantRepo, heroRepo).RegisterRoutes(router.Group("/entrants"), requireAuth)
	matches.NewHandler(matchRepo, hub).RegisterRoutes(router.Group("/matches"), requireAuth)
	events.NewHandler(eventRepo, entrantRepo, matchRepo).RegisterRoutes(router.Group("/events"), requireAuth)
	analytics.NewHandler(analytics.NewRepo(db)).RegisterRoutes(router.Group("/analytics"))

	httpSrv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("http server listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		log.Error().Err(err).Msg("server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown error")
	}
	log.Info().Msg("server stopped")
}
