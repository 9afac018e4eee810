package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pediclinic/pediclinic/internal/config"
	"github.com/pediclinic/pediclinic/internal/domain/patients"
	"github.com/pediclinic/pediclinic/internal/domain/pharmacy"
	"github.com/pediclinic/pediclinic/internal/domain/reports"
	"github.com/pediclinic/pediclinic/internal/domain/sales"
	"github.com/pediclinic/pediclinic/internal/domain/scheduling"
	"github.com/pediclinic/pediclinic/internal/domain/terminology"
	"github.com/pediclinic/pediclinic/internal/platform/auth"
	"github.com/pediclinic/pediclinic/internal/platform/cache"
	"github.com/pediclinic/pediclinic/internal/platform/db"
	"github.com/pediclinic/pediclinic/internal/platform/middleware"
)

// devJWTSecret signs tokens when no JWT_SECRET is configured in
// development. Config validation rejects this setup in production.
const devJWTSecret = "pediclinic-dev-secret-not-for-production-use"

// devAccessCode is the shared reception code used when neither
// ACCESS_CODE_HASH nor ACCESS_CODE is configured in development.
const devAccessCode = "1970"

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-server",
		Short: "Pediatric clinic and pharmacy API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(hashCodeCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the clinic API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			count, err := db.NewMigrator(pool, dir).Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := db.NewMigrator(pool, dir).Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the CIE-10 diagnosis catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
			svc := terminology.NewService(terminology.NewRepoPG(pool), nil, logger)
			if err := svc.SeedCatalog(ctx); err != nil {
				return fmt.Errorf("seed catalog: %w", err)
			}
			fmt.Println("CIE-10 catalog seeded.")
			return nil
		},
	}
}

func hashCodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-code [code]",
		Short: "Generate a bcrypt hash for ACCESS_CODE_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashAccessCode(args[0])
			if err != nil {
				return err
			}
			fmt.Println(hash)
			return nil
		},
	}
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	var appCache *cache.Cache
	if cfg.RedisURL != "" {
		appCache, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer appCache.Close()
		logger.Info().Msg("connected to redis")
	} else {
		logger.Warn().Msg("REDIS_URL not set; caching is disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit("1M", "5M"))
	e.Use(middleware.RequestTimeout(time.Duration(cfg.RequestTimeoutSecs) * time.Second))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	jwtSecret := []byte(cfg.JWTSecret)
	if len(jwtSecret) == 0 && cfg.IsDev() {
		jwtSecret = []byte(devJWTSecret)
	}
	if cfg.IsDev() {
		e.Use(auth.DevAuthMiddleware(jwtSecret))
	} else {
		e.Use(auth.JWTMiddleware(jwtSecret))
	}

	apiV1 := e.Group("/api/v1")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	e.GET("/health", db.HealthHandler(pool))

	// Auth
	accessCode := cfg.AccessCode
	if accessCode == "" && cfg.AccessCodeHash == "" && cfg.IsDev() {
		accessCode = devAccessCode
	}
	verifier := auth.NewCodeVerifier(cfg.AccessCodeHash, accessCode)
	issuer := auth.NewIssuer(jwtSecret, time.Duration(cfg.TokenTTLMinutes)*time.Minute)
	auth.NewHandler(verifier, issuer).RegisterRoutes(apiV1)

	// Terminology
	termSvc := terminology.NewService(terminology.NewRepoPG(pool), appCache, logger)
	terminology.NewHandler(termSvc).RegisterRoutes(apiV1)

	// Patients
	patientSvc := patients.NewService(
		patients.NewRepoPG(pool),
		patients.NewVisitRepoPG(pool),
		patients.NewLabRepoPG(pool),
		termSvc,
	)
	patients.NewHandler(patientSvc).RegisterRoutes(apiV1)

	// Scheduling
	schedSvc := scheduling.NewService(scheduling.NewRepoPG(pool))
	scheduling.NewHandler(schedSvc).RegisterRoutes(apiV1)

	// Pharmacy
	medRepo := pharmacy.NewRepoPG(pool)
	pharmacySvc := pharmacy.NewService(medRepo, cfg.MarginTarget, cfg.ExpiryAlertDays, logger)
	pharmacy.NewHandler(pharmacySvc).RegisterRoutes(apiV1)

	// Sales
	salesRepo := sales.NewRepoPG(pool)
	salesSvc := sales.NewService(salesRepo, medRepo, pool, appCache, logger)
	sales.NewHandler(salesSvc).RegisterRoutes(apiV1)

	// Reports
	reportSvc := reports.NewService(salesRepo, medRepo, appCache, logger)
	reports.NewHandler(reportSvc).RegisterRoutes(apiV1)

	// Start server with graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
		return err
	}
	return nil
}
