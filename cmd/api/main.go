package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/router"
	"github.com/pageza/foodgram/backend/internal/server"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/storage"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	// .env is optional outside development.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: os.Stdout})
	logging.Info().Str("env", string(cfg.Env)).Str("db_driver", cfg.Database.Driver).Msg("starting foodgram")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg.Database)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if cfg.Server.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
		logging.Info().Msg("database schema migrated")
	}

	redisClient, err := database.NewRedisClient(cfg.Redis)
	if err != nil {
		return err
	}
	var revoked service.TokenRevocationList
	if redisClient != nil {
		defer redisClient.Close()
		revoked = service.NewRedisRevocationList(redisClient)
	}

	images, mediaDir, err := newImageStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	repos := repository.NewSet(db)
	engine := router.SetupRouter(router.Deps{
		DB:            db,
		Auth:          service.NewAuthService(repos.Users, cfg.JWT.Secret, cfg.JWT.TTL, revoked),
		Users:         service.NewUserService(repos),
		Recipes:       service.NewRecipeService(repos, images),
		Tags:          service.NewTagService(repos.Tags),
		Ingredients:   service.NewIngredientService(repos.Ingredients),
		RecipeLimiter: middleware.NewRecipeCreationRateLimiter(redisClient, cfg.RateLimit.RecipesPerHour),
		CORSOrigins:   cfg.Server.AllowedOrigins(),
		MediaDir:      mediaDir,
	})

	srv := server.New(cfg.Server, engine)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})
	if err := g.Wait(); err != nil {
		return err
	}
	logging.Info().Msg("server stopped")
	return nil
}

// newImageStore returns the configured store and, for the local backend, the
// directory to serve under /media.
func newImageStore(ctx context.Context, cfg config.StorageConfig) (storage.ImageStore, string, error) {
	if cfg.Backend == "s3" {
		s3cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			return nil, "", err
		}
		logging.Info().Str("bucket", s3cfg.BucketName).Msg("storing images in s3")
		return storage.NewS3Store(s3cfg), "", nil
	}
	local, err := storage.NewLocalStore(cfg.LocalDir, cfg.BaseURL)
	if err != nil {
		return nil, "", err
	}
	return local, local.Dir(), nil
}
