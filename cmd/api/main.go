package main

import (
	"context"
	"log"
	"time"

	"golang.org/x/time/rate"

	"github.com/yeah-diary/diary-backend/config"
	"github.com/yeah-diary/diary-backend/internal/bootstrap"
	"github.com/yeah-diary/diary-backend/internal/imagegen"
	"github.com/yeah-diary/diary-backend/internal/media"
	"github.com/yeah-diary/diary-backend/internal/translate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := bootstrap.OpenDB(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	redisClient, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("failed to open redis: %v", err)
	}
	defer redisClient.Close()

	fsClient, err := bootstrap.OpenFirestore(ctx, cfg.Firestore)
	if err != nil {
		log.Fatalf("failed to open firestore: %v", err)
	}
	defer fsClient.Close()

	translator := translate.NewClient(cfg.Translate.BaseURL, cfg.Translate.APIKey, cfg.Translate.Timeout)
	generator := imagegen.NewClient(cfg.ImageGen.BaseURL, cfg.ImageGen.APIKey, imagegen.Options{
		Model:     cfg.ImageGen.Model,
		Size:      cfg.ImageGen.Size,
		Timeout:   cfg.ImageGen.Timeout,
		RateLimit: rate.Limit(cfg.ImageGen.RateLimit),
		Burst:     cfg.ImageGen.Burst,
	})
	mediaClient := media.NewClient(cfg.Media.BaseURL, cfg.Media.APIKey, cfg.Media.Timeout)

	reconciler := bootstrap.NewReconciler(redisClient, mediaClient)
	cronRunner := reconciler.Start()
	defer cronRunner.Stop()

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "diary-backend",
		Version:     cfg.App.Version,
		Config:      cfg,
		DB:          db,
		Redis:       redisClient,
		Firestore:   fsClient,
		Translator:  translator,
		Generator:   generator,
		Uploader:    mediaClient,
		Assets:      mediaClient,
	})

	log.Printf("listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
