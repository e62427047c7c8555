package bootstrap

import (
	"time"

	"cloud.google.com/go/firestore"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/yeah-diary/diary-backend/config"
	httpapi "github.com/yeah-diary/diary-backend/internal/api/http"
	"github.com/yeah-diary/diary-backend/internal/api/http/middleware"
	"github.com/yeah-diary/diary-backend/internal/auth"
	authhttp "github.com/yeah-diary/diary-backend/internal/auth/http"
	diaryhttp "github.com/yeah-diary/diary-backend/internal/diary/http"
	"github.com/yeah-diary/diary-backend/internal/diary/repository"
	"github.com/yeah-diary/diary-backend/internal/diary/service"
	"github.com/yeah-diary/diary-backend/internal/media"
	"github.com/yeah-diary/diary-backend/internal/sessions"
	"github.com/yeah-diary/diary-backend/internal/users"
)

// RouterDeps carries everything BuildRouter needs, so tests can swap in
// doubles for the upstream clients.
type RouterDeps struct {
	ServiceName string
	Version     string
	Config      *config.Config

	DB        *pgxpool.Pool
	Redis     *redis.Client
	Firestore *firestore.Client

	Translator service.Translator
	Generator  service.ImageGenerator
	Uploader   service.MediaUploader
	Assets     diaryhttp.AssetDeleter
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.Config.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RequestID())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api")

	userRepo := users.NewRepo(dep.DB)
	sessionStore := sessions.NewStore(dep.Redis, dep.Config.Session.TTL)
	diaryRepo := repository.NewDiaryRepository(dep.Firestore, dep.Config.Firestore.Collection)
	orphanRepo := repository.NewOrphanRepository(dep.Redis)

	authHandler := authhttp.NewHandler(userRepo, sessionStore, dep.Config.Session.CookieName)
	authhttp.Register(api, authHandler)

	pipeline := service.NewPipeline(
		dep.Translator,
		dep.Generator,
		dep.Uploader,
		diaryRepo,
		orphanRepo,
		service.PipelineConfig{
			SourceLang:   dep.Config.Translate.SourceLang,
			TargetLang:   dep.Config.Translate.TargetLang,
			UploadPreset: dep.Config.Media.UploadPreset,
		},
	)

	diaryHandler := diaryhttp.NewHandler(pipeline, diaryRepo, dep.Assets)
	diaryGroup := api.Group("/diary")
	diaryGroup.Use(auth.RequireSession(sessionStore, dep.Config.Session.CookieName))
	diaryhttp.Register(diaryGroup, diaryHandler)

	return r
}

// NewReconciler builds the orphan asset sweeper from the shared redis
// client and the asset hosting client.
func NewReconciler(redisClient *redis.Client, assets media.AssetDeleter) *media.Reconciler {
	return media.NewReconciler(repository.NewOrphanRepository(redisClient), assets)
}
