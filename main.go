package main

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/vib1247-cyber/Codepulse/auth"
	"github.com/vib1247-cyber/Codepulse/config"
	"github.com/vib1247-cyber/Codepulse/crypto"
	"github.com/vib1247-cyber/Codepulse/interview"
	"github.com/vib1247-cyber/Codepulse/logger"
	"github.com/vib1247-cyber/Codepulse/migrations"
	"github.com/vib1247-cyber/Codepulse/question"
	"github.com/vib1247-cyber/Codepulse/storage"
)

func CreateServer(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/health", func(ctx *gin.Context) { ctx.String(200, "healthy") })

	r.Use(func(ctx *gin.Context) {
		origin := ctx.Request.Header.Get("Origin")

		if origin == "" || slices.Contains(allowedOrigins, origin) {
			ctx.Next()
			return
		}
		ctx.String(http.StatusForbidden, "forbidden origin")
		ctx.Abort()
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Authorization",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
	}))

	return r
}

func main() {
	cfg := config.Load()
	logger.Setup(cfg.Debug)

	if err := migrations.Migrate(cfg.PostgresURL); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}

	pgRepo, err := storage.NewPostgresRepo(context.Background(), cfg.PostgresURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pgRepo.Close()

	tokenAge := time.Hour * 24 * 7 // 7 days
	passwordHasher := crypto.NewArgon2idHasher(3, 1024*64, 32, 16, 1)
	tokenManager := crypto.NewJWTManager(cfg.JWTKey, tokenAge)

	authService := auth.NewService(pgRepo, passwordHasher, tokenManager)
	authHandler := auth.NewAuthHandler(authService)
	requireAuth := authHandler.RequireAuthMiddleware()

	r := CreateServer(cfg.AllowedOrigins)

	{
		authGroup := r.Group("/api/auth")
		authGroup.POST("/signup", authHandler.SignupHandler)
		authGroup.POST("/login", authHandler.LoginHandler)
	}

	question.RegisterRoutes(r, question.NewHandler(pgRepo), requireAuth)

	matchmaker := interview.NewMatchmaker(pgRepo, pgRepo)
	coordinator := interview.NewCoordinator(pgRepo, interview.NewTickerGen())

	stop := make(chan struct{})
	defer close(stop)
	go coordinator.Run(stop)

	interviewHandler := interview.NewHandler(matchmaker, coordinator, pgRepo, authService, cfg.AllowedOrigins)
	interview.RegisterRoutes(r, interviewHandler, requireAuth)

	log.Info().Str("addr", cfg.ListenAddr).Msg("server starting")
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
