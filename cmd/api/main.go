package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"egresados/internal/adapter/api"
	"egresados/internal/adapter/api/handler"
	apimiddleware "egresados/internal/adapter/api/middleware"
	"egresados/internal/adapter/api/router"
	"egresados/internal/adapter/repository"
	domainrepo "egresados/internal/domain/repository"
	"egresados/internal/infrastructure/auth"
	"egresados/internal/infrastructure/firebase"
	"egresados/internal/infrastructure/mail"
	"egresados/internal/infrastructure/ratelimit"
	"egresados/internal/infrastructure/storage"
	"egresados/internal/infrastructure/websocket"
	"egresados/internal/usecase"
	"egresados/pkg/config"
	"egresados/pkg/logger"
)

type repositories struct {
	users    domainrepo.UserRepository
	profiles domainrepo.ProfileRepository
	messages domainrepo.MessageRepository
	posts    domainrepo.PostRepository
	comments domainrepo.CommentRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration: %v", err)
	}
	logger.SetDebug(cfg.IsDevelopment())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checks := map[string]handler.Pinger{}

	var repos repositories
	switch cfg.StorageDriver {
	case config.StorageFirestore:
		opt, err := firebase.CredentialsOption(cfg.FirebaseServiceAccountJSON, cfg.FirebaseServiceAccountPath)
		if err != nil {
			logger.Fatal("Failed to load Firebase credentials: %v", err)
		}
		client, err := firebase.NewFirestoreClient(ctx, cfg.FirebaseProject, opt)
		if err != nil {
			logger.Fatal("Failed to create Firestore client: %v", err)
		}
		defer client.Close()

		repos = firestoreRepositories(client)
		checks["firestore"] = func(ctx context.Context) error {
			_, err := client.Collection("users").Limit(1).Documents(ctx).GetAll()
			return err
		}
	default:
		db, err := repository.OpenSQLite(cfg.SQLitePath, cfg.IsDevelopment())
		if err != nil {
			logger.Fatal("Failed to open SQLite database: %v", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			logger.Fatal("Failed to access SQLite pool: %v", err)
		}
		defer sqlDB.Close()

		repos = sqlRepositories(db)
		checks["sqlite"] = sqlDB.PingContext
	}

	e := echo.New()
	e.HideBanner = true

	var images usecase.ImageStore
	if cfg.StorageBucket != "" {
		gcs, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, cfg.FirebaseServiceAccountJSON, cfg.FirebaseServiceAccountPath, cfg.AllowedOrigins)
		if err != nil {
			logger.Fatal("Failed to initialize Cloud Storage: %v", err)
		}
		defer gcs.Close()
		images = gcs
	} else {
		disk, err := storage.NewDiskStore(cfg.UploadDir, cfg.PublicBaseURL)
		if err != nil {
			logger.Fatal("Failed to prepare upload directory: %v", err)
		}
		e.Static("/uploads", disk.Dir())
		images = disk
	}

	var mailer usecase.Mailer = mail.NewLogMailer()
	if cfg.SMTPHost != "" {
		mailer = mail.NewSMTPMailer(cfg.SMTPHost, int(cfg.SMTPPort), cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	}

	limiter := ratelimit.NewRateLimiter(ratelimit.DefaultLimits)
	limiter.StartCleanupRoutine(ctx)

	wsOpts := []websocket.Option{websocket.WithRateLimiter(limiter)}
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal("Invalid REDIS_URL: %v", err)
		}
		rdb := redis.NewClient(redisOpts)
		defer rdb.Close()

		wsOpts = append(wsOpts, websocket.WithRelay(websocket.NewRedisRelay(rdb)))
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		logger.Info("Realtime relay enabled through Redis")
	}

	wsManager := websocket.NewManager(websocket.NewRegistry(), wsOpts...)
	wsManager.Start(ctx)

	tokens := auth.NewTokenService(cfg.JWTSecret, time.Duration(cfg.JWTExpiry)*time.Second)
	hasher := auth.NewPasswordHasher(bcrypt.DefaultCost)

	authUseCase := usecase.NewAuthUseCase(repos.users, repos.profiles, tokens, hasher, mailer, cfg.AllowedEmailDomain, cfg.FrontendURL)
	profileUseCase := usecase.NewProfileUseCase(repos.profiles, images)
	postUseCase := usecase.NewPostUseCase(repos.posts, repos.comments, repos.profiles, images, limiter)
	commentUseCase := usecase.NewCommentUseCase(repos.comments, repos.posts, repos.profiles, limiter)
	messageUseCase := usecase.NewMessageUseCase(repos.messages, repos.profiles, wsManager, limiter)
	adminUseCase := usecase.NewAdminUseCase(repos.users, repos.profiles, repos.posts, postUseCase)

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
	}))

	e.Validator = api.NewValidator()

	router.Setup(e, router.Handlers{
		Auth:      handler.NewAuthHandler(authUseCase),
		Profile:   handler.NewProfileHandler(profileUseCase),
		Post:      handler.NewPostHandler(postUseCase),
		Comment:   handler.NewCommentHandler(commentUseCase),
		Message:   handler.NewMessageHandler(messageUseCase),
		Admin:     handler.NewAdminHandler(adminUseCase),
		WebSocket: handler.NewWebSocketHandler(wsManager, authUseCase, cfg.AllowedOrigins),
		Health:    handler.NewHealthHandler(checks, wsManager.OnlineParticipants),
	}, router.Middlewares{
		Auth:      apimiddleware.NewAuthMiddleware(authUseCase),
		Profile:   apimiddleware.NewProfileMiddleware(profileUseCase),
		Admin:     apimiddleware.NewAdminMiddleware(),
		AuthLimit: router.DefaultAuthLimit(),
	})

	go func() {
		logger.Info("Starting server on port %s (%s, storage=%s)", cfg.ServerPort, cfg.Environment, cfg.StorageDriver)
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server stopped: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed: %v", err)
	}
}

func sqlRepositories(db *gorm.DB) repositories {
	return repositories{
		users:    repository.NewSQLUserRepository(db),
		profiles: repository.NewSQLProfileRepository(db),
		messages: repository.NewSQLMessageRepository(db),
		posts:    repository.NewSQLPostRepository(db),
		comments: repository.NewSQLCommentRepository(db),
	}
}

func firestoreRepositories(client *firestore.Client) repositories {
	return repositories{
		users:    repository.NewFirestoreUserRepository(client),
		profiles: repository.NewFirestoreProfileRepository(client),
		messages: repository.NewFirestoreMessageRepository(client),
		posts:    repository.NewFirestorePostRepository(client),
		comments: repository.NewFirestoreCommentRepository(client),
	}
}
