package app

import (
	"context"
	"fmt"

	"github.com/caddieai/caddie/internal/config"
	"github.com/caddieai/caddie/internal/db"
	"github.com/caddieai/caddie/internal/live"
	"github.com/caddieai/caddie/internal/middleware"
	"github.com/caddieai/caddie/internal/repository"
	"github.com/caddieai/caddie/internal/service"
	"github.com/caddieai/caddie/internal/storage"
	"github.com/jmoiron/sqlx"
)

type App struct {
	Cfg  *config.Config
	DB   *sqlx.DB
	Hub  *live.Hub
	Repo Repositories

	AuthLimiter *middleware.RateLimiter

	AuthService     *service.AuthService
	UserService     *service.UserService
	EmailService    *service.EmailService
	FileService     *service.FileService
	CourseService   *service.CourseService
	RoundService    *service.RoundService
	ScoreService    *service.ScoreService
	LocationService *service.LocationService
	ClubService     *service.ClubService
	StatsService    *service.StatsService
	ChatService     *service.ChatService
	DeviceService   *service.DeviceService
}

// Repositories is exposed for the CLI, which works below the service layer.
type Repositories struct {
	Users   repository.UserRepository
	Tokens  repository.TokenRepository
	Courses repository.CourseRepository
}

// Deps are the external collaborators. Nil values disable the feature that
// needs them: uploads without Storage, caddie chat without Completer.
type Deps struct {
	Storage   storage.Storage
	Completer service.Completer
	Google    service.GoogleIdentity
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	var deps Deps

	// Storage
	if cfg.StorageEnabled() {
		s3, err := storage.New(ctx, cfg)
		if err != nil {
			_ = database.Close()
			return nil, fmt.Errorf("failed to initialize storage: %v", err)
		}
		deps.Storage = s3
	}

	if client := service.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL, cfg.OpenAITimeout); client != nil {
		deps.Completer = client
	}

	if cfg.GoogleSignInEnabled() {
		deps.Google = service.NewGoogleIdentity(cfg.GoogleClientID, cfg.GoogleClientSecret)
	}

	return Assemble(cfg, database, deps), nil
}

// Assemble wires repositories and services on an open, migrated database.
func Assemble(cfg *config.Config, database *sqlx.DB, deps Deps) *App {
	// Repositories
	userRepository := repository.NewUserRepository(database)
	tokenRepository := repository.NewTokenRepository(database)
	fileRepository := repository.NewFileRepository(database)
	courseRepository := repository.NewCourseRepository(database)
	roundRepository := repository.NewRoundRepository(database)
	scoreRepository := repository.NewHoleScoreRepository(database)
	shotRepository := repository.NewShotRepository(database)
	chatRepository := repository.NewChatRepository(database)
	clubRecommendationRepository := repository.NewClubRecommendationRepository(database)
	deviceRepository := repository.NewDeviceRepository(database)

	hub := live.NewHub()
	chatLimiter := middleware.NewRateLimiter(cfg.ChatRateLimit, cfg.ChatRateWindow)

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	fileService := service.NewFileService(fileRepository, deps.Storage)
	authService := service.NewAuthService(
		userRepository,
		tokenRepository,
		emailService,
		deps.Google,
		cfg.JWTSecret,
		cfg.JWTExpiry,
		cfg.RefreshTokenExpiry,
	)
	userService := service.NewUserService(userRepository, authService, fileService, emailService)
	courseService := service.NewCourseService(courseRepository)
	roundService := service.NewRoundService(
		roundRepository,
		courseRepository,
		scoreRepository,
		userRepository,
		fileService,
		emailService,
		hub,
	)
	scoreService := service.NewScoreService(roundService, roundRepository, courseRepository, scoreRepository, hub)
	locationService := service.NewLocationService(roundService, courseRepository, shotRepository, hub)
	clubService := service.NewClubService(roundService, clubRecommendationRepository)
	statsService := service.NewStatsService(roundService, roundRepository, courseRepository, scoreRepository)
	chatService := service.NewChatService(
		chatRepository,
		userRepository,
		courseRepository,
		roundRepository,
		scoreRepository,
		deps.Completer,
		chatLimiter,
		cfg.ChatHistorySize,
	)
	deviceService := service.NewDeviceService(deviceRepository)

	return &App{
		Cfg: cfg,
		DB:  database,
		Hub: hub,
		Repo: Repositories{
			Users:   userRepository,
			Tokens:  tokenRepository,
			Courses: courseRepository,
		},
		AuthLimiter:     middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow),
		AuthService:     authService,
		UserService:     userService,
		EmailService:    emailService,
		FileService:     fileService,
		CourseService:   courseService,
		RoundService:    roundService,
		ScoreService:    scoreService,
		LocationService: locationService,
		ClubService:     clubService,
		StatsService:    statsService,
		ChatService:     chatService,
		DeviceService:   deviceService,
	}
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
