package routes

import (
	"net/http"

	"github.com/caddieai/caddie/internal/app"
	"github.com/caddieai/caddie/internal/handler"
	"github.com/caddieai/caddie/internal/middleware"
	"github.com/caddieai/caddie/internal/response"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.DB)
	auth := handler.NewAuthHandler(app.AuthService)
	users := handler.NewUserHandler(app.UserService)
	courses := handler.NewCourseHandler(app.CourseService)
	rounds := handler.NewRoundHandler(app.RoundService)
	scores := handler.NewScoreHandler(app.ScoreService)
	location := handler.NewLocationHandler(app.LocationService)
	clubs := handler.NewClubHandler(app.ClubService)
	stats := handler.NewStatsHandler(app.StatsService)
	chat := handler.NewChatHandler(app.ChatService)
	devices := handler.NewDeviceHandler(app.DeviceService)
	liveHandler := handler.NewLiveHandler(app.Hub, app.Cfg.CORSAllowedOrigins)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Healthz)

	// Auth (rate limited per IP)
	rateLimiter := middleware.RateLimitByIP(app.AuthLimiter)

	mux.HandleFunc("POST /api/auth/register", rateLimiter(auth.Register))
	mux.HandleFunc("POST /api/auth/login", rateLimiter(auth.Login))
	mux.HandleFunc("POST /api/auth/refresh", rateLimiter(auth.Refresh))
	mux.HandleFunc("POST /api/auth/logout", auth.Logout)
	mux.HandleFunc("POST /api/auth/google", rateLimiter(auth.Google))

	// Courses
	mux.HandleFunc("GET /api/courses", courses.List)
	mux.HandleFunc("GET /api/courses/nearby", courses.Nearby)
	mux.HandleFunc("GET /api/courses/{id}", courses.Get)

	// ============================================================================
	// PROTECTED ROUTES
	// ============================================================================

	// Users
	mux.HandleFunc("GET /api/users/me", middleware.RequireAuth(users.Me))
	mux.HandleFunc("PUT /api/users/me", middleware.RequireAuth(users.UpdateProfile))
	mux.HandleFunc("PUT /api/users/me/password", middleware.RequireAuth(users.ChangePassword))
	mux.HandleFunc("POST /api/users/me/avatar", middleware.RequireAuth(users.UploadAvatar))
	mux.HandleFunc("DELETE /api/users/me", middleware.RequireAuth(users.DeleteAccount))

	// Course catalogue (admin)
	mux.HandleFunc("POST /api/courses", middleware.RequireAdmin(courses.Create))
	mux.HandleFunc("PUT /api/courses/{id}", middleware.RequireAdmin(courses.Update))
	mux.HandleFunc("DELETE /api/courses/{id}", middleware.RequireAdmin(courses.Delete))

	// Rounds
	mux.HandleFunc("POST /api/round/start", middleware.RequireAuth(rounds.Start))
	mux.HandleFunc("GET /api/round/active", middleware.RequireAuth(rounds.Active))
	mux.HandleFunc("GET /api/round", middleware.RequireAuth(rounds.List))
	mux.HandleFunc("GET /api/round/{id}", middleware.RequireAuth(rounds.Get))
	mux.HandleFunc("PUT /api/round/{id}", middleware.RequireAuth(rounds.Update))
	mux.HandleFunc("DELETE /api/round/{id}", middleware.RequireAuth(rounds.Delete))
	mux.HandleFunc("POST /api/round/{id}/pause", middleware.RequireAuth(rounds.Pause))
	mux.HandleFunc("POST /api/round/{id}/resume", middleware.RequireAuth(rounds.Resume))
	mux.HandleFunc("POST /api/round/{id}/complete", middleware.RequireAuth(rounds.Complete))
	mux.HandleFunc("POST /api/round/{id}/abandon", middleware.RequireAuth(rounds.Abandon))
	mux.HandleFunc("PUT /api/round/{id}/current-hole", middleware.RequireAuth(rounds.UpdateCurrentHole))
	mux.HandleFunc("POST /api/round/{id}/scorecard", middleware.RequireAuth(rounds.UploadScorecard))

	// Scores
	mux.HandleFunc("POST /api/round/{id}/holes/{hole}/score", middleware.RequireAuth(scores.Record))
	mux.HandleFunc("GET /api/round/{id}/scores", middleware.RequireAuth(scores.List))

	// Location & shots
	mux.HandleFunc("POST /api/round/{id}/location", middleware.RequireAuth(location.UpdateLocation))
	mux.HandleFunc("POST /api/round/{id}/shots", middleware.RequireAuth(location.PlaceShot))
	mux.HandleFunc("GET /api/round/{id}/shots", middleware.RequireAuth(location.Shots))
	mux.HandleFunc("DELETE /api/round/{id}/shots/{shotId}", middleware.RequireAuth(location.DeleteShot))

	// Club recommendations
	mux.HandleFunc("POST /api/club-recommendations", middleware.RequireAuth(clubs.Recommend))
	mux.HandleFunc("GET /api/club-recommendations", middleware.RequireAuth(clubs.List))
	mux.HandleFunc("PUT /api/club-recommendations/{id}/feedback", middleware.RequireAuth(clubs.Feedback))

	// Statistics
	mux.HandleFunc("GET /api/statistics/summary", middleware.RequireAuth(stats.Summary))
	mux.HandleFunc("GET /api/statistics/trend", middleware.RequireAuth(stats.Trend))
	mux.HandleFunc("GET /api/statistics/rounds/{id}", middleware.RequireAuth(stats.Round))

	// Caddie chat
	mux.HandleFunc("POST /api/chat/sessions", middleware.RequireAuth(chat.CreateSession))
	mux.HandleFunc("GET /api/chat/sessions", middleware.RequireAuth(chat.Sessions))
	mux.HandleFunc("GET /api/chat/sessions/{id}", middleware.RequireAuth(chat.Session))
	mux.HandleFunc("DELETE /api/chat/sessions/{id}", middleware.RequireAuth(chat.DeleteSession))
	mux.HandleFunc("POST /api/chat/sessions/{id}/messages", middleware.RequireAuth(chat.SendMessage))

	// Devices
	mux.HandleFunc("POST /api/devices", middleware.RequireAuth(devices.Pair))
	mux.HandleFunc("GET /api/devices", middleware.RequireAuth(devices.List))
	mux.HandleFunc("DELETE /api/devices/{id}", middleware.RequireAuth(devices.Unpair))
	mux.HandleFunc("POST /api/devices/{id}/sync", middleware.RequireAuth(devices.Sync))

	// Live round events (websocket)
	mux.HandleFunc("GET /api/live", middleware.RequireAuth(liveHandler.Connect))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	// 404
	mux.HandleFunc("/{path...}", func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotFound, response.CodeNotFound, "Route not found")
	})

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Recovery, // Recovery must be first so every panic is reported
		middleware.RequestID,
		middleware.CORS(app.Cfg.CORSAllowedOrigins),
		middleware.RequestLogging,
		middleware.AuthMiddleware(app.AuthService, app.UserService),
	)

	return handler
}
