// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	accountsfeature "github.com/dalemusser/mepad/internal/app/features/accounts"
	dashboardfeature "github.com/dalemusser/mepad/internal/app/features/dashboard"
	healthfeature "github.com/dalemusser/mepad/internal/app/features/health"
	meetingsfeature "github.com/dalemusser/mepad/internal/app/features/meetings"
	tasksfeature "github.com/dalemusser/mepad/internal/app/features/tasks"
	"github.com/dalemusser/mepad/internal/app/store/audit"
	meetingstore "github.com/dalemusser/mepad/internal/app/store/meetings"
	taskstore "github.com/dalemusser/mepad/internal/app/store/tasks"
	userstore "github.com/dalemusser/mepad/internal/app/store/users"
	"github.com/dalemusser/mepad/internal/app/system/auditlog"
	"github.com/dalemusser/mepad/internal/app/system/auth"
	"github.com/dalemusser/mepad/internal/app/system/ratelimit"
	"github.com/dalemusser/mepad/internal/app/system/respond"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// authLimiter is stopped by Shutdown.
var authLimiter *ratelimit.Limiter

// BuildHandler constructs the HTTP handler for the service.
//
// Everything except /health lives under /api and answers with the JSON
// envelope. The bearer gate runs for every /api request; individual route
// groups decide whether a signed-in user is required.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	users := userstore.New(db)
	meetingStore := meetingstore.New(db)
	taskStore := taskstore.New(db)

	tokens := auth.NewTokenIssuer(appCfg.JWTSecret, appCfg.JWTIssuer, appCfg.JWTTTL)

	// The fetcher reloads the user on each request so role changes and
	// disabled accounts take effect before a token expires.
	gate := auth.NewGate(tokens, userstore.NewFetcher(db), logger)

	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:    appCfg.AuditLogAuth,
		Meeting: appCfg.AuditLogMeeting,
		Task:    appCfg.AuditLogTask,
	})

	authLimiter = ratelimit.New(appCfg.AuthRateLimit, appCfg.AuthRateBurst)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(respond.Recoverer(logger))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.Fail(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respond.Fail(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Route("/api", func(api chi.Router) {
		api.Use(gate.LoadBearerUser)

		// Authentication
		accountsHandler := accountsfeature.NewHandler(accountsfeature.NewService(users, tokens), auditLog, logger)
		api.Mount("/auth", accountsfeature.Routes(accountsHandler, authLimiter.Middleware(accountsHandler.HandleRateLimited)))

		// Meetings with their action points, pain points and participants
		meetingsSvc := meetingsfeature.NewService(meetingStore, users, appCfg.ActionPointAssignee)
		meetingsHandler := meetingsfeature.NewHandler(meetingsSvc, auditLog, logger)
		api.Mount("/meetings", meetingsfeature.Routes(meetingsHandler))

		// Role-based dashboards
		dashboardHandler := dashboardfeature.NewHandler(dashboardfeature.NewService(meetingStore, taskStore, users), logger)
		api.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler))

		// Tasks
		tasksHandler := tasksfeature.NewHandler(tasksfeature.NewService(taskStore, users, meetingStore), auditLog, logger)
		api.Mount("/tasks", tasksfeature.Routes(tasksHandler))
	})

	logger.Info("routes mounted",
		zap.String("env", coreCfg.Env),
		zap.String("assignee_mode", appCfg.ActionPointAssignee))
	return r, nil
}
