// The HTTP surface of the reporting backend:
//
//	POST   /api/v1/auth/register  # create an account (public)
//	POST   /api/v1/auth/login     # obtain a session token (public)
//	POST   /api/v1/reports        # submit a waste report (auth)
//	GET    /api/v1/reports        # list the user's reports (auth)
//	DELETE /api/v1/reports/{id}   # delete a report (auth)
//	GET    /api/v1/reports/stats  # aggregate statistics (auth)
//	GET    /api/v1/health         # liveness probe (public)
package api

import (
	healthAPI "cleanspot/internal/app/server/api/http/health"
	"cleanspot/internal/app/server/api/http/middleware"
	"cleanspot/internal/app/server/api/http/middleware/auth"
	"cleanspot/internal/app/server/api/http/middleware/logger"
	reportAPI "cleanspot/internal/app/server/api/http/report"
	userAPI "cleanspot/internal/app/server/api/http/user"
	"cleanspot/internal/domain/report"
	"cleanspot/internal/domain/session"
	"cleanspot/internal/domain/user"
	"cleanspot/internal/infrastructure/storage/postgres"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"
)

type Handlers struct {
	Health *healthAPI.Handler
	User   *userAPI.Handler
	Report *reportAPI.Handler
}

// New builds a *chi.Mux with every operation registered through huma.
func New(storage *postgres.Storage, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	config := huma.DefaultConfig("Cleanspot API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer"},
	}

	API := humachi.New(mux, config)

	h := handlers(storage, log)
	h.Health.SetupRoutes(API)
	h.User.SetupRoutes(API)
	h.Report.SetupRoutes(API)

	return mux
}

func handlers(storage *postgres.Storage, log *slog.Logger) *Handlers {
	sessionRepo := postgres.NewSessionRepository(storage, log)
	sessionService := session.NewService(sessionRepo, log)
	authMW := auth.New(sessionService, log)
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(log, middlewares.GetAllAndClear())

	userRepo := postgres.NewUserRepository(storage, log)
	userService := user.NewService(userRepo, user.NewCredentialsValidator(), log)
	middlewares.Add(loggerMW.Middleware())
	userHandler := userAPI.NewHandler(userService, sessionService, log, middlewares.GetAllAndClear())

	reportRepo := postgres.NewReportRepository(storage, log)
	reportService := report.NewService(reportRepo, log)
	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	reportHandler := reportAPI.NewHandler(reportService, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health: healthHandler,
		User:   userHandler,
		Report: reportHandler,
	}
}
