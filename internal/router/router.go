package router

import (
	"timetrack/backend/foundation/web"
	"timetrack/backend/internal/auth"
	"timetrack/backend/internal/middleware"
	"timetrack/backend/internal/pkg/config"
	"timetrack/backend/internal/pkg/repository/postgresql"
	"timetrack/backend/internal/service"

	"github.com/redis/go-redis/v9"

	absencePostgres "timetrack/backend/internal/repository/postgres/absence"
	userPostgres "timetrack/backend/internal/repository/postgres/user"
	worklogPostgres "timetrack/backend/internal/repository/postgres/worklog"

	absence_controller "timetrack/backend/internal/controller/http/v1/absence"
	auth_controller "timetrack/backend/internal/controller/http/v1/auth"
	file_controller "timetrack/backend/internal/controller/http/v1/file"
	user_controller "timetrack/backend/internal/controller/http/v1/user"
	worklog_controller "timetrack/backend/internal/controller/http/v1/worklog"
)

type Router struct {
	*web.App
	postgresDB *postgresql.Database
	redisDB    *redis.Client
	cfg        *config.Config
	port       string
	auth       *auth.Auth
}

func NewRouter(
	app *web.App,
	postgresDB *postgresql.Database,
	redisDB *redis.Client,
	cfg *config.Config,
	port string,
	auth *auth.Auth,
) *Router {
	return &Router{
		app,
		postgresDB,
		redisDB,
		cfg,
		port,
		auth,
	}
}

func (r Router) Init() error {

	r.HandleMethodNotAllowed = true
	r.Use(middleware.CorsMiddleware([]string{r.cfg.BaseUrl, "http://localhost:3000"}))

	// - postgresql
	userRepo := userPostgres.NewRepository(r.postgresDB)
	worklogRepo := worklogPostgres.NewRepository(r.postgresDB)
	absenceRepo := absencePostgres.NewRepository(r.postgresDB)

	// controller
	userController := user_controller.NewController(userRepo)
	authController := auth_controller.NewController(userRepo, r.redisDB)
	worklogController := worklog_controller.NewController(worklogRepo)
	absenceController := absence_controller.NewController(absenceRepo)
	fileController := file_controller.NewController(service.NewUploader(r.cfg))

	// #auth
	r.Post("/api/v1/sign-in", authController.SignIn)
	r.Post("/api/v1/refresh-token", authController.RefreshToken)

	// #user
	r.Get("/api/v1/user/list", userController.GetUserList, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Get("/api/v1/user/:id", userController.GetUserDetailById, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Get("/api/v1/user/:id/qrcode", userController.GetUserQrCode, middleware.Authenticate(r.auth, auth.RoleAdmin))
	// Account creation stays open for the one-time bootstrap; the
	// repository enforces admin-only once any account exists.
	r.Post("/api/v1/user/create", userController.CreateUser, middleware.AuthenticateOptional(r.auth))
	r.Patch("/api/v1/user/:id", userController.UpdateUserColumns, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Delete("/api/v1/user/:id", userController.DeleteUser, middleware.Authenticate(r.auth, auth.RoleAdmin))

	// #work-log
	r.Get("/api/v1/work-log/list", worklogController.GetList, middleware.Authenticate(r.auth))
	r.Get("/api/v1/work-log/export", worklogController.ExportExcel, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Get("/api/v1/work-log/report", worklogController.ExportPdf, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Get("/api/v1/work-log/:id", worklogController.GetDetailById, middleware.Authenticate(r.auth))
	r.Post("/api/v1/work-log/create", worklogController.Create, middleware.Authenticate(r.auth))
	r.Patch("/api/v1/work-log/:id", worklogController.UpdateColumns, middleware.Authenticate(r.auth))
	r.Delete("/api/v1/work-log/:id", worklogController.Delete, middleware.Authenticate(r.auth))

	// #absence
	r.Get("/api/v1/absence/list", absenceController.GetList, middleware.Authenticate(r.auth))
	r.Get("/api/v1/absence/:id", absenceController.GetDetailById, middleware.Authenticate(r.auth))
	r.Post("/api/v1/absence/create", absenceController.Create, middleware.Authenticate(r.auth))
	r.Patch("/api/v1/absence/:id/status", absenceController.UpdateStatus, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Patch("/api/v1/absence/:id", absenceController.UpdateColumns, middleware.Authenticate(r.auth))
	r.Delete("/api/v1/absence/:id", absenceController.Delete, middleware.Authenticate(r.auth))

	// #file
	r.Post("/api/v1/file/upload", fileController.Upload, middleware.Authenticate(r.auth))

	return r.Run(r.port)
}
