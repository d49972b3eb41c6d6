package router

import (
	"schoolsync/backend/foundation/web"
	"schoolsync/backend/internal/auth"
	"schoolsync/backend/internal/middleware"
	"schoolsync/backend/internal/pkg/repository/postgresql"
	"schoolsync/backend/internal/repository/postgres/attendance"
	"schoolsync/backend/internal/repository/postgres/school"
	"schoolsync/backend/internal/repository/postgres/staff"
	"schoolsync/backend/internal/repository/postgres/user"

	"github.com/redis/go-redis/v9"

	attendance_controller "schoolsync/backend/internal/controller/http/v1/attendance"
	auth_controller "schoolsync/backend/internal/controller/http/v1/auth"
	kiosk_controller "schoolsync/backend/internal/controller/http/v1/kiosk"
	school_controller "schoolsync/backend/internal/controller/http/v1/school"
	staff_controller "schoolsync/backend/internal/controller/http/v1/staff"
)

type Router struct {
	*web.App
	postgresDB *postgresql.Database
	redisDB    *redis.Client
	port       string
	auth       *auth.Auth
	jwtKey     string
}

func NewRouter(
	app *web.App,
	postgresDB *postgresql.Database,
	redisDB *redis.Client,
	port string,
	auth *auth.Auth,
	jwtKey string,
) *Router {
	return &Router{
		app,
		postgresDB,
		redisDB,
		port,
		auth,
		jwtKey,
	}
}

func (r Router) Init() error {

	r.HandleMethodNotAllowed = true
	r.Use(middleware.CorsMiddleware())

	// - postgresql
	userPostgres := user.NewRepository(r.postgresDB)
	schoolPostgres := school.NewRepository(r.postgresDB)
	staffPostgres := staff.NewRepository(r.postgresDB)
	attendancePostgres := attendance.NewRepository(r.postgresDB)

	// controller
	authController := auth_controller.NewController(userPostgres, r.jwtKey)
	schoolController := school_controller.NewController(schoolPostgres, r.redisDB)
	staffController := staff_controller.NewController(staffPostgres)
	attendanceController := attendance_controller.NewController(attendancePostgres, schoolPostgres)
	kioskController := kiosk_controller.NewController(schoolPostgres, staffPostgres, attendancePostgres)

	// #auth
	r.Post("/api/v1/sign-in", authController.SignIn)
	r.Post("/api/v1/refresh-token", authController.RefreshToken)

	// #kiosk
	r.Post("/api/v1/kiosk", kioskController.Handle, middleware.AuthenticateKiosk(schoolPostgres, r.redisDB))

	// #school
	r.Get("/api/v1/school/list", schoolController.GetList, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleDashboard))
	r.Get("/api/v1/school/:id", schoolController.GetDetailById, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Get("/api/v1/school/:id/qrcode", schoolController.KioskTokenQR, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Post("/api/v1/school/create", schoolController.Create, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Post("/api/v1/school/:id/rotate-token", schoolController.RotateToken, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Patch("/api/v1/school/:id", schoolController.UpdateColumns, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Delete("/api/v1/school/:id", schoolController.Delete, middleware.Authenticate(r.auth, auth.RoleAdmin))

	// #staff
	r.Get("/api/v1/staff/list", staffController.GetList, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleDashboard))
	r.Get("/api/v1/staff/:id", staffController.GetDetailById, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Get("/api/v1/staff/export/:school_id", staffController.ExportExcel, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Post("/api/v1/staff/create", staffController.Create, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Post("/api/v1/staff/:id/reset-times-late", staffController.ResetTimesLate, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Patch("/api/v1/staff/:id", staffController.UpdateColumns, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Delete("/api/v1/staff/:id", staffController.Delete, middleware.Authenticate(r.auth, auth.RoleAdmin))

	// #attendance
	r.Get("/api/v1/attendance/list", attendanceController.GetList, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleDashboard))
	r.Get("/api/v1/attendance/:id", attendanceController.GetDetailById, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Get("/api/v1/attendance/monthly/:school_id", attendanceController.MonthlyReport, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Delete("/api/v1/attendance/:id", attendanceController.Delete, middleware.Authenticate(r.auth, auth.RoleAdmin))

	return r.Run(r.port)
}
