package main

import (
	"fmt"
	"net/http"

	"github.com/ANOSkdy/ai-nippo-sub000/internal/config"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/domain/attendance"
	appHTTP "github.com/ANOSkdy/ai-nippo-sub000/internal/handler/http"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/pkg/database"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/pkg/jwt"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/repository/postgresql"
	attendanceService "github.com/ANOSkdy/ai-nippo-sub000/internal/service/attendance"
	serviceAuth "github.com/ANOSkdy/ai-nippo-sub000/internal/service/auth"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/service/breakpolicy"
	reportService "github.com/ANOSkdy/ai-nippo-sub000/internal/service/report"
	sessionService "github.com/ANOSkdy/ai-nippo-sub000/internal/service/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	sessionRepo := postgresql.NewSessionRepository(db)
	directoryRepo := postgresql.NewDirectoryRepository(db)
	userRepo := postgresql.NewUserRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)

	// The daily-detail resolver is long-lived; the per-run report resolvers
	// are built inside the report service.
	dailyResolver := breakpolicy.NewResolver(directoryRepo, cfg.Attendance.BreakPolicyEnabled, nil)

	authSvc := serviceAuth.NewAuthService(userRepo, JWTService)
	attendanceSvc := attendanceService.NewAttendanceService(sessionRepo, dailyResolver, attendance.CalcConfigFrom(cfg.Attendance))
	reportSvc := reportService.NewReportService(sessionRepo, directoryRepo, cfg.Attendance)
	sessionSvc := sessionService.NewSessionService(sessionRepo, reportSvc, cfg.Attendance.Location)

	authHandler := appHTTP.NewAuthHandler(JWTService, authSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)
	sessionHandler := appHTTP.NewSessionHandler(sessionSvc)

	router := appHTTP.NewRouter(
		cfg.App.Env,
		JWTService,
		authHandler,
		attendanceHandler,
		reportHandler,
		sessionHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
