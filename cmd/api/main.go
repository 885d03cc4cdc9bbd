package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/config"
	appHTTP "github.com/cmlabs-hris/hris-workforce-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-workforce-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-workforce-go/internal/service/attendance"
	auditService "github.com/cmlabs-hris/hris-workforce-go/internal/service/audit"
	authService "github.com/cmlabs-hris/hris-workforce-go/internal/service/auth"
	companyService "github.com/cmlabs-hris/hris-workforce-go/internal/service/company"
	dashboardService "github.com/cmlabs-hris/hris-workforce-go/internal/service/dashboard"
	employeeService "github.com/cmlabs-hris/hris-workforce-go/internal/service/employee"
	eventService "github.com/cmlabs-hris/hris-workforce-go/internal/service/event"
	leaveService "github.com/cmlabs-hris/hris-workforce-go/internal/service/leave"
	notificationService "github.com/cmlabs-hris/hris-workforce-go/internal/service/notification"
	orgUnitService "github.com/cmlabs-hris/hris-workforce-go/internal/service/orgunit"
	reportService "github.com/cmlabs-hris/hris-workforce-go/internal/service/report"
	tenantService "github.com/cmlabs-hris/hris-workforce-go/internal/service/tenant"
	userService "github.com/cmlabs-hris/hris-workforce-go/internal/service/user"
)

const version = "v1.0.0"

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	// Repositories
	tx := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	companyRepo := postgresql.NewCompanyRepository(db)
	selectionRepo := postgresql.NewTenantSelectionRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	orgUnitRepo := postgresql.NewOrgUnitRepository(db)
	eventRepo := postgresql.NewAttendanceEventRepository(db)
	workdayRepo := postgresql.NewAttendanceWorkdayRepository(db)
	leaveTypeRepo := postgresql.NewLeaveTypeRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	approvalRecordRepo := postgresql.NewApprovalRecordRepository(db)
	balanceRepo := postgresql.NewVacationBalanceRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	auditRepo := postgresql.NewAuditRepository(db)
	dashboardRepo := postgresql.NewDashboardRepository(db)
	reportRepo := postgresql.NewReportRepository(db)

	// Sinks
	hub := sse.NewHub(16)
	defer hub.Close()
	notifications := notificationService.NewNotificationService(notificationRepo, hub, notificationService.Config{
		BatchSize:     cfg.Notification.BatchSize,
		FlushInterval: cfg.Notification.FlushInterval,
		WorkerCount:   cfg.Notification.WorkerCount,
		QueueSize:     cfg.Notification.QueueSize,
	})
	defer notifications.Stop()
	dispatcher := eventService.NewDispatcher(notifications, auditService.NewAuditor(auditRepo))

	// Services
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	resolver := tenantService.NewResolver(companyRepo, selectionRepo)
	orgUnits := orgUnitService.NewOrgUnitService(orgUnitRepo, employeeRepo)
	attendance := attendanceService.NewAttendanceService(tx, eventRepo, workdayRepo, employeeRepo, companyRepo, leaveRequestRepo)
	leaves := leaveService.NewLeaveService(tx, leaveTypeRepo, leaveRequestRepo, approvalRecordRepo, balanceRepo, employeeRepo, orgUnits, attendance)

	handlers := appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(authService.NewAuthService(userRepo, JWTService)),
		User:         appHTTP.NewUserHandler(userService.NewUserService(userRepo, employeeRepo), dispatcher),
		Company:      appHTTP.NewCompanyHandler(companyService.NewCompanyService(tx, companyRepo, leaveTypeRepo), dispatcher),
		Employee:     appHTTP.NewEmployeeHandler(employeeService.NewEmployeeService(employeeRepo, orgUnitRepo), dispatcher),
		OrgUnit:      appHTTP.NewOrgUnitHandler(orgUnits, dispatcher),
		Attendance:   appHTTP.NewAttendanceHandler(attendance, dispatcher),
		Leave:        appHTTP.NewLeaveHandler(leaves, dispatcher),
		Notification: appHTTP.NewNotificationHandler(notifications, JWTService),
		Dashboard:    appHTTP.NewDashboardHandler(dashboardService.NewDashboardService(dashboardRepo, companyRepo)),
		Report:       appHTTP.NewReportHandler(reportService.NewReportService(reportRepo, companyRepo)),
	}

	router := appHTTP.NewRouter(JWTService, resolver, handlers, appHTTP.RouterOptions{
		AllowedOrigins: cfg.App.AllowedOrigins,
		Env:            cfg.App.Env,
		Version:        version,
		LogLevel:       cfg.SlogLevel(),
	})

	// Background jobs
	if cfg.Attendance.CronEnabled {
		scheduler := cron.NewScheduler(slog.Default())
		cron.NewAttendanceJobs(attendance, companyRepo, dispatcher, cfg.Attendance.RecomputeLocalHour).RegisterJobs(scheduler)
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
