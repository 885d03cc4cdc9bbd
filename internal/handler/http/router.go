package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workforce-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth         AuthHandler
	User         UserHandler
	Company      CompanyHandler
	Employee     EmployeeHandler
	OrgUnit      OrgUnitHandler
	Attendance   AttendanceHandler
	Leave        LeaveHandler
	Notification NotificationHandler
	Dashboard    DashboardHandler
	Report       ReportHandler
}

type RouterOptions struct {
	AllowedOrigins []string
	Env            string
	Version        string
	LogLevel       slog.Level
}

func NewRouter(jwtService jwt.Service, resolver tenant.Resolver, h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hris-workforce"),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", middleware.CompanyHeader},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", h.Auth.Login)

		// Authenticated by the token query parameter
		r.Get("/notifications/stream", h.Notification.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Get("/auth/me", h.Auth.Me)
			r.Post("/notifications/stream-token", h.Notification.GetStreamToken)

			// Platform administration
			r.Route("/companies", func(r chi.Router) {
				r.Use(middleware.RequireGlobal)
				r.Get("/", h.Company.List)
				r.Post("/", h.Company.Create)
			})

			// Everything below runs inside one tenant
			r.Group(func(r chi.Router) {
				r.Use(middleware.Tenant(resolver))

				r.Route("/company", func(r chi.Router) {
					r.Get("/", h.Company.Get)
					r.With(middleware.RequirePermission(user.PermissionCompanyManage)).Put("/", h.Company.Update)
				})

				r.Route("/users", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionUserManage))
					r.Get("/", h.User.List)
					r.Post("/", h.User.Create)
				})

				r.Route("/employees", func(r chi.Router) {
					r.Get("/", h.Employee.List)
					r.Get("/{id}", h.Employee.Get)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionEmployeeManage))
						r.Post("/", h.Employee.Create)
						r.Put("/{id}", h.Employee.Update)
						r.Delete("/{id}", h.Employee.Deactivate)
					})
				})

				r.Route("/org-units", func(r chi.Router) {
					r.Get("/", h.OrgUnit.List)
					r.Get("/{id}", h.OrgUnit.Get)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionOrgUnitManage))
						r.Post("/", h.OrgUnit.Create)
						r.Put("/{id}", h.OrgUnit.Update)
						r.Delete("/{id}", h.OrgUnit.Delete)
					})
				})

				r.Route("/attendance", func(r chi.Router) {
					r.Post("/events", h.Attendance.RecordEvent)
					r.Get("/events", h.Attendance.ListEvents)
					r.Get("/workdays", h.Attendance.ListWorkdays)
					r.Get("/workdays/{employeeID}/{date}", h.Attendance.GetWorkday)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionAttendanceManage))
						r.Post("/recompute", h.Attendance.Recompute)
						r.Post("/recompute/{date}", h.Attendance.RecomputeDay)
					})
				})

				r.Route("/leave", func(r chi.Router) {
					r.Route("/types", func(r chi.Router) {
						r.Get("/", h.Leave.ListTypes)
						r.Get("/{id}", h.Leave.GetType)

						r.Group(func(r chi.Router) {
							r.Use(middleware.RequirePermission(user.PermissionLeaveManage))
							r.Post("/", h.Leave.CreateType)
							r.Put("/{id}", h.Leave.UpdateType)
						})
					})

					r.Route("/requests", func(r chi.Router) {
						r.Get("/", h.Leave.ListRequests)
						r.Post("/", h.Leave.SubmitRequest)
						r.Get("/{id}", h.Leave.GetRequest)
						r.Put("/{id}", h.Leave.UpdateRequest)
						r.Delete("/{id}", h.Leave.DeleteRequest)
						r.Get("/{id}/history", h.Leave.History)
						r.Post("/{id}/approve", h.Leave.ApproveRequest)
						r.Post("/{id}/reject", h.Leave.RejectRequest)
						r.Post("/{id}/return", h.Leave.ReturnRequest)
					})

					r.Route("/balances", func(r chi.Router) {
						r.Get("/{employeeID}/{period}", h.Leave.GetBalance)

						r.Group(func(r chi.Router) {
							r.Use(middleware.RequirePermission(user.PermissionLeaveViewAll))
							r.Get("/", h.Leave.ListBalances)
						})
						r.With(middleware.RequirePermission(user.PermissionLeaveManage)).Put("/", h.Leave.SetBalance)
					})
				})

				r.Route("/notifications", func(r chi.Router) {
					r.Get("/", h.Notification.List)
					r.Get("/unread-count", h.Notification.UnreadCount)
					r.Put("/read", h.Notification.MarkAsRead)
					r.Put("/read-all", h.Notification.MarkAllAsRead)
					r.Delete("/{id}", h.Notification.Delete)
				})

				r.With(middleware.RequirePermission(user.PermissionDashboardView)).Get("/dashboard", h.Dashboard.Get)
				r.With(middleware.RequirePermission(user.PermissionReportExport)).Get("/reports/attendance.xlsx", h.Report.AttendanceXLSX)
			})
		})
	})
	return r
}
