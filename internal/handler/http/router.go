package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/timekeeper-go/internal/config"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
	"github.com/cmlabs-hris/timekeeper-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/metrics"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// Handlers groups every HTTP handler mounted by NewRouter.
type Handlers struct {
	Auth       AuthHandler
	Account    AccountHandler
	Employee   EmployeeHandler
	TimeEntry  TimeEntryHandler
	Dashboard  DashboardHandler
	Timesheet  TimesheetHandler
	Correction CorrectionHandler
	Leave      LeaveHandler
	Roster     RosterHandler
	Settings   SettingsHandler
	Report     ReportHandler
	Audit      AuditHandler
	Handover   HandoverHandler
	Health     HealthHandler
}

func NewRouter(app config.AppConfig, uploadsPath string, JWTService jwt.Service, users middleware.ActorLoader, m *metrics.Metrics, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(app.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", app.Name),
		slog.String("env", app.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.AllowedOrigin,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Init-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(m.Middleware)
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)

	r.Get("/healthz", h.Health.Healthz)
	r.Handle("/metrics", m.Handler())
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadsPath))))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/forgot-password", h.Auth.ForgotPassword)
			r.Post("/reset-password", h.Auth.ResetPassword)
		})

		// Bootstrap; a signed-in admin may call it without the init token
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.OptionalActor(users))
			r.Post("/init", h.Auth.Init)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))
			r.Use(middleware.ResolveActor(users))

			r.Post("/auth/logout", h.Auth.Logout)
			r.Get("/dashboard", h.Dashboard.GetDashboard)

			r.Route("/me", func(r chi.Router) {
				r.Get("/", h.Account.Me)
				r.Put("/password", h.Account.ChangePassword)
				r.Put("/username", h.Account.ChangeUsername)
				r.Put("/email", h.Account.UpdateEmail)
				r.Put("/phone", h.Account.UpdatePhone)
				r.Post("/picture", h.Account.UploadPicture)
			})

			r.Route("/entries", func(r chi.Router) {
				r.Get("/today", h.TimeEntry.Today)
				r.Get("/week", h.TimeEntry.Week)
				r.Get("/calendar", h.TimeEntry.Calendar)
				r.Post("/actions/{action}", h.TimeEntry.Punch)
				r.Put("/today/notes", h.TimeEntry.SaveNotes)
				r.Post("/{id}/reset", h.TimeEntry.ResetEntry)
			})

			r.Route("/corrections", func(r chi.Router) {
				r.Post("/", h.Correction.Submit)
				r.Get("/my", h.Correction.ListMine)
			})

			r.Route("/leave-requests", func(r chi.Router) {
				r.Post("/", h.Leave.CreateRequest)
				r.Get("/my", h.Leave.GetMyRequests)
			})

			r.Get("/rosters/my", h.Roster.MyWeek)

			r.Route("/handover", func(r chi.Router) {
				r.Get("/", h.Handover.ListMessages)
				r.Post("/", h.Handover.PostMessage)
				r.Get("/stream", h.Handover.Stream)
			})

			r.Route("/admin", func(r chi.Router) {

				r.Route("/employees", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionEmployeeManage))
					r.Get("/", h.Employee.ListEmployees)
					r.Post("/", h.Employee.CreateEmployee)
					r.Put("/{id}", h.Employee.UpdateEmployee)
					r.Post("/{id}/toggle", h.Employee.ToggleEmployee)
					r.Delete("/{id}", h.Employee.DeleteEmployee)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionEntryEdit))
					r.Put("/entries", h.TimeEntry.EditEntry)
					r.Post("/weeks/reset", h.TimeEntry.ResetWeek)
				})

				r.Route("/timesheets", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionTimesheetApprove))
					r.Get("/pending", h.Timesheet.ListPending)
					r.Post("/{id}/review", h.Timesheet.Review)
				})

				r.Route("/corrections", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionCorrectionApprove))
					r.Get("/pending", h.Correction.ListPending)
					r.Post("/{id}/review", h.Correction.Review)
				})

				r.Route("/leave-requests", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionLeaveApprove))
					r.Get("/pending", h.Leave.ListPendingRequests)
					r.Post("/{id}/review", h.Leave.ReviewRequest)
				})

				r.Route("/rosters", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionRosterManage))
					r.Get("/board", h.Roster.WeekBoard)
					r.Put("/shift", h.Roster.SetShift)
					r.Put("/shift/all", h.Roster.SetShiftForAll)
					r.Put("/week", h.Roster.BulkUpsertWeek)
				})

				r.Route("/settings", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionSettingsManage))
					r.Get("/", h.Settings.GetSettings)
					r.Put("/", h.Settings.UpdateSettings)
				})

				r.Route("/reports", func(r chi.Router) {
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionReportsView))
						r.Get("/payroll", h.Report.GetPayroll)
						r.Get("/summary", h.Report.GetSummary)
						r.Get("/weekly", h.Report.GetWeeklySummaries)
					})
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionReportsExport))
						r.Get("/payroll/export", h.Report.ExportPayroll)
						r.Get("/export", h.Report.ExportCSV)
					})
				})

				r.With(middleware.RequirePermission(user.PermissionAuditView)).Get("/audit", h.Audit.ListActivity)
			})
		})
	})
	return r
}
