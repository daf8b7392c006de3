package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apiContext "clientflow/internal/api/context"
	"clientflow/internal/api/handlers"
	"clientflow/internal/api/middleware"
	"clientflow/internal/pkg/errors"
	"clientflow/internal/platform/auth"
)

type Dependencies struct {
	AuthHandler         *handlers.AuthHandler
	ProfileHandler      *handlers.ProfileHandler
	ClientHandler       *handlers.ClientHandler
	AssignmentHandler   *handlers.AssignmentHandler
	TaskHandler         *handlers.TaskHandler
	DailyLogHandler     *handlers.DailyLogHandler
	ReportHandler       *handlers.ReportHandler
	CredentialHandler   *handlers.CredentialHandler
	DocumentHandler     *handlers.DocumentHandler
	NoteHandler         *handlers.NoteHandler
	NotificationHandler *handlers.NotificationHandler
	TeamHandler         *handlers.TeamHandler
	PortalHandler       *handlers.PortalHandler
	QueryHandler        *handlers.QueryHandler
	HealthHandler       *handlers.HealthHandler
	AuthMiddleware      *middleware.AuthMiddleware
}

func NewRouter(deps *Dependencies) *httprouter.Router {
	router := httprouter.New()

	router.GET("/healthz", wrap(deps.HealthHandler.Check))

	// Authentication routes
	router.POST("/api/v1/auth/signup", chain(deps.AuthHandler.Signup, middleware.RateLimit("auth")))
	router.POST("/api/v1/auth/login", chain(deps.AuthHandler.Login, middleware.RateLimit("auth")))
	router.POST("/api/v1/auth/refresh", chain(deps.AuthHandler.Refresh, middleware.RateLimit("auth")))
	router.POST("/api/v1/auth/logout", wrap(deps.AuthHandler.Logout))
	router.POST("/api/v1/auth/reset-password", chain(deps.AuthHandler.ResetPassword, middleware.RateLimit("auth")))

	// Session bootstrap. Validates its own token so failures are always 401.
	router.GET("/api/profile", wrap(deps.ProfileHandler.Get))

	authMid := deps.AuthMiddleware
	read := middleware.RateLimit("api_read")
	write := middleware.RateLimit("api_write")

	// Account management
	router.POST("/api/v1/account/password",
		chain(deps.AuthHandler.UpdatePassword, authMid.Handle, write))
	router.GET("/api/v1/users",
		chain(deps.ProfileHandler.List, authMid.Handle, read, requireRole("admin")))
	router.PATCH("/api/v1/users/:user_id/status",
		chain(deps.ProfileHandler.UpdateStatus, authMid.Handle, write, requireRole("admin")))
	router.POST("/api/v1/portal-accounts",
		chain(deps.ProfileHandler.CreatePortalAccount, authMid.Handle, write, requireRole("admin")))

	// Clients and services
	router.GET("/api/v1/services",
		chain(deps.ClientHandler.ListServices, authMid.Handle, read))
	router.POST("/api/v1/clients",
		chain(deps.ClientHandler.Create, authMid.Handle, write, requireRole("admin")))
	router.GET("/api/v1/clients",
		chain(deps.ClientHandler.List, authMid.Handle, read, requireRole("admin", "employee")))
	router.GET("/api/v1/clients/:client_id",
		chain(deps.ClientHandler.Get, authMid.Handle, read, requireRole("admin", "employee")))
	router.PATCH("/api/v1/clients/:client_id",
		chain(deps.ClientHandler.Update, authMid.Handle, write, requireRole("admin")))
	router.DELETE("/api/v1/clients/:client_id",
		chain(deps.ClientHandler.Delete, authMid.Handle, write, requireRole("admin")))

	// Client notes and credentials
	router.POST("/api/v1/clients/:client_id/notes",
		chain(deps.NoteHandler.Create, authMid.Handle, write, requireRole("admin", "employee")))
	router.GET("/api/v1/clients/:client_id/notes",
		chain(deps.NoteHandler.List, authMid.Handle, read, requireRole("admin", "employee")))
	router.DELETE("/api/v1/notes/:note_id",
		chain(deps.NoteHandler.Delete, authMid.Handle, write, requireRole("admin", "employee")))
	router.GET("/api/v1/clients/:client_id/credentials",
		chain(deps.CredentialHandler.ListForClient, authMid.Handle, read, requireRole("admin", "employee")))
	router.POST("/api/v1/credentials",
		chain(deps.CredentialHandler.Create, authMid.Handle, write, requireRole("admin")))
	router.PATCH("/api/v1/credentials/:credential_id",
		chain(deps.CredentialHandler.Update, authMid.Handle, write, requireRole("admin")))
	router.DELETE("/api/v1/credentials/:credential_id",
		chain(deps.CredentialHandler.Delete, authMid.Handle, write, requireRole("admin")))

	// Assignments
	router.POST("/api/v1/assignments",
		chain(deps.AssignmentHandler.Create, authMid.Handle, write, requireRole("admin")))
	router.DELETE("/api/v1/assignments/:assignment_id",
		chain(deps.AssignmentHandler.Delete, authMid.Handle, write, requireRole("admin")))
	router.GET("/api/v1/assignments",
		chain(deps.AssignmentHandler.ListMine, authMid.Handle, read, requireRole("admin", "employee")))

	// Tasks
	router.POST("/api/v1/tasks",
		chain(deps.TaskHandler.Create, authMid.Handle, write, requireRole("admin", "employee")))
	router.GET("/api/v1/tasks",
		chain(deps.TaskHandler.List, authMid.Handle, read, requireRole("admin", "employee")))
	router.POST("/api/v1/tasks/:task_id/toggle",
		chain(deps.TaskHandler.Toggle, authMid.Handle, write, requireRole("admin", "employee")))
	router.PATCH("/api/v1/tasks/:task_id/remarks",
		chain(deps.TaskHandler.Annotate, authMid.Handle, write, requireRole("admin", "employee")))
	router.DELETE("/api/v1/tasks/:task_id",
		chain(deps.TaskHandler.Delete, authMid.Handle, write, requireRole("admin", "employee")))

	// Daily task logs
	router.GET("/api/v1/daily-logs",
		chain(deps.DailyLogHandler.Reconcile, authMid.Handle, read, requireRole("employee")))
	router.PUT("/api/v1/daily-logs/draft",
		chain(deps.DailyLogHandler.SaveDraft, authMid.Handle, write, requireRole("employee")))
	router.PUT("/api/v1/daily-logs/submit",
		chain(deps.DailyLogHandler.Submit, authMid.Handle, write, requireRole("employee")))

	// Weekly reports
	router.PUT("/api/v1/reports/draft",
		chain(deps.ReportHandler.SaveDraft, authMid.Handle, write, requireRole("employee")))
	router.POST("/api/v1/reports/:report_id/submit",
		chain(deps.ReportHandler.Finalize, authMid.Handle, write, requireRole("employee")))
	router.GET("/api/v1/reports",
		chain(deps.ReportHandler.ListMine, authMid.Handle, read, requireRole("employee")))
	router.GET("/api/v1/review/pending",
		chain(deps.ReportHandler.ListPending, authMid.Handle, read, requireRole("admin")))
	router.POST("/api/v1/review/:report_id",
		chain(deps.ReportHandler.Review, authMid.Handle, write, requireRole("admin")))
	router.POST("/api/v1/reports/:report_id/attachments",
		chain(deps.ReportHandler.UploadAttachment, authMid.Handle, write, requireRole("admin", "employee")))
	router.GET("/api/v1/reports/:report_id/attachments",
		chain(deps.ReportHandler.ListAttachments, authMid.Handle, read, requireRole("admin", "employee")))
	router.GET("/api/v1/attachments/:attachment_id",
		chain(deps.ReportHandler.DownloadAttachment, authMid.Handle, read, requireRole("admin", "employee")))
	router.POST("/api/v1/reports/:report_id/feedback",
		chain(deps.ReportHandler.AddFeedback, authMid.Handle, write, requireRole("admin", "employee")))
	router.GET("/api/v1/reports/:report_id/feedback",
		chain(deps.ReportHandler.ListFeedback, authMid.Handle, read, requireRole("admin", "employee")))

	// Shared documents
	router.POST("/api/v1/documents",
		chain(deps.DocumentHandler.Upload, authMid.Handle, write, requireRole("admin", "employee")))
	router.GET("/api/v1/documents",
		chain(deps.DocumentHandler.List, authMid.Handle, read, requireRole("admin", "employee")))
	router.GET("/api/v1/documents/:document_id",
		chain(deps.DocumentHandler.Download, authMid.Handle, read, requireRole("admin", "employee")))
	router.DELETE("/api/v1/documents/:document_id",
		chain(deps.DocumentHandler.Delete, authMid.Handle, write, requireRole("admin")))

	// Notifications
	router.GET("/api/v1/notifications",
		chain(deps.NotificationHandler.List, authMid.Handle, read))
	router.POST("/api/v1/notifications/:notification_id/read",
		chain(deps.NotificationHandler.MarkRead, authMid.Handle, write))
	router.PUT("/api/v1/notifications/read-all",
		chain(deps.NotificationHandler.MarkAllRead, authMid.Handle, write))

	// Team procedures
	router.GET("/api/v1/team/members",
		chain(deps.TeamHandler.Members, authMid.Handle, read, requireRole("admin")))
	router.GET("/api/v1/team/managed-clients",
		chain(deps.TeamHandler.ManagedClients, authMid.Handle, read, requireRole("admin", "employee")))
	router.GET("/api/v1/team/daily-progress",
		chain(deps.TeamHandler.DailyProgress, authMid.Handle, read, requireRole("admin")))
	router.GET("/api/v1/team/prioritized-tasks",
		chain(deps.TeamHandler.PrioritizedTasks, authMid.Handle, read, requireRole("admin", "employee")))
	router.GET("/api/v1/team/available-members",
		chain(deps.TeamHandler.AvailableMembers, authMid.Handle, read, requireRole("admin")))
	router.GET("/api/v1/team/daily-agenda",
		chain(deps.TeamHandler.DailyAgenda, authMid.Handle, read, requireRole("admin", "employee")))

	// Scoped table queries
	router.POST("/api/v1/query",
		chain(deps.QueryHandler.Query, authMid.Handle, read, requireRole("admin", "employee")))

	// Client portal
	router.GET("/api/v1/portal/overview",
		chain(deps.PortalHandler.Overview, authMid.Handle, read, requireRole("portal")))
	router.GET("/api/v1/portal/reports",
		chain(deps.PortalHandler.Reports, authMid.Handle, read, requireRole("portal")))
	router.GET("/api/v1/portal/reports/:report_id/attachments",
		chain(deps.PortalHandler.ReportAttachments, authMid.Handle, read, requireRole("portal")))

	return router
}

// Helper function to chain middlewares
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

// Convert http.HandlerFunc to httprouter.Handle
func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx := context.WithValue(r.Context(), apiContext.Params, ps)
		handler(w, r.WithContext(ctx))
	}
}

func requireRole(roles ...string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, ok := r.Context().Value(apiContext.Claims).(*auth.Claims)
			if !ok || claims == nil {
				errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Authentication required", nil)
				return
			}

			allowed := false
			for _, role := range roles {
				if claims.Role == role {
					allowed = true
					break
				}
			}

			if !allowed {
				errors.WriteError(w, http.StatusForbidden, errors.ErrCodeForbidden, "Insufficient permissions", nil)
				return
			}

			next(w, r)
		}
	}
}
