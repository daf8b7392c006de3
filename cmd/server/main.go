package main

import (
	"fmt"
	"log"
	"net/http"

	"clientflow/internal/api"
	"clientflow/internal/api/handlers"
	"clientflow/internal/api/middleware"
	"clientflow/internal/engine/credentials"
	"clientflow/internal/engine/dailylogs"
	"clientflow/internal/engine/reports"
	"clientflow/internal/engine/scope"
	"clientflow/internal/engine/taskflow"
	"clientflow/internal/engine/team"
	"clientflow/internal/pkg/logger"
	"clientflow/internal/platform/audit"
	"clientflow/internal/platform/auth"
	"clientflow/internal/platform/config"
	"clientflow/internal/platform/database"
	"clientflow/internal/platform/repositories"
	"clientflow/internal/platform/storage"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Logging)

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Repositories
	profileRepo := repositories.NewProfileRepository(db)
	clientRepo := repositories.NewClientRepository(db)
	serviceRepo := repositories.NewServiceRepository(db)
	assignmentRepo := repositories.NewAssignmentRepository(db)
	attachmentRepo := repositories.NewAttachmentRepository(db)
	documentRepo := repositories.NewDocumentRepository(db)
	noteRepo := repositories.NewNoteRepository(db)
	feedbackRepo := repositories.NewFeedbackRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	// Services
	tokenSvc := auth.NewTokenService(cfg.JWT)
	auditLog := audit.NewLogger(db)

	cipher, err := credentials.NewCipher(cfg.Credentials.EncryptionKey)
	if err != nil {
		log.Fatalf("Invalid credential encryption key: %v", err)
	}
	credentialSvc := credentials.NewService(credentials.NewRepository(db), cipher)

	store, err := storage.New(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	dailyLogSvc := dailylogs.NewService(dailylogs.NewRepository(db), assignmentRepo)
	reportSvc := reports.NewService(reports.NewRepository(db))
	taskSvc := taskflow.NewService(taskflow.NewRepository(db))
	teamSvc := team.NewService(db)
	queryRunner := scope.NewRunner(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(profileRepo, tokenSvc, auditLog)
	profileHandler := handlers.NewProfileHandler(profileRepo, tokenSvc)
	clientHandler := handlers.NewClientHandler(clientRepo, serviceRepo, assignmentRepo, auditLog)
	assignmentHandler := handlers.NewAssignmentHandler(assignmentRepo, clientRepo, serviceRepo, auditLog)
	taskHandler := handlers.NewTaskHandler(taskSvc, auditLog)
	dailyLogHandler := handlers.NewDailyLogHandler(dailyLogSvc, auditLog)
	reportHandler := handlers.NewReportHandler(reportSvc, attachmentRepo, feedbackRepo, notificationRepo, store, cfg.Storage.MaxUploadSize, auditLog)
	credentialHandler := handlers.NewCredentialHandler(credentialSvc, profileRepo, auditLog)
	documentHandler := handlers.NewDocumentHandler(documentRepo, store, cfg.Storage.MaxUploadSize, auditLog)
	noteHandler := handlers.NewNoteHandler(noteRepo)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	teamHandler := handlers.NewTeamHandler(teamSvc)
	portalHandler := handlers.NewPortalHandler(reportSvc, clientRepo, attachmentRepo)
	queryHandler := handlers.NewQueryHandler(queryRunner)
	healthHandler := handlers.NewHealthHandler(db)

	deps := &api.Dependencies{
		AuthHandler:         authHandler,
		ProfileHandler:      profileHandler,
		ClientHandler:       clientHandler,
		AssignmentHandler:   assignmentHandler,
		TaskHandler:         taskHandler,
		DailyLogHandler:     dailyLogHandler,
		ReportHandler:       reportHandler,
		CredentialHandler:   credentialHandler,
		DocumentHandler:     documentHandler,
		NoteHandler:         noteHandler,
		NotificationHandler: notificationHandler,
		TeamHandler:         teamHandler,
		PortalHandler:       portalHandler,
		QueryHandler:        queryHandler,
		HealthHandler:       healthHandler,
		AuthMiddleware:      middleware.NewAuthMiddleware(tokenSvc),
	}
	router := api.NewRouter(deps)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	log.Printf("Server starting on %s", addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
