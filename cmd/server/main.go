package main

import (
	"database/sql"
	"net/http"
	"os"
	"time"

	_ "github.com/lib/pq"

	"grouptee/config"
	"grouptee/internal/adapters/auth"
	"grouptee/internal/adapters/email"
	"grouptee/internal/adapters/push"
	deliveryhttp "grouptee/internal/delivery/http"
	"grouptee/internal/delivery/http/controllers"
	"grouptee/internal/delivery/http/middleware"
	"grouptee/internal/domain"
	"grouptee/internal/repository/postgres"
	"grouptee/internal/services"
)

// @title Group Tee API
// @version 1.0
// @description Tee-time scheduling for golf groups: member interest sign-up, rosters, invitations, and admin tee sheet management.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to reach database", "err", err)
		os.Exit(1)
	}

	// Repositories
	profileRepo := postgres.NewProfileRepository(db)
	loginCodeRepo := postgres.NewLoginCodeRepository(db)
	groupRepo := postgres.NewGroupRepository(db)
	membershipRepo := postgres.NewMembershipRepository(db)
	clubAdminRepo := postgres.NewClubAdminRepository(db)
	interestRepo := postgres.NewInterestRepository(db)
	invitationRepo := postgres.NewInvitationRepository(db)
	weekendRepo := postgres.NewWeekendRepository(db)
	teeTimeRepo := postgres.NewTeeTimeRepository(db)
	assignmentRepo := postgres.NewAssignmentRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	pushTokenRepo := postgres.NewPushTokenRepository(db)

	// Adapters
	tokenIssuer := auth.NewJWTIssuer(cfg.JWTSecret)
	tokenVerifier := auth.NewJWTVerifier(cfg.JWTSecret)
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFrom,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:             cfg.SESRegion,
			AccessKeyID:        cfg.SESAccessKeyID,
			SecretAccessKey:    cfg.SESSecretKey,
			InsecureSkipVerify: cfg.SESSkipVerify,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}
	var pushSender domain.PushSender
	if cfg.PushEnabled {
		pushSender = push.NewExpoSender(nil, cfg.PushGatewayURL)
	}

	// Services
	const svcTimeout = 10 * time.Second
	lockout := domain.NewLockoutPolicy(cfg.LockoutDays, cfg.WarningDays, nil)
	emailSvc := services.NewEmailService(mailer, email.NewTemplateRenderer())
	userSvc := services.NewUserService(profileRepo, loginCodeRepo, tokenIssuer, cfg.TokenExpiry, emailSvc)
	interestSvc := services.NewInterestService(interestRepo, lockout, svcTimeout)
	groupSvc := services.NewGroupService(groupRepo, membershipRepo, clubAdminRepo, svcTimeout)
	rosterSvc := services.NewRosterService(groupRepo, membershipRepo, invitationRepo, clubAdminRepo, svcTimeout)
	invitationSvc := services.NewInvitationService(invitationRepo, groupRepo, membershipRepo, clubAdminRepo, profileRepo, emailSvc, svcTimeout)
	teeTimeSvc := services.NewTeeTimeService(teeTimeRepo, weekendRepo, assignmentRepo, groupRepo, membershipRepo, clubAdminRepo, svcTimeout)
	notificationSvc := services.NewNotificationService(notificationRepo, pushTokenRepo, pushSender, svcTimeout)
	assignmentSvc := services.NewAssignmentService(teeTimeRepo, assignmentRepo, interestRepo, groupRepo, membershipRepo, invitationRepo, clubAdminRepo, profileRepo, notificationSvc, nil, svcTimeout)

	// HTTP
	mux := deliveryhttp.NewRouter(deliveryhttp.Controllers{
		User:         controllers.NewUserController(logger, userSvc),
		Interest:     controllers.NewInterestController(logger, interestSvc, lockout),
		Group:        controllers.NewGroupController(logger, groupSvc, rosterSvc),
		Invitation:   controllers.NewInvitationController(logger, invitationSvc),
		TeeTime:      controllers.NewTeeTimeController(logger, teeTimeSvc),
		Assignment:   controllers.NewAssignmentController(logger, assignmentSvc),
		Notification: controllers.NewNotificationController(logger, notificationSvc),
	}, tokenVerifier, logger)

	handler := middleware.LoggingMiddleware(logger, middleware.CORS(cfg.CORSAllowedOrigins, mux))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
	if err := server.ListenAndServe(); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
