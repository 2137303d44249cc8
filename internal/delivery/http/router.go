package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"grouptee/internal/delivery/http/controllers"
	"grouptee/internal/delivery/http/middleware"
	"grouptee/internal/domain"
)

// Controllers bundles everything the router mounts.
type Controllers struct {
	User         *controllers.UserController
	Interest     *controllers.InterestController
	Group        *controllers.GroupController
	Invitation   *controllers.InvitationController
	TeeTime      *controllers.TeeTimeController
	Assignment   *controllers.AssignmentController
	Notification *controllers.NotificationController
}

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(c Controllers, verifier domain.TokenVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /auth/request-code", c.User.RequestCode)
	mux.HandleFunc("POST /auth/verify", c.User.VerifyCode)

	// Profile
	mux.HandleFunc("GET /users/me", auth(c.User.GetMe))
	mux.HandleFunc("PATCH /users/me", auth(c.User.UpdateMe))

	// Interests
	mux.HandleFunc("GET /interests", auth(c.Interest.List))
	mux.HandleFunc("GET /interests/{date}", auth(c.Interest.Get))
	mux.HandleFunc("PUT /interests/{date}", auth(c.Interest.Upsert))

	// Groups
	mux.HandleFunc("POST /groups", auth(c.Group.Create))
	mux.HandleFunc("GET /groups", auth(c.Group.ListMine))
	mux.HandleFunc("GET /groups/{groupID}/members", auth(c.Group.ListMembers))
	mux.HandleFunc("GET /groups/{groupID}/roster", auth(c.Group.GetRoster))

	// Invitations
	mux.HandleFunc("POST /groups/{groupID}/invitations", auth(c.Invitation.Create))
	mux.HandleFunc("GET /groups/{groupID}/invitations", auth(c.Invitation.List))
	mux.HandleFunc("POST /invitations/claim", auth(c.Invitation.Claim))

	// Weekends and tee times
	mux.HandleFunc("POST /groups/{groupID}/weekends", auth(c.TeeTime.CreateWeekend))
	mux.HandleFunc("GET /groups/{groupID}/weekends", auth(c.TeeTime.ListWeekends))
	mux.HandleFunc("POST /weekends/{weekendID}/tee-times", auth(c.TeeTime.Create))
	mux.HandleFunc("GET /weekends/{weekendID}/tee-times", auth(c.TeeTime.ListByWeekend))
	mux.HandleFunc("GET /tee-times/{teeTimeID}", auth(c.TeeTime.Get))
	mux.HandleFunc("GET /tee-times/{teeTimeID}/deletion-summary", auth(c.TeeTime.DeletionSummary))
	mux.HandleFunc("DELETE /tee-times/{teeTimeID}", auth(c.TeeTime.Delete))

	// Assignments
	mux.HandleFunc("POST /tee-times/{teeTimeID}/assignments", auth(c.Assignment.Assign))
	mux.HandleFunc("DELETE /tee-times/{teeTimeID}/assignments", auth(c.Assignment.Remove))
	mux.HandleFunc("POST /tee-times/{teeTimeID}/auto-assign", auth(c.Assignment.AutoAssign))

	// Notifications
	mux.HandleFunc("GET /notifications", auth(c.Notification.List))
	mux.HandleFunc("POST /notifications/{notificationID}/read", auth(c.Notification.MarkRead))
	mux.HandleFunc("POST /push-tokens", auth(c.Notification.RegisterPushToken))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
