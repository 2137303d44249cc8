package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"grouptee/internal/delivery/http/helpers"
	"grouptee/internal/domain"
)

// RegisterPushTokenRequest is the request body for POST /push-tokens
type RegisterPushTokenRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

// Validate implements Validator.
func (r RegisterPushTokenRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Token) == "" {
		errs = append(errs, "token is required")
	}
	platform := strings.TrimSpace(strings.ToLower(r.Platform))
	if platform != "" && platform != "ios" && platform != "android" {
		errs = append(errs, `platform must be "ios" or "android"`)
	}
	return errs
}

// NotificationController handles in-app notifications and push token registration.
type NotificationController struct {
	Logger  *slog.Logger
	Service domain.NotificationService
}

// NewNotificationController creates a NotificationController.
func NewNotificationController(logger *slog.Logger, svc domain.NotificationService) *NotificationController {
	return &NotificationController{
		Logger:  logger,
		Service: svc,
	}
}

// List godoc
// @Summary List my notifications
// @Description Returns the caller's notifications, newest first.
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the notification list"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /notifications [get]
func (c *NotificationController) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	notifications, err := c.Service.List(r.Context(), userID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, notifications)
}

// MarkRead godoc
// @Summary Mark a notification read
// @Description Marks one of the caller's notifications as read.
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param notificationID path string true "Notification ID"
// @Success 204 "Marked read"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /notifications/{notificationID}/read [post]
func (c *NotificationController) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := c.Service.MarkRead(r.Context(), r.PathValue("notificationID"), userID); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RegisterPushToken godoc
// @Summary Register a device push token
// @Description Registers (or re-registers) a device token for push delivery. Re-registering an existing token moves it to the caller.
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RegisterPushTokenRequest true "Device token"
// @Success 204 "Registered"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /push-tokens [post]
func (c *NotificationController) RegisterPushToken(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req RegisterPushTokenRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.RegisterToken(r.Context(), userID, req.Token, strings.ToLower(strings.TrimSpace(req.Platform))); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
