package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"grouptee/internal/delivery/http/helpers"
	"grouptee/internal/delivery/http/middleware"
	"grouptee/internal/domain"
)

// CreateGroupRequest is the request body for POST /groups
type CreateGroupRequest struct {
	ClubID string `json:"club_id"`
	Name   string `json:"name"`
}

// Validate implements Validator.
func (c CreateGroupRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(c.ClubID) == "" {
		errs = append(errs, "club_id is required")
	}
	return errs
}

// GroupController handles group, membership, and roster endpoints.
type GroupController struct {
	Logger  *slog.Logger
	Service domain.GroupService
	Roster  domain.RosterService
}

// NewGroupController creates a GroupController.
func NewGroupController(logger *slog.Logger, svc domain.GroupService, roster domain.RosterService) *GroupController {
	return &GroupController{
		Logger:  logger,
		Service: svc,
		Roster:  roster,
	}
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return "", false
	}
	return userID, true
}

// writeServiceError maps the common service sentinels onto HTTP statuses and
// falls through to a logged 500.
func writeServiceError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "not found")
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}

// Create godoc
// @Summary Create a group
// @Description Create a golf group in a club. The caller becomes the group's first admin.
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateGroupRequest true "Group data"
// @Success 201 {object} helpers.APIResponse "data contains the created group"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /groups [post]
func (c *GroupController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req CreateGroupRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	group := &domain.Group{ClubID: strings.TrimSpace(req.ClubID), Name: req.Name}
	if err := c.Service.Create(r.Context(), group, userID); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, group)
}

// ListMine godoc
// @Summary List my groups
// @Description Returns every group the caller belongs to.
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the group list"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /groups [get]
func (c *GroupController) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	groups, err := c.Service.ListMine(r.Context(), userID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, groups)
}

// ListMembers godoc
// @Summary List confirmed group members
// @Description Returns the confirmed memberships of the group. Requires group membership.
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param groupID path string true "Group ID"
// @Success 200 {object} helpers.APIResponse "data contains the membership list"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /groups/{groupID}/members [get]
func (c *GroupController) ListMembers(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	members, err := c.Service.ListMembers(r.Context(), r.PathValue("groupID"), userID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, members)
}

// GetRoster godoc
// @Summary Get the group roster
// @Description Returns the unified participant list: confirmed members plus pending (invited, unclaimed) members, sorted alphabetically by display name. The list length always equals members + unclaimed invitations.
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param groupID path string true "Group ID"
// @Success 200 {object} helpers.APIResponse "data contains the roster"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /groups/{groupID}/roster [get]
func (c *GroupController) GetRoster(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	roster, err := c.Roster.Roster(r.Context(), r.PathValue("groupID"), userID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, roster)
}
