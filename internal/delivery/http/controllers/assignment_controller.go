package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"grouptee/internal/delivery/http/helpers"
	"grouptee/internal/domain"
)

// AssignRequest is the request body for POST and DELETE on
// /tee-times/{teeTimeID}/assignments. Exactly one of user_id and invitation_id
// must be set.
type AssignRequest struct {
	UserID       *string `json:"user_id"`
	InvitationID *string `json:"invitation_id"`
}

// Validate implements Validator.
func (a AssignRequest) Validate() []string {
	c := domain.AssignmentCandidate{UserID: a.UserID, InvitationID: a.InvitationID}
	if !c.Valid() {
		return []string{"exactly one of user_id and invitation_id must be set"}
	}
	return nil
}

func (a AssignRequest) candidate() domain.AssignmentCandidate {
	return domain.AssignmentCandidate{UserID: a.UserID, InvitationID: a.InvitationID}
}

// AssignmentController handles placing roster members into tee times.
type AssignmentController struct {
	Logger  *slog.Logger
	Service domain.AssignmentService
}

// NewAssignmentController creates an AssignmentController.
func NewAssignmentController(logger *slog.Logger, svc domain.AssignmentService) *AssignmentController {
	return &AssignmentController{
		Logger:  logger,
		Service: svc,
	}
}

// Assign godoc
// @Summary Assign a player to a tee time
// @Description Places a confirmed member (user_id) or pending member (invitation_id) into the tee time, consuming one spot plus one per declared guest. Fails with conflict when the party does not fit ("not enough space") or the player is already assigned. Requires group admin.
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param teeTimeID path string true "Tee time ID"
// @Param body body AssignRequest true "Who to assign"
// @Success 200 {object} helpers.APIResponse "data contains the updated assignment list"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (not enough space, or already assigned)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tee-times/{teeTimeID}/assignments [post]
func (c *AssignmentController) Assign(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req AssignRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	assignments, err := c.Service.Assign(r.Context(), r.PathValue("teeTimeID"), req.candidate(), userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCapacityExceeded):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "not enough space")
		case errors.Is(err, domain.ErrAlreadyAssigned):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "already assigned to this tee time")
		default:
			writeServiceError(c.Logger, w, r, err)
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, assignments)
}

// Remove godoc
// @Summary Remove a player from a tee time
// @Description Removes the member's (or pending member's) assignment. Their guests leave with them. Requires group admin.
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param teeTimeID path string true "Tee time ID"
// @Param body body AssignRequest true "Who to remove"
// @Success 204 "Removed"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tee-times/{teeTimeID}/assignments [delete]
func (c *AssignmentController) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req AssignRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.Remove(r.Context(), r.PathValue("teeTimeID"), req.candidate(), userID); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AutoAssign godoc
// @Summary Auto-fill a tee time
// @Description Fills remaining capacity from interested, not-yet-assigned group members in random order, admitting each while their party fits. No fairness or preference matching; partial fills are kept even if a later write fails. Requires group admin.
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param teeTimeID path string true "Tee time ID"
// @Success 200 {object} helpers.APIResponse "data contains assigned count and resulting usage"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tee-times/{teeTimeID}/auto-assign [post]
func (c *AssignmentController) AutoAssign(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	result, err := c.Service.AutoAssign(r.Context(), r.PathValue("teeTimeID"), userID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}
