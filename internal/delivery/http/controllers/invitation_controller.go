package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"grouptee/internal/delivery/http/helpers"
	"grouptee/internal/domain"
)

// CreateInvitationRequest is the request body for POST /groups/{groupID}/invitations
type CreateInvitationRequest struct {
	DisplayName  string `json:"display_name"`
	InvitedEmail string `json:"invited_email"`
	TargetRole   string `json:"target_role"`
}

// Validate implements Validator.
func (c CreateInvitationRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.DisplayName) == "" {
		errs = append(errs, "display_name is required")
	}
	if c.InvitedEmail != "" && !emailRegexp.MatchString(strings.TrimSpace(strings.ToLower(c.InvitedEmail))) {
		errs = append(errs, "invalid email format")
	}
	role := strings.TrimSpace(strings.ToLower(c.TargetRole))
	if role != "" && role != domain.RoleMember && role != domain.RoleAdmin {
		errs = append(errs, `target_role must be "member" or "admin"`)
	}
	return errs
}

// ClaimInvitationRequest is the request body for POST /invitations/claim
type ClaimInvitationRequest struct {
	Code string `json:"code"`
}

// Validate implements Validator.
func (c ClaimInvitationRequest) Validate() []string {
	if strings.TrimSpace(c.Code) == "" {
		return []string{"code is required"}
	}
	return nil
}

// InvitationListResponse is the paginated response body for GET /groups/{groupID}/invitations
type InvitationListResponse struct {
	Invitations []*domain.Invitation   `json:"invitations"`
	Pagination  helpers.PaginationMeta `json:"pagination"`
}

// InvitationController handles invite-code creation and redemption.
type InvitationController struct {
	Logger  *slog.Logger
	Service domain.InvitationService
}

// NewInvitationController creates an InvitationController.
func NewInvitationController(logger *slog.Logger, svc domain.InvitationService) *InvitationController {
	return &InvitationController{
		Logger:  logger,
		Service: svc,
	}
}

// Create godoc
// @Summary Invite someone to the group
// @Description Creates a group_member invitation with a generated 6-character code. If invited_email is set the code is emailed; either way it appears in the response and the invitee shows on the roster as pending. Requires group admin.
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param groupID path string true "Group ID"
// @Param body body CreateInvitationRequest true "Invitation data"
// @Success 201 {object} helpers.APIResponse "data contains the invitation with its code"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /groups/{groupID}/invitations [post]
func (c *InvitationController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req CreateInvitationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	groupID := r.PathValue("groupID")
	role := strings.TrimSpace(strings.ToLower(req.TargetRole))
	if role == "" {
		role = domain.RoleMember
	}
	inv := &domain.Invitation{
		Type:         domain.InvitationTypeGroupMember,
		GroupID:      &groupID,
		TargetRole:   role,
		DisplayName:  req.DisplayName,
		InvitedEmail: strings.TrimSpace(strings.ToLower(req.InvitedEmail)),
	}
	created, err := c.Service.Create(r.Context(), inv, userID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, created)
}

// Claim godoc
// @Summary Claim an invite code
// @Description Redeems an invite code for the caller. Claiming atomically creates the membership and marks the invitation claimed; a code can only ever be claimed once.
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ClaimInvitationRequest true "Invite code"
// @Success 200 {object} helpers.APIResponse "data contains the claimed invitation"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already claimed, expired, or already a member)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invitations/claim [post]
func (c *InvitationController) Claim(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req ClaimInvitationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	inv, err := c.Service.Claim(r.Context(), req.Code, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvitationClaimed):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "invitation already claimed")
		case errors.Is(err, domain.ErrInvitationExpired):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "invitation expired")
		case errors.Is(err, domain.ErrAlreadyMember):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "already a member of this group")
		default:
			writeServiceError(c.Logger, w, r, err)
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, inv)
}

// List godoc
// @Summary List group invitations
// @Description Returns the group's invitations, claimed and unclaimed, paginated and optionally filtered by a search term on display name or email. Requires group admin.
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param groupID path string true "Group ID"
// @Param search query string false "Filter by display name or email"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains invitations and pagination metadata"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /groups/{groupID}/invitations [get]
func (c *InvitationController) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	params := helpers.ParsePagination(r)
	search := strings.TrimSpace(r.URL.Query().Get("search"))
	invs, total, err := c.Service.ListByGroup(r.Context(), r.PathValue("groupID"), userID, search, params)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, InvitationListResponse{
		Invitations: invs,
		Pagination:  helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}
