package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"grouptee/internal/delivery/http/helpers"
	"grouptee/internal/domain"
)

// CreateWeekendRequest is the request body for POST /groups/{groupID}/weekends
type CreateWeekendRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// Validate implements Validator.
func (c CreateWeekendRequest) Validate() []string {
	var errs []string
	start, err := time.Parse(dateLayout, c.StartDate)
	if err != nil {
		errs = append(errs, "start_date must be YYYY-MM-DD")
	}
	end, err := time.Parse(dateLayout, c.EndDate)
	if err != nil {
		errs = append(errs, "end_date must be YYYY-MM-DD")
	}
	if len(errs) == 0 && end.Before(start) {
		errs = append(errs, "end_date must not precede start_date")
	}
	return errs
}

// CreateTeeTimeRequest is the request body for POST /weekends/{weekendID}/tee-times
type CreateTeeTimeRequest struct {
	GroupID    string `json:"group_id"`
	TeeDate    string `json:"tee_date"`
	TeeOff     string `json:"tee_time"`
	MaxPlayers int    `json:"max_players"`
}

// Validate implements Validator.
func (c CreateTeeTimeRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.GroupID) == "" {
		errs = append(errs, "group_id is required")
	}
	if _, err := time.Parse(dateLayout, c.TeeDate); err != nil {
		errs = append(errs, "tee_date must be YYYY-MM-DD")
	}
	if strings.TrimSpace(c.TeeOff) == "" {
		errs = append(errs, "tee_time is required")
	}
	if c.MaxPlayers < 1 {
		errs = append(errs, "max_players must be at least 1")
	}
	return errs
}

// TeeTimeController handles weekend and tee sheet endpoints.
type TeeTimeController struct {
	Logger  *slog.Logger
	Service domain.TeeTimeService
}

// NewTeeTimeController creates a TeeTimeController.
func NewTeeTimeController(logger *slog.Logger, svc domain.TeeTimeService) *TeeTimeController {
	return &TeeTimeController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateWeekend godoc
// @Summary Create a weekend
// @Description Creates a date-range bucket that tee times hang off. Requires group admin.
// @Tags tee-times
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param groupID path string true "Group ID"
// @Param body body CreateWeekendRequest true "Weekend dates"
// @Success 201 {object} helpers.APIResponse "data contains the created weekend"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /groups/{groupID}/weekends [post]
func (c *TeeTimeController) CreateWeekend(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req CreateWeekendRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	start, _ := time.Parse(dateLayout, req.StartDate)
	end, _ := time.Parse(dateLayout, req.EndDate)
	weekend := &domain.Weekend{
		GroupID:   r.PathValue("groupID"),
		StartDate: start,
		EndDate:   end,
	}
	if err := c.Service.CreateWeekend(r.Context(), weekend, userID); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, weekend)
}

// ListWeekends godoc
// @Summary List upcoming weekends
// @Description Returns the group's weekends from today onward. Requires group membership.
// @Tags tee-times
// @Produce json
// @Security BearerAuth
// @Param groupID path string true "Group ID"
// @Success 200 {object} helpers.APIResponse "data contains the weekend list"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /groups/{groupID}/weekends [get]
func (c *TeeTimeController) ListWeekends(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	weekends, err := c.Service.ListWeekends(r.Context(), r.PathValue("groupID"), userID, time.Now())
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, weekends)
}

// Create godoc
// @Summary Create a tee time
// @Description Adds a capacity-limited slot to a weekend's tee sheet. Requires group admin.
// @Tags tee-times
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param weekendID path string true "Weekend ID"
// @Param body body CreateTeeTimeRequest true "Tee time data"
// @Success 201 {object} helpers.APIResponse "data contains the created tee time"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /weekends/{weekendID}/tee-times [post]
func (c *TeeTimeController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req CreateTeeTimeRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	teeDate, _ := time.Parse(dateLayout, req.TeeDate)
	teeTime := &domain.TeeTime{
		GroupID:    strings.TrimSpace(req.GroupID),
		WeekendID:  r.PathValue("weekendID"),
		TeeDate:    teeDate,
		TeeOff:     strings.TrimSpace(req.TeeOff),
		MaxPlayers: req.MaxPlayers,
	}
	if err := c.Service.Create(r.Context(), teeTime, userID); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, teeTime)
}

// Get godoc
// @Summary Get a tee time with its players
// @Description Returns one tee time with its assignments, spots used, and the availability label ("Full", "1 Spot", "N Spots"). Requires group membership.
// @Tags tee-times
// @Produce json
// @Security BearerAuth
// @Param teeTimeID path string true "Tee time ID"
// @Success 200 {object} helpers.APIResponse "data contains the tee time with players"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tee-times/{teeTimeID} [get]
func (c *TeeTimeController) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	teeTime, err := c.Service.GetWithPlayers(r.Context(), r.PathValue("teeTimeID"), userID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, teeTime)
}

// ListByWeekend godoc
// @Summary Get a weekend's tee sheet
// @Description Returns the weekend with all its tee times, each carrying assignments and availability. Requires group membership.
// @Tags tee-times
// @Produce json
// @Security BearerAuth
// @Param weekendID path string true "Weekend ID"
// @Success 200 {object} helpers.APIResponse "data contains the weekend sheet"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /weekends/{weekendID}/tee-times [get]
func (c *TeeTimeController) ListByWeekend(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	sheet, err := c.Service.ListByWeekend(r.Context(), r.PathValue("weekendID"), userID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, sheet)
}

// DeletionSummary godoc
// @Summary Preview a tee time deletion
// @Description Reports how many assignments deleting the tee time would discard, for the confirmation prompt. Requires group admin.
// @Tags tee-times
// @Produce json
// @Security BearerAuth
// @Param teeTimeID path string true "Tee time ID"
// @Success 200 {object} helpers.APIResponse "data contains the deletion summary"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tee-times/{teeTimeID}/deletion-summary [get]
func (c *TeeTimeController) DeletionSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	summary, err := c.Service.DeletionSummary(r.Context(), r.PathValue("teeTimeID"), userID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, summary)
}

// Delete godoc
// @Summary Delete a tee time
// @Description Deletes the tee time and its assignments. Requires group admin.
// @Tags tee-times
// @Produce json
// @Security BearerAuth
// @Param teeTimeID path string true "Tee time ID"
// @Success 204 "Deleted"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tee-times/{teeTimeID} [delete]
func (c *TeeTimeController) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), r.PathValue("teeTimeID"), userID); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
