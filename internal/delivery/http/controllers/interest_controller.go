package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"grouptee/internal/delivery/http/helpers"
	"grouptee/internal/delivery/http/middleware"
	"grouptee/internal/domain"
)

const dateLayout = "2006-01-02"

// UpsertInterestRequest is the request body for PUT /interests/{date}
type UpsertInterestRequest struct {
	WantsToPlay    string   `json:"wants_to_play"`
	TimePreference string   `json:"time_preference"`
	Transportation string   `json:"transportation"`
	Partners       []string `json:"partners"`
	GuestCount     int      `json:"guest_count"`
	Notes          string   `json:"notes"`
}

// Validate implements Validator.
func (u UpsertInterestRequest) Validate() []string {
	var errs []string
	switch domain.PlayIntent(u.WantsToPlay) {
	case domain.PlayIntentYes, domain.PlayIntentNo, domain.PlayIntentUnset:
	default:
		errs = append(errs, `wants_to_play must be "yes", "no", or empty`)
	}
	if u.GuestCount < 0 || u.GuestCount > domain.MaxGuestCount {
		errs = append(errs, "guest_count must be between 0 and 3")
	}
	return errs
}

// InterestResponse pairs an interest record with the lockout verdict for its date.
type InterestResponse struct {
	Interest           *domain.Interest `json:"interest"`
	Locked             bool             `json:"locked"`
	ApproachingLockout bool             `json:"approaching_lockout"`
	DaysUntilLockout   int              `json:"days_until_lockout"`
	LockoutMessage     string           `json:"lockout_message,omitempty"`
}

// InterestController handles member interest sign-up endpoints.
type InterestController struct {
	Logger  *slog.Logger
	Service domain.InterestService
	Lockout domain.LockoutPolicy
}

// NewInterestController creates an InterestController.
func NewInterestController(logger *slog.Logger, svc domain.InterestService, lockout domain.LockoutPolicy) *InterestController {
	return &InterestController{
		Logger:  logger,
		Service: svc,
		Lockout: lockout,
	}
}

func (c *InterestController) interestResponse(i *domain.Interest, date time.Time) InterestResponse {
	return InterestResponse{
		Interest:           i,
		Locked:             c.Lockout.IsLocked(date),
		ApproachingLockout: c.Lockout.IsApproachingLockout(date),
		DaysUntilLockout:   c.Lockout.DaysUntilLockout(date),
		LockoutMessage:     c.Lockout.StatusMessage(date),
	}
}

func parseDatePath(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	date, err := time.Parse(dateLayout, r.PathValue("date"))
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "date must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return date, true
}

// Get godoc
// @Summary Get my interest for a date
// @Description Returns the caller's interest record for the date plus the lockout verdict. A date with no record yet returns interest null with the verdict still populated.
// @Tags interests
// @Produce json
// @Security BearerAuth
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} helpers.APIResponse "data contains the interest and lockout status"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /interests/{date} [get]
func (c *InterestController) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	date, ok := parseDatePath(w, r)
	if !ok {
		return
	}
	interest, err := c.Service.Get(r.Context(), userID, date)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONSuccess(w, http.StatusOK, c.interestResponse(nil, date))
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, c.interestResponse(interest, date))
}

// List godoc
// @Summary List my interests over a date range
// @Description Returns the caller's interest records between from and to (inclusive), for the calendar view.
// @Tags interests
// @Produce json
// @Security BearerAuth
// @Param from query string true "Range start (YYYY-MM-DD)"
// @Param to query string true "Range end (YYYY-MM-DD)"
// @Success 200 {object} helpers.APIResponse "data contains the interest list"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /interests [get]
func (c *InterestController) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	from, err := time.Parse(dateLayout, r.URL.Query().Get("from"))
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "from must be YYYY-MM-DD")
		return
	}
	to, err := time.Parse(dateLayout, r.URL.Query().Get("to"))
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "to must be YYYY-MM-DD")
		return
	}
	if to.Before(from) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "to must not precede from")
		return
	}
	interests, err := c.Service.List(r.Context(), userID, from, to)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, interests)
}

// Upsert godoc
// @Summary Set my interest for a date
// @Description Creates or replaces the caller's interest record for the date. Rejected with 423-style locked error once the date is inside the lockout window. Preferences, partners, guests, and notes are only accepted with wants_to_play "yes".
// @Tags interests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param date path string true "Date (YYYY-MM-DD)"
// @Param body body UpsertInterestRequest true "Interest fields"
// @Success 200 {object} helpers.APIResponse "data contains the stored interest and lockout status"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 423 {object} helpers.APIResponse "error.code: locked"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /interests/{date} [put]
func (c *InterestController) Upsert(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	date, ok := parseDatePath(w, r)
	if !ok {
		return
	}
	var req UpsertInterestRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	interest := &domain.Interest{
		UserID:         userID,
		InterestDate:   date,
		WantsToPlay:    domain.PlayIntent(req.WantsToPlay),
		TimePreference: req.TimePreference,
		Transportation: req.Transportation,
		Partners:       req.Partners,
		GuestCount:     req.GuestCount,
		Notes:          req.Notes,
	}
	stored, err := c.Service.Upsert(r.Context(), interest)
	if err != nil {
		if errors.Is(err, domain.ErrDateLocked) {
			helpers.WriteJSONError(w, http.StatusLocked, helpers.ErrCodeLocked, c.Lockout.StatusMessage(date))
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, c.interestResponse(stored, date))
}
