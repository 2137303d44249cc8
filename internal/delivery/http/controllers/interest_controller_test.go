package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"grouptee/internal/delivery/http/helpers"
	"grouptee/internal/delivery/http/middleware"
	"grouptee/internal/domain"
)

type mockInterestService struct {
	interest *domain.Interest
	err      error
}

func (m *mockInterestService) Get(ctx context.Context, userID string, date time.Time) (*domain.Interest, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.interest, nil
}

func (m *mockInterestService) List(ctx context.Context, userID string, from, to time.Time) ([]*domain.Interest, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []*domain.Interest{}, nil
}

func (m *mockInterestService) Upsert(ctx context.Context, interest *domain.Interest) (*domain.Interest, error) {
	if m.err != nil {
		return nil, m.err
	}
	return interest, nil
}

func testLockout(today string) domain.LockoutPolicy {
	return domain.NewLockoutPolicy(domain.DefaultLockoutDays, domain.DefaultWarningDays, func() time.Time {
		t, _ := time.Parse("2006-01-02", today)
		return t
	})
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestInterestController_Get_Unauthorized(t *testing.T) {
	ctrl := NewInterestController(testLogger(), &mockInterestService{}, testLockout("2025-06-01"))

	req := httptest.NewRequest(http.MethodGet, "/interests/2025-06-07", nil)
	req.SetPathValue("date", "2025-06-07")
	w := httptest.NewRecorder()

	ctrl.Get(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestInterestController_Get_NoRecordStillReturnsVerdict(t *testing.T) {
	svc := &mockInterestService{err: domain.ErrNotFound}
	ctrl := NewInterestController(testLogger(), svc, testLockout("2025-06-01"))

	req := httptest.NewRequest(http.MethodGet, "/interests/2025-06-02", nil)
	req.SetPathValue("date", "2025-06-02")
	req = req.WithContext(middleware.SetUserID(req.Context(), "u1"))
	w := httptest.NewRecorder()

	ctrl.Get(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	var resp struct {
		Data InterestResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Data.Interest != nil {
		t.Fatalf("expected null interest, got %+v", resp.Data.Interest)
	}
	if !resp.Data.Locked {
		t.Fatal("expected tomorrow to be locked")
	}
}

func TestInterestController_Get_BadDate(t *testing.T) {
	ctrl := NewInterestController(testLogger(), &mockInterestService{}, testLockout("2025-06-01"))

	req := httptest.NewRequest(http.MethodGet, "/interests/June-7th", nil)
	req.SetPathValue("date", "June-7th")
	req = req.WithContext(middleware.SetUserID(req.Context(), "u1"))
	w := httptest.NewRecorder()

	ctrl.Get(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestInterestController_Upsert_Success(t *testing.T) {
	ctrl := NewInterestController(testLogger(), &mockInterestService{}, testLockout("2025-06-01"))

	body := `{"wants_to_play":"yes","guest_count":1}`
	req := httptest.NewRequest(http.MethodPut, "/interests/2025-06-07", strings.NewReader(body))
	req.SetPathValue("date", "2025-06-07")
	req = req.WithContext(middleware.SetUserID(req.Context(), "u1"))
	w := httptest.NewRecorder()

	ctrl.Upsert(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	var resp struct {
		Data InterestResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Data.Interest == nil || resp.Data.Interest.GuestCount != 1 {
		t.Fatalf("unexpected stored interest: %+v", resp.Data.Interest)
	}
}

func TestInterestController_Upsert_LockedDate(t *testing.T) {
	svc := &mockInterestService{err: domain.ErrDateLocked}
	ctrl := NewInterestController(testLogger(), svc, testLockout("2025-06-06"))

	body := `{"wants_to_play":"yes"}`
	req := httptest.NewRequest(http.MethodPut, "/interests/2025-06-07", strings.NewReader(body))
	req.SetPathValue("date", "2025-06-07")
	req = req.WithContext(middleware.SetUserID(req.Context(), "u1"))
	w := httptest.NewRecorder()

	ctrl.Upsert(w, req)

	if w.Code != http.StatusLocked {
		t.Fatalf("expected status %d, got %d", http.StatusLocked, w.Code)
	}
	var resp helpers.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != helpers.ErrCodeLocked {
		t.Fatalf("expected locked error, got %+v", resp.Error)
	}
}

func TestInterestController_Upsert_RejectsBadIntent(t *testing.T) {
	ctrl := NewInterestController(testLogger(), &mockInterestService{}, testLockout("2025-06-01"))

	body := `{"wants_to_play":"maybe"}`
	req := httptest.NewRequest(http.MethodPut, "/interests/2025-06-07", strings.NewReader(body))
	req.SetPathValue("date", "2025-06-07")
	req = req.WithContext(middleware.SetUserID(req.Context(), "u1"))
	w := httptest.NewRecorder()

	ctrl.Upsert(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestInterestController_List_BadRange(t *testing.T) {
	ctrl := NewInterestController(testLogger(), &mockInterestService{}, testLockout("2025-06-01"))

	req := httptest.NewRequest(http.MethodGet, "/interests?from=2025-06-30&to=2025-06-01", nil)
	req = req.WithContext(middleware.SetUserID(req.Context(), "u1"))
	w := httptest.NewRecorder()

	ctrl.List(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}
