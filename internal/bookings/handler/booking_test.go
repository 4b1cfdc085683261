package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apperrors "staybook/pkg/errors"
	"staybook/pkg/logger"
	"staybook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockBookingService struct {
	createFn            func(ctx context.Context, booking *model.Booking) error
	cancelFn            func(ctx context.Context, id string, actor model.Actor) (*model.Booking, error)
	checkAvailabilityFn func(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error)
	getByIDFn           func(ctx context.Context, id string, actor model.Actor) (*model.Booking, error)
	listAllFn           func(ctx context.Context, actor model.Actor, limit int, offset int64) ([]*model.Booking, int64, error)
	listByUserFn        func(ctx context.Context, userID string, limit int, offset int64) ([]*model.Booking, int64, error)
}

func (m *mockBookingService) Create(ctx context.Context, booking *model.Booking) error {
	return m.createFn(ctx, booking)
}

func (m *mockBookingService) Cancel(ctx context.Context, id string, actor model.Actor) (*model.Booking, error) {
	return m.cancelFn(ctx, id, actor)
}

func (m *mockBookingService) CheckAvailability(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error) {
	return m.checkAvailabilityFn(ctx, roomID, checkIn, checkOut)
}

func (m *mockBookingService) GetByID(ctx context.Context, id string, actor model.Actor) (*model.Booking, error) {
	return m.getByIDFn(ctx, id, actor)
}

func (m *mockBookingService) ListAll(ctx context.Context, actor model.Actor, limit int, offset int64) ([]*model.Booking, int64, error) {
	return m.listAllFn(ctx, actor, limit, offset)
}

func (m *mockBookingService) ListByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	return m.listByUserFn(ctx, userID, limit, offset)
}

func (m *mockBookingService) BookedRoomIDs(ctx context.Context, checkIn, checkOut time.Time, roomIDs []string) ([]string, error) {
	return nil, nil
}

func (m *mockBookingService) DeleteByHotel(ctx context.Context, hotelID string) (int64, error) {
	return 0, nil
}

func newRouter(svc *mockBookingService) *httprouter.Router {
	log := logger.New(logger.Config{
		Level:  logger.LevelError,
		Format: logger.FormatText,
		Output: io.Discard,
	})
	router := httprouter.New()
	NewBookingHandler(svc, log).RegisterRoutes(router)
	return router
}

func TestCreateRequiresUserHeader(t *testing.T) {
	router := newRouter(&mockBookingService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without X-User-ID, got %d", rec.Code)
	}
}

func TestCreateOverridesBodyUserID(t *testing.T) {
	var captured *model.Booking
	svc := &mockBookingService{
		createFn: func(ctx context.Context, booking *model.Booking) error {
			captured = booking
			return nil
		},
	}
	router := newRouter(svc)

	body := `{"user_id":"spoofed","hotel_id":"65a000000000000000000001","room_id":"65a000000000000000000002","check_in":"2024-03-01T00:00:00Z","check_out":"2024-03-03T00:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	req.Header.Set("X-User-ID", "real-user")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured == nil || captured.UserID != "real-user" {
		t.Errorf("expected the caller identity to win over the body, got %+v", captured)
	}
}

func TestCreateMapsDateConflictTo409(t *testing.T) {
	svc := &mockBookingService{
		createFn: func(ctx context.Context, booking *model.Booking) error {
			return apperrors.DateConflict("overlapping booking")
		},
	}
	router := newRouter(svc)

	body := `{"hotel_id":"65a000000000000000000001","room_id":"65a000000000000000000002","check_in":"2024-03-01T00:00:00Z","check_out":"2024-03-03T00:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	req.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for a date conflict, got %d", rec.Code)
	}

	var resp struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if resp.Code != apperrors.CodeDateConflict {
		t.Errorf("expected code %s, got %s", apperrors.CodeDateConflict, resp.Code)
	}
}

func TestCheckAvailability(t *testing.T) {
	svc := &mockBookingService{
		checkAvailabilityFn: func(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error) {
			if roomID != "65a000000000000000000002" {
				t.Errorf("unexpected room id %s", roomID)
			}
			return true, nil
		},
	}
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/bookings/availability?room_id=65a000000000000000000002&check_in=2024-03-01T00:00:00Z&check_out=2024-03-03T00:00:00Z", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data struct {
			Available bool `json:"available"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if !resp.Data.Available {
		t.Error("expected available=true")
	}
}

func TestCheckAvailabilityMissingParams(t *testing.T) {
	router := newRouter(&mockBookingService{})

	cases := []string{
		"/api/v1/bookings/availability",
		"/api/v1/bookings/availability?room_id=65a000000000000000000002",
		"/api/v1/bookings/availability?room_id=65a000000000000000000002&check_in=2024-03-01T00:00:00Z",
		"/api/v1/bookings/availability?room_id=65a000000000000000000002&check_in=bad&check_out=2024-03-03T00:00:00Z",
	}

	for _, target := range cases {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestCancelRoute(t *testing.T) {
	svc := &mockBookingService{
		cancelFn: func(ctx context.Context, id string, actor model.Actor) (*model.Booking, error) {
			if id != "65a000000000000000000010" {
				t.Errorf("unexpected id %s", id)
			}
			if actor.UserID != "user-1" {
				t.Errorf("unexpected actor %+v", actor)
			}
			return &model.Booking{ID: id, Status: "cancelled"}, nil
		},
	}
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/id/65a000000000000000000010/cancel", nil)
	req.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGetMineUsesActorIdentity(t *testing.T) {
	svc := &mockBookingService{
		listByUserFn: func(ctx context.Context, userID string, limit int, offset int64) ([]*model.Booking, int64, error) {
			if userID != "user-7" {
				t.Errorf("expected user-7, got %s", userID)
			}
			return []*model.Booking{}, 0, nil
		},
	}
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/user", nil)
	req.Header.Set("X-User-ID", "user-7")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}
