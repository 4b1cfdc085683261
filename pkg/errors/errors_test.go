package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestConstructorsCarryCodeAndStatus(t *testing.T) {
	cases := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"not found", NotFound("Hotel"), CodeNotFound, http.StatusNotFound},
		{"not found with id", NotFoundWithID("Booking", "abc"), CodeNotFound, http.StatusNotFound},
		{"validation", Validation("bad input", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"invalid input", InvalidInput("bad id"), CodeInvalidInput, http.StatusBadRequest},
		{"forbidden", Forbidden("nope"), CodeForbidden, http.StatusForbidden},
		{"conflict", Conflict("busy"), CodeConflict, http.StatusConflict},
		{"room mismatch", RoomMismatch("r1", "h1"), CodeRoomMismatch, http.StatusBadRequest},
		{"room unavailable", RoomUnavailable("r1"), CodeRoomUnavailable, http.StatusConflict},
		{"date conflict", DateConflict("overlaps"), CodeDateConflict, http.StatusConflict},
		{"already cancelled", AlreadyCancelled("b1"), CodeAlreadyCancelled, http.StatusConflict},
		{"internal", Internal("boom", errors.New("cause")), CodeInternal, http.StatusInternalServerError},
		{"timeout", Timeout("slow"), CodeTimeout, http.StatusGatewayTimeout},
		{"unavailable", Unavailable("mongo"), CodeUnavailable, http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, tc.err.Code)
			}
			if tc.err.StatusCode() != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, tc.err.StatusCode())
			}
		})
	}
}

func TestUnwrapAndAs(t *testing.T) {
	cause := errors.New("socket closed")
	err := Internal("query failed", cause)

	if !errors.Is(err, cause) {
		t.Error("expected the cause to be reachable through Unwrap")
	}

	wrapped := fmt.Errorf("outer: %w", err)
	appErr := AsAppError(wrapped)
	if appErr == nil {
		t.Fatal("expected AsAppError to find the AppError through wrapping")
	}
	if appErr.Code != CodeInternal {
		t.Errorf("expected code %s, got %s", CodeInternal, appErr.Code)
	}

	if !IsAppError(wrapped) {
		t.Error("expected IsAppError to be true for a wrapped AppError")
	}
	if IsAppError(cause) {
		t.Error("expected IsAppError to be false for a plain error")
	}
}

func TestToJSONOmitsInternals(t *testing.T) {
	err := Validation("bad input", map[string]any{"field": "check_in"})

	var resp ErrorResponse
	if jsonErr := json.Unmarshal(err.ToJSON(), &resp); jsonErr != nil {
		t.Fatalf("failed to unmarshal: %v", jsonErr)
	}
	if resp.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, resp.Code)
	}
	if resp.Details["field"] != "check_in" {
		t.Errorf("expected details to round-trip, got %v", resp.Details)
	}
}

func TestWithDetails(t *testing.T) {
	err := Conflict("busy").WithDetails(map[string]any{"room_id": "r1"})
	if err.Details["room_id"] != "r1" {
		t.Errorf("expected details to be attached, got %v", err.Details)
	}
}
