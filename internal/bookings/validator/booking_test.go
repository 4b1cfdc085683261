package validator

import (
	"io"
	"testing"
	"time"

	"staybook/pkg/logger"
	"staybook/pkg/model"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:  logger.LevelError,
		Format: logger.FormatText,
		Output: io.Discard,
	})
}

func ts(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("bad time literal %q: %v", value, err)
	}
	return parsed
}

func validBooking(t *testing.T) *model.Booking {
	t.Helper()
	return &model.Booking{
		UserID:   "user-1",
		HotelID:  "65a000000000000000000001",
		RoomID:   "65a000000000000000000002",
		CheckIn:  ts(t, "2024-03-01T14:00:00Z"),
		CheckOut: ts(t, "2024-03-05T11:00:00Z"),
	}
}

func TestValidateBooking(t *testing.T) {
	v := NewBookingValidator(testLogger(), 90)

	cases := []struct {
		name    string
		mutate  func(b *model.Booking)
		wantErr bool
	}{
		{"valid booking", func(b *model.Booking) {}, false},
		{"missing user", func(b *model.Booking) { b.UserID = "" }, true},
		{"missing hotel", func(b *model.Booking) { b.HotelID = "" }, true},
		{"malformed hotel id", func(b *model.Booking) { b.HotelID = "not-an-object-id" }, true},
		{"missing room", func(b *model.Booking) { b.RoomID = "" }, true},
		{"checkout before checkin", func(b *model.Booking) {
			b.CheckIn = ts(t, "2024-03-05T00:00:00Z")
			b.CheckOut = ts(t, "2024-03-01T00:00:00Z")
		}, true},
		{"checkout equals checkin", func(b *model.Booking) {
			b.CheckOut = b.CheckIn
		}, true},
		{"bad status", func(b *model.Booking) { b.Status = "done" }, true},
		{"valid status", func(b *model.Booking) { b.Status = "confirmed" }, false},
		{"stay over the limit", func(b *model.Booking) {
			b.CheckOut = b.CheckIn.Add(91 * 24 * time.Hour)
		}, true},
		{"stay exactly at the limit", func(b *model.Booking) {
			b.CheckOut = b.CheckIn.Add(90 * 24 * time.Hour)
		}, false},
		{"negative price", func(b *model.Booking) { b.TotalPrice = -1 }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			booking := validBooking(t)
			tc.mutate(booking)

			err := v.Validate(booking)
			if tc.wantErr && err == nil {
				t.Error("expected a validation error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestValidateRange(t *testing.T) {
	v := NewBookingValidator(testLogger(), 90)

	if err := v.ValidateRange(ts(t, "2024-03-01T00:00:00Z"), ts(t, "2024-03-03T00:00:00Z")); err != nil {
		t.Errorf("unexpected error for a valid range: %v", err)
	}

	if err := v.ValidateRange(time.Time{}, ts(t, "2024-03-03T00:00:00Z")); err == nil {
		t.Error("expected an error for a zero check_in")
	}

	if err := v.ValidateRange(ts(t, "2024-03-03T00:00:00Z"), ts(t, "2024-03-01T00:00:00Z")); err == nil {
		t.Error("expected an error for an inverted range")
	}

	// The max-stay cap binds bookings, not queries.
	if err := v.ValidateRange(ts(t, "2024-01-01T00:00:00Z"), ts(t, "2024-12-01T00:00:00Z")); err != nil {
		t.Errorf("unexpected error for a range longer than the max stay: %v", err)
	}
}
