package service

import (
	"context"
	"io"
	"reflect"
	"testing"
	"time"

	roomserrors "staybook/internal/rooms/errors"
	"staybook/internal/rooms/validator"
	"staybook/pkg/config"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/logger"
	"staybook/pkg/model"
)

// --- Mocks ---

type mockRoomRepo struct {
	createFn        func(ctx context.Context, room *model.Room) error
	findByIDFn      func(ctx context.Context, id string) (*model.Room, error)
	findByHotelFn   func(ctx context.Context, hotelID string, limit int, offset int64) ([]*model.Room, error)
	countByHotelFn  func(ctx context.Context, hotelID string) (int64, error)
	updateFn        func(ctx context.Context, id string, updates *model.RoomUpdate) error
	deleteFn        func(ctx context.Context, id string) error
	deleteByHotelFn func(ctx context.Context, hotelID string) (int64, error)
	hotelIDsFn      func(ctx context.Context, excludeRoomIDs []string) ([]string, error)
}

func (m *mockRoomRepo) Create(ctx context.Context, room *model.Room) error {
	return m.createFn(ctx, room)
}

func (m *mockRoomRepo) FindByID(ctx context.Context, id string) (*model.Room, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockRoomRepo) FindByHotel(ctx context.Context, hotelID string, limit int, offset int64) ([]*model.Room, error) {
	return m.findByHotelFn(ctx, hotelID, limit, offset)
}

func (m *mockRoomRepo) CountByHotel(ctx context.Context, hotelID string) (int64, error) {
	return m.countByHotelFn(ctx, hotelID)
}

func (m *mockRoomRepo) Update(ctx context.Context, id string, updates *model.RoomUpdate) error {
	return m.updateFn(ctx, id, updates)
}

func (m *mockRoomRepo) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func (m *mockRoomRepo) DeleteByHotel(ctx context.Context, hotelID string) (int64, error) {
	return m.deleteByHotelFn(ctx, hotelID)
}

func (m *mockRoomRepo) HotelIDsWithAvailableRoom(ctx context.Context, excludeRoomIDs []string) ([]string, error) {
	return m.hotelIDsFn(ctx, excludeRoomIDs)
}

type mockHotelFinder struct {
	findByIDFn func(ctx context.Context, id string) (*model.Hotel, error)
}

func (m *mockHotelFinder) FindByID(ctx context.Context, id string) (*model.Hotel, error) {
	return m.findByIDFn(ctx, id)
}

type mockBookedRoomsFinder struct {
	bookedRoomIDsFn func(ctx context.Context, checkIn, checkOut time.Time, roomIDs []string) ([]string, error)
}

func (m *mockBookedRoomsFinder) BookedRoomIDs(ctx context.Context, checkIn, checkOut time.Time, roomIDs []string) ([]string, error) {
	return m.bookedRoomIDsFn(ctx, checkIn, checkOut, roomIDs)
}

// --- Fixtures ---

const testHotelID = "65a000000000000000000001"

var admin = model.Actor{UserID: "admin-1", Role: "admin"}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:  logger.LevelError,
			Format: logger.FormatText,
			Output: io.Discard,
		}),
	}
}

func newTestService(t *testing.T, repo *mockRoomRepo, hotels *mockHotelFinder, bookings *mockBookedRoomsFinder) RoomService {
	t.Helper()
	cfg := testConfig(t)
	if hotels == nil {
		hotels = &mockHotelFinder{
			findByIDFn: func(ctx context.Context, id string) (*model.Hotel, error) {
				return &model.Hotel{ID: id}, nil
			},
		}
	}
	if bookings == nil {
		bookings = &mockBookedRoomsFinder{
			bookedRoomIDsFn: func(ctx context.Context, checkIn, checkOut time.Time, roomIDs []string) ([]string, error) {
				return nil, nil
			},
		}
	}
	return NewRoomService(repo, hotels, bookings, validator.NewRoomValidator(cfg.Log), cfg)
}

func ts(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("bad time literal %q: %v", value, err)
	}
	return parsed
}

func hotelRoom(id, number string, available bool) *model.Room {
	return &model.Room{
		ID:            id,
		HotelID:       testHotelID,
		RoomNumber:    number,
		RoomType:      model.RoomTypeDouble,
		PricePerNight: 120,
		MaxGuests:     2,
		IsAvailable:   available,
	}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	appErr := apperrors.AsAppError(err)
	if appErr == nil {
		t.Fatalf("expected AppError with code %s, got %T: %v", code, err, err)
	}
	if appErr.Code != code {
		t.Fatalf("expected code %s, got %s (%v)", code, appErr.Code, appErr)
	}
}

// --- Tests ---

func TestCreateRoomRequiresAdmin(t *testing.T) {
	svc := newTestService(t, &mockRoomRepo{}, nil, nil)

	room := hotelRoom("", "101", true)
	err := svc.Create(context.Background(), room, model.Actor{UserID: "u-1", Role: "user"})
	assertCode(t, err, apperrors.CodeForbidden)
}

func TestCreateRoomUnknownHotel(t *testing.T) {
	hotels := &mockHotelFinder{
		findByIDFn: func(ctx context.Context, id string) (*model.Hotel, error) {
			return nil, apperrors.NotFoundWithID("Hotel", id)
		},
	}
	svc := newTestService(t, &mockRoomRepo{}, hotels, nil)

	err := svc.Create(context.Background(), hotelRoom("", "101", true), admin)
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestCreateRoomSanitizesFields(t *testing.T) {
	var stored *model.Room
	repo := &mockRoomRepo{
		createFn: func(ctx context.Context, room *model.Room) error {
			stored = room
			return nil
		},
	}
	svc := newTestService(t, repo, nil, nil)

	room := hotelRoom("", "  101  ", true)
	room.Amenities = []string{" WiFi ", "wifi", "TV"}
	if err := svc.Create(context.Background(), room, admin); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stored.RoomNumber != "101" {
		t.Errorf("room number not trimmed: %q", stored.RoomNumber)
	}
	if !reflect.DeepEqual(stored.Amenities, []string{"wifi", "tv"}) {
		t.Errorf("amenities not normalized: %v", stored.Amenities)
	}
}

func TestFindRoomByIDNotFound(t *testing.T) {
	repo := &mockRoomRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Room, error) {
			return nil, roomserrors.ErrNotFound
		},
	}
	svc := newTestService(t, repo, nil, nil)

	_, err := svc.FindByID(context.Background(), "65a000000000000000000099")
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestListRoomsUnknownHotel(t *testing.T) {
	hotels := &mockHotelFinder{
		findByIDFn: func(ctx context.Context, id string) (*model.Hotel, error) {
			return nil, apperrors.NotFoundWithID("Hotel", id)
		},
	}
	repo := &mockRoomRepo{
		findByHotelFn: func(ctx context.Context, hotelID string, limit int, offset int64) ([]*model.Room, error) {
			t.Error("rooms must not be listed for a hotel that does not exist")
			return nil, nil
		},
		countByHotelFn: func(ctx context.Context, hotelID string) (int64, error) {
			t.Error("rooms must not be counted for a hotel that does not exist")
			return 0, nil
		},
	}
	svc := newTestService(t, repo, hotels, nil)

	_, _, err := svc.ListByHotel(context.Background(), "65a000000000000000000099", 20, 0)
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestListAvailableByHotelSubtractsBookedRooms(t *testing.T) {
	rooms := []*model.Room{
		hotelRoom("65b000000000000000000001", "101", true),
		hotelRoom("65b000000000000000000002", "102", true),
		hotelRoom("65b000000000000000000003", "103", true),
	}
	repo := &mockRoomRepo{
		findByHotelFn: func(ctx context.Context, hotelID string, limit int, offset int64) ([]*model.Room, error) {
			return rooms, nil
		},
		countByHotelFn: func(ctx context.Context, hotelID string) (int64, error) {
			return 3, nil
		},
	}
	var askedIDs []string
	bookings := &mockBookedRoomsFinder{
		bookedRoomIDsFn: func(ctx context.Context, checkIn, checkOut time.Time, roomIDs []string) ([]string, error) {
			askedIDs = roomIDs
			return []string{"65b000000000000000000002"}, nil
		},
	}
	svc := newTestService(t, repo, nil, bookings)

	got, total, err := svc.ListAvailableByHotel(
		context.Background(), testHotelID,
		ts(t, "2024-06-10T00:00:00Z"), ts(t, "2024-06-13T00:00:00Z"),
		20, 0,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3 {
		t.Errorf("expected total 3, got %d", total)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 available rooms, got %d", len(got))
	}
	if got[0].RoomNumber != "101" || got[1].RoomNumber != "103" {
		t.Errorf("wrong rooms kept: %s, %s", got[0].RoomNumber, got[1].RoomNumber)
	}
	if len(askedIDs) != 3 {
		t.Errorf("overlap query not restricted to the hotel's rooms: %v", askedIDs)
	}
}

func TestListAvailableByHotelSkipsUnavailableRooms(t *testing.T) {
	rooms := []*model.Room{
		hotelRoom("65b000000000000000000001", "101", false),
		hotelRoom("65b000000000000000000002", "102", true),
	}
	repo := &mockRoomRepo{
		findByHotelFn: func(ctx context.Context, hotelID string, limit int, offset int64) ([]*model.Room, error) {
			return rooms, nil
		},
		countByHotelFn: func(ctx context.Context, hotelID string) (int64, error) {
			return 2, nil
		},
	}
	svc := newTestService(t, repo, nil, nil)

	got, _, err := svc.ListAvailableByHotel(
		context.Background(), testHotelID,
		ts(t, "2024-06-10T00:00:00Z"), ts(t, "2024-06-13T00:00:00Z"),
		20, 0,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].RoomNumber != "102" {
		t.Fatalf("expected only room 102, got %v", got)
	}
}

func TestListAvailableByHotelEmptyPageSkipsOverlapQuery(t *testing.T) {
	repo := &mockRoomRepo{
		findByHotelFn: func(ctx context.Context, hotelID string, limit int, offset int64) ([]*model.Room, error) {
			return nil, nil
		},
		countByHotelFn: func(ctx context.Context, hotelID string) (int64, error) {
			return 0, nil
		},
	}
	bookings := &mockBookedRoomsFinder{
		bookedRoomIDsFn: func(ctx context.Context, checkIn, checkOut time.Time, roomIDs []string) ([]string, error) {
			t.Fatal("overlap query should not run for an empty page")
			return nil, nil
		},
	}
	svc := newTestService(t, repo, nil, bookings)

	got, total, err := svc.ListAvailableByHotel(
		context.Background(), testHotelID,
		ts(t, "2024-06-10T00:00:00Z"), ts(t, "2024-06-13T00:00:00Z"),
		20, 0,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 || total != 0 {
		t.Fatalf("expected empty result, got %v (total %d)", got, total)
	}
}

func TestDeleteRoomRequiresAdmin(t *testing.T) {
	svc := newTestService(t, &mockRoomRepo{}, nil, nil)

	err := svc.Delete(context.Background(), "65b000000000000000000001", model.Actor{UserID: "u-1", Role: "user"})
	assertCode(t, err, apperrors.CodeForbidden)
}
