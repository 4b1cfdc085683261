package service

import (
	"context"
	"io"
	"testing"
	"time"

	hotelserrors "staybook/internal/hotels/errors"
	"staybook/internal/hotels/validator"
	"staybook/pkg/config"
	mongotx "staybook/pkg/db/mongo"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/logger"
	"staybook/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

// --- Mocks ---

type mockHotelRepo struct {
	createFn   func(ctx context.Context, hotel *model.Hotel) error
	findByIDFn func(ctx context.Context, id string) (*model.Hotel, error)
	findAllFn  func(ctx context.Context, filter *model.HotelFilter, restrictIDs []string, limit int, offset int64) ([]*model.Hotel, error)
	countFn    func(ctx context.Context, filter *model.HotelFilter, restrictIDs []string) (int64, error)
	updateFn   func(ctx context.Context, id string, updates *model.HotelUpdate) error
	deleteFn   func(ctx context.Context, id string) error
}

func (m *mockHotelRepo) Create(ctx context.Context, hotel *model.Hotel) error {
	return m.createFn(ctx, hotel)
}

func (m *mockHotelRepo) FindByID(ctx context.Context, id string) (*model.Hotel, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockHotelRepo) FindAll(ctx context.Context, filter *model.HotelFilter, restrictIDs []string, limit int, offset int64) ([]*model.Hotel, error) {
	return m.findAllFn(ctx, filter, restrictIDs, limit, offset)
}

func (m *mockHotelRepo) Count(ctx context.Context, filter *model.HotelFilter, restrictIDs []string) (int64, error) {
	return m.countFn(ctx, filter, restrictIDs)
}

func (m *mockHotelRepo) Update(ctx context.Context, id string, updates *model.HotelUpdate) error {
	return m.updateFn(ctx, id, updates)
}

func (m *mockHotelRepo) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func (m *mockHotelRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

type mockRoomCatalog struct {
	hotelIDsFn      func(ctx context.Context, excludeRoomIDs []string) ([]string, error)
	deleteByHotelFn func(ctx context.Context, hotelID string) (int64, error)
}

func (m *mockRoomCatalog) HotelIDsWithAvailableRoom(ctx context.Context, excludeRoomIDs []string) ([]string, error) {
	return m.hotelIDsFn(ctx, excludeRoomIDs)
}

func (m *mockRoomCatalog) DeleteByHotel(ctx context.Context, hotelID string) (int64, error) {
	return m.deleteByHotelFn(ctx, hotelID)
}

type mockBookingPurger struct {
	bookedRoomIDsFn func(ctx context.Context, checkIn, checkOut time.Time, roomIDs []string) ([]string, error)
	deleteByHotelFn func(ctx context.Context, hotelID string) (int64, error)
}

func (m *mockBookingPurger) BookedRoomIDs(ctx context.Context, checkIn, checkOut time.Time, roomIDs []string) ([]string, error) {
	return m.bookedRoomIDsFn(ctx, checkIn, checkOut, roomIDs)
}

func (m *mockBookingPurger) DeleteByHotel(ctx context.Context, hotelID string) (int64, error) {
	return m.deleteByHotelFn(ctx, hotelID)
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

func newTestService(t *testing.T, repo *mockHotelRepo, rooms *mockRoomCatalog, bookings *mockBookingPurger) HotelService {
	t.Helper()
	cfg := testConfig(t)
	return NewHotelService(repo, rooms, bookings, validator.NewHotelValidator(cfg.Log), cfg)
}

func ts(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("bad time literal %q: %v", value, err)
	}
	return parsed
}

func validHotel() *model.Hotel {
	return &model.Hotel{
		Name:           "Grand Plaza Hotel",
		City:           "New York",
		Address:        "123 Broadway, New York, NY 10001",
		Description:    "Luxurious hotel in the heart of Manhattan.",
		PricePerNight:  250,
		Rating:         4.5,
		TotalRooms:     50,
		AvailableRooms: 45,
	}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	appErr := apperrors.AsAppError(err)
	if appErr == nil {
		t.Fatalf("expected AppError with code %s, got %T: %v", code, err, err)
	}
	if appErr.Code != code {
		t.Fatalf("expected code %s, got %s (%v)", code, appErr.Code, err)
	}
}

// --- Tests ---

func TestCreateHotel(t *testing.T) {
	var stored *model.Hotel
	repo := &mockHotelRepo{
		createFn: func(ctx context.Context, hotel *model.Hotel) error {
			stored = hotel
			return nil
		},
	}
	svc := newTestService(t, repo, &mockRoomCatalog{}, &mockBookingPurger{})

	hotel := validHotel()
	if err := svc.Create(context.Background(), hotel, admin); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored == nil {
		t.Fatal("expected the hotel to be stored")
	}
	if stored.City != "new york" {
		t.Errorf("expected city to be normalized to lowercase, got %q", stored.City)
	}
}

func TestCreateHotelRequiresAdmin(t *testing.T) {
	svc := newTestService(t, &mockHotelRepo{}, &mockRoomCatalog{}, &mockBookingPurger{})

	err := svc.Create(context.Background(), validHotel(), model.Actor{UserID: "user-1", Role: "user"})
	assertCode(t, err, apperrors.CodeForbidden)
}

func TestCreateHotelValidation(t *testing.T) {
	svc := newTestService(t, &mockHotelRepo{}, &mockRoomCatalog{}, &mockBookingPurger{})

	hotel := validHotel()
	hotel.Name = ""
	err := svc.Create(context.Background(), hotel, admin)
	assertCode(t, err, apperrors.CodeValidation)
}

func TestListWithDateRangeRestrictsToBookableHotels(t *testing.T) {
	checkIn := ts(t, "2024-03-01T00:00:00Z")
	checkOut := ts(t, "2024-03-05T00:00:00Z")
	bookedRooms := []string{"65a000000000000000000011"}

	bookings := &mockBookingPurger{
		bookedRoomIDsFn: func(ctx context.Context, in, out time.Time, roomIDs []string) ([]string, error) {
			if !in.Equal(checkIn) || !out.Equal(checkOut) {
				t.Errorf("unexpected range: %v - %v", in, out)
			}
			return bookedRooms, nil
		},
	}
	rooms := &mockRoomCatalog{
		hotelIDsFn: func(ctx context.Context, excludeRoomIDs []string) ([]string, error) {
			if len(excludeRoomIDs) != 1 || excludeRoomIDs[0] != bookedRooms[0] {
				t.Errorf("expected booked rooms to be excluded, got %v", excludeRoomIDs)
			}
			return []string{testHotelID}, nil
		},
	}
	repo := &mockHotelRepo{
		countFn: func(ctx context.Context, filter *model.HotelFilter, restrictIDs []string) (int64, error) {
			return 1, nil
		},
		findAllFn: func(ctx context.Context, filter *model.HotelFilter, restrictIDs []string, limit int, offset int64) ([]*model.Hotel, error) {
			if len(restrictIDs) != 1 || restrictIDs[0] != testHotelID {
				t.Errorf("expected listing restricted to %s, got %v", testHotelID, restrictIDs)
			}
			return []*model.Hotel{{ID: testHotelID, Name: "Grand Plaza Hotel"}}, nil
		},
	}
	svc := newTestService(t, repo, rooms, bookings)

	filter := &model.HotelFilter{CheckIn: &checkIn, CheckOut: &checkOut}
	hotels, total, err := svc.List(context.Background(), filter, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(hotels) != 1 {
		t.Fatalf("expected one hotel, got total=%d len=%d", total, len(hotels))
	}
}

// Price filtering applies to the hotel's own nightly rate, never to the
// rates of its rooms: a hotel priced in range stays listed even when its
// only free room is priced outside it.
func TestListWithDateRangePriceFiltersHotelRateOnly(t *testing.T) {
	checkIn := ts(t, "2024-03-01T00:00:00Z")
	checkOut := ts(t, "2024-03-05T00:00:00Z")
	minPrice := 100.0
	maxPrice := 300.0

	bookings := &mockBookingPurger{
		bookedRoomIDsFn: func(ctx context.Context, in, out time.Time, roomIDs []string) ([]string, error) {
			return nil, nil
		},
	}
	// The catalog knows nothing about prices; the only free room costs 900.
	rooms := &mockRoomCatalog{
		hotelIDsFn: func(ctx context.Context, excludeRoomIDs []string) ([]string, error) {
			return []string{testHotelID}, nil
		},
	}
	repo := &mockHotelRepo{
		countFn: func(ctx context.Context, filter *model.HotelFilter, restrictIDs []string) (int64, error) {
			return 1, nil
		},
		findAllFn: func(ctx context.Context, filter *model.HotelFilter, restrictIDs []string, limit int, offset int64) ([]*model.Hotel, error) {
			if filter.MinPrice == nil || *filter.MinPrice != minPrice || filter.MaxPrice == nil || *filter.MaxPrice != maxPrice {
				t.Errorf("price band must reach the hotel query intact, got %v - %v", filter.MinPrice, filter.MaxPrice)
			}
			if len(restrictIDs) != 1 || restrictIDs[0] != testHotelID {
				t.Errorf("hotel with a free room must stay listed, got %v", restrictIDs)
			}
			return []*model.Hotel{{ID: testHotelID, Name: "Grand Plaza Hotel", PricePerNight: 250}}, nil
		},
	}
	svc := newTestService(t, repo, rooms, bookings)

	filter := &model.HotelFilter{
		CheckIn:  &checkIn,
		CheckOut: &checkOut,
		MinPrice: &minPrice,
		MaxPrice: &maxPrice,
	}
	hotels, total, err := svc.List(context.Background(), filter, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(hotels) != 1 {
		t.Fatalf("expected one hotel, got total=%d len=%d", total, len(hotels))
	}
}

func TestListWithDateRangeNoBookableHotels(t *testing.T) {
	checkIn := ts(t, "2024-03-01T00:00:00Z")
	checkOut := ts(t, "2024-03-05T00:00:00Z")

	bookings := &mockBookingPurger{
		bookedRoomIDsFn: func(ctx context.Context, in, out time.Time, roomIDs []string) ([]string, error) {
			return []string{"65a000000000000000000011"}, nil
		},
	}
	rooms := &mockRoomCatalog{
		hotelIDsFn: func(ctx context.Context, excludeRoomIDs []string) ([]string, error) {
			return nil, nil
		},
	}
	repo := &mockHotelRepo{
		countFn: func(ctx context.Context, filter *model.HotelFilter, restrictIDs []string) (int64, error) {
			t.Error("the repository must not be queried when no hotel qualifies")
			return 0, nil
		},
		findAllFn: func(ctx context.Context, filter *model.HotelFilter, restrictIDs []string, limit int, offset int64) ([]*model.Hotel, error) {
			t.Error("the repository must not be queried when no hotel qualifies")
			return nil, nil
		},
	}
	svc := newTestService(t, repo, rooms, bookings)

	filter := &model.HotelFilter{CheckIn: &checkIn, CheckOut: &checkOut}
	hotels, total, err := svc.List(context.Background(), filter, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 0 || len(hotels) != 0 {
		t.Fatalf("expected an empty result, got total=%d len=%d", total, len(hotels))
	}
}

func TestListWithoutDatesSkipsAvailabilityResolution(t *testing.T) {
	bookings := &mockBookingPurger{
		bookedRoomIDsFn: func(ctx context.Context, in, out time.Time, roomIDs []string) ([]string, error) {
			t.Error("availability must not be resolved without a date range")
			return nil, nil
		},
	}
	repo := &mockHotelRepo{
		countFn: func(ctx context.Context, filter *model.HotelFilter, restrictIDs []string) (int64, error) {
			return 2, nil
		},
		findAllFn: func(ctx context.Context, filter *model.HotelFilter, restrictIDs []string, limit int, offset int64) ([]*model.Hotel, error) {
			if restrictIDs != nil {
				t.Errorf("expected no id restriction, got %v", restrictIDs)
			}
			return []*model.Hotel{{Name: "A"}, {Name: "B"}}, nil
		},
	}
	svc := newTestService(t, repo, &mockRoomCatalog{}, bookings)

	hotels, total, err := svc.List(context.Background(), &model.HotelFilter{City: "miami"}, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(hotels) != 2 {
		t.Fatalf("expected two hotels, got total=%d len=%d", total, len(hotels))
	}
}

func TestDeleteHotelCascades(t *testing.T) {
	var roomsDeleted, bookingsDeleted, hotelDeleted bool

	rooms := &mockRoomCatalog{
		deleteByHotelFn: func(ctx context.Context, hotelID string) (int64, error) {
			roomsDeleted = true
			return 3, nil
		},
	}
	bookings := &mockBookingPurger{
		deleteByHotelFn: func(ctx context.Context, hotelID string) (int64, error) {
			bookingsDeleted = true
			return 5, nil
		},
	}
	repo := &mockHotelRepo{
		deleteFn: func(ctx context.Context, id string) error {
			if !roomsDeleted || !bookingsDeleted {
				t.Error("rooms and bookings must be removed before the hotel")
			}
			hotelDeleted = true
			return nil
		},
	}
	svc := newTestService(t, repo, rooms, bookings)

	if err := svc.Delete(context.Background(), testHotelID, admin); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hotelDeleted {
		t.Error("expected the hotel itself to be deleted")
	}
}

func TestDeleteHotelNotFound(t *testing.T) {
	rooms := &mockRoomCatalog{
		deleteByHotelFn: func(ctx context.Context, hotelID string) (int64, error) { return 0, nil },
	}
	bookings := &mockBookingPurger{
		deleteByHotelFn: func(ctx context.Context, hotelID string) (int64, error) { return 0, nil },
	}
	repo := &mockHotelRepo{
		deleteFn: func(ctx context.Context, id string) error {
			return hotelserrors.ErrNotFound
		},
	}
	svc := newTestService(t, repo, rooms, bookings)

	err := svc.Delete(context.Background(), testHotelID, admin)
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestDeleteHotelRequiresAdmin(t *testing.T) {
	svc := newTestService(t, &mockHotelRepo{}, &mockRoomCatalog{}, &mockBookingPurger{})

	err := svc.Delete(context.Background(), testHotelID, model.Actor{UserID: "user-1", Role: "user"})
	assertCode(t, err, apperrors.CodeForbidden)
}

func TestFindByIDNotFound(t *testing.T) {
	repo := &mockHotelRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Hotel, error) {
			return nil, hotelserrors.ErrNotFound
		},
	}
	svc := newTestService(t, repo, &mockRoomCatalog{}, &mockBookingPurger{})

	_, err := svc.FindByID(context.Background(), testHotelID)
	assertCode(t, err, apperrors.CodeNotFound)
}
