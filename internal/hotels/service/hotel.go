package service

import (
	"context"
	"errors"
	hotelserrors "staybook/internal/hotels/errors"
	"staybook/internal/hotels/repository"
	"staybook/internal/hotels/validator"
	"staybook/pkg/config"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/model"
	"staybook/pkg/sanitizer"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// RoomCatalog is the slice of the rooms domain hotel search and deletion
// need: resolving date-filtered availability to hotel ids, and cascading
// room removal.
type RoomCatalog interface {
	HotelIDsWithAvailableRoom(ctx context.Context, excludeRoomIDs []string) ([]string, error)
	DeleteByHotel(ctx context.Context, hotelID string) (int64, error)
}

// BookingPurger is the slice of the bookings domain hotel search and
// deletion need.
type BookingPurger interface {
	BookedRoomIDs(ctx context.Context, checkIn, checkOut time.Time, roomIDs []string) ([]string, error)
	DeleteByHotel(ctx context.Context, hotelID string) (int64, error)
}

type HotelService interface {
	Create(ctx context.Context, hotel *model.Hotel, actor model.Actor) error
	FindByID(ctx context.Context, id string) (*model.Hotel, error)
	List(ctx context.Context, filter *model.HotelFilter, limit int, offset int64) ([]*model.Hotel, int64, error)
	Update(ctx context.Context, id string, updates *model.HotelUpdate, actor model.Actor) error
	Delete(ctx context.Context, id string, actor model.Actor) error
}

type hotelService struct {
	repo      repository.HotelRepository
	rooms     RoomCatalog
	bookings  BookingPurger
	validator *validator.HotelValidator
	cfg       *config.Config
}

func NewHotelService(
	repo repository.HotelRepository,
	rooms RoomCatalog,
	bookings BookingPurger,
	validator *validator.HotelValidator,
	cfg *config.Config,
) HotelService {
	return &hotelService{
		repo:      repo,
		rooms:     rooms,
		bookings:  bookings,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *hotelService) Create(ctx context.Context, hotel *model.Hotel, actor model.Actor) error {
	if !actor.IsAdmin() {
		return apperrors.Forbidden("Creating hotels requires the admin role")
	}

	s.sanitize(hotel)
	if err := s.validator.Validate(hotel); err != nil {
		s.cfg.Log.Warn("Hotel validation failed", "error", err)
		return apperrors.Validation("Hotel validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, hotel); err != nil {
		s.cfg.Log.Error("Failed to create hotel", "name", hotel.Name, "error", err)
		return apperrors.Internal("Failed to create hotel", err)
	}

	s.cfg.Log.Info("Hotel created successfully", "id", hotel.ID, "name", hotel.Name, "city", hotel.City)
	return nil
}

func (s *hotelService) FindByID(ctx context.Context, id string) (*model.Hotel, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Hotel ID cannot be empty")
	}

	hotel, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, hotelserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Hotel", id)
		}
		if errors.Is(err, hotelserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid hotel ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve hotel", err)
	}

	return hotel, nil
}

// List returns hotels matching the filter. When a date range is present it
// first resolves which rooms are booked for the range, then which hotels
// still own at least one open room, and restricts the listing to those.
func (s *hotelService) List(ctx context.Context, filter *model.HotelFilter, limit int, offset int64) ([]*model.Hotel, int64, error) {
	var restrictIDs []string

	if filter != nil && filter.CheckIn != nil && filter.CheckOut != nil {
		bookedRoomIDs, err := s.bookings.BookedRoomIDs(ctx, *filter.CheckIn, *filter.CheckOut, nil)
		if err != nil {
			return nil, 0, err
		}

		// Price is filtered on the hotel's own nightly rate by the repository
		// query, never on the rates of its individual rooms.
		hotelIDs, err := s.rooms.HotelIDsWithAvailableRoom(ctx, bookedRoomIDs)
		if err != nil {
			return nil, 0, err
		}

		if len(hotelIDs) == 0 {
			return []*model.Hotel{}, 0, nil
		}
		restrictIDs = hotelIDs
	}

	var count int64
	var hotels []*model.Hotel
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, filter, restrictIDs)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count hotels", "error", errCount)
			errCount = apperrors.Internal("Failed to count hotels", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		hotels, errFind = s.repo.FindAll(ctx, filter, restrictIDs, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list hotels", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve hotels", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return hotels, count, nil
}

func (s *hotelService) Update(ctx context.Context, id string, updates *model.HotelUpdate, actor model.Actor) error {
	if !actor.IsAdmin() {
		return apperrors.Forbidden("Updating hotels requires the admin role")
	}
	if id == "" {
		return apperrors.InvalidInput("Hotel ID cannot be empty")
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Hotel update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		if errors.Is(err, hotelserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Hotel", id)
		}
		if errors.Is(err, hotelserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid hotel ID format")
		}
		return apperrors.Internal("Failed to update hotel", err)
	}

	s.cfg.Log.Info("Hotel updated successfully", "id", id)
	return nil
}

// Delete removes the hotel and everything hanging off it. The cascade runs
// inside one transaction so a failure partway leaves rooms and bookings
// intact.
func (s *hotelService) Delete(ctx context.Context, id string, actor model.Actor) error {
	if !actor.IsAdmin() {
		return apperrors.Forbidden("Deleting hotels requires the admin role")
	}
	if id == "" {
		return apperrors.InvalidInput("Hotel ID cannot be empty")
	}

	var roomsDeleted, bookingsDeleted int64
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		var err error
		if roomsDeleted, err = s.rooms.DeleteByHotel(sessCtx, id); err != nil {
			return err
		}
		if bookingsDeleted, err = s.bookings.DeleteByHotel(sessCtx, id); err != nil {
			return err
		}
		if err := s.repo.Delete(sessCtx, id); err != nil {
			if errors.Is(err, hotelserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Hotel", id)
			}
			if errors.Is(err, hotelserrors.ErrInvalidID) {
				return apperrors.InvalidInput("Invalid hotel ID format")
			}
			return apperrors.Internal("Failed to delete hotel", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cfg.Log.Info("Hotel deleted successfully",
		"id", id,
		"rooms_deleted", roomsDeleted,
		"bookings_deleted", bookingsDeleted,
	)
	return nil
}

func (s *hotelService) sanitize(hotel *model.Hotel) {
	hotel.Name = sanitizer.SanitizeDisplayName(hotel.Name)
	hotel.City = sanitizer.SanitizeCity(hotel.City)
	hotel.Address = sanitizer.TrimAndNormalize(hotel.Address)
	hotel.Description = sanitizer.TrimAndNormalize(hotel.Description)
	hotel.Amenities = sanitizer.SanitizeSlice(hotel.Amenities, sanitizer.SanitizeAmenity)
	hotel.Images = sanitizer.SanitizeSlice(hotel.Images, sanitizer.SanitizeURL)
}
