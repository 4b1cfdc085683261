package service

import (
	"context"
	"errors"
	roomserrors "staybook/internal/rooms/errors"
	"staybook/internal/rooms/repository"
	"staybook/internal/rooms/validator"
	"staybook/pkg/config"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/model"
	"staybook/pkg/sanitizer"
	"sync"
	"time"
)

// HotelFinder is the slice of the hotels domain room management needs:
// a room can only be attached to a hotel that exists.
type HotelFinder interface {
	FindByID(ctx context.Context, id string) (*model.Hotel, error)
}

// BookedRoomsFinder reports which of the given rooms have a non-cancelled
// booking overlapping the date range.
type BookedRoomsFinder interface {
	BookedRoomIDs(ctx context.Context, checkIn, checkOut time.Time, roomIDs []string) ([]string, error)
}

type RoomService interface {
	Create(ctx context.Context, room *model.Room, actor model.Actor) error
	FindByID(ctx context.Context, id string) (*model.Room, error)
	ListByHotel(ctx context.Context, hotelID string, limit int, offset int64) ([]*model.Room, int64, error)
	ListAvailableByHotel(ctx context.Context, hotelID string, checkIn, checkOut time.Time, limit int, offset int64) ([]*model.Room, int64, error)
	Update(ctx context.Context, id string, updates *model.RoomUpdate, actor model.Actor) error
	Delete(ctx context.Context, id string, actor model.Actor) error
	DeleteByHotel(ctx context.Context, hotelID string) (int64, error)
	HotelIDsWithAvailableRoom(ctx context.Context, excludeRoomIDs []string) ([]string, error)
}

type roomService struct {
	repo      repository.RoomRepository
	hotels    HotelFinder
	bookings  BookedRoomsFinder
	validator *validator.RoomValidator
	cfg       *config.Config
}

func NewRoomService(
	repo repository.RoomRepository,
	hotels HotelFinder,
	bookings BookedRoomsFinder,
	validator *validator.RoomValidator,
	cfg *config.Config,
) RoomService {
	return &roomService{
		repo:      repo,
		hotels:    hotels,
		bookings:  bookings,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *roomService) Create(ctx context.Context, room *model.Room, actor model.Actor) error {
	if !actor.IsAdmin() {
		return apperrors.Forbidden("Creating rooms requires the admin role")
	}

	s.sanitize(room)
	if err := s.validator.Validate(room); err != nil {
		s.cfg.Log.Warn("Room validation failed", "error", err)
		return apperrors.Validation("Room validation failed", map[string]any{"error": err.Error()})
	}

	// The hotel lookup surfaces its own NOT_FOUND for a bad hotel id.
	if _, err := s.hotels.FindByID(ctx, room.HotelID); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, room); err != nil {
		s.cfg.Log.Error("Failed to create room", "hotel_id", room.HotelID, "error", err)
		return apperrors.Internal("Failed to create room", err)
	}

	s.cfg.Log.Info("Room created successfully",
		"id", room.ID,
		"hotel_id", room.HotelID,
		"room_number", room.RoomNumber,
	)
	return nil
}

func (s *roomService) FindByID(ctx context.Context, id string) (*model.Room, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}

	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Room", id)
		}
		if errors.Is(err, roomserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid room ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve room", err)
	}

	return room, nil
}

func (s *roomService) ListByHotel(ctx context.Context, hotelID string, limit int, offset int64) ([]*model.Room, int64, error) {
	if hotelID == "" {
		return nil, 0, apperrors.InvalidInput("Hotel ID cannot be empty")
	}

	// An unknown hotel is a NOT_FOUND, not an empty list.
	if _, err := s.hotels.FindByID(ctx, hotelID); err != nil {
		return nil, 0, err
	}

	var count int64
	var rooms []*model.Room
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByHotel(ctx, hotelID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count rooms", "hotel_id", hotelID, "error", errCount)
			errCount = apperrors.Internal("Failed to count rooms", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		rooms, errFind = s.repo.FindByHotel(ctx, hotelID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list rooms", "hotel_id", hotelID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve rooms", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return rooms, count, nil
}

// ListAvailableByHotel lists a hotel's rooms that are marked available and
// have no non-cancelled booking overlapping the given range. Pagination
// windows are cut over the hotel's full room list, so a room that is booked
// for the range drops out of its page rather than shifting later pages.
func (s *roomService) ListAvailableByHotel(ctx context.Context, hotelID string, checkIn, checkOut time.Time, limit int, offset int64) ([]*model.Room, int64, error) {
	rooms, total, err := s.ListByHotel(ctx, hotelID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	if len(rooms) == 0 {
		return rooms, total, nil
	}

	roomIDs := make([]string, 0, len(rooms))
	for _, room := range rooms {
		roomIDs = append(roomIDs, room.ID)
	}

	bookedIDs, err := s.bookings.BookedRoomIDs(ctx, checkIn, checkOut, roomIDs)
	if err != nil {
		return nil, 0, err
	}

	booked := make(map[string]struct{}, len(bookedIDs))
	for _, id := range bookedIDs {
		booked[id] = struct{}{}
	}

	available := make([]*model.Room, 0, len(rooms))
	for _, room := range rooms {
		if !room.IsAvailable {
			continue
		}
		if _, taken := booked[room.ID]; taken {
			continue
		}
		available = append(available, room)
	}

	return available, total, nil
}

func (s *roomService) Update(ctx context.Context, id string, updates *model.RoomUpdate, actor model.Actor) error {
	if !actor.IsAdmin() {
		return apperrors.Forbidden("Updating rooms requires the admin role")
	}
	if id == "" {
		return apperrors.InvalidInput("Room ID cannot be empty")
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Room update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Room", id)
		}
		if errors.Is(err, roomserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid room ID format")
		}
		return apperrors.Internal("Failed to update room", err)
	}

	s.cfg.Log.Info("Room updated successfully", "id", id)
	return nil
}

func (s *roomService) Delete(ctx context.Context, id string, actor model.Actor) error {
	if !actor.IsAdmin() {
		return apperrors.Forbidden("Deleting rooms requires the admin role")
	}
	if id == "" {
		return apperrors.InvalidInput("Room ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Room", id)
		}
		if errors.Is(err, roomserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid room ID format")
		}
		return apperrors.Internal("Failed to delete room", err)
	}

	s.cfg.Log.Info("Room deleted successfully", "id", id)
	return nil
}

// DeleteByHotel removes all rooms of a hotel. Called from the hotel cascade
// delete, usually inside its transaction; role checks happen there.
func (s *roomService) DeleteByHotel(ctx context.Context, hotelID string) (int64, error) {
	if hotelID == "" {
		return 0, apperrors.InvalidInput("Hotel ID cannot be empty")
	}

	deleted, err := s.repo.DeleteByHotel(ctx, hotelID)
	if err != nil {
		return 0, apperrors.Internal("Failed to delete rooms for hotel", err)
	}
	return deleted, nil
}

func (s *roomService) HotelIDsWithAvailableRoom(ctx context.Context, excludeRoomIDs []string) ([]string, error) {
	ids, err := s.repo.HotelIDsWithAvailableRoom(ctx, excludeRoomIDs)
	if err != nil {
		return nil, apperrors.Internal("Failed to find hotels with available rooms", err)
	}
	return ids, nil
}

func (s *roomService) sanitize(room *model.Room) {
	room.HotelID = sanitizer.TrimAndNormalize(room.HotelID)
	room.RoomNumber = sanitizer.TrimAndNormalize(room.RoomNumber)
	room.RoomType = sanitizer.TrimAndNormalize(room.RoomType)
	room.Amenities = sanitizer.SanitizeSlice(room.Amenities, sanitizer.SanitizeAmenity)
}
