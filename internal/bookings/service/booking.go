package service

import (
	"context"
	"errors"
	"fmt"
	bookingserrors "staybook/internal/bookings/errors"
	"staybook/internal/bookings/events"
	"staybook/internal/bookings/repository"
	"staybook/internal/bookings/validator"
	"staybook/pkg/config"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/model"
	"staybook/pkg/sanitizer"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// RoomFinder is the slice of the rooms domain the booking engine needs:
// resolving a room to price it and verify it belongs to the claimed hotel.
type RoomFinder interface {
	FindByID(ctx context.Context, id string) (*model.Room, error)
}

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	Cancel(ctx context.Context, id string, actor model.Actor) (*model.Booking, error)
	CheckAvailability(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error)
	GetByID(ctx context.Context, id string, actor model.Actor) (*model.Booking, error)
	ListAll(ctx context.Context, actor model.Actor, limit int, offset int64) ([]*model.Booking, int64, error)
	ListByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Booking, int64, error)
	BookedRoomIDs(ctx context.Context, checkIn, checkOut time.Time, roomIDs []string) ([]string, error)
	DeleteByHotel(ctx context.Context, hotelID string) (int64, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.BookingLockRepository
	rooms     RoomFinder
	validator *validator.BookingValidator
	publisher *events.Publisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	rooms RoomFinder,
	validator *validator.BookingValidator,
	publisher *events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		rooms:     rooms,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Create runs the full booking pipeline: validate the request, resolve and
// price the room, then serialize the overlap check and insert behind a
// per-room advisory lock so concurrent requests for the same room cannot
// both pass the availability check.
func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	s.applyDefaults(booking)
	s.sanitize(booking)
	if err := s.validate(booking); err != nil {
		return err
	}

	room, err := s.resolveRoom(ctx, booking)
	if err != nil {
		return err
	}

	booking.Nights = model.NightsBetween(booking.CheckIn, booking.CheckOut)
	booking.TotalPrice = float64(booking.Nights) * room.PricePerNight

	lockID, err := s.acquireRoomLock(ctx, booking.RoomID)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releaseRoomLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release room lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNoOverlap(sessCtx, booking); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "room_id", booking.RoomID, "error", err)
		return err
	}

	s.publisher.BookingCreated(ctx, booking)

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"room_id", booking.RoomID,
		"hotel_id", booking.HotelID,
		"check_in", booking.CheckIn,
		"check_out", booking.CheckOut,
		"nights", booking.Nights,
	)
	return nil
}

// Cancel moves a booking to its terminal cancelled state. Only the booking
// owner or an admin may cancel; cancelling twice is a conflict.
func (s *bookingService) Cancel(ctx context.Context, id string, actor model.Actor) (*model.Booking, error) {
	booking, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.CanManage(booking.UserID) {
		return nil, apperrors.Forbidden("You are not allowed to cancel this booking")
	}

	if booking.Status == config.StatusCancelled {
		return nil, apperrors.AlreadyCancelled(id)
	}

	if err := s.repo.UpdateStatus(ctx, id, config.StatusCancelled); err != nil {
		if errors.Is(err, bookingserrors.ErrAlreadyInStatus) {
			return nil, apperrors.AlreadyCancelled(id)
		}
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		return nil, apperrors.Internal("Failed to cancel booking", err)
	}

	booking.Status = config.StatusCancelled
	s.publisher.BookingCancelled(ctx, booking)

	s.cfg.Log.Info("Booking cancelled successfully", "id", id, "user_id", actor.UserID)
	return booking, nil
}

// CheckAvailability reports whether the room is free for [checkIn, checkOut).
// Cancelled bookings never block availability. The room itself is not
// resolved here: an unknown room id simply has no bookings and reads as free.
func (s *bookingService) CheckAvailability(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error) {
	if roomID == "" {
		return false, apperrors.InvalidInput("Room ID cannot be empty")
	}
	if err := s.validator.ValidateRange(checkIn, checkOut); err != nil {
		return false, apperrors.Validation("Invalid date range", map[string]any{"error": err.Error()})
	}

	overlapping, err := s.repo.FindOverlapping(ctx, roomID, checkIn, checkOut, []string{config.StatusCancelled})
	if err != nil {
		return false, apperrors.Internal("Failed to check availability", err)
	}

	return len(overlapping) == 0, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string, actor model.Actor) (*model.Booking, error) {
	booking, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.CanManage(booking.UserID) {
		return nil, apperrors.Forbidden("You are not allowed to view this booking")
	}

	return booking, nil
}

func (s *bookingService) ListAll(ctx context.Context, actor model.Actor, limit int, offset int64) ([]*model.Booking, int64, error) {
	if !actor.IsAdmin() {
		return nil, 0, apperrors.Forbidden("Listing all bookings requires the admin role")
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) ListByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	if userID == "" {
		return nil, 0, apperrors.InvalidInput("User ID cannot be empty")
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByUser(ctx, userID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings for user", "user_id", userID, "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindByUser(ctx, userID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings for user", "user_id", userID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

// BookedRoomIDs returns the subset of roomIDs holding an active booking
// intersecting the range. A nil slice scans all rooms. Used by hotel search
// to exclude fully booked hotels.
func (s *bookingService) BookedRoomIDs(ctx context.Context, checkIn, checkOut time.Time, roomIDs []string) ([]string, error) {
	if err := s.validator.ValidateRange(checkIn, checkOut); err != nil {
		return nil, apperrors.Validation("Invalid date range", map[string]any{"error": err.Error()})
	}

	ids, err := s.repo.DistinctOverlappingRoomIDs(ctx, checkIn, checkOut, roomIDs)
	if err != nil {
		return nil, apperrors.Internal("Failed to find booked rooms", err)
	}
	return ids, nil
}

// DeleteByHotel removes all bookings for a hotel. Called from the hotel
// cascade delete, usually inside its transaction.
func (s *bookingService) DeleteByHotel(ctx context.Context, hotelID string) (int64, error) {
	if hotelID == "" {
		return 0, apperrors.InvalidInput("Hotel ID cannot be empty")
	}

	deleted, err := s.repo.DeleteByHotel(ctx, hotelID)
	if err != nil {
		return 0, apperrors.Internal("Failed to delete bookings for hotel", err)
	}
	return deleted, nil
}

// --- Helpers ---

func (s *bookingService) findByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) applyDefaults(b *model.Booking) {
	// Status is server-owned. Every new booking starts confirmed no matter
	// what the request body carried; a client-supplied cancelled status
	// would otherwise create a booking that blocks nothing.
	b.Status = config.StatusConfirmed
	if b.ReferenceCode == "" {
		b.ReferenceCode = uuid.New().String()
	}
}

func (s *bookingService) sanitize(b *model.Booking) {
	b.UserID = sanitizer.TrimAndNormalize(b.UserID)
	b.HotelID = sanitizer.TrimAndNormalize(b.HotelID)
	b.RoomID = sanitizer.TrimAndNormalize(b.RoomID)
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

// resolveRoom checks the room exists, belongs to the hotel named on the
// booking, and is open for reservations. The hotel mismatch check runs
// before any availability logic so a wrong pairing never reads as a
// date conflict.
func (s *bookingService) resolveRoom(ctx context.Context, booking *model.Booking) (*model.Room, error) {
	room, err := s.rooms.FindByID(ctx, booking.RoomID)
	if err != nil {
		return nil, err
	}

	if room.HotelID != booking.HotelID {
		return nil, apperrors.RoomMismatch(booking.RoomID, booking.HotelID)
	}

	if !room.IsAvailable {
		return nil, apperrors.RoomUnavailable(booking.RoomID)
	}

	return room, nil
}

func (s *bookingService) verifyNoOverlap(ctx context.Context, booking *model.Booking) error {
	existing, err := s.repo.FindOverlapping(ctx, booking.RoomID, booking.CheckIn, booking.CheckOut, []string{config.StatusCancelled})
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}

	for _, b := range existing {
		if b.ID == booking.ID {
			continue
		}
		if model.Overlaps(b.CheckIn, b.CheckOut, booking.CheckIn, booking.CheckOut) {
			return apperrors.DateConflict(fmt.Sprintf(
				"Room is already booked for an overlapping range (%s - %s)",
				b.CheckIn.Format(time.RFC3339),
				b.CheckOut.Format(time.RFC3339),
			))
		}
	}
	return nil
}

// acquireRoomLock inserts an advisory lock document keyed by the room so
// that concurrent creates for the same room serialize. The expires_at TTL
// index reaps locks abandoned by crashed writers.
func (s *bookingService) acquireRoomLock(ctx context.Context, roomID string) (string, error) {
	lockID := fmt.Sprintf("room_lock_%s", roomID)

	lock := &model.BookingLock{
		ID:        lockID,
		RoomID:    roomID,
		ExpiresAt: time.Now().Add(s.cfg.BookingLockTTL),
	}

	if err := s.lockRepo.Create(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This room is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire booking lock", err)
	}

	return lockID, nil
}

func (s *bookingService) releaseRoomLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}
