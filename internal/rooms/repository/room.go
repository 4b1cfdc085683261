package repository

import (
	"context"
	"errors"
	"fmt"
	roomserrors "staybook/internal/rooms/errors"
	"staybook/pkg/config"
	"staybook/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Rooms"
)

type RoomRepository interface {
	Create(ctx context.Context, room *model.Room) error
	FindByID(ctx context.Context, id string) (*model.Room, error)
	FindByHotel(ctx context.Context, hotelID string, limit int, offset int64) ([]*model.Room, error)
	CountByHotel(ctx context.Context, hotelID string) (int64, error)
	Update(ctx context.Context, id string, updates *model.RoomUpdate) error
	Delete(ctx context.Context, id string) error
	DeleteByHotel(ctx context.Context, hotelID string) (int64, error)
	HotelIDsWithAvailableRoom(ctx context.Context, excludeRoomIDs []string) ([]string, error)
}

type mongoRoomRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoRoomRepository(cfg *config.Config) RoomRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRoomRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoRoomRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoRoomRepository) Create(ctx context.Context, room *model.Room) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	room.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, room)
	if err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		room.ID = oid.Hex()
	}
	return nil
}

func (r *mongoRoomRepository) FindByID(ctx context.Context, id string) (*model.Room, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", roomserrors.ErrInvalidID, id)
	}

	var room model.Room
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&room)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, roomserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find room: %w", err)
	}

	return &room, nil
}

func (r *mongoRoomRepository) FindByHotel(ctx context.Context, hotelID string, limit int, offset int64) ([]*model.Room, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "room_number", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{"hotel_id": hotelID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find rooms for hotel: %w", err)
	}
	defer cursor.Close(ctx)

	var rooms []*model.Room
	if err = cursor.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("failed to decode rooms: %w", err)
	}

	return rooms, nil
}

func (r *mongoRoomRepository) CountByHotel(ctx context.Context, hotelID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"hotel_id": hotelID})
	if err != nil {
		return 0, fmt.Errorf("failed to count rooms for hotel: %w", err)
	}
	return count, nil
}

func (r *mongoRoomRepository) Update(ctx context.Context, id string, updates *model.RoomUpdate) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", roomserrors.ErrInvalidID, id)
	}

	set := bson.M{}
	if updates.RoomNumber != "" {
		set["room_number"] = updates.RoomNumber
	}
	if updates.RoomType != "" {
		set["room_type"] = updates.RoomType
	}
	if updates.PricePerNight != nil {
		set["price_per_night"] = *updates.PricePerNight
	}
	if updates.MaxGuests != nil {
		set["max_guests"] = *updates.MaxGuests
	}
	if updates.IsAvailable != nil {
		set["is_available"] = *updates.IsAvailable
	}
	if updates.Amenities != nil {
		set["amenities"] = *updates.Amenities
	}
	if len(set) == 0 {
		return nil
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}
	if result.MatchedCount == 0 {
		return roomserrors.ErrNotFound
	}
	return nil
}

func (r *mongoRoomRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", roomserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	if result.DeletedCount == 0 {
		return roomserrors.ErrNotFound
	}
	return nil
}

func (r *mongoRoomRepository) DeleteByHotel(ctx context.Context, hotelID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{"hotel_id": hotelID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete rooms for hotel: %w", err)
	}
	return result.DeletedCount, nil
}

// HotelIDsWithAvailableRoom returns the distinct hotel ids owning at least
// one open room, after excluding the given room ids (typically rooms booked
// for a requested date range). Price filtering is a hotel-level concern and
// does not narrow this set.
func (r *mongoRoomRepository) HotelIDsWithAvailableRoom(ctx context.Context, excludeRoomIDs []string) ([]string, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"is_available": true}

	if len(excludeRoomIDs) > 0 {
		objectIDs := make([]primitive.ObjectID, 0, len(excludeRoomIDs))
		for _, id := range excludeRoomIDs {
			oid, err := primitive.ObjectIDFromHex(id)
			if err != nil {
				continue
			}
			objectIDs = append(objectIDs, oid)
		}
		filter["_id"] = bson.M{"$nin": objectIDs}
	}

	values, err := r.collection.Distinct(ctx, "hotel_id", filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find hotels with available rooms: %w", err)
	}

	ids := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			ids = append(ids, s)
		}
	}
	return ids, nil
}
