package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	hotelserrors "staybook/internal/hotels/errors"
	"staybook/pkg/config"
	mongotx "staybook/pkg/db/mongo"
	"staybook/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Hotels"
)

type HotelRepository interface {
	Create(ctx context.Context, hotel *model.Hotel) error
	FindByID(ctx context.Context, id string) (*model.Hotel, error)
	FindAll(ctx context.Context, filter *model.HotelFilter, restrictIDs []string, limit int, offset int64) ([]*model.Hotel, error)
	Count(ctx context.Context, filter *model.HotelFilter, restrictIDs []string) (int64, error)
	Update(ctx context.Context, id string, updates *model.HotelUpdate) error
	Delete(ctx context.Context, id string) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoHotelRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoHotelRepository(cfg *config.Config) HotelRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoHotelRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoHotelRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoHotelRepository) Create(ctx context.Context, hotel *model.Hotel) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	hotel.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, hotel)
	if err != nil {
		return fmt.Errorf("failed to create hotel: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		hotel.ID = oid.Hex()
	}
	return nil
}

func (r *mongoHotelRepository) FindByID(ctx context.Context, id string) (*model.Hotel, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", hotelserrors.ErrInvalidID, id)
	}

	var hotel model.Hotel
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&hotel)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, hotelserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find hotel: %w", err)
	}

	return &hotel, nil
}

// buildFilter translates a HotelFilter plus an optional id restriction into
// a Mongo query. The date range is resolved to restrictIDs by the service
// before it reaches here.
func buildFilter(filter *model.HotelFilter, restrictIDs []string) bson.M {
	query := bson.M{}

	if filter != nil {
		if filter.City != "" {
			// Case-insensitive substring match, so "york" finds "New York".
			query["city"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.City), Options: "i"}
		}
		price := bson.M{}
		if filter.MinPrice != nil {
			price["$gte"] = *filter.MinPrice
		}
		if filter.MaxPrice != nil {
			price["$lte"] = *filter.MaxPrice
		}
		if len(price) > 0 {
			query["price_per_night"] = price
		}
		if filter.MinRating != nil {
			query["rating"] = bson.M{"$gte": *filter.MinRating}
		}
	}

	if restrictIDs != nil {
		objectIDs := make([]primitive.ObjectID, 0, len(restrictIDs))
		for _, id := range restrictIDs {
			oid, err := primitive.ObjectIDFromHex(id)
			if err != nil {
				continue
			}
			objectIDs = append(objectIDs, oid)
		}
		query["_id"] = bson.M{"$in": objectIDs}
	}

	return query
}

func (r *mongoHotelRepository) FindAll(ctx context.Context, filter *model.HotelFilter, restrictIDs []string, limit int, offset int64) ([]*model.Hotel, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "rating", Value: -1}, {Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, buildFilter(filter, restrictIDs), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find hotels: %w", err)
	}
	defer cursor.Close(ctx)

	var hotels []*model.Hotel
	if err = cursor.All(ctx, &hotels); err != nil {
		return nil, fmt.Errorf("failed to decode hotels: %w", err)
	}

	return hotels, nil
}

func (r *mongoHotelRepository) Count(ctx context.Context, filter *model.HotelFilter, restrictIDs []string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildFilter(filter, restrictIDs))
	if err != nil {
		return 0, fmt.Errorf("failed to count hotels: %w", err)
	}
	return count, nil
}

func (r *mongoHotelRepository) Update(ctx context.Context, id string, updates *model.HotelUpdate) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", hotelserrors.ErrInvalidID, id)
	}

	set := bson.M{}
	if updates.Name != "" {
		set["name"] = updates.Name
	}
	if updates.City != "" {
		set["city"] = updates.City
	}
	if updates.Address != "" {
		set["address"] = updates.Address
	}
	if updates.Description != "" {
		set["description"] = updates.Description
	}
	if updates.PricePerNight != nil {
		set["price_per_night"] = *updates.PricePerNight
	}
	if updates.Rating != nil {
		set["rating"] = *updates.Rating
	}
	if updates.Images != nil {
		set["images"] = *updates.Images
	}
	if updates.Amenities != nil {
		set["amenities"] = *updates.Amenities
	}
	if updates.TotalRooms != nil {
		set["total_rooms"] = *updates.TotalRooms
	}
	if updates.AvailableRooms != nil {
		set["available_rooms"] = *updates.AvailableRooms
	}
	if len(set) == 0 {
		return nil
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update hotel: %w", err)
	}
	if result.MatchedCount == 0 {
		return hotelserrors.ErrNotFound
	}
	return nil
}

func (r *mongoHotelRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", hotelserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete hotel: %w", err)
	}
	if result.DeletedCount == 0 {
		return hotelserrors.ErrNotFound
	}
	return nil
}

func (r *mongoHotelRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
