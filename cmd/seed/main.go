package main

import (
	"context"
	"fmt"
	"log"
	"time"

	hotelsrepo "staybook/internal/hotels/repository"
	roomsrepo "staybook/internal/rooms/repository"
	"staybook/pkg/config"
	"staybook/pkg/model"
	"staybook/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/bson"
)

const JobName = "seed"

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	cfg := config.Load(JobName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	if err := seed(ctx, cfg); err != nil {
		log.Fatalf("Error seeding data: %v", err)
	}
	fmt.Println("✅ Seed data created successfully!")
}

func seed(ctx context.Context, cfg *config.Config) error {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	for _, name := range []string{"Hotels", "Rooms", "Bookings", "Booking_locks"} {
		if _, err := db.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			return fmt.Errorf("failed to clear %s: %w", name, err)
		}
	}
	fmt.Println("Cleared existing data...")

	hotelRepo := hotelsrepo.NewMongoHotelRepository(cfg)
	roomRepo := roomsrepo.NewMongoRoomRepository(cfg)

	hotels := []*model.Hotel{
		{
			Name:           "Grand Plaza Hotel",
			City:           sanitizer.SanitizeCity("New York"),
			Address:        "123 Broadway, New York, NY 10001",
			Description:    "Luxurious hotel in the heart of Manhattan with stunning city views and world-class amenities.",
			PricePerNight:  250,
			Rating:         4.5,
			Images:         []string{"https://images.unsplash.com/photo-1566073771259-6a8506099945", "https://images.unsplash.com/photo-1571896349842-33c89424de2d"},
			Amenities:      []string{"WiFi", "Pool", "Gym", "Spa", "Restaurant", "Parking"},
			TotalRooms:     50,
			AvailableRooms: 45,
		},
		{
			Name:           "Oceanview Resort",
			City:           sanitizer.SanitizeCity("Miami"),
			Address:        "456 Ocean Drive, Miami Beach, FL 33139",
			Description:    "Beachfront resort with direct access to the ocean and tropical paradise atmosphere.",
			PricePerNight:  350,
			Rating:         4.8,
			Images:         []string{"https://images.unsplash.com/photo-1551882547-ff40c63fe5fa", "https://images.unsplash.com/photo-1571003123894-1f0594d2b5d9"},
			Amenities:      []string{"WiFi", "Pool", "Beach Access", "Spa", "Restaurant", "Bar"},
			TotalRooms:     80,
			AvailableRooms: 70,
		},
		{
			Name:           "Mountain Lodge",
			City:           sanitizer.SanitizeCity("Denver"),
			Address:        "789 Mountain View Road, Denver, CO 80202",
			Description:    "Cozy mountain lodge perfect for nature lovers and outdoor enthusiasts.",
			PricePerNight:  150,
			Rating:         4.2,
			Images:         []string{"https://images.unsplash.com/photo-1564501049412-61c2a3083791", "https://images.unsplash.com/photo-1571896349842-33c89424de2d"},
			Amenities:      []string{"WiFi", "Fireplace", "Hiking Trails", "Restaurant"},
			TotalRooms:     30,
			AvailableRooms: 28,
		},
	}

	for _, h := range hotels {
		if err := hotelRepo.Create(ctx, h); err != nil {
			return err
		}
	}
	fmt.Println("Created hotels...")

	rooms := []*model.Room{
		{HotelID: hotels[0].ID, RoomNumber: "101", RoomType: model.RoomTypeSingle, PricePerNight: 200, MaxGuests: 1, IsAvailable: true, Amenities: []string{"WiFi", "TV", "AC"}},
		{HotelID: hotels[0].ID, RoomNumber: "102", RoomType: model.RoomTypeDouble, PricePerNight: 250, MaxGuests: 2, IsAvailable: true, Amenities: []string{"WiFi", "TV", "AC", "Mini Bar"}},
		{HotelID: hotels[0].ID, RoomNumber: "201", RoomType: model.RoomTypeSuite, PricePerNight: 400, MaxGuests: 4, IsAvailable: true, Amenities: []string{"WiFi", "TV", "AC", "Mini Bar", "Jacuzzi"}},
		{HotelID: hotels[1].ID, RoomNumber: "101", RoomType: model.RoomTypeDouble, PricePerNight: 300, MaxGuests: 2, IsAvailable: true, Amenities: []string{"WiFi", "TV", "AC", "Ocean View", "Balcony"}},
		{HotelID: hotels[1].ID, RoomNumber: "102", RoomType: model.RoomTypeSuite, PricePerNight: 500, MaxGuests: 4, IsAvailable: true, Amenities: []string{"WiFi", "TV", "AC", "Ocean View", "Balcony", "Jacuzzi"}},
		{HotelID: hotels[2].ID, RoomNumber: "101", RoomType: model.RoomTypeSingle, PricePerNight: 120, MaxGuests: 1, IsAvailable: true, Amenities: []string{"WiFi", "TV", "Fireplace"}},
		{HotelID: hotels[2].ID, RoomNumber: "102", RoomType: model.RoomTypeDouble, PricePerNight: 150, MaxGuests: 2, IsAvailable: true, Amenities: []string{"WiFi", "TV", "Fireplace", "Mountain View"}},
	}

	for _, r := range rooms {
		if err := roomRepo.Create(ctx, r); err != nil {
			return err
		}
	}
	fmt.Println("Created rooms...")

	fmt.Printf("Total Hotels: %d\nTotal Rooms: %d\n", len(hotels), len(rooms))
	return nil
}
