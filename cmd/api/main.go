package main

import (
	"context"
	"time"

	"staybook/internal/bookings/events"
	bookingshandler "staybook/internal/bookings/handler"
	bookingsrepo "staybook/internal/bookings/repository"
	bookingsservice "staybook/internal/bookings/service"
	bookingsvalidator "staybook/internal/bookings/validator"
	hotelshandler "staybook/internal/hotels/handler"
	hotelsrepo "staybook/internal/hotels/repository"
	hotelsservice "staybook/internal/hotels/service"
	hotelsvalidator "staybook/internal/hotels/validator"
	roomshandler "staybook/internal/rooms/handler"
	roomsrepo "staybook/internal/rooms/repository"
	roomsservice "staybook/internal/rooms/service"
	roomsvalidator "staybook/internal/rooms/validator"
	"staybook/pkg/app"
	"staybook/pkg/config"
	"staybook/pkg/contracts"
	"staybook/pkg/kafka"
	kafka_config "staybook/pkg/kafka/config"
	"staybook/pkg/model"
)

const ServiceName = "staybook-api"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}

	cfg.LogConfiguration()
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Staybook API")
	handlers := initServices(cfg)
	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handlers...)
	serverApp.Run()
}

func initServices(cfg *config.Config) []contracts.Handler {
	hotelValidator := hotelsvalidator.NewHotelValidator(cfg.Log)
	roomValidator := roomsvalidator.NewRoomValidator(cfg.Log)
	bookingValidator := bookingsvalidator.NewBookingValidator(cfg.Log, cfg.MaxBookingDays)

	hotelRepo := hotelsrepo.NewMongoHotelRepository(cfg)
	roomRepo := roomsrepo.NewMongoRoomRepository(cfg)
	bookingRepo := bookingsrepo.NewMongoBookingRepository(cfg)
	lockRepo := bookingsrepo.NewMongoBookingLockRepository(cfg)

	publisher := events.NewPublisher(initProducer(cfg), cfg.Log)

	// Hotel search and cascade delete reach into rooms and bookings, and
	// booking creation resolves rooms; wiring goes through the narrow
	// interfaces each service declares.
	hotelSvcStub := &hotelFinderStub{}
	bookingSvcStub := &bookedRoomsStub{}
	roomService := roomsservice.NewRoomService(roomRepo, hotelSvcStub, bookingSvcStub, roomValidator, cfg)
	bookingService := bookingsservice.NewBookingService(
		bookingRepo,
		lockRepo,
		roomService,
		bookingValidator,
		publisher,
		cfg,
	)
	hotelService := hotelsservice.NewHotelService(hotelRepo, roomService, bookingService, hotelValidator, cfg)
	hotelSvcStub.svc = hotelService
	bookingSvcStub.svc = bookingService

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)

	return []contracts.Handler{
		hotelshandler.NewHotelHandler(hotelService, cfg.Log),
		roomshandler.NewRoomHandler(roomService, cfg.Log),
		bookingshandler.NewBookingHandler(bookingService, cfg.Log),
	}
}

// hotelFinderStub breaks the construction cycle between rooms and hotels:
// the room service needs hotel lookups, the hotel service needs the room
// catalog. The stub is filled in once the hotel service exists.
type hotelFinderStub struct {
	svc hotelsservice.HotelService
}

func (s *hotelFinderStub) FindByID(ctx context.Context, id string) (*model.Hotel, error) {
	return s.svc.FindByID(ctx, id)
}

// bookedRoomsStub does the same for rooms and bookings: the room service
// subtracts booked rooms from date-filtered listings, the booking service
// resolves rooms on create. Filled in once the booking service exists.
type bookedRoomsStub struct {
	svc bookingsservice.BookingService
}

func (s *bookedRoomsStub) BookedRoomIDs(ctx context.Context, checkIn, checkOut time.Time, roomIDs []string) ([]string, error) {
	return s.svc.BookedRoomIDs(ctx, checkIn, checkOut, roomIDs)
}

func initProducer(cfg *config.Config) *kafka.Producer {
	if !cfg.BookingEventsEnabled {
		cfg.Log.Info("Booking events disabled")
		return nil
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}

	producer, err := kafka.NewProducer(kafkaCfg, cfg.BookingEventsTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	cfg.Log.Info("Booking events enabled", "topic", cfg.BookingEventsTopic)
	return producer
}
