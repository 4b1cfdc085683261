package model

import "time"

const (
	RoomTypeSingle = "single"
	RoomTypeDouble = "double"
	RoomTypeSuite  = "suite"
)

// Room is read-only from the booking engine's perspective: bookings consult
// its hotel association, availability flag and nightly price, nothing more.
type Room struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	HotelID       string    `json:"hotel_id" bson:"hotel_id" validate:"required,mongodb"`
	RoomNumber    string    `json:"room_number" bson:"room_number" validate:"required,min=1,max=20"`
	RoomType      string    `json:"room_type" bson:"room_type" validate:"required,oneof=single double suite"`
	PricePerNight float64   `json:"price_per_night" bson:"price_per_night" validate:"gte=0"`
	MaxGuests     int       `json:"max_guests" bson:"max_guests" validate:"required,min=1"`
	IsAvailable   bool      `json:"is_available" bson:"is_available"`
	Amenities     []string  `json:"amenities" bson:"amenities" validate:"omitempty,dive,min=1,max=50"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type RoomUpdate struct {
	RoomNumber    string    `json:"room_number,omitempty" validate:"omitempty,min=1,max=20"`
	RoomType      string    `json:"room_type,omitempty" validate:"omitempty,oneof=single double suite"`
	PricePerNight *float64  `json:"price_per_night,omitempty" validate:"omitempty,gte=0"`
	MaxGuests     *int      `json:"max_guests,omitempty" validate:"omitempty,min=1"`
	IsAvailable   *bool     `json:"is_available,omitempty"`
	Amenities     *[]string `json:"amenities,omitempty" validate:"omitempty,dive,min=1,max=50"`
}
