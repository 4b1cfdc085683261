package model

import "time"

type Hotel struct {
	ID             string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name           string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	City           string    `json:"city" bson:"city" validate:"required,min=2,max=100"`
	Address        string    `json:"address" bson:"address" validate:"required,min=2,max=200"`
	Description    string    `json:"description" bson:"description" validate:"required,min=2,max=2000"`
	PricePerNight  float64   `json:"price_per_night" bson:"price_per_night" validate:"gte=0"`
	Rating         float64   `json:"rating" bson:"rating" validate:"gte=0,lte=5"`
	Images         []string  `json:"images" bson:"images" validate:"omitempty,dive,url"`
	Amenities      []string  `json:"amenities" bson:"amenities" validate:"omitempty,dive,min=1,max=50"`
	TotalRooms     int       `json:"total_rooms" bson:"total_rooms" validate:"required,min=1"`
	AvailableRooms int       `json:"available_rooms" bson:"available_rooms" validate:"gte=0"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// HotelUpdate carries a partial update; nil/zero fields are left untouched.
type HotelUpdate struct {
	Name           string    `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	City           string    `json:"city,omitempty" validate:"omitempty,min=2,max=100"`
	Address        string    `json:"address,omitempty" validate:"omitempty,min=2,max=200"`
	Description    string    `json:"description,omitempty" validate:"omitempty,min=2,max=2000"`
	PricePerNight  *float64  `json:"price_per_night,omitempty" validate:"omitempty,gte=0"`
	Rating         *float64  `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	Images         *[]string `json:"images,omitempty" validate:"omitempty,dive,url"`
	Amenities      *[]string `json:"amenities,omitempty" validate:"omitempty,dive,min=1,max=50"`
	TotalRooms     *int      `json:"total_rooms,omitempty" validate:"omitempty,min=1"`
	AvailableRooms *int      `json:"available_rooms,omitempty" validate:"omitempty,gte=0"`
}

// HotelFilter narrows a hotel listing. A non-nil CheckIn/CheckOut pair
// restricts results to hotels with at least one bookable room in the range.
type HotelFilter struct {
	City      string
	MinPrice  *float64
	MaxPrice  *float64
	MinRating *float64
	CheckIn   *time.Time
	CheckOut  *time.Time
}
