package model

import "time"

type Booking struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ReferenceCode string    `json:"reference_code,omitempty" bson:"reference_code,omitempty"`
	UserID        string    `json:"user_id" bson:"user_id" validate:"required,min=1,max=100"`
	HotelID       string    `json:"hotel_id" bson:"hotel_id" validate:"required,mongodb"`
	RoomID        string    `json:"room_id" bson:"room_id" validate:"required,mongodb"`
	CheckIn       time.Time `json:"check_in" bson:"check_in" validate:"required"`
	CheckOut      time.Time `json:"check_out" bson:"check_out" validate:"required,gtfield=CheckIn"`
	Nights        int       `json:"nights" bson:"nights" validate:"omitempty,min=1"`
	TotalPrice    float64   `json:"total_price" bson:"total_price" validate:"gte=0"`
	Status        string    `json:"status" bson:"status" validate:"omitempty,oneof=pending confirmed cancelled"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// NightsBetween computes the number of billable nights as the ceiling of
// the duration in whole days: a stay of any fraction of a day rounds up.
func NightsBetween(checkIn, checkOut time.Time) int {
	const dayMillis = 24 * 60 * 60 * 1000

	diff := checkOut.UnixMilli() - checkIn.UnixMilli()
	if diff <= 0 {
		return 0
	}
	return int((diff + dayMillis - 1) / dayMillis)
}

// Overlaps is the half-open interval intersection test: [start1, end1)
// conflicts with [start2, end2) iff start1 < end2 && end1 > start2.
// Back-to-back ranges (end1 == start2) do not overlap.
func Overlaps(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && end1.After(start2)
}
