package model

import "time"

// BookingLock is an advisory lock serializing booking creation per room.
// A lock is a unique _id insert into the Booking_locks collection; a TTL
// index on expires_at reclaims locks abandoned by crashed requests.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	RoomID    string    `bson:"room_id" json:"room_id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
