package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "staybook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Advisory lock expiry for the check-then-insert window. Generous
	// compared to the request timeout so a lock never outlives its request
	// by much, but a crashed holder cannot wedge a room for long.
	DefaultBookingLockTTL = 10 * time.Second

	// Upper bound on a single stay, enforced at validation time.
	DefaultMaxBookingDays = 90

	DefaultBookingEventsEnabled = false
	DefaultBookingEventsTopic   = "staybook.bookings"

	DefaultPaginationLimit = 100
)

// Booking statuses shared by model validation and the availability engine.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Actor roles accepted from the upstream gateway.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
