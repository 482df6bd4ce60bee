package config

import "time"

const (
	StorageMemory = "memory"
	StorageMongo  = "mongo"
)

const (
	DefaultDotEnvFile = ".env"

	DefaultPort      = "8080"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultStorageBackend    = StorageMemory
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "courtbook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultKafkaEnabled = false

	// Hourly rates per category and tier.
	DefaultRateSinglesBase = 10.0
	DefaultRateSinglesPeak = 15.0
	DefaultRateDoublesBase = 15.0
	DefaultRateDoublesPeak = 20.0

	DefaultEveningStart       = "18:00"
	DefaultRejectPastBookings = true
	DefaultDefaultCourts      = "C1:singles,C2:singles,C3:doubles,C4:doubles"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB
	DefaultCORSOrigins    = ""

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100
)
