package config

const (
	EnvDotEnvFile = "DOTENV_FILE"

	EnvPort      = "PORT"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"

	EnvStorageBackend    = "STORAGE_BACKEND"
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvKafkaEnabled = "KAFKA_ENABLED"

	EnvRateSinglesBase    = "RATE_SINGLES_BASE"
	EnvRateSinglesPeak    = "RATE_SINGLES_PEAK"
	EnvRateDoublesBase    = "RATE_DOUBLES_BASE"
	EnvRateDoublesPeak    = "RATE_DOUBLES_PEAK"
	EnvEveningStart       = "EVENING_START"
	EnvRejectPastBookings = "REJECT_PAST_BOOKINGS"
	EnvDefaultCourts      = "DEFAULT_COURTS"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"
	EnvCORSOrigins    = "CORS_ALLOWED_ORIGINS"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
