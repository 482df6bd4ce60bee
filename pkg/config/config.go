package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"courtbook/pkg/client"
	"courtbook/pkg/logger"
	"courtbook/pkg/model"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	LogLevel  string
	LogFormat string

	StorageBackend    string
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	KafkaEnabled bool

	RateSinglesBase    float64
	RateSinglesPeak    float64
	RateDoublesBase    float64
	RateDoublesPeak    float64
	EveningStart       string
	RejectPastBookings bool
	DefaultCourts      []model.Court

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int
	CORSOrigins    []string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Log    *logger.Logger
	Client *client.Client

	parseErrors []string
}

func Load(serviceName string) *Config {
	cfg := load(serviceName)

	err := cfg.Validate()
	if err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func load(serviceName string) *Config {
	dotEnvErr := loadDotEnv(getEnvStr(EnvDotEnvFile, DefaultDotEnvFile))

	cfg := &Config{
		Port:      getEnvStr(EnvPort, DefaultPort),
		LogLevel:  getEnvStr(EnvLogLevel, DefaultLogLevel),
		LogFormat: getEnvStr(EnvLogFormat, DefaultLogFormat),

		StorageBackend:    strings.ToLower(getEnvStr(EnvStorageBackend, DefaultStorageBackend)),
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		KafkaEnabled: getEnvBool(EnvKafkaEnabled, DefaultKafkaEnabled),

		RateSinglesBase:    getEnvFloat(EnvRateSinglesBase, DefaultRateSinglesBase),
		RateSinglesPeak:    getEnvFloat(EnvRateSinglesPeak, DefaultRateSinglesPeak),
		RateDoublesBase:    getEnvFloat(EnvRateDoublesBase, DefaultRateDoublesBase),
		RateDoublesPeak:    getEnvFloat(EnvRateDoublesPeak, DefaultRateDoublesPeak),
		EveningStart:       getEnvStr(EnvEveningStart, DefaultEveningStart),
		RejectPastBookings: getEnvBool(EnvRejectPastBookings, DefaultRejectPastBookings),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),
		CORSOrigins:    splitList(getEnvStr(EnvCORSOrigins, DefaultCORSOrigins)),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Client: client.NewClient(),
	}

	courts, errs := ParseCourtSeeds(getEnvStr(EnvDefaultCourts, DefaultDefaultCourts))
	cfg.DefaultCourts = courts
	cfg.parseErrors = errs
	if dotEnvErr != nil {
		cfg.parseErrors = append(cfg.parseErrors, dotEnvErr.Error())
	}

	cfg.Log = logger.New(logger.Config{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		AddSource: true,
		Service:   serviceName,
	})
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) MongoEnabled() bool {
	return cfg.StorageBackend == StorageMongo
}

func (cfg *Config) Validate() error {
	errors := append([]string{}, cfg.parseErrors...)

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	switch cfg.StorageBackend {
	case StorageMemory:
	case StorageMongo:
		if cfg.MongoURI == "" {
			errors = append(errors, "MongoURI cannot be empty")
		} else if len(cfg.MongoURI) < 10 || !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
			errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
		}
		if cfg.MongoDatabaseName == "" {
			errors = append(errors, "MongoDatabaseName cannot be empty")
		}
		if cfg.MongoConnTimeout <= 0 {
			errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
		}
	default:
		errors = append(errors, fmt.Sprintf("StorageBackend must be one of [memory, mongo], got: %s", cfg.StorageBackend))
	}

	if _, err := model.ParseClock(cfg.EveningStart); err != nil {
		errors = append(errors, fmt.Sprintf("EveningStart must be in HH:MM format (00:00-23:59), got: %s", cfg.EveningStart))
	}

	rates := []struct {
		name  string
		value float64
	}{
		{"RateSinglesBase", cfg.RateSinglesBase},
		{"RateSinglesPeak", cfg.RateSinglesPeak},
		{"RateDoublesBase", cfg.RateDoublesBase},
		{"RateDoublesPeak", cfg.RateDoublesPeak},
	}
	for _, r := range rates {
		if r.value <= 0 {
			errors = append(errors, fmt.Sprintf("%s must be positive, got: %g", r.name, r.value))
		}
	}
	if cfg.RateSinglesPeak < cfg.RateSinglesBase {
		errors = append(errors, fmt.Sprintf("RateSinglesPeak (%g) must be >= RateSinglesBase (%g)", cfg.RateSinglesPeak, cfg.RateSinglesBase))
	}
	if cfg.RateDoublesPeak < cfg.RateDoublesBase {
		errors = append(errors, fmt.Sprintf("RateDoublesPeak (%g) must be >= RateDoublesBase (%g)", cfg.RateDoublesPeak, cfg.RateDoublesBase))
	}

	if cfg.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}
	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	courtIDs := make([]string, 0, len(cfg.DefaultCourts))
	for _, c := range cfg.DefaultCourts {
		courtIDs = append(courtIDs, c.ID)
	}

	cfg.Log.Info("Configuration loaded successfully",
		"port", cfg.Port,
		"log_level", cfg.LogLevel,
		"storage_backend", cfg.StorageBackend,
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"kafka_enabled", cfg.KafkaEnabled,
		"rate_singles_base", cfg.RateSinglesBase,
		"rate_singles_peak", cfg.RateSinglesPeak,
		"rate_doubles_base", cfg.RateDoublesBase,
		"rate_doubles_peak", cfg.RateDoublesPeak,
		"evening_start", cfg.EveningStart,
		"reject_past_bookings", cfg.RejectPastBookings,
		"default_courts", courtIDs,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"cors_origins", cfg.CORSOrigins,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)
}

// ParseCourtSeeds parses "C1:singles,C2:doubles". Every court starts available.
func ParseCourtSeeds(raw string) ([]model.Court, []string) {
	var courts []model.Court
	var errs []string
	seen := map[string]bool{}

	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		id, category, ok := strings.Cut(entry, ":")
		id = strings.TrimSpace(id)
		cat := model.CourtCategory(strings.ToLower(strings.TrimSpace(category)))
		if !ok || id == "" || !cat.Valid() {
			errs = append(errs, fmt.Sprintf("DefaultCourts entry must look like ID:singles or ID:doubles, got: %s", entry))
			continue
		}
		if seen[id] {
			errs = append(errs, fmt.Sprintf("DefaultCourts contains duplicate court ID: %s", id))
			continue
		}
		seen[id] = true
		courts = append(courts, model.Court{ID: id, Category: cat, Status: model.CourtAvailable})
	}
	return courts, errs
}

// loadDotEnv fills unset variables from an optional env file. Variables
// already present in the environment win.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

func splitList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log)
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
