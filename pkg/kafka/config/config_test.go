package kafka_config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, "")
	t.Setenv(EnvKafkaBookingsTopic, "")

	cfg := Load()
	if len(cfg.Brokers) != 1 || cfg.Brokers[0] != DefaultKafkaBrokers {
		t.Errorf("unexpected brokers %v", cfg.Brokers)
	}
	if cfg.BookingsTopic != DefaultBookingsTopic {
		t.Errorf("unexpected topic %q", cfg.BookingsTopic)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, " k1:9092, ,k2:9092 ")
	t.Setenv(EnvKafkaDLQTopic, "court-bookings-dlq")
	t.Setenv(EnvKafkaProducerBatchTimeout, "50ms")

	cfg := Load()
	if len(cfg.Brokers) != 2 || cfg.Brokers[1] != "k2:9092" {
		t.Errorf("unexpected brokers %v", cfg.Brokers)
	}
	if cfg.DLQTopic != "court-bookings-dlq" {
		t.Errorf("unexpected dlq topic %q", cfg.DLQTopic)
	}
	if cfg.ProducerBatchTimeout != 50*time.Millisecond {
		t.Errorf("unexpected batch timeout %s", cfg.ProducerBatchTimeout)
	}
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := &Config{
		BookingsTopic:       "t",
		DLQTopic:            "t",
		ProducerCompression: "brotli",
		ProducerRequireAcks: 2,
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"broker", "DLQ topic", "ProducerMaxAttempts", "ProducerBatchTimeout", "ProducerCompression", "ProducerRequireAcks"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error does not mention %q: %v", want, err)
		}
	}
}
