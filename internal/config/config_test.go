package config_test

import (
	"testing"
	"time"

	"greenbuild/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := config.Load(viper.New())

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 15*time.Second, cfg.StoreTimeout)
	assert.Equal(t, "gorm", cfg.CartBackend)
	assert.Equal(t, "none", cfg.EventsBackend)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Empty(t, cfg.StoreURL)
}

func TestLoad_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("STORE_URL", "http://sheets.internal/api")
	v.Set("STORE_TIMEOUT", "20s")
	v.Set("KAFKA_BROKERS", "k1:9092, k2:9092,")
	v.Set("EVENTS_BACKEND", "Kafka")

	cfg := config.Load(v)

	assert.Equal(t, "http://sheets.internal/api", cfg.StoreURL)
	assert.Equal(t, 20*time.Second, cfg.StoreTimeout)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "kafka", cfg.EventsBackend)
}

func TestLocation_FallsBackToUTC(t *testing.T) {
	cfg := config.Config{ReportTimezone: "Not/AZone"}
	assert.Equal(t, time.UTC, cfg.Location())
}
