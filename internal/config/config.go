package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/couchcryptid/lead-line-etl/internal/domain"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	SourceCSVPath string
	ColumnMapPath string
	Columns       domain.ColumnMap

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// BatchSize caps the number of records per Kafka write.
	BatchSize int

	// Kafka publishing of canonical records.
	KafkaEnabled   bool
	KafkaBrokers   []string
	KafkaSinkTopic string

	RankCacheSize int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	columnMapPath := os.Getenv("COLUMN_MAP_PATH")
	columns, err := LoadColumnMap(columnMapPath)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		SourceCSVPath: sharedcfg.EnvOrDefault("SOURCE_CSV_PATH", "data/lead-data.csv"),
		ColumnMapPath: columnMapPath,
		Columns:       columns,

		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		BatchSize:       batchSize,

		KafkaEnabled:   os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:   sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic: sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "water-systems"),

		RankCacheSize: parseRankCacheSize(),
	}

	if cfg.SourceCSVPath == "" {
		return nil, errors.New("SOURCE_CSV_PATH is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_SINK_TOPIC is empty")
	}

	return cfg, nil
}

func parseRankCacheSize() int {
	if s := os.Getenv("RANK_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 256
}
