package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/couchcryptid/lead-line-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/lead-data.csv", cfg.SourceCSVPath)
	assert.Empty(t, cfg.ColumnMapPath)
	assert.Equal(t, domain.DefaultColumns(), cfg.Columns)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "water-systems", cfg.KafkaSinkTopic)
	assert.Equal(t, 256, cfg.RankCacheSize)
}

func TestLoad_CustomEnv(t *testing.T) {
	path := writeColumnMap(t, "id: System ID\n")

	t.Setenv("SOURCE_CSV_PATH", "/srv/data/lsl.csv")
	t.Setenv("COLUMN_MAP_PATH", path)
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("BATCH_SIZE", "100")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SINK_TOPIC", "lsl-records")
	t.Setenv("RANK_CACHE_SIZE", "32")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/data/lsl.csv", cfg.SourceCSVPath)
	assert.Equal(t, path, cfg.ColumnMapPath)
	assert.Equal(t, "System ID", cfg.Columns.ID)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "lsl-records", cfg.KafkaSinkTopic)
	assert.Equal(t, 32, cfg.RankCacheSize)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidBatchSize(t *testing.T) {
	t.Setenv("BATCH_SIZE", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_SIZE")
}

func TestLoad_MissingColumnMapFile(t *testing.T) {
	t.Setenv("COLUMN_MAP_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COLUMN_MAP_PATH")
}

func TestLoad_InvalidRankCacheSizeUsesDefault(t *testing.T) {
	t.Setenv("RANK_CACHE_SIZE", "-4")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 256, cfg.RankCacheSize)
}

func TestParseColumnMap_Overlay(t *testing.T) {
	cols, err := ParseColumnMap([]byte("name: Water System\nlead_lines: Known Lead\n"))
	require.NoError(t, err)

	assert.Equal(t, "PWSID", cols.ID)
	assert.Equal(t, "Water System", cols.Name)
	assert.Equal(t, "Known Lead", cols.LeadLines)
	assert.Equal(t, domain.DefaultColumns().ReplacedByYear, cols.ReplacedByYear)
}

func TestParseColumnMap_ReplacesYears(t *testing.T) {
	cols, err := ParseColumnMap([]byte("replaced_by_year:\n  2024: FY24\n  2025: FY25\n"))
	require.NoError(t, err)
	assert.Equal(t, map[int]string{2024: "FY24", 2025: "FY25"}, cols.ReplacedByYear)
}

func TestParseColumnMap_Empty(t *testing.T) {
	cols, err := ParseColumnMap(nil)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultColumns(), cols)
}

func TestParseColumnMap_UnknownKey(t *testing.T) {
	_, err := ParseColumnMap([]byte("lead_line: Lead\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse column map")
}

func TestParseColumnMap_EmptyID(t *testing.T) {
	_, err := ParseColumnMap([]byte("id: \"\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "id column")
}

func writeColumnMap(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "columns.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
