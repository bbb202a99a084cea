package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func Test_Load(t *testing.T) {
	t.Run("default load", func(t *testing.T) {
		// given
		expectedConfig := getDefaultSpendBroadcasterConfig()

		// when
		actualConfig, err := Load()
		require.NoError(t, err, "error loading config")

		// then
		assert.Equal(t, expectedConfig, actualConfig)
	})

	t.Run("partial file override", func(t *testing.T) {
		// given
		expectedConfig := getDefaultSpendBroadcasterConfig()

		// when
		actualConfig, err := Load("./test_files/")
		require.NoError(t, err, "error loading config")

		// then
		// verify not overridden default values
		assert.Equal(t, expectedConfig.Db, actualConfig.Db)
		assert.Equal(t, expectedConfig.PeerRPC.User, actualConfig.PeerRPC.User)
		assert.Equal(t, expectedConfig.Broadcaster.Restart.MaxInterval, actualConfig.Broadcaster.Restart.MaxInterval)
		assert.Equal(t, 10*time.Minute, actualConfig.Broadcaster.Restart.HealthyRunDuration)

		// verify correct override
		assert.Equal(t, "INFO", actualConfig.LogLevel)
		assert.Equal(t, "json", actualConfig.LogFormat)
		assert.Equal(t, "node1", actualConfig.PeerRPC.Host)
		assert.Equal(t, 18333, actualConfig.PeerRPC.Port)
		assert.Equal(t, 5*time.Second, actualConfig.Broadcaster.Interval)
		assert.False(t, actualConfig.Broadcaster.Restart.Enabled)
		require.NotNil(t, actualConfig.Tracing)
		assert.True(t, actualConfig.Tracing.IsEnabled())
		assert.Equal(t, "http://tracing:1234", actualConfig.Tracing.DialAddr)
		assert.Equal(t, []attribute.KeyValue{attribute.String("service", "spend-broadcaster")}, actualConfig.Tracing.KeyValueAttributes)
	})

	t.Run("env override", func(t *testing.T) {
		// given
		t.Setenv("SPEND_BROADCASTER_BROADCASTER_INTERVAL", "2m")
		t.Setenv("SPEND_BROADCASTER_DB_POSTGRES_HOST", "db")

		// when
		actualConfig, err := Load()
		require.NoError(t, err)

		// then
		assert.Equal(t, 2*time.Minute, actualConfig.Broadcaster.Interval)
		assert.Equal(t, "db", actualConfig.Db.Postgres.Host)
	})

	t.Run("invalid interval", func(t *testing.T) {
		// given
		t.Setenv("SPEND_BROADCASTER_BROADCASTER_INTERVAL", "0s")

		// when
		_, err := Load()

		// then
		require.ErrorIs(t, err, ErrConfigInvalid)
	})

	t.Run("path does not exist", func(t *testing.T) {
		// when
		_, err := Load("./does-not-exist/")

		// then
		require.ErrorIs(t, err, ErrConfigPath)
	})
}

func TestDumpConfig(t *testing.T) {
	// given
	dir := t.TempDir()
	sut := getDefaultSpendBroadcasterConfig()
	sut.LogLevel = "WARN"
	sut.Broadcaster.Interval = 90 * time.Second

	// when
	err := sut.DumpConfig(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)

	// then
	_, err = os.Stat(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "WARN", loaded.LogLevel)
	assert.Equal(t, 90*time.Second, loaded.Broadcaster.Interval)
	assert.Equal(t, sut.Db, loaded.Db)
}

func TestDBInfo(t *testing.T) {
	// given
	sut := getDefaultDbConfig()

	// when
	actual := sut.DBInfo()

	// then
	assert.Equal(t, "user=spend_broadcaster password=spend_broadcaster dbname=spend_broadcaster host=localhost port=5432 sslmode=disable", actual)
}
