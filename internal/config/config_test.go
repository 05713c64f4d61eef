package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetConfigDefaults(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	cfg := GetConfig()
	assert.Equal(t, "qahwatapp", cfg.AppName)
	assert.Equal(t, "5001", cfg.AppPort)
	assert.Equal(t, Development, cfg.Environment)
	assert.Equal(t, SQLiteDatabase, cfg.DatabaseType)
	assert.Equal(t, 90, cfg.EventsRetentionDays)
	assert.Equal(t, 365, cfg.RollupsRetentionDays)
	assert.Equal(t, "storage/GeoLite2-Country.mmdb", cfg.GeoDBPath)
}

func TestGetConfigEnvOverrides(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	t.Setenv("QAHWAT_ENV", Test)
	t.Setenv("QAHWAT_APP_PORT", "9999")
	t.Setenv("QAHWAT_EVENTS_RETENTION_DAYS", "30")

	cfg := GetConfig()
	assert.Equal(t, Test, cfg.Environment)
	assert.True(t, cfg.IsTest())
	assert.Equal(t, "9999", cfg.AppPort)
	assert.Equal(t, 30, cfg.EventsRetentionDays)
}

func TestGetDatabasePathDerivation(t *testing.T) {
	cfg := &Config{AppName: "qahwatapp", Environment: Test, DatabasePath: "storage"}
	assert.Equal(t, "storage/qahwatapp-test.db", cfg.GetDatabasePath())
}

func TestConnectionLimitsByEnvironment(t *testing.T) {
	testCfg := &Config{Environment: Test}
	assert.Equal(t, 1, testCfg.GetMaxOpenConns())
	assert.Equal(t, 1, testCfg.GetMaxIdleConns())

	prodCfg := &Config{Environment: Production}
	assert.Equal(t, 10, prodCfg.GetMaxOpenConns())
	assert.Equal(t, 5, prodCfg.GetMaxIdleConns())

	explicit := &Config{Environment: Test, DatabaseMaxOpenConns: 7, DatabaseMaxIdleConns: 3}
	assert.Equal(t, 7, explicit.GetMaxOpenConns())
	assert.Equal(t, 3, explicit.GetMaxIdleConns())
}

func TestValidate(t *testing.T) {
	valid := &Config{Environment: Test, DatabaseType: SQLiteDatabase, EventsRetentionDays: 90, RollupsRetentionDays: 365}
	assert.NoError(t, valid.validate())

	badEnv := &Config{Environment: "staging", DatabaseType: SQLiteDatabase, EventsRetentionDays: 90, RollupsRetentionDays: 365}
	assert.Error(t, badEnv.validate())

	badRetention := &Config{Environment: Test, DatabaseType: SQLiteDatabase, EventsRetentionDays: 0, RollupsRetentionDays: 365}
	assert.Error(t, badRetention.validate())
}
