package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setCritical(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DATABASE_URL", "test-db-url")
	t.Setenv("BOSS_REGISTRATION_CODE", "boss-code")
}

func unset(t *testing.T, key string) {
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestLoadEnvWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	assert.NoError(t, LoadEnv())
}

func TestLoadEnvReadsFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SHIFTNOTE_TEST_FROM_FILE=from-file\nSHIFTNOTE_TEST_PRESET=from-file\n"), 0o600))
	t.Chdir(dir)
	unset(t, "SHIFTNOTE_TEST_FROM_FILE")
	t.Setenv("SHIFTNOTE_TEST_PRESET", "from-env")
	t.Cleanup(func() { os.Unsetenv("SHIFTNOTE_TEST_FROM_FILE") })

	require.NoError(t, LoadEnv())
	assert.Equal(t, "from-file", os.Getenv("SHIFTNOTE_TEST_FROM_FILE"))
	assert.Equal(t, "from-env", os.Getenv("SHIFTNOTE_TEST_PRESET"))
}

func TestLoadEnvMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BAD-KEY=value\n"), 0o600))
	t.Chdir(dir)

	assert.Error(t, LoadEnv())
}

func TestLoadWithoutJWTSecret(t *testing.T) {
	setCritical(t)
	unset(t, "JWT_SECRET")
	_, err := Load()
	assert.NoError(t, err, "the token secret is checked by ValidateEnv, not Load")
}

func TestValidateEnvAllSet(t *testing.T) {
	setCritical(t)
	assert.NoError(t, ValidateEnv())
}

func TestValidateEnvMissingJWTSecret(t *testing.T) {
	setCritical(t)
	os.Unsetenv("JWT_SECRET")
	assert.Error(t, ValidateEnv())
}

func TestValidateEnvMissingBossCode(t *testing.T) {
	setCritical(t)
	os.Unsetenv("BOSS_REGISTRATION_CODE")
	err := ValidateEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BOSS_REGISTRATION_CODE")
}

func TestLoadDefaults(t *testing.T) {
	setCritical(t)
	unset(t, "PORT")
	unset(t, "DEFAULT_HOURLY_WAGE")
	unset(t, "ADMIN_NAME")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, 9860, c.DefaultHourlyWage)
	assert.Equal(t, "boss-code", c.BossRegistrationCode)
	assert.Equal(t, "admin", c.AdminName)
}

func TestLoadMissingRequired(t *testing.T) {
	setCritical(t)
	os.Unsetenv("DATABASE_URL")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsNonPositiveWage(t *testing.T) {
	setCritical(t)
	t.Setenv("DEFAULT_HOURLY_WAGE", "0")
	_, err := Load()
	assert.Error(t, err)
}

func TestGetEnvExisting(t *testing.T) {
	t.Setenv("TEST_GET_ENV_KEY", "test-value")
	assert.Equal(t, "test-value", GetEnv("TEST_GET_ENV_KEY", "default"))
}

func TestGetEnvMissing(t *testing.T) {
	os.Unsetenv("TEST_GET_ENV_MISSING")
	assert.Equal(t, "fallback", GetEnv("TEST_GET_ENV_MISSING", "fallback"))
}
