package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestParseEnvDefaults(t *testing.T) {
	unsetEnv(t, "SREMIT_SEED", "SREMIT_THREADS", "SREMIT_CACHE", "SREMIT_VERBOSE")
	settings, err := ParseEnv()
	require.NoError(t, err)
	assert.Equal(t, uint64(1234), settings.Seed)
	assert.Equal(t, 4, settings.Threads)
	assert.Equal(t, "sremit-cache.db", settings.Cache)
	assert.False(t, settings.Verbose)
}

func TestParseEnvOverrides(t *testing.T) {
	t.Setenv("SREMIT_SEED", "99")
	t.Setenv("SREMIT_THREADS", "2")
	unsetEnv(t, "SREMIT_CACHE")
	t.Setenv("SREMIT_VERBOSE", "true")
	settings, err := ParseEnv()
	require.NoError(t, err)
	assert.Equal(t, uint64(99), settings.Seed)
	assert.Equal(t, 2, settings.Threads)
	assert.True(t, settings.Verbose)
}

func TestParseEnvRejects(t *testing.T) {
	t.Setenv("SREMIT_THREADS", "0")
	_, err := ParseEnv()
	assert.ErrorIs(t, err, ErrInvalidParameter)

	t.Setenv("SREMIT_THREADS", "four")
	_, err = ParseEnv()
	assert.Error(t, err)
}
