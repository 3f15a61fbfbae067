package syncconfig

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 100, cfg.ResyncDebounceMS)
	assert.Equal(t, 500, cfg.ResyncMaxWaitMS)
	assert.Equal(t, 20, cfg.MaxEditRetries)
	assert.Equal(t, 10000, cfg.ResyncTimerMS)
}

func TestDurationHelpers(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 100*time.Millisecond, cfg.ResyncDebounce())
	assert.Equal(t, 500*time.Millisecond, cfg.ResyncMaxWait())
	assert.Equal(t, 10000*time.Millisecond, cfg.ResyncTimer())
}

func TestLoadWithNoFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().ResyncDebounceMS, cfg.ResyncDebounceMS)
	assert.Equal(t, Default().MaxEditRetries, cfg.MaxEditRetries)
}

func TestLoadWithOverridesTakesPrecedenceOverDefaults(t *testing.T) {
	cfg, err := LoadWithOverrides("", map[string]any{
		"max-edit-retries": 5,
		"resync-timer-ms":  2000,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.MaxEditRetries)
	assert.Equal(t, 2000, cfg.ResyncTimerMS)
	// Untouched fields keep their defaults.
	assert.Equal(t, Default().ResyncDebounceMS, cfg.ResyncDebounceMS)
}
