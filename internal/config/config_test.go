package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_STR", "value")
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_FLOAT", "0.5")
	t.Setenv("TEST_BAD_FLOAT", "abc")
	t.Setenv("TEST_DURATION", "250ms")

	assert.Equal(t, "value", GetEnv("TEST_STR", "default"))
	assert.Equal(t, "default", GetEnv("TEST_MISSING", "default"))
	assert.Equal(t, 42, GetIntEnv("TEST_INT", 1))
	assert.Equal(t, 0.5, GetFloatEnv("TEST_FLOAT", 1))
	assert.Equal(t, 1.0, GetFloatEnv("TEST_BAD_FLOAT", 1))
	assert.Equal(t, 250*time.Millisecond, GetDurationEnv("TEST_DURATION", time.Second))
}

func TestLoadEngine(t *testing.T) {
	t.Setenv("REWARD_VALUE_POINTS", "0.5")
	t.Setenv("RANKING_TIMEOUT", "1s")

	cfg := LoadEngine()
	assert.Equal(t, 0.5, cfg.PointsValue)
	assert.Equal(t, 1.0, cfg.MilesValue)
	assert.Equal(t, 1.0, cfg.CashbackValue)
	assert.Equal(t, time.Second, cfg.RankingTimeout)
	assert.Empty(t, cfg.RankingURL)
}
