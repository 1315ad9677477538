package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mauv0809/crease/internal/cricket"
	"github.com/mauv0809/crease/internal/rating"
	"github.com/mauv0809/crease/internal/selection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		for _, key := range []string{"DB_NAME", "PORT", "LOG_LEVEL", "WEIGHTS_PATH", "SLACK_BOT_TOKEN", "SLACK_CHANNEL_ID"} {
			t.Setenv(key, "")
		}
		cfg := Load()
		assert.Equal(t, "data/crease.db", cfg.DBName)
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.False(t, cfg.Slack.Enabled())
	})

	t.Run("from environment", func(t *testing.T) {
		t.Setenv("DB_NAME", "/tmp/scores.db")
		t.Setenv("PORT", "9090")
		t.Setenv("SLACK_BOT_TOKEN", "xoxb-test")
		t.Setenv("SLACK_CHANNEL_ID", "C123")
		t.Setenv("TURSO_PRIMARY_URL", "libsql://crease.turso.io")
		t.Setenv("GCP_PROJECT", "crease-dev")

		cfg := Load()
		assert.Equal(t, "/tmp/scores.db", cfg.DBName)
		assert.Equal(t, "9090", cfg.Port)
		assert.True(t, cfg.Slack.Enabled())
		assert.Equal(t, "libsql://crease.turso.io", cfg.Turso.PrimaryURL)
		assert.Equal(t, "crease-dev", cfg.ProjectID)
	})
}

func TestDefaultSelection(t *testing.T) {
	cfg := DefaultSelection()
	assert.Equal(t, rating.DefaultWeights(), cfg.Weights())

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, 11, opts.Quotas.Total())
	assert.Equal(t, 3, opts.Quotas[cricket.RoleBowler])
	assert.Equal(t, 20.0, opts.ShrinkageK)
	assert.False(t, opts.FilterByThreshold)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "weights.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadSelection(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		cfg, err := LoadSelection("")
		require.NoError(t, err)
		assert.Equal(t, DefaultSelection(), cfg)
	})

	t.Run("merges over defaults", func(t *testing.T) {
		path := writeConfig(t, `{
			"batter_batting_weight": 0.9,
			"emerging_slots": 0,
			"desired_rating_filter_enabled": true,
			"team_structure": {"Batter": 2, "Bowler": 1}
		}`)

		cfg, err := LoadSelection(path)
		require.NoError(t, err)
		assert.Equal(t, 0.9, cfg.Weights()[cricket.RoleBatter].Batting)
		assert.Equal(t, 0.10, cfg.Weights()[cricket.RoleBatter].Bowling, "untouched keys keep their default")

		opts, err := cfg.Options()
		require.NoError(t, err)
		assert.Equal(t, selection.Quotas{cricket.RoleBatter: 2, cricket.RoleBowler: 1}, opts.Quotas, "the structure is replaced, not merged")
		assert.Equal(t, 0, opts.EmergingSlots)
		assert.Equal(t, 12, opts.EmergingMaxInnings)
		assert.True(t, opts.FilterByThreshold)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadSelection(filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := LoadSelection(writeConfig(t, `{"captain_weight": 1}`))
		assert.Error(t, err)
	})

	t.Run("structure errors surface from Options", func(t *testing.T) {
		cfg, err := LoadSelection(writeConfig(t, `{"team_structure": [4, 1]}`))
		require.NoError(t, err)
		_, err = cfg.Options()
		assert.ErrorIs(t, err, selection.ErrInvalidStructure)

		cfg, err = LoadSelection(writeConfig(t, `{"team_structure": {"Batter": 0}}`))
		require.NoError(t, err)
		_, err = cfg.Options()
		assert.ErrorIs(t, err, selection.ErrNoPositiveQuota)
	})

	t.Run("negative shrinkage", func(t *testing.T) {
		cfg, err := LoadSelection(writeConfig(t, `{"selection_shrinkage_k": -5}`))
		require.NoError(t, err)
		_, err = cfg.Options()
		assert.ErrorIs(t, err, ErrNegativeShrinkage)

		cfg.ShrinkageK = 0
		opts, err := cfg.Options()
		require.NoError(t, err, "zero k trusts every rating fully")
		assert.Equal(t, 0.0, opts.ShrinkageK)
	})
}
