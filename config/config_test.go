package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/clover/pkg/matching"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, "clover-resolver", cfg.AppName)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.PrettyLogs)
	assert.Equal(t, 4, cfg.WorkerCount)
	assert.Equal(t, 0, cfg.BlockCount)
	assert.Equal(t, "none", cfg.BlockingStrategy)

	assert.Equal(t, matching.DefaultConfig(), cfg.Matching())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MATCH_WEIGHT_NAME", "0.5")
	t.Setenv("WORKER_COUNT", "8")
	t.Setenv("BLOCKING_STRATEGY", "name_initial")

	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)

	m := cfg.Matching()
	assert.Equal(t, 0.5, m.Weights.Name)
	assert.Equal(t, 8, m.WorkerCount)
	assert.Equal(t, matching.BlockingNameInitial, m.Blocking)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clover.yaml")
	require.NoError(t, os.WriteFile(path, []byte("confidence_high_threshold: 0.95\nname_prefilter_threshold: 0.7\n"), 0o600))

	t.Setenv("NAME_PREFILTER_THRESHOLD", "0.5")

	cfg, err := Load(LoadOptions{ConfigFile: path})
	require.NoError(t, err)

	assert.Equal(t, 0.95, cfg.ConfidenceHighThreshold)
	assert.Equal(t, 0.5, cfg.NamePrefilterThreshold, "environment wins over the file")
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := Load(LoadOptions{ConfigFile: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PROGRESS_LOG_EVERY=250\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("PROGRESS_LOG_EVERY") })

	cfg, err := Load(LoadOptions{EnvFile: path})
	require.NoError(t, err)
	assert.Equal(t, 250, cfg.ProgressLogEvery)

	_, err = Load(LoadOptions{EnvFile: filepath.Join(t.TempDir(), "missing.env")})
	assert.NoError(t, err, "a missing env file is ignored")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		env    map[string]string
		errTag string
	}{
		{"weight above one", map[string]string{"MATCH_WEIGHT_PHONE": "1.5"}, "lte"},
		{"high below medium", map[string]string{"CONFIDENCE_HIGH_THRESHOLD": "0.5"}, "gtefield"},
		{"unknown blocking", map[string]string{"BLOCKING_STRATEGY": "soundex"}, "oneof"},
		{"zero workers", map[string]string{"WORKER_COUNT": "0"}, "gte"},
		{"unknown log level", map[string]string{"LOG_LEVEL": "verbose"}, "oneof"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(LoadOptions{})
			require.Error(t, err)

			var verrs validator.ValidationErrors
			require.True(t, errors.As(err, &verrs))
			assert.Equal(t, tt.errTag, verrs[0].Tag())
		})
	}
}
