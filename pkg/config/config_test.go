package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no filmrating.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultDataFile, cfg.Data.FileName)
	assert.Empty(t, cfg.Data.Path)
	assert.InDelta(t, 7.0, cfg.Features.RatingThreshold, 1e-9)
	assert.InDelta(t, 0.05, cfg.Report.Alpha, 1e-9)
	assert.Equal(t, []string{"averageRating", "runtimeMinutes", "numVotes_log"}, cfg.Report.NormalityColumns)
	assert.Equal(t, "averageRating", cfg.Report.CorrelationColumn)
	assert.Equal(t, 10, cfg.Report.TopGenres)
	assert.InDelta(t, 0.2, cfg.Split.TestSize, 1e-9)
	assert.Equal(t, int64(42), cfg.Split.Seed)
	assert.True(t, cfg.Split.Stratify)
	assert.Equal(t, "lbfgs", cfg.Model.Logistic.Solver)
	assert.Equal(t, 1000, cfg.Model.Logistic.MaxIter)
	assert.InDelta(t, 1.0, cfg.Model.Logistic.C, 1e-9)
	assert.Equal(t, 200, cfg.Model.Forest.NEstimators)
	assert.Equal(t, int64(42), cfg.Model.Forest.Seed)
	assert.Equal(t, "sqrt", cfg.Model.Forest.MaxFeatures)
	assert.True(t, cfg.Model.Forest.Bootstrap)
	assert.Equal(t, "gini", cfg.Model.Forest.Criterion)
	assert.Zero(t, cfg.Model.Forest.MinImpurityDecrease)
	assert.True(t, cfg.Plots.Enabled)
	assert.Equal(t, "plots", cfg.Plots.Dir)
	assert.Equal(t, 20, cfg.Plots.Bins)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)

	require.NoError(t, cfg.Validate())
}

func TestDefaultMatchesLoad(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	loaded, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, loaded, Default())
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
data:
  path: /data/films.csv
features:
  rating_threshold: 8.0
split:
  seed: 7
  stratify: false
model:
  forest:
    n_estimators: 25
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "filmrating.yaml"), []byte(yaml), 0644))

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/data/films.csv", cfg.Data.Path)
	assert.InDelta(t, 8.0, cfg.Features.RatingThreshold, 1e-9)
	assert.Equal(t, int64(7), cfg.Split.Seed)
	assert.False(t, cfg.Split.Stratify)
	assert.Equal(t, 25, cfg.Model.Forest.NEstimators)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Defaults still apply for unset values
	assert.Equal(t, 1000, cfg.Model.Logistic.MaxIter)
	assert.InDelta(t, 0.2, cfg.Split.TestSize, 1e-9)
}

func TestLoadExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("report:\n  top_genres: 5\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Report.TopGenres)
}

func TestLoadExplicitFileMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("FILMRATING_SPLIT_TEST_SIZE", "0.3")
	t.Setenv("FILMRATING_MODEL_LOGISTIC_SOLVER", "sgd")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.InDelta(t, 0.3, cfg.Split.TestSize, 1e-9)
	assert.Equal(t, "sgd", cfg.Model.Logistic.Solver)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"test size zero", func(c *Config) { c.Split.TestSize = 0 }, "split.test_size"},
		{"test size one", func(c *Config) { c.Split.TestSize = 1 }, "split.test_size"},
		{"alpha", func(c *Config) { c.Report.Alpha = 1.5 }, "report.alpha"},
		{"top genres", func(c *Config) { c.Report.TopGenres = 0 }, "report.top_genres"},
		{"solver", func(c *Config) { c.Model.Logistic.Solver = "newton" }, "solver"},
		{"max iter", func(c *Config) { c.Model.Logistic.MaxIter = 0 }, "max_iter"},
		{"c", func(c *Config) { c.Model.Logistic.C = -1 }, "model.logistic.c"},
		{"trees", func(c *Config) { c.Model.Forest.NEstimators = 0 }, "n_estimators"},
		{"max features", func(c *Config) { c.Model.Forest.MaxFeatures = "half" }, "max_features"},
		{"criterion", func(c *Config) { c.Model.Forest.Criterion = "mse" }, "criterion"},
		{"entropy", func(c *Config) { c.Model.Forest.Criterion = "entropy" }, ""},
		{"impurity decrease", func(c *Config) { c.Model.Forest.MinImpurityDecrease = -0.1 }, "min_impurity_decrease"},
		{"bins", func(c *Config) { c.Plots.Bins = 0 }, "plots.bins"},
		{"format", func(c *Config) { c.Output.Format = "xml" }, "output.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestInitLogger(t *testing.T) {
	orig := zap.L()
	t.Cleanup(func() { zap.ReplaceGlobals(orig) })

	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "json"}))
	assert.True(t, zap.L().Core().Enabled(zap.DebugLevel))

	require.NoError(t, InitLogger(LogConfig{Level: "warn", Format: "console"}))
	assert.False(t, zap.L().Core().Enabled(zap.InfoLevel))
}

func TestInitLoggerBadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "verbose", Format: "json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse log level")
}
