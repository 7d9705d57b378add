// Package config loads the analysis settings from file, environment and defaults.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultDataFile is the CSV looked up next to the executable when no path is configured.
const DefaultDataFile = "imdb_clean_2000.csv"

// Config holds the full application configuration.
type Config struct {
	Data     DataConfig     `yaml:"data" mapstructure:"data"`
	Features FeaturesConfig `yaml:"features" mapstructure:"features"`
	Report   ReportConfig   `yaml:"report" mapstructure:"report"`
	Split    SplitConfig    `yaml:"split" mapstructure:"split"`
	Model    ModelConfig    `yaml:"model" mapstructure:"model"`
	Plots    PlotsConfig    `yaml:"plots" mapstructure:"plots"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// DataConfig locates the input CSV.
type DataConfig struct {
	Path     string `yaml:"path" mapstructure:"path"`
	FileName string `yaml:"file_name" mapstructure:"file_name"`
}

// FeaturesConfig configures column derivation.
type FeaturesConfig struct {
	RatingThreshold float64 `yaml:"rating_threshold" mapstructure:"rating_threshold"`
}

// ReportConfig configures the descriptive report.
type ReportConfig struct {
	Alpha             float64  `yaml:"alpha" mapstructure:"alpha"`
	NormalityColumns  []string `yaml:"normality_columns" mapstructure:"normality_columns"`
	CorrelationColumn string   `yaml:"correlation_column" mapstructure:"correlation_column"`
	TopGenres         int      `yaml:"top_genres" mapstructure:"top_genres"`
}

// SplitConfig configures the train/test partition.
type SplitConfig struct {
	TestSize float64 `yaml:"test_size" mapstructure:"test_size"`
	Seed     int64   `yaml:"seed" mapstructure:"seed"`
	Stratify bool    `yaml:"stratify" mapstructure:"stratify"`
}

// ModelConfig holds classifier hyperparameters.
type ModelConfig struct {
	Logistic LogisticConfig `yaml:"logistic" mapstructure:"logistic"`
	Forest   ForestConfig   `yaml:"forest" mapstructure:"forest"`
}

// LogisticConfig configures the logistic regression classifier.
type LogisticConfig struct {
	Solver       string  `yaml:"solver" mapstructure:"solver"`
	MaxIter      int     `yaml:"max_iter" mapstructure:"max_iter"`
	C            float64 `yaml:"c" mapstructure:"c"`
	LearningRate float64 `yaml:"learning_rate" mapstructure:"learning_rate"`
	BatchSize    int     `yaml:"batch_size" mapstructure:"batch_size"`
	Seed         int64   `yaml:"seed" mapstructure:"seed"`
}

// ForestConfig configures the random forest classifier.
type ForestConfig struct {
	NEstimators         int     `yaml:"n_estimators" mapstructure:"n_estimators"`
	Seed                int64   `yaml:"seed" mapstructure:"seed"`
	MaxDepth            int     `yaml:"max_depth" mapstructure:"max_depth"`
	MinSamplesSplit     int     `yaml:"min_samples_split" mapstructure:"min_samples_split"`
	MinSamplesLeaf      int     `yaml:"min_samples_leaf" mapstructure:"min_samples_leaf"`
	MaxFeatures         string  `yaml:"max_features" mapstructure:"max_features"`
	Bootstrap           bool    `yaml:"bootstrap" mapstructure:"bootstrap"`
	Criterion           string  `yaml:"criterion" mapstructure:"criterion"`
	MinImpurityDecrease float64 `yaml:"min_impurity_decrease" mapstructure:"min_impurity_decrease"`
}

// PlotsConfig configures chart rendering.
type PlotsConfig struct {
	Enabled  bool    `yaml:"enabled" mapstructure:"enabled"`
	Dir      string  `yaml:"dir" mapstructure:"dir"`
	Bins     int     `yaml:"bins" mapstructure:"bins"`
	WidthIn  float64 `yaml:"width_in" mapstructure:"width_in"`
	HeightIn float64 `yaml:"height_in" mapstructure:"height_in"`
}

// OutputConfig configures report presentation.
type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data.file_name", DefaultDataFile)
	v.SetDefault("features.rating_threshold", 7.0)
	v.SetDefault("report.alpha", 0.05)
	v.SetDefault("report.normality_columns", []string{"averageRating", "runtimeMinutes", "numVotes_log"})
	v.SetDefault("report.correlation_column", "averageRating")
	v.SetDefault("report.top_genres", 10)
	v.SetDefault("split.test_size", 0.2)
	v.SetDefault("split.seed", 42)
	v.SetDefault("split.stratify", true)
	v.SetDefault("model.logistic.solver", "lbfgs")
	v.SetDefault("model.logistic.max_iter", 1000)
	v.SetDefault("model.logistic.c", 1.0)
	v.SetDefault("model.logistic.learning_rate", 0.1)
	v.SetDefault("model.logistic.batch_size", 64)
	v.SetDefault("model.logistic.seed", 42)
	v.SetDefault("model.forest.n_estimators", 200)
	v.SetDefault("model.forest.seed", 42)
	v.SetDefault("model.forest.max_depth", 0)
	v.SetDefault("model.forest.min_samples_split", 2)
	v.SetDefault("model.forest.min_samples_leaf", 1)
	v.SetDefault("model.forest.max_features", "sqrt")
	v.SetDefault("model.forest.bootstrap", true)
	v.SetDefault("model.forest.criterion", "gini")
	v.SetDefault("model.forest.min_impurity_decrease", 0.0)
	v.SetDefault("plots.enabled", true)
	v.SetDefault("plots.dir", "plots")
	v.SetDefault("plots.bins", 20)
	v.SetDefault("plots.width_in", 8.0)
	v.SetDefault("plots.height_in", 5.0)
	v.SetDefault("output.format", "text")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Default returns the built-in configuration without reading files or environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Load reads configuration from file and environment. An empty file path
// searches for filmrating.yaml in the working directory.
func Load(file string) (*Config, error) {
	v := viper.New()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("filmrating")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("FILMRATING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || file != "" {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Split.TestSize <= 0 || c.Split.TestSize >= 1 {
		return eris.Errorf("config: split.test_size must be in (0, 1) (got %v)", c.Split.TestSize)
	}
	if c.Report.Alpha <= 0 || c.Report.Alpha >= 1 {
		return eris.Errorf("config: report.alpha must be in (0, 1) (got %v)", c.Report.Alpha)
	}
	if c.Report.TopGenres <= 0 {
		return eris.Errorf("config: report.top_genres must be positive (got %d)", c.Report.TopGenres)
	}
	switch c.Model.Logistic.Solver {
	case "lbfgs", "sgd":
	default:
		return eris.Errorf("config: model.logistic.solver must be lbfgs or sgd (got %q)", c.Model.Logistic.Solver)
	}
	if c.Model.Logistic.MaxIter <= 0 {
		return eris.Errorf("config: model.logistic.max_iter must be positive (got %d)", c.Model.Logistic.MaxIter)
	}
	if c.Model.Logistic.C <= 0 {
		return eris.Errorf("config: model.logistic.c must be positive (got %v)", c.Model.Logistic.C)
	}
	if c.Model.Forest.NEstimators <= 0 {
		return eris.Errorf("config: model.forest.n_estimators must be positive (got %d)", c.Model.Forest.NEstimators)
	}
	switch c.Model.Forest.MaxFeatures {
	case "sqrt", "log2", "all":
	default:
		return eris.Errorf("config: model.forest.max_features must be sqrt, log2 or all (got %q)", c.Model.Forest.MaxFeatures)
	}
	switch c.Model.Forest.Criterion {
	case "gini", "entropy":
	default:
		return eris.Errorf("config: model.forest.criterion must be gini or entropy (got %q)", c.Model.Forest.Criterion)
	}
	if c.Model.Forest.MinImpurityDecrease < 0 {
		return eris.Errorf("config: model.forest.min_impurity_decrease must not be negative (got %v)", c.Model.Forest.MinImpurityDecrease)
	}
	if c.Plots.Bins <= 0 {
		return eris.Errorf("config: plots.bins must be positive (got %d)", c.Plots.Bins)
	}
	switch c.Output.Format {
	case "text", "yaml":
	default:
		return eris.Errorf("config: output.format must be text or yaml (got %q)", c.Output.Format)
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
