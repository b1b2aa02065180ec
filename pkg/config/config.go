// Package config provides configuration management for anu.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Data: dir
//   - Fetch: source, swissmodel_url, rcsb_url, zenodo_url, timeout, retries,
//     save_every
//   - Build: max_len
//   - Train: epochs, batch_size, learning_rate, seed
//   - Database: host, port, user, password, database, ssl_mode, batch_size
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - Datasets, Build.FinalizeOnly (per-command)
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use ANU_ prefix with underscores for nesting:
//
//	ANU_DATA_DIR=/data/anu
//	ANU_FETCH_SOURCE=rcsb
//	ANU_BUILD_MAX_LEN=4000
//	ANU_LOG_LEVEL=info
//	ANU_JOBS_NUMBER=8
package config

import (
	"runtime"
)

// Config represents the complete anu configuration.
type Config struct {
	// Data determines where downloaded and generated data is kept.
	Data DataConfig `mapstructure:"data" yaml:"data"`

	// Fetch contains settings for remote downloads of structures.
	Fetch FetchConfig `mapstructure:"fetch" yaml:"fetch"`

	// Build contains settings for conversion of structures to matrices.
	Build BuildConfig `mapstructure:"build" yaml:"build"`

	// Train contains settings of the training loop.
	Train TrainConfig `mapstructure:"train" yaml:"train"`

	// Database contains PostgreSQL connection settings used by export.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent workers for parallel operations.
	// Default value is set accoring to the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// Datasets limits a command to the given dataset names.
	// Empty slice means all datasets from datasets.yaml.
	Datasets []string `mapstructure:"-" yaml:"-"`

	// HomeDir determines where config, cache and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// DataConfig contains the location of the data directory.
type DataConfig struct {
	// Dir is the root of raw and processed data. If empty, data is kept in
	// ~/.local/share/anu/data.
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// FetchConfig contains settings for downloading structure files and
// databases of interacting proteins.
type FetchConfig struct {
	// Source of structure files. Valid values: "swissmodel" (UniProt IDs),
	// "rcsb" (PDB IDs).
	Source string `mapstructure:"source" yaml:"source"`

	// SwissModelURL is the base URL of SWISS-MODEL repository.
	SwissModelURL string `mapstructure:"swissmodel_url" yaml:"swissmodel_url"`

	// RCSBURL is the base URL of RCSB file downloads.
	RCSBURL string `mapstructure:"rcsb_url" yaml:"rcsb_url"`

	// ZenodoURL is the base URL of Zenodo records API.
	ZenodoURL string `mapstructure:"zenodo_url" yaml:"zenodo_url"`

	// Timeout of one HTTP request in seconds.
	Timeout int `mapstructure:"timeout" yaml:"timeout"`

	// Retries is the number of additional attempts after a transport error.
	// HTTP responses with non-200 status are never retried.
	Retries int `mapstructure:"retries" yaml:"retries"`

	// SaveEvery is the number of rows between checkpoint saves.
	SaveEvery int `mapstructure:"save_every" yaml:"save_every"`
}

// BuildConfig contains settings for building input matrices.
type BuildConfig struct {
	// MaxLen is the number of residue columns in every matrix channel.
	// Longer proteins are truncated.
	MaxLen int `mapstructure:"max_len" yaml:"max_len"`

	// FinalizeOnly skips row processing and only concatenates already
	// built chunks into the input table.
	FinalizeOnly bool `mapstructure:"-" yaml:"-"`
}

// TrainConfig contains settings of the training loop.
type TrainConfig struct {
	// Epochs is the number of passes over the training split.
	Epochs int `mapstructure:"epochs" yaml:"epochs"`

	// BatchSize is the number of records per gradient step.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`

	// LearningRate of the gradient descent.
	LearningRate float64 `mapstructure:"learning_rate" yaml:"learning_rate"`

	// Seed makes train/test/validation split and shuffling reproducible.
	Seed int `mapstructure:"seed" yaml:"seed"`
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// BatchSize defines the number of records sent per CopyFrom call
	// during export.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Fetch: FetchConfig{
			Source:        "swissmodel",
			SwissModelURL: "https://swissmodel.expasy.org/repository/uniprot",
			RCSBURL:       "https://files.rcsb.org/download",
			ZenodoURL:     "https://zenodo.org/api/records",
			Timeout:       60,
			Retries:       2,
			SaveEvery:     100,
		},
		Build: BuildConfig{
			MaxLen: 4000,
		},
		Train: TrainConfig{
			Epochs:       10,
			BatchSize:    2,
			LearningRate: 0.0001,
			Seed:         42,
		},
		Database: DatabaseConfig{
			Host:      "localhost",
			Port:      5432,
			User:      "postgres",
			Password:  "postgres",
			Database:  "anu",
			SSLMode:   "disable",
			BatchSize: 5_000,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(), // Default to number of CPU threads
	}

	return res
}
