package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptDataDir sets the root directory for raw and processed data.
func OptDataDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Data Dir", s) {
			c.Data.Dir = s
		}
	}
}

// OptFetchSource sets the remote repository of structure files.
// Valid values: "swissmodel", "rcsb".
func OptFetchSource(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Fetch.Source", s) {
			c.Fetch.Source = s
		}
	}
}

// OptFetchSwissModelURL sets the base URL of SWISS-MODEL repository.
func OptFetchSwissModelURL(s string) Option {
	s = strings.TrimRight(strings.TrimSpace(s), "/")
	return func(c *Config) {
		if isValidString("SWISS-MODEL URL", s) {
			c.Fetch.SwissModelURL = s
		}
	}
}

// OptFetchRCSBURL sets the base URL of RCSB downloads.
func OptFetchRCSBURL(s string) Option {
	s = strings.TrimRight(strings.TrimSpace(s), "/")
	return func(c *Config) {
		if isValidString("RCSB URL", s) {
			c.Fetch.RCSBURL = s
		}
	}
}

// OptFetchZenodoURL sets the base URL of Zenodo records API.
func OptFetchZenodoURL(s string) Option {
	s = strings.TrimRight(strings.TrimSpace(s), "/")
	return func(c *Config) {
		if isValidString("Zenodo URL", s) {
			c.Fetch.ZenodoURL = s
		}
	}
}

// OptFetchTimeout sets HTTP request timeout in seconds.
func OptFetchTimeout(i int) Option {
	return func(c *Config) {
		if isValidInt("Fetch Timeout", i) {
			c.Fetch.Timeout = i
		}
	}
}

// OptFetchRetries sets the number of retries after transport errors.
// Zero disables retries.
func OptFetchRetries(i int) Option {
	return func(c *Config) {
		if isValidNonNegative("Fetch Retries", i) {
			c.Fetch.Retries = i
		}
	}
}

// OptFetchSaveEvery sets how many rows are processed between
// checkpoint saves.
func OptFetchSaveEvery(i int) Option {
	return func(c *Config) {
		if isValidInt("Fetch Save Every", i) {
			c.Fetch.SaveEvery = i
		}
	}
}

// OptBuildMaxLen sets the number of residue columns in a matrix.
func OptBuildMaxLen(i int) Option {
	return func(c *Config) {
		if isValidInt("Build Max Length", i) {
			c.Build.MaxLen = i
		}
	}
}

// OptBuildFinalizeOnly makes input preparation skip row processing and
// only concatenate existing chunks.
// Runtime-only field - not in ToOptions().
func OptBuildFinalizeOnly(b bool) Option {
	return func(c *Config) {
		c.Build.FinalizeOnly = b
	}
}

// OptTrainEpochs sets the number of training epochs.
func OptTrainEpochs(i int) Option {
	return func(c *Config) {
		if isValidInt("Train Epochs", i) {
			c.Train.Epochs = i
		}
	}
}

// OptTrainBatchSize sets the number of records per training batch.
func OptTrainBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Train Batch Size", i) {
			c.Train.BatchSize = i
		}
	}
}

// OptTrainLearningRate sets the learning rate of gradient descent.
func OptTrainLearningRate(f float64) Option {
	return func(c *Config) {
		if isValidFloat("Train Learning Rate", f) {
			c.Train.LearningRate = f
		}
	}
}

// OptTrainSeed sets the seed of the random split and shuffling.
func OptTrainSeed(i int) Option {
	return func(c *Config) {
		if isValidInt("Train Seed", i) {
			c.Train.Seed = i
		}
	}
}

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptDatabaseBatchSize sets the number of records per CopyFrom batch.
func OptDatabaseBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Batch Size", i) {
			c.Database.BatchSize = i
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text", "tint".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets the number of concurrent workers for parallel operations.
// Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptDatasets limits a command to the given datasets.
// Runtime-only field - not in ToOptions().
func OptDatasets(ss []string) Option {
	var res []string
	for _, s := range ss {
		s = strings.TrimSpace(s)
		if s != "" {
			res = append(res, s)
		}
	}
	return func(c *Config) {
		if len(res) > 0 {
			c.Datasets = res
		}
	}
}

// OptHomeDir sets the home directory for config, cache, and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
