package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/gnames/gn"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for config.yaml.
// Excludes runtime-only fields (HomeDir, Datasets, Build.FinalizeOnly).
// Used for round-tripping config.yaml ↔ Config conversions.
func (c *Config) ToOptions() []Option {
	var res []Option
	var s string
	var i int

	s = c.Data.Dir
	if s != "" {
		res = append(res, OptDataDir(s))
	}

	s = c.Fetch.Source
	if s != "" {
		res = append(res, OptFetchSource(s))
	}
	s = c.Fetch.SwissModelURL
	if s != "" {
		res = append(res, OptFetchSwissModelURL(s))
	}
	s = c.Fetch.RCSBURL
	if s != "" {
		res = append(res, OptFetchRCSBURL(s))
	}
	s = c.Fetch.ZenodoURL
	if s != "" {
		res = append(res, OptFetchZenodoURL(s))
	}
	i = c.Fetch.Timeout
	if i > 0 {
		res = append(res, OptFetchTimeout(i))
	}
	// zero means unset in config.yaml, use --retries 0 to disable retries
	i = c.Fetch.Retries
	if i > 0 {
		res = append(res, OptFetchRetries(i))
	}
	i = c.Fetch.SaveEvery
	if i > 0 {
		res = append(res, OptFetchSaveEvery(i))
	}

	i = c.Build.MaxLen
	if i > 0 {
		res = append(res, OptBuildMaxLen(i))
	}

	i = c.Train.Epochs
	if i > 0 {
		res = append(res, OptTrainEpochs(i))
	}
	i = c.Train.BatchSize
	if i > 0 {
		res = append(res, OptTrainBatchSize(i))
	}
	if c.Train.LearningRate > 0 {
		res = append(res, OptTrainLearningRate(c.Train.LearningRate))
	}
	i = c.Train.Seed
	if i > 0 {
		res = append(res, OptTrainSeed(i))
	}

	s = c.Database.Host
	if s != "" {
		res = append(res, OptDatabaseHost(s))
	}
	i = c.Database.Port
	if i > 0 {
		res = append(res, OptDatabasePort(i))
	}
	s = c.Database.User
	if s != "" {
		res = append(res, OptDatabaseUser(s))
	}
	s = c.Database.Password
	if s != "" {
		res = append(res, OptDatabasePassword(s))
	}
	s = c.Database.Database
	if s != "" {
		res = append(res, OptDatabaseDatabase(s))
	}
	s = c.Database.SSLMode
	if s != "" {
		res = append(res, OptDatabaseSSLMode(s))
	}
	i = c.Database.BatchSize
	if i > 0 {
		res = append(res, OptDatabaseBatchSize(i))
	}

	s = c.Log.Format
	if s != "" {
		res = append(res, OptLogFormat(s))
	}
	s = c.Log.Level
	if s != "" {
		res = append(res, OptLogLevel(s))
	}
	s = c.Log.Destination
	if s != "" {
		res = append(res, OptLogDestination(s))
	}

	i = c.JobsNumber
	if i > 0 {
		res = append(res, OptJobsNumber(i))
	}
	return res
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

func isValidNonNegative(name string, i int) bool {
	res := i >= 0
	if !res {
		gn.Warn("<em>%s</em> cannot be negative, ignoring %d", name, i)
	}
	return res
}

func isValidFloat(name string, f float64) bool {
	res := f > 0 && f < 1
	if !res {
		gn.Warn("<em>%s</em> has to be between 0 and 1, ignoring %g", name, f)
	}
	return res
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"Fetch.Source":     {"swissmodel": s, "rcsb": s},
		"Database.SSLMode": {"disable": s, "require": s,
			"verify-ca": s, "verify-full": s},
		"Log.Level":       {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":      {"json": s, "text": s, "tint": s},
		"Log.Destination": {"file": s, "stderr": s, "stdout": s},
	}
	vals := slices.Sorted(maps.Keys(data[name]))
	var lines []string
	for _, v := range vals {
		line := fmt.Sprintf("  * %s", v)
		lines = append(lines, line)
	}
	if _, ok := data[name][val]; ok {
		return true
	}
	gn.Warn(
		"<em>%s</em> does not support '%s' as a value. "+
			"Valid values are: \n%s\nIgnoring...",
		name, val, strings.Join(lines, "\n"),
	)
	return false
}
