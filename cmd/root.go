/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/anu/internal/iofs"
	"github.com/gnames/anu/internal/iologger"
	"github.com/gnames/anu/pkg/anu"
	"github.com/gnames/anu/pkg/config"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir string
	opts    []config.Option
	cfg     *config.Config
)

// getRootCmd returns the root command with all subcommands attached.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", anu.Version, anu.Build),
		Use:     "anu",
		Short:   "Anu prepares protein pairs for interaction learning",
		Long: `Anu turns databases of interacting and non-interacting protein pairs
into fixed-size residue feature matrices and trains a model on them.

The pipeline has these steps:
  - fetch databases:   download pair databases from Zenodo
  - prepare tables:    extract protein identifiers into pair tables
  - fetch structures:  download structure files, keep pairs with both
  - prepare inputs:    convert structures to matrices and pair records
  - train:             train a model on the prepared inputs
  - predict:           predict interaction of two proteins
  - export:            load prepared inputs into PostgreSQL

Long steps save their progress and continue after an interruption.

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (ANU_*)
  3. Config file (~/.config/anu/config.yaml)
  4. Built-in defaults

Nested fields use underscores (build.max_len -> ANU_BUILD_MAX_LEN).`,
		PersistentPreRunE: bootstrap,
		RunE:              runRoot,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.Flags().BoolP("version", "V", false, "version for anu")

	rootCmd.AddCommand(
		getFetchCmd(),
		getPrepareCmd(),
		getTrainCmd(),
		getPredictCmd(),
		getExportCmd(),
	)

	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// hardcoded defaults until config.yaml is read
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = iologger.Init(config.LogDir(homeDir), defaultLog, false); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDatasetsFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	// the log file was just created, keep its first lines
	if err = iologger.Init(config.LogDir(homeDir), cfg.Log, true); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir),
		"command", cmd.CommandPath(),
	)

	return nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	return cmd.Help()
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := getRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

// initEnvVars binds the persistent fields of config.yaml to ANU_*
// environment variables. The list is explicit so it is clear which
// variables are allowed.
func initEnvVars(v *viper.Viper) {
	v.SetEnvPrefix("ANU")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	keys := []string{
		"data.dir",

		"fetch.source",
		"fetch.swissmodel_url",
		"fetch.rcsb_url",
		"fetch.zenodo_url",
		"fetch.timeout",
		"fetch.retries",
		"fetch.save_every",

		"build.max_len",

		"train.epochs",
		"train.batch_size",
		"train.learning_rate",
		"train.seed",

		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.database",
		"database.ssl_mode",
		"database.batch_size",

		"log.level",
		"log.format",
		"log.destination",

		"jobs_number",
	}
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	v.AutomaticEnv()
}
