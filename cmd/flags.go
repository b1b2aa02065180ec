package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gnames/anu/internal/iodatasets"
	"github.com/gnames/anu/pkg/config"
	"github.com/gnames/anu/pkg/datasets"
	"github.com/spf13/cobra"
)

// funcFlag converts a flag into a config option. It is called only when
// the flag was set explicitly.
type funcFlag func(cmd *cobra.Command) config.Option

var flagOpts = map[string]funcFlag{
	"datasets": func(cmd *cobra.Command) config.Option {
		ss, _ := cmd.Flags().GetStringSlice("datasets")
		return config.OptDatasets(ss)
	},
	"jobs": func(cmd *cobra.Command) config.Option {
		i, _ := cmd.Flags().GetInt("jobs")
		return config.OptJobsNumber(i)
	},
	"source": func(cmd *cobra.Command) config.Option {
		s, _ := cmd.Flags().GetString("source")
		return config.OptFetchSource(s)
	},
	"timeout": func(cmd *cobra.Command) config.Option {
		i, _ := cmd.Flags().GetInt("timeout")
		return config.OptFetchTimeout(i)
	},
	"retries": func(cmd *cobra.Command) config.Option {
		i, _ := cmd.Flags().GetInt("retries")
		return config.OptFetchRetries(i)
	},
	"save-every": func(cmd *cobra.Command) config.Option {
		i, _ := cmd.Flags().GetInt("save-every")
		return config.OptFetchSaveEvery(i)
	},
	"max-len": func(cmd *cobra.Command) config.Option {
		i, _ := cmd.Flags().GetInt("max-len")
		return config.OptBuildMaxLen(i)
	},
	"finalize-only": func(cmd *cobra.Command) config.Option {
		b, _ := cmd.Flags().GetBool("finalize-only")
		return config.OptBuildFinalizeOnly(b)
	},
	"epochs": func(cmd *cobra.Command) config.Option {
		i, _ := cmd.Flags().GetInt("epochs")
		return config.OptTrainEpochs(i)
	},
	"batch-size": func(cmd *cobra.Command) config.Option {
		i, _ := cmd.Flags().GetInt("batch-size")
		return config.OptTrainBatchSize(i)
	},
	"learning-rate": func(cmd *cobra.Command) config.Option {
		f, _ := cmd.Flags().GetFloat64("learning-rate")
		return config.OptTrainLearningRate(f)
	},
	"seed": func(cmd *cobra.Command) config.Option {
		i, _ := cmd.Flags().GetInt("seed")
		return config.OptTrainSeed(i)
	},
}

// flagOptions returns options for flags that were set on the command
// line. Flags left at their defaults do not override config.yaml.
func flagOptions(cmd *cobra.Command) []config.Option {
	var res []config.Option
	for name, fn := range flagOpts {
		f := cmd.Flags().Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		res = append(res, fn(cmd))
	}
	return res
}

func datasetsFlag(cmd *cobra.Command) {
	cmd.Flags().StringSliceP("datasets", "d", nil,
		"dataset names from datasets.yaml (empty = all)")
}

func jobsFlag(cmd *cobra.Command) {
	cmd.Flags().IntP("jobs", "j", 0,
		"number of concurrent jobs (default from config)")
}

// applyFlags updates the configuration with explicit flags and returns
// datasets selected for the command.
func applyFlags(cmd *cobra.Command) ([]datasets.Dataset, error) {
	if o := flagOptions(cmd); len(o) > 0 {
		cfg.Update(o)
	}
	return iodatasets.Select(cfg)
}

// signalContext is cancelled on Ctrl-C or SIGTERM, so long loops can
// save their progress before exit.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
}
