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
	"github.com/gnames/anu/internal/iocheckpoint"
	"github.com/gnames/anu/internal/iofetch"
	"github.com/gnames/anu/internal/iofilter"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getFetchCmd returns the fetch command with its subcommands.
func getFetchCmd() *cobra.Command {
	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download pair databases and protein structures",
		Long: `Download data from remote repositories.

Subcommands:
  databases   download databases of protein pairs from Zenodo
  structures  download structures of proteins from prepared pair tables`,
	}

	fetchCmd.AddCommand(getFetchDatabasesCmd(), getFetchStructuresCmd())
	return fetchCmd
}

// getFetchDatabasesCmd returns the 'fetch databases' command.
func getFetchDatabasesCmd() *cobra.Command {
	var force bool

	dbCmd := &cobra.Command{
		Use:   "databases",
		Short: "Download pair databases from Zenodo",
		Long: `Download raw databases of protein pairs listed in
~/.config/anu/datasets.yaml. Files are downloaded concurrently
and saved to the raw data directory. Existing files are kept
unless --force is given.

Examples:
  anu fetch databases
  anu fetch databases -d pickle
  anu fetch databases --force -j 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runFetchDatabases(cmd, force)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	datasetsFlag(dbCmd)
	jobsFlag(dbCmd)
	dbCmd.Flags().BoolVarP(&force, "force", "f", false,
		"download again files that already exist")

	return dbCmd
}

func runFetchDatabases(cmd *cobra.Command, force bool) error {
	ctx, stop := signalContext()
	defer stop()

	dss, err := applyFlags(cmd)
	if err != nil {
		return err
	}

	if err = iofetch.DownloadDatasets(ctx, cfg, dss, force); err != nil {
		return err
	}

	gn.Info("Next step: run '<em>anu prepare tables</em>'")
	return nil
}

// getFetchStructuresCmd returns the 'fetch structures' command.
func getFetchStructuresCmd() *cobra.Command {
	structCmd := &cobra.Command{
		Use:   "structures",
		Short: "Download protein structures and select complete pairs",
		Long: `Download structure files for both proteins of every pair and keep
pairs where both structures are available.

Each identifier is requested once. Found and missing identifiers are
shared by all datasets, so proteins seen in one dataset are never
downloaded again for another one. Progress is saved every
fetch.save_every rows, an interrupted run (Ctrl-C) continues from
the saved row on the next start.

Examples:
  anu fetch structures
  anu fetch structures -d negatome --source rcsb
  anu fetch structures --retries 0 --save-every 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runFetchStructures(cmd)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	datasetsFlag(structCmd)
	structCmd.Flags().StringP("source", "s", "",
		"structure repository: swissmodel or rcsb (default from config)")
	structCmd.Flags().Int("timeout", 0,
		"HTTP timeout in seconds (default from config)")
	structCmd.Flags().Int("retries", 0,
		"retries after connection errors (default from config)")
	structCmd.Flags().Int("save-every", 0,
		"rows between checkpoint saves (default from config)")

	return structCmd
}

func runFetchStructures(cmd *cobra.Command) error {
	ctx, stop := signalContext()
	defer stop()

	dss, err := applyFlags(cmd)
	if err != nil {
		return err
	}

	filter := iofilter.New(cfg, iofetch.NewFetcher(cfg), iocheckpoint.New(cfg))
	for _, ds := range dss {
		summary, err := filter.Run(ctx, ds)
		if err != nil {
			return err
		}
		if summary.Interrupted {
			gn.Warn("<warn>Interrupted.</warn> Run the command again to continue")
			return nil
		}
	}

	gn.Info("Next step: run '<em>anu prepare inputs</em>'")
	return nil
}
