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
	"github.com/gnames/anu/internal/iobuild"
	"github.com/gnames/anu/internal/iocheckpoint"
	"github.com/gnames/anu/internal/ioprepare"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getPrepareCmd returns the prepare command with its subcommands.
func getPrepareCmd() *cobra.Command {
	prepareCmd := &cobra.Command{
		Use:   "prepare",
		Short: "Prepare pair tables and model inputs",
		Long: `Convert downloaded data into tables used by the next steps.

Subcommands:
  tables  extract protein identifiers from raw databases
  inputs  build residue feature matrices of selected pairs`,
	}

	prepareCmd.AddCommand(getPrepareTablesCmd(), getPrepareInputsCmd())
	return prepareCmd
}

// getPrepareTablesCmd returns the 'prepare tables' command.
func getPrepareTablesCmd() *cobra.Command {
	tablesCmd := &cobra.Command{
		Use:   "tables",
		Short: "Extract protein pairs from raw databases",
		Long: `Read raw databases downloaded by 'anu fetch databases' and save
the two identifier columns configured in datasets.yaml as pair tables.
Rows without one of the identifiers are dropped.

Examples:
  anu prepare tables
  anu prepare tables -d pickle`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runPrepareTables(cmd)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	datasetsFlag(tablesCmd)
	return tablesCmd
}

func runPrepareTables(cmd *cobra.Command) error {
	ctx, stop := signalContext()
	defer stop()

	dss, err := applyFlags(cmd)
	if err != nil {
		return err
	}

	for _, ds := range dss {
		if _, err = ioprepare.Prepare(ctx, cfg, ds); err != nil {
			return err
		}
	}

	gn.Info("Next step: run '<em>anu fetch structures</em>'")
	return nil
}

// getPrepareInputsCmd returns the 'prepare inputs' command.
func getPrepareInputsCmd() *cobra.Command {
	inputsCmd := &cobra.Command{
		Use:   "inputs",
		Short: "Build feature matrices of selected pairs",
		Long: `Convert structures of selected pairs into residue feature matrices
and save labeled pair records.

Every pair is written to its own chunk and the index of the last
finished row is saved after each chunk. An interrupted run (Ctrl-C)
continues after that row. When all rows are done, chunks are joined
into one input table.

Use --finalize-only to join already built chunks without processing
more rows.

Examples:
  anu prepare inputs
  anu prepare inputs -d negatome --max-len 1000
  anu prepare inputs --finalize-only`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runPrepareInputs(cmd)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	datasetsFlag(inputsCmd)
	inputsCmd.Flags().IntP("max-len", "m", 0,
		"residue columns in every matrix channel (default from config)")
	inputsCmd.Flags().BoolP("finalize-only", "F", false,
		"only join existing chunks into the input table")

	return inputsCmd
}

func runPrepareInputs(cmd *cobra.Command) error {
	ctx, stop := signalContext()
	defer stop()

	dss, err := applyFlags(cmd)
	if err != nil {
		return err
	}

	builder := iobuild.New(cfg, iocheckpoint.New(cfg))
	for _, ds := range dss {
		summary, err := builder.Run(ctx, ds)
		if err != nil {
			return err
		}
		if summary.Interrupted {
			gn.Warn("<warn>Interrupted.</warn> Run the command again to continue")
			return nil
		}
	}

	gn.Info(`Next steps:
   - Run '<em>anu train</em>' to train a model
   - Run '<em>anu export</em>' to load inputs into PostgreSQL`)
	return nil
}
