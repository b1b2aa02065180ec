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
	"github.com/gnames/anu/internal/iodb"
	"github.com/gnames/anu/internal/ioexport"
	"github.com/gnames/anu/internal/ioschema"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getExportCmd returns the export command.
func getExportCmd() *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Load prepared inputs into PostgreSQL",
		Long: `Load input tables built by 'anu prepare inputs' into PostgreSQL.

This command:
  1. Connects to PostgreSQL using configuration settings
  2. Creates or updates tables using GORM AutoMigrate
  3. Replaces records of every selected dataset in one transaction
  4. Updates dataset metadata (label, max_len, record count)

Examples:
  anu export
  anu export -d pickle`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runExport(cmd)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	datasetsFlag(exportCmd)
	return exportCmd
}

func runExport(cmd *cobra.Command) error {
	ctx, stop := signalContext()
	defer stop()

	dss, err := applyFlags(cmd)
	if err != nil {
		return err
	}

	op := iodb.NewPgxOperator()
	if err = op.Connect(ctx, &cfg.Database); err != nil {
		return err
	}
	defer op.Close()

	gn.Info("Connected to database: <em>%s@%s:%d/%s</em>",
		cfg.Database.User, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Database)

	if err = ioschema.NewManager(op).Migrate(ctx); err != nil {
		return err
	}

	exp := ioexport.New(cfg, op)
	for _, ds := range dss {
		if ctx.Err() != nil {
			gn.Warn("<warn>Interrupted.</warn> Exported datasets are kept")
			return nil
		}
		if _, err = exp.Export(ctx, ds); err != nil {
			return err
		}
	}

	return nil
}
