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

	"github.com/gnames/anu/internal/iopredict"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/spf13/cobra"
)

// prediction is the output of the predict command.
type prediction struct {
	ProteinA       string  `json:"proteinA"`
	ProteinB       string  `json:"proteinB"`
	Mode           string  `json:"mode"`
	Label          string  `json:"label"`
	Interacting    float64 `json:"interacting"`
	NonInteracting float64 `json:"nonInteracting"`
}

// getPredictCmd returns the predict command.
func getPredictCmd() *cobra.Command {
	var mode string

	predictCmd := &cobra.Command{
		Use:   "predict <protein-a> <protein-b>",
		Short: "Predict interaction of two proteins",
		Long: `Predict if two proteins interact using the model saved by
'anu train'.

Proteins are given according to --mode:
  path     paths to local PDB files
  pdb      RCSB PDB identifiers
  uniprot  UniProt accessions of SWISS-MODEL structures

Downloaded structures are kept in the user directory and are
reused by later predictions.

Examples:
  anu predict a.pdb b.pdb
  anu predict -m pdb 1A3N 2HHB
  anu predict -m uniprot P69905 P68871`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runPredict(cmd, mode, args[0], args[1])
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	predictCmd.Flags().StringVarP(&mode, "mode", "m", "path",
		"how proteins are given: path, pdb or uniprot")

	return predictCmd
}

func runPredict(cmd *cobra.Command, modeName, a, b string) error {
	ctx, stop := signalContext()
	defer stop()

	mode, err := iopredict.NewMode(modeName)
	if err != nil {
		return err
	}

	p, err := iopredict.New(cfg, mode).Predict(ctx, a, b)
	if err != nil {
		return err
	}

	res := prediction{
		ProteinA:       a,
		ProteinB:       b,
		Mode:           mode.String(),
		Label:          p.Label().String(),
		Interacting:    p.Interacting,
		NonInteracting: p.NonInteracting,
	}
	out, err := gnfmt.GNjson{Pretty: true}.Encode(res)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
