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
	"github.com/gnames/anu/internal/iotrain"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getTrainCmd returns the train command.
func getTrainCmd() *cobra.Command {
	trainCmd := &cobra.Command{
		Use:   "train",
		Short: "Train a model on prepared inputs",
		Long: `Train an interaction model on input tables built by
'anu prepare inputs'.

Records of all selected datasets are shuffled with the configured
seed and split into train (70%), test (20%) and validation (10%)
parts. Records are read from disk in batches, so inputs do not
have to fit into memory. The model is saved to the models
directory and is used by 'anu predict'.

Examples:
  anu train
  anu train -e 20 -b 8 -l 0.001
  anu train --seed 7`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runTrain(cmd)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	datasetsFlag(trainCmd)
	trainCmd.Flags().IntP("epochs", "e", 0,
		"passes over the train split (default from config)")
	trainCmd.Flags().IntP("batch-size", "b", 0,
		"records per gradient step (default from config)")
	trainCmd.Flags().Float64P("learning-rate", "l", 0,
		"learning rate (default from config)")
	trainCmd.Flags().Int("seed", 0,
		"seed of shuffling and splitting (default from config)")

	return trainCmd
}

func runTrain(cmd *cobra.Command) error {
	ctx, stop := signalContext()
	defer stop()

	dss, err := applyFlags(cmd)
	if err != nil {
		return err
	}

	if _, err = iotrain.New(cfg).Train(ctx, dss); err != nil {
		return err
	}

	gn.Info("Next step: run '<em>anu predict</em>' for a pair of proteins")
	return nil
}
