package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/anu/internal/iofetch"
	"github.com/gnames/anu/internal/iotable"
	"github.com/gnames/anu/pkg/errcode"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allCommands(cmd *cobra.Command) []*cobra.Command {
	res := []*cobra.Command{cmd}
	for _, c := range cmd.Commands() {
		res = append(res, allCommands(c)...)
	}
	return res
}

func TestPrepareTables(t *testing.T) {
	assert := assert.New(t)
	setConfig(t)

	cmd := getPrepareTablesCmd()
	require.NoError(t, cmd.Flags().Set("datasets", "pickle"))
	dss, err := applyFlags(cmd)
	require.NoError(t, err)

	raw := iofetch.RawPath(cfg, dss[0])
	require.NoError(t, os.MkdirAll(filepath.Dir(raw), 0755))
	data := "InteractorA\tInteractorB\tScore\nP1\tP2\t0.5\nP3\t\t0.1\nP4\tP5\t0.9\n"
	require.NoError(t, os.WriteFile(raw, []byte(data), 0644))

	require.NoError(t, runPrepareTables(cmd))

	pairs, err := iotable.ReadPairs(context.Background(), cfg.PairTablePath("pickle"))
	require.NoError(t, err)
	assert.Equal([]string{"P1", "P4"}, pairs.A)
	assert.Equal([]string{"P2", "P5"}, pairs.B)
}

func TestPrepareTables_NoRawFile(t *testing.T) {
	setConfig(t)

	cmd := getPrepareTablesCmd()
	require.NoError(t, cmd.Flags().Set("datasets", "negatome"))

	err := runPrepareTables(cmd)
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.PrerequisiteError, gnErr.Code)
}

func TestFetchStructures_NoPairTable(t *testing.T) {
	setConfig(t)

	cmd := getFetchStructuresCmd()
	require.NoError(t, cmd.Flags().Set("datasets", "pickle"))

	err := runFetchStructures(cmd)
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.PrerequisiteError, gnErr.Code)
}

func TestPredict_Args(t *testing.T) {
	cmd := getPredictCmd()
	assert.Error(t, cmd.Args(cmd, []string{"a.pdb"}))
	assert.NoError(t, cmd.Args(cmd, []string{"a.pdb", "b.pdb"}))

	err := runPredict(cmd, "fasta", "a", "b")
	assert.Error(t, err)
}

func TestPredict_NoModel(t *testing.T) {
	setConfig(t)

	cmd := getPredictCmd()
	err := runPredict(cmd, "path", "a.pdb", "b.pdb")
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.PrerequisiteError, gnErr.Code)
}
