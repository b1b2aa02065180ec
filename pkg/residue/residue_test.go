package residue_test

import (
	"testing"

	"github.com/gnames/anu/pkg/errcode"
	"github.com/gnames/anu/pkg/residue"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	assert := assert.New(t)
	tests := []struct {
		msg    string
		letter byte
		code   int
		hp     residue.Hydropathy
		hpIdx  float64
		ab     residue.AcidityBasicity
		mass   float64
		pi     float64
		charge residue.Charge
	}{
		{"alanine", 'A', 1, residue.Hydrophobic, 1.8, residue.NeutralAB,
			89.09, 6.00, residue.NeutralCharge},
		{"aspartate", 'D', 3, residue.Hydrophilic, -3.5, residue.Acidic,
			133.10, 2.77, residue.Negative},
		{"histidine", 'H', 7, residue.Moderate, -3.2, residue.Basic,
			155.16, 7.47, residue.Positive},
		{"glutamine", 'Q', 14, residue.Hydrophilic, -3.5, residue.NeutralAB,
			146.15, 5.65, residue.Negative},
		{"arginine", 'R', 15, residue.Hydrophilic, -4.5, residue.Basic,
			174.20, 11.15, residue.Positive},
		{"tyrosine", 'Y', 20, residue.Hydrophobic, -1.3, residue.NeutralAB,
			181.19, 5.66, residue.NeutralCharge},
	}

	for _, v := range tests {
		res, err := residue.Lookup(v.letter)
		require.NoError(t, err, v.msg)
		assert.Equal(v.letter, res.Letter, v.msg)
		assert.Equal(v.code, res.Code, v.msg)
		assert.Equal(v.hp, res.Hydropathy, v.msg)
		assert.Equal(v.hpIdx, res.HydropathyIndex, v.msg)
		assert.Equal(v.ab, res.AcidityBasicity, v.msg)
		assert.Equal(v.mass, res.Mass, v.msg)
		assert.Equal(v.pi, res.IsoelectricPoint, v.msg)
		assert.Equal(v.charge, res.Charge, v.msg)
	}
}

func TestLookupUnknown(t *testing.T) {
	for _, v := range []byte{'X', 'B', 'a', '?', 0} {
		_, err := residue.Lookup(v)
		require.Error(t, err)
		gnErr, ok := err.(*gn.Error)
		require.True(t, ok, "error should be *gn.Error")
		assert.Equal(t, errcode.UnknownResidueError, gnErr.Code)
	}
}

func TestCodesAreUnique(t *testing.T) {
	letters := residue.Letters()
	require.Len(t, letters, 20)
	seen := make(map[int]bool)
	for i, l := range letters {
		p, err := residue.Lookup(l)
		require.NoError(t, err)
		assert.Equal(t, i+1, p.Code)
		assert.False(t, seen[p.Code])
		seen[p.Code] = true
	}
}

func TestThreeToOne(t *testing.T) {
	tests := []struct {
		msg    string
		name   string
		letter byte
		ok     bool
	}{
		{"standard", "ALA", 'A', true},
		{"lower case", "trp", 'W', true},
		{"padded", " GLY", 'G', true},
		{"water", "HOH", 0, false},
		{"selenomethionine", "MSE", 0, false},
		{"empty", "", 0, false},
	}
	for _, v := range tests {
		res, ok := residue.ThreeToOne(v.name)
		assert.Equal(t, v.ok, ok, v.msg)
		assert.Equal(t, v.letter, res, v.msg)
		assert.Equal(t, v.ok, residue.IsStandard(v.name), v.msg)
	}
}
