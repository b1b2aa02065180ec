package datasets_test

import (
	"testing"

	"github.com/gnames/anu/pkg/datasets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogue() *datasets.Config {
	return &datasets.Config{Datasets: []datasets.Dataset{
		{
			Name: "pickle", ZenodoID: "3889702", File: "interacting-protein.txt",
			ColumnA: "InteractorA", ColumnB: "InteractorB", Interacting: true,
		},
		{
			Name: "negatome", ZenodoID: "3889713", File: "non-interacting-protein.txt",
			ColumnA: "UniprotID_A", ColumnB: "UniprotID_B",
		},
	}}
}

func TestValidate(t *testing.T) {
	require.NoError(t, catalogue().Validate())

	tests := []struct {
		msg    string
		modify func(*datasets.Config)
	}{
		{"empty", func(c *datasets.Config) { c.Datasets = nil }},
		{"bad name", func(c *datasets.Config) { c.Datasets[0].Name = "Pickle DB" }},
		{"no file", func(c *datasets.Config) { c.Datasets[0].File = "" }},
		{"no column", func(c *datasets.Config) { c.Datasets[0].ColumnB = "" }},
		{"same columns", func(c *datasets.Config) { c.Datasets[0].ColumnB = "InteractorA" }},
		{"duplicate", func(c *datasets.Config) { c.Datasets[1].Name = "pickle" }},
		{"long separator", func(c *datasets.Config) { c.Datasets[1].Separator = ";;" }},
	}
	for _, v := range tests {
		c := catalogue()
		v.modify(c)
		assert.Error(t, c.Validate(), v.msg)
	}
}

func TestFilter(t *testing.T) {
	c := catalogue()
	res, unknown := c.Filter(nil)
	assert.Len(t, res, 2)
	assert.Empty(t, unknown)

	res, unknown = c.Filter([]string{"negatome", "biogrid"})
	require.Len(t, res, 1)
	assert.Equal(t, "negatome", res[0].Name)
	assert.Equal(t, []string{"biogrid"}, unknown)

	d, ok := c.Find("pickle")
	assert.True(t, ok)
	assert.True(t, d.Interacting)
	_, ok = c.Find("nope")
	assert.False(t, ok)
}

func TestSep(t *testing.T) {
	assert.Equal(t, '\t', datasets.Dataset{}.Sep())
	assert.Equal(t, '\t', datasets.Dataset{Separator: `\t`}.Sep())
	assert.Equal(t, ',', datasets.Dataset{Separator: ","}.Sep())
}
