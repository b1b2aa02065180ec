// Package datasets provides configuration and validation of databases of
// protein pairs.
//
// This package defines the schema for datasets.yaml. Every dataset is a
// tab-separated file downloaded from a Zenodo record. Each row names two
// proteins, and the whole file is either a set of interacting or a set of
// non-interacting pairs.
package datasets

// Datasets loads the datasets catalogue.
type Datasets interface {
	Load() (*Config, error)
}

// Config represents the complete datasets.yaml configuration file.
type Config struct {
	Datasets []Dataset `yaml:"datasets"`
}

// Dataset describes one database of protein pairs.
type Dataset struct {
	// Name is a short identifier used in directory names and CLI flags.
	Name string `yaml:"name"`

	// Title is a human readable name of the database.
	Title string `yaml:"title,omitempty"`

	// ZenodoID is the Zenodo record that keeps the database file.
	ZenodoID string `yaml:"zenodo_id"`

	// File is the name of the downloaded file.
	File string `yaml:"file"`

	// Separator of columns, tab by default.
	Separator string `yaml:"separator,omitempty"`

	// ColumnA and ColumnB are the header names of protein identifiers.
	ColumnA string `yaml:"column_a"`
	ColumnB string `yaml:"column_b"`

	// Interacting is true for databases of interacting pairs.
	Interacting bool `yaml:"interacting"`
}

// Find returns a dataset by its name.
func (c *Config) Find(name string) (Dataset, bool) {
	for _, v := range c.Datasets {
		if v.Name == name {
			return v, true
		}
	}
	return Dataset{}, false
}

// Filter returns datasets with the given names in the order of the
// catalogue. Empty names mean all datasets. Unknown names are returned
// separately.
func (c *Config) Filter(names []string) ([]Dataset, []string) {
	if len(names) == 0 {
		return c.Datasets, nil
	}
	want := make(map[string]bool)
	for _, v := range names {
		want[v] = true
	}
	var res []Dataset
	for _, v := range c.Datasets {
		if want[v.Name] {
			res = append(res, v)
			delete(want, v.Name)
		}
	}
	var unknown []string
	for _, v := range names {
		if want[v] {
			unknown = append(unknown, v)
		}
	}
	return res, unknown
}

// Sep returns the column separator of the dataset file.
func (d Dataset) Sep() rune {
	if d.Separator == "" || d.Separator == `\t` {
		return '\t'
	}
	return []rune(d.Separator)[0]
}
