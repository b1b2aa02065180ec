package iodatasets

import (
	"fmt"
	"strings"

	"github.com/gnames/anu/pkg/datasets"
	"github.com/gnames/anu/pkg/errcode"
	"github.com/gnames/gn"
)

// DatasetsConfigError creates an error for when datasets.yaml
// cannot be loaded.
func DatasetsConfigError(path string, err error) error {
	msg := `Cannot load datasets configuration

<em>Configuration file:</em> %s

<em>Possible causes:</em>
  - File does not exist
  - Invalid YAML format
  - Dataset without a name, file or columns

<em>How to fix:</em>
  1. Check if file exists: <em>ls -l %s</em>
  2. Validate YAML syntax
  3. Remove the file to get the default catalogue on the next run`

	vars := []any{path, path}

	return &gn.Error{
		Code: errcode.DatasetsConfigError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to load datasets config: %w", err),
	}
}

// UnknownDatasetError is returned when requested datasets are not in the
// catalogue.
func UnknownDatasetError(names []string, dc *datasets.Config) error {
	known := make([]string, len(dc.Datasets))
	for i, v := range dc.Datasets {
		known[i] = v.Name
	}
	msg := "Unknown datasets: <em>%s</em>\nAvailable: %s"
	vars := []any{strings.Join(names, ", "), strings.Join(known, ", ")}

	return &gn.Error{
		Code: errcode.UnknownDatasetError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("unknown datasets %v", names),
	}
}
