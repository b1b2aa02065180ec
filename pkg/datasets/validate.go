package datasets

import (
	"fmt"
	"regexp"
)

var nameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if len(c.Datasets) == 0 {
		return fmt.Errorf("no datasets specified in configuration")
	}

	names := make(map[string]struct{})
	for i := range c.Datasets {
		d := c.Datasets[i]
		if err := d.Validate(); err != nil {
			return fmt.Errorf("dataset %d: %w", i+1, err)
		}
		if _, ok := names[d.Name]; ok {
			return fmt.Errorf("dataset %d: duplicate name '%s'", i+1, d.Name)
		}
		names[d.Name] = struct{}{}
	}
	return nil
}

// Validate checks a single dataset.
func (d Dataset) Validate() error {
	if !nameRe.MatchString(d.Name) {
		return fmt.Errorf(
			"name '%s' must be lower case letters, digits, '-' or '_'",
			d.Name,
		)
	}
	if d.File == "" {
		return fmt.Errorf("file is required")
	}
	if d.ColumnA == "" || d.ColumnB == "" {
		return fmt.Errorf("column_a and column_b are required")
	}
	if d.ColumnA == d.ColumnB {
		return fmt.Errorf("column_a and column_b must differ")
	}
	if len([]rune(d.Separator)) > 1 && d.Separator != `\t` {
		return fmt.Errorf("separator must be a single character")
	}
	return nil
}
