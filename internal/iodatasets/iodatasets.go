// Package iodatasets reads the catalogue of pair databases from
// datasets.yaml.
package iodatasets

import (
	"fmt"
	"os"

	"github.com/gnames/anu/pkg/config"
	"github.com/gnames/anu/pkg/datasets"
	"gopkg.in/yaml.v3"
)

type iodatasets struct {
	cfg *config.Config
}

func New(cfg *config.Config) datasets.Datasets {
	res := iodatasets{cfg: cfg}
	return &res
}

func (d *iodatasets) Load() (*datasets.Config, error) {
	path := config.DatasetsFilePath(d.cfg.HomeDir)
	res, err := loadDatasetsConfig(path)
	if err != nil {
		return nil, DatasetsConfigError(path, err)
	}
	return res, nil
}

// Select loads the catalogue and returns datasets requested in the
// configuration, all of them if none were requested.
func Select(cfg *config.Config) ([]datasets.Dataset, error) {
	dc, err := New(cfg).Load()
	if err != nil {
		return nil, err
	}
	res, unknown := dc.Filter(cfg.Datasets)
	if len(unknown) > 0 {
		return nil, UnknownDatasetError(unknown, dc)
	}
	return res, nil
}

func loadDatasetsConfig(path string) (*datasets.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read datasets config file: %w", err)
	}

	var res datasets.Config
	if err = yaml.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("failed to parse datasets config: %w", err)
	}

	if err = res.Validate(); err != nil {
		return nil, fmt.Errorf("invalid datasets config: %w", err)
	}
	return &res, nil
}
