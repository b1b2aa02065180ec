package iotrain

import (
	"errors"
	"os"

	"github.com/gnames/anu/internal/iofs"
	"github.com/gnames/anu/pkg/model"
	"github.com/gnames/gnfmt"
)

// SaveModel writes a model file.
func SaveModel(path string, m *model.Linear) error {
	data, err := gnfmt.GNgob{}.Encode(m)
	if err != nil {
		return ModelWriteError(path, err)
	}
	if err = iofs.WriteFileAtomic(path, data); err != nil {
		return ModelWriteError(path, err)
	}
	return nil
}

// LoadModel reads a model saved by SaveModel.
func LoadModel(path string) (*model.Linear, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, NoModelError(path)
	}
	if err != nil {
		return nil, ModelReadError(path, err)
	}
	var res model.Linear
	if err = (gnfmt.GNgob{}).Decode(data, &res); err != nil {
		return nil, ModelReadError(path, err)
	}
	return &res, nil
}
