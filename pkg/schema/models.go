// Package schema provides PostgreSQL models for exported datasets.
package schema

import (
	"time"
)

// Dataset stores metadata of an exported dataset.
type Dataset struct {
	// Name is the dataset name from datasets.yaml.
	Name string `gorm:"primaryKey;type:varchar(50)"`

	// Title is a human readable name of the database.
	Title string `gorm:"type:varchar(255)"`

	// ZenodoID is the record the data was downloaded from.
	ZenodoID string `gorm:"type:varchar(50)"`

	// Interacting is true for datasets of interacting pairs.
	Interacting bool

	// MaxLen is the number of residue columns of every channel.
	MaxLen int

	// RecordNum is the number of exported pairs.
	RecordNum int

	// ExportID is a random UUID of the last export.
	ExportID string `gorm:"type:uuid"`

	// UpdatedAt is set by GORM on every save.
	UpdatedAt time.Time
}

// PairRecord is one pair of proteins with flattened features.
//
// FeaturesA and FeaturesB keep channels one after another, each channel
// has Dataset.MaxLen values.
type PairRecord struct {
	// DatasetName refers to the dataset of the pair.
	DatasetName string `gorm:"primaryKey;type:varchar(50)"`

	// RowIndex is the position of the pair in the input table.
	RowIndex int `gorm:"primaryKey;autoIncrement:false"`

	// ID is a UUID v5 generated from both protein IDs. Databases can
	// repeat a pair, so it is not unique.
	ID string `gorm:"type:uuid;not null;index"`

	ProteinA string `gorm:"type:varchar(50);not null;index"`
	ProteinB string `gorm:"type:varchar(50);not null;index"`

	// Label is 1 for interacting and 2 for non-interacting pairs.
	Label int16 `gorm:"not null"`

	FeaturesA []float64 `gorm:"type:double precision[]"`
	FeaturesB []float64 `gorm:"type:double precision[]"`
}

// PairColumns are the columns of pair_records in the order used by
// CopyFrom.
var PairColumns = []string{
	"dataset_name", "row_index", "id", "protein_a", "protein_b", "label",
	"features_a", "features_b",
}
