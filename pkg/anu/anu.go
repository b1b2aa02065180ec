// Package anu defines the stages of the pipeline that turns databases of
// protein pairs into model inputs.
package anu

import (
	"context"

	"github.com/gnames/anu/pkg/datasets"
	"github.com/gnames/anu/pkg/model"
)

// Filter downloads structures of proteins of a dataset and selects pairs
// where both structures are available. Progress is checkpointed, a
// repeated run continues where the previous one stopped.
type Filter interface {
	Run(ctx context.Context, ds datasets.Dataset) (*FilterSummary, error)
}

// FilterSummary describes one run of a Filter.
type FilterSummary struct {
	Dataset string
	// Rows is the number of rows of the pair table.
	Rows int
	// StartRow is the row the run started from.
	StartRow int
	// NextRow is the first row that was not processed.
	NextRow int
	// Skipped rows had an identifier that is known to be missing.
	Skipped int
	// Rejected rows had an identifier that failed to download during
	// this run.
	Rejected int
	// Selected is the total number of selected pairs of the dataset.
	Selected int
	// Fetched and Missing count downloads attempted during this run.
	Fetched int
	Missing int
	// Interrupted is true if the run was cancelled before the end of the
	// table.
	Interrupted bool
}

// Builder converts selected pairs of a dataset into a table of model
// inputs. Every row is saved as a chunk, a repeated run continues after
// the last saved chunk.
type Builder interface {
	Run(ctx context.Context, ds datasets.Dataset) (*BuildSummary, error)
}

// BuildSummary describes one run of a Builder.
type BuildSummary struct {
	Dataset string
	// Pairs is the number of selected pairs.
	Pairs int
	// Built is the number of rows built during this run.
	Built int
	// Truncated is the number of structures longer than the maximum
	// length built during this run.
	Truncated int
	// Records is the number of records in the final table.
	Records int
	// Output is the path to the final table.
	Output      string
	Interrupted bool
}

// Trainer fits a model on the final tables of datasets.
type Trainer interface {
	Train(ctx context.Context, dss []datasets.Dataset) (*TrainSummary, error)
}

// TrainSummary reports quality of a trained model.
type TrainSummary struct {
	Train, Test, Validation int
	// Loss is the mean loss of the last epoch.
	Loss               float64
	TestAccuracy       float64
	ValidationAccuracy float64
	ModelPath          string
}

// Predictor estimates if two proteins interact.
type Predictor interface {
	Predict(ctx context.Context, a, b string) (model.Prediction, error)
}

// SchemaManager creates and migrates the database schema for exported
// records. Migration is idempotent.
type SchemaManager interface {
	Migrate(ctx context.Context) error
}

// Exporter copies final tables of datasets to PostgreSQL.
type Exporter interface {
	Export(ctx context.Context, ds datasets.Dataset) (int, error)
}
