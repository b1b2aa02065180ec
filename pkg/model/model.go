// Package model defines a classifier of protein pairs and provides a
// simple linear implementation of it.
package model

import (
	"github.com/gnames/anu/pkg/pair"
)

// Sample is one input of a model.
type Sample struct {
	// Features has one row per matrix channel, each row is the channel of
	// protein A followed by the channel of protein B.
	Features [][]float64
	Label    pair.Label
}

// NewSample converts a record to a model input.
func NewSample(r *pair.Record) Sample {
	return Sample{Features: r.Features(), Label: r.Label}
}

// Prediction holds probabilities of both classes.
type Prediction struct {
	Interacting    float64
	NonInteracting float64
}

// Label returns the more probable class.
func (p Prediction) Label() pair.Label {
	if p.Interacting >= p.NonInteracting {
		return pair.Interacting
	}
	return pair.NonInteracting
}

// Model is a trainable binary classifier of protein pairs.
type Model interface {
	// TrainBatch makes one optimization step and returns the mean loss of
	// the batch before the step.
	TrainBatch(batch []Sample) (float64, error)

	// Predict returns class probabilities of a sample.
	Predict(s Sample) (Prediction, error)
}
