package model

import (
	"fmt"
	"math"

	"github.com/gnames/anu/pkg/matrix"
	"github.com/gnames/anu/pkg/pair"
)

// channelScale brings channels to similar ranges.
var channelScale = [matrix.NumChannels]float64{
	matrix.Seq:              20,
	matrix.XPos:             100,
	matrix.YPos:             100,
	matrix.ZPos:             100,
	matrix.Hydropathy:       3,
	matrix.HydropathyIndex:  4.5,
	matrix.AcidityBasicity:  3,
	matrix.Mass:             200,
	matrix.IsoelectricPoint: 14,
	matrix.Charge:           3,
}

// Linear is a softmax regression over all matrix values.
// Fields are exported for serialization.
type Linear struct {
	MaxLen       int
	LearningRate float64
	// Weights of the interacting and non-interacting classes.
	Weights [2][]float64
	Bias    [2]float64
}

// NewLinear creates an untrained model for records of the given length.
func NewLinear(maxLen int, learningRate float64) *Linear {
	size := matrix.NumChannels * 2 * maxLen
	return &Linear{
		MaxLen:       maxLen,
		LearningRate: learningRate,
		Weights:      [2][]float64{make([]float64, size), make([]float64, size)},
	}
}

// TrainBatch implements Model.
func (l *Linear) TrainBatch(batch []Sample) (float64, error) {
	if len(batch) == 0 {
		return 0, nil
	}
	size := len(l.Weights[0])
	var grad [2][]float64
	grad[0] = make([]float64, size)
	grad[1] = make([]float64, size)
	var gradBias [2]float64
	var loss float64

	for _, s := range batch {
		target := s.Label.OneHot()
		if target == nil {
			return 0, fmt.Errorf("sample has no label")
		}
		x, err := l.flatten(s)
		if err != nil {
			return 0, err
		}
		p := l.probabilities(x)
		loss -= math.Log(math.Max(p[classIndex(s.Label)], 1e-12))
		for k := range 2 {
			d := p[k] - target[k]
			gradBias[k] += d
			for i, v := range x {
				if v != 0 {
					grad[k][i] += d * v
				}
			}
		}
	}

	n := float64(len(batch))
	for k := range 2 {
		l.Bias[k] -= l.LearningRate * gradBias[k] / n
		for i := range grad[k] {
			l.Weights[k][i] -= l.LearningRate * grad[k][i] / n
		}
	}
	return loss / n, nil
}

// Predict implements Model.
func (l *Linear) Predict(s Sample) (Prediction, error) {
	x, err := l.flatten(s)
	if err != nil {
		return Prediction{}, err
	}
	p := l.probabilities(x)
	return Prediction{Interacting: p[0], NonInteracting: p[1]}, nil
}

func (l *Linear) flatten(s Sample) ([]float64, error) {
	if len(s.Features) != matrix.NumChannels {
		return nil, fmt.Errorf("sample has %d channels instead of %d",
			len(s.Features), matrix.NumChannels)
	}
	width := 2 * l.MaxLen
	res := make([]float64, 0, matrix.NumChannels*width)
	for i, row := range s.Features {
		if len(row) != width {
			return nil, fmt.Errorf("channel %s has %d values instead of %d",
				matrix.Channel(i), len(row), width)
		}
		for _, v := range row {
			res = append(res, v/channelScale[i])
		}
	}
	return res, nil
}

func (l *Linear) probabilities(x []float64) [2]float64 {
	var z [2]float64
	for k := range 2 {
		z[k] = l.Bias[k]
		for i, v := range x {
			z[k] += l.Weights[k][i] * v
		}
	}
	m := math.Max(z[0], z[1])
	e0, e1 := math.Exp(z[0]-m), math.Exp(z[1]-m)
	sum := e0 + e1
	return [2]float64{e0 / sum, e1 / sum}
}

func classIndex(l pair.Label) int {
	if l == pair.Interacting {
		return 0
	}
	return 1
}
