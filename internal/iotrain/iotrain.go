// Package iotrain implements the Trainer interface. It fits a linear model
// on final input tables of datasets. Records are read from tables batch by
// batch, only their locations are kept in memory.
package iotrain

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/anu/internal/iofs"
	"github.com/gnames/anu/internal/iotable"
	"github.com/gnames/anu/pkg/anu"
	"github.com/gnames/anu/pkg/config"
	"github.com/gnames/anu/pkg/datasets"
	"github.com/gnames/anu/pkg/model"
	"github.com/gnames/anu/pkg/pair"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
)

// Shares of records used for training and testing, the rest is used for
// validation.
const (
	trainShare = 0.7
	testShare  = 0.2
)

// ref points to a record in one of tables.
type ref struct {
	table int
	idx   int
}

type trainer struct {
	cfg    *config.Config
	tables []*iotable.Table
	rng    *rand.Rand
}

// New creates a Trainer.
func New(cfg *config.Config) anu.Trainer {
	seed := uint64(cfg.Train.Seed)
	return &trainer{cfg: cfg, rng: rand.New(rand.NewPCG(seed, seed))}
}

// Train implements anu.Trainer.
func (t *trainer) Train(
	ctx context.Context,
	dss []datasets.Dataset,
) (*anu.TrainSummary, error) {
	start := time.Now()
	defer t.close()

	refs, maxLen, err := t.open(ctx, dss)
	if err != nil {
		return nil, err
	}

	t.rng.Shuffle(len(refs), func(i, j int) { refs[i], refs[j] = refs[j], refs[i] })
	nTrain := int(float64(len(refs)) * trainShare)
	nTest := int(float64(len(refs)) * testShare)
	if nTrain == 0 {
		return nil, NotEnoughRecordsError(len(refs))
	}
	train := refs[:nTrain]
	test := refs[nTrain : nTrain+nTest]
	validation := refs[nTrain+nTest:]

	res := &anu.TrainSummary{
		Train:      len(train),
		Test:       len(test),
		Validation: len(validation),
		ModelPath:  t.cfg.ModelPath(),
	}
	slog.Info("Starting training",
		"records", len(refs),
		"train", res.Train,
		"test", res.Test,
		"validation", res.Validation,
		"max_len", maxLen,
		"epochs", t.cfg.Train.Epochs,
		"batch_size", t.cfg.Train.BatchSize,
	)

	m := model.NewLinear(maxLen, t.cfg.Train.LearningRate)
	for epoch := 1; epoch <= t.cfg.Train.Epochs; epoch++ {
		loss, err := t.epoch(ctx, m, train, epoch)
		if err != nil {
			return nil, err
		}
		res.Loss = loss
		slog.Info("Epoch finished", "epoch", epoch, "loss", loss)
	}

	if res.TestAccuracy, err = t.accuracy(ctx, m, test); err != nil {
		return nil, err
	}
	if res.ValidationAccuracy, err = t.accuracy(ctx, m, validation); err != nil {
		return nil, err
	}

	if err = SaveModel(res.ModelPath, m); err != nil {
		return nil, err
	}

	dur := time.Since(start)
	slog.Info("Training finished",
		"loss", res.Loss,
		"test_accuracy", res.TestAccuracy,
		"validation_accuracy", res.ValidationAccuracy,
		"model", res.ModelPath,
		"duration", gnfmt.TimeString(dur.Seconds()),
	)
	gn.Info(`Training complete on %s records
Loss: %.4f, test accuracy: %.3f, validation accuracy: %.3f
Model: <em>%s</em>
Elapsed time: <em>%s</em>`,
		humanize.Comma(int64(res.Train)),
		res.Loss, res.TestAccuracy, res.ValidationAccuracy,
		res.ModelPath,
		gnfmt.TimeString(dur.Seconds()),
	)
	return res, nil
}

// open opens final tables of datasets and returns locations of all
// records.
func (t *trainer) open(
	ctx context.Context,
	dss []datasets.Dataset,
) ([]ref, int, error) {
	var refs []ref
	maxLen := -1
	for _, ds := range dss {
		path := t.cfg.InputTablePath(ds.Name)
		if !iofs.Exists(path) {
			return nil, 0, NoInputError(ds.Name, path)
		}
		tbl, err := iotable.Open(path)
		if err != nil {
			return nil, 0, err
		}
		t.tables = append(t.tables, tbl)
		if maxLen < 0 {
			maxLen = tbl.MaxLen()
		}
		if tbl.MaxLen() != maxLen {
			exp := pair.NewSchema(maxLen).Signature()
			got := pair.NewSchema(tbl.MaxLen()).Signature()
			return nil, 0, iotable.SchemaMismatchError(path, exp, got)
		}

		idxs, err := tbl.Indices(ctx)
		if err != nil {
			return nil, 0, err
		}
		for _, idx := range idxs {
			refs = append(refs, ref{table: len(t.tables) - 1, idx: idx})
		}
		slog.Info("Opened input table",
			"dataset", ds.Name, "records", len(idxs), "path", path)
	}
	return refs, maxLen, nil
}

func (t *trainer) epoch(
	ctx context.Context,
	m model.Model,
	train []ref,
	epoch int,
) (float64, error) {
	t.rng.Shuffle(len(train), func(i, j int) { train[i], train[j] = train[j], train[i] })
	size := max(t.cfg.Train.BatchSize, 1)

	bar := pb.Full.Start(len(train))
	bar.Set("prefix", fmt.Sprintf("Epoch %d: ", epoch))
	bar.Set(pb.CleanOnFinish, true)
	defer bar.Finish()

	var sum float64
	var batches int
	for i := 0; i < len(train); i += size {
		select {
		case <-ctx.Done():
			return 0, CancelledError(ctx.Err())
		default:
		}

		batch, err := t.samples(ctx, train[i:min(i+size, len(train))])
		if err != nil {
			return 0, err
		}
		loss, err := m.TrainBatch(batch)
		if err != nil {
			return 0, ModelTrainError(err)
		}
		sum += loss
		batches++
		bar.Add(len(batch))
	}
	if batches == 0 {
		return 0, nil
	}
	return sum / float64(batches), nil
}

func (t *trainer) accuracy(
	ctx context.Context,
	m model.Model,
	refs []ref,
) (float64, error) {
	if len(refs) == 0 {
		return 0, nil
	}
	var correct int
	for _, r := range refs {
		samples, err := t.samples(ctx, []ref{r})
		if err != nil {
			return 0, err
		}
		p, err := m.Predict(samples[0])
		if err != nil {
			return 0, ModelTrainError(err)
		}
		if p.Label() == samples[0].Label {
			correct++
		}
	}
	return float64(correct) / float64(len(refs)), nil
}

func (t *trainer) samples(ctx context.Context, refs []ref) ([]model.Sample, error) {
	res := make([]model.Sample, len(refs))
	for i, r := range refs {
		rec, err := t.tables[r.table].Row(ctx, r.idx)
		if err != nil {
			return nil, err
		}
		res[i] = model.NewSample(rec)
	}
	return res, nil
}

func (t *trainer) close() {
	for _, v := range t.tables {
		v.Close()
	}
	t.tables = nil
}
