// Package iopredict implements the Predictor interface. It takes two
// proteins as local PDB files or as identifiers of remote structures and
// estimates their interaction with a trained model.
package iopredict

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gnames/anu/internal/iobuild"
	"github.com/gnames/anu/internal/iofetch"
	"github.com/gnames/anu/internal/iofs"
	"github.com/gnames/anu/internal/iotrain"
	"github.com/gnames/anu/pkg/anu"
	"github.com/gnames/anu/pkg/config"
	"github.com/gnames/anu/pkg/fetch"
	"github.com/gnames/anu/pkg/model"
	"github.com/gnames/anu/pkg/pair"
	"github.com/gnames/gnfmt"
)

// Mode tells how proteins are given to the predictor.
type Mode int

const (
	// ModePath means arguments are paths to PDB files.
	ModePath Mode = iota
	// ModePDB means arguments are RCSB PDB identifiers.
	ModePDB
	// ModeUniProt means arguments are UniProt accessions of SWISS-MODEL
	// structures.
	ModeUniProt
)

// NewMode converts a mode name to Mode.
func NewMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "path", "":
		return ModePath, nil
	case "pdb":
		return ModePDB, nil
	case "uniprot":
		return ModeUniProt, nil
	}
	return ModePath, fmt.Errorf("unknown mode '%s', use path, pdb or uniprot", s)
}

func (m Mode) String() string {
	switch m {
	case ModePDB:
		return "pdb"
	case ModeUniProt:
		return "uniprot"
	}
	return "path"
}

const memoFile = "downloaded.json"

type predictor struct {
	cfg     *config.Config
	mode    Mode
	fetcher fetch.Fetcher
	enc     gnfmt.GNjson
}

// New creates a Predictor. For ModePDB and ModeUniProt structures are
// downloaded from RCSB or SWISS-MODEL into the user directory once.
func New(cfg *config.Config, mode Mode) anu.Predictor {
	res := predictor{cfg: cfg, mode: mode, enc: gnfmt.GNjson{Pretty: true}}
	if mode != ModePath {
		fcfg := *cfg
		fcfg.Fetch.Source = "swissmodel"
		if mode == ModePDB {
			fcfg.Fetch.Source = "rcsb"
		}
		res.fetcher = iofetch.NewFetcher(&fcfg)
	}
	return &res
}

// Predict implements anu.Predictor.
func (p *predictor) Predict(
	ctx context.Context,
	a, b string,
) (model.Prediction, error) {
	var res model.Prediction
	m, err := iotrain.LoadModel(p.cfg.ModelPath())
	if err != nil {
		return res, err
	}

	pathA, err := p.structurePath(ctx, a)
	if err != nil {
		return res, err
	}
	pathB, err := p.structurePath(ctx, b)
	if err != nil {
		return res, err
	}

	ma, tr, err := iobuild.BuildMatrix(pathA, a, m.MaxLen)
	if err != nil {
		return res, err
	}
	if tr != nil {
		slog.Warn("Structure is longer than model input", "id", a, "max_len", m.MaxLen)
	}
	mb, tr, err := iobuild.BuildMatrix(pathB, b, m.MaxLen)
	if err != nil {
		return res, err
	}
	if tr != nil {
		slog.Warn("Structure is longer than model input", "id", b, "max_len", m.MaxLen)
	}

	rec, err := pair.Assemble(ma, mb, pair.Unlabeled)
	if err != nil {
		return res, err
	}
	res, err = m.Predict(model.NewSample(rec))
	if err != nil {
		return res, iotrain.ModelTrainError(err)
	}
	slog.Info("Prediction",
		"protein_a", a,
		"protein_b", b,
		"interacting", res.Interacting,
		"non_interacting", res.NonInteracting,
	)
	return res, nil
}

// structurePath returns a local path to the structure of a protein,
// downloading it if needed.
func (p *predictor) structurePath(ctx context.Context, s string) (string, error) {
	if p.mode == ModePath {
		return s, nil
	}

	memoPath := filepath.Join(p.cfg.UserDir(), memoFile)
	memo, err := p.readMemo(memoPath)
	if err != nil {
		return "", err
	}
	if path, ok := memo[s]; ok && iofs.Exists(path) {
		return path, nil
	}

	data, status, err := p.fetcher.Fetch(ctx, s)
	if err == nil && status != http.StatusOK {
		err = fmt.Errorf("status %d", status)
	}
	if err != nil {
		return "", DownloadError(s, p.mode, err)
	}

	path := filepath.Join(p.cfg.UserDir(), s+".pdb")
	if err = iofs.WriteFileAtomic(path, data); err != nil {
		return "", err
	}
	memo[s] = path
	if err = p.writeMemo(memoPath, memo); err != nil {
		return "", err
	}
	return path, nil
}

func (p *predictor) readMemo(path string) (map[string]string, error) {
	res := make(map[string]string)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return res, nil
	}
	if err != nil {
		return nil, iofs.ReadFileError(path, err)
	}
	if err = p.enc.Decode(data, &res); err != nil {
		return nil, iofs.ReadFileError(path, err)
	}
	return res, nil
}

func (p *predictor) writeMemo(path string, memo map[string]string) error {
	data, err := p.enc.Encode(memo)
	if err != nil {
		return iofs.WriteFileError(path, err)
	}
	return iofs.WriteFileAtomic(path, data)
}
