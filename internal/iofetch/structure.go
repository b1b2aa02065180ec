// Package iofetch downloads structure files and databases of protein
// pairs.
package iofetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gnames/anu/pkg/config"
	"github.com/gnames/anu/pkg/fetch"
)

// structureFetcher downloads PDB files over HTTP.
type structureFetcher struct {
	client  *http.Client
	baseURL string
	retries int
	// backoff is the pause before the first retry, it doubles
	// with every attempt.
	backoff time.Duration
}

// NewFetcher creates a fetcher of structure files from the source set in
// the configuration.
func NewFetcher(cfg *config.Config) fetch.Fetcher {
	base := cfg.Fetch.SwissModelURL
	if cfg.Fetch.Source == "rcsb" {
		base = cfg.Fetch.RCSBURL
	}
	return &structureFetcher{
		client:  &http.Client{Timeout: time.Duration(cfg.Fetch.Timeout) * time.Second},
		baseURL: strings.TrimRight(base, "/"),
		retries: cfg.Fetch.Retries,
		backoff: time.Second,
	}
}

// Fetch implements fetch.Fetcher. Transport errors are retried, any
// received response is final.
func (f *structureFetcher) Fetch(
	ctx context.Context,
	id string,
) ([]byte, int, error) {
	u := fmt.Sprintf("%s/%s.pdb", f.baseURL, url.PathEscape(id))

	var err error
	pause := f.backoff
	for attempt := 0; attempt <= f.retries; attempt++ {
		if attempt > 0 {
			slog.Warn("Retrying download", "id", id, "attempt", attempt, "error", err)
			select {
			case <-ctx.Done():
				return nil, 0, ctx.Err()
			case <-time.After(pause):
			}
			pause *= 2
		}

		var body []byte
		var status int
		body, status, err = f.get(ctx, u)
		if err == nil {
			return body, status, nil
		}
		if ctx.Err() != nil {
			return nil, 0, ctx.Err()
		}
	}
	return nil, 0, err
}

func (f *structureFetcher) get(ctx context.Context, u string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// drain for connection reuse
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
		return nil, resp.StatusCode, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	if len(body) == 0 {
		return nil, resp.StatusCode, errors.New("empty response body")
	}
	return body, resp.StatusCode, nil
}
