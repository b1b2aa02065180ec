package iofetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/gnames/anu/internal/iofs"
	"github.com/gnames/anu/pkg/fetch"
	"github.com/gnames/gnfmt"
)

type zenodoRecord struct {
	Files []struct {
		Key   string `json:"key"`
		Size  int64  `json:"size"`
		Links struct {
			Self string `json:"self"`
		} `json:"links"`
	} `json:"files"`
}

// zenodo downloads files of Zenodo records.
type zenodo struct {
	client  *http.Client
	baseURL string
	timeout time.Duration
	// bar shows download progress if not nil.
	bar *pb.ProgressBar
}

// NewZenodo creates a downloader for the Zenodo records API at baseURL.
// Download progress goes to bar, which can be nil.
func NewZenodo(baseURL string, timeout int, bar *pb.ProgressBar) fetch.Downloader {
	return &zenodo{
		// files are large, timeout applies to the metadata request only
		client:  &http.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: time.Duration(timeout) * time.Second,
		bar:     bar,
	}
}

// Download implements fetch.Downloader.
func (z *zenodo) Download(
	ctx context.Context,
	recordID, file, dir string,
) (string, error) {
	link, size, err := z.fileLink(ctx, recordID, file)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", DownloadError(link, err)
	}
	resp, err := z.client.Do(req)
	if err != nil {
		return "", DownloadError(link, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", DownloadError(link, fmt.Errorf("status %d", resp.StatusCode))
	}

	var body io.Reader = resp.Body
	if z.bar != nil {
		if resp.ContentLength > 0 {
			size = resp.ContentLength
		}
		z.bar.SetTotal(size)
		body = z.bar.NewProxyReader(resp.Body)
	}

	path := filepath.Join(dir, file)
	err = iofs.WriteAtomic(path, func(tmp string) error {
		f, err := os.Create(tmp)
		if err != nil {
			return err
		}
		defer f.Close()
		if _, err = io.Copy(f, body); err != nil {
			return err
		}
		return f.Close()
	})
	if err != nil {
		return "", DownloadError(link, err)
	}
	return path, nil
}

// fileLink finds the download link of a file in a record.
func (z *zenodo) fileLink(
	ctx context.Context,
	recordID, file string,
) (string, int64, error) {
	u := fmt.Sprintf("%s/%s", z.baseURL, recordID)
	ctx, cancel := context.WithTimeout(ctx, z.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", 0, RequestError(u, err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := z.client.Do(req)
	if err != nil {
		return "", 0, RequestError(u, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", 0, RequestError(u, fmt.Errorf("status %d", resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, RequestError(u, err)
	}
	var rec zenodoRecord
	enc := gnfmt.GNjson{}
	if err = enc.Decode(data, &rec); err != nil {
		return "", 0, RequestError(u, err)
	}
	if len(rec.Files) == 0 {
		return "", 0, RequestError(u, fmt.Errorf("record %s has no files", recordID))
	}

	for _, v := range rec.Files {
		if v.Key == file {
			return v.Links.Self, v.Size, nil
		}
	}
	return rec.Files[0].Links.Self, rec.Files[0].Size, nil
}
