// Package fetch defines how structure files are obtained from remote
// repositories.
package fetch

import "context"

// Fetcher downloads a structure file by protein identifier.
//
// Status is the HTTP status of the final response. Only status 200 is a
// successful download. Err is returned for transport failures (connection
// errors, timeouts, cancelled context) when no response was received.
type Fetcher interface {
	Fetch(ctx context.Context, id string) (data []byte, status int, err error)
}

// Downloader saves remote files to disk.
type Downloader interface {
	// Download saves a file of a Zenodo record into dir and returns the
	// path of the saved file. If the record has no file with the given
	// name, its first file is saved under that name.
	Download(ctx context.Context, recordID, file, dir string) (string, error)
}
