// subset-pairs extracts a small representative subset from a large
// database of protein pairs.
//
// The subset keeps the header, rows with empty identifiers (they must be
// dropped by 'anu prepare tables') and rows sampled evenly across the
// whole file.
//
// Usage:
//
//	go run . <source> <output> [rows]
//
// Examples:
//
//	go run . ~/.local/share/anu/data/raw/pickle/interacting-protein.txt ../../testdata/pickle-subset.txt
//	go run . /path/to/non-interacting-protein.txt ../../testdata/negatome-subset.txt 200
package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

const (
	// Default number of sampled rows
	targetRows = 1000

	// Maximum number of rows with empty identifiers
	maxEdgeCaseRows = 50
)

func main() {
	if len(os.Args) < 3 || len(os.Args) > 4 {
		fmt.Fprintf(os.Stderr, "Usage: %s <source> <output> [rows]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Arguments:\n")
		fmt.Fprintf(os.Stderr, "  source  tab-separated database of pairs with a header\n")
		fmt.Fprintf(os.Stderr, "  output  path of the subset file\n")
		fmt.Fprintf(os.Stderr, "  rows    number of sampled rows (default %d)\n", targetRows)
		os.Exit(1)
	}

	sourcePath := os.Args[1]
	outputPath := os.Args[2]
	rows := targetRows
	if len(os.Args) == 4 {
		var err error
		rows, err = strconv.Atoi(os.Args[3])
		if err != nil || rows < 1 {
			fmt.Fprintf(os.Stderr, "rows must be a positive number: %s\n", os.Args[3])
			os.Exit(1)
		}
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	logger.Info("starting subset extraction",
		"source", sourcePath,
		"target_size", rows,
		"output", outputPath,
	)

	total, err := countRows(sourcePath)
	if err != nil {
		logger.Error("cannot read source", "error", err)
		os.Exit(1)
	}

	written, err := createSubset(sourcePath, outputPath, total, rows)
	if err != nil {
		logger.Error("subset extraction failed", "error", err)
		os.Exit(1)
	}

	logger.Info("subset extraction complete",
		"source_rows", humanize.Comma(int64(total)),
		"subset_rows", humanize.Comma(int64(written)),
		"output", outputPath,
	)
}

// countRows returns the number of data rows without the header.
func countRows(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var res int
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 1024*1024), 16*1024*1024)
	for sc.Scan() {
		res++
	}
	if err = sc.Err(); err != nil {
		return 0, err
	}
	if res > 0 {
		res--
	}
	return res, nil
}

func createSubset(src, out string, total, rows int) (int, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	f, err := os.Create(out)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	step := max(total/rows, 1)

	var written, edge, i int
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 1024*1024), 16*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if i == 0 {
			if _, err = fmt.Fprintln(w, line); err != nil {
				return 0, err
			}
			i++
			continue
		}

		keep := (i-1)%step == 0 && written-edge < rows
		if !keep && edge < maxEdgeCaseRows && hasEmptyField(line) {
			keep = true
			edge++
		}
		if keep {
			if _, err = fmt.Fprintln(w, line); err != nil {
				return 0, err
			}
			written++
		}
		i++
	}
	if err = sc.Err(); err != nil {
		return 0, err
	}

	return written, w.Flush()
}

func hasEmptyField(line string) bool {
	for _, v := range strings.Split(line, "\t") {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}
