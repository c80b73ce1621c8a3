// Package loader streams JSONL input files as batches of raw records.
// Batches are materialized fully before being handed to extractors; the
// extraction core never touches the filesystem.
package loader

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"

	"github.com/osedata/extract-core/internal/record"
)

const (
	// DefaultChunkSize is the number of lines materialized per batch.
	DefaultChunkSize = 10000

	initialLineBuf = 1 << 20 // 1 MiB
	maxLineBuf     = 64 << 20
)

// Loader reads JSONL files in fixed-size chunks. Lines in Elasticsearch
// export format ({"_source": {...}}) are unwrapped to the inner document.
type Loader struct {
	ChunkSize int
	// ShowProgress renders a terminal progress bar over the file size.
	ShowProgress bool

	log zerolog.Logger
}

// New creates a loader with the given chunk size (0 means default).
func New(chunkSize int, log zerolog.Logger) *Loader {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Loader{ChunkSize: chunkSize, log: log.With().Str("component", "loader").Logger()}
}

// Open starts streaming a file. The caller owns the returned iterator and
// must Close it.
func (l *Loader) Open(path string) (*ChunkIterator, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input %s: %w", path, err)
	}

	var bar *progressbar.ProgressBar
	if l.ShowProgress {
		size := int64(-1)
		if info, statErr := f.Stat(); statErr == nil {
			size = info.Size()
		}
		bar = progressbar.DefaultBytes(size, "reading "+path)
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, initialLineBuf), maxLineBuf)

	return &ChunkIterator{
		f:         f,
		scanner:   scanner,
		chunkSize: l.ChunkSize,
		bar:       bar,
		log:       l.log.With().Str("path", path).Logger(),
	}, nil
}

// ChunkIterator provides streaming access to record batches.
type ChunkIterator struct {
	f         *os.File
	scanner   *bufio.Scanner
	chunkSize int
	bar       *progressbar.ProgressBar
	log       zerolog.Logger

	cur       []record.Record
	err       error
	lines     int
	malformed int
	done      bool
}

// Next advances to the next batch. Returns false when the input is
// exhausted or on error.
func (it *ChunkIterator) Next() bool {
	if it.done || it.err != nil {
		return false
	}

	batch := make([]record.Record, 0, it.chunkSize)
	for len(batch) < it.chunkSize && it.scanner.Scan() {
		line := it.scanner.Bytes()
		it.lines++
		if it.bar != nil {
			_ = it.bar.Add(len(line) + 1)
		}
		if len(line) == 0 {
			continue
		}

		var rec record.Record
		if err := json.Unmarshal(line, &rec); err != nil {
			it.malformed++
			it.log.Warn().Int("line", it.lines).Err(err).Msg("skipping malformed line")
			continue
		}
		batch = append(batch, unwrapSource(rec))
	}

	if err := it.scanner.Err(); err != nil {
		it.err = fmt.Errorf("read input: %w", err)
		return false
	}
	if len(batch) == 0 {
		it.done = true
		return false
	}

	it.cur = batch
	if len(batch) < it.chunkSize {
		it.done = true
	}
	return true
}

// Value returns the current batch. Only valid after Next() returns true.
func (it *ChunkIterator) Value() []record.Record { return it.cur }

// Err returns any error encountered during iteration.
func (it *ChunkIterator) Err() error { return it.err }

// Lines reports how many input lines were consumed so far.
func (it *ChunkIterator) Lines() int { return it.lines }

// Malformed reports how many lines failed to parse and were skipped.
func (it *ChunkIterator) Malformed() int { return it.malformed }

// Close releases the underlying file.
func (it *ChunkIterator) Close() error {
	if it.bar != nil {
		_ = it.bar.Finish()
	}
	return it.f.Close()
}

// unwrapSource extracts the document from an Elasticsearch export line.
// Lines whose _source is not an object are passed through as-is.
func unwrapSource(rec record.Record) record.Record {
	if src, ok := rec["_source"].(map[string]any); ok {
		return src
	}
	return rec
}
