// Package sink persists finalized tables. The extraction core hands over
// fully materialized tables; sinks own serialization and destination
// concerns (local files, object storage, Postgres).
package sink

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/osedata/extract-core/internal/config"
	"github.com/osedata/extract-core/internal/extract"
)

// Error codes for sink failures.
const (
	CodeSinkWriteFailed     = "E_SINK_WRITE_FAILED"
	CodeBucketNotFound      = "E_BUCKET_NOT_FOUND"
	CodeObjectNotFound      = "E_OBJECT_NOT_FOUND"
	CodeEndpointUnreachable = "E_ENDPOINT_UNREACHABLE"
	CodeAuthInvalid         = "E_AUTH_INVALID"
)

// Error wraps sink failures with a structured code and retryability hint.
type Error struct {
	Code      string
	Retryable bool
	Err       error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code
}

func (e *Error) Unwrap() error { return e.Err }

func wrapError(code string, retryable bool, err error) *Error {
	return &Error{Code: code, Retryable: retryable, Err: err}
}

// Result summarizes a persistence run.
type Result struct {
	// Artifacts maps dataset names to the location written.
	Artifacts map[string]string
	Rows      int64
	Bytes     int64
}

// Sink persists the nine finalized tables.
type Sink interface {
	Write(ctx context.Context, tables map[string]*extract.Table) (*Result, error)
}

// New builds the sink selected by the configuration. runID partitions
// object-store artifacts so repeated runs never overwrite each other.
func New(cfg config.SinkConfig, outputDir, runID string, log zerolog.Logger) (Sink, error) {
	switch cfg.Kind {
	case "csv":
		return NewFileSink(outputDir, FormatCSV, log), nil
	case "parquet":
		return NewFileSink(outputDir, FormatParquet, log), nil
	case "object":
		store, err := NewS3Client(cfg.Object)
		if err != nil {
			return nil, err
		}
		return NewObjectStoreSink(store, cfg.Object.Bucket, cfg.Object.BasePrefix, runID, log), nil
	case "postgres":
		return NewPostgresSink(cfg.Postgres, log)
	default:
		return nil, fmt.Errorf("unknown sink kind %q", cfg.Kind)
	}
}
