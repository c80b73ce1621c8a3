package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/osedata/extract-core/internal/extract"
)

// FileSink writes each table as one file under an output directory,
// created on demand. Empty tables still produce a header-only file so the
// downstream dataset layout is always complete.
type FileSink struct {
	dir    string
	format string
	log    zerolog.Logger
}

// NewFileSink creates a local file sink for the given format.
func NewFileSink(dir, format string, log zerolog.Logger) *FileSink {
	return &FileSink{
		dir:    dir,
		format: format,
		log:    log.With().Str("sink", "file").Str("format", format).Logger(),
	}
}

// Write persists every table under the output directory.
func (s *FileSink) Write(ctx context.Context, tables map[string]*extract.Table) (*Result, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, wrapError(CodeSinkWriteFailed, false, err)
	}

	result := &Result{Artifacts: make(map[string]string, len(extract.DatasetNames))}
	for _, name := range extract.DatasetNames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t := tables[name]
		if t == nil {
			t = &extract.Table{Name: name}
		}

		data, err := s.encode(t)
		if err != nil {
			return nil, err
		}

		path := filepath.Join(s.dir, fmt.Sprintf("%s.%s", name, s.format))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, wrapError(CodeSinkWriteFailed, false, err)
		}

		result.Artifacts[name] = path
		result.Rows += int64(len(t.Rows))
		result.Bytes += int64(len(data))
		s.log.Debug().Str("dataset", name).Int("rows", len(t.Rows)).Str("path", path).Msg("wrote table")
	}
	return result, nil
}

func (s *FileSink) encode(t *extract.Table) ([]byte, error) {
	if s.format == FormatParquet {
		return encodeParquet(t)
	}
	return encodeCSV(t)
}
