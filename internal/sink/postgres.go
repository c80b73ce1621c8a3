package sink

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/rs/zerolog"

	"github.com/osedata/extract-core/internal/config"
	"github.com/osedata/extract-core/internal/extract"
)

// insertBatchRows caps the number of rows per multi-value INSERT so the
// statement stays under the driver's parameter limit.
const insertBatchRows = 500

// PostgresSink loads each table into a Postgres relation, replacing any
// previous load. Identity and text columns are TEXT; flags are BOOLEAN
// and counts BIGINT, inferred the same way as the Parquet schema.
type PostgresSink struct {
	db     *sql.DB
	schema string
	log    zerolog.Logger
}

// NewPostgresSink opens a connection pool for the configured DSN.
func NewPostgresSink(cfg config.PostgresConfig, log zerolog.Logger) (*PostgresSink, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, wrapError(CodeEndpointUnreachable, true, err)
	}
	schema := cfg.Schema
	if schema == "" {
		schema = "public"
	}
	return &PostgresSink{
		db:     db,
		schema: schema,
		log:    log.With().Str("sink", "postgres").Logger(),
	}, nil
}

// Close releases the connection pool.
func (s *PostgresSink) Close() error { return s.db.Close() }

// Write recreates and fills one relation per non-empty table.
func (s *PostgresSink) Write(ctx context.Context, tables map[string]*extract.Table) (*Result, error) {
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", quoteIdent(s.schema))); err != nil {
		return nil, wrapError(CodeSinkWriteFailed, true, err)
	}

	result := &Result{Artifacts: make(map[string]string)}
	for _, name := range extract.DatasetNames {
		t := tables[name]
		if t.Empty() {
			continue
		}
		if err := s.writeTable(ctx, t); err != nil {
			return nil, err
		}
		result.Artifacts[name] = fmt.Sprintf("%s.%s", s.schema, name)
		result.Rows += int64(len(t.Rows))
		s.log.Debug().Str("dataset", name).Int("rows", len(t.Rows)).Msg("loaded table")
	}
	return result, nil
}

func (s *PostgresSink) writeTable(ctx context.Context, t *extract.Table) error {
	rel := fmt.Sprintf("%s.%s", quoteIdent(s.schema), quoteIdent(t.Name))

	if _, err := s.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+rel); err != nil {
		return wrapError(CodeSinkWriteFailed, true, err)
	}

	defs := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		defs[i] = quoteIdent(col) + " " + sqlType(t, col)
	}
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", rel, strings.Join(defs, ", "))); err != nil {
		return wrapError(CodeSinkWriteFailed, true, err)
	}

	cols := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		cols[i] = quoteIdent(col)
	}
	colList := strings.Join(cols, ", ")

	for start := 0; start < len(t.Rows); start += insertBatchRows {
		end := start + insertBatchRows
		if end > len(t.Rows) {
			end = len(t.Rows)
		}
		if err := s.insertBatch(ctx, rel, colList, t, t.Rows[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresSink) insertBatch(ctx context.Context, rel, colList string, t *extract.Table, rows []extract.Row) error {
	placeholders := make([]string, 0, len(rows))
	args := make([]any, 0, len(rows)*len(t.Columns))

	n := 1
	for _, row := range rows {
		slots := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			slots[i] = fmt.Sprintf("$%d", n)
			args = append(args, sqlValue(row[col]))
			n++
		}
		placeholders = append(placeholders, "("+strings.Join(slots, ", ")+")")
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s", rel, colList, strings.Join(placeholders, ", "))
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return wrapError(CodeSinkWriteFailed, true, err)
	}
	return nil
}

func sqlType(t *extract.Table, col string) string {
	switch parquetType(t, col) {
	case "BOOLEAN":
		return "BOOLEAN"
	case "INT64":
		return "BIGINT"
	default:
		return "TEXT"
	}
}

// sqlValue maps cells to driver values; absent or type-mismatched cells
// become NULLs.
func sqlValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string, bool, int, int64:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
