package sink

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	writerfile "github.com/xitongsys/parquet-go-source/writerfile"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/osedata/extract-core/internal/extract"
)

// Output file formats.
const (
	FormatCSV     = "csv"
	FormatParquet = "parquet"
)

// encodeCSV renders a table as CSV with a header row. Cells missing from a
// row (KPI metric columns vary by year) render as the empty string.
func encodeCSV(t *extract.Table) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	if err := w.Write(t.Columns); err != nil {
		return nil, wrapError(CodeSinkWriteFailed, false, err)
	}
	cells := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, col := range t.Columns {
			cells[i] = formatCell(row.Cell(col))
		}
		if err := w.Write(cells); err != nil {
			return nil, wrapError(CodeSinkWriteFailed, false, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, wrapError(CodeSinkWriteFailed, false, err)
	}
	return buf.Bytes(), nil
}

// encodeParquet renders a table as a SNAPPY-compressed Parquet file.
// Column physical types are inferred from the first typed value observed:
// bools map to BOOLEAN, ints to INT64, everything else to BYTE_ARRAY.
func encodeParquet(t *extract.Table) ([]byte, error) {
	buf := &bytes.Buffer{}
	pfw := writerfile.NewWriterFile(buf)

	pw, err := writer.NewJSONWriter(parquetSchema(t), pfw, 4)
	if err != nil {
		return nil, wrapError(CodeSinkWriteFailed, false, err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	types := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		types[i] = parquetType(t, col)
	}

	for _, row := range t.Rows {
		projected := make(map[string]any, len(t.Columns))
		for i, col := range t.Columns {
			projected[col] = parquetValue(row[col], types[i])
		}
		line, err := json.Marshal(projected)
		if err != nil {
			_ = pw.WriteStop()
			return nil, wrapError(CodeSinkWriteFailed, false, err)
		}
		if err := pw.Write(string(line)); err != nil {
			_ = pw.WriteStop()
			return nil, wrapError(CodeSinkWriteFailed, false, err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return nil, wrapError(CodeSinkWriteFailed, false, err)
	}
	return buf.Bytes(), nil
}

func parquetSchema(t *extract.Table) string {
	fields := make([]map[string]string, 0, len(t.Columns))
	for _, col := range t.Columns {
		fields = append(fields, map[string]string{
			"Tag": fmt.Sprintf("name=%s, type=%s, repetitiontype=OPTIONAL", col, parquetType(t, col)),
		})
	}
	out := map[string]any{
		"Tag":    "name=parquet_go_root, repetitiontype=REQUIRED",
		"Fields": fields,
	}
	b, _ := json.Marshal(out)
	return string(b)
}

// parquetType infers a column's physical type from the first value that
// is not the missing-string sentinel.
func parquetType(t *extract.Table, col string) string {
	for _, row := range t.Rows {
		switch v := row.Cell(col).(type) {
		case bool:
			return "BOOLEAN"
		case int:
			return "INT64"
		case string:
			if v != "" {
				return "BYTE_ARRAY"
			}
		}
	}
	return "BYTE_ARRAY"
}

// parquetValue coerces a cell to the column's physical type. Cells absent
// from the row or incompatible with the inferred type become nulls so the
// OPTIONAL schema absorbs them.
func parquetValue(v any, typ string) any {
	switch typ {
	case "BOOLEAN":
		if b, ok := v.(bool); ok {
			return b
		}
		return nil
	case "INT64":
		switch n := v.(type) {
		case int:
			return n
		case int64:
			return n
		}
		return nil
	default:
		if v == nil {
			return nil
		}
		return formatCell(v)
	}
}

func formatCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}
