// Package extract implements the record-to-table extraction engine: the
// company, article and signal extractors, the KPI year expansion, and the
// catalog assembly that fixes column and row ordering on the nine output
// datasets.
package extract

import (
	"github.com/osedata/extract-core/internal/record"
)

// Row maps column names to scalar cell values. Cells are strings, bools or
// ints; the empty string is the canonical missing value for text columns.
type Row map[string]any

// Table is an ordered sequence of rows sharing one schema. Columns is
// populated by the catalog assembler; until then only Rows is meaningful.
type Table struct {
	Name    string
	Columns []string
	Rows    []Row
}

// Empty reports whether the table holds no rows.
func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// Cell returns the row's value for a column, with the empty string
// standing in for cells the row never produced.
func (r Row) Cell(col string) any {
	if v, ok := r[col]; ok {
		return v
	}
	return ""
}

// BatchExtractor consumes record batches and accumulates partial tables.
// Implementations are single-owner: one instance per input stream, no
// concurrent use.
type BatchExtractor interface {
	// ExtractBatch processes one batch of raw records. It never fails;
	// per-record degradation is handled inside the extractor.
	ExtractBatch(batch []record.Record)

	// Datasets concatenates the accumulated partial tables, one per
	// dataset name this extractor produces.
	Datasets() map[string]*Table
}

// partialSet is the append-only buffer of per-batch partial tables. Rows
// are appended batch by batch and concatenated exactly once at
// finalization, preserving batch arrival order.
type partialSet map[string][][]Row

func (p partialSet) add(name string, rows []Row) {
	if len(rows) == 0 {
		return
	}
	p[name] = append(p[name], rows)
}

func (p partialSet) table(name string) *Table {
	t := &Table{Name: name}
	for _, part := range p[name] {
		t.Rows = append(t.Rows, part...)
	}
	return t
}
