package extract

import (
	"sort"

	"github.com/osedata/extract-core/internal/record"
)

// MergeDatasets concatenates per-extractor dataset maps into one table per
// dataset name, preserving arrival order. Every one of the nine datasets
// is present in the result, empty or not.
func MergeDatasets(parts ...map[string]*Table) map[string]*Table {
	merged := make(map[string]*Table, len(DatasetNames))
	for _, name := range DatasetNames {
		merged[name] = &Table{Name: name}
	}
	for _, part := range parts {
		for _, name := range DatasetNames {
			if t := part[name]; !t.Empty() {
				merged[name].Rows = append(merged[name].Rows, t.Rows...)
			}
		}
	}
	return merged
}

// AssembleCatalog fixes the column ordering of every non-empty table:
// identity columns first in their fixed order, remaining columns in
// ascending lexicographic order. Row content is untouched and the
// operation is idempotent; empty tables pass through unchanged.
func AssembleCatalog(tables map[string]*Table) map[string]*Table {
	out := make(map[string]*Table, len(tables))
	for name, t := range tables {
		out[name] = assembleTable(t)
	}
	return out
}

func assembleTable(t *Table) *Table {
	if t.Empty() {
		return &Table{Name: t.Name}
	}

	// Column set is the union across rows: KPI metric columns vary by
	// year, and sinks fill the gaps with the canonical missing value.
	seen := make(map[string]bool)
	var rest []string
	for _, row := range t.Rows {
		for col := range row {
			if !seen[col] {
				seen[col] = true
				rest = append(rest, col)
			}
		}
	}

	identity := make([]string, 0, len(record.IdentityColumns))
	for _, col := range record.IdentityColumns {
		if seen[col] {
			identity = append(identity, col)
		}
	}

	others := rest[:0]
	for _, col := range rest {
		if !isIdentityColumn(col) {
			others = append(others, col)
		}
	}
	sort.Strings(others)

	return &Table{
		Name:    t.Name,
		Columns: append(identity, others...),
		Rows:    t.Rows,
	}
}

func isIdentityColumn(col string) bool {
	for _, c := range record.IdentityColumns {
		if col == c {
			return true
		}
	}
	return false
}
