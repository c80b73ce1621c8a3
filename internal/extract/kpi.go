package extract

import (
	"encoding/json"
	"math"

	"github.com/osedata/extract-core/internal/record"
)

// =============================================================================
// KPI EXPANSION
// A company record may carry a year-keyed KPI mapping in one of five
// locations, depending on which ingestion generation produced it. The first
// candidate that resolves to a non-empty mapping wins; records with no
// resolvable mapping contribute zero rows (there is no meaningful partial
// row for them).
// =============================================================================

// kpiCandidates is the resolution order: top-level field, dotted flattened
// field, nested inside the computed container, then the two legacy
// equivalents. Container lookups also accept a serialized-string form.
var kpiCandidates = []func(record.Record) any{
	func(r record.Record) any { return r["kpi"] },
	func(r record.Record) any { return r["computed.kpi"] },
	func(r record.Record) any { return containerKPI(r["computed"]) },
	func(r record.Record) any { return r["v1legacy.kpi"] },
	func(r record.Record) any { return containerKPI(r["v1legacy"]) },
}

// expandKPI emits one row per (year, metrics) pair in the record's KPI
// mapping, each carrying the record's identity key, the year as a string
// and the year's metric fields merged in.
func expandKPI(rec record.Record) []Row {
	kpi := resolveKPIMap(rec)
	if len(kpi) == 0 {
		return nil
	}

	key := record.IdentityKey{
		CompanyName: record.String(rec, "socialName"),
		Siren:       record.String(rec, "siren"),
		Siret:       record.NormalizeSiret(rec["siret"]),
	}

	var rows []Row
	for _, year := range record.SortedKeys(kpi) {
		metrics, ok := kpi[year].(map[string]any)
		if !ok {
			continue
		}
		row := Row{
			record.ColCompanyName: key.CompanyName,
			record.ColSiren:       key.Siren,
			record.ColSiret:       key.Siret,
			"year":                year,
		}
		for _, name := range record.SortedKeys(metrics) {
			row[name] = metricValue(metrics[name])
		}
		rows = append(rows, row)
	}
	return rows
}

func resolveKPIMap(rec record.Record) map[string]any {
	for _, resolve := range kpiCandidates {
		if m, ok := resolve(rec).(map[string]any); ok && len(m) > 0 {
			return m
		}
	}
	return nil
}

// containerKPI digs the kpi field out of a container that may arrive as a
// decoded object or as an embedded JSON string. Parse failures resolve to
// absent, never to an error.
func containerKPI(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return t["kpi"]
	case string:
		if t == "" {
			return nil
		}
		var parsed map[string]any
		if err := json.Unmarshal([]byte(t), &parsed); err != nil {
			return nil
		}
		return parsed["kpi"]
	default:
		return nil
	}
}

// metricValue coerces a metric to a row scalar: bools and integral numbers
// keep their type, everything else degrades to a string form. Structured
// metric values are kept as compact JSON.
func metricValue(v any) any {
	switch t := v.(type) {
	case nil:
		return ""
	case bool:
		return t
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return int(t)
		}
		return record.Label(t)
	case string:
		return t
	case map[string]any, []any:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	default:
		return record.Label(t)
	}
}
