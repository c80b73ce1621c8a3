package extract

import (
	"testing"

	"github.com/osedata/extract-core/internal/record"
)

func kpiYears() map[string]any {
	return map[string]any{
		"2022": map[string]any{"ca": float64(1000), "marge": 0.25},
		"2023": map[string]any{"ca": float64(1200), "marge": 0.3},
	}
}

func TestKPI_Unit_ExpandOneRowPerYear(t *testing.T) {
	rows := expandKPI(record.Record{
		"socialName": "Acme",
		"siren":      "123456789",
		"siret":      float64(12345678901234),
		"kpi":        kpiYears(),
	})

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	// Years come out in ascending order.
	if rows[0]["year"] != "2022" || rows[1]["year"] != "2023" {
		t.Errorf("years = %v, %v", rows[0]["year"], rows[1]["year"])
	}
	if rows[0]["ca"] != 1000 {
		t.Errorf("ca = %v, want 1000", rows[0]["ca"])
	}
	if rows[0][record.ColCompanyName] != "Acme" || rows[0][record.ColSiret] != "12345678901234" {
		t.Errorf("identity = %v/%v", rows[0][record.ColCompanyName], rows[0][record.ColSiret])
	}
}

func TestKPI_Unit_CandidateOrder(t *testing.T) {
	cases := []struct {
		name string
		rec  record.Record
	}{
		{"top-level kpi", record.Record{"kpi": kpiYears()}},
		{"dotted computed", record.Record{"computed.kpi": kpiYears()}},
		{"nested computed", record.Record{"computed": map[string]any{"kpi": kpiYears()}}},
		{"computed as json string", record.Record{
			"computed": `{"kpi": {"2022": {"ca": 1}, "2023": {"ca": 2}}}`,
		}},
		{"dotted legacy", record.Record{"v1legacy.kpi": kpiYears()}},
		{"nested legacy", record.Record{"v1legacy": map[string]any{"kpi": kpiYears()}}},
		{"legacy as json string", record.Record{
			"v1legacy": `{"kpi": {"2022": {"ca": 1}, "2023": {"ca": 2}}}`,
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rows := expandKPI(tc.rec)
			if len(rows) != 2 {
				t.Errorf("expected 2 rows, got %d", len(rows))
			}
		})
	}
}

func TestKPI_Unit_FirstCandidateWins(t *testing.T) {
	rows := expandKPI(record.Record{
		"kpi":      map[string]any{"2020": map[string]any{"ca": float64(7)}},
		"computed": map[string]any{"kpi": kpiYears()},
	})
	if len(rows) != 1 || rows[0]["year"] != "2020" {
		t.Errorf("top-level candidate should win, got %d rows", len(rows))
	}
}

func TestKPI_Unit_UnresolvableYieldsZeroRows(t *testing.T) {
	cases := []struct {
		name string
		rec  record.Record
	}{
		{"no kpi anywhere", record.Record{"socialName": "Acme"}},
		{"empty mapping", record.Record{"kpi": map[string]any{}}},
		{"malformed json string", record.Record{"computed": "{not json"}},
		{"kpi is a list", record.Record{"kpi": []any{"2022"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if rows := expandKPI(tc.rec); len(rows) != 0 {
				t.Errorf("expected 0 rows, got %d", len(rows))
			}
		})
	}
}

func TestKPI_Unit_NonMappingYearSkipped(t *testing.T) {
	rows := expandKPI(record.Record{
		"kpi": map[string]any{
			"2022":  map[string]any{"ca": float64(1)},
			"total": "not-a-year-mapping",
		},
	})
	if len(rows) != 1 || rows[0]["year"] != "2022" {
		t.Errorf("expected the scalar year entry to be skipped, got %d rows", len(rows))
	}
}

func TestKPI_Unit_MetricCoercion(t *testing.T) {
	rows := expandKPI(record.Record{
		"kpi": map[string]any{
			"2022": map[string]any{
				"count":  float64(12),
				"rate":   0.5,
				"label":  "ok",
				"active": true,
				"detail": map[string]any{"a": float64(1)},
			},
		},
	})
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0]
	if row["count"] != 12 {
		t.Errorf("count = %#v, want int 12", row["count"])
	}
	if row["rate"] != "0.5" {
		t.Errorf("rate = %#v, want \"0.5\"", row["rate"])
	}
	if row["active"] != true {
		t.Errorf("active = %#v, want true", row["active"])
	}
	if row["detail"] != `{"a":1}` {
		t.Errorf("detail = %#v", row["detail"])
	}
}
