package extract

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/osedata/extract-core/internal/record"
)

func companyFixture() record.Record {
	return record.Record{
		"socialName":    "Acme",
		"internalName":  "acme-sa",
		"siren":         "123456789",
		"siret":         float64(12345678901234),
		"activity":      "Production agricole",
		"activityLight": "Agro",
		"createdAt":     "2020-01-01",
		"updatedAt":     "2024-05-05",
		"address":       "1 rue des Champs",
		"cp":            "75001",
		"ville":         "Paris",
		"department":    map[string]any{"label": "Paris", "id": "75"},
		"naf":           map[string]any{"code": "0111Z", "label": "Culture de céréales"},
		"juridicForm":   map[string]any{"label": "SAS"},
		"caBilan":       "1000000",
		"effectif":      "50",
		"hasGroupOwner": true,
		"bToB":          true,
		"nbContacts":    float64(3),
		"emailContact":  "contact@acme.fr",
	}
}

func TestCompany_Unit_SevenTablesShareIdentity(t *testing.T) {
	e := NewCompanyExtractor(zerolog.Nop())
	e.ExtractBatch([]record.Record{companyFixture()})

	datasets := e.Datasets()
	for _, name := range []string{
		DatasetBasicInfo, DatasetFinancial, DatasetWorkforce,
		DatasetStructure, DatasetFlags, DatasetContacts,
	} {
		table := datasets[name]
		if len(table.Rows) != 1 {
			t.Fatalf("%s: expected 1 row, got %d", name, len(table.Rows))
		}
		row := table.Rows[0]
		if row[record.ColCompanyName] != "Acme" || row[record.ColSiren] != "123456789" || row[record.ColSiret] != "12345678901234" {
			t.Errorf("%s identity = %v/%v/%v", name,
				row[record.ColCompanyName], row[record.ColSiren], row[record.ColSiret])
		}
	}
}

func TestCompany_Unit_BasicInfoMapping(t *testing.T) {
	e := NewCompanyExtractor(zerolog.Nop())
	e.ExtractBatch([]record.Record{companyFixture()})

	row := e.Datasets()[DatasetBasicInfo].Rows[0]
	want := map[string]any{
		"departement":            "Paris",
		"departement_id":         "75",
		"resume_activite":        "Production agricole Agro",
		"raison_sociale":         "Acme",
		"raison_sociale_keyword": "acme-sa",
		"processedAt":            "2020-01-01",
		"updatedAt":              "2024-05-05",
		"last_modified":          "2024-05-05",
		"naf_code":               "0111Z",
		"naf_label":              "Culture de céréales",
		"juridic_form":           "SAS",
	}
	for col, expected := range want {
		if row[col] != expected {
			t.Errorf("%s = %v, want %v", col, row[col], expected)
		}
	}
}

func TestCompany_Unit_MissingFieldsUseDefaults(t *testing.T) {
	e := NewCompanyExtractor(zerolog.Nop())
	e.ExtractBatch([]record.Record{{"socialName": "Bare"}})

	datasets := e.Datasets()

	flags := datasets[DatasetFlags].Rows[0]
	for col, v := range flags {
		if isIdentityColumn(col) {
			continue
		}
		if v != false {
			t.Errorf("flag %s = %v, want false", col, v)
		}
	}

	contacts := datasets[DatasetContacts].Rows[0]
	if contacts["nbContacts"] != 0 {
		t.Errorf("nbContacts = %v, want 0", contacts["nbContacts"])
	}
	if contacts["emailContact"] != "" {
		t.Errorf("emailContact = %v, want empty", contacts["emailContact"])
	}

	// The blended resume keeps its separator even when both sides are empty.
	if datasets[DatasetBasicInfo].Rows[0]["resume_activite"] != " " {
		t.Errorf("resume_activite = %q", datasets[DatasetBasicInfo].Rows[0]["resume_activite"])
	}
}

func TestCompany_Unit_RecordWithoutIdentity(t *testing.T) {
	e := NewCompanyExtractor(zerolog.Nop())
	e.ExtractBatch([]record.Record{{"activity": "no identity at all"}})

	for _, name := range companyDatasets[:len(companyDatasets)-1] {
		rows := e.Datasets()[name].Rows
		if len(rows) != 1 {
			t.Fatalf("%s: expected 1 row, got %d", name, len(rows))
		}
		for _, col := range record.IdentityColumns {
			if rows[0][col] != "" {
				t.Errorf("%s %s = %v, want empty", name, col, rows[0][col])
			}
		}
	}
}

func TestCompany_Unit_EmbeddedArticlesInheritIdentity(t *testing.T) {
	rec := companyFixture()
	rec["articles"] = []any{
		map[string]any{
			"title": "own reference",
			"companies": []any{
				map[string]any{"label": "Other Co", "siren": "999888777"},
			},
		},
		map[string]any{"title": "no reference"},
	}

	e := NewCompanyExtractor(zerolog.Nop())
	e.ExtractBatch([]record.Record{rec})

	articles := e.Datasets()[DatasetArticles]
	if len(articles.Rows) != 2 {
		t.Fatalf("expected 2 article rows, got %d", len(articles.Rows))
	}

	// First article keeps its own reference.
	if articles.Rows[0][record.ColCompanyName] != "Other Co" {
		t.Errorf("row 0 company = %v, want Other Co", articles.Rows[0][record.ColCompanyName])
	}
	// Second article inherits the originating company.
	row := articles.Rows[1]
	if row[record.ColCompanyName] != "Acme" || row[record.ColSiren] != "123456789" || row[record.ColSiret] != "12345678901234" {
		t.Errorf("inherited identity = %v/%v/%v",
			row[record.ColCompanyName], row[record.ColSiren], row[record.ColSiret])
	}
}

func TestCompany_Unit_EmbeddedNamespaces(t *testing.T) {
	rec := record.Record{
		"socialName": "Acme",
		"computed": map[string]any{
			"articles": []any{map[string]any{"title": "from computed"}},
		},
		"v1legacy": map[string]any{
			"article": map[string]any{"title": "from legacy"},
		},
	}

	e := NewCompanyExtractor(zerolog.Nop())
	e.ExtractBatch([]record.Record{rec})

	articles := e.Datasets()[DatasetArticles]
	if len(articles.Rows) != 2 {
		t.Fatalf("expected 2 article rows from nested namespaces, got %d", len(articles.Rows))
	}
	for _, row := range articles.Rows {
		if row[record.ColCompanyName] != "Acme" {
			t.Errorf("namespace article should inherit identity, got %v", row[record.ColCompanyName])
		}
	}
}

func TestCompany_Unit_EmbeddedSignalsWithProjectsFallback(t *testing.T) {
	e := NewCompanyExtractor(zerolog.Nop())
	e.ExtractBatch([]record.Record{{
		"socialName": "Acme",
		"projects": []any{
			map[string]any{"sirets": []any{"12345678901234"}},
		},
	}})

	signals := e.Datasets()[DatasetSignals]
	if len(signals.Rows) != 1 {
		t.Fatalf("expected 1 signal row from projects fallback, got %d", len(signals.Rows))
	}
	if signals.Rows[0][record.ColSiret] != "12345678901234" {
		t.Errorf("siret = %v", signals.Rows[0][record.ColSiret])
	}
}

func TestCompany_Unit_SignalsPreferredOverProjects(t *testing.T) {
	e := NewCompanyExtractor(zerolog.Nop())
	e.ExtractBatch([]record.Record{{
		"socialName": "Acme",
		"signals": []any{
			map[string]any{"city_label": "Lyon"},
		},
		"projects": []any{
			map[string]any{"city_label": "Nantes"},
		},
	}})

	signals := e.Datasets()[DatasetSignals]
	if len(signals.Rows) != 1 {
		t.Fatalf("expected 1 signal row, got %d", len(signals.Rows))
	}
	if signals.Rows[0]["city_label"] != "Lyon" {
		t.Errorf("city_label = %v, want Lyon", signals.Rows[0]["city_label"])
	}
}

func TestCompany_Unit_KPIRowsAccumulate(t *testing.T) {
	rec := companyFixture()
	rec["kpi"] = map[string]any{
		"2022": map[string]any{"ca": float64(10)},
		"2023": map[string]any{"ca": float64(20)},
	}

	e := NewCompanyExtractor(zerolog.Nop())
	e.ExtractBatch([]record.Record{rec, companyFixture()})

	kpi := e.Datasets()[DatasetKPI]
	// Second record has no KPI mapping and contributes zero rows.
	if len(kpi.Rows) != 2 {
		t.Fatalf("expected 2 KPI rows, got %d", len(kpi.Rows))
	}
}

func TestCompany_Unit_IdentityKeyCompleteness(t *testing.T) {
	rec := companyFixture()
	rec["articles"] = []any{map[string]any{"title": "a"}}
	rec["signals"] = []any{map[string]any{"city_label": "x"}}
	rec["kpi"] = map[string]any{"2022": map[string]any{"ca": float64(1)}}

	e := NewCompanyExtractor(zerolog.Nop())
	e.ExtractBatch([]record.Record{rec})

	for name, table := range e.Datasets() {
		for i, row := range table.Rows {
			for _, col := range record.IdentityColumns {
				if _, ok := row[col]; !ok {
					t.Errorf("%s row %d missing identity column %s", name, i, col)
				}
			}
		}
	}
}
