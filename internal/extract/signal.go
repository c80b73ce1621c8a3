package extract

import (
	"github.com/rs/zerolog"

	"github.com/osedata/extract-core/internal/record"
)

// SignalExtractor fans signal/project-shaped records out into one row per
// associated company reference plus one row per associated SIRET. The two
// association lists are an additive union: when both are non-empty both
// sets of rows are emitted for the same source record. This asymmetry with
// the first-non-empty policy used everywhere else is intentional and
// preserved as observed upstream.
type SignalExtractor struct {
	log      zerolog.Logger
	partials partialSet
}

// NewSignalExtractor creates a signal extractor with empty buffers.
func NewSignalExtractor(log zerolog.Logger) *SignalExtractor {
	return &SignalExtractor{
		log:      log.With().Str("extractor", "signal").Logger(),
		partials: make(partialSet),
	}
}

// ExtractBatch expands one batch of signal records.
func (e *SignalExtractor) ExtractBatch(batch []record.Record) {
	rows := make([]Row, 0, len(batch))
	for _, rec := range batch {
		companies := record.FieldList(rec, "companies")
		if len(companies) == 0 {
			companies = record.FieldList(rec, "companiesmain")
		}
		if len(companies) == 0 {
			companies = record.FieldList(rec, "allCompanies")
		}
		sirets := record.FieldList(rec, "sirets")

		if len(companies) == 0 && len(sirets) == 0 {
			rows = append(rows, signalRow(rec, record.IdentityKey{}))
			continue
		}
		for _, ref := range companies {
			rows = append(rows, signalRow(rec, record.SignalReferenceIdentity(ref)))
		}
		for _, siret := range sirets {
			rows = append(rows, signalRow(rec, record.SiretIdentity(siret)))
		}
	}
	e.partials.add(DatasetSignals, rows)
}

// Datasets returns the accumulated signal table.
func (e *SignalExtractor) Datasets() map[string]*Table {
	return map[string]*Table{DatasetSignals: e.partials.table(DatasetSignals)}
}

func signalRow(rec record.Record, key record.IdentityKey) Row {
	typeLabel, typeID := "", ""
	if obj, ok := rec["type"].(map[string]any); ok {
		typeLabel = record.String(obj, "label")
		typeID = record.String(obj, "id")
	}
	statut := ""
	if obj, ok := rec["statut"].(map[string]any); ok {
		statut = record.String(obj, "label")
	}

	return Row{
		record.ColCompanyName: key.CompanyName,
		record.ColSiren:       key.Siren,
		record.ColSiret:       key.Siret,
		"continent":           record.JoinLabels(rec["continent"]),
		"country":             record.FirstLabel(rec["country"]),
		"departement":         record.FirstLabel(rec["departement"]),
		"publishedAt":         record.String(rec, "publishedAt"),
		"isMain":              true,
		"type":                typeLabel,
		"type_id":             typeID,
		"createdAt":           record.String(rec, "createdAt"),
		"statut":              statut,
		"city_label":          record.String(rec, "city_label"),
		"city_zip_code":       record.String(rec, "city_zip_code"),
		"natureOp":            record.JoinLabels(rec["natureOp"]),
		"companies_count":     len(record.FieldList(rec, "companies")),
		"sirets_count":        len(record.FieldList(rec, "sirets")),
	}
}
