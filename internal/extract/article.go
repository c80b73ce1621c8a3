package extract

import (
	"github.com/rs/zerolog"

	"github.com/osedata/extract-core/internal/record"
)

// ArticleExtractor fans article-shaped records out into one row per
// referenced company. An article with no company references still emits
// exactly one row, keyed by the all-empty identity.
type ArticleExtractor struct {
	log      zerolog.Logger
	partials partialSet
}

// NewArticleExtractor creates an article extractor with empty buffers.
func NewArticleExtractor(log zerolog.Logger) *ArticleExtractor {
	return &ArticleExtractor{
		log:      log.With().Str("extractor", "article").Logger(),
		partials: make(partialSet),
	}
}

// ExtractBatch expands one batch of article records.
func (e *ArticleExtractor) ExtractBatch(batch []record.Record) {
	rows := make([]Row, 0, len(batch))
	for _, rec := range batch {
		companies := record.FieldList(rec, "companies")
		if len(companies) == 0 {
			companies = record.FieldList(rec, "all_companies")
		}

		if len(companies) == 0 {
			rows = append(rows, articleRow(rec, record.IdentityKey{}))
			continue
		}
		for _, ref := range companies {
			rows = append(rows, articleRow(rec, record.ReferenceIdentity(ref)))
		}
	}
	e.partials.add(DatasetArticles, rows)
}

// Datasets returns the accumulated article table.
func (e *ArticleExtractor) Datasets() map[string]*Table {
	return map[string]*Table{DatasetArticles: e.partials.table(DatasetArticles)}
}

// articleRow builds one output row for an article and one company key.
// The two count columns reflect the reference lists on the original
// record, not the fan-out of this expansion.
func articleRow(rec record.Record, key record.IdentityKey) Row {
	author := ""
	if obj, ok := rec["author"].(map[string]any); ok {
		author = record.String(obj, "name")
	}
	country := ""
	if obj, ok := rec["country"].(map[string]any); ok {
		country = record.String(obj, "label")
	}

	return Row{
		record.ColCompanyName: key.CompanyName,
		record.ColSiren:       key.Siren,
		record.ColSiret:       key.Siret,
		"title":               record.String(rec, "title"),
		"publishedAt":         record.String(rec, "publishedAt"),
		"author":              author,
		"signalsStatus":       record.JoinLabels(rec["signalsStatus"]),
		"signalsType":         record.JoinLabels(rec["signalsType"]),
		"country":             country,
		"sectors":             record.JoinLabels(rec["sectors"]),
		"cities":              record.JoinLabels(rec["cities"]),
		"sources":             record.JoinLabels(rec["sources"]),
		"departments":         record.JoinLabels(rec["departments"]),
		"all_companies_count": len(record.FieldList(rec, "all_companies")),
		"companies_count":     len(record.FieldList(rec, "companies")),
	}
}
