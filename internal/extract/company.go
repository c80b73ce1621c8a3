package extract

import (
	"github.com/rs/zerolog"

	"github.com/osedata/extract-core/internal/record"
)

// CompanyExtractor maps each company record into seven parallel flat rows
// sharing one identity key, expands the record's KPI mapping, and forwards
// embedded article and signal references to its owned expanders. The
// forwarding is explicit composition: derived sub-batches are built here
// and handed over in one call per batch.
type CompanyExtractor struct {
	log      zerolog.Logger
	partials partialSet
	articles *ArticleExtractor
	signals  *SignalExtractor
}

// NewCompanyExtractor creates a company extractor owning fresh article and
// signal expanders.
func NewCompanyExtractor(log zerolog.Logger) *CompanyExtractor {
	return &CompanyExtractor{
		log:      log.With().Str("extractor", "company").Logger(),
		partials: make(partialSet),
		articles: NewArticleExtractor(log),
		signals:  NewSignalExtractor(log),
	}
}

// ExtractBatch processes one batch of company records.
func (e *CompanyExtractor) ExtractBatch(batch []record.Record) {
	buffers := make(map[string][]Row, len(companyDatasets))
	var embeddedArticles []record.Record
	var embeddedSignals []record.Record

	for _, rec := range batch {
		key := record.CompanyIdentity(rec)
		if key.Empty() {
			e.log.Debug().Msg("company record carries no identity fields")
		}

		buffers[DatasetBasicInfo] = append(buffers[DatasetBasicInfo], basicInfoRow(rec, key))
		buffers[DatasetFinancial] = append(buffers[DatasetFinancial], financialRow(rec, key))
		buffers[DatasetWorkforce] = append(buffers[DatasetWorkforce], workforceRow(rec, key))
		buffers[DatasetStructure] = append(buffers[DatasetStructure], structureRow(rec, key))
		buffers[DatasetFlags] = append(buffers[DatasetFlags], flagsRow(rec, key))
		buffers[DatasetContacts] = append(buffers[DatasetContacts], contactsRow(rec, key))
		buffers[DatasetKPI] = append(buffers[DatasetKPI], expandKPI(rec)...)

		embeddedArticles = append(embeddedArticles, collectEmbeddedArticles(rec)...)
		embeddedSignals = append(embeddedSignals, collectEmbeddedSignals(rec)...)
	}

	for _, name := range companyDatasets {
		e.partials.add(name, buffers[name])
	}

	if len(embeddedArticles) > 0 {
		e.forward("article", func() { e.articles.ExtractBatch(embeddedArticles) })
	}
	if len(embeddedSignals) > 0 {
		e.forward("signal", func() { e.signals.ExtractBatch(embeddedSignals) })
	}
}

// Datasets returns the seven company tables plus the article and signal
// tables produced from embedded references.
func (e *CompanyExtractor) Datasets() map[string]*Table {
	out := make(map[string]*Table, len(DatasetNames))
	for _, name := range companyDatasets {
		out[name] = e.partials.table(name)
	}
	for name, t := range e.signals.Datasets() {
		out[name] = t
	}
	for name, t := range e.articles.Datasets() {
		out[name] = t
	}
	return out
}

// forward runs one embedded sub-extraction. A failure inside an expander
// is logged and skipped so the remaining records of the batch survive.
func (e *CompanyExtractor) forward(expander string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Warn().Str("expander", expander).Any("reason", r).
				Msg("embedded expansion failed, continuing batch")
		}
	}()
	fn()
}

// =============================================================================
// FIELD MAPPINGS
// One function per output table. Every field resolves to its
// type-appropriate default when absent; row construction cannot fail.
// =============================================================================

func basicInfoRow(rec record.Record, key record.IdentityKey) Row {
	deptLabel, deptID := "", ""
	if obj, ok := rec["department"].(map[string]any); ok {
		deptLabel = record.String(obj, "label")
		deptID = record.String(obj, "id")
	}
	nafCode, nafLabel := "", ""
	if obj, ok := rec["naf"].(map[string]any); ok {
		nafCode = record.String(obj, "code")
		nafLabel = record.String(obj, "label")
	}
	juridicForm := ""
	if obj, ok := rec["juridicForm"].(map[string]any); ok {
		juridicForm = record.String(obj, "label")
	}

	return Row{
		record.ColCompanyName: key.CompanyName,
		record.ColSiren:       key.Siren,
		record.ColSiret:       key.Siret,
		"departement":         deptLabel,
		"departement_id":      deptID,
		// Blended free-text resume; the separator stays even when one
		// side is empty so the column is stable across records.
		"resume_activite":         record.String(rec, "activity") + " " + record.String(rec, "activityLight"),
		"raison_sociale":          record.String(rec, "socialName"),
		"raison_sociale_keyword":  record.String(rec, "internalName"),
		"last_modified":           record.String(rec, "updatedAt"),
		"processedAt":             record.String(rec, "createdAt"),
		"updatedAt":               record.String(rec, "updatedAt"),
		"address":                 record.String(rec, "address"),
		"cp":                      record.String(rec, "cp"),
		"ville":                   record.String(rec, "ville"),
		"naf_code":                nafCode,
		"naf_label":               nafLabel,
		"juridic_form":            juridicForm,
	}
}

func financialRow(rec record.Record, key record.IdentityKey) Row {
	return Row{
		record.ColCompanyName:  key.CompanyName,
		record.ColSiren:        key.Siren,
		record.ColSiret:        key.Siret,
		"caConsolide":          record.String(rec, "caConsolide"),
		"caGroupe":             record.String(rec, "caGroupe"),
		"caBilan":              record.String(rec, "caBilan"),
		"resultatExploitation": record.String(rec, "resultatExploitation"),
		"resultatNet":          record.String(rec, "resultatNet"),
		"fondsPropres":         record.String(rec, "fondsPropres"),
		"dateConsolide":        record.String(rec, "dateCloture"),
		"trancheCaBilan":       record.String(rec, "trancheCaBilan"),
		"trancheCaConsolide":   record.String(rec, "trancheCaConsolide"),
	}
}

func workforceRow(rec record.Record, key record.IdentityKey) Row {
	return Row{
		record.ColCompanyName:      key.CompanyName,
		record.ColSiren:            key.Siren,
		record.ColSiret:            key.Siret,
		"effectif":                 record.String(rec, "effectif"),
		"effectifConsolide":        record.String(rec, "effectifConsolide"),
		"effectifGroupe":           record.String(rec, "effectifGroupe"),
		"trancheEffectifConsolide": record.String(rec, "trancheEffectifConsolide"),
		"trancheEffectifPrecis":    record.String(rec, "trancheEffectifPrecis"),
	}
}

func structureRow(rec record.Record, key record.IdentityKey) Row {
	return Row{
		record.ColCompanyName:  key.CompanyName,
		record.ColSiren:        key.Siren,
		record.ColSiret:        key.Siret,
		"nbEtabSecondaire":     record.String(rec, "nbEtabSecondaire"),
		"nbMarques":            record.String(rec, "nbMarques"),
		"hasGroupOwner":        record.Bool(rec, "hasGroupOwner"),
		"groupOwnerSiren":      record.String(rec, "groupOwnerSiren"),
		"groupOwnerSocialName": record.String(rec, "groupOwnerSocialName"),
		"hasEtabSecondaire":    record.Bool(rec, "hasEtabSecondaire"),
		"nbActionnaires":       record.String(rec, "nbActionnaires"),
	}
}

func flagsRow(rec record.Record, key record.IdentityKey) Row {
	return Row{
		record.ColCompanyName:        key.CompanyName,
		record.ColSiren:              key.Siren,
		record.ColSiret:              key.Siret,
		"startup":                    record.Bool(rec, "startup"),
		"radiee":                     record.Bool(rec, "radiate"),
		"entreprise_b2b":             record.Bool(rec, "bToB"),
		"entreprise_b2c":             record.Bool(rec, "bToC"),
		"fintech":                    record.Bool(rec, "entreprise_fintech"),
		"cac40":                      record.Bool(rec, "cac40"),
		"entreprise_familiale":       record.Bool(rec, "entreprise_familiale"),
		"entreprise_biotech_medtech": record.Bool(rec, "entreprise_biotech_medtech"),
		"hasMarques":                 record.Bool(rec, "hasMarques"),
		"hasESV1Contacts":            record.Bool(rec, "hasESV1Contacts"),
		"hasBrevets":                 record.Bool(rec, "hasBrevets"),
		"hasBodacc":                  record.Bool(rec, "hasBodacc"),
		"site_ecommerce":             record.Bool(rec, "site_ecommerce"),
		"risk":                       record.Bool(rec, "risk"),
	}
}

func contactsRow(rec record.Record, key record.IdentityKey) Row {
	return Row{
		record.ColCompanyName: key.CompanyName,
		record.ColSiren:       key.Siren,
		record.ColSiret:       key.Siret,
		"nbContacts":          record.Int(rec, "nbContacts", 0),
		"emailContact":        record.String(rec, "emailContact"),
		"telephoneNumber":     record.String(rec, "telephoneNumber"),
		"webSite":             record.String(rec, "webSite"),
		"urlLinkedin":         record.String(rec, "urlLinkedin"),
		"urlFacebook":         record.String(rec, "urlFacebook"),
		"urlTwitter":          record.String(rec, "urlTwitter"),
	}
}
