package extract

// The nine output dataset names. The numeric prefixes are part of the
// contract with downstream EDA tooling and sort the files predictably.
const (
	DatasetBasicInfo = "01_company_basic_info"
	DatasetFinancial = "02_financial_data"
	DatasetWorkforce = "03_workforce_data"
	DatasetStructure = "04_company_structure"
	DatasetFlags     = "05_classification_flags"
	DatasetContacts  = "06_contact_metrics"
	DatasetKPI       = "07_kpi_data"
	DatasetSignals   = "08_signals"
	DatasetArticles  = "09_articles"
)

// DatasetNames lists every output dataset in catalog order.
var DatasetNames = []string{
	DatasetBasicInfo,
	DatasetFinancial,
	DatasetWorkforce,
	DatasetStructure,
	DatasetFlags,
	DatasetContacts,
	DatasetKPI,
	DatasetSignals,
	DatasetArticles,
}

// companyDatasets are the seven parallel tables the company extractor
// fills directly (signals and articles come from the owned expanders).
var companyDatasets = []string{
	DatasetBasicInfo,
	DatasetFinancial,
	DatasetWorkforce,
	DatasetStructure,
	DatasetFlags,
	DatasetContacts,
	DatasetKPI,
}
