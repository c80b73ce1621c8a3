// Package record provides the raw record model and the field resolution
// primitives used by every extractor: presence-safe scalar/list access,
// label resolution for nested objects, SIRET canonicalization and the
// company identity key derivation.
package record

// Record represents a single raw input record as key-value pairs.
// Records arrive from the loader with unbounded key sets; extractors
// access fields by name and never mutate the record.
type Record = map[string]any

// Identity column names. Every output row carries these three columns,
// in this order, before any other column.
const (
	ColCompanyName = "company_name"
	ColSiren       = "siren"
	ColSiret       = "siret"
)

// IdentityColumns lists the identity columns in their fixed order.
var IdentityColumns = []string{ColCompanyName, ColSiren, ColSiret}

// IdentityKey is the (company_name, siren, siret) triple that keys every
// output row. Fields may be empty but are never absent; Siret, when
// non-empty and parseable, is a left-zero-padded 14-digit string.
type IdentityKey struct {
	CompanyName string
	Siren       string
	Siret       string
}

// Empty reports whether the key carries no identity information at all.
func (k IdentityKey) Empty() bool {
	return k.CompanyName == "" && k.Siren == "" && k.Siret == ""
}
