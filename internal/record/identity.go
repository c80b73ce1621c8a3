package record

// =============================================================================
// IDENTITY KEY BUILDER
// Derives the (company_name, siren, siret) triple from the three shapes a
// company association can take: a full company record, a nested company
// reference, or a bare SIRET value.
// =============================================================================

// companyNameFields is the priority order for locating a company's display
// name on a full record. First non-empty value wins.
var companyNameFields = []string{"socialName", "label", "name", "raison_sociale"}

// CompanyIdentity builds the identity key for a full company record.
func CompanyIdentity(rec Record) IdentityKey {
	return IdentityKey{
		CompanyName: String(rec, companyNameFields...),
		Siren:       String(rec, "siren"),
		Siret:       NormalizeSiret(rec["siret"]),
	}
}

// ReferenceIdentity builds the identity key for a nested company reference
// as carried by article rows: label for the name, siren and siret taken
// from the reference itself. Non-object references carry no identity.
func ReferenceIdentity(ref any) IdentityKey {
	obj, ok := ref.(map[string]any)
	if !ok {
		return IdentityKey{}
	}
	return IdentityKey{
		CompanyName: String(obj, "label"),
		Siren:       String(obj, "siren"),
		Siret:       NormalizeSiret(obj["siret"]),
	}
}

// SignalReferenceIdentity builds the identity key for a company reference
// on a signal row. Signal references key by id only: the id becomes the
// siren and no name or siret is available in this path. Bare scalar
// references are used as-is.
func SignalReferenceIdentity(ref any) IdentityKey {
	if obj, ok := ref.(map[string]any); ok {
		return IdentityKey{Siren: String(obj, "id")}
	}
	return IdentityKey{Siren: Label(ref)}
}

// SiretIdentity builds the identity key for a bare SIRET association: the
// normalized SIRET plus its derived SIREN prefix, with no company name.
// Accepts either a scalar or an object wrapping the value under "siret".
func SiretIdentity(v any) IdentityKey {
	if obj, ok := v.(map[string]any); ok {
		v = obj["siret"]
	}
	siret := NormalizeSiret(v)
	return IdentityKey{
		Siren: SirenFromSiret(siret),
		Siret: siret,
	}
}
