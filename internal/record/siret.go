package record

import (
	"math"
	"strconv"
	"strings"
)

// siretDigits is the canonical SIRET width: 9-digit SIREN plus the 5-digit
// establishment suffix.
const siretDigits = 14

// NormalizeSiret canonicalizes a SIRET value to a left-zero-padded
// 14-digit string. Accepts numeric, numeric-string or already-formatted
// input. Empty, null and the literal missing markers normalize to the
// empty string; input that is not convertible to a number is returned
// unchanged in its string form. Never fails.
func NormalizeSiret(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case float64:
		if math.IsNaN(t) {
			return ""
		}
		return padSiret(int64(t))
	case int:
		return padSiret(int64(t))
	case int64:
		return padSiret(t)
	case string:
		s := strings.TrimSpace(t)
		if s == "" || isMissingMarker(s) {
			return ""
		}
		if n, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(n) {
			return padSiret(int64(n))
		}
		return s
	default:
		s := scalarString(v)
		if s == "" || isMissingMarker(s) {
			return ""
		}
		return s
	}
}

// SirenFromSiret derives the SIREN prefix from a normalized SIRET. Values
// shorter than 9 characters carry no usable SIREN.
func SirenFromSiret(siret string) string {
	if len(siret) >= 9 {
		return siret[:9]
	}
	return ""
}

func padSiret(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) >= siretDigits {
		return s
	}
	return strings.Repeat("0", siretDigits-len(s)) + s
}

func isMissingMarker(s string) bool {
	return strings.EqualFold(s, "nan") || strings.EqualFold(s, "null")
}
