package record

import "testing"

func TestIdentity_Unit_CompanyIdentity(t *testing.T) {
	rec := Record{
		"socialName": "Acme",
		"siren":      "123456789",
		"siret":      float64(12345678901234),
	}
	key := CompanyIdentity(rec)
	if key.CompanyName != "Acme" || key.Siren != "123456789" || key.Siret != "12345678901234" {
		t.Errorf("CompanyIdentity = %+v", key)
	}
}

func TestIdentity_Unit_CompanyNameFallbacks(t *testing.T) {
	cases := []struct {
		name string
		rec  Record
		want string
	}{
		{"socialName wins", Record{"socialName": "A", "label": "B"}, "A"},
		{"label fallback", Record{"label": "B", "name": "C"}, "B"},
		{"name fallback", Record{"name": "C"}, "C"},
		{"raison_sociale fallback", Record{"raison_sociale": "D"}, "D"},
		{"empty socialName skipped", Record{"socialName": "", "label": "B"}, "B"},
		{"nothing", Record{}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CompanyIdentity(tc.rec).CompanyName; got != tc.want {
				t.Errorf("CompanyName = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestIdentity_Unit_ReferenceIdentity(t *testing.T) {
	key := ReferenceIdentity(map[string]any{
		"label": "Beta SARL",
		"siren": "987654321",
		"siret": "98765432100012",
	})
	if key.CompanyName != "Beta SARL" || key.Siren != "987654321" || key.Siret != "98765432100012" {
		t.Errorf("ReferenceIdentity = %+v", key)
	}

	// Non-object references degrade to the all-empty key, never drop.
	if key := ReferenceIdentity("bogus"); !key.Empty() {
		t.Errorf("ReferenceIdentity on scalar = %+v, want empty", key)
	}
}

func TestIdentity_Unit_SignalReferenceIdentity(t *testing.T) {
	key := SignalReferenceIdentity(map[string]any{"id": "456789123", "label": "ignored"})
	if key.Siren != "456789123" || key.CompanyName != "" || key.Siret != "" {
		t.Errorf("SignalReferenceIdentity = %+v", key)
	}

	key = SignalReferenceIdentity("111222333")
	if key.Siren != "111222333" {
		t.Errorf("SignalReferenceIdentity scalar = %+v", key)
	}
}

func TestIdentity_Unit_SiretIdentity(t *testing.T) {
	key := SiretIdentity(float64(12345678901234))
	if key.Siret != "12345678901234" || key.Siren != "123456789" || key.CompanyName != "" {
		t.Errorf("SiretIdentity = %+v", key)
	}

	key = SiretIdentity(map[string]any{"siret": "98765432100012"})
	if key.Siret != "98765432100012" || key.Siren != "987654321" {
		t.Errorf("SiretIdentity wrapped = %+v", key)
	}

	// Unparseable values keep their string form; short values derive no siren.
	key = SiretIdentity("abc")
	if key.Siret != "abc" || key.Siren != "" {
		t.Errorf("SiretIdentity unparseable = %+v", key)
	}
}
