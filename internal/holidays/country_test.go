package holidays

import "testing"

func TestCountryForLocale(t *testing.T) {
	tests := []struct {
		id     string
		want   string
		wantOK bool
	}{
		{"ru_RU.UTF-8", "RU", true},
		{"ru_BY.UTF-8", "RU", true},
		{"be_BY.UTF-8", "BY", true},
		{"kk_KZ", "KZ", true},
		{"en_US.UTF-8", "US", true},
		{"en", "US", true},
		{"uz_UZ.UTF-8@cyrillic", "UZ", true},
		{"tr_TR.UTF-8", "TR", true},
		{"lv_LV.UTF-8", "LV", true},
		{"es_US.UTF-8", "US", true},
		{"de_DE.UTF-8", "", false},
		{"en_GB.UTF-8", "", false},
		{"fr", "", false},
		{"C", "", false},
		{"POSIX", "", false},
		{"C.UTF-8", "", false},
		{"", "", false},
		{"not a locale", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, ok := CountryForLocale(tt.id)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("CountryForLocale(%q) = %q, %v; want %q, %v", tt.id, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDetectCountry(t *testing.T) {
	env := map[string]string{
		"LANG":    "en_US.UTF-8",
		"LC_TIME": "ru_RU.UTF-8",
	}
	got, ok := DetectCountry(func(key string) string { return env[key] })
	if !ok || got != "RU" {
		t.Errorf("DetectCountry() = %q, %v; want RU, true", got, ok)
	}

	env["LC_ALL"] = "C"
	if got, ok := DetectCountry(func(key string) string { return env[key] }); ok {
		t.Errorf("DetectCountry() with LC_ALL=C = %q, want no country", got)
	}
}

func TestSupportedCountry(t *testing.T) {
	for _, c := range []string{"RU", "by", "Kz", "US", "UZ", "TR", "LV"} {
		if !SupportedCountry(c) {
			t.Errorf("SupportedCountry(%q) = false", c)
		}
	}
	if SupportedCountry("DE") {
		t.Error("SupportedCountry(DE) = true")
	}
}
