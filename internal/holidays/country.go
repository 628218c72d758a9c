package holidays

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/username/termcal/internal/locale"
)

// countryLocales maps supported countries to the locales that select them.
// Order matters: the first exact match wins.
var countryLocales = []struct {
	country string
	locales []string
}{
	{"RU", []string{"ru_RU", "ru_BY", "ru_KZ", "ru_UZ", "ru_LV"}},
	{"BY", []string{"be_BY", "ru_BY"}},
	{"KZ", []string{"kk_KZ", "ru_KZ"}},
	{"US", []string{"en_US", "en"}},
	{"UZ", []string{"uz_UZ", "ru_UZ"}},
	{"TR", []string{"tr_TR"}},
	{"LV", []string{"lv_LV", "ru_LV"}},
}

// SupportedCountry reports whether country has holiday data
func SupportedCountry(country string) bool {
	country = strings.ToUpper(country)
	for _, c := range countryLocales {
		if c.country == country {
			return true
		}
	}
	return false
}

// CountryForLocale maps a POSIX locale id to a supported country: first by
// exact locale, then by an explicit region subtag
func CountryForLocale(id string) (string, bool) {
	id = locale.Strip(id)
	if id == "" || id == "C" || id == "POSIX" {
		return "", false
	}

	for _, c := range countryLocales {
		for _, l := range c.locales {
			if strings.EqualFold(l, id) {
				return c.country, true
			}
		}
	}

	tag, err := language.Parse(strings.ReplaceAll(id, "_", "-"))
	if err != nil {
		return "", false
	}
	region, confidence := tag.Region()
	if confidence != language.Exact {
		return "", false
	}
	if country := region.String(); SupportedCountry(country) {
		return country, true
	}
	return "", false
}

// DetectCountry resolves the country from LC_ALL, LC_TIME and LANG
func DetectCountry(getenv locale.Getenv) (string, bool) {
	return CountryForLocale(locale.FromEnv(getenv))
}
