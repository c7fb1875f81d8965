package filters

import (
	"strings"

	"golang.org/x/text/language"
)

// NormalizeLanguage canonicalizes a language code to its three-letter ISO 639
// form ("fi" and "fin" both become "fin"). The wildcard values "all" and
// "none" pass through unchanged. Hearing-impaired subtitle tracks get an "h"
// suffix so they never collide with the plain track of the same language.
func NormalizeLanguage(lang, category string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" || lang == "all" || lang == "none" {
		return lang
	}

	if base, err := language.ParseBase(lang); err == nil {
		lang = base.ISO3()
	}

	if category == "hearingimpaired" {
		lang += "h"
	}
	return lang
}
