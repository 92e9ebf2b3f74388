// Gw2api - Guild Wars 2 API Client with Request Coalescing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gw2api

package endpoint

// Language is a locale tag understood by the API. It is sent as the lang
// query parameter and participates in cache keys for locale-aware endpoints.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageSpanish Language = "es"
	LanguageGerman  Language = "de"
	LanguageFrench  Language = "fr"
	LanguageChinese Language = "zh"
)

// ParseLanguage maps a config string to a Language, defaulting to English
// for unknown values.
func ParseLanguage(s string) Language {
	switch Language(s) {
	case LanguageEnglish, LanguageSpanish, LanguageGerman, LanguageFrench, LanguageChinese:
		return Language(s)
	default:
		return LanguageEnglish
	}
}
