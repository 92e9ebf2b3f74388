// Gw2api - Guild Wars 2 API Client with Request Coalescing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gw2api

package endpoint

import "testing"

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		in   string
		want Language
	}{
		{in: "en", want: LanguageEnglish},
		{in: "es", want: LanguageSpanish},
		{in: "de", want: LanguageGerman},
		{in: "fr", want: LanguageFrench},
		{in: "zh", want: LanguageChinese},
		{in: "", want: LanguageEnglish},
		{in: "klingon", want: LanguageEnglish},
	}

	for _, tt := range tests {
		if got := ParseLanguage(tt.in); got != tt.want {
			t.Errorf("ParseLanguage(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
