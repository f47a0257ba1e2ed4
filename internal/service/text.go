package service

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	lowerCaser = cases.Lower(language.Und)
	titleCaser = cases.Title(language.English)
)

// normalizeLabel lower-cases enum-like input such as " Advanced ".
func normalizeLabel(s string) string {
	return lowerCaser.String(strings.TrimSpace(s))
}

// displayLabel tidies free-text labels such as weather: "partly  CLOUDY" -> "Partly Cloudy".
func displayLabel(s string) string {
	return titleCaser.String(strings.Join(strings.Fields(s), " "))
}
