package registry

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English, cases.NoLower)

// CanonicalName converts an exported Go identifier to the kebab-case name
// used in markup: "NavBar" becomes "nav-bar". Already-kebab names pass
// through unchanged.
func CanonicalName(name string) string {
	if strings.Contains(name, "-") || strings.ToLower(name) == name {
		return strings.ToLower(name)
	}

	var sb strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(unicode.ToLower(r))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// ExportedName converts a kebab-case markup name to the exported Go form:
// "nav-bar" becomes "NavBar".
func ExportedName(name string) string {
	parts := strings.Split(name, "-")
	for i, p := range parts {
		parts[i] = titleCaser.String(p)
	}
	return strings.Join(parts, "")
}
