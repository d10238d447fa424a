package itemname

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// Display turns a namespaced identifier like "minecraft:iron_sword"
// into a human-readable "Iron Sword". Identifiers without a namespace
// or underscores pass through title-cased.
func Display(typeID string) string {
	if typeID == "" {
		return ""
	}
	if i := strings.LastIndex(typeID, ":"); i >= 0 {
		typeID = typeID[i+1:]
	}
	return titleCaser.String(strings.ReplaceAll(typeID, "_", " "))
}

// Namespace returns the identifier's namespace, or empty when it has
// none.
func Namespace(typeID string) string {
	if i := strings.Index(typeID, ":"); i >= 0 {
		return typeID[:i]
	}
	return ""
}
