package domain

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeName limpia un nombre de catálogo: NFC, sin espacios en los extremos
// y con los espacios internos colapsados a uno solo.
func NormalizeName(s string) string {
	s = norm.NFC.String(s)
	return strings.Join(strings.Fields(s), " ")
}
