// Package email derives display names from recipient addresses for audit
// trails and send salutations.
package email

import (
	"strings"
	"unicode"
)

// DisplayName builds a readable name from an address's local part:
// "marie.dupont@example.com" becomes "Marie Dupont". Addresses with an
// unusable local part fall back to "Destinataire".
func DisplayName(address string) string {
	localPart := address
	if at := strings.IndexByte(address, '@'); at > 0 {
		localPart = address[:at]
	}

	parts := strings.FieldsFunc(localPart, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})
	if len(parts) == 0 {
		return "Destinataire"
	}

	for i, p := range parts {
		parts[i] = capitalize(p)
	}
	return strings.Join(parts, " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
