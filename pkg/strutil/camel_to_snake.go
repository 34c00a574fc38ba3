// Package strutil provides string utilities.
package strutil

import (
	"strings"
	"unicode"
)

// CamelToSnake converts a CamelCaseIdentifier to a snake_case_identifier.
// All-cap words are converted to lower case; HTTPRequest becomes
// http_request and PressedX becomes pressed_x.
func CamelToSnake(camel string) string {
	var sb strings.Builder
	runes := []rune(camel)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) &&
			(unicode.IsLower(runes[i-1]) || (i < len(runes)-1 && unicode.IsLower(runes[i+1]))) {
			sb.WriteRune('_')
		}
		sb.WriteRune(unicode.ToLower(r))
	}
	return sb.String()
}
