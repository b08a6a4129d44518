package soilcheck

import (
	"fmt"
	"html"
	"log/slog"
)

const fnSanitizeString = "SanitizeString"

// SanitizeString returns input with the HTML metacharacters & < > " '
// replaced by entities, so the result can be placed in a document as text.
// Non-string input yields "".
func (v *Validator) SanitizeString(input any) (out string) {
	defer func() {
		if p := recover(); p != nil {
			v.recovered(fnSanitizeString, p, input)
			out = ""
		}
	}()

	s, ok := asString(input)
	if !ok {
		v.reject(fnSanitizeString, ReasonTypeMismatch, slog.String("type", fmt.Sprintf("%T", input)))
		return ""
	}
	return html.EscapeString(s)
}
