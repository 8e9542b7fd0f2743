package backend

import (
	"strings"

	"github.com/goccy/go-json"
)

var scriptEscaper = strings.NewReplacer(
	"<", "\\u003c",
	">", "\\u003e",
	"&", "\\u0026",
	"\u2028", "\\u2028",
	"\u2029", "\\u2029",
)

// ScriptJSON marshals value for inlining inside a <script> element. Markup
// characters only occur inside JSON strings, so unicode-escaping them keeps
// the value identical once parsed.
func ScriptJSON(value any) (string, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return scriptEscaper.Replace(string(payload)), nil
}
