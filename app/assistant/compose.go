package assistant

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ComposeBody wraps a generated draft with a greeting derived from the
// recipient address and a signature built from the sender's name and role.
func ComposeBody(raw, recipient, name, role string) string {
	local := recipient
	if at := strings.Index(recipient, "@"); at >= 0 {
		local = recipient[:at]
	}

	greeting := "Dear " + capitalize(local) + ",\n"
	signature := "\n\nSincerely,\n" + name + "\n" + role

	return greeting + "\n" + raw + signature
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
