package auth

import (
	"fmt"
	"io"
	"strings"
)

const (
	secretPreview = 10
	exampleURL    = "http://localhost:8080/ngsi-ld/v1/entities/YOUR_ENTITY_ID/attrs"
)

// Report is what the token generator prints for a freshly issued token.
type Report struct {
	User   string
	Hours  int
	Secret string
	Token  string
}

// WriteTo prints the report with a ready-to-run curl example. Only the
// first characters of the secret are shown.
func (r Report) WriteTo(w io.Writer) (int64, error) {
	rule := strings.Repeat("=", 60)

	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n", rule)
	fmt.Fprintln(&b, "JWT Token Generated")
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "User:       %s\n", r.User)
	fmt.Fprintf(&b, "Valid for:  %d hours\n", r.Hours)
	fmt.Fprintf(&b, "Secret:     %s...\n", preview(r.Secret, secretPreview))
	fmt.Fprintln(&b, "\nToken:")
	fmt.Fprintln(&b, r.Token)
	fmt.Fprintf(&b, "\n%s\n", rule)
	fmt.Fprintln(&b, "Usage Example:")
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "curl -X PATCH \"%s\" \\\n", exampleURL)
	fmt.Fprintln(&b, `  -H "Content-Type: application/json" \`)
	fmt.Fprintf(&b, "  -H \"Authorization: Bearer %s\" \\\n", r.Token)
	fmt.Fprintln(&b, "  -d '{...}'")
	fmt.Fprintln(&b)

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// preview returns at most n runes of s.
func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
