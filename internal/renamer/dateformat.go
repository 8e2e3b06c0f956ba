package renamer

import (
	"fmt"
	"strings"
	"time"
)

// dateTokens in fixed substitution order. YYYY must precede YY so a
// four-digit year request is consumed before the two-digit scan runs.
var dateTokens = []string{"YYYY", "YY", "MM", "DD", "HH", "mm"}

// FormatDate renders a date template against t. Each token is replaced at
// its first occurrence with a single pass over the original template:
// replaced text is never rescanned, so "YYYY" can't leave a year behind for
// the later "YY" pass to match. Unrecognized tokens stay verbatim.
func FormatDate(template string, t time.Time) string {
	values := map[string]string{
		"YYYY": fmt.Sprintf("%d", t.Year()),
		"YY":   fmt.Sprintf("%02d", t.Year()%100),
		"MM":   fmt.Sprintf("%02d", int(t.Month())),
		"DD":   fmt.Sprintf("%02d", t.Day()),
		"HH":   fmt.Sprintf("%02d", t.Hour()),
		"mm":   fmt.Sprintf("%02d", t.Minute()),
	}

	// Phase one swaps each token for a placeholder that contains no token
	// characters; phase two fills the placeholders in. Substituted values
	// are therefore invisible to later token scans.
	out := template
	for i, tok := range dateTokens {
		out = strings.Replace(out, tok, placeholder(i), 1)
	}
	for i, tok := range dateTokens {
		out = strings.Replace(out, placeholder(i), values[tok], 1)
	}
	return out
}

func placeholder(i int) string {
	return fmt.Sprintf("\x00%d\x00", i)
}
