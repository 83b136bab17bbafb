// Package phone canonicalizes the phone columns of the roster. Cells
// hold anything from clean "+32 4xx" numbers to Excel numeric imports
// with a ".00" tail, and frequently two numbers for one student
// ("0475... ou 0476..."). Normalize is total and never fails; text it
// cannot make sense of passes through with only character stripping.
package phone

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/streetfamily/roster/pkg/models"
)

// Separators between multiple numbers in a single cell: newlines,
// " / ", " ou ", " et ", " - " in any spacing the staff used.
var splitter = regexp.MustCompile(`(?i)[\n\r]|\s+/\s+|\s+ou\s+|\s+et\s+|\s+-\s+| - `)

var nonDialable = regexp.MustCompile(`[^\d+]`)

// Normalize turns raw phone-cell content into a canonical international
// display form, joining multiple numbers with " / ".
func Normalize(raw any) string {
	str := strings.TrimSpace(models.CellString(raw))
	if str == "" || str == "/" || str == "-" || str == "@" {
		return ""
	}

	// Numeric imports come back as "475123456.00".
	str = strings.TrimSuffix(str, ".00")

	parts := splitter.Split(str, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if n := normalizeOne(p); n != "" {
			out = append(out, n)
		}
	}
	return strings.Join(out, " / ")
}

func normalizeOne(raw string) string {
	clean := nonDialable.ReplaceAllString(raw, "")
	if clean == "" {
		return ""
	}

	if strings.HasPrefix(clean, "0032") {
		clean = "+32" + clean[4:]
	}
	// Country code typed without the plus: 32/33 followed by 9 digits.
	if strings.HasPrefix(clean, "32") && len(clean) == 11 {
		clean = "+" + clean
	}
	if strings.HasPrefix(clean, "33") && len(clean) == 11 {
		clean = "+" + clean
	}
	if strings.HasPrefix(clean, "0") {
		clean = "+32" + clean[1:]
	}
	// Local number missing its leading zero: "498728675".
	if !strings.HasPrefix(clean, "+") && len(clean) == 9 && clean[0] == '4' {
		clean = "+32" + clean
	}
	// "4475 954362": a 0475 number with the zero mis-typed as 4.
	if !strings.HasPrefix(clean, "+") && len(clean) == 10 && strings.HasPrefix(clean, "447") {
		clean = "+32" + clean[1:]
	}

	if strings.HasPrefix(clean, "+32") {
		rest := clean[3:]
		switch len(rest) {
		case 9:
			return fmt.Sprintf("+32 %s %s %s %s", rest[0:3], rest[3:5], rest[5:7], rest[7:9])
		case 8:
			return fmt.Sprintf("+32 %s %s %s %s", rest[0:2], rest[2:4], rest[4:6], rest[6:8])
		}
	}

	if strings.HasPrefix(clean, "+33") {
		rest := clean[3:]
		if len(rest) == 9 {
			return fmt.Sprintf("+33 %s %s %s %s %s", rest[0:1], rest[1:3], rest[3:5], rest[5:7], rest[7:9])
		}
	}

	return clean
}
