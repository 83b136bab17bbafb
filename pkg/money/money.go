// Package money interprets the free-text money columns of the roster
// sheet. Staff type anything in there: plain numbers, hand arithmetic
// ("100+40=140"), amounts with prose ("90 en liquide"), or pure notes
// ("Carte ou Espèce"). Parse is total and never fails; the worst a cell
// can do is come back as a zero amount.
package money

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/streetfamily/roster/pkg/models"
)

var (
	startsWithLetter = regexp.MustCompile(`^[a-zA-Z]`)
	anyDigit         = regexp.MustCompile(`\d`)
	anyLetter        = regexp.MustCompile(`[a-zA-Z]`)
	numberRun        = regexp.MustCompile(`\d+[.,]?\d*`)
	// Loose class for cells that look like arithmetic, currency sign
	// and decimal commas included.
	mathCandidate = regexp.MustCompile(`^[\d\s€.,+\-*/()]+$`)
	// Strict class checked again after normalization, right before the
	// expression is evaluated.
	mathStrict = regexp.MustCompile(`^[\d.+\-*/()\s]+$`)
)

// Parse reads one raw cell as a monetary value. First matching rule
// wins; rule order matters and mirrors how the sheets were actually
// filled in (the "X ou Y" choice test runs before the pure-text test so
// choices never pick up a number).
func Parse(raw any) models.MoneyCell {
	res := models.MoneyCell{Raw: models.CellString(raw)}

	if raw == nil || res.Raw == "" {
		return res
	}
	if strings.TrimSpace(res.Raw) == "/" {
		return res
	}

	switch v := raw.(type) {
	case float64:
		res.Amount = v
		return res
	case float32:
		res.Amount = float64(v)
		return res
	case int:
		res.Amount = float64(v)
		return res
	case int64:
		res.Amount = float64(v)
		return res
	}

	str := strings.TrimSpace(res.Raw)
	res.Raw = str

	if strings.Contains(strings.ToLower(str), " ou ") {
		res.Text = str
		return res
	}

	if startsWithLetter.MatchString(str) && !anyDigit.MatchString(str) {
		res.Text = str
		res.IsComment = true
		return res
	}

	// Hand-written arithmetic with an explicit result: keep the part
	// after the last "=".
	if i := strings.LastIndex(str, "="); i >= 0 {
		res.Amount = looseFloat(str[i+1:])
		return res
	}

	if mathCandidate.MatchString(str) {
		eqn := strings.ReplaceAll(strings.ReplaceAll(str, ",", "."), "€", "")
		if mathStrict.MatchString(eqn) {
			if v, err := Eval(eqn); err == nil {
				res.Amount = v
				return res
			}
		}
		// Evaluation failure falls through to the scans below.
	}

	nums := numberRun.FindAllString(str, -1)
	hasLetter := anyLetter.MatchString(str)

	if len(nums) == 1 && hasLetter {
		res.Amount = leadingFloat(strings.ReplaceAll(nums[0], ",", "."))
		res.IsComment = true
		return res
	}

	if len(nums) > 1 && hasLetter {
		var total float64
		for _, n := range nums {
			total += leadingFloat(strings.ReplaceAll(n, ",", "."))
		}
		res.Amount = total
		res.IsComment = true
		return res
	}

	if hasLetter {
		res.Text = str
		res.IsComment = true
		return res
	}

	res.Amount = looseFloat(str)
	return res
}

// looseFloat strips everything that cannot be part of a number (comma
// read as decimal separator) and parses the leading numeric prefix.
func looseFloat(s string) float64 {
	s = strings.ReplaceAll(s, ",", ".")
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return leadingFloat(b.String())
}

// leadingFloat parses the longest numeric prefix of s, 0 when there is
// none. "1.2.3" reads as 1.2, matching how the sheets were tolerated
// historically.
func leadingFloat(s string) float64 {
	s = strings.TrimSpace(s)
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	dot := false
	j := i
loop:
	for j < len(s) {
		switch c := s[j]; {
		case c >= '0' && c <= '9':
			j++
		case c == '.' && !dot:
			dot = true
			j++
		default:
			break loop
		}
	}
	v, err := strconv.ParseFloat(s[:j], 64)
	if err != nil {
		return 0
	}
	return v
}
