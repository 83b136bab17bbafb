package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumericCells(t *testing.T) {
	assert.Equal(t, 140.0, Parse(140.0).Amount)
	assert.Equal(t, 90.0, Parse(90).Amount)
	assert.Equal(t, 12.5, Parse(12.5).Amount)
}

func TestParseEmptyAndSlash(t *testing.T) {
	for _, raw := range []any{nil, "", "/", " / "} {
		cell := Parse(raw)
		assert.Zero(t, cell.Amount, "raw=%v", raw)
		assert.Empty(t, cell.Text, "raw=%v", raw)
		assert.False(t, cell.IsComment, "raw=%v", raw)
	}
}

func TestParseHandwrittenArithmetic(t *testing.T) {
	// The "=" result wins over everything left of it.
	assert.Equal(t, 140.0, Parse("100+40=140").Amount)
	assert.Equal(t, 99.5, Parse("60 + 39,50 = 99,50").Amount)

	// Without "=", the expression itself is evaluated.
	assert.Equal(t, 140.0, Parse("100+40").Amount)
	assert.Equal(t, 150.0, Parse("3 * 50").Amount)
	assert.Equal(t, 130.0, Parse("(100+30)").Amount)
	assert.Equal(t, 99.5, Parse("60 + 39,50").Amount)
}

func TestParseCurrencySuffix(t *testing.T) {
	cell := Parse("140 €")
	assert.Equal(t, 140.0, cell.Amount)
	assert.Empty(t, cell.Text)
	assert.Equal(t, "140 €", cell.Raw)
}

func TestParseAmountWithComment(t *testing.T) {
	cell := Parse("90 en liquide")
	assert.Equal(t, 90.0, cell.Amount)
	assert.True(t, cell.IsComment)
	assert.Empty(t, cell.Text)
}

func TestParseMultipleAmountsInText(t *testing.T) {
	cell := Parse("100 virement et 40 cash")
	assert.Equal(t, 140.0, cell.Amount)
	assert.True(t, cell.IsComment)
}

func TestParseChoiceStaysText(t *testing.T) {
	cell := Parse("Carte ou Espèce")
	assert.Equal(t, "Carte ou Espèce", cell.Text)
	assert.Zero(t, cell.Amount)
	assert.False(t, cell.IsComment)

	// A choice between numbers is still a choice, not a sum.
	cell = Parse("140 ou 260")
	assert.Equal(t, "140 ou 260", cell.Text)
	assert.Zero(t, cell.Amount)
}

func TestParsePureText(t *testing.T) {
	cell := Parse("Je dois encore demander")
	assert.Equal(t, "Je dois encore demander", cell.Text)
	assert.True(t, cell.IsComment)
	assert.Zero(t, cell.Amount)
}

func TestParseFallback(t *testing.T) {
	assert.Equal(t, 140.5, Parse("140,50").Amount)
	assert.Zero(t, Parse("???").Amount)
}

func TestParsePreservesRaw(t *testing.T) {
	assert.Equal(t, "90 en liquide", Parse("  90 en liquide  ").Raw)
	assert.Equal(t, "140", Parse(140.0).Raw)
}

func TestEval(t *testing.T) {
	cases := map[string]float64{
		"140":           140,
		"100+40":        140,
		"100 - 40":      60,
		"2*3+4":         10,
		"2*(3+4)":       14,
		"100/4":         25,
		"-10+30":        20,
		"1.5 * 100":     150,
		"(2+3) * (4-1)": 15,
	}
	for expr, want := range cases {
		got, err := Eval(expr)
		require.NoError(t, err, "expr=%q", expr)
		assert.InDelta(t, want, got, 1e-9, "expr=%q", expr)
	}
}

func TestEvalRejectsGarbage(t *testing.T) {
	for _, expr := range []string{"", "10//2", "1+", "(1", "1)2", "abc"} {
		_, err := Eval(expr)
		assert.Error(t, err, "expr=%q", expr)
	}
}
