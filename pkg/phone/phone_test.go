package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeBelgianMobile(t *testing.T) {
	cases := map[string]string{
		"0475123456":     "+32 475 12 34 56",
		"0475 12 34 56":  "+32 475 12 34 56",
		"0475/12.34.56":  "+32 475 12 34 56",
		"+32475123456":   "+32 475 12 34 56",
		"0032475123456":  "+32 475 12 34 56",
		"32475123456":    "+32 475 12 34 56",
		"498728675":      "+32 498 72 86 75",
		"4475954362":     "+32 475 95 43 62",
		"475123456.00":   "+32 475 12 34 56",
		"02 123 45 67":   "+32 21 23 45 67",
	}
	for raw, want := range cases {
		assert.Equal(t, want, Normalize(raw), "raw=%q", raw)
	}
}

func TestNormalizeFrenchMobile(t *testing.T) {
	assert.Equal(t, "+33 6 12 34 56 78", Normalize("+33612345678"))
	assert.Equal(t, "+33 6 12 34 56 78", Normalize("33612345678"))
}

func TestNormalizeEmptyMarkers(t *testing.T) {
	for _, raw := range []any{nil, "", " ", "/", "-", "@"} {
		assert.Empty(t, Normalize(raw), "raw=%v", raw)
	}
}

func TestNormalizeMultipleNumbers(t *testing.T) {
	assert.Equal(t,
		"+32 475 12 34 56 / +32 476 98 76 54",
		Normalize("0475123456 ou 0476987654"))
	assert.Equal(t,
		"+32 475 12 34 56 / +32 476 98 76 54",
		Normalize("0475123456 / 0476987654"))
	assert.Equal(t,
		"+32 475 12 34 56 / +32 476 98 76 54",
		Normalize("0475123456\n0476987654"))
	assert.Equal(t,
		"+32 612 34 56 78 / +32 798 76 54 32",
		Normalize("0612345678 / 0798765432"))
}

func TestNormalizeNumericImport(t *testing.T) {
	// Excel hands numeric cells over as floats.
	assert.Equal(t, "+32 475 12 34 56", Normalize(475123456.0))
}

func TestNormalizeUnknownShapePassesThrough(t *testing.T) {
	// Foreign numbers are stripped but not reformatted.
	assert.Equal(t, "+4915112345678", Normalize("+49 151 12345678"))
}
