// Package pricing holds the tuition tariff table: one row per weekly
// hours bracket (plus the "FA" flat-rate package row), with semester
// and full-year prices for each discount tier.
package pricing

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rate is one tariff row. Hours is the lookup key: a number rendered
// without trailing zeros ("2", "2.5") or the literal package code "FA".
// Year is the first price of each pair (2h standard year = 225),
// Semester the second; older sheets labeled the pairs the other way
// around, so don't "fix" the ordering against them.
type Rate struct {
	Hours       string  `yaml:"hours"`
	Year        float64 `yaml:"year"`
	Semester    float64 `yaml:"semester"`
	Year10      float64 `yaml:"year_10"`
	Semester10  float64 `yaml:"semester_10"`
	Year15      float64 `yaml:"year_15"`
	Semester15  float64 `yaml:"semester_15"`
	YearFam     float64 `yaml:"year_family"`
	SemesterFam float64 `yaml:"semester_family"`
}

// Table is the full tariff grid.
type Table struct {
	Rates []Rate `yaml:"rates"`
}

// FlatRateKey is the row key for package pricing; any hours text
// mentioning "forfait" resolves to it.
const FlatRateKey = "FA"

// Default returns the association's current tariff grid.
func Default() *Table {
	return &Table{Rates: []Rate{
		{Hours: "1", Year: 140, Semester: 260, Year10: 126, Semester10: 234, Year15: 119, Semester15: 221, YearFam: 133, SemesterFam: 247},
		{Hours: "1.5", Year: 190, Semester: 360, Year10: 171, Semester10: 324, Year15: 161.5, Semester15: 306, YearFam: 180.5, SemesterFam: 342},
		{Hours: "2", Year: 225, Semester: 420, Year10: 202.5, Semester10: 378, Year15: 191.25, Semester15: 357, YearFam: 213.75, SemesterFam: 399},
		{Hours: "2.5", Year: 257.5, Semester: 480, Year10: 231.75, Semester10: 432, Year15: 218.88, Semester15: 408, YearFam: 244.63, SemesterFam: 456},
		{Hours: "3", Year: 290, Semester: 540, Year10: 261, Semester10: 486, Year15: 246.5, Semester15: 459, YearFam: 275.5, SemesterFam: 513},
		{Hours: "3.5", Year: 312.5, Semester: 580, Year10: 281.25, Semester10: 522, Year15: 265.63, Semester15: 493, YearFam: 296.88, SemesterFam: 551},
		{Hours: "4", Year: 335, Semester: 620, Year10: 301.5, Semester10: 558, Year15: 284.75, Semester15: 527, YearFam: 318.25, SemesterFam: 589},
		{Hours: "4.5", Year: 345, Semester: 645, Year10: 310.5, Semester10: 580.5, Year15: 293.25, Semester15: 548.25, YearFam: 327.75, SemesterFam: 612.75},
		{Hours: FlatRateKey, Year: 355, Semester: 670, Year10: 319.5, Semester10: 603, Year15: 301.75, Semester15: 569.5, YearFam: 337.25, SemesterFam: 636.5},
	}}
}

// FromFile loads a tariff grid from a YAML file so price changes do not
// require a rebuild.
func FromFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tariff file: %w", err)
	}
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse tariff yaml: %w", err)
	}
	if len(t.Rates) == 0 {
		return nil, fmt.Errorf("tariff file %s has no rates", path)
	}
	return &t, nil
}

var leadingNumber = regexp.MustCompile(`^[+-]?\d+(\.\d+)?`)

// HoursKey reduces free-form hours text to a table key: its leading
// number when it has one, FA when it mentions a package, otherwise the
// text itself.
func HoursKey(hours string) string {
	hours = strings.TrimSpace(hours)
	if m := leadingNumber.FindString(strings.ReplaceAll(hours, ",", ".")); m != "" {
		if v, err := strconv.ParseFloat(m, 64); err == nil {
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	if strings.Contains(strings.ToLower(hours), "forfait") {
		return FlatRateKey
	}
	return hours
}

// Target resolves the price a student should have paid for the given
// hours, billing cadence and discount code. The bool reports whether
// the hours key had a matching row.
//
// Tier selection is substring-based on the discount text; the 10% test
// runs first and also owns the "0.1" spelling, so "0.15" resolves to
// the 10% tier exactly as the historical grid did.
func (t *Table) Target(hours, paymentType, reduction string) (float64, bool) {
	key := HoursKey(hours)

	var rate *Rate
	for i := range t.Rates {
		if t.Rates[i].Hours == key {
			rate = &t.Rates[i]
			break
		}
	}
	if rate == nil {
		return 0, false
	}

	semester := strings.Contains(strings.ToLower(paymentType), "semestre")
	red := strings.ToLower(reduction)

	switch {
	case strings.Contains(red, "10") || strings.Contains(red, "0.1"):
		if semester {
			return rate.Semester10, true
		}
		return rate.Year10, true
	case strings.Contains(red, "15") || strings.Contains(red, "0.15"):
		if semester {
			return rate.Semester15, true
		}
		return rate.Year15, true
	case strings.Contains(red, "fam") || strings.Contains(red, "nomb"):
		if semester {
			return rate.SemesterFam, true
		}
		return rate.YearFam, true
	default:
		if semester {
			return rate.Semester, true
		}
		return rate.Year, true
	}
}
