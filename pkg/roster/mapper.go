// Package roster derives student records from raw sheet rows and owns
// the live row set. Rows are the source of truth; every edit goes
// through the store, which re-derives the affected record so row and
// record can never diverge.
package roster

import (
	"fmt"
	"math"
	"strings"

	"github.com/streetfamily/roster/pkg/models"
	"github.com/streetfamily/roster/pkg/money"
	"github.com/streetfamily/roster/pkg/phone"
	"github.com/streetfamily/roster/pkg/pricing"
)

// Mapper turns one raw row into a fully derived Student. It is pure:
// the same row always yields the same record.
type Mapper struct {
	tariffs *pricing.Table
}

// NewMapper builds a mapper over the given tariff grid, falling back to
// the compiled-in grid when nil.
func NewMapper(tariffs *pricing.Table) *Mapper {
	if tariffs == nil {
		tariffs = pricing.Default()
	}
	return &Mapper{tariffs: tariffs}
}

// Tariffs exposes the grid backing pricing checks.
func (m *Mapper) Tariffs() *pricing.Table {
	return m.tariffs
}

// MapRow derives the Student for the row at the given index. The index
// becomes the record id and stays stable for the row's lifetime.
func (m *Mapper) MapRow(row models.Row, index int) *models.Student {
	row = padded(row)

	due := money.Parse(row[models.ColAmountDue])
	paid1 := money.Parse(row[models.ColPaid1])
	paid2 := money.Parse(row[models.ColPaid2])

	s := &models.Student{
		ID:       index,
		HasFiche: flagSet(row[models.ColFiche]),
		Active:   activeFlag(row[models.ColActive]),

		Name:        models.TextCell(row[models.ColName]),
		Courses:     models.TextCell(row[models.ColCourses]),
		NbHours:     models.TextCell(row[models.ColHours]),
		Reduction:   models.TextCell(row[models.ColReduction]),
		PaymentType: models.TextCell(row[models.ColPaymentType]),

		AmountDue:        due.Amount,
		AmountDueDetails: due,

		Paid1:        paid1.Amount,
		Paid1Details: paid1,
		Date1:        strings.TrimSpace(models.CellString(row[models.ColDate1])),

		Paid2:        paid2.Amount,
		Paid2Details: paid2,
		Date2:        strings.TrimSpace(models.CellString(row[models.ColDate2])),

		TelStudent:  phone.Normalize(models.TextCell(row[models.ColTelStudent])),
		ParentsName: models.TextCell(row[models.ColParentsName]),
		TelParents:  phone.Normalize(models.TextCell(row[models.ColTelParents])),
		MailStudent: models.TextCell(row[models.ColMailStudent]),
		MailParents: models.TextCell(row[models.ColMailParents]),
		Address:     models.TextCell(row[models.ColAddress]),
		PostalCode:  models.TextCell(row[models.ColPostalCode]),
		City:        models.TextCell(row[models.ColCity]),
		BirthDate:   models.TextCell(row[models.ColBirthDate]),
		BirthPlace:  models.TextCell(row[models.ColBirthPlace]),
		Other:       models.TextCell(row[models.ColOther]),
		Sex:         models.TextCell(row[models.ColSex]),
	}

	s.AmountPaid = totalPaid(s)
	s.Remaining = s.AmountDue - s.AmountPaid
	s.Status = statusOf(s)
	s.PricingCheck = m.verifyPrice(s)

	return s
}

// totalPaid sums the two payments. Policy: a payment counts whenever a
// nonzero amount was parsed, whether or not its date cell is filled —
// undated cash payments ("90 en liquide") must not be dropped.
func totalPaid(s *models.Student) float64 {
	var paid float64
	if s.Paid1 != 0 {
		paid += s.Paid1
	}
	if s.Paid2 != 0 {
		paid += s.Paid2
	}
	return paid
}

// statusOf classifies the payment state with a 0.1 tolerance to absorb
// rounding in hand-entered amounts.
func statusOf(s *models.Student) string {
	if s.AmountDueDetails.Text != "" {
		return models.StatusNA
	}
	if s.AmountDue == 0 && s.AmountPaid == 0 {
		return models.StatusNA
	}
	if s.AmountPaid >= s.AmountDue-0.1 {
		return models.StatusPaid
	}
	if s.AmountPaid > 0 && s.AmountPaid < s.AmountDue {
		return models.StatusPartial
	}
	return models.StatusUnpaid
}

// verifyPrice compares the paid total against the tariff grid. "carte"
// discounts have no grid row: the student's own declared due amount is
// the target, which only ever flags over/under against self-declared
// pricing.
func (m *Mapper) verifyPrice(s *models.Student) models.PricingCheck {
	if s.AmountDueDetails.Text != "" {
		return models.PricingCheck{Status: models.PriceUnknown, Message: "Prix texte"}
	}

	if strings.Contains(strings.ToLower(s.Reduction), "carte") {
		return checkAgainst(s.AmountDue, s.AmountPaid, "Carte")
	}

	target, ok := m.tariffs.Target(s.NbHours, s.PaymentType, s.Reduction)
	if !ok {
		return models.PricingCheck{Status: models.PriceUnknown, Message: "Heures?"}
	}
	return checkAgainst(target, s.AmountPaid, "Exact")
}

// checkAgainst applies the shared 1-unit tolerance for ok/over/under.
func checkAgainst(target, paid float64, okMsg string) models.PricingCheck {
	diff := paid - target
	if math.Abs(diff) < 1 {
		return models.PricingCheck{Status: models.PriceOK, Target: target, Message: okMsg}
	}
	if diff > 0 {
		return models.PricingCheck{Status: models.PriceOver, Target: target, Diff: diff, Message: fmt.Sprintf("+%.2f€", diff)}
	}
	return models.PricingCheck{Status: models.PriceUnder, Target: target, Diff: diff, Message: fmt.Sprintf("%.2f€", diff)}
}

func flagSet(v any) bool {
	switch c := v.(type) {
	case bool:
		return c
	case string:
		return c == "True"
	case float64:
		return c == 1
	case int:
		return c == 1
	default:
		return false
	}
}

// activeFlag reads the virtual active column, defaulting to true for
// rows created before the column existed.
func activeFlag(v any) bool {
	if v == nil || models.CellString(v) == "" {
		return true
	}
	return flagSet(v)
}

func padded(row models.Row) models.Row {
	if len(row) >= models.MinRowLen {
		return row
	}
	out := row.Clone()
	out.Pad()
	return out
}
