package models

import (
	"strconv"
	"strings"
)

// Row is one raw spreadsheet row. Cells keep whatever type the codec
// produced (string, float64, bool, nil); rows are the durable source of
// truth and students are re-derived from them after every mutation.
type Row []any

// Column offsets of the shared roster layout (0-based).
const (
	ColFiche = iota
	ColName
	ColCourses
	ColHours
	ColReduction
	ColAmountDue
	ColPaymentType
	ColPaid1
	ColDate1
	ColPaid2
	ColDate2
	ColTelStudent
	ColParentsName
	ColTelParents
	ColMailStudent
	ColMailParents
	ColAddress
	ColPostalCode
	ColCity
	ColBirthDate
	ColBirthPlace
	ColOther
	ColSex

	// Virtual column appended to the row, absent from original files.
	ColActive

	// MinRowLen is the number of addressable positions every row is
	// guaranteed to have after Pad.
	MinRowLen
)

// HeaderRowIndex is where the column labels live in the canonical
// layout; rows 0 and 1 are both header/meta, data starts right after.
const HeaderRowIndex = 1

// ColumnByKey maps the edit/API field keys to row offsets. Derived
// fields (status, pricingCheck) are deliberately absent: they cannot be
// written, only recomputed.
var ColumnByKey = map[string]int{
	"hasFiche":    ColFiche,
	"name":        ColName,
	"courses":     ColCourses,
	"nbHours":     ColHours,
	"reduction":   ColReduction,
	"amountDue":   ColAmountDue,
	"paymentType": ColPaymentType,
	"paid1":       ColPaid1,
	"date1":       ColDate1,
	"paid2":       ColPaid2,
	"date2":       ColDate2,
	"telStudent":  ColTelStudent,
	"parentsName": ColParentsName,
	"telParents":  ColTelParents,
	"mailStudent": ColMailStudent,
	"mailParents": ColMailParents,
	"address":     ColAddress,
	"cp":          ColPostalCode,
	"city":        ColCity,
	"dob":         ColBirthDate,
	"pob":         ColBirthPlace,
	"other":       ColOther,
	"sex":         ColSex,
}

// Pad grows the row in place until every schema position is addressable.
func (r *Row) Pad() {
	for len(*r) < MinRowLen {
		*r = append(*r, "")
	}
}

// Clone returns a shallow copy of the row (cells are primitives).
func (r Row) Clone() Row {
	out := make(Row, len(r))
	copy(out, r)
	return out
}

// CellString renders a cell the way the original sheets did: numbers
// without a trailing ".0", booleans lowercased, nil empty.
func CellString(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case bool:
		if c {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(c), 'f', -1, 32)
	case int:
		return strconv.Itoa(c)
	case int64:
		return strconv.FormatInt(c, 10)
	default:
		return strings.TrimSpace(strValue(c))
	}
}

func strValue(v any) string {
	type stringer interface{ String() string }
	if s, ok := v.(stringer); ok {
		return s.String()
	}
	return ""
}

// TextCell trims the cell and treats the "/" and "-" placeholders the
// staff type into empty columns as empty.
func TextCell(v any) string {
	s := strings.TrimSpace(CellString(v))
	if s == "/" || s == "-" {
		return ""
	}
	return s
}
