package roster

import (
	"fmt"

	"github.com/streetfamily/roster/pkg/models"
	"github.com/streetfamily/roster/pkg/phone"
)

// ExportOptions selects the optional transformations applied to the
// exported row set.
type ExportOptions struct {
	// FormatPhones rewrites the two phone columns through the
	// normalizer before export.
	FormatPhones bool
	// StatusColumn appends the derived payment status per data row.
	StatusColumn bool
	// BalanceColumn appends the remaining balance as a currency string
	// per data row.
	BalanceColumn bool
}

// ExportSnapshot returns a copy of the row set ready for re-encoding.
// Derived columns are computed fresh at export time and never written
// back onto the stored rows. Labels for the extra columns go on row 0;
// data rows get their record's values, header and meta rows get empty
// cells so every row grows by the same amount.
func (s *Store) ExportSnapshot(opts ExportOptions) [][]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([][]any, len(s.rows))
	for i, row := range s.rows {
		out[i] = row.Clone()
	}
	if len(out) == 0 {
		return out
	}

	if opts.StatusColumn {
		out[0] = append(out[0], "Statut")
	}
	if opts.BalanceColumn {
		out[0] = append(out[0], "Solde Restant")
	}

	for i := 1; i < len(out); i++ {
		row := out[i]

		if opts.FormatPhones {
			if models.CellString(row[models.ColTelStudent]) != "" {
				row[models.ColTelStudent] = phone.Normalize(row[models.ColTelStudent])
			}
			if models.CellString(row[models.ColTelParents]) != "" {
				row[models.ColTelParents] = phone.Normalize(row[models.ColTelParents])
			}
		}

		if st := s.lookup(i); st != nil {
			if opts.StatusColumn {
				row = append(row, st.Status)
			}
			if opts.BalanceColumn {
				row = append(row, fmt.Sprintf("%.2f €", st.Remaining))
			}
		} else {
			if opts.StatusColumn {
				row = append(row, "")
			}
			if opts.BalanceColumn {
				row = append(row, "")
			}
		}
		out[i] = row
	}

	return out
}
