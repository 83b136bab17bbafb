package roster

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/streetfamily/roster/pkg/models"
	"github.com/streetfamily/roster/pkg/pricing"
)

// Persister saves and restores the roster snapshot. Implementations
// live in pkg/storage; the store only cares about the round-trip.
type Persister interface {
	Save(models.Snapshot) error
	Load() (models.Snapshot, bool, error)
}

// Store owns the row set and the derived records. There is one logical
// writer (the staff member behind the UI) but handlers run on separate
// goroutines, so access is serialized with a mutex.
type Store struct {
	logger    *log.Logger
	mapper    *Mapper
	persister Persister

	mu         sync.RWMutex
	rows       []models.Row
	students   []*models.Student
	visibility map[string]bool
}

// NewStore wires a store over the given mapper and persister.
func NewStore(mapper *Mapper, persister Persister, logger *log.Logger) *Store {
	return &Store{
		logger:     logger,
		mapper:     mapper,
		persister:  persister,
		visibility: map[string]bool{},
	}
}

// Load replaces the whole row set, re-derives every record and persists
// the new snapshot. It is all-or-nothing: callers that fail to decode a
// file never reach this point, so prior state stays untouched.
func (s *Store) Load(rows [][]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rows = make([]models.Row, len(rows))
	for i, r := range rows {
		row := models.Row(r).Clone()
		row.Pad()
		s.rows[i] = row
	}
	s.derive()
	s.persist()
}

// Restore loads the persisted snapshot, if any, and re-derives records
// from it.
func (s *Store) Restore() (bool, error) {
	snap, ok, err := s.persister.Load()
	if err != nil {
		return false, err
	}
	if !ok || len(snap.Rows) == 0 {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = snap.Rows
	for i := range s.rows {
		s.rows[i].Pad()
	}
	if snap.Visibility != nil {
		s.visibility = snap.Visibility
	}
	s.derive()
	return true, nil
}

// derive rebuilds every record. Data rows start right below the header;
// rows without a name keep their slot (and id) but produce no record.
// Callers hold the lock.
func (s *Store) derive() {
	s.students = s.students[:0]
	for i := models.HeaderRowIndex + 1; i < len(s.rows); i++ {
		row := s.rows[i]
		if len(row) == 0 || models.CellString(row[models.ColName]) == "" {
			continue
		}
		s.students = append(s.students, s.mapper.MapRow(row, i))
	}
}

// All returns the derived records in row order.
func (s *Store) All() []*models.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Student, len(s.students))
	copy(out, s.students)
	return out
}

// Get returns the record with the given id, nil when unknown.
func (s *Store) Get(id int) *models.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookup(id)
}

func (s *Store) lookup(id int) *models.Student {
	for _, st := range s.students {
		if st.ID == id {
			return st
		}
	}
	return nil
}

// Stats counts records by active flag and payment status.
func (s *Store) Stats() models.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := models.Stats{Total: len(s.students)}
	for _, st := range s.students {
		if st.Active {
			stats.Active++
		}
		switch st.Status {
		case models.StatusPaid:
			stats.Paid++
		case models.StatusUnpaid:
			stats.Unpaid++
		case models.StatusPartial:
			stats.Partial++
		}
	}
	return stats
}

// UpdateRow applies the mutator to the row at position id, re-derives
// only that record and persists. Unknown ids are no-ops: the UI can
// race slightly ahead of state and that must never crash an edit. The
// meta and header rows are not editable records and count as unknown.
func (s *Store) UpdateRow(id int, mutate func(models.Row)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id <= models.HeaderRowIndex || id >= len(s.rows) {
		s.logger.Warn("update for unknown row ignored", "id", id)
		return
	}

	mutate(s.rows[id])
	s.replace(s.mapper.MapRow(s.rows[id], id))
	s.persist()
}

// replace swaps the freshly derived record in, keeping row order.
// Callers hold the lock.
func (s *Store) replace(st *models.Student) {
	for i, cur := range s.students {
		if cur.ID == st.ID {
			s.students[i] = st
			return
		}
	}
	// Row had no record yet (e.g. a name was just filled in): insert at
	// its row-order position.
	at := len(s.students)
	for i, cur := range s.students {
		if cur.ID > st.ID {
			at = i
			break
		}
	}
	s.students = append(s.students, nil)
	copy(s.students[at+1:], s.students[at:])
	s.students[at] = st
}

// SetFields writes the given key→value edits into the row and
// re-derives. Keys outside the column schema are ignored.
func (s *Store) SetFields(id int, fields map[string]any) {
	s.UpdateRow(id, func(row models.Row) {
		for key, val := range fields {
			col, ok := models.ColumnByKey[key]
			if !ok {
				s.logger.Warn("edit for unknown field ignored", "key", key)
				continue
			}
			row[col] = val
		}
	})
}

// ToggleActive flips the enrollment flag, persisting it in the virtual
// row column.
func (s *Store) ToggleActive(id int) {
	st := s.Get(id)
	if st == nil {
		return
	}
	s.UpdateRow(id, func(row models.Row) {
		row[models.ColActive] = !st.Active
	})
}

// Tariffs returns the grid backing pricing checks.
func (s *Store) Tariffs() *pricing.Table {
	return s.mapper.Tariffs()
}

// Visibility returns a copy of the column visibility preferences.
func (s *Store) Visibility() map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]bool, len(s.visibility))
	for k, v := range s.visibility {
		out[k] = v
	}
	return out
}

// SetVisibility replaces the visibility preferences and persists.
func (s *Store) SetVisibility(settings map[string]bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visibility = settings
	s.persist()
}

// persist overwrites the snapshot. Failures are logged, never fatal,
// and never roll back the in-memory mutation. Callers hold the lock.
func (s *Store) persist() {
	snap := models.Snapshot{Rows: s.rows, Visibility: s.visibility}
	if err := s.persister.Save(snap); err != nil {
		s.logger.Warn("failed to persist snapshot", "err", err)
	}
}
