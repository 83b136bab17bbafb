package models

// SnapshotKey names the single slot the roster snapshot is persisted
// under; the payload is fully overwritten on every mutation.
const SnapshotKey = "sf_manager_data_v1"

// Snapshot is the persisted state: the raw rows (source of truth) and
// the column visibility preferences. Records are not persisted, they
// are re-derived on restore.
type Snapshot struct {
	Rows       []Row           `json:"rows"`
	Visibility map[string]bool `json:"visibility"`
}
