package store

import (
	"errors"

	"github.com/amrshaker000/origin-trace/internal/model"
)

// ErrNotFound is returned when a record position does not exist.
var ErrNotFound = errors.New("record not found")

// Inventory is the system of record for raw device inspection records.
// Records are addressed by their 1-based position in insertion order,
// which is also the order the catalog normalizer consumes them in, so
// position N in the store becomes device ID N on the next catalog
// build.
type Inventory interface {
	ListRecords() ([]model.RawDeviceRecord, error)
	GetRecord(pos int) (model.RawDeviceRecord, error)
	CreateRecord(rec model.RawDeviceRecord) (pos int, err error)
	UpdateRecord(pos int, rec model.RawDeviceRecord) error
	DeleteRecord(pos int) error
	CountRecords() (int, error)
	ImportRecords(records []model.RawDeviceRecord) (int, error)
	Close() error
}
