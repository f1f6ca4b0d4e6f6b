package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/amrshaker000/origin-trace/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore persists raw device records in a single SQLite database.
type SQLiteStore struct {
	db      *sql.DB
	mu      sync.RWMutex
	dataDir string
}

var _ Inventory = (*SQLiteStore)(nil)

// NewSQLite opens (creating if needed) the inventory database under
// dataDir and runs schema migrations.
func NewSQLite(dataDir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "origin-trace.db")
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLiteStore{db: db, dataDir: dataDir}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS raw_devices (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		brand TEXT,
		model TEXT,
		category TEXT,
		year INTEGER,
		image TEXT,
		cpu_model TEXT,
		ram_gb INTEGER,
		storage_gb INTEGER,
		capacity_gb INTEGER,
		battery_status TEXT,
		screen_status TEXT,
		overall_score REAL,
		best_use_cases TEXT,
		serial_number TEXT,
		ledger_timestamp INTEGER,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_raw_devices_category ON raw_devices(category);
	CREATE INDEX IF NOT EXISTS idx_raw_devices_serial ON raw_devices(serial_number);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const recordColumns = `brand, model, category, year, image, cpu_model,
	ram_gb, storage_gb, capacity_gb, battery_status, screen_status,
	overall_score, best_use_cases, serial_number, ledger_timestamp`

// ListRecords returns all records in insertion order. This is the
// sequence the catalog normalizer consumes, so the row at position i
// becomes device ID i+1.
func (s *SQLiteStore) ListRecords() ([]model.RawDeviceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT ` + recordColumns + ` FROM raw_devices ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var records []model.RawDeviceRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetRecord returns the record at the given 1-based position.
func (s *SQLiteStore) GetRecord(pos int) (model.RawDeviceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(
		`SELECT `+recordColumns+` FROM raw_devices ORDER BY id LIMIT 1 OFFSET ?`, pos-1)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return model.RawDeviceRecord{}, ErrNotFound
	}
	return rec, err
}

// CreateRecord appends a record and returns its 1-based position.
func (s *SQLiteStore) CreateRecord(rec model.RawDeviceRecord) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().Unix()
	if _, err := s.insert(rec, now); err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM raw_devices`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

// UpdateRecord replaces the record at the given 1-based position.
func (s *SQLiteStore) UpdateRecord(pos int, rec model.RawDeviceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rowID, err := s.rowIDAt(pos)
	if err != nil {
		return err
	}

	args := recordArgs(rec)
	args = append(args, time.Now().Unix(), rowID)
	_, err = s.db.Exec(`UPDATE raw_devices SET
		brand = ?, model = ?, category = ?, year = ?, image = ?, cpu_model = ?,
		ram_gb = ?, storage_gb = ?, capacity_gb = ?, battery_status = ?, screen_status = ?,
		overall_score = ?, best_use_cases = ?, serial_number = ?, ledger_timestamp = ?,
		updated_at = ?
		WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}
	return nil
}

// DeleteRecord removes the record at the given 1-based position. Later
// records shift down one position; a catalog rebuild after a delete
// therefore reassigns device IDs, which is the documented lifecycle.
func (s *SQLiteStore) DeleteRecord(pos int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rowID, err := s.rowIDAt(pos)
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(`DELETE FROM raw_devices WHERE id = ?`, rowID); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

// CountRecords returns the number of stored records.
func (s *SQLiteStore) CountRecords() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM raw_devices`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

// ImportRecords bulk-appends records in order, in one transaction.
func (s *SQLiteStore) ImportRecords(records []model.RawDeviceRecord) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	now := time.Now().Unix()
	imported := 0
	for _, rec := range records {
		args := recordArgs(rec)
		args = append(args, now, now)
		if _, err := tx.Exec(`INSERT INTO raw_devices (`+recordColumns+`, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("failed to insert record: %w", err)
		}
		imported++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}
	return imported, nil
}

func (s *SQLiteStore) insert(rec model.RawDeviceRecord, now int64) (int64, error) {
	args := recordArgs(rec)
	args = append(args, now, now)
	res, err := s.db.Exec(`INSERT INTO raw_devices (`+recordColumns+`, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert record: %w", err)
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) rowIDAt(pos int) (int64, error) {
	var rowID int64
	err := s.db.QueryRow(`SELECT id FROM raw_devices ORDER BY id LIMIT 1 OFFSET ?`, pos-1).Scan(&rowID)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve record position: %w", err)
	}
	return rowID, nil
}

// recordArgs flattens a raw record into the column order of
// recordColumns. Absent optional blocks become NULLs so a round trip
// through the store preserves absence, not zero values.
func recordArgs(rec model.RawDeviceRecord) []any {
	var cpuModel sql.NullString
	if rec.CPU != nil {
		cpuModel = sql.NullString{String: rec.CPU.Model, Valid: true}
	}

	var ramGB, storageGB, capacityGB sql.NullInt64
	if rec.Memory != nil {
		ramGB = nullInt(rec.Memory.RAMGB)
		storageGB = nullInt(rec.Memory.StorageGB)
		capacityGB = nullInt(rec.Memory.CapacityGB)
	}

	var batteryStatus, screenStatus sql.NullString
	if rec.Battery != nil {
		batteryStatus = sql.NullString{String: rec.Battery.Status, Valid: true}
	}
	if rec.Screen != nil {
		screenStatus = sql.NullString{String: rec.Screen.Status, Valid: true}
	}

	var overallScore sql.NullFloat64
	var useCases sql.NullString
	if rec.Inspection != nil {
		if rec.Inspection.OverallScore != nil {
			overallScore = sql.NullFloat64{Float64: *rec.Inspection.OverallScore, Valid: true}
		}
		if len(rec.Inspection.BestUseCases) > 0 {
			if data, err := json.Marshal(rec.Inspection.BestUseCases); err == nil {
				useCases = sql.NullString{String: string(data), Valid: true}
			}
		}
	}

	var serial sql.NullString
	if rec.Identity != nil {
		serial = sql.NullString{String: rec.Identity.SerialNumber, Valid: true}
	}

	var ledgerTS sql.NullInt64
	if rec.Blockchain != nil && rec.Blockchain.Timestamp > 0 {
		ledgerTS = sql.NullInt64{Int64: rec.Blockchain.Timestamp, Valid: true}
	}

	return []any{
		rec.Brand, rec.Model, rec.Category, rec.Year, rec.Image, cpuModel,
		ramGB, storageGB, capacityGB, batteryStatus, screenStatus,
		overallScore, useCases, serial, ledgerTS,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (model.RawDeviceRecord, error) {
	var (
		rec        model.RawDeviceRecord
		cpuModel   sql.NullString
		ramGB      sql.NullInt64
		storageGB  sql.NullInt64
		capacityGB sql.NullInt64
		battery    sql.NullString
		screen     sql.NullString
		score      sql.NullFloat64
		useCases   sql.NullString
		serial     sql.NullString
		ledgerTS   sql.NullInt64
	)

	err := row.Scan(&rec.Brand, &rec.Model, &rec.Category, &rec.Year, &rec.Image,
		&cpuModel, &ramGB, &storageGB, &capacityGB, &battery, &screen,
		&score, &useCases, &serial, &ledgerTS)
	if err == sql.ErrNoRows {
		return rec, err
	}
	if err != nil {
		return rec, fmt.Errorf("failed to scan record: %w", err)
	}

	if cpuModel.Valid {
		rec.CPU = &model.RawCPU{Model: cpuModel.String}
	}
	if ramGB.Valid || storageGB.Valid || capacityGB.Valid {
		rec.Memory = &model.RawMemory{
			RAMGB:      intPtr(ramGB),
			StorageGB:  intPtr(storageGB),
			CapacityGB: intPtr(capacityGB),
		}
	}
	if battery.Valid {
		rec.Battery = &model.RawComponentState{Status: battery.String}
	}
	if screen.Valid {
		rec.Screen = &model.RawComponentState{Status: screen.String}
	}
	if score.Valid || useCases.Valid {
		inspection := &model.RawInspectionSummary{}
		if score.Valid {
			v := score.Float64
			inspection.OverallScore = &v
		}
		if useCases.Valid {
			_ = json.Unmarshal([]byte(useCases.String), &inspection.BestUseCases)
		}
		rec.Inspection = inspection
	}
	if serial.Valid {
		rec.Identity = &model.RawIdentity{SerialNumber: serial.String}
	}
	if ledgerTS.Valid {
		rec.Blockchain = &model.RawBlockchainMeta{Timestamp: ledgerTS.Int64}
	}

	return rec, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
