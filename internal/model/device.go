package model

// RawDeviceRecord is one un-normalized device inspection record as it
// arrives from the seed asset or the inventory API. Every field is
// optional; absence degrades to defaults during normalization.
type RawDeviceRecord struct {
	Brand      string                `json:"brand,omitempty"`
	Model      string                `json:"model,omitempty"`
	Category   string                `json:"category,omitempty"`
	Year       int                   `json:"year,omitempty"`
	Image      string                `json:"image,omitempty"`
	CPU        *RawCPU               `json:"cpu,omitempty"`
	Memory     *RawMemory            `json:"memory,omitempty"`
	Battery    *RawComponentState    `json:"battery,omitempty"`
	Screen     *RawComponentState    `json:"screen,omitempty"`
	Inspection *RawInspectionSummary `json:"inspection_summary,omitempty"`
	Identity   *RawIdentity          `json:"identity,omitempty"`
	Blockchain *RawBlockchainMeta    `json:"blockchain,omitempty"`
}

// RawCPU holds the processor block of a raw record.
type RawCPU struct {
	Model string `json:"model,omitempty"`
}

// RawMemory holds the memory block. Source records disagree on field
// names: some report ram_gb/storage_gb, older ones a single capacity_gb
// used for either. The normalizer prefers the specific field.
type RawMemory struct {
	RAMGB      *int `json:"ram_gb,omitempty"`
	StorageGB  *int `json:"storage_gb,omitempty"`
	CapacityGB *int `json:"capacity_gb,omitempty"`
}

// RawComponentState is a free-text inspection status for one component.
type RawComponentState struct {
	Status string `json:"status,omitempty"`
}

// RawInspectionSummary is the inspector's overall verdict. OverallScore
// is on a 0-100 scale, higher meaning better condition.
type RawInspectionSummary struct {
	OverallScore *float64 `json:"overall_score,omitempty"`
	BestUseCases []string `json:"best_use_cases,omitempty"`
}

// RawIdentity carries the device's hardware identity.
type RawIdentity struct {
	SerialNumber string `json:"serial_number,omitempty"`
}

// RawBlockchainMeta carries ledger metadata. Timestamp is epoch
// milliseconds of the certification entry; zero means absent.
type RawBlockchainMeta struct {
	Timestamp int64 `json:"timestamp,omitempty"`
}

// Device is the uniform view-model the marketplace UI consumes. It is
// derived from exactly one RawDeviceRecord and never mutated after the
// catalog is built. ID is the 1-based position in the source sequence
// for one catalog load; a rebuild reassigns IDs.
type Device struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Price         float64 `json:"price"`
	OriginalPrice float64 `json:"originalPrice"`
	Condition     string  `json:"condition"`
	Rating        float64 `json:"rating"`
	Reviews       int     `json:"reviews"`
	Image         string  `json:"image"`
	Certified     bool    `json:"certified"`
	Warranty      string  `json:"warranty"`
	// Location is populated from the inspection's first best-use-case
	// entry, not a geography. The display layer has always shown it
	// under a location label; kept as-is for compatibility.
	Location   string            `json:"location"`
	Seller     string            `json:"seller,omitempty"`
	ListedDate string            `json:"listedDate,omitempty"`
	Specs      map[string]string `json:"specs,omitempty"`
}

// Condition buckets.
const (
	ConditionExcellent = "excellent"
	ConditionGood      = "good"
	ConditionFair      = "fair"
)

// DeviceReport is the per-device status report held by the ledger
// backend: inspection status, temperature measurement and an optional
// content hash of the full report document.
type DeviceReport struct {
	Status      string `json:"status"`
	Temperature int64  `json:"temperature"`
	Hash        string `json:"hash,omitempty"`
}

// Stats summarizes the loaded catalog for the dashboard endpoints.
type Stats struct {
	TotalDevices     int            `json:"total_devices"`
	CertifiedDevices int            `json:"certified_devices"`
	Categories       map[string]int `json:"categories"`
	AveragePrice     float64        `json:"average_price"`
}
