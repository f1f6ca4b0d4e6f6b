package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/amrshaker000/origin-trace/internal/model"
)

// Catalog is the immutable, in-memory collection of normalized devices
// for one session. It is built once from the raw record sequence and
// only ever read afterwards; queries return copies, never views that
// could alias internal state. Rebuilding the catalog reassigns IDs, so
// holders of a Catalog value always see a consistent numbering.
type Catalog struct {
	devices []model.Device
	byID    map[int]int
}

// New builds a catalog from an ordered raw record sequence.
func New(records []model.RawDeviceRecord) *Catalog {
	return fromDevices(Normalize(records))
}

func fromDevices(devices []model.Device) *Catalog {
	byID := make(map[int]int, len(devices))
	for i, d := range devices {
		byID[d.ID] = i
	}
	return &Catalog{devices: devices, byID: byID}
}

// LoadFile reads a JSON array of raw device records and builds a
// catalog from it. This is the only path that can fail: a missing file
// or a payload that is not an array of records is an error, while
// missing fields inside a record are not.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes a JSON array of raw device records from r and builds a
// catalog.
func Load(r io.Reader) (*Catalog, error) {
	records, err := DecodeRecords(r)
	if err != nil {
		return nil, err
	}
	return New(records), nil
}

// DecodeRecords decodes the raw record array without normalizing it,
// for callers that want to import records into the inventory store
// first.
func DecodeRecords(r io.Reader) ([]model.RawDeviceRecord, error) {
	var records []model.RawDeviceRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode device records: %w", err)
	}
	return records, nil
}

// Len returns the number of devices in the catalog.
func (c *Catalog) Len() int {
	return len(c.devices)
}

// Devices returns all devices in catalog order.
func (c *Catalog) Devices() []model.Device {
	out := make([]model.Device, len(c.devices))
	copy(out, c.devices)
	return out
}

// LookupByID returns the device with the given ID. A miss is an
// ordinary empty state, not an error.
func (c *Catalog) LookupByID(id int) (model.Device, bool) {
	i, ok := c.byID[id]
	if !ok {
		return model.Device{}, false
	}
	return c.devices[i], true
}

// Categories returns the distinct device categories in first-seen
// order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var categories []string
	for _, d := range c.devices {
		if !seen[d.Category] {
			seen[d.Category] = true
			categories = append(categories, d.Category)
		}
	}
	return categories
}

// Stats summarizes the catalog for the dashboard endpoints.
func (c *Catalog) Stats() *model.Stats {
	stats := &model.Stats{
		TotalDevices: len(c.devices),
		Categories:   make(map[string]int),
	}

	var priceSum float64
	for _, d := range c.devices {
		stats.Categories[d.Category]++
		if d.Certified {
			stats.CertifiedDevices++
		}
		priceSum += d.Price
	}
	if len(c.devices) > 0 {
		stats.AveragePrice = priceSum / float64(len(c.devices))
	}

	return stats
}
