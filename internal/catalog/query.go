package catalog

import (
	"math"
	"sort"
	"strings"

	"github.com/amrshaker000/origin-trace/internal/model"
)

// Sort keys accepted by Search. Anything else falls back to SortNewest.
const (
	SortNewest    = "newest"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortRating    = "rating"
)

// CategoryAll and ConditionAll disable the respective filter.
const (
	CategoryAll  = "all"
	ConditionAll = "all"
)

// fallbackListedDate stands in for a missing listed date when sorting
// by newest, so undated entries sort as if listed on that day.
const fallbackListedDate = "2024-01-01"

// Query is one user-specified marketplace view: free-text term,
// category, price ceiling, condition and sort key. The zero value of
// Text matches everything; empty Category/Condition are treated as
// "all"; a nil MaxPrice means no ceiling. An explicit zero ceiling is
// a real filter that keeps only zero-priced devices.
type Query struct {
	Text      string   `json:"text"`
	Category  string   `json:"category"`
	MaxPrice  *float64 `json:"max_price,omitempty"`
	Condition string   `json:"condition"`
	Sort      string   `json:"sort"`
}

func (q Query) maxPrice() float64 {
	if q.MaxPrice == nil {
		return math.Inf(1)
	}
	return *q.MaxPrice
}

func (q Query) matches(d model.Device) bool {
	if q.Text != "" && !strings.Contains(strings.ToLower(d.Name), strings.ToLower(q.Text)) {
		return false
	}
	if q.Category != "" && q.Category != CategoryAll && d.Category != q.Category {
		return false
	}
	if d.Price > q.maxPrice() {
		return false
	}
	if q.Condition != "" && q.Condition != ConditionAll &&
		!strings.EqualFold(d.Condition, q.Condition) {
		return false
	}
	return true
}

// Search returns the filtered, ordered device view for q. The catalog
// itself is never reordered; ties keep catalog order because the sort
// is stable, which callers rely on for deterministic paging.
func (c *Catalog) Search(q Query) []model.Device {
	results := make([]model.Device, 0, len(c.devices))
	for _, d := range c.devices {
		if q.matches(d) {
			results = append(results, d)
		}
	}

	sortDevices(results, q.Sort)
	return results
}

func sortDevices(devices []model.Device, key string) {
	switch key {
	case SortPriceLow:
		sort.SliceStable(devices, func(i, j int) bool {
			return devices[i].Price < devices[j].Price
		})
	case SortPriceHigh:
		sort.SliceStable(devices, func(i, j int) bool {
			return devices[i].Price > devices[j].Price
		})
	case SortRating:
		sort.SliceStable(devices, func(i, j int) bool {
			return devices[i].Rating > devices[j].Rating
		})
	default:
		// Newest first. ISO dates compare correctly as strings.
		sort.SliceStable(devices, func(i, j int) bool {
			return listedDate(devices[i]) > listedDate(devices[j])
		})
	}
}

func listedDate(d model.Device) string {
	if d.ListedDate == "" {
		return fallbackListedDate
	}
	return d.ListedDate
}
