package catalog

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/amrshaker000/origin-trace/internal/model"
)

const (
	// fallbackPrice is used when a record carries no inspection score.
	fallbackPrice = 199

	// defaultRating is used when a record carries no inspection score.
	defaultRating = 4.0

	warrantyLabel   = "12 months"
	unknownLocation = "Location Unknown"

	phoneStockImage  = "https://images.unsplash.com/photo-1592750475338-74b7b21085ab?w=800&h=800&fit=crop"
	laptopStockImage = "https://images.unsplash.com/photo-1517336714731-489689fd1ca8?w=800&h=800&fit=crop"
)

// Normalize converts an ordered sequence of raw inspection records into
// the uniform device view-model. The record at position i receives
// ID i+1, so the mapping is a pure function of input order. Missing
// optional fields degrade to defaults; Normalize never fails.
func Normalize(records []model.RawDeviceRecord) []model.Device {
	return normalizeAt(records, time.Now().UTC())
}

func normalizeAt(records []model.RawDeviceRecord, now time.Time) []model.Device {
	devices := make([]model.Device, 0, len(records))
	for i, rec := range records {
		devices = append(devices, normalizeRecord(rec, i+1, now))
	}
	return devices
}

func normalizeRecord(rec model.RawDeviceRecord, id int, now time.Time) model.Device {
	price := derivePrice(rec, now.Year())

	d := model.Device{
		ID:            id,
		Name:          deriveName(rec, id),
		Category:      deriveCategory(rec.Category),
		Price:         price,
		OriginalPrice: math.Round(price * 1.2),
		Condition:     deriveCondition(rec),
		Rating:        deriveRating(rec),
		Reviews:       deriveReviews(rec, id),
		Image:         deriveImage(rec),
		Certified:     true,
		Warranty:      warrantyLabel,
		Location:      unknownLocation,
		Specs:         deriveSpecs(rec),
	}

	if rec.Inspection != nil && len(rec.Inspection.BestUseCases) > 0 {
		d.Location = rec.Inspection.BestUseCases[0]
	}
	if rec.Identity != nil {
		d.Seller = rec.Identity.SerialNumber
	}
	if rec.Blockchain != nil && rec.Blockchain.Timestamp > 0 {
		d.ListedDate = time.UnixMilli(rec.Blockchain.Timestamp).UTC().Format("2006-01-02")
	}

	return d
}

// deriveName joins brand and model, falling back to the serial number
// and finally to a generated placeholder so the field is never empty.
func deriveName(rec model.RawDeviceRecord, id int) string {
	name := strings.TrimSpace(strings.TrimSpace(rec.Brand) + " " + strings.TrimSpace(rec.Model))
	if name != "" {
		return name
	}
	if rec.Identity != nil && rec.Identity.SerialNumber != "" {
		return rec.Identity.SerialNumber
	}
	return fmt.Sprintf("Unknown Device #%d", id)
}

// derivePrice reproduces the historical listing-price formula: a lower
// inspection score and a higher device age both raise the price. The
// sign looks inverted for a marketplace, but stored device references
// depend on the produced values, so the formula is kept verbatim.
func derivePrice(rec model.RawDeviceRecord, currentYear int) float64 {
	if rec.Inspection == nil || rec.Inspection.OverallScore == nil {
		return fallbackPrice
	}

	price := (100 - *rec.Inspection.OverallScore) * 10
	if rec.Year > 0 {
		price += float64(currentYear-rec.Year) * 5
	}

	price = math.Round(price)
	if price < 0 {
		return 0
	}
	return price
}

// deriveCondition buckets the battery status (or screen status when the
// battery block is absent) by substring, in priority order. "very good"
// is folded into the excellent bucket.
func deriveCondition(rec model.RawDeviceRecord) string {
	status := ""
	if rec.Battery != nil && rec.Battery.Status != "" {
		status = rec.Battery.Status
	} else if rec.Screen != nil {
		status = rec.Screen.Status
	}
	status = strings.ToLower(status)

	switch {
	case strings.Contains(status, "excellent"),
		strings.Contains(status, "very good"),
		strings.Contains(status, "very-good"):
		return model.ConditionExcellent
	case strings.Contains(status, "good"):
		return model.ConditionGood
	case strings.Contains(status, "fair"),
		strings.Contains(status, "degraded"):
		return model.ConditionFair
	default:
		return model.ConditionGood
	}
}

// deriveRating maps the 0-100 inspection score onto a 0-5 star rating
// in steps of 0.1.
func deriveRating(rec model.RawDeviceRecord) float64 {
	if rec.Inspection == nil || rec.Inspection.OverallScore == nil {
		return defaultRating
	}
	return math.Round(*rec.Inspection.OverallScore/20*10) / 10
}

// deriveReviews produces the synthetic display review count in
// [10, 309]. The source behavior rolled a fresh random number on every
// load; that made the field untestable and changed between page loads,
// so it is derived from a hash of the device identity instead. Same
// range, stable across reloads.
func deriveReviews(rec model.RawDeviceRecord, id int) int {
	identity := deriveName(rec, id)
	if rec.Identity != nil && rec.Identity.SerialNumber != "" {
		identity = rec.Identity.SerialNumber
	}
	return 10 + int(fnv32a(identity)%300)
}

// fnv32a hashes the first 100 runes of s (FNV-1a).
func fnv32a(s string) uint32 {
	const prime32 = 16777619
	hash := uint32(2166136261)
	n := 0
	for _, c := range s {
		if n >= 100 {
			break
		}
		n++
		hash ^= uint32(c)
		hash *= prime32
	}
	return hash
}

// deriveCategory lowercases the raw category, mapping the two known
// aliases onto their canonical names. Unrecognized categories pass
// through unchanged; only a missing category becomes "other".
func deriveCategory(raw string) string {
	c := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(c, "mobile"):
		return "smartphones"
	case c == "laptop":
		return "laptops"
	case c != "":
		return c
	default:
		return "other"
	}
}

func deriveImage(rec model.RawDeviceRecord) string {
	if rec.Image != "" {
		return rec.Image
	}
	if deriveCategory(rec.Category) == "smartphones" {
		return phoneStockImage
	}
	return laptopStockImage
}

// deriveSpecs builds the display spec sheet. The ram and storage
// entries each prefer the specific raw field and fall back to the
// shared capacity_gb one.
func deriveSpecs(rec model.RawDeviceRecord) map[string]string {
	specs := map[string]string{
		"year":    "",
		"cpu":     "",
		"ram":     "",
		"storage": "",
	}

	if rec.Year > 0 {
		specs["year"] = strconv.Itoa(rec.Year)
	}
	if rec.CPU != nil {
		specs["cpu"] = rec.CPU.Model
	}
	if rec.Memory != nil {
		specs["ram"] = formatGB(rec.Memory.RAMGB, rec.Memory.CapacityGB)
		specs["storage"] = formatGB(rec.Memory.StorageGB, rec.Memory.CapacityGB)
	}

	return specs
}

func formatGB(preferred, fallback *int) string {
	v := preferred
	if v == nil {
		v = fallback
	}
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%dGB", *v)
}
