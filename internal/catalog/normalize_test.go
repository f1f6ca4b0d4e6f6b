package catalog

import (
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/amrshaker000/origin-trace/internal/model"
)

func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }

func TestNormalizeFullRecord(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	records := []model.RawDeviceRecord{
		{
			Brand:      "Apple",
			Model:      "iPhone 14",
			Category:   "Mobile Phone",
			Year:       2022,
			CPU:        &model.RawCPU{Model: "A15 Bionic"},
			Memory:     &model.RawMemory{RAMGB: ip(6), StorageGB: ip(256)},
			Battery:    &model.RawComponentState{Status: "excellent"},
			Inspection: &model.RawInspectionSummary{OverallScore: fp(90), BestUseCases: []string{"Photography", "Daily use"}},
			Identity:   &model.RawIdentity{SerialNumber: "SN-001"},
			Blockchain: &model.RawBlockchainMeta{Timestamp: 1705276800000}, // 2024-01-15
		},
	}

	devices := normalizeAt(records, now)
	if len(devices) != 1 {
		t.Fatalf("expected 1 device, got %d", len(devices))
	}
	d := devices[0]

	if d.ID != 1 {
		t.Errorf("id = %d, want 1", d.ID)
	}
	if d.Name != "Apple iPhone 14" {
		t.Errorf("name = %q, want %q", d.Name, "Apple iPhone 14")
	}
	if d.Category != "smartphones" {
		t.Errorf("category = %q, want smartphones", d.Category)
	}
	wantPrice := math.Round((100-90)*10 + float64(now.Year()-2022)*5)
	if d.Price != wantPrice {
		t.Errorf("price = %v, want %v", d.Price, wantPrice)
	}
	if d.OriginalPrice != math.Round(wantPrice*1.2) {
		t.Errorf("originalPrice = %v, want %v", d.OriginalPrice, math.Round(wantPrice*1.2))
	}
	if d.Condition != model.ConditionExcellent {
		t.Errorf("condition = %q, want excellent", d.Condition)
	}
	if d.Rating != 4.5 {
		t.Errorf("rating = %v, want 4.5", d.Rating)
	}
	if d.Reviews < 10 || d.Reviews > 309 {
		t.Errorf("reviews = %d, want within [10, 309]", d.Reviews)
	}
	if !d.Certified {
		t.Error("certified = false, want true")
	}
	if d.Location != "Photography" {
		t.Errorf("location = %q, want first best-use-case entry", d.Location)
	}
	if d.Seller != "SN-001" {
		t.Errorf("seller = %q, want SN-001", d.Seller)
	}
	if d.ListedDate != "2024-01-15" {
		t.Errorf("listedDate = %q, want 2024-01-15", d.ListedDate)
	}
	wantSpecs := map[string]string{"year": "2022", "cpu": "A15 Bionic", "ram": "6GB", "storage": "256GB"}
	if !reflect.DeepEqual(d.Specs, wantSpecs) {
		t.Errorf("specs = %v, want %v", d.Specs, wantSpecs)
	}
}

func TestNormalizeEmptyRecordDefaults(t *testing.T) {
	records := make([]model.RawDeviceRecord, 3)
	devices := Normalize(records)

	d := devices[2]
	if d.ID != 3 {
		t.Errorf("id = %d, want 3", d.ID)
	}
	if !strings.Contains(d.Name, "3") || d.Name == "" {
		t.Errorf("name = %q, want generated placeholder for position 2", d.Name)
	}
	if d.Price != 199 {
		t.Errorf("price = %v, want fallback 199", d.Price)
	}
	if d.OriginalPrice != 239 {
		t.Errorf("originalPrice = %v, want 239", d.OriginalPrice)
	}
	if d.Rating != 4.0 {
		t.Errorf("rating = %v, want 4.0", d.Rating)
	}
	if d.Condition != model.ConditionGood {
		t.Errorf("condition = %q, want good", d.Condition)
	}
	if d.Category != "other" {
		t.Errorf("category = %q, want other", d.Category)
	}
	if d.Image == "" {
		t.Error("image is empty, want stock fallback")
	}
	if d.Location != unknownLocation {
		t.Errorf("location = %q, want %q", d.Location, unknownLocation)
	}
	if d.Warranty == "" {
		t.Error("warranty is empty")
	}
}

func TestNormalizeIsDeterministic(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	records := []model.RawDeviceRecord{
		{Brand: "Sony", Model: "WH-1000XM4", Category: "headphones", Battery: &model.RawComponentState{Status: "good"}},
		{Brand: "Canon", Model: "EOS R6", Category: "cameras", Year: 2021, Inspection: &model.RawInspectionSummary{OverallScore: fp(82)}},
		{},
	}

	first := normalizeAt(records, now)
	second := normalizeAt(records, now)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("normalization not deterministic:\n%+v\n%+v", first, second)
	}
}

func TestNormalizeOriginalPriceNeverBelowPrice(t *testing.T) {
	records := []model.RawDeviceRecord{
		{},
		{Inspection: &model.RawInspectionSummary{OverallScore: fp(100)}},
		{Inspection: &model.RawInspectionSummary{OverallScore: fp(0)}, Year: 1999},
		{Year: 2030},
	}
	for _, d := range Normalize(records) {
		if d.OriginalPrice < d.Price {
			t.Errorf("device %d: originalPrice %v < price %v", d.ID, d.OriginalPrice, d.Price)
		}
		if d.Price < 0 {
			t.Errorf("device %d: negative price %v", d.ID, d.Price)
		}
	}
}

func TestDeriveCondition(t *testing.T) {
	tests := []struct {
		name    string
		battery string
		screen  string
		want    string
	}{
		{"battery excellent", "Excellent", "", model.ConditionExcellent},
		{"very good phrase", "Very Good - 95% health", "", model.ConditionExcellent},
		{"very-good hyphen", "very-good", "", model.ConditionExcellent},
		{"plain good", "Good, holds charge", "", model.ConditionGood},
		{"screen fallback fair", "", "fair with scratches", model.ConditionFair},
		{"degraded", "Degraded capacity", "", model.ConditionFair},
		{"unrecognized", "replaced last year", "", model.ConditionGood},
		{"nothing at all", "", "", model.ConditionGood},
	}

	for _, tt := range tests {
		rec := model.RawDeviceRecord{}
		if tt.battery != "" {
			rec.Battery = &model.RawComponentState{Status: tt.battery}
		}
		if tt.screen != "" {
			rec.Screen = &model.RawComponentState{Status: tt.screen}
		}
		if got := deriveCondition(rec); got != tt.want {
			t.Errorf("%s: condition = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestDeriveCategory(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Mobile Phone", "smartphones"},
		{"mobile", "smartphones"},
		{"laptop", "laptops"},
		{"Laptop", "laptops"},
		{"tablets", "tablets"},
		{"Cameras", "cameras"},
		{"widget", "widget"},
		{"", "other"},
	}
	for _, tt := range tests {
		if got := deriveCategory(tt.raw); got != tt.want {
			t.Errorf("deriveCategory(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestDeriveImageStockFallback(t *testing.T) {
	cases := []struct {
		name string
		rec  model.RawDeviceRecord
		want string
	}{
		{"explicit image wins", model.RawDeviceRecord{Image: "https://example.com/d.jpg", Category: "Mobile Phone"}, "https://example.com/d.jpg"},
		{"smartphone", model.RawDeviceRecord{Category: "Mobile Phone"}, phoneStockImage},
		{"laptop", model.RawDeviceRecord{Category: "laptop"}, laptopStockImage},
		// "headphones" merely contains "phone"; it is not mobile-like.
		{"headphones", model.RawDeviceRecord{Category: "Headphones"}, laptopStockImage},
		{"missing category", model.RawDeviceRecord{}, laptopStockImage},
	}
	for _, tc := range cases {
		if got := deriveImage(tc.rec); got != tc.want {
			t.Errorf("%s: image = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestDeriveReviewsHashesBoundedPrefix(t *testing.T) {
	serial := func(s string) model.RawDeviceRecord {
		return model.RawDeviceRecord{Identity: &model.RawIdentity{SerialNumber: s}}
	}
	prefix := strings.Repeat("x", 100)

	// Identities agreeing on the first 100 runes hash identically.
	a := deriveReviews(serial(prefix+"A"), 1)
	b := deriveReviews(serial(prefix+"B"), 2)
	if a != b {
		t.Errorf("reviews = %d and %d, want equal beyond the 100-rune prefix", a, b)
	}

	// A difference at rune 100, the last one inside the bound, must be
	// seen by the hash itself.
	if fnv32a(strings.Repeat("x", 99)+"A") == fnv32a(strings.Repeat("x", 99)+"B") {
		t.Error("rune 100 was not hashed")
	}
}

func TestDeriveSpecsFieldFallbacks(t *testing.T) {
	rec := model.RawDeviceRecord{
		Memory: &model.RawMemory{RAMGB: ip(16), CapacityGB: ip(512)},
	}
	specs := deriveSpecs(rec)
	if specs["ram"] != "16GB" {
		t.Errorf("ram = %q, want specific field preferred", specs["ram"])
	}
	if specs["storage"] != "512GB" {
		t.Errorf("storage = %q, want capacity fallback", specs["storage"])
	}

	specs = deriveSpecs(model.RawDeviceRecord{Memory: &model.RawMemory{}})
	if specs["ram"] != "" || specs["storage"] != "" {
		t.Errorf("empty memory block should yield empty entries, got %v", specs)
	}
}
