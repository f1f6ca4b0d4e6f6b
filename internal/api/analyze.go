package api

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/amrshaker000/origin-trace/internal/model"

	"github.com/gin-gonic/gin"
)

// AnalyzeRequest describes what the shopper is looking for
type AnalyzeRequest struct {
	DeviceType      string  `json:"device_type"`      // smartphone, laptop, tablet, camera, ""
	PrimaryUse      string  `json:"primary_use"`      // free text: gaming, business, photography, ...
	BudgetUSD       float64 `json:"budget_usd"`       // 0 means no budget limit
	HardConstraints string  `json:"hard_constraints"` // comma or space separated required terms
	SoftPreferences string  `json:"soft_preferences"` // nice-to-have terms, scored not filtered
	MustNotHave     string  `json:"must_not_have"`    // excluded terms
}

// AnalyzeResult is one scored candidate
type AnalyzeResult struct {
	Device  model.Device `json:"device"`
	Score   float64      `json:"score"`
	Reasons []string     `json:"reasons"`
}

// AnalyzeResponse wraps the scored results
type AnalyzeResponse struct {
	Results    []*AnalyzeResult `json:"results"`
	TotalCount int              `json:"total_count"`
}

// deviceTypeMapping maps request device types to catalog categories
var deviceTypeMapping = map[string]string{
	"smartphone":  "smartphones",
	"smartphones": "smartphones",
	"phone":       "smartphones",
	"mobile":      "smartphones",
	"laptop":      "laptops",
	"laptops":     "laptops",
	"tablet":      "tablets",
	"tablets":     "tablets",
	"camera":      "cameras",
	"cameras":     "cameras",
}

// Validate validates the analyze request
func (r *AnalyzeRequest) Validate() error {
	if r.BudgetUSD < 0 {
		return errors.New("budget_usd cannot be negative")
	}
	if r.DeviceType == "" && r.PrimaryUse == "" && r.BudgetUSD == 0 {
		return errors.New("at least one of device_type, primary_use or budget_usd is required")
	}
	return nil
}

// HandleAnalyze scores catalog devices against the shopper's needs
func (h *Handlers) HandleAnalyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results := h.analyze(req)
	h.metrics.AnalyzesTotal.Inc()

	c.JSON(http.StatusOK, AnalyzeResponse{
		Results:    results,
		TotalCount: len(results),
	})
}

// analyze filters candidates, falls back to a relaxed pass, then scores
func (h *Handlers) analyze(req AnalyzeRequest) []*AnalyzeResult {
	devices := h.currentCatalog().Devices()

	// Strict pass: device type, budget and hard constraints all apply.
	candidates := filterCandidates(devices, req)

	// Relaxed pass keeps the budget and exclusions but drops the type
	// and hard-constraint matching, so a near miss still surfaces.
	if len(candidates) == 0 {
		candidates = filterCandidatesRelaxed(devices, req)
	}

	var results []*AnalyzeResult
	for _, d := range candidates {
		score, reasons := calculateMatchScore(d, req)
		results = append(results, &AnalyzeResult{
			Device:  d,
			Score:   score,
			Reasons: reasons,
		})
	}

	// Score order, catalog order breaks ties.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	const maxResultsPerRequest = 20
	if len(results) > maxResultsPerRequest {
		results = results[:maxResultsPerRequest]
	}

	return results
}

// filterCandidates keeps devices matching every requirement
func filterCandidates(devices []model.Device, req AnalyzeRequest) []model.Device {
	var candidates []model.Device

	for _, d := range devices {
		if req.BudgetUSD > 0 && d.Price > req.BudgetUSD {
			continue
		}
		if req.DeviceType != "" && !matchDeviceType(d, req.DeviceType) {
			continue
		}
		if !containsAllTerms(d, req.HardConstraints) {
			continue
		}
		if containsAnyTerm(d, req.MustNotHave) {
			continue
		}
		candidates = append(candidates, d)
	}

	return candidates
}

// filterCandidatesRelaxed keeps only the budget and exclusion filters
func filterCandidatesRelaxed(devices []model.Device, req AnalyzeRequest) []model.Device {
	var candidates []model.Device

	for _, d := range devices {
		if req.BudgetUSD > 0 && d.Price > req.BudgetUSD {
			continue
		}
		if containsAnyTerm(d, req.MustNotHave) {
			continue
		}
		candidates = append(candidates, d)
	}

	return candidates
}

// matchDeviceType checks a device against the requested type
func matchDeviceType(d model.Device, deviceType string) bool {
	want := strings.ToLower(strings.TrimSpace(deviceType))
	if mapped, ok := deviceTypeMapping[want]; ok {
		want = mapped
	}
	category := strings.ToLower(d.Category)
	// Pass-through categories stay singular, so match both directions.
	return category == want || strings.Contains(category, want) || strings.Contains(want, category) ||
		strings.Contains(strings.ToLower(d.Name), strings.ToLower(deviceType))
}

// calculateMatchScore computes the match score and reasons
func calculateMatchScore(d model.Device, req AnalyzeRequest) (float64, []string) {
	score := 50.0
	var reasons []string

	savings := int(d.OriginalPrice - d.Price)

	// 1. Budget headroom first, it is the reason shoppers care most about.
	if req.BudgetUSD > 0 && d.Price <= req.BudgetUSD {
		score += 20
		reasons = append(reasons, fmt.Sprintf("Fits your $%d budget and saves $%d versus new", int(req.BudgetUSD), savings))

		budgetUtilization := d.Price / req.BudgetUSD
		if budgetUtilization <= 0.5 {
			score += 10
		}
	}

	// 2. Rating (0-15)
	if d.Rating >= 4.5 {
		score += 15
		if len(reasons) < 3 {
			reasons = append(reasons, fmt.Sprintf("Rated %.1f by %d buyers", d.Rating, d.Reviews))
		}
	} else if d.Rating >= 4.0 {
		score += 8
	}

	// 3. Condition (0-10)
	if d.Condition == model.ConditionExcellent {
		score += 10
		if len(reasons) < 3 {
			reasons = append(reasons, "Inspection graded the hardware excellent")
		}
	} else if d.Condition == model.ConditionGood {
		score += 5
	}

	// 4. Certification, always worth naming.
	if d.Certified && len(reasons) < 3 {
		reasons = append(reasons, "Blockchain-certified history with "+d.Warranty+" warranty")
	}

	// 5. Primary use (0-25)
	score += primaryUseScore(d, req.PrimaryUse, &reasons)

	// 6. Soft preferences (+5 each)
	for _, term := range splitTerms(req.SoftPreferences) {
		if deviceContainsTerm(d, term) {
			score += 5
			if len(reasons) < 3 {
				reasons = append(reasons, "Matches your preference for "+term)
			}
		}
	}

	if len(reasons) > 3 {
		reasons = reasons[:3]
	}

	return score, reasons
}

// primaryUseScore rewards devices whose recommended use matches
func primaryUseScore(d model.Device, primaryUse string, reasons *[]string) float64 {
	use := strings.ToLower(strings.TrimSpace(primaryUse))
	if use == "" {
		return 0
	}

	score := 0.0
	location := strings.ToLower(d.Location)
	category := strings.ToLower(d.Category)

	// The inspection's own best-use-case tag is the strongest signal.
	if location != "" && (strings.Contains(location, use) || strings.Contains(use, location)) {
		score += 25
		*reasons = append(*reasons, "Inspectors tagged it best for "+d.Location)
		return score
	}

	switch {
	case strings.Contains(use, "gaming") || strings.Contains(use, "game"):
		if category == "laptops" {
			score += 15
			*reasons = append(*reasons, "Laptops carry the GPU headroom gaming needs")
		}
	case strings.Contains(use, "photo") || strings.Contains(use, "video"):
		if category == "cameras" {
			score += 20
			*reasons = append(*reasons, "Purpose-built for photo and video work")
		} else if category == "smartphones" {
			score += 10
		}
	case strings.Contains(use, "business") || strings.Contains(use, "work") || strings.Contains(use, "productivity"):
		if category == "laptops" {
			score += 15
			*reasons = append(*reasons, "A laptop covers business workloads best")
		} else if category == "tablets" {
			score += 8
		}
	case strings.Contains(use, "travel") || strings.Contains(use, "portable"):
		if category == "tablets" || category == "smartphones" {
			score += 12
			*reasons = append(*reasons, "Light enough to carry everywhere")
		}
	}

	return score
}

// splitTerms breaks a comma or space separated term list
func splitTerms(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == ',' || r == ' ' || r == ';'
	})
	var terms []string
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f != "" {
			terms = append(terms, f)
		}
	}
	return terms
}

func deviceContainsTerm(d model.Device, term string) bool {
	if strings.Contains(strings.ToLower(d.Name), term) {
		return true
	}
	if strings.Contains(strings.ToLower(d.Category), term) {
		return true
	}
	if strings.Contains(strings.ToLower(d.Location), term) {
		return true
	}
	for _, v := range d.Specs {
		if strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}

func containsAllTerms(d model.Device, list string) bool {
	for _, term := range splitTerms(list) {
		if !deviceContainsTerm(d, term) {
			return false
		}
	}
	return true
}

func containsAnyTerm(d model.Device, list string) bool {
	for _, term := range splitTerms(list) {
		if deviceContainsTerm(d, term) {
			return true
		}
	}
	return false
}
