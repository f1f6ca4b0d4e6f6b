// Package assistant implements the marketplace's canned shopping
// helper. It is not an AI: responses are selected by keyword matching
// against an ordered rule table, first match wins. The UI injects it
// as a strategy and calls Reply with raw user input.
package assistant

import "strings"

// Response is one assistant turn: formatted text plus suggested
// follow-up phrases the UI renders as quick-reply buttons.
type Response struct {
	Text        string   `json:"response"`
	Suggestions []string `json:"suggestions"`
}

// rule pairs trigger keywords with a canned response. Rules are
// evaluated top to bottom; order matters because later keywords can be
// substrings of earlier topics.
type rule struct {
	keywords []string
	response Response
}

// Assistant answers free-text questions from the rule table.
type Assistant struct {
	rules    []rule
	fallback Response
}

// New creates an assistant with the default marketplace rule table.
func New() *Assistant {
	return &Assistant{rules: defaultRules, fallback: fallbackResponse}
}

// Greeting is the opening message shown before any user input.
func (a *Assistant) Greeting() Response {
	return Response{
		Text: "Hello! I'm your shopping assistant. I can help you find certified devices, " +
			"understand our verification system, compare prices and make informed decisions. " +
			"What would you like to know?",
		Suggestions: []string{"Show me phones", "Laptop recommendations", "Warranty info", "How to buy safely"},
	}
}

// Reply selects the first rule whose keywords match the input. Input
// that matches nothing gets the generic fallback.
func (a *Assistant) Reply(input string) Response {
	lower := strings.ToLower(input)
	for _, r := range a.rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.response
			}
		}
	}
	return a.fallback
}

var defaultRules = []rule{
	{
		keywords: []string{"phone", "smartphone"},
		response: Response{
			Text: "We carry certified smartphones from Apple, Samsung, Google and OnePlus. " +
				"Every device ships with a technical report, a battery health assessment of 85% or better, " +
				"a 30-day return window and ledger-backed verification.",
			Suggestions: []string{"Show iPhone deals", "Samsung options", "Compare prices", "Check warranties"},
		},
	},
	{
		keywords: []string{"laptop", "computer"},
		response: Response{
			Text: "Our laptops go through CPU/GPU benchmarks, storage verification, battery and thermal " +
				"testing before listing. Popular picks cover gaming, business, student and creative use. " +
				"What's your primary use case?",
			Suggestions: []string{"Gaming laptops", "Business laptops", "Student laptops", "Price comparison"},
		},
	},
	{
		keywords: []string{"warranty", "guarantee"},
		response: Response{
			Text: "Every certified device includes a 30-day return policy, 90 days of technical support and " +
				"hardware defect coverage, with extended 6, 12 and 24 month options. Warranty terms are " +
				"recorded on the ledger, so they can be verified at any time without paperwork.",
			Suggestions: []string{"Warranty details", "Return policy", "Support info", "Blockchain verification"},
		},
	},
	{
		keywords: []string{"certified", "certification"},
		response: Response{
			Text: "Certification covers a physical hardware inspection, serial number verification, benchmark " +
				"and stress testing, and battery capacity checks. Results are graded excellent, good or fair " +
				"and stored as a tamper-proof ledger record you can view on every listing.",
			Suggestions: []string{"View certificates", "Quality grades", "Testing process", "Verification guide"},
		},
	},
	{
		keywords: []string{"price", "cost", "budget"},
		response: Response{
			Text: "Pricing follows the inspection grade: better-graded devices sit closer to their original " +
				"retail price, and every listing shows the reference price next to the asking price. " +
				"Shipping, returns and verification are included with no hidden fees. What's your budget range?",
			Suggestions: []string{"Under $500", "$500-$1000", "$1000+", "Best value deals"},
		},
	},
	{
		keywords: []string{"help", "guide"},
		response: Response{
			Text: "I can recommend devices, compare prices and features, explain certification and warranty " +
				"terms, and walk you through buying safely. What do you need help with today?",
			Suggestions: []string{"Device recommendations", "Safety tips", "Payment options", "Shipping info"},
		},
	},
	{
		keywords: []string{"quality", "condition"},
		response: Response{
			Text: "Devices are graded excellent (like new), good (light wear, fully functional) or fair " +
				"(visible wear, best value). Each grade comes with a detailed condition report, photos and " +
				"benchmark results, all covered by the return guarantee.",
			Suggestions: []string{"View condition reports", "See photos", "Compare grades", "Warranty info"},
		},
	},
	{
		keywords: []string{"safe", "secure", "trust"},
		response: Response{
			Text: "Every device is verified on the ledger with an immutable ownership and inspection history. " +
				"Sellers are vetted, payments are held in escrow until you confirm the device, and serial " +
				"numbers are checked against the certification record.",
			Suggestions: []string{"Security features", "Seller verification", "Escrow protection", "Fraud prevention"},
		},
	},
	{
		keywords: []string{"blockchain", "verification"},
		response: Response{
			Text: "Certification records, ownership history and warranty terms are stored on the ledger. " +
				"Scan the QR code on a device to see its complete history, check its warranty status and " +
				"confirm authenticity instantly.",
			Suggestions: []string{"How to verify", "Blockchain benefits", "Digital certificates", "Security features"},
		},
	},
	{
		keywords: []string{"return", "refund"},
		response: Response{
			Text: "Returns are accepted for 30 days with free return shipping and no restocking fees. " +
				"Contact support, get a return authorization, ship the device back and receive a full refund " +
				"within 3-5 days.",
			Suggestions: []string{"Start return", "Refund timeline", "Return shipping", "Exchange options"},
		},
	},
	{
		keywords: []string{"shipping", "delivery"},
		response: Response{
			Text: "Standard shipping (3-5 days) is free and insured, with express and overnight options " +
				"available. Every package includes tracking and signature confirmation, and we ship to " +
				"50+ countries.",
			Suggestions: []string{"Track order", "Shipping rates", "International info", "Delivery times"},
		},
	},
	{
		keywords: []string{"analyze", "analysis", "compare", "recommend"},
		response: Response{
			Text: "Tell me your device type, primary use and budget and I'll score the catalog against " +
				"your constraints: performance, value for money, condition and battery health all factor in. " +
				"What type of device should I analyze?",
			Suggestions: []string{"Analyze smartphones", "Compare laptops", "Best value devices", "Recommend for gaming"},
		},
	},
	{
		keywords: []string{"gaming", "game", "fps"},
		response: Response{
			Text: "For gaming, look at our RTX-class laptops for high settings, or GTX/RTX 3050 machines on " +
				"a budget. Listings include thermal test results and display refresh rates so you know what " +
				"frame rates to expect.",
			Suggestions: []string{"RTX gaming laptops", "Budget gaming setup", "VR ready devices", "Competitive gaming gear"},
		},
	},
	{
		keywords: []string{"business", "work", "productivity"},
		response: Response{
			Text: "For work, ThinkPads, MacBooks and XPS machines dominate our business listings: all-day " +
				"battery, verified keyboards and webcams, and TPM/biometric support. What's your primary " +
				"work focus?",
			Suggestions: []string{"Business laptops", "Remote work setup", "Creative workstations", "Budget office devices"},
		},
	},
}

var fallbackResponse = Response{
	Text: "I can help you find certified devices, explain quality grades and warranties, compare " +
		"prices and guide you through ledger verification. Could you be more specific about what " +
		"you're looking for?",
	Suggestions: []string{"Browse devices", "Quality standards", "Safety features", "Warranty info"},
}
