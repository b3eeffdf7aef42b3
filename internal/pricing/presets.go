package pricing

// PresetTier names one of the ready-made quote bundles.
type PresetTier string

const (
	PresetGood   PresetTier = "good"
	PresetBetter PresetTier = "better"
	PresetBest   PresetTier = "best"
)

// PresetItem is one entry of a preset bundle; revisions always start at zero.
type PresetItem struct {
	Type       DeliverableType `json:"type"`
	Complexity ComplexityTier  `json:"complexity"`
}

// PresetBundle is a named starting point for a new quote.
type PresetBundle struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Items       []PresetItem `json:"items"`
}

// PresetTiers returns the preset tiers from cheapest to most complete.
func PresetTiers() []PresetTier {
	return []PresetTier{PresetGood, PresetBetter, PresetBest}
}

// Valid reports whether p names a known preset tier.
func (p PresetTier) Valid() bool {
	switch p {
	case PresetGood, PresetBetter, PresetBest:
		return true
	}
	return false
}

// Preset returns a fresh copy of the bundle for tier, and false when the tier
// is unknown.
func Preset(tier PresetTier) (PresetBundle, bool) {
	var bundle PresetBundle
	switch tier {
	case PresetGood:
		bundle = PresetBundle{
			Name:        "Starter",
			Description: "Landing page with basic copy and analytics tracking",
			Items: []PresetItem{
				{Type: DesignConsultation, Complexity: Simple},
				{Type: LandingPage, Complexity: Simple},
				{Type: Copywriting, Complexity: Simple},
				{Type: AnalyticsSetup, Complexity: Simple},
			},
		}
	case PresetBetter:
		bundle = PresetBundle{
			Name:        "Professional",
			Description: "Enhanced landing page with SEO, content strategy, and optimization",
			Items: []PresetItem{
				{Type: DesignConsultation, Complexity: Medium},
				{Type: ContentStrategy, Complexity: Simple},
				{Type: LandingPage, Complexity: Medium},
				{Type: Copywriting, Complexity: Medium},
				{Type: SEOSetup, Complexity: Simple},
				{Type: AnalyticsSetup, Complexity: Medium},
			},
		}
	case PresetBest:
		bundle = PresetBundle{
			Name:        "Complete Package",
			Description: "Full website with brand identity, content, SEO, and ongoing support",
			Items: []PresetItem{
				{Type: DesignConsultation, Complexity: Complex},
				{Type: BrandGuidelines, Complexity: Medium},
				{Type: ContentStrategy, Complexity: Medium},
				{Type: FullWebsite, Complexity: Medium},
				{Type: Copywriting, Complexity: Complex},
				{Type: SEOSetup, Complexity: Medium},
				{Type: AnalyticsSetup, Complexity: Medium},
				{Type: SocialMediaKit, Complexity: Simple},
			},
		}
	default:
		return PresetBundle{}, false
	}
	return bundle, true
}
