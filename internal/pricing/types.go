package pricing

// DeliverableType identifies one of the services a quote line item can price.
// The set is closed: lookups outside it are a defined failure, never a silent
// zero.
type DeliverableType string

const (
	LandingPage        DeliverableType = "landingPage"
	FullWebsite        DeliverableType = "fullWebsite"
	Copywriting        DeliverableType = "copywriting"
	DesignConsultation DeliverableType = "designConsultation"
	ContentStrategy    DeliverableType = "contentStrategy"
	SEOSetup           DeliverableType = "seoSetup"
	AnalyticsSetup     DeliverableType = "analyticsSetup"
	BrandGuidelines    DeliverableType = "brandGuidelines"
	SocialMediaKit     DeliverableType = "socialMediaKit"
	MaintenanceHours   DeliverableType = "maintenanceHours"
)

// ComplexityTier scales a deliverable's base rate.
type ComplexityTier string

const (
	Simple  ComplexityTier = "simple"
	Medium  ComplexityTier = "medium"
	Complex ComplexityTier = "complex"
)

// DeliverableTypes returns every deliverable type in display order.
func DeliverableTypes() []DeliverableType {
	return []DeliverableType{
		LandingPage,
		FullWebsite,
		Copywriting,
		DesignConsultation,
		ContentStrategy,
		SEOSetup,
		AnalyticsSetup,
		BrandGuidelines,
		SocialMediaKit,
		MaintenanceHours,
	}
}

// ComplexityTiers returns every complexity tier, simplest first.
func ComplexityTiers() []ComplexityTier {
	return []ComplexityTier{Simple, Medium, Complex}
}

// Valid reports whether t is one of the known deliverable types.
func (t DeliverableType) Valid() bool {
	switch t {
	case LandingPage, FullWebsite, Copywriting, DesignConsultation,
		ContentStrategy, SEOSetup, AnalyticsSetup, BrandGuidelines,
		SocialMediaKit, MaintenanceHours:
		return true
	}
	return false
}

// Label returns the human-readable name for a deliverable type.
func (t DeliverableType) Label() string {
	switch t {
	case LandingPage:
		return "Landing Page"
	case FullWebsite:
		return "Full Website"
	case Copywriting:
		return "Copywriting"
	case DesignConsultation:
		return "Design Consultation"
	case ContentStrategy:
		return "Content Strategy"
	case SEOSetup:
		return "SEO Setup"
	case AnalyticsSetup:
		return "Analytics Setup"
	case BrandGuidelines:
		return "Brand Guidelines"
	case SocialMediaKit:
		return "Social Media Kit"
	case MaintenanceHours:
		return "Maintenance (per hour)"
	}
	return string(t)
}

// Valid reports whether c is one of the known complexity tiers.
func (c ComplexityTier) Valid() bool {
	switch c {
	case Simple, Medium, Complex:
		return true
	}
	return false
}

// Label returns the human-readable name for a complexity tier.
func (c ComplexityTier) Label() string {
	switch c {
	case Simple:
		return "Simple"
	case Medium:
		return "Medium"
	case Complex:
		return "Complex"
	}
	return string(c)
}

// BusinessInfo holds the free-text identity displayed on quotes.
type BusinessInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Config is the singleton pricing configuration record. JSON field names
// match the persisted document layout exactly.
//
// HourlyRate and RevisionsIncluded are informational: they are displayed but
// do not feed the pricing formula.
type Config struct {
	Business              BusinessInfo                `json:"business"`
	HourlyRate            float64                     `json:"hourlyRate"`
	BaseRates             map[DeliverableType]float64 `json:"baseRates"`
	ComplexityMultipliers map[ComplexityTier]float64  `json:"complexityMultipliers"`
	RushFeePercent        float64                     `json:"rushFeePercent" validate:"gte=0,lte=100"`
	RevisionsIncluded     int                         `json:"revisionsIncluded" validate:"gte=0"`
	ExtraRevisionRate     float64                     `json:"extraRevisionRate" validate:"gte=0"`
	BundleDiscountPercent float64                     `json:"bundleDiscountPercent" validate:"gte=0,lte=100"`
	TaxPercent            float64                     `json:"taxPercent" validate:"gte=0,lte=100"`
}

// DefaultConfig returns a fresh copy of the embedded default configuration.
// Callers may mutate the result freely.
func DefaultConfig() Config {
	return Config{
		Business: BusinessInfo{
			Name:  "Your Name/Company",
			Email: "you@example.com",
			Phone: "",
		},
		HourlyRate: 150,
		BaseRates: map[DeliverableType]float64{
			LandingPage:        2500,
			FullWebsite:        8000,
			Copywriting:        500,
			DesignConsultation: 300,
			ContentStrategy:    800,
			SEOSetup:           600,
			AnalyticsSetup:     400,
			BrandGuidelines:    1500,
			SocialMediaKit:     1000,
			MaintenanceHours:   150,
		},
		ComplexityMultipliers: map[ComplexityTier]float64{
			Simple:  1.0,
			Medium:  1.5,
			Complex: 2.0,
		},
		RushFeePercent:        25,
		RevisionsIncluded:     2,
		ExtraRevisionRate:     100,
		BundleDiscountPercent: 10,
		TaxPercent:            13,
	}
}

// Modifiers are the per-quote toggles applied on top of the item subtotal.
type Modifiers struct {
	RushFee               bool    `json:"rushFee"`
	CustomDiscountPercent float64 `json:"customDiscountPercent" validate:"gte=0,lte=50"`
	BundleDiscountApplied bool    `json:"bundleDiscountApplied"`
	IncludeTax            bool    `json:"includeTax"`
}

// Item is one quote line. BasePrice and CalculatedPrice are snapshots derived
// from Type, Complexity, ExtraRevisions and the governing config; they must be
// recomputed whenever any of those change and are only authoritative on saved
// (immutable) quotes.
type Item struct {
	ID              string          `json:"id"`
	Type            DeliverableType `json:"type"`
	Complexity      ComplexityTier  `json:"complexity"`
	ExtraRevisions  int             `json:"extraRevisions" validate:"gte=0"`
	BasePrice       float64         `json:"basePrice"`
	CalculatedPrice float64         `json:"calculatedPrice"`
}
