package models

import "strings"

// =============================================================================
// CLOSED CATEGORIES
// Every Parse* function has an explicit default arm, so an unknown label is a
// visible decision (the ...Other / ...Unknown member) rather than a nil lookup.
// =============================================================================

// Sector is the business sector used for beta, multiples and peer tables.
type Sector string

const (
	SectorTechnology    Sector = "technology"
	SectorFintech       Sector = "fintech"
	SectorHealthcare    Sector = "healthcare"
	SectorEcommerce     Sector = "ecommerce"
	SectorManufacturing Sector = "manufacturing"
	SectorConsumer      Sector = "consumer"
	SectorEnergy        Sector = "energy"
	SectorRealEstate    Sector = "real_estate"
	SectorServices      Sector = "services"
	SectorOther         Sector = "other"
)

// AllSectors lists every sector in canonical order.
var AllSectors = []Sector{
	SectorTechnology, SectorFintech, SectorHealthcare, SectorEcommerce,
	SectorManufacturing, SectorConsumer, SectorEnergy, SectorRealEstate,
	SectorServices, SectorOther,
}

// ParseSector maps a free-form label to a Sector.
func ParseSector(s string) Sector {
	switch normalize(s) {
	case "technology", "tech", "software", "saas", "deeptech", "ai":
		return SectorTechnology
	case "fintech", "finance", "financial_services":
		return SectorFintech
	case "healthcare", "health", "healthtech", "biotech", "medtech", "life_sciences":
		return SectorHealthcare
	case "ecommerce", "e_commerce", "retail", "marketplace":
		return SectorEcommerce
	case "manufacturing", "industrial", "hardware":
		return SectorManufacturing
	case "consumer", "consumer_goods", "d2c", "fmcg":
		return SectorConsumer
	case "energy", "cleantech", "climate":
		return SectorEnergy
	case "real_estate", "realestate", "proptech", "property":
		return SectorRealEstate
	case "services", "professional_services", "consulting":
		return SectorServices
	default:
		return SectorOther
	}
}

// IsAssetHeavy reports whether balance-sheet value dominates the sector.
func (s Sector) IsAssetHeavy() bool {
	switch s {
	case SectorManufacturing, SectorEnergy, SectorRealEstate:
		return true
	default:
		return false
	}
}

// IsResearchDriven reports whether option value on R&D is meaningful.
func (s Sector) IsResearchDriven() bool {
	switch s {
	case SectorTechnology, SectorHealthcare:
		return true
	default:
		return false
	}
}

// Stage is the company lifecycle stage.
type Stage string

const (
	StageIdeation      Stage = "ideation"
	StageMVP           Stage = "mvp"
	StageRevenueEarly  Stage = "revenue_early"
	StageRevenueGrowth Stage = "revenue_growth"
	StageEstablished   Stage = "established"
	StageOther         Stage = "other"
)

// AllStages lists every stage in canonical order.
var AllStages = []Stage{
	StageIdeation, StageMVP, StageRevenueEarly, StageRevenueGrowth, StageEstablished, StageOther,
}

// ParseStage maps a free-form label to a Stage.
func ParseStage(s string) Stage {
	switch normalize(s) {
	case "ideation", "idea", "concept", "pre_seed":
		return StageIdeation
	case "mvp", "prototype", "pre_revenue", "seed":
		return StageMVP
	case "revenue_early", "early_revenue", "early", "series_a":
		return StageRevenueEarly
	case "revenue_growth", "growth", "scaling", "series_b", "series_c":
		return StageRevenueGrowth
	case "established", "mature", "profitable", "late":
		return StageEstablished
	default:
		return StageOther
	}
}

// IsPreRevenue reports whether the stage normally has no revenue yet.
func (s Stage) IsPreRevenue() bool {
	return s == StageIdeation || s == StageMVP
}

// IsEarly reports whether qualitative methods still carry weight.
func (s Stage) IsEarly() bool {
	return s == StageIdeation || s == StageMVP || s == StageRevenueEarly
}

// Region is the jurisdiction used for rates and compliance.
type Region string

const (
	RegionUS        Region = "us"
	RegionIndia     Region = "india"
	RegionUK        Region = "uk"
	RegionEU        Region = "eu"
	RegionSingapore Region = "singapore"
	RegionGlobal    Region = "global"
)

// AllRegions lists every region in canonical order.
var AllRegions = []Region{RegionUS, RegionIndia, RegionUK, RegionEU, RegionSingapore, RegionGlobal}

// ParseRegion maps a free-form label to a Region.
func ParseRegion(s string) Region {
	switch normalize(s) {
	case "us", "usa", "united_states", "north_america":
		return RegionUS
	case "india", "in":
		return RegionIndia
	case "uk", "united_kingdom", "gb":
		return RegionUK
	case "eu", "europe", "european_union", "germany", "france":
		return RegionEU
	case "singapore", "sg", "sea", "asia_pacific":
		return RegionSingapore
	default:
		return RegionGlobal
	}
}

// Purpose is why the valuation is being prepared.
type Purpose string

const (
	PurposeFundraising Purpose = "fundraising"
	PurposeExit        Purpose = "exit"
	PurposeESOP        Purpose = "esop"
	PurposeOther       Purpose = "other"
)

// AllPurposes lists every purpose in canonical order.
var AllPurposes = []Purpose{PurposeFundraising, PurposeExit, PurposeESOP, PurposeOther}

// ParsePurpose maps a free-form label to a Purpose.
func ParsePurpose(s string) Purpose {
	switch normalize(s) {
	case "fundraising", "fundraise", "investment", "funding":
		return PurposeFundraising
	case "exit", "acquisition", "m_a", "merger", "sale":
		return PurposeExit
	case "esop", "409a", "fair_value", "stock_options", "compliance":
		return PurposeESOP
	default:
		return PurposeOther
	}
}

// IPStatus describes intellectual-property protection.
type IPStatus string

const (
	IPNone       IPStatus = "none"
	IPPending    IPStatus = "pending"
	IPRegistered IPStatus = "registered"
	IPUnknown    IPStatus = "unknown"
)

// ParseIPStatus maps a free-form label to an IPStatus.
func ParseIPStatus(s string) IPStatus {
	switch normalize(s) {
	case "none", "unprotected", "no":
		return IPNone
	case "pending", "filed", "applied":
		return IPPending
	case "registered", "granted", "protected", "patented", "yes":
		return IPRegistered
	default:
		return IPUnknown
	}
}

// Differentiation is the competitive differentiation rating.
type Differentiation string

const (
	DifferentiationLow     Differentiation = "low"
	DifferentiationMedium  Differentiation = "medium"
	DifferentiationHigh    Differentiation = "high"
	DifferentiationUnknown Differentiation = "unknown"
)

// ParseDifferentiation maps a free-form label to a Differentiation.
func ParseDifferentiation(s string) Differentiation {
	switch normalize(s) {
	case "low", "weak", "commodity":
		return DifferentiationLow
	case "medium", "moderate":
		return DifferentiationMedium
	case "high", "strong", "unique":
		return DifferentiationHigh
	default:
		return DifferentiationUnknown
	}
}

// ComplianceStatus is the regulatory-compliance status of the business.
type ComplianceStatus string

const (
	ComplianceCompliant    ComplianceStatus = "compliant"
	ComplianceInProgress   ComplianceStatus = "in_progress"
	ComplianceNonCompliant ComplianceStatus = "non_compliant"
	ComplianceUnknown      ComplianceStatus = "unknown"
)

// ParseComplianceStatus maps a free-form label to a ComplianceStatus.
func ParseComplianceStatus(s string) ComplianceStatus {
	switch normalize(s) {
	case "compliant", "full", "yes":
		return ComplianceCompliant
	case "in_progress", "partial", "pending":
		return ComplianceInProgress
	case "non_compliant", "no", "none":
		return ComplianceNonCompliant
	default:
		return ComplianceUnknown
	}
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("-", "_", " ", "_", "&", "_", "/", "_").Replace(s)
	return s
}
