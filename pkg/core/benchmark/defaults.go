package benchmark

import (
	"github.com/camayank/StartupValuator-sub001/pkg/core/rate"
	"github.com/camayank/StartupValuator-sub001/pkg/models"
)

// DefaultVersion identifies the built-in tables.
const DefaultVersion = "2024.1"

// Framework IDs shipped with the default tables.
const (
	Framework409A   = "409a"
	FrameworkIVS    = "ivs"
	FrameworkICAI   = "icai"
	FrameworkIFRS13 = "ifrs13"
)

var sectorGrowthBase = map[models.Sector]rate.Percent{
	models.SectorTechnology:    40,
	models.SectorFintech:       35,
	models.SectorHealthcare:    25,
	models.SectorEcommerce:     30,
	models.SectorManufacturing: 12,
	models.SectorConsumer:      20,
	models.SectorEnergy:        15,
	models.SectorRealEstate:    10,
	models.SectorServices:      15,
}

var stageGrowthFactor = map[models.Stage]float64{
	models.StageIdeation:      1.5,
	models.StageMVP:           1.5,
	models.StageRevenueEarly:  1.25,
	models.StageRevenueGrowth: 1.0,
	models.StageEstablished:   0.4,
}

// Default builds a fresh copy of the built-in reference tables.
// Each call returns independent maps, so callers may layer overrides safely.
func Default() *Tables {
	growth := make(map[models.Sector]map[models.Stage]rate.Percent, len(sectorGrowthBase))
	for sector, base := range sectorGrowthBase {
		byStage := make(map[models.Stage]rate.Percent, len(stageGrowthFactor))
		for stage, f := range stageGrowthFactor {
			byStage[stage] = rate.Percent(float64(base) * f)
		}
		growth[sector] = byStage
	}

	return &Tables{
		Version: DefaultVersion,
		RiskFree: map[models.Region]rate.Percent{
			models.RegionUS:        4.5,
			models.RegionIndia:     7.2,
			models.RegionUK:        4.2,
			models.RegionEU:        3.0,
			models.RegionSingapore: 3.2,
			models.RegionGlobal:    4.0,
		},
		MarketRiskPremium: map[models.Region]rate.Percent{
			models.RegionUS:        5.5,
			models.RegionIndia:     7.5,
			models.RegionUK:        5.5,
			models.RegionEU:        6.0,
			models.RegionSingapore: 6.0,
			models.RegionGlobal:    6.5,
		},
		SectorBeta: map[models.Sector]float64{
			models.SectorTechnology:    1.3,
			models.SectorFintech:       1.35,
			models.SectorHealthcare:    1.2,
			models.SectorEcommerce:     1.25,
			models.SectorManufacturing: 1.0,
			models.SectorConsumer:      1.0,
			models.SectorEnergy:        1.1,
			models.SectorRealEstate:    0.9,
			models.SectorServices:      1.0,
			models.SectorOther:         1.1,
		},
		RegionBetaMultiplier: map[models.Region]float64{
			models.RegionUS:        1.0,
			models.RegionIndia:     1.1,
			models.RegionUK:        1.0,
			models.RegionEU:        0.95,
			models.RegionSingapore: 1.0,
			models.RegionGlobal:    1.05,
		},
		GrowthBenchmarks: growth,
		IndustryMultiples: map[models.Sector]float64{
			models.SectorTechnology:    8,
			models.SectorFintech:       7,
			models.SectorHealthcare:    5,
			models.SectorEcommerce:     3,
			models.SectorManufacturing: 1.5,
			models.SectorConsumer:      2,
			models.SectorEnergy:        2,
			models.SectorRealEstate:    4,
			models.SectorServices:      2,
			models.SectorOther:         2.5,
		},
		Peers: map[models.Sector]PeerMetrics{
			models.SectorTechnology:    {AverageRevenue: 5e6, AverageGrowth: 40, AverageMargin: 15, RevenueMultiple: 8, DataQuality: QualityHigh},
			models.SectorFintech:       {AverageRevenue: 4e6, AverageGrowth: 35, AverageMargin: 12, RevenueMultiple: 7, DataQuality: QualityHigh},
			models.SectorHealthcare:    {AverageRevenue: 3e6, AverageGrowth: 25, AverageMargin: 10, RevenueMultiple: 5, DataQuality: QualityMedium},
			models.SectorEcommerce:     {AverageRevenue: 8e6, AverageGrowth: 30, AverageMargin: 8, RevenueMultiple: 3, DataQuality: QualityHigh},
			models.SectorManufacturing: {AverageRevenue: 20e6, AverageGrowth: 10, AverageMargin: 12, RevenueMultiple: 1.5, DataQuality: QualityMedium},
			models.SectorConsumer:      {AverageRevenue: 10e6, AverageGrowth: 20, AverageMargin: 10, RevenueMultiple: 2, DataQuality: QualityMedium},
			models.SectorEnergy:        {AverageRevenue: 15e6, AverageGrowth: 15, AverageMargin: 14, RevenueMultiple: 2, DataQuality: QualityLow},
			models.SectorRealEstate:    {AverageRevenue: 12e6, AverageGrowth: 8, AverageMargin: 25, RevenueMultiple: 4, DataQuality: QualityLow},
			models.SectorServices:      {AverageRevenue: 6e6, AverageGrowth: 15, AverageMargin: 18, RevenueMultiple: 2, DataQuality: QualityMedium},
		},
		StageBaseline: map[models.Stage]float64{
			models.StageIdeation:      1.5e6,
			models.StageMVP:           3e6,
			models.StageRevenueEarly:  6e6,
			models.StageRevenueGrowth: 15e6,
			models.StageEstablished:   40e6,
			models.StageOther:         5e6,
		},
		RegionScale: map[models.Region]float64{
			models.RegionUS:        1.0,
			models.RegionIndia:     0.4,
			models.RegionUK:        0.8,
			models.RegionEU:        0.75,
			models.RegionSingapore: 0.7,
			models.RegionGlobal:    0.6,
		},
		BerkusElementCap: 500_000,
		RFSStep:          250_000,
		PrecedentDeals: map[models.Sector][]models.Transaction{
			models.SectorTechnology: {
				{Name: "SaaS tuck-in A", Sector: models.SectorTechnology, Stage: models.StageRevenueEarly, Region: models.RegionUS, Revenue: 2e6, RevenueMultiple: 9, AgeYears: 1, Condition: models.MarketNeutral},
				{Name: "SaaS platform B", Sector: models.SectorTechnology, Stage: models.StageRevenueGrowth, Region: models.RegionUS, Revenue: 12e6, RevenueMultiple: 11, AgeYears: 3, Condition: models.MarketHot},
				{Name: "Dev tools C", Sector: models.SectorTechnology, Stage: models.StageRevenueEarly, Region: models.RegionEU, Revenue: 1.5e6, RevenueMultiple: 6, AgeYears: 2, Condition: models.MarketCold},
				{Name: "Analytics D", Sector: models.SectorTechnology, Stage: models.StageMVP, Region: models.RegionIndia, Revenue: 0.4e6, RevenueMultiple: 7, AgeYears: 1, Condition: models.MarketNeutral},
			},
			models.SectorFintech: {
				{Name: "Payments A", Sector: models.SectorFintech, Stage: models.StageRevenueGrowth, Region: models.RegionUS, Revenue: 10e6, RevenueMultiple: 8, AgeYears: 2, Condition: models.MarketNeutral},
				{Name: "Lending B", Sector: models.SectorFintech, Stage: models.StageRevenueEarly, Region: models.RegionIndia, Revenue: 3e6, RevenueMultiple: 5, AgeYears: 1, Condition: models.MarketCold},
				{Name: "Wealth C", Sector: models.SectorFintech, Stage: models.StageRevenueEarly, Region: models.RegionUK, Revenue: 2e6, RevenueMultiple: 7, AgeYears: 4, Condition: models.MarketHot},
			},
			models.SectorHealthcare: {
				{Name: "Digital health A", Sector: models.SectorHealthcare, Stage: models.StageRevenueEarly, Region: models.RegionUS, Revenue: 3e6, RevenueMultiple: 6, AgeYears: 2, Condition: models.MarketNeutral},
				{Name: "Diagnostics B", Sector: models.SectorHealthcare, Stage: models.StageRevenueGrowth, Region: models.RegionEU, Revenue: 9e6, RevenueMultiple: 4.5, AgeYears: 1, Condition: models.MarketNeutral},
			},
			models.SectorEcommerce: {
				{Name: "Marketplace A", Sector: models.SectorEcommerce, Stage: models.StageRevenueGrowth, Region: models.RegionUS, Revenue: 20e6, RevenueMultiple: 2.5, AgeYears: 1, Condition: models.MarketNeutral},
				{Name: "D2C brand B", Sector: models.SectorEcommerce, Stage: models.StageRevenueEarly, Region: models.RegionIndia, Revenue: 5e6, RevenueMultiple: 3.5, AgeYears: 2, Condition: models.MarketHot},
			},
		},
		Frameworks: []Framework{
			{
				ID: Framework409A, Name: "IRC Section 409A Fair Market Value", Jurisdiction: "us",
				MinDiscount: 20, MaxDiscount: 60, MinTerminalGrowth: 0, MaxTerminalGrowth: rate.Percent(4).Ptr(), MinSpread: 5,
				Disclosures: []string{
					"Independent appraisal is required to rely on the safe-harbor presumption",
					"Valuation must be refreshed at least every 12 months or after a material event",
					"Document the weighting of income, market and asset approaches",
				},
			},
			{
				ID: FrameworkICAI, Name: "Rule 11UA / ICAI Valuation Standards", Jurisdiction: "india",
				MinDiscount: 15, MaxDiscount: 65, MinTerminalGrowth: 0, MaxTerminalGrowth: rate.Percent(6).Ptr(), MinSpread: 4,
				Disclosures: []string{
					"DCF valuation for share issuance must be certified by a registered valuer or merchant banker",
					"FEMA pricing guidelines apply to issuance to non-residents",
				},
			},
			{
				ID: FrameworkIFRS13, Name: "IFRS 13 Fair Value Measurement", Jurisdiction: "uk/eu",
				MinDiscount: 12, MaxDiscount: 65, MinTerminalGrowth: 0, MaxTerminalGrowth: rate.Percent(4).Ptr(), MinSpread: 3,
				Disclosures: []string{
					"Classify the measurement as Level 3 in the fair value hierarchy",
					"Disclose sensitivity of the value to significant unobservable inputs",
				},
			},
			{
				ID: FrameworkIVS, Name: "International Valuation Standards", Jurisdiction: "global",
				MinDiscount: 10, MaxDiscount: 70, MinTerminalGrowth: 0, MaxTerminalGrowth: rate.Percent(5).Ptr(), MinSpread: 3,
				Disclosures: []string{
					"State the basis of value and the valuation approaches applied",
				},
			},
		},
	}
}
