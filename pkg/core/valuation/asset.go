package valuation

import (
	"fmt"

	"github.com/camayank/StartupValuator-sub001/pkg/models"
)

// assetRevenueFraction is the share of revenue taken as the base asset value.
const assetRevenueFraction = 0.3

// AssetPremiums are the additive premiums on the base asset value.
type AssetPremiums struct {
	IP          float64
	Brand       float64
	Scalability float64
}

// Total sums the premiums.
func (p AssetPremiums) Total() float64 { return p.IP + p.Brand + p.Scalability }

// CalculateAssetPremiums derives the IP, brand and scalability premiums.
func CalculateAssetPremiums(in models.ValuationInput) AssetPremiums {
	var p AssetPremiums
	switch in.IPStatus {
	case models.IPRegistered:
		p.IP = 0.20
	case models.IPPending:
		p.IP = 0.10
	}
	switch in.Differentiation {
	case models.DifferentiationHigh:
		p.Brand = 0.15
	case models.DifferentiationMedium:
		p.Brand = 0.075
	}
	p.Scalability = clamp(in.ScalabilityRating, 0, 10) / 10 * 0.20
	return p
}

// AssetBased values the company at a fraction of revenue plus premiums.
func AssetBased(ctx Context) Result {
	in := ctx.Input
	if in.Revenue <= 0 {
		return failure(MethodAssetBased, fmt.Errorf("asset based: %w", ErrNoRevenue))
	}
	base := in.Revenue * assetRevenueFraction
	p := CalculateAssetPremiums(in)

	confidence := 0.55
	if in.Sector.IsAssetHeavy() {
		confidence = 0.75
	}
	return Result{
		Method:      MethodAssetBased,
		Value:       base * (1 + p.Total()),
		Methodology: MethodAssetBased.Label(),
		Assumptions: map[string]float64{"revenue_fraction": assetRevenueFraction},
		Sensitivity: map[string]float64{},
		Breakdown: map[string]float64{
			"base_asset_value":    base,
			"ip_premium":          p.IP,
			"brand_premium":       p.Brand,
			"scalability_premium": p.Scalability,
		},
		Confidence: confidence,
		Status:     StatusOK,
	}
}
