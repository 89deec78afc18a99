package valuation

import "fmt"

// SensitivityOffsets are the percentage-point shifts applied to discount and growth.
var SensitivityOffsets = []int{-2, -1, 0, 1, 2}

// SensitivityKey formats a perturbation label such as "discount:-2".
func SensitivityKey(driver string, offset int) string {
	return fmt.Sprintf("%s:%+d", driver, offset)
}

// DCFSensitivity re-runs the DCF at each discount and growth offset.
// Offsets that leave discount at or below terminal growth are omitted.
func DCFSensitivity(base DCFInput) map[string]float64 {
	table := make(map[string]float64, 2*len(SensitivityOffsets))
	for _, off := range SensitivityOffsets {
		in := base
		in.DiscountRate = base.DiscountRate.Add(float64(off))
		if res, err := CalculateDCF(in); err == nil {
			table[SensitivityKey("discount", off)] = res.EnterpriseValue
		}

		in = base
		in.Growth = base.Growth.Add(float64(off))
		if res, err := CalculateDCF(in); err == nil {
			table[SensitivityKey("growth", off)] = res.EnterpriseValue
		}
	}
	return table
}
