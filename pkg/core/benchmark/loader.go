package benchmark

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/camayank/StartupValuator-sub001/pkg/core/rate"
	"github.com/camayank/StartupValuator-sub001/pkg/models"
)

// overlay is the on-disk shape. Keys are free-form labels and pass through
// the models.Parse* functions, so "Tech" and "technology" land on one entry.
type overlay struct {
	Version              string                             `yaml:"version"`
	RiskFree             map[string]rate.Percent            `yaml:"risk_free"`
	MarketRiskPremium    map[string]rate.Percent            `yaml:"market_risk_premium"`
	SectorBeta           map[string]float64                 `yaml:"sector_beta"`
	RegionBetaMultiplier map[string]float64                 `yaml:"region_beta_multiplier"`
	GrowthBenchmarks     map[string]map[string]rate.Percent `yaml:"growth_benchmarks"`
	IndustryMultiples    map[string]float64                 `yaml:"industry_multiples"`
	Peers                map[string]PeerMetrics             `yaml:"peers"`
	StageBaseline        map[string]float64                 `yaml:"stage_baseline"`
	RegionScale          map[string]float64                 `yaml:"region_scale"`
	BerkusElementCap     float64                            `yaml:"berkus_element_cap"`
	RFSStep              float64                            `yaml:"rfs_step"`
	PrecedentDeals       map[string][]models.Transaction    `yaml:"precedent_deals"`
	Frameworks           []Framework                        `yaml:"frameworks"`
}

// LoadFile reads a YAML overlay and layers it on top of Default().
// Entries present in the file replace the built-in ones; everything else is kept.
func LoadFile(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read benchmark tables: %w", err)
	}
	return Parse(data)
}

// Parse layers a YAML document over the default tables.
func Parse(data []byte) (*Tables, error) {
	var ov overlay
	if err := yaml.Unmarshal(data, &ov); err != nil {
		return nil, fmt.Errorf("parse benchmark tables: %w", err)
	}

	t := Default()
	if ov.Version != "" {
		t.Version = ov.Version
	} else if !ov.empty() {
		t.Version = DefaultVersion + "+local"
	}

	for k, v := range ov.RiskFree {
		t.RiskFree[models.ParseRegion(k)] = v
	}
	for k, v := range ov.MarketRiskPremium {
		t.MarketRiskPremium[models.ParseRegion(k)] = v
	}
	for k, v := range ov.SectorBeta {
		t.SectorBeta[models.ParseSector(k)] = v
	}
	for k, v := range ov.RegionBetaMultiplier {
		t.RegionBetaMultiplier[models.ParseRegion(k)] = v
	}
	for sk, byStage := range ov.GrowthBenchmarks {
		sector := models.ParseSector(sk)
		if t.GrowthBenchmarks[sector] == nil {
			t.GrowthBenchmarks[sector] = make(map[models.Stage]rate.Percent)
		}
		for st, g := range byStage {
			t.GrowthBenchmarks[sector][models.ParseStage(st)] = g
		}
	}
	for k, v := range ov.IndustryMultiples {
		t.IndustryMultiples[models.ParseSector(k)] = v
	}
	for k, v := range ov.Peers {
		if v.DataQuality == "" {
			v.DataQuality = QualityLow
		}
		t.Peers[models.ParseSector(k)] = v
	}
	for k, v := range ov.StageBaseline {
		t.StageBaseline[models.ParseStage(k)] = v
	}
	for k, v := range ov.RegionScale {
		t.RegionScale[models.ParseRegion(k)] = v
	}
	if ov.BerkusElementCap > 0 {
		t.BerkusElementCap = ov.BerkusElementCap
	}
	if ov.RFSStep > 0 {
		t.RFSStep = ov.RFSStep
	}
	for k, deals := range ov.PrecedentDeals {
		sector := models.ParseSector(k)
		normalized := make([]models.Transaction, len(deals))
		for i, d := range deals {
			d.Sector = models.ParseSector(string(d.Sector))
			d.Stage = models.ParseStage(string(d.Stage))
			d.Region = models.ParseRegion(string(d.Region))
			normalized[i] = d
		}
		t.PrecedentDeals[sector] = normalized
	}
	for _, f := range ov.Frameworks {
		if err := f.Validate(); err != nil {
			return nil, err
		}
		t.replaceFramework(f)
	}
	return t, nil
}

// Validate rejects a framework whose bounds cannot all hold at once.
func (f Framework) Validate() error {
	if f.ID == "" {
		return fmt.Errorf("framework without id")
	}
	if f.MaxDiscount > 0 && f.MinDiscount > f.MaxDiscount {
		return fmt.Errorf("framework %s: min discount %s above max %s", f.ID, f.MinDiscount, f.MaxDiscount)
	}
	if f.MaxTerminalGrowth != nil && f.MinTerminalGrowth > *f.MaxTerminalGrowth {
		return fmt.Errorf("framework %s: min terminal growth %s above max %s", f.ID, f.MinTerminalGrowth, *f.MaxTerminalGrowth)
	}
	if f.MinSpread < 0 {
		return fmt.Errorf("framework %s: negative min spread", f.ID)
	}
	return nil
}

func (t *Tables) replaceFramework(f Framework) {
	for i := range t.Frameworks {
		if t.Frameworks[i].ID == f.ID {
			t.Frameworks[i] = f
			return
		}
	}
	t.Frameworks = append(t.Frameworks, f)
}

func (ov overlay) empty() bool {
	return len(ov.RiskFree) == 0 && len(ov.MarketRiskPremium) == 0 && len(ov.SectorBeta) == 0 &&
		len(ov.RegionBetaMultiplier) == 0 && len(ov.GrowthBenchmarks) == 0 && len(ov.IndustryMultiples) == 0 &&
		len(ov.Peers) == 0 && len(ov.StageBaseline) == 0 && len(ov.RegionScale) == 0 &&
		ov.BerkusElementCap == 0 && ov.RFSStep == 0 && len(ov.PrecedentDeals) == 0 && len(ov.Frameworks) == 0
}
