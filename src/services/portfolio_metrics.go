package services

import (
	"math"

	"cryptotracker/src/schemas"
)

// CalculateMetrics reduces asset valuations to portfolio totals. The delta percent is
// relative to the absolute prior value and is 0 when there is no prior value.
func CalculateMetrics(assets []schemas.AssetValuation) schemas.PortfolioMetrics {
	var m schemas.PortfolioMetrics
	for _, asset := range assets {
		if !(asset.Quantity > 0) {
			continue
		}
		m.TotalValue += asset.CurrentValue
		m.PriorValue += asset.PriorValue

		switch asset.RiskTier {
		case schemas.RiskHigh:
			m.RiskCounts.High++
		case schemas.RiskMedium:
			m.RiskCounts.Medium++
		}
	}

	m.DeltaValue = m.TotalValue - m.PriorValue
	if m.PriorValue != 0 {
		m.DeltaPercent = m.DeltaValue / math.Abs(m.PriorValue) * 100
	}
	if math.IsNaN(m.DeltaPercent) || math.IsInf(m.DeltaPercent, 0) {
		m.DeltaPercent = 0
	}
	return m
}
