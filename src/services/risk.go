package services

import (
	"fmt"
	"math"
	"sort"
	"time"

	"cryptotracker/src/schemas"

	"github.com/google/uuid"
)

// Unrealized P&L percentages at or below these values raise the risk tier.
const (
	HighLossThresholdPercent     = -10.0
	ModerateLossThresholdPercent = -5.0
)

const maxCriticalAlerts = 3

// ClassifyRisk maps an unrealized P&L percentage to a risk tier. A nil or NaN
// percentage is LOW.
func ClassifyRisk(percent *float64) schemas.RiskTier {
	if percent == nil {
		return schemas.RiskLow
	}
	switch p := *percent; {
	case p <= HighLossThresholdPercent:
		return schemas.RiskHigh
	case p <= ModerateLossThresholdPercent:
		return schemas.RiskMedium
	default:
		return schemas.RiskLow
	}
}

// ClassifyPnL derives the unrealized percentage of an asset P&L and its tier. The
// percentage is nil when the P&L is absent or nothing was invested.
func ClassifyPnL(pnl *schemas.AssetPnL) (*float64, schemas.RiskTier) {
	if pnl == nil {
		return nil, schemas.RiskLow
	}
	p, ok := pnl.UnrealizedPnLPercent()
	if !ok || math.IsNaN(p) || math.IsInf(p, 0) {
		return nil, schemas.RiskLow
	}
	return &p, ClassifyRisk(&p)
}

// BuildRiskAlerts emits one alert per HIGH or MEDIUM asset, HIGH first.
func BuildRiskAlerts(assets []schemas.AssetValuation, now time.Time) []schemas.RiskAlert {
	alerts := make([]schemas.RiskAlert, 0)
	for _, asset := range assets {
		if asset.RiskTier != schemas.RiskHigh && asset.RiskTier != schemas.RiskMedium {
			continue
		}
		description := fmt.Sprintf("%s is at a loss", asset.AssetSymbol)
		if asset.UnrealizedPnLPercent != nil {
			description = fmt.Sprintf("%s unrealized P&L is %.2f%%", asset.AssetSymbol, *asset.UnrealizedPnLPercent)
		}
		alerts = append(alerts, schemas.RiskAlert{
			ID:          uuid.NewString(),
			Level:       asset.RiskTier,
			Title:       asset.RiskTier.Label(),
			Description: description,
			AssetSymbol: asset.AssetSymbol,
			CreatedAt:   now,
		})
	}
	sortBySeverity(alerts)
	return alerts
}

// CriticalAlerts keeps at most three HIGH or MEDIUM alerts, HIGH first.
func CriticalAlerts(alerts []schemas.RiskAlert) []schemas.RiskAlert {
	critical := make([]schemas.RiskAlert, 0, maxCriticalAlerts)
	for _, alert := range alerts {
		if alert.Level == schemas.RiskHigh || alert.Level == schemas.RiskMedium {
			critical = append(critical, alert)
		}
	}
	sortBySeverity(critical)
	if len(critical) > maxCriticalAlerts {
		critical = critical[:maxCriticalAlerts]
	}
	return critical
}

func sortBySeverity(alerts []schemas.RiskAlert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Level == schemas.RiskHigh && alerts[j].Level != schemas.RiskHigh
	})
}
