package services_test

import (
	"math"
	"testing"
	"time"

	"cryptotracker/src/schemas"
	"cryptotracker/src/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pct(v float64) *float64 { return &v }

func TestClassifyRisk(t *testing.T) {
	tests := []struct {
		name    string
		percent *float64
		want    schemas.RiskTier
	}{
		{"exactly high threshold", pct(-10.0), schemas.RiskHigh},
		{"deep loss", pct(-45), schemas.RiskHigh},
		{"just above high threshold", pct(-9.999), schemas.RiskMedium},
		{"exactly moderate threshold", pct(-5.0), schemas.RiskMedium},
		{"just above moderate threshold", pct(-4.999), schemas.RiskLow},
		{"gain", pct(5), schemas.RiskLow},
		{"undefined", nil, schemas.RiskLow},
		{"not a number", pct(math.NaN()), schemas.RiskLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, services.ClassifyRisk(tt.percent))
		})
	}
}

func TestClassifyPnL(t *testing.T) {
	p, tier := services.ClassifyPnL(&schemas.AssetPnL{Invested: 40000, UnrealizedPnL: 2000})
	require.NotNil(t, p)
	assert.InDelta(t, 5.0, *p, 1e-9)
	assert.Equal(t, schemas.RiskLow, tier)

	p, tier = services.ClassifyPnL(&schemas.AssetPnL{Invested: 40000, UnrealizedPnL: -2000})
	require.NotNil(t, p)
	assert.Equal(t, -5.0, *p)
	assert.Equal(t, schemas.RiskMedium, tier)

	p, tier = services.ClassifyPnL(&schemas.AssetPnL{Invested: 0, UnrealizedPnL: -2000})
	assert.Nil(t, p)
	assert.Equal(t, schemas.RiskLow, tier)

	p, tier = services.ClassifyPnL(nil)
	assert.Nil(t, p)
	assert.Equal(t, schemas.RiskLow, tier)
}

func TestBuildRiskAlerts(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	assets := []schemas.AssetValuation{
		{AssetSymbol: "ETH", RiskTier: schemas.RiskMedium, UnrealizedPnLPercent: pct(-6.5)},
		{AssetSymbol: "BTC", RiskTier: schemas.RiskLow, UnrealizedPnLPercent: pct(3)},
		{AssetSymbol: "SOL", RiskTier: schemas.RiskHigh, UnrealizedPnLPercent: pct(-22)},
	}

	alerts := services.BuildRiskAlerts(assets, now)
	require.Len(t, alerts, 2)

	assert.Equal(t, "SOL", alerts[0].AssetSymbol)
	assert.Equal(t, schemas.RiskHigh, alerts[0].Level)
	assert.Equal(t, "High Loss Detected", alerts[0].Title)
	assert.Equal(t, "SOL unrealized P&L is -22.00%", alerts[0].Description)
	assert.Equal(t, now, alerts[0].CreatedAt)
	assert.NotEmpty(t, alerts[0].ID)

	assert.Equal(t, "ETH", alerts[1].AssetSymbol)
	assert.Equal(t, "Moderate Risk", alerts[1].Title)
	assert.NotEqual(t, alerts[0].ID, alerts[1].ID)

	assert.Empty(t, services.BuildRiskAlerts(nil, now))
}

func TestCriticalAlerts(t *testing.T) {
	alerts := []schemas.RiskAlert{
		{AssetSymbol: "A", Level: schemas.RiskMedium},
		{AssetSymbol: "B", Level: schemas.RiskLow},
		{AssetSymbol: "C", Level: schemas.RiskMedium},
		{AssetSymbol: "D", Level: schemas.RiskHigh},
		{AssetSymbol: "E", Level: schemas.RiskMedium},
	}

	critical := services.CriticalAlerts(alerts)
	require.Len(t, critical, 3)
	assert.Equal(t, "D", critical[0].AssetSymbol)
	assert.Equal(t, "A", critical[1].AssetSymbol)
	assert.Equal(t, "C", critical[2].AssetSymbol)

	// the input order is left alone
	assert.Equal(t, "A", alerts[0].AssetSymbol)
	assert.Empty(t, services.CriticalAlerts([]schemas.RiskAlert{{Level: schemas.RiskLow}}))
}
