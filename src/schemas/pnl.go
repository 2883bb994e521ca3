package schemas

// AssetPnL is the backend's unrealized P&L for a single asset.
type AssetPnL struct {
	Invested      float64 `json:"invested"`
	CurrentValue  float64 `json:"currentValue"`
	UnrealizedPnL float64 `json:"unrealizedPnL"`
}

// UnrealizedPnLPercent is undefined when nothing was invested.
func (p AssetPnL) UnrealizedPnLPercent() (float64, bool) {
	if p.Invested <= 0 {
		return 0, false
	}
	return p.UnrealizedPnL * 100 / p.Invested, true
}

type PnLSummary struct {
	TotalInvested      float64 `json:"totalInvested"`
	TotalCurrentValue  float64 `json:"totalCurrentValue"`
	TotalUnrealizedPnL float64 `json:"totalUnrealizedPnL"`
	TotalRealizedPnL   float64 `json:"totalRealizedPnL"`
}

type AssetRealizedPnL struct {
	AssetSymbol string  `json:"assetSymbol"`
	RealizedPnL float64 `json:"realizedPnL"`
}

type RealizedPnL struct {
	TotalRealizedPnL float64            `json:"totalRealizedPnL"`
	Assets           []AssetRealizedPnL `json:"assets"`
}

// PnLReport joins the summary and realized P&L. Either part may be missing when its
// request failed; the failure is listed instead.
type PnLReport struct {
	Summary  *PnLSummary       `json:"summary"`
	Realized *RealizedPnL      `json:"realized"`
	Failures map[string]string `json:"failures,omitempty"`
}
