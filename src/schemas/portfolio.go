package schemas

import "time"

type RiskTier string

const (
	RiskHigh   RiskTier = "HIGH"
	RiskMedium RiskTier = "MEDIUM"
	RiskLow    RiskTier = "LOW"
)

// Label returns the text displayed for the tier.
func (t RiskTier) Label() string {
	switch t {
	case RiskHigh:
		return "High Loss Detected"
	case RiskMedium:
		return "Moderate Risk"
	default:
		return "Stable Asset"
	}
}

type RiskCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
}

type PortfolioMetrics struct {
	TotalValue   float64    `json:"totalValue"`
	PriorValue   float64    `json:"priorValue"`
	DeltaValue   float64    `json:"deltaValue"`
	DeltaPercent float64    `json:"deltaPercent"`
	RiskCounts   RiskCounts `json:"riskCounts"`
}

// AssetValuation is the resolved valuation of one holding.
type AssetValuation struct {
	AssetSymbol          string        `json:"assetSymbol"`
	Source               HoldingSource `json:"source"`
	Quantity             float64       `json:"quantity"`
	AvgCost              float64       `json:"avgCost"`
	LatestPrice          float64       `json:"latestPrice"`
	PreviousPrice        float64       `json:"previousPrice"`
	CurrentValue         float64       `json:"currentValue"`
	PriorValue           float64       `json:"priorValue"`
	UnrealizedPnLPercent *float64      `json:"unrealizedPnlPercent"`
	RiskTier             RiskTier      `json:"riskTier"`
	RiskLabel            string        `json:"riskLabel"`
	Degraded             bool          `json:"degraded"`
	Failure              string        `json:"failure,omitempty"`
}

type RiskAlert struct {
	ID          string    `json:"id"`
	Level       RiskTier  `json:"level"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	AssetSymbol string    `json:"assetSymbol"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PortfolioSnapshot is the committed result of one aggregation pass.
type PortfolioSnapshot struct {
	Metrics       PortfolioMetrics `json:"metrics"`
	Assets        []AssetValuation `json:"assets"`
	Alerts        []RiskAlert      `json:"alerts"`
	NoData        bool             `json:"noData"`
	SourcesFailed []string         `json:"sourcesFailed,omitempty"`
	Generation    uint64           `json:"generation"`
	ComputedAt    time.Time        `json:"computedAt"`
}

type AssetDetail struct {
	AssetSymbol   string          `json:"assetSymbol"`
	Quantity      float64         `json:"quantity"`
	AvgCost       float64         `json:"avgCost"`
	Snapshots     []PriceSnapshot `json:"snapshots"`
	CurrentPrice  *float64        `json:"currentPrice"`
	InvestedValue float64         `json:"investedValue"`
	CurrentValue  *float64        `json:"currentValue"`
	ProfitLoss    *float64        `json:"profitLoss"`
	PnL           *AssetPnL       `json:"pnl"`
	PnLMessage    string          `json:"pnlMessage,omitempty"`
	Failures      []string        `json:"failures,omitempty"`
}
