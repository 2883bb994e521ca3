package schemas

type HoldingSource string

const (
	SourceExchange HoldingSource = "EXCHANGE"
	SourceManual   HoldingSource = "MANUAL"
)

// Holding is a position in one asset, either synced from an exchange or entered manually.
type Holding struct {
	AssetSymbol  string        `json:"assetSymbol"`
	Quantity     float64       `json:"quantity"`
	AvgCost      float64       `json:"avgCost"`
	Source       HoldingSource `json:"source,omitempty"`
	ExchangeName string        `json:"exchangeName,omitempty"`
}

type HoldingsResponse struct {
	Holdings      []Holding `json:"holdings"`
	SourcesFailed []string  `json:"sourcesFailed,omitempty"`
	NoData        bool      `json:"noData"`
}

// ManualHoldingRequest is the body accepted to add or edit a manual holding.
type ManualHoldingRequest struct {
	AssetSymbol string  `json:"assetSymbol"`
	Quantity    float64 `json:"quantity"`
	AvgCost     float64 `json:"avgCost"`
}
