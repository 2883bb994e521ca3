package schemas

type PriceSnapshot struct {
	CapturedAt Timestamp `json:"capturedAt"`
	PriceUSD   float64   `json:"priceUsd"`
}
