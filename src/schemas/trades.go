package schemas

import (
	"bytes"
	"encoding/json"
	"strings"
)

type TradeSide string

const (
	SideBuy  TradeSide = "BUY"
	SideSell TradeSide = "SELL"
)

// TradeID accepts both numeric and string identifiers from the backend.
type TradeID string

func (id *TradeID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = TradeID(s)
		return nil
	}
	if string(data) == "null" {
		*id = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = TradeID(n.String())
	return nil
}

type Trade struct {
	TradeID      TradeID   `json:"tradeId"`
	AssetSymbol  string    `json:"assetSymbol"`
	Side         TradeSide `json:"side"`
	Quantity     float64   `json:"quantity"`
	Price        float64   `json:"price"`
	TradeTime    Timestamp `json:"tradeTime"`
	ExchangeName string    `json:"exchangeName,omitempty"`
}

// IsSide compares case-insensitively; the backend is not consistent about case.
func (t Trade) IsSide(side TradeSide) bool {
	return strings.EqualFold(string(t.Side), string(side))
}

type TradeSummary struct {
	Invested float64 `json:"invested"`
	Returned float64 `json:"returned"`
	PnL      float64 `json:"pnl"`
}

type TradesResponse struct {
	Trades    []Trade      `json:"trades"`
	Summary   TradeSummary `json:"summary"`
	NewTrades int          `json:"newTrades"`
	Message   string       `json:"message,omitempty"`
}
