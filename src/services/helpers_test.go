package services_test

import (
	"context"
	"time"

	"cryptotracker/src/clients/tracker/trackertest"
	"cryptotracker/src/schemas"
)

var testSession = schemas.NewSession("test-token")

func at(day int) schemas.Timestamp {
	return schemas.Timestamp{Time: time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC)}
}

// marketData describes what the mock backend returns per symbol.
type marketData struct {
	snapshots   []schemas.PriceSnapshot
	pnl         *schemas.AssetPnL
	snapshotErr error
	pnlErr      error
}

func newMarketClient(exchange, manual []schemas.Holding, market map[string]marketData) *trackertest.MockTrackerClient {
	return &trackertest.MockTrackerClient{
		RefreshExchangeHoldingsFunc: func(ctx context.Context, session *schemas.Session) ([]schemas.Holding, error) {
			return exchange, nil
		},
		RefreshManualHoldingsFunc: func(ctx context.Context, session *schemas.Session) ([]schemas.Holding, error) {
			return manual, nil
		},
		GetPriceSnapshotsFunc: func(ctx context.Context, session *schemas.Session, symbol string) ([]schemas.PriceSnapshot, error) {
			data := market[symbol]
			return data.snapshots, data.snapshotErr
		},
		GetAssetPnLFunc: func(ctx context.Context, session *schemas.Session, symbol string) (*schemas.AssetPnL, error) {
			data := market[symbol]
			return data.pnl, data.pnlErr
		},
	}
}
