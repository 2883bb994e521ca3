package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"cryptotracker/src/schemas"
	"cryptotracker/src/services"
	"cryptotracker/src/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAssetDetail(t *testing.T) {
	holding := schemas.Holding{AssetSymbol: "ETH", Quantity: 2, AvgCost: 2000}
	snapshots := []schemas.PriceSnapshot{
		{CapturedAt: at(3), PriceUSD: 2100},
		{CapturedAt: at(1), PriceUSD: 1900},
	}

	detail := services.BuildAssetDetail(holding, snapshots, nil)
	assert.Equal(t, 4000.0, detail.InvestedValue)
	require.NotNil(t, detail.CurrentPrice)
	assert.Equal(t, 2100.0, *detail.CurrentPrice)
	assert.Equal(t, 4200.0, *detail.CurrentValue)
	assert.Equal(t, 200.0, *detail.ProfitLoss)
	assert.Equal(t, 1900.0, detail.Snapshots[0].PriceUSD)
	assert.Equal(t, "P&L not available", detail.PnLMessage)

	empty := services.BuildAssetDetail(holding, nil, &schemas.AssetPnL{Invested: 4000})
	assert.Nil(t, empty.CurrentPrice)
	assert.Nil(t, empty.CurrentValue)
	assert.Nil(t, empty.ProfitLoss)
	assert.Empty(t, empty.PnLMessage)
}

func TestGetAssetDetail(t *testing.T) {
	client := newMarketClient(
		[]schemas.Holding{{AssetSymbol: "BTC", Quantity: 1, AvgCost: 40000}},
		[]schemas.Holding{{AssetSymbol: "ETH", Quantity: 2, AvgCost: 2000}},
		map[string]marketData{
			"BTC": {snapshots: []schemas.PriceSnapshot{{CapturedAt: at(1), PriceUSD: 42000}}, pnlErr: errors.New("down")},
		},
	)
	svc := services.NewAssetService(client, services.NewHoldingsService(client, time.Minute))
	ctx := context.Background()

	detail, err := svc.GetAssetDetail(ctx, testSession, "btc")
	require.NoError(t, err)
	assert.Equal(t, "BTC", detail.AssetSymbol)
	assert.Equal(t, 2000.0, *detail.ProfitLoss)
	assert.Equal(t, []string{"Failed to load P&L"}, detail.Failures)

	_, err = svc.GetAssetDetail(ctx, testSession, "DOGE")
	assert.Equal(t, 404, utils.StatusCode(err))

	_, err = svc.GetAssetDetail(ctx, testSession, " ")
	assert.Equal(t, 400, utils.StatusCode(err))
}
