package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"cryptotracker/src/clients/tracker/trackertest"
	"cryptotracker/src/schemas"
	"cryptotracker/src/services"
	"cryptotracker/src/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateHoldings(t *testing.T) {
	exchange := []schemas.Holding{
		{AssetSymbol: "btc", Quantity: 1, AvgCost: 40000},
		{AssetSymbol: "BTC", Quantity: 9, AvgCost: 1},
		{AssetSymbol: "", Quantity: 3, AvgCost: 1},
		{AssetSymbol: "DOGE", Quantity: 0, AvgCost: 1},
	}
	manual := []schemas.Holding{
		{AssetSymbol: " btc ", Quantity: 2, AvgCost: 30000},
		{AssetSymbol: "ETH", Quantity: 3, AvgCost: 2000},
	}

	merged := services.AggregateHoldings(exchange, manual)
	require.Len(t, merged, 3)

	assert.Equal(t, schemas.Holding{AssetSymbol: "BTC", Quantity: 1, AvgCost: 40000, Source: schemas.SourceExchange}, merged[0])
	assert.Equal(t, schemas.Holding{AssetSymbol: "BTC", Quantity: 2, AvgCost: 30000, Source: schemas.SourceManual}, merged[1])
	assert.Equal(t, "ETH", merged[2].AssetSymbol)

	assert.Empty(t, services.AggregateHoldings(nil, nil))
}

func TestLoadHoldings(t *testing.T) {
	ctx := context.Background()
	btc := schemas.Holding{AssetSymbol: "BTC", Quantity: 1, AvgCost: 40000}
	eth := schemas.Holding{AssetSymbol: "ETH", Quantity: 2, AvgCost: 2000}

	t.Run("merges both sources and caches the result", func(t *testing.T) {
		client := newMarketClient([]schemas.Holding{btc}, []schemas.Holding{eth}, nil)
		svc := services.NewHoldingsService(client, time.Minute)

		resp, err := svc.LoadHoldings(ctx, testSession, false)
		require.NoError(t, err)
		assert.Len(t, resp.Holdings, 2)
		assert.False(t, resp.NoData)
		assert.Empty(t, resp.SourcesFailed)

		_, err = svc.LoadHoldings(ctx, testSession, false)
		require.NoError(t, err)
		assert.Equal(t, 1, client.Calls("RefreshExchangeHoldings"))

		_, err = svc.LoadHoldings(ctx, testSession, true)
		require.NoError(t, err)
		assert.Equal(t, 2, client.Calls("RefreshExchangeHoldings"))
	})

	t.Run("a failing source becomes empty", func(t *testing.T) {
		client := newMarketClient(nil, []schemas.Holding{eth}, nil)
		client.RefreshExchangeHoldingsFunc = func(ctx context.Context, session *schemas.Session) ([]schemas.Holding, error) {
			return nil, errors.New("exchange down")
		}
		svc := services.NewHoldingsService(client, time.Minute)

		resp, err := svc.LoadHoldings(ctx, testSession, false)
		require.NoError(t, err)
		require.Len(t, resp.Holdings, 1)
		assert.Equal(t, "ETH", resp.Holdings[0].AssetSymbol)
		assert.Equal(t, []string{"EXCHANGE"}, resp.SourcesFailed)
		assert.False(t, resp.NoData)

		// partial results are not cached
		_, err = svc.LoadHoldings(ctx, testSession, false)
		require.NoError(t, err)
		assert.Equal(t, 2, client.Calls("RefreshExchangeHoldings"))
	})

	t.Run("both sources failing signals no data", func(t *testing.T) {
		fail := func(ctx context.Context, session *schemas.Session) ([]schemas.Holding, error) {
			return nil, utils.ServiceUnavailable("down")
		}
		client := &trackertest.MockTrackerClient{RefreshExchangeHoldingsFunc: fail, RefreshManualHoldingsFunc: fail}
		svc := services.NewHoldingsService(client, time.Minute)

		resp, err := svc.LoadHoldings(ctx, testSession, false)
		require.NoError(t, err)
		assert.True(t, resp.NoData)
		assert.Empty(t, resp.Holdings)
		assert.ElementsMatch(t, []string{"EXCHANGE", "MANUAL"}, resp.SourcesFailed)
	})

	t.Run("an expired session on both sources is an error", func(t *testing.T) {
		fail := func(ctx context.Context, session *schemas.Session) ([]schemas.Holding, error) {
			return nil, utils.Unauthorized("expired")
		}
		client := &trackertest.MockTrackerClient{RefreshExchangeHoldingsFunc: fail, RefreshManualHoldingsFunc: fail}
		svc := services.NewHoldingsService(client, time.Minute)

		_, err := svc.LoadHoldings(ctx, testSession, false)
		assert.Equal(t, 401, utils.StatusCode(err))
	})

	t.Run("requires a session", func(t *testing.T) {
		svc := services.NewHoldingsService(&trackertest.MockTrackerClient{}, time.Minute)
		_, err := svc.LoadHoldings(ctx, nil, false)
		assert.Equal(t, 401, utils.StatusCode(err))
	})
}

func TestManualHoldingsInvalidateCache(t *testing.T) {
	ctx := context.Background()
	var saved schemas.ManualHoldingRequest
	var deleted string

	client := newMarketClient([]schemas.Holding{{AssetSymbol: "BTC", Quantity: 1}}, nil, nil)
	client.ManualAddEditHoldingFunc = func(ctx context.Context, session *schemas.Session, req schemas.ManualHoldingRequest) error {
		saved = req
		return nil
	}
	client.DeleteManualHoldingFunc = func(ctx context.Context, session *schemas.Session, symbol string) error {
		deleted = symbol
		return nil
	}
	svc := services.NewHoldingsService(client, time.Minute)

	_, err := svc.LoadHoldings(ctx, testSession, false)
	require.NoError(t, err)

	require.NoError(t, svc.SaveManualHolding(ctx, testSession, schemas.ManualHoldingRequest{AssetSymbol: "sol", Quantity: 4, AvgCost: 25}))
	assert.Equal(t, "SOL", saved.AssetSymbol)

	_, err = svc.LoadHoldings(ctx, testSession, false)
	require.NoError(t, err)
	assert.Equal(t, 2, client.Calls("RefreshManualHoldings"))

	require.NoError(t, svc.DeleteManualHolding(ctx, testSession, "sol"))
	assert.Equal(t, "SOL", deleted)

	_, err = svc.LoadHoldings(ctx, testSession, false)
	require.NoError(t, err)
	assert.Equal(t, 3, client.Calls("RefreshManualHoldings"))

	assert.Equal(t, 400, utils.StatusCode(svc.SaveManualHolding(ctx, testSession, schemas.ManualHoldingRequest{AssetSymbol: " "})))
	assert.Equal(t, 400, utils.StatusCode(svc.SaveManualHolding(ctx, testSession, schemas.ManualHoldingRequest{AssetSymbol: "BTC", Quantity: -1})))
	assert.Equal(t, 400, utils.StatusCode(svc.DeleteManualHolding(ctx, testSession, "")))
}

func TestLoadHoldingsDropsExpiredSessionCaches(t *testing.T) {
	client := newMarketClient([]schemas.Holding{{AssetSymbol: "BTC", Quantity: 1, AvgCost: 40000}}, nil, nil)
	svc := services.NewHoldingsService(client, 20*time.Millisecond)
	ctx := context.Background()

	_, err := svc.LoadHoldings(ctx, schemas.NewSession("first-token"), false)
	require.NoError(t, err)
	assert.Equal(t, 1, svc.CachedSessions())

	time.Sleep(50 * time.Millisecond)
	_, err = svc.LoadHoldings(ctx, schemas.NewSession("second-token"), false)
	require.NoError(t, err)
	assert.Equal(t, 1, svc.CachedSessions())

	res, err := svc.LoadHoldings(ctx, schemas.NewSession("first-token"), false)
	require.NoError(t, err)
	assert.Len(t, res.Holdings, 1)
	assert.Equal(t, 3, client.Calls("RefreshExchangeHoldings"))
}
