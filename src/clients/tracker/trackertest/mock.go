// Package trackertest provides a configurable in-memory tracker client for tests.
package trackertest

import (
	"context"
	"sync"

	"cryptotracker/src/clients/tracker"
	"cryptotracker/src/schemas"
)

// MockTrackerClient answers every call through the matching function field. Unset
// fields return zero values. Calls are counted per method name.
type MockTrackerClient struct {
	LogInFunc                   func(ctx context.Context, email, password string) (*schemas.TokenResponse, error)
	RefreshExchangeHoldingsFunc func(ctx context.Context, session *schemas.Session) ([]schemas.Holding, error)
	RefreshManualHoldingsFunc   func(ctx context.Context, session *schemas.Session) ([]schemas.Holding, error)
	ManualAddEditHoldingFunc    func(ctx context.Context, session *schemas.Session, holding schemas.ManualHoldingRequest) error
	DeleteManualHoldingFunc     func(ctx context.Context, session *schemas.Session, assetSymbol string) error
	GetPriceSnapshotsFunc       func(ctx context.Context, session *schemas.Session, assetSymbol string) ([]schemas.PriceSnapshot, error)
	GetAssetPnLFunc             func(ctx context.Context, session *schemas.Session, assetSymbol string) (*schemas.AssetPnL, error)
	GetPnLSummaryFunc           func(ctx context.Context, session *schemas.Session) (*schemas.PnLSummary, error)
	GetRealizedPnLFunc          func(ctx context.Context, session *schemas.Session) (*schemas.RealizedPnL, error)
	FetchAllTradesFunc          func(ctx context.Context, session *schemas.Session) ([]schemas.Trade, error)
	FetchIncrementalTradesFunc  func(ctx context.Context, session *schemas.Session) ([]schemas.Trade, error)
	AddExchangeFunc             func(ctx context.Context, session *schemas.Session, req schemas.AddExchangeRequest) error

	mutex sync.Mutex
	calls map[string]int
}

func (m *MockTrackerClient) record(name string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[name]++
}

// Calls returns how many times the named method was invoked.
func (m *MockTrackerClient) Calls(name string) int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.calls[name]
}

func (m *MockTrackerClient) LogIn(ctx context.Context, email, password string) (*schemas.TokenResponse, error) {
	m.record("LogIn")
	if m.LogInFunc == nil {
		return &schemas.TokenResponse{}, nil
	}
	return m.LogInFunc(ctx, email, password)
}

func (m *MockTrackerClient) RefreshExchangeHoldings(ctx context.Context, session *schemas.Session) ([]schemas.Holding, error) {
	m.record("RefreshExchangeHoldings")
	if m.RefreshExchangeHoldingsFunc == nil {
		return nil, nil
	}
	return m.RefreshExchangeHoldingsFunc(ctx, session)
}

func (m *MockTrackerClient) RefreshManualHoldings(ctx context.Context, session *schemas.Session) ([]schemas.Holding, error) {
	m.record("RefreshManualHoldings")
	if m.RefreshManualHoldingsFunc == nil {
		return nil, nil
	}
	return m.RefreshManualHoldingsFunc(ctx, session)
}

func (m *MockTrackerClient) ManualAddEditHolding(ctx context.Context, session *schemas.Session, holding schemas.ManualHoldingRequest) error {
	m.record("ManualAddEditHolding")
	if m.ManualAddEditHoldingFunc == nil {
		return nil
	}
	return m.ManualAddEditHoldingFunc(ctx, session, holding)
}

func (m *MockTrackerClient) DeleteManualHolding(ctx context.Context, session *schemas.Session, assetSymbol string) error {
	m.record("DeleteManualHolding")
	if m.DeleteManualHoldingFunc == nil {
		return nil
	}
	return m.DeleteManualHoldingFunc(ctx, session, assetSymbol)
}

func (m *MockTrackerClient) GetPriceSnapshots(ctx context.Context, session *schemas.Session, assetSymbol string) ([]schemas.PriceSnapshot, error) {
	m.record("GetPriceSnapshots")
	if m.GetPriceSnapshotsFunc == nil {
		return nil, nil
	}
	return m.GetPriceSnapshotsFunc(ctx, session, assetSymbol)
}

func (m *MockTrackerClient) GetAssetPnL(ctx context.Context, session *schemas.Session, assetSymbol string) (*schemas.AssetPnL, error) {
	m.record("GetAssetPnL")
	if m.GetAssetPnLFunc == nil {
		return nil, nil
	}
	return m.GetAssetPnLFunc(ctx, session, assetSymbol)
}

func (m *MockTrackerClient) GetPnLSummary(ctx context.Context, session *schemas.Session) (*schemas.PnLSummary, error) {
	m.record("GetPnLSummary")
	if m.GetPnLSummaryFunc == nil {
		return nil, nil
	}
	return m.GetPnLSummaryFunc(ctx, session)
}

func (m *MockTrackerClient) GetRealizedPnL(ctx context.Context, session *schemas.Session) (*schemas.RealizedPnL, error) {
	m.record("GetRealizedPnL")
	if m.GetRealizedPnLFunc == nil {
		return nil, nil
	}
	return m.GetRealizedPnLFunc(ctx, session)
}

func (m *MockTrackerClient) FetchAllTrades(ctx context.Context, session *schemas.Session) ([]schemas.Trade, error) {
	m.record("FetchAllTrades")
	if m.FetchAllTradesFunc == nil {
		return nil, nil
	}
	return m.FetchAllTradesFunc(ctx, session)
}

func (m *MockTrackerClient) FetchIncrementalTrades(ctx context.Context, session *schemas.Session) ([]schemas.Trade, error) {
	m.record("FetchIncrementalTrades")
	if m.FetchIncrementalTradesFunc == nil {
		return nil, nil
	}
	return m.FetchIncrementalTradesFunc(ctx, session)
}

func (m *MockTrackerClient) AddExchange(ctx context.Context, session *schemas.Session, req schemas.AddExchangeRequest) error {
	m.record("AddExchange")
	if m.AddExchangeFunc == nil {
		return nil
	}
	return m.AddExchangeFunc(ctx, session, req)
}

var _ tracker.TrackerServiceClientI = (*MockTrackerClient)(nil)
