package controllers

import (
	"context"
	"time"

	"cryptotracker/src/clients/tracker"
	"cryptotracker/src/config"
	"cryptotracker/src/schemas"
	"cryptotracker/src/services"
	"cryptotracker/src/utils"
	"cryptotracker/src/utils/metrics"
)

type IController interface {
	LogIn(ctx context.Context, req schemas.TokenRequest) (*schemas.TokenResponse, error)
	AddExchange(ctx context.Context, session *schemas.Session, req schemas.AddExchangeRequest) error

	GetHoldings(ctx context.Context, session *schemas.Session, refresh bool) (*schemas.HoldingsResponse, error)
	SaveManualHolding(ctx context.Context, session *schemas.Session, req schemas.ManualHoldingRequest) error
	DeleteManualHolding(ctx context.Context, session *schemas.Session, assetSymbol string) error
	GetPortfolio(ctx context.Context, session *schemas.Session, refresh bool) (*schemas.PortfolioSnapshot, error)
	GetAssetDetail(ctx context.Context, session *schemas.Session, assetSymbol string) (*schemas.AssetDetail, error)

	GetRiskAlerts(ctx context.Context, session *schemas.Session, critical bool) ([]schemas.RiskAlert, error)
	SubscribeRiskAlerts(ctx context.Context, session *schemas.Session) (<-chan []schemas.RiskAlert, error)

	GetTrades(ctx context.Context, session *schemas.Session) (*schemas.TradesResponse, error)
	SyncTrades(ctx context.Context, session *schemas.Session) (*schemas.TradesResponse, error)
	GetPnLReport(ctx context.Context, session *schemas.Session) (*schemas.PnLReport, error)
}

type Controller struct {
	Accounts  services.AccountServiceI
	Holdings  services.HoldingsServiceI
	Portfolio services.PortfolioServiceI
	Assets    services.AssetServiceI
	Trades    services.TradesServiceI
	Reports   services.ReportsServiceI
	Broker    services.AlertBroker

	// snapshotMaxAge bounds how long a committed snapshot is served without a new pass.
	snapshotMaxAge time.Duration
}

func NewController(cfg *config.Config, client tracker.TrackerServiceClientI, cache utils.CacheHandlerI, broker services.AlertBroker, recorder *metrics.Recorder) *Controller {
	portfolioCfg := cfg.Portfolio
	holdings := services.NewHoldingsService(client, portfolioCfg.HoldingsCacheTTL)
	resolver := services.NewPriceResolver(client, cache, portfolioCfg.PriceCacheTTL, portfolioCfg.MaxConcurrency, recorder)

	return &Controller{
		Accounts:       services.NewAccountService(client),
		Holdings:       holdings,
		Portfolio:      services.NewPortfolioService(holdings, resolver, broker, recorder, portfolioCfg.HoldingsCacheTTL),
		Assets:         services.NewAssetService(client, holdings),
		Trades:         services.NewTradesService(client, cache, portfolioCfg.TradesCacheTTL, recorder),
		Reports:        services.NewReportsService(client),
		Broker:         broker,
		snapshotMaxAge: portfolioCfg.HoldingsCacheTTL,
	}
}

var _ IController = (*Controller)(nil)
