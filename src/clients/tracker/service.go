package tracker

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"cryptotracker/src/config"
	"cryptotracker/src/schemas"
	"cryptotracker/src/utils"
	"cryptotracker/src/utils/requests"
)

type TrackerServiceClientI interface {
	LogIn(ctx context.Context, email, password string) (*schemas.TokenResponse, error)
	RefreshExchangeHoldings(ctx context.Context, session *schemas.Session) ([]schemas.Holding, error)
	RefreshManualHoldings(ctx context.Context, session *schemas.Session) ([]schemas.Holding, error)
	ManualAddEditHolding(ctx context.Context, session *schemas.Session, holding schemas.ManualHoldingRequest) error
	DeleteManualHolding(ctx context.Context, session *schemas.Session, assetSymbol string) error
	GetPriceSnapshots(ctx context.Context, session *schemas.Session, assetSymbol string) ([]schemas.PriceSnapshot, error)
	GetAssetPnL(ctx context.Context, session *schemas.Session, assetSymbol string) (*schemas.AssetPnL, error)
	GetPnLSummary(ctx context.Context, session *schemas.Session) (*schemas.PnLSummary, error)
	GetRealizedPnL(ctx context.Context, session *schemas.Session) (*schemas.RealizedPnL, error)
	FetchAllTrades(ctx context.Context, session *schemas.Session) ([]schemas.Trade, error)
	FetchIncrementalTrades(ctx context.Context, session *schemas.Session) ([]schemas.Trade, error)
	AddExchange(ctx context.Context, session *schemas.Session, req schemas.AddExchangeRequest) error
}

// TrackerServiceClient is a struct that uses ExternalAPIService to interact with the tracker backend
type TrackerServiceClient struct {
	API     *requests.ExternalAPIService
	BaseURL string
}

// NewClient creates a new instance of TrackerServiceClient
func NewClient(cfg *config.Config) (*TrackerServiceClient, error) {
	trackerCfg := cfg.ExternalClients.Tracker
	if trackerCfg.BaseURL == "" {
		return nil, fmt.Errorf("tracker base url is not configured")
	}
	return &TrackerServiceClient{
		API:     requests.NewExternalAPIService(trackerCfg.Timeout, trackerCfg.RateLimit),
		BaseURL: strings.TrimRight(trackerCfg.BaseURL, "/"),
	}, nil
}

var errMissingSession = utils.Unauthorized("missing session token")

func (c *TrackerServiceClient) endpoint(path string) string {
	return c.BaseURL + path
}

// decodeData unwraps the {"message", "data"} envelope of a successful response.
func decodeData[T any](resp *http.Response, err error) (T, error) {
	var envelope schemas.Envelope[T]
	if err != nil {
		return envelope.Data, err
	}
	if err := requests.DecodeJSON(resp, &envelope); err != nil {
		return envelope.Data, err
	}
	return envelope.Data, nil
}

// discard drains a response whose body carries nothing the caller needs. Some write
// endpoints answer with plain text.
func discard(resp *http.Response, err error) error {
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// LogIn exchanges credentials for a bearer token.
func (c *TrackerServiceClient) LogIn(ctx context.Context, email, password string) (*schemas.TokenResponse, error) {
	params := url.Values{}
	params.Set("email", email)
	params.Set("password", password)

	data, err := decodeData[*schemas.TokenResponse](c.API.Post(ctx, c.endpoint("/api/account/auth/public/log-in"), "", params, nil))
	if err != nil {
		return nil, fmt.Errorf("log in: %w", err)
	}
	if data == nil || data.Token == "" {
		return nil, utils.Unauthorized("log in returned no token")
	}
	return data, nil
}

func (c *TrackerServiceClient) RefreshExchangeHoldings(ctx context.Context, session *schemas.Session) ([]schemas.Holding, error) {
	if !session.Valid() {
		return nil, errMissingSession
	}
	data, err := decodeData[[]schemas.Holding](c.API.Post(ctx, c.endpoint("/api/holding/public/refresh-exchange-holdings"), session.Token, nil, nil))
	if err != nil {
		return nil, fmt.Errorf("refresh exchange holdings: %w", err)
	}
	return data, nil
}

func (c *TrackerServiceClient) RefreshManualHoldings(ctx context.Context, session *schemas.Session) ([]schemas.Holding, error) {
	if !session.Valid() {
		return nil, errMissingSession
	}
	data, err := decodeData[[]schemas.Holding](c.API.Get(ctx, c.endpoint("/api/holding/public/refresh-manual-holdings"), session.Token, nil))
	if err != nil {
		return nil, fmt.Errorf("refresh manual holdings: %w", err)
	}
	return data, nil
}

func (c *TrackerServiceClient) ManualAddEditHolding(ctx context.Context, session *schemas.Session, holding schemas.ManualHoldingRequest) error {
	if !session.Valid() {
		return errMissingSession
	}
	err := discard(c.API.Post(ctx, c.endpoint("/api/holding/public/manual-add-edit"), session.Token, nil, holding))
	if err != nil {
		return fmt.Errorf("add or edit manual holding %s: %w", holding.AssetSymbol, err)
	}
	return nil
}

func (c *TrackerServiceClient) DeleteManualHolding(ctx context.Context, session *schemas.Session, assetSymbol string) error {
	if !session.Valid() {
		return errMissingSession
	}
	params := url.Values{}
	params.Set("assetSymbol", assetSymbol)

	err := discard(c.API.Delete(ctx, c.endpoint("/api/holding/public/delete-manual-holding"), session.Token, params))
	if err != nil {
		return fmt.Errorf("delete manual holding %s: %w", assetSymbol, err)
	}
	return nil
}

// GetPriceSnapshots returns the recorded prices of an asset in the order the backend sent them.
func (c *TrackerServiceClient) GetPriceSnapshots(ctx context.Context, session *schemas.Session, assetSymbol string) ([]schemas.PriceSnapshot, error) {
	if !session.Valid() {
		return nil, errMissingSession
	}
	endpoint := c.endpoint("/api/price-snapshot/public/" + url.PathEscape(assetSymbol))
	data, err := decodeData[[]schemas.PriceSnapshot](c.API.Get(ctx, endpoint, session.Token, nil))
	if err != nil {
		return nil, fmt.Errorf("price snapshots for %s: %w", assetSymbol, err)
	}
	return data, nil
}

// GetAssetPnL returns nil without error when the backend has no P&L for the asset.
func (c *TrackerServiceClient) GetAssetPnL(ctx context.Context, session *schemas.Session, assetSymbol string) (*schemas.AssetPnL, error) {
	if !session.Valid() {
		return nil, errMissingSession
	}
	endpoint := c.endpoint("/api/pnl/public/asset/" + url.PathEscape(assetSymbol))
	data, err := decodeData[*schemas.AssetPnL](c.API.Post(ctx, endpoint, session.Token, nil, nil))
	if err != nil {
		return nil, fmt.Errorf("asset pnl for %s: %w", assetSymbol, err)
	}
	return data, nil
}

func (c *TrackerServiceClient) GetPnLSummary(ctx context.Context, session *schemas.Session) (*schemas.PnLSummary, error) {
	if !session.Valid() {
		return nil, errMissingSession
	}
	data, err := decodeData[*schemas.PnLSummary](c.API.Post(ctx, c.endpoint("/api/pnl/public/summary"), session.Token, nil, nil))
	if err != nil {
		return nil, fmt.Errorf("pnl summary: %w", err)
	}
	return data, nil
}

func (c *TrackerServiceClient) GetRealizedPnL(ctx context.Context, session *schemas.Session) (*schemas.RealizedPnL, error) {
	if !session.Valid() {
		return nil, errMissingSession
	}
	data, err := decodeData[*schemas.RealizedPnL](c.API.Post(ctx, c.endpoint("/api/pnl/public/realized"), session.Token, nil, nil))
	if err != nil {
		return nil, fmt.Errorf("realized pnl: %w", err)
	}
	return data, nil
}

func (c *TrackerServiceClient) FetchAllTrades(ctx context.Context, session *schemas.Session) ([]schemas.Trade, error) {
	if !session.Valid() {
		return nil, errMissingSession
	}
	data, err := decodeData[[]schemas.Trade](c.API.Post(ctx, c.endpoint("/api/trade/public/fetch-all-trades"), session.Token, nil, nil))
	if err != nil {
		return nil, fmt.Errorf("fetch all trades: %w", err)
	}
	return data, nil
}

func (c *TrackerServiceClient) FetchIncrementalTrades(ctx context.Context, session *schemas.Session) ([]schemas.Trade, error) {
	if !session.Valid() {
		return nil, errMissingSession
	}
	data, err := decodeData[[]schemas.Trade](c.API.Post(ctx, c.endpoint("/api/trade/public/fetch-incremental-trades"), session.Token, nil, nil))
	if err != nil {
		return nil, fmt.Errorf("fetch incremental trades: %w", err)
	}
	return data, nil
}

func (c *TrackerServiceClient) AddExchange(ctx context.Context, session *schemas.Session, req schemas.AddExchangeRequest) error {
	if !session.Valid() {
		return errMissingSession
	}
	err := discard(c.API.Post(ctx, c.endpoint("/api/apiKey/public/addExchange"), session.Token, nil, req))
	if err != nil {
		return fmt.Errorf("add exchange %s: %w", req.ExchangeName, err)
	}
	return nil
}

var _ TrackerServiceClientI = (*TrackerServiceClient)(nil)
