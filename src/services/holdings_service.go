package services

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"cryptotracker/src/clients/tracker"
	"cryptotracker/src/schemas"
	"cryptotracker/src/utils"
)

type HoldingsServiceI interface {
	LoadHoldings(ctx context.Context, session *schemas.Session, refresh bool) (*schemas.HoldingsResponse, error)
	SaveManualHolding(ctx context.Context, session *schemas.Session, req schemas.ManualHoldingRequest) error
	DeleteManualHolding(ctx context.Context, session *schemas.Session, assetSymbol string) error
}

type HoldingsService struct {
	client tracker.TrackerServiceClientI
	ttl    time.Duration

	mutex     sync.Mutex
	caches    map[string]*utils.Cache[[]schemas.Holding]
	lastPrune time.Time
}

func NewHoldingsService(client tracker.TrackerServiceClientI, ttl time.Duration) *HoldingsService {
	return &HoldingsService{
		client: client,
		ttl:    ttl,
		caches: make(map[string]*utils.Cache[[]schemas.Holding]),
	}
}

// NormalizeSymbol trims and upper-cases an asset symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// AggregateHoldings merges exchange and manual holdings, exchange first. Entries with
// no symbol or no quantity are dropped, and a symbol repeated within one source keeps
// its first occurrence.
func AggregateHoldings(exchange, manual []schemas.Holding) []schemas.Holding {
	merged := make([]schemas.Holding, 0, len(exchange)+len(manual))
	seen := make(map[string]struct{})

	add := func(holdings []schemas.Holding, source schemas.HoldingSource) {
		for _, h := range holdings {
			h.AssetSymbol = NormalizeSymbol(h.AssetSymbol)
			if h.AssetSymbol == "" || !(h.Quantity > 0) {
				continue
			}
			h.Source = source
			if h.AvgCost < 0 {
				h.AvgCost = 0
			}
			key := string(source) + "|" + h.AssetSymbol
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, h)
		}
	}
	add(exchange, schemas.SourceExchange)
	add(manual, schemas.SourceManual)
	return merged
}

func (s *HoldingsService) cacheFor(session *schemas.Session) *utils.Cache[[]schemas.Holding] {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	key := session.Key()
	s.prune(key)
	cache, ok := s.caches[key]
	if !ok {
		cache = utils.NewCache[[]schemas.Holding]()
		s.caches[key] = cache
	}
	return cache
}

// prune drops the caches of other sessions that hold nothing live. It runs at most
// once per ttl and must be called with the mutex held.
func (s *HoldingsService) prune(current string) {
	now := time.Now()
	if now.Sub(s.lastPrune) < s.ttl {
		return
	}
	s.lastPrune = now
	for key, cache := range s.caches {
		if key == current {
			continue
		}
		if _, found := cache.Get(); !found {
			delete(s.caches, key)
		}
	}
}

func (s *HoldingsService) invalidate(session *schemas.Session) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.caches, session.Key())
}

// LoadHoldings fetches both holding sources concurrently. A failing source counts as
// empty and is reported in SourcesFailed; when both fail the response is flagged NoData.
// Only complete results are cached.
func (s *HoldingsService) LoadHoldings(ctx context.Context, session *schemas.Session, refresh bool) (*schemas.HoldingsResponse, error) {
	if !session.Valid() {
		return nil, utils.Unauthorized("missing session token")
	}
	logger := utils.LoggerFromContext(ctx)

	cache := s.cacheFor(session)
	if !refresh {
		if holdings, found := cache.Get(); found {
			return &schemas.HoldingsResponse{Holdings: holdings}, nil
		}
	}

	var wg sync.WaitGroup
	wg.Add(2)

	var exchange, manual []schemas.Holding
	var exchangeErr, manualErr error

	go func() {
		defer wg.Done()
		exchange, exchangeErr = s.client.RefreshExchangeHoldings(ctx, session)
	}()
	go func() {
		defer wg.Done()
		manual, manualErr = s.client.RefreshManualHoldings(ctx, session)
	}()
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	response := &schemas.HoldingsResponse{}
	if exchangeErr != nil {
		logger.Warnf("exchange holdings unavailable: %v", exchangeErr)
		exchange = nil
		response.SourcesFailed = append(response.SourcesFailed, string(schemas.SourceExchange))
	}
	if manualErr != nil {
		logger.Warnf("manual holdings unavailable: %v", manualErr)
		manual = nil
		response.SourcesFailed = append(response.SourcesFailed, string(schemas.SourceManual))
	}

	if exchangeErr != nil && manualErr != nil {
		if utils.StatusCode(exchangeErr) == http.StatusUnauthorized && utils.StatusCode(manualErr) == http.StatusUnauthorized {
			return nil, utils.Unauthorized("Session expired. Please login again.")
		}
		response.NoData = true
	}

	response.Holdings = AggregateHoldings(exchange, manual)
	if len(response.SourcesFailed) == 0 {
		cache.Set(response.Holdings, s.ttl)
	}
	return response, nil
}

func (s *HoldingsService) SaveManualHolding(ctx context.Context, session *schemas.Session, req schemas.ManualHoldingRequest) error {
	req.AssetSymbol = NormalizeSymbol(req.AssetSymbol)
	if req.AssetSymbol == "" {
		return utils.BadRequest("assetSymbol is required")
	}
	if !(req.Quantity >= 0) || !(req.AvgCost >= 0) {
		return utils.BadRequest("quantity and avgCost must be non-negative")
	}
	if err := s.client.ManualAddEditHolding(ctx, session, req); err != nil {
		return err
	}
	s.invalidate(session)
	return nil
}

func (s *HoldingsService) DeleteManualHolding(ctx context.Context, session *schemas.Session, assetSymbol string) error {
	assetSymbol = NormalizeSymbol(assetSymbol)
	if assetSymbol == "" {
		return utils.BadRequest("assetSymbol is required")
	}
	if err := s.client.DeleteManualHolding(ctx, session, assetSymbol); err != nil {
		return err
	}
	s.invalidate(session)
	return nil
}
