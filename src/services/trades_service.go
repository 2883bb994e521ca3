package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"cryptotracker/src/clients/tracker"
	"cryptotracker/src/schemas"
	"cryptotracker/src/utils"
	"cryptotracker/src/utils/metrics"
)

type TradesServiceI interface {
	LoadTrades(ctx context.Context, session *schemas.Session) (*schemas.TradesResponse, error)
	SyncTrades(ctx context.Context, session *schemas.Session) (*schemas.TradesResponse, error)
}

// TradesService keeps the trade history of each session in the cache so incremental
// syncs can be merged into it.
type TradesService struct {
	client   tracker.TrackerServiceClientI
	cache    utils.CacheHandlerI
	ttl      time.Duration
	recorder *metrics.Recorder

	mutex   sync.Mutex
	syncing map[string]struct{}
}

func NewTradesService(client tracker.TrackerServiceClientI, cache utils.CacheHandlerI, ttl time.Duration, recorder *metrics.Recorder) *TradesService {
	return &TradesService{
		client:   client,
		cache:    cache,
		ttl:      ttl,
		recorder: recorder,
		syncing:  make(map[string]struct{}),
	}
}

// SummarizeTrades totals buys as invested and sells as returned.
func SummarizeTrades(trades []schemas.Trade) schemas.TradeSummary {
	var summary schemas.TradeSummary
	for _, t := range trades {
		value := t.Price * t.Quantity
		switch {
		case t.IsSide(schemas.SideBuy):
			summary.Invested += value
		case t.IsSide(schemas.SideSell):
			summary.Returned += value
		}
	}
	summary.PnL = summary.Returned - summary.Invested
	return summary
}

// MergeTrades puts the incoming trades not already present ahead of the existing ones
// and reports how many were added.
func MergeTrades(existing, incoming []schemas.Trade) ([]schemas.Trade, int) {
	ids := make(map[schemas.TradeID]struct{}, len(existing))
	for _, t := range existing {
		ids[t.TradeID] = struct{}{}
	}

	fresh := make([]schemas.Trade, 0, len(incoming))
	for _, t := range incoming {
		if _, ok := ids[t.TradeID]; ok {
			continue
		}
		ids[t.TradeID] = struct{}{}
		fresh = append(fresh, t)
	}
	return append(fresh, existing...), len(fresh)
}

func tradesKey(session *schemas.Session) string {
	return utils.CacheKey("trades", session.Key())
}

func (s *TradesService) store(ctx context.Context, session *schemas.Session, trades []schemas.Trade) {
	if err := s.cache.Set(ctx, tradesKey(session), trades, s.ttl); err != nil {
		utils.LoggerFromContext(ctx).Warnf("failed to cache trades: %v", err)
	}
}

func (s *TradesService) LoadTrades(ctx context.Context, session *schemas.Session) (*schemas.TradesResponse, error) {
	trades, err := s.client.FetchAllTrades(ctx, session)
	if err != nil {
		return nil, tradeError(err, "Unable to load trades")
	}
	if trades == nil {
		trades = []schemas.Trade{}
	}
	s.store(ctx, session, trades)

	response := &schemas.TradesResponse{Trades: trades, Summary: SummarizeTrades(trades)}
	if len(trades) == 0 {
		response.Message = "No trades found"
	}
	return response, nil
}

func (s *TradesService) acquire(key string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, busy := s.syncing[key]; busy {
		return false
	}
	s.syncing[key] = struct{}{}
	return true
}

func (s *TradesService) release(key string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.syncing, key)
}

// SyncTrades fetches the trades recorded since the last sync and merges them into the
// session history. Only one sync per session runs at a time.
func (s *TradesService) SyncTrades(ctx context.Context, session *schemas.Session) (*schemas.TradesResponse, error) {
	if !session.Valid() {
		return nil, utils.Unauthorized("missing session token")
	}
	key := session.Key()
	if !s.acquire(key) {
		return nil, utils.Conflict("Trade sync already in progress")
	}
	defer s.release(key)

	var existing []schemas.Trade
	err := s.cache.Get(ctx, tradesKey(session), &existing)
	if errors.Is(err, utils.ErrCacheMiss) {
		loaded, err := s.LoadTrades(ctx, session)
		if err != nil {
			s.recorder.ObserveTradeSync("failed")
			return nil, err
		}
		existing = loaded.Trades
	} else if err != nil {
		return nil, fmt.Errorf("read cached trades: %w", err)
	}

	incoming, err := s.client.FetchIncrementalTrades(ctx, session)
	if err != nil {
		s.recorder.ObserveTradeSync("failed")
		return nil, tradeError(err, "Failed to sync trades")
	}

	merged, added := MergeTrades(existing, incoming)
	response := &schemas.TradesResponse{Trades: merged, Summary: SummarizeTrades(merged), NewTrades: added}
	if added == 0 {
		response.Message = "No new trades found"
		s.recorder.ObserveTradeSync("empty")
		return response, nil
	}

	s.store(ctx, session, merged)
	response.Message = fmt.Sprintf("%d new trades synced", added)
	s.recorder.ObserveTradeSync("ok")
	return response, nil
}

// tradeError maps upstream statuses to the messages shown for trade operations.
func tradeError(err error, fallback string) error {
	switch utils.StatusCode(err) {
	case http.StatusServiceUnavailable:
		return utils.ServiceUnavailable("Trade sync temporarily unavailable. Please try again later.")
	case http.StatusUnauthorized:
		return utils.Unauthorized("Session expired. Please login again.")
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	return utils.BadGateway(fallback)
}
