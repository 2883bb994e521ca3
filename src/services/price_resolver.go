package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"cryptotracker/src/clients/tracker"
	"cryptotracker/src/schemas"
	"cryptotracker/src/utils"
	"cryptotracker/src/utils/metrics"

	"golang.org/x/sync/errgroup"
)

// PriceResolver values holdings from their price snapshots and asset P&L.
type PriceResolver struct {
	client         tracker.TrackerServiceClientI
	cache          utils.CacheHandlerI
	cacheTTL       time.Duration
	maxConcurrency int
	recorder       *metrics.Recorder
}

// NewPriceResolver builds a resolver. Snapshots are cached only when cache is set and
// cacheTTL is positive; maxConcurrency <= 0 resolves every holding at once.
func NewPriceResolver(client tracker.TrackerServiceClientI, cache utils.CacheHandlerI, cacheTTL time.Duration, maxConcurrency int, recorder *metrics.Recorder) *PriceResolver {
	return &PriceResolver{
		client:         client,
		cache:          cache,
		cacheTTL:       cacheTTL,
		maxConcurrency: maxConcurrency,
		recorder:       recorder,
	}
}

// SelectPrices returns the most recent and the second most recent snapshot prices.
// A single snapshot is both; no usable snapshot falls back to the given price.
func SelectPrices(snapshots []schemas.PriceSnapshot, fallback float64) (latest, previous float64) {
	valid := make([]schemas.PriceSnapshot, 0, len(snapshots))
	for _, snap := range snapshots {
		if snap.PriceUSD > 0 && !math.IsInf(snap.PriceUSD, 0) {
			valid = append(valid, snap)
		}
	}
	// Oldest first; snapshots without a distinct capture time keep their position.
	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].CapturedAt.Before(valid[j].CapturedAt.Time)
	})

	switch n := len(valid); n {
	case 0:
		return fallback, fallback
	case 1:
		return valid[0].PriceUSD, valid[0].PriceUSD
	default:
		return valid[n-1].PriceUSD, valid[n-2].PriceUSD
	}
}

func (r *PriceResolver) priceSnapshots(ctx context.Context, session *schemas.Session, symbol string) ([]schemas.PriceSnapshot, error) {
	if r.cache == nil || r.cacheTTL <= 0 {
		return r.client.GetPriceSnapshots(ctx, session, symbol)
	}

	logger := utils.LoggerFromContext(ctx)
	key := utils.CacheKey("price-snapshots", symbol)

	var cached []schemas.PriceSnapshot
	err := r.cache.Get(ctx, key, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, utils.ErrCacheMiss) {
		logger.Warnf("price cache read failed for %s: %v", symbol, err)
	}

	snapshots, err := r.client.GetPriceSnapshots(ctx, session, symbol)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, key, snapshots, r.cacheTTL); err != nil {
		logger.Warnf("price cache write failed for %s: %v", symbol, err)
	}
	return snapshots, nil
}

// Resolve values a single holding. The snapshot and P&L requests run concurrently; if
// either fails the holding is valued at its average cost and classified LOW.
func (r *PriceResolver) Resolve(ctx context.Context, session *schemas.Session, holding schemas.Holding) schemas.AssetValuation {
	logger := utils.LoggerFromContext(ctx).WithField("symbol", holding.AssetSymbol)

	var wg sync.WaitGroup
	wg.Add(2)

	var snapshots []schemas.PriceSnapshot
	var pnl *schemas.AssetPnL
	var snapshotsErr, pnlErr error

	go func() {
		defer wg.Done()
		snapshots, snapshotsErr = r.priceSnapshots(ctx, session, holding.AssetSymbol)
	}()
	go func() {
		defer wg.Done()
		pnl, pnlErr = r.client.GetAssetPnL(ctx, session, holding.AssetSymbol)
	}()
	wg.Wait()

	valuation := schemas.AssetValuation{
		AssetSymbol: holding.AssetSymbol,
		Source:      holding.Source,
		Quantity:    holding.Quantity,
		AvgCost:     holding.AvgCost,
	}

	if err := errors.Join(snapshotsErr, pnlErr); err != nil {
		logger.Warnf("asset resolution degraded: %v", err)
		valuation.LatestPrice = holding.AvgCost
		valuation.PreviousPrice = holding.AvgCost
		valuation.RiskTier = schemas.RiskLow
		valuation.Degraded = true
		valuation.Failure = failureMessage(snapshotsErr, pnlErr)
	} else {
		valuation.LatestPrice, valuation.PreviousPrice = SelectPrices(snapshots, holding.AvgCost)
		valuation.UnrealizedPnLPercent, valuation.RiskTier = ClassifyPnL(pnl)
	}

	valuation.CurrentValue = valuation.LatestPrice * holding.Quantity
	valuation.PriorValue = valuation.PreviousPrice * holding.Quantity
	valuation.RiskLabel = valuation.RiskTier.Label()

	r.recorder.ObserveResolution(valuation.Degraded)
	return valuation
}

func failureMessage(snapshotsErr, pnlErr error) string {
	switch {
	case snapshotsErr != nil && pnlErr != nil:
		return fmt.Sprintf("price snapshots: %v; pnl: %v", snapshotsErr, pnlErr)
	case snapshotsErr != nil:
		return fmt.Sprintf("price snapshots: %v", snapshotsErr)
	default:
		return fmt.Sprintf("pnl: %v", pnlErr)
	}
}

// ResolveAll values every holding with a positive quantity concurrently and returns
// the valuations in input order. It fails only when ctx ends before all holdings are
// resolved.
func (r *PriceResolver) ResolveAll(ctx context.Context, session *schemas.Session, holdings []schemas.Holding) ([]schemas.AssetValuation, error) {
	held := make([]schemas.Holding, 0, len(holdings))
	for _, h := range holdings {
		if h.Quantity > 0 {
			held = append(held, h)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	if r.maxConcurrency > 0 {
		g.SetLimit(r.maxConcurrency)
	}

	valuations := make([]schemas.AssetValuation, len(held))
	for i, holding := range held {
		i, holding := i, holding
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			valuations[i] = r.Resolve(gctx, session, holding)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return valuations, nil
}
