package services

import (
	"context"
	"sort"
	"sync"

	"cryptotracker/src/clients/tracker"
	"cryptotracker/src/schemas"
	"cryptotracker/src/utils"
)

type AssetServiceI interface {
	GetAssetDetail(ctx context.Context, session *schemas.Session, assetSymbol string) (*schemas.AssetDetail, error)
}

type AssetService struct {
	client   tracker.TrackerServiceClientI
	holdings HoldingsServiceI
}

func NewAssetService(client tracker.TrackerServiceClientI, holdings HoldingsServiceI) *AssetService {
	return &AssetService{client: client, holdings: holdings}
}

// BuildAssetDetail values a holding against its price history. Current price, value
// and profit/loss stay nil when there are no snapshots.
func BuildAssetDetail(holding schemas.Holding, snapshots []schemas.PriceSnapshot, pnl *schemas.AssetPnL) *schemas.AssetDetail {
	sorted := make([]schemas.PriceSnapshot, len(snapshots))
	copy(sorted, snapshots)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CapturedAt.Before(sorted[j].CapturedAt.Time)
	})

	detail := &schemas.AssetDetail{
		AssetSymbol:   holding.AssetSymbol,
		Quantity:      holding.Quantity,
		AvgCost:       holding.AvgCost,
		Snapshots:     sorted,
		InvestedValue: holding.Quantity * holding.AvgCost,
		PnL:           pnl,
	}
	if len(sorted) > 0 {
		price := sorted[len(sorted)-1].PriceUSD
		current := holding.Quantity * price
		profitLoss := current - detail.InvestedValue
		detail.CurrentPrice = &price
		detail.CurrentValue = &current
		detail.ProfitLoss = &profitLoss
	}
	if pnl == nil {
		detail.PnLMessage = "P&L not available"
	}
	return detail
}

// GetAssetDetail looks the asset up in the session holdings and fetches its snapshots
// and P&L concurrently. Failed lookups are listed in the detail rather than failing it.
func (s *AssetService) GetAssetDetail(ctx context.Context, session *schemas.Session, assetSymbol string) (*schemas.AssetDetail, error) {
	assetSymbol = NormalizeSymbol(assetSymbol)
	if assetSymbol == "" {
		return nil, utils.BadRequest("asset symbol is required")
	}
	logger := utils.LoggerFromContext(ctx).WithField("symbol", assetSymbol)

	holdings, err := s.holdings.LoadHoldings(ctx, session, false)
	if err != nil {
		return nil, err
	}
	var holding *schemas.Holding
	for i := range holdings.Holdings {
		if holdings.Holdings[i].AssetSymbol == assetSymbol {
			holding = &holdings.Holdings[i]
			break
		}
	}
	if holding == nil {
		return nil, utils.NotFound("asset " + assetSymbol + " is not held")
	}

	var wg sync.WaitGroup
	wg.Add(2)

	var snapshots []schemas.PriceSnapshot
	var pnl *schemas.AssetPnL
	var snapshotsErr, pnlErr error

	go func() {
		defer wg.Done()
		snapshots, snapshotsErr = s.client.GetPriceSnapshots(ctx, session, assetSymbol)
	}()
	go func() {
		defer wg.Done()
		pnl, pnlErr = s.client.GetAssetPnL(ctx, session, assetSymbol)
	}()
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	detail := BuildAssetDetail(*holding, snapshots, pnl)
	if snapshotsErr != nil {
		logger.Warnf("price snapshots unavailable: %v", snapshotsErr)
		detail.Failures = append(detail.Failures, "Failed to load price history")
	}
	if pnlErr != nil {
		logger.Warnf("asset pnl unavailable: %v", pnlErr)
		detail.Failures = append(detail.Failures, "Failed to load P&L")
	}
	return detail, nil
}
