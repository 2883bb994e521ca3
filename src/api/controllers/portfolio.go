package controllers

import (
	"context"
	"errors"
	"time"

	"cryptotracker/src/schemas"
	"cryptotracker/src/services"
	"cryptotracker/src/utils"
)

func (c *Controller) GetHoldings(ctx context.Context, session *schemas.Session, refresh bool) (*schemas.HoldingsResponse, error) {
	return c.Holdings.LoadHoldings(ctx, session, refresh)
}

func (c *Controller) SaveManualHolding(ctx context.Context, session *schemas.Session, req schemas.ManualHoldingRequest) error {
	return c.Holdings.SaveManualHolding(ctx, session, req)
}

func (c *Controller) DeleteManualHolding(ctx context.Context, session *schemas.Session, assetSymbol string) error {
	return c.Holdings.DeleteManualHolding(ctx, session, assetSymbol)
}

// GetPortfolio serves the last committed snapshot while it is fresh, and runs a new
// pass otherwise. A pass overtaken by a concurrent one answers with the newest
// committed snapshot.
func (c *Controller) GetPortfolio(ctx context.Context, session *schemas.Session, refresh bool) (*schemas.PortfolioSnapshot, error) {
	if !refresh {
		if latest, ok := c.Portfolio.Latest(session); ok && time.Since(latest.ComputedAt) < c.snapshotMaxAge {
			return latest, nil
		}
	}

	snapshot, err := c.Portfolio.LoadPortfolio(ctx, session, refresh)
	if errors.Is(err, services.ErrStalePass) {
		if latest, ok := c.Portfolio.Latest(session); ok {
			return latest, nil
		}
		return nil, utils.Conflict("Portfolio is being recalculated, please retry")
	}
	return snapshot, err
}

func (c *Controller) GetAssetDetail(ctx context.Context, session *schemas.Session, assetSymbol string) (*schemas.AssetDetail, error) {
	return c.Assets.GetAssetDetail(ctx, session, assetSymbol)
}
