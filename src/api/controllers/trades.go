package controllers

import (
	"context"

	"cryptotracker/src/schemas"
)

func (c *Controller) GetTrades(ctx context.Context, session *schemas.Session) (*schemas.TradesResponse, error) {
	return c.Trades.LoadTrades(ctx, session)
}

func (c *Controller) SyncTrades(ctx context.Context, session *schemas.Session) (*schemas.TradesResponse, error) {
	return c.Trades.SyncTrades(ctx, session)
}

func (c *Controller) GetPnLReport(ctx context.Context, session *schemas.Session) (*schemas.PnLReport, error) {
	return c.Reports.GetPnLReport(ctx, session)
}
