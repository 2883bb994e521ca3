package controllers

import (
	"context"

	"cryptotracker/src/schemas"
	"cryptotracker/src/services"
	"cryptotracker/src/utils"
)

// GetRiskAlerts returns the alerts last published for the session, computing the
// portfolio first when nothing was published yet.
func (c *Controller) GetRiskAlerts(ctx context.Context, session *schemas.Session, critical bool) ([]schemas.RiskAlert, error) {
	if !session.Valid() {
		return nil, utils.Unauthorized("missing session token")
	}

	alerts, err := c.Broker.Latest(ctx, session.Key())
	if err != nil {
		utils.LoggerFromContext(ctx).Warnf("latest alerts unavailable: %v", err)
	}
	if alerts == nil {
		snapshot, err := c.GetPortfolio(ctx, session, false)
		if err != nil {
			return nil, err
		}
		alerts = snapshot.Alerts
	}

	if critical {
		return services.CriticalAlerts(alerts), nil
	}
	if alerts == nil {
		alerts = []schemas.RiskAlert{}
	}
	return alerts, nil
}

func (c *Controller) SubscribeRiskAlerts(ctx context.Context, session *schemas.Session) (<-chan []schemas.RiskAlert, error) {
	if !session.Valid() {
		return nil, utils.Unauthorized("missing session token")
	}
	return c.Broker.Subscribe(ctx, session.Key())
}
