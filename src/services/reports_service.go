package services

import (
	"context"
	"errors"
	"net/http"

	"cryptotracker/src/clients/tracker"
	"cryptotracker/src/schemas"
	"cryptotracker/src/utils"

	"golang.org/x/sync/errgroup"
)

type ReportsServiceI interface {
	GetPnLReport(ctx context.Context, session *schemas.Session) (*schemas.PnLReport, error)
}

type ReportsService struct {
	client tracker.TrackerServiceClientI
}

func NewReportsService(client tracker.TrackerServiceClientI) *ReportsService {
	return &ReportsService{client: client}
}

// GetPnLReport fetches the P&L summary and the realized P&L concurrently. One failing
// part is reported in Failures; the call fails only when both do.
func (s *ReportsService) GetPnLReport(ctx context.Context, session *schemas.Session) (*schemas.PnLReport, error) {
	logger := utils.LoggerFromContext(ctx)

	var summary *schemas.PnLSummary
	var realized *schemas.RealizedPnL
	var summaryErr, realizedErr error

	var g errgroup.Group
	g.Go(func() error {
		summary, summaryErr = s.client.GetPnLSummary(ctx, session)
		return nil
	})
	g.Go(func() error {
		realized, realizedErr = s.client.GetRealizedPnL(ctx, session)
		return nil
	})
	_ = g.Wait()

	if summaryErr != nil && realizedErr != nil {
		if utils.StatusCode(summaryErr) == http.StatusUnauthorized {
			return nil, utils.Unauthorized("Session expired. Please login again.")
		}
		if errors.Is(summaryErr, context.DeadlineExceeded) {
			return nil, summaryErr
		}
		return nil, utils.BadGateway("P&L reports are unavailable")
	}

	report := &schemas.PnLReport{Summary: summary, Realized: realized}
	if summaryErr != nil {
		logger.Warnf("pnl summary unavailable: %v", summaryErr)
		report.Failures = map[string]string{"summary": "Failed to load P&L summary"}
	}
	if realizedErr != nil {
		logger.Warnf("realized pnl unavailable: %v", realizedErr)
		report.Failures = map[string]string{"realized": "Failed to load realized P&L"}
	}
	return report, nil
}
