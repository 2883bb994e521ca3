package controllers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cryptotracker/src/schemas"
	"cryptotracker/src/services"
	"cryptotracker/src/utils"
)

// passwordField is read when the secret holds a JSON object.
const passwordField = "password"

type SweepResult struct {
	Generation    uint64             `json:"generation"`
	Assets        int                `json:"assets"`
	Alerts        int                `json:"alerts"`
	RiskCounts    schemas.RiskCounts `json:"riskCounts"`
	NoData        bool               `json:"noData"`
	SourcesFailed []string           `json:"sourcesFailed,omitempty"`
}

// Sweep logs in with the service account, recomputes its portfolio and lets the
// portfolio service publish the resulting alerts.
func (c *Controller) Sweep(ctx context.Context) (*SweepResult, error) {
	c.sweeping.Lock()
	defer c.sweeping.Unlock()

	logger := utils.LoggerFromContext(ctx)

	password, err := c.password(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(c.Worker.Email) == "" || password == "" {
		return nil, utils.BadRequest("worker credentials are not configured")
	}

	token, err := c.Client.LogIn(ctx, strings.TrimSpace(c.Worker.Email), password)
	if err != nil {
		return nil, fmt.Errorf("worker log in: %w", err)
	}
	session := schemas.NewSession(token.Token)
	if !session.Valid() {
		return nil, utils.BadGateway("log in returned no token")
	}

	snapshot, err := c.Portfolio.LoadPortfolio(ctx, session, true)
	if errors.Is(err, services.ErrStalePass) {
		return nil, utils.Conflict("Sweep superseded by a newer pass")
	}
	if err != nil {
		return nil, err
	}

	result := &SweepResult{
		Generation:    snapshot.Generation,
		Assets:        len(snapshot.Assets),
		Alerts:        len(snapshot.Alerts),
		RiskCounts:    snapshot.Metrics.RiskCounts,
		NoData:        snapshot.NoData,
		SourcesFailed: snapshot.SourcesFailed,
	}
	logger.WithField("generation", result.Generation).Infof("sweep published %d alerts for %d assets", result.Alerts, result.Assets)
	return result, nil
}

func (c *Controller) password(ctx context.Context) (string, error) {
	if c.Worker.PasswordSecretID == "" {
		return c.Worker.Password, nil
	}
	if c.Secrets == nil {
		return "", errors.New("password secret configured without a secrets client")
	}
	return c.Secrets.GetSecretValue(ctx, c.Worker.PasswordSecretID, passwordField)
}
