package controllers

import (
	"context"

	"cryptotracker/src/schemas"
)

func (c *Controller) LogIn(ctx context.Context, req schemas.TokenRequest) (*schemas.TokenResponse, error) {
	return c.Accounts.LogIn(ctx, req)
}

func (c *Controller) AddExchange(ctx context.Context, session *schemas.Session, req schemas.AddExchangeRequest) error {
	return c.Accounts.AddExchange(ctx, session, req)
}
