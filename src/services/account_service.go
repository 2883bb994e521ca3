package services

import (
	"context"
	"net/http"
	"strings"

	"cryptotracker/src/clients/tracker"
	"cryptotracker/src/schemas"
	"cryptotracker/src/utils"
)

type AccountServiceI interface {
	LogIn(ctx context.Context, req schemas.TokenRequest) (*schemas.TokenResponse, error)
	AddExchange(ctx context.Context, session *schemas.Session, req schemas.AddExchangeRequest) error
}

type AccountService struct {
	client tracker.TrackerServiceClientI
}

func NewAccountService(client tracker.TrackerServiceClientI) *AccountService {
	return &AccountService{client: client}
}

func (s *AccountService) LogIn(ctx context.Context, req schemas.TokenRequest) (*schemas.TokenResponse, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, utils.BadRequest("email and password are required")
	}
	token, err := s.client.LogIn(ctx, strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		if code := utils.StatusCode(err); code == http.StatusUnauthorized || code == http.StatusForbidden || code == http.StatusBadRequest {
			return nil, utils.Unauthorized("Invalid email or password")
		}
		return nil, err
	}
	return token, nil
}

// AddExchange links an exchange account to the session user.
func (s *AccountService) AddExchange(ctx context.Context, session *schemas.Session, req schemas.AddExchangeRequest) error {
	req.ExchangeName = strings.ToUpper(strings.TrimSpace(req.ExchangeName))
	req.APIKey = strings.TrimSpace(req.APIKey)
	if req.ExchangeName == "" || req.APIKey == "" {
		return utils.BadRequest("exchangeName and apiKey are required")
	}
	return s.client.AddExchange(ctx, session, req)
}
