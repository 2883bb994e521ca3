package schemas

type TokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type AddExchangeRequest struct {
	ExchangeName string `json:"exchangeName"`
	APIKey       string `json:"apiKey"`
	APISecret    string `json:"apiSecret,omitempty"`
	Label        string `json:"label,omitempty"`
}
