package schemas

// Envelope is the response body used by every tracker backend endpoint.
type Envelope[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
}
