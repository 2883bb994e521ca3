package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cryptotracker/src/api/controllers"
	"cryptotracker/src/schemas"
	"cryptotracker/src/utils"

	"github.com/go-chi/jwtauth"
)

const requestTimeout = 30 * time.Second

type Handler struct {
	Controller controllers.IController
}

func NewHandler(controller controllers.IController) *Handler {
	return &Handler{Controller: controller}
}

func (h *Handler) respond(w http.ResponseWriter, _ *http.Request, data interface{}, status int) {
	res, err := json.Marshal(data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write(res)
}

func (h *Handler) HandleErrors(w http.ResponseWriter, r *http.Request, err error) {
	var httpErr *utils.HTTPError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		h.respond(w, r, map[string]string{"error": "Request timed out"}, http.StatusGatewayTimeout)
	case errors.As(err, &httpErr):
		h.respond(w, r, map[string]string{"error": httpErr.Message}, httpErr.Code)
	case err != nil:
		utils.LoggerFromContext(r.Context()).Errorf("request failed: %v", err)
		h.respond(w, r, map[string]string{"error": err.Error()}, http.StatusInternalServerError)
	default:
		h.respond(w, r, map[string]string{"error": "Unhandled error"}, http.StatusInternalServerError)
	}
}

// session reads the bearer token of the request.
func (h *Handler) session(r *http.Request) (*schemas.Session, error) {
	session := schemas.NewSession(jwtauth.TokenFromHeader(r))
	if !session.Valid() {
		return nil, utils.Unauthorized("missing bearer token")
	}
	return session, nil
}

func decodeBody(r *http.Request, target interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return utils.BadRequest(fmt.Sprintf("invalid request body: %v", err))
	}
	return nil
}

func Healthcheck(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, "Im alive!")
}
