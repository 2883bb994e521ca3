package handlers

import (
	"context"
	"net/http"

	"cryptotracker/src/schemas"
)

func (h *Handler) PostToken(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var req schemas.TokenRequest
	if err := decodeBody(r, &req); err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	token, err := h.Controller.LogIn(ctx, req)
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}
	h.respond(w, r, token, http.StatusOK)
}

func (h *Handler) AddExchange(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	session, err := h.session(r)
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	var req schemas.AddExchangeRequest
	if err := decodeBody(r, &req); err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	if err := h.Controller.AddExchange(ctx, session, req); err != nil {
		h.HandleErrors(w, r, err)
		return
	}
	h.respond(w, r, map[string]string{"message": "Exchange linked"}, http.StatusCreated)
}
