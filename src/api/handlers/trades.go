package handlers

import (
	"context"
	"net/http"
)

func (h *Handler) GetTrades(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	session, err := h.session(r)
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	trades, err := h.Controller.GetTrades(ctx, session)
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}
	h.respond(w, r, trades, http.StatusOK)
}

func (h *Handler) SyncTrades(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	session, err := h.session(r)
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	trades, err := h.Controller.SyncTrades(ctx, session)
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}
	h.respond(w, r, trades, http.StatusOK)
}
