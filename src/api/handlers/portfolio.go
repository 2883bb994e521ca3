package handlers

import (
	"context"
	"net/http"
	"strconv"

	"cryptotracker/src/schemas"

	"github.com/go-chi/chi/v5"
)

func queryBool(r *http.Request, name string) bool {
	value, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && value
}

func (h *Handler) GetHoldings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	session, err := h.session(r)
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	holdings, err := h.Controller.GetHoldings(ctx, session, queryBool(r, "refresh"))
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}
	h.respond(w, r, holdings, http.StatusOK)
}

func (h *Handler) SaveManualHolding(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	session, err := h.session(r)
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	var req schemas.ManualHoldingRequest
	if err := decodeBody(r, &req); err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	if err := h.Controller.SaveManualHolding(ctx, session, req); err != nil {
		h.HandleErrors(w, r, err)
		return
	}
	h.respond(w, r, map[string]string{"message": "Holding saved"}, http.StatusOK)
}

func (h *Handler) DeleteManualHolding(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	session, err := h.session(r)
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	if err := h.Controller.DeleteManualHolding(ctx, session, chi.URLParam(r, "symbol")); err != nil {
		h.HandleErrors(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetPortfolioMetrics(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	session, err := h.session(r)
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	snapshot, err := h.Controller.GetPortfolio(ctx, session, queryBool(r, "refresh"))
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}
	h.respond(w, r, snapshot, http.StatusOK)
}

func (h *Handler) GetAssetDetail(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	session, err := h.session(r)
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	detail, err := h.Controller.GetAssetDetail(ctx, session, chi.URLParam(r, "symbol"))
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}
	h.respond(w, r, detail, http.StatusOK)
}
