package handlers

import (
	"context"
	"net/http"
)

func (h *Handler) GetPnLReport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	session, err := h.session(r)
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	report, err := h.Controller.GetPnLReport(ctx, session)
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}
	h.respond(w, r, report, http.StatusOK)
}
