package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"cryptotracker/src/schemas"
	"cryptotracker/src/utils"
)

const streamKeepAlive = 25 * time.Second

func (h *Handler) GetRiskAlerts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	session, err := h.session(r)
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	alerts, err := h.Controller.GetRiskAlerts(ctx, session, queryBool(r, "critical"))
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}
	h.respond(w, r, alerts, http.StatusOK)
}

// StreamRiskAlerts pushes every alert publication of the session as a server-sent
// event until the client disconnects.
func (h *Handler) StreamRiskAlerts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := utils.LoggerFromContext(ctx)

	session, err := h.session(r)
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	alerts, err := h.Controller.SubscribeRiskAlerts(ctx, session)
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		logger.Debugf("write deadline not cleared: %v", err)
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		logger.Errorf("streaming unsupported: %v", err)
		return
	}

	keepAlive := time.NewTicker(streamKeepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-keepAlive.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
		case batch, ok := <-alerts:
			if !ok {
				return
			}
			if err := writeEvent(w, batch); err != nil {
				logger.Debugf("alert stream closed: %v", err)
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, alerts []schemas.RiskAlert) error {
	if alerts == nil {
		alerts = []schemas.RiskAlert{}
	}
	data, err := json.Marshal(alerts)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: alerts\ndata: %s\n\n", data)
	return err
}
