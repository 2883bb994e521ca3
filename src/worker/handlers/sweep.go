package handlers

import (
	"context"
	"net/http"
	"time"
)

const sweepRequestTimeout = 2 * time.Minute

// RunSweep triggers a risk sweep outside of the schedule.
func (h *Handler) RunSweep(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), sweepRequestTimeout)
	defer cancel()

	result, err := h.Controller.Sweep(ctx)
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}
	h.respond(w, r, result, http.StatusOK)
}

// ReloadSchedule restarts the cron entry of the sweep.
func (h *Handler) ReloadSchedule(w http.ResponseWriter, r *http.Request) {
	if err := h.Controller.ScheduleSweep(); err != nil {
		h.HandleErrors(w, r, err)
		return
	}
	h.respond(w, r, map[string]string{"message": "Sweep scheduled", "schedule": h.Controller.Worker.Schedule}, http.StatusOK)
}
