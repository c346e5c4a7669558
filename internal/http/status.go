package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/andygrunwald/tanker-exporter/internal/models"
	"github.com/andygrunwald/tanker-exporter/internal/refresher"
	"github.com/andygrunwald/tanker-exporter/internal/store"
)

// StatusHandler handles the /status endpoint.
type StatusHandler struct {
	refresher *refresher.Refresher
	store     *store.Store
	location  string
	radiusKm  float64
	startTime time.Time
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(r *refresher.Refresher, st *store.Store, location string, radiusKm float64) *StatusHandler {
	return &StatusHandler{
		refresher: r,
		store:     st,
		location:  location,
		radiusKm:  radiusKm,
		startTime: time.Now(),
	}
}

// ServeHTTP implements the http.Handler interface.
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := models.StatusResponse{
		Status:        "healthy",
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Location:      h.location,
		RadiusKm:      h.radiusKm,
	}

	if h.refresher != nil {
		response.Refresher = h.refresher.Status()
	}

	snap := h.store.Read()
	response.Snapshot = models.SnapshotStatus{
		StationCount: len(snap.Stations),
	}
	if !snap.Empty() {
		updatedAt := snap.FetchedAt
		response.Snapshot.LastUpdatedAt = &updatedAt
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
}
