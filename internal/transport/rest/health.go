package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/scholarship-backend/internal/domain"
)

const checkTimeout = 3 * time.Second

// recordReader is the slice of the record store the health checks need.
type recordReader interface {
	Ping(ctx context.Context) error
	Load(ctx context.Context) ([]domain.Application, error)
}

// HealthHandler serves /live, /ready and /health.
type HealthHandler struct {
	records recordReader
	driver  string
	version string
	clock   clockwork.Clock
}

func NewHealthHandler(records recordReader, driver, version string, clock clockwork.Clock) *HealthHandler {
	return &HealthHandler{records: records, driver: driver, version: version, clock: clock}
}

type HealthResponse struct {
	Status    string         `json:"status"`
	Version   string         `json:"version,omitempty"`
	Storage   *StorageHealth `json:"storage,omitempty"`
	Records   *RecordCounts  `json:"records,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

type StorageHealth struct {
	Status  string `json:"status"`
	Driver  string `json:"driver"`
	Latency string `json:"latency,omitempty"`
}

// RecordCounts summarises the stored applications by review status.
type RecordCounts struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

func countRecords(apps []domain.Application) *RecordCounts {
	c := &RecordCounts{Total: len(apps)}
	for _, a := range apps {
		switch a.Status {
		case domain.StatusPending:
			c.Pending++
		case domain.StatusApproved:
			c.Approved++
		case domain.StatusRejected:
			c.Rejected++
		}
	}
	return c
}

// Live never touches storage.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Timestamp: h.clock.Now()})
}

// Ready answers 503 while the storage backend cannot be reached.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	if err := h.records.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "down", Timestamp: h.clock.Now()})
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Timestamp: h.clock.Now()})
}

// Health pings storage, then loads the record list to report counts.
// A record list that cannot be read marks the service degraded.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:  "ok",
		Version: h.version,
		Storage: &StorageHealth{Status: "ok", Driver: h.driver},
	}

	start := h.clock.Now()
	if err := h.records.Ping(ctx); err != nil {
		resp.Status = "down"
		resp.Storage.Status = "down"
		resp.Timestamp = h.clock.Now()
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	resp.Storage.Latency = h.clock.Since(start).String()

	apps, err := h.records.Load(ctx)
	if err != nil {
		resp.Status = "degraded"
	} else {
		resp.Records = countRecords(apps)
	}

	resp.Timestamp = h.clock.Now()
	writeJSON(w, http.StatusOK, resp)
}
