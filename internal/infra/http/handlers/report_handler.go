package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/xavierca1/membersync/internal/usecase"
)

type ReportHandler struct {
	ReportUC *usecase.ReportUseCase
}

func NewReportHandler(reportUC *usecase.ReportUseCase) *ReportHandler {
	return &ReportHandler{ReportUC: reportUC}
}

type kpiResponse struct {
	Data     json.RawMessage `json:"data"`
	IsStale  bool            `json:"is_stale"`
	CachedAt time.Time       `json:"cached_at"`
}

// HandleGetKPIs serves the KPI aggregate (GET /reports/kpis), cached.
func (h *ReportHandler) HandleGetKPIs(w http.ResponseWriter, r *http.Request) {
	res, err := h.ReportUC.GetKPIs(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, kpiResponse{
		Data:     res.Payload,
		IsStale:  res.IsStale,
		CachedAt: res.CachedAt,
	})
}

// HandleRefreshKPIs forces a recompute (POST /reports/kpis/refresh).
func (h *ReportHandler) HandleRefreshKPIs(w http.ResponseWriter, r *http.Request) {
	res, err := h.ReportUC.RefreshKPIs(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, kpiResponse{
		Data:     res.Payload,
		CachedAt: res.CachedAt,
	})
}

// HandleInvalidate drops every cached report (DELETE /reports/cache).
func (h *ReportHandler) HandleInvalidate(w http.ResponseWriter, r *http.Request) {
	count, err := h.ReportUC.InvalidateReports(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"invalidated": count})
}
