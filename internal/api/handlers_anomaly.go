package api

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/shinsei/entregas/internal/anomaly"
)

type AnomalyHandler struct {
	detector *anomaly.Detector
	maxBody  int64
	log      zerolog.Logger
}

func NewAnomalyHandler(detector *anomaly.Detector, maxBody int64, log zerolog.Logger) *AnomalyHandler {
	return &AnomalyHandler{detector: detector, maxBody: maxBody, log: log}
}

func (h *AnomalyHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r, h.maxBody)
	if !ok {
		return
	}

	loads, history, err := anomaly.ParseRequest(body)
	if err != nil {
		writeFailure(w, h.log, err)
		return
	}

	result, err := h.detector.Analyze(loads, history)
	if err != nil {
		writeFailure(w, h.log, err)
		return
	}

	if result.TotalAnomalies > 0 {
		h.log.Info().
			Int("loads", result.TotalLoads).
			Int("anomalies", result.TotalAnomalies).
			Msg("anomalous loads detected")
	}
	writeJSON(w, http.StatusOK, result)
}
