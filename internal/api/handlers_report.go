package api

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/shinsei/entregas/internal/config"
	"github.com/shinsei/entregas/internal/models"
	"github.com/shinsei/entregas/internal/report"
	"github.com/shinsei/entregas/internal/storage"
)

const HeaderReportID = "X-Relatorio-ID"

type ReportHandler struct {
	store storage.Storage
	cfg   config.ReportConfig
	log   zerolog.Logger
}

func NewReportHandler(store storage.Storage, cfg config.ReportConfig, log zerolog.Logger) *ReportHandler {
	return &ReportHandler{store: store, cfg: cfg, log: log}
}

type reportResponse struct {
	Message    string                  `json:"mensagem"`
	Statistics models.ReportStatistics `json:"estatisticas"`
}

func (h *ReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r, h.cfg.MaxBodyBytes)
	if !ok {
		return
	}

	records, err := report.ParseRequest(body)
	if err != nil {
		writeFailure(w, h.log, err)
		return
	}

	stats, err := report.Generate(records)
	if err != nil {
		writeFailure(w, h.log, err)
		return
	}

	if h.store != nil {
		rep := models.NewReport(stats)
		if err := h.store.SaveReport(r.Context(), rep); err != nil {
			h.log.Warn().Err(err).Str("report_id", rep.ID).Msg("failed to save report summary")
		} else {
			w.Header().Set(HeaderReportID, rep.ID)
		}
	}

	writeSignedJSON(w, http.StatusOK, h.cfg.SigningSecret, reportResponse{
		Message:    report.MsgReportGenerated,
		Statistics: stats,
	})
}
