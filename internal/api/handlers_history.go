package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shinsei/entregas/internal/models"
	"github.com/shinsei/entregas/internal/storage"
)

type HistoryHandler struct {
	store storage.Storage
	limit int
}

func NewHistoryHandler(store storage.Storage, limit int) *HistoryHandler {
	return &HistoryHandler{store: store, limit: limit}
}

func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	reports, err := h.store.ListReports(r.Context(), h.limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "falha ao listar relatorios")
		return
	}
	if reports == nil {
		reports = []models.Report{}
	}
	writeJSON(w, http.StatusOK, reports)
}

func (h *HistoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rep, err := h.store.GetReport(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "falha ao buscar relatorio")
		return
	}
	if rep == nil {
		writeError(w, http.StatusNotFound, "relatorio nao encontrado")
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
