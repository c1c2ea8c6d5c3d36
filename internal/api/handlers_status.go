package api

import "net/http"

type StatusHandler struct{}

func NewStatusHandler() *StatusHandler {
	return &StatusHandler{}
}

type statusResponse struct {
	Message string `json:"mensagem"`
	Status  string `json:"status"`
}

func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		Message: "API funcionando",
		Status:  "ok",
	})
}
