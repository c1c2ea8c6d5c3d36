package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/shinsei/entregas/internal/models"
	"github.com/shinsei/entregas/internal/signing"
)

type errorResponse struct {
	Error string `json:"erro"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	writeSignedJSON(w, status, "", data)
}

// writeSignedJSON writes data as JSON and, when secret is set, signs the
// exact bytes sent.
func writeSignedJSON(w http.ResponseWriter, status int, secret string, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"erro":"erro interno"}`))
		return
	}

	signing.SetHeaders(w.Header(), secret, body)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// readBody reads at most limit bytes of the request body.
func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, bool) {
	if limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "corpo da requisicao muito grande")
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "corpo da requisicao invalido")
		return nil, false
	}
	return body, true
}

// writeFailure maps validation failures to 400 and everything else to 500.
func writeFailure(w http.ResponseWriter, log zerolog.Logger, err error) {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		log.Debug().Err(err).Msg("rejected request")
		writeError(w, http.StatusBadRequest, verr.Message)
		return
	}
	log.Error().Err(err).Msg("request failed")
	writeError(w, http.StatusInternalServerError, "erro interno")
}
