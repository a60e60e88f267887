package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/xavierca1/membersync/internal/infra/recordstore"
	"github.com/xavierca1/membersync/internal/usecase"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Ref     string `json:"ref,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError maps the error taxonomy onto HTTP statuses. Retryable store
// failures come back 503 so callers know to retry the whole request.
func writeError(w http.ResponseWriter, err error) {
	if de, ok := err.(*usecase.DomainError); ok {
		status := http.StatusInternalServerError
		switch de.Code {
		case usecase.CodeValidation:
			status = http.StatusBadRequest
		case usecase.CodeDuplicate:
			status = http.StatusConflict
		case usecase.CodeMemberNotFound, usecase.CodeVolunteerNotFound:
			status = http.StatusNotFound
		}
		writeJSON(w, status, errorResponse{Code: de.Code, Message: de.Message, Ref: de.Ref})
		return
	}

	if se, ok := recordstore.AsStoreError(err); ok {
		status := http.StatusBadGateway
		if se.Retryable {
			status = http.StatusServiceUnavailable
		}
		if se.Code == recordstore.CodeNotFound {
			status = http.StatusNotFound
		}
		writeJSON(w, status, errorResponse{Code: string(se.Code), Message: se.Message})
		return
	}

	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Code:    usecase.CodeStoreFailure,
		Message: err.Error(),
	})
}
