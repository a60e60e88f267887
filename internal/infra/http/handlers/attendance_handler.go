package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/xavierca1/membersync/internal/infra/http/middleware"
	"github.com/xavierca1/membersync/internal/usecase"
)

type AttendanceHandler struct {
	MarkUC *usecase.MarkAttendanceUseCase
}

func NewAttendanceHandler(markUC *usecase.MarkAttendanceUseCase) *AttendanceHandler {
	return &AttendanceHandler{MarkUC: markUC}
}

// Handle marks a member present at a service (POST /attendance). Safe to
// deliver more than once; redeliveries update the existing mark.
func (h *AttendanceHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var input usecase.MarkAttendanceInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: usecase.CodeValidation, Message: "invalid JSON: " + err.Error()})
		return
	}

	out, err := h.MarkUC.Execute(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	middleware.RecordAttendanceMark(out.Created)

	status := http.StatusOK
	if out.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, out)
}
