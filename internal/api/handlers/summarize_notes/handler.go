package summarize_notes

import (
	"errors"
	"net/http"

	"github.com/m04kA/ABS-SchedulingCore/internal/api/handlers"
	"github.com/m04kA/ABS-SchedulingCore/internal/service/advisory"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
)

type Handler struct {
	service AdvisoryService
	logger  Logger
}

func NewHandler(service AdvisoryService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/advisory/notes-summary
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req SummarizeNotesRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /advisory/notes-summary - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.SummarizeNotes(r.Context(), req.ToServiceRequest())
	if err != nil {
		switch {
		case errors.Is(err, advisory.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /advisory/notes-summary - Failed to summarize notes: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
