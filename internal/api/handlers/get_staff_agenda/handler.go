package get_staff_agenda

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/ABS-SchedulingCore/internal/api/handlers"
	"github.com/m04kA/ABS-SchedulingCore/internal/service/bookings"
)

const (
	msgMissingStaffID = "не указан идентификатор сотрудника"
	msgInvalidQuery   = "некорректные параметры запроса, ожидаются from и to в ISO 8601"
	msgStaffNotFound  = "сотрудник не найден"
	msgInvalidWindow  = "некорректное временное окно"
)

type Handler struct {
	service BookingsService
	logger  Logger
}

func NewHandler(service BookingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/staff/{staffId}/agenda?from=...&to=...&includeInactive=false
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	staffID := mux.Vars(r)["staffId"]
	if staffID == "" {
		handlers.RespondBadRequest(w, msgMissingStaffID)
		return
	}

	req, err := ParseQuery(staffID, r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /staff/{id}/agenda - Invalid query: staff=%s, error=%v", staffID, err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	result, err := h.service.Agenda(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrStaffNotFound):
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, bookings.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidWindow)

		default:
			h.logger.Error("GET /staff/{id}/agenda - Failed to build agenda: staff=%s, error=%v", staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
