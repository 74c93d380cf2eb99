package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/ABS-SchedulingCore/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/ABS-SchedulingCore/internal/usecase/get_available_slots"
)

const (
	msgMissingPathParams = "не указаны идентификаторы локации и услуги"
	msgInvalidDateParam  = "некорректный параметр date, ожидается YYYY-MM-DD"
	msgLocationNotFound  = "локация не найдена"
	msgServiceNotFound   = "услуга не найдена"
	msgStaffNotFound     = "сотрудник не найден"
	msgServiceInactive   = "услуга отключена"
	msgServiceNotAt      = "услуга не предоставляется на выбранной локации"
	msgStaffNotQualified = "сотрудник не оказывает выбранную услугу"
	msgStaffNotAt        = "сотрудник не работает на выбранной локации"
	msgDateInPast        = "дата в прошлом"
	msgDateTooFar        = "дата слишком далеко в будущем"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/locations/{locationId}/services/{serviceId}/available-slots?date=YYYY-MM-DD&staffId=...
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	locationID := vars["locationId"]
	serviceID := vars["serviceId"]
	if locationID == "" || serviceID == "" {
		handlers.RespondBadRequest(w, msgMissingPathParams)
		return
	}

	req, err := ParseQuery(locationID, serviceID, r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid query: location=%s, service=%s, error=%v", locationID, serviceID, err)
		handlers.RespondBadRequest(w, msgInvalidDateParam)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrLocationNotFound):
			handlers.RespondNotFound(w, msgLocationNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrStaffNotFound):
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceInactive):
			handlers.RespondBadRequest(w, msgServiceInactive)

		case errors.Is(err, getAvailableSlots.ErrServiceNotAtLocation):
			handlers.RespondBadRequest(w, msgServiceNotAt)

		case errors.Is(err, getAvailableSlots.ErrStaffNotQualified):
			handlers.RespondBadRequest(w, msgStaffNotQualified)

		case errors.Is(err, getAvailableSlots.ErrStaffNotAtLocation):
			handlers.RespondBadRequest(w, msgStaffNotAt)

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, getAvailableSlots.ErrDateTooFarInFuture):
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgMissingPathParams)

		default:
			h.logger.Error("GET /available-slots - Failed to compute slots: location=%s, service=%s, error=%v", locationID, serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
