package get_booking_occurrences

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/ABS-SchedulingCore/internal/api/handlers"
	"github.com/m04kA/ABS-SchedulingCore/internal/service/bookings"
)

const (
	msgMissingBookingID = "не указан идентификатор бронирования"
	msgBookingNotFound  = "бронирование не найдено"
	msgLocationNotFound = "локация бронирования не найдена"
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

// Handle GET /api/v1/bookings/{bookingId}/occurrences
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["bookingId"]
	if bookingID == "" {
		handlers.RespondBadRequest(w, msgMissingBookingID)
		return
	}

	result, err := h.service.Occurrences(r.Context(), bookingID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, bookings.ErrLocationNotFound):
			handlers.RespondNotFound(w, msgLocationNotFound)

		default:
			h.logger.Error("GET /bookings/{id}/occurrences - Failed to expand booking: id=%s, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
