package reschedule_booking

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/m04kA/ABS-SchedulingCore/internal/api/handlers"
	rescheduleBooking "github.com/m04kA/ABS-SchedulingCore/internal/usecase/reschedule_booking"
)

const (
	msgMissingBookingID   = "не указан идентификатор бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStartTime   = "некорректный формат времени начала, ожидается ISO 8601"
	msgBookingNotFound    = "бронирование не найдено"
	msgLocationNotFound   = "локация бронирования не найдена"
	msgCannotReschedule   = "бронирование не может быть перенесено"
	msgSlotNotAvailable   = "выбранный временной слот недоступен"
	msgStartInPast        = "время начала в прошлом"
	msgDateTooFar         = "время начала слишком далеко в будущем"
	msgStoreUnavailable   = "хранилище временно недоступно, повторите запрос позже"
)

type Handler struct {
	useCase   RescheduleBookingUseCase
	metrics   Metrics
	slotCache SlotCacheInvalidator
	logger    Logger
}

// NewHandler создает handler. slotCache может быть nil, если кеш отключен.
func NewHandler(useCase RescheduleBookingUseCase, metrics Metrics, slotCache SlotCacheInvalidator, logger Logger) *Handler {
	return &Handler{
		useCase:   useCase,
		metrics:   metrics,
		slotCache: slotCache,
		logger:    logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["bookingId"]
	if bookingID == "" {
		handlers.RespondBadRequest(w, msgMissingBookingID)
		return
	}

	var req RescheduleBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(bookingID)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Failed to parse start time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, rescheduleBooking.ErrSlotNotAvailable):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Slot not available: id=%s", bookingID)
			h.metrics.IncConflicts()
			handlers.RespondConflict(w, conflictMessage(err))

		case errors.Is(err, rescheduleBooking.ErrCannotReschedule):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Cannot reschedule: id=%s, error=%v", bookingID, err)
			handlers.RespondConflict(w, msgCannotReschedule)

		case errors.Is(err, rescheduleBooking.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, rescheduleBooking.ErrLocationNotFound):
			handlers.RespondNotFound(w, msgLocationNotFound)

		case errors.Is(err, rescheduleBooking.ErrStartInPast):
			handlers.RespondBadRequest(w, msgStartInPast)

		case errors.Is(err, rescheduleBooking.ErrDateTooFarInFuture):
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, rescheduleBooking.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, rescheduleBooking.ErrStoreUnavailable):
			h.logger.Error("PATCH /bookings/{id}/reschedule - Store unavailable: %v", err)
			handlers.RespondServiceUnavailable(w, msgStoreUnavailable)

		default:
			h.logger.Error("PATCH /bookings/{id}/reschedule - Failed to reschedule booking: id=%s, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	if h.slotCache != nil {
		if err := h.slotCache.InvalidateResource(r.Context(), result.LocationID, result.ServiceID); err != nil {
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Failed to invalidate slot cache: location=%s, service=%s, error=%v",
				result.LocationID, result.ServiceID, err)
		}
	}

	h.logger.Info("PATCH /bookings/{id}/reschedule - Booking rescheduled: id=%s, new_start=%s", bookingID, req.StartTime)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

// conflictMessage дополняет сообщение о конфликте описанием занятого
// ресурса и вхождения из ошибки usecase
func conflictMessage(err error) string {
	detail := strings.TrimPrefix(err.Error(), rescheduleBooking.ErrSlotNotAvailable.Error())
	detail = strings.TrimPrefix(detail, ": ")
	if detail == "" || detail == err.Error() {
		return msgSlotNotAvailable
	}
	return fmt.Sprintf("%s: %s", msgSlotNotAvailable, detail)
}
