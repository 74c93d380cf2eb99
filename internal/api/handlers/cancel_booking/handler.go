package cancel_booking

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/ABS-SchedulingCore/internal/api/handlers"
	"github.com/m04kA/ABS-SchedulingCore/internal/lifecycle"
	"github.com/m04kA/ABS-SchedulingCore/internal/service/bookings"
)

const (
	msgMissingBookingID   = "не указан идентификатор бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgBookingNotFound    = "бронирование не найдено"
	msgCannotCancel       = "бронирование не может быть отменено"
	msgGraceExpired       = "срок отмены бронирования истек"
)

type Handler struct {
	service   BookingsService
	metrics   Metrics
	slotCache SlotCacheInvalidator
	logger    Logger
}

// NewHandler создает handler. slotCache может быть nil, если кеш отключен.
func NewHandler(service BookingsService, metrics Metrics, slotCache SlotCacheInvalidator, logger Logger) *Handler {
	return &Handler{
		service:   service,
		metrics:   metrics,
		slotCache: slotCache,
		logger:    logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["bookingId"]
	if bookingID == "" {
		handlers.RespondBadRequest(w, msgMissingBookingID)
		return
	}

	// Тело с причиной отмены опционально
	var req CancelBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Cancel(r.Context(), bookingID, req.ToServiceRequest())
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgBookingNotFound)

		// Истекшее окно отмены - конфликт по времени, терминальный
		// статус - ошибка валидации запроса
		case errors.Is(err, lifecycle.ErrGraceExpired):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Grace window expired: id=%s", bookingID)
			handlers.RespondConflict(w, msgGraceExpired)

		case errors.Is(err, bookings.ErrCannotCancel):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Cannot cancel: id=%s, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgCannotCancel)

		default:
			h.logger.Error("PATCH /bookings/{id}/cancel - Failed to cancel booking: id=%s, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.metrics.IncBookingsCancelled()

	if h.slotCache != nil {
		if err := h.slotCache.InvalidateResource(r.Context(), result.LocationID, result.ServiceID); err != nil {
			h.logger.Warn("PATCH /bookings/{id}/cancel - Failed to invalidate slot cache: location=%s, service=%s, error=%v",
				result.LocationID, result.ServiceID, err)
		}
	}

	h.logger.Info("PATCH /bookings/{id}/cancel - Booking cancelled: id=%s", bookingID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
