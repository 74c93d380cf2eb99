package create_booking

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/m04kA/ABS-SchedulingCore/internal/api/handlers"
	createBooking "github.com/m04kA/ABS-SchedulingCore/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStartTime   = "некорректный формат времени начала, ожидается ISO 8601"
	msgSlotNotAvailable   = "выбранный временной слот недоступен"
	msgLocationNotFound   = "локация не найдена"
	msgServiceNotFound    = "услуга не найдена"
	msgStaffNotFound      = "сотрудник не найден"
	msgServiceInactive    = "услуга отключена"
	msgServiceNotAt       = "услуга не предоставляется на выбранной локации"
	msgStaffNotQualified  = "сотрудник не оказывает выбранную услугу"
	msgStaffNotAt         = "сотрудник не работает на выбранной локации"
	msgStartInPast        = "время начала в прошлом"
	msgDateTooFar         = "время начала слишком далеко в будущем"
	msgStoreUnavailable   = "хранилище временно недоступно, повторите запрос позже"
)

type Handler struct {
	useCase   CreateBookingUseCase
	metrics   Metrics
	slotCache SlotCacheInvalidator
	logger    Logger
}

// NewHandler создает handler. slotCache может быть nil, если кеш отключен.
func NewHandler(useCase CreateBookingUseCase, metrics Metrics, slotCache SlotCacheInvalidator, logger Logger) *Handler {
	return &Handler{
		useCase:   useCase,
		metrics:   metrics,
		slotCache: slotCache,
		logger:    logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: customer=%s, staff=%s", req.CustomerID, req.StaffID)
			h.metrics.IncConflicts()
			handlers.RespondConflict(w, conflictMessage(err))

		case errors.Is(err, createBooking.ErrLocationNotFound):
			handlers.RespondNotFound(w, msgLocationNotFound)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrStaffNotFound):
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, createBooking.ErrServiceInactive):
			handlers.RespondBadRequest(w, msgServiceInactive)

		case errors.Is(err, createBooking.ErrServiceNotAtLocation):
			handlers.RespondBadRequest(w, msgServiceNotAt)

		case errors.Is(err, createBooking.ErrStaffNotQualified):
			handlers.RespondBadRequest(w, msgStaffNotQualified)

		case errors.Is(err, createBooking.ErrStaffNotAtLocation):
			handlers.RespondBadRequest(w, msgStaffNotAt)

		case errors.Is(err, createBooking.ErrStartInPast):
			handlers.RespondBadRequest(w, msgStartInPast)

		case errors.Is(err, createBooking.ErrDateTooFarInFuture):
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createBooking.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, createBooking.ErrStoreUnavailable):
			h.logger.Error("POST /bookings - Store unavailable: %v", err)
			handlers.RespondServiceUnavailable(w, msgStoreUnavailable)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: customer=%s, error=%v", req.CustomerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.metrics.IncBookingsCreated()

	if h.slotCache != nil {
		if err := h.slotCache.InvalidateResource(r.Context(), result.LocationID, result.ServiceID); err != nil {
			h.logger.Warn("POST /bookings - Failed to invalidate slot cache: location=%s, service=%s, error=%v",
				result.LocationID, result.ServiceID, err)
		}
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%s, customer=%s", result.ID, req.CustomerID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

// conflictMessage дополняет сообщение о конфликте описанием занятого
// ресурса и вхождения из ошибки usecase
func conflictMessage(err error) string {
	detail := strings.TrimPrefix(err.Error(), createBooking.ErrSlotNotAvailable.Error())
	detail = strings.TrimPrefix(detail, ": ")
	if detail == "" || detail == err.Error() {
		return msgSlotNotAvailable
	}
	return fmt.Sprintf("%s: %s", msgSlotNotAvailable, detail)
}
