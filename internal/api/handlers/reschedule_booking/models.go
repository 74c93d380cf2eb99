package reschedule_booking

import (
	"time"

	rescheduleBooking "github.com/m04kA/ABS-SchedulingCore/internal/usecase/reschedule_booking"
)

// RescheduleBookingRequest HTTP request model
type RescheduleBookingRequest struct {
	StartTime string `json:"startTime" validate:"required"` // ISO 8601
}

// RescheduleBookingResponse HTTP response model
type RescheduleBookingResponse struct {
	ID                string `json:"id"`
	LocationID        string `json:"locationId"`
	ServiceID         string `json:"serviceId"`
	StaffID           string `json:"staffId"`
	CustomerID        string `json:"customerId"`
	StartTime         string `json:"startTime"`
	EndTime           string `json:"endTime"`
	Status            string `json:"status"`
	RecurrencePattern string `json:"recurrencePattern"`
	OccurrenceCount   int    `json:"occurrenceCount"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleBookingRequest) ToUseCaseRequest(bookingID string) (*rescheduleBooking.Request, error) {
	startTime, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, err
	}

	return &rescheduleBooking.Request{
		BookingID: bookingID,
		StartTime: startTime,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleBooking.Response) *RescheduleBookingResponse {
	return &RescheduleBookingResponse{
		ID:                resp.ID,
		LocationID:        resp.LocationID,
		ServiceID:         resp.ServiceID,
		StaffID:           resp.StaffID,
		CustomerID:        resp.CustomerID,
		StartTime:         resp.StartTime.Format(time.RFC3339),
		EndTime:           resp.EndTime.Format(time.RFC3339),
		Status:            resp.Status,
		RecurrencePattern: resp.RecurrencePattern,
		OccurrenceCount:   resp.OccurrenceCount,
	}
}
