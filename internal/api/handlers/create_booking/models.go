package create_booking

import (
	"time"

	createBooking "github.com/m04kA/ABS-SchedulingCore/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	LocationID        string  `json:"locationId" validate:"required"`
	ServiceID         string  `json:"serviceId" validate:"required"`
	StaffID           string  `json:"staffId" validate:"required"`
	CustomerID        string  `json:"customerId" validate:"required"`
	StartTime         string  `json:"startTime" validate:"required"` // ISO 8601
	PaymentMethod     string  `json:"paymentMethod" validate:"required"`
	RecurrencePattern string  `json:"recurrencePattern,omitempty"`
	Notes             *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID                string  `json:"id"`
	LocationID        string  `json:"locationId"`
	ServiceID         string  `json:"serviceId"`
	StaffID           string  `json:"staffId"`
	CustomerID        string  `json:"customerId"`
	StartTime         string  `json:"startTime"`
	EndTime           string  `json:"endTime"`
	Status            string  `json:"status"`
	PaymentStatus     string  `json:"paymentStatus"`
	PaymentMethod     string  `json:"paymentMethod"`
	TotalPrice        float64 `json:"totalPrice"`
	PaidAmount        float64 `json:"paidAmount"`
	RecurrencePattern string  `json:"recurrencePattern"`
	OccurrenceCount   int     `json:"occurrenceCount"`
	Notes             *string `json:"notes,omitempty"`
	CreatedAt         string  `json:"createdAt"`
	UpdatedAt         string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	startTime, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		LocationID:        r.LocationID,
		ServiceID:         r.ServiceID,
		StaffID:           r.StaffID,
		CustomerID:        r.CustomerID,
		StartTime:         startTime,
		PaymentMethod:     r.PaymentMethod,
		RecurrencePattern: r.RecurrencePattern,
		Notes:             r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:                resp.ID,
		LocationID:        resp.LocationID,
		ServiceID:         resp.ServiceID,
		StaffID:           resp.StaffID,
		CustomerID:        resp.CustomerID,
		StartTime:         resp.StartTime.Format(time.RFC3339),
		EndTime:           resp.EndTime.Format(time.RFC3339),
		Status:            resp.Status,
		PaymentStatus:     resp.PaymentStatus,
		PaymentMethod:     resp.PaymentMethod,
		TotalPrice:        resp.TotalPrice,
		PaidAmount:        resp.PaidAmount,
		RecurrencePattern: resp.RecurrencePattern,
		OccurrenceCount:   resp.OccurrenceCount,
		Notes:             resp.Notes,
		CreatedAt:         resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         resp.UpdatedAt.Format(time.RFC3339),
	}
}
