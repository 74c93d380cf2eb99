package models

import (
	"time"

	"github.com/m04kA/ABS-SchedulingCore/internal/domain"
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	Reason string `json:"reason,omitempty"`
}

// ApplyPaymentRequest отчет платежного сервиса о сумме оплаты
type ApplyPaymentRequest struct {
	PaidAmount float64 `json:"paidAmount"`
}

// GetAgendaRequest запрос расписания сотрудника
type GetAgendaRequest struct {
	StaffID         string
	From            time.Time
	To              time.Time
	IncludeInactive bool
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID         string `json:"id"`
	LocationID string `json:"locationId"`
	ServiceID  string `json:"serviceId"`
	StaffID    string `json:"staffId"`
	CustomerID string `json:"customerId"`

	StartTime string `json:"startTime"` // ISO 8601
	EndTime   string `json:"endTime"`   // ISO 8601

	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
	PaymentMethod string `json:"paymentMethod"`

	TotalPrice float64 `json:"totalPrice"`
	PaidAmount float64 `json:"paidAmount"`

	Notes             *string `json:"notes,omitempty"`
	RecurrencePattern string  `json:"recurrencePattern"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OccurrenceResponse одно вхождение повторяющейся серии
type OccurrenceResponse struct {
	Ref       string `json:"ref"`
	Index     int    `json:"index"`
	StartTime string `json:"startTime"` // ISO 8601
	EndTime   string `json:"endTime"`   // ISO 8601
}

// OccurrenceListResponse ответ со списком вхождений бронирования
type OccurrenceListResponse struct {
	BookingID   string               `json:"bookingId"`
	Occurrences []OccurrenceResponse `json:"occurrences"`
}

// AgendaEntryResponse одна запись расписания сотрудника
type AgendaEntryResponse struct {
	BookingID  string `json:"bookingId"`
	Ref        string `json:"ref"`
	LocationID string `json:"locationId"`
	ServiceID  string `json:"serviceId"`
	CustomerID string `json:"customerId"`
	Status     string `json:"status"`
	StartTime  string `json:"startTime"` // ISO 8601
	EndTime    string `json:"endTime"`   // ISO 8601
}

// AgendaResponse расписание сотрудника за период
type AgendaResponse struct {
	StaffID string                `json:"staffId"`
	From    string                `json:"from"`
	To      string                `json:"to"`
	Entries []AgendaEntryResponse `json:"entries"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		LocationID:         b.LocationID,
		ServiceID:          b.ServiceID,
		StaffID:            b.StaffID,
		CustomerID:         b.CustomerID,
		StartTime:          b.StartTime.Format(time.RFC3339),
		EndTime:            b.EndTime.Format(time.RFC3339),
		Status:             string(b.Status),
		PaymentStatus:      string(b.PaymentStatus),
		PaymentMethod:      string(b.PaymentMethod),
		TotalPrice:         b.TotalPrice,
		PaidAmount:         b.PaidAmount,
		Notes:              b.Notes,
		RecurrencePattern:  string(b.RecurrencePattern),
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainOccurrences конвертирует вхождения серии в DTO
func FromDomainOccurrences(bookingID string, occurrences []domain.Occurrence) *OccurrenceListResponse {
	resp := &OccurrenceListResponse{
		BookingID:   bookingID,
		Occurrences: make([]OccurrenceResponse, len(occurrences)),
	}
	for i, occ := range occurrences {
		resp.Occurrences[i] = OccurrenceResponse{
			Ref:       occ.Ref(),
			Index:     occ.Index,
			StartTime: occ.Interval.Start.Format(time.RFC3339),
			EndTime:   occ.Interval.End.Format(time.RFC3339),
		}
	}
	return resp
}
