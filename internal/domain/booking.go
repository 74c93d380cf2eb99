package domain

import "time"

// BookingStatus represents the lifecycle status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// PaymentStatus represents the payment state of a booking.
// It is derived deterministically from PaidAmount vs TotalPrice.
type PaymentStatus string

const (
	PaymentPaid   PaymentStatus = "paid"
	PaymentUnpaid PaymentStatus = "unpaid"
)

// PaymentMethod represents how the customer pays for a booking
type PaymentMethod string

const (
	PaymentMethodAbaPay     PaymentMethod = "aba_pay"
	PaymentMethodStripe     PaymentMethod = "stripe"
	PaymentMethodCreditCard PaymentMethod = "credit_card"
	PaymentMethodPayLater   PaymentMethod = "pay_later"
)

// RecurrencePattern describes how a booking repeats
type RecurrencePattern string

const (
	RecurrenceNone    RecurrencePattern = "none"
	RecurrenceDaily   RecurrencePattern = "daily"
	RecurrenceWeekly  RecurrencePattern = "weekly"
	RecurrenceMonthly RecurrencePattern = "monthly"
)

// Booking represents an appointment in the system.
// A recurring booking is the anchor: occurrences are derived from it,
// never stored as separate mutable records.
type Booking struct {
	ID         string
	LocationID string
	ServiceID  string
	StaffID    string
	CustomerID string

	StartTime time.Time
	EndTime   time.Time

	Status        BookingStatus
	PaymentStatus PaymentStatus
	PaymentMethod PaymentMethod

	TotalPrice float64
	PaidAmount float64

	Notes             *string
	RecurrencePattern RecurrencePattern

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still occupies its resources
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// IsTerminal returns true if no further lifecycle transition is allowed.
// Payment reconciliation fields may still change on a terminal booking.
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted || b.Status == StatusCancelled
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// IsRecurring returns true if the booking is an anchor of a recurring series
func (b *Booking) IsRecurring() bool {
	return b.RecurrencePattern != "" && b.RecurrencePattern != RecurrenceNone
}

// CanBeConfirmed returns true if the booking may transition to confirmed
func (b *Booking) CanBeConfirmed() bool {
	return b.Status == StatusPending
}

// CanBeCancelled returns true if the booking may transition to cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeRescheduled returns true if the booking may be moved to a new interval
func (b *Booking) CanBeRescheduled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// Duration returns the wall-clock length of the booking
func (b *Booking) Duration() time.Duration {
	return b.EndTime.Sub(b.StartTime)
}

// Interval returns the booking's own [start, end) interval
func (b *Booking) Interval() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}

// IsFullyPaid returns true if the paid amount covers the total price
func (b *Booking) IsFullyPaid() bool {
	return b.PaidAmount >= b.TotalPrice
}

// StaffAgendaFilter filters bookings for a staff member's agenda
type StaffAgendaFilter struct {
	StaffID         string
	Window          Interval
	IncludeInactive bool
}
