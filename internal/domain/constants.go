package domain

// Default scheduling configuration values
const (
	DefaultCancelGraceMinutes = 15
	DefaultHorizonDays        = 90
	DefaultMaxOccurrences     = 180
	DefaultMaxCapacity        = 1
)

// Business validation constants
const (
	MinServiceDurationMinutes = 5
	MaxServiceDurationMinutes = 480 // 8 hours
	MinCapacity               = 1
	MaxCapacity               = 100
	MaxNotesLength            = 500
	MaxCancellationReasonLen  = 500
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses список статусов, при которых бронирование занимает ресурсы
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}

// InactiveStatuses список статусов, при которых бронирование не занимает ресурсы
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
}
