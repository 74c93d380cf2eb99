package booking

import (
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")

	// ErrStoreUnavailable возвращается при временной недоступности хранилища.
	// Вызывающий может повторить операцию с паузой.
	ErrStoreUnavailable = errors.New("booking.repository: store temporarily unavailable")
)

// wrapExecErr оборачивает ошибку выполнения запроса, отделяя временные сбои
// хранилища (обрыв соединения, класс 08 у PostgreSQL) от остальных ошибок
func wrapExecErr(op string, err error) error {
	if isTransient(err) {
		return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrExecQuery, op, err)
}

func isTransient(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// Класс 08 - connection exception, класс 57 - operator intervention (shutdown)
		return pqErr.Code.Class() == "08" || pqErr.Code.Class() == "57"
	}
	return false
}
