package advisory

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("advisory client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе модели
	ErrInvalidResponse = errors.New("advisory client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation.
	// Указывает, что провайдер недоступен и подсказки следует опустить.
	ErrServiceDegraded = errors.New("advisory provider unavailable: graceful degradation applied")
)
