package availability

import (
	"errors"
	"fmt"

	"github.com/m04kA/ABS-SchedulingCore/internal/domain"
)

var (
	// ErrConflict возвращается, когда интервал пересекается с существующими
	// резервациями сверх допустимой вместимости ресурса
	ErrConflict = errors.New("availability: interval conflicts with existing reservation")

	// ErrLockTimeout возвращается, когда не удалось захватить замок ресурса
	// за отведенное время. Конфликт повторяемый - вызывающий может попробовать еще раз.
	ErrLockTimeout = errors.New("availability: resource lock acquisition timed out")
)

// Conflict описывает конкретное вхождение, из-за которого резервирование не удалось
type Conflict struct {
	Resource   ResourceKey
	Occurrence domain.Occurrence
}

func (c *Conflict) Error() string {
	return fmt.Sprintf("%v: resource %s/%s, occurrence %s %s",
		ErrConflict, c.Resource.Kind, c.Resource.ID, c.Occurrence.Ref(), c.Occurrence.Interval)
}

// Unwrap позволяет проверять конфликт через errors.Is(err, ErrConflict)
func (c *Conflict) Unwrap() error {
	return ErrConflict
}
