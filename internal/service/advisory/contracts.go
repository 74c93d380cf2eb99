package advisory

import (
	"context"

	"github.com/m04kA/ABS-SchedulingCore/internal/domain"
	advisoryClient "github.com/m04kA/ABS-SchedulingCore/internal/integrations/advisory"
)

// AdvisoryClient интерфейс клиента рекомендательного провайдера
type AdvisoryClient interface {
	SuggestServiceWithGracefulDegradation(ctx context.Context, request string, options []advisoryClient.ServiceOption) (*advisoryClient.Suggestion, error)
	SummarizeNotes(ctx context.Context, notes []string) (string, error)
}

// CatalogRepository интерфейс репозитория справочника
type CatalogRepository interface {
	ListActiveServices(ctx context.Context, locationID *string) ([]*domain.Service, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
