package advisory

import (
	"context"
	"fmt"
	"strings"

	advisoryClient "github.com/m04kA/ABS-SchedulingCore/internal/integrations/advisory"
	"github.com/m04kA/ABS-SchedulingCore/internal/service/advisory/models"
)

// Service сервис рекомендаций. Подсказки носят строго вспомогательный характер:
// любой сбой провайдера превращается в пустой результат, а не в ошибку API.
type Service struct {
	client      AdvisoryClient
	catalogRepo CatalogRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса рекомендаций.
// client может быть nil - тогда рекомендации всегда пустые.
func NewService(client AdvisoryClient, catalogRepo CatalogRepository, logger Logger) *Service {
	return &Service{
		client:      client,
		catalogRepo: catalogRepo,
		logger:      logger,
	}
}

// SuggestService подбирает услугу под свободное описание клиента
func (s *Service) SuggestService(ctx context.Context, req *models.SuggestServiceRequest) (*models.SuggestServiceResponse, error) {
	if strings.TrimSpace(req.Request) == "" {
		return nil, fmt.Errorf("%w: empty request text", ErrInvalidInput)
	}

	if s.client == nil {
		s.logger.Info("SuggestService: advisory disabled, returning empty suggestion")
		return &models.SuggestServiceResponse{}, nil
	}

	services, err := s.catalogRepo.ListActiveServices(ctx, req.LocationID)
	if err != nil {
		s.logger.Error("SuggestService: catalog error: %v", err)
		return nil, fmt.Errorf("%w: SuggestService - catalog error: %v", ErrInternal, err)
	}
	if len(services) == 0 {
		s.logger.Info("SuggestService: no active services to suggest from")
		return &models.SuggestServiceResponse{}, nil
	}

	options := make([]advisoryClient.ServiceOption, len(services))
	for i, svc := range services {
		options[i] = advisoryClient.ServiceOption{
			ID:              svc.ID,
			Name:            svc.Name,
			Category:        svc.Category,
			Price:           svc.Price,
			DurationMinutes: svc.DurationMinutes,
		}
	}

	suggestion, err := s.client.SuggestServiceWithGracefulDegradation(ctx, req.Request, options)
	if err != nil {
		// Провайдер недоступен - отдаем пустую рекомендацию, бронирование не страдает
		s.logger.Warn("SuggestService: provider degraded: %v", err)
		return &models.SuggestServiceResponse{}, nil
	}

	return &models.SuggestServiceResponse{
		ServiceID: suggestion.ServiceID,
		Reasoning: suggestion.Reasoning,
	}, nil
}

// SummarizeNotes строит краткую сводку по заметкам бронирований
func (s *Service) SummarizeNotes(ctx context.Context, req *models.SummarizeNotesRequest) (*models.SummarizeNotesResponse, error) {
	notes := make([]string, 0, len(req.Notes))
	for _, n := range req.Notes {
		if strings.TrimSpace(n) != "" {
			notes = append(notes, n)
		}
	}
	if len(notes) == 0 {
		return nil, fmt.Errorf("%w: no notes to summarize", ErrInvalidInput)
	}

	if s.client == nil {
		s.logger.Info("SummarizeNotes: advisory disabled, returning empty summary")
		return &models.SummarizeNotesResponse{}, nil
	}

	summary, err := s.client.SummarizeNotes(ctx, notes)
	if err != nil {
		s.logger.Warn("SummarizeNotes: provider degraded: %v", err)
		return &models.SummarizeNotesResponse{}, nil
	}

	return &models.SummarizeNotesResponse{Summary: summary}, nil
}
