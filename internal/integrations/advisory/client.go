package advisory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const suggestSystemPrompt = `You are a booking assistant for a multi-location appointment business.
Given a customer request and a list of available services, pick the single best matching service.
Respond with a JSON object: {"service_id": "<id from the list>", "reasoning": "<one short sentence>"}.
If nothing matches, use an empty service_id.`

const summarizeSystemPrompt = `You summarize appointment notes for staff.
Produce a short neutral summary in at most three sentences. Do not invent details.`

// Client клиент рекомендательного провайдера поверх OpenAI-совместимого API
type Client struct {
	api   *openai.Client
	model string
	log   Logger
}

// NewClient создает новый экземпляр клиента рекомендаций.
// Пустой baseURL означает дефолтный endpoint провайдера.
func NewClient(apiKey, baseURL, model string, timeout time.Duration, log Logger) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if timeout > 0 {
		cfg.HTTPClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		api:   openai.NewClientWithConfig(cfg),
		model: model,
		log:   log,
	}
}

// SuggestService просит модель выбрать услугу под запрос клиента.
// Ответ ограничен JSON-форматом, поэтому парсится напрямую.
func (c *Client) SuggestService(ctx context.Context, request string, options []ServiceOption) (*Suggestion, error) {
	catalog, err := json.Marshal(options)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal service options: %v", ErrInternal, err)
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: suggestSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Customer request: %s\n\nAvailable services: %s", request, catalog)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute completion: %v", ErrInternal, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty choices", ErrInvalidResponse)
	}

	var suggestion Suggestion
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &suggestion); err != nil {
		return nil, fmt.Errorf("%w: failed to decode suggestion: %v", ErrInvalidResponse, err)
	}

	// Модель может вернуть ID вне списка - такой ответ считаем некорректным
	if suggestion.ServiceID != "" && !containsOption(options, suggestion.ServiceID) {
		return nil, fmt.Errorf("%w: suggested unknown service %q", ErrInvalidResponse, suggestion.ServiceID)
	}
	return &suggestion, nil
}

// SummarizeNotes просит модель составить краткую сводку по заметкам броней
func (c *Client) SummarizeNotes(ctx context.Context, notes []string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: summarizeSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: strings.Join(notes, "\n---\n")},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to execute completion: %v", ErrInternal, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", ErrInvalidResponse)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// SuggestServiceWithGracefulDegradation выбирает услугу с graceful degradation.
// При недоступности провайдера возвращает ErrServiceDegraded, что позволяет
// сервису отдать ответ без рекомендации.
func (c *Client) SuggestServiceWithGracefulDegradation(ctx context.Context, request string, options []ServiceOption) (*Suggestion, error) {
	c.log.Info("Requesting service suggestion, options=%d", len(options))

	suggestion, err := c.SuggestService(ctx, request, options)
	if err != nil {
		c.log.Error("Advisory provider unavailable, applying graceful degradation: %v", err)
		return nil, fmt.Errorf("%w: error=%v", ErrServiceDegraded, err)
	}

	c.log.Info("Successfully received suggestion, service_id=%s", suggestion.ServiceID)
	return suggestion, nil
}

func containsOption(options []ServiceOption, id string) bool {
	for _, opt := range options {
		if opt.ID == id {
			return true
		}
	}
	return false
}
