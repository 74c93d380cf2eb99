package advisory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/ABS-SchedulingCore/internal/domain"
	advisoryClient "github.com/m04kA/ABS-SchedulingCore/internal/integrations/advisory"
	"github.com/m04kA/ABS-SchedulingCore/internal/service/advisory/models"
)

type fakeClient struct {
	suggestion *advisoryClient.Suggestion
	summary    string
	err        error
}

func (c *fakeClient) SuggestServiceWithGracefulDegradation(_ context.Context, _ string, _ []advisoryClient.ServiceOption) (*advisoryClient.Suggestion, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.suggestion, nil
}

func (c *fakeClient) SummarizeNotes(_ context.Context, _ []string) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	return c.summary, nil
}

type fakeCatalog struct {
	services []*domain.Service
}

func (c *fakeCatalog) ListActiveServices(_ context.Context, _ *string) ([]*domain.Service, error) {
	return c.services, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func catalogWithServices() *fakeCatalog {
	return &fakeCatalog{services: []*domain.Service{
		{ID: "svc-1", Name: "Haircut", Category: "hair", Price: 25, DurationMinutes: 30, IsActive: true},
		{ID: "svc-2", Name: "Massage", Category: "spa", Price: 60, DurationMinutes: 60, IsActive: true},
	}}
}

func TestSuggestService_ReturnsSuggestion(t *testing.T) {
	client := &fakeClient{suggestion: &advisoryClient.Suggestion{ServiceID: "svc-2", Reasoning: "customer asked for relaxation"}}
	svc := NewService(client, catalogWithServices(), nopLogger{})

	resp, err := svc.SuggestService(context.Background(), &models.SuggestServiceRequest{Request: "something relaxing"})
	require.NoError(t, err)
	assert.Equal(t, "svc-2", resp.ServiceID)
	assert.NotEmpty(t, resp.Reasoning)
}

func TestSuggestService_ProviderFailureYieldsEmpty(t *testing.T) {
	client := &fakeClient{err: errors.New("provider down")}
	svc := NewService(client, catalogWithServices(), nopLogger{})

	resp, err := svc.SuggestService(context.Background(), &models.SuggestServiceRequest{Request: "anything"})
	require.NoError(t, err)
	assert.Empty(t, resp.ServiceID)
}

func TestSuggestService_DisabledYieldsEmpty(t *testing.T) {
	svc := NewService(nil, catalogWithServices(), nopLogger{})

	resp, err := svc.SuggestService(context.Background(), &models.SuggestServiceRequest{Request: "anything"})
	require.NoError(t, err)
	assert.Empty(t, resp.ServiceID)
}

func TestSuggestService_EmptyRequestRejected(t *testing.T) {
	svc := NewService(&fakeClient{}, catalogWithServices(), nopLogger{})

	_, err := svc.SuggestService(context.Background(), &models.SuggestServiceRequest{Request: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSummarizeNotes_ReturnsSummary(t *testing.T) {
	client := &fakeClient{summary: "Customer prefers morning appointments."}
	svc := NewService(client, catalogWithServices(), nopLogger{})

	resp, err := svc.SummarizeNotes(context.Background(), &models.SummarizeNotesRequest{Notes: []string{"prefers mornings", "allergic to lavender"}})
	require.NoError(t, err)
	assert.Equal(t, "Customer prefers morning appointments.", resp.Summary)
}

func TestSummarizeNotes_ProviderFailureYieldsEmpty(t *testing.T) {
	client := &fakeClient{err: errors.New("provider down")}
	svc := NewService(client, catalogWithServices(), nopLogger{})

	resp, err := svc.SummarizeNotes(context.Background(), &models.SummarizeNotesRequest{Notes: []string{"note"}})
	require.NoError(t, err)
	assert.Empty(t, resp.Summary)
}

func TestSummarizeNotes_NoNotesRejected(t *testing.T) {
	svc := NewService(&fakeClient{}, catalogWithServices(), nopLogger{})

	_, err := svc.SummarizeNotes(context.Background(), &models.SummarizeNotesRequest{Notes: []string{"", "  "}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
