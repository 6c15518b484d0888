package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/tutravel/intake-bot/internal/entity"
	"github.com/tutravel/intake-bot/internal/infra/http/handlers"
	"github.com/tutravel/intake-bot/internal/infra/integration/hubspot"
	"github.com/tutravel/intake-bot/internal/infra/session"
	"github.com/tutravel/intake-bot/internal/routing"
	"github.com/tutravel/intake-bot/internal/usecase"
)

type MockCRMGateway struct {
	mock.Mock
}

func (m *MockCRMGateway) UpsertContact(input hubspot.UpsertContactInput) (string, error) {
	args := m.Called(input)
	return args.String(0), args.Error(1)
}

func (m *MockCRMGateway) CreateOrUpdateDeal(input hubspot.DealInput) (string, error) {
	args := m.Called(input)
	return args.String(0), args.Error(1)
}

type MockMessenger struct {
	mock.Mock
}

func (m *MockMessenger) SendText(to, text string) error {
	args := m.Called(to, text)
	return args.Error(0)
}

func newHandler(crm usecase.CRMGateway, messenger usecase.MessengerInterface) *handlers.WebhookHandler {
	return newHandlerWithStore(session.NewMemoryStore(), crm, messenger)
}

func newHandlerWithStore(store entity.SessionStoreInterface, crm usecase.CRMGateway, messenger usecase.MessengerInterface) *handlers.WebhookHandler {
	uc := usecase.NewConversationUseCase(store, crm, nil, nil, routing.DefaultConfig(""))
	return handlers.NewWebhookHandler(uc, messenger, "verify-me")
}

func post(t *testing.T, h *handlers.WebhookHandler, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	assert.NoError(t, err)
	req := httptest.NewRequest("POST", "/whatsapp/webhook", bytes.NewReader(raw)).WithContext(context.Background())
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func decodeOK(t *testing.T, rec *httptest.ResponseRecorder) bool {
	t.Helper()
	var resp struct {
		OK bool `json:"ok"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.OK
}

func TestWebhookFirstMessageReplies(t *testing.T) {
	mockCRM := new(MockCRMGateway)
	messenger := new(MockMessenger)
	messenger.On("SendText", "+573001112233", "¡Hola! ¿Tu nombre completo?").Return(nil).Once()

	h := newHandler(mockCRM, messenger)

	rec := post(t, h, map[string]string{"from": "+573001112233", "text": "hola"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeOK(t, rec))
	messenger.AssertExpectations(t)
}

func TestWebhookShortCircuitsEmptyEvents(t *testing.T) {
	mockCRM := new(MockCRMGateway)
	messenger := new(MockMessenger)
	h := newHandler(mockCRM, messenger)

	rec := post(t, h, map[string]string{"from": "", "text": "hola"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeOK(t, rec))

	rec = post(t, h, map[string]string{"from": "+573001112233", "text": ""})
	assert.False(t, decodeOK(t, rec))

	messenger.AssertNotCalled(t, "SendText", mock.Anything, mock.Anything)
}

func TestWebhookBadJSON(t *testing.T) {
	h := newHandler(new(MockCRMGateway), new(MockMessenger))

	req := httptest.NewRequest("POST", "/whatsapp/webhook", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// TestWebhookCRMFailureSendsGenericNotice - the caller gets ok=false and
// the user a localized failure notice, with no remote detail leaking.
func TestWebhookCRMFailureSendsGenericNotice(t *testing.T) {
	mockCRM := new(MockCRMGateway)
	mockCRM.On("UpsertContact", mock.Anything).Return("", errors.New("status 500: secret internals"))

	messenger := new(MockMessenger)
	messenger.On("SendText", mock.Anything, mock.Anything).Return(nil)

	h := newHandler(mockCRM, messenger)

	post(t, h, map[string]string{"from": "+573001112233", "text": "hola"})
	post(t, h, map[string]string{"from": "+573001112233", "text": "Ana Gomez"})
	rec := post(t, h, map[string]string{"from": "+573001112233", "text": "ana@gomez.com"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeOK(t, rec))

	calls := messenger.Calls
	last := calls[len(calls)-1]
	sent := last.Arguments.String(1)
	assert.Contains(t, sent, "algo salió mal")
	assert.NotContains(t, sent, "secret internals")
}

// brokenStore fails every operation, like a session backend that is down.
type brokenStore struct{}

func (b *brokenStore) GetOrCreate(ctx context.Context, sender string) (*entity.Session, error) {
	return nil, errors.New("store down")
}

func (b *brokenStore) Save(ctx context.Context, s *entity.Session) error {
	return errors.New("store down")
}

func (b *brokenStore) Remove(ctx context.Context, sender string) error {
	return errors.New("store down")
}

func integrationErrorCount(t *testing.T, service string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	assert.NoError(t, err)
	for _, family := range families {
		if family.GetName() != "integration_errors_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "service" && label.GetValue() == service {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

// TestWebhookSessionStoreFailureLabel - a session backend outage must not be
// counted against the CRM integration.
func TestWebhookSessionStoreFailureLabel(t *testing.T) {
	sessionBefore := integrationErrorCount(t, "session_store")
	hubspotBefore := integrationErrorCount(t, "hubspot")

	h := newHandlerWithStore(&brokenStore{}, new(MockCRMGateway), new(MockMessenger))

	rec := post(t, h, map[string]string{"from": "+573001112233", "text": "hola"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeOK(t, rec))

	assert.Equal(t, sessionBefore+1, integrationErrorCount(t, "session_store"))
	assert.Equal(t, hubspotBefore, integrationErrorCount(t, "hubspot"))
}

func TestWebhookVerifyHandshake(t *testing.T) {
	h := newHandler(new(MockCRMGateway), new(MockMessenger))

	req := httptest.NewRequest("GET", "/whatsapp/webhook?hub.mode=subscribe&hub.verify_token=verify-me&hub.challenge=12345", nil)
	rec := httptest.NewRecorder()
	h.HandleVerify(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "12345", rec.Body.String())

	req = httptest.NewRequest("GET", "/whatsapp/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345", nil)
	rec = httptest.NewRecorder()
	h.HandleVerify(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
