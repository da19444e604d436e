package http

import (
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/orris-inc/helpdesk/internal/infrastructure/config"
	"github.com/orris-inc/helpdesk/internal/infrastructure/persistence/models"
	"github.com/orris-inc/helpdesk/internal/shared/authorization"
	sharedConfig "github.com/orris-inc/helpdesk/internal/shared/config"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
	"github.com/orris-inc/helpdesk/internal/shared/utils"
)

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	container *Container
	agentID   uint
	userID    uint
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, gdb.AutoMigrate(models.All()...))

	now := time.Now().UnixMilli()
	agent := &models.UserModel{Email: "agent@example.com", Name: "Agent", Role: "agent", CreatedAt: now, UpdatedAt: now}
	customer := &models.UserModel{Email: "customer@example.com", Name: "Customer", Role: "user", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, gdb.Create(agent).Error)
	require.NoError(t, gdb.Create(customer).Error)

	cfg := &config.Config{
		Server:  sharedConfig.ServerConfig{BaseURL: "http://helpdesk.test"},
		Auth:    sharedConfig.AuthConfig{JWT: sharedConfig.JWTConfig{Secret: "test-secret", AccessExpMinutes: 5}},
		Email:   sharedConfig.EmailConfig{FromAddress: "support@helpdesk.test", MessageIDDomain: "helpdesk.test"},
		Storage: sharedConfig.StorageConfig{Driver: "local", LocalPath: t.TempDir()},
	}

	c, err := NewContainer(context.Background(), gdb, cfg, logger.NewDiscard())
	require.NoError(t, err)
	t.Cleanup(c.Shutdown)
	c.SetupRoutes()

	return &testServer{container: c, agentID: agent.ID, userID: customer.ID}
}

func (s *testServer) token(t *testing.T, userID uint, role authorization.UserRole) string {
	t.Helper()
	token, _, err := s.container.JWTService().Generate(userID, role)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(req *nethttp.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.container.Engine().ServeHTTP(w, req)
	return w
}

func (s *testServer) createTicket(t *testing.T, token string) uint {
	t.Helper()
	req := httptest.NewRequest(nethttp.MethodPost, "/tickets", strings.NewReader(`{"title":"Printer on fire","priority":"high"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	w := s.do(req)
	require.Equal(t, nethttp.StatusCreated, w.Code, w.Body.String())

	var env apiEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotZero(t, created.ID)
	return created.ID
}

func timerRequest(path string, ticketID uint, token string) *nethttp.Request {
	form := url.Values{"ticket_id": {strconv.FormatUint(uint64(ticketID), 10)}}
	req := httptest.NewRequest(nethttp.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestRouter_Health(t *testing.T) {
	s := newTestServer(t)

	w := s.do(httptest.NewRequest(nethttp.MethodGet, "/health", nil))

	assert.Equal(t, nethttp.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestRouter_RequiresAuth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(httptest.NewRequest(nethttp.MethodGet, "/tickets", nil))

	assert.Equal(t, nethttp.StatusUnauthorized, w.Code)
}

func TestRouter_TimerLifecycle(t *testing.T) {
	s := newTestServer(t)
	agentToken := s.token(t, s.agentID, authorization.RoleAgent)
	ticketID := s.createTicket(t, agentToken)

	w := s.do(timerRequest("/api/timers/start", ticketID, agentToken))
	require.Equal(t, nethttp.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"success":true`)

	// a second start on the same ticket conflicts
	w = s.do(timerRequest("/api/timers/start", ticketID, agentToken))
	assert.Equal(t, nethttp.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)

	req := httptest.NewRequest(nethttp.MethodGet, "/timers/running?ticket_ids="+strconv.FormatUint(uint64(ticketID), 10), nil)
	req.Header.Set("Authorization", "Bearer "+agentToken)
	w = s.do(req)
	require.Equal(t, nethttp.StatusOK, w.Code)
	var env apiEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var running []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &running))
	assert.Len(t, running, 1)

	w = s.do(timerRequest("/api?action=discard-timer", ticketID, agentToken))
	require.Equal(t, nethttp.StatusOK, w.Code, w.Body.String())

	w = s.do(timerRequest("/api/timers/discard", ticketID, agentToken))
	assert.Equal(t, nethttp.StatusNotFound, w.Code)
}

func TestRouter_CustomerCannotTrackTime(t *testing.T) {
	s := newTestServer(t)
	customerToken := s.token(t, s.userID, authorization.RoleUser)
	ticketID := s.createTicket(t, customerToken)

	w := s.do(timerRequest("/api/timers/start", ticketID, customerToken))

	assert.Equal(t, nethttp.StatusForbidden, w.Code)
}

func TestRouter_CookieSessionNeedsCSRF(t *testing.T) {
	s := newTestServer(t)
	agentToken := s.token(t, s.agentID, authorization.RoleAgent)

	newReq := func() *nethttp.Request {
		req := httptest.NewRequest(nethttp.MethodPost, "/tickets", strings.NewReader(`{"title":"Via browser"}`))
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(&nethttp.Cookie{Name: utils.AccessTokenCookie, Value: agentToken})
		return req
	}

	w := s.do(newReq())
	assert.Equal(t, nethttp.StatusForbidden, w.Code)

	req := newReq()
	req.AddCookie(&nethttp.Cookie{Name: utils.CSRFTokenCookie, Value: "tok-123"})
	req.Header.Set(utils.CSRFTokenHeader, "tok-456")
	w = s.do(req)
	assert.Equal(t, nethttp.StatusForbidden, w.Code)

	req = newReq()
	req.AddCookie(&nethttp.Cookie{Name: utils.CSRFTokenCookie, Value: "tok-123"})
	req.Header.Set(utils.CSRFTokenHeader, "tok-123")
	w = s.do(req)
	assert.Equal(t, nethttp.StatusCreated, w.Code, w.Body.String())
}
