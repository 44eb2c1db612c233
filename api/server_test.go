package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"supportbot/bot"
	"supportbot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockController is a mock implementation of Controller
type MockController struct {
	mock.Mock
}

func (m *MockController) Start(ctx context.Context, token, channelID, adminRoleID string) error {
	return m.Called(ctx, token, channelID, adminRoleID).Error(0)
}

func (m *MockController) Stop(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockController) Status() models.Status {
	return m.Called().Get(0).(models.Status)
}

func (m *MockController) SendMessage(ctx context.Context, text string) error {
	return m.Called(ctx, text).Error(0)
}

func (m *MockController) CreatePoll(ctx context.Context, question string, options []string) error {
	return m.Called(ctx, question, options).Error(0)
}

func (m *MockController) UpdatePresence(ctx context.Context, presence string) error {
	return m.Called(ctx, presence).Error(0)
}

func (m *MockController) SendWarning(ctx context.Context, userID, title, body string) error {
	return m.Called(ctx, userID, title, body).Error(0)
}

// MockProgressReader is a mock implementation of ProgressReader
type MockProgressReader struct {
	mock.Mock
}

func (m *MockProgressReader) Snapshot(ctx context.Context) map[string]models.UserProgress {
	return m.Called(ctx).Get(0).(map[string]models.UserProgress)
}

func postController(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/bot-controller", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestStartAction_MissingFields(t *testing.T) {
	controller := new(MockController)
	server := NewServer(controller, new(MockProgressReader), StartDefaults{})

	rec := postController(t, server.Handler(), `{"action":"start","token":"t"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	controller.AssertNotCalled(t, "Start", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestStartAction_Success(t *testing.T) {
	controller := new(MockController)
	server := NewServer(controller, new(MockProgressReader), StartDefaults{})

	started := time.Now()
	controller.On("Start", mock.Anything, "t", "c", "r").Return(nil)
	controller.On("Status").Return(models.Status{IsRunning: true, BotName: "SupportBot", StartTime: &started})

	rec := postController(t, server.Handler(), `{"action":"start","token":"t","channelId":"c","adminRoleId":"r"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Bot started successfully", body["message"])
	assert.Equal(t, true, body["isRunning"])
	assert.Equal(t, "SupportBot", body["botName"])
}

func TestStartAction_ConnectFailure(t *testing.T) {
	controller := new(MockController)
	server := NewServer(controller, new(MockProgressReader), StartDefaults{})

	controller.On("Start", mock.Anything, "t", "c", "r").Return(assert.AnError)

	rec := postController(t, server.Handler(), `{"action":"start","token":"t","channelId":"c","adminRoleId":"r"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestStopAction_NotRunning(t *testing.T) {
	controller := new(MockController)
	server := NewServer(controller, new(MockProgressReader), StartDefaults{})

	controller.On("Stop", mock.Anything).Return(bot.ErrNotRunning)

	rec := postController(t, server.Handler(), `{"action":"stop"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestStatusAction_NeverFails(t *testing.T) {
	controller := new(MockController)
	server := NewServer(controller, new(MockProgressReader), StartDefaults{})

	controller.On("Status").Return(models.Status{IsRunning: false})

	rec := postController(t, server.Handler(), `{"action":"status"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var status models.Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.False(t, status.IsRunning)
	assert.Nil(t, status.StartTime)
}

func TestCreatePollAction_InvalidInput(t *testing.T) {
	controller := new(MockController)
	server := NewServer(controller, new(MockProgressReader), StartDefaults{})

	rec := postController(t, server.Handler(), `{"action":"createPoll","question":"q","options":["only one"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	controller.AssertNotCalled(t, "CreatePoll", mock.Anything, mock.Anything, mock.Anything)

	// The facade re-validates; its rejection also maps to 400
	controller.On("CreatePoll", mock.Anything, "q", []string{"a", " "}).Return(bot.ErrInvalidPoll)
	rec = postController(t, server.Handler(), `{"action":"createPoll","question":"q","options":["a"," "]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendMessageAction(t *testing.T) {
	controller := new(MockController)
	server := NewServer(controller, new(MockProgressReader), StartDefaults{})

	rec := postController(t, server.Handler(), `{"action":"sendMessage"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	controller.On("SendMessage", mock.Anything, "hello").Return(bot.ErrNotRunning)
	rec = postController(t, server.Handler(), `{"action":"sendMessage","message":"hello"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestUpdatePresenceAction(t *testing.T) {
	controller := new(MockController)
	server := NewServer(controller, new(MockProgressReader), StartDefaults{})

	controller.On("UpdatePresence", mock.Anything, "surfing").Return(nil)

	rec := postController(t, server.Handler(), `{"action":"updatePresence","presence":"surfing"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUnknownAction(t *testing.T) {
	server := NewServer(new(MockController), new(MockProgressReader), StartDefaults{})

	rec := postController(t, server.Handler(), `{"action":"reboot"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendWarningEndpoint_MissingFields(t *testing.T) {
	controller := new(MockController)
	server := NewServer(controller, new(MockProgressReader), StartDefaults{})

	req := httptest.NewRequest(http.MethodPost, "/api/send-warning", strings.NewReader(`{"userId":"100"}`))
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	controller.AssertNotCalled(t, "SendWarning", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSendWarningEndpoint_StartsStoppedBot(t *testing.T) {
	controller := new(MockController)
	defaults := StartDefaults{Token: "t", ChannelID: "c", AdminRoleID: "r"}
	server := NewServer(controller, new(MockProgressReader), defaults)

	controller.On("Status").Return(models.Status{IsRunning: false})
	controller.On("Start", mock.Anything, "t", "c", "r").Return(nil)
	controller.On("SendWarning", mock.Anything, "100", "Rule violation", "stop it").Return(nil)

	body := `{"userId":"100","title":"Rule violation","message":"stop it"}`
	req := httptest.NewRequest(http.MethodPost, "/api/send-warning", strings.NewReader(body))
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	controller.AssertExpectations(t)
}

func TestSendWarningEndpoint_NoDefaultsConfigured(t *testing.T) {
	controller := new(MockController)
	server := NewServer(controller, new(MockProgressReader), StartDefaults{})

	controller.On("Status").Return(models.Status{IsRunning: false})

	body := `{"userId":"100","title":"t","message":"m"}`
	req := httptest.NewRequest(http.MethodPost, "/api/send-warning", strings.NewReader(body))
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	controller.AssertNotCalled(t, "Start", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUserStats(t *testing.T) {
	progress := new(MockProgressReader)
	server := NewServer(new(MockController), progress, StartDefaults{})

	progress.On("Snapshot", mock.Anything).Return(map[string]models.UserProgress{
		"200": {Name: "bob", Credits: 1, XP: 600, Level: models.Master},
		"100": {Name: "alice", Credits: 3, XP: 42, Level: models.NumericLevel(4)},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/user-stats", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var stats []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	require.Len(t, stats, 2)
	assert.Equal(t, "100", stats[0]["id"])
	assert.Equal(t, "alice", stats[0]["name"])
	assert.Equal(t, float64(4), stats[0]["level"])
	assert.Equal(t, "Master", stats[1]["level"])
}
