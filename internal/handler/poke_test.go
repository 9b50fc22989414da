package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XBC-D2O/acpoke-plugin/internal/model"
	"github.com/XBC-D2O/acpoke-plugin/internal/service"
)

type noopResolver struct{}

func (noopResolver) GetPersonIDByName(context.Context, string) (string, error) {
	return "", model.ErrPersonNotFound
}

func (noopResolver) GetPersonValue(context.Context, string, string) (string, error) {
	return "", nil
}

type memoryTransport struct {
	pokes int
}

func (m *memoryTransport) GroupPoke(context.Context, string, string, string) (string, error) {
	m.pokes++
	return "SEND_POKE 已发送", nil
}

func (m *memoryTransport) FriendPoke(context.Context, string, string) (string, error) {
	m.pokes++
	return "SEND_POKE 已发送", nil
}

func (m *memoryTransport) SendGroupMessage(context.Context, string, string) error   { return nil }
func (m *memoryTransport) SendPrivateMessage(context.Context, string, string) error { return nil }

type memoryRecorder struct {
	records []model.ActionRecord
}

func (m *memoryRecorder) RecordAction(_ context.Context, rec model.ActionRecord) error {
	m.records = append(m.records, rec)
	return nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *memoryTransport, *memoryRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	transport := &memoryTransport{}
	recorder := &memoryRecorder{}
	resolver := service.NewTargetResolver(noopResolver{}, "", zerolog.Nop())
	svc := service.NewPokeService(resolver, transport, recorder, false, zerolog.Nop())
	info := model.PluginInfo{Name: "poke_plugin", Version: "0.5.0", Enabled: true}
	return Router(svc, info, zerolog.Nop()), transport, recorder
}

func TestTriggerPoke(t *testing.T) {
	r, transport, recorder := newTestRouter(t)

	body := `{"user_id": "123456", "group_id": "789", "reason": "友好互动", "chat_id": "chat-1"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/actions/poke", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var result model.ExecuteResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, "戳一戳成功", result.Message)
	assert.NotEmpty(t, result.TaskID)
	assert.Equal(t, 1, transport.pokes)
	assert.Len(t, recorder.records, 1)
}

func TestTriggerPokeUnresolved(t *testing.T) {
	r, transport, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/actions/poke", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var result model.ExecuteResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.Equal(t, "无法找到目标用户ID", result.Message)
	assert.Zero(t, transport.pokes)
}

func TestTriggerPokeBadJSON(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/actions/poke", strings.NewReader(`{not json`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPluginInfo(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/plugin/info", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var info model.PluginInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "poke_plugin", info.Name)
	assert.True(t, info.Enabled)
}
