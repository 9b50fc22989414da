package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XBC-D2O/acpoke-plugin/internal/model"
)

// fakeTransport 记录派发调用的传输替身
type fakeTransport struct {
	groupPokes  []string // "groupID/userID"
	friendPokes []string
	pokeErr     error
	debugTexts  []string
}

func (f *fakeTransport) GroupPoke(_ context.Context, groupID, userID, _ string) (string, error) {
	f.groupPokes = append(f.groupPokes, groupID+"/"+userID)
	if f.pokeErr != nil {
		return "", f.pokeErr
	}
	return "SEND_POKE 已发送", nil
}

func (f *fakeTransport) FriendPoke(_ context.Context, userID, _ string) (string, error) {
	f.friendPokes = append(f.friendPokes, userID)
	if f.pokeErr != nil {
		return "", f.pokeErr
	}
	return "SEND_POKE 已发送", nil
}

func (f *fakeTransport) SendGroupMessage(_ context.Context, _, text string) error {
	f.debugTexts = append(f.debugTexts, text)
	return nil
}

func (f *fakeTransport) SendPrivateMessage(_ context.Context, _, text string) error {
	f.debugTexts = append(f.debugTexts, text)
	return nil
}

func (f *fakeTransport) dispatchCount() int {
	return len(f.groupPokes) + len(f.friendPokes)
}

// fakeRecorder 内存动作记录替身
type fakeRecorder struct {
	records []model.ActionRecord
	err     error
}

func (f *fakeRecorder) RecordAction(_ context.Context, rec model.ActionRecord) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, rec)
	return nil
}

func newTestPokeService(transport *fakeTransport, recorder *fakeRecorder, debug bool) *PokeService {
	resolver := newTestResolver(&fakePersonResolver{}, "")
	return NewPokeService(resolver, transport, recorder, debug, zerolog.Nop())
}

func TestExecuteNoTarget(t *testing.T) {
	transport := &fakeTransport{}
	recorder := &fakeRecorder{}
	svc := newTestPokeService(transport, recorder, false)

	result := svc.Execute(context.Background(), model.ActionInvocation{
		RawResponseText: "这里没有可解析的目标",
	})

	assert.False(t, result.Success)
	assert.Equal(t, "无法找到目标用户ID", result.Message)
	assert.Zero(t, transport.dispatchCount(), "no dispatch on unresolved target")
	assert.Empty(t, recorder.records)
}

func TestExecuteGroupPokeSuccess(t *testing.T) {
	transport := &fakeTransport{}
	recorder := &fakeRecorder{}
	svc := newTestPokeService(transport, recorder, false)

	result := svc.Execute(context.Background(), model.ActionInvocation{
		UserReference:  "123456",
		GroupReference: "789",
		Reason:         "对方让我戳他",
		ChatID:         "chat-1",
	})

	assert.True(t, result.Success)
	assert.Equal(t, "戳一戳成功", result.Message)
	assert.Equal(t, []string{"789/123456"}, transport.groupPokes)
	assert.Empty(t, transport.friendPokes)

	require.Len(t, recorder.records, 1)
	rec := recorder.records[0]
	assert.Equal(t, "poke", rec.ActionName)
	assert.True(t, rec.Done)
	assert.True(t, rec.BuildIntoPrompt)
	assert.Equal(t, "使用了戳一戳，原因：对方让我戳他", rec.PromptDisplay)
	assert.Equal(t, "chat-1", rec.ChatID)
}

func TestExecuteFriendPokeWhenNoGroup(t *testing.T) {
	transport := &fakeTransport{}
	recorder := &fakeRecorder{}
	svc := newTestPokeService(transport, recorder, false)

	result := svc.Execute(context.Background(), model.ActionInvocation{UserReference: "123456"})

	assert.True(t, result.Success)
	assert.Equal(t, []string{"123456"}, transport.friendPokes)
	assert.Empty(t, transport.groupPokes)

	_, group := svc.cooldown.LastTarget()
	assert.Empty(t, group, "direct dispatch clears the stored group")
}

func TestExecuteCooldownSuppressesRepeatTarget(t *testing.T) {
	transport := &fakeTransport{}
	recorder := &fakeRecorder{}
	svc := newTestPokeService(transport, recorder, false)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := base
	svc.now = func() time.Time { return now }

	inv := model.ActionInvocation{UserReference: "111", GroupReference: "222"}

	first := svc.Execute(context.Background(), inv)
	require.True(t, first.Success)

	now = base.Add(10 * time.Second)
	second := svc.Execute(context.Background(), inv)
	assert.False(t, second.Success)
	assert.Equal(t, "避免重复戳同一个人", second.Message)
	assert.Equal(t, 1, transport.dispatchCount(), "no dispatch while suppressed")

	// 窗口过后同一目标重新放行
	now = base.Add(301 * time.Second)
	third := svc.Execute(context.Background(), inv)
	assert.True(t, third.Success)
	assert.Equal(t, 2, transport.dispatchCount())
}

func TestExecuteDifferentGroupNotSuppressed(t *testing.T) {
	transport := &fakeTransport{}
	recorder := &fakeRecorder{}
	svc := newTestPokeService(transport, recorder, false)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	first := svc.Execute(context.Background(), model.ActionInvocation{UserReference: "111"})
	require.True(t, first.Success)

	// 同一用户换群维度，立即放行，存储的群更新为新群
	second := svc.Execute(context.Background(), model.ActionInvocation{UserReference: "111", GroupReference: "222"})
	assert.True(t, second.Success)
	assert.Equal(t, 2, transport.dispatchCount())

	_, group := svc.cooldown.LastTarget()
	assert.Equal(t, "222", group)
}

func TestExecuteDispatchFailure(t *testing.T) {
	transport := &fakeTransport{pokeErr: errors.New("transport down")}
	recorder := &fakeRecorder{}
	svc := newTestPokeService(transport, recorder, true)

	result := svc.Execute(context.Background(), model.ActionInvocation{
		UserReference:  "123456",
		GroupReference: "789",
	})

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "戳一戳失败")
	assert.Empty(t, recorder.records, "no action record on failed dispatch")

	// debug 模式下失败诊断发回会话
	require.Len(t, transport.debugTexts, 1)
	assert.Contains(t, transport.debugTexts[0], "戳一戳失败")
}

func TestExecuteDispatchFailureStillOccupiesWindow(t *testing.T) {
	// 保留既有行为：失败的尝试同样刷新冷却状态
	transport := &fakeTransport{pokeErr: errors.New("transport down")}
	recorder := &fakeRecorder{}
	svc := newTestPokeService(transport, recorder, false)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := base
	svc.now = func() time.Time { return now }

	inv := model.ActionInvocation{UserReference: "111", GroupReference: "222"}
	first := svc.Execute(context.Background(), inv)
	require.False(t, first.Success)

	now = base.Add(10 * time.Second)
	transport.pokeErr = nil
	second := svc.Execute(context.Background(), inv)
	assert.False(t, second.Success)
	assert.Equal(t, "避免重复戳同一个人", second.Message)
}

func TestExecuteRecorderErrorDoesNotFailAction(t *testing.T) {
	transport := &fakeTransport{}
	recorder := &fakeRecorder{err: errors.New("store down")}
	svc := newTestPokeService(transport, recorder, false)

	result := svc.Execute(context.Background(), model.ActionInvocation{UserReference: "123456"})

	assert.True(t, result.Success)
	assert.Equal(t, "戳一戳成功", result.Message)
}
