package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/XBC-D2O/acpoke-plugin/internal/metrics"
	"github.com/XBC-D2O/acpoke-plugin/internal/model"
)

// PokeTransport 戳一戳派发通道（由 onebot.Client 实现，测试时可替换）
// 群聊与私聊两个维度发送同一条 SEND_POKE 逻辑命令
type PokeTransport interface {
	GroupPoke(ctx context.Context, groupID, userID, display string) (string, error)
	FriendPoke(ctx context.Context, userID, display string) (string, error)
	SendGroupMessage(ctx context.Context, groupID, text string) error
	SendPrivateMessage(ctx context.Context, userID, text string) error
}

// ActionRecorder 动作历史记录（由 store.ActionLog 实现）
type ActionRecorder interface {
	RecordAction(ctx context.Context, rec model.ActionRecord) error
}

// PokeService 戳一戳动作：解析目标 → 冷却检查 → 派发 → 记录
// 单个实例内按次串行处理，冷却状态的读写不加锁
type PokeService struct {
	resolver  *TargetResolver
	transport PokeTransport
	recorder  ActionRecorder
	cooldown  CooldownState
	// debug 打开后输出解析参数日志，并在派发失败时把诊断文本发回会话
	debug  bool
	logger zerolog.Logger
	now    func() time.Time
}

// NewPokeService 创建戳一戳服务
func NewPokeService(resolver *TargetResolver, transport PokeTransport, recorder ActionRecorder, debug bool, logger zerolog.Logger) *PokeService {
	return &PokeService{
		resolver:  resolver,
		transport: transport,
		recorder:  recorder,
		debug:     debug,
		logger:    logger,
		now:       time.Now,
	}
}

// Execute 执行一次戳一戳动作，单线路径：
// 解析目标 → 冷却检查 → 派发 → 更新冷却状态 → 记录动作历史
// 所有失败都在本地收敛为带说明的结果，不向上抛出
func (s *PokeService) Execute(ctx context.Context, inv model.ActionInvocation) model.ExecuteResult {
	taskID := uuid.NewString()

	userID, groupID := s.resolver.Resolve(ctx, inv)
	if s.debug {
		s.logger.Info().
			Str("task_id", taskID).
			Str("user_id", userID).
			Str("group_id", groupID).
			Msg("poke 参数")
	}

	if userID == "" {
		metrics.PokesUnresolved.Inc()
		return model.ExecuteResult{TaskID: taskID, Success: false, Message: "无法找到目标用户ID"}
	}

	now := s.now()
	if s.cooldown.Blocked(userID, groupID, now) {
		metrics.PokesSuppressed.Inc()
		return model.ExecuteResult{TaskID: taskID, Success: false, Message: "避免重复戳同一个人"}
	}

	display := fmt.Sprintf("[戳了戳 %s]", inv.DisplayName(userID))
	scope := "friend"
	var err error
	if groupID != "" {
		scope = "group"
		_, err = s.transport.GroupPoke(ctx, groupID, userID, display)
	} else {
		_, err = s.transport.FriendPoke(ctx, userID, display)
	}

	// 无论派发成败都刷新冷却目标与时间；私聊派发会把群维度清为缺省
	s.cooldown.Update(userID, groupID, now)

	if err != nil {
		metrics.PokesFailed.WithLabelValues(scope).Inc()
		s.logger.Error().Err(err).
			Str("task_id", taskID).
			Str("scope", scope).
			Msg("戳一戳派发失败")
		msg := fmt.Sprintf("戳一戳失败: %v", err)
		if s.debug {
			s.sendDebugText(ctx, groupID, userID, msg)
		}
		return model.ExecuteResult{TaskID: taskID, Success: false, Message: msg}
	}

	metrics.PokesDispatched.WithLabelValues(scope).Inc()

	reason := inv.EffectiveReason()
	rec := model.ActionRecord{
		TaskID:          taskID,
		ChatID:          inv.ChatID,
		GroupID:         groupID,
		UserID:          userID,
		ActionName:      "poke",
		PromptDisplay:   "使用了戳一戳，原因：" + reason,
		BuildIntoPrompt: true,
		Done:            true,
		Reason:          reason,
		CreatedAt:       now,
	}
	if err := s.recorder.RecordAction(ctx, rec); err != nil {
		// 历史记录尽力而为，写入失败不影响动作结果
		s.logger.Error().Err(err).Str("task_id", taskID).Msg("动作记录写入失败")
	}

	return model.ExecuteResult{TaskID: taskID, Success: true, Message: "戳一戳成功"}
}

// sendDebugText 把失败诊断发回触发会话，尽力而为
func (s *PokeService) sendDebugText(ctx context.Context, groupID, userID, text string) {
	var err error
	if groupID != "" {
		err = s.transport.SendGroupMessage(ctx, groupID, text)
	} else {
		err = s.transport.SendPrivateMessage(ctx, userID, text)
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("调试诊断发送失败")
	}
}
