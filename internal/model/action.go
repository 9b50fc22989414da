package model

import "time"

// ActionInvocation 宿主在每次动作触发时传入的参数
// 字段可能缺失或含糊（显示名 / 纯数字 QQ 号混用），由 resolver 做兜底解析
type ActionInvocation struct {
	// UserReference 要戳的用户，可能是纯数字 QQ 号，也可能是显示名称
	UserReference string `json:"user_id,omitempty"`
	// GroupReference 群 ID；字符串 "None" 视为缺省
	GroupReference string `json:"group_id,omitempty"`
	// ReplyReference 回复消息 ID，仅透传
	ReplyReference string `json:"reply_id,omitempty"`
	// Reason 本次触发的原因说明
	Reason string `json:"reason,omitempty"`
	// Reasoning 实例级默认原因（宿主生成），Reason 缺失时回退使用
	Reasoning string `json:"reasoning,omitempty"`
	// RawResponseText 触发该动作的完整生成文本
	// 仅作为最后兜底的 ID 解析来源，内容不可信
	RawResponseText string `json:"llm_response_text,omitempty"`
	// MessageGroupID 当前消息元数据中的群 ID
	MessageGroupID string `json:"message_group_id,omitempty"`
	// StreamGroupID 聊天流上的群 ID
	StreamGroupID string `json:"stream_group_id,omitempty"`
	// ChatID 会话标识，用于动作记录与调试输出
	ChatID string `json:"chat_id,omitempty"`
}

// EffectiveReason 返回动作原因：优先本次 Reason，其次实例级 Reasoning，最后 "无"
func (inv ActionInvocation) EffectiveReason() string {
	if inv.Reason != "" {
		return inv.Reason
	}
	if inv.Reasoning != "" {
		return inv.Reasoning
	}
	return "无"
}

// DisplayName 返回用于展示的目标名称：优先原始引用（显示名），否则回退到已解析的 ID
func (inv ActionInvocation) DisplayName(resolvedUserID string) string {
	if inv.UserReference != "" {
		return inv.UserReference
	}
	return resolvedUserID
}

// ExecuteResult 动作执行结果，返回给宿主
type ExecuteResult struct {
	// TaskID 本次调用的追踪 ID
	TaskID string `json:"task_id"`
	// Success 是否执行成功
	Success bool `json:"success"`
	// Message 结果说明（成功 / 失败原因）
	Message string `json:"message"`
}

// ActionRecord 写入动作历史存储的记录，供后续生成上下文消费
type ActionRecord struct {
	TaskID          string    `json:"task_id"`
	ChatID          string    `json:"chat_id"`
	GroupID         string    `json:"group_id,omitempty"`
	UserID          string    `json:"user_id"`
	ActionName      string    `json:"action_name"`
	PromptDisplay   string    `json:"prompt_display"`
	BuildIntoPrompt bool      `json:"build_into_prompt"`
	Done            bool      `json:"done"`
	Reason          string    `json:"reason"`
	CreatedAt       time.Time `json:"created_at"`
}

// PluginInfo 插件静态描述，由宿主读取（名称、版本、激活关键字等）
type PluginInfo struct {
	Name               string   `json:"name"`
	Version            string   `json:"version"`
	Description        string   `json:"description"`
	Enabled            bool     `json:"enabled"`
	ActivationKeywords []string `json:"activation_keywords,omitempty"`
	ParallelAction     bool     `json:"parallel_action"`
}
