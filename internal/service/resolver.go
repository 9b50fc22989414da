package service

import (
	"context"
	"regexp"

	"github.com/rs/zerolog"

	"github.com/XBC-D2O/acpoke-plugin/internal/model"
)

// PersonResolver 人员身份解析接口（由 person.Client 实现，测试时可替换）
type PersonResolver interface {
	GetPersonIDByName(ctx context.Context, name string) (string, error)
	GetPersonValue(ctx context.Context, personID, key string) (string, error)
}

// 生成文本中兜底解析 ID 的模式，内容不可信，仅作最后手段
var (
	groupIDPattern = regexp.MustCompile(`group_id:\s*(\d+)`)
	userIDPattern  = regexp.MustCompile(`user_id:\s*(\d+)`)
)

// TargetResolver 将含糊的触发参数解析为具体的 (user_id, group_id)
type TargetResolver struct {
	persons PersonResolver
	// defaultGroupID 实例级群 ID，作为群号解析的最后一级回退
	defaultGroupID string
	logger         zerolog.Logger
}

// NewTargetResolver 创建目标解析器
func NewTargetResolver(persons PersonResolver, defaultGroupID string, logger zerolog.Logger) *TargetResolver {
	return &TargetResolver{
		persons:        persons,
		defaultGroupID: defaultGroupID,
		logger:         logger,
	}
}

// Resolve 按固定优先级解析目标，任一环节命中即采用：
//  1. 群号：触发参数 → 消息元数据 → 聊天流 → 实例级群号（"None" 视为缺省）
//  2. 用户引用为纯数字时直接用作 QQ 号，不触发人员查询
//  3. 人员 API：显示名 → person_id → user_id 属性；查询出错仅记日志，继续兜底
//  4. 生成文本扫描 group_id/user_id 模式；命中的群号覆盖已有群号
//
// 未解析出用户 ID 时整体失败，返回空/空
func (r *TargetResolver) Resolve(ctx context.Context, inv model.ActionInvocation) (userID, groupID string) {
	groupID = normalizeGroupRef(inv.GroupReference)
	if groupID == "" {
		groupID = normalizeGroupRef(inv.MessageGroupID)
	}
	if groupID == "" {
		groupID = normalizeGroupRef(inv.StreamGroupID)
	}
	if groupID == "" {
		groupID = r.defaultGroupID
	}

	// 纯数字引用直接短路，不走人员查询
	if inv.UserReference != "" && isDigits(inv.UserReference) {
		return inv.UserReference, groupID
	}

	if inv.UserReference != "" {
		personID, err := r.persons.GetPersonIDByName(ctx, inv.UserReference)
		if err != nil {
			r.logger.Error().Err(err).Str("name", inv.UserReference).Msg("person api 查找出错")
		} else if personID != "" {
			uid, err := r.persons.GetPersonValue(ctx, personID, "user_id")
			if err != nil {
				r.logger.Error().Err(err).Str("person_id", personID).Msg("person api 取 user_id 出错")
			} else if uid != "" {
				return uid, groupID
			}
		}
	}

	if m := groupIDPattern.FindStringSubmatch(inv.RawResponseText); m != nil {
		groupID = m[1]
	}
	if m := userIDPattern.FindStringSubmatch(inv.RawResponseText); m != nil {
		return m[1], groupID
	}

	return "", ""
}

// normalizeGroupRef 把字符串哨兵 "None" 归一为缺省值
func normalizeGroupRef(ref string) string {
	if ref == "None" {
		return ""
	}
	return ref
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
