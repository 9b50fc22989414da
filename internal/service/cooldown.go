package service

import "time"

// pokeCooldownWindow 同一目标的重复戳抑制窗口，固定策略常量
const pokeCooldownWindow = 300 * time.Second

// CooldownState 记录上一次戳的目标与时间，随动作实例存活，不落盘
// 约束：同一 (user, group) 在窗口内只允许一次；群缺省只与群缺省相等
type CooldownState struct {
	lastUser  string
	lastGroup string
	lastTime  time.Time
}

// Blocked 判断给定目标是否处于抑制窗口内
func (s *CooldownState) Blocked(userID, groupID string, now time.Time) bool {
	return s.lastUser == userID &&
		s.lastGroup == groupID &&
		now.Sub(s.lastTime) < pokeCooldownWindow
}

// Update 记录本次目标与时间
// 无论派发成败都会调用，失败的尝试同样会占住窗口（保留既有行为）
func (s *CooldownState) Update(userID, groupID string, now time.Time) {
	s.lastUser = userID
	s.lastGroup = groupID
	s.lastTime = now
}

// LastTarget 返回当前记录的目标，便于观测与测试
func (s *CooldownState) LastTarget() (userID, groupID string) {
	return s.lastUser, s.lastGroup
}
