/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-12-30 11:02:33
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2025-12-30 11:02:33
 * @FilePath: \go-gsc\invite.go
 * @Description: 邀请模型与宽容归一化
 *
 * Copyright (c) 2025 by kamalyes, All Rights Reserved.
 */
package gsc

import (
	"fmt"
	"time"

	"github.com/kamalyes/go-toolbox/pkg/random"
)

// Invitation 游戏邀请
type Invitation struct {
	ID           string       `json:"invite_id"`     // 邀请ID
	FromUserID   int64        `json:"from_user_id"`  // 发起者用户ID
	FromUsername string       `json:"from_username"` // 发起者用户名
	ToUserID     int64        `json:"to_user_id"`    // 接收者用户ID
	ToUsername   string       `json:"to_username"`   // 接收者用户名
	GameType     string       `json:"game_type"`     // 游戏类型
	Status       InviteStatus `json:"status"`        // 当前状态
	CreatedAt    time.Time    `json:"created_at"`    // 创建时间
	ExpiresAt    time.Time    `json:"expires_at"`    // 过期时间
}

// InviteError 邀请错误事件负载（本地校验失败或服务端 invite_error）
type InviteError struct {
	InviteID string `json:"invite_id,omitempty"` // 相关邀请ID，可为空
	Message  string `json:"message"`             // 错误描述
}

// Remaining 返回距离过期的剩余时间
func (inv *Invitation) Remaining(now time.Time) time.Duration {
	return inv.ExpiresAt.Sub(now)
}

// Expired 判断是否已过期
func (inv *Invitation) Expired(now time.Time) bool {
	return !inv.ExpiresAt.After(now)
}

// newSentInviteID 生成发出邀请的ID
func newSentInviteID(now time.Time) string {
	return fmt.Sprintf("invite_%d_%d", now.UnixMilli(), random.RandInt(100000, 999999))
}

// normalizeInvitePayload 把服务端负载归一化为邀请模型
// 字段名兼容多种写法，时间戳兼容毫秒数值与ISO字符串；
// 对已归一化的负载重复归一化得到相同结果
func normalizeInvitePayload(payload map[string]any, now time.Time, ttlCap time.Duration) (*Invitation, error) {
	if payload == nil {
		return nil, ErrInvalidInvitePayload
	}

	invite := &Invitation{
		ID:           payloadString(payload, "inviteId", "invite_id", "id"),
		FromUserID:   payloadInt64(payload, "fromUserId", "from_user_id", "sender_id"),
		FromUsername: payloadString(payload, "fromUsername", "from_username", "sender_username"),
		ToUserID:     payloadInt64(payload, "toUserId", "to_user_id"),
		ToUsername:   payloadString(payload, "toUsername", "to_username"),
		GameType:     payloadString(payload, "gameType", "game_type"),
		Status:       InviteStatusPending,
		CreatedAt:    now,
		ExpiresAt:    normalizeTimestamp(payloadValue(payload, "expiresAt", "expires_at", "expiry"), now, ttlCap),
	}

	if err := invite.validate(); err != nil {
		return nil, err
	}
	return invite, nil
}

// validate 校验必填字段
func (inv *Invitation) validate() error {
	if inv.ID == "" || inv.FromUsername == "" || inv.FromUserID <= 0 {
		return ErrInvalidInvitePayload
	}
	return nil
}

// normalizeTimestamp 归一化过期时间
// 数值按毫秒时间戳解析；字符串按RFC3339解析；其余回落到 now+ttlCap
func normalizeTimestamp(value any, now time.Time, ttlCap time.Duration) time.Time {
	switch v := value.(type) {
	case float64:
		return time.UnixMilli(int64(v))
	case int64:
		return time.UnixMilli(v)
	case int:
		return time.UnixMilli(int64(v))
	case string:
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t
		}
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t
		}
		return now.Add(ttlCap)
	case time.Time:
		return v
	default:
		return now.Add(ttlCap)
	}
}
