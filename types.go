/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-12-30 10:12:08
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2025-12-30 10:12:08
 * @FilePath: \go-gsc\types.go
 * @Description: 游戏会话客户端类型定义
 *
 * Copyright (c) 2025 by kamalyes, All Rights Reserved.
 */
package gsc

import "time"

// ConnectionState 连接状态
type ConnectionState string

const (
	ConnectionStateDisconnected ConnectionState = "disconnected" // 未连接
	ConnectionStateConnecting   ConnectionState = "connecting"   // 连接中
	ConnectionStateConnected    ConnectionState = "connected"    // 已连接
	ConnectionStateReconnecting ConnectionState = "reconnecting" // 重连中
	ConnectionStateFailed       ConnectionState = "failed"       // 已失败（超过最大重试次数）
)

// String 实现Stringer接口
func (s ConnectionState) String() string {
	return string(s)
}

// IsValid 检查连接状态是否有效
func (s ConnectionState) IsValid() bool {
	switch s {
	case ConnectionStateDisconnected, ConnectionStateConnecting,
		ConnectionStateConnected, ConnectionStateReconnecting, ConnectionStateFailed:
		return true
	default:
		return false
	}
}

// CircuitState 熔断器状态
type CircuitState int

const (
	CircuitClosed   CircuitState = iota // 关闭（正常放行）
	CircuitOpen                         // 打开（快速拒绝）
	CircuitHalfOpen                     // 半开（允许探测）
)

// String 实现Stringer接口
func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// InviteStatus 邀请状态
type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"  // 待处理
	InviteStatusAccepted InviteStatus = "accepted" // 已接受
	InviteStatusDeclined InviteStatus = "declined" // 已拒绝
	InviteStatusExpired  InviteStatus = "expired"  // 已过期
)

// String 实现Stringer接口
func (s InviteStatus) String() string {
	return string(s)
}

// IsValid 检查邀请状态是否有效
func (s InviteStatus) IsValid() bool {
	switch s {
	case InviteStatusPending, InviteStatusAccepted, InviteStatusDeclined,
		InviteStatusExpired:
		return true
	default:
		return false
	}
}

// IsTerminal 判断是否为终态（终态后不再变更）
func (s InviteStatus) IsTerminal() bool {
	switch s {
	case InviteStatusAccepted, InviteStatusDeclined, InviteStatusExpired:
		return true
	default:
		return false
	}
}

// SessionSnapshot 会话调试快照
type SessionSnapshot struct {
	ConnectionState  ConnectionState `json:"connection_state"`  // 当前连接状态
	CircuitState     CircuitState    `json:"circuit_state"`     // 熔断器状态
	Authenticated    bool            `json:"authenticated"`     // 是否已认证
	ReconnectAttempt int             `json:"reconnect_attempt"` // 当前重连次数
	QueuedFrames     int             `json:"queued_frames"`     // 待发送帧数
	ActiveGameID     string          `json:"active_game_id"`    // 当前注册的游戏ID
	ReceivedInvites  int             `json:"received_invites"`  // 收到的邀请数
	SentInvites      int             `json:"sent_invites"`      // 发出的邀请数
	ServerSessionID  string          `json:"server_session_id"` // 服务端会话ID
	SnapshotAt       time.Time       `json:"snapshot_at"`       // 快照时间
}
