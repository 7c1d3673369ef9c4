/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-12-30 10:22:19
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2025-12-30 10:22:19
 * @FilePath: \go-gsc\frame.go
 * @Description: 帧类型定义与分类
 *
 * Copyright (c) 2025 by kamalyes, All Rights Reserved.
 */
package gsc

import "strings"

// FrameType 帧类型
type FrameType = string

// 协议帧类型常量
const (
	FrameTypeAuth        FrameType = "auth"         // 认证请求
	FrameTypeAuthSuccess FrameType = "auth_success" // 认证成功
	FrameTypeAuthFailed  FrameType = "auth_failed"  // 认证失败
	FrameTypePing        FrameType = "ping"         // 心跳
	FrameTypePong        FrameType = "pong"         // 心跳应答
	FrameTypeConnected   FrameType = "connected"    // 服务端会话建立

	FrameTypeJoinGame    FrameType = "join_game"    // 加入游戏
	FrameTypeLeaveGame   FrameType = "leave_game"   // 离开游戏
	FrameTypeGameInput   FrameType = "game_input"   // 游戏输入
	FrameTypePlayerReady FrameType = "player_ready" // 玩家就绪

	FrameTypeGameStarted  FrameType = "game_started"  // 游戏开始
	FrameTypeGameUpdate   FrameType = "game_update"   // 游戏更新
	FrameTypeGameState    FrameType = "game_state"    // 游戏状态
	FrameTypeGameEnded    FrameType = "game_ended"    // 游戏结束
	FrameTypeGameError    FrameType = "game_error"    // 游戏错误
	FrameTypePlayerJoined FrameType = "player_joined" // 玩家加入
	FrameTypePlayerLeft   FrameType = "player_left"   // 玩家离开
	FrameTypeMoveMade     FrameType = "move_made"     // 落子/操作
	FrameTypeTurnChange   FrameType = "turn_change"   // 回合切换

	FrameTypeGameInviteReceived FrameType = "game_invite_received" // 收到邀请（入站）
	FrameTypeSendGameInvite     FrameType = "send_game_invite"     // 发送邀请（出站）
	FrameTypeRespondGameInvite  FrameType = "respond_game_invite"  // 应答邀请（出站）
	FrameTypeInviteSent         FrameType = "invite_sent"          // 邀请已送达确认（入站）
	FrameTypeInviteDeclined     FrameType = "invite_declined"      // 邀请被拒绝（入站）
	FrameTypeInviteExpired      FrameType = "invite_expired"       // 邀请已过期（入站）
	FrameTypeInviteError        FrameType = "invite_error"         // 邀请错误（入站）
)

// Frame 协议帧，帧负载为松散的JSON对象
type Frame struct {
	Type      FrameType      `json:"type"`                 // 帧类型
	RequestID string         `json:"request_id,omitempty"` // 请求标识
	GameID    string         `json:"game_id,omitempty"`    // 游戏ID
	Payload   map[string]any `json:"payload,omitempty"`    // 负载
}

// gameFrameCatalog 固定的游戏帧类型目录
var gameFrameCatalog = map[FrameType]struct{}{
	FrameTypeGameStarted:  {},
	FrameTypeGameUpdate:   {},
	FrameTypeGameState:    {},
	FrameTypeGameEnded:    {},
	FrameTypeGameError:    {},
	FrameTypePlayerJoined: {},
	FrameTypePlayerLeft:   {},
	FrameTypeMoveMade:     {},
	FrameTypeTurnChange:   {},
}

// socialFrameCatalog 社交域帧类型目录
// game_invite_received 虽然带 game_ 前缀，但属于邀请协议，必须先于前缀规则匹配
var socialFrameCatalog = map[FrameType]struct{}{
	FrameTypeGameInviteReceived: {},
	FrameTypeSendGameInvite:     {},
	FrameTypeRespondGameInvite:  {},
	FrameTypeInviteSent:         {},
	FrameTypeInviteDeclined:     {},
	FrameTypeInviteExpired:      {},
	FrameTypeInviteError:        {},
}

// IsGameFrame 判断帧类型是否属于游戏帧
// 已知社交帧优先判负；其余命中固定目录，或带 game_/player_ 前缀，或类型包含 ready 子串
func IsGameFrame(frameType FrameType) bool {
	if _, ok := socialFrameCatalog[frameType]; ok {
		return false
	}
	if _, ok := gameFrameCatalog[frameType]; ok {
		return true
	}
	if strings.HasPrefix(frameType, "game_") || strings.HasPrefix(frameType, "player_") {
		return true
	}
	return strings.Contains(frameType, "ready")
}

// IsInviteFrame 判断帧类型是否属于入站邀请帧
func IsInviteFrame(frameType FrameType) bool {
	switch frameType {
	case FrameTypeGameInviteReceived, FrameTypeInviteSent, FrameTypeInviteDeclined,
		FrameTypeInviteExpired, FrameTypeInviteError:
		return true
	default:
		return false
	}
}

// ============================================================================
// 帧构造辅助
// ============================================================================

// NewAuthFrame 构造认证帧
func NewAuthFrame(token string) *Frame {
	return &Frame{
		Type:    FrameTypeAuth,
		Payload: map[string]any{"token": token},
	}
}

// NewPingFrame 构造心跳帧
func NewPingFrame() *Frame {
	return &Frame{Type: FrameTypePing}
}

// NewJoinGameFrame 构造加入游戏帧
func NewJoinGameFrame(gameID string) *Frame {
	return &Frame{Type: FrameTypeJoinGame, GameID: gameID}
}

// NewLeaveGameFrame 构造离开游戏帧
func NewLeaveGameFrame(gameID string) *Frame {
	return &Frame{Type: FrameTypeLeaveGame, GameID: gameID}
}

// NewGameInputFrame 构造游戏输入帧
func NewGameInputFrame(gameID string, input map[string]any) *Frame {
	return &Frame{Type: FrameTypeGameInput, GameID: gameID, Payload: input}
}

// NewPlayerReadyFrame 构造玩家就绪帧
func NewPlayerReadyFrame(gameID string, ready bool) *Frame {
	return &Frame{
		Type:    FrameTypePlayerReady,
		GameID:  gameID,
		Payload: map[string]any{"ready": ready},
	}
}

// NewSendInviteFrame 构造发送邀请帧
func NewSendInviteFrame(invite *Invitation) *Frame {
	return &Frame{
		Type: FrameTypeSendGameInvite,
		Payload: map[string]any{
			"toUserId": invite.ToUserID,
			"inviteId": invite.ID,
		},
	}
}

// NewInviteResponseFrame 构造邀请应答帧
func NewInviteResponseFrame(inviteID string, accept bool) *Frame {
	return &Frame{
		Type: FrameTypeRespondGameInvite,
		Payload: map[string]any{
			"inviteId": inviteID,
			"accept":   accept,
		},
	}
}
