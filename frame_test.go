/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-12-30 11:47:33
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2025-12-30 11:47:33
 * @FilePath: \go-gsc\frame_test.go
 * @Description:
 *
 * Copyright (c) 2025 by kamalyes, All Rights Reserved.
 */
package gsc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestIsGameFrameCatalog 测试固定目录内的游戏帧类型
func TestIsGameFrameCatalog(t *testing.T) {
	catalog := []string{
		FrameTypeGameStarted, FrameTypeGameUpdate, FrameTypeGameState,
		FrameTypeGameEnded, FrameTypeGameError, FrameTypePlayerJoined,
		FrameTypePlayerLeft, FrameTypeMoveMade, FrameTypeTurnChange,
	}
	for _, frameType := range catalog {
		assert.True(t, IsGameFrame(frameType), "catalog type should be a game frame: %s", frameType)
	}
}

// TestIsGameFramePrefixes 测试前缀与子串规则
func TestIsGameFramePrefixes(t *testing.T) {
	assert.True(t, IsGameFrame("game_custom_event"), "game_ prefix")
	assert.True(t, IsGameFrame("player_score"), "player_ prefix")
	assert.True(t, IsGameFrame("all_players_ready"), "ready substring")
	assert.True(t, IsGameFrame("ready_check"), "ready substring at head")
}

// TestIsGameFrameNegatives 测试非游戏帧
func TestIsGameFrameNegatives(t *testing.T) {
	for _, frameType := range []string{
		FrameTypeAuth, FrameTypeAuthSuccess, FrameTypePing, FrameTypePong,
		FrameTypeConnected, "chat_message", "notification",
	} {
		assert.False(t, IsGameFrame(frameType), "should not be a game frame: %s", frameType)
	}
}

// TestIsGameFrameSocialCatalogWinsOverPrefix 测试社交帧优先于前缀规则
// game_invite_received 带 game_ 前缀但属于邀请协议，必须判为非游戏帧
func TestIsGameFrameSocialCatalogWinsOverPrefix(t *testing.T) {
	for _, frameType := range []string{
		FrameTypeGameInviteReceived, FrameTypeSendGameInvite, FrameTypeRespondGameInvite,
		FrameTypeInviteSent, FrameTypeInviteDeclined, FrameTypeInviteExpired, FrameTypeInviteError,
	} {
		assert.False(t, IsGameFrame(frameType), "social frame must not classify as game: %s", frameType)
		assert.Equal(t, IsInviteFrame(frameType), frameType != FrameTypeSendGameInvite && frameType != FrameTypeRespondGameInvite,
			"only inbound social frames are invite frames: %s", frameType)
	}
}

// TestDecodeFrameNestedPayload 测试嵌套负载解码
func TestDecodeFrameNestedPayload(t *testing.T) {
	data := []byte(`{"type":"game_invite_received","request_id":"req-1","payload":{"inviteId":"inv-1","fromUserId":42}}`)
	frame, err := DecodeFrame(data)
	require.NoError(t, err)

	assert.Equal(t, FrameTypeGameInviteReceived, frame.Type)
	assert.Equal(t, "req-1", frame.RequestID)
	assert.Equal(t, "inv-1", payloadString(frame.Payload, "inviteId"))
	assert.Equal(t, int64(42), payloadInt64(frame.Payload, "fromUserId"))
}

// TestDecodeFrameFlatPayload 测试平铺负载解码
func TestDecodeFrameFlatPayload(t *testing.T) {
	data := []byte(`{"type":"game_update","game_id":"g-7","round":3,"board":"state"}`)
	frame, err := DecodeFrame(data)
	require.NoError(t, err)

	assert.Equal(t, FrameTypeGameUpdate, frame.Type)
	assert.Equal(t, "g-7", frame.GameID)
	assert.Equal(t, int64(3), payloadInt64(frame.Payload, "round"))
	assert.Equal(t, "state", payloadString(frame.Payload, "board"))
}

// TestDecodeFrameCamelCaseGameID 测试gameId字段兼容
func TestDecodeFrameCamelCaseGameID(t *testing.T) {
	frame, err := DecodeFrame([]byte(`{"type":"game_started","gameId":"g-9"}`))
	require.NoError(t, err)
	assert.Equal(t, "g-9", frame.GameID)
}

// TestDecodeFrameInvalid 测试非法帧解码
func TestDecodeFrameInvalid(t *testing.T) {
	_, err := DecodeFrame([]byte(`not json`))
	assert.Error(t, err)

	_, err = DecodeFrame([]byte(`{"payload":{}}`))
	assert.Error(t, err, "frame without type should be rejected")
	assert.True(t, isInvalidFrameError(err))
}

// TestEncodeFrame 测试帧编码
func TestEncodeFrame(t *testing.T) {
	data, err := EncodeFrame(NewPlayerReadyFrame("g-1", true))
	require.NoError(t, err)

	frame, err := DecodeFrame(data)
	require.NoError(t, err)
	assert.Equal(t, FrameTypePlayerReady, frame.Type)
	assert.Equal(t, "g-1", frame.GameID)
	assert.True(t, payloadBool(frame.Payload, "ready"))

	_, err = EncodeFrame(nil)
	assert.Error(t, err)
	_, err = EncodeFrame(&Frame{})
	assert.Error(t, err, "frame without type should be rejected")
}

// TestNewAuthFrame 测试认证帧构造
func TestNewAuthFrame(t *testing.T) {
	frame := NewAuthFrame("tok-1")
	assert.Equal(t, FrameTypeAuth, frame.Type)
	assert.Equal(t, "tok-1", payloadString(frame.Payload, "token"))
}

// TestNewSendInviteFrame 测试发送邀请帧构造
func TestNewSendInviteFrame(t *testing.T) {
	frame := NewSendInviteFrame(&Invitation{ID: "inv-1", ToUserID: 42})
	assert.Equal(t, FrameTypeSendGameInvite, frame.Type)
	assert.Equal(t, "inv-1", payloadString(frame.Payload, "inviteId"))
	assert.Equal(t, int64(42), payloadInt64(frame.Payload, "toUserId"))
}

// TestNewInviteResponseFrame 测试邀请应答帧构造
func TestNewInviteResponseFrame(t *testing.T) {
	accept := NewInviteResponseFrame("inv-1", true)
	assert.Equal(t, FrameTypeRespondGameInvite, accept.Type)
	assert.Equal(t, "inv-1", payloadString(accept.Payload, "inviteId"))
	assert.True(t, payloadBool(accept.Payload, "accept"))

	decline := NewInviteResponseFrame("inv-2", false)
	assert.False(t, payloadBool(decline.Payload, "accept"))
}
