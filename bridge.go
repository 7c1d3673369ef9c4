/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-12-30 10:52:41
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2025-12-30 10:52:41
 * @FilePath: \go-gsc\bridge.go
 * @Description: 消息桥接器 - 游戏帧路由、单游戏槽位与出站排队
 *
 * Copyright (c) 2025 by kamalyes, All Rights Reserved.
 */
package gsc

import (
	"sync"

	"github.com/kamalyes/go-toolbox/pkg/syncx"
)

// GameHandler 游戏帧处理器
type GameHandler interface {
	HandleGameFrame(frame *Frame)
}

// GameHandlerFunc 函数式游戏帧处理器
type GameHandlerFunc func(frame *Frame)

// HandleGameFrame 实现 GameHandler 接口
func (f GameHandlerFunc) HandleGameFrame(frame *Frame) {
	f(frame)
}

// GameCleanupFunc 游戏注销回调，参数为被注销的游戏ID
type GameCleanupFunc func(gameID string)

// GameRegistration 游戏注册信息，任意时刻至多一个
type GameRegistration struct {
	GameID  string          // 游戏ID
	Handler GameHandler     // 帧处理器
	Cleanup GameCleanupFunc // 注销回调，可为nil
}

// FrameSender 帧发送端，由连接管理器实现
type FrameSender interface {
	Ready() bool
	WriteFrame(frame *Frame) error
}

// MessageBridge 消息桥接器
// 入站方向把游戏帧分发给已注册的游戏，出站方向在未就绪时提供有界排队
type MessageBridge struct {
	mu           sync.RWMutex
	registration *GameRegistration // 当前注册的游戏（至多一个）
	queue        *FrameQueue       // 出站排队
	sender       FrameSender       // 发送端
	logger       GSCLogger
}

// NewMessageBridge 创建消息桥接器
func NewMessageBridge(sender FrameSender, queueCapacity int, log GSCLogger) *MessageBridge {
	if log == nil {
		log = NewDefaultGSCLogger()
	}
	return &MessageBridge{
		queue:  NewFrameQueue(queueCapacity),
		sender: sender,
		logger: log,
	}
}

// ============================================================================
// 游戏注册
// ============================================================================

// RegisterGame 注册游戏处理器（替换语义，不是追加）
// 已有不同游戏注册时，先调用旧游戏的注销回调，再发送离开旧游戏、加入新游戏；
// 同一游戏重复注册只替换处理器与回调，不触发注销/离开/加入
func (b *MessageBridge) RegisterGame(gameID string, handler GameHandler, cleanup GameCleanupFunc) {
	b.mu.Lock()
	previous := b.registration
	b.registration = &GameRegistration{GameID: gameID, Handler: handler, Cleanup: cleanup}
	b.mu.Unlock()

	if previous != nil && previous.GameID == gameID {
		b.logger.DebugKV("游戏处理器已替换", "game_id", gameID)
		return
	}
	if previous != nil {
		b.logger.InfoKV("切换注册游戏", "old_game_id", previous.GameID, "new_game_id", gameID)
		b.runCleanup(previous)
		b.SendToBackend(NewLeaveGameFrame(previous.GameID))
	}
	b.SendToBackend(NewJoinGameFrame(gameID))
}

// UnregisterGame 注销游戏处理器，空ID视为当前注册的游戏
// 离开帧总是发送；只有目标与当前注册一致时才触发注销回调并清空槽位
func (b *MessageBridge) UnregisterGame(gameID string) {
	b.mu.Lock()
	active := b.registration
	if gameID == "" && active != nil {
		gameID = active.GameID
	}
	var target *GameRegistration
	if active != nil && active.GameID == gameID {
		target = active
		b.registration = nil
	}
	b.mu.Unlock()

	if gameID == "" {
		return
	}
	b.SendToBackend(NewLeaveGameFrame(gameID))
	if target != nil {
		b.runCleanup(target)
	}
}

// runCleanup 调用注销回调，崩溃只记录不扩散
func (b *MessageBridge) runCleanup(registration *GameRegistration) {
	if registration.Cleanup == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			b.logger.ErrorKV("游戏注销回调崩溃", "game_id", registration.GameID, "panic", r)
		}
	}()
	registration.Cleanup(registration.GameID)
}

// ActiveGameID 返回当前注册的游戏ID，未注册返回空串
func (b *MessageBridge) ActiveGameID() string {
	return syncx.WithRLockReturnValue(&b.mu, func() string {
		if b.registration == nil {
			return ""
		}
		return b.registration.GameID
	})
}

// ============================================================================
// 入站分发
// ============================================================================

// HandleInbound 处理入站帧
// 游戏帧返回true（已消化）；非游戏帧返回false，交由上层继续分发
func (b *MessageBridge) HandleInbound(frame *Frame) bool {
	if !IsGameFrame(frame.Type) {
		return false
	}

	registration := syncx.WithRLockReturnValue(&b.mu, func() *GameRegistration {
		return b.registration
	})
	if registration == nil {
		b.logger.WarnKV("没有已注册的游戏，丢弃游戏帧", "type", frame.Type, "game_id", frame.GameID)
		return true
	}

	// 处理器崩溃不允许波及读协程
	defer func() {
		if r := recover(); r != nil {
			b.logger.ErrorKV("游戏帧处理器崩溃", "game_id", registration.GameID, "type", frame.Type, "panic", r)
		}
	}()
	registration.Handler.HandleGameFrame(frame)
	return true
}

// ============================================================================
// 出站发送与排队
// ============================================================================

// SendToBackend 发送一帧到服务端
// 就绪时直接发送；未就绪时进入有界队列，队列满拒绝并返回false
func (b *MessageBridge) SendToBackend(frame *Frame) bool {
	if b.sender != nil && b.sender.Ready() {
		if err := b.sender.WriteFrame(frame); err != nil {
			b.logger.WarnKV("帧发送失败", "type", frame.Type, "error", err)
			return false
		}
		return true
	}

	if !b.queue.Push(frame) {
		b.logger.WarnKV("出站队列已满，拒绝新帧", "type", frame.Type, "capacity", b.queue.Cap())
		return false
	}
	b.logger.DebugKV("连接未就绪，帧已排队", "type", frame.Type, "queued", b.queue.Len())
	return true
}

// Drain 连接就绪后按FIFO顺序冲刷排队帧
// 发送失败的帧不回灌队列，避免无限循环
func (b *MessageBridge) Drain() {
	if b.sender == nil || !b.sender.Ready() {
		return
	}
	frames := b.queue.DrainSnapshot()
	if len(frames) == 0 {
		return
	}
	b.logger.InfoKV("冲刷排队帧", "count", len(frames))
	for _, frame := range frames {
		if err := b.sender.WriteFrame(frame); err != nil {
			b.logger.WarnKV("排队帧冲刷失败，帧被丢弃", "type", frame.Type, "error", err)
		}
	}
}

// QueueLen 返回当前排队帧数
func (b *MessageBridge) QueueLen() int {
	return b.queue.Len()
}

// ClearQueue 清空排队帧
func (b *MessageBridge) ClearQueue() {
	b.queue.Clear()
}

// ============================================================================
// 便捷发送
// ============================================================================

// SendGameInput 发送游戏输入
func (b *MessageBridge) SendGameInput(gameID string, input map[string]any) bool {
	return b.SendToBackend(NewGameInputFrame(gameID, input))
}

// SendPlayerReady 发送玩家就绪状态
func (b *MessageBridge) SendPlayerReady(gameID string, ready bool) bool {
	return b.SendToBackend(NewPlayerReadyFrame(gameID, ready))
}
