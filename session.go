/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-12-30 11:25:16
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2025-12-30 11:25:16
 * @FilePath: \go-gsc\session.go
 * @Description: Session 组合根 - 连接管理器、消息桥接器与邀请存储的装配
 *
 * Copyright (c) 2025 by kamalyes, All Rights Reserved.
 */
package gsc

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/kamalyes/go-toolbox/pkg/idgen"
)

// IDGenerator 请求ID生成器接口
type IDGenerator interface {
	GenerateRequestID() string
}

// Navigator 游戏开局导航钩子
type Navigator interface {
	NavigateToGame(gameID string)
}

// NavigatorFunc 函数式导航钩子
type NavigatorFunc func(gameID string)

// NavigateToGame 实现 Navigator 接口
func (f NavigatorFunc) NavigateToGame(gameID string) {
	f(gameID)
}

// Session 游戏会话客户端
// 通过构造注入组装连接管理器、消息桥接器、邀请存储与邀请业务服务
type Session struct {
	config    *Config
	logger    GSCLogger
	manager   *ConnectionManager
	bridge    *MessageBridge
	store     *InvitationStore
	invites   *InvitationService
	navigator Navigator
	idGen     IDGenerator
	closed    int32

	dialer        *websocket.Dialer
	tokenProvider func() string
}

// Option Session 装配选项
type Option func(*Session)

// WithLogger 指定日志器
func WithLogger(log GSCLogger) Option {
	return func(s *Session) {
		s.logger = log
	}
}

// WithDialer 指定自定义拨号器
func WithDialer(dialer *websocket.Dialer) Option {
	return func(s *Session) {
		s.dialer = dialer
	}
}

// WithTokenProvider 指定令牌提供函数
func WithTokenProvider(f func() string) Option {
	return func(s *Session) {
		s.tokenProvider = f
	}
}

// WithNavigator 指定游戏开局导航钩子
func WithNavigator(nav Navigator) Option {
	return func(s *Session) {
		s.navigator = nav
	}
}

// NewSession 创建游戏会话客户端
func NewSession(config *Config, opts ...Option) *Session {
	if config == nil {
		config = NewDefaultConfig()
	}
	config = config.normalize()

	s := &Session{
		config: config,
		idGen:  idgen.NewDefaultIDGenerator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = initLogger(config.Transport)
	}

	s.manager = NewConnectionManager(config, s.logger)
	s.bridge = NewMessageBridge(s.manager, config.QueueCapacity, s.logger)
	s.store = NewInvitationStore(config.InviteTTLCap, config.StateDebounce, s.logger)
	s.invites = NewInvitationService(s.store, s.bridge, config.InviteRatePerMinute, s.logger)

	if s.dialer != nil {
		s.manager.SetDialer(s.dialer)
	}
	if s.tokenProvider != nil {
		s.manager.SetTokenProvider(s.tokenProvider)
	}

	// 组件间接线
	s.manager.SetFallbackSender(s.bridge.SendToBackend)
	s.manager.OnReady(s.bridge.Drain)
	s.manager.OnStateChange(s.store.SetConnectionState)
	s.manager.OnFrame(s.dispatch)
	return s
}

// ============================================================================
// 访问器
// ============================================================================

// Manager 返回连接管理器
func (s *Session) Manager() *ConnectionManager {
	return s.manager
}

// Bridge 返回消息桥接器
func (s *Session) Bridge() *MessageBridge {
	return s.bridge
}

// Store 返回邀请存储
func (s *Session) Store() *InvitationStore {
	return s.store
}

// Invitations 返回邀请业务服务
func (s *Session) Invitations() *InvitationService {
	return s.invites
}

// ============================================================================
// 生命周期
// ============================================================================

// Connect 发起连接
func (s *Session) Connect(ctx context.Context) error {
	return s.manager.Connect(ctx)
}

// Disconnect 断开连接并清空排队帧
func (s *Session) Disconnect() {
	s.manager.Disconnect()
	s.bridge.ClearQueue()
}

// ForceReconnect 强制重连
func (s *Session) ForceReconnect(ctx context.Context) {
	s.manager.ForceReconnect(ctx)
}

// Close 关闭会话并释放所有资源
func (s *Session) Close() {
	if !atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		return
	}
	s.Disconnect()
	s.store.Cleanup()
}

// ============================================================================
// 发送
// ============================================================================

// SendFrame 发送一帧，必要时补充请求ID
// 已就绪直接发送；未就绪进入有界排队，队列满返回false
func (s *Session) SendFrame(frame *Frame) bool {
	if frame.RequestID == "" {
		frame.RequestID = s.idGen.GenerateRequestID()
	}
	return s.bridge.SendToBackend(frame)
}

// RegisterGame 注册游戏处理器，注销回调可为nil
func (s *Session) RegisterGame(gameID string, handler GameHandler, cleanup GameCleanupFunc) {
	s.bridge.RegisterGame(gameID, handler, cleanup)
}

// UnregisterGame 注销游戏处理器，空ID视为当前注册的游戏
func (s *Session) UnregisterGame(gameID string) {
	s.bridge.UnregisterGame(gameID)
}

// On 注册事件监听器，返回退订函数
func (s *Session) On(event EventType, fn EventListener) (unsubscribe func()) {
	return s.store.On(event, fn)
}

// ============================================================================
// 入站分发
// ============================================================================

// dispatch 分发非连接层帧
// 游戏开局先更新对应已发邀请并触发导航钩子，再交给桥接器；邀请帧写入存储；其余记录后丢弃
func (s *Session) dispatch(frame *Frame) {
	if frame.Type == FrameTypeGameStarted {
		if inviteID := inviteIDFromFrame(frame); inviteID != "" {
			s.store.UpdateSentInviteStatus(inviteID, InviteStatusAccepted)
		}
		if s.navigator != nil {
			s.navigator.NavigateToGame(frame.GameID)
		}
	}

	if s.bridge.HandleInbound(frame) {
		return
	}

	switch frame.Type {
	case FrameTypeGameInviteReceived:
		_, _ = s.store.AddReceivedInvite(frame.Payload)
	case FrameTypeInviteSent:
		// 服务端回执，本地已录入时收敛为同一条记录
		if inviteID := inviteIDFromFrame(frame); inviteID != "" {
			s.store.AddSentInvite(payloadInt64(frame.Payload, "toUserId", "to_user_id"), "", "", inviteID)
		}
	case FrameTypeInviteDeclined:
		s.store.UpdateSentInviteStatus(inviteIDFromFrame(frame), InviteStatusDeclined)
	case FrameTypeInviteExpired:
		s.store.ExpireInvite(inviteIDFromFrame(frame))
	case FrameTypeInviteError:
		s.store.NotifyInviteError(inviteIDFromFrame(frame), payloadString(frame.Payload, "message", "error"))
	default:
		s.logger.DebugKV("未处理的帧", "type", frame.Type)
	}
}

// inviteIDFromFrame 从帧负载提取邀请ID
func inviteIDFromFrame(frame *Frame) string {
	return payloadString(frame.Payload, "inviteId", "invite_id", "id")
}

// ============================================================================
// 调试
// ============================================================================

// DebugSnapshot 返回会话调试快照，未开启调试时返回false
func (s *Session) DebugSnapshot() (*SessionSnapshot, bool) {
	if !s.config.Debug {
		return nil, false
	}
	received, sent := s.store.Counts()
	return &SessionSnapshot{
		ConnectionState:  s.manager.State(),
		CircuitState:     s.manager.CircuitState(),
		Authenticated:    s.manager.Authenticated(),
		ReconnectAttempt: s.manager.Attempts(),
		QueuedFrames:     s.bridge.QueueLen(),
		ActiveGameID:     s.bridge.ActiveGameID(),
		ReceivedInvites:  received,
		SentInvites:      sent,
		ServerSessionID:  s.manager.ServerSessionID(),
		SnapshotAt:       time.Now(),
	}, true
}
