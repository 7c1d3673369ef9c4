/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-12-30 10:47:36
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2025-12-30 10:47:36
 * @FilePath: \go-gsc\manager.go
 * @Description: 连接管理器 - 连接生命周期、认证、心跳、退避重连与熔断
 *
 * Copyright (c) 2025 by kamalyes, All Rights Reserved.
 */
package gsc

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/jpillora/backoff"
	"github.com/kamalyes/go-toolbox/pkg/syncx"
)

// 定时器键
const (
	timerKeyForceReconnect = "force_reconnect"
)

// ConnectionManager 连接管理器
// 持有唯一的 WebSocket 连接，负责认证握手、心跳、退避重连与熔断
type ConnectionManager struct {
	mu           sync.Mutex
	config       *Config
	logger       GSCLogger
	socket       *Socket
	stateMachine *syncx.StateMachine[ConnectionState] // 连接状态机
	circuit      *CircuitBreaker                      // 连接熔断器
	timers       *TimerRegistry                       // 可取消定时器
	dialer       *websocket.Dialer                    // 自定义拨号器（可选）

	attempts      int32        // 当前重连次数
	authenticated int32        // 是否已认证（原子）
	connecting    int32        // 连接进行中标记（原子）
	sessionID     atomic.Value // 服务端会话ID string
	cancel        context.CancelFunc

	// 回调函数
	onStateChange  atomic.Value // func(ConnectionState)
	onAuthResult   atomic.Value // func(error)
	onFrame        atomic.Value // func(*Frame)
	onReady        atomic.Value // func()
	onConnectError atomic.Value // func(error)
	onDisconnected atomic.Value // func(error)
	fallbackSend   atomic.Value // func(*Frame) bool
	tokenProvider  atomic.Value // func() string
}

// NewConnectionManager 创建连接管理器
func NewConnectionManager(config *Config, log GSCLogger) *ConnectionManager {
	if config == nil {
		config = NewDefaultConfig()
	}
	config = config.normalize()
	if log == nil {
		log = initLogger(config.Transport)
	}

	// 初始化状态机并配置允许的状态转换
	sm := syncx.NewStateMachine(ConnectionStateDisconnected)
	sm.AllowTransitions(ConnectionStateDisconnected, ConnectionStateConnecting)
	sm.AllowTransitions(ConnectionStateConnecting, ConnectionStateConnected, ConnectionStateReconnecting, ConnectionStateDisconnected, ConnectionStateFailed)
	sm.AllowTransitions(ConnectionStateConnected, ConnectionStateDisconnected, ConnectionStateReconnecting)
	sm.AllowTransitions(ConnectionStateReconnecting, ConnectionStateConnected, ConnectionStateDisconnected, ConnectionStateFailed)
	sm.AllowTransitions(ConnectionStateFailed, ConnectionStateConnecting, ConnectionStateDisconnected)

	return &ConnectionManager{
		config:       config,
		logger:       log,
		stateMachine: sm,
		circuit:      NewCircuitBreaker(config.FailureThreshold, config.RecoveryTimeout),
		timers:       NewTimerRegistry(),
	}
}

// ============================================================================
// 回调注册
// ============================================================================

// OnStateChange 设置连接状态变更回调
func (m *ConnectionManager) OnStateChange(f func(state ConnectionState)) {
	m.onStateChange.Store(f)
}

// OnAuthResult 设置认证结果回调，认证成功时err为nil
func (m *ConnectionManager) OnAuthResult(f func(err error)) {
	m.onAuthResult.Store(f)
}

// OnFrame 设置非连接层帧的接收回调
func (m *ConnectionManager) OnFrame(f func(frame *Frame)) {
	m.onFrame.Store(f)
}

// OnReady 设置就绪回调（已连接且已认证后触发）
func (m *ConnectionManager) OnReady(f func()) {
	m.onReady.Store(f)
}

// OnConnectError 设置连接出错回调
func (m *ConnectionManager) OnConnectError(f func(err error)) {
	m.onConnectError.Store(f)
}

// OnDisconnected 设置连接断开回调
func (m *ConnectionManager) OnDisconnected(f func(err error)) {
	m.onDisconnected.Store(f)
}

// SetFallbackSender 设置未就绪时的兜底发送函数（进入排队）
func (m *ConnectionManager) SetFallbackSender(f func(frame *Frame) bool) {
	m.fallbackSend.Store(f)
}

// SetTokenProvider 设置令牌提供函数，优先于配置中的静态令牌
func (m *ConnectionManager) SetTokenProvider(f func() string) {
	m.tokenProvider.Store(f)
}

// SetDialer 设置自定义拨号器
func (m *ConnectionManager) SetDialer(dialer *websocket.Dialer) {
	m.mu.Lock()
	m.dialer = dialer
	m.mu.Unlock()
}

// ============================================================================
// 查询
// ============================================================================

// State 返回当前连接状态
func (m *ConnectionManager) State() ConnectionState {
	return m.stateMachine.CurrentState()
}

// Authenticated 返回是否已认证
func (m *ConnectionManager) Authenticated() bool {
	return atomic.LoadInt32(&m.authenticated) == 1
}

// Ready 返回是否已连接且已认证
func (m *ConnectionManager) Ready() bool {
	return m.State() == ConnectionStateConnected && m.Authenticated()
}

// Attempts 返回当前重连次数
func (m *ConnectionManager) Attempts() int {
	return int(atomic.LoadInt32(&m.attempts))
}

// CircuitState 返回熔断器状态
func (m *ConnectionManager) CircuitState() CircuitState {
	return m.circuit.State()
}

// ServerSessionID 返回服务端会话ID
func (m *ConnectionManager) ServerSessionID() string {
	if v := m.sessionID.Load(); v != nil {
		return v.(string)
	}
	return ""
}

// token 返回当前令牌
func (m *ConnectionManager) token() string {
	if f := m.tokenProvider.Load(); f != nil {
		return f.(func() string)()
	}
	return m.config.Token
}

// ============================================================================
// 连接生命周期
// ============================================================================

// Connect 发起连接
// 幂等：已连接或连接进行中时直接返回，不产生第二条连接
func (m *ConnectionManager) Connect(ctx context.Context) error {
	if m.State() == ConnectionStateConnected {
		return nil
	}
	if !atomic.CompareAndSwapInt32(&m.connecting, 0, 1) {
		return ErrConnectInFlight
	}

	// 连接前检查令牌是否已过期（无法解析的令牌交由服务端判定）
	if token := m.token(); token != "" && tokenExpired(token) {
		atomic.StoreInt32(&m.connecting, 0)
		m.notifyAuthResult(ErrTokenExpired)
		return ErrTokenExpired
	}

	if err := m.stateMachine.TransitionTo(ConnectionStateConnecting); err != nil {
		atomic.StoreInt32(&m.connecting, 0)
		return err
	}
	m.notifyStateChange(ConnectionStateConnecting)

	runCtx, cancel := context.WithCancel(ctx)
	m.mu.Lock()
	m.cancel = cancel
	m.mu.Unlock()

	syncx.Go(runCtx).
		OnPanic(func(r interface{}) {
			m.logger.ErrorKV("连接协程崩溃", "panic", r)
			atomic.StoreInt32(&m.connecting, 0)
		}).
		Exec(func() {
			m.connectLoop(runCtx)
		})
	return nil
}

// connectLoop 连接重试循环，直到成功、超限或被取消
func (m *ConnectionManager) connectLoop(ctx context.Context) {
	defer atomic.StoreInt32(&m.connecting, 0)

	b := m.createBackoff()
	for {
		if ctx.Err() != nil {
			return
		}

		// 熔断器打开时快速失败，等恢复窗口后再探测
		if !m.circuit.Allow() {
			m.logger.WarnKV("熔断器打开，暂停连接尝试",
				"circuit_state", m.circuit.State().String(),
				"recovery_timeout", m.config.RecoveryTimeout,
			)
			m.notifyConnectError(ErrCircuitOpen)
			if !m.waitOrDone(ctx, m.config.RecoveryTimeout) {
				return
			}
			continue
		}

		if err := m.dial(); err != nil {
			m.circuit.RecordFailure()
			attempts := atomic.AddInt32(&m.attempts, 1)
			m.logger.WarnKV("连接失败",
				"url", m.config.URL,
				"attempt", attempts,
				"error", err,
			)
			m.notifyConnectError(err)

			if int(attempts) >= m.config.MaxRetries {
				_ = m.stateMachine.TransitionTo(ConnectionStateFailed)
				m.notifyStateChange(ConnectionStateFailed)
				m.logger.ErrorKV("超过最大重连次数，停止重连", "max_retries", m.config.MaxRetries)
				m.notifyConnectError(ErrMaxRetriesReached)
				return
			}

			if m.State() != ConnectionStateReconnecting {
				_ = m.stateMachine.TransitionTo(ConnectionStateReconnecting)
				m.notifyStateChange(ConnectionStateReconnecting)
			}
			if !m.waitOrDone(ctx, b.Duration()) {
				return
			}
			continue
		}

		m.onConnectionSuccess(ctx)
		return
	}
}

// waitOrDone 等待指定时长，上下文取消时返回false
func (m *ConnectionManager) waitOrDone(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// createBackoff 创建指数退避策略
func (m *ConnectionManager) createBackoff() *backoff.Backoff {
	transport := m.config.Transport
	return &backoff.Backoff{
		Min:    transport.MinRecTime,
		Max:    transport.MaxRecTime,
		Factor: transport.RecFactor,
		Jitter: m.config.Jitter,
	}
}

// dial 建立一条新的底层连接
func (m *ConnectionManager) dial() error {
	socket := NewSocket(m.config.URL).
		WithWriteTimeout(m.config.Transport.WriteTimeout)
	m.mu.Lock()
	if m.dialer != nil {
		socket.WithDialer(m.dialer)
	}
	m.mu.Unlock()

	if err := socket.Dial(m.config.ConnectTimeout); err != nil {
		return err
	}

	m.mu.Lock()
	m.socket = socket
	m.mu.Unlock()
	return nil
}

// currentSocket 返回当前底层连接
func (m *ConnectionManager) currentSocket() *Socket {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.socket
}

// onConnectionSuccess 连接成功后的处理
func (m *ConnectionManager) onConnectionSuccess(ctx context.Context) {
	_ = m.stateMachine.TransitionTo(ConnectionStateConnected)
	m.notifyStateChange(ConnectionStateConnected)

	// 连接成功即清零重连计数并闭合熔断器
	atomic.StoreInt32(&m.attempts, 0)
	m.circuit.RecordSuccess()

	socket := m.currentSocket()
	socket.Conn.SetReadLimit(m.config.Transport.MaxMessageSize)

	m.logger.InfoKV("连接成功", "url", m.config.URL)

	// 发送认证帧
	m.authenticate(socket)

	// 启动心跳与读协程
	syncx.Go(ctx).
		OnPanic(func(r interface{}) {
			m.logger.ErrorKV("心跳协程崩溃", "panic", r)
		}).
		Exec(func() {
			m.heartbeatLoop(ctx, socket)
		})
	syncx.Go(ctx).
		OnPanic(func(r interface{}) {
			m.logger.ErrorKV("读协程崩溃", "panic", r)
		}).
		Exec(func() {
			m.readLoop(ctx, socket)
		})
}

// authenticate 发送认证帧
func (m *ConnectionManager) authenticate(socket *Socket) {
	token := m.token()
	if token == "" {
		m.notifyAuthResult(ErrTokenMissing)
		return
	}
	if err := socket.WriteFrame(NewAuthFrame(token)); err != nil {
		m.logger.ErrorKV("认证帧发送失败", "error", err)
		m.notifyAuthResult(err)
	}
}

// heartbeatLoop 心跳循环
// 心跳写失败不直接断开，读协程会感知到连接异常并走重连路径
func (m *ConnectionManager) heartbeatLoop(ctx context.Context, socket *Socket) {
	interval := m.config.Transport.HeartbeatInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !socket.IsConnected() {
				return
			}
			if err := socket.WriteFrame(NewPingFrame()); err != nil {
				m.logger.WarnKV("心跳发送失败", "error", err)
				return
			}
		}
	}
}

// readLoop 读帧循环
func (m *ConnectionManager) readLoop(ctx context.Context, socket *Socket) {
	for {
		frame, err := socket.ReadFrame()
		if err != nil {
			// 解码失败只丢弃该帧，连接仍然健康
			if isInvalidFrameError(err) {
				m.logger.WarnKV("丢弃无法解析的帧", "error", err)
				continue
			}
			m.handleReadError(ctx, err)
			return
		}
		m.handleFrame(frame)
	}
}

// isInvalidFrameError 判断是否为帧解码错误
func isInvalidFrameError(err error) bool {
	if errxErr, ok := err.(interface{ Type() ErrorType }); ok {
		return errxErr.Type() == ErrTypeInvalidFrame
	}
	return err == ErrInvalidFrame
}

// handleReadError 处理读错误：认证状态失效，按配置决定是否重连
func (m *ConnectionManager) handleReadError(ctx context.Context, err error) {
	atomic.StoreInt32(&m.authenticated, 0)
	m.notifyDisconnected(err)

	if ctx.Err() != nil || IsNormalClose(err) || !m.config.Transport.AutoReconnect {
		m.teardown()
		return
	}

	m.logger.WarnKV("连接异常断开，准备重连", "error", err)
	if !atomic.CompareAndSwapInt32(&m.connecting, 0, 1) {
		return
	}
	_ = m.stateMachine.TransitionTo(ConnectionStateReconnecting)
	m.notifyStateChange(ConnectionStateReconnecting)
	m.connectLoop(ctx)
}

// handleFrame 处理入站帧：连接层帧就地消化，其余交给上层
func (m *ConnectionManager) handleFrame(frame *Frame) {
	switch frame.Type {
	case FrameTypeAuthSuccess:
		atomic.StoreInt32(&m.authenticated, 1)
		if sessionID := payloadString(frame.Payload, "sessionId", "session_id"); sessionID != "" {
			m.sessionID.Store(sessionID)
		}
		m.logger.Info("认证成功")
		m.notifyAuthResult(nil)
		m.notifyReady()
	case FrameTypeAuthFailed:
		atomic.StoreInt32(&m.authenticated, 0)
		m.logger.WarnKV("认证失败", "reason", payloadString(frame.Payload, "reason", "message"))
		m.notifyAuthResult(ErrAuthFailed)
	case FrameTypeConnected:
		if sessionID := payloadString(frame.Payload, "sessionId", "session_id"); sessionID != "" {
			m.sessionID.Store(sessionID)
		}
	case FrameTypePong:
		// 心跳应答，静默消化
	default:
		if f := m.onFrame.Load(); f != nil {
			f.(func(*Frame))(frame)
		}
	}
}

// ============================================================================
// 发送
// ============================================================================

// WriteFrame 直接发送一帧，未就绪时返回错误
func (m *ConnectionManager) WriteFrame(frame *Frame) error {
	if !m.Ready() {
		return ErrNotConnected
	}
	socket := m.currentSocket()
	if socket == nil {
		return ErrNotConnected
	}
	return socket.WriteFrame(frame)
}

// SendFrame 发送一帧
// 已就绪时直接发送；未就绪时走兜底排队，队列满返回false
func (m *ConnectionManager) SendFrame(frame *Frame) bool {
	if m.Ready() {
		if err := m.WriteFrame(frame); err != nil {
			m.logger.WarnKV("帧发送失败", "type", frame.Type, "error", err)
			return false
		}
		return true
	}
	if f := m.fallbackSend.Load(); f != nil {
		return f.(func(*Frame) bool)(frame)
	}
	return false
}

// ============================================================================
// 断开与强制重连
// ============================================================================

// Disconnect 主动断开连接并停止所有定时器
// 幂等：重复调用无副作用
func (m *ConnectionManager) Disconnect() {
	m.timers.CancelAll()

	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}

	atomic.StoreInt32(&m.authenticated, 0)
	atomic.StoreInt32(&m.connecting, 0)

	socket := m.currentSocket()
	if socket != nil {
		socket.Close(websocket.CloseNormalClosure, "client disconnect")
	}
	m.teardown()
}

// teardown 收敛到未连接状态
func (m *ConnectionManager) teardown() {
	if m.State() != ConnectionStateDisconnected {
		_ = m.stateMachine.TransitionTo(ConnectionStateDisconnected)
		m.notifyStateChange(ConnectionStateDisconnected)
	}
}

// ForceReconnect 强制重连：断开、清零计数并在静默时间后重新连接
func (m *ConnectionManager) ForceReconnect(ctx context.Context) {
	m.logger.Info("强制重连")
	m.Disconnect()
	atomic.StoreInt32(&m.attempts, 0)
	m.circuit.Reset()

	m.timers.Arm(timerKeyForceReconnect, m.config.ForceReconnectDelay, func() {
		if err := m.Connect(ctx); err != nil {
			m.logger.WarnKV("强制重连失败", "error", err)
		}
	})
}

// ============================================================================
// 回调触发
// ============================================================================

func (m *ConnectionManager) notifyStateChange(state ConnectionState) {
	if f := m.onStateChange.Load(); f != nil {
		f.(func(ConnectionState))(state)
	}
}

func (m *ConnectionManager) notifyAuthResult(err error) {
	if f := m.onAuthResult.Load(); f != nil {
		f.(func(error))(err)
	}
}

func (m *ConnectionManager) notifyReady() {
	if f := m.onReady.Load(); f != nil {
		f.(func())()
	}
}

func (m *ConnectionManager) notifyConnectError(err error) {
	if f := m.onConnectError.Load(); f != nil {
		f.(func(error))(err)
	}
}

func (m *ConnectionManager) notifyDisconnected(err error) {
	if f := m.onDisconnected.Load(); f != nil {
		f.(func(error))(err)
	}
}

// tokenExpired 在不校验签名的前提下检查令牌是否已过期
// 无法解析或没有过期声明的令牌按未过期处理，最终由服务端判定
func tokenExpired(token string) bool {
	claims := &jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Time.Before(time.Now())
}
