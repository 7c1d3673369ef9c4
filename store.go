/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-12-30 11:08:54
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2025-12-30 11:08:54
 * @FilePath: \go-gsc\store.go
 * @Description: 邀请存储 - 归一化入库、过期定时与事件分发
 *
 * Copyright (c) 2025 by kamalyes, All Rights Reserved.
 */
package gsc

import (
	"sync"
	"time"

	"github.com/kamalyes/go-toolbox/pkg/syncx"
)

// 定时器键前缀
const (
	timerKeyInviteExpire  = "invite_expire:"
	timerKeyStateDebounce = "connection_state_debounce"
)

// InvitationStore 邀请存储
// 收到与发出的邀请分开存放，过期通过按邀请可取消的定时器驱动
type InvitationStore struct {
	mu       sync.RWMutex
	received map[string]*Invitation // 收到的邀请
	sent     map[string]*Invitation // 发出的邀请

	bus      *EventBus      // 事件总线
	timers   *TimerRegistry // 过期与防抖定时器
	logger   GSCLogger
	ttlCap   time.Duration // 过期时间上限
	debounce time.Duration // 连接状态防抖窗口
	now      func() time.Time

	stateMu      sync.Mutex
	pendingState ConnectionState // 防抖窗口内最后一次状态
	lastState    ConnectionState // 最近一次已分发的状态
	stateEmitted bool            // 是否已分发过状态事件
}

// NewInvitationStore 创建邀请存储
func NewInvitationStore(ttlCap, debounce time.Duration, log GSCLogger) *InvitationStore {
	if log == nil {
		log = NewDefaultGSCLogger()
	}
	if ttlCap <= 0 {
		ttlCap = 5 * time.Minute
	}
	if debounce <= 0 {
		debounce = 50 * time.Millisecond
	}
	return &InvitationStore{
		received: make(map[string]*Invitation),
		sent:     make(map[string]*Invitation),
		bus:      NewEventBus(log),
		timers:   NewTimerRegistry(),
		logger:   log,
		ttlCap:   ttlCap,
		debounce: debounce,
		now:      time.Now,
	}
}

// On 注册事件监听器，返回退订函数
func (s *InvitationStore) On(event EventType, fn EventListener) (unsubscribe func()) {
	return s.bus.On(event, fn)
}

// ============================================================================
// 收到的邀请
// ============================================================================

// AddReceivedInvite 录入一条收到的邀请
// 负载先归一化再校验，非法负载记录告警后丢弃；
// 过期时间被钳制到上限内，已过期的邀请立即触发过期
func (s *InvitationStore) AddReceivedInvite(payload map[string]any) (*Invitation, error) {
	now := s.now()
	invite, err := normalizeInvitePayload(payload, now, s.ttlCap)
	if err != nil {
		s.logger.WarnKV("无效的邀请负载，已丢弃", "error", err)
		s.bus.Emit(EventInviteError, &InviteError{Message: err.Error()})
		return nil, err
	}

	// 过期时间钳制到上限
	if limit := now.Add(s.ttlCap); invite.ExpiresAt.After(limit) {
		invite.ExpiresAt = limit
	}

	s.mu.Lock()
	s.received[invite.ID] = invite
	s.mu.Unlock()

	s.logger.InfoKV("收到邀请",
		"invite_id", invite.ID,
		"from_user_id", invite.FromUserID,
		"from_username", invite.FromUsername,
	)
	s.bus.Emit(EventInviteReceived, invite)

	remaining := invite.Remaining(now)
	if remaining <= 0 {
		s.ExpireInvite(invite.ID)
		return invite, nil
	}
	inviteID := invite.ID
	s.timers.Arm(timerKeyInviteExpire+inviteID, remaining, func() {
		s.ExpireInvite(inviteID)
	})
	return invite, nil
}

// GetReceivedInvite 按ID查询收到的邀请
func (s *InvitationStore) GetReceivedInvite(inviteID string) (*Invitation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	invite, ok := s.received[inviteID]
	return invite, ok
}

// ReceivedInvites 返回收到的邀请快照
func (s *InvitationStore) ReceivedInvites() []*Invitation {
	return syncx.WithRLockReturnValue(&s.mu, func() []*Invitation {
		invites := make([]*Invitation, 0, len(s.received))
		for _, invite := range s.received {
			invites = append(invites, invite)
		}
		return invites
	})
}

// RemoveInvite 移除邀请并取消其过期定时器
// 未知ID为幂等空操作
func (s *InvitationStore) RemoveInvite(inviteID string) {
	s.timers.Cancel(timerKeyInviteExpire + inviteID)

	s.mu.Lock()
	invite, ok := s.received[inviteID]
	if ok {
		delete(s.received, inviteID)
	}
	s.mu.Unlock()

	if !ok {
		return
	}
	s.bus.Emit(EventInviteRemoved, invite)
}

// ExpireInvite 将邀请标记为过期并移除
// 未知ID为幂等空操作
func (s *InvitationStore) ExpireInvite(inviteID string) {
	s.timers.Cancel(timerKeyInviteExpire + inviteID)

	s.mu.Lock()
	invite, ok := s.received[inviteID]
	if ok {
		invite.Status = InviteStatusExpired
		delete(s.received, inviteID)
	}
	s.mu.Unlock()

	if !ok {
		return
	}
	s.logger.InfoKV("邀请已过期", "invite_id", inviteID)
	s.bus.Emit(EventInviteExpired, invite)
}

// ClearExpired 清扫所有已过期的邀请
func (s *InvitationStore) ClearExpired() {
	now := s.now()

	s.mu.Lock()
	expired := make([]*Invitation, 0)
	for id, invite := range s.received {
		if invite.Expired(now) {
			invite.Status = InviteStatusExpired
			delete(s.received, id)
			expired = append(expired, invite)
		}
	}
	s.mu.Unlock()

	for _, invite := range expired {
		s.timers.Cancel(timerKeyInviteExpire + invite.ID)
		s.bus.Emit(EventInviteExpired, invite)
	}
}

// ============================================================================
// 发出的邀请
// ============================================================================

// AddSentInvite 录入一条发出的邀请，未给定ID时生成ID
// 已存在的ID直接返回已有记录（服务端回执与本地录入的网络竞态收敛为一条）
func (s *InvitationStore) AddSentInvite(toUserID int64, toUsername, gameType, inviteID string) *Invitation {
	now := s.now()
	if inviteID == "" {
		inviteID = newSentInviteID(now)
	}

	s.mu.Lock()
	if existing, ok := s.sent[inviteID]; ok {
		s.mu.Unlock()
		return existing
	}
	invite := &Invitation{
		ID:         inviteID,
		ToUserID:   toUserID,
		ToUsername: toUsername,
		GameType:   gameType,
		Status:     InviteStatusPending,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.ttlCap),
	}
	s.sent[invite.ID] = invite
	s.mu.Unlock()

	s.bus.Emit(EventInviteSent, invite)
	return invite
}

// UpdateSentInviteStatus 更新发出邀请的状态
// 未知ID为幂等空操作
func (s *InvitationStore) UpdateSentInviteStatus(inviteID string, status InviteStatus) {
	s.mu.Lock()
	invite, ok := s.sent[inviteID]
	if ok {
		invite.Status = status
	}
	s.mu.Unlock()

	if !ok {
		return
	}
	s.bus.Emit(EventInviteStatus, invite)
}

// GetSentInvite 按ID查询发出的邀请
func (s *InvitationStore) GetSentInvite(inviteID string) (*Invitation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	invite, ok := s.sent[inviteID]
	return invite, ok
}

// SentInvites 返回发出的邀请快照
func (s *InvitationStore) SentInvites() []*Invitation {
	return syncx.WithRLockReturnValue(&s.mu, func() []*Invitation {
		invites := make([]*Invitation, 0, len(s.sent))
		for _, invite := range s.sent {
			invites = append(invites, invite)
		}
		return invites
	})
}

// Counts 返回收到/发出的邀请数量
func (s *InvitationStore) Counts() (received int, sent int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.received), len(s.sent)
}

// ============================================================================
// 连接状态
// ============================================================================

// SetConnectionState 记录连接状态并防抖分发
// 防抖窗口内的连续抖动收敛为最终状态的一次事件；
// 与上一次已分发状态相同的重复上报不再分发
func (s *InvitationStore) SetConnectionState(state ConnectionState) {
	s.stateMu.Lock()
	s.pendingState = state
	s.stateMu.Unlock()

	s.timers.Arm(timerKeyStateDebounce, s.debounce, func() {
		s.stateMu.Lock()
		final := s.pendingState
		if s.stateEmitted && final == s.lastState {
			s.stateMu.Unlock()
			return
		}
		s.lastState = final
		s.stateEmitted = true
		s.stateMu.Unlock()
		s.bus.Emit(EventConnectionState, final)
	})
}

// NotifyInviteError 分发一条服务端邀请错误
func (s *InvitationStore) NotifyInviteError(inviteID, message string) {
	s.logger.WarnKV("服务端邀请错误", "invite_id", inviteID, "message", message)
	s.bus.Emit(EventInviteError, &InviteError{InviteID: inviteID, Message: message})
}

// Cleanup 取消全部定时器并清空存储与监听器
func (s *InvitationStore) Cleanup() {
	s.timers.CancelAll()

	s.mu.Lock()
	s.received = make(map[string]*Invitation)
	s.sent = make(map[string]*Invitation)
	s.mu.Unlock()

	s.bus.Close()
}

// setClockForTest 替换时间源
func (s *InvitationStore) setClockForTest(now func() time.Time) {
	s.now = now
}
