/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-12-30 10:57:19
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2025-12-30 10:57:19
 * @FilePath: \go-gsc\events.go
 * @Description: 进程内事件总线 - 快照分发与监听器隔离
 *
 * Copyright (c) 2025 by kamalyes, All Rights Reserved.
 */
package gsc

import (
	"sync"

	"github.com/kamalyes/go-toolbox/pkg/syncx"
)

// EventType 事件类型
type EventType string

const (
	EventInviteReceived  EventType = "invite:received"  // 收到邀请
	EventInviteRemoved   EventType = "invite:removed"   // 邀请被移除
	EventInviteExpired   EventType = "invite:expired"   // 邀请过期
	EventInviteSent      EventType = "invite:sent"      // 邀请已发出
	EventInviteStatus    EventType = "invite:status"    // 发出邀请状态变更
	EventInviteError     EventType = "invite:error"     // 邀请校验/服务端错误
	EventConnectionState EventType = "connection:state" // 连接状态变更
)

// EventListener 事件监听器
type EventListener func(payload any)

// eventSubscription 单个订阅
type eventSubscription struct {
	id int64
	fn EventListener
}

// EventBus 进程内事件总线
// 分发时迭代监听器快照，单个监听器崩溃或退订不影响其余监听器
type EventBus struct {
	mu        sync.RWMutex
	listeners map[EventType][]*eventSubscription
	nextID    int64
	logger    GSCLogger
}

// NewEventBus 创建事件总线
func NewEventBus(log GSCLogger) *EventBus {
	if log == nil {
		log = NewDefaultGSCLogger()
	}
	return &EventBus{
		listeners: make(map[EventType][]*eventSubscription),
		logger:    log,
	}
}

// On 注册监听器，返回退订函数
// 函数值不可比较，退订通过返回的闭包完成
func (bus *EventBus) On(event EventType, fn EventListener) (unsubscribe func()) {
	bus.mu.Lock()
	bus.nextID++
	sub := &eventSubscription{id: bus.nextID, fn: fn}
	bus.listeners[event] = append(bus.listeners[event], sub)
	bus.mu.Unlock()

	return func() {
		bus.mu.Lock()
		defer bus.mu.Unlock()
		subs := bus.listeners[event]
		for i, s := range subs {
			if s.id == sub.id {
				bus.listeners[event] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
	}
}

// Emit 同步分发事件给所有监听器
func (bus *EventBus) Emit(event EventType, payload any) {
	// 快照后分发，分发期间的订阅/退订不影响本轮
	snapshot := syncx.WithRLockReturnValue(&bus.mu, func() []*eventSubscription {
		subs := bus.listeners[event]
		if len(subs) == 0 {
			return nil
		}
		return append([]*eventSubscription{}, subs...)
	})

	for _, sub := range snapshot {
		bus.invoke(event, sub, payload)
	}
}

// invoke 调用单个监听器，崩溃被恢复并记录
func (bus *EventBus) invoke(event EventType, sub *eventSubscription, payload any) {
	defer func() {
		if r := recover(); r != nil {
			bus.logger.ErrorKV("事件监听器崩溃", "event", string(event), "panic", r)
		}
	}()
	sub.fn(payload)
}

// ListenerCount 返回指定事件的监听器数量
func (bus *EventBus) ListenerCount(event EventType) int {
	return syncx.WithRLockReturnValue(&bus.mu, func() int {
		return len(bus.listeners[event])
	})
}

// Close 移除所有监听器
func (bus *EventBus) Close() {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.listeners = make(map[EventType][]*eventSubscription)
}
