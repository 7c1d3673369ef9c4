/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-12-30 11:14:27
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2025-12-30 11:14:27
 * @FilePath: \go-gsc\ratelimit.go
 * @Description: 邀请频率限制器 - 内存计数、防止刷邀请
 *
 * Copyright (c) 2025 by kamalyes, All Rights Reserved.
 */
package gsc

import (
	"sync"
	"time"
)

// InviteRateLimiter 邀请频率限制器
// 按目标键（通常是接收者）做分钟窗口计数，超限拒绝
type InviteRateLimiter struct {
	mu        sync.Mutex
	counters  map[string]*inviteCounter
	perMinute int
	now       func() time.Time
}

// inviteCounter 单键计数器
type inviteCounter struct {
	count      int
	windowFrom time.Time
}

// NewInviteRateLimiter 创建邀请频率限制器
func NewInviteRateLimiter(perMinute int) *InviteRateLimiter {
	if perMinute <= 0 {
		perMinute = 5
	}
	return &InviteRateLimiter{
		counters:  make(map[string]*inviteCounter),
		perMinute: perMinute,
		now:       time.Now,
	}
}

// Allow 检查并记录一次发送，超过分钟配额返回false
func (r *InviteRateLimiter) Allow(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	counter, ok := r.counters[key]
	if !ok || now.Sub(counter.windowFrom) >= time.Minute {
		r.counters[key] = &inviteCounter{count: 1, windowFrom: now}
		r.sweep(now)
		return true
	}
	if counter.count >= r.perMinute {
		return false
	}
	counter.count++
	return true
}

// sweep 顺带清理过期窗口，避免计数表无界增长
func (r *InviteRateLimiter) sweep(now time.Time) {
	for key, counter := range r.counters {
		if now.Sub(counter.windowFrom) >= 2*time.Minute {
			delete(r.counters, key)
		}
	}
}

// setClockForTest 替换时间源
func (r *InviteRateLimiter) setClockForTest(now func() time.Time) {
	r.now = now
}
