/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-12-30 10:36:55
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2025-12-30 10:36:55
 * @FilePath: \go-gsc\timer.go
 * @Description: 可取消定时器注册表 - 按键管理一次性定时器
 *
 * Copyright (c) 2025 by kamalyes, All Rights Reserved.
 */
package gsc

import (
	"sync"
	"time"
)

// TimerRegistry 按键管理一次性定时器
// 同键重复Arm会先取消旧定时器，触发或取消后自动从表中移除
type TimerRegistry struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewTimerRegistry 创建定时器注册表
func NewTimerRegistry() *TimerRegistry {
	return &TimerRegistry{
		timers: make(map[string]*time.Timer),
	}
}

// Arm 按键装载一次性定时器，旧定时器（若有）被取消
func (r *TimerRegistry) Arm(key string, delay time.Duration, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.timers[key]; ok {
		old.Stop()
	}
	r.timers[key] = time.AfterFunc(delay, func() {
		r.mu.Lock()
		delete(r.timers, key)
		r.mu.Unlock()
		fn()
	})
}

// Cancel 取消指定键的定时器，返回是否存在
func (r *TimerRegistry) Cancel(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	timer, ok := r.timers[key]
	if !ok {
		return false
	}
	timer.Stop()
	delete(r.timers, key)
	return true
}

// CancelAll 取消全部定时器
func (r *TimerRegistry) CancelAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, timer := range r.timers {
		timer.Stop()
		delete(r.timers, key)
	}
}

// Len 返回当前装载的定时器数量
func (r *TimerRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.timers)
}
