/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-12-30 10:33:27
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2025-12-30 10:33:27
 * @FilePath: \go-gsc\circuit.go
 * @Description: 连接熔断器 - 连续失败快速拒绝，超时后半开探测
 *
 * Copyright (c) 2025 by kamalyes, All Rights Reserved.
 */
package gsc

import (
	"sync"
	"time"
)

// CircuitBreaker 连接熔断器
type CircuitBreaker struct {
	state            CircuitState  // 当前状态
	failureCount     int           // 连续失败次数
	failureThreshold int           // 失败阈值
	timeout          time.Duration // 熔断后恢复等待时间
	lastFailTime     time.Time     // 最近失败时间
	mutex            sync.RWMutex
	now              func() time.Time // 时间源（测试可替换）
}

// NewCircuitBreaker 创建熔断器
func NewCircuitBreaker(failureThreshold int, timeout time.Duration) *CircuitBreaker {
	if failureThreshold <= 0 {
		failureThreshold = 5
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &CircuitBreaker{
		state:            CircuitClosed,
		failureThreshold: failureThreshold,
		timeout:          timeout,
		now:              time.Now,
	}
}

// Allow 判断当前是否允许一次连接尝试
// Open状态下超过恢复等待时间时转入HalfOpen并放行一次探测
func (cb *CircuitBreaker) Allow() bool {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	switch cb.state {
	case CircuitClosed:
		return true
	case CircuitOpen:
		if cb.now().Sub(cb.lastFailTime) >= cb.timeout {
			cb.state = CircuitHalfOpen
			return true
		}
		return false
	case CircuitHalfOpen:
		// 半开状态只放行一次探测，探测结果未出前其余请求拒绝
		return false
	default:
		return false
	}
}

// RecordSuccess 记录一次成功，关闭熔断器
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	cb.state = CircuitClosed
	cb.failureCount = 0
}

// RecordFailure 记录一次失败
// 半开探测失败立即重新打开；关闭状态下累计到阈值后打开
func (cb *CircuitBreaker) RecordFailure() {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	cb.failureCount++
	cb.lastFailTime = cb.now()

	if cb.state == CircuitHalfOpen {
		cb.state = CircuitOpen
		return
	}
	if cb.failureCount >= cb.failureThreshold {
		cb.state = CircuitOpen
	}
}

// Reset 重置熔断器到初始关闭状态
func (cb *CircuitBreaker) Reset() {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	cb.state = CircuitClosed
	cb.failureCount = 0
	cb.lastFailTime = time.Time{}
}

// State 返回当前熔断状态
func (cb *CircuitBreaker) State() CircuitState {
	cb.mutex.RLock()
	defer cb.mutex.RUnlock()
	return cb.state
}

// FailureCount 返回连续失败次数
func (cb *CircuitBreaker) FailureCount() int {
	cb.mutex.RLock()
	defer cb.mutex.RUnlock()
	return cb.failureCount
}

// setClockForTest 替换时间源
func (cb *CircuitBreaker) setClockForTest(now func() time.Time) {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	cb.now = now
}
