/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-12-30 11:43:50
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2025-12-30 11:43:50
 * @FilePath: \go-gsc\circuit_test.go
 * @Description:
 *
 * Copyright (c) 2025 by kamalyes, All Rights Reserved.
 */
package gsc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestCircuitBreakerTripsAtThreshold 测试连续失败达到阈值后熔断
func TestCircuitBreakerTripsAtThreshold(t *testing.T) {
	cb := NewCircuitBreaker(5, 30*time.Second)

	for i := 0; i < 4; i++ {
		cb.RecordFailure()
		assert.Equal(t, CircuitClosed, cb.State(), "circuit should stay closed below threshold")
		assert.True(t, cb.Allow())
	}

	cb.RecordFailure()
	assert.Equal(t, CircuitOpen, cb.State(), "circuit should open at threshold")
	assert.False(t, cb.Allow(), "open circuit should reject immediately")
}

// TestCircuitBreakerHalfOpenProbe 测试恢复窗口后的半开探测
func TestCircuitBreakerHalfOpenProbe(t *testing.T) {
	cb := NewCircuitBreaker(2, 30*time.Second)

	current := time.Unix(1000, 0)
	cb.setClockForTest(func() time.Time { return current })

	cb.RecordFailure()
	cb.RecordFailure()
	assert.Equal(t, CircuitOpen, cb.State())
	assert.False(t, cb.Allow())

	// 越过恢复窗口，放行一次探测
	current = current.Add(31 * time.Second)
	assert.True(t, cb.Allow(), "probe should be admitted after recovery timeout")
	assert.Equal(t, CircuitHalfOpen, cb.State())
	assert.False(t, cb.Allow(), "only one probe admitted while half open")

	// 探测成功闭合
	cb.RecordSuccess()
	assert.Equal(t, CircuitClosed, cb.State())
	assert.True(t, cb.Allow())
}

// TestCircuitBreakerHalfOpenFailureReopens 测试半开探测失败立即重新熔断
func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker(1, 10*time.Second)

	current := time.Unix(2000, 0)
	cb.setClockForTest(func() time.Time { return current })

	cb.RecordFailure()
	assert.Equal(t, CircuitOpen, cb.State())

	current = current.Add(11 * time.Second)
	assert.True(t, cb.Allow())
	assert.Equal(t, CircuitHalfOpen, cb.State())

	cb.RecordFailure()
	assert.Equal(t, CircuitOpen, cb.State(), "probe failure should reopen circuit")
	assert.False(t, cb.Allow())
}

// TestCircuitBreakerReset 测试重置
func TestCircuitBreakerReset(t *testing.T) {
	cb := NewCircuitBreaker(1, time.Minute)
	cb.RecordFailure()
	assert.Equal(t, CircuitOpen, cb.State())

	cb.Reset()
	assert.Equal(t, CircuitClosed, cb.State())
	assert.Equal(t, 0, cb.FailureCount())
	assert.True(t, cb.Allow())
}

// TestCircuitBreakerSuccessClearsFailures 测试成功清零失败计数
func TestCircuitBreakerSuccessClearsFailures(t *testing.T) {
	cb := NewCircuitBreaker(3, time.Minute)
	cb.RecordFailure()
	cb.RecordFailure()
	cb.RecordSuccess()
	assert.Equal(t, 0, cb.FailureCount())

	// 成功后需要重新累计到阈值才会熔断
	cb.RecordFailure()
	cb.RecordFailure()
	assert.Equal(t, CircuitClosed, cb.State())
}
