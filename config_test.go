/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-12-30 12:52:09
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2025-12-30 12:52:09
 * @FilePath: \go-gsc\config_test.go
 * @Description:
 *
 * Copyright (c) 2025 by kamalyes, All Rights Reserved.
 */
package gsc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConfigDefaults 测试默认配置
func TestConfigDefaults(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, 10*time.Second, config.ConnectTimeout)
	assert.Equal(t, 10, config.MaxRetries)
	assert.Equal(t, 10, config.QueueCapacity)
	assert.Equal(t, 5, config.FailureThreshold)
	assert.Equal(t, 30*time.Second, config.RecoveryTimeout)
	assert.Equal(t, 5*time.Minute, config.InviteTTLCap)
	assert.Equal(t, 50*time.Millisecond, config.StateDebounce)
	assert.Equal(t, 5, config.InviteRatePerMinute)
	assert.Equal(t, 500*time.Millisecond, config.ForceReconnectDelay)
	assert.True(t, config.Jitter)
	assert.False(t, config.Debug)
	require.NotNil(t, config.Transport)
}

// TestConfigBuilderChain 测试链式配置
func TestConfigBuilderChain(t *testing.T) {
	config := NewDefaultConfig().
		WithURL("ws://example.com/ws").
		WithToken("tk").
		WithConnectTimeout(3 * time.Second).
		WithMaxRetries(7).
		WithQueueCapacity(20).
		WithFailureThreshold(2).
		WithRecoveryTimeout(time.Minute).
		WithInviteTTLCap(time.Minute).
		WithStateDebounce(10 * time.Millisecond).
		WithInviteRatePerMinute(3).
		WithJitter(false).
		WithDebug(true)

	assert.Equal(t, "ws://example.com/ws", config.URL)
	assert.Equal(t, "tk", config.Token)
	assert.Equal(t, 3*time.Second, config.ConnectTimeout)
	assert.Equal(t, 7, config.MaxRetries)
	assert.Equal(t, 20, config.QueueCapacity)
	assert.Equal(t, 2, config.FailureThreshold)
	assert.Equal(t, time.Minute, config.RecoveryTimeout)
	assert.Equal(t, time.Minute, config.InviteTTLCap)
	assert.Equal(t, 10*time.Millisecond, config.StateDebounce)
	assert.Equal(t, 3, config.InviteRatePerMinute)
	assert.False(t, config.Jitter)
	assert.True(t, config.Debug)
}

// TestConfigNormalizeClampsInvalidValues 测试非法值回落默认
func TestConfigNormalizeClampsInvalidValues(t *testing.T) {
	config := &Config{
		ConnectTimeout:      -time.Second,
		MaxRetries:          0,
		QueueCapacity:       -5,
		FailureThreshold:    0,
		RecoveryTimeout:     0,
		InviteTTLCap:        0,
		StateDebounce:       0,
		InviteRatePerMinute: 0,
		ForceReconnectDelay: 0,
	}
	config = config.normalize()

	defaults := NewDefaultConfig()
	assert.Equal(t, defaults.ConnectTimeout, config.ConnectTimeout)
	assert.Equal(t, defaults.MaxRetries, config.MaxRetries)
	assert.Equal(t, defaults.QueueCapacity, config.QueueCapacity)
	assert.Equal(t, defaults.FailureThreshold, config.FailureThreshold)
	assert.Equal(t, defaults.RecoveryTimeout, config.RecoveryTimeout)
	assert.Equal(t, defaults.InviteTTLCap, config.InviteTTLCap)
	assert.Equal(t, defaults.StateDebounce, config.StateDebounce)
	assert.Equal(t, defaults.InviteRatePerMinute, config.InviteRatePerMinute)
	assert.Equal(t, defaults.ForceReconnectDelay, config.ForceReconnectDelay)
	require.NotNil(t, config.Transport, "normalize must backfill transport defaults")
}

// TestConfigNormalizeKeepsValidValues 测试合法值不被改写
func TestConfigNormalizeKeepsValidValues(t *testing.T) {
	config := NewDefaultConfig().
		WithMaxRetries(3).
		WithQueueCapacity(64).
		normalize()

	assert.Equal(t, 3, config.MaxRetries)
	assert.Equal(t, 64, config.QueueCapacity)
}
