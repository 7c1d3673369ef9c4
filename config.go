/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-12-30 10:17:45
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2025-12-30 10:17:45
 * @FilePath: \go-gsc\config.go
 * @Description: Config 结构体及校验
 *
 * Copyright (c) 2025 by kamalyes, All Rights Reserved.
 */
package gsc

import (
	"time"

	wscconfig "github.com/kamalyes/go-config/pkg/wsc"
	"github.com/kamalyes/go-toolbox/pkg/mathx"
	"github.com/kamalyes/go-toolbox/pkg/safe"
)

// Config 结构体表示游戏会话客户端的配置
type Config struct {
	URL   string // WebSocket 服务器地址
	Token string // 认证令牌

	Transport *wscconfig.WSC // 底层传输配置（重连区间、写超时、缓冲等）

	ConnectTimeout      time.Duration // 单次连接超时
	MaxRetries          int           // 最大重连次数
	QueueCapacity       int           // 发送队列容量
	FailureThreshold    int           // 熔断失败阈值
	RecoveryTimeout     time.Duration // 熔断恢复等待时间
	InviteTTLCap        time.Duration // 邀请过期时间上限
	StateDebounce       time.Duration // 连接状态事件防抖窗口
	InviteRatePerMinute int           // 每分钟允许发送的邀请数
	ForceReconnectDelay time.Duration // 强制重连前的静默时间
	Jitter              bool          // 重连退避是否加抖动
	Debug               bool          // 是否启用调试快照
}

// NewDefaultConfig 创建默认配置
func NewDefaultConfig() *Config {
	return &Config{
		Transport:           safe.MergeWithDefaults(nil, wscconfig.Default()),
		ConnectTimeout:      10 * time.Second,
		MaxRetries:          10,
		QueueCapacity:       10,
		FailureThreshold:    5,
		RecoveryTimeout:     30 * time.Second,
		InviteTTLCap:        5 * time.Minute,
		StateDebounce:       50 * time.Millisecond,
		InviteRatePerMinute: 5,
		ForceReconnectDelay: 500 * time.Millisecond,
		Jitter:              true,
	}
}

// WithURL 设置服务器地址并返回当前配置对象
func (c *Config) WithURL(url string) *Config {
	c.URL = url
	return c
}

// WithToken 设置认证令牌并返回当前配置对象
func (c *Config) WithToken(token string) *Config {
	c.Token = token
	return c
}

// WithTransport 设置底层传输配置并返回当前配置对象
func (c *Config) WithTransport(transport *wscconfig.WSC) *Config {
	c.Transport = transport
	return c
}

// WithConnectTimeout 设置单次连接超时并返回当前配置对象
func (c *Config) WithConnectTimeout(d time.Duration) *Config {
	c.ConnectTimeout = d
	return c
}

// WithMaxRetries 设置最大重连次数并返回当前配置对象
func (c *Config) WithMaxRetries(n int) *Config {
	c.MaxRetries = n
	return c
}

// WithQueueCapacity 设置发送队列容量并返回当前配置对象
func (c *Config) WithQueueCapacity(n int) *Config {
	c.QueueCapacity = n
	return c
}

// WithFailureThreshold 设置熔断失败阈值并返回当前配置对象
func (c *Config) WithFailureThreshold(n int) *Config {
	c.FailureThreshold = n
	return c
}

// WithRecoveryTimeout 设置熔断恢复等待时间并返回当前配置对象
func (c *Config) WithRecoveryTimeout(d time.Duration) *Config {
	c.RecoveryTimeout = d
	return c
}

// WithInviteTTLCap 设置邀请过期时间上限并返回当前配置对象
func (c *Config) WithInviteTTLCap(d time.Duration) *Config {
	c.InviteTTLCap = d
	return c
}

// WithStateDebounce 设置连接状态事件防抖窗口并返回当前配置对象
func (c *Config) WithStateDebounce(d time.Duration) *Config {
	c.StateDebounce = d
	return c
}

// WithInviteRatePerMinute 设置邀请速率限制并返回当前配置对象
func (c *Config) WithInviteRatePerMinute(n int) *Config {
	c.InviteRatePerMinute = n
	return c
}

// WithJitter 设置退避抖动开关并返回当前配置对象
func (c *Config) WithJitter(enabled bool) *Config {
	c.Jitter = enabled
	return c
}

// WithDebug 设置调试快照开关并返回当前配置对象
func (c *Config) WithDebug(enabled bool) *Config {
	c.Debug = enabled
	return c
}

// normalize 修正越界或缺失的配置项，返回修正后的配置
// 非法值不报错，回落到默认值
func (c *Config) normalize() *Config {
	defaults := NewDefaultConfig()
	if c.Transport == nil {
		c.Transport = defaults.Transport
	} else {
		c.Transport = safe.MergeWithDefaults(c.Transport, wscconfig.Default())
	}
	c.ConnectTimeout = mathx.IF(c.ConnectTimeout <= 0, defaults.ConnectTimeout, c.ConnectTimeout)
	c.MaxRetries = mathx.IF(c.MaxRetries <= 0, defaults.MaxRetries, c.MaxRetries)
	c.QueueCapacity = mathx.IF(c.QueueCapacity <= 0, defaults.QueueCapacity, c.QueueCapacity)
	c.FailureThreshold = mathx.IF(c.FailureThreshold <= 0, defaults.FailureThreshold, c.FailureThreshold)
	c.RecoveryTimeout = mathx.IF(c.RecoveryTimeout <= 0, defaults.RecoveryTimeout, c.RecoveryTimeout)
	c.InviteTTLCap = mathx.IF(c.InviteTTLCap <= 0, defaults.InviteTTLCap, c.InviteTTLCap)
	c.StateDebounce = mathx.IF(c.StateDebounce <= 0, defaults.StateDebounce, c.StateDebounce)
	c.InviteRatePerMinute = mathx.IF(c.InviteRatePerMinute <= 0, defaults.InviteRatePerMinute, c.InviteRatePerMinute)
	c.ForceReconnectDelay = mathx.IF(c.ForceReconnectDelay <= 0, defaults.ForceReconnectDelay, c.ForceReconnectDelay)
	return c
}
