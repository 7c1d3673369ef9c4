/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-12-30 10:13:21
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2025-12-30 10:13:21
 * @FilePath: \go-gsc\errors.go
 * @Description: 游戏会话客户端错误定义 - 基于errorx.BaseError模式
 *
 * Copyright (c) 2025 by kamalyes, All Rights Reserved.
 */
package gsc

import (
	"github.com/kamalyes/go-toolbox/pkg/errorx"
)

// 错误类型定义，基于errorx.ErrorType
type ErrorType = errorx.ErrorType

// 游戏会话客户端错误码常量定义
// 使用 9xxxx 区间，避免与其他包冲突（GSC = Game Session Client）
const (
	// 连接相关错误 (90100-90199) - 可重试
	ErrTypeConnectionClosed  ErrorType = 90101 // 连接已关闭
	ErrTypeConnectionTimeout ErrorType = 90102 // 连接超时
	ErrTypeConnectInFlight   ErrorType = 90103 // 连接正在进行中
	ErrTypeNotConnected      ErrorType = 90104 // 尚未建立连接
	ErrTypeMaxRetriesReached ErrorType = 90105 // 超过最大重连次数
	ErrTypeCircuitOpen       ErrorType = 90106 // 熔断器已打开

	// 认证相关错误 (90200-90299) - 不可重试
	ErrTypeAuthFailed   ErrorType = 90201 // 认证失败
	ErrTypeTokenExpired ErrorType = 90202 // 令牌已过期
	ErrTypeTokenMissing ErrorType = 90203 // 令牌缺失

	// 帧和队列错误 (90300-90399)
	ErrTypeInvalidFrame   ErrorType = 90301 // 无效的帧格式 - 不可重试
	ErrTypeFrameQueueFull ErrorType = 90302 // 发送队列已满 - 可重试
	ErrTypeFrameTooLarge  ErrorType = 90303 // 帧过大 - 不可重试

	// 游戏桥接错误 (90400-90499) - 不可重试
	ErrTypeGameNotRegistered ErrorType = 90401 // 没有已注册的游戏
	ErrTypeGameIDMismatch    ErrorType = 90402 // 游戏ID不匹配

	// 邀请相关错误 (90500-90599) - 不可重试
	ErrTypeInvalidInvitePayload ErrorType = 90501 // 无效的邀请负载
	ErrTypeInviteNotFound       ErrorType = 90502 // 邀请未找到: %s
	ErrTypeInviteRateLimited    ErrorType = 90503 // 邀请发送频率受限

	// 配置相关错误 (90600-90699) - 不可重试
	ErrTypeInvalidConfig ErrorType = 90601 // 配置无效: %s
)

// init 初始化所有错误类型注册
// 注意：在运行多个测试包时可能出现重复注册的警告，errorx包内部会忽略重复注册
func init() {
	// 注册连接相关错误
	errorx.RegisterError(ErrTypeConnectionClosed, "connection closed")
	errorx.RegisterError(ErrTypeConnectionTimeout, "connection timeout")
	errorx.RegisterError(ErrTypeConnectInFlight, "connect already in flight")
	errorx.RegisterError(ErrTypeNotConnected, "not connected")
	errorx.RegisterError(ErrTypeMaxRetriesReached, "maximum reconnect attempts reached")
	errorx.RegisterError(ErrTypeCircuitOpen, "circuit breaker is open")

	// 注册认证相关错误
	errorx.RegisterError(ErrTypeAuthFailed, "authentication failed")
	errorx.RegisterError(ErrTypeTokenExpired, "token expired")
	errorx.RegisterError(ErrTypeTokenMissing, "token missing")

	// 注册帧和队列错误
	errorx.RegisterError(ErrTypeInvalidFrame, "invalid frame format")
	errorx.RegisterError(ErrTypeFrameQueueFull, "outbound frame queue is full")
	errorx.RegisterError(ErrTypeFrameTooLarge, "frame too large")

	// 注册游戏桥接错误
	errorx.RegisterError(ErrTypeGameNotRegistered, "no game registered")
	errorx.RegisterError(ErrTypeGameIDMismatch, "game id mismatch")

	// 注册邀请相关错误
	errorx.RegisterError(ErrTypeInvalidInvitePayload, "invalid invite payload")
	errorx.RegisterError(ErrTypeInviteNotFound, "invite not found: %s")
	errorx.RegisterError(ErrTypeInviteRateLimited, "invite rate limit reached")

	// 注册配置相关错误
	errorx.RegisterError(ErrTypeInvalidConfig, "invalid configuration: %s")
}

// ============================================================================
// 错误变量定义
// ============================================================================

// 连接相关错误变量
var (
	ErrConnectionClosed  = errorx.NewError(ErrTypeConnectionClosed)
	ErrConnectionTimeout = errorx.NewError(ErrTypeConnectionTimeout)
	ErrConnectInFlight   = errorx.NewError(ErrTypeConnectInFlight)
	ErrNotConnected      = errorx.NewError(ErrTypeNotConnected)
	ErrMaxRetriesReached = errorx.NewError(ErrTypeMaxRetriesReached)
	ErrCircuitOpen       = errorx.NewError(ErrTypeCircuitOpen)
)

// 认证相关错误变量
var (
	ErrAuthFailed   = errorx.NewError(ErrTypeAuthFailed)
	ErrTokenExpired = errorx.NewError(ErrTypeTokenExpired)
	ErrTokenMissing = errorx.NewError(ErrTypeTokenMissing)
)

// 帧和队列错误变量
var (
	ErrInvalidFrame   = errorx.NewError(ErrTypeInvalidFrame)
	ErrFrameQueueFull = errorx.NewError(ErrTypeFrameQueueFull)
)

// 业务逻辑错误变量
var (
	ErrGameNotRegistered    = errorx.NewError(ErrTypeGameNotRegistered)
	ErrInvalidInvitePayload = errorx.NewError(ErrTypeInvalidInvitePayload)
	ErrInviteRateLimited    = errorx.NewError(ErrTypeInviteRateLimited)
)

// IsRetryableError 判断错误是否可以重试
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errxErr, ok := err.(interface{ Type() ErrorType }); ok {
		return IsRetryableErrorType(errxErr.Type())
	}
	switch err {
	case ErrConnectionClosed, ErrConnectionTimeout, ErrFrameQueueFull, ErrCircuitOpen:
		return true
	default:
		return false
	}
}

// IsRetryableErrorType 判断错误类型是否可以重试
func IsRetryableErrorType(errType ErrorType) bool {
	switch errType {
	case ErrTypeConnectionClosed, ErrTypeConnectionTimeout,
		ErrTypeFrameQueueFull, ErrTypeCircuitOpen:
		return true
	default:
		return false
	}
}

// IsAuthError 判断是否为认证类错误
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	if errxErr, ok := err.(interface{ Type() ErrorType }); ok {
		errType := errxErr.Type()
		return errType == ErrTypeAuthFailed || errType == ErrTypeTokenExpired || errType == ErrTypeTokenMissing
	}
	return err == ErrAuthFailed || err == ErrTokenExpired || err == ErrTokenMissing
}

// IsQueueFullError 判断是否为队列满错误
func IsQueueFullError(err error) bool {
	if err == nil {
		return false
	}
	if errxErr, ok := err.(interface{ Type() ErrorType }); ok {
		return errxErr.Type() == ErrTypeFrameQueueFull
	}
	return err == ErrFrameQueueFull
}
