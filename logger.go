/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-12-30 10:15:02
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2025-12-30 10:15:02
 * @FilePath: \go-gsc\logger.go
 * @Description: go-gsc 日志接口，直接复用 go-logger
 *
 * Copyright (c) 2025 by kamalyes, All Rights Reserved.
 */
package gsc

import (
	"os"
	"strings"
	"time"

	wscconfig "github.com/kamalyes/go-config/pkg/wsc"
	"github.com/kamalyes/go-logger"
)

// GSCLogger 直接使用 go-logger.ILogger
type GSCLogger = logger.ILogger

// NewGSCLogger 创建新的GSC日志器，基于 go-logger
func NewGSCLogger(config *logger.Logger) GSCLogger {
	return config
}

// NewDefaultGSCLogger 创建默认配置的GSC日志器
func NewDefaultGSCLogger() GSCLogger {
	return logger.NewLogger().
		WithLevel(logger.INFO).
		WithPrefix("[GSC] ").
		WithShowCaller(false).
		WithColorful(true).
		WithTimeFormat("2006-01-02 15:04:05")
}

// NewNoOpLogger 创建空日志实例
func NewNoOpLogger() GSCLogger {
	return logger.NewEmptyLogger()
}

// initLogger 根据传输配置初始化日志器
// 会话层只面向控制台输出，Logging 配置里取级别与开关
func initLogger(config *wscconfig.WSC) GSCLogger {
	if config == nil || config.Logging == nil || !config.Logging.Enabled {
		return NewDefaultGSCLogger()
	}
	return logger.NewLogger().
		WithLevel(parseLogLevel(config.Logging.Level)).
		WithPrefix("[GSC] ").
		WithShowCaller(false).
		WithColorful(true).
		WithTimeFormat(time.DateTime).
		WithOutput(logger.NewConsoleWriter(logger.WithConsoleOutput(os.Stdout)))
}

// parseLogLevel 解析日志级别字符串
func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.DEBUG
	case "warn", "warning":
		return logger.WARN
	case "error":
		return logger.ERROR
	case "fatal":
		return logger.FATAL
	default:
		return logger.INFO
	}
}
