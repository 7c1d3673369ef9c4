/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-12-30 10:25:10
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2025-12-30 10:25:10
 * @FilePath: \go-gsc\codec.go
 * @Description: 帧编解码 - JSON文本帧
 *
 * Copyright (c) 2025 by kamalyes, All Rights Reserved.
 */
package gsc

import (
	"encoding/json"

	"github.com/kamalyes/go-toolbox/pkg/errorx"
)

// EncodeFrame 将帧编码为JSON字节
func EncodeFrame(frame *Frame) ([]byte, error) {
	if frame == nil || frame.Type == "" {
		return nil, ErrInvalidFrame
	}
	data, err := json.Marshal(frame)
	if err != nil {
		return nil, errorx.WrapError("failed to encode frame", err)
	}
	return data, nil
}

// DecodeFrame 将JSON字节解码为帧
// 兼容两种负载形态：payload字段嵌套对象，或字段平铺在顶层
func DecodeFrame(data []byte) (*Frame, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errorx.WrapError("failed to decode frame", err)
	}

	frameType, _ := raw["type"].(string)
	if frameType == "" {
		return nil, ErrInvalidFrame
	}

	frame := &Frame{Type: frameType}
	if requestID, ok := raw["request_id"].(string); ok {
		frame.RequestID = requestID
	}
	if gameID, ok := raw["game_id"].(string); ok {
		frame.GameID = gameID
	} else if gameID, ok := raw["gameId"].(string); ok {
		frame.GameID = gameID
	}

	// 负载：优先取嵌套payload，否则取顶层剩余字段
	if payload, ok := raw["payload"].(map[string]any); ok {
		frame.Payload = payload
	} else {
		payload := make(map[string]any, len(raw))
		for key, value := range raw {
			switch key {
			case "type", "request_id", "game_id", "gameId":
				continue
			}
			payload[key] = value
		}
		if len(payload) > 0 {
			frame.Payload = payload
		}
	}
	return frame, nil
}

// ============================================================================
// 负载字段读取辅助 - 兼容多种字段名
// ============================================================================

// payloadString 按候选键顺序读取字符串字段
func payloadString(payload map[string]any, keys ...string) string {
	for _, key := range keys {
		if value, ok := payload[key]; ok {
			if s, ok := value.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// payloadInt64 按候选键顺序读取整数字段
// JSON数值统一解码为float64，这里做收敛转换
func payloadInt64(payload map[string]any, keys ...string) int64 {
	for _, key := range keys {
		value, ok := payload[key]
		if !ok {
			continue
		}
		switch v := value.(type) {
		case float64:
			return int64(v)
		case int64:
			return v
		case int:
			return int64(v)
		case json.Number:
			if n, err := v.Int64(); err == nil {
				return n
			}
		}
	}
	return 0
}

// payloadValue 按候选键顺序读取原始字段
func payloadValue(payload map[string]any, keys ...string) any {
	for _, key := range keys {
		if value, ok := payload[key]; ok && value != nil {
			return value
		}
	}
	return nil
}

// payloadBool 按候选键顺序读取布尔字段
func payloadBool(payload map[string]any, keys ...string) bool {
	for _, key := range keys {
		if value, ok := payload[key]; ok {
			if b, ok := value.(bool); ok {
				return b
			}
		}
	}
	return false
}
