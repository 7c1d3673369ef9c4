/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-12-30 11:36:08
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2025-12-30 11:36:08
 * @FilePath: \go-gsc\testserver_test.go
 * @Description: 测试基础设施 - 可编排的 WebSocket 测试服务端
 *
 * Copyright (c) 2025 by kamalyes, All Rights Reserved.
 */
package gsc

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// testUpgrader 测试服务端升级器
var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// testServer 可编排的 WebSocket 测试服务端
// 自动应答认证帧，记录收到的业务帧并支持按序等待
type testServer struct {
	httpServer *httptest.Server
	mu         sync.Mutex
	conns      []*websocket.Conn
	frames     chan *Frame // 收到的非认证/心跳帧
	authFrames chan *Frame // 收到的认证帧
	pings      chan *Frame // 收到的心跳帧
	authReply  string      // 认证应答帧类型（auth_success / auth_failed / 空=不应答）
	rejectAll  bool        // 拒绝升级（模拟服务不可用）
}

// newTestServer 创建测试服务端，默认认证成功
func newTestServer() *testServer {
	ts := &testServer{
		frames:     make(chan *Frame, 64),
		authFrames: make(chan *Frame, 8),
		pings:      make(chan *Frame, 8),
		authReply:  FrameTypeAuthSuccess,
	}
	ts.httpServer = httptest.NewServer(http.HandlerFunc(ts.handle))
	return ts
}

// URL 返回 ws:// 形式的地址
func (ts *testServer) URL() string {
	return "ws" + strings.TrimPrefix(ts.httpServer.URL, "http")
}

// WithAuthReply 设置认证应答帧类型
func (ts *testServer) WithAuthReply(frameType string) *testServer {
	ts.mu.Lock()
	ts.authReply = frameType
	ts.mu.Unlock()
	return ts
}

func (ts *testServer) handle(w http.ResponseWriter, r *http.Request) {
	ts.mu.Lock()
	reject := ts.rejectAll
	ts.mu.Unlock()
	if reject {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}

	conn, err := testUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	ts.mu.Lock()
	ts.conns = append(ts.conns, conn)
	ts.mu.Unlock()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		frame, err := DecodeFrame(data)
		if err != nil {
			continue
		}
		switch frame.Type {
		case FrameTypeAuth:
			select {
			case ts.authFrames <- frame:
			default:
			}
			ts.mu.Lock()
			reply := ts.authReply
			ts.mu.Unlock()
			if reply != "" {
				ts.sendTo(conn, &Frame{
					Type:    reply,
					Payload: map[string]any{"sessionId": "sess-test-1"},
				})
			}
		case FrameTypePing:
			select {
			case ts.pings <- frame:
			default:
			}
			ts.sendTo(conn, &Frame{Type: FrameTypePong})
		default:
			select {
			case ts.frames <- frame:
			default:
			}
		}
	}
}

// sendTo 向指定连接下发一帧
func (ts *testServer) sendTo(conn *websocket.Conn, frame *Frame) {
	data, err := EncodeFrame(frame)
	if err != nil {
		return
	}
	ts.mu.Lock()
	defer ts.mu.Unlock()
	_ = conn.WriteMessage(websocket.TextMessage, data)
}

// Send 向最近一条连接下发一帧
func (ts *testServer) Send(frame *Frame) {
	ts.mu.Lock()
	var conn *websocket.Conn
	if len(ts.conns) > 0 {
		conn = ts.conns[len(ts.conns)-1]
	}
	ts.mu.Unlock()
	if conn == nil {
		return
	}
	ts.sendTo(conn, frame)
}

// WaitFrame 等待下一条业务帧
func (ts *testServer) WaitFrame(timeout time.Duration) *Frame {
	select {
	case frame := <-ts.frames:
		return frame
	case <-time.After(timeout):
		return nil
	}
}

// WaitAuth 等待下一条认证帧
func (ts *testServer) WaitAuth(timeout time.Duration) *Frame {
	select {
	case frame := <-ts.authFrames:
		return frame
	case <-time.After(timeout):
		return nil
	}
}

// WaitPing 等待下一条心跳帧
func (ts *testServer) WaitPing(timeout time.Duration) *Frame {
	select {
	case frame := <-ts.pings:
		return frame
	case <-time.After(timeout):
		return nil
	}
}

// DropConnections 强制断开服务端所有连接（模拟异常断线）
func (ts *testServer) DropConnections() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	for _, conn := range ts.conns {
		_ = conn.Close()
	}
	ts.conns = nil
}

// Close 关闭测试服务端
func (ts *testServer) Close() {
	ts.DropConnections()
	ts.httpServer.Close()
}

// newTestConfig 创建面向测试的快速配置
func newTestConfig(url string) *Config {
	config := NewDefaultConfig().
		WithURL(url).
		WithToken("test-token").
		WithConnectTimeout(2 * time.Second).
		WithJitter(false)
	config = config.normalize()
	config.Transport.MinRecTime = 20 * time.Millisecond
	config.Transport.MaxRecTime = 100 * time.Millisecond
	config.Transport.RecFactor = 2
	config.Transport.HeartbeatInterval = 50 * time.Millisecond
	config.Transport.AutoReconnect = true
	return config
}

// waitUntil 轮询等待条件成立
func waitUntil(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}
