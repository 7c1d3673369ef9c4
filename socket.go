/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-12-30 10:40:18
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2025-12-30 10:40:18
 * @FilePath: \go-gsc\socket.go
 * @Description: 底层 WebSocket 连接封装
 *
 * Copyright (c) 2025 by kamalyes, All Rights Reserved.
 */
package gsc

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Socket 结构体表示底层 WebSocket 连接
type Socket struct {
	URL           string            // 连接 URL
	Conn          *websocket.Conn   // WebSocket 连接
	Dialer        *websocket.Dialer // WebSocket 拨号器
	RequestHeader http.Header       // 请求头
	HTTPResponse  *http.Response    // 响应体
	isConnected   bool              // 是否已连接
	connMu        *sync.RWMutex     // 连接状态锁
	sendMu        *sync.Mutex       // 发送消息锁
	writeTimeout  time.Duration     // 写超时
}

// NewSocket 创建一个新的 Socket
func NewSocket(url string) *Socket {
	return &Socket{
		URL:           url,
		Dialer:        websocket.DefaultDialer,
		RequestHeader: http.Header{},
		connMu:        &sync.RWMutex{},
		sendMu:        &sync.Mutex{},
		writeTimeout:  10 * time.Second,
	}
}

// WithDialer 设置自定义的 WebSocket 拨号器
func (s *Socket) WithDialer(dialer *websocket.Dialer) *Socket {
	s.Dialer = dialer
	return s
}

// WithRequestHeader 设置请求头
func (s *Socket) WithRequestHeader(header http.Header) *Socket {
	s.RequestHeader = header
	return s
}

// WithWriteTimeout 设置写超时
func (s *Socket) WithWriteTimeout(d time.Duration) *Socket {
	if d > 0 {
		s.writeTimeout = d
	}
	return s
}

// Dial 建立连接，handshakeTimeout 限制整个握手过程
func (s *Socket) Dial(handshakeTimeout time.Duration) error {
	dialer := s.Dialer
	if handshakeTimeout > 0 {
		// 复制一份拨号器，避免污染共享的 DefaultDialer
		d := *dialer
		d.HandshakeTimeout = handshakeTimeout
		dialer = &d
	}

	conn, resp, err := dialer.Dial(s.URL, s.RequestHeader)
	if err != nil {
		return err
	}

	s.connMu.Lock()
	s.Conn = conn
	s.HTTPResponse = resp
	s.isConnected = true
	s.connMu.Unlock()
	return nil
}

// IsConnected 返回连接状态
func (s *Socket) IsConnected() bool {
	s.connMu.RLock()
	defer s.connMu.RUnlock()
	return s.isConnected
}

// WriteFrame 编码并发送一帧
func (s *Socket) WriteFrame(frame *Frame) error {
	data, err := EncodeFrame(frame)
	if err != nil {
		return err
	}
	return s.write(websocket.TextMessage, data)
}

// write 发送消息
func (s *Socket) write(messageType int, data []byte) error {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	// 使用读锁保护连接状态和 Conn 的访问
	s.connMu.RLock()
	if !s.isConnected || s.Conn == nil {
		s.connMu.RUnlock()
		return ErrConnectionClosed
	}
	conn := s.Conn
	s.connMu.RUnlock()

	// 设置写超时
	_ = conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	return conn.WriteMessage(messageType, data)
}

// ReadFrame 阻塞读取并解码一帧
func (s *Socket) ReadFrame() (*Frame, error) {
	s.connMu.RLock()
	conn := s.Conn
	connected := s.isConnected
	s.connMu.RUnlock()

	if !connected || conn == nil {
		return nil, ErrConnectionClosed
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	return DecodeFrame(data)
}

// Close 关闭连接并发送规范的关闭帧
func (s *Socket) Close(code int, reason string) {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	if !s.isConnected {
		return
	}
	s.isConnected = false
	if s.Conn != nil {
		message := websocket.FormatCloseMessage(code, reason)
		_ = s.Conn.SetWriteDeadline(time.Now().Add(time.Second))
		_ = s.Conn.WriteMessage(websocket.CloseMessage, message)
		_ = s.Conn.Close()
		s.Conn = nil
	}
}

// IsNormalClose 判断错误是否为正常关闭
func IsNormalClose(err error) bool {
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway)
}
