/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-12-30 10:30:44
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2025-12-30 10:30:44
 * @FilePath: \go-gsc\queue.go
 * @Description: 固定容量的出站帧队列 - 满载拒绝新帧
 *
 * Copyright (c) 2025 by kamalyes, All Rights Reserved.
 */
package gsc

import (
	"sync"
)

// FrameQueue 固定容量的环形帧队列
// 满载时拒绝新帧而非覆盖旧帧，保证已排队帧的FIFO顺序
type FrameQueue struct {
	items    []*Frame     // 帧数组
	mu       sync.RWMutex // 读写锁
	head     int          // 队列头部索引
	tail     int          // 队列尾部索引
	count    int          // 当前帧数
	capacity int          // 容量
}

// NewFrameQueue 创建帧队列
func NewFrameQueue(capacity int) *FrameQueue {
	if capacity <= 0 {
		capacity = 10
	}
	return &FrameQueue{
		items:    make([]*Frame, capacity),
		capacity: capacity,
	}
}

// Push 将帧推入队列，满载返回false
func (q *FrameQueue) Push(frame *Frame) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.count >= q.capacity {
		return false
	}
	q.items[q.tail] = frame
	q.tail = (q.tail + 1) % q.capacity
	q.count++
	return true
}

// DrainSnapshot 取出全部排队帧并清空队列
// 返回的切片保持入队顺序
func (q *FrameQueue) DrainSnapshot() []*Frame {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.count == 0 {
		return nil
	}
	drained := make([]*Frame, 0, q.count)
	for q.count > 0 {
		drained = append(drained, q.items[q.head])
		q.items[q.head] = nil // 释放引用，帮助GC
		q.head = (q.head + 1) % q.capacity
		q.count--
	}
	q.head = 0
	q.tail = 0
	return drained
}

// Clear 清空队列
func (q *FrameQueue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i := range q.items {
		q.items[i] = nil
	}
	q.head = 0
	q.tail = 0
	q.count = 0
}

// Len 返回当前帧数
func (q *FrameQueue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.count
}

// Cap 返回队列容量
func (q *FrameQueue) Cap() int {
	return q.capacity
}
