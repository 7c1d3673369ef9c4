/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-12-30 12:03:12
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2025-12-30 12:03:12
 * @FilePath: \go-gsc\events_test.go
 * @Description:
 *
 * Copyright (c) 2025 by kamalyes, All Rights Reserved.
 */
package gsc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestEventBusEmitOrder 测试按注册顺序分发
func TestEventBusEmitOrder(t *testing.T) {
	bus := NewEventBus(NewNoOpLogger())

	var order []int
	bus.On("test", func(any) { order = append(order, 1) })
	bus.On("test", func(any) { order = append(order, 2) })
	bus.On("test", func(any) { order = append(order, 3) })

	bus.Emit("test", nil)
	assert.Equal(t, []int{1, 2, 3}, order)
}

// TestEventBusPanicIsolation 测试监听器崩溃不影响其余监听器
func TestEventBusPanicIsolation(t *testing.T) {
	bus := NewEventBus(NewNoOpLogger())

	var reached []string
	bus.On("boom", func(any) { reached = append(reached, "first") })
	bus.On("boom", func(any) { panic("listener exploded") })
	bus.On("boom", func(any) { reached = append(reached, "third") })

	assert.NotPanics(t, func() { bus.Emit("boom", nil) })
	assert.Equal(t, []string{"first", "third"}, reached, "panicking listener should not starve others")
}

// TestEventBusUnsubscribe 测试退订
func TestEventBusUnsubscribe(t *testing.T) {
	bus := NewEventBus(NewNoOpLogger())

	count := 0
	unsubscribe := bus.On("tick", func(any) { count++ })
	bus.On("tick", func(any) {})

	bus.Emit("tick", nil)
	assert.Equal(t, 1, count)

	unsubscribe()
	assert.Equal(t, 1, bus.ListenerCount("tick"))

	bus.Emit("tick", nil)
	assert.Equal(t, 1, count, "unsubscribed listener should not fire")

	// 重复退订无副作用
	assert.NotPanics(t, unsubscribe)
}

// TestEventBusSnapshotDispatch 测试分发过程中的退订不影响本轮
func TestEventBusSnapshotDispatch(t *testing.T) {
	bus := NewEventBus(NewNoOpLogger())

	var reached []string
	var unsubscribeSecond func()
	bus.On("snap", func(any) {
		reached = append(reached, "first")
		unsubscribeSecond()
	})
	unsubscribeSecond = bus.On("snap", func(any) {
		reached = append(reached, "second")
	})

	bus.Emit("snap", nil)
	assert.Equal(t, []string{"first", "second"}, reached,
		"listener removed mid-dispatch still runs within the current round")

	reached = nil
	bus.Emit("snap", nil)
	assert.Equal(t, []string{"first"}, reached)
}

// TestEventBusPayloadDelivery 测试负载透传
func TestEventBusPayloadDelivery(t *testing.T) {
	bus := NewEventBus(NewNoOpLogger())

	var got any
	bus.On("data", func(payload any) { got = payload })

	invite := &Invitation{ID: "inv-bus"}
	bus.Emit("data", invite)
	assert.Same(t, invite, got)
}

// TestEventBusClose 测试关闭移除全部监听器
func TestEventBusClose(t *testing.T) {
	bus := NewEventBus(NewNoOpLogger())
	bus.On("a", func(any) {})
	bus.On("b", func(any) {})

	bus.Close()
	assert.Equal(t, 0, bus.ListenerCount("a"))
	assert.Equal(t, 0, bus.ListenerCount("b"))
}
