/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-12-30 11:18:42
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2025-12-30 11:18:42
 * @FilePath: \go-gsc\invite_service.go
 * @Description: 邀请业务操作 - 发送/接受/拒绝/取消
 *
 * Copyright (c) 2025 by kamalyes, All Rights Reserved.
 */
package gsc

import (
	"strconv"

	"github.com/kamalyes/go-toolbox/pkg/errorx"
)

// InvitationService 邀请业务服务
// 组合邀请存储与消息桥接器，补充本地频率限制
type InvitationService struct {
	store   *InvitationStore
	bridge  *MessageBridge
	limiter *InviteRateLimiter
	logger  GSCLogger
}

// NewInvitationService 创建邀请业务服务
func NewInvitationService(store *InvitationStore, bridge *MessageBridge, perMinute int, log GSCLogger) *InvitationService {
	if log == nil {
		log = NewDefaultGSCLogger()
	}
	return &InvitationService{
		store:   store,
		bridge:  bridge,
		limiter: NewInviteRateLimiter(perMinute),
		logger:  log,
	}
}

// SendInvite 向指定用户发出游戏邀请
// 本地频率超限直接拒绝，不产生任何帧
func (svc *InvitationService) SendInvite(toUserID int64, toUsername, gameType string) (*Invitation, error) {
	if !svc.limiter.Allow(strconv.FormatInt(toUserID, 10)) {
		svc.logger.WarnKV("邀请发送频率超限", "to_user_id", toUserID)
		return nil, ErrInviteRateLimited
	}

	invite := svc.store.AddSentInvite(toUserID, toUsername, gameType, "")
	if !svc.bridge.SendToBackend(NewSendInviteFrame(invite)) {
		svc.logger.WarnKV("邀请帧未能发出或排队", "invite_id", invite.ID)
	}
	svc.logger.InfoKV("发出邀请",
		"invite_id", invite.ID,
		"to_user_id", toUserID,
		"game_type", gameType,
	)
	return invite, nil
}

// AcceptInvite 接受一条收到的邀请
func (svc *InvitationService) AcceptInvite(inviteID string) error {
	return svc.respondToInvite(inviteID, true)
}

// DeclineInvite 拒绝一条收到的邀请
func (svc *InvitationService) DeclineInvite(inviteID string) error {
	return svc.respondToInvite(inviteID, false)
}

// respondToInvite 应答收到的邀请并从存储移除
func (svc *InvitationService) respondToInvite(inviteID string, accept bool) error {
	invite, ok := svc.store.GetReceivedInvite(inviteID)
	if !ok {
		return errorx.NewError(ErrTypeInviteNotFound, inviteID)
	}
	svc.bridge.SendToBackend(NewInviteResponseFrame(invite.ID, accept))
	svc.store.RemoveInvite(invite.ID)
	return nil
}
