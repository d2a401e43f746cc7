package mtp

import (
	"context"
	"fmt"
	"runtime/trace"

	"github.com/gotd/td/tg"

	"github.com/rusq/purgemychats/internal/convo"
)

// DeleteHistory deletes the whole history of the conversation for both sides.
// The server deletes the history in chunks, so the request is repeated until
// there's nothing left.
func (c *Client) DeleteHistory(ctx context.Context, ent convo.Entity) error {
	ctx, task := trace.NewTask(ctx, "DeleteHistory")
	defer task.End()

	ip, err := asInputPeer(ent)
	if err != nil {
		trace.Log(ctx, "logic", err.Error())
		return err
	}
	req := &tg.MessagesDeleteHistoryRequest{
		Peer:      ip,
		MaxID:     0, // all messages
		JustClear: false,
		Revoke:    true,
	}
	for {
		resp, err := c.cl.API().MessagesDeleteHistory(ctx, req)
		if err != nil {
			trace.Logf(ctx, "api", "delete history error: %s", err)
			return fmt.Errorf("failed to delete history: %w", err)
		}
		trace.Logf(ctx, "api", "pts_count=%d offset=%d", resp.PtsCount, resp.Offset)
		if resp.Offset <= 0 {
			break
		}
	}
	return nil
}

// LeaveChannel leaves the channel or the megagroup.
func (c *Client) LeaveChannel(ctx context.Context, ent convo.Entity) error {
	ctx, task := trace.NewTask(ctx, "LeaveChannel")
	defer task.End()

	ch, ok := ent.Handle.(*tg.Channel)
	if !ok {
		return fmt.Errorf("not a channel: %T", ent.Handle)
	}
	if _, err := c.cl.API().ChannelsLeaveChannel(ctx, ch.AsInput()); err != nil {
		trace.Logf(ctx, "api", "leave channel error: %s", err)
		return fmt.Errorf("failed to leave channel: %w", err)
	}
	return nil
}

// LeaveChat leaves the basic group.
func (c *Client) LeaveChat(ctx context.Context, ent convo.Entity) error {
	ctx, task := trace.NewTask(ctx, "LeaveChat")
	defer task.End()

	ch, ok := ent.Handle.(*tg.Chat)
	if !ok {
		return fmt.Errorf("not a chat: %T", ent.Handle)
	}
	if _, err := c.cl.API().MessagesDeleteChatUser(ctx, &tg.MessagesDeleteChatUserRequest{
		ChatID: ch.ID,
		UserID: &tg.InputUserSelf{},
	}); err != nil {
		trace.Logf(ctx, "api", "leave chat error: %s", err)
		return fmt.Errorf("failed to leave chat: %w", err)
	}
	return nil
}

func asInputPeer(ent convo.Entity) (tg.InputPeerClass, error) {
	switch peer := ent.Handle.(type) {
	case *tg.User:
		return peer.AsInputPeer(), nil
	case *tg.Chat:
		return peer.AsInputPeer(), nil
	case *tg.Channel:
		return peer.AsInputPeer(), nil
	default:
		return nil, fmt.Errorf("unsupported input peer type: %T", peer)
	}
}
