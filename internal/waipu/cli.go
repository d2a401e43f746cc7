package waipu

import (
	"context"

	"github.com/rusq/purgemychats/internal/convo"
)

// Remover is the set of the remote operations that remove conversations.
type Remover interface {
	// DeleteHistory erases the full history of the conversation for both
	// sides.
	DeleteHistory(ctx context.Context, ent convo.Entity) error
	// LeaveChannel leaves the channel-like entity (channel or megagroup).
	LeaveChannel(ctx context.Context, ent convo.Entity) error
	// LeaveChat leaves the basic group.
	LeaveChat(ctx context.Context, ent convo.Entity) error
}

// Telegramer is the remote side.
type Telegramer interface {
	Remover
	// Dialogs returns the iterator over the account conversations.
	Dialogs(ctx context.Context) convo.Iterator
}
