package mtp

import (
	"context"
	"runtime/trace"

	"github.com/gotd/td/telegram/message/peer"
	"github.com/gotd/td/telegram/query/dialogs"
	"github.com/gotd/td/tg"

	"github.com/rusq/purgemychats/internal/convo"
)

// Dialogs returns the lazy iterator over the account dialogs.  Dialogs are
// fetched in batches as the iterator advances.
func (c *Client) Dialogs(ctx context.Context) convo.Iterator {
	trace.Log(ctx, "api", "dialogs")
	iter := dialogs.NewQueryBuilder(c.cl.API()).
		GetDialogs().
		BatchSize(defBatchSize).
		Iter()
	return &dialogIter{iter: iter}
}

type dialogIter struct {
	iter *dialogs.Iterator
}

func (it *dialogIter) Next(ctx context.Context) bool {
	return it.iter.Next(ctx)
}

func (it *dialogIter) Value() convo.Record {
	elem := it.iter.Value()
	return recordOf(elem.Dialog, elem.Entities)
}

func (it *dialogIter) Err() error {
	return it.iter.Err()
}

// recordOf resolves the dialog peer to the entity.  Peers missing from ents
// (i.e. forbidden chats and channels) are returned as unknown entities with
// the peer ID.
func recordOf(dlg tg.DialogClass, ents peer.Entities) convo.Record {
	switch p := dlg.GetPeer().(type) {
	case *tg.PeerUser:
		if u, ok := ents.User(p.UserID); ok {
			return convo.Record{Name: userTitle(u), Entity: userEntity(u)}
		}
		return unknownRecord(p.UserID)
	case *tg.PeerChat:
		if ch, ok := ents.Chat(p.ChatID); ok {
			return convo.Record{Name: ch.Title, Entity: chatEntity(ch)}
		}
		return unknownRecord(p.ChatID)
	case *tg.PeerChannel:
		if ch, ok := ents.Channel(p.ChannelID); ok {
			return convo.Record{Name: ch.Title, Entity: channelEntity(ch)}
		}
		return unknownRecord(p.ChannelID)
	default:
		return convo.Record{}
	}
}

func unknownRecord(id int64) convo.Record {
	return convo.Record{Entity: convo.Entity{Kind: convo.KindUnknown, ID: id}}
}

func userTitle(u *tg.User) string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

func userEntity(u *tg.User) convo.Entity {
	return convo.Entity{
		Kind:      convo.KindUser,
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
		Handle:    u,
	}
}

func chatEntity(ch *tg.Chat) convo.Entity {
	return convo.Entity{
		Kind:   convo.KindChat,
		ID:     ch.ID,
		Title:  ch.Title,
		Handle: ch,
	}
}

func channelEntity(ch *tg.Channel) convo.Entity {
	return convo.Entity{
		Kind:      convo.KindChannel,
		ID:        ch.ID,
		Title:     ch.Title,
		Broadcast: ch.Broadcast,
		Megagroup: ch.Megagroup,
		Handle:    ch,
	}
}
