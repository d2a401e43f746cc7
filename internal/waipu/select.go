package waipu

import (
	"github.com/rusq/dlog"

	"github.com/rusq/purgemychats/internal/convo"
)

// Categories is the set of category flags from the command line.
type Categories struct {
	All      bool
	Chats    bool
	Groups   bool
	Channels bool
}

// Any returns true if any of the flags is set.
func (c Categories) Any() bool {
	return c.All || c.Chats || c.Groups || c.Channels
}

// ByCategory returns the union of buckets requested by flags.  All returns
// every item, including the uncategorised ones.
func ByCategory(inv *convo.Inventory, c Categories) []convo.Item {
	if c.All {
		return inv.Flatten()
	}
	var bb []convo.Bucket
	if c.Chats {
		bb = append(bb, convo.BucketPrivateChats)
	}
	if c.Groups {
		bb = append(bb, convo.BucketGroups)
	}
	if c.Channels {
		bb = append(bb, convo.BucketChannels)
	}
	return inv.Items(bb...)
}

// ByChoice returns the items for the non-interactive menu choice.
func ByChoice(inv *convo.Inventory, ch Choice) []convo.Item {
	switch ch {
	case ChoiceAll:
		return ByCategory(inv, Categories{All: true})
	case ChoiceChats:
		return ByCategory(inv, Categories{Chats: true})
	case ChoiceGroups:
		return ByCategory(inv, Categories{Groups: true})
	case ChoiceChannels:
		return ByCategory(inv, Categories{Channels: true})
	default:
		return nil
	}
}

// ByID returns the items with the given conversation IDs, in the order of
// the IDs.  Unknown IDs are skipped.
func ByID(inv *convo.Inventory, ids []int64) []convo.Item {
	all := inv.Flatten()
	var ret []convo.Item
	for _, id := range ids {
		found := false
		for _, it := range all {
			if it.ID == id {
				ret = append(ret, it)
				found = true
			}
		}
		if !found {
			dlog.Printf("SKIPPED: conversation %d: not found", id)
		}
	}
	return ret
}
