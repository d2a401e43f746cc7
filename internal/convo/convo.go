// Package convo contains the conversation model: entities as returned by the
// remote side, their classification, and the inventory of all account
// conversations.
package convo

import (
	"fmt"
	"strings"
)

// Kind is the kind of the remote entity.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindUser         // a person
	KindChat         // basic (small) group
	KindChannel      // channel-like entity: broadcast channel, megagroup
)

func (k Kind) String() string {
	switch k {
	case KindUser:
		return "user"
	case KindChat:
		return "chat"
	case KindChannel:
		return "channel"
	default:
		return "unknown"
	}
}

// Entity is the remote entity behind the conversation.
type Entity struct {
	Kind Kind
	ID   int64

	// user
	FirstName string
	LastName  string
	Username  string

	// chat and channel
	Title     string
	Broadcast bool
	Megagroup bool

	// Handle is the backing object of the remote client library, it is
	// opaque to everything except the remote client.
	Handle any
}

// Record is a single conversation as listed by the remote side.
type Record struct {
	// Name is the resolved display name.
	Name   string
	Entity Entity
}

// Category is the category of the conversation.
type Category uint8

const (
	Other Category = iota
	PrivateChat
	SmallGroup
	Supergroup
	BroadcastChannel
	Channel
)

var categoryLabels = [...]string{
	Other:            "Other",
	PrivateChat:      "Private Chat",
	SmallGroup:       "Small Group",
	Supergroup:       "Supergroup",
	BroadcastChannel: "Broadcast Channel",
	Channel:          "Channel",
}

func (c Category) String() string {
	if int(c) >= len(categoryLabels) {
		return fmt.Sprintf("Category(%d)", c)
	}
	return categoryLabels[c]
}

// IsGroup returns true for any of the group categories.
func (c Category) IsGroup() bool {
	return c == SmallGroup || c == Supergroup
}

// IsChannel returns true for any of the channel categories.
func (c Category) IsChannel() bool {
	return c == BroadcastChannel || c == Channel
}

// Item is the classified conversation.
type Item struct {
	ID       int64
	Name     string
	Category Category
	Entity   Entity
}

func (it Item) String() string {
	return fmt.Sprintf("%s (%s)", it.Name, it.Category)
}

const noUsername = "No username"

// Classify assigns the record to a category.  The rules are evaluated in
// order, broadcast and megagroup flags take precedence over the generic
// channel.
func Classify(rec Record) Item {
	ent := rec.Entity
	it := Item{ID: ent.ID, Name: rec.Name, Entity: ent}
	switch {
	case ent.Kind == KindUser:
		it.Category = PrivateChat
		it.Name = userName(ent)
	case ent.Kind == KindChannel && ent.Broadcast:
		it.Category = BroadcastChannel
	case ent.Kind == KindChannel && ent.Megagroup:
		it.Category = Supergroup
	case ent.Kind == KindChannel:
		it.Category = Channel
	case ent.Kind == KindChat:
		it.Category = SmallGroup
	default:
		it.Category = Other
	}
	return it
}

func userName(ent Entity) string {
	name := strings.TrimSpace(ent.FirstName + " " + ent.LastName)
	username := ent.Username
	if username == "" {
		username = noUsername
	}
	return fmt.Sprintf("%s (@%s)", name, username)
}
