package mtp

import (
	"testing"

	"github.com/gotd/td/telegram/message/peer"
	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"
	"github.com/stretchr/testify/assert"

	"github.com/rusq/purgemychats/internal/convo"
)

var (
	testUser      = newUser(1, 11, "Kelly", "Green", "kgreen")
	testChat      = &tg.Chat{ID: 2, Title: "Get to the Chopper"}
	testMegagroup = newChannel(3, 33, "Slackdump", true, false)
	testBroadcast = newChannel(4, 44, "Breaking News", false, true)

	testEntities = peer.NewEntities(
		map[int64]*tg.User{testUser.ID: testUser},
		map[int64]*tg.Chat{testChat.ID: testChat},
		map[int64]*tg.Channel{testMegagroup.ID: testMegagroup, testBroadcast.ID: testBroadcast},
	)
)

// newUser returns the user with the access hash flag set, as received from
// the server.
func newUser(id, hash int64, first, last, username string) *tg.User {
	u := &tg.User{ID: id, FirstName: first, LastName: last, Username: username}
	u.SetAccessHash(hash)
	return u
}

func newChannel(id, hash int64, title string, megagroup, broadcast bool) *tg.Channel {
	ch := &tg.Channel{ID: id, Title: title, Megagroup: megagroup, Broadcast: broadcast}
	ch.SetAccessHash(hash)
	return ch
}

func Test_recordOf(t *testing.T) {
	tests := []struct {
		name    string
		peer    tg.PeerClass
		want    convo.Record
		wantCat convo.Category
	}{
		{
			"user",
			&tg.PeerUser{UserID: testUser.ID},
			convo.Record{Name: "Kelly Green", Entity: convo.Entity{Kind: convo.KindUser, ID: 1, FirstName: "Kelly", LastName: "Green", Username: "kgreen", Handle: testUser}},
			convo.PrivateChat,
		},
		{
			"chat",
			&tg.PeerChat{ChatID: testChat.ID},
			convo.Record{Name: "Get to the Chopper", Entity: convo.Entity{Kind: convo.KindChat, ID: 2, Title: "Get to the Chopper", Handle: testChat}},
			convo.SmallGroup,
		},
		{
			"megagroup",
			&tg.PeerChannel{ChannelID: testMegagroup.ID},
			convo.Record{Name: "Slackdump", Entity: convo.Entity{Kind: convo.KindChannel, ID: 3, Title: "Slackdump", Megagroup: true, Handle: testMegagroup}},
			convo.Supergroup,
		},
		{
			"broadcast",
			&tg.PeerChannel{ChannelID: testBroadcast.ID},
			convo.Record{Name: "Breaking News", Entity: convo.Entity{Kind: convo.KindChannel, ID: 4, Title: "Breaking News", Broadcast: true, Handle: testBroadcast}},
			convo.BroadcastChannel,
		},
		{
			"missing channel",
			&tg.PeerChannel{ChannelID: 42},
			convo.Record{Entity: convo.Entity{Kind: convo.KindUnknown, ID: 42}},
			convo.Other,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := recordOf(&tg.Dialog{Peer: tt.peer}, testEntities)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantCat, convo.Classify(got).Category)
		})
	}
}

func Test_asInputPeer(t *testing.T) {
	tests := []struct {
		name    string
		ent     convo.Entity
		want    tg.InputPeerClass
		wantErr bool
	}{
		{"user", userEntity(testUser), &tg.InputPeerUser{UserID: 1, AccessHash: 11}, false},
		{"chat", chatEntity(testChat), &tg.InputPeerChat{ChatID: 2}, false},
		{"channel", channelEntity(testMegagroup), &tg.InputPeerChannel{ChannelID: 3, AccessHash: 33}, false},
		{"unknown", convo.Entity{ID: 5}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := asInputPeer(tt.ent)
			if (err != nil) != tt.wantErr {
				t.Errorf("asInputPeer() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsPhoneInvalid(t *testing.T) {
	assert.True(t, IsPhoneInvalid(tgerr.New(400, "PHONE_NUMBER_INVALID")))
	assert.False(t, IsPhoneInvalid(assert.AnError))
}
