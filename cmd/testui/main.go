// Command testui emulates the work of the Text UI for making screenshots
package main

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/gotd/td/tgerr"
	"github.com/rusq/dlog"

	"github.com/rusq/purgemychats/internal/convo"
	"github.com/rusq/purgemychats/internal/tui"
)

const fakeDelay = 300 * time.Millisecond

func main() {
	ctx := context.Background()
	inv := convo.NewInventory()
	for _, rec := range fakeRecords {
		inv.Add(rec)
	}
	app := tui.New(ctx, FakeTelegram{}, fakeDelay)

	if err := app.Run(ctx, inv.Flatten()); err != nil {
		dlog.Fatal(err)
	}
}

var fakeRecords = []convo.Record{
	{Name: "Get to the Chopper", Entity: convo.Entity{Kind: convo.KindChat, ID: 101, Title: "Get to the Chopper"}},
	{Name: "Kelly Green", Entity: convo.Entity{Kind: convo.KindUser, ID: 102, FirstName: "Kelly", LastName: "Green", Username: "kgreen"}},
	{Name: "Invest with us, quickly!", Entity: convo.Entity{Kind: convo.KindChannel, ID: 103, Title: "Invest with us, quickly!", Broadcast: true}},
	{Name: "NFT: pay $$$ get JPG", Entity: convo.Entity{Kind: convo.KindChannel, ID: 104, Title: "NFT: pay $$$ get JPG", Megagroup: true}},
	{Name: "Biohacking: your butt", Entity: convo.Entity{Kind: convo.KindChannel, ID: 105, Title: "Biohacking: your butt"}},
	{Name: "Crypto mining: y u no mine", Entity: convo.Entity{Kind: convo.KindChannel, ID: 106, Title: "Crypto mining: y u no mine", Megagroup: true}},
	{Name: "John Doe", Entity: convo.Entity{Kind: convo.KindUser, ID: 107, FirstName: "John", LastName: "Doe"}},
	{Name: "Dumbass: Breaking News", Entity: convo.Entity{Kind: convo.KindChannel, ID: 108, Title: "Dumbass: Breaking News", Broadcast: true}},
	{Name: "Slackdump", Entity: convo.Entity{Kind: convo.KindChannel, ID: 109, Title: "Slackdump", Megagroup: true}},
	{Name: "", Entity: convo.Entity{Kind: convo.KindUnknown, ID: 110}},
}

// FakeTelegram pretends to remove conversations, occasionally failing or
// hitting the rate limit.
type FakeTelegram struct{}

func (FakeTelegram) DeleteHistory(ctx context.Context, _ convo.Entity) error {
	return fakeCall(ctx)
}

func (FakeTelegram) LeaveChannel(ctx context.Context, _ convo.Entity) error {
	return fakeCall(ctx)
}

func (FakeTelegram) LeaveChat(ctx context.Context, _ convo.Entity) error {
	return fakeCall(ctx)
}

func fakeCall(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(time.Duration(rand.IntN(500)) * time.Millisecond):
	}
	switch rand.IntN(10) {
	case 0:
		return tgerr.New(420, "FLOOD_WAIT_30")
	case 1:
		return errors.New("CHANNEL_PRIVATE")
	default:
		return nil
	}
}
