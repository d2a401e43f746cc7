package convo

import (
	"context"
	"fmt"
	"runtime/trace"

	"github.com/rusq/dlog"
)

// Bucket is the inventory bucket.
type Bucket uint8

const (
	BucketPrivateChats Bucket = iota
	BucketGroups
	BucketChannels
	BucketOther

	numBuckets
)

var bucketNames = [numBuckets]string{
	BucketPrivateChats: "private_chats",
	BucketGroups:       "groups",
	BucketChannels:     "channels",
	BucketOther:        "other",
}

func (b Bucket) String() string {
	if b >= numBuckets {
		return fmt.Sprintf("Bucket(%d)", b)
	}
	return bucketNames[b]
}

// Buckets lists all buckets in their display order.
var Buckets = [numBuckets]Bucket{BucketPrivateChats, BucketGroups, BucketChannels, BucketOther}

// BucketOf returns the bucket for the category.
func BucketOf(c Category) Bucket {
	switch c {
	case PrivateChat:
		return BucketPrivateChats
	case SmallGroup, Supergroup:
		return BucketGroups
	case BroadcastChannel, Channel:
		return BucketChannels
	default:
		return BucketOther
	}
}

// Iterator is the lazy sequence of conversation records.
type Iterator interface {
	Next(ctx context.Context) bool
	Value() Record
	Err() error
}

// Inventory is the account conversations partitioned into buckets.  Items
// within a bucket are in the listing order.
type Inventory struct {
	buckets [numBuckets][]Item
	seen    map[idKey]struct{}
}

// idKey identifies an item.  Users, chats and channels have separate ID
// spaces on the remote side.
type idKey struct {
	kind Kind
	id   int64
}

func NewInventory() *Inventory {
	return &Inventory{seen: make(map[idKey]struct{})}
}

// Add classifies the record and adds it to the corresponding bucket.  Every
// record is kept, Add returns false if the record with the same identifier
// has already been added.
func (inv *Inventory) Add(rec Record) bool {
	it := Classify(rec)
	unique := true
	if it.Category != Other {
		key := idKey{it.Entity.Kind, it.ID}
		_, dup := inv.seen[key]
		unique = !dup
		inv.seen[key] = struct{}{}
	}
	b := BucketOf(it.Category)
	inv.buckets[b] = append(inv.buckets[b], it)
	return unique
}

// Bucket returns the items of the bucket b.
func (inv *Inventory) Bucket(b Bucket) []Item {
	if b >= numBuckets {
		return nil
	}
	return inv.buckets[b]
}

// Count returns the number of items in the bucket b.
func (inv *Inventory) Count(b Bucket) int {
	return len(inv.Bucket(b))
}

// Len returns the total number of items.
func (inv *Inventory) Len() int {
	n := 0
	for _, b := range inv.buckets {
		n += len(b)
	}
	return n
}

// Flatten returns all items, concatenated in bucket order.
func (inv *Inventory) Flatten() []Item {
	return inv.Items(Buckets[:]...)
}

// Items returns items of the buckets bb, in the order of bb.
func (inv *Inventory) Items(bb ...Bucket) []Item {
	var ret []Item
	for _, b := range bb {
		ret = append(ret, inv.Bucket(b)...)
	}
	return ret
}

// Build exhausts the iterator and classifies every record.
func Build(ctx context.Context, it Iterator) (*Inventory, error) {
	ctx, task := trace.NewTask(ctx, "Build")
	defer task.End()

	inv := NewInventory()
	for it.Next(ctx) {
		rec := it.Value()
		if !inv.Add(rec) {
			dlog.Debugf("duplicate conversation: %s %d %q", rec.Entity.Kind, rec.Entity.ID, rec.Name)
			trace.Logf(ctx, "dup", "duplicate record: %d", rec.Entity.ID)
		}
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}
	trace.Logf(ctx, "logic", "records: %d", inv.Len())
	return inv, nil
}
