package convo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sliceIter iterates over records and fails with err once the records are
// exhausted, if err is set.
type sliceIter struct {
	recs []Record
	idx  int
	err  error
}

func newSliceIter(recs ...Record) *sliceIter {
	return &sliceIter{recs: recs, idx: -1}
}

func (s *sliceIter) Next(context.Context) bool {
	s.idx++
	return s.idx < len(s.recs)
}

func (s *sliceIter) Value() Record { return s.recs[s.idx] }
func (s *sliceIter) Err() error    { return s.err }

var testRecords = []Record{
	{Entity: Entity{Kind: KindUser, ID: 10, FirstName: "Kelly"}},
	{Name: "News", Entity: Entity{Kind: KindChannel, ID: 20, Broadcast: true}},
	{Name: "Chopper", Entity: Entity{Kind: KindChat, ID: 30}},
	{Entity: Entity{Kind: KindUser, ID: 11, FirstName: "Arnold"}},
	{Name: "Mega", Entity: Entity{Kind: KindChannel, ID: 21, Megagroup: true}},
	{Name: "Chan", Entity: Entity{Kind: KindChannel, ID: 22}},
	{Name: "???", Entity: Entity{ID: 40}},
}

func TestBuild(t *testing.T) {
	inv, err := Build(context.Background(), newSliceIter(testRecords...))
	require.NoError(t, err)

	assert.Equal(t, len(testRecords), inv.Len())
	assert.Equal(t, 2, inv.Count(BucketPrivateChats))
	assert.Equal(t, 2, inv.Count(BucketGroups))
	assert.Equal(t, 2, inv.Count(BucketChannels))
	assert.Equal(t, 1, inv.Count(BucketOther))

	ids := func(items []Item) []int64 {
		var ret []int64
		for _, it := range items {
			ret = append(ret, it.ID)
		}
		return ret
	}
	// listing order is preserved within buckets.
	assert.Equal(t, []int64{10, 11}, ids(inv.Bucket(BucketPrivateChats)))
	assert.Equal(t, []int64{30, 21}, ids(inv.Bucket(BucketGroups)))
	assert.Equal(t, []int64{20, 22}, ids(inv.Bucket(BucketChannels)))
	assert.Equal(t, []int64{40}, ids(inv.Bucket(BucketOther)))
	assert.Equal(t, []int64{10, 11, 30, 21, 20, 22, 40}, ids(inv.Flatten()))
	assert.Equal(t, []int64{20, 22, 10, 11}, ids(inv.Items(BucketChannels, BucketPrivateChats)))
}

func TestBuild_partition(t *testing.T) {
	inv, err := Build(context.Background(), newSliceIter(testRecords...))
	require.NoError(t, err)

	seen := make(map[int64]Bucket)
	total := 0
	for _, b := range Buckets {
		for _, it := range inv.Bucket(b) {
			prev, dup := seen[it.ID]
			assert.False(t, dup, "item %d in %s and %s", it.ID, prev, b)
			seen[it.ID] = b
			assert.Equal(t, b, BucketOf(it.Category))
		}
		total += inv.Count(b)
	}
	assert.Equal(t, len(testRecords), total)
}

func TestBuild_duplicates(t *testing.T) {
	recs := []Record{
		{Entity: Entity{Kind: KindUser, ID: 1, FirstName: "A"}},
		{Entity: Entity{Kind: KindUser, ID: 1, FirstName: "A"}},
		// same ID, different ID space.
		{Name: "chat", Entity: Entity{Kind: KindChat, ID: 1}},
	}
	inv, err := Build(context.Background(), newSliceIter(recs...))
	require.NoError(t, err)
	// every record is kept.
	assert.Equal(t, 2, inv.Count(BucketPrivateChats))
	assert.Equal(t, 1, inv.Count(BucketGroups))
	assert.Equal(t, len(recs), inv.Len())
}

func TestInventory_Add(t *testing.T) {
	inv := NewInventory()
	assert.True(t, inv.Add(Record{Entity: Entity{Kind: KindUser, ID: 1}}))
	assert.False(t, inv.Add(Record{Entity: Entity{Kind: KindUser, ID: 1}}))
	assert.True(t, inv.Add(Record{Entity: Entity{Kind: KindChannel, ID: 1}}))
	// uncategorised records are never reported.
	assert.True(t, inv.Add(Record{Entity: Entity{ID: 1}}))
	assert.True(t, inv.Add(Record{Entity: Entity{ID: 1}}))
	assert.Equal(t, 5, inv.Len())
}

func TestBuild_error(t *testing.T) {
	errNet := errors.New("network is down")
	it := newSliceIter(testRecords[:2]...)
	it.err = errNet

	inv, err := Build(context.Background(), it)
	assert.ErrorIs(t, err, errNet)
	assert.Nil(t, inv)
}

func TestBuild_empty(t *testing.T) {
	inv, err := Build(context.Background(), newSliceIter())
	require.NoError(t, err)
	assert.Equal(t, 0, inv.Len())
	assert.Empty(t, inv.Flatten())
}
