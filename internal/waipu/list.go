package waipu

import (
	"fmt"
	"io"

	"github.com/rusq/purgemychats/internal/convo"
)

var bucketTitles = map[convo.Bucket]string{
	convo.BucketPrivateChats: "Private Chats",
	convo.BucketGroups:       "Groups",
	convo.BucketChannels:     "Channels",
	convo.BucketOther:        "Other",
}

// PrintCounts prints the number of conversations per bucket.
func PrintCounts(w io.Writer, inv *convo.Inventory) {
	fmt.Fprintf(w, "\nFound %d total conversations:\n", inv.Len())
	for _, b := range convo.Buckets {
		fmt.Fprintf(w, "- %s: %d\n", bucketTitles[b], inv.Count(b))
	}
}

// List prints all conversations with their IDs, grouped by bucket.
func List(w io.Writer, inv *convo.Inventory) error {
	for _, b := range convo.Buckets {
		items := inv.Bucket(b)
		if len(items) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s:\n", bucketTitles[b]); err != nil {
			return err
		}
		for _, it := range items {
			if _, err := fmt.Fprintf(w, "%15d - %s\n", it.ID, it); err != nil {
				return err
			}
		}
	}
	return nil
}
