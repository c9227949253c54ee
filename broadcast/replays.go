package broadcast

import (
	"slices"

	"github.com/carlosx8664/skyy-fc/model"
)

// SortReplays returns a copy of items ordered newest first. Items without a
// readable date go last; equal dates keep their original order.
func SortReplays(items []model.ReplayItem) []model.ReplayItem {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b model.ReplayItem) int {
		ta, okA := a.Published()
		tb, okB := b.Published()
		switch {
		case okA && okB:
			return tb.Compare(ta)
		case okA:
			return -1
		case okB:
			return 1
		}
		return 0
	})
	return out
}

// MergeReplays concatenates replay collections, dropping later items that
// point at a video already present.
func MergeReplays(sets ...[]model.ReplayItem) []model.ReplayItem {
	seen := make(map[string]bool)
	var out []model.ReplayItem
	for _, set := range sets {
		for _, item := range set {
			key := item.ID
			if id, ok := VideoID(item.VideoURL); ok {
				key = "yt:" + id
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, item)
		}
	}
	return out
}
