package tidy

import "sort"

// Group is one bucket of a grouped view: every warning sharing Key.
type Group struct {
	Key   string
	Items []Warning
}

// Count returns the number of warnings in the group.
func (g Group) Count() int { return len(g.Items) }

// KeyFunc extracts a grouping key from a warning.
type KeyFunc func(Warning) string

// ByFile groups warnings by their resolved path.
func ByFile(w Warning) string { return w.File }

// ByCheck groups warnings by the rule that fired.
func ByCheck(w Warning) string { return w.Check }

// GroupBy projects warnings into groups keyed by key. Groups come back
// ordered by key ascending and each group's items in Compare order. The
// input slice is not modified.
func GroupBy(warnings []Warning, key KeyFunc) []Group {
	sorted := make([]Warning, len(warnings))
	copy(sorted, warnings)
	sort.Slice(sorted, func(i, j int) bool {
		return Compare(sorted[i], sorted[j]) < 0
	})

	idx := make(map[string]int)
	var groups []Group
	for _, w := range sorted {
		k := key(w)
		i, ok := idx[k]
		if !ok {
			i = len(groups)
			idx[k] = i
			groups = append(groups, Group{Key: k})
		}
		groups[i].Items = append(groups[i].Items, w)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Key < groups[j].Key
	})
	return groups
}

// SortByCount orders groups by size descending, breaking ties by key
// ascending so the order is stable across runs.
func SortByCount(groups []Group) {
	sort.Slice(groups, func(i, j int) bool {
		if len(groups[i].Items) != len(groups[j].Items) {
			return len(groups[i].Items) > len(groups[j].Items)
		}
		return groups[i].Key < groups[j].Key
	})
}

// SortByKey orders groups by key ascending.
func SortByKey(groups []Group) {
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Key < groups[j].Key
	})
}
