package state

import "sort"

// Diff compares the artifacts of two runs by content hash.
type Diff struct {
	Added     []string
	Changed   []string
	Unchanged []string
	Removed   []string
}

// HasChanges reports whether anything was added, changed or removed.
func (d Diff) HasChanges() bool {
	return len(d.Added)+len(d.Changed)+len(d.Removed) > 0
}

// Compare diffs current against previous, both name to hash. Every list is sorted.
func Compare(previous, current map[string]string) Diff {
	var d Diff
	for name, hash := range current {
		old, ok := previous[name]
		switch {
		case !ok:
			d.Added = append(d.Added, name)
		case old != hash:
			d.Changed = append(d.Changed, name)
		default:
			d.Unchanged = append(d.Unchanged, name)
		}
	}
	for name := range previous {
		if _, ok := current[name]; !ok {
			d.Removed = append(d.Removed, name)
		}
	}
	sort.Strings(d.Added)
	sort.Strings(d.Changed)
	sort.Strings(d.Unchanged)
	sort.Strings(d.Removed)
	return d
}
