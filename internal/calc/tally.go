package calc

import "sort"

// tally counts keys and remembers the order in which they were first seen,
// so that rankings break ties by first occurrence.
type tally struct {
	order  []string
	counts map[string]int
}

type tallyEntry struct {
	key   string
	count int
}

func newTally() *tally {
	return &tally{counts: make(map[string]int)}
}

func (t *tally) add(key string, n int) {
	if _, ok := t.counts[key]; !ok {
		t.order = append(t.order, key)
	}
	t.counts[key] += n
}

func (t *tally) len() int { return len(t.order) }

func (t *tally) total() int {
	sum := 0
	for _, n := range t.counts {
		sum += n
	}
	return sum
}

// top returns at most n entries by descending count. n <= 0 returns all of them.
func (t *tally) top(n int) []tallyEntry {
	entries := make([]tallyEntry, 0, len(t.order))
	for _, k := range t.order {
		entries = append(entries, tallyEntry{key: k, count: t.counts[k]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].count > entries[j].count
	})
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
