// Package stats holds the pure reductions behind the dashboards: grouped
// counts, time buckets, rankings and keyword frequencies. None of the
// functions mutate their input and all of them accept an empty slice.
package stats

import (
	"encoding/json"
	"sort"
)

// Uncategorized groups records whose field value is missing or unknown.
const Uncategorized = "Uncategorized"

// LabelCount is one row of a grouped count.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Counts maps labels to counts and remembers the order in which labels
// were first seen, so ties can be broken deterministically.
type Counts struct {
	index map[string]int
	items []LabelCount
}

func NewCounts() *Counts {
	return &Counts{index: make(map[string]int)}
}

// Add increments label by n.
func (c *Counts) Add(label string, n int) {
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if i, ok := c.index[label]; ok {
		c.items[i].Count += n
		return
	}
	c.index[label] = len(c.items)
	c.items = append(c.items, LabelCount{Label: label, Count: n})
}

func (c *Counts) Get(label string) int {
	if i, ok := c.index[label]; ok {
		return c.items[i].Count
	}
	return 0
}

func (c *Counts) Len() int { return len(c.items) }

// Items returns a copy of the rows in first-seen order.
func (c *Counts) Items() []LabelCount {
	out := make([]LabelCount, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Counts) Map() map[string]int {
	m := make(map[string]int, len(c.items))
	for _, it := range c.items {
		m[it.Label] = it.Count
	}
	return m
}

func (c *Counts) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Items())
}

// TopN returns up to n rows ordered by descending count. Rows with equal
// counts keep their first-seen order. n <= 0 returns every row.
func TopN(c *Counts, n int) []LabelCount {
	items := c.Items()
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Count > items[j].Count
	})
	if n > 0 && n < len(items) {
		items = items[:n]
	}
	return items
}
