package models

import "time"

type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
	SortTitle  SortOrder = "title"
	SortAuthor SortOrder = "author"
	SortVotes  SortOrder = "votes"
)

func (s SortOrder) Valid() bool {
	switch s {
	case SortNewest, SortOldest, SortTitle, SortAuthor, SortVotes:
		return true
	}
	return false
}

// Filter narrows a submission listing. Zero values mean "no constraint";
// an empty Sort means newest first.
type Filter struct {
	Category Category
	Status   Status
	Author   string
	Since    time.Time
	Sort     SortOrder
}

// CategoryCount is one row of the store-side per-category aggregation.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}
