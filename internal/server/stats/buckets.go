package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/dmitrijs2005/ideabank/internal/server/models"
)

type Bucket string

const (
	BucketDay   Bucket = "day"
	BucketWeek  Bucket = "week"
	BucketMonth Bucket = "month"
)

func ParseBucket(s string) (Bucket, error) {
	switch b := Bucket(s); b {
	case "":
		return BucketMonth, nil
	case BucketDay, BucketWeek, BucketMonth:
		return b, nil
	}
	return "", fmt.Errorf("unknown bucket %q", s)
}

// start truncates t to the beginning of its bucket. Weeks start on Monday.
func (b Bucket) start(t time.Time) time.Time {
	y, m, d := t.Date()
	switch b {
	case BucketDay:
		return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	case BucketWeek:
		offset := (int(t.Weekday()) + 6) % 7
		return time.Date(y, m, d-offset, 0, 0, 0, 0, t.Location())
	default:
		return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	}
}

func (b Bucket) format(t time.Time) string {
	if b == BucketMonth || b == "" {
		return t.Format("2006-01")
	}
	return t.Format("2006-01-02")
}

// TimeBuckets counts submissions per calendar bucket of created_at as seen
// in loc (UTC when nil) and returns the buckets in chronological order.
// Pass the location of the MonthStart used for CountInMonth so both agree.
// Submissions without a timestamp are skipped.
func TimeBuckets(subs []*models.Submission, b Bucket, loc *time.Location) []LabelCount {
	if loc == nil {
		loc = time.UTC
	}
	counts := make(map[time.Time]int)
	for _, s := range subs {
		if s == nil || s.CreatedAt.IsZero() {
			continue
		}
		counts[b.start(s.CreatedAt.In(loc))]++
	}

	keys := make([]time.Time, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	out := make([]LabelCount, 0, len(keys))
	for _, k := range keys {
		out = append(out, LabelCount{Label: b.format(k), Count: counts[k]})
	}
	return out
}
