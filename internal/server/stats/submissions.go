package stats

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/ideabank/internal/server/models"
)

// Field selects the submission attribute to group on.
type Field string

const (
	FieldStatus   Field = "status"
	FieldCategory Field = "category"
	FieldPriority Field = "priority"
	FieldAuthor   Field = "author"
)

func ParseField(s string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FieldStatus, FieldCategory, FieldPriority, FieldAuthor:
		return f, nil
	}
	return "", fmt.Errorf("unknown field %q", s)
}

// label returns the grouping label of s for f, and false when s must be
// left out of the grouping altogether.
func label(f Field, s *models.Submission) (string, bool) {
	switch f {
	case FieldStatus:
		if s.Status.Valid() {
			return string(s.Status), true
		}
	case FieldCategory:
		if s.Category.Valid() {
			return string(s.Category), true
		}
	case FieldPriority:
		if s.Priority.Valid() {
			return string(s.Priority), true
		}
	case FieldAuthor:
		if s.IsAnonymous() {
			return "", false
		}
		return strings.TrimSpace(s.Author), true
	}
	return Uncategorized, true
}

// CountBy groups subs by f. Missing or unknown values are counted under
// Uncategorized; anonymous submissions are skipped when grouping by author.
func CountBy(f Field, subs []*models.Submission) *Counts {
	c := NewCounts()
	for _, s := range subs {
		if s == nil {
			continue
		}
		if l, ok := label(f, s); ok {
			c.Add(l, 1)
		}
	}
	return c
}

// MonthStart returns midnight of the first day of t's month, in t's location.
func MonthStart(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// CountSince counts submissions created at or after since.
func CountSince(subs []*models.Submission, since time.Time) int {
	n := 0
	for _, s := range subs {
		if s == nil || s.CreatedAt.IsZero() {
			continue
		}
		if !s.CreatedAt.Before(since) {
			n++
		}
	}
	return n
}

// CountInMonth counts submissions created at or after monthStart.
func CountInMonth(subs []*models.Submission, monthStart time.Time) int {
	return CountSince(subs, monthStart)
}

// UniqueAuthors lists distinct non-anonymous authors in first-seen order.
func UniqueAuthors(subs []*models.Submission) []string {
	return CountBy(FieldAuthor, subs).labels()
}

func (c *Counts) labels() []string {
	out := make([]string, 0, len(c.items))
	for _, it := range c.items {
		out = append(out, it.Label)
	}
	return out
}

// ImplementationRate is the share of Implemented submissions, 0 for no input.
func ImplementationRate(subs []*models.Submission) float64 {
	total, done := 0, 0
	for _, s := range subs {
		if s == nil {
			continue
		}
		total++
		if s.Status == models.StatusImplemented {
			done++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(done) / float64(total)
}

// GroupByAuthor splits subs per non-anonymous author, preserving the order
// in which authors and their submissions appear.
func GroupByAuthor(subs []*models.Submission) ([]string, map[string][]*models.Submission) {
	groups := make(map[string][]*models.Submission)
	var authors []string
	for _, s := range subs {
		if s == nil || s.IsAnonymous() {
			continue
		}
		a := strings.TrimSpace(s.Author)
		if _, ok := groups[a]; !ok {
			authors = append(authors, a)
		}
		groups[a] = append(groups[a], s)
	}
	return authors, groups
}
