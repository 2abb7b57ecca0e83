// Package scoring computes gamification results for one author: a point
// total, the unlocked badges and the title tier derived from the points.
//
// Everything here is a pure function of its input. Records with a missing
// or unknown status count as Pending and those with a missing priority
// count as Medium.
package scoring

import (
	"time"

	"github.com/dmitrijs2005/ideabank/internal/server/models"
)

const (
	basePoints        = 10
	approvedBonus     = 20
	implementedBonus  = 50
	highPriorityBonus = 15
	criticalBonus     = 25
)

// Points returns the total points earned by subs. Nil entries are skipped.
func Points(subs []*models.Submission) int {
	total := 0
	for _, s := range subs {
		if s == nil {
			continue
		}
		total += pointsFor(s)
	}
	return total
}

func pointsFor(s *models.Submission) int {
	p := basePoints

	switch s.EffectiveStatus() {
	case models.StatusApproved:
		p += approvedBonus
	case models.StatusImplemented:
		p += implementedBonus
	}

	switch s.EffectivePriority() {
	case models.PriorityHigh:
		p += highPriorityBonus
	case models.PriorityCritical:
		p += criticalBonus
	}

	return p
}

// Summary is the derived, never persisted, score of one author.
type Summary struct {
	Points int       `json:"points"`
	Badges []Badge   `json:"badges"`
	Tier   Tier      `json:"tier"`
	Next   *Progress `json:"next,omitempty"`
}

// Progress describes the next tier to reach. It is nil at the top tier.
type Progress struct {
	Tier      Tier `json:"tier"`
	Threshold int  `json:"threshold"`
	Missing   int  `json:"missing"`
}

// Summarize computes points, badges and tier for subs as of now.
func Summarize(subs []*models.Submission, now time.Time) Summary {
	points := Points(subs)
	sum := Summary{
		Points: points,
		Badges: Badges(subs, now),
		Tier:   TierFor(points),
	}
	if next, ok := NextTier(points); ok {
		sum.Next = &Progress{Tier: next.Tier, Threshold: next.Points, Missing: next.Points - points}
	}
	return sum
}
