package scoring

import (
	"time"

	"github.com/dmitrijs2005/ideabank/internal/server/models"
)

type Badge string

const (
	BadgeFirstIdea      Badge = "first_idea"
	BadgeInnovator      Badge = "innovator"
	BadgeSuperInnovator Badge = "super_innovator"
	BadgeOnTarget       Badge = "on_target"
	BadgeMaster         Badge = "master"
	BadgeOnFire         Badge = "on_fire"
)

// OnFireWindow is the rolling window counted by the on_fire badge.
const OnFireWindow = 7 * 24 * time.Hour

type badgeCounts struct {
	total       int
	implemented int
	recent      int
}

var badgeRules = []struct {
	badge Badge
	ok    func(c badgeCounts) bool
}{
	{BadgeFirstIdea, func(c badgeCounts) bool { return c.total >= 1 }},
	{BadgeInnovator, func(c badgeCounts) bool { return c.total >= 5 }},
	{BadgeSuperInnovator, func(c badgeCounts) bool { return c.total >= 10 }},
	{BadgeOnTarget, func(c badgeCounts) bool { return c.implemented >= 1 }},
	{BadgeMaster, func(c badgeCounts) bool { return c.implemented >= 3 }},
	{BadgeOnFire, func(c badgeCounts) bool { return c.recent >= 3 }},
}

// Badges returns the badges unlocked by subs, in rule order. A submission
// is recent when it was created at or after now minus OnFireWindow.
func Badges(subs []*models.Submission, now time.Time) []Badge {
	var c badgeCounts
	since := now.Add(-OnFireWindow)
	for _, s := range subs {
		if s == nil {
			continue
		}
		c.total++
		if s.EffectiveStatus() == models.StatusImplemented {
			c.implemented++
		}
		if !s.CreatedAt.IsZero() && !s.CreatedAt.Before(since) {
			c.recent++
		}
	}

	badges := make([]Badge, 0, len(badgeRules))
	for _, r := range badgeRules {
		if r.ok(c) {
			badges = append(badges, r.badge)
		}
	}
	return badges
}
