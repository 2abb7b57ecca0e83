package scoring

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/ideabank/internal/server/models"
)

func sub(status models.Status, priority models.Priority, created time.Time) *models.Submission {
	return &models.Submission{Status: status, Priority: priority, CreatedAt: created}
}

func TestPoints(t *testing.T) {
	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		subs []*models.Submission
		want int
	}{
		{"empty", nil, 0},
		{
			name: "pending approved implemented with medium priority",
			subs: []*models.Submission{
				sub(models.StatusPending, models.PriorityMedium, old),
				sub(models.StatusApproved, models.PriorityMedium, old),
				sub(models.StatusImplemented, models.PriorityMedium, old),
			},
			want: 100,
		},
		{"high priority bonus", []*models.Submission{sub(models.StatusPending, models.PriorityHigh, old)}, 25},
		{"critical implemented", []*models.Submission{sub(models.StatusImplemented, models.PriorityCritical, old)}, 85},
		{"missing fields use defaults", []*models.Submission{{}}, 10},
		{"rejected and in review get base only", []*models.Submission{
			sub(models.StatusRejected, models.PriorityLow, old),
			sub(models.StatusInReview, models.PriorityLow, old),
		}, 20},
		{"nil entries skipped", []*models.Submission{nil, sub(models.StatusApproved, "", old)}, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Points(tt.subs))
		})
	}
}

func TestPoints_NonDecreasing(t *testing.T) {
	var subs []*models.Submission
	prev := 0
	for _, st := range models.Statuses() {
		for _, pr := range models.Priorities() {
			subs = append(subs, sub(st, pr, time.Time{}))
			got := Points(subs)
			assert.GreaterOrEqual(t, got, prev)
			assert.GreaterOrEqual(t, got, 0)
			prev = got
		}
	}
}

func TestBadges(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	old := now.AddDate(0, -1, 0)

	t.Run("five ideas one implemented none recent", func(t *testing.T) {
		subs := []*models.Submission{
			sub(models.StatusImplemented, models.PriorityMedium, old),
			sub(models.StatusPending, models.PriorityMedium, old),
			sub(models.StatusPending, models.PriorityMedium, old),
			sub(models.StatusApproved, models.PriorityMedium, old),
			sub(models.StatusRejected, models.PriorityMedium, old),
		}
		assert.Equal(t, []Badge{BadgeFirstIdea, BadgeInnovator, BadgeOnTarget}, Badges(subs, now))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, Badges(nil, now))
	})

	t.Run("on fire counts window boundary", func(t *testing.T) {
		subs := []*models.Submission{
			sub("", "", now.Add(-OnFireWindow)),
			sub("", "", now.Add(-time.Hour)),
			sub("", "", now),
		}
		assert.Contains(t, Badges(subs, now), BadgeOnFire)

		subs[0].CreatedAt = now.Add(-OnFireWindow - time.Second)
		assert.NotContains(t, Badges(subs, now), BadgeOnFire)
	})

	t.Run("every badge", func(t *testing.T) {
		var subs []*models.Submission
		for i := 0; i < 10; i++ {
			st := models.StatusPending
			if i < 3 {
				st = models.StatusImplemented
			}
			subs = append(subs, sub(st, models.PriorityLow, now.Add(-time.Duration(i)*time.Hour)))
		}
		assert.Equal(t, []Badge{
			BadgeFirstIdea, BadgeInnovator, BadgeSuperInnovator,
			BadgeOnTarget, BadgeMaster, BadgeOnFire,
		}, Badges(subs, now))
	})
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		points int
		want   Tier
	}{
		{0, TierNewcomer},
		{99, TierNewcomer},
		{100, TierContributor},
		{249, TierContributor},
		{250, TierIdealizer},
		{499, TierIdealizer},
		{500, TierCreative},
		{749, TierCreative},
		{750, TierInnovator},
		{999, TierInnovator},
		{1000, TierLegend},
		{50000, TierLegend},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TierFor(tt.points), "points=%d", tt.points)
	}
}

func TestNextTier(t *testing.T) {
	next, ok := NextTier(0)
	require.True(t, ok)
	assert.Equal(t, Threshold{TierContributor, 100}, next)

	next, ok = NextTier(100)
	require.True(t, ok)
	assert.Equal(t, Threshold{TierIdealizer, 250}, next)

	next, ok = NextTier(999)
	require.True(t, ok)
	assert.Equal(t, Threshold{TierLegend, 1000}, next)

	_, ok = NextTier(1000)
	assert.False(t, ok)
}

func TestSummarize(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	subs := []*models.Submission{
		sub(models.StatusImplemented, models.PriorityCritical, now),
		sub(models.StatusApproved, models.PriorityHigh, now),
	}

	got := Summarize(subs, now)
	assert.Equal(t, 130, got.Points)
	assert.Equal(t, TierContributor, got.Tier)
	require.NotNil(t, got.Next)
	assert.Equal(t, Progress{Tier: TierIdealizer, Threshold: 250, Missing: 120}, *got.Next)

	b, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"points":130,"badges":["first_idea","on_target"],"tier":"contributor","next":{"tier":"idealizer","threshold":250,"missing":120}}`,
		string(b))
}

func TestSummarize_TopTier(t *testing.T) {
	var subs []*models.Submission
	for i := 0; i < 12; i++ {
		subs = append(subs, sub(models.StatusImplemented, models.PriorityCritical, time.Time{}))
	}
	got := Summarize(subs, time.Now())
	assert.Equal(t, 1020, got.Points)
	assert.Equal(t, TierLegend, got.Tier)
	assert.Nil(t, got.Next)
}

func TestTier_Text(t *testing.T) {
	b, err := json.Marshal(map[string]Tier{"tier": TierIdealizer})
	require.NoError(t, err)
	assert.JSONEq(t, `{"tier":"idealizer"}`, string(b))

	var got map[string]Tier
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, TierIdealizer, got["tier"])

	var tier Tier
	assert.Error(t, tier.UnmarshalText([]byte("wizard")))
}
