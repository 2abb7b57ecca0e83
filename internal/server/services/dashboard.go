package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/ideabank/internal/common"
	"github.com/dmitrijs2005/ideabank/internal/server/models"
	"github.com/dmitrijs2005/ideabank/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/ideabank/internal/server/scoring"
	"github.com/dmitrijs2005/ideabank/internal/server/stats"
)

type Analytics struct {
	Total              int                `json:"total"`
	ThisMonth          int                `json:"this_month"`
	Contributors       int                `json:"contributors"`
	ImplementationRate float64            `json:"implementation_rate"`
	TotalVotes         int64              `json:"total_votes"`
	Approved           int                `json:"approved"`
	Implemented        int                `json:"implemented"`
	ByStatus           *stats.Counts      `json:"by_status"`
	ByCategory         *stats.Counts      `json:"by_category"`
	ByPriority         *stats.Counts      `json:"by_priority"`
	Monthly            []stats.LabelCount `json:"monthly"`
}

type LeaderboardEntry struct {
	Position    int    `json:"position"`
	Author      string `json:"author"`
	Submitted   int    `json:"submitted"`
	Implemented int    `json:"implemented"`
	scoring.Summary
}

type TextAnalysis struct {
	Keywords []stats.LabelCount `json:"keywords"`
	Tags     []stats.LabelCount `json:"tags"`
}

// DashboardService computes every view from one snapshot of the store
// taken per call.
type DashboardService struct {
	repos     repomanager.RepositoryManager
	stopwords map[string]struct{}
}

func NewDashboardService(repos repomanager.RepositoryManager) *DashboardService {
	return &DashboardService{repos: repos, stopwords: stats.DefaultStopwords()}
}

func (s *DashboardService) snapshot(ctx context.Context, f models.Filter) ([]*models.Submission, error) {
	subs, err := s.repos.Repositories().Submissions.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("load submissions: %w", err)
	}
	return subs, nil
}

func (s *DashboardService) Analytics(ctx context.Context, now time.Time) (*Analytics, error) {
	subs, err := s.snapshot(ctx, models.Filter{Sort: models.SortOldest})
	if err != nil {
		return nil, err
	}

	byStatus := stats.CountBy(stats.FieldStatus, subs)
	var votes int64
	for _, sub := range subs {
		votes += sub.Votes
	}

	return &Analytics{
		Total:              len(subs),
		ThisMonth:          stats.CountInMonth(subs, stats.MonthStart(now)),
		Contributors:       len(stats.UniqueAuthors(subs)),
		ImplementationRate: stats.ImplementationRate(subs),
		TotalVotes:         votes,
		Approved:           byStatus.Get(string(models.StatusApproved)),
		Implemented:        byStatus.Get(string(models.StatusImplemented)),
		ByStatus:           byStatus,
		ByCategory:         stats.CountBy(stats.FieldCategory, subs),
		ByPriority:         stats.CountBy(stats.FieldPriority, subs),
		Monthly:            stats.TimeBuckets(subs, stats.BucketMonth, now.Location()),
	}, nil
}

// Leaderboard ranks non-anonymous authors by points. Authors with equal
// points keep the order of their first submission. limit <= 0 means all.
func (s *DashboardService) Leaderboard(ctx context.Context, now time.Time, limit int) ([]LeaderboardEntry, error) {
	subs, err := s.snapshot(ctx, models.Filter{Sort: models.SortOldest})
	if err != nil {
		return nil, err
	}

	authors, groups := stats.GroupByAuthor(subs)
	entries := make([]LeaderboardEntry, 0, len(authors))
	for _, a := range authors {
		own := groups[a]
		entries = append(entries, LeaderboardEntry{
			Author:      a,
			Submitted:   len(own),
			Implemented: stats.CountBy(stats.FieldStatus, own).Get(string(models.StatusImplemented)),
			Summary:     scoring.Summarize(own, now),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Points > entries[j].Points })
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Position = i + 1
	}
	return entries, nil
}

// AuthorScore scores one author, grouping names exactly as Leaderboard
// does, so every leaderboard author can be looked up. An author without
// submissions is not found.
func (s *DashboardService) AuthorScore(ctx context.Context, author string, now time.Time) (*LeaderboardEntry, error) {
	author = strings.TrimSpace(author)
	if author == "" || strings.EqualFold(author, models.AnonymousAuthor) {
		return nil, fmt.Errorf("%w: author required", common.ErrorValidation)
	}

	subs, err := s.snapshot(ctx, models.Filter{Sort: models.SortOldest})
	if err != nil {
		return nil, err
	}
	_, groups := stats.GroupByAuthor(subs)
	own := groups[author]
	if len(own) == 0 {
		return nil, common.ErrorNotFound
	}

	return &LeaderboardEntry{
		Author:      author,
		Submitted:   len(own),
		Implemented: stats.CountBy(stats.FieldStatus, own).Get(string(models.StatusImplemented)),
		Summary:     scoring.Summarize(own, now),
	}, nil
}

// TextAnalysis returns the top keywords of titles and descriptions and
// the most used tags.
func (s *DashboardService) TextAnalysis(ctx context.Context, limit int) (*TextAnalysis, error) {
	subs, err := s.snapshot(ctx, models.Filter{Sort: models.SortOldest})
	if err != nil {
		return nil, err
	}

	texts := make([]string, 0, 2*len(subs))
	tags := stats.NewCounts()
	for _, sub := range subs {
		texts = append(texts, sub.Title, sub.Description)
		for _, t := range sub.Tags {
			tags.Add(strings.ToLower(t), 1)
		}
	}

	keywords := stats.KeywordFrequency(texts, s.stopwords, stats.DefaultMinLength)
	if limit > 0 && limit < len(keywords) {
		keywords = keywords[:limit]
	}
	return &TextAnalysis{Keywords: keywords, Tags: stats.TopN(tags, limit)}, nil
}
