package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/ideabank/internal/common"
	"github.com/dmitrijs2005/ideabank/internal/server/models"
	"github.com/dmitrijs2005/ideabank/internal/server/repositories/repomanager"
)

type fakeSubmissions struct {
	mu        sync.Mutex
	items     []*models.Submission
	next      int
	now       time.Time
	createErr error
	listErr   error
	lastList  models.Filter
}

func (f *fakeSubmissions) Create(ctx context.Context, s *models.Submission) (*models.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.next++
	c := *s
	c.ID = fmt.Sprintf("id-%d", f.next)
	c.Status = models.StatusPending
	c.Priority = s.EffectivePriority()
	c.Votes = 0
	c.CreatedAt, c.UpdatedAt = f.now, f.now
	f.items = append(f.items, &c)
	out := c
	return &out, nil
}

func (f *fakeSubmissions) find(id string) (*models.Submission, int) {
	for i, s := range f.items {
		if s.ID == id {
			return s, i
		}
	}
	return nil, -1
}

func (f *fakeSubmissions) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, _ := f.find(id)
	if s == nil {
		return nil, common.ErrorNotFound
	}
	out := *s
	return &out, nil
}

func (f *fakeSubmissions) List(ctx context.Context, flt models.Filter) ([]*models.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastList = flt
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []*models.Submission{}
	for _, s := range f.items {
		if flt.Author != "" && s.Author != flt.Author {
			continue
		}
		if flt.Category != "" && s.Category != flt.Category {
			continue
		}
		if flt.Status != "" && s.Status != flt.Status {
			continue
		}
		if !flt.Since.IsZero() && s.CreatedAt.Before(flt.Since) {
			continue
		}
		c := *s
		out = append(out, &c)
	}
	if flt.Sort == models.SortOldest {
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	}
	return out, nil
}

func (f *fakeSubmissions) Update(ctx context.Context, id string, u models.SubmissionUpdate) (*models.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, _ := f.find(id)
	if s == nil {
		return nil, common.ErrorNotFound
	}
	if u.Status != nil {
		s.Status = *u.Status
	}
	if u.Priority != nil {
		s.Priority = *u.Priority
	}
	if u.Owner != nil {
		s.Owner = *u.Owner
	}
	s.UpdatedAt = f.now.Add(time.Minute)
	out := *s
	return &out, nil
}

func (f *fakeSubmissions) IncrementVotes(ctx context.Context, id string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, _ := f.find(id)
	if s == nil {
		return 0, common.ErrorNotFound
	}
	s.Votes++
	return s.Votes, nil
}

func (f *fakeSubmissions) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, i := f.find(id)
	if i < 0 {
		return common.ErrorNotFound
	}
	f.items = append(f.items[:i], f.items[i+1:]...)
	return nil
}

func (f *fakeSubmissions) Count(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.items)), nil
}

func (f *fakeSubmissions) CountByCategory(ctx context.Context) ([]models.CategoryCount, error) {
	return nil, nil
}

type fakeDocuments struct {
	mu        sync.Mutex
	items     []*models.Document
	createErr error
	deleteErr error
}

func (f *fakeDocuments) Create(ctx context.Context, d *models.Document) (*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	c := *d
	c.ID = int64(len(f.items) + 1)
	f.items = append(f.items, &c)
	return &c, nil
}

func (f *fakeDocuments) ListBySubmission(ctx context.Context, id string) ([]*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Document{}
	for _, d := range f.items {
		if d.SubmissionID == id {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDocuments) DeleteBySubmission(ctx context.Context, id string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	var kept []*models.Document
	var n int64
	for _, d := range f.items {
		if d.SubmissionID == id {
			n++
			continue
		}
		kept = append(kept, d)
	}
	f.items = kept
	return n, nil
}

type fakeManager struct {
	subs    *fakeSubmissions
	docs    *fakeDocuments
	txCalls int
}

func newFakeManager(now time.Time) *fakeManager {
	return &fakeManager{subs: &fakeSubmissions{now: now}, docs: &fakeDocuments{}}
}

func (m *fakeManager) RunMigrations(context.Context) error { return nil }

func (m *fakeManager) Repositories() repomanager.Repositories {
	return repomanager.Repositories{Submissions: m.subs, Documents: m.docs}
}

func (m *fakeManager) WithTx(ctx context.Context, fn func(context.Context, repomanager.Repositories) error) error {
	m.txCalls++
	return fn(ctx, m.Repositories())
}

func (m *fakeManager) Ping(context.Context) error  { return nil }
func (m *fakeManager) Close(context.Context) error { return nil }

type fakeMirror struct {
	mu      sync.Mutex
	err     error
	folder  string
	name    string
	content []byte
	ctype   string
}

func (m *fakeMirror) Upload(ctx context.Context, folder, name string, content []byte, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.folder, m.name, m.content, m.ctype = folder, name, content, contentType
	if m.err != nil {
		return "", m.err
	}
	return folder + "/" + name, nil
}

func (m *fakeMirror) Name() string { return "fake" }
