package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/ideabank/internal/common"
	"github.com/dmitrijs2005/ideabank/internal/logging"
	"github.com/dmitrijs2005/ideabank/internal/server/document"
	"github.com/dmitrijs2005/ideabank/internal/server/metrics"
	"github.com/dmitrijs2005/ideabank/internal/server/mirror"
	"github.com/dmitrijs2005/ideabank/internal/server/models"
	"github.com/dmitrijs2005/ideabank/internal/server/repositories/repomanager"
)

// NewSubmission is the public idea form.
type NewSubmission struct {
	Title         string   `json:"title" validate:"required,max=200"`
	Anonymous     bool     `json:"anonymous"`
	Author        string   `json:"author" validate:"required_without=Anonymous,max=120"`
	Email         string   `json:"email" validate:"omitempty,email,max=254"`
	Unit          string   `json:"unit" validate:"required_without=Anonymous,max=120"`
	Category      string   `json:"category" validate:"required,category"`
	Priority      string   `json:"priority" validate:"omitempty,priority"`
	Impact        string   `json:"impact" validate:"max=2000"`
	Description   string   `json:"description" validate:"required,max=10000"`
	Justification string   `json:"justification" validate:"max=10000"`
	Resources     string   `json:"resources" validate:"max=10000"`
	Benefits      string   `json:"benefits" validate:"max=10000"`
	Timeline      string   `json:"timeline" validate:"max=200"`
	Budget        string   `json:"budget" validate:"max=200"`
	Tags          []string `json:"tags" validate:"max=50"`
}

// UpdateRequest is an administrative edit. Empty strings are ignored for
// status and priority; an empty owner clears it.
type UpdateRequest struct {
	Status   *string `json:"status" validate:"omitempty,status"`
	Priority *string `json:"priority" validate:"omitempty,priority"`
	Owner    *string `json:"owner" validate:"omitempty,max=120"`
}

// MirrorResult reports the document mirror outcome of one submission.
type MirrorResult struct {
	Mirror   string `json:"mirror"`
	Uploaded bool   `json:"uploaded"`
	FileName string `json:"file_name,omitempty"`
	Key      string `json:"key,omitempty"`
	Error    string `json:"error,omitempty"`
}

type SubmitResult struct {
	Submission *models.Submission `json:"submission"`
	Mirror     MirrorResult       `json:"mirror"`
}

type SubmissionService struct {
	repos    repomanager.RepositoryManager
	mirror   mirror.Mirror
	folder   string
	validate *validator.Validate
	clean    sanitizer
	logger   logging.Logger
	metrics  *metrics.Metrics
}

func NewSubmissionService(repos repomanager.RepositoryManager, m mirror.Mirror, folder string, logger logging.Logger, mt *metrics.Metrics) *SubmissionService {
	if m == nil {
		m = mirror.Disabled{}
	}
	if folder == "" {
		folder = common.DefaultMirrorFolder
	}
	return &SubmissionService{
		repos:    repos,
		mirror:   m,
		folder:   folder,
		validate: NewValidator(),
		clean:    newSanitizer(),
		logger:   logger.With("module", "submissions"),
		metrics:  mt,
	}
}

func (s *SubmissionService) sanitize(in NewSubmission) NewSubmission {
	out := in
	for _, f := range []*string{
		&out.Title, &out.Author, &out.Email, &out.Unit, &out.Category, &out.Priority, &out.Impact,
		&out.Description, &out.Justification, &out.Resources, &out.Benefits, &out.Timeline, &out.Budget,
	} {
		*f = s.clean.text(*f)
	}
	if strings.EqualFold(out.Author, models.AnonymousAuthor) {
		out.Anonymous = true
	}
	out.Tags = normalizeTags(in.Tags, s.clean.text)
	return out
}

// Submit stores a new idea and mirrors its document. A store failure is
// returned; a mirror failure is only reported in the result.
func (s *SubmissionService) Submit(ctx context.Context, in NewSubmission) (*SubmitResult, error) {
	in = s.sanitize(in)
	if err := s.validate.StructCtx(ctx, in); err != nil {
		return nil, validationError(err)
	}

	sub := &models.Submission{
		Title:         in.Title,
		Author:        in.Author,
		Email:         in.Email,
		Unit:          in.Unit,
		Category:      models.Category(in.Category),
		Priority:      models.Priority(in.Priority),
		Impact:        in.Impact,
		Description:   in.Description,
		Justification: in.Justification,
		Resources:     in.Resources,
		Benefits:      in.Benefits,
		Timeline:      in.Timeline,
		Budget:        in.Budget,
		Tags:          in.Tags,
	}
	if in.Anonymous {
		sub.Author = models.AnonymousAuthor
		sub.Email = ""
		sub.Unit = ""
	}

	created, err := s.repos.Repositories().Submissions.Create(ctx, sub)
	if err != nil {
		s.logger.Error(ctx, "submission store failed", "error", err)
		return nil, fmt.Errorf("store submission: %w", err)
	}
	s.metrics.SubmissionsCreated.Inc()
	s.logger.Info(ctx, "submission stored", "id", created.ID, "category", created.Category)

	return &SubmitResult{Submission: created, Mirror: s.mirrorDocument(ctx, created)}, nil
}

// Mirror regenerates and re-uploads the document of an existing submission.
func (s *SubmissionService) Mirror(ctx context.Context, id string) (MirrorResult, error) {
	sub, err := s.Get(ctx, id)
	if err != nil {
		return MirrorResult{}, err
	}
	return s.mirrorDocument(ctx, sub), nil
}

func (s *SubmissionService) mirrorDocument(ctx context.Context, sub *models.Submission) MirrorResult {
	res := MirrorResult{Mirror: s.mirror.Name(), FileName: document.FileName(sub.Category, sub.ID, sub.CreatedAt)}

	content, err := document.Render(sub)
	if err == nil {
		res.Key, err = s.mirror.Upload(ctx, s.folder, res.FileName, content, document.ContentType)
	}

	switch {
	case errors.Is(err, common.ErrorMirrorDisabled):
		res.Error = err.Error()
		s.metrics.MirrorUploads.WithLabelValues(metrics.ResultDisabled).Inc()
		return res
	case err != nil:
		res.Error = err.Error()
		s.metrics.MirrorUploads.WithLabelValues(metrics.ResultFailed).Inc()
		s.logger.Warn(ctx, "document mirror failed", "id", sub.ID, "mirror", res.Mirror, "error", err)
	default:
		res.Uploaded = true
		s.metrics.MirrorUploads.WithLabelValues(metrics.ResultCompleted).Inc()
		s.logger.Info(ctx, "document mirrored", "id", sub.ID, "key", res.Key)
	}

	status := models.DocumentCompleted
	if !res.Uploaded {
		status = models.DocumentFailed
	}
	_, err = s.repos.Repositories().Documents.Create(ctx, &models.Document{
		SubmissionID: sub.ID,
		FileName:     res.FileName,
		StorageKey:   res.Key,
		Mirror:       res.Mirror,
		Status:       status,
		Error:        res.Error,
	})
	if err != nil {
		s.logger.Warn(ctx, "document log failed", "id", sub.ID, "error", err)
	}
	return res
}

func (s *SubmissionService) List(ctx context.Context, f models.Filter) ([]*models.Submission, error) {
	if f.Category != "" && !f.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", common.ErrorValidation, f.Category)
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", common.ErrorValidation, f.Status)
	}
	if f.Sort != "" && !f.Sort.Valid() {
		return nil, fmt.Errorf("%w: unknown sort %q", common.ErrorValidation, f.Sort)
	}
	return s.repos.Repositories().Submissions.List(ctx, f)
}

func (s *SubmissionService) Get(ctx context.Context, id string) (*models.Submission, error) {
	return s.repos.Repositories().Submissions.GetByID(ctx, id)
}

// Update applies an administrative edit. Any status may follow any other.
func (s *SubmissionService) Update(ctx context.Context, id string, req UpdateRequest) (*models.Submission, error) {
	if err := s.validate.StructCtx(ctx, req); err != nil {
		return nil, validationError(err)
	}

	var u models.SubmissionUpdate
	if req.Status != nil && *req.Status != "" {
		st := models.Status(*req.Status)
		u.Status = &st
	}
	if req.Priority != nil && *req.Priority != "" {
		p := models.Priority(*req.Priority)
		u.Priority = &p
	}
	if req.Owner != nil {
		owner := s.clean.text(*req.Owner)
		u.Owner = &owner
	}
	if u.Empty() {
		return nil, fmt.Errorf("%w: nothing to update", common.ErrorValidation)
	}

	updated, err := s.repos.Repositories().Submissions.Update(ctx, id, u)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "submission updated", "id", id, "status", updated.Status, "priority", updated.Priority)
	return updated, nil
}

func (s *SubmissionService) Vote(ctx context.Context, id string) (int64, error) {
	votes, err := s.repos.Repositories().Submissions.IncrementVotes(ctx, id)
	if err != nil {
		return 0, err
	}
	s.metrics.Votes.Inc()
	return votes, nil
}

// Delete removes the submission and its mirror log in one unit of work.
// Mirrored files are left in place.
func (s *SubmissionService) Delete(ctx context.Context, id string) error {
	err := s.repos.WithTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		if _, err := r.Submissions.GetByID(ctx, id); err != nil {
			return err
		}
		if _, err := r.Documents.DeleteBySubmission(ctx, id); err != nil {
			return err
		}
		return r.Submissions.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.logger.Info(ctx, "submission deleted", "id", id)
	return nil
}

// Document renders the .docx of a submission for download.
func (s *SubmissionService) Document(ctx context.Context, id string) (string, []byte, error) {
	sub, err := s.Get(ctx, id)
	if err != nil {
		return "", nil, err
	}
	content, err := document.Render(sub)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return document.FileName(sub.Category, sub.ID, sub.CreatedAt), content, nil
}

// Documents lists the mirror attempts recorded for a submission.
func (s *SubmissionService) Documents(ctx context.Context, id string) ([]*models.Document, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.repos.Repositories().Documents.ListBySubmission(ctx, id)
}

// Since resolves a named period (week, month, quarter) relative to now.
// An empty name means no lower bound.
func Since(period string, now time.Time) (time.Time, error) {
	switch strings.ToLower(period) {
	case "", "all":
		return time.Time{}, nil
	case "week":
		return now.AddDate(0, 0, -7), nil
	case "month":
		return now.AddDate(0, -1, 0), nil
	case "quarter":
		return now.AddDate(0, -3, 0), nil
	}
	return time.Time{}, fmt.Errorf("%w: unknown period %q", common.ErrorValidation, period)
}
