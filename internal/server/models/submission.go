// Package models defines the server-side data model persisted by the
// Record Store and consumed by the scoring and statistics packages.
package models

import (
	"strings"
	"time"
)

// AnonymousAuthor marks a submission sent without attribution.
const AnonymousAuthor = "Anonymous"

type Status string

const (
	StatusPending     Status = "Pending"
	StatusInReview    Status = "In Review"
	StatusApproved    Status = "Approved"
	StatusImplemented Status = "Implemented"
	StatusRejected    Status = "Rejected"
)

var statuses = []Status{StatusPending, StatusInReview, StatusApproved, StatusImplemented, StatusRejected}

// Statuses lists every status in workflow display order.
func Statuses() []Status { return append([]Status(nil), statuses...) }

func (s Status) Valid() bool {
	for _, v := range statuses {
		if s == v {
			return true
		}
	}
	return false
}

type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

var priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

func Priorities() []Priority { return append([]Priority(nil), priorities...) }

func (p Priority) Valid() bool {
	for _, v := range priorities {
		if p == v {
			return true
		}
	}
	return false
}

type Category string

const (
	CategoryTechnology     Category = "Technology & Innovation"
	CategoryCurriculum     Category = "Curriculum & Methodology"
	CategoryInfrastructure Category = "Infrastructure"
	CategoryWellBeing      Category = "Well-being"
	CategoryEvents         Category = "Events"
	CategorySustainability Category = "Sustainability"
	CategoryOther          Category = "Other"
)

var categories = []Category{
	CategoryTechnology, CategoryCurriculum, CategoryInfrastructure,
	CategoryWellBeing, CategoryEvents, CategorySustainability, CategoryOther,
}

func Categories() []Category { return append([]Category(nil), categories...) }

func (c Category) Valid() bool {
	for _, v := range categories {
		if c == v {
			return true
		}
	}
	return false
}

// Submission is one idea or proposal.
type Submission struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Email         string    `json:"email,omitempty"`
	Unit          string    `json:"unit,omitempty"`
	Category      Category  `json:"category"`
	Priority      Priority  `json:"priority"`
	Status        Status    `json:"status"`
	Impact        string    `json:"impact,omitempty"`
	Description   string    `json:"description"`
	Justification string    `json:"justification,omitempty"`
	Resources     string    `json:"resources,omitempty"`
	Benefits      string    `json:"benefits,omitempty"`
	Timeline      string    `json:"timeline,omitempty"`
	Budget        string    `json:"budget,omitempty"`
	Owner         string    `json:"owner,omitempty"`
	Tags          []string  `json:"tags"`
	Votes         int64     `json:"votes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IsAnonymous reports whether the submission carries no attribution.
func (s *Submission) IsAnonymous() bool {
	a := strings.TrimSpace(s.Author)
	return a == "" || strings.EqualFold(a, AnonymousAuthor)
}

// EffectiveStatus returns the status, or Pending when it is missing or unknown.
func (s *Submission) EffectiveStatus() Status {
	if s.Status.Valid() {
		return s.Status
	}
	return StatusPending
}

// EffectivePriority returns the priority, or Medium when it is missing or unknown.
func (s *Submission) EffectivePriority() Priority {
	if s.Priority.Valid() {
		return s.Priority
	}
	return PriorityMedium
}

// SubmissionUpdate is a partial update; nil fields are left untouched.
type SubmissionUpdate struct {
	Status   *Status
	Priority *Priority
	Owner    *string
}

// Empty reports whether the update changes nothing.
func (u SubmissionUpdate) Empty() bool {
	return u.Status == nil && u.Priority == nil && u.Owner == nil
}
