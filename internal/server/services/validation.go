package services

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"

	"github.com/dmitrijs2005/ideabank/internal/common"
	"github.com/dmitrijs2005/ideabank/internal/server/models"
)

// NewValidator returns a validator that also knows the submission enums
// through the category, priority and status tags.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return models.Category(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
		return models.Priority(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("status", func(fl validator.FieldLevel) bool {
		return models.Status(fl.Field().String()).Valid()
	})
	return v
}

// validationError turns validator output into a common.ErrorValidation
// wrapped error naming the offending fields.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", common.ErrorValidation, strings.Join(msgs, "; "))
}

// maxSanitizeRounds bounds how many layers of entity encoding are peeled.
const maxSanitizeRounds = 8

// sanitizer strips markup from free text. bluemonday escapes what it
// keeps, so the result is unescaped back to plain text; that round trip is
// repeated until it is stable so entity-encoded markup is stripped too.
type sanitizer struct {
	policy *bluemonday.Policy
}

func newSanitizer() sanitizer {
	return sanitizer{policy: bluemonday.StrictPolicy()}
}

func (s sanitizer) text(v string) string {
	cur := v
	for i := 0; i < maxSanitizeRounds; i++ {
		next := html.UnescapeString(s.policy.Sanitize(cur))
		if next == cur {
			return strings.TrimSpace(cur)
		}
		cur = next
	}
	// still unstable: keep bluemonday's escaped output, which is inert
	return strings.TrimSpace(s.policy.Sanitize(cur))
}

// normalizeTags splits comma separated labels, trims them and drops
// empty and repeated (case-insensitive) entries.
func normalizeTags(raw []string, clean func(string) string) []string {
	out := []string{}
	seen := make(map[string]struct{})
	for _, r := range raw {
		for _, t := range strings.Split(r, ",") {
			t = clean(t)
			if t == "" {
				continue
			}
			k := strings.ToLower(t)
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}
