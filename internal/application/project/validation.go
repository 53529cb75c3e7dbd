package project

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Asjad-Ilahi/devops/internal/domain"
	domerrors "github.com/Asjad-Ilahi/devops/internal/domain/errors"
)

// User-facing validation messages, in the order fields are checked.
const (
	MsgNameTooShort        = "Project name must be at least 2 characters"
	MsgDescriptionTooShort = "Description must be at least 5 characters"
	MsgProgressNotNumber   = "Progress must be a number"
	MsgProgressNotInteger  = "Progress must be a whole number"
	MsgProgressTooLow      = "Progress must be greater than or equal to 0"
	MsgProgressTooHigh     = "Progress must be less than or equal to 100"
	MsgDueDateRequired     = "Due date is required"
	MsgDueDateInvalid      = "Invalid due date"
)

// MsgInvalidStatus lists the accepted statuses.
var MsgInvalidStatus = func() string {
	quoted := make([]string, len(domain.ProjectStatuses))
	for i, s := range domain.ProjectStatuses {
		quoted[i] = "'" + string(s) + "'"
	}
	return "Invalid status. Expected " + strings.Join(quoted, " | ")
}()

var dueDateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04"}

// projectForm mirrors CreateProjectInput with validation tags. Field order is check order.
type projectForm struct {
	Name        string `validate:"min=2"`
	Description string `validate:"min=5"`
	Status      string `validate:"project_status"`
	Progress    string `validate:"progress"`
	DueDate     string `validate:"required,due_date"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("project_status", func(fl validator.FieldLevel) bool {
		return domain.ProjectStatus(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("progress", func(fl validator.FieldLevel) bool {
		n, err := parseProgress(fl.Field().String())
		return err == nil && n >= domain.MinProjectProgress && n <= domain.MaxProjectProgress
	})
	_ = v.RegisterValidation("due_date", func(fl validator.FieldLevel) bool {
		_, err := parseDueDate(fl.Field().String())
		return err == nil
	})
	return v
}

// validateForm returns the first failing field as a ValidationError.
func validateForm(v *validator.Validate, f projectForm) error {
	err := v.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validate project: %w", err)
	}
	fe := verrs[0]
	return domerrors.NewValidationError(strings.ToLower(fe.Field()[:1])+fe.Field()[1:], messageFor(fe, f))
}

func messageFor(fe validator.FieldError, f projectForm) string {
	switch fe.Field() {
	case "Name":
		return MsgNameTooShort
	case "Description":
		return MsgDescriptionTooShort
	case "Status":
		return MsgInvalidStatus
	case "Progress":
		n, err := parseProgress(f.Progress)
		switch {
		case errors.Is(err, errProgressNotInteger):
			return MsgProgressNotInteger
		case err != nil:
			return MsgProgressNotNumber
		case n < domain.MinProjectProgress:
			return MsgProgressTooLow
		default:
			return MsgProgressTooHigh
		}
	case "DueDate":
		if fe.Tag() == "required" {
			return MsgDueDateRequired
		}
		return MsgDueDateInvalid
	}
	return fe.Error()
}

var (
	errProgressNotNumber  = errors.New("progress is not a number")
	errProgressNotInteger = errors.New("progress is not a whole number")
)

// parseProgress reads the form value. A blank value is 0. Numbers outside the bounds come back
// just past the nearest bound so the range check reports them, however large they are.
func parseProgress(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	fv, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, errProgressNotNumber
	}
	switch {
	case math.IsNaN(fv):
		return 0, errProgressNotNumber
	case fv > domain.MaxProjectProgress:
		return domain.MaxProjectProgress + 1, nil
	case fv < domain.MinProjectProgress:
		return domain.MinProjectProgress - 1, nil
	case fv != math.Trunc(fv):
		return 0, errProgressNotInteger
	}
	return int(fv), nil
}

func parseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
