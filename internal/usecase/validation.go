package usecase

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/xavierca1/membersync/internal/entity"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func ValidateCreateMemberInput(input CreateMemberInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Name) == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	} else if len(input.Name) > 200 {
		errors = append(errors, ValidationError{"name", "must not exceed 200 characters"})
	}

	phone := entity.NormalizePhone(input.Phone)
	email := entity.NormalizeEmail(input.Email)
	if phone == "" && email == "" {
		errors = append(errors, ValidationError{"contact", "at least one of phone or email is required"})
	}
	if input.Phone != "" && len(strings.TrimPrefix(phone, "+")) < 7 {
		errors = append(errors, ValidationError{"phone", "must be a valid phone number"})
	}
	if input.Email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			errors = append(errors, ValidationError{"email", "is invalid"})
		}
	}

	if input.Source != "" && !isKnownSource(input.Source) {
		errors = append(errors, ValidationError{"source", "is not a recognized intake source"})
	}
	if input.Status != "" && !isKnownStatus(input.Status) {
		errors = append(errors, ValidationError{"status", "is not a recognized lifecycle status"})
	}

	return errors
}

func ValidateMarkAttendanceInput(input MarkAttendanceInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.MemberID) == "" {
		errors = append(errors, ValidationError{"member_id", "is required"})
	}
	if strings.TrimSpace(input.ServiceID) == "" {
		errors = append(errors, ValidationError{"service_id", "is required"})
	}
	if !entity.IsKnownSourceForm(input.SourceForm) {
		errors = append(errors, ValidationError{"source_form", "is not a recognized source tag"})
	}

	return errors
}

func isKnownSource(source string) bool {
	switch entity.MemberSource(source) {
	case entity.SourceEvangelism, entity.SourceWalkIn, entity.SourceOnline, entity.SourceReferral:
		return true
	}
	return false
}

func isKnownStatus(status string) bool {
	switch entity.MemberStatus(status) {
	case entity.StatusEvangelismContact, entity.StatusFirstTimer, entity.StatusReturner, entity.StatusMember:
		return true
	}
	return false
}

func validationMessage(errs []ValidationError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Field+" ("+e.Message+")")
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
