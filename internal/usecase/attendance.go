package usecase

import (
	"context"

	"github.com/xavierca1/membersync/internal/entity"
)

// MarkAttendanceUseCase records presence exactly once per (member, service)
// pair. Duplicate triggers (webhook redelivery, repeated form submission)
// update the existing mark in place instead of creating a second row, so
// after N calls exactly one mark exists and it is present.
type MarkAttendanceUseCase struct {
	Marks AttendanceRepositoryInterface
}

func NewMarkAttendanceUseCase(marks AttendanceRepositoryInterface) *MarkAttendanceUseCase {
	return &MarkAttendanceUseCase{Marks: marks}
}

func (uc *MarkAttendanceUseCase) Execute(ctx context.Context, input MarkAttendanceInput) (*MarkAttendanceOutput, error) {
	if errs := ValidateMarkAttendanceInput(input); len(errs) > 0 {
		return nil, &DomainError{Code: CodeValidation, Message: validationMessage(errs)}
	}

	existing, err := uc.Marks.FindByMemberAndService(ctx, input.MemberID, input.ServiceID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		mark, err := uc.Marks.Create(ctx, &entity.AttendanceMark{
			MemberID:   input.MemberID,
			ServiceID:  input.ServiceID,
			Present:    true,
			SourceForm: input.SourceForm,
		})
		if err != nil {
			return nil, err
		}
		return &MarkAttendanceOutput{Created: true, Mark: mark}, nil
	}

	// Update in place: present stays true, source tag records the latest caller.
	mark, err := uc.Marks.Update(ctx, existing.ID, true, input.SourceForm)
	if err != nil {
		return nil, err
	}
	return &MarkAttendanceOutput{Created: false, Mark: mark}, nil
}
