package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/membersync/internal/entity"
)

func TestMarkAttendance_FirstCallCreates(t *testing.T) {
	marks := new(MockAttendanceRepository)
	marks.On("FindByMemberAndService", mock.Anything, "recM", "svc42").Return(nil, nil)
	marks.On("Create", mock.Anything, mock.MatchedBy(func(m *entity.AttendanceMark) bool {
		return m.MemberID == "recM" && m.ServiceID == "svc42" && m.Present && m.SourceForm == entity.FormUsher
	})).Return(&entity.AttendanceMark{ID: "recA", MemberID: "recM", ServiceID: "svc42", Present: true}, nil)

	uc := NewMarkAttendanceUseCase(marks)
	out, err := uc.Execute(context.Background(), MarkAttendanceInput{
		MemberID:   "recM",
		ServiceID:  "svc42",
		SourceForm: entity.FormUsher,
	})

	assert.NoError(t, err)
	assert.True(t, out.Created)
	assert.True(t, out.Mark.Present)
	marks.AssertExpectations(t)
}

func TestMarkAttendance_RepeatedCallsUpdateInPlace(t *testing.T) {
	marks := new(MockAttendanceRepository)
	existing := &entity.AttendanceMark{ID: "recA", MemberID: "recM", ServiceID: "svc42", Present: true, SourceForm: entity.FormUsher}
	marks.On("FindByMemberAndService", mock.Anything, "recM", "svc42").Return(existing, nil)
	marks.On("Update", mock.Anything, "recA", true, entity.FormOnlineCheckin).
		Return(&entity.AttendanceMark{ID: "recA", MemberID: "recM", ServiceID: "svc42", Present: true, SourceForm: entity.FormOnlineCheckin}, nil)

	uc := NewMarkAttendanceUseCase(marks)

	// Same trigger delivered three times; each lands on the one existing mark.
	for i := 0; i < 3; i++ {
		out, err := uc.Execute(context.Background(), MarkAttendanceInput{
			MemberID:   "recM",
			ServiceID:  "svc42",
			SourceForm: entity.FormOnlineCheckin,
		})
		assert.NoError(t, err)
		assert.False(t, out.Created)
		assert.True(t, out.Mark.Present)
	}

	marks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	marks.AssertNumberOfCalls(t, "Update", 3)
}

func TestMarkAttendance_UnknownSourceFormRejected(t *testing.T) {
	uc := NewMarkAttendanceUseCase(new(MockAttendanceRepository))
	_, err := uc.Execute(context.Background(), MarkAttendanceInput{
		MemberID:   "recM",
		ServiceID:  "svc42",
		SourceForm: "random_form",
	})

	var derr *DomainError
	assert.ErrorAs(t, err, &derr)
	assert.Equal(t, CodeValidation, derr.Code)
}
