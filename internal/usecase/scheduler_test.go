package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/membersync/internal/entity"
	"github.com/xavierca1/membersync/internal/infra/queue"
)

func newSchedulerFixture() (*AssignFollowUpUseCase, *MockAssignmentRepository, *MockVolunteerRepository, *MockMemberRepository, *MockNotificationProducer, *MockAlertSender) {
	assignments := new(MockAssignmentRepository)
	volunteers := new(MockVolunteerRepository)
	members := new(MockMemberRepository)
	notifier := new(MockNotificationProducer)
	alerts := new(MockAlertSender)
	uc := NewAssignFollowUpUseCase(assignments, volunteers, members, notifier, alerts, 0)
	uc.now = func() time.Time { return time.Date(2026, 4, 12, 10, 0, 0, 0, time.UTC) }
	return uc, assignments, volunteers, members, notifier, alerts
}

func expectOwnerUpdate(members *MockMemberRepository, memberID string) {
	members.On("Update", mock.Anything, memberID, mock.Anything).Return(&entity.Member{ID: memberID}, nil)
}

func TestAssign_PreferredHasCapacity(t *testing.T) {
	uc, assignments, volunteers, members, _, _ := newSchedulerFixture()

	volunteers.On("FindByID", mock.Anything, "volV").Return(&entity.Volunteer{ID: "volV", Capacity: 20, Active: true}, nil)
	assignments.On("CountActive", mock.Anything, "volV").Return(12, nil)
	assignments.On("Create", mock.Anything, mock.MatchedBy(func(a *entity.FollowUpAssignment) bool {
		return a.MemberID == "recM" && a.VolunteerID == "volV" && a.Status == entity.AssignmentAssigned
	})).Return(&entity.FollowUpAssignment{ID: "asg1", VolunteerID: "volV"}, nil)
	expectOwnerUpdate(members, "recM")

	out, err := uc.Assign(context.Background(), AssignInput{MemberID: "recM", PreferredID: "volV"})

	assert.NoError(t, err)
	assert.False(t, out.WasReassigned)
	assert.Empty(t, out.Warning)
	assert.Equal(t, "volV", out.Assignment.VolunteerID)
}

func TestAssign_PreferredFullGoesToFirstAlternate(t *testing.T) {
	uc, assignments, volunteers, members, notifier, _ := newSchedulerFixture()

	volunteers.On("FindByID", mock.Anything, "volV").Return(&entity.Volunteer{ID: "volV", Capacity: 20, Active: true}, nil)
	assignments.On("CountActive", mock.Anything, "volV").Return(20, nil)

	volunteers.On("ListActive", mock.Anything).Return([]entity.Volunteer{
		{ID: "volU", Capacity: 10, Active: true},
		{ID: "volW", Capacity: 10, Active: true},
	}, nil)
	assignments.On("CountActive", mock.Anything, "volU").Return(10, nil) // also full
	assignments.On("CountActive", mock.Anything, "volW").Return(3, nil)
	assignments.On("Create", mock.Anything, mock.MatchedBy(func(a *entity.FollowUpAssignment) bool {
		return a.VolunteerID == "volW"
	})).Return(&entity.FollowUpAssignment{ID: "asg1", VolunteerID: "volW"}, nil)
	expectOwnerUpdate(members, "recM")
	notifier.On("PublishReassignment", mock.Anything, mock.MatchedBy(func(n queue.ReassignmentNotice) bool {
		return n.FromVolunteer == "volV" && n.ToVolunteer == "volW" && n.ReasonCode == queue.ReasonPreferredAtCapacity
	})).Return(nil)

	out, err := uc.Assign(context.Background(), AssignInput{MemberID: "recM", PreferredID: "volV"})

	assert.NoError(t, err)
	assert.True(t, out.WasReassigned)
	assert.Equal(t, queue.ReasonPreferredAtCapacity, out.ReasonCode)
	assert.Equal(t, "volW", out.Assignment.VolunteerID)
	notifier.AssertExpectations(t)
}

func TestAssign_EveryoneFullFailsOpenWithWarning(t *testing.T) {
	uc, assignments, volunteers, members, notifier, alerts := newSchedulerFixture()

	volunteers.On("FindByID", mock.Anything, "volV").Return(&entity.Volunteer{ID: "volV", Name: "Vera", Capacity: 20, Active: true}, nil)
	assignments.On("CountActive", mock.Anything, "volV").Return(20, nil)
	volunteers.On("ListActive", mock.Anything).Return([]entity.Volunteer{
		{ID: "volV", Capacity: 20, Active: true},
		{ID: "volU", Capacity: 10, Active: true},
	}, nil)
	assignments.On("CountActive", mock.Anything, "volU").Return(10, nil)
	assignments.On("Create", mock.Anything, mock.MatchedBy(func(a *entity.FollowUpAssignment) bool {
		return a.VolunteerID == "volV"
	})).Return(&entity.FollowUpAssignment{ID: "asg1", VolunteerID: "volV"}, nil)
	expectOwnerUpdate(members, "recM")
	notifier.On("PublishCapacityWarning", mock.Anything, mock.MatchedBy(func(w queue.CapacityWarning) bool {
		return w.VolunteerID == "volV" && w.Current == 21 && w.Capacity == 20
	})).Return(nil)
	alerts.On("SendCapacityAlert", "Vera", 21, 20).Return(nil)

	out, err := uc.Assign(context.Background(), AssignInput{MemberID: "recM", PreferredID: "volV"})

	assert.NoError(t, err)
	assert.False(t, out.WasReassigned)
	assert.NotEmpty(t, out.Warning)
	assert.Equal(t, "volV", out.Assignment.VolunteerID)
	notifier.AssertExpectations(t)
	alerts.AssertExpectations(t)
}

func TestCreateAssignment_DueDateIsExactlyDaysOut(t *testing.T) {
	uc, assignments, _, members, _, _ := newSchedulerFixture()

	var captured *entity.FollowUpAssignment
	assignments.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(1).(*entity.FollowUpAssignment)
	}).Return(&entity.FollowUpAssignment{ID: "asg1"}, nil)
	expectOwnerUpdate(members, "recM")

	_, err := uc.CreateAssignment(context.Background(), "recM", "volV", 7)

	assert.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, captured.DueDate.Sub(captured.AssignedDate))
}

func TestCreateAssignment_ZeroDaysTakesDefault(t *testing.T) {
	uc, assignments, _, members, _, _ := newSchedulerFixture()

	var captured *entity.FollowUpAssignment
	assignments.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(1).(*entity.FollowUpAssignment)
	}).Return(&entity.FollowUpAssignment{ID: "asg1"}, nil)
	expectOwnerUpdate(members, "recM")

	_, err := uc.CreateAssignment(context.Background(), "recM", "volV", 0)

	assert.NoError(t, err)
	assert.Equal(t, DefaultDueInDays*24*time.Hour, captured.DueDate.Sub(captured.AssignedDate))
}

func TestProcessCapacityReassignment_NoOpWhenOwnerHasRoom(t *testing.T) {
	uc, assignments, volunteers, _, _, _ := newSchedulerFixture()

	volunteers.On("FindByID", mock.Anything, "volV").Return(&entity.Volunteer{ID: "volV", Capacity: 20, Active: true}, nil)
	assignments.On("CountActive", mock.Anything, "volV").Return(5, nil)

	out, err := uc.ProcessCapacityReassignment(context.Background(), "recM", "volV")

	assert.NoError(t, err)
	assert.Nil(t, out.Assignment)
	assert.False(t, out.WasReassigned)
	assignments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProcessCapacityReassignment_MarksPriorReassigned(t *testing.T) {
	uc, assignments, volunteers, members, notifier, _ := newSchedulerFixture()

	volunteers.On("FindByID", mock.Anything, "volV").Return(&entity.Volunteer{ID: "volV", Capacity: 20, Active: true}, nil)
	assignments.On("CountActive", mock.Anything, "volV").Return(22, nil)
	volunteers.On("ListActive", mock.Anything).Return([]entity.Volunteer{
		{ID: "volW", Capacity: 10, Active: true},
	}, nil)
	assignments.On("CountActive", mock.Anything, "volW").Return(2, nil)
	assignments.On("FindActiveByMember", mock.Anything, "recM").
		Return(&entity.FollowUpAssignment{ID: "asgOLD", VolunteerID: "volV", Status: entity.AssignmentAssigned}, nil)
	assignments.On("UpdateStatus", mock.Anything, "asgOLD", entity.AssignmentReassigned).Return(nil)
	assignments.On("Create", mock.Anything, mock.MatchedBy(func(a *entity.FollowUpAssignment) bool {
		return a.VolunteerID == "volW"
	})).Return(&entity.FollowUpAssignment{ID: "asgNEW", VolunteerID: "volW"}, nil)
	expectOwnerUpdate(members, "recM")
	notifier.On("PublishReassignment", mock.Anything, mock.MatchedBy(func(n queue.ReassignmentNotice) bool {
		return n.ReasonCode == queue.ReasonOwnerOverCapacity
	})).Return(nil)

	out, err := uc.ProcessCapacityReassignment(context.Background(), "recM", "volV")

	assert.NoError(t, err)
	assert.True(t, out.WasReassigned)
	assert.Equal(t, queue.ReasonOwnerOverCapacity, out.ReasonCode)
	assert.Equal(t, "asgNEW", out.Assignment.ID)
	assignments.AssertExpectations(t)
}

func TestProcessCapacityReassignment_NoAlternateLeavesOwnerInPlace(t *testing.T) {
	uc, assignments, volunteers, _, _, _ := newSchedulerFixture()

	volunteers.On("FindByID", mock.Anything, "volV").Return(&entity.Volunteer{ID: "volV", Capacity: 20, Active: true}, nil)
	assignments.On("CountActive", mock.Anything, "volV").Return(22, nil)
	volunteers.On("ListActive", mock.Anything).Return([]entity.Volunteer{}, nil)

	out, err := uc.ProcessCapacityReassignment(context.Background(), "recM", "volV")

	assert.NoError(t, err)
	assert.Nil(t, out.Assignment)
	assert.NotEmpty(t, out.Warning)
	assignments.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestCapacity_ReportsLoadSnapshot(t *testing.T) {
	uc, assignments, volunteers, _, _, _ := newSchedulerFixture()

	volunteers.On("FindByID", mock.Anything, "volV").Return(&entity.Volunteer{ID: "volV", Capacity: 20, Active: true}, nil)
	assignments.On("CountActive", mock.Anything, "volV").Return(20, nil)

	snap, err := uc.Capacity(context.Background(), "volV")

	assert.NoError(t, err)
	assert.Equal(t, 20, snap.Current)
	assert.Equal(t, 0, snap.Available)
	assert.False(t, snap.HasCapacity)
}

func TestCapacity_UnknownVolunteer(t *testing.T) {
	uc, _, volunteers, _, _, _ := newSchedulerFixture()

	volunteers.On("FindByID", mock.Anything, "volX").Return(nil, entity.ErrVolunteerNotFound)

	_, err := uc.Capacity(context.Background(), "volX")

	var derr *DomainError
	assert.ErrorAs(t, err, &derr)
	assert.Equal(t, CodeVolunteerNotFound, derr.Code)
}
