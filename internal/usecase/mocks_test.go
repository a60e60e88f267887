package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/membersync/internal/entity"
	"github.com/xavierca1/membersync/internal/infra/queue"
)

type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) FindByUniqueKey(ctx context.Context, phone, email string) (*entity.Member, error) {
	args := m.Called(ctx, phone, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Member), args.Error(1)
}

func (m *MockMemberRepository) FindByID(ctx context.Context, id string) (*entity.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Member), args.Error(1)
}

func (m *MockMemberRepository) Create(ctx context.Context, member *entity.Member) (*entity.Member, error) {
	args := m.Called(ctx, member)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Member), args.Error(1)
}

func (m *MockMemberRepository) Update(ctx context.Context, id string, patch entity.MemberPatch) (*entity.Member, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Member), args.Error(1)
}

type MockVolunteerRepository struct {
	mock.Mock
}

func (m *MockVolunteerRepository) FindByID(ctx context.Context, id string) (*entity.Volunteer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Volunteer), args.Error(1)
}

func (m *MockVolunteerRepository) ListActive(ctx context.Context) ([]entity.Volunteer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Volunteer), args.Error(1)
}

type MockAssignmentRepository struct {
	mock.Mock
}

func (m *MockAssignmentRepository) CountActive(ctx context.Context, volunteerID string) (int, error) {
	args := m.Called(ctx, volunteerID)
	return args.Int(0), args.Error(1)
}

func (m *MockAssignmentRepository) FindActiveByMember(ctx context.Context, memberID string) (*entity.FollowUpAssignment, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.FollowUpAssignment), args.Error(1)
}

func (m *MockAssignmentRepository) Create(ctx context.Context, a *entity.FollowUpAssignment) (*entity.FollowUpAssignment, error) {
	args := m.Called(ctx, a)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.FollowUpAssignment), args.Error(1)
}

func (m *MockAssignmentRepository) UpdateStatus(ctx context.Context, id string, status entity.AssignmentStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type MockAttendanceRepository struct {
	mock.Mock
}

func (m *MockAttendanceRepository) FindByMemberAndService(ctx context.Context, memberID, serviceID string) (*entity.AttendanceMark, error) {
	args := m.Called(ctx, memberID, serviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AttendanceMark), args.Error(1)
}

func (m *MockAttendanceRepository) Create(ctx context.Context, mark *entity.AttendanceMark) (*entity.AttendanceMark, error) {
	args := m.Called(ctx, mark)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AttendanceMark), args.Error(1)
}

func (m *MockAttendanceRepository) Update(ctx context.Context, id string, present bool, sourceForm string) (*entity.AttendanceMark, error) {
	args := m.Called(ctx, id, present, sourceForm)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AttendanceMark), args.Error(1)
}

type MockLinkRepointer struct {
	mock.Mock
}

func (m *MockLinkRepointer) RepointMember(ctx context.Context, fromID, toID string) (int, error) {
	args := m.Called(ctx, fromID, toID)
	return args.Int(0), args.Error(1)
}

type MockNotificationProducer struct {
	mock.Mock
}

func (m *MockNotificationProducer) PublishReassignment(ctx context.Context, notice queue.ReassignmentNotice) error {
	args := m.Called(ctx, notice)
	return args.Error(0)
}

func (m *MockNotificationProducer) PublishCapacityWarning(ctx context.Context, warning queue.CapacityWarning) error {
	args := m.Called(ctx, warning)
	return args.Error(0)
}

type MockAlertSender struct {
	mock.Mock
}

func (m *MockAlertSender) SendCapacityAlert(volunteerName string, current, capacity int) error {
	args := m.Called(volunteerName, current, capacity)
	return args.Error(0)
}
