package usecase

import (
	"context"

	"github.com/xavierca1/membersync/internal/entity"
	"github.com/xavierca1/membersync/internal/infra/queue"
)

type MemberRepositoryInterface interface {
	FindByUniqueKey(ctx context.Context, phone, email string) (*entity.Member, error)
	FindByID(ctx context.Context, id string) (*entity.Member, error)
	Create(ctx context.Context, m *entity.Member) (*entity.Member, error)
	Update(ctx context.Context, id string, patch entity.MemberPatch) (*entity.Member, error)
}

type VolunteerRepositoryInterface interface {
	FindByID(ctx context.Context, id string) (*entity.Volunteer, error)
	ListActive(ctx context.Context) ([]entity.Volunteer, error)
}

type AssignmentRepositoryInterface interface {
	CountActive(ctx context.Context, volunteerID string) (int, error)
	FindActiveByMember(ctx context.Context, memberID string) (*entity.FollowUpAssignment, error)
	Create(ctx context.Context, a *entity.FollowUpAssignment) (*entity.FollowUpAssignment, error)
	UpdateStatus(ctx context.Context, id string, status entity.AssignmentStatus) error
}

type AttendanceRepositoryInterface interface {
	FindByMemberAndService(ctx context.Context, memberID, serviceID string) (*entity.AttendanceMark, error)
	Create(ctx context.Context, m *entity.AttendanceMark) (*entity.AttendanceMark, error)
	Update(ctx context.Context, id string, present bool, sourceForm string) (*entity.AttendanceMark, error)
}

type LinkRepointerInterface interface {
	RepointMember(ctx context.Context, fromID, toID string) (int, error)
}

type NotificationProducerInterface interface {
	PublishReassignment(ctx context.Context, notice queue.ReassignmentNotice) error
	PublishCapacityWarning(ctx context.Context, warning queue.CapacityWarning) error
}

type AlertSenderInterface interface {
	SendCapacityAlert(volunteerName string, current, capacity int) error
}
