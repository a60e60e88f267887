package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/xavierca1/membersync/internal/entity"
	"github.com/xavierca1/membersync/internal/infra/queue"
)

const DefaultDueInDays = 3

// AssignFollowUpUseCase distributes follow-up work under a capacity ceiling.
// The policy is fail-open: when every volunteer is full the assignment still
// happens, and the overload is surfaced through a warning, a queue notice and
// an operator alert instead of a refusal.
type AssignFollowUpUseCase struct {
	Assignments AssignmentRepositoryInterface
	Volunteers  VolunteerRepositoryInterface
	Members     MemberRepositoryInterface
	Notifier    NotificationProducerInterface
	Alerts      AlertSenderInterface

	DueInDays int
	now       func() time.Time
}

func NewAssignFollowUpUseCase(
	assignments AssignmentRepositoryInterface,
	volunteers VolunteerRepositoryInterface,
	members MemberRepositoryInterface,
	notifier NotificationProducerInterface,
	alerts AlertSenderInterface,
	dueInDays int,
) *AssignFollowUpUseCase {
	if dueInDays <= 0 {
		dueInDays = DefaultDueInDays
	}
	return &AssignFollowUpUseCase{
		Assignments: assignments,
		Volunteers:  volunteers,
		Members:     members,
		Notifier:    notifier,
		Alerts:      alerts,
		DueInDays:   dueInDays,
		now:         time.Now,
	}
}

// Capacity reports a volunteer's current load.
func (uc *AssignFollowUpUseCase) Capacity(ctx context.Context, volunteerID string) (*entity.VolunteerCapacity, error) {
	v, err := uc.Volunteers.FindByID(ctx, volunteerID)
	if err != nil {
		if err == entity.ErrVolunteerNotFound {
			return nil, &DomainError{Code: CodeVolunteerNotFound, Message: "volunteer not found", Ref: volunteerID}
		}
		return nil, err
	}
	return uc.capacityOf(ctx, v)
}

func (uc *AssignFollowUpUseCase) capacityOf(ctx context.Context, v *entity.Volunteer) (*entity.VolunteerCapacity, error) {
	current, err := uc.Assignments.CountActive(ctx, v.ID)
	if err != nil {
		return nil, err
	}
	available := v.Capacity - current
	if available < 0 {
		available = 0
	}
	return &entity.VolunteerCapacity{
		VolunteerID: v.ID,
		Capacity:    v.Capacity,
		Current:     current,
		Available:   available,
		HasCapacity: current < v.Capacity,
	}, nil
}

// Assign places a member with the preferred volunteer when they have room,
// otherwise with the first active volunteer (listing order) that does. When
// nobody has room it assigns to the preferred volunteer anyway and returns a
// non-empty warning.
func (uc *AssignFollowUpUseCase) Assign(ctx context.Context, input AssignInput) (*AssignOutput, error) {
	preferred, err := uc.Volunteers.FindByID(ctx, input.PreferredID)
	if err != nil {
		if err == entity.ErrVolunteerNotFound {
			return nil, &DomainError{Code: CodeVolunteerNotFound, Message: "preferred volunteer not found", Ref: input.PreferredID}
		}
		return nil, err
	}

	load, err := uc.capacityOf(ctx, preferred)
	if err != nil {
		return nil, err
	}
	if load.HasCapacity {
		a, err := uc.CreateAssignment(ctx, input.MemberID, preferred.ID, input.DueInDays)
		if err != nil {
			return nil, err
		}
		return &AssignOutput{Assignment: a}, nil
	}

	alternate, err := uc.findAlternate(ctx, preferred.ID)
	if err != nil {
		return nil, err
	}
	if alternate != nil {
		a, err := uc.CreateAssignment(ctx, input.MemberID, alternate.ID, input.DueInDays)
		if err != nil {
			return nil, err
		}
		uc.notifyReassignment(ctx, input.MemberID, preferred.ID, alternate.ID, queue.ReasonPreferredAtCapacity)
		return &AssignOutput{
			Assignment:    a,
			WasReassigned: true,
			ReasonCode:    queue.ReasonPreferredAtCapacity,
		}, nil
	}

	// Nobody has room. Assign to the preferred volunteer anyway and flag the
	// overload for operational follow-up.
	a, err := uc.CreateAssignment(ctx, input.MemberID, preferred.ID, input.DueInDays)
	if err != nil {
		return nil, err
	}
	warning := fmt.Sprintf(
		"no volunteer has capacity; assigned to %s at %d/%d active",
		preferred.ID, load.Current+1, load.Capacity,
	)
	uc.notifyCapacityExhausted(ctx, input.MemberID, preferred, load.Current+1)
	return &AssignOutput{Assignment: a, Warning: warning}, nil
}

// ProcessCapacityReassignment rebalances an existing member whose owner was
// later found over capacity. The prior active assignment is marked Reassigned
// rather than deleted so the audit trail survives.
func (uc *AssignFollowUpUseCase) ProcessCapacityReassignment(ctx context.Context, memberID, currentOwnerID string) (*AssignOutput, error) {
	owner, err := uc.Volunteers.FindByID(ctx, currentOwnerID)
	if err != nil {
		if err == entity.ErrVolunteerNotFound {
			return nil, &DomainError{Code: CodeVolunteerNotFound, Message: "current owner not found", Ref: currentOwnerID}
		}
		return nil, err
	}

	load, err := uc.capacityOf(ctx, owner)
	if err != nil {
		return nil, err
	}
	if load.HasCapacity {
		return &AssignOutput{}, nil // owner is fine, nothing to do
	}

	alternate, err := uc.findAlternate(ctx, owner.ID)
	if err != nil {
		return nil, err
	}
	if alternate == nil {
		return &AssignOutput{
			Warning: fmt.Sprintf("owner %s is over capacity (%d/%d) but no alternate has room", owner.ID, load.Current, load.Capacity),
		}, nil
	}

	prior, err := uc.Assignments.FindActiveByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if prior != nil {
		if err := uc.Assignments.UpdateStatus(ctx, prior.ID, entity.AssignmentReassigned); err != nil {
			return nil, err
		}
	}

	a, err := uc.CreateAssignment(ctx, memberID, alternate.ID, 0)
	if err != nil {
		return nil, err
	}
	uc.notifyReassignment(ctx, memberID, owner.ID, alternate.ID, queue.ReasonOwnerOverCapacity)
	return &AssignOutput{
		Assignment:    a,
		WasReassigned: true,
		ReasonCode:    queue.ReasonOwnerOverCapacity,
	}, nil
}

// CreateAssignment writes the assignment row and re-points the member's
// follow-up owner. dueInDays of 0 takes the configured default.
func (uc *AssignFollowUpUseCase) CreateAssignment(ctx context.Context, memberID, volunteerID string, dueInDays int) (*entity.FollowUpAssignment, error) {
	if dueInDays <= 0 {
		dueInDays = uc.DueInDays
	}
	assigned := uc.now()
	a, err := uc.Assignments.Create(ctx, &entity.FollowUpAssignment{
		MemberID:     memberID,
		VolunteerID:  volunteerID,
		AssignedDate: assigned,
		DueDate:      assigned.AddDate(0, 0, dueInDays),
		Status:       entity.AssignmentAssigned,
	})
	if err != nil {
		return nil, err
	}

	// Best effort: the assignment row is the source of truth, the member's
	// owner field is a denormalized convenience.
	if _, err := uc.Members.Update(ctx, memberID, entity.MemberPatch{FollowUpOwner: &volunteerID}); err != nil {
		log.Printf("WARNING: assignment %s created but owner update on member %s failed: %v", a.ID, memberID, err)
	}
	return a, nil
}

// findAlternate scans active volunteers in listing order and returns the
// first with capacity, excluding skipID. Nil when the scan comes up empty.
func (uc *AssignFollowUpUseCase) findAlternate(ctx context.Context, skipID string) (*entity.Volunteer, error) {
	candidates, err := uc.Volunteers.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		if candidates[i].ID == skipID {
			continue
		}
		load, err := uc.capacityOf(ctx, &candidates[i])
		if err != nil {
			return nil, err
		}
		if load.HasCapacity {
			return &candidates[i], nil
		}
	}
	return nil, nil
}

func (uc *AssignFollowUpUseCase) notifyReassignment(ctx context.Context, memberID, fromID, toID string, reason int) {
	if uc.Notifier == nil {
		return
	}
	err := uc.Notifier.PublishReassignment(ctx, queue.ReassignmentNotice{
		MemberID:      memberID,
		FromVolunteer: fromID,
		ToVolunteer:   toID,
		ReasonCode:    reason,
		At:            uc.now(),
	})
	if err != nil {
		log.Printf("WARNING: reassignment notice for member %s failed: %v", memberID, err)
	}
}

func (uc *AssignFollowUpUseCase) notifyCapacityExhausted(ctx context.Context, memberID string, v *entity.Volunteer, current int) {
	if uc.Notifier != nil {
		err := uc.Notifier.PublishCapacityWarning(ctx, queue.CapacityWarning{
			MemberID:    memberID,
			VolunteerID: v.ID,
			Current:     current,
			Capacity:    v.Capacity,
			At:          uc.now(),
		})
		if err != nil {
			log.Printf("WARNING: capacity warning for volunteer %s failed: %v", v.ID, err)
		}
	}
	if uc.Alerts != nil {
		if err := uc.Alerts.SendCapacityAlert(v.Name, current, v.Capacity); err != nil {
			log.Printf("WARNING: capacity alert mail for volunteer %s failed: %v", v.ID, err)
		}
	}
}
