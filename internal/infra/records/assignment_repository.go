package records

import (
	"context"
	"fmt"

	"github.com/xavierca1/membersync/internal/entity"
	"github.com/xavierca1/membersync/internal/infra/recordstore"
)

const (
	fldAssignMember    = "Member"
	fldAssignVolunteer = "Volunteer"
	fldAssignDate      = "Assigned Date"
	fldAssignDue       = "Due Date"
	fldAssignStatus    = "Status"
)

type AssignmentRepository struct {
	store Store
}

func NewAssignmentRepository(store Store) *AssignmentRepository {
	return &AssignmentRepository{store: store}
}

func activeStatusFilter() recordstore.Expr {
	return recordstore.Or(
		recordstore.Eq(fldAssignStatus, string(entity.AssignmentAssigned)),
		recordstore.Eq(fldAssignStatus, string(entity.AssignmentInProgress)),
	)
}

// CountActive returns how many assignments currently count against the
// volunteer's capacity.
func (r *AssignmentRepository) CountActive(ctx context.Context, volunteerID string) (int, error) {
	recs, err := r.store.List(ctx, TableAssignments, recordstore.ListOptions{
		Filter: recordstore.And(
			recordstore.InList(fldAssignVolunteer, volunteerID),
			activeStatusFilter(),
		),
	})
	if err != nil {
		return 0, fmt.Errorf("count active assignments for %s: %w", volunteerID, err)
	}
	return len(recs), nil
}

// FindActiveByMember returns the member's current active assignment, or nil.
func (r *AssignmentRepository) FindActiveByMember(ctx context.Context, memberID string) (*entity.FollowUpAssignment, error) {
	rec, err := r.store.FindFirst(ctx, TableAssignments, recordstore.And(
		recordstore.InList(fldAssignMember, memberID),
		activeStatusFilter(),
	))
	if err != nil {
		return nil, fmt.Errorf("find active assignment for %s: %w", memberID, err)
	}
	if rec == nil {
		return nil, nil
	}
	return assignmentFromRecord(rec), nil
}

func (r *AssignmentRepository) Create(ctx context.Context, a *entity.FollowUpAssignment) (*entity.FollowUpAssignment, error) {
	rec, err := r.store.Create(ctx, TableAssignments, map[string]any{
		fldAssignMember:    []string{a.MemberID},
		fldAssignVolunteer: []string{a.VolunteerID},
		fldAssignDate:      a.AssignedDate.Format(dateLayout),
		fldAssignDue:       a.DueDate.Format(dateLayout),
		fldAssignStatus:    string(a.Status),
	})
	if err != nil {
		return nil, fmt.Errorf("create assignment: %w", err)
	}
	return assignmentFromRecord(rec), nil
}

func (r *AssignmentRepository) UpdateStatus(ctx context.Context, id string, status entity.AssignmentStatus) error {
	_, err := r.store.Update(ctx, TableAssignments, id, map[string]any{
		fldAssignStatus: string(status),
	})
	if err != nil {
		return fmt.Errorf("update assignment %s status: %w", id, err)
	}
	return nil
}

func assignmentFromRecord(rec *recordstore.Record) *entity.FollowUpAssignment {
	f := rec.Fields
	first := func(key string) string {
		if refs := getStringSlice(f, key); len(refs) > 0 {
			return refs[0]
		}
		return ""
	}
	return &entity.FollowUpAssignment{
		ID:           rec.ID,
		MemberID:     first(fldAssignMember),
		VolunteerID:  first(fldAssignVolunteer),
		AssignedDate: getDate(f, fldAssignDate),
		DueDate:      getDate(f, fldAssignDue),
		Status:       entity.AssignmentStatus(getString(f, fldAssignStatus)),
	}
}
