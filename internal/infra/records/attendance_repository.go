package records

import (
	"context"
	"fmt"

	"github.com/xavierca1/membersync/internal/entity"
	"github.com/xavierca1/membersync/internal/infra/recordstore"
)

const (
	fldAttendMember  = "Member"
	fldAttendService = "Service"
	fldAttendPresent = "Present"
	fldAttendSource  = "Source Form"
)

type AttendanceRepository struct {
	store Store
}

func NewAttendanceRepository(store Store) *AttendanceRepository {
	return &AttendanceRepository{store: store}
}

// FindByMemberAndService returns the mark for the pair, or nil when none
// exists yet.
func (r *AttendanceRepository) FindByMemberAndService(ctx context.Context, memberID, serviceID string) (*entity.AttendanceMark, error) {
	rec, err := r.store.FindFirst(ctx, TableAttendance, recordstore.And(
		recordstore.InList(fldAttendMember, memberID),
		recordstore.InList(fldAttendService, serviceID),
	))
	if err != nil {
		return nil, fmt.Errorf("find attendance mark: %w", err)
	}
	if rec == nil {
		return nil, nil
	}
	return markFromRecord(rec), nil
}

func (r *AttendanceRepository) Create(ctx context.Context, m *entity.AttendanceMark) (*entity.AttendanceMark, error) {
	rec, err := r.store.Create(ctx, TableAttendance, map[string]any{
		fldAttendMember:  []string{m.MemberID},
		fldAttendService: []string{m.ServiceID},
		fldAttendPresent: m.Present,
		fldAttendSource:  m.SourceForm,
	})
	if err != nil {
		return nil, fmt.Errorf("create attendance mark: %w", err)
	}
	return markFromRecord(rec), nil
}

func (r *AttendanceRepository) Update(ctx context.Context, id string, present bool, sourceForm string) (*entity.AttendanceMark, error) {
	rec, err := r.store.Update(ctx, TableAttendance, id, map[string]any{
		fldAttendPresent: present,
		fldAttendSource:  sourceForm,
	})
	if err != nil {
		return nil, fmt.Errorf("update attendance mark %s: %w", id, err)
	}
	return markFromRecord(rec), nil
}

func markFromRecord(rec *recordstore.Record) *entity.AttendanceMark {
	f := rec.Fields
	first := func(key string) string {
		if refs := getStringSlice(f, key); len(refs) > 0 {
			return refs[0]
		}
		return ""
	}
	return &entity.AttendanceMark{
		ID:         rec.ID,
		MemberID:   first(fldAttendMember),
		ServiceID:  first(fldAttendService),
		Present:    getBool(f, fldAttendPresent),
		SourceForm: getString(f, fldAttendSource),
	}
}
