package records

import (
	"context"
	"fmt"

	"github.com/xavierca1/membersync/internal/entity"
	"github.com/xavierca1/membersync/internal/infra/recordstore"
)

const (
	fldVolunteerName     = "Name"
	fldVolunteerEmail    = "Email"
	fldVolunteerCapacity = "Capacity"
	fldVolunteerStatus   = "Status"

	volunteerStatusActive = "Active"
)

type VolunteerRepository struct {
	store Store
}

func NewVolunteerRepository(store Store) *VolunteerRepository {
	return &VolunteerRepository{store: store}
}

func (r *VolunteerRepository) FindByID(ctx context.Context, id string) (*entity.Volunteer, error) {
	rec, err := r.store.Get(ctx, TableVolunteers, id)
	if err != nil {
		if recordstore.IsNotFound(err) {
			return nil, entity.ErrVolunteerNotFound
		}
		return nil, err
	}
	return volunteerFromRecord(rec), nil
}

// ListActive returns active volunteers sorted by name, so candidate scans see
// a stable listing order.
func (r *VolunteerRepository) ListActive(ctx context.Context) ([]entity.Volunteer, error) {
	recs, err := r.store.List(ctx, TableVolunteers, recordstore.ListOptions{
		Filter: recordstore.Eq(fldVolunteerStatus, volunteerStatusActive),
		Sort:   []recordstore.SortField{{Field: fldVolunteerName}},
	})
	if err != nil {
		return nil, fmt.Errorf("list active volunteers: %w", err)
	}
	out := make([]entity.Volunteer, 0, len(recs))
	for i := range recs {
		out = append(out, *volunteerFromRecord(&recs[i]))
	}
	return out, nil
}

func volunteerFromRecord(rec *recordstore.Record) *entity.Volunteer {
	f := rec.Fields
	return &entity.Volunteer{
		ID:       rec.ID,
		Name:     getString(f, fldVolunteerName),
		Email:    getString(f, fldVolunteerEmail),
		Capacity: getInt(f, fldVolunteerCapacity),
		Active:   getString(f, fldVolunteerStatus) == volunteerStatusActive,
	}
}
