package records

import (
	"context"
	"fmt"

	"github.com/xavierca1/membersync/internal/entity"
	"github.com/xavierca1/membersync/internal/infra/recordstore"
)

const (
	fldMemberName         = "Name"
	fldMemberPhone        = "Phone"
	fldMemberEmail        = "Email"
	fldMemberStatus       = "Status"
	fldMemberSource       = "Source"
	fldMemberAddress      = "Address"
	fldMemberPostalCode   = "Postal Code"
	fldMemberFirstService = "First Service Attended"
	fldMemberAdmission    = "Admission Date"
	fldMemberOwner        = "Follow-Up Owner"
	fldMemberFollowUp     = "Follow-Up Status"
	fldMemberAttendance   = "Attendance"
	fldMemberVisits       = "Visits"
)

type MemberRepository struct {
	store Store
}

func NewMemberRepository(store Store) *MemberRepository {
	return &MemberRepository{store: store}
}

// FindByUniqueKey resolves a member by normalized phone or case-folded email,
// ORing the phone's stored variants because the store only filters on
// equality. Returns (nil, nil) when nothing matches; the first record the
// store returns wins, with no client-side tie-break.
func (r *MemberRepository) FindByUniqueKey(ctx context.Context, phone, email string) (*entity.Member, error) {
	var criteria []recordstore.Expr
	for _, variant := range entity.PhoneVariants(phone) {
		criteria = append(criteria, recordstore.Eq(fldMemberPhone, variant))
	}
	if folded := entity.NormalizeEmail(email); folded != "" {
		criteria = append(criteria, recordstore.EqFold(fldMemberEmail, folded))
	}
	if len(criteria) == 0 {
		return nil, nil
	}

	rec, err := r.store.FindFirst(ctx, TableMembers, recordstore.Or(criteria...))
	if err != nil {
		return nil, fmt.Errorf("resolve member by unique key: %w", err)
	}
	if rec == nil {
		return nil, nil
	}
	return memberFromRecord(rec), nil
}

func (r *MemberRepository) FindByID(ctx context.Context, id string) (*entity.Member, error) {
	rec, err := r.store.Get(ctx, TableMembers, id)
	if err != nil {
		if recordstore.IsNotFound(err) {
			return nil, entity.ErrMemberNotFound
		}
		return nil, err
	}
	return memberFromRecord(rec), nil
}

func (r *MemberRepository) Create(ctx context.Context, m *entity.Member) (*entity.Member, error) {
	fields := map[string]any{
		fldMemberName:     m.Name,
		fldMemberStatus:   string(m.Status),
		fldMemberSource:   string(m.Source),
		fldMemberFollowUp: m.FollowUpStatus,
	}
	if m.Phone != "" {
		fields[fldMemberPhone] = entity.NormalizePhone(m.Phone)
	}
	if m.Email != "" {
		fields[fldMemberEmail] = entity.NormalizeEmail(m.Email)
	}
	if m.Address != "" {
		fields[fldMemberAddress] = m.Address
	}
	if m.PostalCode != "" {
		fields[fldMemberPostalCode] = m.PostalCode
	}
	if m.FirstServiceAttended != "" {
		fields[fldMemberFirstService] = m.FirstServiceAttended
	}
	if !m.AdmissionDate.IsZero() {
		fields[fldMemberAdmission] = m.AdmissionDate.Format(dateLayout)
	}
	if m.FollowUpOwner != "" {
		fields[fldMemberOwner] = []string{m.FollowUpOwner}
	}

	rec, err := r.store.Create(ctx, TableMembers, fields)
	if err != nil {
		return nil, fmt.Errorf("create member: %w", err)
	}
	return memberFromRecord(rec), nil
}

func (r *MemberRepository) Update(ctx context.Context, id string, patch entity.MemberPatch) (*entity.Member, error) {
	fields := map[string]any{}
	if patch.Name != nil {
		fields[fldMemberName] = *patch.Name
	}
	if patch.Address != nil {
		fields[fldMemberAddress] = *patch.Address
	}
	if patch.PostalCode != nil {
		fields[fldMemberPostalCode] = *patch.PostalCode
	}
	if patch.Email != nil {
		fields[fldMemberEmail] = entity.NormalizeEmail(*patch.Email)
	}
	if patch.Phone != nil {
		fields[fldMemberPhone] = entity.NormalizePhone(*patch.Phone)
	}
	if patch.FirstServiceAttended != nil {
		fields[fldMemberFirstService] = *patch.FirstServiceAttended
	}
	if patch.Status != nil {
		fields[fldMemberStatus] = string(*patch.Status)
	}
	if patch.AdmissionDate != nil {
		fields[fldMemberAdmission] = patch.AdmissionDate.Format(dateLayout)
	}
	if patch.FollowUpOwner != nil {
		fields[fldMemberOwner] = []string{*patch.FollowUpOwner}
	}
	if patch.Attendance != nil {
		fields[fldMemberAttendance] = patch.Attendance
	}
	if patch.Visits != nil {
		fields[fldMemberVisits] = patch.Visits
	}
	if len(fields) == 0 {
		return r.FindByID(ctx, id)
	}

	rec, err := r.store.Update(ctx, TableMembers, id, fields)
	if err != nil {
		if recordstore.IsNotFound(err) {
			return nil, entity.ErrMemberNotFound
		}
		return nil, fmt.Errorf("update member %s: %w", id, err)
	}
	return memberFromRecord(rec), nil
}

// CountByStatus walks the whole Members table and tallies lifecycle
// statuses. Expensive; callers cache the result.
func (r *MemberRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	recs, err := r.store.List(ctx, TableMembers, recordstore.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("count members by status: %w", err)
	}
	counts := map[string]int{}
	for i := range recs {
		counts[getString(recs[i].Fields, fldMemberStatus)]++
	}
	return counts, nil
}

func memberFromRecord(rec *recordstore.Record) *entity.Member {
	f := rec.Fields
	owner := ""
	if refs := getStringSlice(f, fldMemberOwner); len(refs) > 0 {
		owner = refs[0]
	}
	return &entity.Member{
		ID:                   rec.ID,
		Name:                 getString(f, fldMemberName),
		Phone:                getString(f, fldMemberPhone),
		Email:                getString(f, fldMemberEmail),
		Status:               entity.MemberStatus(getString(f, fldMemberStatus)),
		Source:               entity.MemberSource(getString(f, fldMemberSource)),
		Address:              getString(f, fldMemberAddress),
		PostalCode:           getString(f, fldMemberPostalCode),
		FirstServiceAttended: getString(f, fldMemberFirstService),
		AdmissionDate:        getDate(f, fldMemberAdmission),
		FollowUpOwner:        owner,
		FollowUpStatus:       getString(f, fldMemberFollowUp),
		Attendance:           getStringSlice(f, fldMemberAttendance),
		Visits:               getStringSlice(f, fldMemberVisits),
		CreatedAt:            rec.CreatedTime,
	}
}
