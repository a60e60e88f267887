package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/xavierca1/membersync/internal/entity"
)

// CreateMemberUseCase registers a new identity, deduplicating on the unique
// key (normalized phone OR case-folded email). Creation is serialized per
// unique key through an in-process advisory lock; two separate instances can
// still race, the store offers nothing to fence that.
type CreateMemberUseCase struct {
	Members MemberRepositoryInterface

	locks *keyedMutex
	now   func() time.Time
}

func NewCreateMemberUseCase(members MemberRepositoryInterface) *CreateMemberUseCase {
	return &CreateMemberUseCase{
		Members: members,
		locks:   newKeyedMutex(),
		now:     time.Now,
	}
}

func (uc *CreateMemberUseCase) Execute(ctx context.Context, input CreateMemberInput) (*CreateMemberOutput, error) {
	if errs := ValidateCreateMemberInput(input); len(errs) > 0 {
		return nil, &DomainError{Code: CodeValidation, Message: validationMessage(errs)}
	}

	unlock := uc.locks.Lock(uniqueKey(input.Phone, input.Email))
	defer unlock()

	existing, err := uc.Members.FindByUniqueKey(ctx, input.Phone, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &DomainError{
			Code:    CodeDuplicate,
			Message: fmt.Sprintf("a member with this phone or email already exists (%s)", existing.ID),
			Ref:     existing.ID,
		}
	}

	member := &entity.Member{
		Name:                 input.Name,
		Phone:                entity.NormalizePhone(input.Phone),
		Email:                entity.NormalizeEmail(input.Email),
		Status:               initialStatus(input),
		Source:               initialSource(input),
		Address:              input.Address,
		PostalCode:           input.PostalCode,
		FirstServiceAttended: input.FirstServiceAttended,
		AdmissionDate:        uc.now(),
		FollowUpStatus:       "Pending",
	}

	created, err := uc.Members.Create(ctx, member)
	if err != nil {
		return nil, err
	}
	return &CreateMemberOutput{Member: created}, nil
}

func uniqueKey(phone, email string) string {
	return entity.CanonicalPhone(phone) + "|" + entity.NormalizeEmail(email)
}

func initialStatus(input CreateMemberInput) entity.MemberStatus {
	if input.Status != "" {
		return entity.MemberStatus(input.Status)
	}
	if entity.MemberSource(input.Source) == entity.SourceEvangelism {
		return entity.StatusEvangelismContact
	}
	return entity.StatusFirstTimer
}

func initialSource(input CreateMemberInput) entity.MemberSource {
	if input.Source != "" {
		return entity.MemberSource(input.Source)
	}
	return entity.SourceWalkIn
}

// MergeMembersUseCase reconciles partial records collected across intake
// channels. All of its operations are non-destructive: merges only fill
// empty fields, linked sets only grow, and superseded records stay in place.
type MergeMembersUseCase struct {
	Members MemberRepositoryInterface
	Links   LinkRepointerInterface
}

func NewMergeMembersUseCase(members MemberRepositoryInterface, links LinkRepointerInterface) *MergeMembersUseCase {
	return &MergeMembersUseCase{Members: members, Links: links}
}

// MergeFields applies a patch to the whitelisted fields, writing a value only
// where the target is currently empty. Status is the one exception: lifecycle
// promotion sets it unconditionally. Source provenance is never touched.
func (uc *MergeMembersUseCase) MergeFields(ctx context.Context, targetID string, patch MemberFieldPatch) (*entity.Member, error) {
	target, err := uc.Members.FindByID(ctx, targetID)
	if err != nil {
		if err == entity.ErrMemberNotFound {
			return nil, &DomainError{Code: CodeMemberNotFound, Message: "member not found", Ref: targetID}
		}
		return nil, err
	}

	p := fillIfEmptyPatch(target, patch)
	if patch.Status != "" {
		if !isKnownStatus(patch.Status) {
			return nil, &DomainError{Code: CodeValidation, Message: "status is not a recognized lifecycle status"}
		}
		status := entity.MemberStatus(patch.Status)
		p.Status = &status
	}
	if isEmptyPatch(p) {
		return target, nil
	}
	return uc.Members.Update(ctx, targetID, p)
}

// Merge folds the source member into the target: earliest admission date
// wins, linked sets union, and every foreign key pointing at the source is
// re-pointed to the target. The source row itself is kept (members are never
// deleted). Fill-if-empty, min and union are all order-independent, so
// repeated or re-ordered merges converge on the same state.
func (uc *MergeMembersUseCase) Merge(ctx context.Context, targetID, sourceID string) (*MergeMembersOutput, error) {
	if targetID == sourceID {
		return nil, &DomainError{Code: CodeValidation, Message: "cannot merge a member into itself"}
	}

	target, err := uc.Members.FindByID(ctx, targetID)
	if err != nil {
		if err == entity.ErrMemberNotFound {
			return nil, &DomainError{Code: CodeMemberNotFound, Message: "merge target not found", Ref: targetID}
		}
		return nil, err
	}
	source, err := uc.Members.FindByID(ctx, sourceID)
	if err != nil {
		if err == entity.ErrMemberNotFound {
			return nil, &DomainError{Code: CodeMemberNotFound, Message: "merge source not found", Ref: sourceID}
		}
		return nil, err
	}

	p := fillIfEmptyPatch(target, MemberFieldPatch{
		Address:              source.Address,
		PostalCode:           source.PostalCode,
		Email:                source.Email,
		Phone:                source.Phone,
		FirstServiceAttended: source.FirstServiceAttended,
	})

	if !source.AdmissionDate.IsZero() &&
		(target.AdmissionDate.IsZero() || source.AdmissionDate.Before(target.AdmissionDate)) {
		d := source.AdmissionDate
		p.AdmissionDate = &d
	}
	if union, grew := unionStrict(target.Attendance, source.Attendance); grew {
		p.Attendance = union
	}
	if union, grew := unionStrict(target.Visits, source.Visits); grew {
		p.Visits = union
	}

	merged := target
	if !isEmptyPatch(p) {
		merged, err = uc.Members.Update(ctx, targetID, p)
		if err != nil {
			return nil, err
		}
	}

	repointed, err := uc.Links.RepointMember(ctx, sourceID, targetID)
	if err != nil {
		// The field merge already committed; re-running the whole merge is
		// safe and finishes the re-pointing.
		return nil, fmt.Errorf("merge committed but re-pointing failed (retry the merge): %w", err)
	}

	return &MergeMembersOutput{Target: merged, Repointed: repointed}, nil
}

// fillIfEmptyPatch maps the whitelist {address, postal code, email, phone,
// first service attended}; a patch value lands only on an empty target field.
func fillIfEmptyPatch(target *entity.Member, patch MemberFieldPatch) entity.MemberPatch {
	var p entity.MemberPatch
	if target.Address == "" && patch.Address != "" {
		v := patch.Address
		p.Address = &v
	}
	if target.PostalCode == "" && patch.PostalCode != "" {
		v := patch.PostalCode
		p.PostalCode = &v
	}
	if target.Email == "" && patch.Email != "" {
		v := patch.Email
		p.Email = &v
	}
	if target.Phone == "" && patch.Phone != "" {
		v := patch.Phone
		p.Phone = &v
	}
	if target.FirstServiceAttended == "" && patch.FirstServiceAttended != "" {
		v := patch.FirstServiceAttended
		p.FirstServiceAttended = &v
	}
	return p
}

func isEmptyPatch(p entity.MemberPatch) bool {
	return p.Name == nil && p.Address == nil && p.PostalCode == nil && p.Email == nil &&
		p.Phone == nil && p.FirstServiceAttended == nil && p.Status == nil &&
		p.AdmissionDate == nil && p.FollowUpOwner == nil &&
		p.Attendance == nil && p.Visits == nil
}

// unionStrict unions two ref sets, reporting whether the result is strictly
// larger than a. Order of a is preserved; new refs append in b's order.
func unionStrict(a, b []string) ([]string, bool) {
	seen := make(map[string]bool, len(a))
	out := make([]string, 0, len(a)+len(b))
	for _, ref := range a {
		if !seen[ref] {
			seen[ref] = true
			out = append(out, ref)
		}
	}
	grew := false
	for _, ref := range b {
		if !seen[ref] {
			seen[ref] = true
			out = append(out, ref)
			grew = true
		}
	}
	return out, grew
}
