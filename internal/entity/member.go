package entity

import (
	"errors"
	"time"
)

// Lifecycle status of a member. Promotions only ever move forward.
type MemberStatus string

const (
	StatusEvangelismContact MemberStatus = "Evangelism Contact"
	StatusFirstTimer        MemberStatus = "First Timer"
	StatusReturner          MemberStatus = "Returner"
	StatusMember            MemberStatus = "Member"
)

// Source provenance. Immutable after the member is created.
type MemberSource string

const (
	SourceEvangelism MemberSource = "Evangelism"
	SourceWalkIn     MemberSource = "Walk-In"
	SourceOnline     MemberSource = "Online"
	SourceReferral   MemberSource = "Referral"
)

type Member struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"` // stored normalized (digits, leading + kept)
	Email string `json:"email"` // stored lower-cased

	Status MemberStatus `json:"status"`
	Source MemberSource `json:"source"`

	Address              string `json:"address"`
	PostalCode           string `json:"postal_code"`
	FirstServiceAttended string `json:"first_service_attended"`

	AdmissionDate  time.Time `json:"admission_date"`
	FollowUpOwner  string    `json:"follow_up_owner"` // volunteer record ref
	FollowUpStatus string    `json:"follow_up_status"`

	// Linked record refs in the store. Treated as sets.
	Attendance []string `json:"attendance"`
	Visits     []string `json:"visits"`

	CreatedAt time.Time `json:"created_at"`
}

// MemberPatch carries the mergeable fields. Nil means "not supplied".
// Source is deliberately absent: provenance never changes after creation.
type MemberPatch struct {
	Name                 *string
	Address              *string
	PostalCode           *string
	Email                *string
	Phone                *string
	FirstServiceAttended *string

	Status        *MemberStatus
	AdmissionDate *time.Time
	FollowUpOwner *string

	Attendance []string // full replacement when non-nil
	Visits     []string
}

var (
	ErrMemberNotFound  = errors.New("member not found")
	ErrDuplicateMember = errors.New("member with same phone or email already exists")
)

func (m *Member) Validate() error {
	if m.Name == "" {
		return errors.New("name is required")
	}
	if m.Phone == "" && m.Email == "" {
		return errors.New("at least one contact field (phone or email) is required")
	}
	return nil
}
