package usecase

import "github.com/xavierca1/membersync/internal/entity"

type CreateMemberInput struct {
	Name                 string `json:"name"`
	Phone                string `json:"phone"`
	Email                string `json:"email"`
	Address              string `json:"address"`
	PostalCode           string `json:"postal_code"`
	FirstServiceAttended string `json:"first_service_attended"`
	Source               string `json:"source"`
	Status               string `json:"status"`
}

type CreateMemberOutput struct {
	Member *entity.Member `json:"member"`
}

// MemberFieldPatch is a partial update from an intake channel. Empty strings
// mean "not supplied"; intake forms never carry meaningful empty values.
type MemberFieldPatch struct {
	Address              string `json:"address"`
	PostalCode           string `json:"postal_code"`
	Email                string `json:"email"`
	Phone                string `json:"phone"`
	FirstServiceAttended string `json:"first_service_attended"`
	Status               string `json:"status"`
}

type MergeMembersOutput struct {
	Target    *entity.Member `json:"target"`
	Repointed int            `json:"repointed"`
}

type MarkAttendanceInput struct {
	MemberID   string `json:"member_id"`
	ServiceID  string `json:"service_id"`
	SourceForm string `json:"source_form"`
}

type MarkAttendanceOutput struct {
	Created bool                   `json:"created"` // false when an existing mark was updated
	Mark    *entity.AttendanceMark `json:"mark"`
}

type AssignInput struct {
	MemberID    string `json:"member_id"`
	PreferredID string `json:"preferred_volunteer_id"`
	DueInDays   int    `json:"due_in_days"` // 0 means the configured default
}

type AssignOutput struct {
	Assignment    *entity.FollowUpAssignment `json:"assignment"`
	WasReassigned bool                       `json:"was_reassigned"`
	ReasonCode    int                        `json:"reason_code,omitempty"`
	Warning       string                     `json:"warning,omitempty"`
}
