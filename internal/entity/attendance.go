package entity

import "errors"

// Source tags accepted on attendance marks.
const (
	FormFirstTimer    = "first_timer_form"
	FormUsher         = "usher_form"
	FormOnlineCheckin = "online_checkin"
)

func IsKnownSourceForm(tag string) bool {
	switch tag {
	case FormFirstTimer, FormUsher, FormOnlineCheckin:
		return true
	}
	return false
}

type AttendanceMark struct {
	ID         string `json:"id"`
	MemberID   string `json:"member_id"`
	ServiceID  string `json:"service_id"`
	Present    bool   `json:"present"`
	SourceForm string `json:"source_form"`
}

var ErrMarkNotFound = errors.New("attendance mark not found")
