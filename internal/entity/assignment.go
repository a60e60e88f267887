package entity

import (
	"errors"
	"time"
)

type AssignmentStatus string

const (
	AssignmentAssigned   AssignmentStatus = "Assigned"
	AssignmentInProgress AssignmentStatus = "In Progress"
	AssignmentCompleted  AssignmentStatus = "Completed"
	AssignmentReassigned AssignmentStatus = "Reassigned" // terminal, superseded by a new row
)

// IsActive reports whether the assignment counts against a volunteer's capacity.
func (s AssignmentStatus) IsActive() bool {
	return s == AssignmentAssigned || s == AssignmentInProgress
}

type FollowUpAssignment struct {
	ID           string           `json:"id"`
	MemberID     string           `json:"member_id"`
	VolunteerID  string           `json:"volunteer_id"`
	AssignedDate time.Time        `json:"assigned_date"`
	DueDate      time.Time        `json:"due_date"`
	Status       AssignmentStatus `json:"status"`
}

type Volunteer struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Capacity int    `json:"capacity"`
	Active   bool   `json:"active"`
}

// VolunteerCapacity is a point-in-time load snapshot.
type VolunteerCapacity struct {
	VolunteerID string `json:"volunteer_id"`
	Capacity    int    `json:"capacity"`
	Current     int    `json:"current"`
	Available   int    `json:"available"`
	HasCapacity bool   `json:"has_capacity"`
}

var ErrVolunteerNotFound = errors.New("volunteer not found")
