package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/xavierca1/membersync/internal/entity"
	"github.com/xavierca1/membersync/internal/infra/http/middleware"
	"github.com/xavierca1/membersync/internal/usecase"
)

type IntakeHandler struct {
	CreateUC *usecase.CreateMemberUseCase
	MergeUC  *usecase.MergeMembersUseCase
	AssignUC *usecase.AssignFollowUpUseCase
}

func NewIntakeHandler(
	createUC *usecase.CreateMemberUseCase,
	mergeUC *usecase.MergeMembersUseCase,
	assignUC *usecase.AssignFollowUpUseCase,
) *IntakeHandler {
	return &IntakeHandler{CreateUC: createUC, MergeUC: mergeUC, AssignUC: assignUC}
}

type intakeRequest struct {
	usecase.CreateMemberInput
	PreferredVolunteerID string `json:"preferred_volunteer_id"`
}

type intakeResponse struct {
	Member          *entity.Member             `json:"member"`
	WasNew          bool                       `json:"was_new"`
	Assignment      *entity.FollowUpAssignment `json:"assignment,omitempty"`
	WasReassigned   bool                       `json:"was_reassigned,omitempty"`
	Warning         string                     `json:"warning,omitempty"`
	AssignmentError string                     `json:"assignment_error,omitempty"`
}

// Handle runs the intake workflow: create-or-merge the identity, then assign
// follow-up. Each step is idempotent on its own, so a caller retrying the
// whole request after a partial failure converges instead of duplicating.
func (h *IntakeHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req intakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: usecase.CodeValidation, Message: "invalid JSON: " + err.Error()})
		return
	}

	resp := intakeResponse{}

	out, err := h.CreateUC.Execute(r.Context(), req.CreateMemberInput)
	switch {
	case err == nil:
		resp.Member = out.Member
		resp.WasNew = true
		middleware.RecordMemberCreated(string(out.Member.Source))
	case usecase.DomainCode(err) == usecase.CodeDuplicate:
		// Known identity: fold the event's fields into the existing member.
		merged, mergeErr := h.MergeUC.MergeFields(r.Context(), err.(*usecase.DomainError).Ref, usecase.MemberFieldPatch{
			Address:              req.Address,
			PostalCode:           req.PostalCode,
			Email:                req.Email,
			Phone:                req.Phone,
			FirstServiceAttended: req.FirstServiceAttended,
			Status:               req.Status,
		})
		if mergeErr != nil {
			writeError(w, mergeErr)
			return
		}
		resp.Member = merged
		middleware.RecordMemberMerged()
	default:
		writeError(w, err)
		return
	}

	if req.PreferredVolunteerID != "" {
		assignOut, assignErr := h.AssignUC.Assign(r.Context(), usecase.AssignInput{
			MemberID:    resp.Member.ID,
			PreferredID: req.PreferredVolunteerID,
		})
		if assignErr != nil {
			// Identity is committed; report the failed step instead of
			// failing the whole intake. Retrying the request finishes it.
			resp.AssignmentError = assignErr.Error()
		} else {
			resp.Assignment = assignOut.Assignment
			resp.WasReassigned = assignOut.WasReassigned
			resp.Warning = assignOut.Warning
			middleware.RecordAssignment(assignOut.WasReassigned)
			if assignOut.Warning != "" {
				middleware.RecordCapacityExhausted()
			}
		}
	}

	status := http.StatusOK
	if resp.WasNew {
		status = http.StatusCreated
	}
	writeJSON(w, status, resp)
}

// HandleMerge consolidates two member records (POST /members/merge).
func (h *IntakeHandler) HandleMerge(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TargetID string `json:"target_id"`
		SourceID string `json:"source_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: usecase.CodeValidation, Message: "invalid JSON: " + err.Error()})
		return
	}

	out, err := h.MergeUC.Merge(r.Context(), req.TargetID, req.SourceID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleRebalance re-checks a member's owner capacity (POST /followups/rebalance).
func (h *IntakeHandler) HandleRebalance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MemberID string `json:"member_id"`
		OwnerID  string `json:"owner_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: usecase.CodeValidation, Message: "invalid JSON: " + err.Error()})
		return
	}

	out, err := h.AssignUC.ProcessCapacityReassignment(r.Context(), req.MemberID, req.OwnerID)
	if err != nil {
		writeError(w, err)
		return
	}
	if out.Assignment != nil {
		middleware.RecordAssignment(out.WasReassigned)
	}
	writeJSON(w, http.StatusOK, out)
}
