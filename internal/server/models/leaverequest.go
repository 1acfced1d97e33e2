package models

import (
	"time"

	"github.com/dmitrijs2005/leavedesk/internal/common"
)

// LeaveType categorizes a leave request.
type LeaveType string

const (
	LeavePersonal LeaveType = "Personal"
	LeaveSick     LeaveType = "Sick"
	LeaveOfficial LeaveType = "Official"
)

// ParseLeaveType validates a leave type string coming from an external caller.
func ParseLeaveType(s string) (LeaveType, error) {
	switch LeaveType(s) {
	case LeavePersonal, LeaveSick, LeaveOfficial:
		return LeaveType(s), nil
	}
	return "", common.ErrorValidation
}

// LeaveStatus is the lifecycle state of a request. A request is created
// Waiting; Approved and Rejected are terminal.
type LeaveStatus string

const (
	StatusWaiting  LeaveStatus = "Waiting"
	StatusApproved LeaveStatus = "Approved"
	StatusRejected LeaveStatus = "Rejected"
)

// transitions is the full transition table of the status state machine.
var transitions = map[LeaveStatus][]LeaveStatus{
	StatusWaiting:  {StatusApproved, StatusRejected},
	StatusApproved: {},
	StatusRejected: {},
}

// CanTransition reports whether moving from s to next is a legal transition.
func (s LeaveStatus) CanTransition(next LeaveStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// LeaveRequest is a single row in the ledger. ManagerID is snapshotted from
// the employee's manager at submission time and never recomputed.
type LeaveRequest struct {
	ID                int64
	EmployeeID        int64
	ManagerID         *int64
	LeaveType         LeaveType
	Comment           string
	Status            LeaveStatus
	DateOfApplication time.Time
	CreatedAt         time.Time
}

// ManagerLeaveRequest is a ledger row joined with the submitting employee's
// name, as shown on the manager's review listing.
type ManagerLeaveRequest struct {
	LeaveRequest
	EmployeeName string
}
