// Package policy decides, per role, whether an operation on a vacation
// request or employee record is permitted. All authorization goes through
// CanPerform so the rules live in exactly one place.
package policy

import (
	"github.com/eltonsantos/vacationmanager/internal/vacation/models"
)

// Relationship describes how the caller relates to the employee a request
// belongs to.
type Relationship string

const (
	// Self means the employee record is linked to the caller's own identity.
	Self Relationship = "SELF"
	// Manages means the employee reports to the caller.
	Manages Relationship = "MANAGES"
	// Unrelated means neither of the above.
	Unrelated Relationship = "UNRELATED"
)

// Operation is an action subject to the access policy.
type Operation string

const (
	OpRead   Operation = "READ"
	OpCreate Operation = "CREATE"
	OpUpdate Operation = "UPDATE"
	OpCancel Operation = "CANCEL"
	OpDecide Operation = "DECIDE"
)

// RelationshipTo derives the caller's relationship to an employee.
// Self wins over Manages: a manager who is also the request's owner is
// treated as the owner, which is what blocks self-approval.
func RelationshipTo(caller models.Identity, emp *models.Employee) Relationship {
	if emp.UserID != nil && *emp.UserID == caller.ID {
		return Self
	}
	if emp.ManagerID != nil && *emp.ManagerID == caller.ID {
		return Manages
	}
	return Unrelated
}

// CanPerform reports whether a caller with the given role and relationship
// may perform the operation.
//
// Admins may do anything. Managers may read and decide for direct reports
// but cannot create, edit, or cancel on a report's behalf, and cannot decide
// their own requests (Self is never Manages). Collaborators act only on
// their own records.
func CanPerform(role models.Role, rel Relationship, op Operation) bool {
	if role == models.RoleAdmin {
		return true
	}

	switch op {
	case OpRead:
		if role == models.RoleManager {
			return rel == Self || rel == Manages
		}
		return rel == Self
	case OpCreate, OpUpdate, OpCancel:
		return rel == Self
	case OpDecide:
		return role == models.RoleManager && rel == Manages
	}
	return false
}
